// Copyright 2015 Google Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package lexer implements the classification engine that turns a
// validated source buffer into an ordered stream of tokens. Each word is
// tried against a fixed priority ladder (command, qualifier bracket, L,
// QR, R, LR, PL, literal, special, identifier); the first predicate that
// matches emits one or more tokens and advances the cursor.
package lexer

import (
	"fmt"

	"github.com/colonlang/pivot/pkg/arena"
	"github.com/colonlang/pivot/pkg/lexutil"
	"github.com/colonlang/pivot/pkg/source"
	"github.com/colonlang/pivot/pkg/token"
)

const tokenChunkSize = 64

type lexer struct {
	content []byte
	tokens  *arena.Arena[token.Token]

	previousIsCommand  bool
	previousIsModifier bool
	countLParenNest    int
}

// Lex runs the classification engine over src and returns the token
// stream. src must already have passed the error pre-scan: the lexer
// assumes globally well-formed input and only reasons locally.
func Lex(src *source.Source) ([]token.Token, error) {
	lx := &lexer{
		content: src.Content,
		tokens:  arena.New[token.Token](tokenChunkSize, 0),
	}
	if err := lx.run(); err != nil {
		lx.tokens.Destroy()
		return nil, err
	}
	out := make([]token.Token, lx.tokens.Len())
	for i := range out {
		out[i] = *lx.tokens.At(i)
	}
	return out, nil
}

func (lx *lexer) at(i int) byte {
	if i < 0 || i >= len(lx.content) {
		return 0
	}
	return lx.content[i]
}

// identEnd returns the end of the maximal identifier-char run starting at
// pos, which must already satisfy IsIdentifierStart.
func (lx *lexer) identEnd(pos int) int {
	i := pos + 1
	for lexutil.IsIdentifierChar(lx.at(i)) {
		i++
	}
	return i
}

func (lx *lexer) emit(tok token.Token) error {
	idx, ok := lx.tokens.Advance()
	if !ok {
		return fmt.Errorf("lexer: token allocator exhausted")
	}
	*lx.tokens.At(idx) = tok
	return nil
}

func (lx *lexer) run() error {
	// Index zero is the leading NO sentinel; the parser starts reading at
	// index 1.
	if _, ok := lx.tokens.Advance(); !ok {
		return fmt.Errorf("lexer: token allocator exhausted")
	}

	pos := 0
	for {
		pos = lx.skipBlankAndComments(pos)
		if lx.at(pos) == 0 {
			break
		}
		newPos, matched, err := lx.classifyAt(pos)
		if err != nil {
			return err
		}
		if !matched {
			return fmt.Errorf("lexer: unrecognised token at byte %d", pos)
		}
		pos = newPos
	}

	// Trailing NO sentinel.
	if _, ok := lx.tokens.Advance(); !ok {
		return fmt.Errorf("lexer: token allocator exhausted")
	}
	return nil
}

// skipBlankAndComments advances past whitespace and any number of
// comments, stopping only once neither a line nor a block comment begins
// at the current position.
func (lx *lexer) skipBlankAndComments(pos int) int {
	for {
		for lexutil.IsSpace(lx.at(pos)) {
			pos++
		}
		if lx.at(pos) == '!' && lx.at(pos+1) == '-' && lx.at(pos+2) == '-' {
			pos += 3
			for lx.at(pos) != '\n' && lx.at(pos) != 0 {
				pos++
			}
			continue
		}
		if lx.at(pos) == '|' && lx.at(pos+1) == '-' && lx.at(pos+2) == '-' {
			pos += 3
			for lx.at(pos) != 0 && !(lx.at(pos) == '-' && lx.at(pos+1) == '-' && lx.at(pos+2) == '|') {
				pos++
			}
			pos += 3
			continue
		}
		return pos
	}
}

// classifyAt tries the priority ladder, in order, at pos.
func (lx *lexer) classifyAt(pos int) (newPos int, matched bool, err error) {
	if p, ok, e := lx.tryCommand(pos); e != nil || ok {
		return p, ok, e
	}
	if p, ok, e := lx.tryQualifier(pos); e != nil || ok {
		return p, ok, e
	}
	if p, ok := lx.tryL(pos); ok {
		return p, true, nil
	}
	if p, ok, e := lx.tryQR(pos); e != nil || ok {
		return p, ok, e
	}
	if p, ok := lx.tryR(pos); ok {
		return p, true, nil
	}
	if p, ok := lx.tryLR(pos); ok {
		return p, true, nil
	}
	if p, ok := lx.tryPL(pos); ok {
		return p, true, nil
	}
	if p, ok, e := lx.tryLiteral(pos); e != nil || ok {
		return p, ok, e
	}
	if p, ok, e := lx.trySpecial(pos); e != nil || ok {
		return p, ok, e
	}
	if p, ok := lx.tryIdentifier(pos); ok {
		return p, true, nil
	}
	return pos, false, nil
}

// tryCommand: priority 1.
func (lx *lexer) tryCommand(pos int) (newPos int, matched bool, err error) {
	c := lx.at(pos)
	if !lexutil.IsCommand(c) {
		return pos, false, nil
	}
	subtype, _ := token.PunctuationSubtype(c)
	if err := lx.emit(token.NewSingleRange(token.COMMAND, subtype, pos, pos+1)); err != nil {
		return pos, false, err
	}
	lx.previousIsCommand = true
	lx.previousIsModifier = false
	return pos + 1, true, nil
}

// parseQualifierBody parses a whitespace-separated run of qualifier words
// between the '[' at openBracket and the closing ']', OR-ing each word's
// flag via lookup. It fails if any word is unrecognised, or the bracket
// is empty or unterminated before NUL.
func (lx *lexer) parseQualifierBody(openBracket int, lookup func(string) (token.Subtype, bool)) (flags token.Subtype, bodyStart, bodyEnd, afterClose int, ok bool) {
	i := openBracket + 1
	bodyStart = i
	any := false
	for {
		for lexutil.IsSpace(lx.at(i)) {
			i++
		}
		if lx.at(i) == ']' {
			break
		}
		wordStart := i
		for lexutil.IsIdentifierChar(lx.at(i)) {
			i++
		}
		if wordStart == i {
			return 0, 0, 0, 0, false
		}
		flag, known := lookup(string(lx.content[wordStart:i]))
		if !known {
			return 0, 0, 0, 0, false
		}
		flags |= flag
		bodyEnd = i
		any = true
	}
	if !any {
		return 0, 0, 0, 0, false
	}
	return flags, bodyStart, bodyEnd, i + 1, true
}

// tryQualifier: priority 2 (QL), merging into QLR when a QR continuation
// immediately follows.
func (lx *lexer) tryQualifier(pos int) (newPos int, matched bool, err error) {
	if lx.at(pos) != '[' {
		return pos, false, nil
	}
	if pos > 0 && lexutil.IsGraphic(lx.at(pos-1)) {
		return pos, false, nil
	}
	flags, bodyStart, bodyEnd, afterClose, ok := lx.parseQualifierBody(pos, token.QLWord)
	if !ok {
		return pos, false, nil
	}

	if lx.at(afterClose) == ':' {
		next := lx.at(afterClose + 1)
		if next == '[' {
			rFlags, rStart, rEnd, rAfterClose, rOk := lx.parseQualifierBody(afterClose+1, token.QRWord)
			if rOk {
				if err := lx.emit(token.NewLR(token.QLR, flags|rFlags, bodyStart, bodyEnd, rStart, rEnd)); err != nil {
					return pos, false, err
				}
				lx.previousIsCommand, lx.previousIsModifier = false, false
				return rAfterClose, true, nil
			}
		} else if !lexutil.IsGraphic(next) {
			if err := lx.emit(token.NewL(token.QL, flags, bodyStart, bodyEnd)); err != nil {
				return pos, false, err
			}
			lx.previousIsCommand, lx.previousIsModifier = false, false
			return afterClose + 1, true, nil
		}
	}

	if err := lx.emit(token.NewL(token.QL, flags, bodyStart, bodyEnd)); err != nil {
		return pos, false, err
	}
	lx.previousIsCommand, lx.previousIsModifier = false, false
	return afterClose, true, nil
}

// tryL: priority 3. L only claims the "dangling colon" shape — a name
// immediately followed by ':' then a non-graphic character, which the
// pre-scan accepts (a colon with a graphic left neighbour is never lonely)
// and which the lexer absorbs rather than emitting a stray COLON_LONELY. A
// name with no adjacent colon falls through to IDENTIFIER; a name
// followed by ':' then a graphic character is LR's shape, not L's.
func (lx *lexer) tryL(pos int) (newPos int, matched bool) {
	if !lexutil.IsIdentifierStart(lx.at(pos)) {
		return pos, false
	}
	if lx.previousIsCommand || lx.previousIsModifier {
		return pos, false
	}
	if pos > 0 && lx.at(pos-1) == ':' {
		return pos, false
	}
	end := lx.identEnd(pos)
	if lx.at(end) != ':' {
		return pos, false
	}
	if lexutil.IsGraphic(lx.at(end + 1)) {
		return pos, false
	}
	if err := lx.emit(token.NewL(token.L, token.NoSubtype, pos, end)); err != nil {
		return pos, false
	}
	lx.previousIsCommand, lx.previousIsModifier = false, false
	return end + 1, true
}

// tryQR: priority 4, for a QR that does not follow a QL bracket.
func (lx *lexer) tryQR(pos int) (newPos int, matched bool, err error) {
	if lx.at(pos) != ':' || lx.at(pos+1) != '[' {
		return pos, false, nil
	}
	flags, bodyStart, bodyEnd, afterClose, ok := lx.parseQualifierBody(pos+1, token.QRWord)
	if !ok {
		return pos, false, nil
	}
	if err := lx.emit(token.NewR(token.QR, flags, bodyStart, bodyEnd)); err != nil {
		return pos, false, err
	}
	lx.previousIsCommand, lx.previousIsModifier = false, false
	return afterClose, true, nil
}

// tryR: priority 5, including the trailing operator-modifier chain and
// the bare-continuation case after a modifier cluster.
func (lx *lexer) tryR(pos int) (newPos int, matched bool) {
	start := -1
	if lx.at(pos) == ':' && lexutil.IsIdentifierStart(lx.at(pos+1)) {
		start = pos + 1
	} else if lx.previousIsModifier && lexutil.IsIdentifierStart(lx.at(pos)) {
		start = pos
	}
	if start < 0 {
		return pos, false
	}
	end := lx.identEnd(start)
	if err := lx.emit(token.NewR(token.R, token.NoSubtype, start, end)); err != nil {
		return pos, false
	}
	cur := end
	consumedModifier := false
	for lexutil.IsOperatorModifier(lx.at(cur)) {
		subtype, _ := token.PunctuationSubtype(lx.at(cur))
		if err := lx.emit(token.NewR(token.R, subtype, cur, cur+1)); err != nil {
			return pos, false
		}
		cur++
		consumedModifier = true
	}
	lx.previousIsCommand = false
	lx.previousIsModifier = consumedModifier
	return cur, true
}

// tryLR: priority 6 (QLR is folded into tryQualifier, so this is the next
// ladder step after R): name:name glued with no intervening whitespace.
func (lx *lexer) tryLR(pos int) (newPos int, matched bool) {
	if !lexutil.IsIdentifierStart(lx.at(pos)) {
		return pos, false
	}
	lEnd := lx.identEnd(pos)
	if lx.at(lEnd) != ':' {
		return pos, false
	}
	rStart := lEnd + 1
	if !lexutil.IsIdentifierStart(lx.at(rStart)) {
		return pos, false
	}
	rEnd := lx.identEnd(rStart)
	if err := lx.emit(token.NewLR(token.LR, token.NoSubtype, pos, lEnd, rStart, rEnd)); err != nil {
		return pos, false
	}
	lx.previousIsCommand, lx.previousIsModifier = false, false
	return rEnd, true
}

// tryPL: priority 7 in this implementation's ladder (period-left dotted
// fragment).
func (lx *lexer) tryPL(pos int) (newPos int, matched bool) {
	if lx.at(pos) != '.' || !lexutil.IsIdentifierStart(lx.at(pos+1)) {
		return pos, false
	}
	start := pos + 1
	end := lx.identEnd(start)
	if err := lx.emit(token.NewL(token.PL, token.NoSubtype, start, end)); err != nil {
		return pos, false
	}
	lx.previousIsCommand, lx.previousIsModifier = false, false
	return end, true
}

// tryLiteral: priority 8 (number, string, character).
func (lx *lexer) tryLiteral(pos int) (newPos int, matched bool, err error) {
	c := lx.at(pos)
	switch {
	case lexutil.IsDigit(c):
		return lx.tryNumber(pos)
	case c == '`':
		return lx.tryString(pos)
	case c == '\'':
		return lx.tryChar(pos)
	default:
		return pos, false, nil
	}
}

func (lx *lexer) tryNumber(pos int) (newPos int, matched bool, err error) {
	i := pos + 1
	if lx.at(pos) == '0' {
		switch lx.at(i) {
		case 'B', 'o', 'x':
			i++
			digitsStart := i
			for lexutil.IsXDigit(lx.at(i)) || lx.at(i) == '`' {
				i++
			}
			if i == digitsStart {
				return pos, false, fmt.Errorf("lexer: malformed number literal at byte %d: no digits after base marker", pos)
			}
		}
	}
	for lexutil.IsXDigit(lx.at(i)) || lx.at(i) == '`' {
		i++
	}
	if i > pos && lx.at(i-1) == '`' {
		return pos, false, fmt.Errorf("lexer: malformed number literal at byte %d: trailing separator", pos)
	}
	follower := lx.at(i)
	if !(lexutil.IsSpace(follower) || follower == 0 || lexutil.IsSpecial(follower)) {
		return pos, false, fmt.Errorf("lexer: malformed number literal at byte %d: invalid follower", pos)
	}
	if err := lx.emit(token.NewSingleRange(token.LITERAL, token.LiteralNumber, pos, i)); err != nil {
		return pos, false, err
	}
	lx.previousIsCommand, lx.previousIsModifier = false, false
	return i, true, nil
}

func (lx *lexer) tryString(pos int) (newPos int, matched bool, err error) {
	i := pos + 1
	for lx.at(i) != '`' {
		if lx.at(i) == 0 {
			return pos, false, fmt.Errorf("lexer: unclosed string literal starting at byte %d", pos)
		}
		i++
	}
	if err := lx.emit(token.NewSingleRange(token.LITERAL, token.LiteralString, pos+1, i)); err != nil {
		return pos, false, err
	}
	lx.previousIsCommand, lx.previousIsModifier = false, false
	return i + 1, true, nil
}

func (lx *lexer) tryChar(pos int) (newPos int, matched bool, err error) {
	i := pos + 1
	for lx.at(i) != '\'' {
		if lx.at(i) == 0 {
			return pos, false, fmt.Errorf("lexer: unclosed character literal starting at byte %d", pos)
		}
		i++
	}
	if err := lx.emit(token.NewSingleRange(token.LITERAL, token.LiteralCharacter, pos+1, i)); err != nil {
		return pos, false, err
	}
	lx.previousIsCommand, lx.previousIsModifier = false, false
	return i + 1, true, nil
}

// trySpecial: priority 9, the colon/leveling/paren-rebalance sub-cases
// followed by a bare SPECIAL.
func (lx *lexer) trySpecial(pos int) (newPos int, matched bool, err error) {
	c := lx.at(pos)
	if !lexutil.IsSpecial(c) {
		return pos, false, nil
	}

	if c == ':' {
		next := lx.at(pos + 1)

		if lexutil.IsOperatorLeveling(next) || next == '[' {
			i := pos + 1
			for lexutil.IsOperatorLeveling(lx.at(i)) || lexutil.IsBracket(lx.at(i)) {
				subtype, _ := token.PunctuationSubtype(lx.at(i))
				if err := lx.emit(token.NewR(token.R, subtype, i, i+1)); err != nil {
					return pos, false, err
				}
				i++
			}
			if i > pos+1 {
				lx.previousIsCommand = false
				lx.previousIsModifier = true
				return i, true, nil
			}
		}

		if next == '(' {
			if err := lx.emit(token.NewR(token.R, token.LParenthesis, pos+1, pos+2)); err != nil {
				return pos, false, err
			}
			lx.previousIsCommand, lx.previousIsModifier = false, false
			return pos + 2, true, nil
		}
		if next == '`' {
			if err := lx.emit(token.NewR(token.R, token.GraveAccent, pos+1, pos+2)); err != nil {
				return pos, false, err
			}
			lx.previousIsCommand, lx.previousIsModifier = false, false
			return pos + 2, true, nil
		}

		if err := lx.emit(token.NewSingleRange(token.COLON_LONELY, token.NoSubtype, pos, pos+1)); err != nil {
			return pos, false, err
		}
		lx.previousIsCommand, lx.previousIsModifier = false, false
		return pos + 1, true, nil
	}

	if lexutil.IsOperatorLeveling(c) || c == '[' {
		i := pos
		for lexutil.IsOperatorLeveling(lx.at(i)) || lexutil.IsBracket(lx.at(i)) {
			i++
		}
		if lx.at(i) == ':' {
			for j := pos; j < i; j++ {
				subtype, _ := token.PunctuationSubtype(lx.at(j))
				if err := lx.emit(token.NewL(token.L, subtype, j, j+1)); err != nil {
					return pos, false, err
				}
			}
			lx.previousIsCommand = false
			lx.previousIsModifier = true
			return i, true, nil
		}
	}

	if c == ')' {
		if lx.countLParenNest == 0 {
			if err := lx.emit(token.NewR(token.R, token.RParenthesis, pos, pos+1)); err != nil {
				return pos, false, err
			}
			lx.previousIsCommand, lx.previousIsModifier = false, false
			return pos + 1, true, nil
		}
		lx.countLParenNest--
	} else if c == '(' {
		lx.countLParenNest++
	}

	subtype, _ := token.PunctuationSubtype(c)
	if err := lx.emit(token.NewSingleRange(token.SPECIAL, subtype, pos, pos+1)); err != nil {
		return pos, false, err
	}
	lx.previousIsCommand, lx.previousIsModifier = false, false
	return pos + 1, true, nil
}

// tryIdentifier: priority 10, the final fallback for a bare name.
func (lx *lexer) tryIdentifier(pos int) (newPos int, matched bool) {
	if !lexutil.IsIdentifierStart(lx.at(pos)) {
		return pos, false
	}
	end := lx.identEnd(pos)
	if err := lx.emit(token.NewSingleRange(token.IDENTIFIER, token.NoSubtype, pos, end)); err != nil {
		return pos, false
	}
	lx.previousIsCommand, lx.previousIsModifier = false, false
	return end, true
}

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

package parser

import (
	"fmt"

	"github.com/colonlang/pivot/pkg/arena"
	"github.com/colonlang/pivot/pkg/token"
)

const nodeChunkSize = 64

// Error reports a fatal parser failure: an unmatched scope or a
// malformed identification block.
type Error struct {
	TokenIndex int
	Reason     string
}

func (e *Error) Error() string {
	return fmt.Sprintf("parser: token %d: %s", e.TokenIndex, e.Reason)
}

type parser struct {
	tokens []token.Token
	nodes  *arena.Arena[Node]

	// scopeStack holds the node index of each in-progress SCOPE_START,
	// outermost first.
	scopeStack []int
}

// Parse consumes tokens (as produced by pkg/lexer, including its leading
// and trailing NO sentinels) and returns the flat node array.
func Parse(tokens []token.Token) ([]Node, error) {
	p := &parser{
		tokens: tokens,
		nodes:  arena.New[Node](nodeChunkSize, 0),
	}
	if err := p.run(); err != nil {
		p.nodes.Destroy()
		return nil, err
	}
	out := make([]Node, p.nodes.Len())
	for i := range out {
		out[i] = *p.nodes.At(i)
	}
	return out, nil
}

func (p *parser) emit(n Node) (int, error) {
	idx, ok := p.nodes.Advance()
	if !ok {
		return 0, fmt.Errorf("parser: node allocator exhausted")
	}
	*p.nodes.At(idx) = n
	return idx, nil
}

// isNameForm reports whether tok can name an IDENTIFICATION. Because the
// lexer disqualifies its plain-L branch right after a COMMAND (see
// pkg/lexer's previousIsCommand handling), the name immediately following
// a COMMAND is never a plain name L: a glued "name:name" becomes a single
// LR token, and a bare name becomes IDENTIFIER (a name followed by ':' and
// whitespace is also an IDENTIFIER, its colon a separate COLON_LONELY).
// An L token is accepted as a name as well.
func isNameForm(tok *token.Token) bool {
	switch tok.Type {
	case token.L, token.LR, token.IDENTIFIER:
		return true
	default:
		return false
	}
}

func (p *parser) run() error {
	i := 1 // tokens[0] is the lexer's leading NO sentinel.
	for i < len(p.tokens) && p.tokens[i].Type != token.NO {
		tok := &p.tokens[i]

		switch {
		case tok.Type == token.SPECIAL && tok.Subtype == token.LCBrace:
			idx, err := p.emit(newScopeStart())
			if err != nil {
				return err
			}
			p.scopeStack = append(p.scopeStack, idx)
			i++

		case tok.Type == token.SPECIAL && tok.Subtype == token.RCBrace:
			if len(p.scopeStack) == 0 {
				return &Error{i, "unmatched scope close"}
			}
			startIdx := p.scopeStack[len(p.scopeStack)-1]
			p.scopeStack = p.scopeStack[:len(p.scopeStack)-1]
			endIdx, err := p.emit(newScopeEnd())
			if err != nil {
				return err
			}
			p.nodes.At(startIdx).Child = endIdx
			i++

		case tok.Type == token.COMMAND:
			next, err := p.parseIdentification(i)
			if err != nil {
				return err
			}
			i = next

		default:
			i++
		}
	}

	if len(p.scopeStack) != 0 {
		return &Error{i, "unmatched scope open"}
	}
	return nil
}

// parseIdentification consumes the COMMAND token at i, the L-form name
// that must follow it, and any recognised children, returning the index
// of the next unconsumed token.
func (p *parser) parseIdentification(i int) (int, error) {
	command := &p.tokens[i]
	i++

	p.nodes.Save()

	if i >= len(p.tokens) || !isNameForm(&p.tokens[i]) {
		p.nodes.Restore()
		return 0, &Error{i, "command not followed by a valid identification name"}
	}
	nameTok := &p.tokens[i]
	i++

	commandBit := CommandHash
	if command.Subtype == token.At {
		commandBit = CommandAt
	}
	typeBit := TypeDeclaration
	if command.Subtype == token.At {
		typeBit = TypeInitialization
	}

	idIdx, err := p.emit(newIdentification(commandBit|typeBit, nameTok))
	if err != nil {
		p.nodes.Restore()
		return 0, err
	}
	p.nodes.Clear()

	firstChild := noIndex
	var lastChild int
	for i < len(p.tokens) {
		childNode, consumed, ok := p.classifyChild(&p.tokens[i])
		if !ok {
			break
		}
		childIdx, err := p.emit(childNode)
		if err != nil {
			return 0, err
		}
		if firstChild == noIndex {
			firstChild = childIdx
		} else {
			p.nodes.At(lastChild).Child1 = childIdx
		}
		lastChild = childIdx
		i += consumed
	}
	p.nodes.At(idIdx).Child = firstChild

	return i, nil
}

// classifyChild maps a following token's shape to the child kind it
// introduces: a bare R token is an unnamed-scope LOCK, a PL token is a
// named PARAMETER, and a bare period SPECIAL (a '.' that failed to form a
// PL because no letter followed it) is a PARAMETER_NONE. No token
// shape unambiguously identifies a RETURN_NONE, RETURN_LOCK or
// PARAMETER_LOCK, so those subtypes exist on the Node model for callers
// and dumps that construct them directly, but classifyChild does not
// auto-detect them.
func (p *parser) classifyChild(tok *token.Token) (Node, int, bool) {
	switch {
	case tok.Type == token.R:
		return newChild(ChildLock, tok), 1, true
	case tok.Type == token.PL:
		return newChild(ChildParameter, tok), 1, true
	case tok.Type == token.SPECIAL && tok.Subtype == token.Period:
		return newChild(ChildParameterNone, tok), 1, true
	default:
		return Node{}, 0, false
	}
}

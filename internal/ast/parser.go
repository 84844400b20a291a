// Copyright 2025 goat Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package ast

import "github.com/nickscha/thrive/internal/token"

// bindingPower returns the left-binding power of an operator token kind,
// or -1 if k is not a binary operator.
func bindingPower(k token.Kind) int {
	switch k {
	case token.MUL, token.DIV:
		return 50
	case token.ADD, token.SUB:
		return 40
	case token.ASSIGN:
		return 10 // right-associative
	default:
		return -1
	}
}

// parser walks a token slice and builds nodes into an Arena.
type parser struct {
	toks []token.Token
	pos  int
	ast  *Arena
}

func (p *parser) peek() token.Token {
	if p.pos < len(p.toks) {
		return p.toks[p.pos]
	}
	return p.toks[len(p.toks)-1]
}

func (p *parser) next() token.Token {
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return p.peek()
}

func (p *parser) accept(k token.Kind) bool {
	if p.peek().Kind == k {
		p.next()
		return true
	}
	return false
}

// Parse turns a token stream into a flat AST arena of the given node
// capacity. It stops at EOF or when the arena fills up, whichever comes
// first; on overflow it silently returns however many nodes were built.
func Parse(tokens []token.Token, capacity int) *Arena {
	if len(tokens) == 0 {
		return NewArena(capacity)
	}

	p := &parser{toks: tokens, ast: NewArena(capacity)}

	for p.peek().Kind != token.EOF && !p.ast.Full() {
		p.parseStatement()
	}

	return p.ast
}

func (p *parser) parsePrimary() Ref {
	t := p.peek()

	switch t.Kind {
	case token.INTEGER:
		if p.ast.Full() {
			return 0
		}
		id := p.ast.Create()
		p.ast.Set(id, Node{Kind: INT, IntVal: t.IntValue})
		p.next()
		return id

	case token.FLOAT:
		if p.ast.Full() {
			return 0
		}
		id := p.ast.Create()
		p.ast.Set(id, Node{Kind: FLOAT, FloatVal: t.FloatValue})
		p.next()
		return id

	case token.VAR:
		if p.ast.Full() {
			return 0
		}
		id := p.ast.Create()
		p.ast.Set(id, Node{Kind: VAR, Name: t.Text})
		p.next()
		return id

	case token.LPAREN:
		p.next()
		inner := p.parseExprBP(0)
		p.accept(token.RPAREN) // a missing ')' is tolerated
		return inner

	default:
		// Unreachable for well-formed source; return a zero-valued
		// placeholder node rather than desynchronizing further.
		if p.ast.Full() {
			return 0
		}
		id := p.ast.Create()
		p.ast.Set(id, Node{Kind: INT})
		return id
	}
}

func binOpKind(k token.Kind) Kind {
	switch k {
	case token.ADD:
		return ADD
	case token.SUB:
		return SUB
	case token.MUL:
		return MUL
	case token.DIV:
		return DIV
	case token.ASSIGN:
		return ASSIGN
	default:
		return ADD
	}
}

// parseExprBP implements precedence climbing: parse a primary, then
// repeatedly consume binary operators whose binding power is >= minBP,
// recursing with bp+1 for left-associative operators or bp (the same
// value) for the right-associative '='.
func (p *parser) parseExprBP(minBP int) Ref {
	left := p.parsePrimary()

	for {
		op := p.peek().Kind
		bp := bindingPower(op)
		if bp < minBP {
			break
		}

		nextMinBP := bp + 1
		if op == token.ASSIGN {
			nextMinBP = bp
		}

		p.next() // consume operator
		right := p.parseExprBP(nextMinBP)

		if p.ast.Full() {
			break
		}
		id := p.ast.Create()
		p.ast.Set(id, Node{Kind: binOpKind(op), Left: left, Right: right})
		left = id
	}

	return left
}

func (p *parser) parseStatement() Ref {
	switch {
	case p.accept(token.KeywordU32):
		name := p.peek()
		if p.ast.Full() {
			return 0
		}
		id := p.ast.Create()
		declName := ""
		if name.Kind == token.VAR {
			declName = name.Text
			p.next()
		}
		p.accept(token.ASSIGN)
		expr := p.parseExprBP(0)
		p.ast.Set(id, Node{Kind: DECL, Name: declName, Expr: expr})
		return id

	case p.accept(token.KeywordRet):
		if p.ast.Full() {
			return 0
		}
		id := p.ast.Create()
		expr := p.parseExprBP(0)
		p.ast.Set(id, Node{Kind: RETURN, Expr: expr})
		return id

	case p.accept(token.KeywordExt):
		name := p.peek()
		if p.ast.Full() {
			return 0
		}
		id := p.ast.Create()
		declName := ""
		if name.Kind == token.VAR {
			declName = name.Text
			p.next()
		}
		p.ast.Set(id, Node{Kind: EXTERN, Name: declName})
		return id

	default:
		// Bare expression; result discarded at the top level.
		return p.parseExprBP(0)
	}
}

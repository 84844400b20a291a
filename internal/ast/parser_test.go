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

import (
	"testing"

	"github.com/nickscha/thrive/internal/token"
)

func mustTokenize(t *testing.T, src string) []token.Token {
	t.Helper()
	toks, ok := token.Tokenize([]byte(src), 256)
	if !ok {
		t.Fatalf("Tokenize(%q) failed", src)
	}
	return toks
}

func TestParse_LiteralScenario(t *testing.T) {
	src := "u32 a   = 42\nu32 b   = 27\nu32 res = a + b * 10.0f * (2 + 4)\nret res\n"
	toks := mustTokenize(t, src)

	arena := Parse(toks, 64)
	if arena.Len() != 16 {
		t.Fatalf("arena.Len() = %d, want 16", arena.Len())
	}
}

func TestParse_PrecedenceAndAssociativity(t *testing.T) {
	// 1 + 2 * 3 should fold the multiplication first: ADD(1, MUL(2,3)).
	toks := mustTokenize(t, "ret 1 + 2 * 3")
	arena := Parse(toks, 32)

	var ret Node
	for _, n := range arena.Nodes() {
		if n.Kind == RETURN {
			ret = n
		}
	}
	add := arena.At(ret.Expr)
	if add.Kind != ADD {
		t.Fatalf("top expr kind = %v, want ADD", add.Kind)
	}
	mul := arena.At(add.Right)
	if mul.Kind != MUL {
		t.Fatalf("right operand kind = %v, want MUL", mul.Kind)
	}
}

func TestParse_AssignRightAssociative(t *testing.T) {
	// a = b = 1 should parse as ASSIGN(a, ASSIGN(b, 1)).
	toks := mustTokenize(t, "a = b = 1")
	arena := Parse(toks, 32)

	// The outer ASSIGN is allocated after its operands, so it is the last
	// ASSIGN in the arena.
	var outer Node
	for _, n := range arena.Nodes() {
		if n.Kind == ASSIGN {
			outer = n
		}
	}
	inner := arena.At(outer.Right)
	if inner.Kind != ASSIGN {
		t.Fatalf("expected nested ASSIGN on the right, got %v", inner.Kind)
	}
}

func TestParse_ChildIndicesBelowOpNode(t *testing.T) {
	toks := mustTokenize(t, "ret 1 + 2 * 3")
	arena := Parse(toks, 32)

	for i, n := range arena.Nodes() {
		switch n.Kind {
		case ADD, SUB, MUL, DIV, ASSIGN:
			if int(n.Left) >= i || int(n.Right) >= i {
				t.Errorf("node %d (%v): children must be lower-numbered, got left=%d right=%d", i, n.Kind, n.Left, n.Right)
			}
		}
	}
}

func TestParse_MissingCloseParenTolerated(t *testing.T) {
	toks := mustTokenize(t, "ret (1 + 2")
	arena := Parse(toks, 32)
	if arena.Len() == 0 {
		t.Fatalf("expected some nodes despite missing ')'")
	}
}

func TestParse_ArenaOverflowHaltsSilently(t *testing.T) {
	toks := mustTokenize(t, "ret 1 + 2 * 3")
	arena := Parse(toks, 2)
	if arena.Len() > 2 {
		t.Fatalf("arena.Len() = %d, want <= 2", arena.Len())
	}
}

func TestParse_ExternDeclaration(t *testing.T) {
	toks := mustTokenize(t, "ext puts\nret 0")
	arena := Parse(toks, 32)

	found := false
	for _, n := range arena.Nodes() {
		if n.Kind == EXTERN && n.Name == "puts" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected an EXTERN node named %q", "puts")
	}
}

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

package optimize

import (
	"testing"

	"github.com/nickscha/thrive/internal/ast"
	"github.com/nickscha/thrive/internal/token"
)

func mustParse(t *testing.T, src string) *ast.Arena {
	t.Helper()
	toks, ok := token.Tokenize([]byte(src), 256)
	if !ok {
		t.Fatalf("Tokenize(%q) failed", src)
	}
	return ast.Parse(toks, 256)
}

func TestOptimize_ChainedArithmeticFoldsToFloat(t *testing.T) {
	src := "u32 a   = 42\nu32 b   = 27\nu32 res = a + b * 10.0f * (2 + 4)\nret res\n"
	arena := mustParse(t, src)

	Optimize(arena)

	if arena.Len() != 2 {
		t.Fatalf("arena.Len() = %d, want 2", arena.Len())
	}
	ret := arena.At(0)
	if ret.Kind != ast.RETURN {
		t.Fatalf("node 0 kind = %v, want RETURN", ret.Kind)
	}
	lit := arena.At(ret.Expr)
	if lit.Kind != ast.FLOAT {
		t.Fatalf("node %d kind = %v, want FLOAT", ret.Expr, lit.Kind)
	}
	if diff := lit.FloatVal - 1662.0; diff > 1e-6 || diff < -1e-6 {
		t.Fatalf("FloatVal = %v, want 1662.0", lit.FloatVal)
	}
}

func TestOptimize_HexUnderscoreLiteralCollapses(t *testing.T) {
	arena := mustParse(t, "u32 x = 0x1F_00\nret x\n")

	Optimize(arena)

	if arena.Len() != 2 {
		t.Fatalf("arena.Len() = %d, want 2", arena.Len())
	}
	ret := arena.At(0)
	if ret.Kind != ast.RETURN {
		t.Fatalf("node 0 kind = %v, want RETURN", ret.Kind)
	}
	lit := arena.At(ret.Expr)
	if lit.Kind != ast.INT || lit.IntVal != 7936 {
		t.Fatalf("folded literal = %v %d, want INT 7936", lit.Kind, lit.IntVal)
	}
}

func TestOptimize_BareReturnExpressionFolds(t *testing.T) {
	arena := mustParse(t, "ret 1 + 2 * 3\n")

	Optimize(arena)

	if arena.Len() != 2 {
		t.Fatalf("arena.Len() = %d, want 2", arena.Len())
	}
	ret := arena.At(0)
	lit := arena.At(ret.Expr)
	if lit.Kind != ast.INT || lit.IntVal != 7 {
		t.Fatalf("folded literal = %v %d, want INT 7", lit.Kind, lit.IntVal)
	}
}

func TestOptimize_ChainedDeclsCollapse(t *testing.T) {
	arena := mustParse(t, "u32 a = 1\nu32 b = a + 1\nret b\n")

	Optimize(arena)

	if arena.Len() != 2 {
		t.Fatalf("arena.Len() = %d, want 2", arena.Len())
	}
	ret := arena.At(0)
	if ret.Kind != ast.RETURN {
		t.Fatalf("node 0 kind = %v, want RETURN", ret.Kind)
	}
	lit := arena.At(ret.Expr)
	if lit.Kind != ast.INT || lit.IntVal != 2 {
		t.Fatalf("folded literal = %v %d, want INT 2", lit.Kind, lit.IntVal)
	}
}

func TestOptimize_DivisionByZeroSkipsFoldAndKeepsDecl(t *testing.T) {
	arena := mustParse(t, "u32 z = 10 / 0\nret z\n")

	Optimize(arena)

	var sawDecl, sawVar, sawDiv bool
	for _, n := range arena.Nodes() {
		switch n.Kind {
		case ast.DECL:
			sawDecl = true
		case ast.VAR:
			sawVar = true
		case ast.DIV:
			sawDiv = true
		}
	}
	if !sawDecl {
		t.Errorf("expected the DECL for z to survive DCE since its initializer never folded")
	}
	if !sawVar {
		t.Errorf("expected RETURN's VAR read of z to survive, since z is not a constant")
	}
	if !sawDiv {
		t.Errorf("expected the unfolded 10/0 DIV node to survive alongside its DECL")
	}
}

func TestOptimize_FoldIsIdempotent(t *testing.T) {
	src := "u32 a   = 42\nu32 b   = 27\nu32 res = a + b * 10.0f * (2 + 4)\nret res\n"
	arena := mustParse(t, src)

	Optimize(arena)
	first := append([]ast.Node(nil), arena.Nodes()...)

	Optimize(arena)
	second := arena.Nodes()

	if len(first) != len(second) {
		t.Fatalf("second Optimize changed arena size: %d -> %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("node %d changed on re-optimize: %+v -> %+v", i, first[i], second[i])
		}
	}
}

func TestOptimize_IndicesStayValidAfterCompaction(t *testing.T) {
	arena := mustParse(t, "u32 a = 1\nu32 b = a + 1\nu32 c = 2\nret b\n")

	Optimize(arena)

	size := arena.Len()
	for i, n := range arena.Nodes() {
		switch n.Kind {
		case ast.ADD, ast.SUB, ast.MUL, ast.DIV, ast.ASSIGN:
			if int(n.Left) >= size || int(n.Right) >= size {
				t.Errorf("node %d: child index out of range (size %d)", i, size)
			}
		case ast.DECL, ast.RETURN:
			if int(n.Expr) >= size {
				t.Errorf("node %d: Expr index out of range (size %d)", i, size)
			}
		}
	}
}

func TestOptimize_UnusedDeclEliminated(t *testing.T) {
	arena := mustParse(t, "u32 unused = 99\nret 5\n")

	Optimize(arena)

	if arena.Len() != 2 {
		t.Fatalf("arena.Len() = %d, want 2 (unused decl should be gone)", arena.Len())
	}
	for _, n := range arena.Nodes() {
		if n.Kind == ast.DECL {
			t.Errorf("unused DECL survived DCE")
		}
	}
}

func TestOptimize_PreservesSemanticsAcrossFold(t *testing.T) {
	// Unfolded: 2*3+4 = 10; folded result must match.
	arena := mustParse(t, "ret 2 * 3 + 4\n")
	Optimize(arena)

	ret := arena.At(0)
	lit := arena.At(ret.Expr)
	if lit.Kind != ast.INT || lit.IntVal != 10 {
		t.Fatalf("folded literal = %v %d, want INT 10", lit.Kind, lit.IntVal)
	}
}

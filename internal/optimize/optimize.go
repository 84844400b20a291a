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

// Package optimize implements Thrive's constant-propagation,
// constant-folding and dead-code-elimination passes over a parsed AST
// arena, all performed in place.
package optimize

import "github.com/nickscha/thrive/internal/ast"

// Optimize rewrites arena in place: constants are propagated and folded,
// then unreachable nodes are removed by a mark-sweep-compact dead-code
// pass that relocates every surviving child index.
func Optimize(arena *ast.Arena) {
	var consts constTable

	// Pass 1: scan constants from literal DECL initializers.
	scanConstants(arena, &consts)

	// Pass 2: propagate + fold every DECL/ASSIGN/RETURN subtree.
	for i, n := range arena.Nodes() {
		if ast.IsStatement(n.Kind) {
			optimizeNode(arena, &consts, ast.Ref(i))
		}
	}

	// Pass 3: re-scan constants: DECL initializers that were folded to
	// literals by pass 2 are now eligible; existing entries are kept.
	scanConstants(arena, &consts)

	// Pass 4: re-propagate over RETURN subtrees only, so returns
	// referencing names resolved in pass 3 get substituted.
	for i, n := range arena.Nodes() {
		if n.Kind == ast.RETURN {
			optimizeNode(arena, &consts, ast.Ref(i))
		}
	}

	// Pass 5: mark-sweep-compact dead-code elimination.
	deadCodeEliminate(arena)
}

func scanConstants(arena *ast.Arena, consts *constTable) {
	for _, n := range arena.Nodes() {
		if n.Kind != ast.DECL {
			continue
		}
		expr := arena.At(n.Expr)
		switch expr.Kind {
		case ast.INT:
			consts.register(n.Name, false, expr.IntVal, 0)
		case ast.FLOAT:
			consts.register(n.Name, true, 0, expr.FloatVal)
		}
	}
}

// optimizeNode recursively optimizes the subtree rooted at id, bottom-up:
// children are optimized before the parent is folded or propagated.
func optimizeNode(arena *ast.Arena, consts *constTable, id ast.Ref) {
	n := arena.At(id)

	switch n.Kind {
	case ast.ADD, ast.SUB, ast.MUL, ast.DIV, ast.ASSIGN:
		optimizeNode(arena, consts, n.Left)
		optimizeNode(arena, consts, n.Right)
		tryFoldBinary(arena, id)

	case ast.DECL:
		optimizeNode(arena, consts, n.Expr)

	case ast.RETURN:
		optimizeNode(arena, consts, n.Expr)

	case ast.VAR:
		tryPropagateVar(arena, consts, id)
	}
}

// tryPropagateVar rewrites a VAR node to INT/FLOAT if its name is a
// known constant, returning whether it did.
func tryPropagateVar(arena *ast.Arena, consts *constTable, id ast.Ref) bool {
	n := arena.At(id)
	if n.Kind != ast.VAR {
		return false
	}

	sym, ok := consts.find(n.Name)
	if !ok {
		return false
	}

	if sym.isFloat {
		arena.Set(id, ast.Node{Kind: ast.FLOAT, FloatVal: sym.floatVal})
	} else {
		arena.Set(id, ast.Node{Kind: ast.INT, IntVal: sym.intVal})
	}
	return true
}

// tryFoldBinary rewrites a binary op node to an INT/FLOAT literal if
// both children are now literals, per the promotion/truncation rules in
// the language spec. Division by zero leaves the node untouched.
func tryFoldBinary(arena *ast.Arena, id ast.Ref) bool {
	n := arena.At(id)

	switch n.Kind {
	case ast.ADD, ast.SUB, ast.MUL, ast.DIV:
	default:
		return false
	}

	left := arena.At(n.Left)
	right := arena.At(n.Right)
	if !ast.IsLiteral(left.Kind) || !ast.IsLiteral(right.Kind) {
		return false
	}

	resultIsFloat := left.Kind == ast.FLOAT || right.Kind == ast.FLOAT

	if resultIsFloat {
		lf := left.FloatVal
		if left.Kind == ast.INT {
			lf = float64(left.IntVal)
		}
		rf := right.FloatVal
		if right.Kind == ast.INT {
			rf = float64(right.IntVal)
		}

		var result float64
		switch n.Kind {
		case ast.ADD:
			result = lf + rf
		case ast.SUB:
			result = lf - rf
		case ast.MUL:
			result = lf * rf
		case ast.DIV:
			if rf == 0.0 {
				return false
			}
			result = lf / rf
		}
		arena.Set(id, ast.Node{Kind: ast.FLOAT, FloatVal: result})
		return true
	}

	li, ri := left.IntVal, right.IntVal
	var result int32
	switch n.Kind {
	case ast.ADD:
		result = li + ri
	case ast.SUB:
		result = li - ri
	case ast.MUL:
		result = li * ri
	case ast.DIV:
		if ri == 0 {
			return false
		}
		result = li / ri // Go's / truncates toward zero for signed ints
	}
	arena.Set(id, ast.Node{Kind: ast.INT, IntVal: result})
	return true
}

// deadCodeEliminate runs the general mark-sweep-compact DCE: roots are
// every RETURN, ASSIGN and EXTERN node; everything reachable from a root
// is marked alive; live nodes are compacted forward in arena order and a
// relocation table maps old indices to new ones; finally every surviving
// node's child indices are rewritten through that table.
//
// DECLs are never roots: a DECL becomes dead once its name has been
// fully propagated out of every live expression. But a VAR node that
// optimizeNode could not resolve (e.g. because its declaration's
// initializer didn't fold, a skipped division by zero, still names a
// DECL by string, not by index, so reachability alone won't find it.
// After the index-based mark pass, a fixpoint loop scans live VAR nodes
// and pulls in the matching DECL (and its subtree) by name, repeating
// until no new DECL is added.
func deadCodeEliminate(arena *ast.Arena) {
	size := arena.Len()
	alive := make([]bool, size)

	var mark func(id ast.Ref)
	mark = func(id ast.Ref) {
		if int(id) >= size || alive[id] {
			return
		}
		alive[id] = true
		n := arena.At(id)
		switch n.Kind {
		case ast.ADD, ast.SUB, ast.MUL, ast.DIV, ast.ASSIGN:
			mark(n.Left)
			mark(n.Right)
		case ast.DECL:
			mark(n.Expr)
		case ast.RETURN:
			mark(n.Expr)
		}
	}

	for i, n := range arena.Nodes() {
		if n.Kind == ast.RETURN || n.Kind == ast.ASSIGN || n.Kind == ast.EXTERN {
			mark(ast.Ref(i))
		}
	}

	nodes := arena.Nodes()
	for changed := true; changed; {
		changed = false
		for i, n := range nodes {
			if n.Kind != ast.VAR || !alive[i] {
				continue
			}
			for j, d := range nodes {
				if d.Kind == ast.DECL && d.Name == n.Name && !alive[j] {
					mark(ast.Ref(j))
					changed = true
				}
			}
		}
	}

	reloc := make([]ast.Ref, size)
	writeIdx := 0
	for i := 0; i < size; i++ {
		if !alive[i] {
			continue
		}
		reloc[i] = ast.Ref(writeIdx)
		nodes[writeIdx] = nodes[i]
		writeIdx++
	}

	for i := 0; i < writeIdx; i++ {
		n := nodes[i]
		switch n.Kind {
		case ast.ADD, ast.SUB, ast.MUL, ast.DIV, ast.ASSIGN:
			n.Left = reloc[n.Left]
			n.Right = reloc[n.Right]
		case ast.DECL, ast.RETURN:
			n.Expr = reloc[n.Expr]
		}
		nodes[i] = n
	}

	arena.Truncate(writeIdx)
}

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

// Package codegen lowers an optimized AST arena to Windows x64 NASM
// assembly text. There are no stack frames for locals: every declared
// name is a static global, placed in .data when its initializer folded
// to a plain integer literal, or .bss otherwise. Expressions lower to a
// push/pop stack discipline over rax/rbx.
package codegen

import (
	"math"

	"github.com/nickscha/thrive/internal/ast"
)

type generator struct {
	arena   *ast.Arena
	out     *buffer
	globals globalTable
}

// Generate lowers arena to NASM text, writing into a capacity-bounded
// buffer. On overflow, emission stops producing further bytes and the
// returned text is cut off at capacity; no error is reported.
func Generate(arena *ast.Arena, capacity int) []byte {
	g := &generator{arena: arena, out: newBuffer(capacity)}

	g.out.writeString("bits 64\ndefault rel\n\n")

	g.scanGlobals()
	g.emitDataSection()
	g.emitBSSSection()
	g.emitTextSection()

	return g.out.Bytes()
}

// scanGlobals runs the symbol-classification pass: every DECL becomes a
// named global, placed in .data when its initializer is a plain INT
// literal (so codegen can skip emitting runtime store code for it), or
// .bss otherwise.
func (g *generator) scanGlobals() {
	for _, n := range g.arena.Nodes() {
		if n.Kind != ast.DECL {
			continue
		}
		expr := g.arena.At(n.Expr)
		if expr.Kind == ast.INT {
			g.globals.register(n.Name, SectionData, expr.IntVal)
		} else {
			g.globals.register(n.Name, SectionBSS, 0)
		}
	}
}

func (g *generator) emitDataSection() {
	g.out.writeString("segment .data\n")
	for _, sym := range g.globals.entries {
		if sym.section != SectionData {
			continue
		}
		g.out.writeString("    ")
		g.out.writeString(sym.name)
		g.out.writeString(": dq ")
		g.out.writeInt32(sym.initialValue)
		g.out.writeByte('\n')
	}
	g.out.writeByte('\n')
}

func (g *generator) emitBSSSection() {
	g.out.writeString("segment .bss\n")
	for _, sym := range g.globals.entries {
		if sym.section != SectionBSS {
			continue
		}
		g.out.writeString("    ")
		g.out.writeString(sym.name)
		g.out.writeString(": resq 1\n")
	}
	g.out.writeByte('\n')
}

// externNames returns every distinct name declared via EXTERN, in first-
// seen order.
func (g *generator) externNames() []string {
	var names []string
	seen := map[string]bool{}
	for _, n := range g.arena.Nodes() {
		if n.Kind != ast.EXTERN || n.Name == "" || seen[n.Name] {
			continue
		}
		seen[n.Name] = true
		names = append(names, n.Name)
	}
	return names
}

func (g *generator) emitTextSection() {
	g.out.writeString("segment .text\nglobal main\nextern ExitProcess\n")
	for _, name := range g.externNames() {
		g.out.writeString("extern ")
		g.out.writeString(name)
		g.out.writeByte('\n')
	}
	g.out.writeString("\nmain:\n")
	g.out.writeString("    sub rsp, 40 ; Shadow space (32) + Align (8)\n\n")

	lastKind := ast.Kind(-1)
	for i, n := range g.arena.Nodes() {
		switch n.Kind {
		case ast.DECL, ast.ASSIGN, ast.RETURN:
			g.emitNode(ast.Ref(i))
			lastKind = n.Kind
		}
	}

	if lastKind != ast.RETURN {
		g.out.writeString("    xor rcx, rcx\n    call ExitProcess\n")
	}
}

// emitNode lowers one arena node and, recursively, its children. Binary
// operators push both operand results then combine them on the stack;
// every lowered expression leaves exactly one value on the stack.
func (g *generator) emitNode(id ast.Ref) {
	n := g.arena.At(id)

	switch n.Kind {
	case ast.INT:
		g.out.writeString("    mov  rax, ")
		g.out.writeInt32(n.IntVal)
		g.out.writeString("\n    push rax\n")

	case ast.FLOAT:
		bits := math.Float64bits(n.FloatVal)
		hi := uint32(bits >> 32)
		lo := uint32(bits)
		g.out.writeString("    mov  rax, 0x")
		g.out.writeHexU32Full(hi)
		g.out.writeHexU32Full(lo)
		g.out.writeString(" ; float hex\n    push rax\n")

	case ast.VAR:
		g.out.writeString("    mov  rax, [rel ")
		g.out.writeString(n.Name)
		g.out.writeString("]\n    push rax\n")

	case ast.ADD:
		g.emitNode(n.Left)
		g.emitNode(n.Right)
		g.out.writeString("    pop  rbx\n    pop  rax\n    add  rax, rbx\n    push rax\n")

	case ast.SUB:
		g.emitNode(n.Left)
		g.emitNode(n.Right)
		g.out.writeString("    pop  rbx\n    pop  rax\n    sub  rax, rbx\n    push rax\n")

	case ast.MUL:
		g.emitNode(n.Left)
		g.emitNode(n.Right)
		g.out.writeString("    pop  rbx\n    pop  rax\n    imul rax, rbx\n    push rax\n")

	case ast.DIV:
		g.emitNode(n.Left)
		g.emitNode(n.Right)
		g.out.writeString("    pop  rbx\n    pop  rax\n    cqo\n    idiv rbx\n    push rax\n")

	case ast.DECL:
		if sym, ok := g.globals.find(n.Name); ok && sym.section == SectionData {
			// Already materialized as an initialized .data entry.
			return
		}
		g.emitNode(n.Expr)
		g.out.writeString("    pop  rax\n    mov  [rel ")
		g.out.writeString(n.Name)
		g.out.writeString("], rax\n")

	case ast.ASSIGN:
		left := g.arena.At(n.Left)
		if left.Kind != ast.VAR {
			return
		}
		g.emitNode(n.Right)
		g.out.writeString("    pop  rax\n    mov  [rel ")
		g.out.writeString(left.Name)
		g.out.writeString("], rax\n")

	case ast.RETURN:
		g.emitNode(n.Expr)
		g.out.writeString("    pop  rcx\n    call ExitProcess\n")
	}
}

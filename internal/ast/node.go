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

// Package ast implements the flat, index-addressed AST arena and the
// precedence-climbing (Pratt) parser that builds it from a token stream.
package ast

// Kind tags the variant of an arena Node.
type Kind int

const (
	INT Kind = iota
	FLOAT
	VAR
	ADD
	SUB
	MUL
	DIV
	ASSIGN
	DECL
	RETURN
	EXTERN // ext NAME: declares an externally-linked symbol
)

// Ref is a 16-bit index into an Arena. Capacity is bounded at 65536 so
// every Ref fits.
type Ref = uint16

// Node is a tagged record in the flat arena. Only the fields relevant to
// Kind are meaningful:
//
//	INT    - IntVal
//	FLOAT  - FloatVal
//	VAR    - Name
//	ADD/SUB/MUL/DIV/ASSIGN - Left, Right
//	DECL   - Name, Expr
//	RETURN - Expr
//	EXTERN - Name
type Node struct {
	Kind Kind

	IntVal   int32
	FloatVal float64
	Name     string // truncated to 31 bytes, like the tokenizer's identifiers

	Left, Right Ref
	Expr        Ref
}

// IsStatement reports whether k identifies a top-level statement node
// (DECL, ASSIGN, RETURN, EXTERN), as opposed to a sub-expression node.
func IsStatement(k Kind) bool {
	switch k {
	case DECL, ASSIGN, RETURN, EXTERN:
		return true
	default:
		return false
	}
}

// IsLiteral reports whether k is a constant literal (INT or FLOAT).
func IsLiteral(k Kind) bool {
	return k == INT || k == FLOAT
}

// MaxArenaSize is the largest number of nodes a 16-bit Ref can address.
const MaxArenaSize = 1 << 16

// Arena is the flat, append-only (during parsing) node array plus its
// logical size. Capacity is fixed at construction, mirroring the
// caller-provided fixed-capacity buffer contract from the pipeline spec.
type Arena struct {
	nodes []Node
	cap   int
}

// NewArena allocates an Arena with the given node capacity.
func NewArena(capacity int) *Arena {
	if capacity > MaxArenaSize {
		capacity = MaxArenaSize
	}
	return &Arena{nodes: make([]Node, 0, capacity), cap: capacity}
}

// Len returns the current number of live nodes.
func (a *Arena) Len() int { return len(a.nodes) }

// Cap returns the arena's node capacity.
func (a *Arena) Cap() int { return a.cap }

// Full reports whether the arena has no room for another node.
func (a *Arena) Full() bool { return len(a.nodes) >= a.cap }

// At returns the node at index ref.
func (a *Arena) At(ref Ref) Node { return a.nodes[ref] }

// Set overwrites the node at index ref.
func (a *Arena) Set(ref Ref, n Node) { a.nodes[ref] = n }

// Create appends a zero-valued node and returns its index. The caller
// must check Full() first; Create panics on overflow since the parser's
// own loop guards against it (matching the spec's "arena overflow halts
// parsing silently" contract at the call-site level, not here).
func (a *Arena) Create() Ref {
	if a.Full() {
		panic("ast: arena capacity exceeded")
	}
	id := Ref(len(a.nodes))
	a.nodes = append(a.nodes, Node{})
	return id
}

// Nodes returns the live node slice. Callers (optimizer, codegen) index
// it directly; Truncate is used by the optimizer's compaction pass to
// shrink it in place.
func (a *Arena) Nodes() []Node { return a.nodes }

// Truncate shrinks the arena to size n, discarding everything after it.
func (a *Arena) Truncate(n int) { a.nodes = a.nodes[:n] }

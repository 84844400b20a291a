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

// Package thrive ties the tokenizer, parser, optimizer and code
// generator into a single ahead-of-time compile entry point.
package thrive

import (
	"fmt"
	"time"

	"github.com/nickscha/thrive/internal/ast"
	"github.com/nickscha/thrive/internal/codegen"
	"github.com/nickscha/thrive/internal/optimize"
	"github.com/nickscha/thrive/internal/report"
	"github.com/nickscha/thrive/internal/token"
)

// Options bounds the fixed-capacity buffers each pipeline stage works
// over, and toggles the optimizer pass.
type Options struct {
	TokenCapacity int
	ArenaCapacity int
	OutputCapacity int
	Optimize      bool
}

// DefaultOptions returns capacities generous enough for ordinary Thrive
// sources; callers compiling unusually large programs should size these
// to the source explicitly.
func DefaultOptions() Options {
	return Options{
		TokenCapacity:  4096,
		ArenaCapacity:  4096,
		OutputCapacity: 1 << 20,
		Optimize:       true,
	}
}

// Result is everything a caller needs after a successful compile: the
// generated NASM text and a per-stage timing breakdown.
type Result struct {
	Assembly []byte
	Stages   []report.Stage
}

// Compile runs the full tokenize -> parse -> (optimize) -> codegen
// pipeline over src. Token capacity exhaustion and an empty AST are
// reported as errors. Arena overflow during parsing and output overflow
// during codegen are not: those stages stop silently, so Assembly is
// incomplete when ArenaCapacity or OutputCapacity is too small.
func Compile(src []byte, opts Options) (Result, error) {
	var result Result

	start := time.Now()
	tokens, ok := token.Tokenize(src, opts.TokenCapacity)
	result.Stages = append(result.Stages, report.Stage{Name: "tokenize", Duration: time.Since(start)})
	if !ok {
		return Result{}, fmt.Errorf("tokenize: exceeded capacity of %d tokens", opts.TokenCapacity)
	}

	start = time.Now()
	arena := ast.Parse(tokens, opts.ArenaCapacity)
	result.Stages = append(result.Stages, report.Stage{Name: "parse", Duration: time.Since(start)})
	if arena.Len() == 0 {
		return Result{}, fmt.Errorf("parse: produced an empty AST")
	}

	if opts.Optimize {
		start = time.Now()
		optimize.Optimize(arena)
		result.Stages = append(result.Stages, report.Stage{Name: "optimize", Duration: time.Since(start)})
	}

	start = time.Now()
	asm := codegen.Generate(arena, opts.OutputCapacity)
	result.Stages = append(result.Stages, report.Stage{Name: "codegen", Duration: time.Since(start)})

	result.Assembly = asm
	return result, nil
}

// ExternNames walks src's tokens far enough to report every `ext NAME`
// declaration, without running the rest of the pipeline; used by the
// CLI driver's optional header-validation pass, which only needs names,
// not a compiled program.
func ExternNames(src []byte, opts Options) ([]string, error) {
	tokens, ok := token.Tokenize(src, opts.TokenCapacity)
	if !ok {
		return nil, fmt.Errorf("tokenize: exceeded capacity of %d tokens", opts.TokenCapacity)
	}
	arena := ast.Parse(tokens, opts.ArenaCapacity)

	var names []string
	seen := map[string]bool{}
	for _, n := range arena.Nodes() {
		if n.Kind == ast.EXTERN && n.Name != "" && !seen[n.Name] {
			seen[n.Name] = true
			names = append(names, n.Name)
		}
	}
	return names, nil
}

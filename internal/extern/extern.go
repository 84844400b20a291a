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

// Package extern validates `ext NAME` declarations against a real C
// header using modernc.org/cc/v4, the same C front end the teacher's
// cross-compilation tooling parses headers with. Validation is strictly
// advisory: it never blocks compilation, only reports names a header
// doesn't account for.
package extern

import (
	"fmt"
	"os"
	"runtime"

	"modernc.org/cc/v4"
)

// Mismatch is a single ext declaration that no top-level name in the
// header accounted for.
type Mismatch struct {
	Name string
}

// ValidateHeader parses headerPath with cc.Parse and reports every name
// in names that has no matching top-level declaration in the header.
// Open, configuration and parse errors are returned wrapped with
// context; a name mismatch is not an error, it's
// data for the caller (the CLI driver) to warn about.
func ValidateHeader(headerPath string, names []string) ([]Mismatch, error) {
	f, err := os.Open(headerPath)
	if err != nil {
		return nil, fmt.Errorf("opening header %s: %w", headerPath, err)
	}
	defer f.Close()

	cfg, err := cc.NewConfig(runtime.GOOS, runtime.GOARCH)
	if err != nil {
		return nil, fmt.Errorf("configuring C parser: %w", err)
	}

	tu, err := cc.Parse(cfg, []cc.Source{
		{Name: "<predefined>", Value: cfg.Predefined},
		{Name: "<builtin>", Value: cc.Builtin},
		{Name: headerPath, Value: f},
	})
	if err != nil {
		return nil, fmt.Errorf("parsing header %s: %w", headerPath, err)
	}

	declared := collectTopLevelNames(tu)

	var mismatches []Mismatch
	for _, name := range names {
		if !declared[name] {
			mismatches = append(mismatches, Mismatch{Name: name})
		}
	}
	return mismatches, nil
}

// collectTopLevelNames walks every external declaration in the
// translation unit and gathers the base identifier of each function
// definition and plain declaration, the same DirectDeclarator.Token walk
// the teacher's own C-header tooling uses to name a function.
func collectTopLevelNames(tu *cc.AST) map[string]bool {
	names := map[string]bool{}

	for unit := tu.TranslationUnit; unit != nil; unit = unit.TranslationUnit {
		ext := unit.ExternalDeclaration
		if ext == nil {
			continue
		}

		switch ext.Case {
		case cc.ExternalDeclarationFuncDef:
			if fd := ext.FunctionDefinition; fd != nil && fd.Declarator != nil {
				if name := declaratorName(fd.Declarator); name != "" {
					names[name] = true
				}
			}

		case cc.ExternalDeclarationDecl:
			if decl := ext.Declaration; decl != nil {
				for idl := decl.InitDeclaratorList; idl != nil; idl = idl.InitDeclaratorList {
					if idl.InitDeclarator == nil || idl.InitDeclarator.Declarator == nil {
						continue
					}
					if name := declaratorName(idl.InitDeclarator.Declarator); name != "" {
						names[name] = true
					}
				}
			}
		}
	}

	return names
}

// declaratorName drills down a Declarator's DirectDeclarator chain to
// its base identifier token, e.g. for "int puts(const char *s)" this
// returns "puts", mirroring
// directDeclarator.DirectDeclarator.Token.SrcStr() in the teacher's
// function-signature extraction.
func declaratorName(d *cc.Declarator) string {
	dd := d.DirectDeclarator
	for dd != nil {
		if dd.DirectDeclarator == nil {
			return dd.Token.SrcStr()
		}
		dd = dd.DirectDeclarator
	}
	return ""
}

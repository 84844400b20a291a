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

package codegen

// Section is the NASM segment a global symbol is placed in.
type Section int

const (
	SectionBSS Section = iota
	SectionData
)

// maxGlobals mirrors the original's fixed MAX_GLOBALS table size.
const maxGlobals = 128

// symbol is one entry in the codegen-local global table: every DECL name
// seen during the symbol-scan pass, classified into .data or .bss.
type symbol struct {
	name         string
	section      Section
	initialValue int32 // only meaningful when section == SectionData
}

// globalTable is a small linear-scan, first-writer-wins symbol table,
// same shape as the original's thrive_symbol[MAX_GLOBALS] array.
type globalTable struct {
	entries []symbol
}

func (t *globalTable) find(name string) (*symbol, bool) {
	for i := range t.entries {
		if t.entries[i].name == name {
			return &t.entries[i], true
		}
	}
	return nil, false
}

func (t *globalTable) register(name string, section Section, initialValue int32) {
	if _, ok := t.find(name); ok {
		return
	}
	if len(t.entries) >= maxGlobals {
		return
	}
	t.entries = append(t.entries, symbol{name: name, section: section, initialValue: initialValue})
}

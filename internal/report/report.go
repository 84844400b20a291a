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

// Package report renders a small per-stage compile timing table, used
// by the CLI driver's --verbose flag.
package report

import (
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
)

// Stage records how long one pipeline phase took.
type Stage struct {
	Name     string
	Duration time.Duration
}

// Print renders stages as a table to w, stage names left-justified in a
// column: the slowest stage's row in yellow, and the bolded green total
// on the last line.
func Print(w io.Writer, stages []Stage) {
	if len(stages) == 0 {
		return
	}

	nameWidth := 0
	var total time.Duration
	slowest := 0
	for i, s := range stages {
		if len(s.Name) > nameWidth {
			nameWidth = len(s.Name)
		}
		total += s.Duration
		if s.Duration > stages[slowest].Duration {
			slowest = i
		}
	}

	yellow := color.New(color.FgYellow)
	plain := color.New(color.Reset)
	green := color.New(color.FgGreen, color.Bold)

	for i, s := range stages {
		c := plain
		if i == slowest {
			c = yellow
		}
		c.Fprintf(w, "  %-*s  %v\n", nameWidth, s.Name, s.Duration)
	}
	green.Fprintf(w, "  %-*s  %v\n", nameWidth, "total", total)
}

// Sprint renders the table to a string, for callers that don't want to
// hand Print an io.Writer directly.
func Sprint(stages []Stage) string {
	var buf strings.Builder
	Print(&buf, stages)
	return buf.String()
}

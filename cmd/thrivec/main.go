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

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nickscha/thrive"
	"github.com/nickscha/thrive/internal/extern"
	"github.com/nickscha/thrive/internal/reload"
	"github.com/nickscha/thrive/internal/report"
)

var verbose bool

var command = &cobra.Command{
	Use:  "thrivec source [-o output.asm]",
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		source := args[0]
		output, _ := cmd.PersistentFlags().GetString("output")
		if output == "" {
			output = strings.TrimSuffix(source, ".thrive") + ".asm"
		}
		optimizeOn, _ := cmd.PersistentFlags().GetBool("optimize")
		watch, _ := cmd.PersistentFlags().GetBool("watch")
		headerPath, _ := cmd.PersistentFlags().GetString("header")

		build := func() {
			if err := compileOnce(source, output, headerPath, optimizeOn); err != nil {
				fmt.Fprintln(os.Stderr, err)
				if !watch {
					os.Exit(1)
				}
			}
		}

		build()

		if watch {
			stop := make(chan struct{})
			if err := reload.Watch(source, build, stop); err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
		}
	},
}

func compileOnce(source, output, headerPath string, optimizeOn bool) error {
	src, err := os.ReadFile(source)
	if err != nil {
		return fmt.Errorf("reading %s: %w", source, err)
	}

	opts := thrive.DefaultOptions()
	opts.Optimize = optimizeOn

	result, err := thrive.Compile(src, opts)
	if err != nil {
		return fmt.Errorf("compiling %s: %w", source, err)
	}

	if headerPath != "" {
		validateExternHeader(src, headerPath, opts)
	}

	if err := os.WriteFile(output, result.Assembly, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", output, err)
	}

	if verbose {
		report.Print(os.Stdout, result.Stages)
	}

	return nil
}

// validateExternHeader warns, but never fails the build, when an `ext`
// declaration has no matching name in the given C header.
func validateExternHeader(src []byte, headerPath string, opts thrive.Options) {
	names, err := thrive.ExternNames(src, opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: could not scan ext declarations: %v\n", err)
		return
	}
	if len(names) == 0 {
		return
	}

	mismatches, err := extern.ValidateHeader(headerPath, names)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: could not validate header %s: %v\n", headerPath, err)
		return
	}
	for _, m := range mismatches {
		fmt.Fprintf(os.Stderr, "warning: ext %s has no matching declaration in %s\n", m.Name, headerPath)
	}
}

func init() {
	command.PersistentFlags().StringP("output", "o", "", "output path for the generated NASM assembly")
	command.PersistentFlags().BoolP("optimize", "O", true, "run constant propagation/folding/DCE before codegen")
	command.PersistentFlags().Bool("watch", false, "recompile on every source change")
	command.PersistentFlags().String("header", "", "validate ext declarations against a C header")
	command.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print a per-stage timing report")
}

func main() {
	if err := command.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

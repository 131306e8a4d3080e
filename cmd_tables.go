// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"gopkg.microglot.org/lrengine.go/internal/fs"
	"gopkg.microglot.org/lrengine.go/internal/lr"
	"gopkg.microglot.org/lrengine.go/internal/tablefile"
)

func newTablesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tables",
		Short: "Inspect and convert parser definitions",
	}
	cmd.AddCommand(newTablesShowCmd())
	cmd.AddCommand(newTablesConvertCmd())
	return cmd
}

func newTablesShowCmd() *cobra.Command {
	var table string
	cmd := &cobra.Command{
		Use:   "show --table <file>",
		Short: "Print the productions, ACTION and GOTO tables of a definition",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTablesShow(cmd.Context(), cmd.OutOrStdout(), table)
		},
	}
	addTableFlag(cmd.Flags(), &table)
	_ = cmd.MarkFlagRequired("table")
	return cmd
}

func runTablesShow(ctx context.Context, out io.Writer, table string) error {
	def, err := loadDefinition(ctx, table)
	if err != nil {
		return err
	}
	// Handlers never run here, so any name the definition uses resolves.
	stand := tablefile.Builtins()
	for _, p := range def.Productions {
		if _, ok := stand[p.Handler]; !ok {
			stand[p.Handler] = lr.Collect
		}
	}
	tables, err := def.Tables(stand, "collect")
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "terminals:    %v\n", def.Terminals)
	fmt.Fprintf(out, "nonterminals: %v\n\n", def.Nonterminals)
	if err := tables.DumpProductions(out); err != nil {
		return err
	}
	fmt.Fprintln(out)
	if err := tables.DumpActions(out); err != nil {
		return err
	}
	fmt.Fprintln(out)
	return tables.DumpGotos(out)
}

func newTablesConvertCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert <in> <out>",
		Short: "Convert a definition between YAML and the binary form",
		Long: `Convert a parser definition. The formats are chosen by extension:
.yaml and .yml for YAML, .lrtbin for the compact binary form.

Examples:
  lrengine tables convert calc.yaml calc.lrtbin
  lrengine tables convert calc.lrtbin calc.yml`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			def, err := loadDefinition(ctx, args[0])
			if err != nil {
				return err
			}
			b, err := tablefile.Marshal(def, fs.KindOf(args[1]))
			if err != nil {
				return err
			}
			return writeFile(ctx, args[1], b)
		},
	}
	return cmd
}

// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"gopkg.microglot.org/lrengine.go/internal/calc"
)

func newCalcCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "calc <expression>...",
		Short: "Evaluate integer expressions with + * and parentheses",
		Long: `Evaluate each argument as an integer expression using the built in
calculator parser.

Examples:
  lrengine calc "4 * (3 + 2 * 5)"
  lrengine -vv calc "1 + 2"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, expr := range args {
				v, err := calc.Eval(cmd.Context(), expr)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), v)
			}
			return nil
		},
	}
	return cmd
}

// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"

	"gopkg.microglot.org/lrengine.go/internal/calc"
	"gopkg.microglot.org/lrengine.go/internal/driver"
	"gopkg.microglot.org/lrengine.go/internal/fs"
	"gopkg.microglot.org/lrengine.go/internal/idl"
	"gopkg.microglot.org/lrengine.go/internal/lr"
	"gopkg.microglot.org/lrengine.go/internal/tablefile"
)

type parseOpts struct {
	Table       string
	Handler     string
	DumpTokens  bool
	Jobs        int
	MaxDepth    int
	MaxBuffered int
}

func addTableFlag(flags *pflag.FlagSet, target *string) {
	flags.StringVarP(target, "table", "t", "", "Parser definition FILE (.yaml, .yml or .lrtbin)")
}

func newParseCmd() *cobra.Command {
	op := &parseOpts{}
	cmd := &cobra.Command{
		Use:   "parse --table <file> <input>...",
		Short: "Parse input files with a parser definition",
		Long: `Parse each input with the given parser definition and print one JSON
document per input. Directories are expanded to the files they contain.
Productions that name no handler build a nested list of their symbols.

Examples:
  lrengine parse --table calc.yaml expr.txt
  lrengine parse --table grammar.lrtbin --jobs 8 inputs/
  lrengine parse --table grammar.yaml --dump-tokens input.txt`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParse(cmd.Context(), cmd.OutOrStdout(), op, args)
		},
	}
	flags := cmd.Flags()
	addTableFlag(flags, &op.Table)
	flags.StringVar(&op.Handler, "handler", "collect", "Handler for productions that do not name one")
	flags.BoolVar(&op.DumpTokens, "dump-tokens", false, "Output the token stream instead of parsing")
	flags.IntVarP(&op.Jobs, "jobs", "j", 4, "Number of inputs parsed at once")
	flags.IntVar(&op.MaxDepth, "max-depth", 0, "Fail inputs whose parse stack grows past N entries, 0 for no limit")
	// The engine holds the lookahead while the next token is buffered, so
	// caps below lr.MinBuffered are rejected when the parser is built.
	flags.IntVar(&op.MaxBuffered, "max-buffered", 0, fmt.Sprintf("Cap on buffered tokens per engine, 0 for no limit, else at least %d", lr.MinBuffered))
	_ = cmd.MarkFlagRequired("table")
	return cmd
}

type parseResult struct {
	File   string      `json:"file"`
	Value  idl.Value   `json:"value,omitempty"`
	Tokens []tokenDump `json:"tokens,omitempty"`
}

type tokenDump struct {
	Name  string    `json:"name"`
	Text  string    `json:"text,omitempty"`
	Value idl.Value `json:"value,omitempty"`
	Line  int32     `json:"line"`
	Col   int32     `json:"col"`
	Skip  bool      `json:"skip,omitempty"`
}

// inputsOnly keeps parser definitions that share a directory with the inputs
// out of the parse.
func inputsOnly(ctx context.Context, name string) bool {
	return !strings.HasPrefix(name, ".") && fs.KindOf(name) == idl.FileKindInput
}

func loadDefinition(ctx context.Context, table string) (*tablefile.Definition, error) {
	f, err := openFile(ctx, table)
	if err != nil {
		return nil, err
	}
	return tablefile.Load(ctx, f)
}

func runParse(ctx context.Context, out io.Writer, op *parseOpts, targets []string) error {
	if op.Jobs < 1 {
		return fmt.Errorf("--jobs must be at least 1, got %d", op.Jobs)
	}
	def, err := loadDefinition(ctx, op.Table)
	if err != nil {
		return err
	}
	p, err := driver.New(def, tablefile.Builtins().With(calc.Handlers()),
		driver.WithFallbackHandler(op.Handler),
		driver.WithEngineOptions(lr.WithMaxDepth(op.MaxDepth), lr.WithMaxBuffered(op.MaxBuffered)),
	)
	if err != nil {
		return err
	}

	var files []idl.File
	for _, target := range targets {
		found, err := openFiles(ctx, target, fs.WithOptionFileFilter(inputsOnly))
		if err != nil {
			return err
		}
		files = append(files, found...)
	}

	results := make([]parseResult, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(op.Jobs)
	for x, f := range files {
		x, f := x, f
		g.Go(func() error {
			results[x].File = f.Path(gctx)
			if op.DumpTokens {
				toks, err := p.Tokens(gctx, f)
				if err != nil {
					return err
				}
				for _, tok := range toks {
					results[x].Tokens = append(results[x].Tokens, tokenDump{
						Name:  tok.Name,
						Text:  tok.Text,
						Value: tok.Value,
						Line:  tok.Span.Start.Line,
						Col:   tok.Span.Start.Column,
						Skip:  tok.Skip,
					})
				}
				return nil
			}
			v, err := p.Parse(gctx, f)
			if err != nil {
				return err
			}
			results[x].Value = v
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	enc := json.NewEncoder(out)
	for _, r := range results {
		if err := enc.Encode(r); err != nil {
			return err
		}
	}
	return nil
}

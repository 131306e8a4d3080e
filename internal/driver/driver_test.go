// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package driver

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"gopkg.microglot.org/lrengine.go/internal/exc"
	"gopkg.microglot.org/lrengine.go/internal/fs"
	"gopkg.microglot.org/lrengine.go/internal/idl"
	"gopkg.microglot.org/lrengine.go/internal/lexer"
	"gopkg.microglot.org/lrengine.go/internal/lr"
	"gopkg.microglot.org/lrengine.go/internal/tablefile"
)

// Right recursive list: L -> ITEM | ITEM COMMA L
const listYAML = `
terminals: [EOF, ITEM, COMMA]
nonterminals: [L]
tokens:
  - {name: ITEM, pattern: '[a-z]+'}
  - {name: COMMA, pattern: ','}
  - {name: WS, pattern: '\s+', skip: true}
productions:
  - {name: L -> ITEM, arity: 1, handler: one, lhs: L}
  - {name: L -> ITEM COMMA L, arity: 3, lhs: L}
actions:
  - ["", s2, ""]
  - [a, "", ""]
  - [r1, "", s3]
  - ["", s2, ""]
  - [r2, "", ""]
gotos:
  - [1]
  - [~]
  - [~]
  - [4]
  - [~]
`

func listDefinition(t *testing.T) *tablefile.Definition {
	t.Helper()
	d, err := tablefile.Decode([]byte(listYAML))
	require.NoError(t, err)
	return d
}

func listHandlers() tablefile.Handlers {
	return tablefile.Builtins().With(tablefile.Handlers{
		"one": func(args ...idl.Value) (idl.Value, error) {
			return []idl.Value{args[0]}, nil
		},
		"cons": func(args ...idl.Value) (idl.Value, error) {
			return append([]idl.Value{args[0]}, args[2].([]idl.Value)...), nil
		},
	})
}

func newListParser(t *testing.T, opts ...Option) *Parser {
	t.Helper()
	p, err := New(listDefinition(t), listHandlers(), append([]Option{WithFallbackHandler("cons")}, opts...)...)
	require.NoError(t, err)
	return p
}

func TestParse(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	p := newListParser(t)
	testCases := []struct {
		input string
		value idl.Value
		code  string
	}{
		{input: "a", value: []idl.Value{"a"}},
		{input: "a, b,c", value: []idl.Value{"a", "b", "c"}},
		{input: "", code: exc.CodeTableEntryMissing},
		{input: "a,", code: exc.CodeTableEntryMissing},
		{input: "a b", code: exc.CodeTableEntryMissing},
		{input: "a; b", code: exc.CodeLexical},
	}
	for _, testCase := range testCases {
		value, err := p.ParseString(ctx, "/list.txt", testCase.input)
		if testCase.code != "" {
			require.Equal(t, testCase.code, exc.CodeOf(err), "input %q: %v", testCase.input, err)
			continue
		}
		require.NoError(t, err, testCase.input)
		require.Equal(t, testCase.value, value)
	}
}

func TestParseConcurrently(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	p := newListParser(t)
	results := make([]idl.Value, 16)
	g, ctx := errgroup.WithContext(ctx)
	for x := range results {
		x := x
		g.Go(func() error {
			text := "a"
			for y := 0; y < x; y = y + 1 {
				text = text + ",a"
			}
			v, err := p.ParseString(ctx, fmt.Sprintf("/in%d", x), text)
			results[x] = v
			return err
		})
	}
	require.NoError(t, g.Wait())
	for x, v := range results {
		require.Len(t, v, x+1)
	}
}

func TestEngineOptions(t *testing.T) {
	t.Parallel()
	p := newListParser(t, WithEngineOptions(lr.WithMaxDepth(4)))
	_, err := p.ParseString(context.Background(), "/deep.txt", "a,b,c")
	require.Equal(t, exc.CodeResourceExhausted, exc.CodeOf(err))
	_, err = p.ParseString(context.Background(), "/shallow.txt", "a,b")
	require.NoError(t, err)

	_, err = New(listDefinition(t), listHandlers(), WithFallbackHandler("cons"), WithEngineOptions(lr.WithMaxBuffered(1)))
	require.ErrorContains(t, err, "max buffered")

	p = newListParser(t, WithEngineOptions(lr.WithMaxBuffered(lr.MinBuffered)))
	value, err := p.ParseString(context.Background(), "/capped.txt", "a, b,c")
	require.NoError(t, err)
	require.Equal(t, []idl.Value{"a", "b", "c"}, value)
}

func TestTokens(t *testing.T) {
	t.Parallel()
	p := newListParser(t)
	toks, err := p.Tokens(context.Background(), fs.NewFileString("/t", "a, b", idl.FileKindInput))
	require.NoError(t, err)
	names := make([]string, 0, len(toks))
	for _, tok := range toks {
		names = append(names, tok.Name)
	}
	require.Equal(t, []string{"ITEM", "COMMA", "WS", "ITEM", "EOF"}, names)
}

func TestNewErrors(t *testing.T) {
	t.Parallel()
	_, err := New(listDefinition(t), listHandlers())
	require.ErrorContains(t, err, "no handler")

	d := listDefinition(t)
	d.Tokens[0].Pattern = "["
	_, err = New(d, listHandlers(), WithFallbackHandler("cons"))
	require.Equal(t, exc.CodeMalformedTable, exc.CodeOf(err))

	_, err = New(listDefinition(t), listHandlers(), WithFallbackHandler("cons"), WithLexerOptions(lexer.WithMatchTimeout(-1)))
	require.Equal(t, exc.CodeMalformedTable, exc.CodeOf(err))
}

func TestTracer(t *testing.T) {
	t.Parallel()
	p := newListParser(t)
	var lines int
	e, err := lr.New(p.Tables(), lr.WithTracer(func(tr lr.Trace) {
		lines = lines + 1
		p.tracer("/traced")(tr)
	}))
	require.NoError(t, err)
	for _, tok := range []idl.TokenID{1, 0} {
		status, err := e.Feed(tok, "x")
		require.NoError(t, err)
		for status == lr.StatusContinue {
			status, err = e.Step()
			require.NoError(t, err)
		}
	}
	require.Equal(t, 3, lines)
	require.Equal(t, lr.PhaseAccepted, e.Phase())
}

// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package lr

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"gopkg.microglot.org/lrengine.go/internal/exc"
	"gopkg.microglot.org/lrengine.go/internal/idl"
	"gopkg.microglot.org/lrengine.go/internal/iter"
)

func tok(id idl.TokenID, value idl.Value, col int32) *idl.Token {
	return &idl.Token{
		ID:    id,
		Value: value,
		Span:  idl.Span{Start: idl.Location{Line: 1, Column: col}},
	}
}

type closeTracker struct {
	idl.Iterator[*idl.Token]
	closed bool
	err    error
}

func (c *closeTracker) Close(ctx context.Context) error {
	c.closed = true
	return c.err
}

func TestRun(t *testing.T) {
	t.Parallel()
	testCases := []struct {
		name   string
		tokens []*idl.Token
		value  idl.Value
		code   string
		column int32
	}{
		{
			name:   "sum",
			tokens: []*idl.Token{tok(tokNum, 1, 1), tok(tokPlus, "+", 2), tok(tokNum, 2, 3), tok(tokPlus, "+", 4), tok(tokNum, 4, 5), tok(tokEOF, nil, 6)},
			value:  7,
		},
		{
			name:   "single",
			tokens: []*idl.Token{tok(tokNum, 9, 1), tok(tokEOF, nil, 2)},
			value:  9,
		},
		{
			name:   "stream ends early",
			tokens: []*idl.Token{tok(tokNum, 1, 1), tok(tokPlus, "+", 2)},
			code:   exc.CodeUnexpectedEOF,
			column: 2,
		},
		{
			name:   "empty stream",
			tokens: nil,
			code:   exc.CodeUnexpectedEOF,
		},
		{
			name:   "missing entry",
			tokens: []*idl.Token{tok(tokNum, 1, 1), tok(tokNum, 2, 3), tok(tokEOF, nil, 4)},
			code:   exc.CodeTableEntryMissing,
			column: 3,
		},
		{
			name:   "unknown token",
			tokens: []*idl.Token{tok(42, 1, 5), tok(tokEOF, nil, 6)},
			code:   exc.CodeTableIndex,
			column: 6,
		},
	}
	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			e := newEngine(t, sumTables(t, nil))
			tokens := &closeTracker{Iterator: iter.NewSlice(testCase.tokens)}
			value, err := Run(context.Background(), e, "input.txt", tokens)
			require.True(t, tokens.closed)
			if testCase.code == "" {
				require.NoError(t, err)
				require.Equal(t, testCase.value, value)
				return
			}
			require.Error(t, err)
			require.Nil(t, value)
			require.Equal(t, testCase.code, exc.CodeOf(err))
			var located exc.Exception
			require.ErrorAs(t, err, &located)
			require.Equal(t, "input.txt", located.Location().URI)
			require.Equal(t, testCase.column, located.Location().Column)
		})
	}
}

func TestRunEmptyLanguage(t *testing.T) {
	t.Parallel()
	tables, err := NewTables(
		[]Production{{Name: "S ->", Arity: 0, Handler: func(args ...idl.Value) (idl.Value, error) {
			return "nothing", nil
		}, LHS: 0}},
		[][]RawAction{{re(1)}, {acc()}},
		[][]int{{1}, {NoGoto}},
	)
	require.NoError(t, err)
	e := newEngine(t, tables)
	value, err := Run(context.Background(), e, "", iter.NewSlice([]*idl.Token{tok(tokEOF, nil, 1)}))
	require.NoError(t, err)
	require.Equal(t, "nothing", value)
}

func TestRunHandlerError(t *testing.T) {
	t.Parallel()
	boom := errors.New("boom")
	tables, err := NewTables(
		[]Production{{Name: "S -> a", Arity: 1, Handler: func(args ...idl.Value) (idl.Value, error) {
			return nil, boom
		}, LHS: 0}},
		[][]RawAction{
			{errCell, sh(1)},
			{re(1), errCell},
			{acc(), errCell},
		},
		[][]int{{2}, {NoGoto}, {NoGoto}},
	)
	require.NoError(t, err)
	e := newEngine(t, tables)
	_, err = Run(context.Background(), e, "x", iter.NewSlice([]*idl.Token{tok(1, "a", 1), tok(tokEOF, nil, 2)}))
	require.Same(t, boom, err)
}

func TestRunCancelled(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	e := newEngine(t, sumTables(t, nil))
	tokens := &closeTracker{Iterator: iter.NewSlice([]*idl.Token{tok(tokNum, 1, 1), tok(tokEOF, nil, 2)})}
	_, err := Run(ctx, e, "", tokens)
	require.ErrorIs(t, err, context.Canceled)
	require.True(t, tokens.closed)
	require.Equal(t, 0, e.Buffered())
}

func TestRunCloseError(t *testing.T) {
	t.Parallel()
	closeErr := errors.New("close")
	e := newEngine(t, sumTables(t, nil))
	tokens := &closeTracker{
		Iterator: iter.NewSlice([]*idl.Token{tok(tokNum, 1, 1), tok(tokEOF, nil, 2)}),
		err:      closeErr,
	}
	_, err := Run(context.Background(), e, "", tokens)
	require.ErrorIs(t, err, closeErr)
}

func TestRunHandlerExceptionUntouched(t *testing.T) {
	t.Parallel()
	failure := exc.New(exc.Location{URI: "handler"}, "APP1", "boom")
	failing := func(args ...idl.Value) (idl.Value, error) {
		return nil, failure
	}
	testCases := []struct {
		name        string
		productions []Production
		actions     [][]RawAction
		gotos       [][]int
		tokens      []*idl.Token
	}{
		{
			name:        "while feeding",
			productions: []Production{{Name: "S -> a", Arity: 1, Handler: failing, LHS: 0}},
			actions: [][]RawAction{
				{errCell, sh(1)},
				{re(1), errCell},
				{acc(), errCell},
			},
			gotos:  [][]int{{2}, {NoGoto}, {NoGoto}},
			tokens: []*idl.Token{tok(1, "a", 1), tok(tokEOF, nil, 2)},
		},
		{
			name:        "after the stream ends",
			productions: []Production{{Name: "S ->", Arity: 0, Handler: failing, LHS: 0}},
			actions:     [][]RawAction{{re(1)}, {acc()}},
			gotos:       [][]int{{1}, {NoGoto}},
			tokens:      []*idl.Token{tok(tokEOF, nil, 3)},
		},
	}
	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			tables, err := NewTables(testCase.productions, testCase.actions, testCase.gotos)
			require.NoError(t, err)
			e := newEngine(t, tables)
			_, err = Run(context.Background(), e, "x", iter.NewSlice(testCase.tokens))
			require.Same(t, failure, err)
		})
	}
}

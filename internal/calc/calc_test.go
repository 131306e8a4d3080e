// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package calc

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"gopkg.microglot.org/lrengine.go/internal/exc"
	"gopkg.microglot.org/lrengine.go/internal/tablefile"
)

func TestEval(t *testing.T) {
	t.Parallel()
	testCases := []struct {
		input string
		value int
	}{
		{input: "0", value: 0},
		{input: "7", value: 7},
		{input: "1 + 2", value: 3},
		{input: "2 * 3 + 4", value: 10},
		{input: "2 + 3 * 4", value: 14},
		{input: "4 * (3 + 2 * 5)", value: 52},
		{input: "((((9))))", value: 9},
		{input: "1+2+3+4+5+6+7+8+9+10", value: 55},
		{input: "\n  2 *\t(1 + 1) * 3\n", value: 12},
	}
	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.input, func(t *testing.T) {
			t.Parallel()
			v, err := Eval(context.Background(), testCase.input)
			require.NoError(t, err)
			require.Equal(t, testCase.value, v)
		})
	}
}

func TestEvalErrors(t *testing.T) {
	t.Parallel()
	testCases := []struct {
		input string
		code  string
	}{
		{input: "", code: exc.CodeTableEntryMissing},
		{input: "1 +", code: exc.CodeTableEntryMissing},
		{input: "(1 + 2", code: exc.CodeTableEntryMissing},
		{input: "1 2", code: exc.CodeTableEntryMissing},
		{input: ")", code: exc.CodeTableEntryMissing},
		{input: "1 - 2", code: exc.CodeLexical},
		{input: "01", code: exc.CodeTableEntryMissing},
	}
	for _, testCase := range testCases {
		_, err := Eval(context.Background(), testCase.input)
		require.Equal(t, testCase.code, exc.CodeOf(err), "input %q: %v", testCase.input, err)
	}
}

func TestErrorLocation(t *testing.T) {
	t.Parallel()
	_, err := Eval(context.Background(), "1 +\n (2 * )")
	var e exc.Exception
	require.ErrorAs(t, err, &e)
	require.Equal(t, "/expr", e.Location().URI)
	require.Equal(t, int32(2), e.Location().Line)
	require.Equal(t, int32(7), e.Location().Column)
}

func TestDefinitionRoundTrip(t *testing.T) {
	t.Parallel()
	def, err := Definition()
	require.NoError(t, err)
	require.Len(t, def.Actions, 12)
	decoded, err := tablefile.DecodeBinary(tablefile.EncodeBinary(def))
	require.NoError(t, err)
	tables, err := decoded.Tables(tablefile.Builtins().With(Handlers()), "")
	require.NoError(t, err)
	require.Equal(t, 12, tables.States())
	require.Equal(t, 6, tables.Terminals())
	require.Equal(t, 3, tables.Nonterminals())
}

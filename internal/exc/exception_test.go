// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package exc

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"gopkg.microglot.org/lrengine.go/internal/idl"
)

func TestExceptionError(t *testing.T) {
	t.Parallel()
	testCases := []struct {
		name     string
		err      Exception
		expected string
	}{
		{
			name:     "no location",
			err:      New(Location{}, CodeTableIndex, "engine already accepted"),
			expected: "M0101: engine already accepted",
		},
		{
			name:     "uri only",
			err:      New(Location{URI: "/calc.yaml"}, CodeMalformedTable, "action[0][1]: unknown tag"),
			expected: "/calc.yaml -- M0100: action[0][1]: unknown tag",
		},
		{
			name:     "full location",
			err:      New(Location{URI: "/in.txt", Location: idl.Location{Line: 2, Column: 5}}, CodeLexical, "no rule matches"),
			expected: "/in.txt:2:5 -- M0106: no rule matches",
		},
	}
	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, testCase.expected, testCase.err.Error())
		})
	}
}

func TestWrapKeepsCause(t *testing.T) {
	t.Parallel()
	cause := errors.New("boom")
	e := Wrap(Location{}, CodeStackUnderflow, cause)
	require.ErrorIs(t, e, cause)
	require.Equal(t, CodeStackUnderflow, e.Code())
	require.Equal(t, "boom", e.Message())
	require.Nil(t, Wrap(Location{}, CodeStackUnderflow, nil))
}

func TestWithLocation(t *testing.T) {
	t.Parallel()
	orig := New(Location{}, CodeTableEntryMissing, "no action")
	moved := WithLocation(Location{URI: "/x", Location: idl.Location{Line: 1, Column: 3}}, orig)
	require.Equal(t, CodeTableEntryMissing, CodeOf(moved))
	require.ErrorIs(t, moved, orig)
	require.Equal(t, "/x:1:3 -- M0102: no action", moved.Error())

	plain := errors.New("handler failed")
	require.Same(t, plain, WithLocation(Location{URI: "/x"}, plain))
	require.Equal(t, "", CodeOf(plain))
	require.Equal(t, CodeTableEntryMissing, CodeOf(fmt.Errorf("step: %w", orig)))
}

func TestReporter(t *testing.T) {
	t.Parallel()
	r := NewReporter([]string{CodeLexical})
	require.NoError(t, Collected(r))

	var wg sync.WaitGroup
	for x := 0; x < 10; x = x + 1 {
		wg.Add(1)
		go func(x int) {
			defer wg.Done()
			_ = r.Report(Newf(Location{}, CodeMalformedTable, "entry %d", x))
		}(x)
	}
	wg.Wait()
	require.Nil(t, r.Report(New(Location{}, CodeLexical, "skipped")))
	require.Len(t, r.Reported(), 11)

	err := Collected(r)
	var me MultiException
	require.ErrorAs(t, err, &me)
	require.Len(t, me, 11)
	require.Equal(t, CodeMalformedTable, CodeOf(err))
}

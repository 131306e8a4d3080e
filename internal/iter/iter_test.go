package iter

import (
	"context"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"gopkg.microglot.org/lrengine.go/internal/idl"
)

type elem struct {
	value int
}

func TestSlice(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	for size := 0; size < 5; size = size + 1 {
		t.Run(fmt.Sprintf("len(%d)", size), func(t *testing.T) {
			elems := make([]*elem, 0, size)
			for y := 0; y < size; y = y + 1 {
				elems = append(elems, &elem{value: y})
			}
			it := NewSlice(elems)
			for y := 0; y < size; y = y + 1 {
				val := it.Next(ctx)
				require.True(t, val.IsPresent())
				require.Equal(t, y, val.Value().value)
			}
			require.False(t, it.Next(ctx).IsPresent())
			require.False(t, it.Next(ctx).IsPresent())
			require.Nil(t, it.Close(ctx))
		})
	}
}

func TestFilter(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	numValues := 10
	filter := idl.Filter[*elem](FilterFunc[*elem](func(ctx context.Context, val *elem) bool {
		return val.value%2 == 0
	}))
	elems := make([]*elem, 0, numValues)
	for y := 0; y < numValues; y = y + 1 {
		elems = append(elems, &elem{value: y})
	}
	kept, err := Collect(ctx, NewIteratorFilter(NewSlice(elems), filter))
	require.NoError(t, err)
	require.Len(t, kept, numValues/2)
	for x, v := range kept {
		require.Equal(t, x*2, v.value)
	}
}

func TestSkipTokens(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	tokens := []*idl.Token{
		{ID: 1, Name: "INT", Text: "1"},
		{ID: 6, Name: "WS", Text: " ", Skip: true},
		{ID: 2, Name: "PLUS", Text: "+"},
		{ID: 0, Name: "EOF"},
	}
	kept, err := Collect(ctx, NewIteratorFilter(NewSlice(tokens), SkipTokens()))
	require.NoError(t, err)
	require.Equal(t, []*idl.Token{tokens[0], tokens[2], tokens[3]}, kept)
}

type stringBody struct {
	r io.Reader
}

func (b *stringBody) Read(ctx context.Context, size int32) ([]byte, error) {
	buf := make([]byte, size)
	n, err := b.r.Read(buf)
	return buf[:n], err
}

func (b *stringBody) Close(ctx context.Context) error {
	return nil
}

func TestUnicodeFileBody(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	input := "4 × (3 + 2)"
	points, err := Collect(ctx, NewCodePoints(ctx, &stringBody{r: strings.NewReader(input)}))
	require.NoError(t, err)
	expected := make([]idl.CodePoint, 0, len(input))
	for _, r := range input {
		expected = append(expected, idl.CodePoint(r))
	}
	require.Equal(t, expected, points)
}

func TestReadRunes(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	runes, err := ReadRunes(ctx, &stringBody{r: strings.NewReader("aé\n")})
	require.NoError(t, err)
	require.Equal(t, []rune{'a', 'é', '\n'}, runes)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = ReadRunes(cancelled, &stringBody{r: strings.NewReader("abc")})
	require.ErrorIs(t, err, context.Canceled)
}

// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package iter

import (
	"bufio"
	"context"
	"errors"
	"io"
	"unicode/utf8"

	"gopkg.microglot.org/lrengine.go/internal/idl"
	"gopkg.microglot.org/lrengine.go/internal/optional"
)

// NewCodePoints converts a FileBody into an iterator of code points. The given
// context is used for every read against the body. Invalid UTF-8 decodes to
// utf8.RuneError, one per bad byte.
func NewCodePoints(ctx context.Context, b idl.FileBody) idl.Iterator[idl.CodePoint] {
	rc := &fileBodyIO{
		ctx:  ctx,
		body: b,
	}
	scanner := bufio.NewScanner(rc)
	scanner.Split(bufio.ScanRunes)
	return &codePoints{
		readCloser: rc,
		scanner:    scanner,
	}
}

// ReadRunes drains a FileBody into memory as runes and closes it. Lexers that
// match patterns against the whole input use this instead of streaming.
func ReadRunes(ctx context.Context, b idl.FileBody) ([]rune, error) {
	points, err := Collect(ctx, NewCodePoints(ctx, b))
	if err != nil {
		return nil, err
	}
	out := make([]rune, len(points))
	for x, p := range points {
		out[x] = rune(p)
	}
	return out, nil
}

type codePoints struct {
	readCloser io.ReadCloser
	scanner    *bufio.Scanner
}

func (self *codePoints) Next(ctx context.Context) optional.Optional[idl.CodePoint] {
	if !self.scanner.Scan() {
		return optional.None[idl.CodePoint]()
	}
	r, _ := utf8.DecodeRune(self.scanner.Bytes())
	return optional.Some(idl.CodePoint(r))
}

func (self *codePoints) Close(context.Context) error {
	closeErr := self.readCloser.Close()
	if err := self.scanner.Err(); err != nil {
		return err
	}
	return closeErr
}

type fileBodyIO struct {
	ctx  context.Context
	body idl.FileBody
}

func (self *fileBodyIO) Read(p []byte) (int, error) {
	if err := self.ctx.Err(); err != nil {
		return 0, err
	}
	b, err := self.body.Read(self.ctx, int32(len(p)))
	n := copy(p, b)
	if errors.Is(err, io.EOF) {
		return n, io.EOF
	}
	return n, err
}

func (self *fileBodyIO) Close() error {
	return self.body.Close(self.ctx)
}

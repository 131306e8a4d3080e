// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package fs

import (
	"context"
	"errors"
	"io"

	"gopkg.microglot.org/lrengine.go/internal/exc"
	"gopkg.microglot.org/lrengine.go/internal/idl"
)

func bodyFromIO(path string, v io.ReadCloser) idl.FileBody {
	return &ioFileBody{path: path, rc: v}
}

type ioFileBody struct {
	path string
	rc   io.ReadCloser
	b    []byte
}

func (self *ioFileBody) Read(ctx context.Context, size int32) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(self.b) < int(size) {
		self.b = make([]byte, size)
	}
	count, err := self.rc.Read(self.b[:size])
	if err != nil && err != io.EOF {
		return nil, exc.WrapUnknown(exc.Location{URI: self.path}, err)
	}
	if err == io.EOF {
		return self.b[:count], exc.Wrap(exc.Location{URI: self.path}, exc.CodeEOF, err)
	}
	return self.b[:count], nil
}

func (self *ioFileBody) Close(ctx context.Context) error {
	return self.rc.Close()
}

const readChunk = 32 * 1024

// ReadAll loads the whole body of a file and closes it.
func ReadAll(ctx context.Context, f idl.File) ([]byte, error) {
	body, err := f.Body(ctx)
	if err != nil {
		return nil, err
	}
	var out []byte
	for {
		b, err := body.Read(ctx, readChunk)
		out = append(out, b...)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			_ = body.Close(ctx)
			return nil, err
		}
	}
	if err := body.Close(ctx); err != nil {
		return nil, exc.WrapUnknown(exc.Location{URI: f.Path(ctx)}, err)
	}
	return out, nil
}

// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package idl

import (
	"context"
	"fmt"

	"gopkg.microglot.org/lrengine.go/internal/optional"
)

type Closer interface {
	Close(ctx context.Context) error
}

type CodePoint uint32

type Iterator[T any] interface {
	Next(ctx context.Context) optional.Optional[T]
	Closer
}

type Filter[T any] interface {
	Keep(ctx context.Context, v T) bool
}

type Reader interface {
	Read(ctx context.Context, size int32) ([]byte, error)
}

type FileBody interface {
	Reader
	Closer
}

type FileKind uint32

const (
	FileKindNone FileKind = iota
	FileKindTableYAML
	FileKindTableBinary
	FileKindInput
)

func (k FileKind) String() string {
	switch k {
	case FileKindNone:
		return "none"
	case FileKindTableYAML:
		return "table-yaml"
	case FileKindTableBinary:
		return "table-binary"
	case FileKindInput:
		return "input"
	default:
		return fmt.Sprintf("unkown-%d", k)
	}
}

type File interface {
	Path(ctx context.Context) string
	Kind(ctx context.Context) FileKind
	Body(ctx context.Context) (FileBody, error)
}

type FileSystem interface {
	Open(ctx context.Context, uri string) ([]File, error)
	Write(ctx context.Context, uri string, content string) error
}

// Value is the semantic value attached to a token occurrence or produced by
// a reduction. The engine never looks inside it.
type Value = any

// TokenID identifies a terminal symbol. It indexes the columns of an ACTION
// table.
type TokenID = int

type Location struct {
	Line   int32
	Column int32
	Offset int64
}

type Span struct {
	Start Location
	End   Location
}

type Token struct {
	ID    TokenID
	Name  string
	Text  string
	Value Value
	Span  Span
	// Skip marks tokens that a lexer matched but that the grammar never
	// sees, such as whitespace.
	Skip bool
}

func (t *Token) String() string {
	if t.Text == "" {
		return t.Name
	}
	return fmt.Sprintf("%s(%q)", t.Name, t.Text)
}

// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package lr

import (
	"gopkg.microglot.org/lrengine.go/internal/exc"
)

const (
	DefaultQueueChunkSize = 50
	DefaultStackChunkSize = 100
	MinBuffered           = 2
)

type Option func(e *Engine) error

// WithQueueChunkSize sets how many input entries are reserved at a time.
func WithQueueChunkSize(n int) Option {
	return func(e *Engine) error {
		if n < 1 {
			return exc.Newf(exc.Location{}, exc.CodeUnknownFatal, "queue chunk size must be positive, got %d", n)
		}
		e.queueChunk = n
		return nil
	}
}

// WithStackChunkSize sets how many stack entries are reserved at a time.
func WithStackChunkSize(n int) Option {
	return func(e *Engine) error {
		if n < 1 {
			return exc.Newf(exc.Location{}, exc.CodeUnknownFatal, "stack chunk size must be positive, got %d", n)
		}
		e.stackChunk = n
		return nil
	}
}

// WithMaxBuffered caps the number of unconsumed input entries. Feed returns
// a CodeResourceExhausted exception instead of buffering past the cap and the
// engine stays usable. Zero means no cap. Feed buffers before it steps, so a
// drained engine still holds the lookahead when the next token arrives and
// the smallest usable cap is MinBuffered.
func WithMaxBuffered(n int) Option {
	return func(e *Engine) error {
		if n != 0 && n < MinBuffered {
			return exc.Newf(exc.Location{}, exc.CodeUnknownFatal, "max buffered must be 0 or at least %d, got %d", MinBuffered, n)
		}
		e.maxBuffered = n
		return nil
	}
}

// WithMaxDepth caps the parse stack. Hitting the cap is fatal to the engine.
// Zero means no cap.
func WithMaxDepth(n int) Option {
	return func(e *Engine) error {
		if n < 0 {
			return exc.Newf(exc.Location{}, exc.CodeUnknownFatal, "max depth must not be negative, got %d", n)
		}
		e.maxDepth = n
		return nil
	}
}

// WithTracer installs a callback that sees every completed step.
func WithTracer(t Tracer) Option {
	return func(e *Engine) error {
		e.tracer = t
		return nil
	}
}

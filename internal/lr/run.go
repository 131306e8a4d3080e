// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package lr

import (
	"context"

	"gopkg.microglot.org/lrengine.go/internal/exc"
	"gopkg.microglot.org/lrengine.go/internal/idl"
)

// Run feeds every token from the stream into the engine, stepping after each
// feed until the engine needs more input, and returns the accepted value.
// Errors raised by the tables are located at the token being fed and at uri;
// handler errors come back as the handler returned them. An error from closing
// the stream, such as a lexical error that ended it, wins over both.
func Run(ctx context.Context, e *Engine, uri string, tokens idl.Iterator[*idl.Token]) (idl.Value, error) {
	value, err := run(ctx, e, uri, tokens)
	if closeErr := tokens.Close(ctx); closeErr != nil {
		return nil, closeErr
	}
	if err != nil {
		return nil, err
	}
	return value, nil
}

func run(ctx context.Context, e *Engine, uri string, tokens idl.Iterator[*idl.Token]) (idl.Value, error) {
	loc := exc.Location{URI: uri}
	for tok := tokens.Next(ctx); tok.IsPresent(); tok = tokens.Next(ctx) {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		t := tok.Value()
		loc.Location = t.Span.Start
		status, err := e.Feed(t.ID, t.Value)
		if err == nil {
			status, err = drain(e, status)
		}
		if err != nil {
			return nil, locate(e, loc, err)
		}
		if status == StatusAccepted {
			v, _ := e.Result()
			return v, nil
		}
	}
	// Whatever is still buffered, such as a lone primed token, gets its turn
	// before giving up.
	status, err := drain(e, StatusContinue)
	if err != nil {
		return nil, locate(e, loc, err)
	}
	if status == StatusAccepted {
		v, _ := e.Result()
		return v, nil
	}
	return nil, exc.New(loc, exc.CodeUnexpectedEOF, "token stream ended before the input was accepted")
}

// locate places engine errors at the token being processed. Errors returned
// by a handler belong to the handler and pass through untouched.
func locate(e *Engine, loc exc.Location, err error) error {
	if e.inHandler {
		return err
	}
	return exc.WithLocation(loc, err)
}

func drain(e *Engine, status Status) (Status, error) {
	var err error
	for status == StatusContinue {
		status, err = e.Step()
		if err != nil {
			return status, err
		}
	}
	return status, nil
}

// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

// Package driver ties a parser definition together: it lexes an input with
// the definition's token rules and runs a fresh engine over the tokens.
package driver

import (
	"context"

	"github.com/tliron/commonlog"

	"gopkg.microglot.org/lrengine.go/internal/fs"
	"gopkg.microglot.org/lrengine.go/internal/idl"
	"gopkg.microglot.org/lrengine.go/internal/iter"
	"gopkg.microglot.org/lrengine.go/internal/lexer"
	"gopkg.microglot.org/lrengine.go/internal/lr"
	"gopkg.microglot.org/lrengine.go/internal/tablefile"
)

var log = commonlog.GetLogger("lrengine.driver")

type Option func(p *Parser) error

// WithEngineOptions applies the given options to every engine the parser
// creates.
func WithEngineOptions(opts ...lr.Option) Option {
	return func(p *Parser) error {
		p.engineOpts = append(p.engineOpts, opts...)
		return nil
	}
}

// WithFallbackHandler names the handler used by productions that do not name
// one.
func WithFallbackHandler(name string) Option {
	return func(p *Parser) error {
		p.fallback = name
		return nil
	}
}

func WithLexerOptions(opts ...lexer.Option) Option {
	return func(p *Parser) error {
		p.lexerOpts = append(p.lexerOpts, opts...)
		return nil
	}
}

// Parser holds everything that can be shared between parses. Parse may be
// called concurrently; each call gets its own engine.
type Parser struct {
	def        *tablefile.Definition
	tables     *lr.Tables
	lexer      *lexer.Lexer
	fallback   string
	engineOpts []lr.Option
	lexerOpts  []lexer.Option
}

func New(def *tablefile.Definition, handlers tablefile.Handlers, opts ...Option) (*Parser, error) {
	p := &Parser{def: def}
	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, err
		}
	}
	tables, err := def.Tables(handlers, p.fallback)
	if err != nil {
		return nil, err
	}
	lex, err := def.Lexer(append([]lexer.Option{lexer.WithKeepSkipped()}, p.lexerOpts...)...)
	if err != nil {
		return nil, err
	}
	// Reject bad engine options before any input is read.
	if _, err := lr.New(tables, p.engineOpts...); err != nil {
		return nil, err
	}
	p.tables = tables
	p.lexer = lex
	log.Debugf("parser ready: %d states, %d terminals, %d nonterminals, %d productions",
		tables.States(), tables.Terminals(), tables.Nonterminals(), len(def.Productions))
	return p, nil
}

func (p *Parser) Tables() *lr.Tables {
	return p.tables
}

// Parse lexes and parses one file and returns the value of the accepted
// input.
func (p *Parser) Parse(ctx context.Context, f idl.File) (idl.Value, error) {
	uri := f.Path(ctx)
	tokens, err := p.lexer.Scan(ctx, f)
	if err != nil {
		return nil, err
	}
	e, err := p.newEngine(uri)
	if err != nil {
		_ = tokens.Close(ctx)
		return nil, err
	}
	value, err := lr.Run(ctx, e, uri, iter.NewIteratorFilter(tokens, iter.SkipTokens()))
	if err != nil {
		log.Debugf("%s: failed after %d steps: %v", uri, e.Steps(), err)
		return nil, err
	}
	log.Debugf("%s: accepted after %d steps", uri, e.Steps())
	return value, nil
}

// ParseString parses in-memory text as if it were a file at uri.
func (p *Parser) ParseString(ctx context.Context, uri string, text string) (idl.Value, error) {
	return p.Parse(ctx, fs.NewFileString(uri, text, idl.FileKindInput))
}

// Tokens lexes a file without parsing it. Skipped tokens are included.
func (p *Parser) Tokens(ctx context.Context, f idl.File) ([]*idl.Token, error) {
	tokens, err := p.lexer.Scan(ctx, f)
	if err != nil {
		return nil, err
	}
	return iter.Collect(ctx, tokens)
}

func (p *Parser) newEngine(uri string) (*lr.Engine, error) {
	opts := p.engineOpts
	if log.AllowLevel(commonlog.Debug) {
		opts = append(append([]lr.Option(nil), opts...), lr.WithTracer(p.tracer(uri)))
	}
	return lr.New(p.tables, opts...)
}

func (p *Parser) tracer(uri string) lr.Tracer {
	return func(tr lr.Trace) {
		name := "?"
		if tr.Token >= 0 && tr.Token < len(p.def.Terminals) {
			name = p.def.Terminals[tr.Token]
		}
		switch tr.Action.Kind {
		case lr.ActionReduce:
			log.Debugf("%s: step %d: state %d on %s: reduce %q, goto %d, depth %d", uri, tr.Step, tr.State, name, tr.Production, tr.Next, tr.Depth)
		default:
			log.Debugf("%s: step %d: state %d on %s: %s, state %d, depth %d", uri, tr.Step, tr.State, name, tr.Action.Kind, tr.Next, tr.Depth)
		}
	}
}

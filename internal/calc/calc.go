// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

// Package calc is a small integer calculator built on an embedded parser
// definition.
package calc

import (
	"context"
	_ "embed"
	"sync"

	"gopkg.microglot.org/lrengine.go/internal/driver"
	"gopkg.microglot.org/lrengine.go/internal/idl"
	"gopkg.microglot.org/lrengine.go/internal/tablefile"
)

//go:embed calc.yaml
var definition []byte

// Definition returns a fresh copy of the calculator's parser definition.
func Definition() (*tablefile.Definition, error) {
	return tablefile.Decode(definition)
}

// Handlers returns the semantic actions the calculator's productions name.
func Handlers() tablefile.Handlers {
	return tablefile.Handlers{
		"add": func(args ...idl.Value) (idl.Value, error) {
			return args[0].(int) + args[2].(int), nil
		},
		"times": func(args ...idl.Value) (idl.Value, error) {
			return args[0].(int) * args[2].(int), nil
		},
		"paren": func(args ...idl.Value) (idl.Value, error) {
			return args[1], nil
		},
	}
}

var (
	parserOnce sync.Once
	parser     *driver.Parser
	parserErr  error
)

// Parser returns the shared calculator parser.
func Parser() (*driver.Parser, error) {
	parserOnce.Do(func() {
		def, err := Definition()
		if err != nil {
			parserErr = err
			return
		}
		parser, parserErr = driver.New(def, tablefile.Builtins().With(Handlers()))
	})
	return parser, parserErr
}

// Eval computes the value of an expression such as "4 * (3 + 2 * 5)".
func Eval(ctx context.Context, text string) (int, error) {
	p, err := Parser()
	if err != nil {
		return 0, err
	}
	v, err := p.ParseString(ctx, "/expr", text)
	if err != nil {
		return 0, err
	}
	return v.(int), nil
}

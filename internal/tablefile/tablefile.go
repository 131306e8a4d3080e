// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

// Package tablefile reads and writes parser definitions: the ACTION and GOTO
// tables a generator produced, the productions they reduce by and the token
// rules of the lexer that feeds them.
package tablefile

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"gopkg.microglot.org/lrengine.go/internal/exc"
	"gopkg.microglot.org/lrengine.go/internal/fs"
	"gopkg.microglot.org/lrengine.go/internal/idl"
	"gopkg.microglot.org/lrengine.go/internal/lexer"
	"gopkg.microglot.org/lrengine.go/internal/lr"
)

const DefaultEOF = "EOF"

type Token struct {
	Name    string `yaml:"name"`
	Pattern string `yaml:"pattern"`
	Skip    bool   `yaml:"skip,omitempty"`
	Convert string `yaml:"convert,omitempty"`
}

// Production names its handler and its left-hand side nonterminal. An empty
// handler falls back to whatever default the caller of Tables chooses.
type Production struct {
	Name    string `yaml:"name"`
	Arity   int    `yaml:"arity"`
	Handler string `yaml:"handler,omitempty"`
	LHS     string `yaml:"lhs"`
}

// Definition is the file form of a parser. Action cells are written as "s5",
// "r2", "a" or "" and goto cells are state numbers or null.
type Definition struct {
	Terminals    []string     `yaml:"terminals"`
	Nonterminals []string     `yaml:"nonterminals"`
	EOF          string       `yaml:"eof,omitempty"`
	Tokens       []Token      `yaml:"tokens,omitempty"`
	Productions  []Production `yaml:"productions"`
	Actions      [][]string   `yaml:"actions"`
	Gotos        [][]*int     `yaml:"gotos"`
}

func (d *Definition) eof() string {
	if d.EOF == "" {
		return DefaultEOF
	}
	return d.EOF
}

func Decode(b []byte) (*Definition, error) {
	var d Definition
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(&d); err != nil {
		return nil, exc.Wrap(exc.Location{}, exc.CodeMalformedTable, err)
	}
	return &d, nil
}

func Encode(d *Definition) ([]byte, error) {
	var b bytes.Buffer
	enc := yaml.NewEncoder(&b)
	enc.SetIndent(2)
	if err := enc.Encode(d); err != nil {
		return nil, exc.WrapUnknown(exc.Location{}, err)
	}
	if err := enc.Close(); err != nil {
		return nil, exc.WrapUnknown(exc.Location{}, err)
	}
	return b.Bytes(), nil
}

// Load reads a definition in the format its file kind names.
func Load(ctx context.Context, f idl.File) (*Definition, error) {
	loc := exc.Location{URI: f.Path(ctx)}
	b, err := fs.ReadAll(ctx, f)
	if err != nil {
		return nil, err
	}
	var d *Definition
	switch f.Kind(ctx) {
	case idl.FileKindTableYAML:
		d, err = Decode(b)
	case idl.FileKindTableBinary:
		d, err = DecodeBinary(b)
	default:
		return nil, exc.Newf(loc, exc.CodeUnsupportedFileFormat, "%s is not a parser definition", f.Kind(ctx))
	}
	if err != nil {
		return nil, exc.WithLocation(loc, err)
	}
	return d, nil
}

// Marshal writes a definition in the format of the given kind.
func Marshal(d *Definition, kind idl.FileKind) ([]byte, error) {
	switch kind {
	case idl.FileKindTableYAML:
		return Encode(d)
	case idl.FileKindTableBinary:
		return EncodeBinary(d), nil
	default:
		return nil, exc.Newf(exc.Location{}, exc.CodeUnsupportedFileFormat, "%s is not a parser definition", kind)
	}
}

// ParseCell decodes one action cell. Tags other than the known ones are kept
// so that table validation can report them with their position.
func ParseCell(cell string) (lr.RawAction, error) {
	cell = strings.TrimSpace(cell)
	switch cell {
	case lr.TagError:
		return lr.RawAction{Tag: lr.TagError, Arg: -1}, nil
	case lr.TagAccept:
		return lr.RawAction{Tag: lr.TagAccept, Arg: -1}, nil
	}
	split := strings.IndexAny(cell, "-0123456789")
	if split <= 0 {
		return lr.RawAction{}, fmt.Errorf("malformed action %q", cell)
	}
	arg, err := strconv.Atoi(cell[split:])
	if err != nil {
		return lr.RawAction{}, fmt.Errorf("malformed action %q", cell)
	}
	return lr.RawAction{Tag: cell[:split], Arg: arg}, nil
}

// Lexer builds the lexer described by the token rules. The first terminal
// must be the end of input marker.
func (d *Definition) Lexer(opts ...lexer.Option) (*lexer.Lexer, error) {
	if len(d.Terminals) == 0 || d.Terminals[0] != d.eof() {
		return nil, exc.Newf(exc.Location{}, exc.CodeMalformedTable, "first terminal must be %q", d.eof())
	}
	rules := make([]lexer.Rule, 0, len(d.Tokens))
	for _, t := range d.Tokens {
		rules = append(rules, lexer.Rule{
			Name:    t.Name,
			Pattern: t.Pattern,
			Skip:    t.Skip,
			Convert: t.Convert,
		})
	}
	return lexer.New(d.Terminals, rules, opts...)
}

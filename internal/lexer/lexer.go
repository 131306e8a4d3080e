// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package lexer

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/dlclark/regexp2"

	"gopkg.microglot.org/lrengine.go/internal/exc"
	"gopkg.microglot.org/lrengine.go/internal/idl"
	"gopkg.microglot.org/lrengine.go/internal/iter"
	"gopkg.microglot.org/lrengine.go/internal/optional"
)

// EOFValue is the value carried by the end of input token.
const EOFValue = "EOF"

// Rule is one token pattern. Rules are tried in order and the first one that
// matches at the current position wins. Skip rules never reach the parser
// and need not name a terminal.
type Rule struct {
	Name    string
	Pattern string
	Skip    bool
	Convert string
}

// Converter turns the matched text into the semantic value of the token.
type Converter func(text string) (idl.Value, error)

var converters = map[string]Converter{
	"":     convertText,
	"text": convertText,
	"int": func(text string) (idl.Value, error) {
		v, err := strconv.Atoi(text)
		if err != nil {
			return nil, err
		}
		return v, nil
	},
	"float": func(text string) (idl.Value, error) {
		v, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return nil, err
		}
		return v, nil
	},
	"none": func(string) (idl.Value, error) {
		return nil, nil
	},
}

func convertText(text string) (idl.Value, error) {
	return text, nil
}

// Converters lists the names a Rule may use in its Convert field.
func Converters() []string {
	return []string{"text", "int", "float", "none"}
}

type Option func(l *Lexer) error

// WithKeepSkipped makes the lexer emit tokens for skip rules with Skip set
// instead of dropping them.
func WithKeepSkipped() Option {
	return func(l *Lexer) error {
		l.keepSkipped = true
		return nil
	}
}

// WithMatchTimeout bounds the time a single pattern may spend matching.
func WithMatchTimeout(d time.Duration) Option {
	return func(l *Lexer) error {
		if d < 0 {
			return exc.Newf(exc.Location{}, exc.CodeMalformedTable, "negative match timeout %s", d)
		}
		l.timeout = d
		return nil
	}
}

type compiled struct {
	rule    Rule
	id      idl.TokenID
	re      *regexp2.Regexp
	convert Converter
}

// Lexer splits input into tokens whose ids index the given terminal list.
// Terminal 0 is the end of input marker. A Lexer holds no per-input state and
// may scan any number of inputs concurrently.
type Lexer struct {
	terminals   []string
	rules       []compiled
	keepSkipped bool
	timeout     time.Duration
}

func New(terminals []string, rules []Rule, opts ...Option) (*Lexer, error) {
	l := &Lexer{
		terminals: append([]string(nil), terminals...),
	}
	for _, opt := range opts {
		if err := opt(l); err != nil {
			return nil, err
		}
	}

	r := exc.NewReporter(nil)
	report := func(format string, args ...any) {
		_ = r.Report(exc.Newf(exc.Location{}, exc.CodeMalformedTable, format, args...))
	}
	if len(terminals) == 0 {
		report("lexer needs at least the end of input terminal")
		return nil, exc.Collected(r)
	}
	ids := make(map[string]idl.TokenID, len(terminals))
	for x, name := range terminals {
		if _, ok := ids[name]; ok {
			report("terminal %q listed twice", name)
			continue
		}
		ids[name] = x
	}
	for x, rule := range rules {
		id, ok := ids[rule.Name]
		switch {
		case ok && id == 0:
			report("token rule %d: %q is the end of input terminal", x, rule.Name)
		case !ok && !rule.Skip:
			report("token rule %d: %q is not a terminal", x, rule.Name)
		case !ok:
			id = -1
		}
		convert, ok := converters[rule.Convert]
		if !ok {
			report("token rule %d: unknown converter %q", x, rule.Convert)
		}
		re, err := regexp2.Compile(`\G(?:`+rule.Pattern+`)`, regexp2.None)
		if err != nil {
			report("token rule %d: pattern %q: %v", x, rule.Pattern, err)
			continue
		}
		if l.timeout > 0 {
			re.MatchTimeout = l.timeout
		}
		l.rules = append(l.rules, compiled{rule: rule, id: id, re: re, convert: convert})
	}
	if err := exc.Collected(r); err != nil {
		return nil, err
	}
	return l, nil
}

// Terminals returns the terminal names in token id order.
func (l *Lexer) Terminals() []string {
	return append([]string(nil), l.terminals...)
}

// Scan reads the whole file and returns its tokens. Lexical errors end the
// stream and are reported by Close.
func (l *Lexer) Scan(ctx context.Context, f idl.File) (idl.Iterator[*idl.Token], error) {
	body, err := f.Body(ctx)
	if err != nil {
		return nil, err
	}
	input, err := iter.ReadRunes(ctx, body)
	if err != nil {
		return nil, err
	}
	return l.Tokens(f.Path(ctx), input), nil
}

// Tokens returns the tokens of an in-memory input. The stream always ends with
// exactly one end of input token unless a lexical error stops it first.
func (l *Lexer) Tokens(uri string, input []rune) idl.Iterator[*idl.Token] {
	return &tokens{
		lexer: l,
		uri:   uri,
		input: input,
		at:    idl.Location{Line: 1, Column: 1},
	}
}

type tokens struct {
	lexer *Lexer
	uri   string
	input []rune
	at    idl.Location
	done  bool
	err   error
}

func (self *tokens) Next(ctx context.Context) optional.Optional[*idl.Token] {
	for !self.done {
		if err := ctx.Err(); err != nil {
			return self.stop(err)
		}
		pos := int(self.at.Offset)
		if pos >= len(self.input) {
			self.done = true
			return optional.Some(&idl.Token{
				ID:    0,
				Name:  self.lexer.terminals[0],
				Value: EOFValue,
				Span:  idl.Span{Start: self.at, End: self.at},
			})
		}
		tok, err := self.match(pos)
		if err != nil {
			return self.stop(err)
		}
		if tok.Skip && !self.lexer.keepSkipped {
			continue
		}
		return optional.Some(tok)
	}
	return optional.None[*idl.Token]()
}

func (self *tokens) match(pos int) (*idl.Token, error) {
	loc := exc.Location{Location: self.at, URI: self.uri}
	for _, c := range self.lexer.rules {
		m, err := c.re.FindRunesMatchStartingAt(self.input, pos)
		if err != nil {
			return nil, exc.Wrap(loc, exc.CodeLexical, err)
		}
		if m == nil || m.Index != pos || m.Length == 0 {
			continue
		}
		text := string(self.input[pos : pos+m.Length])
		value, err := c.convert(text)
		if err != nil {
			return nil, exc.Newf(loc, exc.CodeLexical, "%s %q: %v", c.rule.Name, text, err)
		}
		start := self.at
		self.advance(self.input[pos : pos+m.Length])
		return &idl.Token{
			ID:    c.id,
			Name:  c.rule.Name,
			Text:  text,
			Value: value,
			Span:  idl.Span{Start: start, End: self.at},
			Skip:  c.rule.Skip,
		}, nil
	}
	return nil, exc.Newf(loc, exc.CodeLexical, "no token matches at %q", snippet(self.input[pos:]))
}

func (self *tokens) advance(matched []rune) {
	for _, r := range matched {
		self.at.Offset = self.at.Offset + 1
		if r == '\n' {
			self.at.Line = self.at.Line + 1
			self.at.Column = 1
			continue
		}
		self.at.Column = self.at.Column + 1
	}
}

func (self *tokens) stop(err error) optional.Optional[*idl.Token] {
	self.done = true
	self.err = err
	return optional.None[*idl.Token]()
}

func (self *tokens) Close(ctx context.Context) error {
	self.done = true
	return self.err
}

func snippet(rest []rune) string {
	const limit = 10
	if len(rest) > limit {
		return fmt.Sprintf("%s...", string(rest[:limit]))
	}
	return string(rest)
}

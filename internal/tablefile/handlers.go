// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package tablefile

import (
	"sort"

	"gopkg.microglot.org/lrengine.go/internal/exc"
	"gopkg.microglot.org/lrengine.go/internal/lr"
)

// Handlers maps the handler names used in a definition to functions.
type Handlers map[string]lr.Handler

// Builtins returns the handlers every definition may name. "unspecified" is
// the historical name of "pass".
func Builtins() Handlers {
	return Handlers{
		"pass":        lr.PassThrough,
		"unspecified": lr.PassThrough,
		"collect":     lr.Collect,
	}
}

// With returns a copy of the registry extended by more. Later entries win.
func (h Handlers) With(more Handlers) Handlers {
	out := make(Handlers, len(h)+len(more))
	for name, fn := range h {
		out[name] = fn
	}
	for name, fn := range more {
		out[name] = fn
	}
	return out
}

func (h Handlers) Names() []string {
	names := make([]string, 0, len(h))
	for name := range h {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Tables resolves names and builds validated tables. Productions without a
// handler use fallback; with an empty fallback they are an error. Every
// problem in the definition is reported, not just the first.
func (d *Definition) Tables(handlers Handlers, fallback string) (*lr.Tables, error) {
	r := exc.NewReporter(nil)
	report := func(format string, args ...any) {
		_ = r.Report(exc.Newf(exc.Location{}, exc.CodeMalformedTable, format, args...))
	}

	lhs := make(map[string]int, len(d.Nonterminals))
	for x, name := range d.Nonterminals {
		lhs[name] = x
	}
	productions := make([]lr.Production, len(d.Productions))
	for x, p := range d.Productions {
		name := p.Handler
		if name == "" {
			name = fallback
		}
		var handler lr.Handler
		switch fn, ok := handlers[name]; {
		case name == "":
			report("production %d %q: no handler", x+1, p.Name)
		case !ok:
			report("production %d %q: unknown handler %q", x+1, p.Name, name)
		default:
			handler = fn
		}
		nt, ok := lhs[p.LHS]
		if !ok {
			report("production %d %q: unknown nonterminal %q", x+1, p.Name, p.LHS)
		}
		productions[x] = lr.Production{
			Name:    p.Name,
			Arity:   p.Arity,
			Handler: handler,
			LHS:     nt,
		}
	}

	actions := make([][]lr.RawAction, len(d.Actions))
	for state, row := range d.Actions {
		if len(row) != len(d.Terminals) {
			report("actions[%d] has %d cells for %d terminals", state, len(row), len(d.Terminals))
		}
		actions[state] = make([]lr.RawAction, len(row))
		for tok, cell := range row {
			a, err := ParseCell(cell)
			if err != nil {
				report("actions[%d][%d]: %v", state, tok, err)
				a = lr.RawAction{Tag: lr.TagError, Arg: -1}
			}
			actions[state][tok] = a
		}
	}

	gotos := make([][]int, len(d.Gotos))
	for state, row := range d.Gotos {
		if len(row) != len(d.Nonterminals) {
			report("gotos[%d] has %d cells for %d nonterminals", state, len(row), len(d.Nonterminals))
		}
		gotos[state] = make([]int, len(row))
		for nt, next := range row {
			gotos[state][nt] = lr.NoGoto
			if next != nil {
				gotos[state][nt] = *next
			}
		}
	}

	if err := exc.Collected(r); err != nil {
		return nil, err
	}
	return lr.NewTables(productions, actions, gotos)
}

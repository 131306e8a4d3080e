// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package lr

import (
	"fmt"

	"gopkg.microglot.org/lrengine.go/internal/exc"
	"gopkg.microglot.org/lrengine.go/internal/idl"
)

type ActionKind uint8

const (
	ActionError ActionKind = iota
	ActionShift
	ActionReduce
	ActionAccept
)

func (k ActionKind) String() string {
	switch k {
	case ActionError:
		return "error"
	case ActionShift:
		return "shift"
	case ActionReduce:
		return "reduce"
	case ActionAccept:
		return "accept"
	default:
		return fmt.Sprintf("unknown-%d", k)
	}
}

// Action is one decoded ACTION table cell. Target is the next state for a
// shift and the 1-based production id for a reduce.
type Action struct {
	Kind   ActionKind
	Target int
}

func Shift(state int) Action {
	return Action{Kind: ActionShift, Target: state}
}

func Reduce(production int) Action {
	return Action{Kind: ActionReduce, Target: production}
}

func Accept() Action {
	return Action{Kind: ActionAccept}
}

func (a Action) String() string {
	return a.Raw().String()
}

// Raw converts the action back into its table file form.
func (a Action) Raw() RawAction {
	switch a.Kind {
	case ActionShift:
		return RawAction{Tag: TagShift, Arg: a.Target}
	case ActionReduce:
		return RawAction{Tag: TagReduce, Arg: a.Target}
	case ActionAccept:
		return RawAction{Tag: TagAccept, Arg: -1}
	default:
		return RawAction{Tag: TagError, Arg: -1}
	}
}

const (
	TagShift  = "s"
	TagReduce = "r"
	TagAccept = "a"
	TagError  = ""
)

// RawAction is an ACTION cell as a table generator writes it: a one letter tag
// and an integer argument. The empty tag is the error entry.
type RawAction struct {
	Tag string
	Arg int
}

func (r RawAction) String() string {
	switch r.Tag {
	case TagShift, TagReduce:
		return fmt.Sprintf("%s%d", r.Tag, r.Arg)
	default:
		return r.Tag
	}
}

// NoGoto marks a GOTO cell without a successor state.
const NoGoto = -1

// Handler builds the semantic value of a nonterminal from the values of the
// right-hand side symbols, given in grammar order.
type Handler func(args ...idl.Value) (idl.Value, error)

// PassThrough is the handler for productions that only rename their first
// symbol. With no arguments it produces nil.
func PassThrough(args ...idl.Value) (idl.Value, error) {
	if len(args) == 0 {
		return nil, nil
	}
	return args[0], nil
}

// Collect produces the argument list itself, which turns a parse into a
// nested slice tree.
func Collect(args ...idl.Value) (idl.Value, error) {
	out := make([]idl.Value, len(args))
	copy(out, args)
	return out, nil
}

// Production describes one grammar rule. Arity is the number of right-hand
// side symbols and LHS indexes the GOTO table columns.
type Production struct {
	Name    string
	Arity   int
	Handler Handler
	LHS     int
}

// Tables is a validated, immutable set of ACTION, GOTO and production tables.
// One Tables value may back any number of engines.
type Tables struct {
	productions  []Production
	actions      [][]Action
	gotos        [][]int
	terminals    int
	nonterminals int
}

// NewTables validates and decodes the given tables. Every malformed entry is
// reported and the result is an exc.MultiException listing all of them.
// Reduce arguments are 1-based production ids.
func NewTables(productions []Production, actions [][]RawAction, gotos [][]int) (*Tables, error) {
	r := exc.NewReporter(nil)
	report := func(format string, args ...any) {
		_ = r.Report(exc.Newf(exc.Location{}, exc.CodeMalformedTable, format, args...))
	}

	states := len(actions)
	if states == 0 {
		report("action table has no states")
		return nil, exc.Collected(r)
	}
	t := &Tables{
		productions: make([]Production, len(productions)),
		actions:     make([][]Action, states),
		gotos:       make([][]int, states),
		terminals:   len(actions[0]),
	}
	copy(t.productions, productions)
	if len(gotos) > 0 {
		t.nonterminals = len(gotos[0])
	}

	if len(gotos) != states {
		report("goto table has %d rows, action table has %d", len(gotos), states)
	}
	for state, row := range gotos {
		if len(row) != t.nonterminals {
			report("goto[%d] has %d columns, expected %d", state, len(row), t.nonterminals)
		}
		for nt, next := range row {
			if next != NoGoto && (next < 0 || next >= states) {
				report("goto[%d][%d]: state %d out of range", state, nt, next)
			}
		}
		if state < states {
			t.gotos[state] = append([]int(nil), row...)
		}
	}

	for state, row := range actions {
		if len(row) != t.terminals {
			report("action[%d] has %d columns, expected %d", state, len(row), t.terminals)
		}
		decoded := make([]Action, len(row))
		for tok, raw := range row {
			a, err := decodeAction(raw, states, len(productions))
			if err != "" {
				report("action[%d][%d]: %s", state, tok, err)
			}
			decoded[tok] = a
		}
		t.actions[state] = decoded
	}

	for x, p := range productions {
		id := x + 1
		if p.Arity < 0 {
			report("production %d: negative arity %d", id, p.Arity)
		}
		if p.Handler == nil {
			report("production %d: no handler", id)
		}
		if p.LHS < 0 || p.LHS >= t.nonterminals {
			report("production %d: left-hand side %d out of range", id, p.LHS)
		}
	}

	if err := exc.Collected(r); err != nil {
		return nil, err
	}
	return t, nil
}

func decodeAction(raw RawAction, states int, productions int) (Action, string) {
	switch raw.Tag {
	case TagShift:
		if raw.Arg < 0 || raw.Arg >= states {
			return Action{}, fmt.Sprintf("shift to state %d out of range", raw.Arg)
		}
		return Shift(raw.Arg), ""
	case TagReduce:
		if raw.Arg < 1 || raw.Arg > productions {
			return Action{}, fmt.Sprintf("reduce by production %d out of range", raw.Arg)
		}
		return Reduce(raw.Arg), ""
	case TagAccept:
		return Accept(), ""
	case TagError:
		return Action{}, ""
	default:
		return Action{}, fmt.Sprintf("unknown action tag %q", raw.Tag)
	}
}

func (t *Tables) States() int {
	return len(t.actions)
}

func (t *Tables) Terminals() int {
	return t.terminals
}

func (t *Tables) Nonterminals() int {
	return t.nonterminals
}

// Production looks up a production by its 1-based id.
func (t *Tables) Production(id int) (Production, bool) {
	if id < 1 || id > len(t.productions) {
		return Production{}, false
	}
	return t.productions[id-1], true
}

func (t *Tables) Productions() []Production {
	out := make([]Production, len(t.productions))
	copy(out, t.productions)
	return out
}

// Action returns the ACTION cell for a state and token. Cells outside the
// table read as errors.
func (t *Tables) Action(state int, token idl.TokenID) Action {
	if !t.hasCell(state, token) {
		return Action{}
	}
	return t.actions[state][token]
}

// Goto returns the GOTO cell for a state and nonterminal, or NoGoto.
func (t *Tables) Goto(state int, nonterminal int) int {
	if state < 0 || state >= len(t.gotos) || nonterminal < 0 || nonterminal >= len(t.gotos[state]) {
		return NoGoto
	}
	return t.gotos[state][nonterminal]
}

func (t *Tables) hasCell(state int, token idl.TokenID) bool {
	return state >= 0 && state < len(t.actions) && token >= 0 && token < len(t.actions[state])
}

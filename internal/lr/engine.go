// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package lr

import (
	"fmt"

	"gopkg.microglot.org/lrengine.go/internal/exc"
	"gopkg.microglot.org/lrengine.go/internal/idl"
)

type Status uint8

const (
	// StatusNeedInput means every buffered token has been consumed, or the
	// engine is still priming.
	StatusNeedInput Status = iota
	// StatusContinue means buffered input remains and Step can make progress
	// without another Feed.
	StatusContinue
	StatusAccepted
)

func (s Status) String() string {
	switch s {
	case StatusNeedInput:
		return "need-input"
	case StatusContinue:
		return "continue"
	case StatusAccepted:
		return "accepted"
	default:
		return fmt.Sprintf("unknown-%d", s)
	}
}

type Phase uint8

const (
	PhasePriming Phase = iota
	PhaseRunning
	PhaseAccepted
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhasePriming:
		return "priming"
	case PhaseRunning:
		return "running"
	case PhaseAccepted:
		return "accepted"
	case PhaseFailed:
		return "failed"
	default:
		return fmt.Sprintf("unknown-%d", p)
	}
}

// Trace describes one completed step. State is the state the step started in
// and Next the state it left on top of the stack.
type Trace struct {
	Step       int
	Action     Action
	State      int
	Token      idl.TokenID
	Next       int
	Production string
	Depth      int
	Buffered   int
}

type Tracer func(Trace)

// Engine executes ACTION and GOTO tables over an incrementally fed token
// stream, one shift or reduce per step. An Engine belongs to a single parse;
// run concurrent parses on separate engines sharing one Tables.
type Engine struct {
	tables      *Tables
	input       *inputQueue
	stack       *parseStack
	phase       Phase
	steps       int
	failure     error
	inHandler   bool
	queueChunk  int
	stackChunk  int
	maxBuffered int
	maxDepth    int
	tracer      Tracer
}

func New(tables *Tables, opts ...Option) (*Engine, error) {
	if tables == nil {
		return nil, exc.New(exc.Location{}, exc.CodeMalformedTable, "engine needs tables")
	}
	e := &Engine{
		tables:     tables,
		queueChunk: DefaultQueueChunkSize,
		stackChunk: DefaultStackChunkSize,
	}
	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}
	e.input = newInputQueue(e.queueChunk, e.maxBuffered)
	e.stack = newParseStack(e.stackChunk, e.maxDepth)
	return e, nil
}

// Feed buffers one token and then performs at most one step against the
// oldest buffered token. The very first Feed only buffers.
func (e *Engine) Feed(token idl.TokenID, value idl.Value) (Status, error) {
	if err := e.halted(); err != nil {
		return StatusNeedInput, err
	}
	if err := e.input.push(token, value); err != nil {
		return StatusNeedInput, err
	}
	if e.phase == PhasePriming {
		e.phase = PhaseRunning
		return StatusNeedInput, nil
	}
	return e.step()
}

// Step performs one step against the buffered input without feeding. With
// nothing buffered it reports StatusNeedInput and changes nothing.
func (e *Engine) Step() (Status, error) {
	if err := e.halted(); err != nil {
		return StatusNeedInput, err
	}
	if e.input.len() == 0 {
		return StatusNeedInput, nil
	}
	e.phase = PhaseRunning
	return e.step()
}

func (e *Engine) step() (Status, error) {
	front := e.input.front()
	if !front.IsPresent() {
		return StatusNeedInput, nil
	}
	entry := front.Value()
	state := e.stack.state()
	if !e.tables.hasCell(state, entry.token) {
		return e.fail(exc.Newf(exc.Location{}, exc.CodeTableIndex, "no ACTION cell for state %d and token %d", state, entry.token))
	}
	act := e.tables.actions[state][entry.token]
	e.steps = e.steps + 1

	switch act.Kind {
	case ActionShift:
		if err := e.stack.push(act.Target, entry.token, entry.value); err != nil {
			return e.fail(err)
		}
		e.input.advance()
		e.trace(act, state, entry.token, "")
		return e.progress(), nil
	case ActionReduce:
		prod := e.tables.productions[act.Target-1]
		values, err := e.stack.pop(prod.Arity)
		if err != nil {
			return e.fail(err)
		}
		below := e.stack.state()
		result, err := prod.Handler(values...)
		if err != nil {
			e.inHandler = true
			return e.fail(err)
		}
		next := e.tables.Goto(below, prod.LHS)
		if next == NoGoto {
			return e.fail(exc.Newf(exc.Location{}, exc.CodeTableEntryMissing, "no GOTO entry for state %d and nonterminal %d", below, prod.LHS))
		}
		if err := e.stack.push(next, act.Target, result); err != nil {
			return e.fail(err)
		}
		e.trace(act, state, entry.token, prod.Name)
		return e.progress(), nil
	case ActionAccept:
		e.phase = PhaseAccepted
		e.trace(act, state, entry.token, "")
		return StatusAccepted, nil
	case ActionError:
		return e.fail(exc.Newf(exc.Location{}, exc.CodeTableEntryMissing, "no action for token %d in state %d", entry.token, state))
	default:
		return e.fail(exc.Newf(exc.Location{}, exc.CodeSyntax, "action kind %s in state %d", act.Kind, state))
	}
}

func (e *Engine) progress() Status {
	if e.input.len() == 0 {
		return StatusNeedInput
	}
	return StatusContinue
}

func (e *Engine) fail(err error) (Status, error) {
	e.phase = PhaseFailed
	e.failure = err
	return StatusNeedInput, err
}

func (e *Engine) halted() error {
	switch e.phase {
	case PhaseAccepted:
		return exc.New(exc.Location{}, exc.CodeTableIndex, "engine already accepted its input")
	case PhaseFailed:
		return exc.Newf(exc.Location{}, exc.CodeTableIndex, "engine already failed: %v", e.failure)
	default:
		return nil
	}
}

func (e *Engine) trace(act Action, state int, token idl.TokenID, production string) {
	if e.tracer == nil {
		return
	}
	e.tracer(Trace{
		Step:       e.steps,
		Action:     act,
		State:      state,
		Token:      token,
		Next:       e.stack.state(),
		Production: production,
		Depth:      e.stack.depth(),
		Buffered:   e.input.len(),
	})
}

// State is the automaton state on top of the stack, or 0 when it is empty.
func (e *Engine) State() int {
	return e.stack.state()
}

func (e *Engine) StackDepth() int {
	return e.stack.depth()
}

// Buffered is the number of fed tokens not yet shifted.
func (e *Engine) Buffered() int {
	return e.input.len()
}

// Consumed is the number of tokens shifted so far.
func (e *Engine) Consumed() int {
	return e.input.consumed
}

func (e *Engine) Phase() Phase {
	return e.phase
}

// Steps counts the shift, reduce and accept steps taken.
func (e *Engine) Steps() int {
	return e.steps
}

// Err returns the error that failed the engine, if any.
func (e *Engine) Err() error {
	return e.failure
}

// Result returns the value on top of the stack once the engine has accepted.
func (e *Engine) Result() (idl.Value, bool) {
	if e.phase != PhaseAccepted {
		return nil, false
	}
	top, ok := e.stack.top()
	if !ok {
		return nil, false
	}
	return top.value, true
}

// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package lr

import (
	"fmt"
	"io"
	"text/tabwriter"
)

// DumpStack writes the parse stack bottom to top.
func (e *Engine) DumpStack(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 1, ' ', 0)
	fmt.Fprintf(tw, "stack depth %d, state %d, phase %s\n", e.stack.depth(), e.stack.state(), e.phase)
	for x, entry := range e.stack.entries {
		fmt.Fprintf(tw, "\t[%d]\tstate=%d\ttoken=%d\tvalue=%v\n", x, entry.state, entry.token, entry.value)
	}
	return tw.Flush()
}

// DumpInput writes the buffered, unconsumed input oldest first.
func (e *Engine) DumpInput(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 1, ' ', 0)
	fmt.Fprintf(tw, "input buffered %d, consumed %d\n", e.input.len(), e.input.consumed)
	for x, entry := range e.input.pending() {
		fmt.Fprintf(tw, "\t[%d]\ttoken=%d\tvalue=%v\n", x, entry.token, entry.value)
	}
	return tw.Flush()
}

// DumpActions writes the ACTION table, one row per state. Error cells print
// as a dot.
func (t *Tables) DumpActions(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 1, ' ', tabwriter.AlignRight)
	fmt.Fprint(tw, "state\t")
	for tok := 0; tok < t.terminals; tok = tok + 1 {
		fmt.Fprintf(tw, "%d\t", tok)
	}
	fmt.Fprintln(tw)
	for state, row := range t.actions {
		fmt.Fprintf(tw, "%d\t", state)
		for _, a := range row {
			cell := a.String()
			if cell == "" {
				cell = "."
			}
			fmt.Fprintf(tw, "%s\t", cell)
		}
		fmt.Fprintln(tw)
	}
	return tw.Flush()
}

// DumpGotos writes the GOTO table, one row per state. Missing entries print
// as a dot.
func (t *Tables) DumpGotos(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 1, ' ', tabwriter.AlignRight)
	fmt.Fprint(tw, "state\t")
	for nt := 0; nt < t.nonterminals; nt = nt + 1 {
		fmt.Fprintf(tw, "%d\t", nt)
	}
	fmt.Fprintln(tw)
	for state, row := range t.gotos {
		fmt.Fprintf(tw, "%d\t", state)
		for _, next := range row {
			if next == NoGoto {
				fmt.Fprint(tw, ".\t")
				continue
			}
			fmt.Fprintf(tw, "%d\t", next)
		}
		fmt.Fprintln(tw)
	}
	return tw.Flush()
}

func (t *Tables) DumpProductions(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 1, ' ', 0)
	fmt.Fprintln(tw, "id\tarity\tlhs\tname")
	for x, p := range t.productions {
		fmt.Fprintf(tw, "%d\t%d\t%d\t%s\n", x+1, p.Arity, p.LHS, p.Name)
	}
	return tw.Flush()
}

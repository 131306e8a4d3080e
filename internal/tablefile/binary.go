// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package tablefile

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"

	"gopkg.microglot.org/lrengine.go/internal/exc"
	"gopkg.microglot.org/lrengine.go/internal/lr"
)

// The binary form is a protobuf message written directly with protowire:
//
//	message Definition {
//	  repeated string terminals = 1;
//	  repeated string nonterminals = 2;
//	  string eof = 3;
//	  repeated Token tokens = 4;
//	  repeated Production productions = 5;
//	  repeated Row actions = 6;
//	  repeated GotoRow gotos = 7;
//	}
//	message Token { string name = 1; string pattern = 2; bool skip = 3; string convert = 4; }
//	message Production { string name = 1; sint64 arity = 2; string handler = 3; string lhs = 4; }
//	message Row { repeated string cells = 1; }
//	message GotoRow { repeated sint64 cells = 1; } // lr.NoGoto for no entry
const (
	fieldTerminals    protowire.Number = 1
	fieldNonterminals protowire.Number = 2
	fieldEOF          protowire.Number = 3
	fieldTokens       protowire.Number = 4
	fieldProductions  protowire.Number = 5
	fieldActions      protowire.Number = 6
	fieldGotos        protowire.Number = 7

	fieldTokenName    protowire.Number = 1
	fieldTokenPattern protowire.Number = 2
	fieldTokenSkip    protowire.Number = 3
	fieldTokenConvert protowire.Number = 4

	fieldProductionName    protowire.Number = 1
	fieldProductionArity   protowire.Number = 2
	fieldProductionHandler protowire.Number = 3
	fieldProductionLHS     protowire.Number = 4

	fieldRowCells protowire.Number = 1
)

func EncodeBinary(d *Definition) []byte {
	var b []byte
	for _, s := range d.Terminals {
		b = appendString(b, fieldTerminals, s)
	}
	for _, s := range d.Nonterminals {
		b = appendString(b, fieldNonterminals, s)
	}
	if d.EOF != "" {
		b = appendString(b, fieldEOF, d.EOF)
	}
	for _, t := range d.Tokens {
		var m []byte
		m = appendString(m, fieldTokenName, t.Name)
		m = appendString(m, fieldTokenPattern, t.Pattern)
		if t.Skip {
			m = protowire.AppendTag(m, fieldTokenSkip, protowire.VarintType)
			m = protowire.AppendVarint(m, protowire.EncodeBool(true))
		}
		if t.Convert != "" {
			m = appendString(m, fieldTokenConvert, t.Convert)
		}
		b = appendMessage(b, fieldTokens, m)
	}
	for _, p := range d.Productions {
		var m []byte
		m = appendString(m, fieldProductionName, p.Name)
		m = appendSint(m, fieldProductionArity, int64(p.Arity))
		if p.Handler != "" {
			m = appendString(m, fieldProductionHandler, p.Handler)
		}
		m = appendString(m, fieldProductionLHS, p.LHS)
		b = appendMessage(b, fieldProductions, m)
	}
	for _, row := range d.Actions {
		var m []byte
		for _, cell := range row {
			m = appendString(m, fieldRowCells, cell)
		}
		b = appendMessage(b, fieldActions, m)
	}
	for _, row := range d.Gotos {
		var m []byte
		for _, next := range row {
			v := int64(lr.NoGoto)
			if next != nil {
				v = int64(*next)
			}
			m = appendSint(m, fieldRowCells, v)
		}
		b = appendMessage(b, fieldGotos, m)
	}
	return b
}

func appendString(b []byte, num protowire.Number, s string) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendString(b, s)
}

func appendSint(b []byte, num protowire.Number, v int64) []byte {
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, protowire.EncodeZigZag(v))
}

func appendMessage(b []byte, num protowire.Number, m []byte) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, m)
}

func DecodeBinary(b []byte) (*Definition, error) {
	d := &Definition{}
	err := decodeFields(b, func(num protowire.Number, typ protowire.Type, v []byte) (int, error) {
		switch {
		case num == fieldTerminals && typ == protowire.BytesType:
			s, n := protowire.ConsumeString(v)
			d.Terminals = append(d.Terminals, s)
			return n, nil
		case num == fieldNonterminals && typ == protowire.BytesType:
			s, n := protowire.ConsumeString(v)
			d.Nonterminals = append(d.Nonterminals, s)
			return n, nil
		case num == fieldEOF && typ == protowire.BytesType:
			s, n := protowire.ConsumeString(v)
			d.EOF = s
			return n, nil
		case num == fieldTokens && typ == protowire.BytesType:
			m, n := protowire.ConsumeBytes(v)
			if n < 0 {
				return n, nil
			}
			t, err := decodeToken(m)
			d.Tokens = append(d.Tokens, t)
			return n, err
		case num == fieldProductions && typ == protowire.BytesType:
			m, n := protowire.ConsumeBytes(v)
			if n < 0 {
				return n, nil
			}
			p, err := decodeProduction(m)
			d.Productions = append(d.Productions, p)
			return n, err
		case num == fieldActions && typ == protowire.BytesType:
			m, n := protowire.ConsumeBytes(v)
			if n < 0 {
				return n, nil
			}
			row, err := decodeActionRow(m)
			d.Actions = append(d.Actions, row)
			return n, err
		case num == fieldGotos && typ == protowire.BytesType:
			m, n := protowire.ConsumeBytes(v)
			if n < 0 {
				return n, nil
			}
			row, err := decodeGotoRow(m)
			d.Gotos = append(d.Gotos, row)
			return n, err
		default:
			return protowire.ConsumeFieldValue(num, typ, v), nil
		}
	})
	if err != nil {
		return nil, err
	}
	return d, nil
}

func decodeToken(b []byte) (Token, error) {
	var t Token
	err := decodeFields(b, func(num protowire.Number, typ protowire.Type, v []byte) (int, error) {
		switch {
		case num == fieldTokenName && typ == protowire.BytesType:
			s, n := protowire.ConsumeString(v)
			t.Name = s
			return n, nil
		case num == fieldTokenPattern && typ == protowire.BytesType:
			s, n := protowire.ConsumeString(v)
			t.Pattern = s
			return n, nil
		case num == fieldTokenSkip && typ == protowire.VarintType:
			x, n := protowire.ConsumeVarint(v)
			t.Skip = protowire.DecodeBool(x)
			return n, nil
		case num == fieldTokenConvert && typ == protowire.BytesType:
			s, n := protowire.ConsumeString(v)
			t.Convert = s
			return n, nil
		default:
			return protowire.ConsumeFieldValue(num, typ, v), nil
		}
	})
	return t, err
}

func decodeProduction(b []byte) (Production, error) {
	var p Production
	err := decodeFields(b, func(num protowire.Number, typ protowire.Type, v []byte) (int, error) {
		switch {
		case num == fieldProductionName && typ == protowire.BytesType:
			s, n := protowire.ConsumeString(v)
			p.Name = s
			return n, nil
		case num == fieldProductionArity && typ == protowire.VarintType:
			x, n := protowire.ConsumeVarint(v)
			p.Arity = int(protowire.DecodeZigZag(x))
			return n, nil
		case num == fieldProductionHandler && typ == protowire.BytesType:
			s, n := protowire.ConsumeString(v)
			p.Handler = s
			return n, nil
		case num == fieldProductionLHS && typ == protowire.BytesType:
			s, n := protowire.ConsumeString(v)
			p.LHS = s
			return n, nil
		default:
			return protowire.ConsumeFieldValue(num, typ, v), nil
		}
	})
	return p, err
}

func decodeActionRow(b []byte) ([]string, error) {
	row := []string{}
	err := decodeFields(b, func(num protowire.Number, typ protowire.Type, v []byte) (int, error) {
		if num != fieldRowCells || typ != protowire.BytesType {
			return protowire.ConsumeFieldValue(num, typ, v), nil
		}
		s, n := protowire.ConsumeString(v)
		row = append(row, s)
		return n, nil
	})
	return row, err
}

func decodeGotoRow(b []byte) ([]*int, error) {
	row := []*int{}
	err := decodeFields(b, func(num protowire.Number, typ protowire.Type, v []byte) (int, error) {
		if num != fieldRowCells || typ != protowire.VarintType {
			return protowire.ConsumeFieldValue(num, typ, v), nil
		}
		x, n := protowire.ConsumeVarint(v)
		if next := int(protowire.DecodeZigZag(x)); next != lr.NoGoto {
			row = append(row, &next)
		} else {
			row = append(row, nil)
		}
		return n, nil
	})
	return row, err
}

// decodeFields walks the fields of one message. Each callback consumes the
// value of one field and returns its length, negative on a wire error.
func decodeFields(b []byte, field func(protowire.Number, protowire.Type, []byte) (int, error)) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return wireErr(protowire.ParseError(n))
		}
		b = b[n:]
		m, err := field(num, typ, b)
		if err != nil {
			return err
		}
		if m < 0 {
			return wireErr(protowire.ParseError(m))
		}
		b = b[m:]
	}
	return nil
}

func wireErr(err error) error {
	return exc.New(exc.Location{}, exc.CodeMalformedTable, fmt.Sprintf("binary table: %v", err))
}

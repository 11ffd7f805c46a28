// Package asm implements the in-scope half of assembly: given a
// line-indexed sequence of already-decoded instructions/data directives
// and a symbol table (the contract the out-of-scope textual parser would
// produce), it resolves labels and encodes the program into an
// object.Object plus an object.SourceInfo.
package asm

import "y86sim/isa"

// Directive is a raw little-endian data emission (the ".quad"/".byte"
// style directives of the source assembly language).
type Directive struct {
	Width int // bytes: 1 or 8
	Value uint64
}

// Line is one line of a decoded program: at most one of Inst/Directive is
// set; Label may additionally name the line's address.
type Line struct {
	Label     string
	Inst      *isa.Instruction
	Directive *Directive
	// Sym, if non-empty, names a label whose resolved address replaces
	// Inst.ValC during the symbol pass -- the encoding of an operand the
	// (out-of-scope) parser left unresolved.
	Sym  string
	Text string // verbatim source text, for SourceInfo/.yo output
}

// Len returns the number of bytes this line occupies, 0 for label-only or
// comment lines.
func (l Line) Len() int {
	switch {
	case l.Inst != nil:
		return l.Inst.Len()
	case l.Directive != nil:
		return l.Directive.Width
	default:
		return 0
	}
}

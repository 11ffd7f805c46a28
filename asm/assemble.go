package asm

import (
	"encoding/binary"
	"fmt"

	"y86sim/isa"
	"y86sim/object"
)

// Assemble resolves labels and encodes lines, starting at address origin,
// into an Object and its SourceInfo. It performs the two-pass symbol
// resolution the out-of-scope textual parser would have fed it decoded
// operands for: pass one assigns addresses and collects label
// definitions, pass two resolves symbolic operands and encodes bytes.
func Assemble(lines []Line, origin uint64) (*object.Object, *object.SourceInfo, error) {
	obj := object.NewObject()
	addrs := make([]uint64, len(lines))

	addr := origin
	for i, l := range lines {
		if l.Label != "" {
			if _, dup := obj.Symbols[l.Label]; dup {
				return nil, nil, fmt.Errorf("asm: duplicate label %q", l.Label)
			}
			obj.Symbols[l.Label] = addr
		}
		addrs[i] = addr
		addr += uint64(l.Len())
	}
	if addr > object.MemSize {
		return nil, nil, fmt.Errorf("asm: program of %d bytes does not fit in %d-byte memory", addr-origin, object.MemSize)
	}

	src := &object.SourceInfo{Lines: make([]object.LineInfo, len(lines))}

	for i, l := range lines {
		li := object.LineInfo{Label: l.Label, Text: l.Text}

		switch {
		case l.Inst != nil:
			inst := *l.Inst
			if l.Sym != "" {
				resolved, ok := obj.Symbols[l.Sym]
				if !ok {
					return nil, nil, fmt.Errorf("asm: line %d: undefined label %q", i+1, l.Sym)
				}
				inst.ValC = resolved
			}
			a := addrs[i]
			bytes := isa.Encode(inst)
			if err := obj.Memory.LoadBytes(a, bytes); err != nil {
				return nil, nil, fmt.Errorf("asm: line %d: %w", i+1, err)
			}
			li.Address = &a
			li.Bytes = bytes

		case l.Directive != nil:
			d := l.Directive
			a := addrs[i]
			var bytes []byte
			switch d.Width {
			case 1:
				bytes = []byte{byte(d.Value)}
			case 8:
				bytes = make([]byte, 8)
				binary.LittleEndian.PutUint64(bytes, d.Value)
			default:
				return nil, nil, fmt.Errorf("asm: line %d: unsupported directive width %d", i+1, d.Width)
			}
			if err := obj.Memory.LoadBytes(a, bytes); err != nil {
				return nil, nil, fmt.Errorf("asm: line %d: %w", i+1, err)
			}
			li.Address = &a
			li.Bytes = bytes
		}

		src.Lines[i] = li
	}

	return obj, src, nil
}

// Package object models the flat memory image programs execute against,
// the symbol table produced by assembly, and the canonical ".yo"
// disassembly-with-source format.
package object

import (
	"encoding/binary"
	"fmt"
)

// MemSize is the size, in bytes, of a simulated memory image. The ISA
// nominally supports 64-bit addressing, but every architecture in this
// module addresses a fixed-size flat image, sized to comfortably hold
// the instructions and data of the Y86-64 programs this simulator runs.
const MemSize = 0x2000

// Memory is the flat byte array units read and write through. It and the
// register file are the state this module shares between hardware units
// (see the concurrency model): single-threaded, no locking.
type Memory struct {
	Bytes [MemSize]byte
}

// NewMemory returns a zeroed memory image.
func NewMemory() *Memory {
	return &Memory{}
}

// ReadByte returns the byte at addr.
func (m *Memory) ReadByte(addr uint64) (byte, error) {
	if addr >= MemSize {
		return 0, fmt.Errorf("object: read address %#x out of range", addr)
	}
	return m.Bytes[addr], nil
}

// WriteByte stores b at addr.
func (m *Memory) WriteByte(addr uint64, b byte) error {
	if addr >= MemSize {
		return fmt.Errorf("object: write address %#x out of range", addr)
	}
	m.Bytes[addr] = b
	return nil
}

// ReadQuad reads 8 little-endian bytes starting at addr.
func (m *Memory) ReadQuad(addr uint64) (uint64, error) {
	if addr+8 > MemSize {
		return 0, fmt.Errorf("object: read address %#x out of range", addr)
	}
	return binary.LittleEndian.Uint64(m.Bytes[addr : addr+8]), nil
}

// WriteQuad stores v as 8 little-endian bytes starting at addr.
func (m *Memory) WriteQuad(addr uint64, v uint64) error {
	if addr+8 > MemSize {
		return fmt.Errorf("object: write address %#x out of range", addr)
	}
	binary.LittleEndian.PutUint64(m.Bytes[addr:addr+8], v)
	return nil
}

// LoadBytes copies data into the image starting at addr. It is used to
// install an assembled Object before a run.
func (m *Memory) LoadBytes(addr uint64, data []byte) error {
	if addr+uint64(len(data)) > MemSize {
		return fmt.Errorf("object: load of %d bytes at %#x overruns memory", len(data), addr)
	}
	copy(m.Bytes[addr:], data)
	return nil
}

// Clone returns an independent copy of m, used when comparing two
// architectures that must not share state.
func (m *Memory) Clone() *Memory {
	c := &Memory{}
	c.Bytes = m.Bytes
	return c
}

package isa

import (
	"encoding/binary"
	"fmt"

	"y86sim/mask"
)

// Instruction is a decoded Y86-64 instruction: an icode, an optional ifun
// (condition or ALU op, packed in the low nibble of byte 0 for the opcodes
// that carry one), up to two register operands, and an optional 8-byte
// immediate/displacement/destination value.
type Instruction struct {
	Icode Icode
	Ifun  byte // cond for CMOVX/JX, op for OPQ/IOPQ; 0 otherwise
	RA    RegCode
	RB    RegCode
	Valid bool   // ValC is meaningful
	ValC  uint64 // immediate, displacement, or branch/call destination
}

// Len returns the encoded byte length of inst.
func (inst Instruction) Len() int {
	return inst.Icode.Len()
}

// ensureReg rejects register codes other than 0..14 and the RNone
// sentinel.
func ensureReg(r RegCode) error {
	if !r.Valid() {
		return fmt.Errorf("isa: invalid register code %#x", byte(r))
	}
	return nil
}

// Decode reads one instruction from mem starting at addr. It fails if the
// icode/ifun/register fields are malformed, or if the instruction's bytes
// would run past the end of mem.
func Decode(mem []byte, addr uint64) (Instruction, error) {
	if addr >= uint64(len(mem)) {
		return Instruction{}, fmt.Errorf("isa: decode address %#x out of range", addr)
	}
	b0 := mem[addr]
	icode := Icode(mask.High(b0))
	ifun := mask.Low(b0)

	length := icode.Len()
	if length == 0 {
		return Instruction{}, fmt.Errorf("isa: invalid icode %#x at %#x", byte(icode), addr)
	}
	if addr+uint64(length) > uint64(len(mem)) {
		return Instruction{}, fmt.Errorf("isa: instruction at %#x runs past end of memory", addr)
	}

	inst := Instruction{Icode: icode, Ifun: ifun}

	switch icode {
	case IHalt, INop, IRet:
		if ifun != 0 {
			return Instruction{}, fmt.Errorf("isa: icode %s does not take ifun %#x", icode, ifun)
		}
		inst.RA, inst.RB = RNone, RNone

	case ICmov:
		b1 := mem[addr+1]
		inst.RA, inst.RB = RegCode(mask.High(b1)), RegCode(mask.Low(b1))
		if err := ensureReg(inst.RA); err != nil {
			return Instruction{}, err
		}
		if err := ensureReg(inst.RB); err != nil {
			return Instruction{}, err
		}

	case IOpq:
		if ifun > byte(OpXor) {
			return Instruction{}, fmt.Errorf("isa: invalid OPQ function %#x", ifun)
		}
		b1 := mem[addr+1]
		inst.RA, inst.RB = RegCode(mask.High(b1)), RegCode(mask.Low(b1))
		if err := ensureReg(inst.RA); err != nil {
			return Instruction{}, err
		}
		if err := ensureReg(inst.RB); err != nil {
			return Instruction{}, err
		}

	case IPushq, IPopq:
		if ifun != 0 {
			return Instruction{}, fmt.Errorf("isa: icode %s does not take ifun %#x", icode, ifun)
		}
		b1 := mem[addr+1]
		inst.RA, inst.RB = RegCode(mask.High(b1)), RegCode(mask.Low(b1))
		if err := ensureReg(inst.RA); err != nil {
			return Instruction{}, err
		}
		if inst.RB != RNone {
			return Instruction{}, fmt.Errorf("isa: %s second register field must be RNone", icode)
		}

	case IIrmovq:
		if ifun != 0 {
			return Instruction{}, fmt.Errorf("isa: icode %s does not take ifun %#x", icode, ifun)
		}
		b1 := mem[addr+1]
		inst.RA, inst.RB = RegCode(mask.High(b1)), RegCode(mask.Low(b1))
		if inst.RA != RNone {
			return Instruction{}, fmt.Errorf("isa: irmovq source register field must be RNone")
		}
		if err := ensureReg(inst.RB); err != nil {
			return Instruction{}, err
		}
		inst.Valid = true
		inst.ValC = binary.LittleEndian.Uint64(mem[addr+2 : addr+10])

	case IRmmovq, IMrmovq:
		if ifun != 0 {
			return Instruction{}, fmt.Errorf("isa: icode %s does not take ifun %#x", icode, ifun)
		}
		b1 := mem[addr+1]
		inst.RA, inst.RB = RegCode(mask.High(b1)), RegCode(mask.Low(b1))
		if err := ensureReg(inst.RA); err != nil {
			return Instruction{}, err
		}
		if err := ensureReg(inst.RB); err != nil {
			return Instruction{}, err
		}
		inst.Valid = true
		inst.ValC = binary.LittleEndian.Uint64(mem[addr+2 : addr+10])

	case IIopq:
		if ifun > byte(OpXor) {
			return Instruction{}, fmt.Errorf("isa: invalid IOPQ function %#x", ifun)
		}
		b1 := mem[addr+1]
		inst.RA, inst.RB = RegCode(mask.High(b1)), RegCode(mask.Low(b1))
		if inst.RA != RNone {
			return Instruction{}, fmt.Errorf("isa: iopq source register field must be RNone")
		}
		if err := ensureReg(inst.RB); err != nil {
			return Instruction{}, err
		}
		inst.Valid = true
		inst.ValC = binary.LittleEndian.Uint64(mem[addr+2 : addr+10])

	case IJx:
		if ifun > byte(CondG) {
			return Instruction{}, fmt.Errorf("isa: invalid jump condition %#x", ifun)
		}
		inst.RA, inst.RB = RNone, RNone
		inst.Valid = true
		inst.ValC = binary.LittleEndian.Uint64(mem[addr+1 : addr+9])

	case ICall:
		if ifun != 0 {
			return Instruction{}, fmt.Errorf("isa: icode %s does not take ifun %#x", icode, ifun)
		}
		inst.RA, inst.RB = RNone, RNone
		inst.Valid = true
		inst.ValC = binary.LittleEndian.Uint64(mem[addr+1 : addr+9])

	default:
		return Instruction{}, fmt.Errorf("isa: invalid icode %#x at %#x", byte(icode), addr)
	}

	return inst, nil
}

// Encode renders inst into its fixed-length byte encoding.
func Encode(inst Instruction) []byte {
	length := inst.Len()
	out := make([]byte, length)

	switch inst.Icode {
	case IHalt, INop, IRet:
		out[0] = byte(inst.Icode) << 4

	case ICmov:
		out[0] = mask.Nibbles(byte(inst.Icode), inst.Ifun)
		out[1] = mask.Nibbles(byte(inst.RA), byte(inst.RB))

	case IOpq:
		out[0] = mask.Nibbles(byte(inst.Icode), inst.Ifun)
		out[1] = mask.Nibbles(byte(inst.RA), byte(inst.RB))

	case IPushq, IPopq:
		out[0] = byte(inst.Icode) << 4
		out[1] = mask.Nibbles(byte(inst.RA), byte(RNone))

	case IIrmovq:
		out[0] = byte(inst.Icode) << 4
		out[1] = mask.Nibbles(byte(RNone), byte(inst.RB))
		binary.LittleEndian.PutUint64(out[2:10], inst.ValC)

	case IRmmovq, IMrmovq:
		out[0] = byte(inst.Icode) << 4
		out[1] = mask.Nibbles(byte(inst.RA), byte(inst.RB))
		binary.LittleEndian.PutUint64(out[2:10], inst.ValC)

	case IIopq:
		out[0] = mask.Nibbles(byte(inst.Icode), inst.Ifun)
		out[1] = mask.Nibbles(byte(RNone), byte(inst.RB))
		binary.LittleEndian.PutUint64(out[2:10], inst.ValC)

	case IJx:
		out[0] = mask.Nibbles(byte(inst.Icode), inst.Ifun)
		binary.LittleEndian.PutUint64(out[1:9], inst.ValC)

	case ICall:
		out[0] = byte(inst.Icode) << 4
		binary.LittleEndian.PutUint64(out[1:9], inst.ValC)
	}

	return out
}

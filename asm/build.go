package asm

import "y86sim/isa"

// The helpers below build isa.Instruction values directly, standing in
// for what the out-of-scope textual assembler's parser would otherwise
// decode from mnemonic source lines. Each hand-built program in
// programs.go is annotated with the CS:APP-style mnemonic listing it
// reconstructs.

func halt() *isa.Instruction {
	return &isa.Instruction{Icode: isa.IHalt, RA: isa.RNone, RB: isa.RNone}
}

func nop() *isa.Instruction {
	return &isa.Instruction{Icode: isa.INop, RA: isa.RNone, RB: isa.RNone}
}

func irmovq(rb isa.RegCode, v uint64) *isa.Instruction {
	return &isa.Instruction{Icode: isa.IIrmovq, RA: isa.RNone, RB: rb, ValC: v, Valid: true}
}

func rmmovq(ra, rb isa.RegCode, disp uint64) *isa.Instruction {
	return &isa.Instruction{Icode: isa.IRmmovq, RA: ra, RB: rb, ValC: disp, Valid: true}
}

func mrmovq(ra, rb isa.RegCode, disp uint64) *isa.Instruction {
	return &isa.Instruction{Icode: isa.IMrmovq, RA: ra, RB: rb, ValC: disp, Valid: true}
}

func opq(op isa.OpFunc, ra, rb isa.RegCode) *isa.Instruction {
	return &isa.Instruction{Icode: isa.IOpq, Ifun: byte(op), RA: ra, RB: rb}
}

func iopq(op isa.OpFunc, v uint64, rb isa.RegCode) *isa.Instruction {
	return &isa.Instruction{Icode: isa.IIopq, Ifun: byte(op), RA: isa.RNone, RB: rb, ValC: v, Valid: true}
}

func jx(cond isa.CondFunc) *isa.Instruction {
	return &isa.Instruction{Icode: isa.IJx, Ifun: byte(cond), RA: isa.RNone, RB: isa.RNone, Valid: true}
}

func call() *isa.Instruction {
	return &isa.Instruction{Icode: isa.ICall, RA: isa.RNone, RB: isa.RNone, Valid: true}
}

func ret() *isa.Instruction {
	return &isa.Instruction{Icode: isa.IRet, RA: isa.RNone, RB: isa.RNone}
}

func pushq(ra isa.RegCode) *isa.Instruction {
	return &isa.Instruction{Icode: isa.IPushq, RA: ra, RB: isa.RNone}
}

func popq(ra isa.RegCode) *isa.Instruction {
	return &isa.Instruction{Icode: isa.IPopq, RA: ra, RB: isa.RNone}
}

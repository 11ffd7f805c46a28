package asm

import "y86sim/isa"

// StackTop is the initial %rsp value used by the hand-built programs
// below: high enough in the fixed-size image that CALL/PUSHQ frames never
// collide with program or data, low enough to stay inside object.MemSize.
const StackTop = 0x1ff8

// IopqProgram reconstructs the single-instruction smoke test:
//
//	iopq $0x5, %rbx
//	halt
func IopqProgram() []Line {
	return []Line{
		{Inst: iopq(isa.OpAdd, 0x5, isa.RBX), Text: "iopq $0x5, %rbx"},
		{Inst: halt(), Text: "halt"},
	}
}

// CallRetProgram reconstructs a minimal CALL/RET round trip:
//
//	irmovq $0x100, %rsp
//	call target
//	halt
//	nop             # padding so target doesn't alias the halt
//	target:
//	    irmovq $0x42, %rax
//	    ret
func CallRetProgram() []Line {
	return []Line{
		{Inst: irmovq(isa.RSP, 0x100), Text: "irmovq $0x100, %rsp"},
		{Inst: call(), Sym: "target", Text: "call target"},
		{Inst: halt(), Text: "halt"},
		{Inst: nop(), Text: "nop"},
		{Label: "target", Inst: irmovq(isa.RAX, 0x42), Text: "target: irmovq $0x42, %rax"},
		{Inst: ret(), Text: "ret"},
	}
}

// SumProgram reconstructs the CS:APP sum.ys benchmark: sum the three
// quad-words of `array` into %rax via a count-down loop.
//
//	irmovq $StackTop, %rsp
//	call Main
//	halt
//	array:
//	    .quad 0x00d
//	    .quad 0x0e0
//	    .quad 0xf00
//	Main:
//	    irmovq array, %rdi
//	    irmovq $3, %rsi
//	    call Sum
//	    ret
//	Sum:
//	    irmovq $8, %r8
//	    irmovq $1, %r9
//	    xorq %rax, %rax
//	    andq %rsi, %rsi
//	    jmp Test
//	Loop:
//	    mrmovq (%rdi), %r10
//	    addq %r10, %rax
//	    addq %r8, %rdi
//	    subq %r9, %rsi
//	Test:
//	    jne Loop
//	    ret
func SumProgram() []Line {
	return []Line{
		{Inst: irmovq(isa.RSP, StackTop), Text: "irmovq $StackTop, %rsp"},
		{Inst: call(), Sym: "Main", Text: "call Main"},
		{Inst: halt(), Text: "halt"},

		{Label: "array", Directive: &Directive{Width: 8, Value: 0x00d}, Text: "array: .quad 0x00d"},
		{Directive: &Directive{Width: 8, Value: 0x0e0}, Text: ".quad 0x0e0"},
		{Directive: &Directive{Width: 8, Value: 0xf00}, Text: ".quad 0xf00"},

		{Label: "Main", Inst: irmovq(isa.RDI, 0), Sym: "array", Text: "Main: irmovq array, %rdi"},
		{Inst: irmovq(isa.RSI, 3), Text: "irmovq $3, %rsi"},
		{Inst: call(), Sym: "Sum", Text: "call Sum"},
		{Inst: ret(), Text: "ret"},

		{Label: "Sum", Inst: irmovq(isa.R8, 8), Text: "Sum: irmovq $8, %r8"},
		{Inst: irmovq(isa.R9, 1), Text: "irmovq $1, %r9"},
		{Inst: opq(isa.OpXor, isa.RAX, isa.RAX), Text: "xorq %rax, %rax"},
		{Inst: opq(isa.OpAnd, isa.RSI, isa.RSI), Text: "andq %rsi, %rsi"},
		{Inst: jx(isa.CondYes), Sym: "Test", Text: "jmp Test"},

		{Label: "Loop", Inst: mrmovq(isa.R10, isa.RDI, 0), Text: "Loop: mrmovq (%rdi), %r10"},
		{Inst: opq(isa.OpAdd, isa.R10, isa.RAX), Text: "addq %r10, %rax"},
		{Inst: opq(isa.OpAdd, isa.R8, isa.RDI), Text: "addq %r8, %rdi"},
		{Inst: opq(isa.OpSub, isa.R9, isa.RSI), Text: "subq %r9, %rsi"},

		{Label: "Test", Inst: jx(isa.CondNE), Sym: "Loop", Text: "Test: jne Loop"},
		{Inst: ret(), Text: "ret"},
	}
}

// BubbleProgram reconstructs the CS:APP bubble.ys (PartA) benchmark:
// bubble-sort the 6 quad-words of `array` in place by repeated adjacent
// swaps.
//
//	irmovq $StackTop, %rsp
//	call Main
//	halt
//	array:
//	    .quad 0xbca
//	    .quad 0xcba
//	    .quad 0xacb
//	    .quad 0xcab
//	    .quad 0xabc
//	    .quad 0xbac
//	Main:
//	    irmovq array, %rdi
//	    irmovq $6, %rsi
//	    call Bubble
//	    ret
//	Bubble:
//	    irmovq $1, %r8        # outer/inner decrement
//	    irmovq $8, %r9        # element stride
//	OuterTest:
//	    subq %r8, %rsi        # n -= 1
//	    jle BubbleDone
//	    irmovq array, %r10    # p = array
//	InnerInit:
//	    irmovq $0, %rax       # rax used as scratch "j" counter
//	    addq %rsi, %rax       # rax = n
//	InnerTest:
//	    subq %r8, %rax        # j -= 1
//	    jl OuterTest
//	    mrmovq (%r10), %rbx
//	    mrmovq 8(%r10), %rcx
//	    cmovq %rbx, %rdx
//	    subq %rcx, %rdx
//	    jle NoSwap
//	    rmmovq %rcx, (%r10)
//	    rmmovq %rbx, 8(%r10)
//	NoSwap:
//	    addq %r9, %r10        # p += 8
//	    jmp InnerTest
//	BubbleDone:
//	    ret
//
// Y86-64 has no RRMOVQ in this ISA subset (register-register move is
// modeled here as CMOVX with the always-true condition, its usual
// encoding), so the listing above substitutes `cmovq` wherever the
// original CS:APP listing used `rrmovq`.
func BubbleProgram() []Line {
	cmov := func(ra, rb isa.RegCode) *isa.Instruction {
		return &isa.Instruction{Icode: isa.ICmov, Ifun: byte(isa.CondYes), RA: ra, RB: rb}
	}

	return []Line{
		{Inst: irmovq(isa.RSP, StackTop), Text: "irmovq $StackTop, %rsp"},
		{Inst: call(), Sym: "Main", Text: "call Main"},
		{Inst: halt(), Text: "halt"},

		{Label: "array", Directive: &Directive{Width: 8, Value: 0xbca}, Text: "array: .quad 0xbca"},
		{Directive: &Directive{Width: 8, Value: 0xcba}, Text: ".quad 0xcba"},
		{Directive: &Directive{Width: 8, Value: 0xacb}, Text: ".quad 0xacb"},
		{Directive: &Directive{Width: 8, Value: 0xcab}, Text: ".quad 0xcab"},
		{Directive: &Directive{Width: 8, Value: 0xabc}, Text: ".quad 0xabc"},
		{Directive: &Directive{Width: 8, Value: 0xbac}, Text: ".quad 0xbac"},

		{Label: "Main", Inst: irmovq(isa.RDI, 0), Sym: "array", Text: "Main: irmovq array, %rdi"},
		{Inst: irmovq(isa.RSI, 6), Text: "irmovq $6, %rsi"},
		{Inst: call(), Sym: "Bubble", Text: "call Bubble"},
		{Inst: ret(), Text: "ret"},

		{Label: "Bubble", Inst: irmovq(isa.R8, 1), Text: "Bubble: irmovq $1, %r8"},
		{Inst: irmovq(isa.R9, 8), Text: "irmovq $8, %r9"},

		{Label: "OuterTest", Inst: opq(isa.OpSub, isa.R8, isa.RSI), Text: "OuterTest: subq %r8, %rsi"},
		{Inst: jx(isa.CondLE), Sym: "BubbleDone", Text: "jle BubbleDone"},
		{Inst: irmovq(isa.R10, 0), Sym: "array", Text: "irmovq array, %r10"},

		{Label: "InnerInit", Inst: irmovq(isa.RAX, 0), Text: "InnerInit: irmovq $0, %rax"},
		{Inst: opq(isa.OpAdd, isa.RSI, isa.RAX), Text: "addq %rsi, %rax"},

		{Label: "InnerTest", Inst: opq(isa.OpSub, isa.R8, isa.RAX), Text: "InnerTest: subq %r8, %rax"},
		{Inst: jx(isa.CondL), Sym: "OuterTest", Text: "jl OuterTest"},
		{Inst: mrmovq(isa.RBX, isa.R10, 0), Text: "mrmovq (%r10), %rbx"},
		{Inst: mrmovq(isa.RCX, isa.R10, 8), Text: "mrmovq 8(%r10), %rcx"},
		{Inst: cmov(isa.RBX, isa.RDX), Text: "cmovq %rbx, %rdx"},
		{Inst: opq(isa.OpSub, isa.RCX, isa.RDX), Text: "subq %rcx, %rdx"},
		{Inst: jx(isa.CondLE), Sym: "NoSwap", Text: "jle NoSwap"},
		{Inst: rmmovq(isa.RCX, isa.R10, 0), Text: "rmmovq %rcx, (%r10)"},
		{Inst: rmmovq(isa.RBX, isa.R10, 8), Text: "rmmovq %rbx, 8(%r10)"},

		{Label: "NoSwap", Inst: opq(isa.OpAdd, isa.R9, isa.R10), Text: "NoSwap: addq %r9, %r10"},
		{Inst: jx(isa.CondYes), Sym: "InnerTest", Text: "jmp InnerTest"},

		{Label: "BubbleDone", Inst: ret(), Text: "BubbleDone: ret"},
	}
}

// NCopyProgram reconstructs a minimal version of the CS:APP ncopy
// benchmark: copy src[0:len) to dst[0:len), returning in %rax the count
// of strictly positive elements copied.
//
//	irmovq $StackTop, %rsp
//	irmovq $Len, %rsi
//	irmovq src, %rdi
//	irmovq dst, %rdx
//	call Main
//	halt
//	Main:
//	    xorq %rax, %rax
//	Loop:
//	    andq %rsi, %rsi
//	    jle Done
//	    mrmovq (%rdi), %r10
//	    rmmovq %r10, (%rdx)
//	    andq %r10, %r10
//	    jle NonPos
//	    irmovq $1, %r11
//	    addq %r11, %rax
//	NonPos:
//	    irmovq $8, %r11
//	    addq %r11, %rdi
//	    addq %r11, %rdx
//	    irmovq $1, %r11
//	    subq %r11, %rsi
//	    jmp Loop
//	Done:
//	    ret
func NCopyProgram(src []int64, dstAddr, srcAddr uint64) []Line {
	lines := []Line{
		{Inst: irmovq(isa.RSP, StackTop), Text: "irmovq $StackTop, %rsp"},
		{Inst: irmovq(isa.RSI, uint64(len(src))), Text: "irmovq $len, %rsi"},
		{Inst: irmovq(isa.RDI, srcAddr), Text: "irmovq src, %rdi"},
		{Inst: irmovq(isa.RDX, dstAddr), Text: "irmovq dst, %rdx"},
		{Inst: call(), Sym: "Main", Text: "call Main"},
		{Inst: halt(), Text: "halt"},

		{Label: "Main", Inst: opq(isa.OpXor, isa.RAX, isa.RAX), Text: "Main: xorq %rax, %rax"},

		{Label: "Loop", Inst: opq(isa.OpAnd, isa.RSI, isa.RSI), Text: "Loop: andq %rsi, %rsi"},
		{Inst: jx(isa.CondLE), Sym: "Done", Text: "jle Done"},
		{Inst: mrmovq(isa.R10, isa.RDI, 0), Text: "mrmovq (%rdi), %r10"},
		{Inst: rmmovq(isa.R10, isa.RDX, 0), Text: "rmmovq %r10, (%rdx)"},
		{Inst: opq(isa.OpAnd, isa.R10, isa.R10), Text: "andq %r10, %r10"},
		{Inst: jx(isa.CondLE), Sym: "NonPos", Text: "jle NonPos"},
		{Inst: irmovq(isa.R11, 1), Text: "irmovq $1, %r11"},
		{Inst: opq(isa.OpAdd, isa.R11, isa.RAX), Text: "addq %r11, %rax"},

		{Label: "NonPos", Inst: irmovq(isa.R11, 8), Text: "NonPos: irmovq $8, %r11"},
		{Inst: opq(isa.OpAdd, isa.R11, isa.RDI), Text: "addq %r11, %rdi"},
		{Inst: opq(isa.OpAdd, isa.R11, isa.RDX), Text: "addq %r11, %rdx"},
		{Inst: irmovq(isa.R11, 1), Text: "irmovq $1, %r11"},
		{Inst: opq(isa.OpSub, isa.R11, isa.RSI), Text: "subq %r11, %rsi"},
		{Inst: jx(isa.CondYes), Sym: "Loop", Text: "jmp Loop"},

		{Label: "Done", Inst: ret(), Text: "Done: ret"},
	}
	return lines
}

package isa

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	cases := []Instruction{
		{Icode: IHalt, RA: RNone, RB: RNone},
		{Icode: INop, RA: RNone, RB: RNone},
		{Icode: ICmov, Ifun: byte(CondL), RA: RAX, RB: RBX},
		{Icode: IIrmovq, RA: RNone, RB: RSP, Valid: true, ValC: 0xdeadbeef},
		{Icode: IRmmovq, RA: RAX, RB: RSP, Valid: true, ValC: 0x18},
		{Icode: IMrmovq, RA: RDX, RB: RSP, Valid: true, ValC: 0x20},
		{Icode: IOpq, Ifun: byte(OpXor), RA: RCX, RB: RDX},
		{Icode: IJx, Ifun: byte(CondGE), RA: RNone, RB: RNone, Valid: true, ValC: 0x100},
		{Icode: ICall, RA: RNone, RB: RNone, Valid: true, ValC: 0x200},
		{Icode: IRet, RA: RNone, RB: RNone},
		{Icode: IPushq, RA: RBX, RB: RNone},
		{Icode: IPopq, RA: RBP, RB: RNone},
		{Icode: IIopq, Ifun: byte(OpAnd), RA: RNone, RB: RSI, Valid: true, ValC: 0xff},
	}

	for _, want := range cases {
		bytes := Encode(want)
		assert.Equal(t, want.Len(), len(bytes), "%s encoded length", want.Icode)

		mem := make([]byte, len(bytes)+1)
		copy(mem, bytes)

		got, err := Decode(mem, 0)
		assert.NoError(t, err, want.Icode)
		assert.Equal(t, want, got, "%s round trip", want.Icode)
	}
}

func TestDecodeRejectsBadIcode(t *testing.T) {
	_, err := Decode([]byte{0xf0}, 0)
	assert.Error(t, err)
}

func TestDecodeRejectsTruncatedInstruction(t *testing.T) {
	_, err := Decode([]byte{byte(IIrmovq) << 4, 0x0f}, 0)
	assert.Error(t, err)
}

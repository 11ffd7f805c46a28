package object

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// columnOf returns the index of the "| " separator in s, the fixed
// point every .yo line must align on regardless of address magnitude or
// instruction length.
func columnOf(s string) int {
	return strings.Index(s, "| ")
}

func TestFormatYoLineWithAddress(t *testing.T) {
	addr := uint64(0x10)
	line := LineInfo{Address: &addr, Bytes: []byte{0x30, 0xf3}, Text: "halt"}
	got := FormatYoLine(line)
	assert.Equal(t, "0x0010: 30F3                 | halt", got)
	assert.Equal(t, 29, columnOf(got))
}

func TestFormatYoLineWithoutAddress(t *testing.T) {
	line := LineInfo{Text: "# a comment"}
	got := FormatYoLine(line)
	assert.Equal(t, strings.Repeat(" ", 29)+"| # a comment", got)
	assert.Equal(t, 29, columnOf(got))
}

// TestFormatYoLineAlignsAcrossAddressMagnitudes pins the 29-column
// separator independent of how wide the address or the instruction's
// encoding is -- the bug this guards against made the separator's
// column depend on both.
func TestFormatYoLineAlignsAcrossAddressMagnitudes(t *testing.T) {
	cases := []struct {
		addr  uint64
		bytes []byte
	}{
		{0x0, []byte{0x00}},
		{0x10, []byte{0x30, 0xf3}},
		{0xfff, []byte{0x30, 0xf3, 0x00, 0x10, 0x00, 0x00, 0x00, 0x00, 0x00}},
		{0x1000, []byte{0x30}},
	}
	for _, c := range cases {
		addr := c.addr
		line := LineInfo{Address: &addr, Bytes: c.bytes, Text: "x"}
		got := FormatYoLine(line)
		assert.Equal(t, 29, columnOf(got), "address %#x, %d bytes", c.addr, len(c.bytes))
	}
}

func TestFormatYoJoinsAllLines(t *testing.T) {
	addr := uint64(0)
	s := &SourceInfo{Lines: []LineInfo{
		{Address: &addr, Bytes: []byte{0x00}, Text: "halt"},
		{Text: "# done"},
	}}
	want := "0x0000: 00                   | halt\n" +
		strings.Repeat(" ", 29) + "| # done\n"
	assert.Equal(t, want, FormatYo(s))
}

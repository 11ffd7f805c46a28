package object

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// FormatYoLine renders one line in the canonical ".yo" disassembly-with-
// source format. An addressed line is a fixed 8-column "0xADDR: " field
// (4 zero-padded hex digits) followed by a fixed 21-column hex-byte
// field, for 29 columns total before "| SRC"; an unaddressed line is 29
// blank columns before "| SRC", so the separator lines up regardless of
// address magnitude or instruction length.
func FormatYoLine(l LineInfo) string {
	if l.Address == nil {
		return fmt.Sprintf("%-29s| %s", "", l.Text)
	}
	addr := fmt.Sprintf("0x%04x: ", *l.Address)
	hexBytes := strings.ToUpper(hex.EncodeToString(l.Bytes))
	return fmt.Sprintf("%s%-21s| %s", addr, hexBytes, l.Text)
}

// FormatYo renders every line of s in order.
func FormatYo(s *SourceInfo) string {
	var b strings.Builder
	for _, l := range s.Lines {
		b.WriteString(FormatYoLine(l))
		b.WriteByte('\n')
	}
	return b.String()
}

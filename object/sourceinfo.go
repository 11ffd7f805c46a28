package object

// LineInfo is one entry of a SourceInfo: the bookkeeping the assembler
// attaches to a single line of source text. Address and Bytes are nil for
// lines that emit nothing (comments, blank lines, bare labels).
type LineInfo struct {
	Address *uint64
	Bytes   []byte // encoded instruction or data directive bytes, if any
	Label   string // label defined on this line, if any
	Text    string // verbatim source text
}

// HasAddress reports whether this line occupies memory.
func (l LineInfo) HasAddress() bool {
	return l.Address != nil
}

// SourceInfo is the ordered, line-indexed record an assembled program
// carries for debugging: it supports both line->address and
// address->line lookups.
type SourceInfo struct {
	Lines []LineInfo
}

// AddressOfLine returns the address occupied by source line n (0-indexed),
// if any.
func (s *SourceInfo) AddressOfLine(n int) (uint64, bool) {
	if n < 0 || n >= len(s.Lines) || s.Lines[n].Address == nil {
		return 0, false
	}
	return *s.Lines[n].Address, true
}

// LineOfAddress returns the source line (0-indexed) whose address is
// exactly addr, if any such line exists. An address inside a line's
// encoding, past its first byte, matches no line.
func (s *SourceInfo) LineOfAddress(addr uint64) (int, bool) {
	for i, l := range s.Lines {
		if l.Address != nil && *l.Address == addr {
			return i, true
		}
	}
	return 0, false
}

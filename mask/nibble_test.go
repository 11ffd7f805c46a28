package mask

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHighLow(t *testing.T) {
	assert.Equal(t, byte(0x3), High(0x30))
	assert.Equal(t, byte(0xf), Low(0x0f))
	assert.Equal(t, byte(0x0), High(0x0f))
	assert.Equal(t, byte(0x0), Low(0xf0))
}

func TestNibbles(t *testing.T) {
	assert.Equal(t, byte(0x30), Nibbles(0x3, 0x0))
	assert.Equal(t, byte(0x3f), Nibbles(0x3, 0xf))
	assert.Equal(t, byte(0x30), Nibbles(0x13, 0x0), "hi is truncated to 4 bits")
	assert.Equal(t, byte(0x05), Nibbles(0x0, 0x15), "lo is truncated to 4 bits")
}

func TestHighLowNibblesRoundTrip(t *testing.T) {
	for b := 0; b < 256; b++ {
		v := byte(b)
		assert.Equal(t, v, Nibbles(High(v), Low(v)))
	}
}

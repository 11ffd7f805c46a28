package object

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReadWriteQuadRoundTrip(t *testing.T) {
	m := NewMemory()
	assert.NoError(t, m.WriteQuad(0x10, 0x0102030405060708))
	v, err := m.ReadQuad(0x10)
	assert.NoError(t, err)
	assert.Equal(t, uint64(0x0102030405060708), v)
}

func TestWriteQuadRejectsOutOfRange(t *testing.T) {
	m := NewMemory()
	assert.Error(t, m.WriteQuad(MemSize-4, 1))
}

func TestLoadBytesRejectsOverrun(t *testing.T) {
	m := NewMemory()
	assert.Error(t, m.LoadBytes(MemSize-1, []byte{1, 2, 3}))
}

func TestCloneIsIndependent(t *testing.T) {
	m := NewMemory()
	assert.NoError(t, m.WriteByte(0, 0xab))
	c := m.Clone()
	assert.NoError(t, c.WriteByte(0, 0xcd))
	assert.Equal(t, byte(0xab), m.Bytes[0])
	assert.Equal(t, byte(0xcd), c.Bytes[0])
}

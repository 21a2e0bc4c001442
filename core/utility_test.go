package core_test

import (
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/kiln3d/kiln/core"
)

func TestSliceUint32(t *testing.T) {
	c := qt.New(t)

	data := []byte{0x01, 0x00, 0x00, 0x00, 0xff, 0x00, 0x00, 0x00}
	words := core.SliceUint32(data)
	c.Assert(words, qt.HasLen, 2)
	c.Check(words[0], qt.Equals, uint32(1))
	c.Check(words[1], qt.Equals, uint32(255))
}

func TestSliceUint32TruncatesTrailingBytes(t *testing.T) {
	c := qt.New(t)

	words := core.SliceUint32(make([]byte, 7))
	c.Check(words, qt.HasLen, 1)
}

func BenchmarkSliceUint32Small(b *testing.B) {
	data := make([]byte, 100)
	for idx := 0; idx < b.N; idx++ {
		core.SliceUint32(data)
	}
}

func BenchmarkSliceUint32Medium(b *testing.B) {
	data := make([]byte, 1000)
	for idx := 0; idx < b.N; idx++ {
		core.SliceUint32(data)
	}
}

func BenchmarkSliceUint32Big(b *testing.B) {
	data := make([]byte, 100000)
	for idx := 0; idx < b.N; idx++ {
		core.SliceUint32(data)
	}
}

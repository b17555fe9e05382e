package fast

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestWriterAppends verifies WriteByte/Write accumulate in order.
func TestWriterAppends(t *testing.T) {
	require := require.New(t)

	w := NewWriter(make([]byte, 0, 8))
	w.WriteByte(0x6a)
	w.WriteByte(0x3d)
	w.Write([]byte{1, 2, 3})

	require.Equal([]byte{0x6a, 0x3d, 1, 2, 3}, w.Bytes())
}

// TestReaderCursor verifies sequential reads advance the cursor and report
// position/remaining correctly.
func TestReaderCursor(t *testing.T) {
	require := require.New(t)

	r := NewReader([]byte{0x6a, 0x3d, 10, 20, 30})

	require.Equal(0, r.Position())
	require.Equal(5, r.Remaining())
	require.False(r.Empty())

	require.Equal(byte(0x6a), r.ReadByte())
	require.Equal(byte(0x3d), r.ReadByte())
	require.Equal([]byte{10, 20, 30}, r.Read(3))

	require.Equal(5, r.Position())
	require.Equal(0, r.Remaining())
	require.True(r.Empty())
}

// TestReaderSharesMemory documents that Read returns a view, not a copy.
func TestReaderSharesMemory(t *testing.T) {
	require := require.New(t)

	src := []byte{1, 2, 3}
	r := NewReader(src)
	view := r.Read(3)
	view[0] = 9
	require.Equal(byte(9), src[0])
}

// TestReaderPanicsPastEnd pins the documented no-bounds-check contract.
func TestReaderPanicsPastEnd(t *testing.T) {
	require := require.New(t)

	r := NewReader([]byte{1})
	r.ReadByte()
	require.Panics(func() { r.ReadByte() })
	require.Panics(func() { NewReader([]byte{1, 2}).Read(3) })
}

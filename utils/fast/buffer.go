package fast

// buffer.go provides a minimal cursor over a byte slice, used by the
// protocol decoder to carve fixed-width fields out of stake payloads.
//
// Purpose:
// - bytes.Reader and bufio are overkill for linear, fixed-layout parsing.
// - A Reader just advances an integer offset; a Writer just appends.
// - Read performs NO bounds checking and panics past the end, so callers
//   must verify total length up front (the decoder rejects wrong-length
//   payloads before touching the cursor).

type Reader struct {
	// buf is the underlying data source.
	buf []byte
	// offset tracks the current reading position.
	offset int
}

type Writer struct {
	// buf is the accumulating byte slice.
	buf []byte
}

// NewReader creates a Reader consuming the provided byte slice.
func NewReader(bb []byte) *Reader {
	return &Reader{
		buf:    bb,
		offset: 0,
	}
}

// NewWriter creates a Writer appending to the provided initial slice.
// Usually called with `make([]byte, 0, capacity)` to pre-allocate.
func NewWriter(bb []byte) *Writer {
	return &Writer{
		buf: bb,
	}
}

// WriteByte appends a single byte to the buffer.
func (b *Writer) WriteByte(v byte) {
	b.buf = append(b.buf, v)
}

// Write appends a slice of bytes to the buffer.
func (b *Writer) Write(v []byte) {
	b.buf = append(b.buf, v...)
}

// Read consumes and returns the next n bytes.
//
// The returned slice shares memory with the underlying buffer; callers that
// retain it must copy. Panics if fewer than n bytes remain.
func (b *Reader) Read(n int) []byte {
	res := b.buf[b.offset : b.offset+n]
	b.offset += n
	return res
}

// ReadByte consumes and returns a single byte. Panics if the buffer is
// exhausted.
func (b *Reader) ReadByte() byte {
	res := b.buf[b.offset]
	b.offset++
	return res
}

// Position returns the current cursor index of the Reader.
func (b *Reader) Position() int {
	return b.offset
}

// Remaining returns the number of unread bytes.
func (b *Reader) Remaining() int {
	return len(b.buf) - b.offset
}

// Bytes returns the entire underlying buffer of the Reader.
func (b *Reader) Bytes() []byte {
	return b.buf
}

// Bytes returns the accumulated content of the Writer.
func (b *Writer) Bytes() []byte {
	return b.buf
}

// Empty reports whether the Reader has reached the end of the buffer.
func (b *Reader) Empty() bool {
	return len(b.buf) == b.offset
}

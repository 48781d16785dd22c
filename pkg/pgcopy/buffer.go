package pgcopy

import "encoding/binary"

// buffer is a single-owner byte cursor: one resizable backing array with an
// explicit read position. The Reader drains it through read, the Writer
// assembles units of work in it through fill. Between units it is either
// fully drained or empty.
type buffer struct {
	data []byte
	pos  int
}

// reset seeks to the start and clears the buffer, keeping the backing array.
func (b *buffer) reset() {
	b.data = b.data[:0]
	b.pos = 0
}

// drained reports whether every buffered byte has been read.
func (b *buffer) drained() bool {
	return b.pos == len(b.data)
}

func (b *buffer) len() int {
	return len(b.data)
}

// Write appends p, satisfying io.Writer so values can serialize payloads
// directly into the staging area.
func (b *buffer) Write(p []byte) (int, error) {
	b.data = append(b.data, p...)
	return len(p), nil
}

func (b *buffer) writeInt16(v int16) {
	b.data = append(b.data, byte(uint16(v)>>8), byte(uint16(v)))
}

func (b *buffer) writeInt32(v int32) {
	b.data = append(b.data, byte(uint32(v)>>24), byte(uint32(v)>>16), byte(uint32(v)>>8), byte(uint32(v)))
}

// rewriteInt32 overwrites 4 previously written bytes at off, used to patch a
// reserved length prefix once the payload size is known.
func (b *buffer) rewriteInt32(off int, v int32) {
	binary.BigEndian.PutUint32(b.data[off:off+4], uint32(v))
}

// read copies buffered bytes into p, advancing the read position.
func (b *buffer) read(p []byte) int {
	n := copy(p, b.data[b.pos:])
	b.pos += n
	return n
}

// fill appends bytes from p until the buffer holds want bytes, returning how
// many bytes of p were used. The buffer may still be short afterwards; the
// caller supplies more input on its next call.
func (b *buffer) fill(p []byte, want int) int {
	n := want - len(b.data)
	if n > len(p) {
		n = len(p)
	}
	b.data = append(b.data, p[:n]...)
	return n
}

package pgcopy

import (
	"io"
	"math"
)

type readerState int

const (
	// readerHeader: only the stream header has been staged.
	readerHeader readerState = iota
	// readerTuple: the field at Reader.field was the last unit staged.
	readerTuple
	// readerFooter: the value source is exhausted, footer not yet staged.
	readerFooter
	// readerDone: the footer has been staged; the stream is complete.
	readerDone
)

// Reader encodes a sequence of typed values as a binary COPY stream. It
// implements io.Reader so it can be handed to any COPY FROM STDIN execution
// machinery, which pulls the stream at its own pace.
//
// The staging buffer holds at most one field (or the header or footer) at a
// time, so memory use is bounded by one field's encoded size no matter how
// many rows the source yields.
//
// A Reader is single-use and must not be driven from more than one
// goroutine.
type Reader struct {
	types  []Type
	source ValueSource
	info   *SessionInfo
	state  readerState
	field  int
	buf    buffer
	err    error
}

// NewReader creates a Reader producing tuples with the structure described
// by types and values drawn from source in row-major order. info is passed
// through to every value conversion; it may be nil.
func NewReader(types []Type, source ValueSource, info *SessionInfo) *Reader {
	r := &Reader{types: types, source: source, info: info}
	r.buf.data = append(r.buf.data, Signature...)
	r.buf.writeInt32(0) // flags: no OIDs, no extensions
	r.buf.writeInt32(0) // header extension length
	return r
}

// Read copies staged stream bytes into p. When the staging buffer runs dry
// it is refilled with exactly one unit: the next field's framing and
// payload, or the footer. After the footer has been delivered Read returns
// 0, io.EOF. Any framing or conversion error is sticky.
func (r *Reader) Read(p []byte) (int, error) {
	if r.err != nil {
		return 0, r.err
	}
	if r.buf.drained() {
		if err := r.fill(); err != nil {
			r.err = err
			return 0, err
		}
		if r.buf.drained() {
			return 0, io.EOF
		}
	}
	return r.buf.read(p), nil
}

// fill stages the next unit of work. In readerDone it stages nothing,
// leaving the buffer empty.
func (r *Reader) fill() error {
	r.buf.reset()

	if r.state == readerHeader || r.state == readerTuple {
		if r.source.Next() {
			return r.fillField(r.source.Value())
		}
		// The source must end on a tuple boundary; anything else is a
		// broken caller contract, not a recoverable condition.
		if r.state == readerTuple && r.field != len(r.types)-1 {
			return ErrPartialTuple
		}
		r.state = readerFooter
	}

	if r.state == readerFooter {
		r.buf.writeInt16(endOfData)
		r.state = readerDone
	}
	return nil
}

// fillField stages one field: the tuple field count when a new tuple starts,
// then a length prefix and the value's payload. The prefix is reserved
// first and patched once the payload size (or NULL) is known.
func (r *Reader) fillField(v Value) error {
	if len(r.types) == 0 {
		return ErrEmptySchema
	}
	idx := 0
	if r.state == readerTuple {
		idx = (r.field + 1) % len(r.types)
	}
	r.state = readerTuple
	r.field = idx

	if idx == 0 {
		if len(r.types) > math.MaxInt16 {
			return ErrSchemaTooWide
		}
		r.buf.writeInt16(int16(len(r.types)))
	}

	lenPos := r.buf.len()
	r.buf.writeInt32(0) // reserved for the length prefix
	null, err := v.EncodeValue(r.types[idx], &r.buf, r.info)
	if err != nil {
		return &ConversionError{Index: idx, Err: err}
	}
	if null {
		r.buf.rewriteInt32(lenPos, nullField)
		return nil
	}
	n := r.buf.len() - lenPos - fieldLenLen
	if n > math.MaxInt32 {
		return ErrFieldTooLarge
	}
	r.buf.rewriteInt32(lenPos, int32(n))
	return nil
}

package pgcopy

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

type writerState int

const (
	// writerHeader: accumulating the fixed 19-byte stream header.
	writerHeader writerState = iota
	// writerHeaderExt: discarding a declared header extension area.
	writerHeaderExt
	// writerTupleHeader: accumulating a 2-byte tuple field count.
	writerTupleHeader
	// writerFieldLen: accumulating a 4-byte field length prefix.
	writerFieldLen
	// writerFieldPayload: accumulating exactly payloadLen payload bytes.
	writerFieldPayload
	// writerDone: the end-of-data marker has been consumed.
	writerDone
)

// WriterConfig holds optional limits for a Writer.
type WriterConfig struct {
	// MaxFieldLen rejects any field whose declared payload exceeds this
	// many bytes before buffering it. Zero means no limit.
	MaxFieldLen int
}

// Writer decodes a binary COPY stream, invoking a ValueSink once per field.
// It implements io.Writer so it can be handed to any COPY TO STDOUT
// execution machinery, which pushes bytes at whatever granularity the
// transport produces; one byte at a time and the whole stream at once yield
// identical sink call sequences.
//
// The field count of each tuple is taken from the wire, so the Writer needs
// no schema. When the stream's header flags row OIDs, the OID is delivered
// as one extra leading field per tuple.
//
// A Writer is single-use and must not be driven from more than one
// goroutine.
type Writer struct {
	sink ValueSink
	info *SessionInfo
	cfg  WriterConfig

	state      writerState
	buf        buffer
	extLen     int
	remaining  int
	fieldIdx   int
	payloadLen int
	hasOIDs    bool
	err        error
}

// NewWriter creates a Writer delivering fields to sink. info is passed
// through to every sink invocation; it may be nil.
func NewWriter(sink ValueSink, info *SessionInfo) *Writer {
	return NewWriterWithConfig(sink, info, WriterConfig{})
}

// NewWriterWithConfig creates a Writer with explicit limits.
func NewWriterWithConfig(sink ValueSink, info *SessionInfo, cfg WriterConfig) *Writer {
	return &Writer{sink: sink, info: info, cfg: cfg}
}

// Done reports whether the stream's end-of-data marker has been consumed.
func (w *Writer) Done() bool {
	return w.state == writerDone
}

// Write consumes stream bytes, accumulating them in the staging buffer until
// a complete unit (header, tuple header, field length or field payload) is
// present, then acts on it. It consumes all of p unless an error occurs, in
// which case it returns how many bytes it was able to use. Errors are
// sticky: after one, the stream is corrupt and further input is refused.
func (w *Writer) Write(p []byte) (int, error) {
	if w.err != nil {
		return 0, w.err
	}

	consumed := 0
	for {
		switch w.state {
		case writerDone:
			if consumed < len(p) {
				w.err = ErrTrailingData
				return consumed, w.err
			}
			return consumed, nil
		case writerHeaderExt:
			// Extension bytes are skipped, never buffered.
			n := len(p) - consumed
			if n > w.extLen {
				n = w.extLen
			}
			consumed += n
			w.extLen -= n
			if w.extLen > 0 {
				return consumed, nil
			}
			w.state = writerTupleHeader
			continue
		}

		need := w.need()
		if w.buf.len() >= need {
			if err := w.advance(); err != nil {
				w.err = err
				return consumed, err
			}
			continue
		}
		if consumed == len(p) {
			return consumed, nil
		}
		consumed += w.buf.fill(p[consumed:], need)
	}
}

// need returns how many buffered bytes complete the current unit.
func (w *Writer) need() int {
	switch w.state {
	case writerHeader:
		return headerLen
	case writerTupleHeader:
		return tupleHeaderLen
	case writerFieldLen:
		return fieldLenLen
	case writerFieldPayload:
		return w.payloadLen
	}
	return 0
}

// advance acts on one complete unit and clears the staging buffer. Payload
// views handed to the sink alias the buffer and are invalidated by the
// clear, which is why the sink must consume them synchronously.
func (w *Writer) advance() error {
	data := w.buf.data
	defer w.buf.reset()

	switch w.state {
	case writerHeader:
		if !bytes.Equal(data[:len(Signature)], Signature) {
			return ErrBadSignature
		}
		flags := binary.BigEndian.Uint32(data[len(Signature):])
		if flags&^flagOIDs != 0 {
			return ErrBadFlags
		}
		w.hasOIDs = flags&flagOIDs != 0
		w.extLen = int(int32(binary.BigEndian.Uint32(data[len(Signature)+4:])))
		if w.extLen < 0 {
			return &FormatError{fmt.Sprintf("invalid header extension length %d", w.extLen)}
		}
		if w.extLen > 0 {
			w.state = writerHeaderExt
		} else {
			w.state = writerTupleHeader
		}

	case writerTupleHeader:
		count := int16(binary.BigEndian.Uint16(data))
		if count == endOfData {
			w.state = writerDone
			return nil
		}
		if count < 0 {
			return &FormatError{fmt.Sprintf("invalid tuple field count %d", count)}
		}
		w.remaining = int(count)
		if w.hasOIDs {
			// The OID shares the ordinary length-prefixed field
			// encoding, so it is simply one more field.
			w.remaining++
		}
		w.fieldIdx = 0
		if w.remaining > 0 {
			w.state = writerFieldLen
		}

	case writerFieldLen:
		size := int32(binary.BigEndian.Uint32(data))
		if size == nullField {
			if err := w.sink.Null(w.fieldIdx, w.info); err != nil {
				return &ConversionError{Index: w.fieldIdx, Err: err}
			}
			w.finishField()
			return nil
		}
		if size < 0 {
			return &FormatError{fmt.Sprintf("invalid field length %d", size)}
		}
		if w.cfg.MaxFieldLen > 0 && int(size) > w.cfg.MaxFieldLen {
			return &LimitError{fmt.Sprintf("field of %d bytes exceeds configured maximum %d", size, w.cfg.MaxFieldLen)}
		}
		w.payloadLen = int(size)
		w.state = writerFieldPayload

	case writerFieldPayload:
		if err := w.sink.Field(w.fieldIdx, data, w.info); err != nil {
			return &ConversionError{Index: w.fieldIdx, Err: err}
		}
		w.finishField()
	}
	return nil
}

func (w *Writer) finishField() {
	w.remaining--
	if w.remaining == 0 {
		w.state = writerTupleHeader
	} else {
		w.fieldIdx++
		w.state = writerFieldLen
	}
}

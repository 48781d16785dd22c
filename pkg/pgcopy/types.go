package pgcopy

import "io"

// Type identifies the data type of one destination column. The framing layer
// treats it as opaque and passes it through to value conversion.
type Type struct {
	OID  uint32
	Name string
}

// SessionInfo carries ambient connection metadata (server version, run-time
// parameters such as the server encoding) that value conversion may need.
// The framing layer never inspects it; a nil SessionInfo is valid.
type SessionInfo struct {
	ServerVersion string
	Parameters    map[string]string
}

// Value is the encode-side conversion capability: one typed value that knows
// how to serialize its own wire payload.
type Value interface {
	// EncodeValue writes the payload bytes for this value to w. Returning
	// null == true reports a SQL NULL; in that case nothing may be written.
	EncodeValue(typ Type, w io.Writer, info *SessionInfo) (null bool, err error)
}

// ValueSource yields values in strict row-major order: every value of row 0,
// then every value of row 1, and so on. It is single-pass and stateful; the
// value returned by Value is only valid until the next call to Next.
//
// Callers must supply a number of values that is an exact multiple of the
// column count. A source that ends mid-row fails the encode with
// ErrPartialTuple.
type ValueSource interface {
	Next() bool
	Value() Value
}

// ValueSink is the decode-side conversion capability, invoked once per field
// in wire order.
type ValueSink interface {
	// Field delivers one non-null field. index is the field's position
	// within its tuple; when the stream carries row OIDs, index 0 is the
	// OID field. data is only valid for the duration of the call.
	Field(index int, data []byte, info *SessionInfo) error

	// Null delivers one NULL field. No payload exists for it.
	Null(index int, info *SessionInfo) error
}

// Raw is a Value whose payload bytes are emitted as-is, without conversion.
// A nil Raw encodes as SQL NULL.
type Raw []byte

func (r Raw) EncodeValue(_ Type, w io.Writer, _ *SessionInfo) (bool, error) {
	if r == nil {
		return true, nil
	}
	_, err := w.Write(r)
	return false, err
}

// Values returns a single-pass ValueSource over vals.
func Values(vals ...Value) ValueSource {
	return &sliceSource{vals: vals}
}

type sliceSource struct {
	vals []Value
	cur  Value
}

func (s *sliceSource) Next() bool {
	if len(s.vals) == 0 {
		s.cur = nil
		return false
	}
	s.cur = s.vals[0]
	s.vals = s.vals[1:]
	return true
}

func (s *sliceSource) Value() Value {
	return s.cur
}

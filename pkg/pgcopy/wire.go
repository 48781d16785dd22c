package pgcopy

import "fmt"

// Signature is the fixed 11-byte sequence that opens every binary COPY
// stream. The embedded carriage return, newline and NUL catch files that
// were mangled by text-mode transfers.
var Signature = []byte("PGCOPY\n\xff\r\n\x00")

const (
	// headerLen is the fixed portion of the stream header: the signature,
	// a 4-byte flags field and a 4-byte header extension length.
	headerLen = len("PGCOPY\n\xff\r\n\x00") + 4 + 4

	tupleHeaderLen = 2
	fieldLenLen    = 4

	// flagOIDs marks streams whose tuples carry a leading row OID field.
	flagOIDs uint32 = 1 << 16

	// nullField is the length-prefix sentinel for a NULL field.
	nullField int32 = -1

	// endOfData replaces a tuple field count to terminate the stream.
	endOfData int16 = -1
)

// FormatError indicates a byte stream that does not conform to the binary
// COPY framing. It is fatal: the stream is considered corrupt and must not
// be fed any further.
type FormatError struct {
	Message string
}

func (e *FormatError) Error() string {
	return e.Message
}

// LimitError indicates a schema or value that cannot be represented in the
// wire format's signed length fields.
type LimitError struct {
	Message string
}

func (e *LimitError) Error() string {
	return e.Message
}

// ConversionError wraps a failure reported by a Value or ValueSink while
// converting a single field. The framing layer does not interpret it; it
// only records which field was being processed.
type ConversionError struct {
	Index int
	Err   error
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("conversion failed for field %d: %v", e.Index, e.Err)
}

func (e *ConversionError) Unwrap() error {
	return e.Err
}

// Errors
var (
	ErrBadSignature  = &FormatError{"did not receive expected binary copy header"}
	ErrBadFlags      = &FormatError{"critical file format issue: unsupported flag bits set"}
	ErrTrailingData  = &FormatError{"unexpected input after stream end"}
	ErrPartialTuple  = &FormatError{"value stream ended in the middle of a tuple"}
	ErrEmptySchema   = &FormatError{"value produced for a schema with no columns"}
	ErrSchemaTooWide = &LimitError{"schema too wide to transmit"}
	ErrFieldTooLarge = &LimitError{"value too large to transmit"}
)

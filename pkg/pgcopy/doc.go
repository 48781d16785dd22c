// Package pgcopy implements the PostgreSQL binary COPY wire format as a
// pair of streaming byte state machines.
//
// The Reader encodes: it is pulled for output bytes by whatever machinery
// executes COPY ... FROM STDIN BINARY, drawing typed values from a
// ValueSource in row-major order. The Writer decodes: it is pushed input
// bytes by whatever machinery executes COPY ... TO STDOUT BINARY, delivering
// each field to a ValueSink. Neither machine materializes more than one
// field at a time.
//
// # Wire Format
//
// All multi-byte integers are big-endian and signed.
//
//	[Signature(11)][Flags(4)][Header extension length(4)][Extension...]
//	per tuple:  [Field count(2)]            -1 terminates the stream
//	per field:  [Length(4)][Payload...]     -1 marks NULL, no payload
//
// Fields:
//   - Signature: the fixed bytes "PGCOPY\n\377\r\n\0"
//   - Flags: bit 16 set means each tuple is prefixed with a row OID field;
//     any other set bit is a critical format issue and is rejected
//   - Header extension length: size of an extension area the decoder skips;
//     the encoder always writes 0
//   - Field count: number of length-prefixed fields in the tuple, excluding
//     the OID field when present
//
// # Division of Labor
//
// The package frames bytes; it knows nothing about how a timestamp or a
// numeric is encoded. Payload serialization is delegated to the Value given
// by the source, payload interpretation to the ValueSink, both of which
// receive the column Type and ambient SessionInfo untouched. The Raw value
// type passes payload bytes through unchanged for callers that already hold
// wire-encoded data.
//
// # Usage
//
// Encoding:
//
//	types := []pgcopy.Type{{OID: 23, Name: "int4"}, {OID: 25, Name: "text"}}
//	src := pgcopy.Values(
//		pgcopy.Raw("\x00\x00\x00\x01"), pgcopy.Raw("hello"),
//		pgcopy.Raw("\x00\x00\x00\x02"), pgcopy.Raw(nil), // NULL
//	)
//	r := pgcopy.NewReader(types, src, nil)
//	// hand r to the COPY FROM execution machinery, or io.Copy it anywhere
//
// Decoding:
//
//	w := pgcopy.NewWriter(sink, nil)
//	// push stream bytes into w in chunks of any size
//
// # Error Handling
//
// Three error kinds separate "format problem" from "value problem":
//   - FormatError: the byte stream violates the framing (bad signature,
//     unsupported flags, input after the end-of-data marker). Fatal, the
//     stream is corrupt.
//   - LimitError: a schema wider than the 16-bit field count or a field
//     larger than the 32-bit length prefix can express. Fatal.
//   - ConversionError: a failure surfaced by a Value or ValueSink, wrapped
//     with the field index and otherwise untouched.
//
// All errors are sticky. The one exception to fail-and-stop: a Reader that
// has delivered its footer keeps returning io.EOF rather than erroring.
//
// # Concurrency
//
// Readers and Writers are strictly synchronous and own their staging buffer
// exclusively. Drive each instance from a single goroutine. Sources and
// sinks are invoked in order from within Read and Write, never concurrently.
// Abandoning an instance mid-stream has no effect beyond buffered,
// undelivered bytes.
package pgcopy

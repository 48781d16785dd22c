package pgcopy

import (
	"bytes"
	"fmt"
	"testing"
)

// buildRows produces n rows over the two-column schema, with every third
// second column NULL.
func buildRows(n int) []Value {
	vals := make([]Value, 0, n*2)
	for i := 0; i < n; i++ {
		vals = append(vals, Raw(fmt.Sprintf("%08d", i)))
		if i%3 == 2 {
			vals = append(vals, Raw(nil))
		} else {
			vals = append(vals, Raw(fmt.Sprintf("the value for %d", i)))
		}
	}
	return vals
}

func TestRoundTrip(t *testing.T) {
	for _, rows := range []int{0, 1, 10000} {
		t.Run(fmt.Sprintf("%d rows", rows), func(t *testing.T) {
			vals := buildRows(rows)
			data := encodeAll(t, twoCols(), vals...)
			calls := decode(t, data, 0)

			if len(calls) != len(vals) {
				t.Fatalf("decoded %d fields, want %d", len(calls), len(vals))
			}
			for i, call := range calls {
				raw := vals[i].(Raw)
				if call.Index != i%2 {
					t.Fatalf("field %d: index %d, want %d", i, call.Index, i%2)
				}
				if raw == nil {
					if !call.Null {
						t.Fatalf("field %d: expected NULL, got %q", i, call.Data)
					}
					continue
				}
				if call.Null {
					t.Fatalf("field %d: unexpected NULL, want %q", i, []byte(raw))
				}
				if !bytes.Equal(call.Data, raw) {
					t.Fatalf("field %d: got %q, want %q", i, call.Data, []byte(raw))
				}
			}
		})
	}
}

// TestRoundTrip_FieldCountInvariant verifies every decoded tuple delivers
// exactly the schema's column count to the sink.
func TestRoundTrip_FieldCountInvariant(t *testing.T) {
	data := encodeAll(t, twoCols(), buildRows(17)...)
	calls := decode(t, data, 5)

	perTuple := 0
	tuples := 0
	for _, call := range calls {
		if call.Index == 0 {
			if tuples > 0 && perTuple != 2 {
				t.Fatalf("tuple %d delivered %d fields, want 2", tuples-1, perTuple)
			}
			tuples++
			perTuple = 0
		}
		perTuple++
	}
	if tuples != 17 {
		t.Fatalf("decoded %d tuples, want 17", tuples)
	}
	if perTuple != 2 {
		t.Fatalf("last tuple delivered %d fields, want 2", perTuple)
	}
}

func TestRoundTrip_LargeField(t *testing.T) {
	payload := bytes.Repeat([]byte{0x5A}, 128*1024)
	data := encodeAll(t, []Type{{OID: 17, Name: "bytea"}}, Raw(payload))
	calls := decode(t, data, 4096)

	if len(calls) != 1 {
		t.Fatalf("decoded %d fields, want 1", len(calls))
	}
	if !bytes.Equal(calls[0].Data, payload) {
		t.Fatal("128KiB payload did not survive the round trip")
	}
}

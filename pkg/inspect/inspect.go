// Package inspect analyzes the structure of binary COPY streams without any
// knowledge of column types: tuple and field counts, NULL density and
// payload sizes, straight from the framing.
package inspect

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/ssargent/pgbcp/pkg/pgcopy"
)

// DefaultChunkSize is the read granularity used by Stream when the caller
// does not care.
const DefaultChunkSize = 32 * 1024

// ColumnStats aggregates the fields seen at one tuple position.
type ColumnStats struct {
	Index  int   `json:"index"`
	Values int   `json:"values"`
	Nulls  int   `json:"nulls"`
	Bytes  int64 `json:"bytes"`
	MinLen int   `json:"min_len"`
	MaxLen int   `json:"max_len"`
}

// Report is the structural summary of one stream.
type Report struct {
	Tuples       int           `json:"tuples"`
	Fields       int           `json:"fields"`
	Nulls        int           `json:"nulls"`
	PayloadBytes int64         `json:"payload_bytes"`
	Columns      []ColumnStats `json:"columns"`
}

// Summary renders the report for terminal output.
func (r *Report) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "tuples:  %s\n", humanize.Comma(int64(r.Tuples)))
	fmt.Fprintf(&b, "fields:  %s (%s null)\n", humanize.Comma(int64(r.Fields)), humanize.Comma(int64(r.Nulls)))
	fmt.Fprintf(&b, "payload: %s\n", humanize.Bytes(uint64(r.PayloadBytes)))
	for _, c := range r.Columns {
		fmt.Fprintf(&b, "column %d: %d values, %d nulls, %s (len %d..%d)\n",
			c.Index, c.Values, c.Nulls, humanize.Bytes(uint64(c.Bytes)), c.MinLen, c.MaxLen)
	}
	return b.String()
}

// Collector is a pgcopy.ValueSink that builds a Report as fields arrive.
// The per-column breakdown is inferred from field indices; a new tuple
// starts whenever index 0 comes around again.
type Collector struct {
	report Report
}

// NewCollector creates an empty Collector.
func NewCollector() *Collector {
	return &Collector{}
}

// Report returns the statistics gathered so far.
func (c *Collector) Report() *Report {
	return &c.report
}

func (c *Collector) Field(index int, data []byte, _ *pgcopy.SessionInfo) error {
	col := c.column(index)
	if col.Values == 0 || len(data) < col.MinLen {
		col.MinLen = len(data)
	}
	if len(data) > col.MaxLen {
		col.MaxLen = len(data)
	}
	col.Values++
	col.Bytes += int64(len(data))
	c.report.Fields++
	c.report.PayloadBytes += int64(len(data))
	return nil
}

func (c *Collector) Null(index int, _ *pgcopy.SessionInfo) error {
	col := c.column(index)
	col.Nulls++
	c.report.Fields++
	c.report.Nulls++
	return nil
}

func (c *Collector) column(index int) *ColumnStats {
	if index == 0 {
		c.report.Tuples++
	}
	for len(c.report.Columns) <= index {
		c.report.Columns = append(c.report.Columns, ColumnStats{Index: len(c.report.Columns)})
	}
	return &c.report.Columns[index]
}

// Stream decodes a whole binary COPY stream from r in chunks of chunkSize
// bytes (DefaultChunkSize if <= 0) and returns its structural report. A
// stream that ends before the end-of-data marker is rejected.
func Stream(r io.Reader, chunkSize int) (*Report, error) {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	collector := NewCollector()
	w := pgcopy.NewWriter(collector, nil)
	// The bare Reader wrapper keeps CopyBuffer off the WriterTo fast path,
	// so chunkSize is honored for sources like *os.File too.
	if _, err := io.CopyBuffer(w, struct{ io.Reader }{r}, make([]byte, chunkSize)); err != nil {
		return nil, err
	}
	if !w.Done() {
		return nil, &pgcopy.FormatError{Message: "stream ended before end-of-data marker"}
	}
	return collector.Report(), nil
}

// File analyzes the binary COPY stream stored at path.
func File(path string) (*Report, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	report, err := Stream(f, DefaultChunkSize)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return report, nil
}

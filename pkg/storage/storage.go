// Package storage persists stream inspection reports in a local pebble
// database, keyed by ksuid so report IDs sort by creation time.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/cockroachdb/pebble"
	"github.com/segmentio/ksuid"

	"github.com/ssargent/pgbcp/pkg/inspect"
)

// ErrNotFound is returned when no report exists for the given ID.
var ErrNotFound = errors.New("report not found")

// ReportStore is a pebble-backed store of inspection reports.
type ReportStore struct {
	db *pebble.DB
}

// NewReportStore opens (creating if necessary) the report database at path.
func NewReportStore(path string) (*ReportStore, error) {
	db, err := pebble.Open(path, &pebble.Options{})
	if err != nil {
		return nil, err
	}
	return &ReportStore{db: db}, nil
}

// Save persists a report and returns its generated ID.
func (s *ReportStore) Save(report *inspect.Report) (ksuid.KSUID, error) {
	data, err := json.Marshal(report)
	if err != nil {
		return ksuid.Nil, fmt.Errorf("failed to marshal report: %w", err)
	}

	id := ksuid.New()
	if err := s.db.Set(id.Bytes(), data, pebble.NoSync); err != nil {
		return ksuid.Nil, err
	}
	return id, nil
}

// Load retrieves a report by ID.
func (s *ReportStore) Load(id ksuid.KSUID) (*inspect.Report, error) {
	data, closer, err := s.db.Get(id.Bytes())
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	defer closer.Close()

	var report inspect.Report
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("failed to unmarshal report %s: %w", id, err)
	}
	return &report, nil
}

// Delete removes a report by ID. Deleting a missing report is not an error.
func (s *ReportStore) Delete(id ksuid.KSUID) error {
	return s.db.Delete(id.Bytes(), pebble.NoSync)
}

// List returns the IDs of all stored reports in creation order.
func (s *ReportStore) List() ([]ksuid.KSUID, error) {
	iter, err := s.db.NewIter(&pebble.IterOptions{})
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	var ids []ksuid.KSUID
	for iter.First(); iter.Valid(); iter.Next() {
		id, err := ksuid.FromBytes(iter.Key())
		if err != nil {
			return nil, fmt.Errorf("malformed report key %x: %w", iter.Key(), err)
		}
		ids = append(ids, id)
	}
	if err := iter.Error(); err != nil {
		return nil, err
	}
	return ids, nil
}

// Close closes the underlying database.
func (s *ReportStore) Close() error {
	return s.db.Close()
}

package api

import "github.com/ssargent/pgbcp/pkg/storage"

// StoreFactory creates report stores, letting the CLI swap persistence in
// tests.
type StoreFactory interface {
	Open(path string) (ReportStorer, error)
}

// NewStoreFactory returns the pebble-backed factory.
func NewStoreFactory() StoreFactory {
	return &pebbleStoreFactory{}
}

type pebbleStoreFactory struct{}

func (f *pebbleStoreFactory) Open(path string) (ReportStorer, error) {
	return storage.NewReportStore(path)
}

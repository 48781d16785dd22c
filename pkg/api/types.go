package api

import (
	"github.com/segmentio/ksuid"

	"github.com/ssargent/pgbcp/pkg/inspect"
)

// APIResponse represents a standard API response
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// InspectResult is the payload returned for a successfully analyzed stream.
type InspectResult struct {
	ID     string          `json:"id"`
	Report *inspect.Report `json:"report"`
}

// ServerConfig holds configuration for the API server
type ServerConfig struct {
	Port          int
	Bind          string
	APIKey        string
	DataDir       string
	MaxFieldBytes int   // per-field decode limit, 0 = unlimited
	MaxBodyBytes  int64 // request body limit, 0 = default
}

// ReportStorer defines the report persistence operations the server needs.
type ReportStorer interface {
	Save(report *inspect.Report) (ksuid.KSUID, error)
	Load(id ksuid.KSUID) (*inspect.Report, error)
	Delete(id ksuid.KSUID) error
	List() ([]ksuid.KSUID, error)
	Close() error
}

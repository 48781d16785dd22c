package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/segmentio/ksuid"

	"github.com/ssargent/pgbcp/pkg/inspect"
	"github.com/ssargent/pgbcp/pkg/pgcopy"
	"github.com/ssargent/pgbcp/pkg/storage"
)

// defaultMaxBodyBytes caps inspect request bodies when the config does not.
const defaultMaxBodyBytes = 1 << 30

// Server holds the API server state
type Server struct {
	reports ReportStorer
	config  ServerConfig
	metrics *Metrics
	log     zerolog.Logger
}

// NewServer creates a new API server
func NewServer(reports ReportStorer, config ServerConfig, metrics *Metrics, log zerolog.Logger) *Server {
	return &Server{
		reports: reports,
		config:  config,
		metrics: metrics,
		log:     log,
	}
}

// handleHealth reports service liveness.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	sendSuccess(w, map[string]string{"status": "healthy"})
}

// handleInspect decodes the binary COPY stream in the request body and
// responds with its structural report, persisted under a fresh ID.
func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	maxBody := s.config.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = defaultMaxBodyBytes
	}
	body := http.MaxBytesReader(w, r.Body, maxBody)

	collector := inspect.NewCollector()
	decoder := pgcopy.NewWriterWithConfig(collector, nil, pgcopy.WriterConfig{
		MaxFieldLen: s.config.MaxFieldBytes,
	})

	if _, err := io.Copy(decoder, body); err != nil {
		if s.metrics != nil {
			s.metrics.RecordStream(nil, false)
		}
		s.log.Warn().Err(err).Msg("stream rejected")
		sendError(w, err.Error(), streamErrorStatus(err))
		return
	}
	if !decoder.Done() {
		if s.metrics != nil {
			s.metrics.RecordStream(nil, false)
		}
		sendError(w, "stream ended before end-of-data marker", http.StatusBadRequest)
		return
	}

	report := collector.Report()
	if s.metrics != nil {
		s.metrics.RecordStream(report, true)
	}

	id, err := s.reports.Save(report)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to persist report")
		sendError(w, "Failed to store report", http.StatusInternalServerError)
		return
	}

	s.log.Info().
		Str("report_id", id.String()).
		Int("tuples", report.Tuples).
		Int("fields", report.Fields).
		Msg("stream analyzed")
	sendSuccess(w, InspectResult{ID: id.String(), Report: report})
}

// handleGetReport returns a previously stored report.
func (s *Server) handleGetReport(w http.ResponseWriter, r *http.Request) {
	id, err := ksuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		sendError(w, "Invalid report ID", http.StatusBadRequest)
		return
	}

	report, err := s.reports.Load(id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			sendError(w, "Report not found", http.StatusNotFound)
			return
		}
		s.log.Error().Err(err).Str("report_id", id.String()).Msg("failed to load report")
		sendError(w, "Failed to load report", http.StatusInternalServerError)
		return
	}

	sendSuccess(w, InspectResult{ID: id.String(), Report: report})
}

// handleListReports returns the IDs of all stored reports.
func (s *Server) handleListReports(w http.ResponseWriter, r *http.Request) {
	ids, err := s.reports.List()
	if err != nil {
		s.log.Error().Err(err).Msg("failed to list reports")
		sendError(w, "Failed to list reports", http.StatusInternalServerError)
		return
	}

	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	sendSuccess(w, out)
}

// handleDeleteReport removes a stored report.
func (s *Server) handleDeleteReport(w http.ResponseWriter, r *http.Request) {
	id, err := ksuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		sendError(w, "Invalid report ID", http.StatusBadRequest)
		return
	}

	if err := s.reports.Delete(id); err != nil {
		s.log.Error().Err(err).Str("report_id", id.String()).Msg("failed to delete report")
		sendError(w, "Failed to delete report", http.StatusInternalServerError)
		return
	}
	sendSuccess(w, map[string]string{"deleted": id.String()})
}

// streamErrorStatus maps decode failures onto HTTP statuses: framing and
// limit problems are the client's fault, anything else is ours.
func streamErrorStatus(err error) int {
	var formatErr *pgcopy.FormatError
	var limitErr *pgcopy.LimitError
	switch {
	case errors.As(err, &formatErr):
		return http.StatusBadRequest
	case errors.As(err, &limitErr):
		return http.StatusRequestEntityTooLarge
	default:
		return http.StatusBadRequest
	}
}

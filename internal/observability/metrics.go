package observability

import (
	"fmt"
	"log/slog"
	"net/http"
	"sync/atomic"
)

// Metrics tracks operational metrics for the extraction engine.
type Metrics struct {
	// Page metrics
	PagesProcessed atomic.Int64
	PagesFiltered  atomic.Int64
	PagesFailed    atomic.Int64

	// Field metrics
	FieldsResolved atomic.Int64
	FieldsMissed   atomic.Int64
	MetaFallbacks  atomic.Int64

	// Date metrics
	DatesParsed     atomic.Int64
	DatesUnparsable atomic.Int64

	// Record metrics
	RecordsAssembled atomic.Int64
	RecordsRejected  atomic.Int64

	// Storage metrics
	StoredInserted  atomic.Int64
	StoredDuplicate atomic.Int64
	StoredFailed    atomic.Int64

	// Engine metrics
	ActiveWorkers atomic.Int32

	logger *slog.Logger
}

// NewMetrics creates a new Metrics instance.
func NewMetrics(logger *slog.Logger) *Metrics {
	return &Metrics{
		logger: logger.With("component", "metrics"),
	}
}

// ServeHTTP serves metrics in Prometheus text exposition format.
func (m *Metrics) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; version=0.0.4; charset=utf-8")

	metrics := []struct {
		name  string
		help  string
		value int64
	}{
		{"newshound_pages_processed_total", "Total pages run through extraction", m.PagesProcessed.Load()},
		{"newshound_pages_filtered_total", "Total pages skipped by URL patterns", m.PagesFiltered.Load()},
		{"newshound_pages_failed_total", "Total pages that failed extraction", m.PagesFailed.Load()},
		{"newshound_fields_resolved_total", "Total fields resolved by a configured rule", m.FieldsResolved.Load()},
		{"newshound_fields_missed_total", "Total fields where every rule missed", m.FieldsMissed.Load()},
		{"newshound_meta_fallbacks_total", "Total fields recovered from page metadata", m.MetaFallbacks.Load()},
		{"newshound_dates_parsed_total", "Total publication dates parsed", m.DatesParsed.Load()},
		{"newshound_dates_unparsable_total", "Total unparsable publication dates", m.DatesUnparsable.Load()},
		{"newshound_records_assembled_total", "Total records passing validation", m.RecordsAssembled.Load()},
		{"newshound_records_rejected_total", "Total records failing validation", m.RecordsRejected.Load()},
		{"newshound_stored_inserted_total", "Total records inserted", m.StoredInserted.Load()},
		{"newshound_stored_duplicate_total", "Total duplicate records", m.StoredDuplicate.Load()},
		{"newshound_stored_failed_total", "Total storage failures", m.StoredFailed.Load()},
		{"newshound_active_workers", "Currently active extraction workers", int64(m.ActiveWorkers.Load())},
	}

	for _, metric := range metrics {
		fmt.Fprintf(w, "# HELP %s %s\n", metric.name, metric.help)
		fmt.Fprintf(w, "# TYPE %s counter\n", metric.name)
		fmt.Fprintf(w, "%s %d\n", metric.name, metric.value)
	}
}

// StartServer starts the metrics HTTP server.
func (m *Metrics) StartServer(port int, path string) error {
	mux := http.NewServeMux()
	mux.Handle(path, m)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "ok")
	})

	addr := fmt.Sprintf(":%d", port)
	m.logger.Info("metrics server starting", "addr", addr, "path", path)

	go func() {
		if err := http.ListenAndServe(addr, mux); err != nil {
			m.logger.Error("metrics server error", "error", err)
		}
	}()

	return nil
}

// Snapshot returns all metrics as a map.
func (m *Metrics) Snapshot() map[string]int64 {
	return map[string]int64{
		"pages_processed":   m.PagesProcessed.Load(),
		"pages_filtered":    m.PagesFiltered.Load(),
		"pages_failed":      m.PagesFailed.Load(),
		"fields_resolved":   m.FieldsResolved.Load(),
		"fields_missed":     m.FieldsMissed.Load(),
		"meta_fallbacks":    m.MetaFallbacks.Load(),
		"dates_parsed":      m.DatesParsed.Load(),
		"dates_unparsable":  m.DatesUnparsable.Load(),
		"records_assembled": m.RecordsAssembled.Load(),
		"records_rejected":  m.RecordsRejected.Load(),
		"stored_inserted":   m.StoredInserted.Load(),
		"stored_duplicate":  m.StoredDuplicate.Load(),
		"stored_failed":     m.StoredFailed.Load(),
		"active_workers":    int64(m.ActiveWorkers.Load()),
	}
}

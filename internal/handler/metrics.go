package handler

import (
	"fmt"
	"net/http"

	"github.com/contactly/contactly/internal/metrics"
)

// MetricsHandler exposes in-memory metrics.
type MetricsHandler struct {
	snapshotter metrics.Snapshotter
}

// NewMetricsHandler creates a new MetricsHandler.
func NewMetricsHandler(snapshotter metrics.Snapshotter) *MetricsHandler {
	return &MetricsHandler{snapshotter: snapshotter}
}

// Metrics returns metrics in Prometheus exposition format.
func (h *MetricsHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	if h.snapshotter == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	snap := h.snapshotter.Snapshot()

	w.Header().Set("Content-Type", "text/plain; version=0.0.4")

	writeMetric(w, "contactly_users_registered_total %d\n", snap.UsersRegistered)
	writeMetric(w, "contactly_logins_total{status=\"success\"} %d\n", snap.LoginsSucceeded)
	writeMetric(w, "contactly_logins_total{status=\"failed\"} %d\n", snap.LoginsFailed)
	writeMetric(w, "contactly_logouts_total %d\n", snap.Logouts)

	writeMetric(w, "contactly_session_cache_hits_total %d\n", snap.SessionCacheHits)
	writeMetric(w, "contactly_session_cache_misses_total %d\n", snap.SessionCacheMisses)

	writeMetric(w, "contactly_contacts_created_total %d\n", snap.ContactsCreated)
	writeMetric(w, "contactly_contacts_updated_total %d\n", snap.ContactsUpdated)
	writeMetric(w, "contactly_contacts_deleted_total %d\n", snap.ContactsDeleted)
	writeMetric(w, "contactly_contact_search_duration_seconds_count %d\n", snap.SearchDurationCount)
	writeMetric(w, "contactly_contact_search_duration_seconds_sum %.6f\n", float64(snap.SearchDurationTotalNs)/1e9)
}

func writeMetric(w http.ResponseWriter, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}

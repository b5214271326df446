package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PipelineMetrics records upload pipeline and access-control outcomes.
type PipelineMetrics struct {
	uploadDuration       *prometheus.HistogramVec
	uploadSuccess        *prometheus.CounterVec
	uploadFailure        *prometheus.CounterVec
	compensationFailure  *prometheus.CounterVec
	accessActions        *prometheus.CounterVec
	catalogSweeps        prometheus.Counter
	accessChecksResolved *prometheus.CounterVec
}

// NewPipelineMetrics registers the pipeline metrics on the provided registerer.
func NewPipelineMetrics(reg prometheus.Registerer) *PipelineMetrics {
	if reg == nil {
		return &PipelineMetrics{}
	}
	uploadDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "upload_duration_seconds",
		Help:    "Duration of media uploads in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"kind"})
	uploadSuccess := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "upload_success",
		Help: "Successful media uploads.",
	}, []string{"kind"})
	uploadFailure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "upload_failure",
		Help: "Failed media uploads by pipeline stage.",
	}, []string{"kind", "stage"})
	compensationFailure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "upload_compensation_failure",
		Help: "Blob deletions that failed after a metadata commit error.",
	}, []string{"kind"})
	accessActions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "access_control_actions",
		Help: "Applied access-control actions by type.",
	}, []string{"action"})
	catalogSweeps := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "catalog_sweeps",
		Help: "Catalog records marked unavailable after object deletion events.",
	})
	accessChecksResolved := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "access_checks_resolved",
		Help: "Access decisions served by the resolver.",
	}, []string{"outcome"})
	reg.MustRegister(
		uploadDuration, uploadSuccess, uploadFailure,
		compensationFailure, accessActions, catalogSweeps, accessChecksResolved,
	)
	return &PipelineMetrics{
		uploadDuration:       uploadDuration,
		uploadSuccess:        uploadSuccess,
		uploadFailure:        uploadFailure,
		compensationFailure:  compensationFailure,
		accessActions:        accessActions,
		catalogSweeps:        catalogSweeps,
		accessChecksResolved: accessChecksResolved,
	}
}

// ObserveUploadDuration records the duration of an upload by asset kind.
func (m *PipelineMetrics) ObserveUploadDuration(kind string, duration time.Duration) {
	if m == nil || m.uploadDuration == nil {
		return
	}
	m.uploadDuration.WithLabelValues(normalizeLabel(kind)).Observe(duration.Seconds())
}

// IncUploadSuccess increments the success counter for an asset kind.
func (m *PipelineMetrics) IncUploadSuccess(kind string) {
	if m == nil || m.uploadSuccess == nil {
		return
	}
	m.uploadSuccess.WithLabelValues(normalizeLabel(kind)).Inc()
}

// IncUploadFailure increments the failure counter for an asset kind and stage.
func (m *PipelineMetrics) IncUploadFailure(kind, stage string) {
	if m == nil || m.uploadFailure == nil {
		return
	}
	m.uploadFailure.WithLabelValues(normalizeLabel(kind), normalizeLabel(stage)).Inc()
}

// IncCompensationFailure counts a failed blob rollback. These leave orphaned
// objects behind and warrant operator attention.
func (m *PipelineMetrics) IncCompensationFailure(kind string) {
	if m == nil || m.compensationFailure == nil {
		return
	}
	m.compensationFailure.WithLabelValues(normalizeLabel(kind)).Inc()
}

// IncAccessAction counts an applied access-control action.
func (m *PipelineMetrics) IncAccessAction(action string) {
	if m == nil || m.accessActions == nil {
		return
	}
	m.accessActions.WithLabelValues(normalizeLabel(action)).Inc()
}

// IncCatalogSweep counts a catalog record marked unavailable by the sweeper.
func (m *PipelineMetrics) IncCatalogSweep() {
	if m == nil || m.catalogSweeps == nil {
		return
	}
	m.catalogSweeps.Inc()
}

// IncAccessCheck counts a resolver decision by outcome (allowed or denied).
func (m *PipelineMetrics) IncAccessCheck(outcome string) {
	if m == nil || m.accessChecksResolved == nil {
		return
	}
	m.accessChecksResolved.WithLabelValues(normalizeLabel(outcome)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}

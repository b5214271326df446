package metrics

import (
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestPipelineMetricsExportsCountersAndHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewPipelineMetrics(reg)
	kind := "movie"
	metrics.ObserveUploadDuration(kind, 250*time.Millisecond)
	metrics.IncUploadSuccess(kind)
	metrics.IncUploadFailure(kind, "metadata_commit")
	metrics.IncCompensationFailure(kind)
	metrics.IncAccessAction("suspend")
	metrics.IncAccessCheck("denied")
	metrics.IncCatalogSweep()

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	if got, err := fetchCounterValue(mfs, "upload_success", "kind", kind); err != nil {
		t.Fatalf("fetch success: %v", err)
	} else if got != 1 {
		t.Fatalf("expected success=1, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "upload_failure", "stage", "metadata_commit"); err != nil {
		t.Fatalf("fetch failure: %v", err)
	} else if got != 1 {
		t.Fatalf("expected failure=1, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "upload_compensation_failure", "kind", kind); err != nil {
		t.Fatalf("fetch compensation: %v", err)
	} else if got != 1 {
		t.Fatalf("expected compensation=1, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "access_control_actions", "action", "suspend"); err != nil {
		t.Fatalf("fetch actions: %v", err)
	} else if got != 1 {
		t.Fatalf("expected actions=1, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "access_checks_resolved", "outcome", "denied"); err != nil {
		t.Fatalf("fetch checks: %v", err)
	} else if got != 1 {
		t.Fatalf("expected checks=1, got %f", got)
	}

	if got, err := fetchHistogramSum(mfs, "upload_duration_seconds", "kind", kind); err != nil {
		t.Fatalf("fetch duration: %v", err)
	} else if got <= 0 {
		t.Fatalf("expected duration sum > 0, got %f", got)
	}
}

func TestPipelineMetricsNilRegistererIsNoop(t *testing.T) {
	metrics := NewPipelineMetrics(nil)
	metrics.IncUploadSuccess("movie")
	metrics.IncUploadFailure("movie", "storage")
	metrics.IncCatalogSweep()
}

func fetchCounterValue(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), label, value) {
			return metric.GetCounter().GetValue(), nil
		}
	}
	return 0, fmt.Errorf("metric %q missing label %s=%s", name, label, value)
}

func fetchHistogramSum(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), label, value) {
			return metric.GetHistogram().GetSampleSum(), nil
		}
	}
	return 0, fmt.Errorf("histogram %q missing label %s=%s", name, label, value)
}

func findMetricFamily(mfs []*dto.MetricFamily, name string) *dto.MetricFamily {
	for _, mf := range mfs {
		if mf.GetName() == name {
			return mf
		}
	}
	return nil
}

func matchesLabel(labels []*dto.LabelPair, name, value string) bool {
	for _, label := range labels {
		if label.GetName() == name && label.GetValue() == value {
			return true
		}
	}
	return false
}

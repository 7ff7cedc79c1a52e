package metrics

import (
	"fmt"
	"io"
	"math"
	"net/http"
	"sort"
	"strings"
)

// PrometheusExporter exports metrics in Prometheus text format.
type PrometheusExporter struct {
	collector *Collector
	namespace string
}

// NewPrometheusExporter creates a new Prometheus exporter for the given
// collector. The namespace is prepended to all metric names (e.g., "vaulted").
func NewPrometheusExporter(c *Collector, namespace string) *PrometheusExporter {
	return &PrometheusExporter{
		collector: c,
		namespace: namespace,
	}
}

// Handler returns an http.Handler that serves Prometheus metrics.
func (e *PrometheusExporter) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; version=0.0.4; charset=utf-8")
		e.WriteMetrics(w)
	})
}

// WriteMetrics writes all metrics in Prometheus text format to the writer.
func (e *PrometheusExporter) WriteMetrics(w io.Writer) {
	snap := e.collector.Snapshot()
	labels := e.formatLabels(snap.Labels)

	// --- Store metrics ---
	e.writeHelp(w, "stores_total", "Total store operations attempted")
	e.writeType(w, "stores_total", "counter")
	e.writeMetric(w, "stores_total", labels, float64(snap.StoresTotal))

	e.writeHelp(w, "stores_failed_total", "Total store operations that failed")
	e.writeType(w, "stores_failed_total", "counter")
	e.writeMetric(w, "stores_failed_total", labels, float64(snap.StoresFailed))

	e.writeHelp(w, "bytes_stored_total", "Total plaintext bytes stored")
	e.writeType(w, "bytes_stored_total", "counter")
	e.writeMetric(w, "bytes_stored_total", labels, float64(snap.BytesStored))

	// --- Restore metrics ---
	e.writeHelp(w, "restores_total", "Total restore operations attempted")
	e.writeType(w, "restores_total", "counter")
	e.writeMetric(w, "restores_total", labels, float64(snap.RestoresTotal))

	e.writeHelp(w, "restores_failed_total", "Total restore operations that failed")
	e.writeType(w, "restores_failed_total", "counter")
	e.writeMetric(w, "restores_failed_total", labels, float64(snap.RestoresFailed))

	e.writeHelp(w, "bytes_restored_total", "Total plaintext bytes restored")
	e.writeType(w, "bytes_restored_total", "counter")
	e.writeMetric(w, "bytes_restored_total", labels, float64(snap.BytesRestored))

	// --- Security metrics ---
	e.writeHelp(w, "auth_failures_total", "Total frames that failed AEAD authentication")
	e.writeType(w, "auth_failures_total", "counter")
	e.writeMetric(w, "auth_failures_total", labels, float64(snap.AuthFailures))

	// --- Lifecycle metrics ---
	e.writeHelp(w, "vaults_nuked_total", "Total vault purges")
	e.writeType(w, "vaults_nuked_total", "counter")
	e.writeMetric(w, "vaults_nuked_total", labels, float64(snap.VaultsNuked))

	e.writeHelp(w, "uptime_seconds", "Collector uptime in seconds")
	e.writeType(w, "uptime_seconds", "gauge")
	e.writeMetric(w, "uptime_seconds", labels, snap.Uptime.Seconds())

	// --- Latency histograms ---
	e.writeHistogram(w, "store_duration_milliseconds", "Store operation duration", labels, snap.StoreLatency)
	e.writeHistogram(w, "restore_duration_milliseconds", "Restore operation duration", labels, snap.RestoreLatency)
}

func (e *PrometheusExporter) name(metric string) string {
	if e.namespace == "" {
		return metric
	}
	return e.namespace + "_" + metric
}

func (e *PrometheusExporter) writeHelp(w io.Writer, metric, help string) {
	fmt.Fprintf(w, "# HELP %s %s\n", e.name(metric), help)
}

func (e *PrometheusExporter) writeType(w io.Writer, metric, typ string) {
	fmt.Fprintf(w, "# TYPE %s %s\n", e.name(metric), typ)
}

func (e *PrometheusExporter) writeMetric(w io.Writer, metric, labels string, value float64) {
	fmt.Fprintf(w, "%s%s %s\n", e.name(metric), labels, formatValue(value))
}

func (e *PrometheusExporter) writeHistogram(w io.Writer, metric, help, labels string, s HistogramSummary) {
	e.writeHelp(w, metric, help)
	e.writeType(w, metric, "histogram")

	for _, b := range s.Buckets {
		le := formatValue(b.UpperBound)
		bucketLabels := mergeLabels(labels, fmt.Sprintf(`le="%s"`, le))
		fmt.Fprintf(w, "%s_bucket%s %d\n", e.name(metric), bucketLabels, b.Count)
	}
	fmt.Fprintf(w, "%s_sum%s %s\n", e.name(metric), labels, formatValue(s.Sum))
	fmt.Fprintf(w, "%s_count%s %d\n", e.name(metric), labels, s.Count)
}

func (e *PrometheusExporter) formatLabels(labels Labels) string {
	if len(labels) == 0 {
		return ""
	}

	keys := make([]string, 0, len(labels))
	for k := range labels {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, fmt.Sprintf(`%s="%s"`, k, labels[k]))
	}
	return "{" + strings.Join(pairs, ",") + "}"
}

func mergeLabels(existing, extra string) string {
	if existing == "" {
		return "{" + extra + "}"
	}
	return strings.TrimSuffix(existing, "}") + "," + extra + "}"
}

func formatValue(v float64) string {
	if math.IsInf(v, 1) {
		return "+Inf"
	}
	return fmt.Sprintf("%g", v)
}

// Package metrics provides observability primitives for the Vaulted library.
//
// The package includes:
//   - Operation counters (Collector) and the Histogram type for vault operations
//   - Prometheus-compatible metrics export
//   - OpenTelemetry tracing support (build tag "otel")
package metrics

import (
	"sync/atomic"
	"time"
)

// Collector aggregates metrics from vault operations.
type Collector struct {
	// Store metrics
	storesTotal  atomic.Uint64
	storesFailed atomic.Uint64
	bytesStored  atomic.Uint64

	// Restore metrics
	restoresTotal  atomic.Uint64
	restoresFailed atomic.Uint64
	bytesRestored  atomic.Uint64

	// Security metrics
	authFailures atomic.Uint64

	// Lifecycle metrics
	vaultsNuked atomic.Uint64

	// Performance histograms
	storeLatency   *Histogram
	restoreLatency *Histogram

	// Creation time for uptime tracking
	createdAt time.Time

	// Labels for this collector instance
	labels Labels
}

// Labels represents key-value pairs for metric labeling.
type Labels map[string]string

// NewCollector creates a new metrics collector.
func NewCollector(labels Labels) *Collector {
	if labels == nil {
		labels = make(Labels)
	}

	return &Collector{
		storeLatency:   NewHistogram(OperationLatencyBuckets),
		restoreLatency: NewHistogram(OperationLatencyBuckets),
		createdAt:      time.Now(),
		labels:         labels,
	}
}

// OperationLatencyBuckets covers store/restore durations (milliseconds).
var OperationLatencyBuckets = []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 5000}

// StoreCompleted records a successful store of n plaintext bytes.
func (c *Collector) StoreCompleted(n uint64, d time.Duration) {
	c.storesTotal.Add(1)
	c.bytesStored.Add(n)
	c.storeLatency.Observe(float64(d.Milliseconds()))
}

// StoreFailed records a failed store.
func (c *Collector) StoreFailed() {
	c.storesTotal.Add(1)
	c.storesFailed.Add(1)
}

// RestoreCompleted records a successful restore of n plaintext bytes.
func (c *Collector) RestoreCompleted(n uint64, d time.Duration) {
	c.restoresTotal.Add(1)
	c.bytesRestored.Add(n)
	c.restoreLatency.Observe(float64(d.Milliseconds()))
}

// RestoreFailed records a failed restore.
func (c *Collector) RestoreFailed() {
	c.restoresTotal.Add(1)
	c.restoresFailed.Add(1)
}

// AuthFailure records a frame that failed AEAD authentication.
func (c *Collector) AuthFailure() {
	c.authFailures.Add(1)
}

// VaultNuked records a vault purge.
func (c *Collector) VaultNuked() {
	c.vaultsNuked.Add(1)
}

// Snapshot is a point-in-time copy of all collector values.
type Snapshot struct {
	StoresTotal    uint64
	StoresFailed   uint64
	BytesStored    uint64
	RestoresTotal  uint64
	RestoresFailed uint64
	BytesRestored  uint64
	AuthFailures   uint64
	VaultsNuked    uint64
	StoreLatency   HistogramSummary
	RestoreLatency HistogramSummary
	Uptime         time.Duration
	Labels         Labels
}

// Snapshot returns the current metric values. Each value is read atomically
// on its own; the set as a whole is not read under a single lock.
func (c *Collector) Snapshot() Snapshot {
	return Snapshot{
		StoresTotal:    c.storesTotal.Load(),
		StoresFailed:   c.storesFailed.Load(),
		BytesStored:    c.bytesStored.Load(),
		RestoresTotal:  c.restoresTotal.Load(),
		RestoresFailed: c.restoresFailed.Load(),
		BytesRestored:  c.bytesRestored.Load(),
		AuthFailures:   c.authFailures.Load(),
		VaultsNuked:    c.vaultsNuked.Load(),
		StoreLatency:   c.storeLatency.Summary(),
		RestoreLatency: c.restoreLatency.Summary(),
		Uptime:         time.Since(c.createdAt),
		Labels:         c.labels,
	}
}

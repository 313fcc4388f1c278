// metrics.go provides Prometheus metrics collection for the async queue.

package async

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// QueueMetrics tracks queue activity and syncs with Prometheus.
type QueueMetrics struct {
	queue     string
	enqueued  int64
	dropped   int64
	delivered int64
	failed    int64
	mu        sync.RWMutex
}

// NewQueueMetrics creates a metrics collector for the named queue.
func NewQueueMetrics(queue string) *QueueMetrics {
	return &QueueMetrics{queue: queue}
}

// RecordEnqueued records an event accepted into the queue.
func (qm *QueueMetrics) RecordEnqueued() {
	qm.mu.Lock()
	qm.enqueued++
	qm.mu.Unlock()
	eventsEnqueued.WithLabelValues(qm.queue).Inc()
}

// RecordDropped records events discarded due to queue overflow.
func (qm *QueueMetrics) RecordDropped(count int) {
	qm.mu.Lock()
	qm.dropped += int64(count)
	qm.mu.Unlock()
	eventsDropped.WithLabelValues(qm.queue).Add(float64(count))
}

// RecordDelivered records an event the inner sink accepted.
func (qm *QueueMetrics) RecordDelivered() {
	qm.mu.Lock()
	qm.delivered++
	qm.mu.Unlock()
	eventsDelivered.WithLabelValues(qm.queue).Inc()
}

// RecordFailed records an event the inner sink rejected.
func (qm *QueueMetrics) RecordFailed() {
	qm.mu.Lock()
	qm.failed++
	qm.mu.Unlock()
	eventsFailed.WithLabelValues(qm.queue).Inc()
}

// RecordDepth updates the current queue depth gauge.
func (qm *QueueMetrics) RecordDepth(depth int) {
	queueDepth.WithLabelValues(qm.queue).Set(float64(depth))
}

// GetSnapshot returns a snapshot of current counts.
func (qm *QueueMetrics) GetSnapshot() map[string]int64 {
	qm.mu.RLock()
	defer qm.mu.RUnlock()
	return map[string]int64{
		"enqueued":  qm.enqueued,
		"dropped":   qm.dropped,
		"delivered": qm.delivered,
		"failed":    qm.failed,
	}
}

var (
	// Counter metrics
	eventsEnqueued = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "unisen_queue_enqueued_total",
			Help: "Total number of crash events accepted into the queue",
		},
		[]string{"queue"},
	)

	eventsDropped = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "unisen_queue_dropped_total",
			Help: "Total number of crash events dropped due to queue overflow",
		},
		[]string{"queue"},
	)

	eventsDelivered = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "unisen_queue_delivered_total",
			Help: "Total number of crash events the inner sink accepted",
		},
		[]string{"queue"},
	)

	eventsFailed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "unisen_queue_failed_total",
			Help: "Total number of crash events the inner sink rejected",
		},
		[]string{"queue"},
	)

	// Gauge metrics
	queueDepth = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "unisen_queue_depth",
			Help: "Current number of crash events waiting in the queue",
		},
		[]string{"queue"},
	)
)

package metrics

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
)

var (
	evaluationsAssignedTotal atomic.Uint64
	evaluationsAdvancedTotal atomic.Uint64
	evaluationsMissedTotal   atomic.Uint64
	reconcileRepairsTotal    atomic.Uint64
	notificationsSentTotal   atomic.Uint64
	notificationsFailedTotal atomic.Uint64
	mcqSubmissionsTotal      atomic.Uint64

	reconcileDuration = newHistogram([]float64{5, 10, 25, 50, 100, 250, 500, 1000, 5000})
)

// IncEvaluationsAssigned increments the assigned-evaluations counter.
func IncEvaluationsAssigned() {
	evaluationsAssignedTotal.Add(1)
}

// IncEvaluationsAdvanced increments the next-round-progression counter.
func IncEvaluationsAdvanced() {
	evaluationsAdvancedTotal.Add(1)
}

// IncEvaluationsMissed increments the missed-derivation counter.
func IncEvaluationsMissed() {
	evaluationsMissedTotal.Add(1)
}

// IncReconcileRepairs increments the missing-evaluation repair counter.
func IncReconcileRepairs() {
	reconcileRepairsTotal.Add(1)
}

// IncNotificationsSent increments the sent-notifications counter.
func IncNotificationsSent() {
	notificationsSentTotal.Add(1)
}

// IncNotificationsFailed increments the failed-notifications counter.
func IncNotificationsFailed() {
	notificationsFailedTotal.Add(1)
}

// IncMCQSubmissions increments the MCQ submission counter.
func IncMCQSubmissions() {
	mcqSubmissionsTotal.Add(1)
}

// ObserveReconcileDurationMs records a reconciliation pass duration in milliseconds.
func ObserveReconcileDurationMs(value float64) {
	if value < 0 {
		value = 0
	}
	reconcileDuration.Observe(value)
}

// Handler exposes metrics in Prometheus text format.
func Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Content-Type", "text/plain; version=0.0.4")
		c.String(http.StatusOK, Render())
	}
}

// Render renders metrics in Prometheus text format.
func Render() string {
	var buf bytes.Buffer
	writeCounter(&buf, "evaluations_assigned_total", "Total evaluations assigned", evaluationsAssignedTotal.Load())
	writeCounter(&buf, "evaluations_advanced_total", "Total next-round progressions", evaluationsAdvancedTotal.Load())
	writeCounter(&buf, "evaluations_missed_total", "Total evaluations derived missed", evaluationsMissedTotal.Load())
	writeCounter(&buf, "reconcile_repairs_total", "Total missing evaluations repaired", reconcileRepairsTotal.Load())
	writeCounter(&buf, "notifications_sent_total", "Total notifications dispatched", notificationsSentTotal.Load())
	writeCounter(&buf, "notifications_failed_total", "Total notification dispatch failures", notificationsFailedTotal.Load())
	writeCounter(&buf, "mcq_submissions_total", "Total MCQ submissions scored", mcqSubmissionsTotal.Load())
	writeHistogram(&buf, "reconcile_duration_ms", "Reconciliation pass duration in milliseconds", reconcileDuration.Snapshot())
	return buf.String()
}

type histogram struct {
	mu      sync.Mutex
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

type histogramSnapshot struct {
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

func newHistogram(buckets []float64) *histogram {
	return &histogram{
		buckets: buckets,
		counts:  make([]uint64, len(buckets)),
	}
}

func (h *histogram) Observe(value float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.count++
	h.sum += value
	for i, bound := range h.buckets {
		if value <= bound {
			h.counts[i]++
		}
	}
}

func (h *histogram) Snapshot() histogramSnapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := histogramSnapshot{
		buckets: append([]float64(nil), h.buckets...),
		counts:  append([]uint64(nil), h.counts...),
		sum:     h.sum,
		count:   h.count,
	}
	return out
}

func writeCounter(buf *bytes.Buffer, name, help string, value uint64) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s counter\n", name)
	fmt.Fprintf(buf, "%s %d\n", name, value)
}

func writeHistogram(buf *bytes.Buffer, name, help string, snap histogramSnapshot) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s histogram\n", name)
	var cumulative uint64
	for i, bound := range snap.buckets {
		cumulative += snap.counts[i]
		fmt.Fprintf(buf, "%s_bucket{le=\"%s\"} %d\n", name, formatFloat(bound), cumulative)
	}
	fmt.Fprintf(buf, "%s_bucket{le=\"+Inf\"} %d\n", name, snap.count)
	fmt.Fprintf(buf, "%s_sum %s\n", name, formatFloat(snap.sum))
	fmt.Fprintf(buf, "%s_count %d\n", name, snap.count)
}

func formatFloat(value float64) string {
	if value == float64(int64(value)) {
		return strconv.FormatInt(int64(value), 10)
	}
	return strconv.FormatFloat(value, 'f', -1, 64)
}

// NowMillis returns current time in milliseconds, useful for callers without time utilities.
func NowMillis() float64 {
	return float64(time.Now().UnixNano()) / float64(time.Millisecond)
}

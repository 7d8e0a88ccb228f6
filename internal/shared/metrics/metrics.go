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
	imageUploadStartedTotal   atomic.Uint64
	imageUploadCompletedTotal atomic.Uint64
	imageUploadFailedTotal    atomic.Uint64
	assetCleanupFailedTotal   atomic.Uint64

	imageUploadBytes = newHistogram([]float64{1 << 10, 16 << 10, 64 << 10, 256 << 10, 1 << 20, 2 << 20, 5 << 20})
)

// IncImageUploadStarted increments the started counter.
func IncImageUploadStarted() {
	imageUploadStartedTotal.Add(1)
}

// IncImageUploadCompleted increments the completed counter.
func IncImageUploadCompleted() {
	imageUploadCompletedTotal.Add(1)
}

// IncImageUploadFailed increments the failed counter.
func IncImageUploadFailed() {
	imageUploadFailedTotal.Add(1)
}

// IncAssetCleanupFailed counts best-effort deletes of replaced assets that failed.
func IncAssetCleanupFailed() {
	assetCleanupFailedTotal.Add(1)
}

// ObserveImageUploadBytes records the size of a committed upload.
func ObserveImageUploadBytes(value float64) {
	if value < 0 {
		value = 0
	}
	imageUploadBytes.Observe(value)
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
	writeCounter(&buf, "image_upload_started_total", "Total profile image uploads started", imageUploadStartedTotal.Load())
	writeCounter(&buf, "image_upload_completed_total", "Total profile image uploads completed", imageUploadCompletedTotal.Load())
	writeCounter(&buf, "image_upload_failed_total", "Total profile image uploads failed", imageUploadFailedTotal.Load())
	writeCounter(&buf, "asset_cleanup_failed_total", "Total best-effort asset deletes that failed", assetCleanupFailedTotal.Load())
	writeHistogram(&buf, "image_upload_bytes", "Committed profile image size in bytes", imageUploadBytes.Snapshot())
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
			break
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

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
	exportTotal             atomic.Uint64
	exportFailedTotal       atomic.Uint64
	exportUploadFailedTotal atomic.Uint64
	exportRecordedTotal     atomic.Uint64

	summaryRequestsTotal     atomic.Uint64
	summaryModelLoadingTotal atomic.Uint64
	summaryFailedTotal       atomic.Uint64

	draftPersistFailedTotal atomic.Uint64

	exportDuration  = newHistogram([]float64{50, 100, 250, 500, 1000, 2000, 5000, 10000})
	summaryDuration = newHistogram([]float64{250, 500, 1000, 2000, 5000, 10000, 30000, 60000})
)

// IncExport counts a rendered export, successful or not.
func IncExport() { exportTotal.Add(1) }

// IncExportFailed counts exports whose rendering failed.
func IncExportFailed() { exportFailedTotal.Add(1) }

// IncExportUploadFailed counts exports whose upload step failed.
func IncExportUploadFailed() { exportUploadFailedTotal.Add(1) }

// IncExportRecorded counts exports that produced a history record.
func IncExportRecorded() { exportRecordedTotal.Add(1) }

func IncSummaryRequest()      { summaryRequestsTotal.Add(1) }
func IncSummaryModelLoading() { summaryModelLoadingTotal.Add(1) }
func IncSummaryFailed()       { summaryFailedTotal.Add(1) }

// IncDraftPersistFailed counts draft writes that did not reach durable storage.
func IncDraftPersistFailed() { draftPersistFailedTotal.Add(1) }

// ObserveExportDurationMs records the time spent rendering and storing one export.
func ObserveExportDurationMs(value float64) {
	exportDuration.Observe(clamp(value))
}

// ObserveSummaryDurationMs records one upstream summary round trip.
func ObserveSummaryDurationMs(value float64) {
	summaryDuration.Observe(clamp(value))
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
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
	writeCounter(&buf, "resume_export_total", "Total PDF exports", exportTotal.Load())
	writeCounter(&buf, "resume_export_failed_total", "Exports that failed to render", exportFailedTotal.Load())
	writeCounter(&buf, "resume_export_upload_failed_total", "Exports whose upload failed", exportUploadFailedTotal.Load())
	writeCounter(&buf, "resume_export_recorded_total", "Exports recorded in history", exportRecordedTotal.Load())
	writeCounter(&buf, "summary_requests_total", "Summary proxy requests", summaryRequestsTotal.Load())
	writeCounter(&buf, "summary_model_loading_total", "Summary requests answered with model loading", summaryModelLoadingTotal.Load())
	writeCounter(&buf, "summary_failed_total", "Summary requests that failed", summaryFailedTotal.Load())
	writeCounter(&buf, "draft_persist_failed_total", "Draft writes that failed", draftPersistFailedTotal.Load())
	writeHistogram(&buf, "resume_export_duration_ms", "Export duration in milliseconds", exportDuration.Snapshot())
	writeHistogram(&buf, "summary_duration_ms", "Summary provider duration in milliseconds", summaryDuration.Snapshot())
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

// SinceMillis returns the elapsed milliseconds since start.
func SinceMillis(start time.Time) float64 {
	return float64(time.Since(start).Microseconds()) / 1000.0
}

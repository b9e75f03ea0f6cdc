package impl

import (
	"io"
	"log/slog"
	"sync"
)

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// recordingMetrics captures MetricsRecorder calls.
type recordingMetrics struct {
	mu        sync.Mutex
	syncs     []string
	merged    map[string]int
	refreshes []string
	upstream  []string
	replies   []string
}

func newRecordingMetrics() *recordingMetrics {
	return &recordingMetrics{merged: map[string]int{}}
}

func (m *recordingMetrics) SyncFinished(outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.syncs = append(m.syncs, outcome)
}

func (m *recordingMetrics) ReviewsMerged(action string, count int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.merged[action] += count
}

func (m *recordingMetrics) TokenRefreshed(outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.refreshes = append(m.refreshes, outcome)
}

func (m *recordingMetrics) UpstreamFailed(surface string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.upstream = append(m.upstream, surface)
}

func (m *recordingMetrics) ReplyChanged(action string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.replies = append(m.replies, action)
}

func strPtr(s string) *string {
	return &s
}

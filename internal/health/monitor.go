package health

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"
)

// Monitor tracks the outcome of score store operations so /health can
// report a degraded store before the database stops answering pings.
type Monitor struct {
	mu                   sync.RWMutex
	totalOps             int64
	failedOps            int64
	consecutiveFailures  int64
	lastFailureTime      time.Time
	lastSuccessTime      time.Time
	recentFailures       []FailureRecord
	maxRecentFailures    int
	failureThreshold     float64
	consecutiveThreshold int64
}

// FailureRecord is a single failed store operation
type FailureRecord struct {
	Timestamp time.Time `json:"timestamp"`
	Operation string    `json:"operation"`
	Category  string    `json:"category"`
}

// Status is a snapshot of store operation health
type Status struct {
	IsHealthy           bool            `json:"is_healthy"`
	TotalOperations     int64           `json:"total_operations"`
	FailedOperations    int64           `json:"failed_operations"`
	SuccessRate         float64         `json:"success_rate"`
	ConsecutiveFailures int64           `json:"consecutive_failures"`
	LastFailureTime     *time.Time      `json:"last_failure_time,omitempty"`
	LastSuccessTime     *time.Time      `json:"last_success_time,omitempty"`
	RecentFailures      []FailureRecord `json:"recent_failures"`
	Issues              []string        `json:"issues"`
}

// NewMonitor creates a monitor with the default thresholds
func NewMonitor() *Monitor {
	return &Monitor{
		maxRecentFailures:    20,
		failureThreshold:     0.2, // unhealthy above 20% failures
		consecutiveThreshold: 5,
		recentFailures:       make([]FailureRecord, 0, 20),
	}
}

// RecordSuccess records a successful store operation
func (m *Monitor) RecordSuccess(operation string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.totalOps++
	m.consecutiveFailures = 0
	m.lastSuccessTime = time.Now()
}

// RecordFailure records a failed store operation. Only the error category is
// kept; raw messages may carry connection details.
func (m *Monitor) RecordFailure(operation string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	m.totalOps++
	m.failedOps++
	m.consecutiveFailures++
	m.lastFailureTime = now

	m.recentFailures = append(m.recentFailures, FailureRecord{
		Timestamp: now,
		Operation: operation,
		Category:  categorizeError(err),
	})
	if len(m.recentFailures) > m.maxRecentFailures {
		m.recentFailures = m.recentFailures[1:]
	}
}

// Status returns the current health snapshot
func (m *Monitor) Status() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()

	status := Status{
		IsHealthy:           true,
		TotalOperations:     m.totalOps,
		FailedOperations:    m.failedOps,
		SuccessRate:         1.0,
		ConsecutiveFailures: m.consecutiveFailures,
		RecentFailures:      make([]FailureRecord, len(m.recentFailures)),
		Issues:              []string{},
	}
	copy(status.RecentFailures, m.recentFailures)

	if m.totalOps > 0 {
		status.SuccessRate = float64(m.totalOps-m.failedOps) / float64(m.totalOps)
	}
	if !m.lastFailureTime.IsZero() {
		t := m.lastFailureTime
		status.LastFailureTime = &t
	}
	if !m.lastSuccessTime.IsZero() {
		t := m.lastSuccessTime
		status.LastSuccessTime = &t
	}

	if m.totalOps >= 10 && status.SuccessRate < 1.0-m.failureThreshold {
		status.IsHealthy = false
		status.Issues = append(status.Issues, "High store failure rate (>20%)")
	}
	if m.consecutiveFailures >= m.consecutiveThreshold {
		status.IsHealthy = false
		status.Issues = append(status.Issues, "Multiple consecutive store failures")
	}

	return status
}

func categorizeError(err error) string {
	if err == nil {
		return "other"
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "timeout"
	}
	if errors.Is(err, context.Canceled) {
		return "canceled"
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "timeout"):
		return "timeout"
	case strings.Contains(msg, "connection") || strings.Contains(msg, "dial") || strings.Contains(msg, "no such host"):
		return "network"
	case strings.Contains(msg, "out of range") || strings.Contains(msg, "violates"):
		return "constraint"
	case strings.Contains(msg, "does not exist"):
		return "schema"
	}
	return "other"
}

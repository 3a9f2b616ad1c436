package observability

import (
	"strconv"
	"sync"
	"time"
)

// Metrics provides basic in-memory counters.
type Metrics struct {
	mu            sync.Mutex
	requestCount  map[string]int64
	errorCount    map[string]int64
	notifications map[string]int64
	transitions   map[string]int64
	activity      map[string]int64
}

// NewMetrics initializes metrics storage.
func NewMetrics() *Metrics {
	return &Metrics{
		requestCount:  make(map[string]int64),
		errorCount:    make(map[string]int64),
		notifications: make(map[string]int64),
		transitions:   make(map[string]int64),
		activity:      make(map[string]int64),
	}
}

// RecordRequest increments counters for requests.
func (m *Metrics) RecordRequest(path, method string, status int, _ time.Duration) {
	if m == nil {
		return
	}
	m.inc(m.requestCount, path+"|"+method+"|"+strconv.Itoa(status))
}

// RecordError increments error counters.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	m.inc(m.errorCount, path+"|"+method+"|"+code)
}

// RecordNotification counts notification outcomes: queued, dropped, sent, failed.
func (m *Metrics) RecordNotification(outcome string) {
	if m == nil {
		return
	}
	m.inc(m.notifications, outcome)
}

// RecordTransition counts pipeline moves into a status.
func (m *Metrics) RecordTransition(status string) {
	if m == nil {
		return
	}
	m.inc(m.transitions, status)
}

// RecordActivity counts audited domain events by type.
func (m *Metrics) RecordActivity(eventType string) {
	if m == nil {
		return
	}
	m.inc(m.activity, eventType)
}

// Snapshot is a point-in-time copy of every counter.
type Snapshot struct {
	Requests      map[string]int64 `json:"requests"`
	Errors        map[string]int64 `json:"errors"`
	Notifications map[string]int64 `json:"notifications"`
	Transitions   map[string]int64 `json:"transitions"`
	Activity      map[string]int64 `json:"activity"`
}

// Snapshot copies the counters.
func (m *Metrics) Snapshot() Snapshot {
	if m == nil {
		return Snapshot{}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return Snapshot{
		Requests:      copyCounts(m.requestCount),
		Errors:        copyCounts(m.errorCount),
		Notifications: copyCounts(m.notifications),
		Transitions:   copyCounts(m.transitions),
		Activity:      copyCounts(m.activity),
	}
}

func (m *Metrics) inc(counts map[string]int64, key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	counts[key]++
}

func copyCounts(src map[string]int64) map[string]int64 {
	out := make(map[string]int64, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}

// Package state provides thread-safe state management for the application.
package state

import (
	"sync"
	"time"

	"github.com/litescript/ls-cluster/internal/cluster"
	"github.com/litescript/ls-cluster/internal/scene"
)

// EventType represents the type of state change event.
type EventType string

const (
	EventLoaded           EventType = "LOADED"
	EventReloaded         EventType = "RELOADED"
	EventLoadFailed       EventType = "LOAD_FAILED"
	EventUnrecognizedRows EventType = "UNRECOGNIZED_ROWS"
)

// Event represents a change in the loaded cluster.
type Event struct {
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Source    string    `json:"source"`
	Stars     int       `json:"stars,omitempty"`
	Delta     int       `json:"delta,omitempty"`
	Message   string    `json:"message,omitempty"`
}

// HistoryEntry is one successful load.
type HistoryEntry struct {
	Timestamp time.Time
	Counts    map[cluster.Category]int
	Total     int
}

// Manager handles all shared application state with thread-safe access.
type Manager struct {
	mu sync.RWMutex

	// Current state
	cluster      *cluster.Cluster
	buckets      cluster.Buckets
	summary      cluster.Summary
	scene        *scene.Scene
	plan         scene.Plan
	lastLoad     time.Time
	lastError    error
	loadDuration time.Duration
	loads        int

	history       []HistoryEntry
	maxHistoryLen int

	// Event log (ring buffer)
	events       []Event
	maxEvents    int
	eventWriteAt int

	maxBatchSize int
}

// Config holds configuration for the state manager.
type Config struct {
	MaxHistoryLen int
	MaxEvents     int
	MaxBatchSize  int
}

// DefaultConfig returns sensible default configuration.
func DefaultConfig() Config {
	return Config{
		MaxHistoryLen: 60,
		MaxEvents:     50,
		MaxBatchSize:  cluster.MaxParticlesPerSystem,
	}
}

// NewManager creates a new state manager.
func NewManager(cfg Config) *Manager {
	maxEvents := cfg.MaxEvents
	if maxEvents <= 0 {
		maxEvents = 50
	}
	maxBatch := cfg.MaxBatchSize
	if maxBatch <= 0 {
		maxBatch = cluster.MaxParticlesPerSystem
	}
	return &Manager{
		maxHistoryLen: cfg.MaxHistoryLen,
		maxEvents:     maxEvents,
		events:        make([]Event, 0, maxEvents),
		maxBatchSize:  maxBatch,
	}
}

// Update records the outcome of a load. On failure the previous snapshot is
// kept and only the error is recorded.
func (m *Manager) Update(res cluster.LoadResult, sc *scene.Scene, plan scene.Plan) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := res.LoadedAt
	if now.IsZero() {
		now = time.Now()
	}

	m.lastLoad = now
	m.lastError = res.Error
	m.loadDuration = res.Duration

	if res.Error != nil || res.Cluster == nil {
		msg := "no data"
		if res.Error != nil {
			msg = res.Error.Error()
		}
		m.addEvent(Event{
			Type:      EventLoadFailed,
			Timestamp: now,
			Source:    m.source(),
			Message:   msg,
		})
		return
	}

	m.detectEvents(res, now)

	m.cluster = res.Cluster
	m.buckets = res.Buckets
	m.summary = cluster.Summarize(res.Cluster, res.Buckets, m.maxBatchSize)
	m.scene = sc
	m.plan = plan
	m.loads++

	entry := HistoryEntry{
		Timestamp: now,
		Counts:    make(map[cluster.Category]int, len(cluster.Categories)),
		Total:     len(res.Cluster.Stars),
	}
	for _, c := range cluster.Categories {
		entry.Counts[c] = len(res.Buckets.Get(c))
	}
	m.history = append(m.history, entry)
	if m.maxHistoryLen > 0 && len(m.history) > m.maxHistoryLen {
		m.history = m.history[1:]
	}
}

func (m *Manager) source() string {
	if m.cluster == nil {
		return ""
	}
	return m.cluster.Source
}

// detectEvents compares a new load with the current one and generates events.
func (m *Manager) detectEvents(res cluster.LoadResult, now time.Time) {
	stars := len(res.Cluster.Stars)

	if m.cluster == nil {
		m.addEvent(Event{
			Type:      EventLoaded,
			Timestamp: now,
			Source:    res.Cluster.Source,
			Stars:     stars,
		})
	} else {
		m.addEvent(Event{
			Type:      EventReloaded,
			Timestamp: now,
			Source:    res.Cluster.Source,
			Stars:     stars,
			Delta:     stars - len(m.cluster.Stars),
		})
	}

	if n := res.Buckets.UnrecognizedCount(); n > 0 {
		m.addEvent(Event{
			Type:      EventUnrecognizedRows,
			Timestamp: now,
			Source:    res.Cluster.Source,
			Stars:     n,
		})
	}
}

// addEvent adds an event to the ring buffer.
func (m *Manager) addEvent(e Event) {
	if len(m.events) < m.maxEvents {
		m.events = append(m.events, e)
	} else {
		m.events[m.eventWriteAt] = e
		m.eventWriteAt = (m.eventWriteAt + 1) % m.maxEvents
	}
}

// Snapshot represents an immutable snapshot of current state.
type Snapshot struct {
	Cluster      *cluster.Cluster
	Buckets      cluster.Buckets
	Summary      cluster.Summary
	Scene        *scene.Scene
	Plan         scene.Plan
	LastLoad     time.Time
	LastError    error
	LoadDuration time.Duration
	Loads        int
	History      []HistoryEntry
	Events       []Event
}

// Snapshot returns a consistent snapshot of current state.
func (m *Manager) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	hist := make([]HistoryEntry, len(m.history))
	copy(hist, m.history)

	plan := m.plan
	plan.Containers = append([]scene.ContainerPlan(nil), m.plan.Containers...)

	return Snapshot{
		Cluster:      m.cluster,
		Buckets:      m.buckets,
		Summary:      m.summary,
		Scene:        m.scene,
		Plan:         plan,
		LastLoad:     m.lastLoad,
		LastError:    m.lastError,
		LoadDuration: m.loadDuration,
		Loads:        m.loads,
		History:      hist,
		Events:       m.getEventsOrdered(),
	}
}

// getEventsOrdered returns events in chronological order.
func (m *Manager) getEventsOrdered() []Event {
	if len(m.events) == 0 {
		return nil
	}

	// If buffer isn't full yet, just copy
	if len(m.events) < m.maxEvents {
		result := make([]Event, len(m.events))
		copy(result, m.events)
		return result
	}

	// Ring buffer is full, reorder from oldest to newest
	result := make([]Event, m.maxEvents)
	for i := 0; i < m.maxEvents; i++ {
		idx := (m.eventWriteAt + i) % m.maxEvents
		result[i] = m.events[idx]
	}
	return result
}

// RecentEvents returns the last n events.
func (m *Manager) RecentEvents(n int) []Event {
	m.mu.RLock()
	defer m.mu.RUnlock()

	all := m.getEventsOrdered()
	if len(all) <= n {
		return all
	}
	return all[len(all)-n:]
}

// CountHistory returns the per-load star counts of one category, oldest
// first.
func (s Snapshot) CountHistory(c cluster.Category) []int {
	out := make([]int, len(s.History))
	for i, h := range s.History {
		out[i] = h.Counts[c]
	}
	return out
}

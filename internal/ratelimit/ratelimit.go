package ratelimit

import (
	"sync"
	"time"
)

// Limiter gates login attempts per source key. Implementations decide the
// window semantics; handlers only ask whether an attempt may proceed.
type Limiter interface {
	Allow(key string) bool
}

const (
	defaultWindow = time.Minute
	defaultMax    = 5
)

type entry struct {
	count   int
	resetAt time.Time
}

// Memory is a process-local fixed-window limiter. It does not survive
// restarts and does not coordinate across instances.
type Memory struct {
	mu      sync.Mutex
	entries map[string]*entry
	window  time.Duration
	max     int
	now     func() time.Time
}

// NewMemory constructs a Memory limiter with a 60-second window of 5 attempts.
func NewMemory() *Memory {
	return &Memory{
		entries: make(map[string]*entry),
		window:  defaultWindow,
		max:     defaultMax,
		now:     time.Now,
	}
}

// Allow records an attempt for key and reports whether it may proceed.
// Attempts past the limit still count toward the active window.
func (m *Memory) Allow(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	e, ok := m.entries[key]
	if !ok || now.After(e.resetAt) {
		m.entries[key] = &entry{count: 1, resetAt: now.Add(m.window)}
		return true
	}

	e.count++
	return e.count <= m.max
}

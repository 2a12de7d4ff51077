// Package memory implements the bounded conversation log each agent keeps
// between tasks. Retention and exposure are separate concerns: the log holds
// the last DefaultCapacity entries for audit, while callers usually show the
// model a smaller recent window.
package memory

import (
	"sync"
	"time"

	contractx "github.com/preflightai/preflight/agent/contract"
)

const (
	// DefaultCapacity is the retention cap on stored entries.
	DefaultCapacity = 10
	// DefaultWindow is how many entries agents expose to the model per call.
	DefaultWindow = 5
)

// Memory is an append-only, FIFO-evicting conversation log.
// Safe for concurrent use.
type Memory struct {
	entries  []contractx.MemoryEntry
	capacity int
	now      func() time.Time
	mtx      sync.RWMutex
}

func New(capacity int) *Memory {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Memory{
		entries:  make([]contractx.MemoryEntry, 0, capacity+1),
		capacity: capacity,
		now:      time.Now,
	}
}

// Append timestamps and stores an entry, evicting the oldest entries once
// the capacity is exceeded.
func (m *Memory) Append(role contractx.MessageRole, content string) {
	m.mtx.Lock()
	defer m.mtx.Unlock()

	m.entries = append(m.entries, contractx.MemoryEntry{
		Role:      role,
		Content:   content,
		Timestamp: m.now().UTC(),
	})
	if overflow := len(m.entries) - m.capacity; overflow > 0 {
		m.entries = m.entries[overflow:]
	}
}

// Recent returns up to k most-recently-appended entries in insertion order.
func (m *Memory) Recent(k int) []contractx.MemoryEntry {
	m.mtx.RLock()
	defer m.mtx.RUnlock()

	if k <= 0 {
		return nil
	}
	start := len(m.entries) - k
	if start < 0 {
		start = 0
	}
	out := make([]contractx.MemoryEntry, len(m.entries)-start)
	copy(out, m.entries[start:])
	return out
}

func (m *Memory) Len() int {
	m.mtx.RLock()
	defer m.mtx.RUnlock()
	return len(m.entries)
}

func (m *Memory) Capacity() int {
	return m.capacity
}

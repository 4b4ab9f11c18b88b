package clock

import (
	"sync"
	"time"
)

// Clock is the time source used for expiry decisions.
type Clock interface {
	Now() time.Time
}

// Real reads the system clock in UTC.
type Real struct{}

func (Real) Now() time.Time {
	return time.Now().UTC()
}

// Mock is a settable clock for tests.
type Mock struct {
	mu      sync.Mutex
	current time.Time
}

func NewMock(t time.Time) *Mock {
	return &Mock{current: t}
}

func (m *Mock) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// Advance moves the clock forward by d.
func (m *Mock) Advance(d time.Duration) {
	m.mu.Lock()
	m.current = m.current.Add(d)
	m.mu.Unlock()
}

func (m *Mock) Set(t time.Time) {
	m.mu.Lock()
	m.current = t
	m.mu.Unlock()
}

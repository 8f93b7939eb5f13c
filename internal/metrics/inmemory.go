package metrics

import (
	"sync/atomic"
	"time"
)

// Snapshot captures current in-memory counters.
type Snapshot struct {
	UsersRegistered       uint64
	LoginsSucceeded       uint64
	LoginsFailed          uint64
	Logouts               uint64
	SessionCacheHits      uint64
	SessionCacheMisses    uint64
	ContactsCreated       uint64
	ContactsUpdated       uint64
	ContactsDeleted       uint64
	SearchDurationCount   uint64
	SearchDurationTotalNs int64
}

// InMemoryRecorder keeps counters in memory. It backs /metrics and tests.
type InMemoryRecorder struct {
	usersRegistered       atomic.Uint64
	loginsSucceeded       atomic.Uint64
	loginsFailed          atomic.Uint64
	logouts               atomic.Uint64
	sessionCacheHits      atomic.Uint64
	sessionCacheMisses    atomic.Uint64
	contactsCreated       atomic.Uint64
	contactsUpdated       atomic.Uint64
	contactsDeleted       atomic.Uint64
	searchDurationCount   atomic.Uint64
	searchDurationTotalNs atomic.Int64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	return Snapshot{
		UsersRegistered:       m.usersRegistered.Load(),
		LoginsSucceeded:       m.loginsSucceeded.Load(),
		LoginsFailed:          m.loginsFailed.Load(),
		Logouts:               m.logouts.Load(),
		SessionCacheHits:      m.sessionCacheHits.Load(),
		SessionCacheMisses:    m.sessionCacheMisses.Load(),
		ContactsCreated:       m.contactsCreated.Load(),
		ContactsUpdated:       m.contactsUpdated.Load(),
		ContactsDeleted:       m.contactsDeleted.Load(),
		SearchDurationCount:   m.searchDurationCount.Load(),
		SearchDurationTotalNs: m.searchDurationTotalNs.Load(),
	}
}

// IncUserRegistered increments the registration counter.
func (m *InMemoryRecorder) IncUserRegistered() {
	m.usersRegistered.Add(1)
}

// IncLogin increments the login counter for the given outcome.
func (m *InMemoryRecorder) IncLogin(status string) {
	if status == LoginSucceeded {
		m.loginsSucceeded.Add(1)
		return
	}
	m.loginsFailed.Add(1)
}

// IncLogout increments the logout counter.
func (m *InMemoryRecorder) IncLogout() {
	m.logouts.Add(1)
}

// IncSessionCacheHit increments cache hit counter.
func (m *InMemoryRecorder) IncSessionCacheHit() {
	m.sessionCacheHits.Add(1)
}

// IncSessionCacheMiss increments cache miss counter.
func (m *InMemoryRecorder) IncSessionCacheMiss() {
	m.sessionCacheMisses.Add(1)
}

// IncContactCreated increments contact created counter.
func (m *InMemoryRecorder) IncContactCreated() {
	m.contactsCreated.Add(1)
}

// IncContactUpdated increments contact updated counter.
func (m *InMemoryRecorder) IncContactUpdated() {
	m.contactsUpdated.Add(1)
}

// IncContactDeleted increments contact deleted counter.
func (m *InMemoryRecorder) IncContactDeleted() {
	m.contactsDeleted.Add(1)
}

// ObserveSearchDuration records contact search duration.
func (m *InMemoryRecorder) ObserveSearchDuration(duration time.Duration) {
	m.searchDurationCount.Add(1)
	m.searchDurationTotalNs.Add(duration.Nanoseconds())
}

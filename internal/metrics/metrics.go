// Package metrics provides lightweight hooks for instrumentation.
package metrics

import "time"

// Login outcomes passed to IncLogin.
const (
	LoginSucceeded = "success"
	LoginFailed    = "failed"
)

// Recorder captures metric events for the application.
// Implementations can expose these to Prometheus, StatsD, etc.
type Recorder interface {
	// Account metrics
	IncUserRegistered()
	IncLogin(status string) // status: "success" or "failed"
	IncLogout()

	// Session cache metrics
	IncSessionCacheHit()
	IncSessionCacheMiss()

	// Contact management metrics
	IncContactCreated()
	IncContactUpdated()
	IncContactDeleted()
	ObserveSearchDuration(duration time.Duration)
}

// Snapshotter exposes a snapshot of current metrics.
type Snapshotter interface {
	Snapshot() Snapshot
}

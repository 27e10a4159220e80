// Package session stores the live puzzle sessions for the service layer.
//
// Responsibilities:
//   - In-memory registry mapping session IDs to service.Session values
//   - Collision-checked ID generation from crypto/rand
//   - Last-access tracking and age-based expiry
//   - Safe concurrent access from HTTP handlers and background routines
//
// Core Types:
//
// Manager is the registry. Each stored service.Session owns its puzzle
// engine instance plus metadata like creation time and last access time.
//
// Session Identifiers:
//
// IDs are 4 hex characters, short enough to read over the phone. Generation
// retries on collision, creation rejects duplicates with
// ErrSessionAlreadyExists, and all lookups fold the ID to lower case first.
//
// Concurrency:
//
// A single RWMutex guards the map. Reads (Get, List, Count) take the read
// lock; Create, Delete, and cleanup take the write lock. Callers receive the
// stored *service.Session and coordinate engine access at the service layer.
//
// Usage:
//
//	manager := session.NewManager()
//
//	sess, err := manager.Create("", config)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	sess, err = manager.Get(sess.ID)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	removed := manager.CleanupExpiredSessions(24 * time.Hour)
//
// Lifecycle:
//
// Sessions live only in memory; nothing survives a process restart. Deleting
// or expiring a session releases its heartbeat clock and any pending
// celebration reset so no timer outlives its session.
package session

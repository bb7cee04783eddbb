// Package session maps opaque session ids to user ids.
//
// The pieces compose instead of inheriting from each other:
//
//	Table       in-memory map guarded by a RWMutex, the source of ids
//	Expiring    wraps any Store and rejects sessions older than a TTL
//	Persistent  wraps an *Expiring and mirrors every session in a
//	            RecordStore so other processes can validate it
//
// Expiration is passive: nothing sweeps the table, an expired entry is
// evicted only when someone tries to use it (or destroys it).
//
// Every failure is reported as a typed error (SessionNotFound,
// ExpiredSession, MissingUserID); the auth package turns those into a
// plain "no user" answer at the HTTP boundary.
package session

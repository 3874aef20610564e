// Package lrepo implements repository.IConcertRepository in memory.
//
// The repository keeps a plain map from id to record and a creation counter.
// Both are only touched while holding a single mutex, so operations are fully
// serialized: two concurrent creates never receive the same id, and List or
// Clear never observe a half-applied mutation. The mutex is held only for the
// in-memory work, no I/O happens inside the critical section.
//
// Each stored concert is wrapped in a record whose id is fixed when the
// record is created. Concerts handed out by the repository are copies.
package lrepo

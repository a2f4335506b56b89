package lib

import "sync"

// Per-establishment mutex arena. Queue mutations for one establishment are
// read-modify-write sequences over its waiting list, so they must be
// serialized; operations on different establishments must not contend.
// Locks are created lazily on first use and reused for the lifetime of the
// process. Entries are never evicted: the arena holds one mutex per
// establishment ever touched, which stays small.
var establishmentLocks sync.Map

func EstablishmentLock(establishmentID uint) *sync.Mutex {
	value, _ := establishmentLocks.LoadOrStore(establishmentID, &sync.Mutex{})
	return value.(*sync.Mutex)
}

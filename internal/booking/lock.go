package booking

import "sync"

// roomLocks serializes the read-check-write sequence per room, so two
// concurrent bookings against the same room cannot both pass the
// availability check. Locks for distinct rooms are independent.
type roomLocks struct {
	mu    sync.Mutex
	locks map[int]*sync.Mutex
}

func newRoomLocks() *roomLocks {
	return &roomLocks{
		locks: make(map[int]*sync.Mutex),
	}
}

// Lock acquires the lock for roomID and returns its release func.
// Room locks are never evicted; the room inventory is small and
// long-lived.
func (r *roomLocks) Lock(roomID int) func() {
	r.mu.Lock()

	l, ok := r.locks[roomID]
	if !ok {
		l = &sync.Mutex{}
		r.locks[roomID] = l
	}

	r.mu.Unlock()

	l.Lock()

	return l.Unlock
}

package flow

import "sync"

// dateLocks serializes the evaluate-then-create sequence per reservation
// date. The availability engine is an advisory read; without this lock two
// concurrent commits for the same date could both pass evaluation and
// jointly overcommit the day's capacity.
type dateLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// For returns the mutex guarding commits for a date key.
func (d *dateLocks) For(date string) *sync.Mutex {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.locks == nil {
		d.locks = make(map[string]*sync.Mutex)
	}
	lock, ok := d.locks[date]
	if !ok {
		lock = &sync.Mutex{}
		d.locks[date] = lock
	}
	return lock
}

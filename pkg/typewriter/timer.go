package typewriter

import (
	"sync"
	"time"
)

// ScheduleFunc runs job once after d. The returned cancel function stops the
// job if it has not started yet.
type ScheduleFunc func(d time.Duration, job func()) (cancel func())

// AfterFunc schedules job with time.AfterFunc.
func AfterFunc(d time.Duration, job func()) (cancel func()) {
	t := time.AfterFunc(d, job)
	return func() { t.Stop() }
}

// ManualTimer is a ScheduleFunc backend that only fires when told to.
// It lets callers step a Scheduler deterministically.
type ManualTimer struct {
	mu     sync.Mutex
	jobs   []manualJob
	nextID int
}

type manualJob struct {
	id    int
	delay time.Duration
	job   func()
}

// Schedule implements ScheduleFunc.
func (m *ManualTimer) Schedule(d time.Duration, job func()) (cancel func()) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	id := m.nextID
	m.jobs = append(m.jobs, manualJob{id: id, delay: d, job: job})

	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		for i, j := range m.jobs {
			if j.id == id {
				m.jobs = append(m.jobs[:i], m.jobs[i+1:]...)
				return
			}
		}
	}
}

// Pending returns the number of scheduled jobs.
func (m *ManualTimer) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.jobs)
}

// Fire runs the oldest pending job and reports whether there was one.
func (m *ManualTimer) Fire() bool {
	m.mu.Lock()
	if len(m.jobs) == 0 {
		m.mu.Unlock()
		return false
	}
	j := m.jobs[0]
	m.jobs = m.jobs[1:]
	m.mu.Unlock()

	// Run outside the lock; the job usually schedules the next one.
	j.job()
	return true
}

// FireAll fires jobs until none are pending or limit jobs have run.
// It returns the number fired.
func (m *ManualTimer) FireAll(limit int) int {
	n := 0
	for n < limit && m.Fire() {
		n++
	}
	return n
}

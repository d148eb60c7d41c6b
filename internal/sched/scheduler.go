// Package sched provides the cooperative timer queue every delayed action
// in the simulation runs on: melee hit windows, projectile start delays,
// corpse despawn and wave intermission countdowns.
//
// There is exactly one Scheduler per simulation and it is polled once per
// tick from the simulation goroutine. Nothing here starts goroutines or OS
// timers, so a pending task costs one slice entry.
package sched

import (
	"slices"
	"time"
)

// Task is a pending callback. Cancel is safe to call more than once and
// after the task has already run.
type Task struct {
	due       time.Duration
	seq       uint64
	fn        func()
	predicate func() bool
	cancelled bool
	done      bool
}

// Cancel prevents the task from running.
func (t *Task) Cancel() {
	if t != nil {
		t.cancelled = true
	}
}

// Done reports whether the task ran or was cancelled.
func (t *Task) Done() bool {
	return t == nil || t.done || t.cancelled
}

// Scheduler owns the simulated clock and the pending task queue.
type Scheduler struct {
	now     time.Duration
	seq     uint64
	pending []*Task
}

// New creates a scheduler with the clock at zero.
func New() *Scheduler {
	return &Scheduler{}
}

// Now returns simulated time since the start of the run.
func (s *Scheduler) Now() time.Duration {
	return s.now
}

// After schedules fn to run on the first Advance at or past now+delay.
// Negative delays are treated as zero.
func (s *Scheduler) After(delay time.Duration, fn func()) *Task {
	if delay < 0 {
		delay = 0
	}
	return s.push(&Task{due: s.now + delay, fn: fn})
}

// Until schedules fn to run on the first Advance where predicate is true.
func (s *Scheduler) Until(predicate func() bool, fn func()) *Task {
	return s.push(&Task{due: s.now, fn: fn, predicate: predicate})
}

func (s *Scheduler) push(t *Task) *Task {
	s.seq++
	t.seq = s.seq
	s.pending = append(s.pending, t)
	return t
}

// Pending returns the number of tasks that have neither run nor been cancelled.
func (s *Scheduler) Pending() int {
	n := 0
	for _, t := range s.pending {
		if !t.Done() {
			n++
		}
	}
	return n
}

// Advance moves the clock forward by dt and runs every due task in
// (due, scheduling order). Tasks scheduled by a running task are not run
// until the next Advance, even with zero delay.
func (s *Scheduler) Advance(dt time.Duration) {
	s.Step(dt)
	s.RunDue()
}

// Step moves the clock forward by dt without running tasks.
func (s *Scheduler) Step(dt time.Duration) {
	if dt > 0 {
		s.now += dt
	}
}

// RunDue runs due tasks without moving the clock.
func (s *Scheduler) RunDue() {
	if len(s.pending) == 0 {
		return
	}

	batch := s.pending
	s.pending = nil

	due := make([]*Task, 0, len(batch))
	for _, t := range batch {
		switch {
		case t.cancelled:
		case t.due > s.now:
			s.pending = append(s.pending, t)
		case t.predicate != nil && !t.predicate():
			s.pending = append(s.pending, t)
		default:
			due = append(due, t)
		}
	}

	slices.SortFunc(due, func(a, b *Task) int {
		if a.due != b.due {
			if a.due < b.due {
				return -1
			}
			return 1
		}
		if a.seq < b.seq {
			return -1
		}
		return 1
	})

	for _, t := range due {
		// An earlier task in this batch may have cancelled it.
		if t.cancelled {
			continue
		}
		t.done = true
		t.fn()
	}
}

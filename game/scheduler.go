package game

import "time"

// Scheduler is a fixed-timestep accumulator. Each display frame it converts
// elapsed wall time into a bounded number of physics steps, then renders
// once.
type Scheduler struct {
	step       time.Duration
	maxGap     time.Duration
	maxCatchUp int

	last      time.Time
	started   bool
	acc       time.Duration
	discarded bool
}

// NewScheduler creates a scheduler running steps of length step. Elapsed time
// per frame is clamped to maxGap and at most maxCatchUp steps run per frame.
func NewScheduler(step, maxGap time.Duration, maxCatchUp int) *Scheduler {
	if maxCatchUp < 1 {
		maxCatchUp = 1
	}
	return &Scheduler{step: step, maxGap: maxGap, maxCatchUp: maxCatchUp}
}

// Advance accounts for wall time up to now and returns how many steps are
// due. The first call only records the timestamp.
func (s *Scheduler) Advance(now time.Time) int {
	s.discarded = false
	if !s.started {
		s.started = true
		s.last = now
		return 0
	}

	elapsed := now.Sub(s.last)
	s.last = now
	if elapsed < 0 {
		elapsed = 0
	}
	if elapsed > s.maxGap {
		elapsed = s.maxGap
	}
	s.acc += elapsed

	steps := 0
	for s.acc >= s.step && steps < s.maxCatchUp {
		s.acc -= s.step
		steps++
	}

	// Lossy after a stall: drop what the cap left behind
	if steps == s.maxCatchUp && s.acc > s.step {
		s.acc = 0
		s.discarded = true
	}
	return steps
}

// Frame runs one display frame: every due step in order, then exactly one
// render. It returns the number of steps run.
func (s *Scheduler) Frame(now time.Time, step, render func()) int {
	n := s.Advance(now)
	for i := 0; i < n; i++ {
		step()
	}
	render()
	return n
}

// Discarded reports whether the last Advance dropped accumulated time.
func (s *Scheduler) Discarded() bool {
	return s.discarded
}

// Pending returns the accumulated time not yet consumed by a step.
func (s *Scheduler) Pending() time.Duration {
	return s.acc
}

// Reset forgets the last timestamp and any accumulated time, so the next
// frame after a pause starts fresh.
func (s *Scheduler) Reset() {
	s.started = false
	s.acc = 0
	s.discarded = false
}

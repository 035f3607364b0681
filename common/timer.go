package common

// Timer accumulates elapsed seconds from frame deltas. It never resets on
// its own; callers zero it explicitly with Reset.
type Timer struct {
	elapsed float64
}

// Advance adds dt seconds. Negative deltas are ignored.
func (t *Timer) Advance(dt float64) {
	if t == nil || dt <= 0 {
		return
	}
	t.elapsed += dt
}

// Elapsed returns the accumulated seconds.
func (t *Timer) Elapsed() float64 {
	if t == nil {
		return 0
	}
	return t.elapsed
}

// Exceeded reports whether the accumulated time is strictly greater than limit.
func (t *Timer) Exceeded(limit float64) bool {
	return t.Elapsed() > limit
}

func (t *Timer) Reset() {
	if t == nil {
		return
	}
	t.elapsed = 0
}

// Countdown fires once its timer exceeds Delay. Restart rewinds it.
type Countdown struct {
	Delay float64
	timer Timer
}

// Tick advances the countdown and reports whether it has run out.
func (c *Countdown) Tick(dt float64) bool {
	c.timer.Advance(dt)
	return c.timer.Exceeded(c.Delay)
}

func (c *Countdown) Elapsed() float64 {
	return c.timer.Elapsed()
}

func (c *Countdown) Restart() {
	c.timer.Reset()
}

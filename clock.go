// clock.go - Master clock tick counter (spec §5, Open Question decision #1).
//
// Grounded on original_source/ronald-core/src/system/clock.rs: a plain
// monotonically-increasing tick count, advanced by however many master-clock
// ticks the CPU's last instruction consumed.
package main

// MasterClockTick is an opaque point on the machine's master clock.
type MasterClockTick uint64

// MasterClock counts elapsed master-clock ticks since power-on/reset.
type MasterClock struct {
	current MasterClockTick
}

// Current returns the clock's present tick count.
func (c *MasterClock) Current() MasterClockTick {
	return c.current
}

// Step advances the clock by cycles ticks.
func (c *MasterClock) Step(cycles uint64) {
	c.current += MasterClockTick(cycles)
}

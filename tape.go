// tape.go - Cassette interface stub (spec §4.11, Non-goals: tape loading).
//
// Grounded on original_source/src/tape.rs / ronald-core's bus/tape.rs: the
// motor switch is real hardware state the PPI must be able to set and the
// firmware polls, but actual tape sample playback is out of scope, so reads
// always report "no signal" and writes are only latched, matching the
// original's own stub behaviour for headless/disk-only operation.
package main

// Tape is a motor-switch-only stand-in for the cassette interface: the CPC
// firmware checks the motor relay and the input line, but this machine is
// modeled as disk-only.
type Tape struct {
	motorOn    bool
	lastSample bool // cassette-out level, latched but otherwise unused
}

// NewTape returns a tape interface with the motor off.
func NewTape() *Tape {
	return &Tape{}
}

// Reset turns the motor off.
func (t *Tape) Reset() {
	t.motorOn = false
	t.lastSample = false
}

// SetMotor stores the motor relay state as driven by the PPI's port C upper
// nibble bit 0 (port C bit 4).
func (t *Tape) SetMotor(on bool) {
	t.motorOn = on
}

// MotorOn reports the last-latched motor relay state.
func (t *Tape) MotorOn() bool {
	return t.motorOn
}

// ReadSample always reports no signal: no tape image is ever loaded.
func (t *Tape) ReadSample() bool {
	return false
}

// WriteSample latches the cassette-out level. SAVE to tape has no effect
// beyond this: no tape image is ever written.
func (t *Tape) WriteSample(level bool) {
	t.lastSample = level
}

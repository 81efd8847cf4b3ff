// ppi.go - Intel 8255-compatible peripheral interface (spec §4.7).
//
// Grounded on original_source/src/ppi.rs: three ports (A/B/C with C split
// into upper/lower nibbles) each independently configured as input or
// output, and the exact function dispatch the CPC wires to each port (A:
// PSG data bus, B: read-only status, C: keyboard line select + PSG
// function + tape control).
package main

type ppiDirection int

const (
	ppiOutput ppiDirection = iota
	ppiInput
)

// PSG function codes the CPC places on PPI port C's upper nibble bits 7:6.
const (
	psgFunctionInactive = 0
	psgFunctionRead     = 1
	psgFunctionWrite     = 2
	psgFunctionSelect    = 3
)

// PPI is the 8255 instance wired on the CPC to the PSG's data bus (port A),
// the keyboard matrix/cassette status (port B, read-only), and the
// keyboard line selector plus PSG/tape control (port C).
type PPI struct {
	directionA      ppiDirection
	directionB      ppiDirection
	directionCLower ppiDirection
	directionCUpper ppiDirection

	psg      *PSG
	keyboard *Keyboard
	tape     *Tape

	portCLower byte // keyboard active line, PPI's own latch
	portCUpper byte // PSG function + tape motor/write bit, PPI's own latch

	vsyncBit bool // fed from the CRTC's VSYNC output for port B bit 0
}

// NewPPI wires the PPI to the peripherals it mediates access to.
func NewPPI(psg *PSG, keyboard *Keyboard, tape *Tape) *PPI {
	return &PPI{psg: psg, keyboard: keyboard, tape: tape}
}

// Reset restores all ports to input mode, matching the 8255's power-on
// default (mode 0, all ports input).
func (p *PPI) Reset() {
	p.directionA = ppiInput
	p.directionB = ppiInput
	p.directionCLower = ppiInput
	p.directionCUpper = ppiInput
	p.portCLower = 0
	p.portCUpper = 0
}

// SetVSync feeds the CRTC's VSYNC state into port B bit 0, which the
// firmware polls to detect frame sync without an interrupt.
func (p *PPI) SetVSync(active bool) {
	p.vsyncBit = active
}

// ReadPortA returns the PSG's currently selected register value when port A
// is configured for input (the PSG drives the data bus back to the CPU).
func (p *PPI) ReadPortA() byte {
	if p.directionA == ppiInput {
		return p.psg.ReadSelectedRegister()
	}
	return 0
}

// WritePortA writes to the PSG's data bus when port A is configured for
// output and the currently latched PSG function is write or select.
func (p *PPI) WritePortA(value byte) {
	if p.directionA != ppiOutput {
		return
	}
	switch p.psgFunction() {
	case psgFunctionWrite:
		p.psg.WriteSelectedRegister(value)
	case psgFunctionSelect:
		p.psg.SelectRegister(value)
	}
}

// ReadPortB returns CPC status bits (only when port B is configured for
// input; the 8255 drives nothing onto a port wired for output): bits 1-3
// the distributor ID (0b111, Amstrad), bit 4 the 50Hz-monitor flag, bit 0
// VSYNC, bit 7 the tape input sample.
func (p *PPI) ReadPortB() byte {
	if p.directionB != ppiInput {
		return 0
	}
	value := byte(0x07<<1 | 0x01<<4)
	if p.vsyncBit {
		value |= 1 << 0
	}
	if p.tape.ReadSample() {
		value |= 1 << 7
	}
	return value
}

// WritePortB is a no-op: port B is read-only status on real hardware, and
// the 8255 silently discards writes to a port configured for input.
func (p *PPI) WritePortB(byte) {}

// ReadPortC returns the combined latch (upper nibble function bits, lower
// nibble keyboard line), matching what the 8255 echoes back for whichever
// half is configured as output.
func (p *PPI) ReadPortC() byte {
	return p.portCUpper<<4 | p.portCLower
}

// WritePortC splits the byte into nibbles per the 8255's independent
// upper/lower direction control, dispatching the keyboard line select and
// PSG function/tape control CPC firmware drives through this port.
func (p *PPI) WritePortC(value byte) {
	if p.directionCLower == ppiOutput {
		p.portCLower = value & 0x0F
		p.keyboard.SetActiveLine(int(p.portCLower))
	}
	if p.directionCUpper == ppiOutput {
		p.portCUpper = (value >> 4) & 0x0F
		p.tape.SetMotor(p.portCUpper&0x01 != 0)
		p.tape.WriteSample((p.portCUpper>>1)&0x01 != 0)
		if p.psgFunction() == psgFunctionSelect {
			// select is also latched on the next port A write; nothing
			// further happens here, matching the real PPI's passive role.
		}
	}
}

func (p *PPI) psgFunction() byte {
	return (p.portCUpper >> 2) & 0x03
}

// WriteControl decodes a write to the PPI's control/configuration port
// (function byte 3 in bus.go's port decode). Bit 7 set selects the mode-set
// form; bit 7 clear is a bit-set/reset on port C, which this machine's
// firmware does not use and so is left unimplemented here (spec does not
// exercise it).
func (p *PPI) WriteControl(value byte) {
	if value&0x80 == 0 {
		return
	}
	p.directionA = dirFromBit(value, 4)
	p.directionCUpper = dirFromBit(value, 3)
	p.directionB = dirFromBit(value, 1)
	p.directionCLower = dirFromBit(value, 0)
}

func dirFromBit(value byte, bit uint) ppiDirection {
	if value&(1<<bit) != 0 {
		return ppiInput
	}
	return ppiOutput
}

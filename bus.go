// bus.go - I/O port dispatch and the bus tick driving CRTC/gate array/PSG
// (spec §4.3).
//
// Grounded directly on original_source/ronald-core/src/system/bus.rs's
// StandardBus: the same bit-pattern port decode, in the same priority
// order (earlier table rows win when multiple patterns match), and the
// same step() sequence (PSG sample, CRTC character, gate-array character).
// CRTC/PPI sub-function selection by address bits 9:8 follows spec §4.3's
// table, since bus.rs's own CRTC/PPI read_byte/write_byte bodies were left
// unimplemented in the retrieved source.
package main

// Bus wires the CPU's memory-mapped and I/O-mapped views together: it is
// the Z80Bus implementation the system hands to CPU_Z80, decoding every
// port access into the peripheral it targets.
type Bus struct {
	memory    *Memory
	crtc      *CRTC
	gateArray *GateArray
	ppi       *PPI
	psg       *PSG
	fdc       *FDC
	keyboard  *Keyboard
	tape      *Tape
	screen    *Screen
}

// NewBus composes the machine's peripherals into a single port-decoding
// bus.
func NewBus(memory *Memory, crtc *CRTC, gateArray *GateArray, ppi *PPI, psg *PSG, fdc *FDC, keyboard *Keyboard, tape *Tape, screen *Screen) *Bus {
	return &Bus{
		memory:    memory,
		crtc:      crtc,
		gateArray: gateArray,
		ppi:       ppi,
		psg:       psg,
		fdc:       fdc,
		keyboard:  keyboard,
		tape:      tape,
		screen:    screen,
	}
}

// Read is the CPU's IN-instruction entry point.
func (b *Bus) Read(port uint16) byte {
	switch {
	case port&0x4000 == 0:
		return b.readCRTC(port)
	case port&0x0800 == 0:
		return b.readPPI(port)
	case port == 0xFB7E || port == 0xFB7F:
		return b.fdc.ReadPort(port)
	default:
		return 0xFF // undecoded port: floating bus
	}
}

// Write is the CPU's OUT-instruction entry point.
func (b *Bus) Write(port uint16, value byte) {
	switch {
	case port&0x8000 == 0 && port&0x4000 != 0:
		b.gateArray.WritePort(value)
	case port&0x4000 == 0:
		b.writeCRTC(port, value)
	case port&0xDF00 == 0xDF00:
		b.memory.SelectUpperROM(value)
	case port&0xEF00 == 0xEF00:
		// printer port, unsupported
	case port&0x0800 == 0:
		b.writePPI(port, value)
	case port == 0xFA7E || port == 0xFB7F:
		b.fdc.WritePort(port, value)
	case port == 0xF8FF:
		// peripheral soft reset, ignored (Open Question decision #3)
	default:
		// undecoded port: ignored, matching spec's release-mode behaviour
	}
}

// crtcSubFunction extracts address bits 9:8, which select among the
// CRTC's register-select/write/status/read sub-ports.
func crtcSubFunction(port uint16) byte {
	return byte(port>>8) & 0x03
}

func (b *Bus) readCRTC(port uint16) byte {
	switch crtcSubFunction(port) {
	case 0b10:
		return b.crtc.ReadStatus()
	case 0b11:
		return b.crtc.ReadRegister()
	default:
		return 0xFF
	}
}

func (b *Bus) writeCRTC(port uint16, value byte) {
	switch crtcSubFunction(port) {
	case 0b00:
		b.crtc.SelectRegister(value)
	case 0b01:
		b.crtc.WriteRegister(value)
	}
}

// ppiSubFunction extracts address bits 9:8, which select among the PPI's
// port A/B/C and control registers.
func ppiSubFunction(port uint16) byte {
	return byte(port>>8) & 0x03
}

func (b *Bus) readPPI(port uint16) byte {
	switch ppiSubFunction(port) {
	case 0b00:
		return b.ppi.ReadPortA()
	case 0b01:
		return b.ppi.ReadPortB()
	case 0b10:
		return b.ppi.ReadPortC()
	default:
		return 0xFF
	}
}

func (b *Bus) writePPI(port uint16, value byte) {
	switch ppiSubFunction(port) {
	case 0b00:
		b.ppi.WritePortA(value)
	case 0b01:
		b.ppi.WritePortB(value)
	case 0b10:
		b.ppi.WritePortC(value)
	case 0b11:
		b.ppi.WriteControl(value)
	}
}

// In satisfies Z80Bus.
func (b *Bus) In(port uint16) byte { return b.Read(port) }

// Out satisfies Z80Bus.
func (b *Bus) Out(port uint16, value byte) { b.Write(port, value) }

// Z80BusMemory adapts Bus+Memory to the combined Read/Write/In/Out contract
// CPU_Z80 expects, since memory access and port access are separate address
// spaces on the Z80.
type Z80BusMemory struct {
	bus    *Bus
	memory *Memory
}

func (z *Z80BusMemory) Read(addr uint16) byte          { return z.memory.Read(addr) }
func (z *Z80BusMemory) Write(addr uint16, value byte)  { z.memory.Write(addr, value) }
func (z *Z80BusMemory) In(port uint16) byte            { return z.bus.Read(port) }
func (z *Z80BusMemory) Out(port uint16, value byte)    { z.bus.Write(port, value) }

// AcknowledgeInterrupt notifies the gate array that the CPU has taken the
// maskable interrupt, clearing its pending-interrupt latch.
func (b *Bus) AcknowledgeInterrupt() {
	b.gateArray.AcknowledgeInterrupt()
}

// Step advances the CRTC, gate array and PSG by one character/sample tick.
// It returns the PSG's output sample for this tick (for the caller to push
// to the AudioSink) and whether a complete video frame became ready to
// present. Called once per 4 elapsed master-clock ticks (Open Question
// decision #1): the CPU runs at 4 MHz but the memory/CRTC bus the gate
// array shares with it runs at 1 MHz.
func (b *Bus) Step() (sample float32, frameReady bool) {
	sample = b.psg.Sample()
	b.crtc.Step()
	b.gateArray.Step(b.crtc, b.memory, b.screen)
	b.ppi.SetVSync(b.crtc.ReadVerticalSync())
	return sample, b.screen.ConsumeFrameReady()
}

// IRQPending reports whether any device wants the Z80's maskable interrupt
// line asserted. On this machine only the gate array drives it.
func (b *Bus) IRQPending() bool {
	return b.gateArray.IRQPending()
}

// LoadDisk parses and inserts a DSK image into the given drive.
func (b *Bus) LoadDisk(drive int, image []byte) error {
	return b.fdc.LoadDisk(drive, image)
}

// PressKey and ReleaseKey forward to the keyboard matrix, mirroring
// StandardBus's set_key/unset_key in the original.
func (b *Bus) PressKey(name string) error   { return b.keyboard.PressKey(name) }
func (b *Bus) ReleaseKey(name string) error { return b.keyboard.ReleaseKey(name) }

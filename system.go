// system.go - Top-level machine composition and the emulate() driving loop
// (spec §2/§3 Lifecycle).
//
// Grounded on original_source/ronald-core/src/system's AmstradCpc<CPU,
// Memory, Bus> composition referenced from lib.rs: one CPU, one memory, one
// bus, stepped together by emulate(), with acknowledge_interrupt() called
// whenever the CPU reports it took the maskable interrupt.
package main

// VideoSink receives one RGBA frame per completed raster (spec's "external
// collaborator" video surface).
type VideoSink interface {
	DrawFrame(buffer []byte, width, height int)
}

// AudioSink receives PSG samples one at a time (spec's "external
// collaborator" audio device).
type AudioSink interface {
	GetSampleRate() (float32, bool)
	PlayAudio()
	PauseAudio()
	AddSample(sample float32)
}

// AmstradCpc composes the Z80 CPU with the CPC464's memory and peripheral
// bus, running them together one instruction at a time.
type AmstradCpc struct {
	cpu       *CPU_Z80
	cpuMemory *Z80BusMemory
	memory    *Memory
	bus       *Bus

	crtc      *CRTC
	gateArray *GateArray
	ppi       *PPI
	psg       *PSG
	fdc       *FDC
	keyboard  *Keyboard
	tape      *Tape
	screen    *Screen

	clock MasterClock

	debugBus *DebugBus
}

// NewAmstradCpc wires a complete machine: memory with the given lower ROM
// installed (BASIC, if given, loaded into upper ROM slot 0), and every
// peripheral connected through Bus exactly as StandardBus does.
func NewAmstradCpc(lowerROM, basicROM []byte, sampleRate int) (*AmstradCpc, error) {
	memory := NewMemory()
	if err := memory.LoadLowerROM(lowerROM); err != nil {
		return nil, err
	}
	if basicROM != nil {
		if err := memory.LoadUpperROM(basicROMSlot, basicROM); err != nil {
			return nil, err
		}
	}

	crtc := NewCRTC()
	gateArray := NewGateArray(memory)
	psg := NewPSG(sampleRate)
	keyboard := NewKeyboard()
	tape := NewTape()
	fdc := NewFDC()
	ppi := NewPPI(psg, keyboard, tape)
	screen := NewScreen()

	bus := NewBus(memory, crtc, gateArray, ppi, psg, fdc, keyboard, tape, screen)

	system := &AmstradCpc{
		memory:    memory,
		bus:       bus,
		crtc:      crtc,
		gateArray: gateArray,
		ppi:       ppi,
		psg:       psg,
		fdc:       fdc,
		keyboard:  keyboard,
		tape:      tape,
		screen:    screen,
		debugBus:  NewDebugBus(),
	}

	system.cpuMemory = &Z80BusMemory{bus: bus, memory: memory}
	system.cpu = NewCPU_Z80(system.cpuMemory)

	system.Reset()
	return system, nil
}

// Reset clears every component's register/counter state (but never
// installed ROMs or a loaded disk), matching spec §3's reset semantics.
func (a *AmstradCpc) Reset() {
	a.memory.Reset()
	a.crtc.Reset()
	a.gateArray.Reset()
	a.ppi.Reset()
	a.psg.Reset()
	a.fdc.Reset()
	a.keyboard.Reset()
	a.tape.Reset()
	a.screen.Reset()
	a.cpu.Reset()
	a.clock = MasterClock{}
}

// Emulate runs exactly one CPU instruction, advances the master clock by
// the cycles it consumed, drives the bus once per 4 of those ticks (Open
// Question decision #1), services a pending maskable interrupt if the gate
// array is asking for one, and pushes a completed frame/samples to the
// given sinks. It returns the number of master-clock ticks this call
// consumed: Z80 T-states, at 4 ticks per emulated microsecond (Driver.Step
// converts its microsecond budget accordingly).
func (a *AmstradCpc) Emulate(video VideoSink, audio AudioSink) uint64 {
	if a.bus.IRQPending() {
		a.cpu.SetIRQLine(true)
	}

	cycles := a.cpu.Step()

	if a.cpu.AcceptedInterrupt() {
		a.bus.AcknowledgeInterrupt()
		a.cpu.SetIRQLine(false)
		a.debugBus.Publish(DebugEvent{Component: DebugComponentCPU})
	}

	a.clock.Step(cycles)

	for i := uint64(0); i < cycles; i += 4 {
		sample, frameReady := a.bus.Step()
		if audio != nil {
			audio.AddSample(sample)
		}
		if frameReady && video != nil {
			w, h := a.screen.Dimensions()
			video.DrawFrame(a.screen.RGBA(), w, h)
		}
	}

	return cycles
}

// SubscribeDebugEvents registers fn to receive every internal debug event
// (spec §9's event channel) as it is published. Currently the only events
// raised are CPU interrupt acknowledgements; see DebugComponent for the
// full reserved taxonomy.
func (a *AmstradCpc) SubscribeDebugEvents(fn func(DebugEvent)) {
	a.debugBus.Subscribe(fn)
}

// PressKey and ReleaseKey forward to the keyboard through the bus.
func (a *AmstradCpc) PressKey(name string) error   { return a.bus.PressKey(name) }
func (a *AmstradCpc) ReleaseKey(name string) error { return a.bus.ReleaseKey(name) }

// LoadDisk inserts a DSK image into the given drive.
func (a *AmstradCpc) LoadDisk(drive int, image []byte) error {
	return a.bus.LoadDisk(drive, image)
}

// DebugView returns a frozen snapshot of CPU and memory state.
func (a *AmstradCpc) DebugView() SystemDebugView {
	return SystemDebugView{
		MasterClock: a.clock.Current(),
		CPU:         a.cpuDebugView(),
		Memory:      a.memoryDebugView(),
	}
}

func (a *AmstradCpc) cpuDebugView() CpuDebugView {
	c := a.cpu
	return CpuDebugView{
		RegisterA: c.A, RegisterF: c.F,
		RegisterB: c.B, RegisterC: c.C,
		RegisterD: c.D, RegisterE: c.E,
		RegisterH: c.H, RegisterL: c.L,
		ShadowRegisterA: c.A2, ShadowRegisterF: c.F2,
		ShadowRegisterB: c.B2, ShadowRegisterC: c.C2,
		ShadowRegisterD: c.D2, ShadowRegisterE: c.E2,
		ShadowRegisterH: c.H2, ShadowRegisterL: c.L2,
		RegisterI: c.I, RegisterR: c.R,
		RegisterIXH: byte(c.IX >> 8), RegisterIXL: byte(c.IX),
		RegisterIYH: byte(c.IY >> 8), RegisterIYL: byte(c.IY),
		RegisterSP: c.SP, RegisterPC: c.PC,
		IFF1: c.IFF1, IFF2: c.IFF2,
		Halted:        c.Halted,
		InterruptMode: InterruptMode(c.IM),
	}
}

func (a *AmstradCpc) memoryDebugView() MemoryDebugView {
	return MemoryDebugView{
		RAM:              a.memory.RAMSnapshot(),
		LowerROM:         a.memory.lowerROM,
		LowerROMEnabled:  a.memory.lowerROMEnabled,
		UpperROMs:        a.memory.upperROMs,
		SelectedUpperROM: a.memory.selectedUpperROM,
		UpperROMEnabled:  a.memory.upperROMEnabled,
	}
}

// Disassemble returns count decoded instructions starting at the CPU's
// current PC.
func (a *AmstradCpc) Disassemble(count int) []DisassembledLine {
	readMem := func(addr uint64, size int) []byte {
		out := make([]byte, 0, size)
		for i := 0; i < size; i++ {
			out = append(out, a.memory.Read(uint16(addr)+uint16(i)))
		}
		return out
	}
	return disassembleZ80(readMem, uint64(a.cpu.PC), count)
}

// debugview.go - Frozen read-only debug snapshots and the debug event
// channel (spec §6, §9 design note).
//
// SystemDebugView/CpuDebugView/MemoryDebugView are reproduced from
// original_source/ronald-core/src/debug/view.rs's field sets. DisassembledLine
// is the kept debug_disasm_z80.go's own output shape (it has no original_source
// counterpart; the Rust side returns disassembled text directly rather than a
// typed instruction record). DebugEvent/DebugBus implement spec §9's "explicit
// event channel owned by the system, subscribers registered at construction"
// using the same per-component taxonomy as debug/event.rs
// (Cpu/Memory/Crtc/GateArray/Fdc/Ppi/Psg/Tape), dispatched synchronously
// since the whole machine is single-threaded.
package main

// DisassembledLine is one decoded instruction, as produced by
// disassembleZ80.
type DisassembledLine struct {
	Address      uint64
	HexBytes     string
	Mnemonic     string
	Size         int
	IsBranch     bool
	BranchTarget uint64
}

// InterruptMode mirrors the Z80's three interrupt modes, named rather than
// left as a bare byte in the debug view for readability.
type InterruptMode byte

// CpuDebugView is a frozen snapshot of every CPU register and control flag.
type CpuDebugView struct {
	RegisterA, RegisterF byte
	RegisterB, RegisterC byte
	RegisterD, RegisterE byte
	RegisterH, RegisterL byte

	ShadowRegisterA, ShadowRegisterF byte
	ShadowRegisterB, ShadowRegisterC byte
	ShadowRegisterD, ShadowRegisterE byte
	ShadowRegisterH, ShadowRegisterL byte

	RegisterI, RegisterR byte
	RegisterIXH, RegisterIXL byte
	RegisterIYH, RegisterIYL byte
	RegisterSP, RegisterPC uint16

	IFF1, IFF2      bool
	Halted          bool
	InterruptMode   InterruptMode
	EnableInterrupt bool
	IRQReceived     bool
}

// MemoryDebugView is a frozen snapshot of the address space's RAM and ROM
// overlay configuration.
type MemoryDebugView struct {
	RAM              []byte
	LowerROM         []byte
	LowerROMEnabled  bool
	UpperROMs        map[byte][]byte
	SelectedUpperROM byte
	UpperROMEnabled  bool
}

// SystemDebugView composes a full machine snapshot for a debugger UI to
// render (debugger UI itself is out of scope per spec's Non-goals).
type SystemDebugView struct {
	MasterClock MasterClockTick
	CPU         CpuDebugView
	Memory      MemoryDebugView
}

// DebugEvent is any internal state change worth surfacing to a subscriber,
// tagged by which component raised it.
type DebugEvent struct {
	Component DebugComponent
	CPU       *CpuDebugEvent
}

// DebugComponent identifies which peripheral raised a DebugEvent.
type DebugComponent int

const (
	DebugComponentCPU DebugComponent = iota
	DebugComponentMemory
	DebugComponentCRTC
	DebugComponentGateArray
	DebugComponentFDC
	DebugComponentPPI
	DebugComponentPSG
	DebugComponentTape
)

// CpuDebugEvent is the CPU's own event payload, the one component with
// enough of-interest transitions to be worth a concrete event shape; the
// rest are reserved taxonomy slots with no payload yet, matching
// debug/event.rs's empty per-component enums.
type CpuDebugEvent struct {
	Register8Changed  *Register8Change
	Register16Changed *Register16Change
}

// Register8Change records an 8-bit register transition.
type Register8Change struct {
	Name     string
	Is, Was  byte
}

// Register16Change records a 16-bit register transition.
type Register16Change struct {
	Name     string
	Is, Was  uint16
}

// DebugBus is the system-owned event channel: subscribers register a
// callback at construction and the system dispatches events synchronously
// as they happen, with no buffering or goroutines (spec §5's single-thread
// rule applies here too).
type DebugBus struct {
	subscribers []func(DebugEvent)
}

// NewDebugBus returns an empty event channel.
func NewDebugBus() *DebugBus {
	return &DebugBus{}
}

// Subscribe registers a callback to receive every published event.
func (d *DebugBus) Subscribe(fn func(DebugEvent)) {
	d.subscribers = append(d.subscribers, fn)
}

// Publish dispatches an event to every subscriber in registration order.
func (d *DebugBus) Publish(event DebugEvent) {
	for _, fn := range d.subscribers {
		fn(event)
	}
}

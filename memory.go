// memory.go - Amstrad CPC 64KiB address space: RAM plus switchable ROM
// overlays.
//
// Grounded on the engine's memory_bus.go for the "implements MemoryBus,
// exposes NewXxx/Reset()" shape, adapted from a 16MB 32-bit flat bus to the
// CPC's 64KiB 8-bit address space with lower/upper ROM overlays (spec §4.1).
// The overlay semantics themselves follow original_source's AnyMemory model:
// reads below 0x4000 come from the lower ROM when enabled, reads in
// 0xC000-0xFFFF come from the selected upper ROM when enabled, writes always
// go to RAM regardless of ROM overlay state.
package main

import "fmt"

const (
	memorySize      = 0x10000
	lowerROMTop     = 0x4000
	upperROMBase    = 0xC000
	basicROMSlot    = 0
	amsdosROMSlot   = 7
	upperROMDefault = basicROMSlot
)

// Memory is the CPC's 64KiB address space: one contiguous RAM array with a
// lower ROM overlay (fixed, the CPC464 firmware) and a bank of selectable
// upper ROM overlays (BASIC at slot 0, AMSDOS/other expansion ROMs at other
// slots). Reset-line state CPC464 has no RAM extension, so bank selection
// (the 6128-only gate-array write decoded in gatearray.go) is stored but
// never changes routing here.
type Memory struct {
	ram [memorySize]byte

	lowerROM        []byte
	lowerROMEnabled bool

	upperROMs        map[byte][]byte
	selectedUpperROM byte
	upperROMEnabled  bool
}

// NewMemory builds an empty address space. Call LoadLowerROM/LoadUpperROM to
// install firmware before Reset/use.
func NewMemory() *Memory {
	return &Memory{
		upperROMs: make(map[byte][]byte),
	}
}

// LoadLowerROM installs the fixed CPC464 lower ROM (OS + BASIC entry
// vectors), expected to be exactly 16KiB.
func (m *Memory) LoadLowerROM(rom []byte) error {
	if len(rom) != lowerROMTop {
		return fmt.Errorf("%w: lower ROM must be %d bytes, got %d", errInvalidDiskImage, lowerROMTop, len(rom))
	}
	m.lowerROM = rom
	return nil
}

// LoadUpperROM installs an upper ROM image (16KiB) at the given slot. Slot 0
// is conventionally BASIC.
func (m *Memory) LoadUpperROM(slot byte, rom []byte) error {
	if len(rom) != lowerROMTop {
		return fmt.Errorf("%w: upper ROM must be %d bytes, got %d", errInvalidDiskImage, lowerROMTop, len(rom))
	}
	m.upperROMs[slot] = rom
	return nil
}

// Reset enables both ROM overlays and selects the BASIC upper ROM, matching
// power-on/reset state of a real CPC464.
func (m *Memory) Reset() {
	m.lowerROMEnabled = true
	m.upperROMEnabled = true
	m.selectedUpperROM = upperROMDefault
}

// Read returns the byte visible at addr: ROM overlay if enabled and in
// range, otherwise RAM.
func (m *Memory) Read(addr uint16) byte {
	if m.lowerROMEnabled && addr < lowerROMTop && m.lowerROM != nil {
		return m.lowerROM[addr]
	}
	if m.upperROMEnabled && addr >= upperROMBase {
		if rom, ok := m.upperROMs[m.selectedUpperROM]; ok {
			return rom[addr-upperROMBase]
		}
	}
	return m.ram[addr]
}

// Write always stores to RAM: the CPC's ROMs are never writable, and a
// write to an overlaid address still lands in the RAM underneath it (the
// firmware relies on this to relocate itself).
func (m *Memory) Write(addr uint16, value byte) {
	m.ram[addr] = value
}

// SetLowerROMEnabled toggles the lower ROM overlay (gate array RAM/ROM
// configuration byte, bit 2).
func (m *Memory) SetLowerROMEnabled(enabled bool) {
	m.lowerROMEnabled = enabled
}

// SetUpperROMEnabled toggles the upper ROM overlay (gate array
// configuration byte, bit 3).
func (m *Memory) SetUpperROMEnabled(enabled bool) {
	m.upperROMEnabled = enabled
}

// SelectUpperROM chooses which installed upper ROM answers reads in
// 0xC000-0xFFFF (an OUT to I/O port 0xDFxx, decoded in bus.go).
func (m *Memory) SelectUpperROM(slot byte) {
	m.selectedUpperROM = slot
}

// RAMSnapshot and RestoreRAM support save/load-state (spec §6).
func (m *Memory) RAMSnapshot() []byte {
	out := make([]byte, memorySize)
	copy(out, m.ram[:])
	return out
}

func (m *Memory) RestoreRAM(data []byte) {
	copy(m.ram[:], data)
}

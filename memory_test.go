package main

import "testing"

func newTestMemory(t *testing.T) *Memory {
	t.Helper()
	m := NewMemory()
	lowerROM := make([]byte, lowerROMTop)
	lowerROM[0] = 0xAA
	if err := m.LoadLowerROM(lowerROM); err != nil {
		t.Fatalf("LoadLowerROM: %v", err)
	}
	basicROM := make([]byte, lowerROMTop)
	basicROM[0] = 0xBB
	if err := m.LoadUpperROM(basicROMSlot, basicROM); err != nil {
		t.Fatalf("LoadUpperROM: %v", err)
	}
	m.Reset()
	return m
}

func TestMemoryLoadLowerROMRejectsWrongSize(t *testing.T) {
	m := NewMemory()
	if err := m.LoadLowerROM([]byte{1, 2, 3}); err == nil {
		t.Fatal("LoadLowerROM with a wrong-sized image should return an error")
	}
}

func TestMemoryLoadUpperROMRejectsWrongSize(t *testing.T) {
	m := NewMemory()
	if err := m.LoadUpperROM(basicROMSlot, []byte{1, 2, 3}); err == nil {
		t.Fatal("LoadUpperROM with a wrong-sized image should return an error")
	}
}

func TestMemoryResetEnablesBothROMOverlaysAndSelectsBASIC(t *testing.T) {
	m := newTestMemory(t)
	if !m.lowerROMEnabled || !m.upperROMEnabled {
		t.Fatal("Reset should enable both ROM overlays")
	}
	if m.selectedUpperROM != upperROMDefault {
		t.Fatalf("selectedUpperROM after Reset = %d, want %d", m.selectedUpperROM, upperROMDefault)
	}
}

func TestMemoryReadBelowLowerROMTopReturnsLowerROMWhenEnabled(t *testing.T) {
	m := newTestMemory(t)
	if got := m.Read(0x0000); got != 0xAA {
		t.Fatalf("Read(0x0000) = %#02x, want 0xAA (lower ROM)", got)
	}
}

func TestMemoryReadBelowLowerROMTopFallsBackToRAMWhenDisabled(t *testing.T) {
	m := newTestMemory(t)
	m.SetLowerROMEnabled(false)
	m.Write(0x0000, 0x77)
	if got := m.Read(0x0000); got != 0x77 {
		t.Fatalf("Read(0x0000) with lower ROM disabled = %#02x, want 0x77 (RAM)", got)
	}
}

func TestMemoryReadUpperROMBaseReturnsSelectedUpperROMWhenEnabled(t *testing.T) {
	m := newTestMemory(t)
	if got := m.Read(upperROMBase); got != 0xBB {
		t.Fatalf("Read(upperROMBase) = %#02x, want 0xBB (BASIC upper ROM)", got)
	}
}

func TestMemoryReadUpperROMFallsBackToRAMWhenNoROMInstalledAtSelectedSlot(t *testing.T) {
	m := newTestMemory(t)
	m.SelectUpperROM(amsdosROMSlot)
	m.Write(upperROMBase, 0x99)
	if got := m.Read(upperROMBase); got != 0x99 {
		t.Fatalf("Read(upperROMBase) with no ROM at slot %d = %#02x, want 0x99 (RAM)", amsdosROMSlot, got)
	}
}

func TestMemoryWriteUnderROMOverlayStillLandsInRAM(t *testing.T) {
	m := newTestMemory(t)
	m.Write(0x0000, 0x55)
	m.SetLowerROMEnabled(false)
	if got := m.Read(0x0000); got != 0x55 {
		t.Fatalf("RAM underneath lower ROM overlay = %#02x, want 0x55", got)
	}
}

func TestMemorySelectUpperROMSwitchesWhichROMAnswersReads(t *testing.T) {
	m := newTestMemory(t)
	amsdos := make([]byte, lowerROMTop)
	amsdos[0] = 0xCC
	if err := m.LoadUpperROM(amsdosROMSlot, amsdos); err != nil {
		t.Fatalf("LoadUpperROM: %v", err)
	}
	m.SelectUpperROM(amsdosROMSlot)
	if got := m.Read(upperROMBase); got != 0xCC {
		t.Fatalf("Read(upperROMBase) after SelectUpperROM(amsdosROMSlot) = %#02x, want 0xCC", got)
	}
}

func TestMemoryRAMSnapshotAndRestoreRoundTrip(t *testing.T) {
	m := newTestMemory(t)
	m.Write(0x8000, 0x42)
	snap := m.RAMSnapshot()

	m.Write(0x8000, 0x00)
	m.RestoreRAM(snap)
	if got := m.Read(0x8000); got != 0x42 {
		t.Fatalf("Read(0x8000) after RestoreRAM = %#02x, want 0x42", got)
	}
}

package main

import "testing"

func newTestSystem(t *testing.T) *AmstradCpc {
	t.Helper()
	lowerROM := make([]byte, lowerROMTop)
	sys, err := NewAmstradCpc(lowerROM, nil, 44100)
	if err != nil {
		t.Fatalf("NewAmstradCpc: %v", err)
	}
	return sys
}

func TestNewAmstradCpcRejectsWrongSizedROM(t *testing.T) {
	_, err := NewAmstradCpc([]byte{1, 2, 3}, nil, 44100)
	if err == nil {
		t.Fatal("expected an error for a wrong-sized lower ROM")
	}
}

func TestAmstradCpcResetZeroesMasterClock(t *testing.T) {
	sys := newTestSystem(t)
	sys.Emulate(nil, nil)
	sys.Reset()
	if sys.clock.Current() != 0 {
		t.Fatalf("master clock after Reset = %d, want 0", sys.clock.Current())
	}
}

func TestAmstradCpcEmulateAdvancesMasterClock(t *testing.T) {
	sys := newTestSystem(t)
	before := sys.clock.Current()
	cycles := sys.Emulate(nil, nil)
	if cycles == 0 {
		t.Fatal("Emulate() should consume a nonzero number of cycles")
	}
	if sys.clock.Current() != before+MasterClockTick(cycles) {
		t.Fatalf("master clock after Emulate = %d, want %d", sys.clock.Current(), before+MasterClockTick(cycles))
	}
}

func TestAmstradCpcEmulateToleratesNilSinks(t *testing.T) {
	sys := newTestSystem(t)
	for i := 0; i < 100; i++ {
		sys.Emulate(nil, nil)
	}
}

func TestAmstradCpcPressAndReleaseKeyForwardThroughBus(t *testing.T) {
	sys := newTestSystem(t)
	if err := sys.PressKey("Space"); err != nil {
		t.Fatalf("PressKey: %v", err)
	}
	if err := sys.ReleaseKey("Space"); err != nil {
		t.Fatalf("ReleaseKey: %v", err)
	}
	if err := sys.PressKey("NotAKey"); err == nil {
		t.Fatal("PressKey with an unknown name should return an error")
	}
}

func TestAmstradCpcLoadDiskRejectsBadImage(t *testing.T) {
	sys := newTestSystem(t)
	if err := sys.LoadDisk(0, []byte{1, 2, 3}); err == nil {
		t.Fatal("LoadDisk with a too-short image should return an error")
	}
}

func TestAmstradCpcLoadDiskAcceptsValidImage(t *testing.T) {
	sys := newTestSystem(t)
	image := buildTestDisk(0xC1, []byte("HELLO"))
	if err := sys.LoadDisk(0, image); err != nil {
		t.Fatalf("LoadDisk: %v", err)
	}
}

func TestAmstradCpcDebugViewReflectsCPUState(t *testing.T) {
	sys := newTestSystem(t)
	view := sys.DebugView()
	if view.CPU.RegisterPC != sys.cpu.PC {
		t.Fatalf("DebugView().CPU.RegisterPC = %#04x, want %#04x", view.CPU.RegisterPC, sys.cpu.PC)
	}
	if len(view.Memory.RAM) == 0 {
		t.Fatal("DebugView().Memory.RAM should be a populated snapshot")
	}
}

func TestAmstradCpcSubscribeDebugEventsReceivesPublishedEvents(t *testing.T) {
	sys := newTestSystem(t)
	var got DebugEvent
	seen := false
	sys.SubscribeDebugEvents(func(e DebugEvent) {
		got = e
		seen = true
	})
	sys.debugBus.Publish(DebugEvent{Component: DebugComponentCPU})
	if !seen || got.Component != DebugComponentCPU {
		t.Fatal("subscriber registered via SubscribeDebugEvents should receive published events")
	}
}

func TestAmstradCpcDisassembleReturnsRequestedCount(t *testing.T) {
	sys := newTestSystem(t)
	lines := sys.Disassemble(5)
	if len(lines) != 5 {
		t.Fatalf("len(Disassemble(5)) = %d, want 5", len(lines))
	}
}

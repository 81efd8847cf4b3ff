package main

import "testing"

func newTestBus() *Bus {
	memory := NewMemory()
	crtc := NewCRTC()
	gateArray := NewGateArray(memory)
	psg := NewPSG(44100)
	keyboard := NewKeyboard()
	tape := NewTape()
	ppi := NewPPI(psg, keyboard, tape)
	fdc := NewFDC()
	screen := NewScreen()
	return NewBus(memory, crtc, gateArray, ppi, psg, fdc, keyboard, tape, screen)
}

func TestBusWriteGateArrayPortDecodesToGateArray(t *testing.T) {
	b := newTestBus()
	b.Write(0x4000, 0x05) // bit15 clear, bit14 set: gate-array function, pen-select 5
	if b.gateArray.selectedPen != 5 {
		t.Fatalf("gateArray.selectedPen = %d, want 5", b.gateArray.selectedPen)
	}
}

func TestBusWriteCRTCSelectAndWriteRegisterRoundTrip(t *testing.T) {
	b := newTestBus()
	b.Write(0xBC00, crtcHorizontalTotal) // subfunction 0b00: select register
	b.Write(0xBD00, 63)                  // subfunction 0b01: write register
	if b.crtc.registers[crtcHorizontalTotal] != 63 {
		t.Fatalf("crtc.registers[HorizontalTotal] = %d, want 63", b.crtc.registers[crtcHorizontalTotal])
	}
	got := b.Read(0xBF00) // subfunction 0b11: read register
	if got != 63 {
		t.Fatalf("Read(crtc register) = %d, want 63", got)
	}
}

func TestBusWritePPIControlThenPortC(t *testing.T) {
	b := newTestBus()
	b.Write(0xF300, 0x80) // subfunction 0b11: WriteControl, all ports output
	b.Write(0xF200, 0x07) // subfunction 0b10: WritePortC, select keyboard line 7
	if b.keyboard.activeLine != 7 {
		t.Fatalf("keyboard.activeLine = %d, want 7", b.keyboard.activeLine)
	}
	got := b.Read(0xF200) // subfunction 0b10: ReadPortC
	if got&0x0F != 0x07 {
		t.Fatalf("Read(ppi port C) = %#02x, want low nibble 0x07", got)
	}
}

func TestBusUndecodedReadReturnsFloatingBus(t *testing.T) {
	b := newTestBus()
	if got := b.Read(0xFFFF); got != 0xFF {
		t.Fatalf("Read(undecoded port) = %#02x, want 0xFF", got)
	}
}

func TestBusFDCStatusPortReportsReadyAfterLoadDisk(t *testing.T) {
	b := newTestBus()
	image := buildTestDisk(0xC1, []byte("HELLO"))
	if err := b.LoadDisk(0, image); err != nil {
		t.Fatalf("LoadDisk: %v", err)
	}
	if got := b.Read(0xFB7E); got&0x80 == 0 {
		t.Fatalf("Read(FDC status) = %#02x, RQM bit should be set when idle", got)
	}
}

func TestBusStepAdvancesPeripheralsWithoutPanicking(t *testing.T) {
	b := newTestBus()
	b.memory.Reset()
	b.gateArray.Reset()
	for i := 0; i < 1000; i++ {
		b.Step()
	}
}

func TestBusIRQPendingReflectsGateArray(t *testing.T) {
	b := newTestBus()
	if b.IRQPending() {
		t.Fatal("IRQPending() should be false immediately after construction")
	}
	b.gateArray.irqPending = true
	if !b.IRQPending() {
		t.Fatal("IRQPending() should reflect the gate array's pending flag")
	}
	b.AcknowledgeInterrupt()
	if b.IRQPending() {
		t.Fatal("IRQPending() should be false after AcknowledgeInterrupt")
	}
}

func TestBusPressAndReleaseKeyForwardToKeyboard(t *testing.T) {
	b := newTestBus()
	if err := b.PressKey("Space"); err != nil {
		t.Fatalf("PressKey: %v", err)
	}
	if err := b.ReleaseKey("Space"); err != nil {
		t.Fatalf("ReleaseKey: %v", err)
	}
	if err := b.PressKey("NotAKey"); err == nil {
		t.Fatal("PressKey with an unknown name should return an error")
	}
}

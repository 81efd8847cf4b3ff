package main

import "testing"

func TestScreenDimensionsMatchBuffer(t *testing.T) {
	s := NewScreen()
	w, h := s.Dimensions()
	if w != screenBufferWidth || h != screenBufferHeight {
		t.Fatalf("Dimensions() = (%d, %d), want (%d, %d)", w, h, screenBufferWidth, screenBufferHeight)
	}
	if len(s.RGBA()) != w*h*4 {
		t.Fatalf("len(RGBA()) = %d, want %d", len(s.RGBA()), w*h*4)
	}
}

func TestScreenWriteAdvancesGunPosition(t *testing.T) {
	s := NewScreen()
	s.Write(0)
	if s.gunPosition != 1 {
		t.Fatalf("gunPosition after one write = %d, want 1", s.gunPosition)
	}
}

func TestScreenWriteDoublesLineVertically(t *testing.T) {
	s := NewScreen()
	s.gunPosition = screenVisibleTop * screenVirtualWidth // first visible row, column 0
	s.Write(0x0C)                                         // hardware color 12 maps through the two palette tables
	want := firmwareColors[hardwareToFirmwareColors[0x0C]]
	if s.buffer[0] != want {
		t.Fatalf("buffer[0] = %#06x, want %#06x", s.buffer[0], want)
	}
	if s.buffer[screenBufferWidth] != want {
		t.Fatalf("buffer[screenBufferWidth] (doubled line) = %#06x, want %#06x", s.buffer[screenBufferWidth], want)
	}
}

func TestScreenWriteOutsideVisibleRectangleAdvancesGunButDropsPixel(t *testing.T) {
	s := NewScreen()
	s.Write(0x0C) // gun starts at row 0, above screenVisibleTop: out of bounds
	want := firmwareColors[hardwareToFirmwareColors[0x0C]]
	if s.buffer[0] == want {
		t.Fatal("Write outside the visible rectangle should not blit into the output buffer")
	}
	if s.gunPosition != 1 {
		t.Fatalf("gunPosition after an out-of-bounds write = %d, want 1 (gun still advances)", s.gunPosition)
	}
}

func TestScreenWriteDroppedWhileWaitingForVSync(t *testing.T) {
	s := NewScreen()
	s.waitingForVSync = true
	s.Write(0x01)
	if s.gunPosition != 0 {
		t.Fatalf("gunPosition after dropped write = %d, want 0", s.gunPosition)
	}
}

func TestScreenFillingBufferTriggersFrameReadyAndVSyncWait(t *testing.T) {
	s := NewScreen()
	total := screenVirtualWidth * screenVirtualHeight
	for i := 0; i < total; i++ {
		s.Write(byte(i % 27))
	}
	if !s.ConsumeFrameReady() {
		t.Fatal("ConsumeFrameReady() should report true once the virtual raster fills")
	}
	if !s.waitingForVSync {
		t.Fatal("screen should latch waitingForVSync once the virtual raster fills")
	}
}

func TestScreenConsumeFrameReadyClearsFlag(t *testing.T) {
	s := NewScreen()
	s.frameReady = true
	if !s.ConsumeFrameReady() {
		t.Fatal("first ConsumeFrameReady() should report true")
	}
	if s.ConsumeFrameReady() {
		t.Fatal("second ConsumeFrameReady() should report false")
	}
}

func TestScreenTriggerVSyncClearsWait(t *testing.T) {
	s := NewScreen()
	s.waitingForVSync = true
	s.TriggerVSync()
	if s.waitingForVSync {
		t.Fatal("waitingForVSync should be cleared by TriggerVSync")
	}
}

func TestScreenResetClearsBufferAndState(t *testing.T) {
	s := NewScreen()
	s.Write(0x01)
	s.waitingForVSync = true
	s.Reset()
	if s.gunPosition != 0 || s.waitingForVSync {
		t.Fatal("Reset should clear gunPosition and waitingForVSync")
	}
	for _, c := range s.buffer {
		if c != 0 {
			t.Fatal("Reset should clear the buffer")
		}
	}
}

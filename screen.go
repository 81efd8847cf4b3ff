// screen.go - Gate-array pixel sink: RGBA framebuffer, line-doubling and
// VSYNC-triggered frame emission (spec §4.6).
//
// Grounded on original_source/src/screen.rs: buffer dimensions, the exact
// FIRMWARE_COLORS and HARDWARE_TO_FIRMWARE_COLORS tables (reproduced, not
// re-derived, per SPEC_FULL.md's SUPPLEMENTED FEATURES), and the
// gun-position/line-doubling write sequencing. Restated without the
// Rust-side waiting_for_vsync field name but identical behaviour.
package main

const (
	// screenVirtualWidth/Height is the full raster the gun position walks,
	// including horizontal and vertical blanking/border.
	screenVirtualWidth  = 64 * 16
	screenVirtualHeight = 39 * 16

	// The visible rectangle actually blitted to the output buffer (spec's
	// out-of-bounds guard): writes outside this rectangle still advance the
	// gun but are dropped.
	screenVisibleLeft   = 0
	screenVisibleRight  = 48 * 16
	screenVisibleTop    = 4 * 16
	screenVisibleBottom = 36 * 16

	screenBufferWidth  = screenVisibleRight - screenVisibleLeft
	screenBufferHeight = screenVisibleBottom - screenVisibleTop
)

// firmwareColors is the CPC firmware's 27-entry RGB palette. Hardware
// colors (0-31, what the gate array's OUT instructions actually select)
// are mapped into this table via hardwareToFirmwareColors; some hardware
// codes alias the same firmware color, which is why the two tables have
// different lengths.
var firmwareColors = [27]uint32{
	0x000000, 0x000080, 0x0000ff, 0x800000, 0x800080, 0x8000ff,
	0xff0000, 0xff0080, 0xff00ff, 0x008000, 0x008080, 0x0080ff,
	0x808000, 0x808080, 0x8080ff, 0xff8000, 0xff8080, 0xff80ff,
	0x00ff00, 0x00ff80, 0x00ffff, 0x80ff00, 0x80ff80, 0x80ffff,
	0xffff00, 0xffff80, 0xffffff,
}

// hardwareToFirmwareColors maps the 32 hardware color indices the gate
// array's palette registers accept onto firmwareColors.
var hardwareToFirmwareColors = [32]int{
	13, 13, 19, 25, 1, 7, 10, 16, 7, 25, 24, 26, 6, 8, 15, 17,
	1, 19, 18, 20, 0, 2, 9, 11, 4, 22, 21, 23, 3, 5, 12, 14,
}

// Screen accumulates one RGBA frame's worth of pixels, written one hardware
// color at a time by the gate array as it decodes pixels from CRTC-supplied
// addresses, and emits a frame to the VideoSink on VSYNC.
type Screen struct {
	buffer          []uint32
	gunPosition     int
	waitingForVSync bool
	frameReady      bool
}

// NewScreen allocates a blank, visible-rectangle-sized screen buffer.
func NewScreen() *Screen {
	return &Screen{
		buffer: make([]uint32, screenBufferWidth*screenBufferHeight),
	}
}

// Reset clears the buffer and VSYNC-wait state.
func (s *Screen) Reset() {
	for i := range s.buffer {
		s.buffer[i] = 0
	}
	s.gunPosition = 0
	s.waitingForVSync = false
}

// Write plants one firmware color at the current electron-gun position and
// advances it, doubling every line vertically (the CPC's 16-line character
// cells are rendered as 16 physical scanlines by the real monitor, which
// this reproduces by writing the same pixel one raster-row below itself).
// The gun walks the full virtual raster (border and blanking included) but
// only pixels inside the visible rectangle are blitted to the output
// buffer; writes outside it still advance the gun but are dropped. Writes
// while waiting for VSYNC are dropped outright, matching real CRT blanking.
func (s *Screen) Write(hardwareColor byte) {
	if s.waitingForVSync {
		return
	}

	row := s.gunPosition / screenVirtualWidth
	col := s.gunPosition % screenVirtualWidth
	color := firmwareColors[hardwareToFirmwareColors[hardwareColor&0x1F]]

	s.blit(row, col, color)
	s.blit(row+1, col, color)

	s.gunPosition++
	if s.gunPosition%screenVirtualWidth == 0 {
		s.gunPosition += screenVirtualWidth
	}
	if s.gunPosition >= screenVirtualWidth*screenVirtualHeight {
		s.gunPosition = 0
		s.waitingForVSync = true
		s.frameReady = true
	}
}

// blit writes color into the output buffer if (row, col) in virtual-raster
// coordinates falls inside the visible rectangle; otherwise it is a no-op.
func (s *Screen) blit(row, col int, color uint32) {
	if row < screenVisibleTop || row >= screenVisibleBottom {
		return
	}
	if col < screenVisibleLeft || col >= screenVisibleRight {
		return
	}
	idx := (row-screenVisibleTop)*screenBufferWidth + (col - screenVisibleLeft)
	s.buffer[idx] = color
}

// ConsumeFrameReady reports whether a full frame finished since the last
// call, clearing the flag. The driver calls this once per Bus.Step to
// decide whether to push a frame to the VideoSink.
func (s *Screen) ConsumeFrameReady() bool {
	ready := s.frameReady
	s.frameReady = false
	return ready
}

// TriggerVSync clears the wait-for-VSync latch, allowing the next frame's
// writes through. Called by the gate array when the CRTC asserts VSYNC.
func (s *Screen) TriggerVSync() {
	s.waitingForVSync = false
}

// RGBA renders the current buffer as a byte slice in R,G,B,A order, the
// shape VideoSink.DrawFrame expects.
func (s *Screen) RGBA() []byte {
	out := make([]byte, len(s.buffer)*4)
	for i, c := range s.buffer {
		out[i*4+0] = byte(c >> 16)
		out[i*4+1] = byte(c >> 8)
		out[i*4+2] = byte(c)
		out[i*4+3] = 0xFF
	}
	return out
}

// Dimensions returns the framebuffer's pixel width and height.
func (s *Screen) Dimensions() (int, int) {
	return screenBufferWidth, screenBufferHeight
}

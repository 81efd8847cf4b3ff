//go:build !headless

// video_backend_ebiten.go - Ebiten video/input backend.
//
// Adapted from the engine's EbitenOutput: the frame-buffer-with-mutex
// Draw/Layout skeleton and the F11 fullscreen toggle survive verbatim in
// spirit, but the interface it implements is now VideoSink (one RGBA
// buffer per frame, spec §6's video sink boundary) instead of the generic
// multi-backend VideoOutput, keyboard input now drives Driver.PressKey/
// ReleaseKey by CPC key name instead of emitting a terminal byte stream,
// and the clipboard-paste path is dropped entirely (no terminal to paste
// into on this machine).
package main

import (
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// EbitenOutput is a VideoSink backed by an Ebiten window, also responsible
// for translating host key events into CPC key presses on the driver it
// was constructed with.
type EbitenOutput struct {
	driver *Driver

	width, height int
	scale         int
	fullscreen    bool

	window      *ebiten.Image
	frameBuffer []byte
	bufferMutex sync.RWMutex

	pressed map[ebiten.Key]bool
	overlay *DebugOverlay
}

// NewEbitenOutput returns a VideoSink that forwards key events to driver.
func NewEbitenOutput(driver *Driver) *EbitenOutput {
	return &EbitenOutput{
		driver:  driver,
		scale:   2,
		pressed: make(map[ebiten.Key]bool),
		overlay: NewDebugOverlay(),
	}
}

// DrawFrame implements VideoSink: it is called by the emulation core once
// per completed raster.
func (eo *EbitenOutput) DrawFrame(buffer []byte, width, height int) {
	eo.bufferMutex.Lock()
	defer eo.bufferMutex.Unlock()
	if eo.width != width || eo.height != height {
		eo.width, eo.height = width, height
		eo.frameBuffer = make([]byte, width*height*4)
		eo.window = nil
	}
	copy(eo.frameBuffer, buffer)
}

// Run starts the Ebiten window and blocks until it is closed. It does not
// step the machine itself: system_run.go drives emulation on its own
// goroutine. Callers that want headless operation (tests, zexdoc mode)
// simply never call this.
func (eo *EbitenOutput) Run(title string) error {
	ebiten.SetWindowTitle(title)
	ebiten.SetWindowResizable(true)
	ebiten.SetVsyncEnabled(true)
	return ebiten.RunGame(eo)
}

func (eo *EbitenOutput) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyF11) {
		eo.fullscreen = !eo.fullscreen
		ebiten.SetFullscreen(eo.fullscreen)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF12) {
		eo.overlay.Toggle()
	}
	eo.handleKeyboardInput()
	return nil
}

func (eo *EbitenOutput) Draw(screen *ebiten.Image) {
	eo.bufferMutex.RLock()
	defer eo.bufferMutex.RUnlock()
	if eo.window == nil && eo.width > 0 && eo.height > 0 {
		eo.window = ebiten.NewImage(eo.width, eo.height)
	}
	if eo.window == nil {
		return
	}
	eo.window.WritePixels(eo.frameBuffer)
	screen.DrawImage(eo.window, nil)

	if eo.overlay.Enabled() {
		view := eo.driver.DebugView()
		overlayImage := eo.overlay.Render(view)
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Translate(8, 8)
		screen.DrawImage(overlayImage, op)
	}
}

func (eo *EbitenOutput) Layout(_, _ int) (int, int) {
	if eo.width == 0 || eo.height == 0 {
		return 640, 480
	}
	return eo.width, eo.height
}

// ebitenKeyToCPC maps host keyboard keys onto the CPC's named key matrix
// positions (keyNames in keyboard.go), covering the common alphanumeric
// and editing keys a user actually reaches for.
var ebitenKeyToCPC = map[ebiten.Key]string{
	ebiten.KeyA: "A", ebiten.KeyB: "B", ebiten.KeyC: "C", ebiten.KeyD: "D",
	ebiten.KeyE: "E", ebiten.KeyF: "F", ebiten.KeyG: "G", ebiten.KeyH: "H",
	ebiten.KeyI: "I", ebiten.KeyJ: "J", ebiten.KeyK: "K", ebiten.KeyL: "L",
	ebiten.KeyM: "M", ebiten.KeyN: "N", ebiten.KeyO: "O", ebiten.KeyP: "P",
	ebiten.KeyQ: "Q", ebiten.KeyR: "R", ebiten.KeyS: "S", ebiten.KeyT: "T",
	ebiten.KeyU: "U", ebiten.KeyV: "V", ebiten.KeyW: "W", ebiten.KeyX: "X",
	ebiten.KeyY: "Y", ebiten.KeyZ: "Z",

	ebiten.Key0: "Key0", ebiten.Key1: "Key1", ebiten.Key2: "Key2", ebiten.Key3: "Key3",
	ebiten.Key4: "Key4", ebiten.Key5: "Key5", ebiten.Key6: "Key6", ebiten.Key7: "Key7",
	ebiten.Key8: "Key8", ebiten.Key9: "Key9",

	ebiten.KeyEnter:      "Enter",
	ebiten.KeySpace:      "Space",
	ebiten.KeyTab:        "Tab",
	ebiten.KeyEscape:     "Escape",
	ebiten.KeyBackspace:  "Delete",
	ebiten.KeyCapsLock:   "CapsLock",
	ebiten.KeyShiftLeft:  "ShiftLeft",
	ebiten.KeyShiftRight: "ShiftRight",
	ebiten.KeyControlLeft: "Control",
	ebiten.KeyControlRight: "Control",
	ebiten.KeyArrowUp:    "ArrowUp",
	ebiten.KeyArrowDown:  "ArrowDown",
	ebiten.KeyArrowLeft:  "ArrowLeft",
	ebiten.KeyArrowRight: "ArrowRight",
	ebiten.KeyComma:      "Comma",
	ebiten.KeyPeriod:     "Period",
	ebiten.KeySlash:      "Slash",
	ebiten.KeySemicolon:  "Semicolon",
	ebiten.KeyMinus:      "Minus",
	ebiten.KeyBackslash:  "Backslash",
	ebiten.KeyBracketLeft:  "BracketLeft",
	ebiten.KeyBracketRight: "BracketRight",
}

func (eo *EbitenOutput) handleKeyboardInput() {
	for key, name := range ebitenKeyToCPC {
		switch {
		case inpututil.IsKeyJustPressed(key):
			eo.driver.PressKey(name)
			eo.pressed[key] = true
		case inpututil.IsKeyJustReleased(key):
			eo.driver.ReleaseKey(name)
			delete(eo.pressed, key)
		}
	}
}

//go:build !headless

// debug_overlay.go - ebiten debug text overlay.
//
// Grounded on debug_ioview.go's register-table concept, rendered onto the
// Ebiten window the way the engine's own GUI overlays status text: a
// monospace bitmap font (golang.org/x/image/font/basicfont, the same
// dependency family the engine's go.mod carries for text rendering) drawn
// directly onto the backbuffer via font.Drawer, no TrueType rasterizer
// needed for a fixed-width debug panel.
package main

import (
	"fmt"
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// DebugOverlay renders a CpuDebugView as a small text panel over the
// running machine's frame, toggled independently of the emulation state.
type DebugOverlay struct {
	enabled bool
	canvas  *image.RGBA
	overlay *ebiten.Image
}

// NewDebugOverlay returns a disabled overlay; call Toggle to show it.
func NewDebugOverlay() *DebugOverlay {
	return &DebugOverlay{}
}

// Toggle flips overlay visibility, wired to a host key in EbitenOutput.
func (d *DebugOverlay) Toggle() {
	d.enabled = !d.enabled
}

// Enabled reports whether the overlay should be drawn this frame.
func (d *DebugOverlay) Enabled() bool {
	return d.enabled
}

// Render draws view's register state into an ebiten.Image sized to fit the
// given line count, for EbitenOutput.Draw to composite on top of the
// machine's raster output. The image is reused across calls while its size
// is unchanged.
func (d *DebugOverlay) Render(view SystemDebugView) *ebiten.Image {
	lines := []string{
		fmt.Sprintf("PC=%04X SP=%04X AF=%02X%02X", view.CPU.RegisterPC, view.CPU.RegisterSP, view.CPU.RegisterA, view.CPU.RegisterF),
		fmt.Sprintf("BC=%02X%02X DE=%02X%02X HL=%02X%02X", view.CPU.RegisterB, view.CPU.RegisterC, view.CPU.RegisterD, view.CPU.RegisterE, view.CPU.RegisterH, view.CPU.RegisterL),
		fmt.Sprintf("IX=%02X%02X IY=%02X%02X IM=%d", view.CPU.RegisterIXH, view.CPU.RegisterIXL, view.CPU.RegisterIYH, view.CPU.RegisterIYL, view.CPU.InterruptMode),
		fmt.Sprintf("clock=%d", view.MasterClock),
	}

	const lineHeight = 14
	width, height := 220, lineHeight*len(lines)+6
	if d.canvas == nil || d.canvas.Bounds().Dx() != width || d.canvas.Bounds().Dy() != height {
		d.canvas = image.NewRGBA(image.Rect(0, 0, width, height))
	}
	bg := color.RGBA{0, 0, 0, 200}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			d.canvas.Set(x, y, bg)
		}
	}

	drawer := &font.Drawer{
		Dst:  d.canvas,
		Src:  image.NewUniform(color.RGBA{0, 255, 0, 255}),
		Face: basicfont.Face7x13,
	}
	for i, line := range lines {
		drawer.Dot = fixed.P(4, lineHeight*(i+1))
		drawer.DrawString(line)
	}

	if d.overlay == nil || d.overlay.Bounds().Dx() != width || d.overlay.Bounds().Dy() != height {
		d.overlay = ebiten.NewImageFromImage(d.canvas)
	} else {
		d.overlay.WritePixels(d.canvas.Pix)
	}
	return d.overlay
}

//go:build !headless

// audio_backend_oto.go - Oto v3 audio output implementation.
//
// Adapted from the engine's OtoPlayer: same oto.NewContext/NewPlayer setup
// and the Read-callback-pulls-samples shape, but the atomic.Pointer[SoundChip]
// hot path (built for a chip that free-runs on its own goroutine) is
// replaced with a plain mutex-guarded ring buffer, since this machine's PSG
// is a core component stepped synchronously by the emulation loop (spec
// §5's single-threaded rule) and pushes samples into this sink rather than
// being polled from it.
package main

import (
	"math"
	"sync"

	"github.com/ebitengine/oto/v3"
)

const audioRingCapacity = 1 << 14 // comfortably covers oto's largest typical read at 44.1kHz

// OtoPlayer is an AudioSink backed by an Oto player pulling from a ring
// buffer the emulation loop fills via AddSample.
type OtoPlayer struct {
	ctx    *oto.Context
	player *oto.Player

	sampleRate int

	mutex   sync.Mutex
	ring    [audioRingCapacity]float32
	head    int
	tail    int
	count   int
	playing bool
}

// NewOtoPlayer opens an Oto context at sampleRate and returns a ready
// AudioSink.
func NewOtoPlayer(sampleRate int) (*OtoPlayer, error) {
	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: 1,
		Format:       oto.FormatFloat32LE,
		BufferSize:   4,
	})
	if err != nil {
		return nil, err
	}
	<-ready

	op := &OtoPlayer{ctx: ctx, sampleRate: sampleRate}
	op.player = ctx.NewPlayer(op)
	return op, nil
}

// Read implements io.Reader for Oto's pull-based player, draining the ring
// buffer (or emitting silence once it runs dry, rather than blocking the
// audio thread on the emulation loop).
func (op *OtoPlayer) Read(p []byte) (int, error) {
	op.mutex.Lock()
	defer op.mutex.Unlock()

	samples := len(p) / 4
	for i := 0; i < samples; i++ {
		var sample float32
		if op.count > 0 {
			sample = op.ring[op.tail]
			op.tail = (op.tail + 1) % audioRingCapacity
			op.count--
		}
		bits := math.Float32bits(sample)
		p[i*4+0] = byte(bits)
		p[i*4+1] = byte(bits >> 8)
		p[i*4+2] = byte(bits >> 16)
		p[i*4+3] = byte(bits >> 24)
	}
	return len(p), nil
}

// GetSampleRate implements AudioSink.
func (op *OtoPlayer) GetSampleRate() (float32, bool) {
	return float32(op.sampleRate), true
}

// PlayAudio implements AudioSink, starting playback if not already running.
func (op *OtoPlayer) PlayAudio() {
	op.mutex.Lock()
	defer op.mutex.Unlock()
	if !op.playing {
		op.player.Play()
		op.playing = true
	}
}

// PauseAudio implements AudioSink.
func (op *OtoPlayer) PauseAudio() {
	op.mutex.Lock()
	defer op.mutex.Unlock()
	if op.playing {
		op.player.Pause()
		op.playing = false
	}
}

// AddSample implements AudioSink: it is called once per Bus.Step from the
// (single-threaded) emulation loop, so the mutex here only ever contends
// with Oto's own playback goroutine, never with another core component.
func (op *OtoPlayer) AddSample(sample float32) {
	op.mutex.Lock()
	defer op.mutex.Unlock()
	if op.count >= audioRingCapacity {
		return // drop the sample rather than block the emulation loop
	}
	op.ring[op.head] = sample
	op.head = (op.head + 1) % audioRingCapacity
	op.count++
}

// Close releases the player and context.
func (op *OtoPlayer) Close() {
	op.mutex.Lock()
	defer op.mutex.Unlock()
	if op.player != nil {
		op.player.Close()
	}
}

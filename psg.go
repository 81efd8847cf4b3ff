// psg.go - AY-3-8912-compatible programmable sound generator (spec §4.9).
//
// The envelope state machine (continue/attack/alternate/hold decoding,
// 16-step ramp with hold-latch) is adapted from the engine's
// psg_engine.go, which implements the same AY/YM envelope generator for
// music-format playback; here it drives three tone generators plus shared
// noise directly into an output sample rather than into a separate
// SoundChip abstraction, since the CPC's PSG has no downstream mixer chip
// of its own.
package main

const (
	psgRegisterCount = 14
	psgChannelCount  = 3
)

// PSG register indices.
const (
	psgRegToneALo = iota
	psgRegToneAHi
	psgRegToneBLo
	psgRegToneBHi
	psgRegToneCLo
	psgRegToneCHi
	psgRegNoisePeriod
	psgRegMixer
	psgRegVolA
	psgRegVolB
	psgRegVolC
	psgRegEnvPeriodLo
	psgRegEnvPeriodHi
	psgRegEnvShape
)

// PSG is the AY-3-8912: 3 tone channels, a shared noise generator and one
// envelope generator, register-addressed through PPI port A under the
// PSG-function protocol decoded in ppi.go.
type PSG struct {
	clockHz    uint32
	sampleRate int

	regs          [psgRegisterCount]byte
	selectedReg   byte

	toneCounter [psgChannelCount]uint32
	toneState   [psgChannelCount]bool

	noiseCounter uint32
	noiseShift   uint32

	envPeriodSamples float64
	envSampleCounter float64
	envLevel         int
	envDirection     int
	envContinue      bool
	envAlternate     bool
	envAttack        bool
	envHoldRequest   bool
	envHoldActive    bool
}

// NewPSG constructs a PSG clocked as the CPC wires it: 1 MHz, derived from
// the same master clock as the CRTC's character rate.
func NewPSG(sampleRate int) *PSG {
	p := &PSG{
		clockHz:    1_000_000,
		sampleRate: sampleRate,
		noiseShift: 1,
	}
	p.updateEnvPeriod()
	return p
}

// Reset silences all channels and clears register state.
func (p *PSG) Reset() {
	p.regs = [psgRegisterCount]byte{}
	p.selectedReg = 0
	p.toneCounter = [psgChannelCount]uint32{}
	p.toneState = [psgChannelCount]bool{}
	p.noiseCounter = 0
	p.noiseShift = 1
	p.envLevel = 0
	p.envDirection = 1
	p.updateEnvPeriod()
}

// SelectRegister latches which register subsequent reads/writes address
// (PPI function "select").
func (p *PSG) SelectRegister(reg byte) {
	p.selectedReg = reg & 0x0F
}

// ReadSelectedRegister returns the currently selected register's value
// (PPI function "read").
func (p *PSG) ReadSelectedRegister() byte {
	if int(p.selectedReg) >= psgRegisterCount {
		return 0xFF
	}
	return p.regs[p.selectedReg]
}

// WriteSelectedRegister stores to the currently selected register (PPI
// function "write"), re-deriving envelope timing/shape when the affected
// register changes them.
func (p *PSG) WriteSelectedRegister(value byte) {
	reg := p.selectedReg
	if int(reg) >= psgRegisterCount {
		return
	}
	p.regs[reg] = value
	switch reg {
	case psgRegEnvPeriodLo, psgRegEnvPeriodHi:
		p.updateEnvPeriod()
	case psgRegEnvShape:
		p.resetEnvelope()
	}
}

func (p *PSG) updateEnvPeriod() {
	period := uint16(p.regs[psgRegEnvPeriodLo]) | uint16(p.regs[psgRegEnvPeriodHi])<<8
	if period == 0 {
		period = 1
	}
	p.envPeriodSamples = float64(p.sampleRate) * 256.0 * float64(period) / float64(p.clockHz)
	if p.envPeriodSamples <= 0 {
		p.envPeriodSamples = 1
	}
}

func (p *PSG) resetEnvelope() {
	shape := p.regs[psgRegEnvShape] & 0x0F
	p.envContinue = shape&0x08 != 0
	p.envAttack = shape&0x04 != 0
	p.envAlternate = shape&0x02 != 0
	p.envHoldRequest = shape&0x01 != 0
	p.envHoldActive = false
	if p.envAttack {
		p.envLevel = 0
		p.envDirection = 1
	} else {
		p.envLevel = 15
		p.envDirection = -1
	}
}

func (p *PSG) advanceEnvelope() {
	p.envSampleCounter++
	if p.envSampleCounter < p.envPeriodSamples {
		return
	}
	p.envSampleCounter -= p.envPeriodSamples
	if p.envHoldActive {
		return
	}

	p.envLevel += p.envDirection
	if p.envLevel > 15 {
		p.envLevel = 15
	}
	if p.envLevel < 0 {
		p.envLevel = 0
	}

	if p.envLevel == 0 || p.envLevel == 15 {
		if !p.envContinue {
			p.envLevel = 0
			p.envHoldActive = true
			return
		}
		if p.envHoldRequest {
			p.envHoldActive = true
			if p.envAlternate {
				if p.envDirection > 0 {
					p.envLevel = 0
				} else {
					p.envLevel = 15
				}
			}
			return
		}
		if p.envAlternate {
			p.envDirection = -p.envDirection
		}
		if p.envDirection > 0 {
			p.envLevel = 0
		} else {
			p.envLevel = 15
		}
	}
}

// channelLevel returns channel ch's 0-15 linear output level for this
// sample: the envelope level if bit 4 of its volume register is set,
// otherwise its fixed 4-bit volume.
func (p *PSG) channelLevel(ch int) int {
	vol := p.regs[psgRegVolA+ch]
	if vol&0x10 != 0 {
		return p.envLevel
	}
	return int(vol & 0x0F)
}

// ayVolumeTable is the AY-3-8912's approximately-logarithmic 16-step DAC
// curve (3dB/step), matching the real chip's non-linear volume response.
var ayVolumeTable = [16]float32{
	0.0, 0.0125, 0.0180, 0.0248, 0.0380, 0.0573, 0.0845, 0.1280,
	0.1845, 0.2810, 0.3997, 0.5810, 0.7467, 0.8720, 0.9490, 1.0,
}

// Sample advances the PSG by one output sample and returns a mono value in
// [-1, 1], mixing the three tone/noise channels per the mixer register's
// enable bits.
func (p *PSG) Sample() float32 {
	p.advanceEnvelope()

	mixer := p.regs[psgRegMixer]
	toneEnabled := [psgChannelCount]bool{mixer&0x01 == 0, mixer&0x02 == 0, mixer&0x04 == 0}
	noiseEnabled := [psgChannelCount]bool{mixer&0x08 == 0, mixer&0x10 == 0, mixer&0x20 == 0}

	for ch := 0; ch < psgChannelCount; ch++ {
		period := uint32(p.regs[ch*2]) | uint32(p.regs[ch*2+1]&0x0F)<<8
		if period == 0 {
			period = 1
		}
		p.toneCounter[ch]++
		halfPeriod := p.toneSamplesPerHalfPeriod(period)
		if p.toneCounter[ch] >= halfPeriod {
			p.toneCounter[ch] = 0
			p.toneState[ch] = !p.toneState[ch]
		}
	}

	noisePeriod := uint32(p.regs[psgRegNoisePeriod] & 0x1F)
	if noisePeriod == 0 {
		noisePeriod = 1
	}
	p.noiseCounter++
	if p.noiseCounter >= p.toneSamplesPerHalfPeriod(noisePeriod) {
		p.noiseCounter = 0
		bit := (p.noiseShift ^ (p.noiseShift >> 3)) & 1
		p.noiseShift = (p.noiseShift >> 1) | (bit << 16)
	}
	noiseBit := p.noiseShift&1 != 0

	var mix float32
	for ch := 0; ch < psgChannelCount; ch++ {
		level := p.channelLevel(ch)
		active := (toneEnabled[ch] && p.toneState[ch]) || (noiseEnabled[ch] && noiseBit)
		if !toneEnabled[ch] && !noiseEnabled[ch] {
			active = true // channel fully disabled from the mixer still outputs DC level
		}
		if active {
			mix += ayVolumeTable[level]
		}
	}
	return (mix/float32(psgChannelCount))*2 - 1
}

func (p *PSG) toneSamplesPerHalfPeriod(period uint32) uint32 {
	samples := float64(p.sampleRate) * 8.0 * float64(period) / float64(p.clockHz)
	if samples < 1 {
		samples = 1
	}
	return uint32(samples)
}

package audio

import "github.com/nutcase/go-pcengine/pcengine/timing"

// Channel holds the state of one PSG voice: 12-bit period, control and
// balance bytes, the fixed-point phase accumulator walking the 32-entry
// waveform, and for channels 4-5 the 18-bit noise LFSR.
type Channel struct {
	frequency    uint16
	phaseStep    uint32
	control      uint8
	balance      uint8
	noiseControl uint8
	phase        uint32
	wavePos      uint8
	waveWritePos uint8
	ddaSample    uint8
	noiseLFSR    uint32
	noisePhase   uint32
}

func defaultChannel() Channel {
	return Channel{
		phaseStep: 1,
		balance:   0xFF,
		ddaSample: 0x10,
		noiseLFSR: 1,
	}
}

// PSG is the six-channel sound generator plus its interval timer.
// Registers are addressed directly by the bus (low address bits of the
// $0800 page select the register).
type PSG struct {
	regs           [regCount]uint8
	currentChannel int
	mainBalance    uint8
	lfoFrequency   uint8
	lfoControl     uint8

	channels    [channelCount]Channel
	waveformRAM [channelCount * waveSize]uint8

	// timer state
	accumulator uint32
	irqPending  bool

	lpfState float64

	// sample batching
	sampleCycles uint64 // master-cycle accumulator toward the next sample, 16.16
	samples      []int16
	batchSize    int
	channelMute  [channelCount]bool

	// TimerInterruptHandler is invoked when the 13-bit timer underflows
	// with interrupts enabled (shares the TIRQ line with the CPU timer).
	TimerInterruptHandler func()
}

// masterCyclesPerSample is the master-clock interval between output
// samples, in 16.16 fixed point to avoid drift.
const masterCyclesPerSample = (uint64(timing.MasterClockHz) << 16) / timing.AudioSampleRate

// New returns a PSG in its power-on state.
func New() *PSG {
	p := &PSG{}
	p.Reset()
	return p
}

// Reset restores the power-on state: all channels keyed off, balances
// wide open, timer disabled.
func (p *PSG) Reset() {
	p.regs = [regCount]uint8{}
	p.currentChannel = 0
	p.mainBalance = 0xFF
	p.lfoFrequency = 0
	p.lfoControl = 0
	for i := range p.channels {
		p.channels[i] = defaultChannel()
	}
	p.waveformRAM = [channelCount * waveSize]uint8{}
	p.accumulator = 0
	p.irqPending = false
	p.lpfState = 0
	p.sampleCycles = 0
	p.samples = p.samples[:0]
	if p.batchSize == 0 {
		p.batchSize = 1
	}
}

// SetBatchSize controls how many samples TakeSamples releases at once.
func (p *PSG) SetBatchSize(n int) {
	if n < 1 {
		n = 1
	}
	p.batchSize = n
}

// ReadRegister implements the bus read side; index is the low address
// bits of the PSG page.
func (p *PSG) ReadRegister(index uint16) uint8 {
	return p.regs[index%regCount]
}

// WriteRegister implements the bus write side with the per-register
// side effects (frequency recompute, key-on edge, waveform upload).
func (p *PSG) WriteRegister(index uint16, value uint8) {
	reg := int(index % regCount)
	p.regs[reg] = value

	switch reg {
	case regChSelect:
		ch := int(value & 0x07)
		if ch >= channelCount {
			ch = channelCount - 1
		}
		p.currentChannel = ch
	case regMainBalance:
		p.mainBalance = value
	case regFreqLo:
		ch := &p.channels[p.currentChannel]
		ch.frequency = ch.frequency&0x0F00 | uint16(value)
		ch.phaseStep = phaseStepForPeriod(ch.frequency)
	case regFreqHi:
		ch := &p.channels[p.currentChannel]
		ch.frequency = ch.frequency&0x00FF | uint16(value&0x0F)<<8
		ch.phaseStep = phaseStepForPeriod(ch.frequency)
	case regChControl:
		ch := &p.channels[p.currentChannel]
		previous := ch.control
		ch.control = value
		if previous&chCtrlDDA != 0 && value&chCtrlDDA == 0 {
			// clearing DDA resets the waveform pointers
			ch.waveWritePos = 0
			ch.wavePos = 0
		}
		if previous&chCtrlKeyOn == 0 && value&chCtrlKeyOn != 0 {
			ch.phase = 0
			ch.wavePos = ch.waveWritePos
			ch.noisePhase = 0
			ch.noiseLFSR = 1
		}
	case regChBalance:
		p.channels[p.currentChannel].balance = value
	case regWaveData:
		p.writeWaveData(value)
	case regNoiseCtrl:
		if p.currentChannel >= 4 {
			p.channels[p.currentChannel].noiseControl = value
		}
	case regLFOFreq:
		p.lfoFrequency = value
	case regLFOCtrl:
		p.lfoControl = value
	case regTimerLo, regTimerHi:
		p.accumulator = 0
	case regTimerCtrl:
		if value&ctrlEnable == 0 {
			p.irqPending = false
		}
	}
}

// writeWaveData handles the $0806 sample port: in DDA mode the value is
// the live sample; with KEY off it lands in waveform RAM. Games upload
// wave tables with KEY off and DDA toggled either way, so the RAM write
// is gated on KEY alone.
func (p *PSG) writeWaveData(value uint8) {
	ch := &p.channels[p.currentChannel]
	sample := value & 0x1F
	if ch.control&chCtrlDDA != 0 {
		ch.ddaSample = sample
	}
	if ch.control&chCtrlKeyOn == 0 {
		pos := int(ch.waveWritePos) & (waveSize - 1)
		p.waveformRAM[p.currentChannel*waveSize+pos] = sample
		ch.waveWritePos = (ch.waveWritePos + 1) & 0x1F
	}
}

// timerPeriod returns the 13-bit interval timer period.
func (p *PSG) timerPeriod() uint32 {
	lo := uint32(p.regs[regTimerLo])
	hi := uint32(p.regs[regTimerHi] & 0x1F)
	return hi<<8 | lo
}

func (p *PSG) timerEnabled() bool {
	return p.timerPeriod() != 0 && p.regs[regTimerCtrl]&ctrlEnable != 0
}

// Tick advances the PSG by master clock cycles: the interval timer
// counts down, and output samples are synthesized at 44.1 kHz.
func (p *PSG) Tick(cycles int) {
	p.tickTimer(uint32(cycles))

	p.sampleCycles += uint64(cycles) << 16
	for p.sampleCycles >= masterCyclesPerSample {
		p.sampleCycles -= masterCyclesPerSample
		p.samples = append(p.samples, p.generateSample())
	}
}

func (p *PSG) tickTimer(cycles uint32) {
	if !p.timerEnabled() || p.irqPending {
		return
	}
	p.accumulator += cycles
	period := p.timerPeriod()
	if p.accumulator >= period {
		p.accumulator %= period
		if p.regs[regTimerCtrl]&ctrlIRQEnable != 0 {
			p.irqPending = true
			if p.TimerInterruptHandler != nil {
				p.TimerInterruptHandler()
			}
		}
	}
}

// IRQPending reports whether the timer interrupt is outstanding.
func (p *PSG) IRQPending() bool { return p.irqPending }

// Acknowledge clears the timer interrupt.
func (p *PSG) Acknowledge() { p.irqPending = false }

// PendingSampleCount reports how many synthesized samples are queued.
func (p *PSG) PendingSampleCount() int { return len(p.samples) }

// TakeSamples transfers up to one batch of samples out of the queue,
// returning nil until a full batch is available.
func (p *PSG) TakeSamples() []int16 {
	if len(p.samples) < p.batchSize {
		return nil
	}
	batch := make([]int16, p.batchSize)
	copy(batch, p.samples)
	n := copy(p.samples, p.samples[p.batchSize:])
	p.samples = p.samples[:n]
	return batch
}

// generateSample advances every channel's oscillator and mixes one
// output sample.
func (p *PSG) generateSample() int16 {
	p.advanceWaveforms()

	var mix int32
	for i := 0; i < channelCount; i++ {
		if p.channelMute[i] {
			continue
		}
		mix += p.sampleChannel(i)
	}

	scaled := int32((int64(mix) * outputGain) >> 16)
	if scaled > 32767 {
		scaled = 32767
	} else if scaled < -32768 {
		scaled = -32768
	}
	p.lpfState += lpfAlpha * (float64(scaled) - p.lpfState)
	return int16(p.lpfState)
}

// advanceWaveforms steps each keyed-on channel's phase accumulator (or
// noise LFSR), applying the LFO to channel 0.
func (p *PSG) advanceWaveforms() {
	lfoMod := p.lfoModulation()
	lfoOn := p.lfoEnabled()

	for i := range p.channels {
		ch := &p.channels[i]
		if ch.control&chCtrlKeyOn == 0 || ch.control&chCtrlDDA != 0 {
			continue
		}

		if i >= 4 && ch.noiseControl&noiseEnable != 0 {
			p.advanceNoise(ch)
			continue
		}

		step := ch.phaseStep
		if step == 0 {
			step = 1
		}
		if i == 0 && lfoOn {
			effective := int32(ch.frequency) + lfoMod
			if effective < 0 {
				effective = 0
			} else if effective > 0x0FFF {
				effective = 0x0FFF
			}
			step = phaseStepForPeriod(uint16(effective))
		}

		phase := ch.phase + step
		advance := uint8(phase >> phaseFracBits)
		ch.phase = phase & phaseFracMask
		if advance != 0 {
			ch.wavePos = (ch.wavePos + advance) & (waveSize - 1)
		}
	}
}

// advanceNoise clocks the 18-bit LFSR (taps 0,1,11,12,17) at the rate
// selected by the noise-frequency field, through a 16-bit fixed-point
// accumulator. The LFSR self-heals to 1 if it ever reaches zero.
func (p *PSG) advanceNoise(ch *Channel) {
	nf := uint32(ch.noiseControl & noiseFreqMask)
	raw := uint64(31 - nf)
	period := raw * 128
	if raw == 0 {
		period = 64
	}
	step := (uint64(timing.PSGClockHz) << 16) / (period * timing.AudioSampleRate)
	if step == 0 {
		step = 1
	}

	ch.noisePhase += uint32(step)
	steps := int(ch.noisePhase >> 16)
	ch.noisePhase &= 0xFFFF

	for s := 0; s < steps; s++ {
		lfsr := ch.noiseLFSR
		feedback := (lfsr ^ lfsr>>1 ^ lfsr>>11 ^ lfsr>>12 ^ lfsr>>17) & 0x01
		ch.noiseLFSR = lfsr>>1 | feedback<<17
		if ch.noiseLFSR == 0 {
			ch.noiseLFSR = 1
		}
	}
}

// sampleChannel mixes one channel's current output in 16.16 fixed point,
// applying channel volume, channel balance and main balance as summed
// logarithmic attenuations.
func (p *PSG) sampleChannel(index int) int32 {
	ch := &p.channels[index]
	if ch.control&chCtrlKeyOn == 0 {
		return 0
	}

	var raw int32
	switch {
	case ch.control&chCtrlDDA != 0:
		raw = int32(ch.ddaSample) - 0x10
	case index >= 4 && ch.noiseControl&noiseEnable != 0:
		if ch.noiseLFSR&0x01 == 0 {
			raw = 0x0F
		} else {
			raw = -0x10
		}
	default:
		pos := int(ch.wavePos) & (waveSize - 1)
		raw = int32(p.waveformRAM[index*waveSize+pos]) - 0x10
	}
	if raw == 0 {
		return 0
	}

	al := 0x1F - ch.control&chCtrlVolumeMask
	balL := 0x1F - balanceScale[(ch.balance>>4)&0x0F]
	balR := 0x1F - balanceScale[ch.balance&0x0F]
	mainL := 0x1F - balanceScale[(p.mainBalance>>4)&0x0F]
	mainR := 0x1F - balanceScale[p.mainBalance&0x0F]

	volL := uint16(al) + uint16(balL) + uint16(mainL)
	if volL > 0x1F {
		volL = 0x1F
	}
	volR := uint16(al) + uint16(balR) + uint16(mainR)
	if volR > 0x1F {
		volR = 0x1F
	}

	left := int64(raw) * int64(volumeTable[volL])
	right := int64(raw) * int64(volumeTable[volR])
	return int32((left + right) / 2)
}

func (p *PSG) lfoEnabled() bool { return p.lfoControl&0x80 != 0 }

// lfoModulation derives channel 0's frequency offset from channel 1's
// waveform, scaled by the LFO control depth bits.
func (p *PSG) lfoModulation() int32 {
	if !p.lfoEnabled() {
		return 0
	}
	depthShift := uint(p.lfoControl & 0x03)
	speedBias := int32(p.lfoFrequency & 0x0F)
	ch1 := &p.channels[1]
	pos := int(ch1.wavePos) & (waveSize - 1)
	raw := int32(p.waveformRAM[waveSize+pos]) - 0x10
	return raw<<depthShift + speedBias
}

// Debug accessors.

// ChannelFrequency reports a channel's 12-bit period register.
func (p *PSG) ChannelFrequency(ch int) uint16 {
	return p.channels[ch%channelCount].frequency
}

// ChannelControl reports a channel's control byte.
func (p *PSG) ChannelControl(ch int) uint8 {
	return p.channels[ch%channelCount].control
}

// ChannelKeyOn reports whether a channel is keyed on.
func (p *PSG) ChannelKeyOn(ch int) bool {
	return p.channels[ch%channelCount].control&chCtrlKeyOn != 0
}

// NoiseLFSR reports a noise channel's shift-register state.
func (p *PSG) NoiseLFSR(ch int) uint32 {
	return p.channels[ch%channelCount].noiseLFSR
}

// WaveformByte reads back a waveform RAM entry.
func (p *PSG) WaveformByte(ch, index int) uint8 {
	return p.waveformRAM[(ch%channelCount)*waveSize+index&(waveSize-1)]
}

// ToggleChannel flips a channel's debug mute.
func (p *PSG) ToggleChannel(ch int) {
	if ch >= 0 && ch < channelCount {
		p.channelMute[ch] = !p.channelMute[ch]
	}
}

// SoloChannel mutes every channel except the given one.
func (p *PSG) SoloChannel(ch int) {
	for i := range p.channelMute {
		p.channelMute[i] = i != ch
	}
}

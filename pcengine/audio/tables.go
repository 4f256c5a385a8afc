// Package audio implements the HuC6280's integrated programmable sound
// generator: six wavetable channels (two with noise), LFO modulation of
// channel 0, logarithmic volume mixing and a 13-bit interval timer
// sharing the TIRQ line. Output is signed 16-bit mono at 44.1 kHz.
package audio

import (
	"math"

	"github.com/nutcase/go-pcengine/pcengine/timing"
)

const (
	regCount     = 32
	channelCount = 6
	waveSize     = 32

	regChSelect    = 0x00
	regMainBalance = 0x01
	regFreqLo      = 0x02
	regFreqHi      = 0x03
	regChControl   = 0x04
	regChBalance   = 0x05
	regWaveData    = 0x06
	regNoiseCtrl   = 0x07
	regLFOFreq     = 0x08
	regLFOCtrl     = 0x09
	regTimerLo     = 0x18
	regTimerHi     = 0x19
	regTimerCtrl   = 0x1A

	ctrlEnable    = 0x01
	ctrlIRQEnable = 0x02

	chCtrlVolumeMask = 0x1F
	chCtrlDDA        = 0x40
	chCtrlKeyOn      = 0x80

	noiseEnable   = 0x80
	noiseFreqMask = 0x1F

	phaseFracBits = 12
	phaseFracMask = (1 << phaseFracBits) - 1

	periodEntries = 0x1000

	// outputGain scales the 16.16 fixed-point six-channel mix into the
	// int16 range: six channels at max are 15*65536 each, and
	// (5_898_240 * 340) >> 16 = 30_600.
	outputGain = 340

	// lpfAlpha is the coefficient of the first-order IIR low-pass on the
	// output (~14 kHz cutoff at 44.1 kHz).
	lpfAlpha = 0.67
)

// volumeTable is the logarithmic volume curve indexed by attenuation
// level (0 = full, 31 = mute), about 1.5 dB per step, fixed-point with
// 16 fractional bits.
var volumeTable = buildVolumeTable()

// balanceScale maps a 4-bit balance register value to the 5-bit
// attenuation domain (0 stays muted, 1-15 scale to 3-31).
var balanceScale = buildBalanceScale()

// phaseStepTable holds the per-period fixed-point wave-position step at
// the 44.1 kHz output rate. Period 0 behaves as 4096.
var phaseStepTable = buildPhaseStepTable()

func buildVolumeTable() [32]int32 {
	var table [32]int32
	for level := 0; level < 32; level++ {
		switch level {
		case 31:
			table[level] = 0
		case 0:
			table[level] = 65536
		default:
			table[level] = int32(math.Pow(2, -0.25*float64(level)) * 65536)
		}
	}
	return table
}

func buildBalanceScale() [16]uint8 {
	var table [16]uint8
	for n := 1; n < 16; n++ {
		v := n*2 + 1
		if v > 31 {
			v = 31
		}
		table[n] = uint8(v)
	}
	return table
}

func buildPhaseStepTable() [periodEntries]uint32 {
	var table [periodEntries]uint32
	for period := 0; period < periodEntries; period++ {
		divider := uint64(period)
		if divider == 0 {
			divider = periodEntries
		}
		step := (uint64(timing.PSGClockHz) << phaseFracBits) /
			(divider * timing.AudioSampleRate)
		if step == 0 {
			step = 1
		}
		table[period] = uint32(step)
	}
	return table
}

func phaseStepForPeriod(period uint16) uint32 {
	return phaseStepTable[period&0x0FFF]
}

// Package debug groups the read-only accessors the core exposes for
// external tooling: VRAM and SATB words, VDC registers and status, VCE
// palette entries, per-line scroll history, CPU registers and PSG
// channel state. Nothing here mutates emulation state.
package debug

import (
	"github.com/nutcase/go-pcengine/pcengine/audio"
	"github.com/nutcase/go-pcengine/pcengine/cpu"
	"github.com/nutcase/go-pcengine/pcengine/memory"
	"github.com/nutcase/go-pcengine/pcengine/video"
)

// Inspector is a read-only window into a running console.
type Inspector struct {
	cpu *cpu.CPU
	bus *memory.Bus
	vdc *video.VDC
	vce *video.VCE
	psg *audio.PSG
}

// NewInspector wraps the given components.
func NewInspector(c *cpu.CPU, b *memory.Bus, v *video.VDC, e *video.VCE, p *audio.PSG) *Inspector {
	return &Inspector{cpu: c, bus: b, vdc: v, vce: e, psg: p}
}

// CPUState is a snapshot of the CPU registers.
type CPUState struct {
	A, X, Y, S, P uint8
	PC            uint16
	HighSpeed     bool
	Halted        bool
	Cycles        uint64
}

// CPU snapshots the processor registers.
func (i *Inspector) CPU() CPUState {
	return CPUState{
		A: i.cpu.A(), X: i.cpu.X(), Y: i.cpu.Y(),
		S: i.cpu.S(), P: i.cpu.P(), PC: i.cpu.PC(),
		HighSpeed: i.cpu.HighSpeed(),
		Halted:    i.cpu.Halted(),
		Cycles:    i.cpu.Cycles(),
	}
}

// VRAMWord reads a VRAM word.
func (i *Inspector) VRAMWord(index uint16) uint16 { return i.vdc.VRAMWord(index) }

// SATBWord reads a word of the sprite attribute table shadow.
func (i *Inspector) SATBWord(index int) uint16 { return i.vdc.SATBWord(index) }

// VDCRegister reads a VDC register (R00-R13).
func (i *Inspector) VDCRegister(r uint8) uint16 { return i.vdc.Register(r) }

// VDCStatus reads the latched status bits without clearing them.
func (i *Inspector) VDCStatus() uint8 { return i.vdc.Status() }

// Scanline reports the VDC's current line counter.
func (i *Inspector) Scanline() int { return i.vdc.Line() }

// LineShadow returns the scroll/control values a scanline was composed
// with, for raster-effect debugging.
func (i *Inspector) LineShadow(line int) video.LineShadow { return i.vdc.LineShadowAt(line) }

// PaletteWord reads a raw 9-bit VCE palette entry.
func (i *Inspector) PaletteWord(index uint16) uint16 { return i.vce.Palette(index) }

// PaletteRGB reads a palette entry expanded to 24-bit RGB.
func (i *Inspector) PaletteRGB(index uint16) uint32 { return i.vce.RGB(index) }

// WRAM reads a byte of work RAM.
func (i *Inspector) WRAM(offset uint16) uint8 { return i.bus.WRAM(offset) }

// MPR reads a bank register.
func (i *Inspector) MPR(page uint8) uint8 { return i.bus.MPR(page) }

// IRQMask reads the interrupt controller's disable mask.
func (i *Inspector) IRQMask() uint8 { return i.bus.IRQ.Mask() }

// IRQRequest reads the raw interrupt request bits.
func (i *Inspector) IRQRequest() uint8 { return i.bus.IRQ.Request() }

// PSGChannelKeyOn reports whether a PSG channel is keyed on.
func (i *Inspector) PSGChannelKeyOn(ch int) bool { return i.psg.ChannelKeyOn(ch) }

// PSGChannelFrequency reports a PSG channel's period register.
func (i *Inspector) PSGChannelFrequency(ch int) uint16 { return i.psg.ChannelFrequency(ch) }

// PSGWaveform reads back a waveform RAM sample.
func (i *Inspector) PSGWaveform(ch, index int) uint8 { return i.psg.WaveformByte(ch, index) }

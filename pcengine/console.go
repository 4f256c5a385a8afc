// Package pcengine emulates the PC Engine / TurboGrafx-16 core: the
// HuC6280 CPU and its integrated PSG and timer, the HuC6270 VDC, the
// HuC6260 VCE, and the bus gluing them together. The host drives Tick
// in a loop and polls TakeFrame/TakeAudioSamples.
package pcengine

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/nutcase/go-pcengine/pcengine/addr"
	"github.com/nutcase/go-pcengine/pcengine/audio"
	"github.com/nutcase/go-pcengine/pcengine/cpu"
	"github.com/nutcase/go-pcengine/pcengine/debug"
	"github.com/nutcase/go-pcengine/pcengine/memory"
	"github.com/nutcase/go-pcengine/pcengine/video"
)

// Console is the aggregate owning every sub-state; components hold
// narrow views of each other (the VDC sees the VCE for palette lookups,
// the CPU sees the bus) and nothing else.
type Console struct {
	log *slog.Logger

	bus *memory.Bus
	cpu *cpu.CPU
	vdc *video.VDC
	vce *video.VCE
	psg *audio.PSG

	frameCount uint64
}

// New wires up a console with no cartridge loaded.
func New() *Console {
	log := slog.Default()

	vce := video.NewVCE()
	vdc := video.NewVDC(vce, log)
	psg := audio.New()
	bus := memory.New(log)

	bus.VDC = vdc
	bus.VCE = vce
	bus.PSG = psg

	vdc.IRQHandler = func(assert bool) {
		if assert {
			bus.IRQ.Assert(addr.IRQ1)
		} else {
			bus.IRQ.Deassert(addr.IRQ1)
		}
	}

	c := &Console{
		log: log,
		bus: bus,
		cpu: cpu.New(bus, log),
		vdc: vdc,
		vce: vce,
		psg: psg,
	}
	return c
}

// NewWithFile creates a console and loads the HuCard at path.
func NewWithFile(path string) (*Console, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading HuCard: %w", err)
	}
	c := New()
	if err := c.LoadHuCard(data); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadHuCard attaches a ROM image and resets the machine.
func (c *Console) LoadHuCard(data []byte) error {
	cart, err := memory.NewCartridgeWithData(data)
	if err != nil {
		return err
	}
	c.bus.AttachCartridge(cart)
	c.Reset()
	return nil
}

// LoadCartRAM restores battery-backed cartridge RAM.
func (c *Console) LoadCartRAM(data []byte) {
	c.bus.Cartridge().LoadRAM(data)
}

// SaveCartRAM snapshots battery-backed cartridge RAM (nil if absent).
func (c *Console) SaveCartRAM() []byte {
	return c.bus.Cartridge().SaveRAM()
}

// Reset puts every component in its power-on state and vectors the CPU.
func (c *Console) Reset() {
	c.bus.Reset()
	c.vce.Reset()
	c.vdc.Reset()
	c.psg.Reset()
	c.cpu.Reset()
	c.frameCount = 0
}

// Tick executes one CPU instruction, then advances the VDC, PSG and
// timer by the master cycles it consumed. Device writes made by the
// instruction land before the peripherals advance, which is what lets
// raster-split effects hit the intended line. Returns the cycle count.
func (c *Console) Tick() uint32 {
	cycles := c.cpu.Step()

	c.vdc.Tick(cycles)
	c.psg.Tick(cycles)
	c.bus.Timer.Tick(cycles)

	// TIRQ is level-triggered and shared by the CPU timer and the PSG
	// timer; mirror the OR of both sources into the controller.
	if c.psg.IRQPending() || c.bus.Timer.IRQPending() {
		c.bus.IRQ.Assert(addr.TIRQ)
	} else {
		c.bus.IRQ.Deassert(addr.TIRQ)
	}

	return uint32(cycles)
}

// TakeFrame transfers the completed frame out of the core, or nil when
// none is ready. Exactly one frame becomes ready per emulated frame.
func (c *Console) TakeFrame() *video.FrameBuffer {
	fb := c.vdc.ConsumeFrame()
	if fb != nil {
		c.frameCount++
	}
	return fb
}

// RunFrame ticks until the next frame is complete and returns it.
func (c *Console) RunFrame() *video.FrameBuffer {
	for {
		c.Tick()
		if fb := c.TakeFrame(); fb != nil {
			return fb
		}
	}
}

// TakeAudioSamples releases one batch of 44.1 kHz mono samples, or nil
// until a batch has accumulated.
func (c *Console) TakeAudioSamples() []int16 {
	return c.psg.TakeSamples()
}

// SetAudioBatchSize controls how many samples each TakeAudioSamples
// call releases.
func (c *Console) SetAudioBatchSize(n int) { c.psg.SetBatchSize(n) }

// SetJoypadInput updates the pad state (active-high mask, see the
// memory.Joypad bit constants).
func (c *Console) SetJoypadInput(mask uint8) { c.bus.Joypad.SetInput(mask) }

// DisplayWidth reports the active pixel width of the current video mode.
func (c *Console) DisplayWidth() int { return c.vdc.DisplayWidth() }

// DisplayYOffset reports the first active framebuffer row.
func (c *Console) DisplayYOffset() int { return c.vdc.DisplayYOffset() }

// FrameCount reports how many frames have been taken since reset.
func (c *Console) FrameCount() uint64 { return c.frameCount }

// Debug returns the read-only inspection surface.
func (c *Console) Debug() *debug.Inspector {
	return debug.NewInspector(c.cpu, c.bus, c.vdc, c.vce, c.psg)
}

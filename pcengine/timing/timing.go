// Package timing holds the master-clock constants shared by the CPU,
// VDC and PSG, plus an optional host-side frame limiter.
package timing

import "time"

const (
	// MasterClockHz is the HuC6280 master clock. High-speed mode costs
	// 1 master cycle per CPU cycle, low-speed mode costs 4 — the core
	// always deals in master cycles so every component shares a unit.
	MasterClockHz = 21_477_270

	// AudioSampleRate is the fixed PSG output rate.
	AudioSampleRate = 44_100

	// PSGClockHz is the sound-generator clock, half the 7.16 MHz CPU
	// input clock.
	PSGClockHz = 7_159_090 / 2

	// ScanlinesPerFrameNTSC is the nominal (262/263-line) NTSC frame
	// height. The VDC does not read it: its frame length comes from the
	// VPR/VDW/VCR registers.
	ScanlinesPerFrameNTSC = 263

	// FramebufferHeight is the canonical internal framebuffer height
	// (active display area), independent of border/vblank bookkeeping.
	FramebufferHeight = 240
)

// Limiter paces host-side frame execution; the core itself never
// sleeps (tick() always runs to completion immediately).
type Limiter interface {
	WaitForNextFrame()
	Reset()
}

// NewNoOpLimiter returns a limiter that never blocks, for headless/batch runs.
func NewNoOpLimiter() Limiter { return &noOpLimiter{} }

type noOpLimiter struct{}

func (n *noOpLimiter) WaitForNextFrame() {}
func (n *noOpLimiter) Reset()            {}

// TickerLimiter paces frame execution using a time.Ticker, approximating
// the ~59.8Hz NTSC PC Engine frame rate.
type TickerLimiter struct {
	ticker *time.Ticker
}

// NewTickerLimiter creates a limiter targeting the NTSC frame rate.
func NewTickerLimiter() *TickerLimiter {
	fps := 59.826
	return &TickerLimiter{ticker: time.NewTicker(time.Duration(float64(time.Second) / fps))}
}

func (t *TickerLimiter) WaitForNextFrame() { <-t.ticker.C }
func (t *TickerLimiter) Reset()            {}
func (t *TickerLimiter) Stop()             { t.ticker.Stop() }

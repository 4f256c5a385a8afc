package main

import (
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/nutcase/go-pcengine/pcengine"
	"github.com/nutcase/go-pcengine/pcengine/memory"
	"github.com/nutcase/go-pcengine/pcengine/timing"
)

// terminalBackend paints the live framebuffer into the terminal using
// half-block cells (two pixels per cell) and a status line fed from the
// debug accessors. A cheap preview surface, not a real video device.
type terminalBackend struct {
	screen  tcell.Screen
	console *pcengine.Console
	limiter timing.Limiter
}

func newTerminalBackend(console *pcengine.Console) (*terminalBackend, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("initializing terminal: %w", err)
	}
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("initializing terminal: %w", err)
	}
	return &terminalBackend{
		screen:  screen,
		console: console,
		limiter: timing.NewTickerLimiter(),
	}, nil
}

// Run drives the console frame by frame until the user quits.
func (t *terminalBackend) Run() error {
	defer t.screen.Fini()

	events := make(chan tcell.Event, 16)
	quit := make(chan struct{})
	go t.screen.ChannelEvents(events, quit)

	var pad uint8
	for {
		select {
		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
					close(quit)
					return nil
				}
				pad = applyKey(pad, ev)
			case *tcell.EventResize:
				t.screen.Sync()
			}
		default:
		}

		t.console.SetJoypadInput(pad)
		frame := t.console.RunFrame()
		t.console.TakeAudioSamples() // drain; no audio device on this surface
		t.drawFrame(frame.ToSlice(), frame.Width())
		t.drawStatus()
		t.screen.Show()
		t.limiter.WaitForNextFrame()

		// buttons are momentary on a keyboard surface
		pad = 0
	}
}

func applyKey(pad uint8, ev *tcell.EventKey) uint8 {
	switch ev.Key() {
	case tcell.KeyUp:
		return pad | memory.JoypadUp
	case tcell.KeyDown:
		return pad | memory.JoypadDown
	case tcell.KeyLeft:
		return pad | memory.JoypadLeft
	case tcell.KeyRight:
		return pad | memory.JoypadRight
	case tcell.KeyEnter:
		return pad | memory.JoypadRun
	}
	switch ev.Rune() {
	case 'z':
		return pad | memory.JoypadII
	case 'x':
		return pad | memory.JoypadI
	case ' ':
		return pad | memory.JoypadSelect
	}
	return pad
}

// drawFrame downsamples the framebuffer into terminal cells, two rows
// of pixels per cell via the upper-half-block glyph.
func (t *terminalBackend) drawFrame(pixels []uint32, width int) {
	termW, termH := t.screen.Size()
	cellW := min(termW, width/2)
	cellH := min(termH-1, 120)

	for cy := 0; cy < cellH; cy++ {
		for cx := 0; cx < cellW; cx++ {
			// sample two vertically adjacent pixels, horizontally
			// decimated by 2 to approximate the aspect ratio
			x := cx * 2
			top := pixels[(cy*2)*512+x]
			bottom := pixels[(cy*2+1)*512+x]
			style := tcell.StyleDefault.
				Foreground(tcell.NewHexColor(int32(top))).
				Background(tcell.NewHexColor(int32(bottom)))
			t.screen.SetContent(cx, cy, '▀', nil, style)
		}
	}
}

// drawStatus renders a one-line dump of the debug accessors under the
// picture: raster line, VDC status, keyed-on PSG channels.
func (t *terminalBackend) drawStatus() {
	d := t.console.Debug()

	channels := ""
	for ch := 0; ch < 6; ch++ {
		if d.PSGChannelKeyOn(ch) {
			channels += fmt.Sprintf("%d", ch)
		} else {
			channels += "-"
		}
	}

	state := d.CPU()
	status := fmt.Sprintf("frame %d  line %3d  st %02X  pc %04X  psg %s  %s",
		t.console.FrameCount(), d.Scanline(), d.VDCStatus(), state.PC, channels,
		time.Now().Format("15:04:05"))

	_, termH := t.screen.Size()
	style := tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorBlack)
	for i, r := range status {
		t.screen.SetContent(i, termH-1, r, nil, style)
	}
}

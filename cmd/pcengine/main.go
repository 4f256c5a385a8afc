package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/urfave/cli"

	"github.com/nutcase/go-pcengine/pcengine"
)

func main() {
	app := cli.NewApp()
	app.Name = "pcengine"
	app.Description = "A PC Engine / TurboGrafx-16 emulator core"
	app.Usage = "pcengine [options] <ROM file>"
	app.Version = "1.0.0"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "rom",
			Usage: "Path to the HuCard ROM file",
		},
		cli.BoolFlag{
			Name:  "headless",
			Usage: "Run without a display for a fixed number of frames",
		},
		cli.IntFlag{
			Name:  "frames",
			Usage: "Number of frames to run in headless mode (required for headless)",
			Value: 0,
		},
		cli.IntFlag{
			Name:  "audio-batch",
			Usage: "Samples released per audio poll",
			Value: 1024,
		},
		cli.StringFlag{
			Name:  "cart-ram",
			Usage: "Path to a battery-RAM file to load and save back on exit",
		},
		cli.BoolFlag{
			Name:  "verbose",
			Usage: "Enable debug logging",
		},
	}
	app.Action = runEmulator

	if err := app.Run(os.Args); err != nil {
		slog.Error("Error running emulator", "error", err)
		os.Exit(1)
	}
}

func runEmulator(c *cli.Context) error {
	if c.Bool("verbose") {
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	romPath := c.String("rom")
	if romPath == "" {
		if c.NArg() > 0 {
			romPath = c.Args().Get(0)
		} else {
			cli.ShowAppHelp(c)
			return errors.New("no ROM path provided")
		}
	}

	console, err := pcengine.NewWithFile(romPath)
	if err != nil {
		return err
	}
	console.SetAudioBatchSize(c.Int("audio-batch"))

	ramPath := c.String("cart-ram")
	if ramPath != "" {
		if data, err := os.ReadFile(ramPath); err == nil {
			console.LoadCartRAM(data)
			slog.Info("Cart RAM loaded", "path", ramPath, "size", len(data))
		}
		defer saveCartRAM(console, ramPath)
	}

	if c.Bool("headless") {
		frames := c.Int("frames")
		if frames <= 0 {
			return errors.New("headless mode requires --frames with a positive value")
		}
		return runHeadless(console, frames)
	}

	backend, err := newTerminalBackend(console)
	if err != nil {
		return err
	}
	return backend.Run()
}

// runHeadless batches frames with no display, reporting audio cadence
// at the end. Useful for benchmarks and CI smoke runs.
func runHeadless(console *pcengine.Console, frames int) error {
	samples := 0
	for i := 0; i < frames; i++ {
		console.RunFrame()
		for batch := console.TakeAudioSamples(); batch != nil; batch = console.TakeAudioSamples() {
			samples += len(batch)
		}
	}
	fmt.Printf("ran %d frames, %d audio samples, width %d\n",
		frames, samples, console.DisplayWidth())
	return nil
}

func saveCartRAM(console *pcengine.Console, path string) {
	data := console.SaveCartRAM()
	if data == nil {
		return
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		slog.Error("Failed to save cart RAM", "path", path, "error", err)
	}
}

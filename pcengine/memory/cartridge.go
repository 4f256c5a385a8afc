// Package memory implements the HuC6280 bus: MPR bank translation, the
// HuCard cartridge, work RAM, the CPU-internal timer, the joypad shift
// register and the interrupt controller. The VDC, VCE and PSG hang off
// the bus as I/O-page devices.
package memory

import (
	"errors"
	"fmt"
	"log/slog"
)

// ErrInvalidROM is returned for HuCard images that are too small or
// whose size cannot be a real dump.
var ErrInvalidROM = errors.New("invalid HuCard image")

const (
	bankSize = 0x2000 // 8 KiB, one MPR page

	// cartRAMBanks is the number of 8 KiB banks a battery-backed HuCard
	// exposes at MPR values $80-$87.
	cartRAMBanks = 8
	cartRAMSize  = cartRAMBanks * bankSize

	// hucardHeaderSize is the copier header some dumps carry; present
	// when the file size is an odd multiple of 512 bytes.
	hucardHeaderSize = 512

	// mirrorTail is the window repeated to pad non-power-of-two ROMs
	// (the common 384 KiB images repeat their last 256 KiB).
	mirrorTail = 256 * 1024
)

// Cartridge holds an immutable HuCard ROM image, padded to a power of two
// so reads reduce to a mask, plus the optional battery-backed RAM banks.
type Cartridge struct {
	rom     []byte
	romMask uint32

	ram    []byte
	hasRAM bool
}

// NewCartridge creates an empty cartridge whose ROM reads as $FF
// everywhere, useful for tests that only exercise WRAM and I/O.
func NewCartridge() *Cartridge {
	rom := make([]byte, bankSize)
	for i := range rom {
		rom[i] = 0xFF
	}
	return &Cartridge{rom: rom, romMask: bankSize - 1}
}

// NewCartridgeWithData initializes a Cartridge from a raw HuCard dump,
// stripping the copier header if present and mirroring the image up to
// the next power of two.
func NewCartridgeWithData(data []byte) (*Cartridge, error) {
	if len(data)%1024 == hucardHeaderSize {
		data = data[hucardHeaderSize:]
	}
	if len(data) < bankSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrInvalidROM, len(data))
	}

	size := nextPowerOfTwo(len(data))
	rom := make([]byte, size)
	copy(rom, data)

	// pad by repeating the tail of the image, so 384 KiB dumps see their
	// last 256 KiB mirrored into the upper banks
	tail := min(len(data), mirrorTail)
	window := data[len(data)-tail:]
	for off := len(data); off < size; off += tail {
		copy(rom[off:], window)
	}

	slog.Info("HuCard loaded", "size", len(data), "padded", size, "banks", size/bankSize)

	return &Cartridge{rom: rom, romMask: uint32(size - 1)}, nil
}

func nextPowerOfTwo(n int) int {
	size := 1
	for size < n {
		size <<= 1
	}
	return size
}

// ROMSize reports the padded ROM size in bytes.
func (c *Cartridge) ROMSize() int { return len(c.rom) }

// ReadROM reads a byte from the padded ROM image at the given physical
// offset, wrapping modulo the padded size.
func (c *Cartridge) ReadROM(offset uint32) uint8 {
	return c.rom[offset&c.romMask]
}

// EnableRAM attaches the battery-backed RAM banks mapped at $80-$87.
func (c *Cartridge) EnableRAM() {
	if !c.hasRAM {
		c.ram = make([]byte, cartRAMSize)
		c.hasRAM = true
	}
}

// HasRAM reports whether the cartridge advertises battery-backed RAM.
func (c *Cartridge) HasRAM() bool { return c.hasRAM }

// ReadRAM reads from cartridge RAM; offset is relative to the start of
// the RAM banks. Returns ok=false when the cart has no RAM.
func (c *Cartridge) ReadRAM(offset uint32) (uint8, bool) {
	if !c.hasRAM || offset >= cartRAMSize {
		return 0, false
	}
	return c.ram[offset], true
}

// WriteRAM writes to cartridge RAM; silently dropped when absent.
func (c *Cartridge) WriteRAM(offset uint32, value uint8) {
	if c.hasRAM && offset < cartRAMSize {
		c.ram[offset] = value
	}
}

// LoadRAM restores a battery-RAM snapshot, enabling RAM if needed.
func (c *Cartridge) LoadRAM(data []byte) {
	c.EnableRAM()
	copy(c.ram, data)
}

// SaveRAM returns a copy of the battery RAM, or nil when the cart has none.
func (c *Cartridge) SaveRAM() []byte {
	if !c.hasRAM {
		return nil
	}
	out := make([]byte, len(c.ram))
	copy(out, c.ram)
	return out
}

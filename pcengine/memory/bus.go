package memory

import (
	"log/slog"

	"github.com/nutcase/go-pcengine/pcengine/addr"
)

// IODevice is a byte-register peripheral mapped into the hardware page
// (the VDC, VCE and PSG). Offsets are relative to the device's base.
type IODevice interface {
	ReadRegister(offset uint16) uint8
	WriteRegister(offset uint16, value uint8)
}

// Bus owns the MPR bank registers, work RAM, the cartridge and the
// CPU-side peripherals, and routes 21-bit physical traffic between them.
// Logical 16-bit addresses are split 3/13: the top three bits select an
// MPR whose 8-bit value forms the top of the physical address.
type Bus struct {
	log *slog.Logger

	mpr  [8]uint8
	wram [addr.WRAMSize]uint8
	cart *Cartridge

	VDC    IODevice
	VCE    IODevice
	PSG    IODevice
	Timer  *Timer
	Joypad *Joypad
	IRQ    *IRQController

	// openBus is the last value seen on the bus, returned for unmapped
	// reads.
	openBus uint8
}

// New returns a bus with an empty cartridge and all peripherals unwired.
func New(log *slog.Logger) *Bus {
	if log == nil {
		log = slog.Default()
	}
	return &Bus{
		log:     log,
		cart:    NewCartridge(),
		Timer:   &Timer{},
		Joypad:  &Joypad{},
		IRQ:     &IRQController{},
		openBus: 0xFF,
	}
}

// AttachCartridge replaces the current cartridge.
func (b *Bus) AttachCartridge(cart *Cartridge) { b.cart = cart }

// Cartridge returns the currently attached cartridge.
func (b *Bus) Cartridge() *Cartridge { return b.cart }

// Reset clears WRAM and the timer and puts the MPRs in the state the
// stock BIOS-less boot expects: I/O on MPR0, WRAM on MPR1 (zero page and
// stack), ROM bank 0 on MPR7 so the reset vector is reachable.
func (b *Bus) Reset() {
	for i := range b.wram {
		b.wram[i] = 0
	}
	b.mpr = [8]uint8{0xFF, 0xF8, 0, 0, 0, 0, 0, 0}
	b.Timer.Reset()
	*b.IRQ = IRQController{}
	b.openBus = 0xFF
}

// MPR reports the bank register for the given logical page (0-7).
func (b *Bus) MPR(page uint8) uint8 { return b.mpr[page&0x07] }

// SetMPR loads a bank register; used by the CPU's TAM opcode.
func (b *Bus) SetMPR(page uint8, bank uint8) { b.mpr[page&0x07] = bank }

// Translate maps a logical 16-bit address to its 21-bit physical address
// through the MPRs.
func (b *Bus) Translate(logical uint16) uint32 {
	bank := b.mpr[logical>>13]
	return uint32(bank)<<13 | uint32(logical&0x1FFF)
}

// Read performs an MPR-translated read.
func (b *Bus) Read(logical uint16) uint8 {
	v := b.ReadPhysical(b.Translate(logical))
	b.openBus = v
	return v
}

// Write performs an MPR-translated write.
func (b *Bus) Write(logical uint16, value uint8) {
	b.openBus = value
	b.WritePhysical(b.Translate(logical), value)
}

// ReadPhysical dispatches a read in the 21-bit physical address space.
func (b *Bus) ReadPhysical(phys uint32) uint8 {
	switch {
	case phys < addr.CartRAMStart:
		return b.cart.ReadROM(phys)
	case phys <= addr.CartRAMEnd:
		if v, ok := b.cart.ReadRAM(phys - addr.CartRAMStart); ok {
			return v
		}
		return b.openBus
	case phys >= addr.WRAMStart && phys <= addr.WRAMEnd:
		return b.wram[phys&(addr.WRAMSize-1)]
	case phys >= addr.IOStart && phys <= addr.IOEnd:
		return b.readIO(uint16(phys & 0x1FFF))
	default:
		return b.openBus
	}
}

// WritePhysical dispatches a write in the physical address space. Writes
// to ROM and unmapped regions are dropped.
func (b *Bus) WritePhysical(phys uint32, value uint8) {
	switch {
	case phys < addr.CartRAMStart:
		// ROM; dropped
	case phys <= addr.CartRAMEnd:
		b.cart.WriteRAM(phys-addr.CartRAMStart, value)
	case phys >= addr.WRAMStart && phys <= addr.WRAMEnd:
		b.wram[phys&(addr.WRAMSize-1)] = value
	case phys >= addr.IOStart && phys <= addr.IOEnd:
		b.writeIO(uint16(phys&0x1FFF), value)
	}
}

func (b *Bus) readIO(offset uint16) uint8 {
	switch {
	case offset < addr.VCEBase:
		if b.VDC != nil {
			return b.VDC.ReadRegister(offset & 0x03)
		}
	case offset < addr.PSGBase:
		if b.VCE != nil {
			return b.VCE.ReadRegister(offset & 0x07)
		}
	case offset < addr.TimerBase:
		if b.PSG != nil {
			return b.PSG.ReadRegister(offset & 0x1F)
		}
	case offset < addr.JoypadReg:
		return b.Timer.ReadRegister(offset)
	case offset < addr.IRQBase:
		return b.Joypad.Read()
	case offset < addr.IOPageTop:
		return b.IRQ.ReadRegister(offset)
	}
	return b.openBus
}

func (b *Bus) writeIO(offset uint16, value uint8) {
	switch {
	case offset < addr.VCEBase:
		if b.VDC != nil {
			b.VDC.WriteRegister(offset&0x03, value)
		}
	case offset < addr.PSGBase:
		if b.VCE != nil {
			b.VCE.WriteRegister(offset&0x07, value)
		}
	case offset < addr.TimerBase:
		if b.PSG != nil {
			b.PSG.WriteRegister(offset&0x1F, value)
		}
	case offset < addr.JoypadReg:
		b.Timer.WriteRegister(offset, value)
	case offset < addr.IRQBase:
		b.Joypad.Write(value)
	case offset < addr.IOPageTop:
		b.IRQ.WriteRegister(offset, value, b.Timer.Acknowledge)
	}
}

// WriteVDCPort implements the CPU's ST0/ST1/ST2 fast path.
func (b *Bus) WriteVDCPort(port uint8, value uint8) {
	if b.VDC != nil {
		b.VDC.WriteRegister(uint16(port)&0x03, value)
	}
}

// WRAM exposes a read of work RAM for debug tooling and save states.
func (b *Bus) WRAM(offset uint16) uint8 {
	return b.wram[uint32(offset)&(addr.WRAMSize-1)]
}

// PendingIRQ implements the CPU-facing interrupt poll.
func (b *Bus) PendingIRQ() (uint8, bool) { return b.IRQ.Pending() }

// PendingNMI implements the CPU-facing NMI poll.
func (b *Bus) PendingNMI() bool { return b.IRQ.PendingNMI() }

// AckNMI clears the NMI line.
func (b *Bus) AckNMI() { b.IRQ.AckNMI() }

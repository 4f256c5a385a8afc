package memory

import "github.com/nutcase/go-pcengine/pcengine/addr"

// Interrupt controller register bits, as seen at $1402 (mask) and $1403
// (request/acknowledge). Bit order matches the hardware: IRQ2 in bit 0,
// IRQ1 in bit 1, TIRQ in bit 2. A set mask bit disables the line.
const (
	irqBitIRQ2 uint8 = 1 << 0
	irqBitIRQ1 uint8 = 1 << 1
	irqBitTIRQ uint8 = 1 << 2
)

// IRQController aggregates the three maskable interrupt lines plus NMI.
// Sources assert and deassert their line; the CPU polls Pending at each
// instruction boundary.
type IRQController struct {
	mask    uint8 // disable bits
	request uint8 // asserted lines
	nmi     bool
}

func lineBit(line addr.Interrupt) uint8 {
	switch line {
	case addr.IRQ1:
		return irqBitIRQ1
	case addr.IRQ2:
		return irqBitIRQ2
	case addr.TIRQ:
		return irqBitTIRQ
	}
	return 0
}

// Assert raises an interrupt line (level-triggered; stays up until the
// source deasserts or the line-specific acknowledge clears it).
func (i *IRQController) Assert(line addr.Interrupt) {
	if line == addr.NMI {
		i.nmi = true
		return
	}
	i.request |= lineBit(line)
}

// Deassert lowers an interrupt line.
func (i *IRQController) Deassert(line addr.Interrupt) {
	i.request &^= lineBit(line)
}

// Pending reports the highest-priority asserted, unmasked line using the
// CPU's numbering (IRQ1=0, IRQ2=1, TIRQ=2).
func (i *IRQController) Pending() (uint8, bool) {
	active := i.request &^ i.mask
	switch {
	case active&irqBitIRQ1 != 0:
		return 0, true
	case active&irqBitIRQ2 != 0:
		return 1, true
	case active&irqBitTIRQ != 0:
		return 2, true
	}
	return 0, false
}

// PendingNMI reports whether the NMI line is raised.
func (i *IRQController) PendingNMI() bool { return i.nmi }

// AckNMI clears the NMI line once the CPU has taken the vector.
func (i *IRQController) AckNMI() { i.nmi = false }

// ReadRegister implements the $1402/$1403 read side. The upper bits of
// both registers read back as ones (open bus).
func (i *IRQController) ReadRegister(offset uint16) uint8 {
	switch offset & 0x03 {
	case 2:
		return i.mask | 0xF8
	case 3:
		return i.request | 0xF8
	}
	return 0xFF
}

// WriteRegister implements the $1402/$1403 write side: $1402 sets the
// mask, $1403 is write-1-to-clear for the timer interrupt. timerAck is
// invoked alongside the request-bit clear so the timer sources drop
// their pending state too.
func (i *IRQController) WriteRegister(offset uint16, value uint8, timerAck func()) {
	switch offset & 0x03 {
	case 2:
		i.mask = value & 0x07
	case 3:
		if value&irqBitTIRQ != 0 {
			i.request &^= irqBitTIRQ
			if timerAck != nil {
				timerAck()
			}
		}
	}
}

// Mask reports the current disable mask, for debug accessors.
func (i *IRQController) Mask() uint8 { return i.mask }

// Request reports the raw request bits, for debug accessors.
func (i *IRQController) Request() uint8 { return i.request }

package cpu

import "github.com/nutcase/go-pcengine/pcengine/addr"

// waiWakeCycles is the stall the CPU pays between an interrupt arriving
// and the vector dispatch when it was sleeping in WAI.
const waiWakeCycles = 6

// readVector reads a little-endian 16-bit vector. Vector fetches land in
// the top page of logical address space, which is expected to stay mapped
// through MPR7 for the lifetime of the machine.
func (c *CPU) readVector(v uint16) uint16 {
	low := c.read(v)
	high := c.read(v + 1)
	return uint16(high)<<8 | uint16(low)
}

// serviceInterrupts checks NMI and the three maskable lines in hardware
// priority order (NMI, then IRQ1 > IRQ2 > TIRQ) and, if one fires, pushes
// PC and P, clears D and sets I, and vectors to the corresponding handler.
// It returns whether an interrupt was taken and how many cycles it cost.
func (c *CPU) serviceInterrupts() (bool, int) {
	if c.bus.PendingNMI() {
		c.bus.AckNMI()
		c.halted = false
		c.enterInterrupt(addr.VectorNMI, false)
		return true, 7
	}

	if c.isSetFlag(irqFlag) {
		return false, 0
	}

	line, ok := c.bus.PendingIRQ()
	if !ok {
		return false, 0
	}

	c.halted = false

	var vector uint16
	switch line {
	case 0:
		vector = addr.VectorIRQ1
	case 1:
		vector = addr.VectorIRQ2
	case 2:
		vector = addr.VectorTIRQ
	default:
		return false, 0
	}

	c.enterInterrupt(vector, false)
	return true, 7
}

// enterInterrupt performs the common BRK/IRQ/NMI entry sequence. isBRK
// controls whether the B flag is set in the byte pushed to the stack, so
// RTI-based handlers can distinguish a software BRK from a hardware line.
func (c *CPU) enterInterrupt(vector uint16, isBRK bool) {
	pushed := c.p.get() | uint8(unusedFlag)
	if isBRK {
		pushed |= uint8(breakFlag)
	} else {
		pushed &^= uint8(breakFlag)
	}

	c.pushWord(c.pc.get())
	c.pushByte(pushed)

	c.setFlag(irqFlag)
	c.resetFlag(decimalFlag)

	c.pc.set(c.readVector(vector))
}

package cpu

import "github.com/nutcase/go-pcengine/pcengine/addr"

// HuC6280-specific opcodes: register swaps, MPR bank management, the VDC
// fast-store path, speed switching, the SET/T-mode prefix, TST and the
// five block-move instructions.

func (c *CPU) brkVector() uint16 {
	// BRK shares the IRQ2 vector; handlers tell them apart by the B flag
	// in the pushed status byte.
	return addr.VectorIRQ2
}

func opSXY(c *CPU, _ addrMode) int {
	x, y := c.x.get(), c.y.get()
	c.x.set(y)
	c.y.set(x)
	return 3
}

func opSAX(c *CPU, _ addrMode) int {
	a, x := c.a.get(), c.x.get()
	c.a.set(x)
	c.x.set(a)
	return 3
}

func opSAY(c *CPU, _ addrMode) int {
	a, y := c.a.get(), c.y.get()
	c.a.set(y)
	c.y.set(a)
	return 3
}

func opCLA(c *CPU, _ addrMode) int { c.a.set(0); return 2 }
func opCLX(c *CPU, _ addrMode) int { c.x.set(0); return 2 }
func opCLY(c *CPU, _ addrMode) int { c.y.set(0); return 2 }

// opST returns the handler for ST0/ST1/ST2, which write an immediate byte
// straight to a VDC port without going through the address decoder.
func opST(port uint8) func(*CPU, addrMode) int {
	return func(c *CPU, _ addrMode) int {
		c.bus.WriteVDCPort(port, c.fetch8())
		return 4
	}
}

// TAM #imm: load A into every MPR whose bit is set in the immediate mask.
func opTAM(c *CPU, _ addrMode) int {
	mask := c.fetch8()
	for page := uint8(0); page < 8; page++ {
		if mask&(1<<page) != 0 {
			c.bus.SetMPR(page, c.a.get())
		}
	}
	return 5
}

// TMA #imm: read the OR of every MPR whose bit is set into A.
func opTMA(c *CPU, _ addrMode) int {
	mask := c.fetch8()
	var v uint8
	for page := uint8(0); page < 8; page++ {
		if mask&(1<<page) != 0 {
			v |= c.bus.MPR(page)
		}
	}
	c.a.set(v)
	return 4
}

func opCSL(c *CPU, _ addrMode) int { c.speed = false; return 3 }
func opCSH(c *CPU, _ addrMode) int { c.speed = true; return 3 }

// SET arms the T flag: the next ADC/AND/EOR/ORA reads and writes the byte
// at $2000+X instead of the accumulator.
func opSET(c *CPU, _ addrMode) int {
	c.tFlag = true
	return 2
}

// WAI stops execution until any interrupt line (masked or not) is
// asserted; the wake path is handled in Step.
func opWAI(c *CPU, _ addrMode) int {
	c.halted = true
	return 2
}

// TST #imm, <mem>: Z from imm AND mem, N/V copied from mem bits 7/6.
func opTST(c *CPU, mode addrMode) int {
	imm := c.fetch8()
	v := c.read(c.operandAddr(mode))
	c.setFlagToCondition(zeroFlag, imm&v == 0)
	c.setFlagToCondition(negativeFlag, v&0x80 != 0)
	c.setFlagToCondition(overflowFlag, v&0x40 != 0)
	if mode == modeZeroPage || mode == modeZeroPageX {
		return 7
	}
	return 8
}

// blockMovePolicy describes how the source and destination pointers move
// after each transferred byte. alternate pointers flip between base and
// base+1, which TIA/TAI use to stream into the VDC data ports.
type blockMovePolicy struct {
	srcStep      int
	dstStep      int
	srcAlternate bool
	dstAlternate bool
}

// blockMove runs one of TII/TDD/TIN/TIA/TAI: three 16-bit operands
// (source, destination, length), A/X/Y preserved via the stack, cost
// 17 + 6 cycles per byte. A length of 0 transfers 0x10000 bytes.
func (c *CPU) blockMove(policy blockMovePolicy) int {
	src := c.fetch16()
	dst := c.fetch16()
	length := int(c.fetch16())
	if length == 0 {
		length = 0x10000
	}

	// the hardware saves and restores A/X/Y around the transfer
	c.pushByte(c.y.get())
	c.pushByte(c.a.get())
	c.pushByte(c.x.get())

	for i := 0; i < length; i++ {
		srcAddr, dstAddr := src, dst
		if policy.srcAlternate && i&1 == 1 {
			srcAddr++
		}
		if policy.dstAlternate && i&1 == 1 {
			dstAddr++
		}
		c.write(dstAddr, c.read(srcAddr))
		if !policy.srcAlternate {
			src = uint16(int(src) + policy.srcStep)
		}
		if !policy.dstAlternate {
			dst = uint16(int(dst) + policy.dstStep)
		}
	}

	c.x.set(c.pullByte())
	c.a.set(c.pullByte())
	c.y.set(c.pullByte())

	return 17 + 6*length
}

func opTII(c *CPU, _ addrMode) int {
	return c.blockMove(blockMovePolicy{srcStep: 1, dstStep: 1})
}

func opTDD(c *CPU, _ addrMode) int {
	return c.blockMove(blockMovePolicy{srcStep: -1, dstStep: -1})
}

func opTIN(c *CPU, _ addrMode) int {
	return c.blockMove(blockMovePolicy{srcStep: 1, dstStep: 0})
}

func opTIA(c *CPU, _ addrMode) int {
	return c.blockMove(blockMovePolicy{srcStep: 1, dstAlternate: true})
}

func opTAI(c *CPU, _ addrMode) int {
	return c.blockMove(blockMovePolicy{srcAlternate: true, dstStep: 1})
}

// BSR: branch to subroutine, relative displacement.
func opBSR(c *CPU, _ addrMode) int {
	offset := int8(c.fetch8())
	c.pushWord(c.pc.get() - 1)
	c.pc.set(uint16(int32(c.pc.get()) + int32(offset)))
	return 8
}

// opUndefined executes an unassigned opcode as a 2-cycle NOP, logging the
// first occurrence of each.
func opUndefined(c *CPU, _ addrMode) int {
	op := c.read(c.pc.get() - 1)
	if !c.badOpcodes[op] {
		c.badOpcodes[op] = true
		c.log.Warn("undefined opcode executed as NOP", "opcode", op, "pc", c.pc.get()-1)
	}
	return 2
}

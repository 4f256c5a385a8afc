package cpu

// addrMode identifies how an opcode's operand is located. The HuC6280 is a
// 65C02 derivative, so it keeps the full 6502 addressing-mode set and adds
// zero-page indirect ((zp), no index) on top.
type addrMode uint8

const (
	modeImplied addrMode = iota
	modeAccumulator
	modeImmediate
	modeZeroPage
	modeZeroPageX
	modeZeroPageY
	modeZeroPageIndirect // (zp) - 65C02/HuC6280 addition, no index
	modeIndexedIndirect  // (zp,X)
	modeIndirectIndexed  // (zp),Y
	modeAbsolute
	modeAbsoluteX
	modeAbsoluteY
	modeIndirect  // (abs) - JMP only
	modeIndirectX // (abs,X) - JMP only, 65C02 addition
	modeRelative
)

// zeroPageBase is where the HuC6280 zero page lives in logical address
// space: the fixed $2000-$20FF window of MPR1. The stack occupies the
// page above it ($2100-$21FF).
const zeroPageBase uint16 = 0x2000

// operandAddr resolves the effective address for the given mode, consuming
// the bytes that follow the opcode from PC. It must not be called for
// modeImplied/modeAccumulator, which carry no memory operand.
func (c *CPU) operandAddr(mode addrMode) uint16 {
	switch mode {
	case modeZeroPage:
		return zeroPageBase + uint16(c.fetch8())
	case modeZeroPageX:
		return zeroPageBase + uint16(c.fetch8()+c.x.get())
	case modeZeroPageY:
		return zeroPageBase + uint16(c.fetch8()+c.y.get())
	case modeZeroPageIndirect:
		return c.read16ZeroPage(uint16(c.fetch8()))
	case modeIndexedIndirect:
		return c.read16ZeroPage(uint16(c.fetch8() + c.x.get()))
	case modeIndirectIndexed:
		base := c.read16ZeroPage(uint16(c.fetch8()))
		return base + uint16(c.y.get())
	case modeAbsolute:
		return c.fetch16()
	case modeAbsoluteX:
		return c.fetch16() + uint16(c.x.get())
	case modeAbsoluteY:
		return c.fetch16() + uint16(c.y.get())
	case modeIndirect:
		return c.read16(c.fetch16())
	case modeIndirectX:
		return c.read16(c.fetch16() + uint16(c.x.get()))
	case modeRelative:
		// caller (branch opcodes) interprets the displacement itself
		return uint16(c.fetch8())
	default:
		return 0
	}
}

// read16 reads a little-endian word at the given logical address.
func (c *CPU) read16(addr uint16) uint16 {
	low := c.read(addr)
	high := c.read(addr + 1)
	return uint16(high)<<8 | uint16(low)
}

// read16ZeroPage reads a little-endian word wrapping within the zero page,
// matching the 6502 quirk where ($FF) reads bytes $FF and $00, not $FF/$100.
func (c *CPU) read16ZeroPage(ptr uint16) uint16 {
	base := ptr & 0xFF
	low := c.read(zeroPageBase + base)
	high := c.read(zeroPageBase + (base+1)&0xFF)
	return uint16(high)<<8 | uint16(low)
}

// loadOperand reads the operand byte for a read-only ALU opcode (LDA, AND,
// ORA, ...).
func (c *CPU) loadOperand(mode addrMode) uint8 {
	if mode == modeImmediate {
		return c.fetch8()
	}
	return c.read(c.operandAddr(mode))
}

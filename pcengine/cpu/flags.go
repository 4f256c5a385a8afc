package cpu

// Flag is one of the 8 bits of the HuC6280 processor status register (P).
type Flag uint8

// The HuC6280 keeps the full 6502 flag set and adds no new status bits; the
// extra "T" addressing-mode behaviour (memory as accumulator) is carried as
// transient CPU state rather than a persistent flag, since it only applies
// to the single instruction following a SET opcode.
const (
	carryFlag     Flag = 1 << 0 // C
	zeroFlag      Flag = 1 << 1 // Z
	irqFlag       Flag = 1 << 2 // I - IRQ disable
	decimalFlag   Flag = 1 << 3 // D - BCD mode (forced off on NMI/IRQ/BRK entry)
	breakFlag     Flag = 1 << 4 // B - set only in the byte pushed by BRK/PHP
	unusedFlag    Flag = 1 << 5 // always reads as 1
	overflowFlag  Flag = 1 << 6 // V
	negativeFlag  Flag = 1 << 7 // N
)

func (c *CPU) setFlag(flag Flag) {
	c.p.set(c.p.get() | uint8(flag))
}

func (c *CPU) resetFlag(flag Flag) {
	c.p.set(c.p.get() &^ uint8(flag))
}

func (c *CPU) setFlagToCondition(flag Flag, condition bool) {
	if condition {
		c.setFlag(flag)
	} else {
		c.resetFlag(flag)
	}
}

func (c *CPU) isSetFlag(flag Flag) bool {
	return c.p.get()&uint8(flag) != 0
}

// setNZ updates the N and Z flags from the given result byte, as almost
// every load/ALU/transfer opcode does.
func (c *CPU) setNZ(value uint8) {
	c.setFlagToCondition(zeroFlag, value == 0)
	c.setFlagToCondition(negativeFlag, value&0x80 != 0)
}

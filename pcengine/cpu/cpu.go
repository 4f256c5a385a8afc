// Package cpu implements the HuC6280 processor core: registers, the dense
// opcode dispatch table, addressing-mode resolution and interrupt
// vectoring. It never touches a device register directly — all memory
// traffic goes through the Bus it is constructed with.
package cpu

import (
	"log/slog"

	"github.com/nutcase/go-pcengine/pcengine/addr"
	"github.com/nutcase/go-pcengine/pcengine/bit"
)

// Bus is the narrow view of the system bus the CPU needs: logical address
// read/write (already MPR-translated) plus the MPR bank registers
// themselves (written/read by TAM/TMA), the ST0/ST1/ST2 fast path to the
// VDC ports, and the interrupt lines.
type Bus interface {
	Read(addr uint16) uint8
	Write(addr uint16, value uint8)

	MPR(page uint8) uint8
	SetMPR(page uint8, bank uint8)

	// WriteVDCPort writes directly to VDC port 0 (address latch) or
	// ports 2/3 (data low/high), bypassing the MPR address decoder.
	// Used by the ST0/ST1/ST2 opcodes.
	WriteVDCPort(port uint8, value uint8)

	// PendingIRQ reports the highest-priority unmasked maskable interrupt
	// currently asserted (IRQ1=0, IRQ2=1, TIRQ=2), if any.
	PendingIRQ() (line uint8, ok bool)
	// PendingNMI reports and, if ok, is expected to be cleared by the
	// caller via AckNMI once the vector has been taken.
	PendingNMI() bool
	AckNMI()
}

// CPU holds the full HuC6280 register and dispatch state.
type CPU struct {
	bus Bus
	log *slog.Logger

	a  Register8
	x  Register8
	y  Register8
	s  Register8 // stack pointer, stack lives at $2100-$21FF (page above the zero page)
	p  Register8 // status flags, see flags.go
	pc Register16

	// speed is true for high-speed (1 master cycle/CPU cycle), false for
	// low-speed (4 master cycles/CPU cycle). Set by CSH/CSL.
	speed bool

	// halted is set by WAI and cleared by any pending interrupt.
	halted bool

	// tFlag implements the HuC6280 SET prefix: the next ALU opcode reads
	// AND writes memory at $2000+X instead of touching the accumulator.
	// Cleared after one instruction.
	tFlag bool

	cycles uint64

	badOpcodes map[uint8]bool // undefined opcodes already logged once
}

// New returns a CPU wired to bus. Registers are zeroed; call Reset to load
// the reset vector before running.
func New(bus Bus, log *slog.Logger) *CPU {
	if log == nil {
		log = slog.Default()
	}
	return &CPU{bus: bus, log: log, badOpcodes: make(map[uint8]bool)}
}

// Reset puts the CPU in its post-RESET-vector state: interrupts masked,
// decimal mode cleared, low-speed mode, stack pointer at $FF, PC loaded
// from the reset vector.
func (c *CPU) Reset() {
	c.a, c.x, c.y = 0, 0, 0
	c.s = 0xFF
	c.p = Register8(uint8(irqFlag) | uint8(unusedFlag))
	c.speed = false
	c.halted = false
	c.tFlag = false
	c.cycles = 0
	c.pc.set(c.readVector(addr.VectorReset))
	c.log.Debug("cpu reset", "pc", c.pc.get())
}

// PC reports the current program counter, for debug accessors.
func (c *CPU) PC() uint16 { return c.pc.get() }

// A, X, Y, S and P report the current register values, for debug accessors.
func (c *CPU) A() uint8 { return c.a.get() }
func (c *CPU) X() uint8 { return c.x.get() }
func (c *CPU) Y() uint8 { return c.y.get() }
func (c *CPU) S() uint8 { return c.s.get() }
func (c *CPU) P() uint8 { return c.p.get() }

// HighSpeed reports whether the CSH/CSL switch is in high-speed mode.
func (c *CPU) HighSpeed() bool { return c.speed }

// Halted reports whether the CPU is stopped in WAI.
func (c *CPU) Halted() bool { return c.halted }

// Cycles reports the total CPU cycles executed since reset.
func (c *CPU) Cycles() uint64 { return c.cycles }

// SetPC forces the program counter, for tests and debug tooling.
func (c *CPU) SetPC(pc uint16) { c.pc.set(pc) }

// cyclesToMaster converts a CPU-cycle count into master clock cycles,
// honouring the CSH/CSL speed switch.
func (c *CPU) cyclesToMaster(cpuCycles int) int {
	if c.speed {
		return cpuCycles
	}
	return cpuCycles * 4
}

// Step executes exactly one instruction (after servicing any pending
// interrupt) and returns the number of master clock cycles consumed.
func (c *CPU) Step() int {
	wasHalted := c.halted
	if handled, cycles := c.serviceInterrupts(); handled {
		if wasHalted {
			// WAI wake-up stalls before the vector is taken.
			cycles += waiWakeCycles
		}
		c.cycles += uint64(cycles)
		return c.cyclesToMaster(cycles)
	}

	if c.halted {
		// WAI also wakes when a masked interrupt arrives; execution
		// continues past it without dispatching.
		if _, ok := c.bus.PendingIRQ(); ok {
			c.halted = false
		}
		return c.cyclesToMaster(1)
	}

	opcode := c.fetch8()
	entry := opcodeTable[opcode]
	cycles := entry.exec(c, entry.mode)
	c.cycles += uint64(cycles)

	// the T-flag only survives for the single instruction following SET
	if entry.name != "SET" {
		c.tFlag = false
	}

	return c.cyclesToMaster(cycles)
}

func (c *CPU) fetch8() uint8 {
	v := c.bus.Read(c.pc.get())
	c.pc.incr()
	return v
}

func (c *CPU) fetch16() uint16 {
	low := c.fetch8()
	high := c.fetch8()
	return bit.Combine(high, low)
}

func (c *CPU) read(addr uint16) uint8     { return c.bus.Read(addr) }
func (c *CPU) write(addr uint16, v uint8) { c.bus.Write(addr, v) }

const stackBase uint16 = 0x2100

func (c *CPU) pushByte(v uint8) {
	c.write(stackBase+uint16(c.s.get()), v)
	c.s.decr()
}

func (c *CPU) pullByte() uint8 {
	c.s.incr()
	return c.read(stackBase + uint16(c.s.get()))
}

func (c *CPU) pushWord(v uint16) {
	c.pushByte(uint8(v >> 8))
	c.pushByte(uint8(v))
}

func (c *CPU) pullWord() uint16 {
	low := c.pullByte()
	high := c.pullByte()
	return bit.Combine(high, low)
}

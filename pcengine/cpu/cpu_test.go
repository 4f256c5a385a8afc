package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testBus is a flat 64 KiB logical memory with MPR and interrupt stubs,
// enough to exercise the CPU without a full system bus.
type testBus struct {
	mem [0x10000]uint8
	mpr [8]uint8

	vdcPorts []struct {
		port  uint8
		value uint8
	}

	irqLine    uint8
	irqPending bool
	nmi        bool
}

func (b *testBus) Read(addr uint16) uint8         { return b.mem[addr] }
func (b *testBus) Write(addr uint16, value uint8) { b.mem[addr] = value }
func (b *testBus) MPR(page uint8) uint8           { return b.mpr[page&7] }
func (b *testBus) SetMPR(page uint8, bank uint8)  { b.mpr[page&7] = bank }

func (b *testBus) WriteVDCPort(port uint8, value uint8) {
	b.vdcPorts = append(b.vdcPorts, struct {
		port  uint8
		value uint8
	}{port, value})
}

func (b *testBus) PendingIRQ() (uint8, bool) { return b.irqLine, b.irqPending }
func (b *testBus) PendingNMI() bool          { return b.nmi }
func (b *testBus) AckNMI()                   { b.nmi = false }

const testOrigin = 0x8000

// newTestCPU loads program at $8000, points the reset vector there and
// resets. The program should start with CSH when the test asserts cycle
// counts, so Step reports 1 master cycle per CPU cycle.
func newTestCPU(t *testing.T, program ...uint8) (*CPU, *testBus) {
	t.Helper()
	bus := &testBus{}
	copy(bus.mem[testOrigin:], program)
	bus.mem[0xFFFE] = uint8(testOrigin & 0xFF)
	bus.mem[0xFFFF] = uint8(testOrigin >> 8)
	c := New(bus, nil)
	c.Reset()
	return c, bus
}

// stepHighSpeed executes the leading CSH so subsequent Step calls
// return CPU cycles directly.
func stepHighSpeed(t *testing.T, c *CPU) {
	t.Helper()
	c.Step()
	require.True(t, c.HighSpeed())
}

func TestStoreToMemory(t *testing.T) {
	c, bus := newTestCPU(t,
		0xD4,       // CSH
		0xA9, 0x42, // LDA #$42
		0x85, 0x00, // STA $00 (zero page, $2000)
	)
	stepHighSpeed(t, c)

	assert.Equal(t, 2, c.Step())
	assert.Equal(t, uint8(0x42), c.A())

	cycles := c.Step()
	assert.Equal(t, 4, cycles)
	assert.Equal(t, uint8(0x42), bus.mem[0x2000])
}

func TestBCDAdd(t *testing.T) {
	c, _ := newTestCPU(t,
		0xF8,       // SED
		0xA9, 0x15, // LDA #$15
		0x69, 0x27, // ADC #$27
	)
	c.Step()
	c.Step()
	c.Step()

	assert.Equal(t, uint8(0x42), c.A())
	assert.False(t, c.isSetFlag(carryFlag))
}

func TestBCDSubtract(t *testing.T) {
	c, _ := newTestCPU(t,
		0xF8,       // SED
		0x38,       // SEC
		0xA9, 0x42, // LDA #$42
		0xE9, 0x15, // SBC #$15
	)
	for i := 0; i < 4; i++ {
		c.Step()
	}

	assert.Equal(t, uint8(0x27), c.A())
	assert.True(t, c.isSetFlag(carryFlag))
}

func TestBankRegisters(t *testing.T) {
	c, bus := newTestCPU(t,
		0xA9, 0x42, // LDA #$42
		0x53, 0x80, // TAM #$80 -> MPR7
		0xA9, 0x00, // LDA #$00
		0x43, 0x80, // TMA #$80
	)
	c.Step()
	c.Step()
	assert.Equal(t, uint8(0x42), bus.mpr[7])

	c.Step()
	c.Step()
	assert.Equal(t, uint8(0x42), c.A())
}

func TestBlockMoveTII(t *testing.T) {
	c, bus := newTestCPU(t,
		0xD4,                               // CSH
		0x73, 0x00, 0x10, 0x00, 0x20, 0x04, 0x00, // TII $1000 -> $2000, 4 bytes
	)
	copy(bus.mem[0x1000:], []uint8{1, 2, 3, 4})
	stepHighSpeed(t, c)

	cycles := c.Step()
	assert.Equal(t, 17+6*4, cycles)
	assert.Equal(t, []uint8{1, 2, 3, 4}, bus.mem[0x2000:0x2004])
}

func TestBlockMovePreservesRegisters(t *testing.T) {
	c, _ := newTestCPU(t,
		0xA9, 0x11, // LDA #$11
		0xA2, 0x22, // LDX #$22
		0xA0, 0x33, // LDY #$33
		0x73, 0x00, 0x10, 0x00, 0x30, 0x02, 0x00, // TII $1000 -> $3000, 2 bytes
	)
	for i := 0; i < 4; i++ {
		c.Step()
	}

	assert.Equal(t, uint8(0x11), c.A())
	assert.Equal(t, uint8(0x22), c.X())
	assert.Equal(t, uint8(0x33), c.Y())
}

func TestBlockMoveTIA(t *testing.T) {
	// TIA streams an incrementing source into alternating destination
	// bytes (the VDC data-port pattern).
	c, bus := newTestCPU(t,
		0xE3, 0x00, 0x10, 0x00, 0x30, 0x04, 0x00, // TIA $1000 -> $3000, 4 bytes
	)
	copy(bus.mem[0x1000:], []uint8{0xAA, 0xBB, 0xCC, 0xDD})
	c.Step()

	assert.Equal(t, uint8(0xCC), bus.mem[0x3000])
	assert.Equal(t, uint8(0xDD), bus.mem[0x3001])
}

func TestTFlagORA(t *testing.T) {
	c, bus := newTestCPU(t,
		0xA9, 0x0F, // LDA #$0F
		0xA2, 0x04, // LDX #$04
		0xF4,       // SET
		0x09, 0xF0, // ORA #$F0 (T mode: targets $2004)
	)
	bus.mem[0x2004] = 0x0F

	for i := 0; i < 4; i++ {
		c.Step()
	}

	assert.Equal(t, uint8(0xFF), bus.mem[0x2004], "result written to memory accumulator")
	assert.Equal(t, uint8(0x0F), c.A(), "A untouched in T mode")
}

func TestTFlagClearedAfterOneInstruction(t *testing.T) {
	c, bus := newTestCPU(t,
		0xA2, 0x00, // LDX #$00
		0xF4,       // SET
		0x09, 0x01, // ORA #$01 (T mode)
		0xA9, 0x10, // LDA #$10
		0x09, 0x02, // ORA #$02 (normal again)
	)
	for i := 0; i < 5; i++ {
		c.Step()
	}

	assert.Equal(t, uint8(0x01), bus.mem[0x2000])
	assert.Equal(t, uint8(0x12), c.A())
}

func TestST0WritesVDCPort(t *testing.T) {
	c, bus := newTestCPU(t,
		0x03, 0x05, // ST0 #$05
		0x13, 0x34, // ST1 #$34
		0x23, 0x12, // ST2 #$12
	)
	c.Step()
	c.Step()
	c.Step()

	require.Len(t, bus.vdcPorts, 3)
	assert.Equal(t, uint8(0), bus.vdcPorts[0].port)
	assert.Equal(t, uint8(0x05), bus.vdcPorts[0].value)
	assert.Equal(t, uint8(2), bus.vdcPorts[1].port)
	assert.Equal(t, uint8(3), bus.vdcPorts[2].port)
}

func TestSpeedSwitch(t *testing.T) {
	c, _ := newTestCPU(t,
		0xEA, // NOP (low speed)
		0xD4, // CSH
		0xEA, // NOP (high speed)
		0x54, // CSL
		0xEA, // NOP (low again)
	)
	assert.Equal(t, 8, c.Step(), "low-speed NOP costs 2*4 master cycles")
	c.Step()
	assert.Equal(t, 2, c.Step(), "high-speed NOP costs 2 master cycles")
	c.Step()
	assert.Equal(t, 8, c.Step())
}

func TestIRQVectoring(t *testing.T) {
	c, bus := newTestCPU(t,
		0x58, // CLI
		0xEA, // NOP
	)
	bus.mem[0xFFF8] = 0x00 // IRQ1 vector -> $9000
	bus.mem[0xFFF9] = 0x90
	c.Step() // CLI

	bus.irqLine, bus.irqPending = 0, true
	c.Step()

	assert.Equal(t, uint16(0x9000), c.PC())
	assert.True(t, c.isSetFlag(irqFlag), "I set on entry")
}

func TestIRQMaskedByIFlag(t *testing.T) {
	c, bus := newTestCPU(t, 0xEA, 0xEA) // I is set after reset
	bus.irqLine, bus.irqPending = 0, true

	c.Step()
	assert.Equal(t, uint16(testOrigin+1), c.PC(), "interrupt not taken while masked")
}

func TestBRKVectorsThroughIRQ2(t *testing.T) {
	c, bus := newTestCPU(t, 0x00, 0xFF) // BRK + padding
	bus.mem[0xFFF6] = 0x00
	bus.mem[0xFFF7] = 0xA0

	c.Step()

	assert.Equal(t, uint16(0xA000), c.PC())
	pushed := bus.mem[0x2100+uint16(c.S())+1]
	assert.NotZero(t, pushed&uint8(breakFlag), "B flag set in pushed status")
}

func TestRTIRestoresState(t *testing.T) {
	c, bus := newTestCPU(t, 0x00, 0xFF) // BRK
	bus.mem[0xFFF6] = 0x00
	bus.mem[0xFFF7] = 0xA0
	bus.mem[0xA000] = 0x40 // RTI

	c.Step()
	c.Step()

	assert.Equal(t, uint16(testOrigin+2), c.PC(), "returns past BRK's padding byte")
}

func TestWAIWakesOnInterrupt(t *testing.T) {
	c, bus := newTestCPU(t,
		0x58, // CLI
		0xCB, // WAI
	)
	bus.mem[0xFFFA] = 0x00 // TIRQ vector -> $B000
	bus.mem[0xFFFB] = 0xB0

	c.Step()
	c.Step()
	require.True(t, c.Halted())

	c.Step() // idle while nothing is pending
	assert.True(t, c.Halted())

	bus.irqLine, bus.irqPending = 2, true
	c.Step()

	assert.False(t, c.Halted())
	assert.Equal(t, uint16(0xB000), c.PC())
}

func TestIndirectJMP(t *testing.T) {
	c, bus := newTestCPU(t,
		0x6C, 0x00, 0x40, // JMP ($4000)
	)
	bus.mem[0x4000] = 0x34
	bus.mem[0x4001] = 0x12

	c.Step()
	assert.Equal(t, uint16(0x1234), c.PC())
}

func TestBBRBranch(t *testing.T) {
	c, bus := newTestCPU(t,
		0x0F, 0x10, 0x02, // BBR0 $10, +2
		0xA9, 0x01, // LDA #$01 (skipped when branch taken)
		0xA9, 0x02, // LDA #$02
	)
	bus.mem[0x2010] = 0xFE // bit 0 clear -> branch

	c.Step()
	c.Step()
	assert.Equal(t, uint8(0x02), c.A())
}

func TestRMBAndSMB(t *testing.T) {
	c, bus := newTestCPU(t,
		0x07, 0x20, // RMB0 $20
		0xF7, 0x20, // SMB7 $20
	)
	bus.mem[0x2020] = 0x01

	c.Step()
	assert.Equal(t, uint8(0x00), bus.mem[0x2020])
	c.Step()
	assert.Equal(t, uint8(0x80), bus.mem[0x2020])
}

func TestRegisterSwaps(t *testing.T) {
	c, _ := newTestCPU(t,
		0xA9, 0x11, // LDA #$11
		0xA2, 0x22, // LDX #$22
		0x22, // SAX
	)
	c.Step()
	c.Step()
	c.Step()

	assert.Equal(t, uint8(0x22), c.A())
	assert.Equal(t, uint8(0x11), c.X())
}

func TestTSBAndTRB(t *testing.T) {
	c, bus := newTestCPU(t,
		0xA9, 0x0F, // LDA #$0F
		0x04, 0x30, // TSB $30
		0x14, 0x30, // TRB $30
	)
	bus.mem[0x2030] = 0xF0

	c.Step()
	c.Step()
	assert.Equal(t, uint8(0xFF), bus.mem[0x2030])
	c.Step()
	assert.Equal(t, uint8(0xF0), bus.mem[0x2030])
}

func TestUndefinedOpcodeIsNOP(t *testing.T) {
	c, _ := newTestCPU(t, 0xD4, 0x0B, 0xEA)
	stepHighSpeed(t, c)

	cycles := c.Step()
	assert.Equal(t, 2, cycles)
	assert.Equal(t, uint16(testOrigin+2), c.PC())
}

package video

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nutcase/go-pcengine/pcengine/addr"
)

func newTestVDC(t *testing.T) (*VDC, *VCE) {
	t.Helper()
	vce := NewVCE()
	vdc := NewVDC(vce, nil)
	return vdc, vce
}

// selectReg latches a register number on port 0.
func selectReg(v *VDC, reg uint8) { v.WriteRegister(0, reg) }

// writeReg writes a full 16-bit register value through ports 2/3.
func writeReg(v *VDC, reg uint8, value uint16) {
	selectReg(v, reg)
	v.WriteRegister(2, uint8(value))
	v.WriteRegister(3, uint8(value>>8))
}

// readReg reads a register back through ports 2/3.
func readReg(v *VDC, reg uint8) uint16 {
	selectReg(v, reg)
	low := v.ReadRegister(2)
	high := v.ReadRegister(3)
	return uint16(high)<<8 | uint16(low)
}

// writeVRAM stores words starting at address via MAWR/VWR.
func writeVRAM(v *VDC, address uint16, words ...uint16) {
	writeReg(v, addr.RegMAWR, address)
	selectReg(v, addr.RegVRR)
	for _, w := range words {
		v.WriteRegister(2, uint8(w))
		v.WriteRegister(3, uint8(w>>8))
	}
}

func TestRegisterRoundTrip(t *testing.T) {
	v, _ := newTestVDC(t)

	testCases := []struct {
		desc  string
		reg   uint8
		value uint16
	}{
		{desc: "MAWR", reg: addr.RegMAWR, value: 0x1234},
		{desc: "BXR", reg: addr.RegBXR, value: 0x01FF},
		{desc: "BYR", reg: addr.RegBYR, value: 0x0123},
		{desc: "CR", reg: addr.RegCR, value: 0x00CC},
		{desc: "MWR", reg: addr.RegMWR, value: 0x0050},
	}
	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			writeReg(v, tC.reg, tC.value)
			assert.Equal(t, tC.value, readReg(v, tC.reg))
		})
	}
}

func TestVRAMWriteAutoIncrement(t *testing.T) {
	v, _ := newTestVDC(t)

	writeVRAM(v, 0x0100, 0xAAAA, 0xBBBB)
	assert.Equal(t, uint16(0xAAAA), v.VRAMWord(0x0100))
	assert.Equal(t, uint16(0xBBBB), v.VRAMWord(0x0101))
	assert.Equal(t, uint16(0x0102), v.Register(addr.RegMAWR))
}

func TestVRAMWriteStride(t *testing.T) {
	v, _ := newTestVDC(t)

	writeReg(v, addr.RegCR, 1<<11) // stride 32
	writeVRAM(v, 0x0000, 0x1111, 0x2222)
	assert.Equal(t, uint16(0x1111), v.VRAMWord(0x0000))
	assert.Equal(t, uint16(0x2222), v.VRAMWord(0x0020))
}

func TestVRAMReadPrefetch(t *testing.T) {
	v, _ := newTestVDC(t)
	writeVRAM(v, 0x0200, 0xDEAD, 0xBEEF)

	writeReg(v, addr.RegMARR, 0x0200)
	selectReg(v, addr.RegVRR)
	low := v.ReadRegister(2)
	high := v.ReadRegister(3)
	assert.Equal(t, uint16(0xDEAD), uint16(high)<<8|uint16(low))

	low = v.ReadRegister(2)
	high = v.ReadRegister(3)
	assert.Equal(t, uint16(0xBEEF), uint16(high)<<8|uint16(low))
}

func TestVRAMToVRAMDMA(t *testing.T) {
	v, _ := newTestVDC(t)
	writeVRAM(v, 0x0000, 0x1111, 0x2222, 0x3333)

	writeReg(v, addr.RegDCR, 0)
	writeReg(v, addr.RegSOUR, 0x0000)
	writeReg(v, addr.RegDESR, 0x1000)
	writeReg(v, addr.RegLENR, 2) // LENR+1 = 3 words

	assert.Equal(t, uint16(0x1111), v.VRAMWord(0x1000))
	assert.Equal(t, uint16(0x3333), v.VRAMWord(0x1002))
	assert.NotZero(t, v.Status()&statusDMAEnd)
}

func TestSATBDMAOnRegisterWrite(t *testing.T) {
	v, _ := newTestVDC(t)
	writeVRAM(v, 0x7F00, 0x0040, 0x0020, 0x0002, 0x0000)

	writeReg(v, addr.RegSATB, 0x7F00)
	// the transfer happens at the next vblank
	for i := 0; i < v.totalLines(); i++ {
		v.Tick(cyclesPerLine)
	}

	assert.Equal(t, uint16(0x0040), v.SATBWord(0))
	assert.Equal(t, uint16(0x0020), v.SATBWord(1))
	assert.NotZero(t, v.Status()&statusSATBEnd)
}

func TestRasterCompareIRQ(t *testing.T) {
	v, _ := newTestVDC(t)

	asserted := 0
	var atLine int
	v.IRQHandler = func(assert bool) {
		if assert {
			asserted++
			atLine = v.Line()
		}
	}

	writeReg(v, addr.RegRCR, 100)
	writeReg(v, addr.RegCR, crIRQRaster)

	for i := 0; i < v.totalLines(); i++ {
		v.Tick(cyclesPerLine)
	}

	require.Equal(t, 1, asserted, "one raster IRQ per frame")
	assert.Equal(t, 100-64, atLine)
	assert.NotZero(t, v.Status()&statusRaster)
}

func TestStatusReadClearsAndDropsIRQ(t *testing.T) {
	v, _ := newTestVDC(t)

	dropped := false
	v.IRQHandler = func(assert bool) {
		if !assert {
			dropped = true
		}
	}

	writeReg(v, addr.RegCR, crIRQVBlank)
	for i := 0; i < v.totalLines(); i++ {
		v.Tick(cyclesPerLine)
	}
	require.NotZero(t, v.Status()&statusVBlank)

	value := v.ReadRegister(0)
	assert.NotZero(t, value&statusVBlank)
	assert.Zero(t, v.Status())
	assert.True(t, dropped)
}

func TestFrameCadence(t *testing.T) {
	v, _ := newTestVDC(t)

	frames := 0
	total := v.totalLines()
	for i := 0; i < total*3; i++ {
		v.Tick(cyclesPerLine)
		if fb := v.ConsumeFrame(); fb != nil {
			frames++
		}
	}
	assert.Equal(t, 3, frames, "exactly one frame per scanline period")
}

// paintTestTile fills tile 1 with a solid pixel value and points the
// top-left BAT entry at it with the given palette.
func paintTestTile(v *VDC, palette uint16, pixel uint16) {
	// BAT entry at (0,0): tile 1, palette in the top nibble
	writeVRAM(v, 0x0000, palette<<12|0x0001)

	// tile 1 pattern: plane words at tile*16 .. +15
	words := make([]uint16, 16)
	for row := 0; row < 8; row++ {
		var w01, w23 uint16
		if pixel&1 != 0 {
			w01 |= 0x00FF
		}
		if pixel&2 != 0 {
			w01 |= 0xFF00
		}
		if pixel&4 != 0 {
			w23 |= 0x00FF
		}
		if pixel&8 != 0 {
			w23 |= 0xFF00
		}
		words[row] = w01
		words[row+8] = w23
	}
	writeVRAM(v, 16, words...)
}

func TestBGRendering(t *testing.T) {
	v, vce := newTestVDC(t)

	// palette 2, pixel value 5 -> palette RAM entry 2*16+5
	paintTestTile(v, 2, 5)
	vce.WriteRegister(2, uint8(2*16+5)) // palette latch
	vce.WriteRegister(3, 0)
	vce.WriteRegister(4, 0x38) // red = 7 (bits 3-5) -> 0xFF0000
	vce.WriteRegister(5, 0x00)

	writeReg(v, addr.RegCR, crBGEnable)
	for i := 0; i < v.totalLines(); i++ {
		v.Tick(cyclesPerLine)
	}

	fb := v.ConsumeFrame()
	require.NotNil(t, fb)
	assert.Equal(t, uint32(0x00FF0000), fb.GetPixel(0, 0))
	assert.Equal(t, uint32(0x00FF0000), fb.GetPixel(7, 7))
}

func TestBGScroll(t *testing.T) {
	v, _ := newTestVDC(t)

	// distinct BAT entries at tile columns 0 and 1
	writeVRAM(v, 0x0000, 0x0001, 0x0002)

	writeReg(v, addr.RegCR, crBGEnable)
	writeReg(v, addr.RegBXR, 8) // scroll one tile left

	for i := 0; i < v.totalLines(); i++ {
		v.Tick(cyclesPerLine)
	}

	shadow := v.LineShadowAt(v.activeStart())
	assert.Equal(t, uint16(8), shadow.BXR)
}

func TestSpriteRendering(t *testing.T) {
	v, vce := newTestVDC(t)

	// sprite pattern cell 4 (pattern code 8): plane 0 all ones for each
	// of the 16 rows -> pixel value 1 across the cell
	words := make([]uint16, 16)
	for i := range words {
		words[i] = 0xFFFF
	}
	writeVRAM(v, 4<<6, words...)

	// SATB in VRAM at $7000: Y=64 (screen 0), X=32 (screen 0),
	// pattern code 8, palette 1
	writeVRAM(v, 0x7000, 64, 32, 8, 0x0001)
	writeReg(v, addr.RegSATB, 0x7000)

	// sprite palette entry 256 + 1*16 + 1 -> green
	entry := uint16(256 + 16 + 1)
	vce.WriteRegister(2, uint8(entry))
	vce.WriteRegister(3, uint8(entry>>8))
	vce.WriteRegister(4, 0xC0) // green = 7 (bits 6-8)
	vce.WriteRegister(5, 0x01)

	writeReg(v, addr.RegCR, crSpriteEnable)

	// first frame arms the SATB transfer at vblank, second draws
	for frame := 0; frame < 2; frame++ {
		for i := 0; i < v.totalLines(); i++ {
			v.Tick(cyclesPerLine)
		}
	}

	fb := v.ConsumeFrame()
	require.NotNil(t, fb)
	assert.Equal(t, uint32(0x0000FF00), fb.GetPixel(0, 0))
	assert.Equal(t, uint32(0x0000FF00), fb.GetPixel(15, 15))
	assert.Equal(t, uint32(0x00000000), fb.GetPixel(16, 0), "outside the sprite")
}

func TestSpriteOverflowStatus(t *testing.T) {
	v, _ := newTestVDC(t)

	// 17 sprites stacked on the same line
	for i := uint16(0); i < 17; i++ {
		writeVRAM(v, 0x7000+i*4, 64, 32+i, 8, 0x0000)
	}
	writeReg(v, addr.RegSATB, 0x7000)
	writeReg(v, addr.RegCR, crSpriteEnable)

	for frame := 0; frame < 2; frame++ {
		for i := 0; i < v.totalLines(); i++ {
			v.Tick(cyclesPerLine)
		}
	}

	assert.NotZero(t, v.Status()&statusOverflow)
}

func TestVCEPaletteRGB(t *testing.T) {
	vce := NewVCE()

	// entry 3 = white (all channels 7)
	vce.WriteRegister(2, 3)
	vce.WriteRegister(3, 0)
	vce.WriteRegister(4, 0xFF)
	vce.WriteRegister(5, 0x01)

	assert.Equal(t, uint16(0x01FF), vce.Palette(3))
	assert.Equal(t, uint32(0x00FFFFFF), vce.RGB(3))
	assert.Equal(t, uint32(0), vce.RGB(0))
}

func TestVCEAddressAutoIncrement(t *testing.T) {
	vce := NewVCE()

	vce.WriteRegister(2, 0)
	vce.WriteRegister(3, 0)
	for i := 0; i < 3; i++ {
		vce.WriteRegister(4, uint8(i+1))
		vce.WriteRegister(5, 0)
	}

	assert.Equal(t, uint16(1), vce.Palette(0))
	assert.Equal(t, uint16(2), vce.Palette(1))
	assert.Equal(t, uint16(3), vce.Palette(2))
}

func TestRGBExpansionTable(t *testing.T) {
	assert.Equal(t, [8]uint8{0, 36, 72, 109, 145, 182, 218, 255}, rgbExpand)
}

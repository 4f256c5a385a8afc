package video

import (
	"log/slog"

	"github.com/nutcase/go-pcengine/pcengine/addr"
)

const (
	vramWords = 0x8000 // 32 Ki 16-bit words

	// cyclesPerLine is one scanline in master clock cycles (455 VDC
	// clocks at 3 master cycles each), independent of the dot clock.
	cyclesPerLine = 1365
)

// Status register bits, latched until the status port is read.
const (
	statusCollision uint8 = 0x01
	statusOverflow  uint8 = 0x02
	statusRaster    uint8 = 0x04
	statusSATBEnd   uint8 = 0x08
	statusDMAEnd    uint8 = 0x10
	statusVBlank    uint8 = 0x20
	statusBusy      uint8 = 0x40
)

// CR control register bits.
const (
	crIRQCollision uint16 = 0x0001
	crIRQOverflow  uint16 = 0x0002
	crIRQRaster    uint16 = 0x0004
	crIRQVBlank    uint16 = 0x0008
	crSpriteEnable uint16 = 0x0040
	crBGEnable     uint16 = 0x0080
)

// DCR DMA control bits.
const (
	dcrIRQSATB   uint16 = 0x0001
	dcrIRQDMA    uint16 = 0x0002
	dcrSourceDec uint16 = 0x0004
	dcrDestDec   uint16 = 0x0008
	dcrAutoSATB  uint16 = 0x0010
)

// VDC is the HuC6270 video display controller. Tick drives a per-line
// state machine: each time a scanline's worth of master cycles has
// elapsed, the line is composed into the framebuffer using the scroll
// and control values as they stood at the end of that line.
type VDC struct {
	log *slog.Logger
	vce *VCE

	vram [vramWords]uint16
	satb SATB

	regs     [addr.VDCRegCount]uint16
	regLatch uint8
	status   uint8

	vwrLow     uint8  // low-byte latch for VWR data writes
	readBuffer uint16 // VRR prefetch

	lineCycles int
	line       int
	hist       lineHistory

	satbPending bool

	fb      *FrameBuffer
	spare   *FrameBuffer
	frameOK bool

	// scratch rows reused across lines
	bgLine  [FramebufferStride]uint16
	sprLine [FramebufferStride]uint16
	sprPrio [FramebufferStride]bool

	// IRQHandler drives the IRQ1 line; assert=false on status read.
	IRQHandler func(assert bool)
}

// NewVDC returns a VDC rendering through the given VCE.
func NewVDC(vce *VCE, log *slog.Logger) *VDC {
	if log == nil {
		log = slog.Default()
	}
	v := &VDC{
		log:   log,
		vce:   vce,
		fb:    NewFrameBuffer(),
		spare: NewFrameBuffer(),
	}
	v.Reset()
	return v
}

// Reset clears VRAM, registers and line state, and loads the NTSC
// vertical timing a stock console powers up with.
func (v *VDC) Reset() {
	for i := range v.vram {
		v.vram[i] = 0
	}
	v.satb = SATB{}
	v.regs = [addr.VDCRegCount]uint16{}
	v.regLatch = 0
	v.status = 0
	v.vwrLow = 0
	v.readBuffer = 0
	v.lineCycles = 0
	v.line = 0
	v.hist = lineHistory{}
	v.satbPending = false
	v.frameOK = false

	v.regs[addr.RegVPR] = 0x0F02 // VSW=2, VDS=15
	v.regs[addr.RegVDW] = 0x00EF // 240 active lines
	v.regs[addr.RegVCR] = 0x0004
	v.regs[addr.RegHDR] = 0x001F // 256 px
	v.regs[addr.RegMWR] = 0x0010 // 64x32 map
}

// Vertical frame structure, derived live from the timing registers.

func (v *VDC) activeStart() int {
	vsw := int(v.regs[addr.RegVPR] & 0x1F)
	vds := int(v.regs[addr.RegVPR] >> 8)
	return (vsw + 1) + (vds + 2)
}

func (v *VDC) activeHeight() int {
	return int(v.regs[addr.RegVDW]&0x01FF) + 1
}

func (v *VDC) activeEnd() int { return v.activeStart() + v.activeHeight() }

func (v *VDC) totalLines() int {
	total := v.activeEnd() + int(v.regs[addr.RegVCR]&0xFF)
	if total <= v.activeEnd() {
		total = v.activeEnd() + 1
	}
	if total > maxScanlines {
		total = maxScanlines
	}
	return total
}

// DisplayWidth reports the active pixel width per the HDR register.
func (v *VDC) DisplayWidth() int {
	w := (int(v.regs[addr.RegHDR]&0x7F) + 1) * 8
	if w > FramebufferStride {
		w = FramebufferStride
	}
	return w
}

// DisplayYOffset reports the first framebuffer row carrying active
// display (always 0: the framebuffer holds only the active window).
func (v *VDC) DisplayYOffset() int { return 0 }

// FrameReady reports whether a completed frame is waiting.
func (v *VDC) FrameReady() bool { return v.frameOK }

// ConsumeFrame transfers the completed frame out, swapping in the spare
// buffer. Returns nil when no frame is ready.
func (v *VDC) ConsumeFrame() *FrameBuffer {
	if !v.frameOK {
		return nil
	}
	v.frameOK = false
	frame := v.fb
	v.fb, v.spare = v.spare, frame
	return frame
}

// Tick advances the scanline state machine by master clock cycles.
func (v *VDC) Tick(cycles int) {
	v.lineCycles += cycles
	for v.lineCycles >= cyclesPerLine {
		v.lineCycles -= cyclesPerLine
		v.finishLine()
		v.advanceLine()
	}
}

// finishLine composes the line that just elapsed and handles the
// vblank transition.
func (v *VDC) finishLine() {
	start, end := v.activeStart(), v.activeEnd()

	if v.line >= start && v.line < end {
		y := v.line - start
		v.hist.record(v.line, LineShadow{
			BXR: v.regs[addr.RegBXR] & 0x03FF,
			BYR: v.regs[addr.RegBYR] & 0x01FF,
			CR:  v.regs[addr.RegCR],
		})
		if y < FramebufferHeight {
			v.renderLine(y)
		}
	}

	if v.line == end-1 {
		// entering vertical blank
		v.status |= statusVBlank
		if v.regs[addr.RegCR]&crIRQVBlank != 0 {
			v.assertIRQ()
		}
		v.fb.SetWidth(v.DisplayWidth())
		v.frameOK = true

		if v.satbPending || v.regs[addr.RegDCR]&dcrAutoSATB != 0 {
			v.loadSATB()
		}
	}
}

func (v *VDC) advanceLine() {
	v.line++
	if v.line >= v.totalLines() {
		v.line = 0
	}
	v.checkRaster()
}

// checkRaster fires the raster-compare interrupt at the start of the
// line, so the handler's scroll writes are captured when the line is
// composed at its end. The compare runs against the absolute scanline
// counter: RCR 64 matches line 0.
func (v *VDC) checkRaster() {
	if v.regs[addr.RegCR]&crIRQRaster == 0 {
		return
	}
	rcr := int(v.regs[addr.RegRCR] & 0x03FF)
	if v.line == rcr-64 {
		v.status |= statusRaster
		v.assertIRQ()
	}
}

func (v *VDC) assertIRQ() {
	if v.IRQHandler != nil {
		v.IRQHandler(true)
	}
}

// mapSize decodes MWR into the virtual screen size in tiles.
func (v *VDC) mapSize() (w, h int) {
	switch (v.regs[addr.RegMWR] >> 4) & 0x03 {
	case 0:
		w = 32
	case 1:
		w = 64
	default:
		w = 128
	}
	h = 32
	if v.regs[addr.RegMWR]&0x40 != 0 {
		h = 64
	}
	return w, h
}

// renderLine composes framebuffer row y: background, then sprites, then
// the priority merge against the backdrop color.
func (v *VDC) renderLine(y int) {
	width := v.DisplayWidth()
	shadow := v.hist.at(v.line)

	v.renderBGRow(y, width, shadow)
	v.renderSpriteRow(y, width, shadow)

	backdrop := v.vce.RGB(0)
	bgOn := shadow.CR&crBGEnable != 0
	sprOn := shadow.CR&crSpriteEnable != 0

	row := v.fb.Row(y)
	for x := 0; x < width; x++ {
		rgb := backdrop

		bgPix := uint16(0)
		if bgOn {
			bgPix = v.bgLine[x]
		}
		if bgPix&0x0F != 0 {
			rgb = v.vce.RGB(bgPix)
		}

		if sprOn {
			sprPix := v.sprLine[x]
			if sprPix&0x0F != 0 && (v.sprPrio[x] || bgPix&0x0F == 0) {
				rgb = v.vce.RGB(256 + sprPix)
			}
		}

		row[x] = rgb
	}
}

// renderBGRow fills bgLine with palette-RAM indices (palette*16+pixel;
// low nibble zero means transparent).
func (v *VDC) renderBGRow(y, width int, shadow LineShadow) {
	mapW, mapH := v.mapSize()
	mapWPx, mapHPx := mapW*8, mapH*8

	sy := (int(shadow.BYR) + y) % mapHPx
	rowBase := (sy / 8) * mapW
	fine := sy & 7

	for x := 0; x < width; x++ {
		sx := (int(shadow.BXR) + x) % mapWPx
		bat := v.vram[(rowBase+sx/8)&(vramWords-1)]
		tile := uint32(bat & 0x07FF)
		palette := uint16(bat >> 12)

		pattern := tile*16 + uint32(fine)
		w01 := v.vram[pattern&(vramWords-1)]
		w23 := v.vram[(pattern+8)&(vramWords-1)]

		bit := uint(7 - sx&7)
		pixel := (w01>>bit)&1 |
			((w01>>(8+bit))&1)<<1 |
			((w23>>bit)&1)<<2 |
			((w23>>(8+bit))&1)<<3

		v.bgLine[x] = palette<<4 | pixel
	}
}

// renderSpriteRow fills sprLine/sprPrio from the SATB shadow. The first
// 16 sprites (in table order) that touch the line are drawn; further
// ones set the overflow status bit.
func (v *VDC) renderSpriteRow(y, width int, shadow LineShadow) {
	for x := 0; x < width; x++ {
		v.sprLine[x] = 0
		v.sprPrio[x] = false
	}
	if shadow.CR&crSpriteEnable == 0 {
		return
	}

	drawn := 0
	for i := 0; i < spriteCount; i++ {
		s := v.satb.Sprite(i)
		height := s.Height()
		top := int(s.Y) - 64
		if y < top || y >= top+height {
			continue
		}

		if drawn >= spriteLineLimit {
			v.status |= statusOverflow
			if shadow.CR&crIRQOverflow != 0 {
				v.assertIRQ()
			}
			break
		}
		drawn++

		row := y - top
		if s.VFlip() {
			row = height - 1 - row
		}

		// pattern code bits 10-1 select 16x16 cells of 64 words; the
		// size bits force alignment so multi-cell sprites use
		// consecutive cells (stride 2 vertically)
		index := int(s.Pattern>>1) & 0x03FF
		if s.Wide() {
			index &^= 1
		}
		switch height {
		case 32:
			index &^= 2
		case 64:
			index &^= 6
		}

		cells := s.Width() / 16
		spriteW := s.Width()
		screenX := int(s.X) - 32

		for cx := 0; cx < cells; cx++ {
			cell := index + (row/16)*2 + cx
			base := uint32(cell) << 6
			r := uint32(row & 15)
			p0 := v.vram[(base+r)&(vramWords-1)]
			p1 := v.vram[(base+16+r)&(vramWords-1)]
			p2 := v.vram[(base+32+r)&(vramWords-1)]
			p3 := v.vram[(base+48+r)&(vramWords-1)]

			for px := 0; px < 16; px++ {
				bit := uint(15 - px)
				pixel := (p0>>bit)&1 |
					((p1>>bit)&1)<<1 |
					((p2>>bit)&1)<<2 |
					((p3>>bit)&1)<<3
				if pixel == 0 {
					continue
				}

				xin := cx*16 + px
				if s.HFlip() {
					xin = spriteW - 1 - xin
				}
				sx := screenX + xin
				if sx < 0 || sx >= width {
					continue
				}
				// earlier table entries win overlaps
				if v.sprLine[sx]&0x0F != 0 {
					continue
				}
				v.sprLine[sx] = s.PaletteIndex()<<4 | pixel
				v.sprPrio[sx] = s.Priority()
			}
		}
	}
}

// incrementStride decodes CR bits 12:11 into the MAWR/MARR step.
func (v *VDC) incrementStride() uint16 {
	switch (v.regs[addr.RegCR] >> 11) & 0x03 {
	case 0:
		return 1
	case 1:
		return 32
	case 2:
		return 64
	default:
		return 128
	}
}

// loadSATB copies 256 words from VRAM at the SATB register into the
// internal shadow.
func (v *VDC) loadSATB() {
	v.satb.Load(v.vram[:], v.regs[addr.RegSATB])
	v.satbPending = false
	v.status |= statusSATBEnd
	if v.regs[addr.RegDCR]&dcrIRQSATB != 0 {
		v.assertIRQ()
	}
}

// runDMA performs the VRAM-to-VRAM transfer triggered by a LENR write.
// Emulated as instantaneous; the CPU stall of real hardware is not
// modeled.
func (v *VDC) runDMA() {
	src := v.regs[addr.RegSOUR]
	dst := v.regs[addr.RegDESR]
	count := int(v.regs[addr.RegLENR]) + 1

	srcStep, dstStep := uint16(1), uint16(1)
	if v.regs[addr.RegDCR]&dcrSourceDec != 0 {
		srcStep = 0xFFFF
	}
	if v.regs[addr.RegDCR]&dcrDestDec != 0 {
		dstStep = 0xFFFF
	}

	for i := 0; i < count; i++ {
		v.vram[dst&(vramWords-1)] = v.vram[src&(vramWords-1)]
		src += srcStep
		dst += dstStep
	}

	v.regs[addr.RegSOUR] = src
	v.regs[addr.RegDESR] = dst
	v.status |= statusDMAEnd
	if v.regs[addr.RegDCR]&dcrIRQDMA != 0 {
		v.assertIRQ()
	}
}

// ReadRegister implements the CPU-visible port protocol: status at +0,
// data low/high at +2/+3. Reading the status clears every latched bit
// and drops the IRQ1 line.
func (v *VDC) ReadRegister(offset uint16) uint8 {
	switch offset & 0x03 {
	case 0:
		value := v.status
		v.status = 0
		if v.IRQHandler != nil {
			v.IRQHandler(false)
		}
		return value
	case 1:
		return 0
	case 2:
		if v.regLatch == addr.RegVRR {
			return uint8(v.readBuffer)
		}
		return uint8(v.regs[v.regLatch%addr.VDCRegCount])
	default:
		if v.regLatch == addr.RegVRR {
			value := uint8(v.readBuffer >> 8)
			v.regs[addr.RegMARR] += v.incrementStride()
			v.readBuffer = v.vram[v.regs[addr.RegMARR]&(vramWords-1)]
			return value
		}
		return uint8(v.regs[v.regLatch%addr.VDCRegCount] >> 8)
	}
}

// WriteRegister implements the port writes: +0 latches the register
// number, +2/+3 write the selected register's low/high byte. High-byte
// writes commit the side effects (VRAM write, DMA kick, SATB arm).
func (v *VDC) WriteRegister(offset uint16, value uint8) {
	switch offset & 0x03 {
	case 0:
		v.regLatch = value & 0x1F
	case 1:
		// no function
	case 2:
		v.writeLow(value)
	case 3:
		v.writeHigh(value)
	}
}

func (v *VDC) writeLow(value uint8) {
	reg := v.regLatch
	if reg >= addr.VDCRegCount {
		return
	}
	if reg == addr.RegVRR {
		v.vwrLow = value
		return
	}
	v.regs[reg] = v.regs[reg]&0xFF00 | uint16(value)
	if reg == addr.RegMARR {
		v.readBuffer = v.vram[v.regs[addr.RegMARR]&(vramWords-1)]
	}
}

func (v *VDC) writeHigh(value uint8) {
	reg := v.regLatch
	if reg >= addr.VDCRegCount {
		return
	}

	switch reg {
	case addr.RegVRR:
		word := uint16(value)<<8 | uint16(v.vwrLow)
		mawr := v.regs[addr.RegMAWR]
		if mawr < vramWords {
			v.vram[mawr] = word
		}
		v.regs[addr.RegMAWR] = mawr + v.incrementStride()
	case addr.RegMARR:
		v.regs[reg] = uint16(value)<<8 | v.regs[reg]&0xFF
		v.readBuffer = v.vram[v.regs[addr.RegMARR]&(vramWords-1)]
	case addr.RegLENR:
		v.regs[reg] = uint16(value)<<8 | v.regs[reg]&0xFF
		v.runDMA()
	case addr.RegSATB:
		v.regs[reg] = uint16(value)<<8 | v.regs[reg]&0xFF
		v.satbPending = true
	default:
		v.regs[reg] = uint16(value)<<8 | v.regs[reg]&0xFF
	}
}

// Debug accessors.

// Register returns the raw value of VDC register r.
func (v *VDC) Register(r uint8) uint16 {
	return v.regs[r%addr.VDCRegCount]
}

// VRAMWord returns the VRAM word at the given word address.
func (v *VDC) VRAMWord(index uint16) uint16 {
	return v.vram[index&(vramWords-1)]
}

// SATBWord returns a raw word of the SATB shadow.
func (v *VDC) SATBWord(index int) uint16 { return v.satb.Word(index) }

// Status returns the latched status bits without clearing them.
func (v *VDC) Status() uint8 { return v.status }

// Line reports the current scanline.
func (v *VDC) Line() int { return v.line }

// LineShadowAt returns the scroll/control shadow captured for a
// scanline of the current frame.
func (v *VDC) LineShadowAt(line int) LineShadow { return v.hist.at(line) }

package video

import "github.com/nutcase/go-pcengine/pcengine/bit"

const (
	spriteCount     = 64
	spriteWords     = 4
	satbWords       = spriteCount * spriteWords
	spriteLineLimit = 16 // hardware draws the first 16 sprites per line
)

// Sprite is one decoded entry of the sprite attribute table.
type Sprite struct {
	Y       uint16 // vertical position + 64
	X       uint16 // horizontal position + 32
	Pattern uint16 // pattern code, bits 10-1 select a 16x16 cell
	Attr    uint16 // palette, priority, size and flip bits
}

// Attribute bit accessors. CGX doubles the width to 32, CGY selects
// heights 16/32/64.
func (s Sprite) PaletteIndex() uint16 { return s.Attr & 0x0F }
func (s Sprite) Priority() bool       { return bit.IsSet16(7, s.Attr) }
func (s Sprite) Wide() bool           { return bit.IsSet16(8, s.Attr) }
func (s Sprite) HFlip() bool          { return bit.IsSet16(11, s.Attr) }
func (s Sprite) VFlip() bool          { return bit.IsSet16(15, s.Attr) }

func (s Sprite) Width() int {
	if s.Wide() {
		return 32
	}
	return 16
}

func (s Sprite) Height() int {
	switch (s.Attr >> 12) & 0x03 {
	case 0:
		return 16
	case 1:
		return 32
	default:
		return 64
	}
}

// SATB is the VDC-internal shadow of the sprite attribute table, loaded
// from VRAM by the SATB DMA.
type SATB struct {
	words [satbWords]uint16
}

// Load copies 256 words from VRAM starting at base into the shadow.
func (t *SATB) Load(vram []uint16, base uint16) {
	for i := 0; i < satbWords; i++ {
		t.words[i] = vram[(uint32(base)+uint32(i))&uint32(len(vram)-1)]
	}
}

// Sprite decodes entry i (0-63).
func (t *SATB) Sprite(i int) Sprite {
	base := i * spriteWords
	return Sprite{
		Y:       t.words[base] & 0x03FF,
		X:       t.words[base+1] & 0x03FF,
		Pattern: t.words[base+2],
		Attr:    t.words[base+3],
	}
}

// Word exposes a raw shadow word for debug accessors.
func (t *SATB) Word(i int) uint16 {
	return t.words[i&(satbWords-1)]
}

package video

import "github.com/nutcase/go-pcengine/pcengine/timing"

const (
	// FramebufferStride is the canonical internal row stride in pixels,
	// wide enough for the 10.74 MHz dot clock. The visible width within
	// the stride is reported per frame by the VDC.
	FramebufferStride = 512

	FramebufferHeight = timing.FramebufferHeight
)

// FrameBuffer holds one frame of 24-bit RGB pixels (0xRRGGBB per entry)
// at the canonical stride. width tracks the visible portion of each row.
type FrameBuffer struct {
	width  int
	buffer []uint32
}

// NewFrameBuffer allocates a cleared frame at the canonical stride.
func NewFrameBuffer() *FrameBuffer {
	return &FrameBuffer{
		width:  256,
		buffer: make([]uint32, FramebufferStride*FramebufferHeight),
	}
}

// Width reports the visible pixel width of each row.
func (fb *FrameBuffer) Width() int { return fb.width }

// Height reports the visible height in rows.
func (fb *FrameBuffer) Height() int { return FramebufferHeight }

// SetWidth records the visible width for the frame being composed.
func (fb *FrameBuffer) SetWidth(w int) {
	if w < 1 {
		w = 1
	}
	if w > FramebufferStride {
		w = FramebufferStride
	}
	fb.width = w
}

// GetPixel returns the 24-bit RGB value at (x, y).
func (fb *FrameBuffer) GetPixel(x, y int) uint32 {
	return fb.buffer[y*FramebufferStride+x]
}

// SetPixel stores a 24-bit RGB value at (x, y).
func (fb *FrameBuffer) SetPixel(x, y int, rgb uint32) {
	fb.buffer[y*FramebufferStride+x] = rgb
}

// Row returns the slice backing row y at the canonical stride.
func (fb *FrameBuffer) Row(y int) []uint32 {
	return fb.buffer[y*FramebufferStride : (y+1)*FramebufferStride]
}

// ToSlice exposes the raw buffer (stride FramebufferStride).
func (fb *FrameBuffer) ToSlice() []uint32 { return fb.buffer }

// Clear resets every pixel to black.
func (fb *FrameBuffer) Clear() {
	for i := range fb.buffer {
		fb.buffer[i] = 0
	}
}

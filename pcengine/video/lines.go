package video

// maxScanlines bounds the per-line shadow table; no vertical timing
// configuration produces more lines than this.
const maxScanlines = 512

// LineShadow is the scroll/control state a scanline was composed with.
// Captured at the end of each line's fetch window so raster-split
// effects (games rewriting BXR/BYR inside the RCR handler) land on the
// right line.
type LineShadow struct {
	BXR uint16
	BYR uint16
	CR  uint16
}

// lineHistory records one LineShadow per scanline of the current frame,
// indexed by absolute scanline number. Consulted by the compositor and
// exposed read-only for debug tooling.
type lineHistory struct {
	shadows [maxScanlines]LineShadow
}

func (h *lineHistory) record(line int, s LineShadow) {
	if line >= 0 && line < maxScanlines {
		h.shadows[line] = s
	}
}

func (h *lineHistory) at(line int) LineShadow {
	if line < 0 || line >= maxScanlines {
		return LineShadow{}
	}
	return h.shadows[line]
}

package mc

// Axis is one motion vector component split into its full, half and
// quarter parts. Half and Quarter are 0 or 1.
type Axis struct {
	Full    int
	Half    int
	Quarter int
}

// Decompose splits a luma component given in quarter samples. Full is
// floor(v/4), so negative vectors keep non-negative fractions.
func Decompose(v int) Axis {
	return Axis{Full: v >> 2, Half: (v & 2) >> 1, Quarter: v & 1}
}

// ChromaAxis splits a luma quarter-sample component for a 4:2:0 chroma
// plane. The chroma sample offset is v>>3; the remaining three bits are the
// eighth-sample phase, returned as Full (bit 2), Half (bit 1) and Quarter
// (bit 0).
func ChromaAxis(v int) (offset int, phase Axis) {
	return v >> 3, Axis{Full: (v & 4) >> 2, Half: (v & 2) >> 1, Quarter: v & 1}
}

// Phase recombines the parts into an eighth-sample chroma phase in [0, 7].
func (a Axis) Phase() int { return a.Full<<2 | a.Half<<1 | a.Quarter }

// SubpelFactor selects one of the 16 luma sub-sample positions. Zero is a
// full-sample position; bits 2 and 3 flag a half-sample component.
func SubpelFactor(x, y Axis) int {
	return y.Half<<3 | x.Half<<2 | y.Quarter<<1 | x.Quarter
}

// HasHalf reports whether a sub-pel factor carries a half-sample part.
func HasHalf(factor int) bool { return factor>>2 != 0 }

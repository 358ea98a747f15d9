package dsp

// clip1 clips [-255, 511] to [0, 255]. The range covers every rounded
// output of the 6-tap filters: one pass lands in [-80, 335], two passes in
// [-210, 465].
var clip1 [255 + 511 + 1]uint8

const clip1Offset = 255

// Kclip1 returns the value of v clipped to [0, 255], v in [-255, 511].
func Kclip1(v int) uint8 { return clip1[clip1Offset+v] }

// Clip8b clips v to the range [0, 255].
// Uses unsigned comparison for single-branch hot path when v is in [0, 255].
func Clip8b(v int) uint8 {
	if uint(v) <= 255 {
		return uint8(v)
	}
	// Arithmetic right shift: v>>63 is 0 for positive, -1 for negative.
	return uint8(^(v >> 63) & 255)
}

func init() {
	for i := -255; i <= 511; i++ {
		clip1[clip1Offset+i] = Clip8b(i)
	}
}

// Package mc performs motion-compensated prediction for one macroblock of
// a layered H.264 encoder.
//
// Calls are single shot and synchronous: the caller supplies the decided
// partitions and motion vectors, the reference views, the worker's
// destination block and scratch, and gets back a view of the prediction.
// That view either borrows the reference (or sub-pel, or base-layer intra)
// samples directly or points into the destination block.
//
// Nothing here returns an error. Partition counts beyond MaxPUs and views
// too small for the addressed samples are caller bugs and panic.
package mc

import "github.com/deepteams/svcmc/internal/plane"

// MBSize is the luma width and height of a macroblock.
const MBSize = 16

// MaxPUs is the largest number of prediction units a macroblock may carry
// (sixteen 4x4 partitions).
const MaxPUs = 16

// MV is a motion vector in quarter luma samples.
type MV struct {
	X, Y int16
}

// Dir is the prediction direction of a PU.
type Dir uint8

const (
	List0 Dir = iota
	List1
	Bi
)

func (d Dir) String() string {
	switch d {
	case List0:
		return "L0"
	case List1:
		return "L1"
	case Bi:
		return "Bi"
	}
	return "Dir(?)"
}

// PU is a motion-compensated partition. Position and size are in units of
// 4 luma samples; the size fields store the count minus one.
type PU struct {
	X, Y       uint8
	WdM1, HtM1 uint8
	Dir        Dir
	MV         [2]MV // indexed by List0, List1
}

// Width returns the PU width in luma samples.
func (pu *PU) Width() int { return (int(pu.WdM1) + 1) << 2 }

// Height returns the PU height in luma samples.
func (pu *PU) Height() int { return (int(pu.HtM1) + 1) << 2 }

// PU16x16 returns a whole-macroblock PU.
func PU16x16(dir Dir, mv0, mv1 MV) PU {
	return PU{WdM1: 3, HtM1: 3, Dir: dir, MV: [2]MV{mv0, mv1}}
}

// MBType tags how a macroblock is predicted.
type MBType uint8

const (
	MBTypeP16x16 MBType = iota
	MBTypeB16x16
	MBTypeI16x16
	MBTypeI4x4
	// MBTypeBaseMode inherits prediction from the base layer. When the
	// macroblock is also intra, its prediction is the upsampled base-layer
	// intra reconstruction.
	MBTypeBaseMode
)

// MBInfo carries the decided mode of one macroblock.
type MBInfo struct {
	Type  MBType
	Intra bool
	PUs   []PU
}

// IsBaseIntra reports whether prediction is inherited from the base
// layer's intra reconstruction.
func (mb *MBInfo) IsBaseIntra() bool {
	return mb.Type == MBTypeBaseMode && mb.Intra
}

// Ref is one reference picture's luma and interleaved chroma views, both
// positioned at the current macroblock.
type Ref struct {
	Luma   plane.View
	Chroma plane.View
}

// Refs holds the references for List0 and List1.
type Refs [2]Ref

// Scratch is worker-owned temporary storage for one call. It must not be
// shared between workers.
type Scratch struct {
	// Bi holds the List0 and List1 chroma interpolations of a bi-predicted
	// PU, MBSize bytes per row.
	Bi [2][]byte
}

// ScratchSize is the byte size of each Bi block: 8 rows of 8 interleaved
// pairs.
const ScratchSize = MBSize * MBSize / 2

// NewScratch allocates scratch for one worker.
func NewScratch() *Scratch {
	b := make([]byte, 2*ScratchSize)
	return &Scratch{Bi: [2][]byte{b[:ScratchSize:ScratchSize], b[ScratchSize:]}}
}

// Reset zeroes the scratch blocks.
func (s *Scratch) Reset() {
	clear(s.Bi[0])
	clear(s.Bi[1])
}

package svcmc

import (
	"github.com/deepteams/svcmc/internal/mc"
	"github.com/deepteams/svcmc/internal/plane"
)

// Aliases for the engine types that appear in FrameJob, so callers outside
// this module can build jobs.
type (
	Picture = plane.Picture
	MBInfo  = mc.MBInfo
	MBType  = mc.MBType
	PU      = mc.PU
	MV      = mc.MV
	Dir     = mc.Dir
)

const (
	List0 = mc.List0
	List1 = mc.List1
	Bi    = mc.Bi

	MBTypeP16x16   = mc.MBTypeP16x16
	MBTypeB16x16   = mc.MBTypeB16x16
	MBTypeI16x16   = mc.MBTypeI16x16
	MBTypeI4x4     = mc.MBTypeI4x4
	MBTypeBaseMode = mc.MBTypeBaseMode

	// MaxPUs is the largest partition count of one macroblock.
	MaxPUs = mc.MaxPUs
)

// NewPicture allocates a w x h picture with a pad-sample border; see
// Options.Pad.
func NewPicture(w, h, pad int) *Picture { return plane.NewPicture(w, h, pad) }

// PU16x16 returns a partition covering a whole macroblock.
func PU16x16(dir Dir, mv0, mv1 MV) PU { return mc.PU16x16(dir, mv0, mv1) }

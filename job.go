package svcmc

import (
	"github.com/pkg/errors"

	"github.com/deepteams/svcmc/internal/mc"
	"github.com/deepteams/svcmc/internal/plane"
)

// checkJob reports the first reason job cannot be predicted. Everything
// the engine would otherwise panic on is caught here.
func checkJob(job *FrameJob) error {
	if job == nil {
		return errors.Wrap(ErrInvalidJob, "nil job")
	}
	if job.MBW <= 0 || job.MBH <= 0 {
		return errors.Wrapf(ErrInvalidJob, "frame of %dx%d macroblocks", job.MBW, job.MBH)
	}
	if len(job.MBs) != job.MBW*job.MBH {
		return errors.Wrapf(ErrInvalidJob, "%d macroblocks for a %dx%d frame", len(job.MBs), job.MBW, job.MBH)
	}
	if job.Ref0 == nil {
		return errors.Wrap(ErrInvalidJob, "missing List0 reference")
	}
	pics := []struct {
		name string
		p    *plane.Picture
		ref  bool
	}{
		{"Ref0", job.Ref0, true},
		{"Ref1", job.Ref1, true},
		{"Source", job.Source, false},
		{"BaseIntra", job.BaseIntra, false},
	}
	for _, pic := range pics {
		if pic.p == nil {
			continue
		}
		if pic.p.MBW() != job.MBW || pic.p.MBH() != job.MBH {
			return errors.Wrapf(ErrInvalidJob, "%s is %dx%d, frame is %dx%d macroblocks",
				pic.name, pic.p.MBW(), pic.p.MBH(), job.MBW, job.MBH)
		}
		if pic.ref && pic.p.Pad < MinPad {
			return errors.Wrapf(ErrInvalidJob, "%s border %d is below %d", pic.name, pic.p.Pad, MinPad)
		}
	}
	for i := range job.MBs {
		if err := checkMB(job, i); err != nil {
			return errors.WithMessagef(err, "macroblock %d (%d,%d)", i, i%job.MBW, i/job.MBW)
		}
	}
	return nil
}

// checkMB validates one macroblock: partition count, placement, tiling
// and motion vector reach.
func checkMB(job *FrameJob, i int) error {
	mb := &job.MBs[i]
	n := len(mb.PUs)
	if n > mc.MaxPUs {
		return errors.Wrapf(ErrTooManyPartitions, "%d partitions", n)
	}
	if mb.IsBaseIntra() {
		if job.BaseIntra == nil {
			return errors.Wrap(ErrInvalidJob, "base-mode intra without a base-layer picture")
		}
		return nil
	}
	if n == 0 {
		return errors.Wrap(ErrInvalidJob, "inter macroblock without partitions")
	}

	mbx, mby := i%job.MBW, i/job.MBW
	var covered uint16
	for k := range mb.PUs {
		pu := &mb.PUs[k]
		if int(pu.X)+int(pu.WdM1) > 3 || int(pu.Y)+int(pu.HtM1) > 3 {
			return errors.Wrapf(ErrInvalidJob, "partition %d extends past the macroblock", k)
		}
		if pu.Dir > mc.Bi {
			return errors.Wrapf(ErrInvalidJob, "partition %d has direction %v", k, pu.Dir)
		}
		for cy := int(pu.Y); cy <= int(pu.Y+pu.HtM1); cy++ {
			for cx := int(pu.X); cx <= int(pu.X+pu.WdM1); cx++ {
				bit := uint16(1) << (4*cy + cx)
				if covered&bit != 0 {
					return errors.Wrapf(ErrInvalidJob, "partition %d overlaps another", k)
				}
				covered |= bit
			}
		}

		lists := []mc.Dir{pu.Dir}
		if pu.Dir == mc.Bi {
			lists = []mc.Dir{mc.List0, mc.List1}
		}
		for _, l := range lists {
			ref := job.Ref0
			if l == mc.List1 {
				if job.Ref1 == nil {
					return errors.Wrapf(ErrInvalidJob, "partition %d predicts from List1 without a List1 reference", k)
				}
				ref = job.Ref1
			}
			if !withinReach(ref, mbx, mby, pu, pu.MV[l]) {
				return errors.Wrapf(ErrInvalidJob, "partition %d %v vector (%d,%d) reaches past the reference border",
					k, l, pu.MV[l].X, pu.MV[l].Y)
			}
		}
	}
	if covered != 0xffff {
		return errors.Wrapf(ErrInvalidJob, "partitions leave %016b uncovered", ^covered)
	}
	return nil
}

// withinReach reports whether every sample the interpolation of pu reads
// lies inside ref's border: the block may start at most Pad-4 samples
// outside the picture, leaving room for the filter taps.
func withinReach(ref *plane.Picture, mbx, mby int, pu *mc.PU, mv mc.MV) bool {
	reach := ref.Pad - 4
	x := mc.MBSize*mbx + 4*int(pu.X) + int(mv.X>>2)
	y := mc.MBSize*mby + 4*int(pu.Y) + int(mv.Y>>2)
	return x >= -reach && x+pu.Width() <= ref.Width+reach &&
		y >= -reach && y+pu.Height() <= ref.Height+reach
}

package svcmc

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"

	"github.com/deepteams/svcmc/internal/dsp"
	"github.com/deepteams/svcmc/internal/halfpel"
	"github.com/deepteams/svcmc/internal/mc"
	"github.com/deepteams/svcmc/internal/plane"
	"github.com/deepteams/svcmc/internal/pool"
)

// FrameJob is one frame's worth of decided macroblock modes and the
// pictures they predict from. All pictures must be MBW*16 x MBH*16 luma
// samples; references additionally need a border of at least MinPad.
type FrameJob struct {
	MBW, MBH int

	// Source is the picture being encoded. When set, PredictFrame reports
	// the prediction error against it.
	Source *plane.Picture

	// Ref0 and Ref1 are the List0 and List1 references. Ref1 may be nil
	// when no macroblock predicts from List1. Their borders must already be
	// filled (FromYCbCr, Import or PadEdges); PredictFrame only reads them,
	// so one reference may serve several concurrent frames.
	Ref0, Ref1 *plane.Picture

	// BaseIntra is the upsampled base-layer intra reconstruction, required
	// when any macroblock is base-mode intra.
	BaseIntra *plane.Picture

	// MBs holds MBW*MBH macroblocks in raster order.
	MBs []mc.MBInfo
}

// Stats summarizes a predicted frame.
type Stats struct {
	MBs int
	// Aliased counts inter macroblocks whose luma prediction was borrowed
	// from a reference or the sub-pel block without copying.
	Aliased int
	// Copied counts inter macroblocks assembled into worker storage.
	Copied    int
	BaseIntra int
	// BiChroma counts bi-predicted partitions, each of which averages two
	// chroma interpolations.
	BiChroma int

	SSELuma, SSEChroma int64
}

func (s *Stats) add(o *Stats) {
	s.MBs += o.MBs
	s.Aliased += o.Aliased
	s.Copied += o.Copied
	s.BaseIntra += o.BaseIntra
	s.BiChroma += o.BiChroma
	s.SSELuma += o.SSELuma
	s.SSEChroma += o.SSEChroma
}

// Result is the output of PredictFrame.
type Result struct {
	// Pred is the predicted frame, without border.
	Pred *plane.Picture

	// Residual is the luma source minus prediction, 256 values per
	// macroblock in raster order, each block row-major. It is nil unless
	// Options.Residual is set and the job has a Source.
	Residual []int16

	Stats Stats
}

// MBResidual returns the 16x16 luma residual of macroblock i.
func (r *Result) MBResidual(i int) []int16 {
	if r.Residual == nil {
		return nil
	}
	n := mc.MBSize * mc.MBSize
	return r.Residual[i*n : (i+1)*n : (i+1)*n]
}

// frame is the read-only state shared by the workers of one PredictFrame.
type frame struct {
	job      *FrameJob
	refs     [2]*plane.Picture
	hp       [2]*halfpel.Planes
	pred     *plane.Picture
	residual []int16
	isolate  bool
}

// PredictFrame computes the luma and chroma prediction of every macroblock
// of job. Rows of macroblocks are claimed by Options.Workers goroutines;
// ctx is checked between rows, and a cancelled frame returns no result.
func (l *Layer) PredictFrame(ctx context.Context, job *FrameJob) (*Result, error) {
	if err := checkJob(job); err != nil {
		return nil, err
	}
	start := time.Now()

	f := &frame{
		job:     job,
		refs:    [2]*plane.Picture{job.Ref0, job.Ref1},
		pred:    plane.NewPicture(job.MBW*mc.MBSize, job.MBH*mc.MBSize, 0),
		isolate: l.opts.Isolate,
	}
	if f.refs[1] == nil {
		f.refs[1] = f.refs[0]
	}
	if l.opts.Residual && job.Source != nil {
		f.residual = make([]int16, len(job.MBs)*mc.MBSize*mc.MBSize)
	}

	// Every half-sample plane must be complete before any macroblock is
	// compensated.
	var wg sync.WaitGroup
	for i, ref := range f.refs {
		if i == 1 && ref == f.refs[0] {
			break
		}
		i, ref := i, ref
		wg.Add(1)
		go func() {
			defer wg.Done()
			f.hp[i] = halfpel.Generate(l.table, ref)
		}()
	}
	wg.Wait()
	if f.hp[1] == nil {
		f.hp[1] = f.hp[0]
	}
	defer func() {
		if f.hp[1] != f.hp[0] {
			f.hp[1].Release()
		}
		f.hp[0].Release()
	}()

	numWorkers := l.opts.workers(job.MBH)
	stats := make([]Stats, numWorkers)
	var nextRow, rowsDone atomic.Int32
	wg.Add(numWorkers)
	for i := 0; i < numWorkers; i++ {
		go func(i int) {
			defer wg.Done()
			w := newWorker(l.table)
			defer w.release()
			for ctx.Err() == nil {
				y := int(nextRow.Add(1)) - 1
				if y >= job.MBH {
					break
				}
				for x := 0; x < job.MBW; x++ {
					w.predictMB(f, x, y)
				}
				rowsDone.Add(1)
			}
			stats[i] = w.stats
		}(i)
	}
	wg.Wait()

	if int(rowsDone.Load()) < job.MBH {
		err := ctx.Err()
		if err == nil {
			err = context.Canceled
		}
		return nil, errors.Wrapf(err, "svcmc: frame cancelled after %d of %d rows", rowsDone.Load(), job.MBH)
	}

	res := &Result{Pred: f.pred, Residual: f.residual}
	for i := range stats {
		res.Stats.add(&stats[i])
	}
	l.log.Debug("svcmc: frame predicted",
		"mbs", res.Stats.MBs,
		"workers", numWorkers,
		"aliased", res.Stats.Aliased,
		"copied", res.Stats.Copied,
		"base_intra", res.Stats.BaseIntra,
		"elapsed", time.Since(start))
	return res, nil
}

// worker holds the per-goroutine storage of one PredictFrame. Nothing in
// it is shared.
type worker struct {
	t       *dsp.Table
	luma    []byte
	chroma  []byte
	subpel  []byte
	scratch *mc.Scratch
	tmp     halfpel.Temp
	stats   Stats
}

func newWorker(t *dsp.Table) *worker {
	return &worker{
		t:       t,
		luma:    pool.Get(mc.MBSize * mc.MBSize),
		chroma:  pool.Get(mc.MBSize * mc.MBSize / 2),
		subpel:  pool.Get(mc.MBSize * mc.MBSize),
		scratch: mc.NewScratch(),
	}
}

func (w *worker) release() {
	pool.Put(w.luma)
	pool.Put(w.chroma)
	pool.Put(w.subpel)
}

func (w *worker) predictMB(f *frame, mbx, mby int) {
	t := w.t
	idx := mby*f.job.MBW + mbx
	mb := &f.job.MBs[idx]

	refs := mc.Refs{
		{Luma: f.refs[0].LumaMB(mbx, mby), Chroma: f.refs[0].ChromaMB(mbx, mby)},
		{Luma: f.refs[1].LumaMB(mbx, mby), Chroma: f.refs[1].ChromaMB(mbx, mby)},
	}
	var intraY, intraC plane.View
	if bi := f.job.BaseIntra; bi != nil {
		intraY, intraC = bi.LumaMB(mbx, mby), bi.ChromaMB(mbx, mby)
	}
	subpel := plane.View{Buf: w.subpel, Stride: mc.MBSize}
	dstY := plane.View{Buf: w.luma, Stride: mc.MBSize}
	dstC := plane.View{Buf: w.chroma, Stride: mc.MBSize}

	baseIntra := mb.IsBaseIntra()
	if !baseIntra {
		hr := [2]halfpel.Ref{f.hp[0].At(mbx, mby), f.hp[1].At(mbx, mby)}
		halfpel.Best(t, mb, &hr, subpel, &w.tmp)
	}
	y := mc.Luma(t, &mc.LumaArgs{
		MB: mb, Refs: &refs, SubPel: subpel, BaseIntra: intraY, Dst: dstY, Isolate: f.isolate,
	})
	c := mc.Chroma(t, &mc.ChromaArgs{
		MB: mb, Refs: &refs, BaseIntra: intraC, Dst: dstC, Scratch: w.scratch,
	})

	w.stats.MBs++
	switch {
	case baseIntra:
		w.stats.BaseIntra++
	case y.Same(dstY):
		w.stats.Copied++
	default:
		w.stats.Aliased++
	}
	if !baseIntra {
		for i := range mb.PUs {
			if mb.PUs[i].Dir == mc.Bi {
				w.stats.BiChroma++
			}
		}
	}

	py, pc := f.pred.LumaMB(mbx, mby), f.pred.ChromaMB(mbx, mby)
	t.Inter.CopyLuma(y.Buf, y.Off, y.Stride, py.Buf, py.Off, py.Stride, mc.MBSize, mc.MBSize)
	t.Inter.CopyLuma(c.Buf, c.Off, c.Stride, pc.Buf, pc.Off, pc.Stride, mc.MBSize, mc.MBSize/2)

	src := f.job.Source
	if src == nil {
		return
	}
	sy, sc := src.LumaMB(mbx, mby), src.ChromaMB(mbx, mby)
	w.stats.SSELuma += int64(t.Resid.SSE(sy.Buf, sy.Off, sy.Stride, y.Buf, y.Off, y.Stride, mc.MBSize, mc.MBSize))
	w.stats.SSEChroma += int64(t.Resid.SSE(sc.Buf, sc.Off, sc.Stride, c.Buf, c.Off, c.Stride, mc.MBSize, mc.MBSize/2))
	if f.residual != nil {
		n := mc.MBSize * mc.MBSize
		t.Resid.Subtract(sy.Buf, sy.Off, sy.Stride, y.Buf, y.Off, y.Stride,
			f.residual[idx*n:(idx+1)*n], mc.MBSize, mc.MBSize)
	}
}

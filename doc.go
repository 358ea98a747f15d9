// Package svcmc is the motion-compensated inter-prediction stage of a
// scalable (layered) H.264 encoder, in pure Go.
//
// A Layer owns one bound kernel table and the options of one spatial or
// quality layer. PredictFrame takes the decided macroblock modes of a frame
// (partitions, prediction directions and quarter-sample motion vectors)
// and produces the luma and interleaved-chroma prediction of every
// macroblock, in parallel across macroblock rows.
//
// The package supports:
//   - 16x16 down to 4x4 partitions, List0, List1 and bi-prediction
//   - H.264 half-sample luma and eighth-sample chroma interpolation
//   - Base-mode intra macroblocks inherited from the base layer
//   - Word-parallel kernels selected at run time, byte-exact with the
//     scalar baseline
//
// Luma vectors whose only fractional part is a quarter sample predict from
// the full-sample position; half-sample vectors use the 6-tap planes.
//
// References are read-only: pad them once (Import does) and share them
// between frames.
//
// Basic usage:
//
//	layer, err := svcmc.NewLayer(svcmc.DefaultOptions())
//	ref := layer.Import(img)
//	res, err := layer.PredictFrame(ctx, &svcmc.FrameJob{
//		MBW: ref.MBW(), MBH: ref.MBH(), Ref0: ref, MBs: modes,
//	})
package svcmc

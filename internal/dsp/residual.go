package dsp

// Residual kernels run by the stage that consumes a prediction block.

type genericResidual struct{}

func (genericResidual) SSE(a []byte, aOff, aStride int, b []byte, bOff, bStride, wd, ht int) int {
	sse := 0
	for y := 0; y < ht; y++ {
		for x := 0; x < wd; x++ {
			d := int(a[aOff+x]) - int(b[bOff+x])
			sse += d * d
		}
		aOff += aStride
		bOff += bStride
	}
	return sse
}

func (genericResidual) Subtract(src []byte, srcOff, srcStride int, pred []byte, predOff, predStride int,
	out []int16, wd, ht int) {
	for y := 0; y < ht; y++ {
		for x := 0; x < wd; x++ {
			out[y*wd+x] = int16(int(src[srcOff+x]) - int(pred[predOff+x]))
		}
		srcOff += srcStride
		predOff += predStride
	}
}

type wideResidual struct{}

// SSE unrolls four columns at a time, the same way sse16x16 in the lossy
// path unrolls its rows.
func (wideResidual) SSE(a []byte, aOff, aStride int, b []byte, bOff, bStride, wd, ht int) int {
	sse := 0
	for y := 0; y < ht; y++ {
		pa := a[aOff : aOff+wd]
		pb := b[bOff : bOff+wd]
		x := 0
		for ; x+4 <= wd; x += 4 {
			d0 := int(pa[x+0]) - int(pb[x+0])
			d1 := int(pa[x+1]) - int(pb[x+1])
			d2 := int(pa[x+2]) - int(pb[x+2])
			d3 := int(pa[x+3]) - int(pb[x+3])
			sse += d0*d0 + d1*d1 + d2*d2 + d3*d3
		}
		for ; x < wd; x++ {
			d := int(pa[x]) - int(pb[x])
			sse += d * d
		}
		aOff += aStride
		bOff += bStride
	}
	return sse
}

func (wideResidual) Subtract(src []byte, srcOff, srcStride int, pred []byte, predOff, predStride int,
	out []int16, wd, ht int) {
	for y := 0; y < ht; y++ {
		ps := src[srcOff : srcOff+wd]
		pp := pred[predOff : predOff+wd]
		o := out[y*wd : y*wd+wd]
		for x := range o {
			o[x] = int16(ps[x]) - int16(pp[x])
		}
		srcOff += srcStride
		predOff += predStride
	}
}

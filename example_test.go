package svcmc_test

import (
	"context"
	"fmt"
	"image"
	"image/color"

	"github.com/deepteams/svcmc"
)

func ExampleLayer_PredictFrame() {
	img := image.NewGray(image.Rect(0, 0, 64, 32))
	for y := 0; y < 32; y++ {
		for x := 0; x < 64; x++ {
			img.SetGray(x, y, color.Gray{Y: uint8(x * 4)})
		}
	}

	layer, err := svcmc.NewLayer(svcmc.DefaultOptions())
	if err != nil {
		fmt.Println(err)
		return
	}
	ref := layer.Import(img)

	// Every macroblock moves one sample to the right.
	mbs := make([]svcmc.MBInfo, ref.MBW()*ref.MBH())
	for i := range mbs {
		mbs[i] = svcmc.MBInfo{PUs: []svcmc.PU{svcmc.PU16x16(svcmc.List0, svcmc.MV{X: 4}, svcmc.MV{})}}
	}
	res, err := layer.PredictFrame(context.Background(), &svcmc.FrameJob{
		MBW: ref.MBW(), MBH: ref.MBH(), Source: ref, Ref0: ref, MBs: mbs,
	})
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Printf("macroblocks: %d aliased: %d\n", res.Stats.MBs, res.Stats.Aliased)
	fmt.Printf("chroma error: %d\n", res.Stats.SSEChroma)
	// Output:
	// macroblocks: 8 aliased: 8
	// chroma error: 0
}

func ExampleNewLayer() {
	_, err := svcmc.NewLayer(&svcmc.Options{ISA: "avx1024", Pad: 32})
	fmt.Println(err)
	// Output:
	// ISA "avx1024": svcmc: invalid options
}

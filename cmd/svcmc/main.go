// Command svcmc runs motion-compensated prediction over still images from
// the command line.
//
// Usage:
//
//	svcmc predict [options] <ref0> [ref1]   Predict a frame from one or two references
//	svcmc isa                               Display the kernel binding for this CPU
package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
	"golang.org/x/sys/cpu"

	"github.com/deepteams/svcmc"
	"github.com/deepteams/svcmc/internal/dsp"
)

func main() {
	if len(os.Args) < 2 {
		printUsage(os.Stderr)
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "predict":
		err = runPredict(os.Args[2:], os.Stdout, os.Stderr)
	case "isa":
		err = runISA(os.Stdout)
	case "-h", "-help", "--help", "help":
		printUsage(os.Stdout)
		return
	default:
		fmt.Fprintf(os.Stderr, "svcmc: unknown command %q\n\n", os.Args[1])
		printUsage(os.Stderr)
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "svcmc: %v\n", err)
		os.Exit(1)
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintf(w, `Usage:
  svcmc predict [options] <ref0> [ref1]   Predict a frame from one or two references
  svcmc isa                               Display the kernel binding for this CPU

References may be PNG, JPEG, GIF, BMP, TIFF or WebP.

Run "svcmc predict -h" for options.
`)
}

// --- predict ---

func runPredict(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("predict", flag.ContinueOnError)
	fs.SetOutput(stderr)
	isa := fs.String("isa", "auto", "kernel binding: auto/generic/wide64")
	mv0 := fs.String("mv", "0,0", "List0 motion vector x,y in quarter samples")
	mv1 := fs.String("mv1", "0,0", "List1 motion vector x,y in quarter samples")
	bi := fs.Bool("bi", false, "bi-predict from ref0 and ref1 (needs ref1)")
	workers := fs.Int("workers", 0, "row workers (0=one per CPU)")
	pad := fs.Int("pad", 32, "reference border in samples")
	isolate := fs.Bool("isolate", false, "copy every prediction into worker storage")
	scale := fs.String("scale", "", "resize references to WxH before predicting")
	srcPath := fs.String("src", "", "source picture to measure the prediction against (default: ref0)")
	output := fs.String("o", "", "write the prediction as PNG to this path")
	verbose := fs.Bool("v", false, "debug logging to stderr")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 || fs.NArg() > 2 {
		return errors.New("predict: want one or two reference files\nUsage: svcmc predict [options] <ref0> [ref1]")
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	opts := svcmc.DefaultOptions()
	opts.ISA = *isa
	opts.Workers = *workers
	opts.Pad = *pad
	opts.Isolate = *isolate
	opts.Logger = logger
	layer, err := svcmc.NewLayer(opts)
	if err != nil {
		return errors.Wrap(err, "predict")
	}

	size, err := parseSize(*scale)
	if err != nil {
		return err
	}
	var mvs [2]svcmc.MV
	for i, s := range []string{*mv0, *mv1} {
		if mvs[i], err = parseMV(s); err != nil {
			return err
		}
	}

	refs := make([]*svcmc.Picture, fs.NArg())
	for i := range refs {
		img, err := loadImage(logger, fs.Arg(i), size)
		if err != nil {
			return err
		}
		refs[i] = layer.Import(img)
	}
	job := &svcmc.FrameJob{MBW: refs[0].MBW(), MBH: refs[0].MBH(), Ref0: refs[0], Source: refs[0]}
	if len(refs) == 2 {
		job.Ref1 = refs[1]
	}
	if *srcPath != "" {
		img, err := loadImage(logger, *srcPath, size)
		if err != nil {
			return err
		}
		job.Source = layer.Import(img)
	}

	dir, mbType := svcmc.List0, svcmc.MBTypeP16x16
	if *bi {
		if job.Ref1 == nil {
			return errors.New("predict: -bi needs a second reference")
		}
		dir, mbType = svcmc.Bi, svcmc.MBTypeB16x16
	}
	job.MBs = make([]svcmc.MBInfo, job.MBW*job.MBH)
	for i := range job.MBs {
		job.MBs[i] = svcmc.MBInfo{Type: mbType, PUs: []svcmc.PU{svcmc.PU16x16(dir, mvs[0], mvs[1])}}
	}

	start := time.Now()
	res, err := layer.PredictFrame(context.Background(), job)
	if err != nil {
		return errors.Wrap(err, "predict")
	}
	elapsed := time.Since(start)

	if *output != "" {
		if err := writePNG(*output, res.Pred.ToYCbCr()); err != nil {
			return err
		}
	}

	st := res.Stats
	n := float64(res.Pred.Width * res.Pred.Height)
	fmt.Fprintf(stdout, "Layer:       %s\n", layer.ID)
	fmt.Fprintf(stdout, "ISA:         %s\n", layer.ISA())
	fmt.Fprintf(stdout, "Frame:       %d x %d (%d macroblocks)\n", res.Pred.Width, res.Pred.Height, st.MBs)
	fmt.Fprintf(stdout, "Aliased:     %d\n", st.Aliased)
	fmt.Fprintf(stdout, "Copied:      %d\n", st.Copied)
	fmt.Fprintf(stdout, "Bi chroma:   %d\n", st.BiChroma)
	fmt.Fprintf(stdout, "Luma MSE:    %.3f\n", float64(st.SSELuma)/n)
	fmt.Fprintf(stdout, "Chroma MSE:  %.3f\n", float64(st.SSEChroma)/(n/2))
	fmt.Fprintf(stdout, "Time:        %v\n", elapsed.Round(time.Microsecond))
	return nil
}

// parseMV parses "x,y" in quarter samples.
func parseMV(s string) (svcmc.MV, error) {
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return svcmc.MV{}, errors.Errorf("motion vector %q: want x,y", s)
	}
	x, err := strconv.ParseInt(strings.TrimSpace(xs), 10, 16)
	if err != nil {
		return svcmc.MV{}, errors.Wrapf(err, "motion vector %q", s)
	}
	y, err := strconv.ParseInt(strings.TrimSpace(ys), 10, 16)
	if err != nil {
		return svcmc.MV{}, errors.Wrapf(err, "motion vector %q", s)
	}
	return svcmc.MV{X: int16(x), Y: int16(y)}, nil
}

// parseSize parses "WxH". The empty string means no resize.
func parseSize(s string) (image.Point, error) {
	if s == "" {
		return image.Point{}, nil
	}
	ws, hs, ok := strings.Cut(strings.ToLower(s), "x")
	w, errW := strconv.Atoi(ws)
	h, errH := strconv.Atoi(hs)
	if !ok || errW != nil || errH != nil || w <= 0 || h <= 0 {
		return image.Point{}, errors.Errorf("scale %q: want WxH with positive sizes", s)
	}
	return image.Pt(w, h), nil
}

// loadImage decodes path and, when size is non-zero, resizes it with a
// Catmull-Rom filter.
func loadImage(log *slog.Logger, path string, size image.Point) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if err != nil {
		return nil, errors.Wrapf(err, "decoding %s", path)
	}
	log.Debug("svcmc: reference decoded", "path", path, "format", format, "bounds", img.Bounds())
	if size == (image.Point{}) || size == img.Bounds().Size() {
		return img, nil
	}
	dst := image.NewRGBA(image.Rectangle{Max: size})
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
	return dst, nil
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return errors.Wrapf(err, "encoding %s", path)
	}
	return f.Close()
}

// --- isa ---

func runISA(stdout io.Writer) error {
	fmt.Fprintf(stdout, "ISA:    %s\n", dsp.Detect())
	fmt.Fprintf(stdout, "SSE2:   %v\n", cpu.X86.HasSSE2)
	fmt.Fprintf(stdout, "AVX2:   %v\n", cpu.X86.HasAVX2)
	fmt.Fprintf(stdout, "ASIMD:  %v\n", cpu.ARM64.HasASIMD)
	return nil
}

package main

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/deepteams/svcmc"
)

// createTestPNG writes a w x h gradient PNG into dir and returns its path.
func createTestPNG(t *testing.T, dir, name string, w, h int) string {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{
				R: uint8(x * 7),
				G: uint8(y * 5),
				B: 128,
				A: 255,
			})
		}
	}
	path := filepath.Join(dir, name)
	if err := writePNG(path, img); err != nil {
		t.Fatalf("writing test PNG: %v", err)
	}
	return path
}

func assertContains(t *testing.T, haystack, needle, msg string) {
	t.Helper()
	if !strings.Contains(haystack, needle) {
		t.Errorf("%s: %q not found in output:\n%s", msg, needle, haystack)
	}
}

func TestPredict_SingleReference(t *testing.T) {
	dir := t.TempDir()
	ref := createTestPNG(t, dir, "ref.png", 40, 24)
	out := filepath.Join(dir, "pred.png")

	var stdout, stderr bytes.Buffer
	if err := runPredict([]string{"-mv", "4,0", "-o", out, ref}, &stdout, &stderr); err != nil {
		t.Fatalf("predict: %v\nstderr: %s", err, stderr.String())
	}
	assertContains(t, stdout.String(), "Frame:       48 x 32 (6 macroblocks)", "frame size")
	assertContains(t, stdout.String(), "Aliased:     6", "aliased count")

	f, err := os.Open(out)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decoding prediction: %v", err)
	}
	if img.Bounds().Dx() != 48 || img.Bounds().Dy() != 32 {
		t.Errorf("prediction is %v, want 48x32", img.Bounds())
	}
}

func TestPredict_VerboseLogsDecoding(t *testing.T) {
	dir := t.TempDir()
	ref := createTestPNG(t, dir, "ref.png", 16, 16)

	var stdout, stderr bytes.Buffer
	if err := runPredict([]string{"-v", ref}, &stdout, &stderr); err != nil {
		t.Fatalf("predict: %v", err)
	}
	assertContains(t, stderr.String(), "svcmc: reference decoded", "decode record")
	assertContains(t, stderr.String(), "format=png", "decode format")

	stderr.Reset()
	if err := runPredict([]string{ref}, &stdout, &stderr); err != nil {
		t.Fatalf("predict: %v", err)
	}
	if strings.Contains(stderr.String(), "reference decoded") {
		t.Errorf("debug record printed without -v:\n%s", stderr.String())
	}
}

func TestPredict_BiScaled(t *testing.T) {
	dir := t.TempDir()
	ref0 := createTestPNG(t, dir, "a.png", 50, 30)
	ref1 := createTestPNG(t, dir, "b.png", 20, 20)

	var stdout, stderr bytes.Buffer
	args := []string{"-bi", "-mv", "2,1", "-mv1", "-3,5", "-scale", "64x32", "-isa", "generic", "-workers", "2", ref0, ref1}
	if err := runPredict(args, &stdout, &stderr); err != nil {
		t.Fatalf("predict: %v", err)
	}
	assertContains(t, stdout.String(), "ISA:         generic", "isa")
	assertContains(t, stdout.String(), "Bi chroma:   8", "bi partitions")
}

func TestPredict_Errors(t *testing.T) {
	dir := t.TempDir()
	ref := createTestPNG(t, dir, "ref.png", 16, 16)
	other := createTestPNG(t, dir, "other.png", 32, 16)
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"no input", nil, "want one or two reference files"},
		{"missing file", []string{filepath.Join(dir, "nope.png")}, "nope.png"},
		{"bi without ref1", []string{"-bi", ref}, "-bi needs a second reference"},
		{"bad mv", []string{"-mv", "3", ref}, "want x,y"},
		{"bad scale", []string{"-scale", "0x4", ref}, "positive sizes"},
		{"bad isa", []string{"-isa", "mmx", ref}, "invalid options"},
		{"size mismatch", []string{"-bi", ref, other}, "invalid frame job"},
		{"out of reach", []string{"-mv", "400,0", ref}, "reaches past the reference border"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			err := runPredict(tt.args, &stdout, &stderr)
			if err == nil {
				t.Fatal("expected an error")
			}
			assertContains(t, err.Error(), tt.want, tt.name)
		})
	}
}

func TestParseMV(t *testing.T) {
	tests := []struct {
		in   string
		want svcmc.MV
		ok   bool
	}{
		{"0,0", svcmc.MV{}, true},
		{"-5, 12", svcmc.MV{X: -5, Y: 12}, true},
		{"1", svcmc.MV{}, false},
		{"a,b", svcmc.MV{}, false},
		{"40000,0", svcmc.MV{}, false},
	}
	for _, tt := range tests {
		got, err := parseMV(tt.in)
		if (err == nil) != tt.ok || got != tt.want {
			t.Errorf("parseMV(%q) = %+v, %v", tt.in, got, err)
		}
	}
}

func TestParseSize(t *testing.T) {
	tests := []struct {
		in   string
		want image.Point
		ok   bool
	}{
		{"", image.Point{}, true},
		{"320x240", image.Pt(320, 240), true},
		{"64X32", image.Pt(64, 32), true},
		{"320", image.Point{}, false},
		{"-1x5", image.Point{}, false},
	}
	for _, tt := range tests {
		got, err := parseSize(tt.in)
		if (err == nil) != tt.ok || got != tt.want {
			t.Errorf("parseSize(%q) = %v, %v", tt.in, got, err)
		}
	}
}

func TestISA(t *testing.T) {
	var stdout bytes.Buffer
	if err := runISA(&stdout); err != nil {
		t.Fatal(err)
	}
	assertContains(t, stdout.String(), "ISA:    ", "isa line")
	if !strings.Contains(stdout.String(), "generic") && !strings.Contains(stdout.String(), "wide64") {
		t.Errorf("no binding named in output:\n%s", stdout.String())
	}
}

func TestUsage(t *testing.T) {
	var buf bytes.Buffer
	printUsage(&buf)
	assertContains(t, buf.String(), "svcmc predict", "usage")
}

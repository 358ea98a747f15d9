package dsp

import (
	"log/slog"
	"math/bits"
	"sync"

	"golang.org/x/sys/cpu"
)

var (
	detectOnce sync.Once
	detected   ISA
)

// Detect reports the binding target for the running CPU. The probe runs
// once per process.
func Detect() ISA {
	detectOnce.Do(func() {
		detected = detectISA(bits.UintSize, cpu.X86.HasSSE2, cpu.ARM64.HasASIMD)
		slog.Debug("dsp: kernel table target selected",
			"isa", detected.String(),
			"sse2", cpu.X86.HasSSE2,
			"asimd", cpu.ARM64.HasASIMD)
	})
	return detected
}

// detectISA picks the word-parallel kernels on 64-bit targets that have a
// vector unit; they do not use it directly, but such targets are the ones
// with fast unaligned 64-bit loads.
func detectISA(wordSize int, hasSSE2, hasASIMD bool) ISA {
	if wordSize == 64 && (hasSSE2 || hasASIMD) {
		return ISAWide64
	}
	return ISAGeneric
}

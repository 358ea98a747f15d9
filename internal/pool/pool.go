// Package pool provides bucketed sync.Pool instances for the sample
// buffers that are reallocated every frame: half-sample planes and the
// per-worker macroblock blocks. Buffers are organized by size class to
// minimize waste.
package pool

import "sync"

// Size classes for bucketed pools. The largest classes cover the three
// half-sample planes of a padded 1080p reference.
const (
	Size256B = 256
	Size1K   = 1024
	Size4K   = 4096
	Size64K  = 65536
	Size1M   = 1048576
	Size4M   = 4194304
	Size16M  = 16777216
)

// bucketIndex returns the pool index for a given size.
func bucketIndex(size int) int {
	switch {
	case size <= Size256B:
		return 0
	case size <= Size1K:
		return 1
	case size <= Size4K:
		return 2
	case size <= Size64K:
		return 3
	case size <= Size1M:
		return 4
	case size <= Size4M:
		return 5
	default:
		return 6
	}
}

var sizes = [7]int{Size256B, Size1K, Size4K, Size64K, Size1M, Size4M, Size16M}

var pools [7]sync.Pool

func init() {
	for i := range pools {
		sz := sizes[i]
		pools[i] = sync.Pool{
			New: func() any {
				b := make([]byte, sz)
				return &b
			},
		}
	}
}

// Get returns a byte slice of at least the requested size from the pool.
// The returned slice has length == size and may have a larger capacity.
// Its contents are unspecified. The caller must call Put when done.
func Get(size int) []byte {
	idx := bucketIndex(size)
	bp := pools[idx].Get().(*[]byte)
	b := *bp
	if cap(b) < size {
		b = make([]byte, size)
		*bp = b
		return b
	}
	return b[:size]
}

// Put returns a byte slice to the pool. The slice must have been obtained
// from Get. Slices smaller than Size256B are not pooled.
func Put(b []byte) {
	c := cap(b)
	if c < Size256B {
		return
	}
	idx := bucketIndex(c)
	// A slice grown past its class by Get belongs one class up only if it
	// fills that class.
	if c < sizes[idx] && idx > 0 {
		idx--
	}
	b = b[:c]
	pools[idx].Put(&b)
}

// GetZeroed is Get followed by clearing the slice.
func GetZeroed(size int) []byte {
	b := Get(size)
	clear(b)
	return b
}

package svcmc

import "github.com/pkg/errors"

var (
	// ErrInvalidOptions reports an out-of-range Options field.
	ErrInvalidOptions = errors.New("svcmc: invalid options")

	// ErrInvalidJob reports a FrameJob that cannot be predicted, such as a
	// mis-sized picture or a motion vector reaching past the reference
	// border.
	ErrInvalidJob = errors.New("svcmc: invalid frame job")

	// ErrTooManyPartitions reports a macroblock with more than
	// mc.MaxPUs partitions.
	ErrTooManyPartitions = errors.New("svcmc: too many partitions")
)

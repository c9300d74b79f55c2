package domain

import "errors"

var (
	ErrMissingInput         = errors.New("required boundary or sample input missing")
	ErrUnsupportedFileType  = errors.New("unsupported file type")
	ErrFileTooLarge         = errors.New("file exceeds maximum allowed size")
	ErrDecode               = errors.New("boundary could not be decoded")
	ErrEmptyGeometry        = errors.New("no usable polygon geometry")
	ErrInterpolation        = errors.New("interpolation process failed")
	ErrInterpolationTimeout = errors.New("interpolation process timed out")
)

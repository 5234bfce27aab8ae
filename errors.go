package mandel

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidDimension is returned for a non-positive width, height or iteration budget.
	ErrInvalidDimension = errors.New("invalid dimension")
	// ErrDegenerateZoom is returned for a zoom that is not a finite positive number.
	ErrDegenerateZoom = errors.New("degenerate zoom")
	// ErrInvalidExtent is returned for a non-positive half range or a non-finite center.
	ErrInvalidExtent = errors.New("invalid extent")
	// ErrBandMismatch is returned when a band result does not fit the grid or job it belongs to.
	ErrBandMismatch = errors.New("band mismatch")
)

// ParamError describes a rejected render parameter.
type ParamError struct {
	Field string
	Value any
	Err   error
}

func (e *ParamError) Error() string {
	return fmt.Sprintf("%s %v: %v", e.Field, e.Value, e.Err)
}

func (e *ParamError) Unwrap() error { return e.Err }

func validateDims(width, height, maxIter int) error {
	switch {
	case width <= 0:
		return &ParamError{Field: "width", Value: width, Err: ErrInvalidDimension}
	case height <= 0:
		return &ParamError{Field: "height", Value: height, Err: ErrInvalidDimension}
	case maxIter <= 0:
		return &ParamError{Field: "max_iter", Value: maxIter, Err: ErrInvalidDimension}
	}
	return nil
}

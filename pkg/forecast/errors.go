package forecast

import (
	"errors"
	"fmt"
)

var (
	// ErrInsufficientData means fewer usable observations than MinSamples were supplied
	ErrInsufficientData = errors.New("insufficient data to train")
	// ErrDegenerateInput means every usable observation shares one instant
	ErrDegenerateInput = errors.New("degenerate input: timestamps have no variance")
	// ErrModelUnavailable means a prediction was requested without a trained model
	ErrModelUnavailable = errors.New("model unavailable: train first")
)

// InsufficientDataError carries the usable sample count alongside ErrInsufficientData
type InsufficientDataError struct {
	Count   int
	Minimum int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("insufficient data to train (%d/%d minimum)", e.Count, e.Minimum)
}

// Is makes errors.Is(err, ErrInsufficientData) match
func (e *InsufficientDataError) Is(target error) bool {
	return target == ErrInsufficientData
}

package models

import (
	"errors"
	"math"
)

// ErrValidation is wrapped by every constructor error so callers can
// classify malformed input with errors.Is.
var ErrValidation = errors.New("validation failed")

// MaxAmount is the largest cost or payment amount accepted. Larger values
// cannot be represented exactly in cents.
const MaxAmount = 1e12

func validAmount(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0 && v <= MaxAmount
}

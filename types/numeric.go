package types

import (
	"fmt"
	"math"
)

// IsFinite reports whether v is neither NaN nor infinite.
func IsFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// CheckFinite inspects every value and classifies the first non-finite one
// as ErrNumerical. op names the computation for the error message.
func CheckFinite(op string, vals ...float64) error {
	for _, v := range vals {
		if !IsFinite(v) {
			return fmt.Errorf("%w: %s produced non-finite value %v", ErrNumerical, op, v)
		}
	}
	return nil
}

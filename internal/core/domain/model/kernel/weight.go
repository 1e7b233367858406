package kernel

import (
	"fmt"
	"math"

	"courierpos/internal/pkg/errs"
)

// gramsPerKilogram converts between the gram-precision domain representation
// and the kilogram rates the tariff publishes.
const gramsPerKilogram = 1000

// Weight is a parcel weight held in grams. Rate tables quote per-kilogram
// prices but billing happens at gram precision so volumetric comparisons stay
// exact.
type Weight struct {
	grams int64
}

// NewWeight creates a Weight from grams. Weight must be positive.
func NewWeight(grams int64) (Weight, error) {
	if grams <= 0 {
		return Weight{}, errs.NewValueIsInvalidErrorWithCause("weight",
			fmt.Errorf("%d grams is not greater than 0", grams))
	}
	return Weight{grams: grams}, nil
}

// WeightFromKg converts a kilogram figure from the request edge into grams,
// rounding to the nearest gram.
func WeightFromKg(kg float64) (Weight, error) {
	return NewWeight(int64(math.Round(kg * gramsPerKilogram)))
}

// Grams returns the weight in grams.
func (w Weight) Grams() int64 {
	return w.grams
}

// Kg returns the weight in kilograms for display purposes.
func (w Weight) Kg() float64 {
	return float64(w.grams) / gramsPerKilogram
}

// Max returns the heavier of two weights.
func (w Weight) Max(other Weight) Weight {
	if other.grams > w.grams {
		return other
	}
	return w
}

// Validate returns an error for the zero value.
func (w Weight) Validate() error {
	if w.grams <= 0 {
		return errs.NewValueIsInvalidError("weight must be created via NewWeight")
	}
	return nil
}

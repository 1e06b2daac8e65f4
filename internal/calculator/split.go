package calculator

import (
	"fmt"
	"math"
)

// SplitEqually divides cost among members in whole cents. Cents that do not
// divide evenly go to the first members in order, so the shares always sum
// to the rounded cost.
func SplitEqually(cost float64, members []string) (map[string]float64, error) {
	if len(members) == 0 {
		return nil, fmt.Errorf("must have at least one member")
	}
	if math.IsNaN(cost) || math.IsInf(cost, 0) || cost < 0 {
		return nil, fmt.Errorf("cost must be a non-negative amount")
	}
	if cost*100 >= math.MaxInt64 {
		return nil, fmt.Errorf("cost %g is too large to split in cents", cost)
	}

	totalCents := int64(math.Round(cost * 100))
	n := int64(len(members))
	base := totalCents / n
	remainder := totalCents % n

	shares := make(map[string]float64, len(members))
	for i, m := range members {
		cents := base
		if int64(i) < remainder {
			cents++
		}
		shares[m] = float64(cents) / 100
	}
	return shares, nil
}

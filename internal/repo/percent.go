package repo

import "math"

// Percent converts an availability ratio to the integer percentage shown in
// reports. Halves round to even.
func Percent(ratio float64) int {
	return int(math.RoundToEven(ratio * 100))
}

package dice

// Chance rolls a percentile check against src.
//
// Precondition: percent must be in [0, 100].
// Postcondition: Returns true with probability percent/100.
func Chance(src Source, percent int) bool {
	if percent <= 0 {
		return false
	}
	if percent >= 100 {
		return true
	}
	return src.Intn(100) < percent
}

// Pick returns a uniform index in [0, n).
//
// Precondition: n > 0.
func Pick(src Source, n int) int {
	return src.Intn(n)
}

package common

func Lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

// Clamp01 limits t to [0, 1].
func Clamp01(t float64) float64 {
	if t <= 0 {
		return 0
	}
	if t >= 1 {
		return 1
	}
	return t
}

func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

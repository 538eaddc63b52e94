package bartime

// Measurable is anything that has a duration.
type Measurable interface {
	Duration() *Time
}

// Compare is the canonical order on Measurables: by duration. Different
// Measurables with equal durations compare as 0.
func Compare(a, b Measurable) int {
	return a.Duration().Compare(b.Duration())
}

// Min returns the shorter of a and b. On a tie it returns a.
func Min[T Measurable](a, b T) T {
	if Compare(a, b) > 0 {
		return b
	}
	return a
}

// Max returns the longer of a and b. On a tie it returns a.
func Max[T Measurable](a, b T) T {
	if Compare(a, b) < 0 {
		return b
	}
	return a
}

// Longest returns the longest duration among ms, or Zero if ms is empty.
func Longest[T Measurable](ms []T) *Time {
	res := Zero
	for _, m := range ms {
		res = Max(res, m.Duration())
	}
	return res
}

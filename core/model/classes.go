package model

import "sort"

// UniqueSorted returns the distinct values of y in ascending order. It is
// the class set of a classification target.
func UniqueSorted(y []float64) []float64 {
	seen := make(map[float64]struct{})
	var out []float64
	for _, v := range y {
		if _, ok := seen[v]; !ok {
			seen[v] = struct{}{}
			out = append(out, v)
		}
	}
	sort.Float64s(out)
	return out
}

package reducer

import "slices"

// Sampler exposes the (time, value) pair of each key by index.
type Sampler interface {
	Time(i int) float64
	Value(i int) float64
}

// Simplify selects the subset of candidates needed to keep every discarded
// point within tolerance of the piecewise-linear curve through the kept
// points. candidates must be ascending in time. The first and last
// candidates are always kept.
//
// Each pass scans every candidate not yet kept, measures its distance to the
// line through its bracketing kept points, and keeps the worst one if it
// exceeds tolerance. Ties go to the earliest candidate.
func Simplify(src Sampler, candidates []int, tolerance float64) []int {
	n := len(candidates)
	if n <= 2 {
		return slices.Clone(candidates)
	}

	// kept holds positions into candidates, ascending.
	kept := []int{0, n - 1}
	for len(kept) < n {
		maxDist, maxPos := 0.0, -1
		seg := 0
		for p := 1; p < n-1; p++ {
			for kept[seg+1] < p {
				seg++
			}
			if kept[seg+1] == p {
				continue
			}
			a, b, c := candidates[kept[seg]], candidates[kept[seg+1]], candidates[p]
			d := Distance(src.Time(a), src.Value(a), src.Time(b), src.Value(b), src.Time(c), src.Value(c))
			if d > maxDist {
				maxDist, maxPos = d, p
			}
		}
		if maxPos < 0 || maxDist <= tolerance {
			break
		}
		i, _ := slices.BinarySearch(kept, maxPos)
		kept = slices.Insert(kept, i, maxPos)
	}

	out := make([]int, len(kept))
	for i, p := range kept {
		out[i] = candidates[p]
	}
	return out
}

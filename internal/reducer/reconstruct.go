package reducer

import (
	"github.com/rcliao/keyreducer/internal/anim"
)

// Reconstruct copies the keys at the given source indices into dst, then
// re-applies the source tangents once every key is in place.
func Reconstruct(src anim.Curve, indices []int, dst anim.Curve, rec anim.Recorder) {
	for _, i := range indices {
		anim.CopyKey(src, i, dst, rec)
	}
	anim.RestoreTangents(src, dst, rec)
}

// RepairBoundaries reinserts source keys one time unit away from a dst key
// where dst has smoothed over a hold: dst no longer matches the source there,
// but the source value equals the neighbouring dst key. Times outside w are
// never considered. It returns the number of keys reinserted.
//
// Only the keys dst held on entry are scanned. A reinserted key is not
// scanned itself, so repairs never cascade further along a hold.
func RepairBoundaries(src, dst anim.Curve, w Window) int {
	times := make([]float64, dst.NumKeys())
	for i := range times {
		times[i] = dst.Time(i)
	}

	repaired := 0
	for _, t := range times {
		i, ok := dst.Find(t)
		if !ok {
			continue
		}
		v := dst.Value(i)
		for _, adj := range []float64{t - 1, t + 1} {
			if !w.Contains(adj) {
				continue
			}
			if _, ok := dst.Find(adj); ok {
				continue
			}
			si, ok := src.Find(adj)
			if !ok {
				continue
			}
			sv := src.Value(si)
			if !near(dst.Evaluate(adj), sv) && near(sv, v) {
				anim.CopyKey(src, si, dst, anim.Untracked)
				repaired++
			}
		}
	}
	return repaired
}

func near(v, around float64) bool {
	return v < around+RepairBand && v > around-RepairBand
}

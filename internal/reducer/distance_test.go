package reducer

import (
	"math"
	"testing"
)

func TestDistance(t *testing.T) {
	tests := []struct {
		name                   string
		x1, y1, x2, y2, x3, y3 float64
		want                   float64
	}{
		{"on line", 0, 0, 2, 2, 1, 1, 0},
		{"above horizontal", 0, 0, 10, 0, 5, 3, 3},
		{"beyond segment", 0, 0, 1, 0, 5, -2, 2},
		{"diagonal", 0, 0, 5, 10, 2, 0, 4 / math.Sqrt(5)},
		{"degenerate", 1, 1, 1, 1, 4, 5, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Distance(tt.x1, tt.y1, tt.x2, tt.y2, tt.x3, tt.y3)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDistanceSymmetric(t *testing.T) {
	a := Distance(0, 1, 7, 3, 2, 9)
	b := Distance(7, 3, 0, 1, 2, 9)
	if math.Abs(a-b) > 1e-12 {
		t.Errorf("distance depends on line direction: %v vs %v", a, b)
	}
}

package reducer

import "math"

type vec2 struct {
	X, Y float64
}

func (v vec2) Sub(o vec2) vec2 { return vec2{v.X - o.X, v.Y - o.Y} }

func (v vec2) Mul(f float64) vec2 { return vec2{v.X * f, v.Y * f} }

func (v vec2) Dot(o vec2) float64 { return v.X*o.X + v.Y*o.Y }

func (v vec2) Hypot() float64 { return math.Hypot(v.X, v.Y) }

// Distance returns the perpendicular distance from (x3, y3) to the infinite
// line through (x1, y1) and (x2, y2). If the two line points coincide it
// returns the distance between (x3, y3) and (x1, y1).
func Distance(x1, y1, x2, y2, x3, y3 float64) float64 {
	p1, p2, p3 := vec2{x1, y1}, vec2{x2, y2}, vec2{x3, y3}
	d := p2.Sub(p1)
	r := p3.Sub(p1)
	l := d.Hypot()
	if l == 0 {
		return r.Hypot()
	}
	u := d.Mul(1 / l)
	return r.Sub(u.Mul(u.Dot(r))).Hypot()
}

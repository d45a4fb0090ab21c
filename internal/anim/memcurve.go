package anim

import (
	"fmt"
	"sort"

	"github.com/rcliao/keyreducer/internal/model"
)

// MemCurve is an in-process Curve. Keys are kept sorted by time.
type MemCurve struct {
	id       model.CurveID
	weighted bool
	keys     []model.Keyframe
	rev      int
}

// NewMemCurve returns an empty curve with the given identity.
func NewMemCurve(id model.CurveID, weighted bool) *MemCurve {
	return &MemCurve{id: id, weighted: weighted}
}

// LoadMemCurve rebuilds a curve from stored keys verbatim, without
// recalculating any tangents. Times must be unique.
func LoadMemCurve(id model.CurveID, weighted bool, keys []model.Keyframe) (*MemCurve, error) {
	c := &MemCurve{id: id, weighted: weighted, keys: append([]model.Keyframe(nil), keys...)}
	sort.Slice(c.keys, func(i, j int) bool { return c.keys[i].Time < c.keys[j].Time })
	for i := 1; i < len(c.keys); i++ {
		if c.keys[i].Time == c.keys[i-1].Time {
			return nil, fmt.Errorf("curve %s: duplicate key at time %g", id, c.keys[i].Time)
		}
	}
	return c, nil
}

// BuildMemCurve creates a curve from user-supplied keys. Keys are inserted
// with their tangent types, so unset handles are computed automatically;
// handles that are set (non-zero X) are then applied over the top.
func BuildMemCurve(d model.CurveData) (*MemCurve, error) {
	c := NewMemCurve(d.ID(), d.Weighted)
	for _, k := range d.Keys {
		if _, ok := c.Find(k.Time); ok {
			return nil, fmt.Errorf("curve %s: duplicate key at time %g", c.id, k.Time)
		}
		in, out := k.InType, k.OutType
		if in == "" {
			in = model.TangentClamped
		}
		if out == "" {
			out = model.TangentClamped
		}
		if !model.ValidTangentTypes[in] || !model.ValidTangentTypes[out] {
			return nil, fmt.Errorf("curve %s: invalid tangent type at time %g", c.id, k.Time)
		}
		c.AddKey(k.Time, k.Value, in, out, Untracked)
	}
	for _, k := range d.Keys {
		if k.InX == 0 && k.OutX == 0 && !k.TangentsLocked && !k.WeightLocked {
			continue
		}
		i, _ := c.Find(k.Time)
		cur := c.keys[i]
		if k.InX == 0 {
			k.InX, k.InY = cur.InX, cur.InY
		}
		if k.OutX == 0 {
			k.OutX, k.OutY = cur.OutX, cur.OutY
		}
		ApplyTangents(c, i, k, Untracked)
	}
	return c, nil
}

func (c *MemCurve) ID() model.CurveID { return c.id }

func (c *MemCurve) NumKeys() int { return len(c.keys) }

func (c *MemCurve) Key(i int) model.Keyframe { return c.keys[i] }

func (c *MemCurve) Time(i int) float64 { return c.keys[i].Time }

func (c *MemCurve) Value(i int) float64 { return c.keys[i].Value }

func (c *MemCurve) IsWeighted() bool { return c.weighted }

// Revision increments on every mutation. Scenes use it to find dirty curves.
func (c *MemCurve) Revision() int { return c.rev }

// Data returns the serialized form of the curve.
func (c *MemCurve) Data() model.CurveData {
	return model.CurveData{
		Object:   c.id.Object,
		Attr:     c.id.Attr,
		Weighted: c.weighted,
		Keys:     Keys(c),
	}
}

func (c *MemCurve) Find(t float64) (int, bool) {
	i := c.search(t)
	return i, i < len(c.keys) && c.keys[i].Time == t
}

// search returns the first index whose time is >= t.
func (c *MemCurve) search(t float64) int {
	return sort.Search(len(c.keys), func(i int) bool { return c.keys[i].Time >= t })
}

func (c *MemCurve) NewScratch() Curve {
	return &MemCurve{weighted: c.weighted}
}

func (c *MemCurve) SetWeighted(weighted bool, rec Recorder) {
	if c.weighted == weighted {
		return
	}
	record(rec, model.Edit{Kind: model.EditWeighted, Curve: c.id, WasWeighted: c.weighted, Weighted: weighted})
	c.weighted = weighted
	c.rev++
}

func (c *MemCurve) AddKey(t, v float64, in, out model.TangentType, rec Recorder) int {
	i, exists := c.Find(t)
	if exists {
		before := c.keys[i]
		c.keys[i].Value = v
		c.keys[i].InType = in
		c.keys[i].OutType = out
		c.recompute(i)
		c.recordModify(rec, before, c.keys[i])
	} else {
		c.keys = append(c.keys, model.Keyframe{})
		copy(c.keys[i+1:], c.keys[i:])
		c.keys[i] = model.Keyframe{Time: t, Value: v, InType: in, OutType: out}
		c.recompute(i)
		after := c.keys[i]
		record(rec, model.Edit{Kind: model.EditInsert, Curve: c.id, After: &after})
	}
	c.rev++
	c.recomputeNeighbours(i, rec)
	return i
}

func (c *MemCurve) Remove(i int, rec Recorder) {
	before := c.keys[i]
	c.keys = append(c.keys[:i], c.keys[i+1:]...)
	record(rec, model.Edit{Kind: model.EditRemove, Curve: c.id, Before: &before})
	c.rev++
	// The former neighbours now sit at i-1 and i.
	for _, j := range []int{i - 1, i} {
		if j >= 0 && j < len(c.keys) {
			prev := c.keys[j]
			c.recompute(j)
			c.recordModify(rec, prev, c.keys[j])
		}
	}
}

func (c *MemCurve) SetTangent(i int, x, y float64, in bool, rec Recorder) {
	before := c.keys[i]
	k := &c.keys[i]
	if c.weighted && k.WeightLocked {
		x, y = rescale(x, y, handleLength(k, in))
	}
	if in {
		k.InX, k.InY = x, y
	} else {
		k.OutX, k.OutY = x, y
	}
	if k.TangentsLocked {
		// Locked tangents share a direction; the other side keeps its length.
		if in {
			k.OutX, k.OutY = rescale(x, y, handleLength(k, false))
		} else {
			k.InX, k.InY = rescale(x, y, handleLength(k, true))
		}
	}
	c.rev++
	c.recordModify(rec, before, *k)
}

func (c *MemCurve) SetTangentsLocked(i int, locked bool, rec Recorder) {
	before := c.keys[i]
	c.keys[i].TangentsLocked = locked
	c.rev++
	c.recordModify(rec, before, c.keys[i])
}

func (c *MemCurve) SetWeightsLocked(i int, locked bool, rec Recorder) {
	before := c.keys[i]
	c.keys[i].WeightLocked = locked
	c.rev++
	c.recordModify(rec, before, c.keys[i])
}

// PutKey inserts or replaces a key exactly as given.
func (c *MemCurve) PutKey(k model.Keyframe) {
	i, exists := c.Find(k.Time)
	if exists {
		c.keys[i] = k
	} else {
		c.keys = append(c.keys, model.Keyframe{})
		copy(c.keys[i+1:], c.keys[i:])
		c.keys[i] = k
	}
	c.rev++
}

// DeleteKey removes the key at time t without touching its neighbours.
func (c *MemCurve) DeleteKey(t float64) bool {
	i, ok := c.Find(t)
	if !ok {
		return false
	}
	c.keys = append(c.keys[:i], c.keys[i+1:]...)
	c.rev++
	return true
}

// PatchWeighted sets the weighted flag without recording.
func (c *MemCurve) PatchWeighted(weighted bool) {
	c.weighted = weighted
	c.rev++
}

func (c *MemCurve) recordModify(rec Recorder, before, after model.Keyframe) {
	if before == after {
		return
	}
	record(rec, model.Edit{Kind: model.EditModify, Curve: c.id, Before: &before, After: &after})
}

func (c *MemCurve) recomputeNeighbours(i int, rec Recorder) {
	for _, j := range []int{i - 1, i + 1} {
		if j >= 0 && j < len(c.keys) {
			prev := c.keys[j]
			c.recompute(j)
			c.recordModify(rec, prev, c.keys[j])
		}
	}
}

var (
	_ Curve     = (*MemCurve)(nil)
	_ Patchable = (*MemCurve)(nil)
)

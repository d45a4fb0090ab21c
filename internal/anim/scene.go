package anim

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/rcliao/keyreducer/internal/model"
)

// ErrCurveNotFound is returned when a scene has no curve for an identity.
var ErrCurveNotFound = errors.New("curve not found")

// Scene is a set of named MemCurves. It remembers each curve's revision at
// the last MarkClean so callers can persist only what changed.
type Scene struct {
	curves map[model.CurveID]*MemCurve
	clean  map[model.CurveID]int
}

// NewScene returns an empty scene.
func NewScene() *Scene {
	return &Scene{
		curves: make(map[model.CurveID]*MemCurve),
		clean:  make(map[model.CurveID]int),
	}
}

// Add registers c, replacing any curve with the same identity. Curves are
// added clean.
func (s *Scene) Add(c *MemCurve) {
	s.curves[c.ID()] = c
	s.clean[c.ID()] = c.Revision()
}

// Resolve implements command.Scene.
func (s *Scene) Resolve(_ context.Context, id model.CurveID) (Curve, error) {
	c, ok := s.curves[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrCurveNotFound, id)
	}
	return c, nil
}

// Curve returns the curve with the given identity.
func (s *Scene) Curve(id model.CurveID) (*MemCurve, bool) {
	c, ok := s.curves[id]
	return c, ok
}

// Len returns the number of curves.
func (s *Scene) Len() int {
	return len(s.curves)
}

// Dirty returns the curves changed since they were added or last marked
// clean, ordered by name.
func (s *Scene) Dirty() []*MemCurve {
	var dirty []*MemCurve
	for id, c := range s.curves {
		if c.Revision() != s.clean[id] {
			dirty = append(dirty, c)
		}
	}
	sort.Slice(dirty, func(i, j int) bool { return dirty[i].ID().String() < dirty[j].ID().String() })
	return dirty
}

// MarkClean records the current revision of every curve.
func (s *Scene) MarkClean() {
	for id, c := range s.curves {
		s.clean[id] = c.Revision()
	}
}

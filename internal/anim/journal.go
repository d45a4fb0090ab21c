package anim

import (
	"fmt"

	"github.com/rcliao/keyreducer/internal/model"
)

// Resolver maps a curve identity to a live curve.
type Resolver func(id model.CurveID) (Curve, error)

// Journal records edits so they can be undone and redone as one action.
type Journal struct {
	edits []model.Edit
}

// NewJournal returns a journal holding the given edits, typically loaded
// from persisted history.
func NewJournal(edits []model.Edit) *Journal {
	return &Journal{edits: edits}
}

func (j *Journal) Record(e model.Edit) {
	j.edits = append(j.edits, e)
}

// Edits returns the recorded edits in apply order.
func (j *Journal) Edits() []model.Edit {
	return j.edits
}

func (j *Journal) Len() int {
	return len(j.edits)
}

// Undo reverts every edit, newest first. Every curve is resolved before
// anything changes, and if an edit fails the edits already reverted are
// re-applied, so a failed Undo leaves the curves as they were.
func (j *Journal) Undo(resolve Resolver) error {
	if err := j.check(resolve); err != nil {
		return err
	}
	for i := len(j.edits) - 1; i >= 0; i-- {
		if err := apply(resolve, j.edits[i], true); err != nil {
			for _, e := range j.edits[i+1:] {
				apply(resolve, e, false)
			}
			return err
		}
	}
	return nil
}

// Redo re-applies every edit in the original order. Like Undo it either
// applies every edit or leaves the curves untouched.
func (j *Journal) Redo(resolve Resolver) error {
	if err := j.check(resolve); err != nil {
		return err
	}
	for i, e := range j.edits {
		if err := apply(resolve, e, false); err != nil {
			for k := i - 1; k >= 0; k-- {
				apply(resolve, j.edits[k], true)
			}
			return err
		}
	}
	return nil
}

// check resolves every curve the journal touches.
func (j *Journal) check(resolve Resolver) error {
	seen := make(map[model.CurveID]bool)
	for _, e := range j.edits {
		if seen[e.Curve] {
			continue
		}
		seen[e.Curve] = true
		c, err := resolve(e.Curve)
		if err != nil {
			return fmt.Errorf("resolve %s: %w", e.Curve, err)
		}
		if _, ok := c.(Patchable); !ok {
			return fmt.Errorf("curve %s does not support journal edits", e.Curve)
		}
	}
	return nil
}

func apply(resolve Resolver, e model.Edit, reverse bool) error {
	c, err := resolve(e.Curve)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", e.Curve, err)
	}
	p, ok := c.(Patchable)
	if !ok {
		return fmt.Errorf("curve %s does not support journal edits", e.Curve)
	}

	kind := e.Kind
	before, after := e.Before, e.After
	weighted := e.Weighted
	if reverse {
		switch kind {
		case model.EditInsert:
			kind = model.EditRemove
		case model.EditRemove:
			kind = model.EditInsert
		}
		before, after = after, before
		weighted = e.WasWeighted
	}

	switch kind {
	case model.EditInsert, model.EditModify:
		if after == nil {
			return fmt.Errorf("%s edit on %s has no key state", e.Kind, e.Curve)
		}
		p.PutKey(*after)
	case model.EditRemove:
		if before == nil {
			return fmt.Errorf("%s edit on %s has no key state", e.Kind, e.Curve)
		}
		if !p.DeleteKey(before.Time) {
			return fmt.Errorf("curve %s: no key at time %g", e.Curve, before.Time)
		}
	case model.EditWeighted:
		p.PatchWeighted(weighted)
	default:
		return fmt.Errorf("unknown edit kind %q", e.Kind)
	}
	return nil
}

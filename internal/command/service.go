// Package command implements the user-facing operations: reduce, capture,
// restore, undo and redo.
package command

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/rcliao/keyreducer/internal/anim"
	"github.com/rcliao/keyreducer/internal/model"
	"github.com/rcliao/keyreducer/internal/reducer"
	"github.com/rcliao/keyreducer/internal/snapshot"
)

var (
	ErrNoTargets     = errors.New("please specify at least one attribute")
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrNothingToRedo = errors.New("nothing to redo")
)

// ResolveError reports a target name that does not map to a curve.
type ResolveError struct {
	Name string
	Err  error
}

func (e *ResolveError) Error() string {
	return fmt.Sprintf("failed to find curve %s: %v", e.Name, e.Err)
}

func (e *ResolveError) Unwrap() error { return e.Err }

// Scene resolves curve identities to live curves.
type Scene interface {
	Resolve(ctx context.Context, id model.CurveID) (anim.Curve, error)
}

// Service runs commands against a scene. It owns the snapshot store and the
// undo history for its session.
type Service struct {
	scene     Scene
	snapshots *snapshot.Store
	history   History
	logger    *slog.Logger
}

// NewService creates a service. A nil store or history gets a fresh
// in-memory one.
func NewService(scene Scene, snapshots *snapshot.Store, history History) *Service {
	if snapshots == nil {
		snapshots = snapshot.New()
	}
	if history == nil {
		history = NewMemoryHistory()
	}
	return &Service{
		scene:     scene,
		snapshots: snapshots,
		history:   history,
		logger:    slog.Default().With("component", "command"),
	}
}

// Snapshots returns the service's snapshot store.
func (s *Service) Snapshots() *snapshot.Store {
	return s.snapshots
}

// ReduceResult is the outcome of a reduce command.
type ReduceResult struct {
	Action *Action          `json:"action,omitempty"`
	Curves []reducer.Result `json:"curves"`
}

// Reduce resolves every target, then reduces each curve in turn. All edits
// form one undoable action.
func (s *Service) Reduce(ctx context.Context, targets []string, opts reducer.Options) (*ReduceResult, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	curves, err := s.resolveAll(ctx, targets)
	if err != nil {
		return nil, err
	}

	j := &anim.Journal{}
	out := &ReduceResult{}
	for _, c := range curves {
		res, err := reducer.Reduce(ctx, c, opts, j)
		if err != nil {
			return nil, fmt.Errorf("reduce %s: %w", c.ID(), err)
		}
		out.Curves = append(out.Curves, res)
	}

	if j.Len() > 0 {
		a, err := s.push(ctx, "reduce", j)
		if err != nil {
			return nil, err
		}
		out.Action = a
	}
	s.logger.InfoContext(ctx, "reduced curves", "count", len(curves), "edits", j.Len())
	return out, nil
}

// Capture caches the current state of the targets, replacing any earlier
// capture. It is not undoable.
func (s *Service) Capture(ctx context.Context, targets []string) error {
	curves, err := s.resolveAll(ctx, targets)
	if err != nil {
		return err
	}
	if err := s.snapshots.Capture(curves); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "captured curves", "count", s.snapshots.Len())
	return nil
}

// Restore reinstates the last capture. If a cached curve fails to resolve,
// curves already restored are kept and recorded as one undoable action
// before the error is returned.
func (s *Service) Restore(ctx context.Context) (*Action, error) {
	j := &anim.Journal{}
	restoreErr := s.snapshots.Restore(s.resolver(ctx), j)
	if errors.Is(restoreErr, snapshot.ErrNothingCaptured) {
		return nil, restoreErr
	}

	var a *Action
	if j.Len() > 0 {
		var err error
		if a, err = s.push(ctx, "restore", j); err != nil {
			return nil, err
		}
	}
	if restoreErr != nil {
		return a, restoreErr
	}
	s.logger.InfoContext(ctx, "restored curves", "count", s.snapshots.Len(), "edits", j.Len())
	return a, nil
}

// Undo reverts the most recent action. If its edits cannot be applied the
// curves and the history are left unchanged.
func (s *Service) Undo(ctx context.Context) (*Action, error) {
	a, err := s.history.PeekUndo(ctx)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, ErrNothingToUndo
	}
	if err := a.Journal().Undo(s.resolver(ctx)); err != nil {
		return nil, fmt.Errorf("undo %s: %w", a.Name, err)
	}
	if err := s.history.CommitUndo(ctx, a.ID); err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "undid action", "id", a.ID, "name", a.Name)
	return a, nil
}

// Redo re-applies the most recently undone action. If its edits cannot be
// applied the curves and the history are left unchanged.
func (s *Service) Redo(ctx context.Context) (*Action, error) {
	a, err := s.history.PeekRedo(ctx)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, ErrNothingToRedo
	}
	if err := a.Journal().Redo(s.resolver(ctx)); err != nil {
		return nil, fmt.Errorf("redo %s: %w", a.Name, err)
	}
	if err := s.history.CommitRedo(ctx, a.ID); err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "redid action", "id", a.ID, "name", a.Name)
	return a, nil
}

func (s *Service) resolveAll(ctx context.Context, targets []string) ([]anim.Curve, error) {
	if len(targets) == 0 {
		return nil, ErrNoTargets
	}
	curves := make([]anim.Curve, 0, len(targets))
	for _, name := range targets {
		id, err := model.ParseCurveID(name)
		if err != nil {
			return nil, &ResolveError{Name: name, Err: err}
		}
		c, err := s.scene.Resolve(ctx, id)
		if err != nil {
			return nil, &ResolveError{Name: name, Err: err}
		}
		curves = append(curves, c)
	}
	return curves, nil
}

func (s *Service) resolver(ctx context.Context) anim.Resolver {
	return func(id model.CurveID) (anim.Curve, error) {
		return s.scene.Resolve(ctx, id)
	}
}

func (s *Service) push(ctx context.Context, name string, j *anim.Journal) (*Action, error) {
	a := NewAction(name, j.Edits())
	if err := s.history.Push(ctx, a); err != nil {
		return nil, fmt.Errorf("record %s: %w", name, err)
	}
	return a, nil
}

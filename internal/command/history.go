package command

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/rcliao/keyreducer/internal/anim"
	"github.com/rcliao/keyreducer/internal/model"
)

// Action is one undoable command and the edits it made.
type Action struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	Edits     []model.Edit `json:"-"`
	EditCount int          `json:"edits"`
	CreatedAt time.Time    `json:"created_at"`
}

// NewAction creates an action with a fresh ULID.
func NewAction(name string, edits []model.Edit) *Action {
	return &Action{
		ID:        ulid.Make().String(),
		Name:      name,
		Edits:     edits,
		EditCount: len(edits),
		CreatedAt: time.Now().UTC(),
	}
}

// Journal returns a journal over the action's edits.
func (a *Action) Journal() *anim.Journal {
	return anim.NewJournal(a.Edits)
}

// History is the undo/redo stack. Peeking and committing are separate so an
// action only moves once its edits have been applied. PeekUndo and PeekRedo
// return a nil action when there is nothing to take.
type History interface {
	Push(ctx context.Context, a *Action) error
	PeekUndo(ctx context.Context) (*Action, error)
	PeekRedo(ctx context.Context) (*Action, error)
	// CommitUndo moves the action PeekUndo returned to the redo stack.
	CommitUndo(ctx context.Context, id string) error
	// CommitRedo moves the action PeekRedo returned back to the undo stack.
	CommitRedo(ctx context.Context, id string) error
}

// ErrStaleAction is returned when a commit names an action that is no
// longer on top of its stack.
var ErrStaleAction = errors.New("action is not on top of the history")

// MemoryHistory is an in-process History.
type MemoryHistory struct {
	done   []*Action
	undone []*Action
}

// NewMemoryHistory returns an empty history.
func NewMemoryHistory() *MemoryHistory {
	return &MemoryHistory{}
}

// Push records a new action and discards anything that could be redone.
func (h *MemoryHistory) Push(_ context.Context, a *Action) error {
	h.done = append(h.done, a)
	h.undone = nil
	return nil
}

func (h *MemoryHistory) PeekUndo(context.Context) (*Action, error) {
	return top(h.done), nil
}

func (h *MemoryHistory) PeekRedo(context.Context) (*Action, error) {
	return top(h.undone), nil
}

func (h *MemoryHistory) CommitUndo(_ context.Context, id string) error {
	a := top(h.done)
	if a == nil || a.ID != id {
		return fmt.Errorf("%w: %s", ErrStaleAction, id)
	}
	h.done = h.done[:len(h.done)-1]
	h.undone = append(h.undone, a)
	return nil
}

func (h *MemoryHistory) CommitRedo(_ context.Context, id string) error {
	a := top(h.undone)
	if a == nil || a.ID != id {
		return fmt.Errorf("%w: %s", ErrStaleAction, id)
	}
	h.undone = h.undone[:len(h.undone)-1]
	h.done = append(h.done, a)
	return nil
}

func top(stack []*Action) *Action {
	if len(stack) == 0 {
		return nil
	}
	return stack[len(stack)-1]
}

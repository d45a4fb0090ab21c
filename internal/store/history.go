package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rcliao/keyreducer/internal/command"
	"github.com/rcliao/keyreducer/internal/model"
)

const (
	stateDone   = "done"
	stateUndone = "undone"
)

// History is a command.History persisted in the actions table, so undo and
// redo work across CLI invocations.
type History struct {
	s *SQLiteStore
}

// History returns the persistent undo history.
func (s *SQLiteStore) History() *History {
	return &History{s: s}
}

// Push records a and discards every undone action.
func (h *History) Push(ctx context.Context, a *command.Action) error {
	edits, err := json.Marshal(a.Edits)
	if err != nil {
		return fmt.Errorf("encode edits: %w", err)
	}

	tx, err := h.s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM actions WHERE state = ?`, stateUndone); err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO actions (id, name, edits, created_at, state) VALUES (?, ?, ?, ?, ?)`,
		a.ID, a.Name, string(edits), a.CreatedAt.Format(time.RFC3339Nano), stateDone)
	if err != nil {
		return fmt.Errorf("insert action: %w", err)
	}
	return tx.Commit()
}

// PeekUndo returns the latest done action.
func (h *History) PeekUndo(ctx context.Context) (*command.Action, error) {
	return h.peek(ctx,
		`SELECT id, name, edits, created_at FROM actions WHERE state = ? ORDER BY seq DESC LIMIT 1`,
		stateDone)
}

// PeekRedo returns the earliest undone action, which is the one undone last.
func (h *History) PeekRedo(ctx context.Context) (*command.Action, error) {
	return h.peek(ctx,
		`SELECT id, name, edits, created_at FROM actions WHERE state = ? ORDER BY seq ASC LIMIT 1`,
		stateUndone)
}

// CommitUndo marks the action undone. It must still be the latest done one.
func (h *History) CommitUndo(ctx context.Context, id string) error {
	return h.commit(ctx, id, stateDone, stateUndone,
		`SELECT id FROM actions WHERE state = ? ORDER BY seq DESC LIMIT 1`)
}

// CommitRedo marks the action done. It must still be the earliest undone one.
func (h *History) CommitRedo(ctx context.Context, id string) error {
	return h.commit(ctx, id, stateUndone, stateDone,
		`SELECT id FROM actions WHERE state = ? ORDER BY seq ASC LIMIT 1`)
}

func (h *History) peek(ctx context.Context, query, state string) (*command.Action, error) {
	var edits, createdAt string
	a := &command.Action{}
	err := h.s.db.QueryRowContext(ctx, query, state).Scan(&a.ID, &a.Name, &edits, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var es []model.Edit
	if err := json.Unmarshal([]byte(edits), &es); err != nil {
		return nil, fmt.Errorf("decode edits for %s: %w", a.ID, err)
	}
	a.Edits = es
	a.EditCount = len(es)
	a.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
	return a, nil
}

func (h *History) commit(ctx context.Context, id, from, to, topQuery string) error {
	tx, err := h.s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var top string
	err = tx.QueryRowContext(ctx, topQuery, from).Scan(&top)
	if errors.Is(err, sql.ErrNoRows) || (err == nil && top != id) {
		return fmt.Errorf("%w: %s", command.ErrStaleAction, id)
	}
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `UPDATE actions SET state = ? WHERE id = ?`, to, id); err != nil {
		return err
	}
	return tx.Commit()
}

var _ command.History = (*History)(nil)

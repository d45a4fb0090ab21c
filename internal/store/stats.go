package store

import (
	"context"
	"os"
)

// Stats holds database statistics.
type Stats struct {
	DBPath      string        `json:"db_path"`
	DBSizeBytes int64         `json:"db_size_bytes"`
	TotalCurves int           `json:"total_curves"`
	TotalKeys   int           `json:"total_keys"`
	Snapshots   int           `json:"snapshots"`
	UndoActions int           `json:"undo_actions"`
	RedoActions int           `json:"redo_actions"`
	Objects     []ObjectStats `json:"objects"`
}

// ObjectStats holds per-object counts.
type ObjectStats struct {
	Object string `json:"object"`
	Curves int    `json:"curves"`
	Keys   int    `json:"keys"`
}

// Stats returns database statistics.
func (s *SQLiteStore) Stats(ctx context.Context, dbPath string) (*Stats, error) {
	st := &Stats{DBPath: dbPath}

	// DB file size
	if info, err := os.Stat(dbPath); err == nil {
		st.DBSizeBytes = info.Size()
	}

	s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM curves`).Scan(&st.TotalCurves)
	s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM keys`).Scan(&st.TotalKeys)
	s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM snapshots`).Scan(&st.Snapshots)
	s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM actions WHERE state = ?`, stateDone).Scan(&st.UndoActions)
	s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM actions WHERE state = ?`, stateUndone).Scan(&st.RedoActions)

	rows, err := s.db.QueryContext(ctx, `
		SELECT c.object, COUNT(DISTINCT c.id) AS curves, COUNT(k.time) AS keys
		FROM curves c LEFT JOIN keys k ON k.curve_id = c.id
		GROUP BY c.object ORDER BY keys DESC, c.object`)
	if err != nil {
		return st, err
	}
	defer rows.Close()

	for rows.Next() {
		var o ObjectStats
		rows.Scan(&o.Object, &o.Curves, &o.Keys)
		st.Objects = append(st.Objects, o)
	}

	return st, rows.Err()
}

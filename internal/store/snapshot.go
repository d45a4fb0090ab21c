package store

import (
	"context"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/rcliao/keyreducer/internal/model"
)

// SaveSnapshots replaces the persisted capture with curves. Keys are stored
// as a msgpack blob per curve.
func (s *SQLiteStore) SaveSnapshots(ctx context.Context, curves []model.CachedCurve) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM snapshots`); err != nil {
		return fmt.Errorf("clear snapshots: %w", err)
	}
	for i, cc := range curves {
		blob, err := msgpack.Marshal(cc.Keys)
		if err != nil {
			return fmt.Errorf("encode %s: %w", cc.ID, err)
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO snapshots (seq, object, attr, weighted, keys) VALUES (?, ?, ?, ?, ?)`,
			i, cc.ID.Object, cc.ID.Attr, cc.Weighted, blob)
		if err != nil {
			return fmt.Errorf("insert snapshot: %w", err)
		}
	}
	return tx.Commit()
}

// LoadSnapshots returns the persisted capture in capture order.
func (s *SQLiteStore) LoadSnapshots(ctx context.Context) ([]model.CachedCurve, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT object, attr, weighted, keys FROM snapshots ORDER BY seq`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var curves []model.CachedCurve
	for rows.Next() {
		var cc model.CachedCurve
		var blob []byte
		if err := rows.Scan(&cc.ID.Object, &cc.ID.Attr, &cc.Weighted, &blob); err != nil {
			return nil, err
		}
		if err := msgpack.Unmarshal(blob, &cc.Keys); err != nil {
			return nil, fmt.Errorf("decode %s: %w", cc.ID, err)
		}
		curves = append(curves, cc)
	}
	return curves, rows.Err()
}

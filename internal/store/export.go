package store

import (
	"context"

	"github.com/rcliao/keyreducer/internal/model"
)

// ExportAll returns every curve with its keys, optionally filtered by object.
func (s *SQLiteStore) ExportAll(ctx context.Context, object string) ([]model.CurveData, error) {
	query := `SELECT id, object, attr, weighted FROM curves`
	var args []interface{}
	if object != "" {
		query += ` WHERE object = ?`
		args = append(args, object)
	}
	query += ` ORDER BY object, attr`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	type exportRow struct {
		rowID string
		d     model.CurveData
	}
	var found []exportRow
	for rows.Next() {
		var r exportRow
		if err := rows.Scan(&r.rowID, &r.d.Object, &r.d.Attr, &r.d.Weighted); err != nil {
			rows.Close()
			return nil, err
		}
		found = append(found, r)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	curves := make([]model.CurveData, 0, len(found))
	for _, r := range found {
		keys, err := s.keys(ctx, r.rowID)
		if err != nil {
			return nil, err
		}
		r.d.Keys = keys
		curves = append(curves, r.d)
	}
	return curves, nil
}

// Import stores curves from an export. A curve that already exists is
// replaced.
func (s *SQLiteStore) Import(ctx context.Context, curves []model.CurveData) (int, error) {
	imported := 0
	for _, d := range curves {
		if _, err := s.PutCurve(ctx, d); err != nil {
			return imported, err
		}
		imported++
	}
	return imported, nil
}

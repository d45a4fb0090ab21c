package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite"

	"github.com/rcliao/keyreducer/internal/anim"
	"github.com/rcliao/keyreducer/internal/model"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db      *sql.DB
	entropy *rand.Rand
	logger  *slog.Logger
}

// NewSQLiteStore opens or creates a SQLite database at the given path.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=foreign_keys(on)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	s := &SQLiteStore{
		db:      db,
		entropy: rand.New(rand.NewSource(time.Now().UnixNano())),
		logger:  slog.Default().With("component", "store"),
	}

	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return s, nil
}

func (s *SQLiteStore) newID() string {
	return ulid.MustNew(ulid.Timestamp(time.Now()), s.entropy).String()
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS curves (
		id          TEXT PRIMARY KEY,
		object      TEXT NOT NULL,
		attr        TEXT NOT NULL,
		weighted    INTEGER NOT NULL DEFAULT 0,
		created_at  TEXT NOT NULL,
		updated_at  TEXT NOT NULL,
		UNIQUE (object, attr)
	);

	CREATE TABLE IF NOT EXISTS keys (
		curve_id        TEXT NOT NULL REFERENCES curves(id) ON DELETE CASCADE,
		time            REAL NOT NULL,
		value           REAL NOT NULL,
		in_type         TEXT NOT NULL,
		out_type        TEXT NOT NULL,
		in_x            REAL NOT NULL DEFAULT 0,
		in_y            REAL NOT NULL DEFAULT 0,
		out_x           REAL NOT NULL DEFAULT 0,
		out_y           REAL NOT NULL DEFAULT 0,
		tangents_locked INTEGER NOT NULL DEFAULT 0,
		weight_locked   INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (curve_id, time)
	);

	CREATE TABLE IF NOT EXISTS snapshots (
		seq       INTEGER PRIMARY KEY,
		object    TEXT NOT NULL,
		attr      TEXT NOT NULL,
		weighted  INTEGER NOT NULL DEFAULT 0,
		keys      BLOB NOT NULL
	);

	CREATE TABLE IF NOT EXISTS actions (
		seq         INTEGER PRIMARY KEY AUTOINCREMENT,
		id          TEXT NOT NULL UNIQUE,
		name        TEXT NOT NULL,
		edits       TEXT NOT NULL,
		created_at  TEXT NOT NULL,
		state       TEXT NOT NULL DEFAULT 'done'
	);
	CREATE INDEX IF NOT EXISTS idx_actions_state ON actions(state, seq);
	`
	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLiteStore) PutCurve(ctx context.Context, d model.CurveData) (*CurveInfo, error) {
	if d.Object == "" || d.Attr == "" {
		return nil, fmt.Errorf("curve needs both object and attr")
	}
	c, err := anim.BuildMemCurve(d)
	if err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	id, err := s.writeCurve(ctx, tx, c)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return s.info(ctx, id)
}

// writeCurve upserts the curve row and replaces all of its keys.
func (s *SQLiteStore) writeCurve(ctx context.Context, tx *sql.Tx, c *anim.MemCurve) (string, error) {
	now := time.Now().UTC().Format(time.RFC3339)
	cid := c.ID()

	var id string
	err := tx.QueryRowContext(ctx,
		`SELECT id FROM curves WHERE object = ? AND attr = ?`, cid.Object, cid.Attr).Scan(&id)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		id = s.newID()
		_, err = tx.ExecContext(ctx,
			`INSERT INTO curves (id, object, attr, weighted, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			id, cid.Object, cid.Attr, c.IsWeighted(), now, now)
		if err != nil {
			return "", fmt.Errorf("insert curve: %w", err)
		}
	case err != nil:
		return "", err
	default:
		_, err = tx.ExecContext(ctx,
			`UPDATE curves SET weighted = ?, updated_at = ? WHERE id = ?`,
			c.IsWeighted(), now, id)
		if err != nil {
			return "", fmt.Errorf("update curve: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM keys WHERE curve_id = ?`, id); err != nil {
			return "", fmt.Errorf("clear keys: %w", err)
		}
	}

	for i := 0; i < c.NumKeys(); i++ {
		k := c.Key(i)
		_, err = tx.ExecContext(ctx,
			`INSERT INTO keys (curve_id, time, value, in_type, out_type, in_x, in_y, out_x, out_y, tangents_locked, weight_locked)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			id, k.Time, k.Value, string(k.InType), string(k.OutType),
			k.InX, k.InY, k.OutX, k.OutY, k.TangentsLocked, k.WeightLocked)
		if err != nil {
			return "", fmt.Errorf("insert key: %w", err)
		}
	}
	return id, nil
}

func (s *SQLiteStore) GetCurve(ctx context.Context, id model.CurveID) (*model.CurveData, error) {
	var rowID string
	d := &model.CurveData{Object: id.Object, Attr: id.Attr}
	err := s.db.QueryRowContext(ctx,
		`SELECT id, weighted FROM curves WHERE object = ? AND attr = ?`,
		id.Object, id.Attr).Scan(&rowID, &d.Weighted)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}

	keys, err := s.keys(ctx, rowID)
	if err != nil {
		return nil, err
	}
	d.Keys = keys
	return d, nil
}

func (s *SQLiteStore) keys(ctx context.Context, curveID string) ([]model.Keyframe, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT time, value, in_type, out_type, in_x, in_y, out_x, out_y, tangents_locked, weight_locked
		 FROM keys WHERE curve_id = ? ORDER BY time`, curveID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var keys []model.Keyframe
	for rows.Next() {
		k, err := scanKey(rows)
		if err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

func (s *SQLiteStore) ListCurves(ctx context.Context, p ListParams) ([]CurveInfo, error) {
	limit := p.Limit
	if limit <= 0 {
		limit = 100
	}

	query := `
		SELECT c.id, c.object, c.attr, c.weighted, c.updated_at,
		       COUNT(k.time), MIN(k.time), MAX(k.time)
		FROM curves c
		LEFT JOIN keys k ON k.curve_id = c.id`
	var args []interface{}
	if p.Object != "" {
		query += ` WHERE c.object = ?`
		args = append(args, p.Object)
	}
	query += ` GROUP BY c.id ORDER BY c.object, c.attr LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var curves []CurveInfo
	for rows.Next() {
		ci, err := scanInfo(rows)
		if err != nil {
			return nil, err
		}
		curves = append(curves, ci)
	}
	return curves, rows.Err()
}

func (s *SQLiteStore) info(ctx context.Context, id string) (*CurveInfo, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT c.id, c.object, c.attr, c.weighted, c.updated_at,
		       COUNT(k.time), MIN(k.time), MAX(k.time)
		FROM curves c
		LEFT JOIN keys k ON k.curve_id = c.id
		WHERE c.id = ?
		GROUP BY c.id`, id)
	ci, err := scanInfo(row)
	if err != nil {
		return nil, err
	}
	return &ci, nil
}

func (s *SQLiteStore) RmCurve(ctx context.Context, id model.CurveID) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM curves WHERE object = ? AND attr = ?`, id.Object, id.Attr)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

func (s *SQLiteStore) LoadScene(ctx context.Context) (*anim.Scene, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, object, attr, weighted FROM curves`)
	if err != nil {
		return nil, err
	}
	type curveRow struct {
		rowID    string
		id       model.CurveID
		weighted bool
	}
	var curves []curveRow
	for rows.Next() {
		var r curveRow
		if err := rows.Scan(&r.rowID, &r.id.Object, &r.id.Attr, &r.weighted); err != nil {
			rows.Close()
			return nil, err
		}
		curves = append(curves, r)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sc := anim.NewScene()
	for _, r := range curves {
		keys, err := s.keys(ctx, r.rowID)
		if err != nil {
			return nil, err
		}
		c, err := anim.LoadMemCurve(r.id, r.weighted, keys)
		if err != nil {
			return nil, err
		}
		sc.Add(c)
	}
	s.logger.DebugContext(ctx, "loaded scene", "curves", sc.Len())
	return sc, nil
}

func (s *SQLiteStore) SaveScene(ctx context.Context, sc *anim.Scene) error {
	dirty := sc.Dirty()
	if len(dirty) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, c := range dirty {
		if _, err := s.writeCurve(ctx, tx, c); err != nil {
			return fmt.Errorf("save %s: %w", c.ID(), err)
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	sc.MarkClean()
	s.logger.DebugContext(ctx, "saved scene", "curves", len(dirty))
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanKey(row scanner) (model.Keyframe, error) {
	var k model.Keyframe
	var in, out string
	err := row.Scan(&k.Time, &k.Value, &in, &out,
		&k.InX, &k.InY, &k.OutX, &k.OutY, &k.TangentsLocked, &k.WeightLocked)
	k.InType, k.OutType = model.TangentType(in), model.TangentType(out)
	return k, err
}

func scanInfo(row scanner) (CurveInfo, error) {
	var ci CurveInfo
	var updatedAt string
	var start, end sql.NullFloat64
	err := row.Scan(&ci.ID, &ci.Object, &ci.Attr, &ci.Weighted, &updatedAt,
		&ci.Keys, &start, &end)
	if err != nil {
		return ci, err
	}
	ci.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	if start.Valid {
		ci.Start = &start.Float64
	}
	if end.Valid {
		ci.End = &end.Float64
	}
	return ci, nil
}

var _ Store = (*SQLiteStore)(nil)

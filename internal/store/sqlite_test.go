package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/rcliao/keyreducer/internal/anim"
	"github.com/rcliao/keyreducer/internal/command"
	"github.com/rcliao/keyreducer/internal/model"
	"github.com/rcliao/keyreducer/internal/reducer"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dir := t.TempDir()
	s, err := NewSQLiteStore(filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func rampData(object, attr string, values ...float64) model.CurveData {
	d := model.CurveData{Object: object, Attr: attr}
	for i, v := range values {
		d.Keys = append(d.Keys, model.Keyframe{Time: float64(i), Value: v})
	}
	return d
}

func TestPutAndGetCurve(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	info, err := s.PutCurve(ctx, rampData("pCube1", "translateX", 0, 1, 4, 9))
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if info.ID == "" {
		t.Error("expected non-empty ID")
	}
	if info.Keys != 4 {
		t.Errorf("expected 4 keys, got %d", info.Keys)
	}
	if info.Start == nil || *info.Start != 0 || info.End == nil || *info.End != 3 {
		t.Errorf("unexpected range %v..%v", info.Start, info.End)
	}

	got, err := s.GetCurve(ctx, model.CurveID{Object: "pCube1", Attr: "translateX"})
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got.Keys) != 4 {
		t.Fatalf("expected 4 keys, got %d", len(got.Keys))
	}
	if got.Keys[2].Value != 4 {
		t.Errorf("expected value 4, got %v", got.Keys[2].Value)
	}
	// Unset tangent types default to clamped.
	if got.Keys[1].InType != model.TangentClamped {
		t.Errorf("expected clamped in tangent, got %q", got.Keys[1].InType)
	}
}

func TestPutReplacesCurve(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	first, _ := s.PutCurve(ctx, rampData("a", "tx", 0, 1, 2))
	second, err := s.PutCurve(ctx, rampData("a", "tx", 5, 5))
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if first.ID != second.ID {
		t.Errorf("expected same row id, got %s and %s", first.ID, second.ID)
	}
	if second.Keys != 2 {
		t.Errorf("expected 2 keys after replace, got %d", second.Keys)
	}
}

func TestPutRejectsBadTangent(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	d := rampData("a", "tx", 0, 1)
	d.Keys[0].InType = "wobbly"
	if _, err := s.PutCurve(ctx, d); err == nil {
		t.Fatal("expected error for unknown tangent type")
	}
}

func TestGetNotFound(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	_, err := s.GetCurve(ctx, model.CurveID{Object: "nope", Attr: "tx"})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestListCurves(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	s.PutCurve(ctx, rampData("b", "ty", 0, 1))
	s.PutCurve(ctx, rampData("a", "tx", 0, 1, 2))
	s.PutCurve(ctx, rampData("a", "rz", 0))

	all, err := s.ListCurves(ctx, ListParams{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 curves, got %d", len(all))
	}
	if all[0].Object != "a" || all[0].Attr != "rz" {
		t.Errorf("expected a.rz first, got %s.%s", all[0].Object, all[0].Attr)
	}

	filtered, _ := s.ListCurves(ctx, ListParams{Object: "a"})
	if len(filtered) != 2 {
		t.Errorf("expected 2 curves on a, got %d", len(filtered))
	}
}

func TestRmCurve(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	id := model.CurveID{Object: "a", Attr: "tx"}
	s.PutCurve(ctx, rampData("a", "tx", 0, 1))
	if err := s.RmCurve(ctx, id); err != nil {
		t.Fatalf("rm: %v", err)
	}
	if _, err := s.GetCurve(ctx, id); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after rm, got %v", err)
	}
	if err := s.RmCurve(ctx, id); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound on second rm, got %v", err)
	}

	st, _ := s.Stats(ctx, "")
	if st.TotalKeys != 0 {
		t.Errorf("expected keys to cascade, got %d", st.TotalKeys)
	}
}

func TestSceneRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	s.PutCurve(ctx, rampData("a", "tx", 0, 1, 2))
	s.PutCurve(ctx, rampData("b", "tx", 3, 3))

	sc, err := s.LoadScene(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if sc.Len() != 2 {
		t.Fatalf("expected 2 curves, got %d", sc.Len())
	}

	c, _ := sc.Curve(model.CurveID{Object: "a", Attr: "tx"})
	c.Remove(1, anim.Untracked)
	if len(sc.Dirty()) != 1 {
		t.Fatalf("expected 1 dirty curve, got %d", len(sc.Dirty()))
	}
	if err := s.SaveScene(ctx, sc); err != nil {
		t.Fatalf("save: %v", err)
	}
	if len(sc.Dirty()) != 0 {
		t.Error("expected scene clean after save")
	}

	got, _ := s.GetCurve(ctx, model.CurveID{Object: "a", Attr: "tx"})
	if len(got.Keys) != 2 {
		t.Errorf("expected 2 keys after save, got %d", len(got.Keys))
	}
}

func TestSnapshotsRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	want := []model.CachedCurve{
		{
			ID:       model.CurveID{Object: "a", Attr: "tx"},
			Weighted: true,
			Keys: []model.Keyframe{
				{Time: 0, Value: 1, InType: model.TangentFixed, OutType: model.TangentFixed, InX: 2, InY: 1, OutX: 2, OutY: 1, TangentsLocked: true},
				{Time: 4, Value: 0, InType: model.TangentLinear, OutType: model.TangentStep, WeightLocked: true},
			},
		},
		{
			ID:   model.CurveID{Object: "b", Attr: "ry"},
			Keys: []model.Keyframe{{Time: 1, Value: 2, InType: model.TangentFlat, OutType: model.TangentFlat}},
		},
	}
	if err := s.SaveSnapshots(ctx, want); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := s.LoadSnapshots(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 snapshots, got %d", len(got))
	}
	if got[0].ID != want[0].ID || !got[0].Weighted {
		t.Errorf("unexpected first snapshot %+v", got[0])
	}
	if got[0].Keys[0] != want[0].Keys[0] || got[0].Keys[1] != want[0].Keys[1] {
		t.Errorf("keys differ: got %+v", got[0].Keys)
	}

	// A second save replaces the first.
	s.SaveSnapshots(ctx, want[1:])
	got, _ = s.LoadSnapshots(ctx)
	if len(got) != 1 || got[0].ID.Object != "b" {
		t.Errorf("expected only b.ry, got %+v", got)
	}
}

func TestHistory(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	h := s.History()

	if a, err := h.PeekUndo(ctx); err != nil || a != nil {
		t.Fatalf("expected empty undo, got %v, %v", a, err)
	}

	k := model.Keyframe{Time: 1, Value: 2, InType: model.TangentLinear, OutType: model.TangentLinear}
	a1 := command.NewAction("reduce", []model.Edit{{Kind: model.EditRemove, Curve: model.CurveID{Object: "a", Attr: "tx"}, Before: &k}})
	a2 := command.NewAction("restore", []model.Edit{{Kind: model.EditWeighted, WasWeighted: false, Weighted: true}})
	h.Push(ctx, a1)
	h.Push(ctx, a2)

	got, err := h.PeekUndo(ctx)
	if err != nil {
		t.Fatalf("peek undo: %v", err)
	}
	if got.ID != a2.ID {
		t.Errorf("expected %s, got %s", a2.ID, got.ID)
	}
	// Peeking does not move anything.
	again, _ := h.PeekUndo(ctx)
	if again.ID != a2.ID {
		t.Errorf("expected peek to be repeatable, got %s", again.ID)
	}
	if err := h.CommitUndo(ctx, a2.ID); err != nil {
		t.Fatalf("commit undo: %v", err)
	}

	got, _ = h.PeekUndo(ctx)
	if got.ID != a1.ID || len(got.Edits) != 1 || *got.Edits[0].Before != k {
		t.Errorf("unexpected action %+v", got)
	}
	if err := h.CommitUndo(ctx, a2.ID); !errors.Is(err, command.ErrStaleAction) {
		t.Errorf("expected ErrStaleAction for a2, got %v", err)
	}
	h.CommitUndo(ctx, a1.ID)

	got, _ = h.PeekRedo(ctx)
	if got.ID != a1.ID {
		t.Errorf("expected redo of %s, got %s", a1.ID, got.ID)
	}
	h.CommitRedo(ctx, a1.ID)

	// Pushing discards the remaining redo entry.
	h.Push(ctx, command.NewAction("reduce", nil))
	if a, _ := h.PeekRedo(ctx); a != nil {
		t.Errorf("expected empty redo after push, got %s", a.Name)
	}

	st, _ := s.Stats(ctx, "")
	if st.UndoActions != 2 || st.RedoActions != 0 {
		t.Errorf("expected 2 undo and 0 redo, got %d and %d", st.UndoActions, st.RedoActions)
	}
}

func TestUndoAfterRmKeepsHistory(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	id := model.CurveID{Object: "a", Attr: "tx"}
	if _, err := s.PutCurve(ctx, rampData("a", "tx", 0, 0, 0, 10, 10, 10)); err != nil {
		t.Fatalf("put: %v", err)
	}

	sc, _ := s.LoadScene(ctx)
	svc := command.NewService(sc, nil, s.History())
	if _, err := svc.Reduce(ctx, []string{"a.tx"}, reducer.Options{Tolerance: 2}); err != nil {
		t.Fatalf("reduce: %v", err)
	}
	if err := s.SaveScene(ctx, sc); err != nil {
		t.Fatalf("save: %v", err)
	}

	if err := s.RmCurve(ctx, id); err != nil {
		t.Fatalf("rm: %v", err)
	}
	sc, _ = s.LoadScene(ctx)
	svc = command.NewService(sc, nil, s.History())
	if _, err := svc.Undo(ctx); !errors.Is(err, anim.ErrCurveNotFound) {
		t.Fatalf("expected ErrCurveNotFound, got %v", err)
	}

	st, _ := s.Stats(ctx, "")
	if st.UndoActions != 1 || st.RedoActions != 0 {
		t.Errorf("expected the failed undo to stay undoable, got %d undo and %d redo", st.UndoActions, st.RedoActions)
	}
}

func TestExportImport(t *testing.T) {
	ctx := context.Background()
	src := newTestStore(t)
	src.PutCurve(ctx, rampData("a", "tx", 0, 1, 2))
	src.PutCurve(ctx, rampData("b", "tx", 4))

	curves, err := src.ExportAll(ctx, "")
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if len(curves) != 2 {
		t.Fatalf("expected 2 curves, got %d", len(curves))
	}

	dst := newTestStore(t)
	n, err := dst.Import(ctx, curves)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2 imported, got %d", n)
	}
	got, _ := dst.GetCurve(ctx, model.CurveID{Object: "a", Attr: "tx"})
	if len(got.Keys) != 3 || got.Keys[2] != curves[0].Keys[2] {
		t.Errorf("import lost keys: %+v", got.Keys)
	}

	only, _ := src.ExportAll(ctx, "b")
	if len(only) != 1 {
		t.Errorf("expected 1 curve for object b, got %d", len(only))
	}
}

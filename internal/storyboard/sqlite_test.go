package storyboard

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/storycut/storycut-agent/internal/db"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	database, err := db.New(filepath.Join(t.TempDir(), "test.db"), nil)
	if err != nil {
		t.Fatalf("db.New() error = %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return NewSQLiteStore(database.Conn())
}

func TestSQLiteStore_SaveLoad(t *testing.T) {
	store := newTestSQLiteStore(t)
	ctx := context.Background()

	if err := store.Save(ctx, yamlFixture()); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := store.Load(ctx, "demo")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded == nil {
		t.Fatal("Load() = nil for saved project")
	}
	if loaded.FPS != 30 || len(loaded.Scenes) != 1 {
		t.Errorf("loaded project = %+v", loaded)
	}

	scene := loaded.Scenes[0]
	if scene.Title != "INTRO" || len(scene.Shots) != 2 {
		t.Errorf("loaded scene = %+v", scene)
	}
	if scene.Shots[0].Narration != "first" || scene.Shots[1].Duration != 3.0 {
		t.Errorf("loaded shots = %+v", scene.Shots)
	}
}

func TestSQLiteStore_LoadMissing(t *testing.T) {
	store := newTestSQLiteStore(t)

	loaded, err := store.Load(context.Background(), "missing")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded != nil {
		t.Errorf("Load() = %+v, want nil", loaded)
	}
}

func TestSQLiteStore_SaveRewrites(t *testing.T) {
	store := newTestSQLiteStore(t)
	ctx := context.Background()

	p := yamlFixture()
	if err := store.Save(ctx, p); err != nil {
		t.Fatalf("first Save() error = %v", err)
	}

	// Drop a shot and save again; the old row must not linger.
	p.Scenes[0].Shots = p.Scenes[0].Shots[:1]
	p.Scenes[0].Duration = 5.0
	if err := store.Save(ctx, p); err != nil {
		t.Fatalf("second Save() error = %v", err)
	}

	loaded, err := store.Load(ctx, "demo")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got := len(loaded.Scenes[0].Shots); got != 1 {
		t.Errorf("shots after rewrite = %d, want 1", got)
	}
}

func TestSQLiteStore_ListAndDelete(t *testing.T) {
	store := newTestSQLiteStore(t)
	ctx := context.Background()

	if err := store.Save(ctx, yamlFixture()); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	second := yamlFixture()
	second.Name = "another"
	if err := store.Save(ctx, second); err != nil {
		t.Fatalf("Save() second error = %v", err)
	}

	names, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(names) != 2 || names[0] != "another" || names[1] != "demo" {
		t.Errorf("List() = %v, want [another demo]", names)
	}

	if err := store.Delete(ctx, "demo"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	loaded, err := store.Load(ctx, "demo")
	if err != nil || loaded != nil {
		t.Errorf("Load() after delete = (%+v, %v), want (nil, nil)", loaded, err)
	}
}

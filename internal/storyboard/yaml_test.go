package storyboard

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func yamlFixture() *Project {
	p, _ := NewProject("demo", "Demo", 30, []Scene{
		{
			Number: 1, Title: "INTRO", Duration: 8.5, TransitionDuration: 1.0,
			Shots: []Shot{
				{Number: 1, Narration: "first", Duration: 5.0, TransitionDuration: 0.5},
				{Number: 2, Narration: "second", Duration: 3.0, TransitionDuration: 0.5},
			},
		},
	})
	return p
}

func TestYAMLStore_SaveLoad(t *testing.T) {
	store, err := NewYAMLStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewYAMLStore() error = %v", err)
	}
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
	if loaded.Title != "Demo" || len(loaded.Scenes) != 1 {
		t.Errorf("loaded project = %+v", loaded)
	}
	if got := loaded.Scenes[0].Shots[1].Duration; got != 3.0 {
		t.Errorf("shot 2 duration = %v, want 3.0", got)
	}
}

func TestYAMLStore_LoadMissing(t *testing.T) {
	store, err := NewYAMLStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewYAMLStore() error = %v", err)
	}

	loaded, err := store.Load(context.Background(), "missing")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded != nil {
		t.Errorf("Load() = %+v, want nil", loaded)
	}
}

func TestYAMLStore_RejectsUnsafeName(t *testing.T) {
	store, err := NewYAMLStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewYAMLStore() error = %v", err)
	}

	for _, name := range []string{"../escape", "has space", "dot.dot"} {
		if _, err := store.Load(context.Background(), name); err == nil {
			t.Errorf("Load(%q) succeeded, want error", name)
		}
	}
}

func TestYAMLStore_LoadInvalidDocument(t *testing.T) {
	root := t.TempDir()
	store, err := NewYAMLStore(root)
	if err != nil {
		t.Fatalf("NewYAMLStore() error = %v", err)
	}

	dir := filepath.Join(root, "broken")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	doc := "name: broken\nfps: 30\nscenes:\n  - number: 1\n    title: X\n    duration: 1.0\n    transition_duration: 9.9\n    shots: []\n"
	if err := os.WriteFile(filepath.Join(dir, "project.yaml"), []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := store.Load(context.Background(), "broken"); err == nil {
		t.Error("Load() of out-of-range document succeeded, want error")
	}
}

func TestYAMLStore_ListAndDelete(t *testing.T) {
	store, err := NewYAMLStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewYAMLStore() error = %v", err)
	}
	ctx := context.Background()

	if err := store.Save(ctx, yamlFixture()); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	names, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(names) != 1 || names[0] != "demo" {
		t.Errorf("List() = %v, want [demo]", names)
	}

	if err := store.Delete(ctx, "demo"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	names, _ = store.List(ctx)
	if len(names) != 0 {
		t.Errorf("List() after delete = %v, want empty", names)
	}
}

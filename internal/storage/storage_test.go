package storage

import (
	"os"
	"path/filepath"
	"testing"

	"creative-builder/internal/model"
)

func TestStylesPersistAcrossReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "styles.json")
	s, err := NewStore(path)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	cfg := model.StyleConfig{BrandAlign: model.AlignLeft, CTAAlign: model.AlignRight, CTAStyle: model.CTARoundedRect}
	if err := s.SetStyle("1:1 Square", cfg); err != nil {
		t.Fatalf("set style: %v", err)
	}

	reloaded, err := NewStore(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	got, ok := reloaded.GetStyle("1:1 Square")
	if !ok {
		t.Fatal("style missing after reload")
	}
	if got != cfg {
		t.Fatalf("unexpected style: %+v", got)
	}
}

func TestDeleteStyle(t *testing.T) {
	s, err := NewStore("")
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	_ = s.SetStyle("9:16 Story", model.DefaultStyleConfig())
	if err := s.DeleteStyle("9:16 Story"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok := s.GetStyle("9:16 Story"); ok {
		t.Fatal("style still present")
	}
	if n := len(s.Snapshot().StyleConfigs); n != 0 {
		t.Fatalf("unexpected overrides: %d", n)
	}
}

func TestEmptyFileLoadsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "styles.json")
	if err := os.WriteFile(path, nil, 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	s, err := NewStore(path)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	if snap := s.Snapshot(); snap.StyleConfigs == nil || snap.CreatedAt.IsZero() {
		t.Fatalf("defaults not applied: %+v", snap)
	}
}

func TestSnapshotIsCopy(t *testing.T) {
	s, _ := NewStore("")
	_ = s.SetStyle("4:5 Feed", model.DefaultStyleConfig())
	snap := s.Snapshot()
	snap.StyleConfigs["4:5 Feed"] = model.StyleConfig{}
	got, _ := s.GetStyle("4:5 Feed")
	if got != model.DefaultStyleConfig() {
		t.Fatalf("snapshot mutation leaked into store: %+v", got)
	}
}

package storage

import (
	"context"
	"os"
	"testing"

	"creative-builder/internal/model"
)

func openTestPG(t *testing.T) *PGStore {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	s, err := OpenPG(context.Background(), dsn)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestPGStoreRoundTrip(t *testing.T) {
	s := openTestPG(t)
	label := "Test Template (pg)"
	t.Cleanup(func() { _ = s.DeleteStyle(label) })

	cfg := model.DefaultStyleConfig()
	cfg.CTAAlign = model.AlignRight
	if err := s.SetStyle(label, cfg); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, ok := s.GetStyle(label)
	if !ok || got != cfg {
		t.Fatalf("unexpected cached style: %+v ok=%v", got, ok)
	}

	reopened := openTestPG(t)
	got, ok = reopened.GetStyle(label)
	if !ok || got != cfg {
		t.Fatalf("style not persisted: %+v ok=%v", got, ok)
	}

	if err := s.DeleteStyle(label); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok := s.GetStyle(label); ok {
		t.Fatalf("expected style to be removed")
	}
	if _, ok := s.Snapshot().StyleConfigs[label]; ok {
		t.Fatalf("snapshot still holds deleted style")
	}
}

package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/samdwyer/darkcave/internal/game"
	"github.com/samdwyer/darkcave/internal/gamedata"
	"github.com/samdwyer/darkcave/internal/session"
)

func TestSavesCommandEmpty(t *testing.T) {
	dir := t.TempDir()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"saves", "--saves-dir", dir})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !strings.Contains(out.String(), "No saved games") {
		t.Errorf("output = %q", out.String())
	}
}

func TestSavesCommandLists(t *testing.T) {
	dir := t.TempDir()
	cfg := game.Config{SavesDir: dir, SaveExt: ".sav", MapWidth: 40, MapHeight: 20, Background: "ranger", Seed: 3}
	store, err := game.NewStore(cfg)
	if err != nil {
		t.Fatal(err)
	}
	sess := newSession(t, cfg)
	if err := store.Save(context.Background(), "Ana", sess); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"saves", "--saves-dir", dir})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	got := out.String()
	if !strings.HasPrefix(got, "1. Ana") {
		t.Errorf("output = %q, want first line for Ana", got)
	}
	if strings.Contains(got, "notes") {
		t.Errorf("output lists a non-save file: %q", got)
	}
	if !strings.Contains(got, "ago") && !strings.Contains(got, "now") {
		t.Errorf("output = %q, want a relative save time", got)
	}
}

func TestSavesCommandRejectsBadBackground(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--background", "bard", "--saves-dir", t.TempDir()})
	if err := cmd.Execute(); err == nil {
		t.Error("expected error for unknown background")
	}
}

func newSession(t *testing.T, cfg game.Config) *session.Session {
	t.Helper()
	initializer := &session.Initializer{
		Items:      gamedata.MustLoadItemRegistry(),
		Enemies:    gamedata.MustLoadEnemyRegistry(),
		Background: cfg.StartingBackground(),
		Width:      cfg.MapWidth,
		Height:     cfg.MapHeight,
		Seed:       cfg.Seed,
	}
	s, err := initializer.NewGame(context.Background(), "Ana")
	if err != nil {
		t.Fatalf("NewGame() error = %v", err)
	}
	return s
}

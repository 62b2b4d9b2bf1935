package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
)

func TestSetupDisabledByDefault(t *testing.T) {
	logger, closer, err := Setup(Options{})
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}
	defer closer.Close()
	if logger.GetLevel() != zerolog.Disabled {
		t.Errorf("expected disabled logger, got level %v", logger.GetLevel())
	}
}

func TestSetupWritesToFile(t *testing.T) {
	dir := t.TempDir()
	logger, closer, err := Setup(Options{Enabled: true, Dir: dir, Level: zerolog.DebugLevel})
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}
	logger.Info().Str("k", "v").Msg("hello")
	closer.Close()

	data, err := os.ReadFile(filepath.Join(dir, DefaultFile))
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if len(data) == 0 {
		t.Error("expected log file to contain content")
	}
}

func TestSetupRotatesOversizedFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app.log")
	if err := os.WriteFile(path, make([]byte, 2048), 0o644); err != nil {
		t.Fatal(err)
	}

	_, closer, err := Setup(Options{Enabled: true, Dir: dir, File: "app.log", MaxSize: 1024})
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}
	defer closer.Close()

	old, err := os.Stat(path + ".old")
	if err != nil {
		t.Fatalf("expected rotated file: %v", err)
	}
	if old.Size() != 2048 {
		t.Errorf("rotated size = %d", old.Size())
	}
	cur, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat new log: %v", err)
	}
	if cur.Size() != 0 {
		t.Errorf("new log should start empty, got %d bytes", cur.Size())
	}
}

func TestSetupKeepsSmallFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, DefaultFile)
	os.WriteFile(path, []byte("prior\n"), 0o644)

	_, closer, err := Setup(Options{Enabled: true, Dir: dir})
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}
	closer.Close()
	if _, err := os.Stat(path + ".old"); !os.IsNotExist(err) {
		t.Error("small log must not rotate")
	}
}

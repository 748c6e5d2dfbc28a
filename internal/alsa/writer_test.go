package alsa

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/plexsphere/i2samp/internal/host"
	"github.com/plexsphere/i2samp/internal/host/hosttest"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

const target = "/etc/asound.conf"

func TestInstall_FreshTarget(t *testing.T) {
	fs := hosttest.NewMemFS(nil)
	if err := NewWriter(fs, testLogger()).Install(target, "one"); err != nil {
		t.Fatalf("Install() = %v", err)
	}
	got, _ := fs.Content(target)
	if got != "one" {
		t.Errorf("content = %q, want %q", got, "one")
	}
	if _, ok := fs.Content(target + ".old"); ok {
		t.Error("backup created without a previous file")
	}
}

func TestInstall_SingleGenerationBackup(t *testing.T) {
	fs := hosttest.NewMemFS(map[string]string{target: "original"})
	w := NewWriter(fs, testLogger())

	if err := w.Install(target, "first"); err != nil {
		t.Fatalf("first Install() = %v", err)
	}
	if err := w.Install(target, "second"); err != nil {
		t.Fatalf("second Install() = %v", err)
	}

	if got, _ := fs.Content(target); got != "second" {
		t.Errorf("target = %q, want %q", got, "second")
	}
	if got, _ := fs.Content(target + ".old"); got != "first" {
		t.Errorf("backup = %q, want %q", got, "first")
	}
	if _, ok := fs.Content(target + ".old.old"); ok {
		t.Error(".old.old exists, want single-generation retention")
	}
	if want := []string{target, target + ".old"}; !reflect.DeepEqual(fs.Paths(), want) {
		t.Errorf("Paths() = %q, want %q", fs.Paths(), want)
	}
}

func TestInstall_BackupCompletesBeforeWrite(t *testing.T) {
	fs := hosttest.NewMemFS(map[string]string{target: "a", target + ".old": "z"})
	if err := NewWriter(fs, testLogger()).Install(target, "b"); err != nil {
		t.Fatal(err)
	}
	want := []string{
		"remove " + target + ".old",
		"rename " + target + " -> " + target + ".old",
		"write " + target,
	}
	if !reflect.DeepEqual(fs.Ops(), want) {
		t.Errorf("Ops() = %q, want %q", fs.Ops(), want)
	}
}

func TestInstall_BackupFailureLeavesOriginal(t *testing.T) {
	fs := hosttest.NewMemFS(map[string]string{target: "keep me"})
	fs.Fail("rename", target, os.ErrPermission)

	err := NewWriter(fs, testLogger()).Install(target, "new")
	if !errors.Is(err, os.ErrPermission) {
		t.Fatalf("Install() error = %v, want os.ErrPermission", err)
	}
	if got, _ := fs.Content(target); got != "keep me" {
		t.Errorf("target = %q, want original preserved", got)
	}
	for _, op := range fs.Ops() {
		if op == "write "+target {
			t.Error("new content written after failed backup")
		}
	}
}

func TestInstall_WriteFailureKeepsBackup(t *testing.T) {
	fs := hosttest.NewMemFS(map[string]string{target: "old"})
	fs.Fail("write", target, os.ErrPermission)

	if err := NewWriter(fs, testLogger()).Install(target, "new"); err == nil {
		t.Fatal("Install() = nil, want write error")
	}
	if got, ok := fs.Content(target + ".old"); !ok || got != "old" {
		t.Errorf("backup = (%q, %v), want previous content preserved", got, ok)
	}
}

func TestInstall_RealFilesystem(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "asound.conf")
	if err := os.WriteFile(path, []byte("v0"), 0o644); err != nil {
		t.Fatal(err)
	}
	w := NewWriter(host.NewOSFS(), testLogger())

	for _, content := range []string{"v1", "v2"} {
		if err := w.Install(path, content); err != nil {
			t.Fatalf("Install(%q) = %v", content, err)
		}
	}

	cur, _ := os.ReadFile(path)
	old, _ := os.ReadFile(path + ".old")
	if string(cur) != "v2" || string(old) != "v1" {
		t.Errorf("target/backup = %q/%q, want v2/v1", cur, old)
	}
	if _, err := os.Stat(path + ".old.old"); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Stat(.old.old) = %v, want not exist", err)
	}
}

func TestRestore(t *testing.T) {
	fs := hosttest.NewMemFS(map[string]string{target: "new", target + ".old": "old"})
	w := NewWriter(fs, testLogger())

	ok, err := w.Restore(target)
	if err != nil || !ok {
		t.Fatalf("Restore() = (%v, %v), want (true, nil)", ok, err)
	}
	if got, _ := fs.Content(target); got != "old" {
		t.Errorf("target = %q, want %q", got, "old")
	}
	if _, exists := fs.Content(target + ".old"); exists {
		t.Error("backup still present after restore")
	}

	ok, err = w.Restore(target)
	if err != nil || ok {
		t.Errorf("second Restore() = (%v, %v), want (false, nil)", ok, err)
	}
}

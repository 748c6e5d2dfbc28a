package hosttest

import (
	"errors"
	"io/fs"
	"os"
	"reflect"
	"testing"

	"github.com/plexsphere/i2samp/internal/host"
)

var _ host.FS = (*MemFS)(nil)

func TestMemFS_Basics(t *testing.T) {
	m := NewMemFS(map[string]string{"/boot/config.txt": "x\n"})

	if ok, _ := m.Exists("/boot"); !ok {
		t.Error("Exists(/boot) = false, want implicit directory")
	}
	if ok, _ := m.Exists("/proc"); ok {
		t.Error("Exists(/proc) = true, want false")
	}

	if _, err := m.ReadFile("/missing"); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("ReadFile(missing) error = %v, want fs.ErrNotExist", err)
	}

	if err := m.AppendFile("/boot/config.txt", []byte("y\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := m.Rename("/boot/config.txt", "/boot/config.txt.old"); err != nil {
		t.Fatal(err)
	}
	if err := m.WriteFile("/boot/config.txt", []byte("new\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := m.Remove("/boot/config.txt.old"); err != nil {
		t.Fatal(err)
	}

	got, ok := m.Content("/boot/config.txt")
	if !ok || got != "new\n" {
		t.Errorf("Content() = (%q, %v), want (%q, true)", got, ok, "new\n")
	}
	if m.Perm("/boot/config.txt") != 0o600 {
		t.Errorf("Perm() = %04o, want 0600", m.Perm("/boot/config.txt"))
	}

	wantOps := []string{
		"append /boot/config.txt",
		"rename /boot/config.txt -> /boot/config.txt.old",
		"write /boot/config.txt",
		"remove /boot/config.txt.old",
	}
	if !reflect.DeepEqual(m.Ops(), wantOps) {
		t.Errorf("Ops() = %q, want %q", m.Ops(), wantOps)
	}
	if !reflect.DeepEqual(m.Paths(), []string{"/boot/config.txt"}) {
		t.Errorf("Paths() = %q", m.Paths())
	}
}

func TestMemFS_Fail(t *testing.T) {
	m := NewMemFS(map[string]string{"/etc/asound.conf": "a"})
	m.Fail("rename", "/etc/asound.conf", os.ErrPermission)

	err := m.Rename("/etc/asound.conf", "/etc/asound.conf.old")
	if !errors.Is(err, os.ErrPermission) {
		t.Fatalf("Rename() error = %v, want os.ErrPermission", err)
	}
	if len(m.Ops()) != 0 {
		t.Errorf("Ops() = %q, want none after failed rename", m.Ops())
	}
	if _, ok := m.Content("/etc/asound.conf"); !ok {
		t.Error("file missing after failed rename")
	}
}

// Package hosttest provides an in-memory host.FS for tests.
package hosttest

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// MemFS is an in-memory host.FS for tests. Directories exist implicitly: any path
// that prefixes a stored file, or was passed to MkdirAll, reports as existing.
// Failures can be injected per operation and path with Fail.
type MemFS struct {
	mu    sync.Mutex
	files map[string]memFile
	dirs  map[string]bool
	fail  map[string]error
	ops   []string
}

type memFile struct {
	data []byte
	perm os.FileMode
}

// NewMemFS returns an empty MemFS seeded with the given path → content pairs.
func NewMemFS(seed map[string]string) *MemFS {
	m := &MemFS{
		files: make(map[string]memFile),
		dirs:  make(map[string]bool),
		fail:  make(map[string]error),
	}
	for path, content := range seed {
		m.files[filepath.Clean(path)] = memFile{data: []byte(content), perm: 0o644}
	}
	return m
}

// Fail makes the next and all later calls of op ("read", "write", "append",
// "rename", "remove", "mkdir") on path return err.
func (m *MemFS) Fail(op, path string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fail[op+" "+filepath.Clean(path)] = err
}

// Ops returns the mutating operations performed so far, in order, formatted as
// "op path" (rename: "rename old -> new").
func (m *MemFS) Ops() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := make([]string, len(m.ops))
	copy(cp, m.ops)
	return cp
}

// Content returns the content stored at path and whether it exists.
func (m *MemFS) Content(path string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	f, ok := m.files[filepath.Clean(path)]
	return string(f.data), ok
}

// Perm returns the permission bits recorded for path.
func (m *MemFS) Perm(path string) os.FileMode {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.files[filepath.Clean(path)].perm
}

// Paths returns all stored file paths, sorted.
func (m *MemFS) Paths() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	paths := make([]string, 0, len(m.files))
	for p := range m.files {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

func (m *MemFS) injected(op, path string) error {
	if err, ok := m.fail[op+" "+path]; ok {
		return &fs.PathError{Op: op, Path: path, Err: err}
	}
	return nil
}

func (m *MemFS) ReadFile(path string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	path = filepath.Clean(path)
	if err := m.injected("read", path); err != nil {
		return nil, err
	}
	f, ok := m.files[path]
	if !ok {
		return nil, &fs.PathError{Op: "open", Path: path, Err: fs.ErrNotExist}
	}
	out := make([]byte, len(f.data))
	copy(out, f.data)
	return out, nil
}

func (m *MemFS) WriteFile(path string, data []byte, perm os.FileMode) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	path = filepath.Clean(path)
	if err := m.injected("write", path); err != nil {
		return err
	}
	buf := make([]byte, len(data))
	copy(buf, data)
	m.files[path] = memFile{data: buf, perm: perm}
	m.ops = append(m.ops, "write "+path)
	return nil
}

func (m *MemFS) AppendFile(path string, data []byte, perm os.FileMode) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	path = filepath.Clean(path)
	if err := m.injected("append", path); err != nil {
		return err
	}
	f, ok := m.files[path]
	if !ok {
		f = memFile{perm: perm}
	}
	f.data = append(append([]byte(nil), f.data...), data...)
	m.files[path] = f
	m.ops = append(m.ops, "append "+path)
	return nil
}

func (m *MemFS) Rename(oldpath, newpath string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	oldpath, newpath = filepath.Clean(oldpath), filepath.Clean(newpath)
	if err := m.injected("rename", oldpath); err != nil {
		return err
	}
	f, ok := m.files[oldpath]
	if !ok {
		return &os.LinkError{Op: "rename", Old: oldpath, New: newpath, Err: fs.ErrNotExist}
	}
	delete(m.files, oldpath)
	m.files[newpath] = f
	m.ops = append(m.ops, "rename "+oldpath+" -> "+newpath)
	return nil
}

func (m *MemFS) Remove(path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	path = filepath.Clean(path)
	if err := m.injected("remove", path); err != nil {
		return err
	}
	if _, ok := m.files[path]; !ok {
		return &fs.PathError{Op: "remove", Path: path, Err: fs.ErrNotExist}
	}
	delete(m.files, path)
	m.ops = append(m.ops, "remove "+path)
	return nil
}

func (m *MemFS) Exists(path string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	path = filepath.Clean(path)
	if _, ok := m.files[path]; ok {
		return true, nil
	}
	if m.dirs[path] {
		return true, nil
	}
	prefix := path + string(filepath.Separator)
	for p := range m.files {
		if strings.HasPrefix(p, prefix) {
			return true, nil
		}
	}
	return false, nil
}

func (m *MemFS) MkdirAll(path string, _ os.FileMode) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	path = filepath.Clean(path)
	if err := m.injected("mkdir", path); err != nil {
		return err
	}
	m.dirs[path] = true
	m.ops = append(m.ops, "mkdir "+path)
	return nil
}

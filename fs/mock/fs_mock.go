package mock

import (
	"bytes"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/bmatcuk/doublestar/v4"
)

type MockFile struct {
	*bytes.Buffer
	ReadOnly bool
	ModTime  time.Time
}

type mockFileInfo struct {
	name    string
	mode    os.FileMode
	size    int64
	modTime time.Time
}

func (m *mockFileInfo) Name() string       { return m.name }
func (m *mockFileInfo) Size() int64        { return m.size }
func (m *mockFileInfo) Mode() os.FileMode  { return m.mode }
func (m *mockFileInfo) ModTime() time.Time { return m.modTime }
func (m *mockFileInfo) IsDir() bool        { return m.mode.IsDir() }
func (m *mockFileInfo) Sys() interface{}   { return nil }

// MockFileSystem implements the FileSystem interface for testing.
// Every write advances an internal clock by one second so that files written
// later always carry a newer modification time.
type MockFileSystem struct {
	Files    map[string]*MockFile
	fileMode map[string]os.FileMode
	clock    time.Time
}

func NewMockFileSystem() *MockFileSystem {
	return &MockFileSystem{
		Files:    make(map[string]*MockFile),
		fileMode: make(map[string]os.FileMode),
		clock:    time.Date(2012, time.March, 1, 12, 0, 0, 0, time.UTC),
	}
}

func (m *MockFileSystem) tick() time.Time {
	m.clock = m.clock.Add(time.Second)
	return m.clock
}

func (m *MockFileSystem) ReadFile(filename string) ([]byte, error) {
	if file, ok := m.Files[filename]; ok {
		if file.ReadOnly {
			return nil, os.ErrPermission
		}
		return append([]byte(nil), file.Bytes()...), nil
	}
	return nil, &os.PathError{Op: "open", Path: filename, Err: os.ErrNotExist}
}

func (m *MockFileSystem) WriteFile(filename string, data []byte, perm os.FileMode) error {
	if file, ok := m.Files[filename]; ok && file.ReadOnly {
		return os.ErrPermission
	}
	m.Files[filename] = &MockFile{
		Buffer:  bytes.NewBuffer(append([]byte(nil), data...)),
		ModTime: m.tick(),
	}
	m.fileMode[filename] = perm

	return nil
}

func (m *MockFileSystem) MkdirAll(path string, perm os.FileMode) error {
	return nil
}

func (m *MockFileSystem) Stat(name string) (os.FileInfo, error) {
	if file, ok := m.Files[name]; ok {
		return &mockFileInfo{
			name:    filepath.Base(name),
			mode:    m.fileMode[name],
			size:    int64(file.Len()),
			modTime: file.ModTime,
		}, nil
	}
	return nil, &os.PathError{Op: "stat", Path: name, Err: os.ErrNotExist}
}

func (m *MockFileSystem) Remove(name string) error {
	if _, ok := m.Files[name]; !ok {
		return &os.PathError{Op: "remove", Path: name, Err: os.ErrNotExist}
	}
	delete(m.Files, name)
	delete(m.fileMode, name)
	return nil
}

func (m *MockFileSystem) Rename(oldpath, newpath string) error {
	if data, ok := m.Files[oldpath]; ok {
		m.Files[newpath] = data
		m.fileMode[newpath] = m.fileMode[oldpath]
		delete(m.Files, oldpath)
		delete(m.fileMode, oldpath)
		return nil
	}
	return os.ErrNotExist
}

func (m *MockFileSystem) Chtimes(name string, atime, mtime time.Time) error {
	file, ok := m.Files[name]
	if !ok {
		return &os.PathError{Op: "chtimes", Path: name, Err: os.ErrNotExist}
	}
	file.ModTime = mtime
	if mtime.After(m.clock) {
		m.clock = mtime
	}
	return nil
}

func (m *MockFileSystem) DoublestarGlob(pattern string) ([]string, error) {
	var matches []string
	for filename := range m.Files {
		matched, err := doublestar.Match(pattern, filename)
		if err != nil {
			return nil, err
		}
		if matched {
			matches = append(matches, filename)
		}
	}
	sort.Strings(matches)
	return matches, nil
}

// Touch bumps the modification time of name to the next clock tick.
func (m *MockFileSystem) Touch(name string) {
	if file, ok := m.Files[name]; ok {
		file.ModTime = m.tick()
	}
}

// Content returns the file body as a string, or "" when it does not exist.
func (m *MockFileSystem) Content(name string) string {
	if file, ok := m.Files[name]; ok {
		return file.String()
	}
	return ""
}

// Now returns the current value of the internal clock.
func (m *MockFileSystem) Now() time.Time {
	return m.clock
}

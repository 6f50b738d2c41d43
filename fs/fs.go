package fs

import (
	"os"
	"time"

	"github.com/bmatcuk/doublestar/v4"
)

// FileSystem interface for dependency injection and improved testability
type FileSystem interface {
	ReadFile(filename string) ([]byte, error)
	WriteFile(filename string, data []byte, perm os.FileMode) error
	MkdirAll(path string, perm os.FileMode) error
	Stat(name string) (os.FileInfo, error)
	Remove(name string) error
	Rename(oldpath, newpath string) error
	Chtimes(name string, atime, mtime time.Time) error
	DoublestarGlob(pattern string) ([]string, error)
}

// RealFileSystem implements FileSystem interface using actual OS calls
type RealFileSystem struct{}

func (RealFileSystem) ReadFile(filename string) ([]byte, error) { return os.ReadFile(filename) }
func (RealFileSystem) WriteFile(filename string, data []byte, perm os.FileMode) error {
	return os.WriteFile(filename, data, perm)
}
func (RealFileSystem) MkdirAll(path string, perm os.FileMode) error { return os.MkdirAll(path, perm) }
func (RealFileSystem) Stat(name string) (os.FileInfo, error)        { return os.Stat(name) }
func (RealFileSystem) Remove(name string) error                     { return os.Remove(name) }
func (RealFileSystem) Rename(oldpath, newpath string) error         { return os.Rename(oldpath, newpath) }
func (RealFileSystem) Chtimes(name string, atime, mtime time.Time) error {
	return os.Chtimes(name, atime, mtime)
}
func (RealFileSystem) DoublestarGlob(pattern string) ([]string, error) {
	return doublestar.FilepathGlob(pattern)
}

// Exists reports whether name can be stat'ed.
func Exists(fsys FileSystem, name string) bool {
	_, err := fsys.Stat(name)
	return err == nil
}

package executor

import (
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"

	"github.com/unl-wdn/wdnbuild/fs"
)

// OutputManager writes, removes and touches the generated files of a build.
type OutputManager interface {
	Write(path string, content []byte) error
	RemoveIfExists(path string) (bool, error)
	TouchIfExists(path string) (bool, error)
	Sweep(pattern string) ([]string, error)
}

type outputManager struct {
	fs  fs.FileSystem
	now func() time.Time
}

func NewOutputManager(fsys fs.FileSystem) OutputManager {
	return &outputManager{
		fs:  fsys,
		now: time.Now,
	}
}

// Write stores content at path through a temporary sibling and a rename, so
// the file is complete once Write returns.
func (om *outputManager) Write(path string, content []byte) error {
	if err := om.fs.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrapf(err, "error creating directory for %s", path)
	}

	mode := om.determineFileMode(path)
	tempFile := path + ".tmp"
	if err := om.fs.WriteFile(tempFile, content, mode); err != nil {
		return errors.Wrapf(err, "error writing %s", tempFile)
	}
	if err := om.fs.Rename(tempFile, path); err != nil {
		return errors.Wrapf(err, "error moving %s into place", path)
	}
	return nil
}

func (om *outputManager) determineFileMode(path string) os.FileMode {
	if info, err := om.fs.Stat(path); err == nil && info.Mode() != 0 {
		return info.Mode()
	}
	return 0644
}

// RemoveIfExists deletes path and reports whether there was anything to delete.
func (om *outputManager) RemoveIfExists(path string) (bool, error) {
	if !fs.Exists(om.fs, path) {
		return false, nil
	}
	if err := om.fs.Remove(path); err != nil {
		return false, errors.Wrapf(err, "error removing %s", path)
	}
	return true, nil
}

// TouchIfExists sets the modification time of path to now.
func (om *outputManager) TouchIfExists(path string) (bool, error) {
	if !fs.Exists(om.fs, path) {
		return false, nil
	}
	now := om.now()
	if err := om.fs.Chtimes(path, now, now); err != nil {
		return false, errors.Wrapf(err, "error touching %s", path)
	}
	return true, nil
}

// Sweep removes every file matching the doublestar pattern.
func (om *outputManager) Sweep(pattern string) ([]string, error) {
	matches, err := om.fs.DoublestarGlob(pattern)
	if err != nil {
		return nil, errors.Wrapf(err, "error expanding glob pattern %s", pattern)
	}

	var removed []string
	for _, match := range matches {
		if err := om.fs.Remove(match); err != nil {
			return removed, errors.Wrapf(err, "error removing %s", match)
		}
		removed = append(removed, match)
	}
	return removed, nil
}

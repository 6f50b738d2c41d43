package executor

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/pkg/errors"

	"github.com/unl-wdn/wdnbuild/fs"
)

// Notifier receives progress notices. Implementations decide whether and
// where they are shown.
type Notifier interface {
	Announce(msgs ...string)
}

// StalenessChecker decides from modification times whether an output has
// to be regenerated.
type StalenessChecker struct {
	fs       fs.FileSystem
	force    bool
	notifier Notifier
}

func NewStalenessChecker(fsys fs.FileSystem, force bool, notifier Notifier) *StalenessChecker {
	return &StalenessChecker{fs: fsys, force: force, notifier: notifier}
}

// NeedsRebuild reports whether output is missing or older than any of the
// prerequisites inDir/<name>.<suffix>. A fresh output is announced with
// notice, or a default message naming label when notice is empty.
// A prerequisite that cannot be stat'ed is an error.
func (sc *StalenessChecker) NeedsRebuild(output, inDir string, prereqs []string, suffix, label, notice string) (bool, error) {
	if sc.force {
		return true, nil
	}

	var newest time.Time
	for _, name := range prereqs {
		path := filepath.Join(inDir, name+"."+suffix)
		info, err := sc.fs.Stat(path)
		if err != nil {
			return false, errors.Wrapf(err, "failed to read modification time of prerequisite %s", path)
		}
		if info.ModTime().After(newest) {
			newest = info.ModTime()
		}
	}

	info, err := sc.fs.Stat(output)
	if err != nil {
		return true, nil
	}

	if !info.ModTime().Before(newest) {
		if notice == "" {
			notice = fmt.Sprintf("[NOTICE] Nothing to be done for %s target", label)
		}
		sc.notifier.Announce(notice)
		return false, nil
	}

	return true, nil
}

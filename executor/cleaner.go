package executor

import (
	"path/filepath"

	"github.com/unl-wdn/wdnbuild/target"
)

// Clean deletes every generated file. Less sources are touched instead so
// the next build recompiles them.
func (c *Compressor) Clean() error {
	for _, t := range c.manifest.Targets() {
		if t.Name == target.Less {
			if err := c.touchLessSources(t); err != nil {
				return err
			}
			continue
		}

		outFiles := t.Files
		if t.Name == target.CSS {
			outFiles = c.manifest.CSSOutputs()
		}

		c.notifier.Announce("Cleaning target: " + t.Name)

		outDir := c.srcPath(t.Out)
		for _, name := range outFiles {
			if _, err := c.outputs.RemoveIfExists(filepath.Join(outDir, name)); err != nil {
				return err
			}
		}
	}

	// intermediates left behind by a failed compiler run
	pattern := filepath.ToSlash(filepath.Join(c.srcPath(c.manifest.JS.Out), "**", jsTempFile))
	if _, err := c.outputs.Sweep(pattern); err != nil {
		return err
	}

	c.notifier.Announce("Target clean complete")
	return nil
}

func (c *Compressor) touchLessSources(t target.BuildTarget) error {
	c.notifier.Announce("Cleaning target: less, by touching all prereqs")

	inDir := c.srcPath(t.In)
	for _, file := range c.manifest.LessPrereqs() {
		if _, err := c.outputs.TouchIfExists(filepath.Join(inDir, file+".less")); err != nil {
			return err
		}
	}
	return nil
}

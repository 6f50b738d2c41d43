package executor

import (
	"fmt"
	"path/filepath"

	"github.com/pkg/errors"
)

// BuildLess compiles every stale .less source into its css counterpart.
func (c *Compressor) BuildLess() error {
	inDir := c.srcPath(c.manifest.Less.In)
	outDir := c.srcPath(c.manifest.Less.Out)

	c.notifier.Announce("Building less targets")

	for _, file := range c.manifest.LessPrereqs() {
		prereq := filepath.Join(inDir, file+".less")
		output := filepath.Join(outDir, file+".css")

		notice := fmt.Sprintf("[NOTICE] Skipped less target %q", file)
		rebuild, err := c.stale.NeedsRebuild(output, inDir, []string{file}, "less", "", notice)
		if err != nil {
			return errors.Wrapf(err, "less target %s", file)
		}
		if !rebuild {
			continue
		}

		if err := c.fs.MkdirAll(filepath.Dir(output), 0755); err != nil {
			return errors.Wrapf(err, "error creating directory for %s", output)
		}

		res, err := c.cmdExecutor.Execute(LocalBinCommand(c.opts.ToolsDir, output, "lessc", prereq))
		if err != nil {
			return errors.Wrapf(err, "less target %s", file)
		}
		if !res.Success() {
			c.notifier.Announce("less build failed, check the output for other errors.")
			return &ExitError{Tool: "lessc", Code: res.Code}
		}
	}

	c.notifier.Announce("less build complete")
	return nil
}

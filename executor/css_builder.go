package executor

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/unl-wdn/wdnbuild/target"
	"github.com/unl-wdn/wdnbuild/transform"
)

// BuildCSS compresses the stylesheets into a base file, one file per media
// width and one file with every width combined.
func (c *Compressor) BuildCSS() error {
	inDir := c.srcPath(c.manifest.CSS.In)
	outDir := c.srcPath(c.manifest.CSS.Out)
	files := c.manifest.CSSPrereqs()

	// Only the last breakpoint file is compared; everything is written in
	// one go so it stands in for the whole set.
	reference := filepath.Join(outDir, c.manifest.BaseOutput())
	if n := len(c.manifest.MediaWidths); n > 0 {
		reference = filepath.Join(outDir, target.MediaOutput(c.manifest.MediaWidths[n-1]))
	}

	rebuild, err := c.stale.NeedsRebuild(reference, inDir, files, "css", "css", "")
	if err != nil {
		return errors.Wrap(err, "css bundle")
	}
	if !rebuild {
		return nil
	}

	c.notifier.Announce("Building css targets")

	sections := transform.NewMediaSections(c.manifest.MediaWidths)
	for _, file := range files {
		path := filepath.Join(inDir, file+".css")
		src, err := c.fs.ReadFile(path)
		if err != nil {
			return errors.Wrapf(err, "error reading stylesheet %s", path)
		}
		sections.Add(transform.CleanCSS(string(src), file))
	}

	if err := c.writeWithHeader(outDir, c.manifest.BaseOutput(), sections.Base()); err != nil {
		return err
	}
	for _, width := range sections.Widths() {
		if err := c.writeWithHeader(outDir, target.MediaOutput(width), sections.Section(width)); err != nil {
			return err
		}
	}
	if err := c.writeWithHeader(outDir, c.manifest.CombinedOutput(), sections.Combined()); err != nil {
		return err
	}

	c.notifier.Announce("css build complete")
	return nil
}

func (c *Compressor) writeWithHeader(outDir, name, body string) error {
	return c.outputs.Write(filepath.Join(outDir, name), []byte(c.header(name)+body))
}

// BuildCSSDebug writes a stylesheet that @imports every uncompressed source.
// It is regenerated on every run.
func (c *Compressor) BuildCSSDebug() error {
	t := c.manifest.CSSDebug
	outDir := c.srcPath(t.Out)
	if len(t.Files) == 0 {
		return errors.New("css_debug target has no output file")
	}

	c.notifier.Announce("Building debug css target")

	var sb strings.Builder
	sb.WriteString(transform.DebugHeader)
	for _, file := range c.manifest.CSSPrereqs() {
		fmt.Fprintf(&sb, "@import url('%s%s.css');\n", t.In, file)
	}

	if err := c.outputs.Write(filepath.Join(outDir, t.Files[0]), []byte(sb.String())); err != nil {
		return err
	}

	c.notifier.Announce("debug css build complete")
	return nil
}

package executor

import (
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/unl-wdn/wdnbuild/target"
	"github.com/unl-wdn/wdnbuild/transform"
)

const jsTempFile = "temp.js"

// BuildJS builds every javascript bundle whose sources changed.
func (c *Compressor) BuildJS() error {
	inDir := c.srcPath(c.manifest.JS.In)
	outDir := c.srcPath(c.manifest.JS.Out)

	c.notifier.Announce("Building javascript")

	for _, bundle := range c.manifest.Bundles {
		if err := c.buildJSBundle(inDir, outDir, bundle); err != nil {
			return err
		}
	}

	c.notifier.Announce("javascript build complete")
	return nil
}

func (c *Compressor) buildJSBundle(inDir, outDir string, bundle target.Bundle) error {
	output := filepath.Join(outDir, bundle.Output)

	rebuild, err := c.stale.NeedsRebuild(output, inDir, bundle.Files, "js", "javascript", "")
	if err != nil {
		return errors.Wrapf(err, "javascript bundle %s", bundle.Name)
	}
	if !rebuild {
		return nil
	}

	preMinified, toCompile, err := c.assembleBundle(inDir, bundle)
	if err != nil {
		return err
	}
	toCompile = transform.StripDebugLog(toCompile, c.manifest.LogNamespace)

	if err := c.fs.MkdirAll(outDir, 0755); err != nil {
		return errors.Wrapf(err, "error creating %s", outDir)
	}
	temp := filepath.Join(outDir, jsTempFile)
	if err := c.fs.WriteFile(temp, []byte(toCompile), 0644); err != nil {
		return errors.Wrapf(err, "error writing %s", temp)
	}

	res, err := c.compiler.Compile(temp, output)
	if err != nil {
		_ = c.fs.Remove(temp)
		return errors.Wrapf(err, "javascript bundle %s", bundle.Name)
	}
	if !res.Success() {
		// temp.js stays behind for inspection
		c.notifier.Announce("javascript build failed, check the output for other errors")
		return &ExitError{Tool: c.compiler.Name(), Code: res.Code}
	}
	if err := c.fs.Remove(temp); err != nil {
		return errors.Wrapf(err, "error removing %s", temp)
	}

	compiled, err := c.fs.ReadFile(output)
	if err != nil {
		return errors.Wrapf(err, "error reading compiled %s", output)
	}

	content := preMinified + c.header(bundle.Output) + string(compiled)
	return c.outputs.Write(output, []byte(content))
}

// assembleBundle concatenates the sources of a bundle in order. Sources
// ending in the minified marker land in the first buffer and bypass the
// compiler; everything else lands in the second.
func (c *Compressor) assembleBundle(inDir string, bundle target.Bundle) (string, string, error) {
	var preMinified, toCompile strings.Builder
	ns := c.manifest.LogNamespace

	for _, file := range bundle.Files {
		buf := &toCompile
		if c.manifest.IsPreMinified(file) {
			buf = &preMinified
		}

		path := filepath.Join(inDir, file+".js")
		src, err := c.fs.ReadFile(path)
		if err != nil {
			return "", "", errors.Wrapf(err, "error reading javascript source %s", path)
		}
		buf.Write(src)
		buf.WriteString("\n")

		switch file {
		case c.manifest.CoreFile:
			buf.WriteString(transform.TemplatePathLine(ns, c.opts.TemplatePath))
		case c.manifest.JQueryFile:
			buf.WriteString(transform.NoConflictLine(ns))
		default:
			buf.WriteString(transform.LoadedLine(ns, c.loadedURL(file)))
		}
	}

	toCompile.WriteString(bundle.Outro)
	return preMinified.String(), toCompile.String(), nil
}

// loadedURL is the address the runtime loader would fetch file from.
func (c *Compressor) loadedURL(file string) string {
	return c.opts.TemplatePath + c.opts.TemplateDir + c.manifest.JS.In + "/" + file + ".js"
}

package executor

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/unl-wdn/wdnbuild/config"
	"github.com/unl-wdn/wdnbuild/fs"
	"github.com/unl-wdn/wdnbuild/target"
	"github.com/unl-wdn/wdnbuild/transform"
)

// Build steps, in the order a full build runs them.
const (
	StepJavascript = "javascript"
	StepCSSDebug   = "css_debug"
	StepLess       = "less"
	StepCSS        = "css"
	StepClean      = "clean"
)

// goals maps the names accepted on the command line to build steps.
var goals = map[string][]string{
	"all":        {StepJavascript, StepCSSDebug, StepLess, StepCSS},
	"clean":      {StepClean},
	"debug":      {StepCSSDebug, StepLess},
	"javascript": {StepJavascript},
	"less-css":   {StepLess, StepCSS},
	"css":        {StepCSS},
	"less":       {StepLess},
}

// Goals lists the accepted goal names.
func Goals() []string {
	return []string{"all", "clean", "debug", "javascript", "less-css", "css", "less"}
}

// Plan expands goal names into the steps to run. No goals means "all".
func Plan(names []string) ([]string, error) {
	if len(names) == 0 {
		names = []string{"all"}
	}

	var steps []string
	for _, name := range names {
		s, ok := goals[name]
		if !ok {
			return nil, errors.Wrapf(ErrUnknownGoal, "I do not understand target %q. Please provide a valid build target", name)
		}
		steps = append(steps, s...)
	}
	return steps, nil
}

// Compressor builds the compressed template assets.
type Compressor struct {
	manifest    *target.Manifest
	opts        config.Options
	fs          fs.FileSystem
	cmdExecutor CommandExecutor
	compiler    Compiler
	outputs     OutputManager
	stale       *StalenessChecker
	statusMgr   StatusManager
	notifier    Notifier
	now         func() time.Time

	author       string
	authorLoaded bool
}

func NewCompressor(manifest *target.Manifest, opts config.Options, fsys fs.FileSystem, cmdExecutor CommandExecutor, notifier Notifier, statusMgr StatusManager) *Compressor {
	return &Compressor{
		manifest:    manifest,
		opts:        opts,
		fs:          fsys,
		cmdExecutor: cmdExecutor,
		compiler:    NewCompiler(opts.Compiler, opts.ToolsDir, cmdExecutor, fsys),
		outputs:     NewOutputManager(fsys),
		stale:       NewStalenessChecker(fsys, opts.Force, notifier),
		statusMgr:   statusMgr,
		notifier:    notifier,
		now:         time.Now,
	}
}

// Run executes the steps of the given goals one after another and stops at
// the first failure.
func (c *Compressor) Run(names []string) error {
	steps, err := Plan(names)
	if err != nil {
		return err
	}

	for _, step := range steps {
		c.statusMgr.SetStatus(step, StatusQueued)
	}

	for _, step := range steps {
		c.statusMgr.UpdateStatus(step, StatusRunning, c.now(), time.Time{})
		if err := c.runStep(step); err != nil {
			c.statusMgr.MarkAsFailed(step)
			return err
		}
		c.statusMgr.UpdateStatus(step, StatusCompleted, time.Time{}, c.now())
	}
	return nil
}

func (c *Compressor) runStep(step string) error {
	switch step {
	case StepJavascript:
		return c.BuildJS()
	case StepCSSDebug:
		return c.BuildCSSDebug()
	case StepLess:
		return c.BuildLess()
	case StepCSS:
		return c.BuildCSS()
	case StepClean:
		return c.Clean()
	}
	return errors.Wrapf(ErrUnknownGoal, "no such step %s", step)
}

// Make builds the javascript, the debug css, the less sources and the css
// bundles, in that order.
func (c *Compressor) Make() error {
	return c.Run([]string{"all"})
}

// srcPath resolves a path relative to the template directory.
func (c *Compressor) srcPath(path string) string {
	return filepath.Join(c.opts.Root, c.opts.TemplateDir, path)
}

// header returns the versioned banner for an output file.
func (c *Compressor) header(file string) string {
	return transform.ExpandKeywords(file, transform.Header, c.now(), c.authorName())
}

// authorName is the git user.name of whoever runs the build, or "" when it
// cannot be determined. It is looked up once per run.
func (c *Compressor) authorName() string {
	if c.authorLoaded {
		return c.author
	}
	c.authorLoaded = true

	res, err := c.cmdExecutor.Execute(Command{Name: "git", Args: []string{"config", "--get", "user.name"}})
	if err != nil || !res.Success() {
		return ""
	}
	c.author = strings.TrimSpace(string(res.Output))
	return c.author
}

package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/unl-wdn/wdnbuild/config"
	"github.com/unl-wdn/wdnbuild/executor"
	"github.com/unl-wdn/wdnbuild/fs"
	"github.com/unl-wdn/wdnbuild/target"
	"github.com/unl-wdn/wdnbuild/ui"
)

// usageError marks failures that should print the usage text.
type usageError struct {
	err error
}

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

func bindFlags(flags *pflag.FlagSet, opts *config.Options) {
	defaults := config.DefaultOptions()

	flags.BoolVarP(&opts.Force, "force", "f", false, "Forces the build by ignoring the file modified times")
	flags.BoolVarP(&opts.Verbose, "verbose", "v", false, "Make the build output be verbose")
	flags.StringVarP(&opts.Compiler, "compiler", "c", defaults.Compiler,
		fmt.Sprintf("JavaScript compiler option [%s|%s|%s]", executor.CompilerClosure, executor.CompilerUglifyJS, executor.CompilerEsbuild))
	flags.StringVarP(&opts.TemplateDir, "template-dir", "d", defaults.TemplateDir, "The path to the template directory")
	flags.StringVarP(&opts.TemplatePath, "template-path", "p", defaults.TemplatePath, "The URI path to the templates")
	flags.StringVar(&opts.Root, "root", defaults.Root, "The directory the template directory is relative to")
	flags.StringVar(&opts.ToolsDir, "tools-dir", defaults.ToolsDir, "The directory holding bin/compiler.jar and the local lessc/uglifyjs binaries")
	flags.StringVar(&opts.ManifestPath, "manifest", "", "A Starlark file overriding the built-in file lists")
	flags.BoolVar(&opts.Progress, "progress", false, "Show a live progress view instead of plain notices")
}

func newRootCmd(stdout io.Writer) *cobra.Command {
	opts := config.DefaultOptions()

	cmd := &cobra.Command{
		Use:   "wdnbuild [target...]",
		Short: "Compiles and compresses the WDN template javascript and css",
		Long: "Compiles and compresses the WDN template javascript and css.\n\n" +
			"Targets: " + strings.Join(executor.Goals(), ", ") + " (defaults to all)",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(opts.Normalize(), args, stdout)
		},
	}
	cmd.SetOut(stdout)
	cmd.SetFlagErrorFunc(func(c *cobra.Command, err error) error {
		return &usageError{err: err}
	})
	bindFlags(cmd.Flags(), &opts)

	return cmd
}

func run(opts config.Options, goals []string, stdout io.Writer) error {
	if _, err := executor.Plan(goals); err != nil {
		return err
	}

	manifest := target.DefaultManifest()
	if opts.ManifestPath != "" {
		m, err := config.LoadManifest(opts.ManifestPath, nil)
		if err != nil {
			return errors.Wrapf(err, "failed to load manifest %s", opts.ManifestPath)
		}
		manifest = m
	}

	statusMgr := executor.NewStatusManager()
	out := stdout
	if opts.Progress {
		out = ui.LogWriter(statusMgr)
	}
	announcer := ui.NewAnnouncer(out, opts.Verbose || opts.Progress)

	if executor.NormalizeCompiler(opts.Compiler) != opts.Compiler {
		announcer.Announce(fmt.Sprintf("[NOTICE] Unknown compiler %q, using %s", opts.Compiler, executor.CompilerClosure))
	}

	compressor := executor.NewCompressor(manifest, opts, fs.RealFileSystem{}, executor.RealCommandExecutor{}, announcer, statusMgr)

	if opts.Progress {
		return ui.RunWithProgress(statusMgr, func() error {
			return compressor.Run(goals)
		})
	}
	return compressor.Run(goals)
}

// exitCode reports errors the way the build script always has and returns
// the process exit status.
func exitCode(cmd *cobra.Command, err error, stdout io.Writer) int {
	if err == nil {
		return 0
	}

	var usageErr *usageError
	switch {
	case errors.As(err, &usageErr):
		fmt.Fprintln(stdout, err)
		fmt.Fprint(stdout, cmd.UsageString())
		return 1
	case errors.Is(err, executor.ErrUnknownGoal):
		fmt.Fprintln(stdout, strings.TrimSuffix(err.Error(), ": "+executor.ErrUnknownGoal.Error())+".")
		return 1
	}

	var exitErr *executor.ExitError
	if !errors.As(err, &exitErr) {
		log.Printf("Error building templates: %v", err)
	}
	return executor.ExitCode(err)
}

func main() {
	cmd := newRootCmd(os.Stdout)
	err := cmd.Execute()
	os.Exit(exitCode(cmd, err, os.Stdout))
}

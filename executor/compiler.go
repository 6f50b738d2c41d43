package executor

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/evanw/esbuild/pkg/api"
	"github.com/pkg/errors"

	"github.com/unl-wdn/wdnbuild/fs"
)

// Supported javascript compilers.
const (
	CompilerClosure  = "closure"
	CompilerUglifyJS = "uglify-js"
	CompilerEsbuild  = "esbuild"
)

// Compiler minifies the javascript file in into out.
type Compiler interface {
	Name() string
	Compile(in, out string) (Result, error)
}

// NormalizeCompiler maps an unrecognised compiler name to closure.
func NormalizeCompiler(name string) string {
	switch name {
	case CompilerClosure, CompilerUglifyJS, CompilerEsbuild:
		return name
	default:
		return CompilerClosure
	}
}

// NewCompiler returns the compiler called name. toolsDir holds bin/compiler.jar
// and the local node binaries.
func NewCompiler(name, toolsDir string, cmdExecutor CommandExecutor, fsys fs.FileSystem) Compiler {
	switch NormalizeCompiler(name) {
	case CompilerUglifyJS:
		return &uglifyCompiler{toolsDir: toolsDir, cmdExecutor: cmdExecutor}
	case CompilerEsbuild:
		return &esbuildCompiler{fs: fsys}
	default:
		return &closureCompiler{toolsDir: toolsDir, cmdExecutor: cmdExecutor}
	}
}

type closureCompiler struct {
	toolsDir    string
	cmdExecutor CommandExecutor
}

func (c *closureCompiler) Name() string { return CompilerClosure }

func (c *closureCompiler) Compile(in, out string) (Result, error) {
	return c.cmdExecutor.Execute(Command{
		Name: "java",
		Args: []string{
			"-jar", filepath.Join(c.toolsDir, "bin", "compiler.jar"),
			"--js=" + in,
			"--js_output_file=" + out,
		},
	})
}

type uglifyCompiler struct {
	toolsDir    string
	cmdExecutor CommandExecutor
}

func (c *uglifyCompiler) Name() string { return CompilerUglifyJS }

func (c *uglifyCompiler) Compile(in, out string) (Result, error) {
	return c.cmdExecutor.Execute(LocalBinCommand(c.toolsDir, out, "uglifyjs", "-nc", "--unsafe", in))
}

type esbuildCompiler struct {
	fs fs.FileSystem
}

func (c *esbuildCompiler) Name() string { return CompilerEsbuild }

func (c *esbuildCompiler) Compile(in, out string) (Result, error) {
	src, err := c.fs.ReadFile(in)
	if err != nil {
		return Result{}, errors.Wrapf(err, "failed to read %s", in)
	}

	result := api.Transform(string(src), api.TransformOptions{
		Loader:            api.LoaderJS,
		MinifyWhitespace:  true,
		MinifyIdentifiers: true,
		MinifySyntax:      true,
		LogLevel:          api.LogLevelSilent,
	})
	if len(result.Errors) > 0 {
		msgs := make([]string, 0, len(result.Errors))
		for _, e := range result.Errors {
			msgs = append(msgs, e.Text)
		}
		return Result{Code: 1, Output: []byte(strings.Join(msgs, "\n"))}, nil
	}

	if err := c.fs.WriteFile(out, result.Code, 0644); err != nil {
		return Result{}, errors.Wrapf(err, "failed to write %s", out)
	}
	return Result{}, nil
}

var osGetenv = os.Getenv

// LocalBinCommand runs name through env with toolsDir/bin and the
// per-platform toolsDir/bin/<uname> appended to PATH, sending stdout to out.
func LocalBinCommand(toolsDir, out, name string, args ...string) Command {
	path := strings.Join([]string{
		osGetenv("PATH"),
		filepath.Join(toolsDir, "bin"),
		filepath.Join(toolsDir, "bin", unameFor(runtime.GOOS)),
	}, string(filepath.ListSeparator))

	return Command{
		Name:   "/usr/bin/env",
		Args:   append([]string{"PATH=" + path, name}, args...),
		Stdout: out,
	}
}

// unameFor returns what `uname` prints for a GOOS, which names the
// per-platform binary directory.
func unameFor(goos string) string {
	switch goos {
	case "darwin":
		return "Darwin"
	case "linux":
		return "Linux"
	case "freebsd":
		return "FreeBSD"
	default:
		if goos == "" {
			return goos
		}
		return strings.ToUpper(goos[:1]) + goos[1:]
	}
}

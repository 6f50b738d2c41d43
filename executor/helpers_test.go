package executor

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/unl-wdn/wdnbuild/config"
	"github.com/unl-wdn/wdnbuild/fs/mock"
	"github.com/unl-wdn/wdnbuild/target"
)

// MockCommandExecutor implements the CommandExecutor interface for testing
type MockCommandExecutor struct {
	ExecuteFunc func(Command) (Result, error)
	Calls       []Command
}

func (m *MockCommandExecutor) Execute(cmd Command) (Result, error) {
	m.Calls = append(m.Calls, cmd)
	if m.ExecuteFunc != nil {
		return m.ExecuteFunc(cmd)
	}
	return Result{}, nil
}

// CallsTo returns the recorded commands that ran tool, either directly or
// through env.
func (m *MockCommandExecutor) CallsTo(tool string) []Command {
	var calls []Command
	for _, c := range m.Calls {
		if toolName(c) == tool {
			calls = append(calls, c)
		}
	}
	return calls
}

func toolName(c Command) string {
	if c.Name == "/usr/bin/env" && len(c.Args) > 1 {
		return c.Args[1]
	}
	return c.Name
}

type recordingNotifier struct {
	msgs []string
}

func (n *recordingNotifier) Announce(msgs ...string) {
	n.msgs = append(n.msgs, msgs...)
}

func (n *recordingNotifier) contains(msg string) bool {
	for _, m := range n.msgs {
		if m == msg {
			return true
		}
	}
	return false
}

const (
	testRoot     = "/src"
	testTemplate = "wdn/templates_3.1/"
)

var fixedNow = time.Date(2012, time.March, 5, 9, 4, 7, 0, time.UTC)

func testOptions() config.Options {
	return config.Options{
		Compiler:     CompilerClosure,
		TemplateDir:  testTemplate,
		TemplatePath: "/",
		Root:         testRoot,
		ToolsDir:     "/tools",
	}
}

func srcPath(p string) string {
	return filepath.Join(testRoot, testTemplate, p)
}

// fakeTools stands in for java, uglifyjs, lessc and git. Compilers wrap
// their input in COMPILED(...); lessc prefixes LESS:.
func fakeTools(fsys *mock.MockFileSystem) *MockCommandExecutor {
	m := &MockCommandExecutor{}
	m.ExecuteFunc = func(c Command) (Result, error) {
		switch toolName(c) {
		case "git":
			return Result{Output: []byte("Jane Doe\n")}, nil
		case "java":
			var in, out string
			for _, a := range c.Args {
				if strings.HasPrefix(a, "--js=") {
					in = strings.TrimPrefix(a, "--js=")
				}
				if strings.HasPrefix(a, "--js_output_file=") {
					out = strings.TrimPrefix(a, "--js_output_file=")
				}
			}
			src, err := fsys.ReadFile(in)
			if err != nil {
				return Result{Code: 2}, nil
			}
			return Result{}, fsys.WriteFile(out, []byte("COMPILED("+string(src)+")"), 0644)
		case "uglifyjs":
			src, err := fsys.ReadFile(c.Args[len(c.Args)-1])
			if err != nil {
				return Result{Code: 2}, nil
			}
			return Result{}, fsys.WriteFile(c.Stdout, []byte("UGLY("+string(src)+")"), 0644)
		case "lessc":
			src, err := fsys.ReadFile(c.Args[len(c.Args)-1])
			if err != nil {
				return Result{Code: 2}, nil
			}
			return Result{}, fsys.WriteFile(c.Stdout, []byte("LESS:"+string(src)), 0644)
		}
		return Result{Code: 127}, nil
	}
	return m
}

func newTestCompressor(t *testing.T, fsys *mock.MockFileSystem, manifest *target.Manifest, opts config.Options, cmd CommandExecutor) (*Compressor, *recordingNotifier) {
	t.Helper()
	n := &recordingNotifier{}
	c := NewCompressor(manifest, opts, fsys, cmd, n, NewStatusManager())
	c.now = func() time.Time { return fixedNow }
	return c, n
}

func write(fsys *mock.MockFileSystem, path, content string) {
	_ = fsys.WriteFile(path, []byte(content), 0644)
}

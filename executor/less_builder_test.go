package executor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unl-wdn/wdnbuild/fs/mock"
	"github.com/unl-wdn/wdnbuild/target"
)

func lessManifest() *target.Manifest {
	m := target.DefaultManifest()
	m.CSSFiles = []target.FileSpec{
		{Name: "foundation/reset", NoLess: true},
		{Name: "header/header"},
		{Name: "header/colorbox", Ignore: true},
	}
	return m
}

func TestBuildLess(t *testing.T) {
	fs := mock.NewMockFileSystem()
	write(fs, srcPath("less/header/header.less"), "@c: red; #header { color: @c; }")
	write(fs, srcPath("less/header/colorbox.less"), ".cbox {}")
	tools := fakeTools(fs)
	c, n := newTestCompressor(t, fs, lessManifest(), testOptions(), tools)

	require.NoError(t, c.BuildLess())

	calls := tools.CallsTo("lessc")
	require.Len(t, calls, 2, "ignored files are still compiled, no-less files are not")
	assert.Equal(t, srcPath("css/header/header.css"), calls[0].Stdout)
	assert.Equal(t, srcPath("less/header/header.less"), calls[0].Args[len(calls[0].Args)-1])
	assert.Equal(t, "LESS:@c: red; #header { color: @c; }", fs.Content(srcPath("css/header/header.css")))
	assert.Equal(t, "LESS:.cbox {}", fs.Content(srcPath("css/header/colorbox.css")))
	assert.Empty(t, fs.Content(srcPath("css/foundation/reset.css")))
	assert.True(t, n.contains("less build complete"))
}

func TestBuildLessSkipsFreshOutputs(t *testing.T) {
	fs := mock.NewMockFileSystem()
	write(fs, srcPath("less/header/header.less"), "a")
	write(fs, srcPath("less/header/colorbox.less"), "b")
	tools := fakeTools(fs)
	c, n := newTestCompressor(t, fs, lessManifest(), testOptions(), tools)

	require.NoError(t, c.BuildLess())
	tools.Calls = nil

	fs.Touch(srcPath("less/header/colorbox.less"))
	require.NoError(t, c.BuildLess())

	calls := tools.CallsTo("lessc")
	require.Len(t, calls, 1)
	assert.Equal(t, srcPath("css/header/colorbox.css"), calls[0].Stdout)
	assert.True(t, n.contains(`[NOTICE] Skipped less target "header/header"`))
}

func TestBuildLessFailure(t *testing.T) {
	fs := mock.NewMockFileSystem()
	write(fs, srcPath("less/header/header.less"), "a")
	write(fs, srcPath("less/header/colorbox.less"), "b")
	tools := &MockCommandExecutor{
		ExecuteFunc: func(cmd Command) (Result, error) {
			return Result{Code: 1}, nil
		},
	}
	c, n := newTestCompressor(t, fs, lessManifest(), testOptions(), tools)

	err := c.BuildLess()

	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, "lessc", exitErr.Tool)
	assert.Equal(t, 1, exitErr.Code)
	assert.Len(t, tools.CallsTo("lessc"), 1)
	assert.True(t, n.contains("less build failed, check the output for other errors."))
	assert.False(t, n.contains("less build complete"))
}

func TestBuildLessMissingSource(t *testing.T) {
	fs := mock.NewMockFileSystem()
	write(fs, srcPath("less/header/header.less"), "a")
	tools := fakeTools(fs)
	c, _ := newTestCompressor(t, fs, lessManifest(), testOptions(), tools)

	err := c.BuildLess()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "colorbox.less")
	assert.Len(t, tools.CallsTo("lessc"), 1)
}

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (int, string) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return exitCode(cmd, err, &out), out.String()
}

func TestUnknownGoal(t *testing.T) {
	code, out := execute(t, "--root", t.TempDir(), "css", "foo")
	assert.Equal(t, 1, code)
	assert.Equal(t, "I do not understand target \"foo\". Please provide a valid build target.\n", out)
}

func TestBadFlag(t *testing.T) {
	code, out := execute(t, "--bogus")
	assert.Equal(t, 1, code)
	assert.Contains(t, out, "unknown flag: --bogus")
	assert.Contains(t, out, "Usage:")
}

func TestHelp(t *testing.T) {
	code, out := execute(t, "-h")
	assert.Equal(t, 0, code)
	assert.Contains(t, out, "--compiler")
	assert.Contains(t, out, "less-css")
}

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
}

func TestBuildAndClean(t *testing.T) {
	root := t.TempDir()
	tpl := filepath.Join(root, "wdn", "templates_3.1")
	writeTree(t, tpl, map[string]string{
		"scripts/wdn.js":     "var WDN = { log: function (m) {} };\n",
		"scripts/a.js":       "WDN.log('starting');\nWDN.ready = true;\n",
		"scripts/lib.min.js": "var lib=1;",
		"css/base/base.css":  "/* base */\n.a {\n\tcolor: red;\n}\n@media (min-width: 768px) {\n.a { color: blue; }\n}\n",
	})
	writeTree(t, root, map[string]string{
		"manifest.star": `
js_bundles = {"all": ["wdn", "a"], "768": ["lib.min"]}
css_files = [{"name": "base/base", "noless": True}]
media_widths = [768]
`,
	})

	args := []string{"--root", root, "--manifest", filepath.Join(root, "manifest.star"), "-c", "esbuild"}

	code, out := execute(t, append(args, "-v", "javascript", "css")...)
	require.Equal(t, 0, code, out)
	assert.Contains(t, out, "javascript build complete")
	assert.Contains(t, out, "css build complete")

	all, err := os.ReadFile(filepath.Join(tpl, "scripts/compressed/all.js"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(all), "/**\n"))
	assert.Contains(t, string(all), "$Id: all.js | ")
	assert.Contains(t, string(all), "initializeTemplate")
	assert.NotContains(t, string(all), "starting")

	desktop, err := os.ReadFile(filepath.Join(tpl, "scripts/compressed/768.js"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(desktop), "var lib=1;\n"))

	base, err := os.ReadFile(filepath.Join(tpl, "css/compressed/base.css"))
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(string(base), ".a{color:red;}"))
	wide, err := os.ReadFile(filepath.Join(tpl, "css/compressed/768.css"))
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(string(wide), ".a{color:blue;}"))

	code, out = execute(t, append(args, "-v", "css")...)
	require.Equal(t, 0, code, out)
	assert.Contains(t, out, "Nothing to be done for css target")

	code, out = execute(t, append(args, "clean")...)
	require.Equal(t, 0, code, out)
	assert.Empty(t, out, "notices are only shown with -v")
	for _, gone := range []string{"scripts/compressed/all.js", "css/compressed/base.css", "css/compressed/768.css"} {
		_, err := os.Stat(filepath.Join(tpl, gone))
		assert.True(t, os.IsNotExist(err), gone)
	}
	_, err = os.Stat(filepath.Join(tpl, "scripts/wdn.js"))
	assert.NoError(t, err)
}

package transform

import (
	"fmt"
	"regexp"
)

// DebugLogPattern matches a single-line debug logging statement such as
// WDN.log("x", y); for the given namespace.
func DebugLogPattern(namespace string) *regexp.Regexp {
	return regexp.MustCompile(regexp.QuoteMeta(namespace) + `\.log\s*\(.+\);`)
}

// StripDebugLog removes every namespace.log(...); statement from src.
// Statements spanning several lines are left alone.
func StripDebugLog(src, namespace string) string {
	return DebugLogPattern(namespace).ReplaceAllString(src, "")
}

// TemplatePathLine sets the runtime template path after the core file.
func TemplatePathLine(namespace, templatePath string) string {
	return fmt.Sprintf("%s.template_path=%q;\n", namespace, templatePath)
}

// NoConflictLine hands jQuery over to the namespace and restores any global
// copy the page had loaded.
func NoConflictLine(namespace string) string {
	return namespace + ".jQuery=jQuery.noConflict(true);\n"
}

// LoadedLine records url as already loaded so the runtime loader skips it.
func LoadedLine(namespace, url string) string {
	return fmt.Sprintf("%s.loadedJS[%q]=1;\n", namespace, url)
}

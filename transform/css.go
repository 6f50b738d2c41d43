package transform

import (
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/exp/slices"
)

// MediaMarker separates breakpoint sections in a cleaned stylesheet.
const MediaMarker = "@media "

var (
	importPattern  = regexp.MustCompile(`@import\s+url\(.*\);`)
	commentPattern = regexp.MustCompile(`/\*[^*]*\*+(?:[^/][^*]*\*+)*/`)
	mediaPattern   = regexp.MustCompile(`^\(min-width:(\d+)px\)\{(.*)\}$`)
)

// AssetDir returns the relative prefix used to rewrite asset references of
// a stylesheet: "../" followed by its first path segment, if any.
func AssetDir(file string) string {
	dir := ""
	if i := strings.Index(file, "/"); i >= 0 {
		dir = file[:i] + "/"
	}
	return "../" + dir
}

// RewriteAssetPaths normalises relative image and font references so they
// resolve from the compressed output directory. The replacements are
// applied in sequence, each one to the result of the previous.
func RewriteAssetPaths(css, dir string) string {
	pairs := [][2]string{
		{"../images/", "@IMAGES/"},
		{"images/", dir + "images/"},
		{"@IMAGES", dir + "../images"},
		{"URWGrotesk/", dir + "URWGrotesk/"},
	}
	for _, p := range pairs {
		css = strings.ReplaceAll(css, p[0], p[1])
	}
	return css
}

// StripImports removes @import url(...); directives.
func StripImports(css string) string {
	return importPattern.ReplaceAllString(css, "")
}

// StripComments removes /* ... */ comments. Comments do not nest.
func StripComments(css string) string {
	return commentPattern.ReplaceAllString(css, "")
}

// CollapseWhitespace drops line breaks and tabs and squeezes the spaces
// left around punctuation.
func CollapseWhitespace(css string) string {
	steps := [][2]string{
		{"\r\n", ""},
		{"\r", ""},
		{"\n", ""},
		{"\t", ""},
		{"    ", " "},
		{"   ", " "},
		{"  ", " "},
		{", ", ","},
		{"; ", ";"},
		{": ", ":"},
		{"{ ", "{"},
		{" {", "{"},
		{" }", "}"},
	}
	for _, s := range steps {
		css = strings.ReplaceAll(css, s[0], s[1])
	}
	return css
}

// CleanCSS runs every rewrite on one source stylesheet, in order.
func CleanCSS(css, file string) string {
	css = RewriteAssetPaths(css, AssetDir(file))
	css = StripImports(css)
	css = StripComments(css)
	return CollapseWhitespace(css)
}

// MediaSections accumulates base rules and per-breakpoint rules across the
// stylesheets of one css build.
type MediaSections struct {
	widths   []int
	base     strings.Builder
	sections map[int]*strings.Builder
}

// NewMediaSections returns empty sections for the given breakpoints.
func NewMediaSections(widths []int) *MediaSections {
	sorted := slices.Clone(widths)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)

	ms := &MediaSections{
		widths:   sorted,
		sections: make(map[int]*strings.Builder, len(sorted)),
	}
	for _, w := range sorted {
		ms.sections[w] = &strings.Builder{}
	}
	return ms
}

// Add splits a cleaned stylesheet on the media marker. A segment of the
// form (min-width:Npx){body} for a supported N with a non-blank body is
// appended to that breakpoint; every other segment is appended to base.
func (ms *MediaSections) Add(css string) {
	for _, segment := range strings.Split(css, MediaMarker) {
		if width, body, ok := ms.match(segment); ok {
			ms.sections[width].WriteString(body)
			continue
		}
		ms.base.WriteString(segment)
	}
}

func (ms *MediaSections) match(segment string) (int, string, bool) {
	m := mediaPattern.FindStringSubmatch(segment)
	if m == nil {
		return 0, "", false
	}
	width, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, "", false
	}
	if _, ok := ms.sections[width]; !ok || strings.TrimSpace(m[2]) == "" {
		return 0, "", false
	}
	return width, m[2], true
}

// Widths returns the breakpoints in ascending order.
func (ms *MediaSections) Widths() []int {
	return slices.Clone(ms.widths)
}

// Base returns the rules found outside any breakpoint.
func (ms *MediaSections) Base() string {
	return ms.base.String()
}

// Section returns the accumulated rules of one breakpoint.
func (ms *MediaSections) Section(width int) string {
	if b, ok := ms.sections[width]; ok {
		return b.String()
	}
	return ""
}

// Combined concatenates every breakpoint section in ascending order.
func (ms *MediaSections) Combined() string {
	var sb strings.Builder
	for _, w := range ms.widths {
		sb.WriteString(ms.sections[w].String())
	}
	return sb.String()
}

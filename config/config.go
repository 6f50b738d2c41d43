package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"go.starlark.net/starlark"
	"golang.org/x/exp/slices"

	"github.com/unl-wdn/wdnbuild/target"
)

// Options are the runtime switches of one build invocation.
type Options struct {
	Force        bool
	Verbose      bool
	Progress     bool
	Compiler     string
	TemplateDir  string
	TemplatePath string
	Root         string
	ToolsDir     string
	ManifestPath string
}

// DefaultOptions mirrors a run from the build directory of a template checkout.
func DefaultOptions() Options {
	return Options{
		Compiler:     "closure",
		TemplateDir:  "wdn/templates_3.1/",
		TemplatePath: "/",
		Root:         "..",
		ToolsDir:     ".",
	}
}

// Normalize gives the template dir and path a single trailing slash.
func (o Options) Normalize() Options {
	o.TemplateDir = WithTrailingSlash(o.TemplateDir)
	o.TemplatePath = WithTrailingSlash(o.TemplatePath)
	return o
}

// WithTrailingSlash trims any trailing slashes from s and appends exactly one.
func WithTrailingSlash(s string) string {
	return strings.TrimRight(s, "/") + "/"
}

// ModuleCache is used to store loaded Starlark modules
type ModuleCache struct {
	modules map[string]starlark.StringDict
	mutex   sync.RWMutex
}

// NewModuleCache creates a new ModuleCache
func NewModuleCache() *ModuleCache {
	return &ModuleCache{
		modules: make(map[string]starlark.StringDict),
	}
}

// Get retrieves a module from the cache
func (mc *ModuleCache) Get(key string) (starlark.StringDict, bool) {
	mc.mutex.RLock()
	defer mc.mutex.RUnlock()
	module, ok := mc.modules[key]
	return module, ok
}

// Set stores a module in the cache
func (mc *ModuleCache) Set(key string, module starlark.StringDict) {
	mc.mutex.Lock()
	defer mc.mutex.Unlock()
	mc.modules[key] = module
}

// LoadModule is a custom load function for Starlark that implements caching
func LoadModule(thread *starlark.Thread, module string) (starlark.StringDict, error) {
	cache := thread.Local("moduleCache").(*ModuleCache)

	if cachedModule, ok := cache.Get(module); ok {
		return cachedModule, nil
	}

	filename := module
	if !filepath.IsAbs(filename) {
		filename = filepath.Join(filepath.Dir(thread.Name), filename)
	}

	globals, err := starlark.ExecFile(thread, filename, nil, nil)
	if err != nil {
		return nil, err
	}

	cache.Set(module, globals)

	return globals, nil
}

// LoadManifest evaluates a Starlark manifest file and overlays the globals
// it defines on the default manifest. src, when non-nil, is used instead of
// reading filename.
//
// Recognised globals:
//
//	js_bundles   = {"all": ["wdn", ...], "768": [...]}   # output is <name>.js
//	js_outro     = "WDN.initializeTemplate();"           # appended to the "all" bundle
//	css_files    = ["foundation/global", {"name": "script", "ignore": True}]
//	media_widths = [320, 480, 600, 768, 960, 1040]
func LoadManifest(filename string, src interface{}) (*target.Manifest, error) {
	cache := NewModuleCache()
	thread := &starlark.Thread{
		Name: filename,
		Load: LoadModule,
	}
	thread.SetLocal("moduleCache", cache)

	globals, err := starlark.ExecFile(thread, filename, src, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to execute Starlark manifest")
	}

	return manifestFromGlobals(globals)
}

func manifestFromGlobals(globals starlark.StringDict) (*target.Manifest, error) {
	m := target.DefaultManifest()

	outro := ""
	if i := primaryBundle(m.Bundles); i >= 0 {
		outro = m.Bundles[i].Outro
	}
	if v, ok := globals["js_outro"]; ok {
		s, ok := v.(starlark.String)
		if !ok {
			return nil, fmt.Errorf("expected string for js_outro, got %s", v.Type())
		}
		outro = "\n" + s.GoString() + "\n"
	}

	if v, ok := globals["js_bundles"]; ok {
		bundles, err := parseBundles(v)
		if err != nil {
			return nil, errors.Wrap(err, "failed to parse js_bundles")
		}
		m.Bundles = bundles
		m.JS.Files = nil
		for _, b := range bundles {
			m.JS.Files = append(m.JS.Files, b.Output)
		}
	}
	for i := range m.Bundles {
		m.Bundles[i].Outro = ""
	}
	if i := primaryBundle(m.Bundles); i >= 0 {
		m.Bundles[i].Outro = outro
	}

	if v, ok := globals["css_files"]; ok {
		files, err := parseFileSpecs(v)
		if err != nil {
			return nil, errors.Wrap(err, "failed to parse css_files")
		}
		m.CSSFiles = files
	}

	if v, ok := globals["media_widths"]; ok {
		widths, err := parseWidths(v)
		if err != nil {
			return nil, errors.Wrap(err, "failed to parse media_widths")
		}
		m.MediaWidths = widths
	}

	return m, nil
}

// primaryBundle returns the index of the bundle named all, or of the first
// bundle when there is none. It is -1 for no bundles.
func primaryBundle(bundles []target.Bundle) int {
	if len(bundles) == 0 {
		return -1
	}
	for i, b := range bundles {
		if b.Name == target.PrimaryBundle {
			return i
		}
	}
	return 0
}

func parseBundles(v starlark.Value) ([]target.Bundle, error) {
	dict, ok := v.(*starlark.Dict)
	if !ok {
		return nil, fmt.Errorf("expected dict, got %s", v.Type())
	}

	var bundles []target.Bundle
	for _, item := range dict.Items() {
		name, ok := item.Index(0).(starlark.String)
		if !ok {
			return nil, fmt.Errorf("expected string bundle name, got %s", item.Index(0).Type())
		}
		files, err := toStringList(item.Index(1))
		if err != nil {
			return nil, errors.Wrapf(err, "bundle %s", name.GoString())
		}
		bundles = append(bundles, target.Bundle{
			Name:   name.GoString(),
			Output: name.GoString() + ".js",
			Files:  files,
		})
	}
	return bundles, nil
}

func parseFileSpecs(v starlark.Value) ([]target.FileSpec, error) {
	list, ok := v.(*starlark.List)
	if !ok {
		return nil, fmt.Errorf("expected list, got %s", v.Type())
	}

	var specs []target.FileSpec
	iter := list.Iterate()
	defer iter.Done()
	var x starlark.Value
	for iter.Next(&x) {
		switch val := x.(type) {
		case starlark.String:
			specs = append(specs, target.FileSpec{Name: val.GoString()})
		case *starlark.Dict:
			spec, err := parseFileSpec(val)
			if err != nil {
				return nil, err
			}
			specs = append(specs, spec)
		default:
			return nil, fmt.Errorf("expected string or dict in css_files, got %s", x.Type())
		}
	}
	return specs, nil
}

func parseFileSpec(dict *starlark.Dict) (target.FileSpec, error) {
	var spec target.FileSpec

	name, ok, err := getStringValue(dict, "name")
	if err != nil {
		return spec, err
	}
	if !ok || name == "" {
		return spec, errors.New("css_files entry is missing a name")
	}
	spec.Name = name

	if ignore, ok, err := getBooleanValue(dict, "ignore"); err != nil {
		return spec, err
	} else if ok {
		spec.Ignore = ignore
	}

	if noLess, ok, err := getBooleanValue(dict, "noless"); err != nil {
		return spec, err
	} else if ok {
		spec.NoLess = noLess
	}

	return spec, nil
}

func parseWidths(v starlark.Value) ([]int, error) {
	list, ok := v.(*starlark.List)
	if !ok {
		return nil, fmt.Errorf("expected list, got %s", v.Type())
	}

	var widths []int
	iter := list.Iterate()
	defer iter.Done()
	var x starlark.Value
	for iter.Next(&x) {
		i, ok := x.(starlark.Int)
		if !ok {
			return nil, fmt.Errorf("expected int in media_widths, got %s", x.Type())
		}
		w, ok := i.Int64()
		if !ok || w <= 0 {
			return nil, fmt.Errorf("invalid media width %s", i.String())
		}
		widths = append(widths, int(w))
	}

	slices.Sort(widths)
	return slices.Compact(widths), nil
}

func getBooleanValue(dict *starlark.Dict, key string) (bool, bool, error) {
	value, found, err := dict.Get(starlark.String(key))
	if err != nil || !found {
		return false, false, err
	}

	boolValue, ok := value.(starlark.Bool)
	if !ok {
		return false, false, fmt.Errorf("expected bool for key %s, got %T", key, value)
	}

	return bool(boolValue), true, nil
}

func getStringValue(dict *starlark.Dict, key string) (string, bool, error) {
	value, found, err := dict.Get(starlark.String(key))
	if err != nil || !found {
		return "", false, err
	}

	strValue, ok := value.(starlark.String)
	if !ok {
		return "", false, fmt.Errorf("expected string for key %s, got %T", key, value)
	}

	return strValue.GoString(), true, nil
}

func toStringList(value starlark.Value) ([]string, error) {
	list, ok := value.(*starlark.List)
	if !ok {
		return nil, fmt.Errorf("expected list, got %T", value)
	}

	var result []string
	iter := list.Iterate()
	defer iter.Done()
	var x starlark.Value
	for iter.Next(&x) {
		str, ok := x.(starlark.String)
		if !ok {
			return nil, fmt.Errorf("expected string in list, got %T", x)
		}
		result = append(result, str.GoString())
	}

	return result, nil
}

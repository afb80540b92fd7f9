// Package gomod reads the go.mod file of the module heapgen generates
// code for.
package gomod

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"golang.org/x/mod/modfile"
	"golang.org/x/mod/module"
	"golang.org/x/mod/semver"
)

// MinGoVersion is the first Go version with type parameters, which
// heap.Box requires.
const MinGoVersion = "1.18"

// DefaultGoVersion is assumed for go.mod files without a go directive.
const DefaultGoVersion = "1.16"

var ErrNoGenerics = errors.New("module go version does not support generics")

type Module struct {
	// Path is the module path declared in the "module" directive.
	Path string
	// GoVersion is the version from the "go" directive, e.g. "1.21.0".
	GoVersion string
	// Dir is the directory containing go.mod.
	Dir string
	// Requires maps required module paths to their versions.
	Requires map[string]string
}

// Find returns the path of the go.mod governing dir.
func Find(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	for d := dir; ; {
		p := filepath.Join(d, "go.mod")
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
		parent := filepath.Dir(d)
		if parent == d {
			return "", fmt.Errorf("no go.mod found in %v or any parent directory", dir)
		}
		d = parent
	}
}

// Load parses the go.mod file at path.
func Load(path string) (*Module, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	f, err := modfile.ParseLax(path, data, nil)
	if err != nil {
		return nil, err
	}
	if f.Module == nil {
		return nil, fmt.Errorf("%v: missing module directive", path)
	}
	// module.CheckPath would reject a first element without a dot,
	// which is fine for a main module ("example/m").
	if err := module.CheckImportPath(f.Module.Mod.Path); err != nil {
		return nil, fmt.Errorf("%v: %w", path, err)
	}
	m := &Module{
		Path:      f.Module.Mod.Path,
		GoVersion: DefaultGoVersion,
		Dir:       filepath.Dir(path),
		Requires:  make(map[string]string, len(f.Require)),
	}
	if f.Go != nil {
		m.GoVersion = f.Go.Version
	}
	for _, r := range f.Require {
		m.Requires[r.Mod.Path] = r.Mod.Version
	}
	return m, nil
}

// CheckGenerics returns an error wrapping ErrNoGenerics if the go
// directive is older than MinGoVersion.
func (m *Module) CheckGenerics() error {
	if !semver.IsValid(semverOf(m.GoVersion)) {
		return fmt.Errorf("module %v: invalid go version %q", m.Path, m.GoVersion)
	}
	if semver.Compare(semverOf(m.GoVersion), semverOf(MinGoVersion)) < 0 {
		return fmt.Errorf("module %v: go %v < %v: %w", m.Path, m.GoVersion, MinGoVersion, ErrNoGenerics)
	}
	return nil
}

// semverOf converts a Go version ("1.21", "1.21.0", "1.21rc1") into a
// semver string.
func semverOf(goVersion string) string {
	base, pre := goVersion, ""
	if i := strings.IndexFunc(goVersion, unicode.IsLetter); i != -1 {
		base, pre = goVersion[:i], "-"+goVersion[i:]
	}
	if strings.Count(base, ".") == 1 {
		base += ".0"
	}
	return "v" + base + pre
}

// Returns true if s is a package or module path in
// the std library, i.e. the first element contains
// no dot.
// Doesn't actually check if the std library package
// exists.
// Returns false if s is empty.
func IsStd(s string) bool {
	if s == "" {
		return false
	}
	firstElem, _, _ := strings.Cut(s, "/")
	return !strings.Contains(firstElem, ".")
}

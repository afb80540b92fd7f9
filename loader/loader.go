package loader

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	log "github.com/sirupsen/logrus"
	"golang.org/x/tools/go/packages"
)

type Config struct {
	// Cancels the build system's query. May be nil.
	Context context.Context
	// Directory to run the build system's query in (empty for the
	// current directory)
	Dir string
	// Packages to load
	PackagePatterns []string
	// Additional env vars (e.g. "GOOS=...", "GOARCH=...", "CGO_ENABLED=..." etc.)
	Env []string
	// Additional build flags (e.g. "-tags=...")
	BuildFlags []string
	// Receives type errors that were tolerated. May be nil.
	Log log.FieldLogger
}

// ErrLoad is returned (wrapped) when packages had errors the generator
// cannot work around.
var ErrLoad = errors.New("loader had errors")

func loadPackagesStep(c *Config, pc *packages.Config) ([]*packages.Package, error) {
	{
		prevEnv := pc.Env
		prevBuildFlags := pc.BuildFlags
		defer func() {
			pc.Env = prevEnv
			pc.BuildFlags = prevBuildFlags
		}()
		// NOTE: Ensure we always fully clone any slices here!
		pc.Env = append(os.Environ(), c.Env...)
		pc.BuildFlags = append(slices.Clone(c.BuildFlags), pc.BuildFlags...)
		pc.Dir = c.Dir
		pc.Context = c.Context
	}

	pkgs, err := packages.Load(pc, c.PackagePatterns...)
	if err != nil {
		return nil, err
	}

	var hard []string
	packages.Visit(pkgs, nil, func(p *packages.Package) {
		// Type errors are soft as long as type information was still
		// produced: code calling accessors that haven't been generated
		// yet, or a stale generated file referring to renamed fields,
		// must not block generation.
		p.Errors = slices.DeleteFunc(p.Errors, func(err packages.Error) bool {
			if err.Kind == packages.TypeError && p.Types != nil {
				if c.Log != nil && !strings.HasSuffix(err.Msg, " imported and not used") {
					c.Log.WithField("pkg", p.PkgPath).Debugf("ignoring type error: %v", err)
				}
				return true
			}
			return false
		})
		for _, err := range p.Errors {
			hard = append(hard, err.Error())
		}
	})
	if len(hard) > 0 {
		return nil, fmt.Errorf("%w:\n%v", ErrLoad, strings.Join(hard, "\n"))
	}
	return pkgs, nil
}

// Resolved is a package matched by a pattern.
type Resolved struct {
	PkgPath string
	Dir     string
}

// ResolvePatterns only resolves the given package patterns
// and returns the matched packages sorted by path.
func ResolvePatterns(c *Config) ([]Resolved, error) {
	pkgs, err := loadPackagesStep(c, &packages.Config{
		Mode: packages.NeedName | packages.NeedFiles,
	})
	if err != nil {
		return nil, err
	}

	var res []Resolved
	for _, pkg := range pkgs {
		dir := pkg.Dir
		if dir == "" && len(pkg.GoFiles) > 0 {
			dir = filepath.Dir(pkg.GoFiles[0])
		}
		res = append(res, Resolved{PkgPath: pkg.PkgPath, Dir: dir})
	}
	slices.SortFunc(res, func(a, b Resolved) int {
		return cmp.Compare(a.PkgPath, b.PkgPath)
	})
	return res, nil
}

// Load fully loads and type-checks the packages matched by the patterns.
// Dependencies are type-checked from export data, only the matched
// packages are parsed from source.
func Load(c *Config) ([]*packages.Package, error) {
	return loadPackagesStep(c, &packages.Config{
		Mode: packages.NeedName |
			packages.NeedFiles |
			packages.NeedImports |
			packages.NeedSyntax |
			packages.NeedTypes |
			packages.NeedTypesInfo,
	})
}

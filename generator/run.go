package generator

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/ChloeMayhewELT/HeapStorageMacro/config"
	"github.com/ChloeMayhewELT/HeapStorageMacro/gomod"
	"github.com/ChloeMayhewELT/HeapStorageMacro/loader"
	log "github.com/sirupsen/logrus"
)

// Options override the config file of a package. Zero values keep the
// configured setting.
type Options struct {
	// Package directory.
	Dir string
	// Config file to use instead of looking for heapgen.toml.
	ConfigPath string
	// Generated file name, relative to Dir.
	Output    string
	BuildTags []string
	Equal     *bool
	// Graph makes Run fill in Result.Graph.
	Graph bool
	// Additional env vars passed to the go command.
	Env []string
}

// Status is what Run did with the generated file.
type Status int

const (
	Skipped Status = iota
	Unchanged
	Written
	Removed
)

func (s Status) String() string {
	switch s {
	case Skipped:
		return "skipped"
	case Unchanged:
		return "unchanged"
	case Written:
		return "written"
	case Removed:
		return "removed"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Result describes one Run.
type Result struct {
	PkgPath string
	File    string
	Status  Status
	Structs int
	Fields  int
	// Structs that hold themselves.
	Recursive int
	// DOT code, see [File.Graph].
	Graph []byte
}

// DefaultOutput returns the generated file name of a package.
func DefaultOutput(pkgName string) string {
	return pkgName + "_heapgen.go"
}

// LoadConfig returns the config governing dir with opts applied.
func LoadConfig(opts Options) (*config.Config, error) {
	path := opts.ConfigPath
	if path == "" {
		path, _ = config.Find(opts.Dir)
	}
	conf := config.Default()
	if path != "" {
		var err error
		conf, err = config.Load(path)
		if err != nil {
			return nil, err
		}
	}
	if opts.Output != "" {
		conf.Output = opts.Output
	}
	if opts.BuildTags != nil {
		conf.BuildTags = opts.BuildTags
	}
	if opts.Equal != nil {
		conf.Equal = *opts.Equal
	}
	return conf, nil
}

// Run generates the accessor file of the package in opts.Dir.
//
// An existing file of the same name is only replaced if heapgen wrote
// it. If the package has no boxed fields left, a previously generated
// file is removed.
func Run(ctx context.Context, opts Options, logger log.FieldLogger) (*Result, error) {
	dir, err := filepath.Abs(opts.Dir)
	if err != nil {
		return nil, err
	}
	opts.Dir = dir

	modFile, err := gomod.Find(dir)
	if err != nil {
		return nil, err
	}
	mod, err := gomod.Load(modFile)
	if err != nil {
		return nil, err
	}
	if err := mod.CheckGenerics(); err != nil {
		return nil, err
	}

	conf, err := LoadConfig(opts)
	if err != nil {
		return nil, err
	}

	lc := &loader.Config{
		Context:         ctx,
		Dir:             dir,
		PackagePatterns: []string{"."},
		Env:             opts.Env,
		Log:             logger,
	}
	if len(conf.BuildTags) > 0 {
		lc.BuildFlags = []string{"-tags=" + strings.Join(conf.BuildTags, ",")}
	}
	pkgs, err := loader.Load(lc)
	if err != nil {
		return nil, err
	}
	if len(pkgs) != 1 {
		return nil, fmt.Errorf("expected one package in %v, got %v", dir, len(pkgs))
	}
	pkg := pkgs[0]
	logger = logger.WithField("pkg", pkg.PkgPath)

	output := conf.Output
	if output == "" {
		output = DefaultOutput(pkg.Name)
	}
	res := &Result{
		PkgPath: pkg.PkgPath,
		File:    filepath.Join(dir, output),
	}

	file, err := Collect(&Input{
		Fset:  pkg.Fset,
		Files: pkg.Syntax,
		Types: pkg.Types,
		Info:  pkg.TypesInfo,
	}, conf)
	if err != nil {
		return nil, fmt.Errorf("%v: %w", pkg.PkgPath, err)
	}
	for _, s := range file.Structs {
		res.Structs++
		res.Fields += len(s.Fields)
		if s.Recursive {
			res.Recursive++
		}
	}
	if opts.Graph && len(file.Structs) > 0 {
		res.Graph = file.Graph()
	}

	existing, err := os.ReadFile(res.File)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}
	exists := err == nil
	if exists && !IsGeneratedSource(existing) {
		if len(file.Structs) == 0 {
			return res, nil
		}
		return nil, fmt.Errorf("refusing to overwrite %v: not generated by heapgen", res.File)
	}

	if len(file.Structs) == 0 {
		if exists {
			if err := os.Remove(res.File); err != nil {
				return nil, err
			}
			logger.Infof("removed %v", output)
			res.Status = Removed
		} else {
			logger.Debug("no boxed fields")
		}
		return res, nil
	}

	code, err := file.Generate()
	if err != nil {
		return nil, fmt.Errorf("%v: %w", pkg.PkgPath, err)
	}
	if exists && bytes.Equal(existing, code) {
		logger.Debugf("%v is up to date", output)
		res.Status = Unchanged
		return res, nil
	}
	if err := os.WriteFile(res.File, code, 0666); err != nil {
		return nil, err
	}
	logger.Infof("wrote %v (%v boxed fields)", output, res.Fields)
	res.Status = Written
	return res, nil
}

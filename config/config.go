package config

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"strconv"

	"dario.cat/mergo"
	"github.com/pelletier/go-toml/v2"
)

// FileName is the name of the config file looked up by [Find].
const FileName = "heapgen.toml"

type Rule struct {
	Select struct {
		Struct *regexp.Regexp `toml:"struct"`
		Field  *regexp.Regexp `toml:"field"`
	} `toml:"select"`
	Actions struct {
		Include  *bool  `toml:"include"`
		Getter   string `toml:"getter"`
		Setter   string `toml:"setter"`
		ReadOnly *bool  `toml:"read-only"`
		ToCasing string `toml:"to-casing"`
	} `toml:"action"`
}

type Config struct {
	Imports   []string `toml:"imports"`
	Output    string   `toml:"output"`
	BuildTags []string `toml:"build-tags"`
	Equal     bool     `toml:"equal"`
	Rules     []Rule   `toml:"rule"`
}

// Default returns the configuration used when no config file exists.
func Default() *Config {
	return &Config{}
}

type Error struct {
	filePath string
	err      error  // short, single-line error
	str      string // full, multi-line error string, or err string, if none
}

// Error returns a short error message.
func (e *Error) Error() string {
	return e.filePath + ": " + e.err.Error()
}

// String returns the full multi-line error string.
func (e *Error) String() string {
	if e.str != "" {
		return "Error in file " + strconv.Quote(e.filePath) + ":\n" + e.str
	} else {
		return e.Error()
	}
}

func (e *Error) Unwrap() error {
	return e.err
}

// Load reads the config file at path. Paths in "imports" are relative to
// the importing file. Imported configs are merged into the result, with
// slices appended after the importing file's own entries.
func Load(path string) (_ *Config, err error) {
	return load(path, map[string]bool{})
}

func load(path string, visiting map[string]bool) (_ *Config, err error) {
	defer func() {
		if err != nil {
			if cErr := (&Error{}); errors.As(err, &cErr) {
				// already attributed to the imported file
			} else if tErr := (&toml.DecodeError{}); errors.As(err, &tErr) {
				err = &Error{filePath: path, err: err, str: tErr.String()}
			} else if tErr := (&toml.StrictMissingError{}); errors.As(err, &tErr) {
				err = &Error{filePath: path, err: err, str: tErr.String()}
			} else {
				err = &Error{filePath: path, err: err}
			}
		}
	}()

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	if visiting[abs] {
		return nil, errors.New("import cycle")
	}
	visiting[abs] = true
	defer delete(visiting, abs)

	file, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	c := &Config{}
	err = toml.NewDecoder(bytes.NewReader(file)).
		DisallowUnknownFields().
		Decode(c)
	if err != nil {
		return nil, err
	}
	for _, r := range c.Rules {
		switch r.Actions.ToCasing {
		case "", "camel", "lower-camel":
		default:
			return nil, errors.New("rule action: unknown casing " + strconv.Quote(r.Actions.ToCasing))
		}
	}

	var importedCs []*Config // collect imported files first so their imports don't leak into our file's imports
	for _, imp := range c.Imports {
		if !filepath.IsAbs(imp) {
			imp = filepath.Join(filepath.Dir(path), imp)
		}
		newC, err := load(imp, visiting)
		if err != nil {
			return nil, err
		}
		importedCs = append(importedCs, newC)
	}
	for _, newC := range importedCs {
		if err := mergo.Merge(c, newC, mergo.WithAppendSlice); err != nil {
			return nil, err
		}
	}

	return c, nil
}

// Find looks for a config file in dir and its parents. The search stops
// after the first directory containing a go.mod file.
func Find(dir string) (string, bool) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", false
	}
	for {
		p := filepath.Join(dir, FileName)
		if _, err := os.Stat(p); err == nil {
			return p, true
		}
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return "", false
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

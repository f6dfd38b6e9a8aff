// Package hostconfig loads the TOML project file that configures a
// virtual-file host: which extensions the transpiler maps between, and
// how bare module specifiers resolve to files.
package hostconfig

import (
	"errors"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
)

// ErrMissingTranspilers indicates the [[transpilers]] table was absent.
var ErrMissingTranspilers = errors.New("hostconfig: missing [[transpilers]]")

// Transpiler names one registered source-extension to target-extension
// mapping, e.g. ".src" -> ".ts". A project can register more than one,
// for a mix of source dialects feeding the same TGT service; they are
// tried in registration order wherever more than one could match.
type Transpiler struct {
	SourceExt string
	TargetExt string
}

// Config is the decoded form of a project's tsbridge.toml.
type Config struct {
	Transpilers []Transpiler        // registration order matters, see Transpiler
	BaseURL     string              // resolver base directory, relative to the project root
	Paths       map[string][]string // tsconfig-style specifier -> candidate path patterns
}

// Primary returns the first registered transpiler, the pair single-file
// CLI commands operate against when a project defines exactly one.
func (c Config) Primary() Transpiler {
	if len(c.Transpilers) == 0 {
		return Transpiler{}
	}
	return c.Transpilers[0]
}

// TargetExtFor returns the target extension of the first registered
// transpiler whose source extension is a suffix of srcPath.
func (c Config) TargetExtFor(srcPath string) (string, bool) {
	for _, tp := range c.Transpilers {
		if strings.HasSuffix(srcPath, tp.SourceExt) {
			return tp.TargetExt, true
		}
	}
	return "", false
}

type transpilerSection struct {
	Source string `toml:"source"`
	Target string `toml:"target"`
}

type resolveSection struct {
	BaseURL string              `toml:"baseUrl"`
	Paths   map[string][]string `toml:"paths"`
}

type fileFormat struct {
	Transpilers []transpilerSection `toml:"transpilers"`
	Resolve     resolveSection      `toml:"resolve"`
}

// Load parses a tsbridge.toml at path. Each `[[transpilers]]` entry
// registers one source/target extension pair; at least one is required.
func Load(path string) (Config, error) {
	var raw fileFormat
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	if !meta.IsDefined("transpilers") {
		return Config{}, fmt.Errorf("%s: %w", path, ErrMissingTranspilers)
	}
	if len(raw.Transpilers) == 0 {
		return Config{}, fmt.Errorf("%s: at least one [[transpilers]] entry is required", path)
	}

	transpilers := make([]Transpiler, 0, len(raw.Transpilers))
	for _, t := range raw.Transpilers {
		source := strings.TrimSpace(t.Source)
		target := strings.TrimSpace(t.Target)
		if source == "" || target == "" {
			return Config{}, fmt.Errorf("%s: each [[transpilers]] entry requires source and target", path)
		}
		transpilers = append(transpilers, Transpiler{
			SourceExt: normalizeExt(source),
			TargetExt: normalizeExt(target),
		})
	}

	cfg := Config{
		Transpilers: transpilers,
		BaseURL:     strings.TrimSpace(raw.Resolve.BaseURL),
		Paths:       raw.Resolve.Paths,
	}
	if cfg.Paths == nil {
		cfg.Paths = map[string][]string{}
	}
	return cfg, nil
}

// Default returns the configuration used when no tsbridge.toml is
// present: a plain .src -> .ts mapping with no path mappings.
func Default() Config {
	return Config{
		Transpilers: []Transpiler{{SourceExt: ".src", TargetExt: ".ts"}},
		Paths:       map[string][]string{},
	}
}

func normalizeExt(ext string) string {
	if !strings.HasPrefix(ext, ".") {
		return "." + ext
	}
	return ext
}

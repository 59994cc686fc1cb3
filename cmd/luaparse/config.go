// Copyright 2025 The zb Authors
// SPDX-License-Identifier: MIT

package main

import (
	"errors"
	"fmt"
	"iter"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/BurntSushi/toml"
	jsonv2 "github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
	"github.com/tailscale/hujson"
)

// globalConfig is the user-wide configuration,
// read from JWCC files in the configuration directories.
type globalConfig struct {
	Debug   bool   `json:"debug"`
	CacheDB string `json:"cacheDB"`
	Jobs    int    `json:"jobs"`
	Remote  string `json:"remote"`
}

func defaultGlobalConfig() *globalConfig {
	g := &globalConfig{
		Jobs: runtime.NumCPU(),
	}
	if cd := cacheDir(); cd != "" {
		g.CacheDB = filepath.Join(cd, "luaparse", "cache.db")
	}
	return g
}

func (g *globalConfig) mergeEnvironment() error {
	if db := os.Getenv("LUAPARSE_CACHE"); db != "" {
		if !filepath.IsAbs(db) {
			return fmt.Errorf("LUAPARSE_CACHE=%q is not an absolute path", db)
		}
		g.CacheDB = db
	}
	if remote := os.Getenv("LUAPARSE_REMOTE"); remote != "" {
		g.Remote = remote
	}
	return nil
}

func (g *globalConfig) mergeFiles(paths iter.Seq[string]) error {
	for file := range paths {
		huJSONData, err := os.ReadFile(file)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return err
		}
		jsonData, err := hujson.Standardize(huJSONData)
		if err != nil {
			return fmt.Errorf("read %s: %v", file, err)
		}
		if err := jsonv2.Unmarshal(jsonData, g, jsonv2.RejectUnknownMembers(false)); err != nil {
			return fmt.Errorf("read %s: %v", file, err)
		}
	}

	return nil
}

// UnmarshalJSONFrom unmarshals the configuration object from the JSON decoder,
// merging any fields in the JSON object with existing values.
func (g *globalConfig) UnmarshalJSONFrom(in *jsontext.Decoder) error {
	tok, err := in.ReadToken()
	if err != nil {
		return err
	}
	if got := tok.Kind(); got != '{' {
		return fmt.Errorf("config must be an object not a %v", got)
	}

	for {
		keyToken, err := in.ReadToken()
		if err != nil {
			return err
		}
		switch kind := keyToken.Kind(); kind {
		case '}':
			return nil
		case '"':
			// Keep going.
		default:
			return fmt.Errorf("unexpected non-string key (%v) in object", kind)
		}

		switch k := keyToken.String(); k {
		case "debug":
			if err := jsonv2.UnmarshalDecode(in, &g.Debug); err != nil {
				return fmt.Errorf("unmarshal config.debug: %w", err)
			}
		case "cacheDB":
			if err := jsonv2.UnmarshalDecode(in, &g.CacheDB); err != nil {
				return fmt.Errorf("unmarshal config.cacheDB: %w", err)
			}
		case "jobs":
			if err := jsonv2.UnmarshalDecode(in, &g.Jobs); err != nil {
				return fmt.Errorf("unmarshal config.jobs: %w", err)
			}
		case "remote":
			if err := jsonv2.UnmarshalDecode(in, &g.Remote); err != nil {
				return fmt.Errorf("unmarshal config.remote: %w", err)
			}
		default:
			if reject, _ := jsonv2.GetOption(in.Options(), jsonv2.RejectUnknownMembers); reject {
				return fmt.Errorf("unmarshal config: unknown field %q", k)
			}
			if err := in.SkipValue(); err != nil {
				return err
			}
		}
	}
}

func (g *globalConfig) validate() error {
	if g.Jobs < 1 {
		return fmt.Errorf("jobs must be positive (got %d)", g.Jobs)
	}
	return nil
}

// projectConfigFileName is the name of the per-project configuration file.
const projectConfigFileName = ".luaparse.toml"

// projectConfig is the configuration for a source tree,
// read from the nearest [projectConfigFileName] file.
type projectConfig struct {
	Format formatConfig `toml:"format"`
	Check  checkConfig  `toml:"check"`

	// root is the directory that contains the configuration file.
	// It is empty if no configuration file was found.
	root string
}

type formatConfig struct {
	// Indent is the string used for one level of indentation.
	Indent string `toml:"indent"`
}

type checkConfig struct {
	// Exclude is a list of glob patterns
	// (in the syntax of [path.Match])
	// of files that check should skip.
	// Patterns without a slash match against the file's base name.
	// Other patterns match against the slash-separated path
	// relative to the project root.
	Exclude []string `toml:"exclude"`
}

func defaultProjectConfig() *projectConfig {
	return &projectConfig{
		Format: formatConfig{Indent: "\t"},
	}
}

// findProjectConfig searches startDir and its ancestors
// for a [projectConfigFileName] file and loads the first one found.
// If none is found, findProjectConfig returns the default configuration.
func findProjectConfig(startDir string) (*projectConfig, error) {
	dir := startDir
	for {
		file := filepath.Join(dir, projectConfigFileName)
		if _, err := os.Stat(file); err == nil {
			return loadProjectConfig(file)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return defaultProjectConfig(), nil
		}
		dir = parent
	}
}

func loadProjectConfig(file string) (*projectConfig, error) {
	cfg := defaultProjectConfig()
	md, err := toml.DecodeFile(file, cfg)
	if err != nil {
		return nil, fmt.Errorf("read %s: %v", file, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return nil, fmt.Errorf("read %s: unknown keys %s", file, strings.Join(keys, ", "))
	}
	for _, pattern := range cfg.Check.Exclude {
		if _, err := path.Match(pattern, ""); err != nil {
			return nil, fmt.Errorf("read %s: check.exclude: %q: %v", file, pattern, err)
		}
	}
	cfg.root = filepath.Dir(file)
	return cfg, nil
}

// excluded reports whether the named file matches one of the exclude patterns.
func (cfg *projectConfig) excluded(name string) bool {
	if len(cfg.Check.Exclude) == 0 {
		return false
	}
	rel := name
	if cfg.root != "" {
		if abs, err := filepath.Abs(name); err == nil {
			if r, err := filepath.Rel(cfg.root, abs); err == nil && !strings.HasPrefix(r, "..") {
				rel = r
			}
		}
	}
	rel = filepath.ToSlash(rel)
	base := filepath.Base(name)
	for _, pattern := range cfg.Check.Exclude {
		subject := rel
		if !strings.Contains(pattern, "/") {
			subject = base
		}
		if ok, _ := path.Match(pattern, subject); ok {
			return true
		}
	}
	return false
}

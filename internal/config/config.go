// Package config provides the settings of the web build server.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultRoot is the build directory served, relative to the working directory.
	DefaultRoot = "builds/web"
	// DefaultPort is the TCP port the server listens on.
	DefaultPort = 8000
)

// Project file names looked up in the working directory, in order.
const (
	TOMLFile = "webserve.toml"
	YAMLFile = "webserve.yaml"
)

// Config holds the settings of one server run.
// It is built once at startup and never mutated afterwards.
type Config struct {
	// Root is the absolute path of the directory being served.
	Root string
	// Port is the TCP port bound on all interfaces.
	Port int
	// Headers are extra response headers added next to the isolation headers.
	// Empty unless a project file sets them.
	Headers map[string]string
}

// fileConfig mirrors the optional project file. Only extra headers can be
// set; the root and port are fixed.
type fileConfig struct {
	Headers map[string]string `toml:"headers" yaml:"headers"`
}

// reservedHeaders are produced by the file server for each file and cannot
// be configured.
var reservedHeaders = map[string]bool{
	"Content-Type":   true,
	"Content-Length": true,
}

// Default returns the fixed configuration anchored at workDir.
func Default(workDir string) Config {
	return Config{
		Root: filepath.Join(workDir, DefaultRoot),
		Port: DefaultPort,
	}
}

// Load returns the fixed configuration for workDir, with the extra headers of
// webserve.toml or webserve.yaml when one exists in workDir.
func Load(workDir string) (Config, error) {
	absDir, err := filepath.Abs(workDir)
	if err != nil {
		return Config{}, fmt.Errorf("failed to resolve working directory: %w", err)
	}
	cfg := Default(absDir)

	fc, path, err := readProjectFile(absDir)
	if err != nil {
		return Config{}, err
	}
	if path == "" || len(fc.Headers) == 0 {
		return cfg, nil
	}

	cfg.Headers = make(map[string]string, len(fc.Headers))
	for k, v := range fc.Headers {
		key := http.CanonicalHeaderKey(k)
		if reservedHeaders[key] {
			return Config{}, fmt.Errorf("%s: header %s is set by the file server and cannot be configured", path, key)
		}
		cfg.Headers[key] = v
	}
	return cfg, nil
}

func readProjectFile(dir string) (fileConfig, string, error) {
	var fc fileConfig

	path := filepath.Join(dir, TOMLFile)
	md, err := toml.DecodeFile(path, &fc)
	switch {
	case err == nil:
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return fc, "", fmt.Errorf("%s: unknown setting %q", path, undecoded[0].String())
		}
		return fc, path, nil
	case !errors.Is(err, fs.ErrNotExist):
		return fc, "", fmt.Errorf("failed to parse %s: %w", path, err)
	}

	path = filepath.Join(dir, YAMLFile)
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fc, "", nil
		}
		return fc, "", err
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&fc); err != nil && !errors.Is(err, io.EOF) {
		return fc, "", fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return fc, path, nil
}

// Addr is the wildcard listen address.
func (c Config) Addr() string {
	return ":" + strconv.Itoa(c.Port)
}

// URL is the address printed for the browser.
func (c Config) URL() string {
	return "http://localhost:" + strconv.Itoa(c.Port)
}

// RootError reports a build directory that cannot be served.
type RootError struct {
	Path string
	Err  error
}

func (e *RootError) Error() string {
	return "Web build directory not found at " + e.Path
}

func (e *RootError) Unwrap() error { return e.Err }

// CheckRoot verifies that the configured root exists and is a directory.
func CheckRoot(c Config) error {
	info, err := os.Stat(c.Root)
	if err != nil {
		return &RootError{Path: c.Root, Err: err}
	}
	if !info.IsDir() {
		return &RootError{Path: c.Root, Err: fmt.Errorf("%s is not a directory", c.Root)}
	}
	return nil
}

package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Corpus contains the edition collection location.
type Corpus struct {
	PathToDocs string `toml:"path_to_docs"`
	Glob       string `toml:"glob"`
	TocDir     string `toml:"toc_dir"`
}

// Redirect contains settings for the redirect-table generator.
type Redirect struct {
	OutputMode string `toml:"output_mode"`
	BaseURLOld string `toml:"base_url_old"`
	BaseURLNew string `toml:"base_url_new"`
	Debug      bool   `toml:"debug"`
}

// Fetch contains settings for the debug page fetcher.
type Fetch struct {
	TimeoutSeconds  int    `toml:"timeout_seconds"`
	RateLimitMillis int    `toml:"rate_limit_ms"`
	CacheTTLSeconds int    `toml:"cache_ttl_seconds"`
	UserAgent       string `toml:"user_agent"`
}

// Register contains settings for the persons/places register builder.
type Register struct {
	DBPath      string `toml:"db_path"`
	OutDir      string `toml:"out_dir"`
	TemplateDir string `toml:"template_dir"`
}

// Snapshot contains settings for corpus snapshot artifacts.
type Snapshot struct {
	Dir string `toml:"dir"`
}

// Logging contains configuration for log output.
type Logging struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Config encapsulates all configuration values for the abacus tool.
//
// Configuration sections by subsystem:
//   - Corpus: where the edition documents and ToC documents live
//   - Redirect: output mode, base URLs, debug diagnostics
//   - Fetch: HTTP etiquette for the debug page fetcher
//   - Register: register builder database and output locations
//   - Snapshot: snapshot artifact directory
//   - Logging: log format and level
type Config struct {
	Corpus   Corpus   `toml:"corpus"`
	Redirect Redirect `toml:"redirect"`
	Fetch    Fetch    `toml:"fetch"`
	Register Register `toml:"register"`
	Snapshot Snapshot `toml:"snapshot"`
	Logging  Logging  `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/abacus/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized. A missing file is not
// an error: defaults apply and exists reports false.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("abacus.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}
	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}

	return defaultPath, false, nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

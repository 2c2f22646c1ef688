// Package config — .kalid.yaml configuration file support.
//
// The file lives in the project root. A missing file is not an error: the
// tool runs with defaults, so `kalid status` works on a bare project. An
// existing file is validated strictly — a bad locale code or an unknown key
// generation strategy fails loading rather than producing surprise keys.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// FileName is the configuration file name.
const FileName = ".kalid.yaml"

// StrategyTransliterate is the only key generation strategy implemented.
const StrategyTransliterate = "transliterate"

// ---------------------------------------------------------------------------
// Schema
// ---------------------------------------------------------------------------

// Config is the top-level .kalid.yaml structure.
type Config struct {
	Locales          Locales          `yaml:"locales"`
	KeyGeneration    KeyGeneration    `yaml:"key_generation"`
	FileProcessing   FileProcessing   `yaml:"file_processing"`
	TranslationFiles TranslationFiles `yaml:"translation_files"`
}

// Locales names the source language (whose text is being keyed) and the
// target language kept in sync.
type Locales struct {
	Source string `yaml:"source"`
	Target string `yaml:"target"`
}

// KeyGeneration controls identifier synthesis.
type KeyGeneration struct {
	// Strategy selects the synthesis algorithm (only "transliterate").
	Strategy string `yaml:"strategy"`
	// MaxLength is the identifier length ceiling.
	MaxLength int `yaml:"max_length"`
	// UseContext prepends the extraction context (e.g. "btn") to keys.
	UseContext bool `yaml:"use_context"`
	// Prefix is an optional global key prefix.
	Prefix string `yaml:"prefix,omitempty"`
}

// FileProcessing controls store mutation safety.
type FileProcessing struct {
	// CreateBackups snapshots the store before any mutation.
	CreateBackups bool `yaml:"create_backups"`
}

// TranslationFiles locates the locale store.
type TranslationFiles struct {
	// Directory holds the per-locale JSON files, relative to the project root.
	Directory string `yaml:"directory"`
}

// ---------------------------------------------------------------------------
// Loading
// ---------------------------------------------------------------------------

// Default returns the configuration used when no .kalid.yaml exists.
func Default() *Config {
	return &Config{
		Locales: Locales{Source: "fa", Target: "en"},
		KeyGeneration: KeyGeneration{
			Strategy:   StrategyTransliterate,
			MaxLength:  50,
			UseContext: true,
		},
		FileProcessing:   FileProcessing{CreateBackups: true},
		TranslationFiles: TranslationFiles{Directory: "locales"},
	}
}

// Load reads .kalid.yaml from rootDir. A missing file yields the defaults;
// an unreadable or invalid file is an error.
func Load(rootDir string) (*Config, error) {
	path := filepath.Join(rootDir, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the configuration to rootDir.
func (c *Config) Save(rootDir string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	path := filepath.Join(rootDir, FileName)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// Validate checks locale codes, the strategy, and the length ceiling.
func (c *Config) Validate() error {
	for _, loc := range []string{c.Locales.Source, c.Locales.Target} {
		if loc == "" {
			return fmt.Errorf("locales.source and locales.target are required")
		}
		if _, err := language.Parse(loc); err != nil {
			return fmt.Errorf("invalid locale code %q: %w", loc, err)
		}
	}
	if c.KeyGeneration.Strategy != StrategyTransliterate {
		return fmt.Errorf("unknown key generation strategy %q", c.KeyGeneration.Strategy)
	}
	if c.KeyGeneration.MaxLength < 5 {
		return fmt.Errorf("key_generation.max_length %d is too small (minimum 5)", c.KeyGeneration.MaxLength)
	}
	if c.TranslationFiles.Directory == "" {
		return fmt.Errorf("translation_files.directory is required")
	}
	return nil
}

// StoreDir resolves the locale store directory against the project root.
func (c *Config) StoreDir(rootDir string) string {
	if filepath.IsAbs(c.TranslationFiles.Directory) {
		return c.TranslationFiles.Directory
	}
	return filepath.Join(rootDir, c.TranslationFiles.Directory)
}

package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// DefaultPageSize is the number of posts fetched per feed page.
const DefaultPageSize = 5

// Config represents the main configuration for feed.
type Config struct {
	BaseURL        string        `toml:"base_url"` // resource store endpoint, e.g. https://xyz.mockapi.io/api/v1
	BaseDir        string        `toml:"base_dir"`
	LogDir         string        `toml:"log_dir"`
	PageSize       int           `toml:"page_size"`
	AvatarEndpoint string        `toml:"avatar_endpoint,omitempty"`
	Session        SessionConfig `toml:"session"`
	Store          StoreConfig   `toml:"store"`
	Media          MediaConfig   `toml:"media"`
}

// SessionConfig represents configuration for the local session slot.
// This uses a tagged union pattern - the Type field determines which other fields are relevant.
type SessionConfig struct {
	Type    string `toml:"type"`               // "file" (default), "age" or "memory"
	Path    string `toml:"path,omitempty"`     // used for type=file and type=age
	KeyPath string `toml:"key_path,omitempty"` // age identity file, only used for type=age
}

// StoreConfig represents configuration for the local resource store served by `feed serve`.
// This uses a tagged union pattern - the Type field determines which other fields are relevant.
type StoreConfig struct {
	Type    string `toml:"type"`               // "sqlite", "postgres" or "memory"
	Listen  string `toml:"listen"`             // address for `feed serve`
	DataDir string `toml:"data_dir,omitempty"` // only used for type=sqlite
	DSN     string `toml:"dsn,omitempty"`      // only used for type=postgres
}

// MediaConfig represents configuration for post media uploads.
// This uses a tagged union pattern - the Type field determines which other fields are relevant.
type MediaConfig struct {
	Type string `toml:"type"` // "none" (default), "s3" or "memory"

	// S3-specific fields (only used when Type == "s3")
	S3Bucket   string `toml:"s3_bucket,omitempty"`
	S3Prefix   string `toml:"s3_prefix,omitempty"`
	S3Region   string `toml:"s3_region,omitempty"`
	S3Endpoint string `toml:"s3_endpoint,omitempty"` // optional, for S3-compatible services
}

// NewConfig creates a new Config with the provided values and default paths.
func NewConfig(baseURL, baseDir string) *Config {
	return &Config{
		BaseURL:  baseURL,
		BaseDir:  baseDir,
		LogDir:   filepath.Join(baseDir, "log"),
		PageSize: DefaultPageSize,
		Session: SessionConfig{
			Type: "file",
			Path: filepath.Join(baseDir, "session.json"),
		},
		Store: StoreConfig{
			Type:    "sqlite",
			Listen:  "127.0.0.1:8080",
			DataDir: filepath.Join(baseDir, "store"),
		},
		Media: MediaConfig{Type: "none"},
	}
}

// Manager handles reading and writing configuration.
type Manager struct{}

// Read decodes a Config from the provided reader.
func (m *Manager) Read(r io.Reader) (*Config, error) {
	var cfg Config
	if _, err := toml.NewDecoder(r).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = DefaultPageSize
	}
	return &cfg, nil
}

// Write encodes a Config to the provided writer.
func (m *Manager) Write(w io.Writer, cfg *Config) error {
	if err := toml.NewEncoder(w).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// ReadFromFile reads a Config from the specified file path.
func ReadFromFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	cfg, err := m.Read(f)
	if err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}
	return cfg, nil
}

// writeToFile writes a Config to the specified file path.
func writeToFile(path string, cfg *Config) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	if err := m.Write(f, cfg); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// Init initializes a new config file at the specified path with the provided Config.
func Init(path string, cfg *Config) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := writeToFile(path, cfg); err != nil {
		return fmt.Errorf("initializing config: %w", err)
	}
	return nil
}

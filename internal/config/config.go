// Package config provides configuration management for syntari-kerneld.
package config

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

// Config represents the service configuration.
type Config struct {
	Service  ServiceConfig  `toml:"service"`
	API      APIConfig      `toml:"api"`
	Fs       FsConfig       `toml:"fs"`
	Watcher  WatcherConfig  `toml:"watcher"`
	Pty      PtyConfig      `toml:"pty"`
	Ai       AiConfig       `toml:"ai"`
	Logging  LoggingConfig  `toml:"logging"`
	Security SecurityConfig `toml:"security"`
}

// ServiceConfig contains service-level settings.
type ServiceConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	DataDir         string `toml:"data_dir"`
	PIDFile         string `toml:"pid_file"`
	ShutdownTimeout int    `toml:"shutdown_timeout_seconds"`
	MaxRequestSize  int64  `toml:"max_request_size_bytes"`
}

// APIConfig contains API settings.
type APIConfig struct {
	Enabled        bool     `toml:"enabled"`
	APIKey         string   `toml:"api_key"`
	RateLimit      int      `toml:"rate_limit_per_minute"`
	AllowedOrigins []string `toml:"allowed_origins"`
	RequestTimeout int      `toml:"request_timeout_seconds"`
}

// FsConfig contains filesystem-engine settings: size thresholds and an
// extra skip list. They are checked by Validate only; the file I/O
// engine and scanner enforce their own fixed constants and skip list
// and do not read these fields.
type FsConfig struct {
	TooLargeBytes    int64    `toml:"too_large_bytes"`
	HexModeBytes     int64    `toml:"hex_mode_bytes"`
	WarnBytes        int64    `toml:"warn_bytes"`
	ChunkedScanCap   int      `toml:"chunked_scan_cap"`
	ExtraSkipNames   []string `toml:"extra_skip_names"`
}

// WatcherConfig contains filesystem-watcher settings. The buffer sizes
// size the watcher's event channels; the debounce fields are not read
// by the watcher, which uses fixed per-strategy debounce intervals.
type WatcherConfig struct {
	FullDebounceMs      int `toml:"full_debounce_ms"`
	SelectiveDebounceMs int `toml:"selective_debounce_ms"`
	HybridDebounceMs    int `toml:"hybrid_debounce_ms"`
	ChangeBufferSize    int `toml:"change_buffer_size"`
	DeleteBufferSize    int `toml:"delete_buffer_size"`
}

// PtyConfig contains PTY multiplexer settings.
type PtyConfig struct {
	DefaultCols     int `toml:"default_cols"`
	DefaultRows     int `toml:"default_rows"`
	ReaderChannelSize int `toml:"reader_channel_size"`
	FlushBytes      int `toml:"flush_bytes"`
	ForceFlushBytes int `toml:"force_flush_bytes"`
	FlushIntervalMs int `toml:"flush_interval_ms"`
}

// AiConfig contains the seeded AI provider table and MCP library-doc
// resolver settings.
type AiConfig struct {
	DefaultProvider string       `toml:"default_provider"`
	GeminiAPIKey    string       `toml:"gemini_api_key"`
	GeminiModel     string       `toml:"gemini_model"`
	MCPDocsEndpoint string       `toml:"mcp_docs_endpoint"`
	Providers       []AiProvider `toml:"providers"`
}

// AiProvider is one seeded entry in the AI providers collection.
type AiProvider struct {
	ID              string  `toml:"id"`
	Name            string  `toml:"name"`
	CostPerToken    float64 `toml:"cost_per_token"`
	LatencyMs       int     `toml:"latency_ms"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level      string      `toml:"level"`
	Format     string      `toml:"format"`
	Output     StringSlice `toml:"output"`
	TimeFormat string      `toml:"time_format"`
	MaxSizeMB  int         `toml:"max_size_mb"`
	MaxBackups int         `toml:"max_backups"`
	MaxAgeDays int         `toml:"max_age_days"`
	Compress   bool        `toml:"compress"`
}

// StringSlice is a custom type that can unmarshal from either a string or []string.
type StringSlice []string

// UnmarshalTOML implements toml.Unmarshaler for flexible config parsing.
func (s *StringSlice) UnmarshalTOML(data interface{}) error {
	switch v := data.(type) {
	case string:
		*s = []string{v}
	case []interface{}:
		result := make([]string, len(v))
		for i, item := range v {
			str, ok := item.(string)
			if !ok {
				return fmt.Errorf("expected string in array, got %T", item)
			}
			result[i] = str
		}
		*s = result
	default:
		return fmt.Errorf("expected string or array, got %T", data)
	}
	return nil
}

// SecurityConfig contains security settings.
type SecurityConfig struct {
	TLSEnabled  bool   `toml:"tls_enabled"`
	TLSCertFile string `toml:"tls_cert_file"`
	TLSKeyFile  string `toml:"tls_key_file"`
	CORSEnabled bool   `toml:"cors_enabled"`
}

// DefaultConfig returns the default configuration with all values set.
// Environment variables SYNTARI_HOST and SYNTARI_PORT can override defaults.
func DefaultConfig() *Config {
	dataDir := DefaultDataDir()

	host := "127.0.0.1"
	if envHost := os.Getenv("SYNTARI_HOST"); envHost != "" {
		host = envHost
	}

	port := 8420
	if envPort := os.Getenv("SYNTARI_PORT"); envPort != "" {
		if p, err := strconv.Atoi(envPort); err == nil {
			port = p
		}
	}

	return &Config{
		Service: ServiceConfig{
			Host:            host,
			Port:            port,
			DataDir:         dataDir,
			PIDFile:         filepath.Join(dataDir, "syntari-kerneld.pid"),
			ShutdownTimeout: 30,
			MaxRequestSize:  10 * 1024 * 1024,
		},
		API: APIConfig{
			Enabled:        true,
			APIKey:         "",
			RateLimit:      100,
			AllowedOrigins: []string{"http://localhost:*", "http://127.0.0.1:*"},
			RequestTimeout: 60,
		},
		Fs: FsConfig{
			TooLargeBytes:  256 * 1024 * 1024,
			HexModeBytes:   64 * 1024 * 1024,
			WarnBytes:      1 * 1024 * 1024,
			ChunkedScanCap: 100000,
			ExtraSkipNames: []string{},
		},
		Watcher: WatcherConfig{
			FullDebounceMs:      150,
			SelectiveDebounceMs: 150,
			HybridDebounceMs:    500,
			ChangeBufferSize:    1000,
			DeleteBufferSize:    256,
		},
		Pty: PtyConfig{
			DefaultCols:       100,
			DefaultRows:       30,
			ReaderChannelSize: 1000,
			FlushBytes:        32,
			ForceFlushBytes:   1024,
			FlushIntervalMs:   50,
		},
		Ai: AiConfig{
			DefaultProvider: "claude",
			GeminiAPIKey:    os.Getenv("GEMINI_API_KEY"),
			GeminiModel:     "gemini-1.5-flash",
			MCPDocsEndpoint: "",
			Providers: []AiProvider{
				{ID: "claude", Name: "Claude", CostPerToken: 0.000015, LatencyMs: 800},
				{ID: "gpt4-class", Name: "GPT-4-class", CostPerToken: 0.00003, LatencyMs: 1200},
				{ID: "gemini-class", Name: "Gemini-class", CostPerToken: 0.0000075, LatencyMs: 600},
			},
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "text",
			Output:     StringSlice{"file"},
			TimeFormat: "15:04:05.000",
			MaxSizeMB:  100,
			MaxBackups: 5,
			MaxAgeDays: 30,
			Compress:   true,
		},
		Security: SecurityConfig{
			TLSEnabled:  false,
			TLSCertFile: "",
			TLSKeyFile:  "",
			CORSEnabled: true,
		},
	}
}

// DefaultDataDir returns the default data directory based on OS.
func DefaultDataDir() string {
	switch runtime.GOOS {
	case "windows":
		appData := os.Getenv("APPDATA")
		if appData != "" {
			return filepath.Join(appData, "syntari-kerneld")
		}
		home, _ := os.UserHomeDir()
		return filepath.Join(home, "AppData", "Roaming", "syntari-kerneld")
	case "darwin":
		home, _ := os.UserHomeDir()
		return filepath.Join(home, "Library", "Application Support", "syntari-kerneld")
	default:
		xdgData := os.Getenv("XDG_DATA_HOME")
		if xdgData != "" {
			return filepath.Join(xdgData, "syntari-kerneld")
		}
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".syntari-kerneld")
	}
}

// DefaultConfigPath returns the default config file path.
func DefaultConfigPath() string {
	return filepath.Join(DefaultDataDir(), "config.toml")
}

// Load loads configuration from a file, merging with defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config file: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	if _, err := toml.Decode(expanded, cfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	cfg.expandPaths()

	return cfg, nil
}

// LoadFromString loads configuration from a TOML string, merging with defaults.
func LoadFromString(tomlStr string) (*Config, error) {
	cfg := DefaultConfig()

	expanded := os.ExpandEnv(tomlStr)

	if _, err := toml.Decode(expanded, cfg); err != nil {
		return nil, fmt.Errorf("parse config string: %w", err)
	}

	cfg.expandPaths()
	return cfg, nil
}

// expandPaths expands tilde in path fields.
func (c *Config) expandPaths() {
	home, _ := os.UserHomeDir()

	expandTilde := func(path string) string {
		if strings.HasPrefix(path, "~/") {
			return filepath.Join(home, path[2:])
		}
		return path
	}

	c.Service.DataDir = expandTilde(c.Service.DataDir)
	c.Service.PIDFile = expandTilde(c.Service.PIDFile)
	c.Security.TLSCertFile = expandTilde(c.Security.TLSCertFile)
	c.Security.TLSKeyFile = expandTilde(c.Security.TLSKeyFile)
}

// Save saves the configuration to a file in TOML format.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create config file: %w", err)
	}
	defer f.Close()

	encoder := toml.NewEncoder(f)
	if err := encoder.Encode(c); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	return nil
}

// WriteExampleConfig writes an example config file with comments.
func WriteExampleConfig(path string) error {
	example := `# syntari-kerneld configuration file
# All values shown are defaults - uncomment and modify as needed

[service]
host = "127.0.0.1"
port = 8420
# data_dir = "~/.syntari-kerneld"
# pid_file = "~/.syntari-kerneld/syntari-kerneld.pid"
shutdown_timeout_seconds = 30
max_request_size_bytes = 10485760

[api]
enabled = true
api_key = ""
rate_limit_per_minute = 100
allowed_origins = ["http://localhost:*", "http://127.0.0.1:*"]
request_timeout_seconds = 60

[fs]
too_large_bytes = 268435456
hex_mode_bytes = 67108864
warn_bytes = 1048576
chunked_scan_cap = 100000
extra_skip_names = []

[watcher]
full_debounce_ms = 150
selective_debounce_ms = 150
hybrid_debounce_ms = 500
change_buffer_size = 1000
delete_buffer_size = 256

[pty]
default_cols = 100
default_rows = 30
reader_channel_size = 1000
flush_bytes = 32
force_flush_bytes = 1024
flush_interval_ms = 50

[ai]
default_provider = "claude"
gemini_api_key = "${GEMINI_API_KEY}"
gemini_model = "gemini-1.5-flash"
mcp_docs_endpoint = ""

[[ai.providers]]
id = "claude"
name = "Claude"
cost_per_token = 0.000015
latency_ms = 800

[[ai.providers]]
id = "gpt4-class"
name = "GPT-4-class"
cost_per_token = 0.00003
latency_ms = 1200

[[ai.providers]]
id = "gemini-class"
name = "Gemini-class"
cost_per_token = 0.0000075
latency_ms = 600

[logging]
level = "info"
format = "text"
output = ["file"]
time_format = "15:04:05.000"
max_size_mb = 100
max_backups = 5
max_age_days = 30
compress = true

[security]
tls_enabled = false
# tls_cert_file = "/path/to/cert.pem"
# tls_key_file = "/path/to/key.pem"
cors_enabled = true
`

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	return os.WriteFile(path, []byte(example), 0644)
}

// Address returns the full address string for the HTTP server.
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Service.Host, c.Service.Port)
}

// ProjectsDir returns the path to the per-project data directory root.
func (c *Config) ProjectsDir() string {
	return filepath.Join(c.Service.DataDir, "data", "projects")
}

// RegistryPath returns the path to the project registry file.
func (c *Config) RegistryPath() string {
	return filepath.Join(c.Service.DataDir, "registry.json")
}

// LogPath returns the path to the service log file.
func (c *Config) LogPath() string {
	return filepath.Join(c.Service.DataDir, "logs", "syntari-kerneld.log")
}

// PIDPath returns the path to the PID file.
func (c *Config) PIDPath() string {
	if c.Service.PIDFile != "" {
		return c.Service.PIDFile
	}
	return filepath.Join(c.Service.DataDir, "syntari-kerneld.pid")
}

// EnsureDirectories creates all necessary directories.
func (c *Config) EnsureDirectories() error {
	dirs := []string{
		c.Service.DataDir,
		c.ProjectsDir(),
		filepath.Dir(c.LogPath()),
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}

	return nil
}

// ProjectHash generates a unique hash for a project path.
// Returns the first 16 characters of the SHA256 hash.
func ProjectHash(path string) string {
	absPath, err := filepath.Abs(path)
	if err != nil {
		absPath = path
	}
	absPath = filepath.Clean(absPath)

	h := sha256.Sum256([]byte(absPath))
	return hex.EncodeToString(h[:])[:16]
}

// ProjectDataDir returns the data directory for a specific project.
func (c *Config) ProjectDataDir(projectPath string) string {
	hash := ProjectHash(projectPath)
	return filepath.Join(c.ProjectsDir(), hash)
}

// Validate validates the configuration and returns any errors.
func (c *Config) Validate() error {
	if c.Service.Port < 1 || c.Service.Port > 65535 {
		return fmt.Errorf("invalid port: %d (must be 1-65535)", c.Service.Port)
	}

	if c.Service.ShutdownTimeout < 1 {
		return fmt.Errorf("shutdown_timeout_seconds must be at least 1")
	}

	if c.API.RateLimit < 0 {
		return fmt.Errorf("rate_limit_per_minute cannot be negative")
	}

	if c.Fs.TooLargeBytes <= c.Fs.HexModeBytes || c.Fs.HexModeBytes <= c.Fs.WarnBytes {
		return fmt.Errorf("fs size thresholds must satisfy warn < hex_mode < too_large")
	}

	if c.Security.TLSEnabled {
		if c.Security.TLSCertFile == "" || c.Security.TLSKeyFile == "" {
			return fmt.Errorf("TLS enabled but cert/key files not specified")
		}
	}

	return nil
}

// Clone creates a deep copy of the configuration.
func (c *Config) Clone() *Config {
	clone := *c

	clone.API.AllowedOrigins = make([]string, len(c.API.AllowedOrigins))
	copy(clone.API.AllowedOrigins, c.API.AllowedOrigins)

	clone.Fs.ExtraSkipNames = make([]string, len(c.Fs.ExtraSkipNames))
	copy(clone.Fs.ExtraSkipNames, c.Fs.ExtraSkipNames)

	clone.Ai.Providers = make([]AiProvider, len(c.Ai.Providers))
	copy(clone.Ai.Providers, c.Ai.Providers)

	clone.Logging.Output = make(StringSlice, len(c.Logging.Output))
	copy(clone.Logging.Output, c.Logging.Output)

	return &clone
}

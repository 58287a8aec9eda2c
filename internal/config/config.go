package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const envPrefix = "CHAPTERD_"

type Config struct {
	Port     int    `koanf:"port"`
	BindAddr string `koanf:"bind_addr"`

	// Auth; empty disables the bearer check.
	APIKey string `koanf:"api_key"`

	// CORS origins allowed to call the API (the editor's webview).
	AllowedOrigins []string `koanf:"allowed_origins"`

	// Request limits
	MaxBodyBytes int64 `koanf:"max_body_bytes"`

	// Project watched at startup; empty waits for the editor to choose.
	ProjectDir string `koanf:"project_dir"`
	Watch      bool   `koanf:"watch"`

	// Viewer used by export; empty uses the platform default.
	OpenCommand string `koanf:"open_command"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Port:           8765,
		BindAddr:       "127.0.0.1",
		AllowedOrigins: []string{"http://localhost:*", "http://127.0.0.1:*", "tauri://localhost"},
		MaxBodyBytes:   16 << 20, // 16MB
		Watch:          true,
	}
}

// Load reads defaults, then the YAML file at path if it exists, then
// CHAPTERD_* environment overrides (CHAPTERD_MAX_BODY_BYTES -> max_body_bytes,
// CHAPTERD_ALLOWED_ORIGINS=a,b -> allowed_origins: [a, b]).
func Load(path string) (Config, error) {
	cfg := Default()
	k := koanf.New(".")

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return cfg, fmt.Errorf("reading config %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return cfg, fmt.Errorf("accessing config %s: %w", path, err)
		}
	}

	if err := k.Load(env.ProviderWithValue(envPrefix, ".", envValue), nil); err != nil {
		return cfg, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", &cfg); err != nil {
		return cfg, fmt.Errorf("unmarshalling config: %w", err)
	}

	def := Default()
	if cfg.Port == 0 {
		cfg.Port = def.Port
	}
	if cfg.BindAddr == "" {
		cfg.BindAddr = def.BindAddr
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = def.MaxBodyBytes
	}
	if len(cfg.AllowedOrigins) == 0 {
		cfg.AllowedOrigins = def.AllowedOrigins
	}

	return cfg, nil
}

// envValue maps CHAPTERD_FOO_BAR to foo_bar. List keys take a
// comma-separated value.
func envValue(key, value string) (string, any) {
	key = strings.ToLower(strings.TrimPrefix(key, envPrefix))
	if _, ok := listKeys[key]; !ok {
		return key, value
	}
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return key, items
}

var listKeys = map[string]struct{}{
	"allowed_origins": {},
}

func (c Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Port)
	}
	if c.MaxBodyBytes <= 0 {
		return fmt.Errorf("max_body_bytes must be positive")
	}
	if c.ProjectDir != "" {
		info, err := os.Stat(c.ProjectDir)
		if err != nil || !info.IsDir() {
			return fmt.Errorf("project_dir %q is not a directory", c.ProjectDir)
		}
	}
	return nil
}

// Addr is the listen address for the HTTP server.
func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.BindAddr, c.Port)
}

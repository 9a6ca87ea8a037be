package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Client is the itera CLI configuration, usually ~/.config/itera/config.yaml.
type Client struct {
	Server  string        `yaml:"server"`
	DataDir string        `yaml:"data_dir"`
	Timeout time.Duration `yaml:"timeout"`
	Cache   CacheConfig   `yaml:"cache"`
}

// CacheConfig drives the offline response cache.
type CacheConfig struct {
	Version          string   `yaml:"version"`
	StaticPrefixes   []string `yaml:"static_prefixes"`
	StaticExtensions []string `yaml:"static_extensions"`
	Manifest         []string `yaml:"manifest"`
}

// DefaultClientPath is config.yaml under the user config directory.
func DefaultClientPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "itera.yaml"
	}
	return filepath.Join(dir, "itera", "config.yaml")
}

// LoadClient reads path. A missing file yields the defaults.
func LoadClient(path string) (*Client, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return ParseClient(nil)
	}
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	return ParseClient(data)
}

func ParseClient(data []byte) (*Client, error) {
	var cfg Client
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save writes the config back as YAML, creating parent directories.
func (c *Client) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("config: encode: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return os.WriteFile(path, data, 0o600)
}

func (c *Client) applyDefaults() {
	if c.Server == "" {
		c.Server = "http://localhost:8080"
	}
	c.Server = strings.TrimRight(c.Server, "/")
	if c.DataDir == "" {
		if dir, err := os.UserCacheDir(); err == nil {
			c.DataDir = filepath.Join(dir, "itera")
		} else {
			c.DataDir = ".itera"
		}
	}
	if c.Timeout == 0 {
		c.Timeout = 10 * time.Second
	}
	if c.Cache.Version == "" {
		c.Cache.Version = "v1"
	}
}

func (c *Client) validate() error {
	var errs []string
	u, err := url.Parse(c.Server)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		errs = append(errs, fmt.Sprintf("server %q must be an http(s) URL", c.Server))
	}
	if c.Timeout < 0 {
		errs = append(errs, "timeout cannot be negative")
	}
	for i, m := range c.Cache.Manifest {
		if !strings.HasPrefix(m, "/") {
			errs = append(errs, fmt.Sprintf("cache.manifest[%d] must be an absolute path", i))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

// Host is the server host the offline router treats as the API.
func (c *Client) Host() string {
	u, err := url.Parse(c.Server)
	if err != nil {
		return ""
	}
	return u.Host
}

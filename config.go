package shadowprobe

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all settings for the probe service. Zero values are
// filled by defaults(); a YAML file and CLI flags layer on top.
type Config struct {
	// AuthKey is the platform application key used for guest activation.
	AuthKey string `yaml:"auth_key"`

	// PoolSize is the fixed number of guest sessions warmed at startup.
	PoolSize int `yaml:"pool_size"`

	// CredentialTTL is how long a guest token is used before scheduled
	// renewal. The platform publishes no expiry; an hour is the derived
	// hint.
	CredentialTTL time.Duration `yaml:"credential_ttl"`

	// Host and Port form the HTTP listen address.
	Host string `yaml:"host"`
	Port int    `yaml:"port"`

	// CORSAllow, when set, is emitted as Access-Control-Allow-Origin.
	CORSAllow string `yaml:"cors_allow"`

	// LogFile and DebugFile are optional append-only log sinks. DebugFile
	// additionally lowers the captured level to Debug.
	LogFile   string `yaml:"log_file"`
	DebugFile string `yaml:"debug_file"`

	// InboundRPS/InboundBurst gate inbound requests per client address.
	// Zero RPS disables the middleware; outbound calls are never gated.
	InboundRPS   float64 `yaml:"inbound_rps"`
	InboundBurst int     `yaml:"inbound_burst"`

	// newTransport overrides transport construction, for tests.
	newTransport func() (transport, error)
	// sel overrides session selection, for tests.
	sel Selector
}

func (cfg *Config) defaults() {
	if cfg.AuthKey == "" {
		cfg.AuthKey = DefaultAuthKey
	}
	if cfg.PoolSize == 0 {
		cfg.PoolSize = 10
	}
	if cfg.CredentialTTL == 0 {
		cfg.CredentialTTL = time.Hour
	}
	if cfg.Host == "" {
		cfg.Host = "127.0.0.1"
	}
	if cfg.Port == 0 {
		cfg.Port = 8080
	}
	if cfg.InboundBurst == 0 {
		cfg.InboundBurst = 10
	}
	if cfg.newTransport == nil {
		cfg.newTransport = newStealthTransport
	}
}

func (cfg *Config) selector() Selector {
	if cfg.sel != nil {
		return cfg.sel
	}
	return randomSelector{}
}

// ListenAddr returns the host:port the HTTP server binds.
func (cfg Config) ListenAddr() string {
	return fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
}

// LoadConfig reads a YAML config file. A missing path yields the zero
// config so flags and defaults still apply.
func LoadConfig(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

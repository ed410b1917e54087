package config

import (
	"fmt"
	"net"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

// DefaultListen is the listen address used when the config file does not
// set one.
const DefaultListen = "[::1]:6543"

// roleARNRe matches the IAM role ARNs the exporter is willing to assume.
var roleARNRe = regexp.MustCompile(`^(?i:arn:aws:iam)::\d{12}:role/.+$`)

// Config is the top-level configuration for the exporter.
// Fields map 1:1 to config.example.yaml.
type Config struct {
	// Clusters is the list of ECS cluster names to scrape. At least one
	// is required; names are otherwise opaque to the exporter.
	Clusters []string `yaml:"clusters"`

	// Region overrides the AWS region resolved from the environment.
	Region string `yaml:"region"`

	// RoleARN is an optional IAM role the exporter assumes before calling
	// the ECS API.
	RoleARN string `yaml:"role_arn"`

	// Listen is the host:port the exposition endpoint binds to.
	Listen string `yaml:"listen"`

	// TLS holds optional serving certificates for the exposition endpoint.
	TLS TLSConfig `yaml:"tls"`
}

// TLSConfig enables TLS on the exposition listener when both files are set.
type TLSConfig struct {
	CertFile string `yaml:"cert_file"`
	KeyFile  string `yaml:"key_file"`
}

// Enabled reports whether TLS serving is configured.
func (t TLSConfig) Enabled() bool {
	return t.CertFile != "" && t.KeyFile != ""
}

// Load reads and parses the YAML config file at path.
// Missing optional fields are filled with sensible defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read file: %w", err)
	}

	cfg := defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse yaml: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	return cfg, nil
}

// defaults returns a Config pre-populated with default values.
func defaults() *Config {
	return &Config{
		Listen: DefaultListen,
	}
}

// validate checks required fields and structural constraints.
func validate(cfg *Config) error {
	if len(cfg.Clusters) == 0 {
		return fmt.Errorf("clusters: at least one cluster name is required")
	}
	for i, name := range cfg.Clusters {
		if name == "" {
			return fmt.Errorf("clusters[%d]: cluster name must not be empty", i)
		}
	}
	if cfg.RoleARN != "" && !roleARNRe.MatchString(cfg.RoleARN) {
		return fmt.Errorf("role_arn %q: must be of the form arn:aws:iam::123456789012:role/something", cfg.RoleARN)
	}
	if _, _, err := net.SplitHostPort(cfg.Listen); err != nil {
		return fmt.Errorf("listen %q: %w", cfg.Listen, err)
	}
	if (cfg.TLS.CertFile == "") != (cfg.TLS.KeyFile == "") {
		return fmt.Errorf("tls: cert_file and key_file must be set together")
	}
	return nil
}

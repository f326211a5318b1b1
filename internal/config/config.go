package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Default config file path.
const DefaultConfigPath = "~/.config/browserhunter/config.yaml"

// Config holds all BrowserHunter configuration.
type Config struct {
	General     GeneralConfig     `yaml:"general"`
	Analysis    AnalysisConfig    `yaml:"analysis"`
	Export      ExportConfig      `yaml:"export"`
	Intel       IntelConfig       `yaml:"intel"`
	Annotations AnnotationsConfig `yaml:"annotations"`
	Logging     LoggingConfig     `yaml:"logging"`
}

type GeneralConfig struct {
	Timezone     string `yaml:"timezone"`
	DefaultLimit int    `yaml:"default_limit"`
}

type AnalysisConfig struct {
	SessionGapMinutes int      `yaml:"session_gap_minutes"`
	TopDomainsLimit   int      `yaml:"top_domains_limit"`
	SensitiveDomains  []string `yaml:"sensitive_domains"`
}

type ExportConfig struct {
	Directory     string `yaml:"directory"`
	DefaultFormat string `yaml:"default_format"`
	ReportTitle   string `yaml:"report_title"`
}

type IntelConfig struct {
	VirusTotalAPIKey string `yaml:"virustotal_api_key"`
	Ip2WhoisAPIKey   string `yaml:"ip2whois_api_key"`
	TimeoutSeconds   int    `yaml:"timeout_seconds"`
}

type AnnotationsConfig struct {
	File string `yaml:"file"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// Load reads a YAML config file at path and merges it with defaults.
// Returns an error if the file cannot be read or contains invalid YAML.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	// A non-positive gap would collapse everything into one session.
	if cfg.Analysis.SessionGapMinutes <= 0 {
		cfg.Analysis.SessionGapMinutes = DefaultConfig().Analysis.SessionGapMinutes
	}

	return cfg, nil
}

// ExpandPath replaces a leading ~ with the user's home directory.
func ExpandPath(path string) (string, error) {
	if len(path) > 0 && path[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolving home directory: %w", err)
		}
		return filepath.Join(home, path[1:]), nil
	}
	return path, nil
}

// LoadOrCreate loads the config from the default path. If the file does
// not exist, it creates the directory structure and writes defaults.
func LoadOrCreate() (*Config, error) {
	path, err := ExpandPath(DefaultConfigPath)
	if err != nil {
		return nil, err
	}
	return LoadOrCreateAt(path)
}

// LoadOrCreateAt loads the config from the given path. If the file does
// not exist, it creates the directory structure and writes defaults.
func LoadOrCreateAt(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg := DefaultConfig()

		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating config directory: %w", err)
		}

		data, err := yaml.Marshal(cfg)
		if err != nil {
			return nil, fmt.Errorf("marshaling default config: %w", err)
		}

		if err := os.WriteFile(path, data, 0644); err != nil {
			return nil, fmt.Errorf("writing default config: %w", err)
		}

		return cfg, nil
	}

	return Load(path)
}

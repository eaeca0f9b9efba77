// Package config loads the tag pipeline configuration: which model to
// query, how to render, and which tags the processor should recognize.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/creasty/defaults"
	"gopkg.in/yaml.v3"
)

const (
	configDirName = "tagproc"
	defaultConfig = ".config"
)

var configFiles = []string{
	"config.yaml",
	"config.yml",
}

// Tag configures one tag the processor should handle.
type Tag struct {
	// Name is the tag name as it appears in the stream.
	Name string `yaml:"name"`
	// Style selects how the renderer treats the tag's content.
	Style string `yaml:"style" default:"text"`
	// Opaque marks the tag's content as not-markup for the renderer.
	Opaque bool `yaml:"opaque"`
}

// Render holds terminal rendering settings.
type Render struct {
	// Format is "auto", "markdown", or "plain".
	Format string `yaml:"format" default:"auto"`
	Wrap   int    `yaml:"wrap" default:"120"`
}

// Prompt is a predefined prompt that becomes a CLI subcommand.
type Prompt struct {
	Prompt string `yaml:"prompt"`
	Model  string `yaml:"model"`
}

// Config represents the structure of the configuration file.
type Config struct {
	Model     string            `yaml:"model" default:"claude-3.7-sonnet"`
	Render    Render            `yaml:"render"`
	Threshold int               `yaml:"threshold" default:"20"`
	Tags      []Tag             `yaml:"tags"`
	Prompts   map[string]Prompt `yaml:"prompts"`
}

// defaultTags is the tag set registered when the config names none.
func defaultTags() []Tag {
	return []Tag{
		{Name: "code", Style: "code", Opaque: true},
		{Name: "artifact", Style: "markdown"},
		{Name: "thinking", Style: "muted", Opaque: true},
	}
}

// newDefaultConfig creates a configuration with every default applied.
func newDefaultConfig() *Config {
	cfg := &Config{Prompts: map[string]Prompt{}}
	_ = defaults.Set(cfg)
	cfg.Tags = defaultTags()
	return cfg
}

// getConfigPath retrieves the configuration directory, honoring
// XDG_CONFIG_HOME before falling back to ~/.config.
func getConfigPath() (string, error) {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get user home directory: %w", err)
		}
		configHome = filepath.Join(home, defaultConfig)
	}

	return filepath.Join(configHome, configDirName), nil
}

// tryLoadConfig attempts to load a configuration file from path,
// filling unset fields with their defaults.
func tryLoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := &Config{Prompts: map[string]Prompt{}}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if err := defaults.Set(cfg); err != nil {
		return nil, fmt.Errorf("failed to apply config defaults: %w", err)
	}
	if len(cfg.Tags) == 0 {
		cfg.Tags = defaultTags()
	}

	return cfg, nil
}

// Load loads the configuration from the user's config directory,
// returning the default configuration when no file exists.
func Load() (*Config, error) {
	configDir, err := getConfigPath()
	if err != nil {
		return nil, fmt.Errorf("failed to get config path: %w", err)
	}

	if _, err := os.Stat(configDir); os.IsNotExist(err) {
		return newDefaultConfig(), nil
	}

	for _, filename := range configFiles {
		cfg, err := tryLoadConfig(filepath.Join(configDir, filename))
		if err == nil {
			return cfg, nil
		}
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to load config from %s: %w", filename, err)
		}
	}

	return newDefaultConfig(), nil
}

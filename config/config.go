// Package config loads the run configuration from a YAML file.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// LLMConfig selects the chat-completions server and models.
type LLMConfig struct {
	Endpoint  string `yaml:"endpoint"`
	Model     string `yaml:"model"`
	JSONModel string `yaml:"json_model"` // analyzer model; empty reuses Model
}

// MongoConfig locates the checkpoint collection.
type MongoConfig struct {
	URI        string `yaml:"uri"`
	Database   string `yaml:"database"`
	Collection string `yaml:"collection"`
}

// CheckpointConfig selects the checkpoint backend.
type CheckpointConfig struct {
	Backend string      `yaml:"backend"` // "file" or "mongo"
	Dir     string      `yaml:"dir"`     // file backend: directory for the JSON files
	Mongo   MongoConfig `yaml:"mongo"`
}

// Config is the full run configuration.
type Config struct {
	Categories      []string `yaml:"categories"`
	TrustedDomains  []string `yaml:"trusted_domains"`
	NewsPerCategory int      `yaml:"news_per_category"`
	MaxIterations   int      `yaml:"max_iterations"`
	MaxLookbackDays int      `yaml:"max_lookback_days"`
	ResultsPerQuery int      `yaml:"results_per_query"`

	InstrumentsFile string `yaml:"instruments_file"`
	PrinciplesFile  string `yaml:"principles_file"`

	LLM        LLMConfig        `yaml:"llm"`
	Checkpoint CheckpointConfig `yaml:"checkpoint"`
}

// Load reads and validates the configuration file, applying defaults for
// anything unset.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	cfg.applyDefaults()
	if len(cfg.Categories) == 0 {
		return Config{}, fmt.Errorf("config: categories must not be empty")
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.NewsPerCategory == 0 {
		c.NewsPerCategory = 5
	}
	if c.MaxIterations == 0 {
		c.MaxIterations = 3
	}
	if c.MaxLookbackDays == 0 {
		c.MaxLookbackDays = 7
	}
	if c.ResultsPerQuery == 0 {
		c.ResultsPerQuery = 20
	}
	if c.Checkpoint.Backend == "" {
		c.Checkpoint.Backend = "file"
	}
	if c.Checkpoint.Dir == "" {
		c.Checkpoint.Dir = "."
	}
	if c.LLM.Endpoint == "" {
		c.LLM.Endpoint = "https://api.openai.com"
	}
	if c.LLM.JSONModel == "" {
		c.LLM.JSONModel = c.LLM.Model
	}
}

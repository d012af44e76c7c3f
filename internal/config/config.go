package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/jakechorley/placement-allocator/pkg/core/matching"
)

const (
	configFileBase   = "placement_config"
	defaultHTTPAddr  = ":8080"
	defaultExportTab = "Allocations"
)

// Weights override the candidate-position scoring weights.
// Omitted fields keep their defaults.
type Weights struct {
	Resume            float64 `yaml:"resume" validate:"gte=0,lte=1"`
	GPAMax            float64 `yaml:"gpaMax" validate:"gte=0,lte=100"`
	ExperiencePerYear float64 `yaml:"experiencePerYear" validate:"gte=0,lte=100"`
	ExperienceMax     float64 `yaml:"experienceMax" validate:"gte=0,lte=100"`
	OverlapMax        float64 `yaml:"overlapMax" validate:"gte=0,lte=100"`
}

// Config represents the application configuration
type Config struct {
	DatabaseURL     string  `yaml:"databaseURL" validate:"required"`
	ResumeDir       string  `yaml:"resumeDir" validate:"required"`
	ExportSheetID   string  `yaml:"exportSheetID,omitempty"`
	ExportTab       string  `yaml:"exportTab,omitempty" validate:"required_with=ExportSheetID"`
	GmailUserID     string  `yaml:"gmailUserID,omitempty"`
	GmailSender     string  `yaml:"gmailSender,omitempty" validate:"omitempty,email"`
	OAuthClientFile string  `yaml:"oauthClientFile,omitempty"`
	HTTPAddr        string  `yaml:"httpAddr,omitempty" validate:"omitempty,hostname_port"`
	Weights         Weights `yaml:"weights"`
}

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Default returns a configuration with every optional field at its default
func Default() Config {
	w := matching.DefaultWeights()
	return Config{
		GmailUserID: "me",
		HTTPAddr:    defaultHTTPAddr,
		ExportTab:   defaultExportTab,
		Weights: Weights{
			Resume:            w.Resume,
			GPAMax:            w.GPAMax,
			ExperiencePerYear: w.ExperiencePerYear,
			ExperienceMax:     w.ExperienceMax,
			OverlapMax:        w.OverlapMax,
		},
	}
}

// MatchingWeights converts the configured weights for the scorer
func (c *Config) MatchingWeights() matching.Weights {
	return matching.Weights{
		Resume:            c.Weights.Resume,
		GPAMax:            c.Weights.GPAMax,
		ExperiencePerYear: c.Weights.ExperiencePerYear,
		ExperienceMax:     c.Weights.ExperienceMax,
		OverlapMax:        c.Weights.OverlapMax,
	}
}

// Load loads and validates the configuration from placement_config.yaml
// It looks for the config file in the current directory first, then in the user's home directory
func Load() (*Config, error) {
	return LoadWithEnv("")
}

// LoadWithEnv loads the configuration for an environment.
// For example, env="test" will look for "placement_config.test.yaml" before "placement_config.yaml".
func LoadWithEnv(env string) (*Config, error) {
	configPath, err := findFile(configFileBase, ".yaml", env)
	if err != nil {
		return nil, fmt.Errorf("failed to find config file: %w", err)
	}

	return LoadFromPath(configPath)
}

// LoadFromPath loads and validates the configuration from a specific path
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return Parse(data)
}

// Parse decodes YAML over the defaults and validates the result
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate validates the configuration struct
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	return nil
}

// findFile searches the current directory then the home directory for base+ext.
// An environment-specific base.<env>+ext wins over the shared file in each location.
func findFile(base, ext, env string) (string, error) {
	names := []string{base + ext}
	if env != "" {
		names = append([]string{base + "." + env + ext}, names...)
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	for _, dir := range []string{"", homeDir} {
		for _, name := range names {
			path := filepath.Join(dir, name)
			if _, err := os.Stat(path); err == nil {
				return path, nil
			}
		}
	}

	return "", fmt.Errorf("%s not found in current directory or home directory", strings.Join(names, " or "))
}

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Defaults fill the dimensions left blank in capacity rows and shape the
// manual demand group used when no demand data matches the run semester.
type Defaults struct {
	Program      string `yaml:"program" validate:"required"`
	StudentType  string `yaml:"studentType" validate:"required"`
	PracticeType string `yaml:"practiceType" validate:"required"`
	Semester     string `yaml:"semester" validate:"required"`
}

// Solver controls the assignment solve.
type Solver struct {
	TimeBudgetSeconds int `yaml:"timeBudgetSeconds,omitempty" validate:"omitempty,min=1"`
	MaxIterations     int `yaml:"maxIterations,omitempty" validate:"omitempty,min=1"`
}

// Config represents the application configuration
type Config struct {
	// Exactly one input source: a local workbook path or a Google Sheets
	// spreadsheet ID.
	WorkbookPath    string `yaml:"workbookPath,omitempty"`
	WorkbookSheetID string `yaml:"workbookSheetID,omitempty"`

	// OAuthClientPath points at the Google OAuth client file for the
	// spreadsheet source. When empty, modelo_oauth.<env>.json is discovered
	// next to the config file.
	OAuthClientPath string `yaml:"oauthClientPath,omitempty"`

	OutputPath    string   `yaml:"outputPath,omitempty"`
	WeightSet     string   `yaml:"weightSet" validate:"required"`
	TotalStudents int      `yaml:"totalStudents" validate:"required,min=1"`
	Defaults      Defaults `yaml:"defaults" validate:"required"`
	Solver        Solver   `yaml:"solver,omitempty"`
}

var validate *validator.Validate

// Semesters are written as year-period, e.g. 2025-1.
var semesterPattern = regexp.MustCompile(`^\d{4}-[12]$`)

func init() {
	validate = validator.New()
}

// LoadWithEnv loads and validates the configuration with an environment
// suffix. For example, env="test" will look for "modelo_config.test.yaml".
func LoadWithEnv(env string) (*Config, error) {
	configPath, err := findConfigFile(env)
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

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate validates the configuration struct, the input-source choice and
// the semester format
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	if cfg.WorkbookPath == "" && cfg.WorkbookSheetID == "" {
		return fmt.Errorf("config must set workbookPath or workbookSheetID")
	}
	if cfg.WorkbookPath != "" && cfg.WorkbookSheetID != "" {
		return fmt.Errorf("config must set only one of workbookPath and workbookSheetID")
	}

	if !semesterPattern.MatchString(cfg.Defaults.Semester) {
		return fmt.Errorf("invalid defaults.semester %q: expected year-period, e.g. 2025-1", cfg.Defaults.Semester)
	}

	return nil
}

// findConfigFile searches for the config file in current directory and home directory
// If env is provided, it adds it as an extension (e.g., "modelo_config.test.yaml")
func findConfigFile(env string) (string, error) {
	configFileName := "modelo_config.yaml"
	if env != "" {
		configFileName = "modelo_config." + env + ".yaml"
	}

	// Check current directory
	if _, err := os.Stat(configFileName); err == nil {
		return configFileName, nil
	}

	// Check home directory
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	homeConfigPath := filepath.Join(homeDir, configFileName)
	if _, err := os.Stat(homeConfigPath); err == nil {
		return homeConfigPath, nil
	}

	return "", fmt.Errorf("config file %s not found in current directory or home directory", configFileName)
}

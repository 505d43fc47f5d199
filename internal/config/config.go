package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Digital-Shane/entry-sift/internal/entry"
	"github.com/Digital-Shane/entry-sift/internal/listing"
	"github.com/go-playground/validator/v10"
)

// Config holds the user preferences that shape how listings are presented.
type Config struct {
	// DisplayName is the alternate-name label shown in the name column, or
	// "primary" for the file name itself. Name sorting follows it.
	DisplayName   string `json:"display_name" validate:"required"`
	SortKey       string `json:"sort_key" validate:"oneof=name reason size modified"`
	SortDirection string `json:"sort_direction" validate:"oneof=asc desc"`
	// SortLocale is a BCP 47 tag used to collate names. Empty means root collation.
	SortLocale string `json:"sort_locale" validate:"omitempty,bcp47_language_tag"`

	EnableLogging    bool `json:"enable_logging"`
	LogRetentionDays int  `json:"log_retention_days" validate:"gte=1,lte=3650"`
	DebugLog         bool `json:"debug_log"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		DisplayName:      entry.PrimaryLabel,
		SortKey:          string(listing.SortByName),
		SortDirection:    string(listing.Ascending),
		SortLocale:       "",
		EnableLogging:    true,
		LogRetentionDays: 30,
		DebugLog:         false,
	}
}

// Dir returns the directory holding the config file and logs
func Dir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".entry-sift"), nil
}

// ConfigPath returns the path to the config file
func ConfigPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads the configuration from disk
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFile(path)
}

// LoadFile reads the configuration at path. A missing file yields the
// defaults; missing fields are filled from the defaults.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Fill in any missing fields with defaults
	defaults := DefaultConfig()
	if cfg.DisplayName == "" {
		cfg.DisplayName = defaults.DisplayName
	}
	if cfg.SortKey == "" {
		cfg.SortKey = defaults.SortKey
	}
	if cfg.SortDirection == "" {
		cfg.SortDirection = defaults.SortDirection
	}
	if cfg.LogRetentionDays == 0 {
		cfg.LogRetentionDays = defaults.LogRetentionDays
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks every field against its allowed values.
func (cfg *Config) Validate() error {
	err := validate.Struct(cfg)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("failed to validate config: %w", err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s: invalid value %v (%s)", jsonName(fe.StructField()), fe.Value(), fe.Tag()))
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}

func jsonName(field string) string {
	switch field {
	case "DisplayName":
		return "display_name"
	case "SortKey":
		return "sort_key"
	case "SortDirection":
		return "sort_direction"
	case "SortLocale":
		return "sort_locale"
	case "LogRetentionDays":
		return "log_retention_days"
	}
	return field
}

// Save writes the configuration to disk
func (cfg *Config) Save() error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return cfg.SaveFile(path)
}

// SaveFile writes the configuration to path, creating its directory.
func (cfg *Config) SaveFile(path string) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// SortState returns the initial sort column and direction for a new session.
func (cfg *Config) SortState() (listing.SortState, error) {
	key, err := listing.ParseSortKey(cfg.SortKey)
	if err != nil {
		return listing.SortState{}, err
	}
	dir, err := listing.ParseSortDirection(cfg.SortDirection)
	if err != nil {
		return listing.SortState{}, err
	}
	return listing.SortState{Key: key, Direction: dir}, nil
}

// SortOptions returns the name sorting settings for a new session.
func (cfg *Config) SortOptions() listing.SortOptions {
	return listing.SortOptions{DisplayName: cfg.DisplayName, Locale: cfg.SortLocale}
}

// Fields lists the JSON names accepted by Set.
var Fields = []string{
	"display_name",
	"sort_key",
	"sort_direction",
	"sort_locale",
	"enable_logging",
	"log_retention_days",
	"debug_log",
}

// ErrUnknownField is wrapped by Set for names not in Fields.
var ErrUnknownField = errors.New("unknown config field")

// Set assigns one field by its JSON name, parsing value as needed.
func (cfg *Config) Set(field, value string) error {
	switch field {
	case "display_name":
		cfg.DisplayName = value
	case "sort_key":
		cfg.SortKey = value
	case "sort_direction":
		cfg.SortDirection = value
	case "sort_locale":
		cfg.SortLocale = value
	case "enable_logging", "debug_log":
		b, err := parseBool(value)
		if err != nil {
			return fmt.Errorf("invalid value for %s: %w", field, err)
		}
		if field == "enable_logging" {
			cfg.EnableLogging = b
		} else {
			cfg.DebugLog = b
		}
	case "log_retention_days":
		days, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("invalid value for %s: %w", field, err)
		}
		cfg.LogRetentionDays = days
	default:
		return fmt.Errorf("%w %q", ErrUnknownField, field)
	}
	return cfg.Validate()
}

func parseBool(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "yes", "on", "1":
		return true, nil
	case "false", "no", "off", "0":
		return false, nil
	}
	return false, fmt.Errorf("%q is not a boolean", s)
}

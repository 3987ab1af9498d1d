// Package config loads and validates the filter-set server configuration
// from a TOML file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
)

// AuthConfig holds authentication-related configuration.
type AuthConfig struct {
	JWTSigningSecret string `toml:"jwt_signing_secret"` // HMAC secret for bearer tokens
	TokenValidity    string `toml:"token_validity"`     // Default validity for issued tokens
	TestUserToken    string `toml:"-"`                  // Static token honored in test mode
	TestUserID       int64  `toml:"-"`                  // User id the test token resolves to
}

// GetTokenValidity returns the default token validity as time.Duration.
func (a *AuthConfig) GetTokenValidity() (time.Duration, error) {
	return ParseDuration(a.TokenValidity)
}

// GetTokenValidityOrDefault returns the default token validity or panics if
// the configured value is invalid.
func (a *AuthConfig) GetTokenValidityOrDefault() time.Duration {
	d, err := a.GetTokenValidity()
	if err != nil {
		panic(fmt.Sprintf("invalid token validity: %v", err))
	}
	return d
}

// ConfigParam holds all configuration parameters for the filter-set service.
type ConfigParam struct {
	FormatVersion string `toml:"format_version"` // Version of this configuration file format

	// Server configuration
	ServerHostName     string   `toml:"server_hostname"`       // Hostname for the server
	ServerPort         string   `toml:"server_port"`           // Port for the server
	HandleCORS         bool     `toml:"handle_cors"`           // Whether to handle CORS
	CORSAllowedOrigins []string `toml:"cors_allowed_origins"`  // Origins allowed when CORS is on
	MaxRequestBodySize int64    `toml:"max_request_body_size"` // Maximum size of request body in bytes
	RequestTimeout     string   `toml:"request_timeout"`       // Per-request handling deadline

	// Auth configuration
	Auth AuthConfig `toml:"auth"`

	// Database configuration
	DB struct {
		Host     string `toml:"host"`
		Port     int    `toml:"port"`
		DBName   string `toml:"dbname"`
		User     string `toml:"user"`
		Password string `toml:"password"`
		SSLMode  string `toml:"sslmode"`
	} `toml:"db"`
}

var cfg *ConfigParam

// Config returns the current configuration.
func Config() *ConfigParam {
	return cfg
}

// DSN returns the database connection string.
func (c *ConfigParam) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.DB.Host, c.DB.Port, c.DB.User, c.DB.Password, c.DB.DBName, c.DB.SSLMode)
}

// FilterSetDSN returns the DSN for the filter-set database.
func FilterSetDSN() string {
	return cfg.DSN()
}

// GetRequestTimeout returns the per-request deadline, defaulting to 30s when
// unset.
func (c *ConfigParam) GetRequestTimeout() time.Duration {
	if c.RequestTimeout == "" {
		return 30 * time.Second
	}
	d, err := time.ParseDuration(c.RequestTimeout)
	if err != nil {
		panic(fmt.Sprintf("invalid request_timeout: %v", err))
	}
	return d
}

// ParseDuration parses a duration string in the format "<number><unit>" where
// unit is one of y, d, h, m.
func ParseDuration(input string) (time.Duration, error) {
	if len(input) < 2 {
		return 0, fmt.Errorf("invalid input format")
	}

	unit := input[len(input)-1:]
	valueStr := input[:len(input)-1]
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return 0, fmt.Errorf("invalid number: %s", err)
	}

	var duration time.Duration
	switch unit {
	case "d":
		duration = time.Duration(value) * 24 * time.Hour
	case "h":
		duration = time.Duration(value) * time.Hour
	case "m":
		duration = time.Duration(value) * time.Minute
	case "y":
		duration = time.Duration(value) * 365 * 24 * time.Hour
	default:
		return 0, fmt.Errorf("unknown time unit: %s", unit)
	}

	return duration, nil
}

// ValidateConfig checks that all required configuration values are present
// and valid.
func ValidateConfig(cfg *ConfigParam) error {
	if cfg.FormatVersion != Version {
		return fmt.Errorf("unsupported config file format version: %s", cfg.FormatVersion)
	}
	if cfg.ServerPort == "" {
		return fmt.Errorf("server_port is required")
	}
	if cfg.RequestTimeout != "" {
		if _, err := time.ParseDuration(cfg.RequestTimeout); err != nil {
			return fmt.Errorf("invalid request_timeout: %v", err)
		}
	}
	if err := validateAuthConfig(cfg); err != nil {
		return err
	}
	return validateDBConfig(cfg)
}

func validateAuthConfig(cfg *ConfigParam) error {
	if cfg.Auth.TokenValidity == "" {
		return fmt.Errorf("auth.token_validity is required")
	}
	if _, err := ParseDuration(cfg.Auth.TokenValidity); err != nil {
		return fmt.Errorf("invalid auth.token_validity: %v", err)
	}
	cfg.Auth.TestUserToken = "test-user-token"
	cfg.Auth.TestUserID = 1
	return nil
}

func validateDBConfig(cfg *ConfigParam) error {
	if cfg.DB.Host == "" {
		return fmt.Errorf("db.host is required")
	}
	if cfg.DB.Port <= 0 {
		return fmt.Errorf("db.port must be positive")
	}
	if cfg.DB.DBName == "" {
		return fmt.Errorf("db.dbname is required")
	}
	if cfg.DB.User == "" {
		return fmt.Errorf("db.user is required")
	}
	if cfg.DB.Password == "" {
		return fmt.Errorf("db.password is required")
	}
	if cfg.DB.SSLMode == "" {
		return fmt.Errorf("db.sslmode is required")
	}
	return nil
}

// LoadConfig loads configuration from a TOML file.
func LoadConfig(filename string) error {
	if filename == "" {
		return fmt.Errorf("config filename is required")
	}

	content, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("error reading config file: %v", err)
	}

	cfg = &ConfigParam{}
	if _, err := toml.Decode(string(content), cfg); err != nil {
		return fmt.Errorf("error parsing config file: %v", err)
	}

	if err := ValidateConfig(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %v", err)
	}

	// Fall back to a static secret for eval setups. Anything beyond local
	// evaluation should set a real secret in the config file.
	if cfg.Auth.JWTSigningSecret == "" {
		cfg.Auth.JWTSigningSecret = "filtersetsrv.vizstack.io"
	}

	return nil
}

var isTest = false

// IsTest reports whether the service is running in test mode.
func IsTest() bool {
	return isTest
}

// SetTestMode toggles test mode.
func SetTestMode(test bool) {
	isTest = test
}

// TestInit loads the configuration from the module root for tests.
func TestInit() {
	isTest = true
	wd, err := os.Getwd()
	if err != nil {
		panic(err)
	}

	projectRoot := wd
	for {
		if _, err := os.Stat(filepath.Join(projectRoot, "go.mod")); err == nil {
			break
		}
		parent := filepath.Dir(projectRoot)
		if parent == projectRoot {
			panic("could not find project root (go.mod)")
		}
		projectRoot = parent
	}
	if err := LoadConfig(filepath.Join(projectRoot, "filtersetsrv.conf")); err != nil {
		panic(fmt.Errorf("error loading config: %v", err))
	}
}

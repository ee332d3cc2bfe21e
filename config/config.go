package config

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

const (
	KeyUserID                = "user_id"
	KeyInputDir              = "input_dir"
	KeyDryRun                = "dry_run"
	KeyImportBaseRateLimit   = "import.base_rate_limit"
	KeyImportSheetName       = "import.sheet_name"
	KeyImportDateRowFallback = "import.date_row_fallback"
	KeyImportExtensions      = "import.extensions"
	KeySinkBackend           = "sink.backend"
	KeySinkCollection        = "sink.collection"
	KeySinkSQLitePath        = "sink.sqlite_path"
	KeySinkPostgresDSN       = "sink.postgres_dsn"
	KeySinkRedisAddr         = "sink.redis_addr"
	KeySinkRedisPassword     = "sink.redis_password"
	KeySinkRedisDB           = "sink.redis_db"
	KeyLogLevel              = "log.level"
	KeyLogFormat             = "log.format"

	// EnvPrefix namespaces environment overrides, e.g. TSIMPORT_SINK_BACKEND.
	EnvPrefix = "TSIMPORT"
)

var identifierPattern = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

type Config struct {
	UserID   string       `mapstructure:"user_id" validate:"required"`
	InputDir string       `mapstructure:"input_dir" validate:"required"`
	DryRun   bool         `mapstructure:"dry_run"`
	Import   ImportConfig `mapstructure:"import"`
	Sink     SinkConfig   `mapstructure:"sink"`
	Log      LogConfig    `mapstructure:"log"`
}

type ImportConfig struct {
	BaseRateLimit   float64  `mapstructure:"base_rate_limit" validate:"gt=0"`
	SheetName       string   `mapstructure:"sheet_name" validate:"required"`
	DateRowFallback bool     `mapstructure:"date_row_fallback"`
	Extensions      []string `mapstructure:"extensions" validate:"min=1,dive,required"`
}

type SinkConfig struct {
	Backend       string `mapstructure:"backend" validate:"oneof=sqlite postgres redis"`
	Collection    string `mapstructure:"collection" validate:"required,identifier"`
	SQLitePath    string `mapstructure:"sqlite_path" validate:"required_if=Backend sqlite"`
	PostgresDSN   string `mapstructure:"postgres_dsn" validate:"required_if=Backend postgres"`
	RedisAddr     string `mapstructure:"redis_addr" validate:"required_if=Backend redis"`
	RedisPassword string `mapstructure:"redis_password"`
	RedisDB       int    `mapstructure:"redis_db" validate:"gte=0"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" validate:"omitempty,oneof=trace debug info warn warning error disabled off"`
	Format string `mapstructure:"format" validate:"omitempty,oneof=console json"`
}

// SetDefaults sets default values if not provided
func SetDefaults() {
	setDefaults(viper.GetViper())
}

// Load reads the current Viper state without validating it, so command
// flags can fill in required values first.
func Load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	return &cfg, nil
}

// LoadAndValidate loads config from Viper and validates it
func LoadAndValidate() (*Config, error) {
	return loadAndValidateFromViper(viper.GetViper())
}

// ValidateYAMLContent validates configuration from raw YAML content.
func ValidateYAMLContent(content []byte) (*Config, error) {
	cfg, err := ParseYAMLContent(content)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ParseYAMLContent applies defaults to raw YAML content without validating
// it, for files that still lack values supplied by flags at import time.
func ParseYAMLContent(content []byte) (*Config, error) {
	local := viper.New()
	setDefaults(local)
	local.SetConfigType("yaml")
	if err := local.ReadConfig(bytes.NewReader(content)); err != nil {
		return nil, fmt.Errorf("read config content: %w", err)
	}
	var cfg Config
	if err := local.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	return &cfg, nil
}

// Validate checks field constraints.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.RegisterValidation("identifier", isIdentifier); err != nil {
		return fmt.Errorf("register validation: %w", err)
	}
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	return nil
}

// Example holds the values a new configuration file is pre-filled with.
// Empty fields keep the template defaults.
type Example struct {
	UserID   string
	InputDir string
	Backend  string
}

// ExampleYAML returns the default configuration template.
func ExampleYAML() string {
	return ExampleYAMLFor(Example{})
}

// ExampleYAMLFor renders the configuration template with the given values.
func ExampleYAMLFor(values Example) string {
	backend := strings.TrimSpace(values.Backend)
	if backend == "" {
		backend = "sqlite"
	}
	return fmt.Sprintf(`# tsimport configuration
user_id: %q
input_dir: %q
# Parse and report only; set to false to write to the sink.
dry_run: true

import:
  base_rate_limit: 37.5
  sheet_name: "Timesheet"
  # Anchor the week on the in-sheet date row when the file name has no date.
  date_row_fallback: false
  extensions: [".xlsx", ".xlsm", ".csv"]

sink:
  backend: %s # sqlite | postgres | redis
  collection: timesheets
  sqlite_path: "./tsimport.db"
  postgres_dsn: ""
  redis_addr: "localhost:6379"
  redis_password: ""
  redis_db: 0

log:
  level: info
  format: console # console | json
`, strings.TrimSpace(values.UserID), strings.TrimSpace(values.InputDir), backend)
}

func loadAndValidateFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(KeyUserID, "")
	v.SetDefault(KeyInputDir, "")
	v.SetDefault(KeyDryRun, true)
	v.SetDefault(KeyImportBaseRateLimit, 37.5)
	v.SetDefault(KeyImportSheetName, "Timesheet")
	v.SetDefault(KeyImportDateRowFallback, false)
	v.SetDefault(KeyImportExtensions, []string{".xlsx", ".xlsm", ".csv"})
	v.SetDefault(KeySinkBackend, "sqlite")
	v.SetDefault(KeySinkCollection, "timesheets")
	v.SetDefault(KeySinkSQLitePath, "./tsimport.db")
	v.SetDefault(KeySinkPostgresDSN, "")
	v.SetDefault(KeySinkRedisAddr, "localhost:6379")
	v.SetDefault(KeySinkRedisPassword, "")
	v.SetDefault(KeySinkRedisDB, 0)
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, "console")
}

func isIdentifier(fl validator.FieldLevel) bool {
	return identifierPattern.MatchString(fl.Field().String())
}

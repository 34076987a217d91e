// Package config loads avisos settings from defaults, an optional YAML file
// and AVISOS_* environment variables, and validates the result.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/cyberpills/avisos/internal/contacts"
	"github.com/cyberpills/avisos/internal/typos"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	KeyScheduleFile    = "files.schedule"
	KeyContactsFile    = "files.contacts"
	KeyOutputFile      = "files.output"
	KeyEngine          = "extract.engine"
	KeyFirstNameColumn = "contacts.first_name_column"
	KeyLastNameColumn  = "contacts.last_name_column"
	KeyPhoneticColumn  = "contacts.phonetic_column"
	KeyEmailHeader     = "contacts.email_header"
	KeyTyposExtra      = "typos.extra"
	KeySnapshotDir     = "snapshot.dir"
	KeyLogLevel        = "log.level"

	EnvPrefix  = "AVISOS"
	ConfigName = ".avisos"
)

type Config struct {
	Files    FilesConfig    `mapstructure:"files" yaml:"files"`
	Extract  ExtractConfig  `mapstructure:"extract" yaml:"extract"`
	Contacts ContactsConfig `mapstructure:"contacts" yaml:"contacts"`
	Typos    TyposConfig    `mapstructure:"typos" yaml:"typos"`
	Snapshot SnapshotConfig `mapstructure:"snapshot" yaml:"snapshot"`
	Log      LogConfig      `mapstructure:"log" yaml:"log"`

	// Runtime-only: the config file that was read, if any.
	Source string `mapstructure:"-" yaml:"-"`
}

type FilesConfig struct {
	Schedule string `mapstructure:"schedule" yaml:"schedule" validate:"required"`
	Contacts string `mapstructure:"contacts" yaml:"contacts" validate:"required"`
	Output   string `mapstructure:"output" yaml:"output" validate:"required"`
}

type ExtractConfig struct {
	Engine string `mapstructure:"engine" yaml:"engine" validate:"required,oneof=dom regex"`
}

type ContactsConfig struct {
	FirstNameColumn int    `mapstructure:"first_name_column" yaml:"first_name_column" validate:"gte=0"`
	LastNameColumn  int    `mapstructure:"last_name_column" yaml:"last_name_column" validate:"gte=0"`
	PhoneticColumn  int    `mapstructure:"phonetic_column" yaml:"phonetic_column" validate:"gte=0"`
	EmailHeader     string `mapstructure:"email_header" yaml:"email_header" validate:"required"`
}

type TyposConfig struct {
	Extra []typos.Replacement `mapstructure:"extra" yaml:"extra" validate:"dive"`
}

type SnapshotConfig struct {
	Dir string `mapstructure:"dir" yaml:"dir,omitempty"`
}

type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level" validate:"omitempty,oneof=DEBUG INFO WARN ERROR debug info warn error"`
}

// Columns returns the contacts column layout.
func (c *Config) Columns() contacts.Columns {
	return contacts.Columns{
		FirstName:   c.Contacts.FirstNameColumn,
		LastName:    c.Contacts.LastNameColumn,
		Phonetic:    c.Contacts.PhoneticColumn,
		EmailHeader: c.Contacts.EmailHeader,
	}
}

// YAML renders the effective configuration.
func (c *Config) YAML() (string, error) {
	out, err := yaml.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("encode config: %w", err)
	}
	return string(out), nil
}

// SetDefaults sets default values if not provided
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyScheduleFile, "index.html")
	v.SetDefault(KeyContactsFile, "contactos_profesores.csv")
	v.SetDefault(KeyOutputFile, "index_avisos.html")
	v.SetDefault(KeyEngine, "dom")
	v.SetDefault(KeyFirstNameColumn, contacts.DefaultColumns.FirstName)
	v.SetDefault(KeyLastNameColumn, contacts.DefaultColumns.LastName)
	v.SetDefault(KeyPhoneticColumn, contacts.DefaultColumns.Phonetic)
	v.SetDefault(KeyEmailHeader, contacts.EmailHeader)
	v.SetDefault(KeyTyposExtra, []map[string]any{})
	v.SetDefault(KeySnapshotDir, "")
	v.SetDefault(KeyLogLevel, "INFO")
}

// NewViper returns a viper instance with defaults and env binding applied.
func NewViper() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads configFile, or discovers .avisos.yaml in $HOME and the working
// directory when configFile is empty, and validates the result. A missing
// discovered file is not an error.
func Load(configFile string) (*Config, error) {
	v := NewViper()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", configFile, err)
		}
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.AddConfigPath(".")
		v.SetConfigType("yaml")
		v.SetConfigName(ConfigName)

		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	cfg, err := loadAndValidateFromViper(v)
	if err != nil {
		return nil, err
	}
	cfg.Source = v.ConfigFileUsed()
	return cfg, nil
}

// ValidateYAMLContent validates configuration from raw YAML content.
func ValidateYAMLContent(content []byte) (*Config, error) {
	v := NewViper()
	v.SetConfigType("yaml")
	if err := v.ReadConfig(bytes.NewReader(content)); err != nil {
		return nil, fmt.Errorf("read config content: %w", err)
	}
	return loadAndValidateFromViper(v)
}

// ExampleYAML returns the default configuration template.
func ExampleYAML() string {
	return `# avisos configuration
files:
  schedule: "index.html"
  contacts: "contactos_profesores.csv"
  output: "index_avisos.html"

extract:
  # dom (parsed document) or regex (marker splitting)
  engine: "dom"

contacts:
  first_name_column: 0
  last_name_column: 2
  phonetic_column: 3
  email_header: "E-mail 1 - Value"

typos:
  extra: []
  # - old: "Ciberseguridad_ claves"
  #   new: "Ciberseguridad: claves"

snapshot:
  dir: ""

log:
  level: "INFO"
`
}

func loadAndValidateFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	cfg.Extract.Engine = strings.ToLower(strings.TrimSpace(cfg.Extract.Engine))

	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	return &cfg, nil
}

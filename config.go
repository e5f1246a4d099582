package pname

import (
	"fmt"

	"github.com/jackc/pgx/v5"
)

// Config is the base configuration used by library mode via NewProcessor().
type Config struct {
	Policy        string     `json:"policy" yaml:"policy"`
	MaxNameLength int        `json:"max_name_length" yaml:"max_name_length"`
	MaxSortNames  int        `json:"max_sort_names" yaml:"max_sort_names"`
	Hints         []HintRule `json:"hints" yaml:"hints"`

	// DisableDefaultHints drops the built-in hint rules; only Hints apply.
	DisableDefaultHints bool `json:"disable_default_hints" yaml:"disable_default_hints"`
}

// ServerConfig embeds Config and adds server-only fields for CLI mode.
type ServerConfig struct {
	Config     `yaml:",inline"`
	Connection ConnectionConfig `json:"connection" yaml:"connection"`
	Schema     SchemaConfig     `json:"schema" yaml:"schema"`
	Server     ServerSettings   `json:"server" yaml:"server"`
	Logging    LoggingConfig    `json:"logging" yaml:"logging"`
}

// ConnectionConfig holds database connection parameters used by CLI mode.
type ConnectionConfig struct {
	Host    string `json:"host" yaml:"host"`
	Port    int    `json:"port" yaml:"port"`
	DBName  string `json:"dbname" yaml:"dbname"`
	SSLMode string `json:"sslmode" yaml:"sslmode"`
}

// SchemaConfig names the SQL objects the installer creates.
type SchemaConfig struct {
	Schema                string `json:"schema" yaml:"schema"`       // default "public"
	TypeName              string `json:"type_name" yaml:"type_name"` // default "personname"
	InstallTimeoutSeconds int    `json:"install_timeout_seconds" yaml:"install_timeout_seconds"`
}

// ServerSettings holds HTTP server settings for CLI mode.
type ServerSettings struct {
	Port               int    `json:"port" yaml:"port"`
	HealthCheckEnabled bool   `json:"health_check_enabled" yaml:"health_check_enabled"`
	HealthCheckPath    string `json:"health_check_path" yaml:"health_check_path"`
}

// LoggingConfig holds logging settings for CLI mode.
type LoggingConfig struct {
	Level  string `json:"level" yaml:"level"`   // debug, info, warn, error
	Format string `json:"format" yaml:"format"` // json, text
	Output string `json:"output" yaml:"output"` // stdout, stderr, or file path
}

// HintRule maps an error message pattern to a guidance message.
type HintRule struct {
	Pattern string `json:"pattern" yaml:"pattern"`
	Message string `json:"message" yaml:"message"`
}

const (
	defaultMaxNameLength         = 1000
	defaultMaxSortNames          = 10000
	defaultSchema                = "public"
	defaultTypeName              = "personname"
	defaultInstallTimeoutSeconds = 30
)

func (c SchemaConfig) withDefaults() SchemaConfig {
	if c.Schema == "" {
		c.Schema = defaultSchema
	}
	if c.TypeName == "" {
		c.TypeName = defaultTypeName
	}
	if c.InstallTimeoutSeconds == 0 {
		c.InstallTimeoutSeconds = defaultInstallTimeoutSeconds
	}
	return c
}

// qualifiedType returns the quoted schema-qualified type name.
func (c SchemaConfig) qualifiedType() string {
	return pgx.Identifier{c.Schema, c.TypeName}.Sanitize()
}

func (c SchemaConfig) qualifiedFunc(name string) string {
	return pgx.Identifier{c.Schema, name}.Sanitize()
}

// normalizeFunc names the text-to-domain conversion, e.g. "public"."to_personname".
func (c SchemaConfig) normalizeFunc() string {
	return c.qualifiedFunc("to_" + c.TypeName)
}

func (c SchemaConfig) validate() error {
	if c.InstallTimeoutSeconds < 0 {
		return fmt.Errorf("schema.install_timeout_seconds must be >= 0")
	}
	return nil
}

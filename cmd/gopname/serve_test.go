package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	pname "github.com/rickchristie/postgres-pname"
)

// validServerConfig returns a minimal valid ServerConfig for testing.
func validServerConfig() pname.ServerConfig {
	return pname.ServerConfig{
		Config: pname.Config{
			Policy:        "structural",
			MaxNameLength: 200,
			Hints: []pname.HintRule{
				{Pattern: "missing comma", Message: "Use the directory form."},
			},
		},
		Server: pname.ServerSettings{
			Port: 8080,
		},
		Connection: pname.ConnectionConfig{
			Host:   "localhost",
			Port:   5432,
			DBName: "testdb",
		},
		Schema: pname.SchemaConfig{
			Schema:   "names",
			TypeName: "author_name",
		},
	}
}

func writeConfigFile(t *testing.T, dir string, config pname.ServerConfig) string {
	t.Helper()
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		t.Fatalf("failed to marshal config: %v", err)
	}
	path := filepath.Join(dir, "config.json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return path
}

func writeYAMLConfigFile(t *testing.T, dir string, config pname.ServerConfig) string {
	t.Helper()
	data, err := yaml.Marshal(config)
	if err != nil {
		t.Fatalf("failed to marshal config: %v", err)
	}
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return path
}

// Note: Tests using t.Setenv() cannot use t.Parallel() in Go.

func TestLoadConfigValid(t *testing.T) {
	dir := t.TempDir()
	path := writeConfigFile(t, dir, validServerConfig())

	t.Setenv("GOPNAME_CONFIG_PATH", path)

	loaded, err := loadServerConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if loaded.Server.Port != 8080 {
		t.Fatalf("expected port 8080, got %d", loaded.Server.Port)
	}
	if loaded.Policy != "structural" {
		t.Fatalf("expected policy 'structural', got %q", loaded.Policy)
	}
	if loaded.MaxNameLength != 200 {
		t.Fatalf("expected max_name_length 200, got %d", loaded.MaxNameLength)
	}
	if len(loaded.Hints) != 1 || loaded.Hints[0].Pattern != "missing comma" {
		t.Fatalf("unexpected hints: %+v", loaded.Hints)
	}
	if loaded.Schema.TypeName != "author_name" {
		t.Fatalf("expected type_name 'author_name', got %q", loaded.Schema.TypeName)
	}
	if loaded.Connection.DBName != "testdb" {
		t.Fatalf("expected dbname 'testdb', got %q", loaded.Connection.DBName)
	}
}

func TestLoadConfigYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeYAMLConfigFile(t, dir, validServerConfig())

	t.Setenv("GOPNAME_CONFIG_PATH", path)

	loaded, err := loadServerConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if loaded.Policy != "structural" {
		t.Fatalf("expected inline policy 'structural', got %q", loaded.Policy)
	}
	if loaded.Schema.Schema != "names" || loaded.Server.Port != 8080 {
		t.Fatalf("unexpected config: %+v", loaded)
	}
}

func TestLoadConfigYAML_Handwritten(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")
	content := `policy: structural_strict
max_sort_names: 50
hints:
  - pattern: "shorter than"
    message: "No initials."
server:
  port: 9090
  health_check_enabled: true
  health_check_path: /healthz
logging:
  level: debug
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	t.Setenv("GOPNAME_CONFIG_PATH", path)

	loaded, err := loadServerConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if loaded.Policy != "structural_strict" || loaded.MaxSortNames != 50 {
		t.Fatalf("unexpected names config: %+v", loaded.Config)
	}
	if len(loaded.Hints) != 1 || loaded.Hints[0].Message != "No initials." {
		t.Fatalf("unexpected hints: %+v", loaded.Hints)
	}
	if loaded.Server.HealthCheckPath != "/healthz" || loaded.Logging.Level != "debug" {
		t.Fatalf("unexpected server/logging config: %+v %+v", loaded.Server, loaded.Logging)
	}
}

func TestLoadConfigMissing(t *testing.T) {
	t.Setenv("GOPNAME_CONFIG_PATH", "/nonexistent/path/config.json")

	_, err := loadServerConfig()
	if err == nil {
		t.Fatal("expected error for missing config file")
	}
	if !strings.Contains(err.Error(), "/nonexistent/path/config.json") {
		t.Fatalf("expected error to contain config path, got %q", err.Error())
	}
}

func TestLoadConfigInvalidJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	if err := os.WriteFile(path, []byte("{invalid json}"), 0644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	t.Setenv("GOPNAME_CONFIG_PATH", path)

	_, err := loadServerConfig()
	if err == nil {
		t.Fatal("expected error for invalid JSON")
	}
	if !strings.Contains(err.Error(), "failed to parse config file") {
		t.Fatalf("expected parse error, got %q", err.Error())
	}
}

func TestLoadConfigInvalidYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("server: [unclosed"), 0644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	t.Setenv("GOPNAME_CONFIG_PATH", path)

	if _, err := loadServerConfig(); err == nil {
		t.Fatal("expected error for invalid YAML")
	}
}

func TestConfigPathDefault(t *testing.T) {
	t.Setenv("GOPNAME_CONFIG_PATH", "")
	if got := configPath(); got != ".gopname/config.json" {
		t.Fatalf("expected default config path, got %q", got)
	}
}

func TestIsYAMLPath(t *testing.T) {
	t.Parallel()
	tests := []struct {
		path string
		want bool
	}{
		{"config.yaml", true},
		{"config.YML", true},
		{".gopname/config.json", false},
		{"config", false},
	}
	for _, tt := range tests {
		if got := isYAMLPath(tt.path); got != tt.want {
			t.Fatalf("isYAMLPath(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestSetupLogger_Level(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	logPath := filepath.Join(dir, "gopname.log")

	logger := setupLogger(pname.LoggingConfig{Level: "warn", Output: logPath})
	logger.Info().Msg("dropped")
	logger.Warn().Msg("kept")

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	if strings.Contains(string(data), "dropped") {
		t.Fatalf("info message should be filtered at warn level: %s", data)
	}
	if !strings.Contains(string(data), `"message":"kept"`) {
		t.Fatalf("expected JSON warn message in log file: %s", data)
	}
}

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	pname "github.com/rickchristie/postgres-pname"
	"github.com/rickchristie/postgres-pname/internal/meta"
)

const defaultConfigPath = ".gopname/config.json"

func runServe() error {
	// 1. Load ServerConfig
	serverConfig, err := loadServerConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if serverConfig.Server.Port <= 0 {
		panic("gopname: server.port must be > 0")
	}

	// 2. Setup logger
	logger := setupLogger(serverConfig.Logging)

	// 3. Create Processor (panics on invalid policy or limits)
	processor := pname.NewProcessor(serverConfig.Config, logger)

	// 4. Create MCP server with initialize lifecycle logging
	hooks := &server.Hooks{}
	hooks.AddAfterInitialize(func(ctx context.Context, id any, req *mcp.InitializeRequest, result *mcp.InitializeResult) {
		logger.Info().
			Str("client_name", req.Params.ClientInfo.Name).
			Str("client_version", req.Params.ClientInfo.Version).
			Msg("AI agent connected (MCP initialize)")
	})

	mcpServer := server.NewMCPServer("gopname", meta.Version,
		server.WithToolCapabilities(true),
		server.WithHooks(hooks),
	)

	pname.RegisterMCPTools(mcpServer, processor)

	// 5. Start HTTP server with optional health check
	addr := fmt.Sprintf(":%d", serverConfig.Server.Port)
	mux := http.NewServeMux()

	if serverConfig.Server.HealthCheckEnabled {
		if serverConfig.Server.HealthCheckPath == "" {
			panic("gopname: health_check_path must be set when health_check_enabled is true")
		}
		mux.HandleFunc(serverConfig.Server.HealthCheckPath, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(`{"status":"ok"}`))
		})
	}

	httpSrv := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	streamableServer := server.NewStreamableHTTPServer(mcpServer,
		server.WithEndpointPath("/mcp"),
		server.WithStateLess(true),
		server.WithStreamableHTTPServer(httpSrv),
	)

	// Start() does not register the handler on a custom server's mux.
	mux.Handle("/mcp", streamableServer)

	logger.Info().
		Int("port", serverConfig.Server.Port).
		Str("policy", processor.Validator().Policy().String()).
		Msg("starting gopname server")
	return streamableServer.Start(addr)
}

// configPath returns the config file location from GOPNAME_CONFIG_PATH,
// falling back to defaultConfigPath.
func configPath() string {
	if path := os.Getenv("GOPNAME_CONFIG_PATH"); path != "" {
		return path
	}
	return defaultConfigPath
}

func loadServerConfig() (*pname.ServerConfig, error) {
	path := configPath()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	config, err := decodeServerConfig(path, data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return config, nil
}

// isYAMLPath reports whether path names a YAML file by extension.
func isYAMLPath(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// decodeServerConfig decodes YAML for .yaml/.yml paths and JSON otherwise.
func decodeServerConfig(path string, data []byte) (*pname.ServerConfig, error) {
	var config pname.ServerConfig
	if isYAMLPath(path) {
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, err
		}
		return &config, nil
	}
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, err
	}
	return &config, nil
}

func setupLogger(config pname.LoggingConfig) zerolog.Logger {
	level := zerolog.InfoLevel
	switch strings.ToLower(config.Level) {
	case "debug":
		level = zerolog.DebugLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}

	var output io.Writer = os.Stderr
	if config.Output == "stdout" {
		output = os.Stdout
	} else if config.Output != "" && config.Output != "stderr" {
		f, err := os.OpenFile(config.Output, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err == nil {
			output = f
		}
	}

	if config.Format == "text" {
		output = zerolog.ConsoleWriter{Out: output}
	}

	return zerolog.New(output).Level(level).With().Timestamp().Logger()
}

package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"regexp"

	pname "github.com/rickchristie/postgres-pname"
	"github.com/rickchristie/postgres-pname/internal/meta"
)

func runDoctor() error {
	fs := flag.NewFlagSet("doctor", flag.ExitOnError)
	path := fs.String("config", configPath(), "Path to configuration file")
	fs.Parse(os.Args[2:])

	useColor := isTTY(os.Stderr.Fd())
	return doctor(os.Stderr, useColor, *path)
}

func doctor(w io.Writer, useColor bool, configPath string) error {
	printBanner(w, useColor)
	fmt.Fprintf(w, "gopname %s\n\n", meta.Version)

	config, ok := doctorValidateConfig(w, useColor, configPath)
	if !ok {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Fix the issues above and run 'gopname doctor' again.")
		return nil
	}

	fmt.Fprintln(w)
	printAgentSnippets(w, useColor, config)
	return nil
}

// doctorValidateConfig loads and validates the config file, printing check results.
// Returns the parsed config and true if all checks passed.
func doctorValidateConfig(w io.Writer, useColor bool, configPath string) (*pname.ServerConfig, bool) {
	allPassed := true
	check := func(pass bool, msg string) {
		printCheck(w, useColor, pass, msg)
		if !pass {
			allPassed = false
		}
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		check(false, fmt.Sprintf("Config file readable (%s)", configPath))
		return nil, false
	}
	check(true, fmt.Sprintf("Config file readable (%s)", configPath))

	format := "JSON"
	if isYAMLPath(configPath) {
		format = "YAML"
	}
	config, err := decodeServerConfig(configPath, data)
	if err != nil {
		check(false, fmt.Sprintf("Config file is valid %s: %v", format, err))
		return nil, false
	}
	check(true, fmt.Sprintf("Config file is valid %s", format))

	if policy, err := pname.ParsePolicy(config.Policy); err != nil {
		check(false, fmt.Sprintf("policy is valid: %v", err))
	} else {
		check(true, fmt.Sprintf("policy is valid (%s)", policy))
	}

	check(config.MaxNameLength >= 0, "max_name_length is >= 0")
	check(config.MaxSortNames >= 0, "max_sort_names is >= 0")
	check(config.Schema.InstallTimeoutSeconds >= 0, "schema.install_timeout_seconds is >= 0")

	if config.Server.Port <= 0 {
		check(false, "server.port is > 0")
	} else {
		check(true, fmt.Sprintf("server.port is > 0 (%d)", config.Server.Port))
	}

	if config.Server.HealthCheckEnabled {
		if config.Server.HealthCheckPath == "" {
			check(false, "health_check_path is set (required when health_check_enabled)")
		} else {
			check(true, fmt.Sprintf("health_check_path is set (%s)", config.Server.HealthCheckPath))
		}
	}

	regexOK := true
	for i, rule := range config.Hints {
		if _, err := regexp.Compile(rule.Pattern); err != nil {
			check(false, fmt.Sprintf("hints[%d] regex compiles: %v", i, err))
			regexOK = false
		}
	}
	if regexOK {
		check(true, "All hint patterns compile")
	}

	return config, allPassed
}

// printCheck prints a colored ✓ or ✗ check line.
func printCheck(w io.Writer, useColor bool, pass bool, msg string) {
	mark, color := "✓", "\033[32m"
	if !pass {
		mark, color = "✗", "\033[31m"
	}
	if useColor {
		fmt.Fprintf(w, "  %s%s\033[0m %s\n", color, mark, msg)
	} else {
		fmt.Fprintf(w, "  %s %s\n", mark, msg)
	}
}

// printAgentSnippets prints MCP connection config snippets for various AI agents.
func printAgentSnippets(w io.Writer, useColor bool, config *pname.ServerConfig) {
	url := fmt.Sprintf("http://localhost:%d/mcp", config.Server.Port)

	heading := func(title string) {
		if useColor {
			fmt.Fprintf(w, "\033[1;32m%s\033[0m\n", title)
		} else {
			fmt.Fprintln(w, title)
		}
	}

	subheading := func(title string) {
		if useColor {
			fmt.Fprintf(w, "  \033[1m%s\033[0m\n", title)
		} else {
			fmt.Fprintf(w, "  %s\n", title)
		}
	}

	heading("Agent Connection Snippets")
	fmt.Fprintln(w)

	subheading("Claude Code")
	fmt.Fprintf(w, "  Run this command to add the server:\n\n")
	fmt.Fprintf(w, "    claude mcp add --transport http pname %s\n\n", url)
	fmt.Fprintf(w, "  Or add to .mcp.json (project scope):\n\n")
	fmt.Fprintf(w, `  {
    "mcpServers": {
      "pname": {
        "type": "http",
        "url": "%s"
      }
    }
  }
`, url)
	fmt.Fprintln(w)

	subheading("Copilot CLI (~/.copilot/mcp-config.json)")
	fmt.Fprintf(w, `  {
    "mcpServers": {
      "pname": {
        "type": "http",
        "url": "%s"
      }
    }
  }
`, url)
	fmt.Fprintln(w)

	subheading("Gemini CLI (~/.gemini/settings.json)")
	fmt.Fprintf(w, `  {
    "mcpServers": {
      "pname": {
        "httpUrl": "%s"
      }
    }
  }
`, url)
	fmt.Fprintln(w)

	subheading("OpenCode (opencode.json)")
	fmt.Fprintf(w, `  {
    "mcp": {
      "pname": {
        "type": "remote",
        "url": "%s"
      }
    }
  }
`, url)
	fmt.Fprintln(w)

	subheading("Cursor (.cursor/mcp.json)")
	fmt.Fprintf(w, `  {
    "mcpServers": {
      "pname": {
        "url": "%s"
      }
    }
  }
`, url)
	fmt.Fprintln(w)

	subheading("Windsurf (~/.codeium/windsurf/mcp_config.json)")
	fmt.Fprintf(w, `  {
    "mcpServers": {
      "pname": {
        "serverUrl": "%s"
      }
    }
  }
`, url)
}

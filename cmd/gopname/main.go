package main

import (
	"fmt"
	"os"

	"github.com/rickchristie/postgres-pname/internal/meta"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "check":
		var ok bool
		ok, err = runCheck(os.Args[2:], os.Stdout, os.Stderr)
		if err == nil && !ok {
			os.Exit(1)
		}
	case "sort":
		err = runSort(os.Args[2:], os.Stdin, os.Stdout, os.Stderr)
	case "serve":
		err = runServe()
	case "install":
		err = runInstall()
	case "uninstall":
		err = runUninstall()
	case "columns":
		err = runColumns()
	case "configure":
		err = runConfigure()
	case "doctor":
		err = runDoctor()
	case "version":
		fmt.Println("gopname", meta.Version)
	case "--help", "-h", "help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("gopname: person names in \"Family, Given\" form")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  gopname check [-policy P] NAME...   Validate names and print their forms")
	fmt.Println("  gopname sort [-policy P] [-display] Sort names read from stdin, one per line")
	fmt.Println("  gopname serve                       Start the MCP server")
	fmt.Println("  gopname install                     Install the personname domain and functions")
	fmt.Println("  gopname uninstall                   Drop the personname domain and functions")
	fmt.Println("  gopname columns                     List columns that use the personname type")
	fmt.Println("  gopname configure                   Run interactive configuration wizard")
	fmt.Println("  gopname doctor                      Check the configuration file")
	fmt.Println("  gopname version                     Print the version")
	fmt.Println("  gopname --help                      Show this help message")
}

package main

import (
	"flag"
	"os"

	"github.com/rickchristie/postgres-pname/internal/configure"
)

func runConfigure() error {
	fs := flag.NewFlagSet("configure", flag.ExitOnError)
	path := fs.String("config", configPath(), "Path to configuration file (.json, .yaml or .yml)")
	fs.Parse(os.Args[2:])

	printBanner(os.Stderr, isTTY(os.Stderr.Fd()))
	return configure.Run(*path)
}

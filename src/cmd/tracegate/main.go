package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/maksimkurb/tracegate/src/internal/api"
	"github.com/maksimkurb/tracegate/src/internal/commands"
	"github.com/maksimkurb/tracegate/src/internal/config"
	"github.com/maksimkurb/tracegate/src/internal/log"
)

var (
	version = "dev"
	commit  = "n/a"
	date    = "n/a"
)

func main() {
	ctx := &commands.AppContext{Stdout: os.Stdout}

	flag.StringVar(&ctx.ConfigPath, "config", "", "Path to configuration file (TOML, or YAML by extension); empty uses defaults")
	flag.BoolVar(&ctx.Verbose, "verbose", false, "Enable debug logging")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Hierarchical trace verbosity control\n")
		fmt.Fprintf(os.Stderr, "Version: %s (Commit: %s, Date: %s)\n\n", version, commit, date)
		fmt.Fprintf(os.Stderr, "Usage: %s [options] <command>\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Commands:\n")
		fmt.Fprintf(os.Stderr, "  serve                   Run the admin API and follow config file changes\n")
		fmt.Fprintf(os.Stderr, "  print                   Print the configured verbosity listing\n")
		fmt.Fprintf(os.Stderr, "  check [-level n] name.. Show effective verbosity and gate decision\n")
		fmt.Fprintf(os.Stderr, "  stress                  Run concurrent writers and readers against a registry\n\n")
		fmt.Fprintf(os.Stderr, "Environment:\n")
		fmt.Fprintf(os.Stderr, "  %s   Extra overrides, e.g. \"db=3,db.pool=5,=1\"\n\n", config.EnvVerbosity)
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}

	flag.Parse()

	if ctx.Verbose {
		log.SetVerbose(true)
	}

	api.Version, api.Commit, api.Date = version, commit, date

	if ctx.ConfigPath != "" {
		if _, err := os.Stat(ctx.ConfigPath); errors.Is(err, os.ErrNotExist) {
			log.Fatalf("Configuration file not found: %s", ctx.ConfigPath)
		}
	}

	cmds := []commands.Runner{
		commands.CreateServeCommand(),
		commands.CreatePrintCommand(),
		commands.CreateCheckCommand(),
		commands.CreateStressCommand(),
	}

	args := flag.Args()

	if len(args) < 1 {
		flag.Usage()
		os.Exit(1)
	}

	subcommand := args[0]
	for _, cmd := range cmds {
		if cmd.Name() == subcommand {
			if err := cmd.Init(args[1:], ctx); err != nil {
				if errors.Is(err, flag.ErrHelp) {
					os.Exit(0)
				}
				log.Fatalf("Failed to initialize command: %v", err)
			}

			if err := cmd.Run(); err != nil {
				log.Fatalf("Failed to run command: %v", err)
			}

			os.Exit(0)
		}
	}

	log.Fatalf("Unknown subcommand: %s", subcommand)
}

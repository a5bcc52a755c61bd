package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/mrlokans/diary/internal/cli"
	"github.com/mrlokans/diary/internal/config"
	"github.com/mrlokans/diary/internal/entrypoint"
)

// Version information - set at build time via ldflags
var (
	Version = "dev"
	Commit  = "unknown"
)

func main() {
	// If no arguments or "serve" command, run the HTTP server
	if len(os.Args) < 2 || os.Args[1] == "serve" {
		cfg := config.NewConfig()
		if err := entrypoint.Run(cfg, Version); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	command := os.Args[1]
	args := os.Args[2:]
	ctx := context.Background()

	switch command {
	case "reset":
		cmd := cli.NewResetCommand()
		exitOnError(cmd.ParseFlags(args))
		exitOnError(cmd.Run(ctx))

	case "sweep":
		cmd := cli.NewSweepCommand()
		exitOnError(cmd.ParseFlags(args))
		exitOnError(cmd.Run(ctx))

	case "hash-passcode":
		cmd := cli.NewHashPasscodeCommand()
		exitOnError(cmd.ParseFlags(args))
		exitOnError(cmd.Run())

	case "version", "-v", "--version":
		fmt.Printf("diary %s (commit: %s)\n", Version, Commit)

	case "help", "-h", "--help":
		printUsage()

	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func exitOnError(err error) {
	if err == nil {
		return
	}
	if errors.Is(err, flag.ErrHelp) {
		os.Exit(0)
	}
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

func printUsage() {
	fmt.Fprintf(os.Stderr, "Usage: %s <command> [options]\n\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "Commands:\n")
	fmt.Fprintf(os.Stderr, "  serve          Start the HTTP server (default if no command given)\n")
	fmt.Fprintf(os.Stderr, "  reset          Delete every entry, attachment and setting\n")
	fmt.Fprintf(os.Stderr, "  sweep          Remove attachments whose entry no longer exists\n")
	fmt.Fprintf(os.Stderr, "  hash-passcode  Print the bcrypt hash for AUTH_PASSCODE_HASH\n")
	fmt.Fprintf(os.Stderr, "  version        Print version information\n")
	fmt.Fprintf(os.Stderr, "\nUse '%s <command> -h' for help on a specific command.\n", os.Args[0])
}

package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"pyidx/internal/discovery"
	"pyidx/internal/roots"
)

var (
	scanPrivate     bool
	scanNoRecursive bool
	scanOrigin      string
	scanFormat      string
)

var scanCmd = &cobra.Command{
	Use:   "scan <path>",
	Short: "Extract importable names from a package or module",
	Long: `Extract every importable name from a Python package directory, a single
source file, or a compiled extension, without touching the index.

Source files are parsed statically. Compiled extensions need a working
interpreter; without one they yield nothing.

Examples:
  pyidx scan ./src/mypkg
  pyidx scan ./util.py --private
  pyidx scan ./src/mypkg --no-recursive
  pyidx scan /usr/lib/python3.12/json --origin stdlib`,
	Args: cobra.ExactArgs(1),
	Run:  runScan,
}

func init() {
	scanCmd.Flags().BoolVar(&scanPrivate, "private", false, "Include underscore-prefixed names and modules")
	scanCmd.Flags().BoolVar(&scanNoRecursive, "no-recursive", false, "Skip submodule enumeration")
	scanCmd.Flags().StringVar(&scanOrigin, "origin", "", "Override provenance (project, stdlib, site-package, builtin, manual)")
	scanCmd.Flags().StringVar(&scanFormat, "format", "json", "Output format (json, human)")
	rootCmd.AddCommand(scanCmd)
}

func runScan(cmd *cobra.Command, args []string) {
	start := time.Now()
	logger := newLogger(scanFormat)
	target := args[0]

	root := mustGetProjectRoot()
	s := mustGetSetup(root, logger)

	if _, _, ok := discovery.Classify(target); !ok {
		fmt.Fprintf(os.Stderr, "Error: %s is not a Python package, module, or compiled extension\n", target)
		os.Exit(1)
	}

	opts := discovery.ScanOptions{
		Recursive:      !scanNoRecursive,
		IncludePrivate: scanPrivate || s.pol.IncludePrivate,
	}
	if scanOrigin != "" {
		src, ok := discovery.ParseSource(scanOrigin)
		if !ok {
			fmt.Fprintf(os.Stderr, "Error: invalid origin %q: must be one of: project, stdlib, site-package, builtin, manual\n", scanOrigin)
			os.Exit(1)
		}
		opts.Origin = &src
	}

	interp := findInterpreter(s, logger)
	ctx := newContext()

	env := discovery.Environment{ProjectRoot: roots.Project(root, s.pol.FollowSrcLayout).Path}
	if interp != nil {
		if prefix, err := interp.Prefix(ctx); err == nil {
			env.InterpreterPrefix = prefix
		}
	}

	engine := newEngine(s, env, interp)
	names := engine.FindPackageNames(ctx, target, opts)

	cliResponse := &ScanResponseCLI{
		Path:  target,
		Count: len(names),
		Names: convertNames(names),
	}

	output, err := FormatResponse(cliResponse, OutputFormat(scanFormat))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error formatting output: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(output)

	logger.Debug("Scan completed", map[string]interface{}{
		"path":     target,
		"names":    len(names),
		"duration": time.Since(start).Milliseconds(),
	})
}

// ScanResponseCLI contains extracted names for CLI output
type ScanResponseCLI struct {
	Path  string    `json:"path"`
	Count int       `json:"count"`
	Names []NameCLI `json:"names"`
}

package main

import (
	"pyidx/internal/version"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "pyidx",
	Short: "pyidx - importable name index for Python projects",
	Long: `pyidx extracts every importable name from Python packages, modules, and
compiled extensions, and keeps them in a per-project index so editors and
tools can answer "which module exports X" without importing anything.

Source files are read statically; compiled extensions and builtin modules
are reflected through a sandboxed interpreter subprocess.`,
	Version: version.Version,
}

func init() {
	rootCmd.SetVersionTemplate("pyidx version {{.Version}}\n")
}

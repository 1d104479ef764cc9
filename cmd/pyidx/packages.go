package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var packagesFormat string

var packagesCmd = &cobra.Command{
	Use:   "packages",
	Short: "List indexed packages",
	Long: `List every package in the index with its module and name counts.

Examples:
  pyidx packages
  pyidx packages --format human`,
	Args: cobra.NoArgs,
	Run:  runPackages,
}

func init() {
	packagesCmd.Flags().StringVar(&packagesFormat, "format", "json", "Output format (json, human)")
	rootCmd.AddCommand(packagesCmd)
}

func runPackages(cmd *cobra.Command, args []string) {
	logger := newLogger(packagesFormat)

	root := mustGetProjectRoot()
	s := mustGetSetup(root, logger)
	requireIndexFile(root, s.cfg)

	db := mustOpenIndex(root, s.cfg, logger)
	defer db.Close()

	pkgs, err := db.Packages()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error listing packages: %v\n", err)
		os.Exit(1)
	}

	cliPkgs := make([]PackageCLI, 0, len(pkgs))
	for _, p := range pkgs {
		cliPkgs = append(cliPkgs, PackageCLI{
			Package: p.Package,
			Modules: p.Modules,
			Names:   p.Names,
			Source:  p.Source.String(),
		})
	}

	cliResponse := &PackagesResponseCLI{
		Count:    len(cliPkgs),
		Packages: cliPkgs,
	}

	output, err := FormatResponse(cliResponse, OutputFormat(packagesFormat))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error formatting output: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(output)
}

// PackagesResponseCLI lists indexed packages for CLI output
type PackagesResponseCLI struct {
	Count    int          `json:"count"`
	Packages []PackageCLI `json:"packages"`
}

// PackageCLI summarizes one indexed package
type PackageCLI struct {
	Package string `json:"package"`
	Modules int64  `json:"modules"`
	Names   int64  `json:"names"`
	Source  string `json:"source"`
}

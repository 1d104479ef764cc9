package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"pyidx/internal/export"
	"pyidx/internal/version"
)

var (
	exportOut    string
	exportSCIP   bool
	exportFormat string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the index to a file",
	Long: `Export every indexed name to a file, as JSON or as a SCIP index.

A .gz suffix on the output path enables gzip compression.

Examples:
  pyidx export --out names.json
  pyidx export --out names.json.gz
  pyidx export --out index.scip --scip`,
	Args: cobra.NoArgs,
	Run:  runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportOut, "out", "", "Output file path (required)")
	exportCmd.Flags().BoolVar(&exportSCIP, "scip", false, "Emit a SCIP index instead of JSON")
	exportCmd.Flags().StringVar(&exportFormat, "format", "json", "Output format for the summary (json, human)")
	_ = exportCmd.MarkFlagRequired("out")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) {
	logger := newLogger(exportFormat)

	root := mustGetProjectRoot()
	s := mustGetSetup(root, logger)
	requireIndexFile(root, s.cfg)

	db := mustOpenIndex(root, s.cfg, logger)
	defer db.Close()

	names, err := db.AllNames()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading index: %v\n", err)
		os.Exit(1)
	}

	encoding := export.FormatJSON
	encodingName := "json"
	if exportSCIP {
		encoding = export.FormatSCIP
		encodingName = "scip"
	}

	meta := export.Meta{
		ProjectRoot: root,
		ToolVersion: version.Version,
	}
	if err := export.WriteFile(exportOut, encoding, names, meta); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing export: %v\n", err)
		os.Exit(1)
	}

	cliResponse := &ExportResponseCLI{
		Path:   exportOut,
		Format: encodingName,
		Names:  len(names),
	}

	output, err := FormatResponse(cliResponse, OutputFormat(exportFormat))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error formatting output: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(output)
}

// ExportResponseCLI summarizes one export for CLI output
type ExportResponseCLI struct {
	Path   string `json:"path"`
	Format string `json:"format"`
	Names  int    `json:"names"`
}

package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"pyidx/internal/index"
)

var (
	searchExact  bool
	searchLimit  int
	searchFormat string
)

var searchCmd = &cobra.Command{
	Use:   "search <name>",
	Short: "Look a name up in the index",
	Long: `Look an importable name up in the project index.

Exact matches come first, then prefix matches, each ranked by provenance:
project code before stdlib before site-packages. Underscores in the query
match literally.

Examples:
  pyidx search walk
  pyidx search Http --limit 10
  pyidx search dataclass --exact`,
	Args: cobra.ExactArgs(1),
	Run:  runSearch,
}

func init() {
	searchCmd.Flags().BoolVar(&searchExact, "exact", false, "Disable the prefix fallback")
	searchCmd.Flags().IntVar(&searchLimit, "limit", index.DefaultSearchLimit, "Maximum number of results")
	searchCmd.Flags().StringVar(&searchFormat, "format", "json", "Output format (json, human)")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) {
	start := time.Now()
	logger := newLogger(searchFormat)
	query := args[0]

	root := mustGetProjectRoot()
	s := mustGetSetup(root, logger)
	requireIndexFile(root, s.cfg)

	db := mustOpenIndex(root, s.cfg, logger)
	defer db.Close()

	results, err := db.Search(query, index.SearchOptions{
		ExactOnly: searchExact,
		Limit:     searchLimit,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error searching index: %v\n", err)
		os.Exit(1)
	}

	cliResponse := &SearchResponseCLI{
		Query: query,
		Count: len(results),
		Names: convertNames(results),
	}

	output, err := FormatResponse(cliResponse, OutputFormat(searchFormat))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error formatting output: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(output)

	logger.Debug("Search completed", map[string]interface{}{
		"query":    query,
		"results":  len(results),
		"duration": time.Since(start).Milliseconds(),
	})
}

// SearchResponseCLI contains search results for CLI output
type SearchResponseCLI struct {
	Query string    `json:"query"`
	Count int       `json:"count"`
	Names []NameCLI `json:"names"`
}

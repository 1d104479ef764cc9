package main

import (
	"encoding/json"
	"fmt"
	"strings"
)

// OutputFormat represents the output format type
type OutputFormat string

const (
	FormatJSON  OutputFormat = "json"
	FormatHuman OutputFormat = "human"
)

// FormatResponse formats a response according to the specified format
func FormatResponse(resp interface{}, format OutputFormat) (string, error) {
	switch format {
	case FormatJSON:
		return formatJSON(resp)
	case FormatHuman:
		return formatHuman(resp)
	default:
		return "", fmt.Errorf("unsupported format: %s", format)
	}
}

// formatJSON formats the response as JSON
func formatJSON(resp interface{}) (string, error) {
	data, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return string(data), nil
}

// formatHuman formats the response in human-readable format
func formatHuman(resp interface{}) (string, error) {
	switch v := resp.(type) {
	case *ScanResponseCLI:
		return formatScanHuman(v)
	case *SearchResponseCLI:
		return formatSearchHuman(v)
	case *PackagesResponseCLI:
		return formatPackagesHuman(v)
	case *IndexResponseCLI:
		return formatIndexHuman(v)
	case *ExportResponseCLI:
		return formatExportHuman(v)
	case *DoctorResponseCLI:
		return formatDoctorHuman(v)
	default:
		// For unknown types, fall back to JSON
		return formatJSON(resp)
	}
}

// formatScanHuman formats a ScanResponseCLI in human-readable format
func formatScanHuman(resp *ScanResponseCLI) (string, error) {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("Importable Names: %s\n", resp.Path))
	b.WriteString(strings.Repeat("=", 60) + "\n\n")
	b.WriteString(fmt.Sprintf("Found %d names\n\n", resp.Count))

	writeNameList(&b, resp.Names)

	return b.String(), nil
}

// formatSearchHuman formats a SearchResponseCLI in human-readable format
func formatSearchHuman(resp *SearchResponseCLI) (string, error) {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("Search Results for: %s\n", resp.Query))
	b.WriteString(strings.Repeat("=", 60) + "\n\n")
	b.WriteString(fmt.Sprintf("Found %d matches\n\n", resp.Count))

	writeNameList(&b, resp.Names)

	return b.String(), nil
}

// writeNameList renders one line per name: the identifier, the module to
// import it from, and its provenance.
func writeNameList(b *strings.Builder, names []NameCLI) {
	width := 0
	for _, n := range names {
		if len(n.Name) > width {
			width = len(n.Name)
		}
	}
	for i, n := range names {
		b.WriteString(fmt.Sprintf("%3d. %-*s  from %s  [%s]\n", i+1, width, n.Name, n.Module, n.Source))
	}
}

// formatPackagesHuman formats a PackagesResponseCLI in human-readable format
func formatPackagesHuman(resp *PackagesResponseCLI) (string, error) {
	var b strings.Builder

	b.WriteString("Indexed Packages\n")
	b.WriteString(strings.Repeat("=", 60) + "\n\n")
	b.WriteString(fmt.Sprintf("%d packages\n\n", resp.Count))

	for _, p := range resp.Packages {
		b.WriteString(fmt.Sprintf("  %s\n", p.Package))
		b.WriteString(fmt.Sprintf("    Modules: %d  Names: %d  Source: %s\n", p.Modules, p.Names, p.Source))
	}

	return b.String(), nil
}

// formatIndexHuman formats an IndexResponseCLI in human-readable format
func formatIndexHuman(resp *IndexResponseCLI) (string, error) {
	var b strings.Builder

	b.WriteString("Index Run\n")
	b.WriteString(strings.Repeat("=", 60) + "\n\n")

	b.WriteString(fmt.Sprintf("Project: %s\n", resp.Root))
	b.WriteString(fmt.Sprintf("Scan ID: %s\n\n", resp.ScanID))

	b.WriteString("Roots:\n")
	for _, r := range resp.Roots {
		b.WriteString(fmt.Sprintf("  - %s [%s]\n", r.Path, r.Source))
	}
	b.WriteString("\n")

	b.WriteString(fmt.Sprintf("Packages indexed: %d\n", resp.Packages))
	b.WriteString(fmt.Sprintf("Names recorded:   %d\n", resp.Names))
	b.WriteString(fmt.Sprintf("Duration:         %dms\n", resp.DurationMs))

	return b.String(), nil
}

// formatExportHuman formats an ExportResponseCLI in human-readable format
func formatExportHuman(resp *ExportResponseCLI) (string, error) {
	var b strings.Builder

	b.WriteString("Export\n")
	b.WriteString(strings.Repeat("=", 60) + "\n\n")
	b.WriteString(fmt.Sprintf("Wrote %d names to %s (%s)\n", resp.Names, resp.Path, resp.Format))

	return b.String(), nil
}

// formatDoctorHuman formats a DoctorResponseCLI in human-readable format
func formatDoctorHuman(resp *DoctorResponseCLI) (string, error) {
	var b strings.Builder

	b.WriteString("pyidx Doctor\n")
	b.WriteString(strings.Repeat("=", 60) + "\n\n")

	healthIcon := "✓"
	healthText := "All checks passed"
	if !resp.Healthy {
		healthIcon = "✗"
		healthText = "Issues found"
	}
	b.WriteString(fmt.Sprintf("%s %s\n\n", healthIcon, healthText))

	for _, check := range resp.Checks {
		var icon string
		switch check.Status {
		case "pass":
			icon = "✓"
		case "warn":
			icon = "⚠"
		case "fail":
			icon = "✗"
		default:
			icon = "?"
		}

		b.WriteString(fmt.Sprintf("%s %s: %s\n", icon, check.Name, check.Message))

		if len(check.SuggestedFixes) > 0 {
			b.WriteString("  Suggested fixes:\n")
			for _, fix := range check.SuggestedFixes {
				b.WriteString(fmt.Sprintf("    - %s\n", fix.Description))
				if fix.Command != "" {
					b.WriteString(fmt.Sprintf("      $ %s\n", fix.Command))
				}
			}
		}
		b.WriteString("\n")
	}

	return b.String(), nil
}

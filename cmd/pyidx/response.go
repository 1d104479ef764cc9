package main

import "pyidx/internal/discovery"

// NameCLI is one importable name in CLI output. Provenance is rendered
// as its string form rather than the stored ordinal.
type NameCLI struct {
	Name    string `json:"name"`
	Module  string `json:"module"`
	Package string `json:"package"`
	Source  string `json:"source"`
}

// RootCLI is one indexed search root.
type RootCLI struct {
	Path   string `json:"path"`
	Source string `json:"source"`
}

func convertNames(names []discovery.Name) []NameCLI {
	out := make([]NameCLI, 0, len(names))
	for _, n := range names {
		out = append(out, NameCLI{
			Name:    n.Name,
			Module:  n.Module,
			Package: n.Package,
			Source:  n.Source.String(),
		})
	}
	return out
}

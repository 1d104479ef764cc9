// Package export renders stored name records for other tools: a JSON
// dump for scripting and a SCIP index for editor tooling.
package export

import (
	"encoding/json"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/klauspost/compress/gzip"

	"pyidx/internal/discovery"
	pyerrors "pyidx/internal/errors"
)

// Format selects the export encoding.
type Format int

const (
	FormatJSON Format = iota
	FormatSCIP
)

// Meta describes the exporting run.
type Meta struct {
	// ProjectRoot is recorded in SCIP metadata.
	ProjectRoot string
	// ToolVersion is stamped into the output.
	ToolVersion string
	// GeneratedAt defaults to the current time when zero.
	GeneratedAt time.Time
}

// JSONOptions control the JSON rendering.
type JSONOptions struct {
	// Compact disables indentation.
	Compact bool
}

type jsonRecord struct {
	Name    string `json:"name"`
	Module  string `json:"module"`
	Package string `json:"package"`
	Source  string `json:"source"`
}

type jsonDump struct {
	GeneratedAt string       `json:"generatedAt"`
	ToolVersion string       `json:"toolVersion,omitempty"`
	Count       int          `json:"count"`
	Names       []jsonRecord `json:"names"`
}

// JSON writes every record as one document in stable package/module/name
// order, so repeated exports of the same index diff cleanly.
func JSON(w io.Writer, names []discovery.Name, meta Meta, opts JSONOptions) error {
	sorted := sortedCopy(names)

	dump := jsonDump{
		GeneratedAt: generatedAt(meta).Format(time.RFC3339),
		ToolVersion: meta.ToolVersion,
		Count:       len(sorted),
		Names:       make([]jsonRecord, 0, len(sorted)),
	}
	for _, n := range sorted {
		dump.Names = append(dump.Names, jsonRecord{
			Name:    n.Name,
			Module:  n.Module,
			Package: n.Package,
			Source:  n.Source.String(),
		})
	}

	enc := json.NewEncoder(w)
	if !opts.Compact {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(dump)
}

// WriteFile exports names to path in the given format. A path ending in
// .gz wraps the output in gzip.
func WriteFile(path string, format Format, names []discovery.Name, meta Meta) error {
	f, err := os.Create(path)
	if err != nil {
		return pyerrors.New(pyerrors.ExportFailed, "cannot create export file", err).
			WithDetails(map[string]string{"path": path})
	}
	defer f.Close()

	var w io.Writer = f
	var gz *gzip.Writer
	if strings.HasSuffix(path, ".gz") {
		gz = gzip.NewWriter(f)
		w = gz
	}

	switch format {
	case FormatSCIP:
		err = SCIP(w, names, meta)
	default:
		err = JSON(w, names, meta, JSONOptions{})
	}
	if err != nil {
		return pyerrors.New(pyerrors.ExportFailed, "export failed", err).
			WithDetails(map[string]string{"path": path})
	}

	if gz != nil {
		if err := gz.Close(); err != nil {
			return pyerrors.New(pyerrors.ExportFailed, "cannot finish compressed export", err).
				WithDetails(map[string]string{"path": path})
		}
	}
	return f.Close()
}

func sortedCopy(names []discovery.Name) []discovery.Name {
	sorted := make([]discovery.Name, len(names))
	copy(sorted, names)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.Package != b.Package {
			return a.Package < b.Package
		}
		if a.Module != b.Module {
			return a.Module < b.Module
		}
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return a.Source < b.Source
	})
	return sorted
}

func generatedAt(meta Meta) time.Time {
	if meta.GeneratedAt.IsZero() {
		return time.Now().UTC()
	}
	return meta.GeneratedAt
}

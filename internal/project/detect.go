// Package project detects the enclosing Python project and its layout.
package project

import (
	"os"
	"path/filepath"
	"time"
)

// ManifestKind identifies the manifest file that marked a project root.
type ManifestKind string

const (
	ManifestPyproject    ManifestKind = "pyproject.toml"
	ManifestSetupPy      ManifestKind = "setup.py"
	ManifestSetupCfg     ManifestKind = "setup.cfg"
	ManifestPipfile      ManifestKind = "Pipfile"
	ManifestRequirements ManifestKind = "requirements.txt"
)

// Layout distinguishes src/-rooted projects from flat ones.
type Layout string

const (
	LayoutFlat Layout = "flat"
	LayoutSrc  Layout = "src"
)

// Overrides mirrors the [tool.pyidx] table of pyproject.toml. Pointer fields
// distinguish "absent" from an explicit false.
type Overrides struct {
	DenyModules     []string `toml:"denyModules"`
	IgnoreDirs      []string `toml:"ignoreDirs"`
	IncludePrivate  *bool    `toml:"includePrivate"`
	FollowSrcLayout *bool    `toml:"followSrcLayout"`
}

// Info describes a detected Python project.
type Info struct {
	Root         string       `json:"root"`
	Name         string       `json:"name"`
	Manifest     ManifestKind `json:"manifest"`
	ManifestPath string       `json:"manifestPath"`
	Layout       Layout       `json:"layout"`
	Dependencies []string     `json:"dependencies,omitempty"`
	Overrides    *Overrides   `json:"-"`
	DetectedAt   time.Time    `json:"detectedAt"`
}

// manifestOrder is the probing priority when several manifests coexist.
var manifestOrder = []ManifestKind{
	ManifestPyproject,
	ManifestSetupPy,
	ManifestSetupCfg,
	ManifestPipfile,
	ManifestRequirements,
}

// Detect walks up from dir looking for a Python project manifest.
// Returns the project info and whether a project was found. Manifest parse
// failures degrade to a name-only Info rather than failing detection.
func Detect(dir string) (*Info, bool) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, false
	}

	for cur := abs; ; {
		if info, ok := detectAt(cur); ok {
			return info, true
		}
		parent := filepath.Dir(cur)
		if parent == cur {
			return nil, false
		}
		cur = parent
	}
}

// detectAt probes a single directory for manifests in priority order.
func detectAt(dir string) (*Info, bool) {
	for _, kind := range manifestOrder {
		manifestPath := filepath.Join(dir, string(kind))
		if _, err := os.Stat(manifestPath); err != nil {
			continue
		}

		info := &Info{
			Root:         dir,
			Manifest:     kind,
			ManifestPath: manifestPath,
			Layout:       detectLayout(dir),
			DetectedAt:   time.Now(),
		}

		switch kind {
		case ManifestPyproject:
			parsePyproject(info)
		case ManifestPipfile:
			parsePipfile(info)
		}

		if info.Name == "" {
			info.Name = filepath.Base(dir)
		}
		return info, true
	}
	return nil, false
}

// detectLayout reports src when root/src holds Python code, flat otherwise.
func detectLayout(root string) Layout {
	src := filepath.Join(root, "src")
	if st, err := os.Stat(src); err == nil && st.IsDir() && hasPythonCode(src) {
		return LayoutSrc
	}
	return LayoutFlat
}

// hasPythonCode checks a directory for .py files or package subdirectories.
func hasPythonCode(dir string) bool {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return false
	}
	for _, e := range entries {
		if e.IsDir() {
			if _, err := os.Stat(filepath.Join(dir, e.Name(), "__init__.py")); err == nil {
				return true
			}
			continue
		}
		if filepath.Ext(e.Name()) == ".py" {
			return true
		}
	}
	return false
}

// ScanRoot returns the directory an indexer should walk for project code.
func (i *Info) ScanRoot() string {
	if i.Layout == LayoutSrc {
		return filepath.Join(i.Root, "src")
	}
	return i.Root
}

// Package roots assembles the search roots an index run walks: the
// enclosing project plus the interpreter's module search path. The
// discovery engine itself never chooses roots; only the index command
// consumes this package.
package roots

import (
	"context"
	"os"
	"path/filepath"

	"pyidx/internal/discovery"
	"pyidx/internal/logging"
	"pyidx/internal/project"
	"pyidx/internal/pyruntime"
)

// Root is one directory to index, tagged with the provenance its
// packages inherit.
type Root struct {
	Path   string           `json:"path"`
	Source discovery.Source `json:"source"`
}

// Project resolves the project root enclosing dir. With a manifest the
// detected scan root wins (src/ layouts index src/); without one, dir
// itself is the root. An explicit followSrc=false pins the scan root to
// the project root even for src/ layouts; nil leaves it to detection.
func Project(dir string, followSrc *bool) Root {
	if info, ok := project.Detect(dir); ok {
		path := info.ScanRoot()
		if followSrc != nil && !*followSrc {
			path = info.Root
		}
		return Root{Path: path, Source: discovery.SourceProject}
	}
	return Root{Path: dir, Source: discovery.SourceProject}
}

// Discover combines the project root with the interpreter's search path
// and returns the environment that classified it. Interpreter probing is
// best effort: with a nil interpreter or a failed probe only the project
// root comes back.
func Discover(ctx context.Context, proj Root, interp *pyruntime.Interpreter, log *logging.Logger) ([]Root, discovery.Environment) {
	if interp == nil {
		return assemble(proj, nil, "")
	}

	sysPaths, err := interp.SysPath(ctx)
	if err != nil {
		log.Warn("cannot probe interpreter search path", map[string]interface{}{
			"interpreter": interp.Path,
			"error":       err.Error(),
		})
		return assemble(proj, nil, "")
	}
	prefix, err := interp.Prefix(ctx)
	if err != nil {
		log.Warn("cannot probe interpreter prefix", map[string]interface{}{
			"interpreter": interp.Path,
			"error":       err.Error(),
		})
		prefix = ""
	}
	return assemble(proj, sysPaths, prefix)
}

// assemble orders, classifies, and deduplicates the root set. The
// project root always leads; nonexistent entries are dropped.
func assemble(proj Root, sysPaths []string, prefix string) ([]Root, discovery.Environment) {
	env := discovery.Environment{
		ProjectRoot:       proj.Path,
		InterpreterPrefix: prefix,
	}

	var out []Root
	seen := make(map[string]bool)

	add := func(r Root) {
		canonical := canonicalKey(r.Path)
		if seen[canonical] {
			return
		}
		info, err := os.Stat(r.Path)
		if err != nil || !info.IsDir() {
			return
		}
		seen[canonical] = true
		out = append(out, r)
	}

	add(proj)
	for _, p := range sysPaths {
		add(Root{Path: p, Source: discovery.DeriveSource(p, env)})
	}
	return out, env
}

// canonicalKey resolves a path for duplicate detection; symlinked
// aliases of the same directory collapse to one root.
func canonicalKey(path string) string {
	key := path
	if abs, err := filepath.Abs(key); err == nil {
		key = abs
	}
	if resolved, err := filepath.EvalSymlinks(key); err == nil {
		key = resolved
	}
	return key
}

package discovery

import (
	"context"
	"os"

	"pyidx/internal/pyast"
)

// ExtractOptions control extraction from one source file.
type ExtractOptions struct {
	// IncludePrivate keeps underscore-prefixed declarations.
	IncludePrivate bool
	// OnlyExplicitExports returns names only when the file declares an
	// export-list override; used for initializer probing.
	OnlyExplicitExports bool
}

// ExtractFile parses one source file and returns the names it declares.
//
// An __all__ assignment whose value is a list or tuple literal of plain
// string literals is authoritative and terminal: exactly those names are
// returned, unfiltered, and nothing else in the file is considered. Any
// other __all__ shape abandons the override quietly and conventional
// scanning proceeds. Unreadable or unparseable files degrade to an empty
// result with a diagnostic; they never abort a run.
func (e *Engine) ExtractFile(ctx context.Context, ref ModuleRef, pkg string, src Source, opts ExtractOptions) []Name {
	source, err := os.ReadFile(ref.Path)
	if err != nil {
		e.log.Warn("cannot read module file", map[string]interface{}{
			"path":  ref.Path,
			"error": err.Error(),
		})
		return nil
	}
	if e.maxFileSize > 0 && int64(len(source)) > e.maxFileSize {
		e.log.Warn("module file exceeds size limit, skipping", map[string]interface{}{
			"path":  ref.Path,
			"bytes": len(source),
		})
		return nil
	}

	if e.parser == nil {
		e.log.Warn("python parser unavailable, skipping source file", map[string]interface{}{
			"path": ref.Path,
		})
		return nil
	}
	mod, err := e.parser.ParseSource(ctx, source)
	if err != nil {
		e.log.Warn("cannot parse module file", map[string]interface{}{
			"path":  ref.Path,
			"error": err.Error(),
		})
		return nil
	}
	if mod.HasErrors {
		e.log.Warn("syntax errors in module file, skipping", map[string]interface{}{
			"path":   ref.Path,
			"module": ref.Module,
		})
		return nil
	}

	return e.namesFromModule(mod, ref, pkg, src, opts)
}

func (e *Engine) namesFromModule(mod *pyast.Module, ref ModuleRef, pkg string, src Source, opts ExtractOptions) []Name {
	var declared []string

	for _, st := range mod.Statements {
		switch st.Kind {
		case pyast.StmtFunctionDef, pyast.StmtClassDef:
			declared = append(declared, st.Name)
		case pyast.StmtAssignment:
			for _, target := range st.Targets {
				if target == "__all__" {
					if st.ExportsValid {
						// The export list supersedes everything,
						// privacy filtering included.
						return e.recordAll(st.Exports, ref, pkg, src)
					}
					continue
				}
				declared = append(declared, target)
			}
		}
	}

	if opts.OnlyExplicitExports {
		return nil
	}

	var names []Name
	for _, n := range declared {
		if opts.IncludePrivate || !isPrivateName(n) {
			names = append(names, Name{Name: n, Module: ref.Module, Package: pkg, Source: src})
		}
	}
	return names
}

func (e *Engine) recordAll(exported []string, ref ModuleRef, pkg string, src Source) []Name {
	names := make([]Name, 0, len(exported))
	for _, n := range exported {
		names = append(names, Name{Name: n, Module: ref.Module, Package: pkg, Source: src})
	}
	return names
}

func isPrivateName(name string) bool {
	return len(name) > 0 && name[0] == '_'
}

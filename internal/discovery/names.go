package discovery

import (
	"context"
	"os"
	"path/filepath"
)

// FindPackageNames answers "all names visible when importing the package at
// root". The location is classified once; compiled extensions delegate to
// reflection, directory packages honor their initializer's explicit export
// list before any sibling is scanned. Results concatenate in enumeration
// order and are never deduplicated. An unrecognized location yields an
// empty result.
func (e *Engine) FindPackageNames(ctx context.Context, root string, opts ScanOptions) []Name {
	pkg, typ, ok := Classify(root)
	if !ok {
		e.log.Warn("unrecognized package location", map[string]interface{}{
			"path": root,
		})
		return nil
	}

	var src Source
	if opts.Origin != nil {
		src = *opts.Origin
	} else {
		src = DeriveSource(root, e.env)
	}

	switch typ {
	case PackageSingleFile:
		ref := ModuleRef{Path: root, Module: pkg}
		return e.ExtractFile(ctx, ref, pkg, src, ExtractOptions{IncludePrivate: opts.IncludePrivate})
	case PackageCompiled:
		return e.CompiledNames(ctx, pkg, src, opts.IncludePrivate)
	}

	if !opts.Recursive {
		return e.directoryNames(ctx, root, pkg, src, opts.IncludePrivate)
	}

	if names, done := e.initExports(ctx, root, pkg, src); done {
		return names
	}
	var all []Name
	for ref := range e.Submodules(root, pkg, opts.IncludePrivate) {
		all = append(all, e.ExtractFile(ctx, ref, pkg, src, ExtractOptions{IncludePrivate: opts.IncludePrivate})...)
	}
	return all
}

// initExports probes the package initializer for an explicit export list.
// done is true only for a present, non-empty list; an empty list falls
// through to per-file scanning.
func (e *Engine) initExports(ctx context.Context, dir, pkg string, src Source) ([]Name, bool) {
	init := filepath.Join(dir, "__init__.py")
	if _, err := os.Stat(init); err != nil {
		return nil, false
	}
	ref := ModuleRef{Path: init, Module: pkg}
	names := e.ExtractFile(ctx, ref, pkg, src, ExtractOptions{OnlyExplicitExports: true})
	return names, len(names) > 0
}

// directoryNames treats the whole directory as one module: the initializer
// export list when present and non-empty, otherwise every source file at
// the top level only.
func (e *Engine) directoryNames(ctx context.Context, dir, pkg string, src Source, includePrivate bool) []Name {
	if names, done := e.initExports(ctx, dir, pkg, src); done {
		return names
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var all []Name
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ref, ok := fileRef(dir, entry.Name(), pkg, includePrivate)
		if !ok {
			continue
		}
		all = append(all, e.ExtractFile(ctx, ref, pkg, src, ExtractOptions{IncludePrivate: includePrivate})...)
	}
	return all
}

package discovery

import (
	"iter"
	"os"
	"path/filepath"
	"strings"
)

// Submodules lazily yields a ModuleRef for every Python source file under a
// directory package root, depth-first in lexicographic order. An initializer
// file maps to its package's dotted name rather than pkg.__init__.
//
// A module whose dotted name contains an underscore-prefixed segment is
// excluded unless includePrivate is set. Hidden directories, __pycache__,
// and the engine's configured ignore set are skipped entirely.
func (e *Engine) Submodules(root, pkg string, includePrivate bool) iter.Seq[ModuleRef] {
	return func(yield func(ModuleRef) bool) {
		if !includePrivate && hasPrivateSegment(pkg) {
			return
		}
		e.walkModules(root, pkg, includePrivate, yield)
	}
}

func (e *Engine) walkModules(dir, modname string, includePrivate bool, yield func(ModuleRef) bool) bool {
	entries, err := os.ReadDir(dir)
	if err != nil {
		// An unreadable directory contributes nothing.
		return true
	}

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() {
			if e.skipDir(name) {
				continue
			}
			if !includePrivate && strings.HasPrefix(name, "_") {
				continue
			}
			if !e.walkModules(filepath.Join(dir, name), modname+"."+name, includePrivate, yield) {
				return false
			}
			continue
		}

		ref, ok := fileRef(dir, name, modname, includePrivate)
		if !ok {
			continue
		}
		if !yield(ref) {
			return false
		}
	}
	return true
}

// fileRef maps a directory entry to its ModuleRef. ok is false for
// non-source files and privacy-excluded stems; an initializer file takes
// its package's dotted name.
func fileRef(dir, name, pkg string, includePrivate bool) (ModuleRef, bool) {
	if !strings.HasSuffix(name, ".py") {
		return ModuleRef{}, false
	}
	stem := strings.TrimSuffix(name, ".py")
	mod := pkg
	if stem != "__init__" {
		if !includePrivate && strings.HasPrefix(stem, "_") {
			return ModuleRef{}, false
		}
		mod = pkg + "." + stem
	}
	return ModuleRef{Path: filepath.Join(dir, name), Module: mod}, true
}

// skipDir reports directories never descended into.
func (e *Engine) skipDir(name string) bool {
	if strings.HasPrefix(name, ".") || name == "__pycache__" {
		return true
	}
	_, ok := e.ignoreDirs[name]
	return ok
}

// hasPrivateSegment reports whether any segment of a dotted module name
// starts with an underscore.
func hasPrivateSegment(modname string) bool {
	for _, seg := range strings.Split(modname, ".") {
		if strings.HasPrefix(seg, "_") {
			return true
		}
	}
	return false
}

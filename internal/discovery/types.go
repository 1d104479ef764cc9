// Package discovery implements the importable-name discovery engine: it
// classifies filesystem locations as Python packages, enumerates their
// submodules, extracts declared names from source, and falls back to runtime
// reflection for modules without inspectable source.
package discovery

import "context"

// Source tags where a module comes from. The ordering matters downstream:
// lower values rank earlier in suggestions.
type Source int

const (
	SourceProject Source = iota
	SourceManual
	SourceBuiltin
	SourceStdlib
	SourceSitePackage
	SourceUnknown
)

var sourceNames = map[Source]string{
	SourceProject:     "project",
	SourceManual:      "manual",
	SourceBuiltin:     "builtin",
	SourceStdlib:      "stdlib",
	SourceSitePackage: "site-package",
	SourceUnknown:     "unknown",
}

func (s Source) String() string {
	if n, ok := sourceNames[s]; ok {
		return n
	}
	return "unknown"
}

// ParseSource converts a provenance string back into a Source.
func ParseSource(s string) (Source, bool) {
	for src, name := range sourceNames {
		if name == s {
			return src, true
		}
	}
	return SourceUnknown, false
}

// PackageType classifies a filesystem location.
type PackageType int

const (
	// PackageSingleFile is a lone .py source file.
	PackageSingleFile PackageType = iota
	// PackageDirectory is a directory package, with or without an
	// initializer file.
	PackageDirectory
	// PackageCompiled is a native extension with no readable source.
	PackageCompiled
)

func (t PackageType) String() string {
	switch t {
	case PackageSingleFile:
		return "single-file"
	case PackageDirectory:
		return "directory"
	case PackageCompiled:
		return "compiled"
	default:
		return "unknown"
	}
}

// Name is one discovered importable identifier. Records are immutable once
// produced; the engine never mutates or deduplicates them.
type Name struct {
	// Name is the bare identifier as it would appear after import.
	Name string `json:"name"`
	// Module is the dotted path of the module that declares it.
	Module string `json:"module"`
	// Package is the top-level package the import is performed under.
	Package string `json:"package"`
	// Source is the provenance tag, carried opaquely from classification.
	Source Source `json:"source"`
}

// ModuleRef pairs a filesystem locator with its dotted module name.
// Each ref is consumed exactly once by an extractor.
type ModuleRef struct {
	Path   string
	Module string
}

// ScanOptions control one discovery pass.
type ScanOptions struct {
	// Recursive scans submodules in addition to the root directory.
	Recursive bool
	// IncludePrivate surfaces underscore-prefixed names and modules.
	IncludePrivate bool
	// Origin overrides provenance derivation when non-nil.
	Origin *Source
}

// DefaultScanOptions returns the default pass configuration: recursive,
// public names only.
func DefaultScanOptions() ScanOptions {
	return ScanOptions{Recursive: true}
}

// MemberKind classifies a reflected module member.
type MemberKind string

const (
	MemberClass    MemberKind = "class"
	MemberFunction MemberKind = "function"
	MemberBuiltin  MemberKind = "builtin"
	MemberOther    MemberKind = "other"
)

// Member is one (name, kind) pair reported by a ModuleReflector.
type Member struct {
	Name string     `json:"name"`
	Kind MemberKind `json:"kind"`
}

// RuntimeModule is the reflected surface of a loaded runtime module.
type RuntimeModule struct {
	// Exports is the module's explicit export list; nil when the module
	// declares none.
	Exports []string
	// Members are the module's attributes with their kinds.
	Members []Member
}

// ModuleReflector loads a module in the host runtime and reports its
// surface. A load failure is an error; the engine degrades it to an empty
// result and never propagates it.
type ModuleReflector interface {
	Load(ctx context.Context, identifier string) (*RuntimeModule, error)
}

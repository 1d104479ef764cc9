package discovery

import (
	"os"
	"path/filepath"
	"strings"

	"pyidx/internal/paths"
)

// Environment describes the host layout used to derive provenance tags.
// Zero-value fields disable the corresponding classification.
type Environment struct {
	// ProjectRoot is the project source root.
	ProjectRoot string
	// InterpreterPrefix is the interpreter's sys.prefix.
	InterpreterPrefix string
}

// Classify inspects a filesystem path and reports the package name and
// layout it represents. ok is false when the path matches no known layout:
// hidden entries, directories without Python sources, missing paths.
func Classify(path string) (string, PackageType, bool) {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") {
		return "", 0, false
	}

	info, err := os.Stat(path)
	if err != nil {
		return "", 0, false
	}

	if info.IsDir() {
		if !hasModuleFiles(path) {
			return "", 0, false
		}
		return base, PackageDirectory, true
	}

	switch {
	case strings.HasSuffix(base, ".py"):
		return strings.TrimSuffix(base, ".py"), PackageSingleFile, true
	case strings.HasSuffix(base, ".so"), strings.HasSuffix(base, ".pyd"):
		// Extension names carry ABI tags: mod.cpython-312-x86_64.so.
		name, _, _ := strings.Cut(base, ".")
		return name, PackageCompiled, true
	}
	return "", 0, false
}

// hasModuleFiles reports whether dir directly contains an initializer or
// any Python source file.
func hasModuleFiles(dir string) bool {
	if _, err := os.Stat(filepath.Join(dir, "__init__.py")); err == nil {
		return true
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return false
	}
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".py") {
			return true
		}
	}
	return false
}

// DeriveSource derives the provenance tag for a path. Project containment
// wins over an installed-library location, which wins over the interpreter's
// own tree.
func DeriveSource(path string, env Environment) Source {
	abs, err := filepath.Abs(path)
	if err != nil {
		return SourceUnknown
	}

	if env.ProjectRoot != "" && paths.IsWithinRoot(abs, env.ProjectRoot) {
		return SourceProject
	}
	if hasPathSegment(abs, "site-packages") || hasPathSegment(abs, "dist-packages") {
		return SourceSitePackage
	}
	if env.InterpreterPrefix != "" && paths.IsWithinRoot(abs, env.InterpreterPrefix) {
		return SourceStdlib
	}
	return SourceUnknown
}

func hasPathSegment(path, segment string) bool {
	for _, part := range strings.Split(path, string(filepath.Separator)) {
		if part == segment {
			return true
		}
	}
	return false
}

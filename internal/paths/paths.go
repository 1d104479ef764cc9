// Package paths resolves pyidx data locations and canonicalizes scan paths.
package paths

import (
	"os"
	"path/filepath"
	"strings"
)

const (
	// DataDirName is the per-project data directory created next to the code.
	DataDirName = ".pyidx"

	// DataDirEnvVar overrides the data directory location when set.
	DataDirEnvVar = "PYIDX_DATA_DIR"

	// DBFileName is the SQLite name index inside the data directory.
	DBFileName = "pyidx.db"

	// PolicyFileName is the scan policy file inside the data directory.
	PolicyFileName = "policy.yaml"

	// ConfigFileName is the configuration file inside the data directory.
	ConfigFileName = "config.json"
)

// DataDir returns the pyidx data directory for a project root.
// The PYIDX_DATA_DIR environment variable takes precedence when set.
func DataDir(projectRoot string) string {
	if env := os.Getenv(DataDirEnvVar); env != "" {
		return env
	}
	return filepath.Join(projectRoot, DataDirName)
}

// EnsureDataDir creates the data directory if it does not exist and returns it.
func EnsureDataDir(projectRoot string) (string, error) {
	dir := DataDir(projectRoot)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	return dir, nil
}

// DBPath returns the path of the SQLite name index for a project root.
func DBPath(projectRoot string) string {
	return filepath.Join(DataDir(projectRoot), DBFileName)
}

// PolicyPath returns the path of the scan policy file for a project root.
func PolicyPath(projectRoot string) string {
	return filepath.Join(DataDir(projectRoot), PolicyFileName)
}

// ConfigPath returns the path of the config file for a project root.
func ConfigPath(projectRoot string) string {
	return filepath.Join(DataDir(projectRoot), ConfigFileName)
}

// CanonicalizePath converts an absolute path to a root-relative canonical path
// - Resolves symlinks to real paths
// - Makes path relative to the given root
// - Converts backslashes to forward slashes
// - Returns root-relative path with forward slashes
func CanonicalizePath(absolutePath string, root string) (string, error) {
	// Resolve symlinks
	resolved, err := filepath.EvalSymlinks(absolutePath)
	if err != nil {
		// If the file doesn't exist yet, use the path as-is
		if os.IsNotExist(err) {
			resolved = absolutePath
		} else {
			return "", err
		}
	}

	rootResolved, err := filepath.EvalSymlinks(root)
	if err != nil {
		if os.IsNotExist(err) {
			rootResolved = root
		} else {
			return "", err
		}
	}

	relativePath, err := filepath.Rel(rootResolved, resolved)
	if err != nil {
		return "", err
	}

	// Convert to forward slashes (platform independent)
	return filepath.ToSlash(relativePath), nil
}

// IsWithinRoot checks if a path is inside the given root directory.
func IsWithinRoot(path string, root string) bool {
	canonical, err := CanonicalizePath(path, root)
	if err != nil {
		return false
	}

	// Path is outside the root if it starts with ..
	return canonical != ".." && !strings.HasPrefix(canonical, "../")
}

// NormalizePath normalizes a path by converting backslashes to forward slashes
// This is useful for paths that are already relative but need normalization
func NormalizePath(path string) string {
	return filepath.ToSlash(path)
}

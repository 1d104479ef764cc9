package project

import (
	"os"
	"path/filepath"
	"testing"
)

// Helper to create a temp directory with files
func setupTestDir(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for f, content := range files {
		path := filepath.Join(dir, f)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatalf("failed to create dir for %s: %v", f, err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("failed to create file %s: %v", f, err)
		}
	}
	return dir
}

func TestDetect(t *testing.T) {
	tests := []struct {
		name         string
		files        map[string]string
		wantManifest ManifestKind
		wantOk       bool
	}{
		{
			name:         "pyproject project",
			files:        map[string]string{"pyproject.toml": "", "main.py": ""},
			wantManifest: ManifestPyproject,
			wantOk:       true,
		},
		{
			name:         "setup.py project",
			files:        map[string]string{"setup.py": "", "pkg/__init__.py": ""},
			wantManifest: ManifestSetupPy,
			wantOk:       true,
		},
		{
			name:         "setup.cfg project",
			files:        map[string]string{"setup.cfg": ""},
			wantManifest: ManifestSetupCfg,
			wantOk:       true,
		},
		{
			name:         "Pipfile project",
			files:        map[string]string{"Pipfile": "[packages]\n"},
			wantManifest: ManifestPipfile,
			wantOk:       true,
		},
		{
			name:         "requirements.txt project",
			files:        map[string]string{"requirements.txt": "requests\n"},
			wantManifest: ManifestRequirements,
			wantOk:       true,
		},
		{
			name:         "pyproject takes priority over requirements",
			files:        map[string]string{"pyproject.toml": "", "requirements.txt": ""},
			wantManifest: ManifestPyproject,
			wantOk:       true,
		},
		{
			name:   "no manifest",
			files:  map[string]string{"README.md": "", "notes.txt": ""},
			wantOk: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := setupTestDir(t, tt.files)
			info, ok := Detect(dir)
			if ok != tt.wantOk {
				t.Fatalf("Detect() ok = %v, want %v", ok, tt.wantOk)
			}
			if !ok {
				return
			}
			if info.Manifest != tt.wantManifest {
				t.Errorf("Detect() manifest = %v, want %v", info.Manifest, tt.wantManifest)
			}
			if info.Root != dir {
				t.Errorf("Detect() root = %q, want %q", info.Root, dir)
			}
		})
	}
}

func TestDetectWalksUp(t *testing.T) {
	dir := setupTestDir(t, map[string]string{
		"pyproject.toml":          "[project]\nname = \"weaver\"\n",
		"weaver/core/__init__.py": "",
	})

	info, ok := Detect(filepath.Join(dir, "weaver", "core"))
	if !ok {
		t.Fatal("Detect() should find the manifest in an ancestor directory")
	}
	if info.Root != dir {
		t.Errorf("Detect() root = %q, want %q", info.Root, dir)
	}
	if info.Name != "weaver" {
		t.Errorf("Detect() name = %q, want %q", info.Name, "weaver")
	}
}

func TestDetectLayout(t *testing.T) {
	tests := []struct {
		name  string
		files map[string]string
		want  Layout
	}{
		{
			name:  "src layout with package",
			files: map[string]string{"pyproject.toml": "", "src/weaver/__init__.py": ""},
			want:  LayoutSrc,
		},
		{
			name:  "src layout with loose modules",
			files: map[string]string{"pyproject.toml": "", "src/app.py": ""},
			want:  LayoutSrc,
		},
		{
			name:  "flat layout",
			files: map[string]string{"pyproject.toml": "", "weaver/__init__.py": ""},
			want:  LayoutFlat,
		},
		{
			name:  "src dir without Python code stays flat",
			files: map[string]string{"pyproject.toml": "", "src/data.json": ""},
			want:  LayoutFlat,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := setupTestDir(t, tt.files)
			info, ok := Detect(dir)
			if !ok {
				t.Fatal("Detect() failed")
			}
			if info.Layout != tt.want {
				t.Errorf("Detect() layout = %v, want %v", info.Layout, tt.want)
			}
		})
	}
}

func TestDetectParsesPyproject(t *testing.T) {
	dir := setupTestDir(t, map[string]string{
		"pyproject.toml": `[project]
name = "weaver"
dependencies = ["requests>=2.0", "attrs"]

[tool.pyidx]
includePrivate = true
denyModules = ["secrets"]
`,
	})

	info, ok := Detect(dir)
	if !ok {
		t.Fatal("Detect() failed")
	}

	if info.Name != "weaver" {
		t.Errorf("name = %q, want %q", info.Name, "weaver")
	}
	if len(info.Dependencies) != 2 || info.Dependencies[0] != "requests>=2.0" {
		t.Errorf("dependencies = %v, want [requests>=2.0 attrs]", info.Dependencies)
	}
	if info.Overrides == nil {
		t.Fatal("overrides should be populated from [tool.pyidx]")
	}
	if info.Overrides.IncludePrivate == nil || !*info.Overrides.IncludePrivate {
		t.Error("overrides.IncludePrivate should be true")
	}
	if len(info.Overrides.DenyModules) != 1 || info.Overrides.DenyModules[0] != "secrets" {
		t.Errorf("overrides.DenyModules = %v, want [secrets]", info.Overrides.DenyModules)
	}
	if info.Overrides.FollowSrcLayout != nil {
		t.Error("unset overrides.FollowSrcLayout should stay nil")
	}
}

func TestDetectMalformedPyproject(t *testing.T) {
	dir := setupTestDir(t, map[string]string{
		"pyproject.toml": "[project\nname = broken",
	})

	info, ok := Detect(dir)
	if !ok {
		t.Fatal("Detect() should still succeed on a malformed manifest")
	}
	if info.Name != filepath.Base(dir) {
		t.Errorf("name should fall back to the directory name, got %q", info.Name)
	}
	if info.Overrides != nil {
		t.Error("overrides should be nil for a malformed manifest")
	}
}

func TestDetectParsesPipfile(t *testing.T) {
	dir := setupTestDir(t, map[string]string{
		"Pipfile": `[packages]
requests = "*"
attrs = { version = ">=21.0" }

[dev-packages]
pytest = "*"
`,
	})

	info, ok := Detect(dir)
	if !ok {
		t.Fatal("Detect() failed")
	}
	if len(info.Dependencies) != 2 {
		t.Fatalf("dependencies = %v, want two entries", info.Dependencies)
	}
	// Sorted for stable output; dev-packages are excluded.
	if info.Dependencies[0] != "attrs" || info.Dependencies[1] != "requests" {
		t.Errorf("dependencies = %v, want [attrs requests]", info.Dependencies)
	}
}

func TestScanRoot(t *testing.T) {
	srcDir := setupTestDir(t, map[string]string{
		"pyproject.toml":         "",
		"src/weaver/__init__.py": "",
	})
	flatDir := setupTestDir(t, map[string]string{
		"pyproject.toml":     "",
		"weaver/__init__.py": "",
	})

	srcInfo, _ := Detect(srcDir)
	if got, want := srcInfo.ScanRoot(), filepath.Join(srcDir, "src"); got != want {
		t.Errorf("ScanRoot() = %q, want %q", got, want)
	}

	flatInfo, _ := Detect(flatDir)
	if got := flatInfo.ScanRoot(); got != flatDir {
		t.Errorf("ScanRoot() = %q, want %q", got, flatDir)
	}
}

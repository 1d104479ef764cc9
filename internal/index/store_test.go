package index

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"pyidx/internal/discovery"
	"pyidx/internal/logging"
)

func setupTestDB(t *testing.T) *DB {
	t.Helper()
	logger := logging.NewLogger(logging.Config{Output: io.Discard, Level: logging.ErrorLevel})
	db, err := Open(filepath.Join(t.TempDir(), "pyidx.db"), logger)
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("close database: %v", err)
		}
	})
	return db
}

func record(name, module, pkg string, src discovery.Source) discovery.Name {
	return discovery.Name{Name: name, Module: module, Package: pkg, Source: src}
}

func TestOpenInitializesSchema(t *testing.T) {
	db := setupTestDB(t)

	if _, err := os.Stat(db.Path()); err != nil {
		t.Fatalf("database file missing: %v", err)
	}
	version, err := db.getSchemaVersion()
	if err != nil {
		t.Fatalf("get schema version: %v", err)
	}
	if version != currentSchemaVersion {
		t.Errorf("schema version = %d, want %d", version, currentSchemaVersion)
	}
}

func TestOpenExistingDatabase(t *testing.T) {
	logger := logging.NewLogger(logging.Config{Output: io.Discard, Level: logging.ErrorLevel})
	dbPath := filepath.Join(t.TempDir(), "pyidx.db")

	db, err := Open(dbPath, logger)
	if err != nil {
		t.Fatalf("first open: %v", err)
	}
	if err := db.ReplacePackage("pkg", []discovery.Name{record("x", "pkg", "pkg", discovery.SourceProject)}); err != nil {
		t.Fatalf("replace: %v", err)
	}
	if err := db.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reopened, err := Open(dbPath, logger)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()

	names, err := reopened.AllNames()
	if err != nil {
		t.Fatalf("all names: %v", err)
	}
	if len(names) != 1 || names[0].Name != "x" {
		t.Errorf("persisted names = %v, want [x]", names)
	}
}

func TestReplacePackage(t *testing.T) {
	db := setupTestDB(t)

	if err := db.ReplacePackage("requests", []discovery.Name{
		record("get", "requests.api", "requests", discovery.SourceSitePackage),
		record("post", "requests.api", "requests", discovery.SourceSitePackage),
	}); err != nil {
		t.Fatalf("replace: %v", err)
	}
	if err := db.ReplacePackage("flask", []discovery.Name{
		record("Flask", "flask.app", "flask", discovery.SourceSitePackage),
	}); err != nil {
		t.Fatalf("replace: %v", err)
	}

	// A second replace swaps the old record set entirely.
	if err := db.ReplacePackage("requests", []discovery.Name{
		record("request", "requests.sessions", "requests", discovery.SourceSitePackage),
	}); err != nil {
		t.Fatalf("second replace: %v", err)
	}

	names, err := db.AllNames()
	if err != nil {
		t.Fatalf("all names: %v", err)
	}
	got := make([]string, len(names))
	for i, n := range names {
		got[i] = n.Name
	}
	want := []string{"Flask", "request"}
	if len(got) != len(want) {
		t.Fatalf("names = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("names[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestReplacePackageEmptyClears(t *testing.T) {
	db := setupTestDB(t)

	if err := db.ReplacePackage("pkg", []discovery.Name{
		record("x", "pkg", "pkg", discovery.SourceProject),
	}); err != nil {
		t.Fatalf("replace: %v", err)
	}
	if err := db.ReplacePackage("pkg", nil); err != nil {
		t.Fatalf("clear: %v", err)
	}

	names, err := db.AllNames()
	if err != nil {
		t.Fatalf("all names: %v", err)
	}
	if len(names) != 0 {
		t.Errorf("names = %v, want empty", names)
	}
}

func TestSearchExactBeforePrefix(t *testing.T) {
	db := setupTestDB(t)

	if err := db.ReplacePackage("mixed", []discovery.Name{
		record("path", "os", "os", discovery.SourceStdlib),
		record("path", "mytool.fs", "mytool", discovery.SourceProject),
		record("pathlib", "pathlib", "pathlib", discovery.SourceStdlib),
		record("pathfinder", "nav", "nav", discovery.SourceSitePackage),
		record("unrelated", "other", "other", discovery.SourceProject),
	}); err != nil {
		t.Fatalf("replace: %v", err)
	}

	got, err := db.Search("path", SearchOptions{})
	if err != nil {
		t.Fatalf("search: %v", err)
	}

	want := []struct {
		name   string
		module string
	}{
		{"path", "mytool.fs"}, // exact, project ranks first
		{"path", "os"},        // exact, stdlib
		{"pathfinder", "nav"}, // prefix, site-package
		{"pathlib", "pathlib"},
	}
	if len(got) != len(want) {
		t.Fatalf("results = %v, want %d entries", got, len(want))
	}
	for i, w := range want {
		if got[i].Name != w.name || got[i].Module != w.module {
			t.Errorf("results[%d] = %s/%s, want %s/%s", i, got[i].Name, got[i].Module, w.name, w.module)
		}
	}
}

func TestSearchExactOnly(t *testing.T) {
	db := setupTestDB(t)

	if err := db.ReplacePackage("pkg", []discovery.Name{
		record("load", "pkg.io", "pkg", discovery.SourceProject),
		record("loads", "pkg.io", "pkg", discovery.SourceProject),
	}); err != nil {
		t.Fatalf("replace: %v", err)
	}

	got, err := db.Search("load", SearchOptions{ExactOnly: true})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(got) != 1 || got[0].Name != "load" {
		t.Errorf("results = %v, want exactly load", got)
	}
}

func TestSearchUnderscoreIsLiteral(t *testing.T) {
	db := setupTestDB(t)

	if err := db.ReplacePackage("pkg", []discovery.Name{
		record("my_helper", "pkg.a", "pkg", discovery.SourceProject),
		record("myxhelper", "pkg.b", "pkg", discovery.SourceProject),
	}); err != nil {
		t.Fatalf("replace: %v", err)
	}

	got, err := db.Search("my_", SearchOptions{})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(got) != 1 || got[0].Name != "my_helper" {
		t.Errorf("results = %v, want only my_helper", got)
	}
}

func TestSearchLimit(t *testing.T) {
	db := setupTestDB(t)

	names := []discovery.Name{
		record("alpha", "pkg.a", "pkg", discovery.SourceProject),
		record("alphabet", "pkg.b", "pkg", discovery.SourceProject),
		record("alphanumeric", "pkg.c", "pkg", discovery.SourceProject),
	}
	if err := db.ReplacePackage("pkg", names); err != nil {
		t.Fatalf("replace: %v", err)
	}

	got, err := db.Search("alpha", SearchOptions{Limit: 2})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("results = %v, want 2 entries", got)
	}
	if got[0].Name != "alpha" || got[1].Name != "alphabet" {
		t.Errorf("results = %v, want [alpha alphabet]", got)
	}
}

func TestPackages(t *testing.T) {
	db := setupTestDB(t)

	if err := db.ReplacePackage("beta", []discovery.Name{
		record("b", "beta", "beta", discovery.SourceSitePackage),
	}); err != nil {
		t.Fatalf("replace: %v", err)
	}
	if err := db.ReplacePackage("alpha", []discovery.Name{
		record("a1", "alpha.one", "alpha", discovery.SourceProject),
		record("a2", "alpha.one", "alpha", discovery.SourceProject),
		record("a3", "alpha.two", "alpha", discovery.SourceProject),
	}); err != nil {
		t.Fatalf("replace: %v", err)
	}

	infos, err := db.Packages()
	if err != nil {
		t.Fatalf("packages: %v", err)
	}
	if len(infos) != 2 {
		t.Fatalf("packages = %v, want 2 entries", infos)
	}
	if infos[0].Package != "alpha" || infos[0].Modules != 2 || infos[0].Names != 3 {
		t.Errorf("alpha info = %+v", infos[0])
	}
	if infos[0].Source != discovery.SourceProject {
		t.Errorf("alpha source = %v, want %v", infos[0].Source, discovery.SourceProject)
	}
	if infos[1].Package != "beta" || infos[1].Names != 1 {
		t.Errorf("beta info = %+v", infos[1])
	}
}

func TestGetStats(t *testing.T) {
	db := setupTestDB(t)

	if err := db.ReplacePackage("pkg", []discovery.Name{
		record("a", "pkg.one", "pkg", discovery.SourceProject),
		record("b", "pkg.two", "pkg", discovery.SourceProject),
	}); err != nil {
		t.Fatalf("replace: %v", err)
	}

	stats, err := db.GetStats()
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.Names != 2 || stats.Modules != 2 || stats.Packages != 1 {
		t.Errorf("stats = %+v", stats)
	}
	if stats.LastScan != nil {
		t.Errorf("last scan = %+v, want nil before any run", stats.LastScan)
	}
}

func TestDeletePackage(t *testing.T) {
	db := setupTestDB(t)

	if err := db.ReplacePackage("gone", []discovery.Name{
		record("x", "gone", "gone", discovery.SourceProject),
		record("y", "gone", "gone", discovery.SourceProject),
	}); err != nil {
		t.Fatalf("replace: %v", err)
	}

	deleted, err := db.DeletePackage("gone")
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if deleted != 2 {
		t.Errorf("deleted = %d, want 2", deleted)
	}

	names, err := db.AllNames()
	if err != nil {
		t.Fatalf("all names: %v", err)
	}
	if len(names) != 0 {
		t.Errorf("names = %v, want empty", names)
	}
}

func TestReset(t *testing.T) {
	db := setupTestDB(t)

	if err := db.ReplacePackage("pkg", []discovery.Name{
		record("a", "pkg", "pkg", discovery.SourceProject),
	}); err != nil {
		t.Fatalf("replace: %v", err)
	}
	if err := db.RecordFile("/tmp/pkg.py", "abc123"); err != nil {
		t.Fatalf("record file: %v", err)
	}
	scan, err := db.BeginScan("/tmp")
	if err != nil {
		t.Fatalf("begin scan: %v", err)
	}
	if err := db.FinishScan(scan.ID, 1, 1); err != nil {
		t.Fatalf("finish scan: %v", err)
	}

	if err := db.Reset(); err != nil {
		t.Fatalf("reset: %v", err)
	}

	names, err := db.AllNames()
	if err != nil {
		t.Fatalf("all names: %v", err)
	}
	if len(names) != 0 {
		t.Errorf("names survived reset: %v", names)
	}
	if _, ok, err := db.LookupFile("/tmp/pkg.py"); err != nil || ok {
		t.Errorf("file digest survived reset (ok=%v, err=%v)", ok, err)
	}

	// Scan history is deliberately kept.
	last, err := db.LastScan()
	if err != nil {
		t.Fatalf("last scan: %v", err)
	}
	if last == nil {
		t.Error("scan history should survive a reset")
	}
}

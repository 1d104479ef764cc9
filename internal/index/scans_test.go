package index

import "testing"

func TestScanLifecycle(t *testing.T) {
	db := setupTestDB(t)

	rec, err := db.BeginScan("/work/project")
	if err != nil {
		t.Fatalf("begin scan: %v", err)
	}
	if rec.ID == "" {
		t.Fatal("scan record has no id")
	}

	last, err := db.LastScan()
	if err != nil {
		t.Fatalf("last scan: %v", err)
	}
	if last == nil || last.ID != rec.ID {
		t.Fatalf("last scan = %+v, want id %s", last, rec.ID)
	}
	if !last.FinishedAt.IsZero() {
		t.Error("running scan should have zero finish time")
	}

	if err := db.FinishScan(rec.ID, 3, 120); err != nil {
		t.Fatalf("finish scan: %v", err)
	}
	last, err = db.LastScan()
	if err != nil {
		t.Fatalf("last scan after finish: %v", err)
	}
	if last.Packages != 3 || last.Names != 120 {
		t.Errorf("counts = %d/%d, want 3/120", last.Packages, last.Names)
	}
	if last.FinishedAt.IsZero() {
		t.Error("finished scan should carry a finish time")
	}
	if last.Root != "/work/project" {
		t.Errorf("root = %q, want /work/project", last.Root)
	}
}

func TestLastScanEmpty(t *testing.T) {
	db := setupTestDB(t)

	last, err := db.LastScan()
	if err != nil {
		t.Fatalf("last scan: %v", err)
	}
	if last != nil {
		t.Errorf("last scan = %+v, want nil", last)
	}
}

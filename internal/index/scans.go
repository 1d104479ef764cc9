package index

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// ScanRecord is one index run. FinishedAt is zero while the run is in
// progress.
type ScanRecord struct {
	ID         string    `json:"id"`
	StartedAt  time.Time `json:"startedAt"`
	FinishedAt time.Time `json:"finishedAt,omitempty"`
	Root       string    `json:"root"`
	Packages   int64     `json:"packages"`
	Names      int64     `json:"names"`
}

// BeginScan records the start of an index run over root.
func (db *DB) BeginScan(root string) (*ScanRecord, error) {
	rec := &ScanRecord{
		ID:        uuid.New().String(),
		StartedAt: time.Now().UTC(),
		Root:      root,
	}
	_, err := db.Exec(`
		INSERT INTO scans (id, started_at, root) VALUES (?, ?, ?)
	`, rec.ID, rec.StartedAt.Format(time.RFC3339), rec.Root)
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// FinishScan closes out a run with its final counts.
func (db *DB) FinishScan(id string, packages, names int64) error {
	_, err := db.Exec(`
		UPDATE scans SET finished_at = ?, packages = ?, names = ? WHERE id = ?
	`, time.Now().UTC().Format(time.RFC3339), packages, names, id)
	return err
}

// LastScan returns the most recently started run, or nil when the index
// has never been built.
func (db *DB) LastScan() (*ScanRecord, error) {
	var rec ScanRecord
	var startedAt string
	var finishedAt sql.NullString
	err := db.QueryRow(`
		SELECT id, started_at, finished_at, root, packages, names
		FROM scans
		ORDER BY started_at DESC, id DESC
		LIMIT 1
	`).Scan(&rec.ID, &startedAt, &finishedAt, &rec.Root, &rec.Packages, &rec.Names)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	rec.StartedAt, _ = time.Parse(time.RFC3339, startedAt)
	if finishedAt.Valid {
		rec.FinishedAt, _ = time.Parse(time.RFC3339, finishedAt.String)
	}
	return &rec, nil
}

package index

import (
	"database/sql"
	"encoding/hex"
	"io"
	"os"
	"time"

	"golang.org/x/crypto/blake2b"
)

// HashFile computes the hex BLAKE2b-256 digest of a file's contents.
func HashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h, err := blake2b.New256(nil)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// LookupFile returns the stored digest for path; ok is false when the
// file has never been indexed.
func (db *DB) LookupFile(path string) (string, bool, error) {
	var digest string
	err := db.QueryRow("SELECT digest FROM files WHERE path = ?", path).Scan(&digest)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return digest, true, nil
}

// RecordFile stores or refreshes the digest for path.
func (db *DB) RecordFile(path, digest string) error {
	_, err := db.Exec(`
		INSERT INTO files (path, digest, indexed_at) VALUES (?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET digest = excluded.digest, indexed_at = excluded.indexed_at
	`, path, digest, time.Now().UTC().Format(time.RFC3339))
	return err
}

// FileUnchanged reports whether path's current contents match the stored
// digest, returning the fresh digest for recording after a rescan.
func (db *DB) FileUnchanged(path string) (string, bool, error) {
	digest, err := HashFile(path)
	if err != nil {
		return "", false, err
	}
	stored, ok, err := db.LookupFile(path)
	if err != nil {
		return "", false, err
	}
	return digest, ok && stored == digest, nil
}

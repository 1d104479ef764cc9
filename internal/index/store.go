package index

import (
	"database/sql"
	"strings"

	"pyidx/internal/discovery"
)

// DefaultSearchLimit caps a search when the caller sets none.
const DefaultSearchLimit = 50

// SearchOptions control one index lookup.
type SearchOptions struct {
	// ExactOnly disables the prefix fallback.
	ExactOnly bool
	// Limit caps the total result count; <= 0 means DefaultSearchLimit.
	Limit int
}

// PackageInfo summarizes one indexed package.
type PackageInfo struct {
	Package string           `json:"package"`
	Modules int64            `json:"modules"`
	Names   int64            `json:"names"`
	Source  discovery.Source `json:"source"`
}

// Stats summarizes the whole index.
type Stats struct {
	Names    int64       `json:"names"`
	Modules  int64       `json:"modules"`
	Packages int64       `json:"packages"`
	Files    int64       `json:"files"`
	LastScan *ScanRecord `json:"lastScan,omitempty"`
}

// ReplacePackage atomically swaps the stored records of one package for
// the given set. Passing no names clears the package.
func (db *DB) ReplacePackage(pkg string, names []discovery.Name) error {
	return db.WithTx(func(tx *sql.Tx) error {
		if _, err := tx.Exec("DELETE FROM names WHERE package = ?", pkg); err != nil {
			return err
		}

		stmt, err := tx.Prepare(`
			INSERT INTO names (name, module, package, source)
			VALUES (?, ?, ?, ?)
		`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, n := range names {
			if _, err := stmt.Exec(n.Name, n.Module, n.Package, int(n.Source)); err != nil {
				return err
			}
		}
		return nil
	})
}

// Search looks a name up in the index. Exact matches come first, then
// prefix matches, each ranked by source order and then alphabetically.
func (db *DB) Search(query string, opts SearchOptions) ([]discovery.Name, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	results, err := db.queryNames(`
		SELECT name, module, package, source FROM names
		WHERE name = ?
		ORDER BY source, module
		LIMIT ?
	`, query, limit)
	if err != nil {
		return nil, err
	}

	if opts.ExactOnly || len(results) >= limit {
		return results, nil
	}

	// Underscores are common in Python names and must match literally.
	prefix, err := db.queryNames(`
		SELECT name, module, package, source FROM names
		WHERE name LIKE ? ESCAPE '\' AND name <> ?
		ORDER BY source, name, module
		LIMIT ?
	`, escapeLike(query)+"%", query, limit-len(results))
	if err != nil {
		return nil, err
	}
	return append(results, prefix...), nil
}

// Packages lists indexed packages with record counts, ordered by name.
func (db *DB) Packages() ([]PackageInfo, error) {
	rows, err := db.Query(`
		SELECT package, COUNT(DISTINCT module), COUNT(*), MIN(source)
		FROM names
		GROUP BY package
		ORDER BY package
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var infos []PackageInfo
	for rows.Next() {
		var info PackageInfo
		var src int
		if err := rows.Scan(&info.Package, &info.Modules, &info.Names, &src); err != nil {
			return nil, err
		}
		info.Source = discovery.Source(src)
		infos = append(infos, info)
	}
	return infos, rows.Err()
}

// GetStats reports index totals and the most recent scan.
func (db *DB) GetStats() (*Stats, error) {
	stats := &Stats{}
	err := db.QueryRow(`
		SELECT COUNT(*), COUNT(DISTINCT module), COUNT(DISTINCT package)
		FROM names
	`).Scan(&stats.Names, &stats.Modules, &stats.Packages)
	if err != nil {
		return nil, err
	}

	if err := db.QueryRow("SELECT COUNT(*) FROM files").Scan(&stats.Files); err != nil {
		return nil, err
	}

	last, err := db.LastScan()
	if err != nil {
		return nil, err
	}
	stats.LastScan = last
	return stats, nil
}

// DeletePackage removes all records of one package and reports how many
// rows went away.
func (db *DB) DeletePackage(pkg string) (int64, error) {
	result, err := db.Exec("DELETE FROM names WHERE package = ?", pkg)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// Reset clears every stored name and file digest. Scan history survives a
// reset; a rebuild is a new scan, not a new database.
func (db *DB) Reset() error {
	return db.WithTx(func(tx *sql.Tx) error {
		if _, err := tx.Exec("DELETE FROM names"); err != nil {
			return err
		}
		if _, err := tx.Exec("DELETE FROM files"); err != nil {
			return err
		}
		return nil
	})
}

// AllNames returns every stored record in stable package/module/name
// order, feeding exports.
func (db *DB) AllNames() ([]discovery.Name, error) {
	return db.queryNames(`
		SELECT name, module, package, source FROM names
		ORDER BY package, module, name
	`)
}

func (db *DB) queryNames(query string, args ...interface{}) ([]discovery.Name, error) {
	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []discovery.Name
	for rows.Next() {
		var n discovery.Name
		var src int
		if err := rows.Scan(&n.Name, &n.Module, &n.Package, &src); err != nil {
			return nil, err
		}
		n.Source = discovery.Source(src)
		names = append(names, n)
	}
	return names, rows.Err()
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

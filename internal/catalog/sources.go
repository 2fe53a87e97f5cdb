package catalog

import (
	"strings"
	"time"
)

// Sources returns all configured music source directories.
func (c *Catalog) Sources() ([]string, error) {
	rows, err := c.db.Query(`SELECT path FROM sources ORDER BY added_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sources []string
	for rows.Next() {
		var path string
		if err := rows.Scan(&path); err != nil {
			return nil, err
		}
		sources = append(sources, path)
	}
	return sources, rows.Err()
}

// AddSource registers a music source directory. Adding a directory twice
// is not an error.
func (c *Catalog) AddSource(path string) error {
	_, err := c.db.Exec(`
		INSERT OR IGNORE INTO sources (path, added_at) VALUES (?, ?)
	`, path, time.Now().Unix())
	return err
}

// RemoveSource drops a source directory and every track under it.
func (c *Catalog) RemoveSource(path string) error {
	prefix := path
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}

	if _, err := c.db.Exec(`
		DELETE FROM tracks WHERE path LIKE ? ESCAPE '\'
	`, likePrefixPattern(prefix)); err != nil {
		return err
	}

	_, err := c.db.Exec(`DELETE FROM sources WHERE path = ?`, path)
	return err
}

// likePrefixPattern wraps prefix for a prefix LIKE match, escaping the LIKE
// metacharacters in it.
func likePrefixPattern(prefix string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(prefix) + "%"
}

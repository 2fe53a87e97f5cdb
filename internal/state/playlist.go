package state

import (
	"database/sql"

	dbutil "github.com/lmorel/tremolo/internal/db"
)

func getPlaylist(db *sql.DB) ([]int64, error) {
	rows, err := db.Query(`SELECT track_id FROM playlist_items ORDER BY position`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func savePlaylist(db *sql.DB, ids []int64) error {
	return dbutil.WithTx(db, func(tx *sql.Tx) error {
		if _, err := tx.Exec(`DELETE FROM playlist_items`); err != nil {
			return err
		}

		stmt, err := tx.Prepare(`INSERT INTO playlist_items (position, track_id) VALUES (?, ?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for i, id := range ids {
			if _, err := stmt.Exec(i, id); err != nil {
				return err
			}
		}
		return nil
	})
}

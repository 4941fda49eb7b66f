//go:build sqlite_fts5

package index

import (
	"database/sql"
	"fmt"
	"strings"
)

func initFTS(conn *sql.DB) error {
	_, err := conn.Exec(`
		CREATE VIRTUAL TABLE IF NOT EXISTS articles_fts USING fts5(
			path UNINDEXED,
			title,
			subject,
			author,
			tags,
			body,
			tokenize = 'unicode61 remove_diacritics 2'
		);
	`)
	return err
}

func ftsUpsert(tx *sql.Tx, row ArticleRow, body string) error {
	_, _ = tx.Exec(`DELETE FROM articles_fts WHERE path = ?`, row.Path)
	_, err := tx.Exec(`INSERT INTO articles_fts (path, title, subject, author, tags, body) VALUES (?, ?, ?, ?, ?, ?)`,
		row.Path, row.Title, row.Subject, row.Author, strings.Join(row.Tags, " "), body)
	if err != nil {
		return fmt.Errorf("index: upsert fts: %w", err)
	}
	return nil
}

func ftsReset(conn *sql.DB) {
	_, _ = conn.Exec(`DELETE FROM articles_fts`)
}

// Search performs an FTS5 full-text search and returns matching results with snippets.
func (db *DB) Search(query string, limit int) ([]SearchResult, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := db.conn.Query(`
		SELECT path,
		       title,
		       subject,
		       snippet(articles_fts, 5, '<b>', '</b>', '...', 64)
		FROM articles_fts
		WHERE articles_fts MATCH ?
		ORDER BY rank
		LIMIT ?
	`, query, limit)
	if err != nil {
		return nil, fmt.Errorf("index: search: %w", err)
	}
	defer rows.Close()

	var out []SearchResult
	for rows.Next() {
		var r SearchResult
		if err := rows.Scan(&r.Path, &r.Title, &r.Subject, &r.Snippet); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

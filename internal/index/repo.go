package index

import (
	"encoding/json"
	"fmt"

	"github.com/mkucera/catprep/internal/book"
	"github.com/mkucera/catprep/internal/resolver"
)

// ArticleRow represents a row in the articles table.
type ArticleRow struct {
	Path         string
	Title        string
	Subject      string
	Author       string
	Tags         []string
	LastModified string
}

// SearchResult represents one search hit.
type SearchResult struct {
	Path    string
	Title   string
	Subject string
	Snippet string
}

// Searcher is the read side of the index, as the preview server sees it.
type Searcher interface {
	Search(query string, limit int) ([]SearchResult, error)
}

var _ Searcher = (*DB)(nil)

// UpsertArticle inserts or replaces an article row and its FTS entry
// within a transaction.
func (db *DB) UpsertArticle(row ArticleRow, body string) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	tagsJSON, _ := json.Marshal(row.Tags)

	_, err = tx.Exec(`
		INSERT INTO articles (path, title, subject, author, tags, body, last_modified)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			title         = excluded.title,
			subject       = excluded.subject,
			author        = excluded.author,
			tags          = excluded.tags,
			body          = excluded.body,
			last_modified = excluded.last_modified
	`, row.Path, row.Title, row.Subject, row.Author, string(tagsJSON), body, row.LastModified)
	if err != nil {
		return fmt.Errorf("index: upsert article: %w", err)
	}

	if err := ftsUpsert(tx, row, body); err != nil {
		return err
	}

	return tx.Commit()
}

// Reset drops every row. Called before re-indexing after a rebuild.
func (db *DB) Reset() error {
	if _, err := db.conn.Exec(`DELETE FROM articles`); err != nil {
		return fmt.Errorf("index: reset: %w", err)
	}
	ftsReset(db.conn)
	return nil
}

// CountArticles returns the number of indexed articles.
func (db *DB) CountArticles() (int, error) {
	var n int
	if err := db.conn.QueryRow(`SELECT count(*) FROM articles`).Scan(&n); err != nil {
		return 0, fmt.Errorf("index: count: %w", err)
	}
	return n, nil
}

// IndexContext re-populates the index from a resolved context, taking
// each article's searchable body from the rendered book.
func IndexContext(db *DB, cc *resolver.Context, b *book.Book) error {
	if err := db.Reset(); err != nil {
		return err
	}
	for i := range cc.Articles {
		a := &cc.Articles[i]

		body := ""
		if doc, ok := b.Get(a.Path); ok {
			body = doc.Content
		}
		subject := ""
		if a.SubjectCard != nil {
			subject = a.SubjectCard.Title
		}

		row := ArticleRow{
			Path:         a.Path,
			Title:        a.Card.Title,
			Subject:      subject,
			Author:       a.Author,
			Tags:         a.Card.Tags,
			LastModified: a.LastModified,
		}
		if err := db.UpsertArticle(row, body); err != nil {
			return err
		}
	}
	return nil
}

// Package testutil provides shared test helpers: an in-memory book
// builder, a canned git source, and a temporary search database.
package testutil

import (
	"os"
	"sort"
	"testing"

	"github.com/mkucera/catprep/internal/book"
	"github.com/mkucera/catprep/internal/gitmeta"
	"github.com/mkucera/catprep/internal/index"
)

// BookOf builds a book from a path → content map, path-sorted like
// book.LoadDir would produce.
func BookOf(docs map[string]string) *book.Book {
	paths := make([]string, 0, len(docs))
	for p := range docs {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	b := book.New()
	for _, p := range paths {
		b.Append(&book.Document{Path: p, Content: docs[p]})
	}
	return b
}

// FakeGit is a canned gitmeta.Source for resolver tests.
type FakeGit struct {
	// RepoErr, when set, is returned by EnsureRepo.
	RepoErr error
	// CreatedByUser maps a username to the created-file set returned for
	// that teacher. FilesCreated is keyed on the username argument only.
	CreatedByUser map[string][]string
	// CreatedErrByUser makes FilesCreated fail for specific teachers.
	CreatedErrByUser map[string]error
	// ModifiedAt and ModifiedBy answer the last-commit queries per path.
	ModifiedAt map[string]string
	ModifiedBy map[string]string
	// ModifiedErr makes LastModified fail for specific paths.
	ModifiedErr map[string]error
}

var _ gitmeta.Source = (*FakeGit)(nil)

func (f *FakeGit) EnsureRepo() error { return f.RepoErr }

func (f *FakeGit) FilesCreated(_, _, username string) ([]string, error) {
	if err := f.CreatedErrByUser[username]; err != nil {
		return nil, err
	}
	return f.CreatedByUser[username], nil
}

func (f *FakeGit) LastModified(path string) (string, error) {
	if err := f.ModifiedErr[path]; err != nil {
		return "", err
	}
	if ts, ok := f.ModifiedAt[path]; ok {
		return ts, nil
	}
	return "2024-01-01 12:00:00 +0000", nil
}

func (f *FakeGit) LastAuthor(path string) (string, error) {
	if by, ok := f.ModifiedBy[path]; ok {
		return by, nil
	}
	return "", nil
}

// TestDB creates a temporary search database that is automatically
// cleaned up.
func TestDB(t *testing.T) *index.DB {
	t.Helper()
	dbFile, err := os.CreateTemp("", "catprep-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	db, err := index.Open(dbFile.Name())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

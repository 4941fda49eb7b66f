// Package book holds the document tree the preprocessor transforms: an
// ordered collection of path-addressed markdown documents, loaded from a
// source directory and written back out after rendering.
package book

import (
	"path"
	"strings"
)

// Document is one markdown file of the tree. Paths are slash-separated
// and relative to the source root.
type Document struct {
	Path    string
	Content string
}

// Dir returns the parent directory of the document's path.
func (d *Document) Dir() string {
	return path.Dir(d.Path)
}

// Book is the mutable document tree. Documents keep the order they were
// loaded in (path-sorted); appended documents go to the end.
type Book struct {
	docs []*Document
}

// New creates an empty book.
func New() *Book {
	return &Book{}
}

// Documents returns the backing slice; callers iterate it in tree order.
func (b *Book) Documents() []*Document {
	return b.docs
}

// Len returns the number of documents.
func (b *Book) Len() int {
	return len(b.docs)
}

// Get returns the document at path, if present.
func (b *Book) Get(p string) (*Document, bool) {
	for _, d := range b.docs {
		if d.Path == p {
			return d, true
		}
	}
	return nil, false
}

// Append adds a document to the end of the tree.
func (b *Book) Append(d *Document) {
	b.docs = append(b.docs, d)
}

// UnderRoot reports whether p lies under the directory root. The root
// "." covers the whole tree.
func UnderRoot(p, root string) bool {
	if root == "." {
		return true
	}
	return strings.HasPrefix(p, root+"/")
}

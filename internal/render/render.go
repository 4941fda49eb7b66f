// Package render turns resolved entities into text fragments and splices
// them into the book.
//
// Producing and applying are separate steps: CreateRenders builds a list
// of pending sites (and appends the synthetic roster and tag pages to the
// book), ExecuteRenders walks the book once and places every pending
// fragment. A fragment whose target was never visited is a fatal
// configuration error, not silently dropped content.
package render

import (
	"log/slog"

	"github.com/mkucera/catprep/internal/apperr"
	"github.com/mkucera/catprep/internal/book"
)

// Synthetic pages created during render production.
const (
	TeachersPage = "teachers.md"
	TagsPage     = "tags.md"
)

// OpKind enumerates the composition directives.
type OpKind int

const (
	OpPrepend OpKind = iota
	OpAppend
	OpWrap
	OpReplace
)

func (k OpKind) String() string {
	switch k {
	case OpPrepend:
		return "Prepend"
	case OpAppend:
		return "Append"
	case OpWrap:
		return "Wrap"
	case OpReplace:
		return "Replace"
	default:
		return "Unknown"
	}
}

// Op is one composition directive with its payload.
type Op struct {
	Kind OpKind
	// Text is the payload of Prepend, Append and Replace.
	Text string
	// Pre and Post are the payloads of Wrap.
	Pre, Post string
}

// Prepend puts text before the document body.
func Prepend(text string) Op { return Op{Kind: OpPrepend, Text: text} }

// Append puts text after the document body.
func Append(text string) Op { return Op{Kind: OpAppend, Text: text} }

// Wrap puts pre before and post after the document body.
func Wrap(pre, post string) Op { return Op{Kind: OpWrap, Pre: pre, Post: post} }

// Replace discards the document body entirely.
func Replace(text string) Op { return Op{Kind: OpReplace, Text: text} }

// Apply composes the directive with the current document body. Parts are
// newline-joined; the body is never lost or duplicated.
func (o Op) Apply(body string) string {
	switch o.Kind {
	case OpPrepend:
		return o.Text + "\n" + body
	case OpAppend:
		return body + "\n" + o.Text
	case OpWrap:
		return o.Pre + "\n" + body + "\n" + o.Post
	case OpReplace:
		return o.Text
	default:
		return body
	}
}

// Site is a pending render: a target document path plus the directive to
// apply there.
type Site struct {
	Path string
	Op   Op
}

// ExecuteRenders walks the book once and applies every pending site to
// its target document, in site-list order per document. If any site's
// target was never visited, all orphans are logged and the first is
// returned as an apperr.OrphanError.
func ExecuteRenders(sites []Site, b *book.Book, logger *slog.Logger) error {
	pending := make([]Site, len(sites))
	copy(pending, sites)

	for _, doc := range b.Documents() {
		rest := pending[:0]
		for _, s := range pending {
			if s.Path == doc.Path {
				doc.Content = s.Op.Apply(doc.Content)
			} else {
				rest = append(rest, s)
			}
		}
		pending = rest
	}

	if len(pending) > 0 {
		for _, s := range pending {
			logger.Error("orphan render",
				slog.String("path", s.Path),
				slog.String("op", s.Op.Kind.String()))
		}
		return &apperr.OrphanError{Path: pending[0].Path, Op: pending[0].Op.Kind.String()}
	}
	return nil
}

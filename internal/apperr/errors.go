// Package apperr defines the error taxonomy of the preprocessor.
//
// Simple preconditions are sentinel errors; failures that carry payload
// (a file name, an exit status, a render target) are structured types so
// callers can pick them apart with errors.As.
package apperr

import (
	"errors"
	"fmt"
)

var (
	// ErrNoTeacherFolder is returned when the teachers folder does not exist.
	ErrNoTeacherFolder = errors.New("teachers folder doesn't exist")
	// ErrTeachersNotFolder is returned when the teachers path is a plain file.
	ErrTeachersNotFolder = errors.New("file 'teachers' is not a folder")
	// ErrInvalidOrMissingHeader is returned when a document has no header
	// delimiter line at all.
	ErrInvalidOrMissingHeader = errors.New("the header is either missing or invalid")
)

// CardError reports a teacher card file that failed to parse or validate.
type CardError struct {
	Name string // file name inside the teachers folder
	Err  error
}

func (e *CardError) Error() string {
	return fmt.Sprintf("invalid teacher card %s: %v", e.Name, e.Err)
}

func (e *CardError) Unwrap() error { return e.Err }

// HeaderFormatError reports a document header that split fine but could not
// be decoded into a card.
type HeaderFormatError struct {
	Path string // document the header belongs to
	Err  error
}

func (e *HeaderFormatError) Error() string {
	return fmt.Sprintf("%s: the header has invalid format: %v", e.Path, e.Err)
}

func (e *HeaderFormatError) Unwrap() error { return e.Err }

// CommandError reports an external command that exited nonzero.
type CommandError struct {
	Name   string // the command line that was run
	Status int
	Stderr string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("failed to run command: %s exited with code %d and output %q",
		e.Name, e.Status, e.Stderr)
}

// NotARepoError reports that the book is not inside a git repository.
// Output keeps whatever git printed, which may also indicate that git is
// not installed or the repository is corrupted.
type NotARepoError struct {
	Output string
}

func (e *NotARepoError) Error() string {
	return fmt.Sprintf("not inside a git repository or the repository is bare: %s", e.Output)
}

// TemplateError wraps a failure from the templating layer. It deliberately
// carries only a display string: the underlying error is neither comparable
// nor duplicable, so it is flattened at the boundary. Treat it as terminal.
type TemplateError struct {
	Msg string
}

func (e *TemplateError) Error() string {
	return fmt.Sprintf("template error: %s", e.Msg)
}

// OrphanError reports a render fragment whose target path matched no
// document during application. Always a fatal configuration error, usually
// a renamed or missing document.
type OrphanError struct {
	Path string // target the fragment wanted
	Op   string // operation name, without its payload
}

func (e *OrphanError) Error() string {
	return fmt.Sprintf("orphan render: %s at %s", e.Op, e.Path)
}

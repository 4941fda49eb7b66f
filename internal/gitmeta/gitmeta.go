// Package gitmeta answers authorship questions about the book from git
// history.
//
// All queries are blocking subprocess invocations issued sequentially; a
// narrow Source interface keeps the resolution algorithm independent of
// how the answers are produced, so a batched or cached implementation can
// be swapped in without touching the resolver.
package gitmeta

import (
	"bytes"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/mkucera/catprep/internal/apperr"
)

// Source answers the three authorship queries the resolver needs.
type Source interface {
	// EnsureRepo verifies the book lives inside a git work tree.
	EnsureRepo() error
	// FilesCreated returns the source-relative paths still present in
	// the tree that were added in a commit authored by any of the three
	// identity strings.
	FilesCreated(name, email, username string) ([]string, error)
	// LastModified returns the timestamp of the most recent commit
	// touching the source-relative path.
	LastModified(path string) (string, error)
	// LastAuthor returns the author name of that commit.
	LastAuthor(path string) (string, error)
}

// Git is the exec-backed Source. It shells out to the git binary in the
// repository root; document paths are translated to and from the source
// prefix (the source directory relative to the root).
type Git struct {
	root   string
	prefix string
}

var _ Source = (*Git)(nil)

// New creates a Git source for the repository at root. prefix is the
// source directory relative to root ("" or "." when documents live at
// the root itself).
func New(root, prefix string) *Git {
	if prefix == "." {
		prefix = ""
	}
	return &Git{root: root, prefix: prefix}
}

// run executes git with args and returns trimmed stdout. A nonzero exit
// status becomes an apperr.CommandError carrying the captured stderr.
func (g *Git) run(args ...string) (string, error) {
	cmd := exec.Command("git", args...)
	cmd.Dir = g.root

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		status := -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			status = exitErr.ExitCode()
		}
		out := strings.TrimSpace(stderr.String())
		if out == "" {
			out = err.Error()
		}
		return "", &apperr.CommandError{
			Name:   "git " + strings.Join(args, " "),
			Status: status,
			Stderr: out,
		}
	}
	return strings.TrimSpace(stdout.String()), nil
}

// EnsureRepo fails with apperr.NotARepoError when root is not inside a
// git work tree.
func (g *Git) EnsureRepo() error {
	if _, err := g.run("rev-parse", "--is-inside-work-tree"); err != nil {
		var cmdErr *apperr.CommandError
		if errors.As(err, &cmdErr) {
			return &apperr.NotARepoError{Output: cmdErr.Stderr}
		}
		return &apperr.NotARepoError{Output: err.Error()}
	}
	return nil
}

// FilesCreated lists files added in commits authored by the identity.
// The three identity components are OR-ed; git matches --author against
// the "Name <email>" line, so the username only contributes when it
// appears there.
func (g *Git) FilesCreated(name, email, username string) ([]string, error) {
	args := []string{"log", "--diff-filter=A", "--name-only", "--format="}
	for _, id := range []string{name, email, username} {
		if id != "" {
			args = append(args, "--author="+regexp.QuoteMeta(id))
		}
	}

	out, err := g.run(args...)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, line := range dedupeLines(out) {
		rel, ok := stripPrefix(line, g.prefix)
		if !ok {
			continue
		}
		// Only files still present in the tree count.
		if _, statErr := os.Stat(filepath.Join(g.root, filepath.FromSlash(line))); statErr != nil {
			continue
		}
		files = append(files, rel)
	}
	return files, nil
}

// LastModified returns the commit date of the most recent commit
// touching path.
func (g *Git) LastModified(path string) (string, error) {
	return g.run("log", "-1", "--format=%cd", "--date=rfc", "--", g.repoPath(path))
}

// LastAuthor returns the author name of the most recent commit touching
// path.
func (g *Git) LastAuthor(path string) (string, error) {
	return g.run("log", "-1", "--format=%an", "--", g.repoPath(path))
}

// repoPath translates a source-relative document path to a repo-relative
// one.
func (g *Git) repoPath(p string) string {
	if g.prefix == "" {
		return p
	}
	return g.prefix + "/" + p
}

// dedupeLines splits out into trimmed, non-empty lines, dropping
// duplicates while keeping first-seen order.
func dedupeLines(out string) []string {
	seen := make(map[string]struct{})
	var lines []string
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if _, dup := seen[line]; dup {
			continue
		}
		seen[line] = struct{}{}
		lines = append(lines, line)
	}
	return lines
}

// stripPrefix converts a repo-relative path to a source-relative one.
// Paths outside the prefix are not part of the book.
func stripPrefix(p, prefix string) (string, bool) {
	if prefix == "" {
		return p, true
	}
	if !strings.HasPrefix(p, prefix+"/") {
		return "", false
	}
	return p[len(prefix)+1:], true
}

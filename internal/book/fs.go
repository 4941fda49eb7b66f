package book

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// LoadDir walks root and loads every .md file into a new book, sorted by
// path so that runs are deterministic regardless of directory order.
func LoadDir(root string) (*Book, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("book: resolve root: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("book: stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("book: root is not a directory: %s", abs)
	}

	b := New()
	err = filepath.WalkDir(abs, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".md") {
			return nil
		}
		data, err := os.ReadFile(p)
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(abs, p)
		if err != nil {
			return err
		}
		b.Append(&Document{Path: filepath.ToSlash(rel), Content: string(data)})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("book: load: %w", err)
	}

	sort.Slice(b.docs, func(i, j int) bool { return b.docs[i].Path < b.docs[j].Path })
	return b, nil
}

// WriteDir writes every document under root, creating directories as
// needed. Each file is written atomically: tmp file, fsync, rename.
func (b *Book) WriteDir(root string) error {
	abs, err := filepath.Abs(root)
	if err != nil {
		return fmt.Errorf("book: resolve out dir: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return fmt.Errorf("book: mkdir out dir: %w", err)
	}
	for _, d := range b.docs {
		target, err := safePath(abs, d.Path)
		if err != nil {
			return err
		}
		if err := writeAtomic(target, []byte(d.Content)); err != nil {
			return fmt.Errorf("book: write %s: %w", d.Path, err)
		}
	}
	return nil
}

// safePath resolves a relative document path against root and rejects
// any result that escapes it (directory traversal).
func safePath(root, rel string) (string, error) {
	cleaned := filepath.Clean(filepath.FromSlash(rel))
	if filepath.IsAbs(cleaned) {
		return "", fmt.Errorf("book: absolute paths not allowed: %s", rel)
	}
	joined := filepath.Join(root, cleaned)
	abs, err := filepath.Abs(joined)
	if err != nil {
		return "", fmt.Errorf("book: resolve path: %w", err)
	}
	if !strings.HasPrefix(abs, root+string(os.PathSeparator)) && abs != root {
		return "", fmt.Errorf("book: path escapes output root: %s", rel)
	}
	return abs, nil
}

func writeAtomic(target string, content []byte) error {
	dir := filepath.Dir(target)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".catprep-tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(content); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmpName, target); err != nil {
		return err
	}
	success = true
	return nil
}

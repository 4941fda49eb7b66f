package book

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDir_SortedAndMarkdownOnly(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"zeta/page.md":  "z",
		"alpha/page.md": "a",
		"ignored.txt":   "nope",
		"top.md":        "t",
	}
	for p, content := range files {
		full := filepath.Join(dir, filepath.FromSlash(p))
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	b, err := LoadDir(dir)
	if err != nil {
		t.Fatalf("LoadDir: %v", err)
	}
	var got []string
	for _, d := range b.Documents() {
		got = append(got, d.Path)
	}
	want := []string{"alpha/page.md", "top.md", "zeta/page.md"}
	if len(got) != len(want) {
		t.Fatalf("paths = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("paths[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestWriteDir_RoundTrip(t *testing.T) {
	b := New()
	b.Append(&Document{Path: "sub/deep/page.md", Content: "hello"})

	out := t.TempDir()
	if err := b.WriteDir(out); err != nil {
		t.Fatalf("WriteDir: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(out, "sub", "deep", "page.md"))
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(data) != "hello" {
		t.Errorf("content = %q", data)
	}
}

func TestWriteDir_RejectsTraversal(t *testing.T) {
	b := New()
	b.Append(&Document{Path: "../escape.md", Content: "x"})
	if err := b.WriteDir(t.TempDir()); err == nil {
		t.Fatal("expected traversal to be rejected")
	}
}

func TestGetAndAppend(t *testing.T) {
	b := New()
	b.Append(&Document{Path: "a.md", Content: "a"})
	d, ok := b.Get("a.md")
	if !ok || d.Content != "a" {
		t.Fatalf("Get = %v, %v", d, ok)
	}
	if _, ok := b.Get("missing.md"); ok {
		t.Error("Get should miss for unknown path")
	}
}

func TestUnderRoot(t *testing.T) {
	cases := []struct {
		p, root string
		want    bool
	}{
		{"db/intro.md", "db", true},
		{"db/sub/x.md", "db", true},
		{"database/x.md", "db", false},
		{"db.md", "db", false},
		{"anything.md", ".", true},
	}
	for _, c := range cases {
		if got := UnderRoot(c.p, c.root); got != c.want {
			t.Errorf("UnderRoot(%q, %q) = %v, want %v", c.p, c.root, got, c.want)
		}
	}
}

func TestDocumentDir(t *testing.T) {
	d := &Document{Path: "db/subject.md"}
	if d.Dir() != "db" {
		t.Errorf("Dir = %q", d.Dir())
	}
	top := &Document{Path: "subject.md"}
	if top.Dir() != "." {
		t.Errorf("Dir = %q", top.Dir())
	}
}

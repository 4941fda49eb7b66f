package gitmeta

import "testing"

func TestDedupeLines(t *testing.T) {
	out := "src/a.md\n\nsrc/b.md\nsrc/a.md\n  \nsrc/c.md"
	got := dedupeLines(out)
	want := []string{"src/a.md", "src/b.md", "src/c.md"}
	if len(got) != len(want) {
		t.Fatalf("lines = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("lines[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestStripPrefix(t *testing.T) {
	cases := []struct {
		p, prefix string
		want      string
		ok        bool
	}{
		{"src/db/intro.md", "src", "db/intro.md", true},
		{"README.md", "src", "", false},
		{"srcx/a.md", "src", "", false},
		{"db/intro.md", "", "db/intro.md", true},
	}
	for _, c := range cases {
		got, ok := stripPrefix(c.p, c.prefix)
		if got != c.want || ok != c.ok {
			t.Errorf("stripPrefix(%q, %q) = %q, %v; want %q, %v", c.p, c.prefix, got, ok, c.want, c.ok)
		}
	}
}

func TestNew_DotPrefixNormalised(t *testing.T) {
	g := New(".", ".")
	if g.prefix != "" {
		t.Errorf("prefix = %q, want empty", g.prefix)
	}
	if g.repoPath("a.md") != "a.md" {
		t.Errorf("repoPath = %q", g.repoPath("a.md"))
	}
}

func TestRepoPath(t *testing.T) {
	g := New(".", "src")
	if got := g.repoPath("db/intro.md"); got != "src/db/intro.md" {
		t.Errorf("repoPath = %q", got)
	}
}

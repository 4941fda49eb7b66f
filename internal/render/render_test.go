package render

import (
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/mkucera/catprep/internal/apperr"
	"github.com/mkucera/catprep/internal/book"
	"github.com/mkucera/catprep/internal/models"
	"github.com/mkucera/catprep/internal/resolver"
	"github.com/mkucera/catprep/internal/testutil"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func TestOpApply(t *testing.T) {
	cases := []struct {
		name string
		op   Op
		want string
	}{
		{"wrap", Wrap("PRE", "POST"), "PRE\nBODY\nPOST"},
		{"prepend", Prepend("HEAD"), "HEAD\nBODY"},
		{"append", Append("TAIL"), "BODY\nTAIL"},
		{"replace", Replace("NEW"), "NEW"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := c.op.Apply("BODY"); got != c.want {
				t.Errorf("Apply = %q, want %q", got, c.want)
			}
		})
	}
}

func TestExecuteRenders_AppliesInOrder(t *testing.T) {
	b := testutil.BookOf(map[string]string{"page.md": "BODY"})
	sites := []Site{
		{Path: "page.md", Op: Append("one")},
		{Path: "page.md", Op: Append("two")},
	}
	if err := ExecuteRenders(sites, b, discard); err != nil {
		t.Fatalf("ExecuteRenders: %v", err)
	}
	doc, _ := b.Get("page.md")
	if doc.Content != "BODY\none\ntwo" {
		t.Errorf("content = %q", doc.Content)
	}
}

func TestExecuteRenders_Orphan(t *testing.T) {
	b := testutil.BookOf(map[string]string{"page.md": "BODY"})
	sites := []Site{{Path: "foo.md", Op: Append("lost")}}

	err := ExecuteRenders(sites, b, discard)
	var orphan *apperr.OrphanError
	if !errors.As(err, &orphan) {
		t.Fatalf("err = %v, want *OrphanError", err)
	}
	if orphan.Path != "foo.md" {
		t.Errorf("orphan path = %q", orphan.Path)
	}
	if orphan.Op != "Append" {
		t.Errorf("orphan op = %q", orphan.Op)
	}
}

func TestExecuteRenders_UntouchedDocumentsKeepContent(t *testing.T) {
	b := testutil.BookOf(map[string]string{"a.md": "A", "b.md": "B"})
	sites := []Site{{Path: "a.md", Op: Replace("X")}}
	if err := ExecuteRenders(sites, b, discard); err != nil {
		t.Fatalf("ExecuteRenders: %v", err)
	}
	doc, _ := b.Get("b.md")
	if doc.Content != "B" {
		t.Errorf("b.md = %q", doc.Content)
	}
}

func TestMaterializeTags_SortedByName(t *testing.T) {
	tags := map[string][]models.ArticleCard{
		"zoo":   {{Title: "Z"}},
		"alpha": {{Title: "A1"}, {Title: "A2"}},
		"mid":   {{Title: "M"}},
	}
	groups := MaterializeTags(tags)
	if len(groups) != 3 {
		t.Fatalf("groups = %+v", groups)
	}
	if groups[0].Name != "alpha" || groups[1].Name != "mid" || groups[2].Name != "zoo" {
		t.Errorf("order = %v, %v, %v", groups[0].Name, groups[1].Name, groups[2].Name)
	}
	if len(groups[0].Articles) != 2 || groups[0].Articles[0].Title != "A1" {
		t.Errorf("alpha articles = %+v", groups[0].Articles)
	}
}

func testContext() *resolver.Context {
	alice := models.TeacherCard{Name: "Alice Novak", Email: "alice@example.org", Username: "alice", Bio: "Teaches databases."}
	subjectCard := models.SubjectCard{Title: "Databases", Owner: "alice", Bio: "SQL.", ResolvedPath: "db/subject.md"}
	articleCard := models.ArticleCard{Title: "Joins", Tags: []string{"sql"}, ResolvedPath: "db/joins.md"}

	article := models.Article{
		Card:             articleCard,
		LastModified:     "2024-03-01",
		ModifiedBy:       "alice",
		Author:           "Alice Novak",
		Path:             "db/joins.md",
		ResolvedModifier: &alice,
		ResolvedAuthor:   &alice,
		SubjectCard:      &subjectCard,
	}
	subject := models.Subject{
		Card:          subjectCard,
		Path:          "db/subject.md",
		PathRoot:      "db",
		Articles:      []models.Article{article},
		ResolvedOwner: &alice,
	}
	teacher := models.Teacher{
		Card:         alice,
		Subjects:     []models.Subject{subject},
		Articles:     []models.Article{article},
		FilesCreated: []string{"db/subject.md", "db/joins.md"},
	}

	return &resolver.Context{
		TeacherCards: []models.TeacherCard{alice},
		Teachers:     []models.Teacher{teacher},
		SubjectCards: []models.SubjectCard{subjectCard},
		Subjects:     []models.Subject{subject},
		ArticleCards: []models.ArticleCard{articleCard},
		Articles:     []models.Article{article},
		Tags:         map[string][]models.ArticleCard{"sql": {articleCard}},
	}
}

func TestCreateRenders_TargetsAndSyntheticPages(t *testing.T) {
	cc := testContext()
	b := testutil.BookOf(map[string]string{
		"db/subject.md": "# Databases",
		"db/joins.md":   "Join types.",
	})

	sites, err := CreateRenders(cc, b, discard)
	if err != nil {
		t.Fatalf("CreateRenders: %v", err)
	}

	// roster + teacher + subject + article + tags
	if len(sites) != 5 {
		t.Fatalf("len(sites) = %d, want 5", len(sites))
	}
	if sites[0].Path != TeachersPage || sites[0].Op.Kind != OpAppend {
		t.Errorf("roster site = %+v", sites[0])
	}
	if sites[2].Path != "db/subject.md" || sites[2].Op.Kind != OpWrap {
		t.Errorf("subject site = %+v", sites[2])
	}
	if sites[3].Path != "db/joins.md" || sites[3].Op.Kind != OpWrap {
		t.Errorf("article site = %+v", sites[3])
	}
	if sites[4].Path != TagsPage || sites[4].Op.Kind != OpReplace {
		t.Errorf("tags site = %+v", sites[4])
	}

	if _, ok := b.Get(TeachersPage); !ok {
		t.Error("teachers page not appended")
	}
	if _, ok := b.Get(TagsPage); !ok {
		t.Error("tags page not appended")
	}
}

func TestCreateRenders_EmptyContextOmitsSyntheticPages(t *testing.T) {
	cc := &resolver.Context{}
	b := book.New()

	sites, err := CreateRenders(cc, b, discard)
	if err != nil {
		t.Fatalf("CreateRenders: %v", err)
	}
	if len(sites) != 0 {
		t.Errorf("sites = %+v, want none", sites)
	}
	if b.Len() != 0 {
		t.Errorf("book gained %d documents", b.Len())
	}
}

func TestCreateRenders_EndToEndContent(t *testing.T) {
	cc := testContext()
	b := testutil.BookOf(map[string]string{
		"db/subject.md": "# Databases",
		"db/joins.md":   "Join types.",
	})

	sites, err := CreateRenders(cc, b, discard)
	if err != nil {
		t.Fatalf("CreateRenders: %v", err)
	}
	if err := ExecuteRenders(sites, b, discard); err != nil {
		t.Fatalf("ExecuteRenders: %v", err)
	}

	joins, _ := b.Get("db/joins.md")
	for _, want := range []string{
		"Join types.", // body preserved
		"| Title | Joins |",
		"[Alice Novak](/teachers.md#alice)",
		"[Databases](/db/subject.md)",
		"[sql](/tags.md#sql)",
	} {
		if !strings.Contains(joins.Content, want) {
			t.Errorf("joins.md missing %q in:\n%s", want, joins.Content)
		}
	}

	subject, _ := b.Get("db/subject.md")
	if !strings.Contains(subject.Content, "# Databases") {
		t.Error("subject body lost")
	}
	if !strings.Contains(subject.Content, "- [Joins](/db/joins.md)") {
		t.Errorf("subject article list missing:\n%s", subject.Content)
	}

	teachers, _ := b.Get(TeachersPage)
	for _, want := range []string{
		"# Teachers",
		"[Alice Novak](#alice)",
		`<h2 id="alice">Alice Novak</h2>`,
	} {
		if !strings.Contains(teachers.Content, want) {
			t.Errorf("teachers.md missing %q in:\n%s", want, teachers.Content)
		}
	}

	tags, _ := b.Get(TagsPage)
	for _, want := range []string{
		"# Tags",
		`<h3 id="sql">sql</h3>`,
		"- [Joins](/db/joins.md)",
	} {
		if !strings.Contains(tags.Content, want) {
			t.Errorf("tags.md missing %q in:\n%s", want, tags.Content)
		}
	}
}

func TestRenderArticle_MissingSubjectCardIsTemplateError(t *testing.T) {
	article := models.Article{
		Card: models.ArticleCard{Title: "Orphaned"},
		Path: "x.md",
	}
	_, err := renderArticle(&article)
	var tmplErr *apperr.TemplateError
	if !errors.As(err, &tmplErr) {
		t.Fatalf("err = %v, want *TemplateError", err)
	}
}

package render

import (
	"log/slog"
	"sort"
	"strings"
	"text/template"

	"github.com/mkucera/catprep/internal/apperr"
	"github.com/mkucera/catprep/internal/book"
	"github.com/mkucera/catprep/internal/models"
	"github.com/mkucera/catprep/internal/resolver"
)

// The templates are static strings known at compile time, so parse
// failures are programming errors and panic at init. Execution failures
// (bad data, nil subject card) surface as apperr.TemplateError.

const teacherTemplate = `
<h2 id="{{.Card.Username}}">{{.Card.Name}}</h2>

- email: <a href="mailto:{{.Card.Email}}">{{.Card.Email}}</a>
- username: {{.Card.Username}}

### Bio

{{.Card.Bio}}

### Subjects
{{range .Subjects}}- [{{.Card.Title}}](/{{.Path}})
{{end}}
### Articles
{{range .Articles}}- [{{.Card.Title}}](/{{.Path}})
{{end}}
<hr>
`

const rosterTemplate = `
{{range .}}[{{.Name}}](#{{.Username}}) {{end}}
`

const subjectPreTemplate = `
| Title | {{.Card.Title}} |
| ----- | --------------- |
{{if .ResolvedOwner}}| Maintainer | [{{.ResolvedOwner.Name}}](/teachers.md#{{.ResolvedOwner.Username}}) |{{else}}| Maintainer | {{.Card.Owner}} |{{end}}
| About | {{.Card.Bio}} |
`

const subjectPostTemplate = `
### Articles
{{range .Articles}}- [{{.Card.Title}}](/{{.Path}})
{{end}}`

const articlePreTemplate = `
| Title | {{.Card.Title}} |
| ----- | --------------- |
{{if .ResolvedAuthor}}| Author | [{{.ResolvedAuthor.Name}}](/teachers.md#{{.ResolvedAuthor.Username}}) |{{else}}| Author | {{.Author}} |{{end}}
{{if .ResolvedModifier}}| Last modified by | [{{.ResolvedModifier.Name}}](/teachers.md#{{.ResolvedModifier.Username}}) |{{else}}| Last modified by | {{.ModifiedBy}} |{{end}}
| Last change | {{.LastModified}} |
| Subject | [{{.SubjectCard.Title}}](/{{.SubjectCard.ResolvedPath}}) |
{{if .Card.Date}}| Date | {{.Card.Date}} |
{{end}}`

const articlePostTemplate = `
#### Tags

{{range .Card.Tags}}[{{.}}](/tags.md#{{.}}) {{end}}
`

const tagsTemplate = `# Tags

{{range .}}[{{.Name}}](#{{.Name}}) {{end}}
{{range .}}
<h3 id="{{.Name}}">{{.Name}}</h3>

{{range .Articles}}- [{{.Title}}](/{{.ResolvedPath}})
{{end}}{{end}}`

var (
	teacherTmpl     = template.Must(template.New("teacher").Parse(teacherTemplate))
	rosterTmpl      = template.Must(template.New("roster").Parse(rosterTemplate))
	subjectPreTmpl  = template.Must(template.New("subject_pre").Parse(subjectPreTemplate))
	subjectPostTmpl = template.Must(template.New("subject_post").Parse(subjectPostTemplate))
	articlePreTmpl  = template.Must(template.New("article_pre").Parse(articlePreTemplate))
	articlePostTmpl = template.Must(template.New("article_post").Parse(articlePostTemplate))
	tagsTmpl        = template.Must(template.New("tags").Parse(tagsTemplate))
)

// execute runs a template and flattens any failure into the terminal
// TemplateError variant.
func execute(t *template.Template, data any) (string, error) {
	var buf strings.Builder
	if err := t.Execute(&buf, data); err != nil {
		return "", &apperr.TemplateError{Msg: err.Error()}
	}
	return buf.String(), nil
}

// TagGroup pairs a tag with the cards of every article carrying it.
type TagGroup struct {
	Name     string
	Articles []models.ArticleCard
}

// MaterializeTags converts the tag index into a sequence of groups
// sorted by tag name, for deterministic rendering.
func MaterializeTags(tags map[string][]models.ArticleCard) []TagGroup {
	groups := make([]TagGroup, 0, len(tags))
	for name, articles := range tags {
		groups = append(groups, TagGroup{Name: name, Articles: articles})
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].Name < groups[j].Name })
	return groups
}

// renderTeacher appends the teacher's profile to the roster page.
func renderTeacher(t *models.Teacher) (Site, error) {
	res, err := execute(teacherTmpl, t)
	if err != nil {
		return Site{}, err
	}
	return Site{Path: TeachersPage, Op: Append(res)}, nil
}

// renderRoster appends the link list of all teachers to the roster page.
func renderRoster(list []models.TeacherCard) (Site, error) {
	res, err := execute(rosterTmpl, list)
	if err != nil {
		return Site{}, err
	}
	return Site{Path: TeachersPage, Op: Append(res)}, nil
}

// renderSubject wraps the subject document with its info table and
// article listing.
func renderSubject(s *models.Subject) (Site, error) {
	pre, err := execute(subjectPreTmpl, s)
	if err != nil {
		return Site{}, err
	}
	post, err := execute(subjectPostTmpl, s)
	if err != nil {
		return Site{}, err
	}
	return Site{Path: s.Path, Op: Wrap(pre, post)}, nil
}

// renderArticle wraps the article document with its metadata table and
// tag links.
func renderArticle(a *models.Article) (Site, error) {
	pre, err := execute(articlePreTmpl, a)
	if err != nil {
		return Site{}, err
	}
	post, err := execute(articlePostTmpl, a)
	if err != nil {
		return Site{}, err
	}
	return Site{Path: a.Path, Op: Wrap(pre, post)}, nil
}

// renderTags replaces the tag page with the full tag listing.
func renderTags(groups []TagGroup) (Site, error) {
	res, err := execute(tagsTmpl, groups)
	if err != nil {
		return Site{}, err
	}
	return Site{Path: TagsPage, Op: Replace(res)}, nil
}

// CreateRenders produces the pending sites for every entity in the
// context. It also appends the synthetic roster and tag pages to the
// book so the produced sites have a target to land on; either page is
// omitted entirely when its entity list is empty, and so are its
// fragments.
//
// Failures within one entity group are collected and logged; the first
// one aborts production.
func CreateRenders(cc *resolver.Context, b *book.Book, logger *slog.Logger) ([]Site, error) {
	var sites []Site

	if len(cc.TeacherCards) > 0 {
		site, err := renderRoster(cc.TeacherCards)
		if err != nil {
			return nil, err
		}
		sites = append(sites, site)

		var errs []error
		for i := range cc.Teachers {
			site, err := renderTeacher(&cc.Teachers[i])
			if err != nil {
				errs = append(errs, err)
				continue
			}
			sites = append(sites, site)
		}
		if err := firstError(errs, logger); err != nil {
			return nil, err
		}
	}

	var errs []error
	for i := range cc.Subjects {
		site, err := renderSubject(&cc.Subjects[i])
		if err != nil {
			errs = append(errs, err)
			continue
		}
		sites = append(sites, site)
	}
	if err := firstError(errs, logger); err != nil {
		return nil, err
	}

	errs = nil
	for i := range cc.Articles {
		site, err := renderArticle(&cc.Articles[i])
		if err != nil {
			errs = append(errs, err)
			continue
		}
		sites = append(sites, site)
	}
	if err := firstError(errs, logger); err != nil {
		return nil, err
	}

	if len(cc.Tags) > 0 {
		site, err := renderTags(MaterializeTags(cc.Tags))
		if err != nil {
			return nil, err
		}
		sites = append(sites, site)
	}

	if len(cc.TeacherCards) > 0 {
		b.Append(&book.Document{Path: TeachersPage, Content: "# Teachers\n"})
	}
	if len(cc.Tags) > 0 {
		b.Append(&book.Document{Path: TagsPage, Content: ""})
	}

	return sites, nil
}

func firstError(errs []error, logger *slog.Logger) error {
	if len(errs) == 0 {
		return nil
	}
	for _, e := range errs {
		logger.Error("render failed", slog.String("error", e.Error()))
	}
	return errs[0]
}

// Package resolver builds the cross-referenced context out of the
// document tree: teacher cards, subject and article front matter, git
// authorship, and the tag index.
//
// Resolution is a single sequential pass through fixed phases. Within a
// phase every item is attempted and failures are collected; the phase
// then fails with the first collected error and no later phase runs.
// The returned Context is read-only: entities are duplicated across the
// flat card lists and the composed graph, and nothing re-synchronises
// the copies after construction.
package resolver

import (
	"log/slog"
	"path"
	"sort"

	"github.com/mkucera/catprep/internal/apperr"
	"github.com/mkucera/catprep/internal/book"
	"github.com/mkucera/catprep/internal/cards"
	"github.com/mkucera/catprep/internal/gitmeta"
	"github.com/mkucera/catprep/internal/models"
	"github.com/mkucera/catprep/internal/parser"
)

// SubjectMarker is the file name identifying a subject document inside
// its directory.
const SubjectMarker = "subject.md"

// UnknownAuthor is recorded when no teacher's created-file set contains
// an article.
const UnknownAuthor = "Unknown"

// Context is the immutable closure of all resolved entities plus the
// tag index. Do not mutate it after Resolve returns.
type Context struct {
	TeacherCards []models.TeacherCard
	Teachers     []models.Teacher
	SubjectCards []models.SubjectCard
	Subjects     []models.Subject
	ArticleCards []models.ArticleCard
	Articles     []models.Article
	// Tags maps each tag to the cards of every article carrying it, in
	// article processing order.
	Tags map[string][]models.ArticleCard
}

// Resolve builds the context from the book, loading teacher cards from
// teachersDir and authorship metadata from src. Subject and article
// documents have their headers stripped from the tree as a side effect.
func Resolve(b *book.Book, teachersDir string, src gitmeta.Source, logger *slog.Logger) (*Context, error) {
	if err := src.EnsureRepo(); err != nil {
		return nil, err
	}

	teachers, teacherCards, err := resolveTeachers(teachersDir, src, logger)
	if err != nil {
		return nil, err
	}

	subjects, subjectCards, err := resolveSubjects(b, logger)
	if err != nil {
		return nil, err
	}

	articleCards, err := resolveArticleCards(b, subjects, logger)
	if err != nil {
		return nil, err
	}

	articles, err := enrichArticles(articleCards, teachers, subjects, src)
	if err != nil {
		return nil, err
	}

	linkTeachers(teachers, subjects, articles)
	resolveIdentities(teachers, subjects, articles)

	return &Context{
		TeacherCards: teacherCards,
		Teachers:     teachers,
		SubjectCards: subjectCards,
		Subjects:     subjects,
		ArticleCards: articleCards,
		Articles:     articles,
		Tags:         indexTags(articleCards),
	}, nil
}

// resolveTeachers loads and name-sorts the teacher cards, then asks git
// for each teacher's created-file set. Query failures are collected per
// teacher; if any occurred the whole run aborts with the first one.
func resolveTeachers(dir string, src gitmeta.Source, logger *slog.Logger) ([]models.Teacher, []models.TeacherCard, error) {
	teacherCards, err := cards.Load(dir)
	if err != nil {
		return nil, nil, err
	}
	sort.SliceStable(teacherCards, func(i, j int) bool {
		return teacherCards[i].Name < teacherCards[j].Name
	})

	var teachers []models.Teacher
	var errs []error
	for _, c := range teacherCards {
		files, err := src.FilesCreated(c.Name, c.Email, c.Username)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		teachers = append(teachers, models.Teacher{Card: c, FilesCreated: files})
	}
	if err := firstError(errs, logger); err != nil {
		return nil, nil, err
	}
	return teachers, teacherCards, nil
}

// resolveSubjects strips and decodes the header of every subject marker
// document, then derives each subject's path root.
func resolveSubjects(b *book.Book, logger *slog.Logger) ([]models.Subject, []models.SubjectCard, error) {
	var subjectCards []models.SubjectCard
	var errs []error

	for _, doc := range b.Documents() {
		if path.Base(doc.Path) != SubjectMarker {
			continue
		}
		card, err := stripHeader(doc, parser.DecodeSubjectCard)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		card.ResolvedPath = doc.Path
		subjectCards = append(subjectCards, card)
	}
	if err := firstError(errs, logger); err != nil {
		return nil, nil, err
	}

	sort.SliceStable(subjectCards, func(i, j int) bool {
		return subjectCards[i].Title < subjectCards[j].Title
	})

	subjects := make([]models.Subject, 0, len(subjectCards))
	for _, card := range subjectCards {
		subjects = append(subjects, models.Subject{
			Card:     card,
			Path:     card.ResolvedPath,
			PathRoot: path.Dir(card.ResolvedPath),
		})
	}
	return subjects, subjectCards, nil
}

// resolveArticleCards strips and decodes the header of every document
// that lies under some subject's path root and is not itself a subject
// marker.
func resolveArticleCards(b *book.Book, subjects []models.Subject, logger *slog.Logger) ([]models.ArticleCard, error) {
	var articleCards []models.ArticleCard
	var errs []error

	for _, doc := range b.Documents() {
		if path.Base(doc.Path) == SubjectMarker || !underAnySubject(doc.Path, subjects) {
			continue
		}
		card, err := stripHeader(doc, parser.DecodeArticleCard)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		card.ResolvedPath = doc.Path
		articleCards = append(articleCards, card)
	}
	if err := firstError(errs, logger); err != nil {
		return nil, err
	}

	sort.SliceStable(articleCards, func(i, j int) bool {
		return articleCards[i].Title < articleCards[j].Title
	})
	return articleCards, nil
}

// enrichArticles asks git for each article's last-modified metadata,
// determines its creation author from the teachers' created-file sets,
// and pushes a copy into the owning subject. Unlike the per-teacher
// batching during card loading, a git failure here aborts immediately.
func enrichArticles(articleCards []models.ArticleCard, teachers []models.Teacher, subjects []models.Subject, src gitmeta.Source) ([]models.Article, error) {
	var articles []models.Article
	for _, card := range articleCards {
		lastModified, err := src.LastModified(card.ResolvedPath)
		if err != nil {
			return nil, err
		}
		modifiedBy, err := src.LastAuthor(card.ResolvedPath)
		if err != nil {
			return nil, err
		}

		author := UnknownAuthor
		for i := range teachers {
			if teachers[i].Created(card.ResolvedPath) {
				author = teachers[i].Card.Name
				break
			}
		}

		article := models.Article{
			Card:         card,
			LastModified: lastModified,
			ModifiedBy:   modifiedBy,
			Author:       author,
			Path:         card.ResolvedPath,
		}
		articles = append(articles, article)

		// First matching subject owns the article. Subjects with
		// overlapping path roots make this ambiguous; see DESIGN.md.
		for i := range subjects {
			if book.UnderRoot(article.Path, subjects[i].PathRoot) {
				subjects[i].Articles = append(subjects[i].Articles, article)
				break
			}
		}
	}
	return articles, nil
}

// linkTeachers attributes subjects and articles back to teachers via the
// created-file sets. A subject goes to at most one teacher: first by its
// own document, then by the first of its articles that matches. Articles
// go to every teacher that created them.
func linkTeachers(teachers []models.Teacher, subjects []models.Subject, articles []models.Article) {
	for _, s := range subjects {
		if ti := teacherWhoCreated(teachers, s.Path); ti >= 0 {
			teachers[ti].Subjects = append(teachers[ti].Subjects, s)
			continue
		}
		for _, a := range s.Articles {
			if ti := teacherWhoCreated(teachers, a.Path); ti >= 0 {
				teachers[ti].Subjects = append(teachers[ti].Subjects, s)
				break
			}
		}
	}

	for _, a := range articles {
		for i := range teachers {
			if teachers[i].Created(a.Path) {
				teachers[i].Articles = append(teachers[i].Articles, a)
			}
		}
	}
}

// resolveIdentities matches owner/modifier/author identity strings
// against teacher cards and stamps every article with a copy of its
// owning subject card. Teachers are scanned in card order; within one
// card, username, email, and name are compared in that order.
func resolveIdentities(teachers []models.Teacher, subjects []models.Subject, articles []models.Article) {
	match := func(id string) *models.TeacherCard {
		for i := range teachers {
			if teachers[i].Card.Matches(id) {
				card := teachers[i].Card
				return &card
			}
		}
		return nil
	}

	for i := range subjects {
		subjects[i].ResolvedOwner = match(subjects[i].Card.Owner)
	}

	for i := range articles {
		articles[i].ResolvedModifier = match(articles[i].ModifiedBy)
		articles[i].ResolvedAuthor = match(articles[i].Author)

		for j := range subjects {
			if book.UnderRoot(articles[i].Path, subjects[j].PathRoot) {
				card := subjects[j].Card
				articles[i].SubjectCard = &card
				break
			}
		}
	}
}

// indexTags folds all article cards into the tag index. Order within a
// tag's list follows article processing order.
func indexTags(articleCards []models.ArticleCard) map[string][]models.ArticleCard {
	tags := make(map[string][]models.ArticleCard)
	for _, card := range articleCards {
		for _, tag := range card.Tags {
			tags[tag] = append(tags[tag], card)
		}
	}
	return tags
}

// stripHeader splits a document's header off, replaces the stored
// content with the body, and decodes the header with decode. Decode
// failures are reported as HeaderFormatError.
func stripHeader[T any](doc *book.Document, decode func(string) (T, error)) (T, error) {
	var zero T
	header, body, err := parser.Split(doc.Content)
	if err != nil {
		return zero, err
	}
	doc.Content = body

	card, err := decode(header)
	if err != nil {
		return zero, &apperr.HeaderFormatError{Path: doc.Path, Err: err}
	}
	return card, nil
}

func underAnySubject(p string, subjects []models.Subject) bool {
	for i := range subjects {
		if book.UnderRoot(p, subjects[i].PathRoot) {
			return true
		}
	}
	return false
}

func teacherWhoCreated(teachers []models.Teacher, path string) int {
	for i := range teachers {
		if teachers[i].Created(path) {
			return i
		}
	}
	return -1
}

// firstError logs every collected error and returns the first one.
func firstError(errs []error, logger *slog.Logger) error {
	if len(errs) == 0 {
		return nil
	}
	for _, e := range errs {
		logger.Error("resolve failed", slog.String("error", e.Error()))
	}
	return errs[0]
}

// Package models defines the domain types of the preprocessor: the cards
// parsed from front matter and teacher files, and the resolved entities
// they are woven into.
//
// Cards are plain decoded records. Entities (Teacher, Subject, Article)
// are built once by the resolver and must not be mutated afterwards: the
// same logical card is deliberately duplicated across several containers
// for lookup convenience, and there is no re-synchronisation between the
// copies.
package models

import (
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

var (
	emailRe    = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	usernameRe = regexp.MustCompile(`^\S+$`)
)

// TeacherCard is a teacher profile read from teachers/<name>.toml.
//
// Name and Email should correspond to the git configuration values
// user.name and user.email; together with Username they form the identity
// triple used to match the teacher anywhere else in the graph.
type TeacherCard struct {
	Name     string `toml:"name"`
	Email    string `toml:"email"`
	Username string `toml:"username"`
	Bio      string `toml:"bio"`
}

// Validate checks that the card carries a complete identity.
func (c TeacherCard) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Name, validation.Required),
		validation.Field(&c.Email, validation.Required, validation.Match(emailRe)),
		validation.Field(&c.Username, validation.Required, validation.Match(usernameRe)),
		validation.Field(&c.Bio, validation.Required),
	)
}

// SubjectCard is the front matter of a subject marker document.
type SubjectCard struct {
	Title string `toml:"title"`
	// Owner is the identity string of the person responsible for the
	// subject; resolved against teacher cards late in the build.
	Owner string `toml:"owner"`
	Bio   string `toml:"bio"`
	// ResolvedPath is the document the card was read from. Never set in
	// front matter; always present once the resolver has run.
	ResolvedPath string `toml:"-"`
}

// ArticleCard is the front matter of an article document.
type ArticleCard struct {
	Title string   `toml:"title"`
	Tags  []string `toml:"tags"`
	// Date is free-form and optional.
	Date string `toml:"date"`
	// ResolvedPath is the document the card was read from. Never set in
	// front matter; always present once the resolver has run.
	ResolvedPath string `toml:"-"`
}

// Article is the fully resolved profile of one study material.
type Article struct {
	Card ArticleCard
	// LastModified is the timestamp of the most recent commit touching
	// the article, as reported by git.
	LastModified string
	// ModifiedBy is the author name of that commit.
	ModifiedBy string
	// Author is the name of the teacher whose created-file set contains
	// the article, or "Unknown".
	Author string
	// Path of the article document, relative to the source root.
	Path string
	// ResolvedModifier is the teacher card matching ModifiedBy, if any.
	ResolvedModifier *TeacherCard
	// ResolvedAuthor is the teacher card matching Author, if any.
	ResolvedAuthor *TeacherCard
	// SubjectCard is a copy of the owning subject's card.
	SubjectCard *SubjectCard
}

// Subject is the resolved profile of one subject.
type Subject struct {
	Card SubjectCard
	// Path of the subject marker document.
	Path string
	// PathRoot is the parent directory of Path. Every document whose
	// path has PathRoot as a prefix counts as an article of this subject.
	PathRoot string
	// Articles owned by this subject, in processing order.
	Articles []Article
	// ResolvedOwner is the teacher card matching Card.Owner, if any.
	ResolvedOwner *TeacherCard
}

// Teacher is the resolved profile of one teacher.
type Teacher struct {
	Card TeacherCard
	// Subjects attributed to the teacher. A subject is attributed to at
	// most one teacher.
	Subjects []Subject
	// Articles the teacher is recorded as having created. Unlike
	// subjects, an article created by several matching identities lands
	// with every one of them.
	Articles []Article
	// FilesCreated lists paths still present in the tree that were added
	// in a commit authored by this teacher's identity.
	FilesCreated []string
}

// Created reports whether path is in the teacher's created-file set.
func (t *Teacher) Created(path string) bool {
	for _, p := range t.FilesCreated {
		if p == path {
			return true
		}
	}
	return false
}

// Matches reports whether id equals any component of the teacher's
// identity triple. Components are compared in a fixed order: username,
// then email, then name.
func (c TeacherCard) Matches(id string) bool {
	return id == c.Username || id == c.Email || id == c.Name
}

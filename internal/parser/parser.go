// Package parser splits front matter off documents and decodes it into
// typed cards.
//
// Front matter is every line before the first line that is exactly the
// delimiter "+++"; the body is everything after that line. The header is
// TOML.
package parser

import (
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/mkucera/catprep/internal/apperr"
	"github.com/mkucera/catprep/internal/models"
)

// Delimiter separates a document's header from its body.
const Delimiter = "+++"

// Split separates raw into header and body around the first delimiter
// line. The delimiter line itself belongs to neither part. A document
// without a delimiter has no header and fails with
// apperr.ErrInvalidOrMissingHeader.
func Split(raw string) (header, body string, err error) {
	lines := strings.Split(raw, "\n")

	i := 0
	for ; i < len(lines); i++ {
		if lines[i] == Delimiter {
			break
		}
	}
	if i == len(lines) {
		return "", "", apperr.ErrInvalidOrMissingHeader
	}

	header = strings.Join(lines[:i], "\n")
	body = strings.Join(lines[i+1:], "\n")
	return header, body, nil
}

// DecodeTeacherCard parses a whole teacher file as a TeacherCard and
// validates it.
func DecodeTeacherCard(src string) (models.TeacherCard, error) {
	var card models.TeacherCard
	if err := toml.Unmarshal([]byte(src), &card); err != nil {
		return models.TeacherCard{}, err
	}
	if err := card.Validate(); err != nil {
		return models.TeacherCard{}, err
	}
	return card, nil
}

// DecodeSubjectCard parses a subject header as a SubjectCard.
func DecodeSubjectCard(header string) (models.SubjectCard, error) {
	var card models.SubjectCard
	if err := toml.Unmarshal([]byte(header), &card); err != nil {
		return models.SubjectCard{}, err
	}
	return card, nil
}

// DecodeArticleCard parses an article header as an ArticleCard.
func DecodeArticleCard(header string) (models.ArticleCard, error) {
	var card models.ArticleCard
	if err := toml.Unmarshal([]byte(header), &card); err != nil {
		return models.ArticleCard{}, err
	}
	return card, nil
}

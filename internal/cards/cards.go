// Package cards loads teacher cards from the teachers folder.
package cards

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/mkucera/catprep/internal/apperr"
	"github.com/mkucera/catprep/internal/models"
	"github.com/mkucera/catprep/internal/parser"
)

// Extension every teacher card file must carry.
const Extension = ".toml"

// Load reads every *.toml file directly inside dir and parses each as a
// TeacherCard. Subdirectories and files with other extensions are ignored.
// The scan always runs to completion; if any file failed, the first
// failure is returned after the scan.
//
// The returned slice is unordered (directory order).
func Load(dir string) ([]models.TeacherCard, error) {
	info, err := os.Stat(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, apperr.ErrNoTeacherFolder
	}
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, apperr.ErrTeachersNotFolder
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var out []models.TeacherCard
	var firstErr error
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), Extension) {
			continue
		}
		data, readErr := os.ReadFile(filepath.Join(dir, e.Name()))
		if readErr != nil {
			if firstErr == nil {
				firstErr = &apperr.CardError{Name: e.Name(), Err: readErr}
			}
			continue
		}
		card, decErr := parser.DecodeTeacherCard(string(data))
		if decErr != nil {
			if firstErr == nil {
				firstErr = &apperr.CardError{Name: e.Name(), Err: decErr}
			}
			continue
		}
		out = append(out, card)
	}

	if firstErr != nil {
		return nil, firstErr
	}
	return out, nil
}

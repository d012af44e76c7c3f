// Package resumes loads resume text files from a directory.
package resumes

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"go.uber.org/zap"
	"golang.org/x/text/encoding/unicode"

	"github.com/jakechorley/placement-allocator/pkg/db"
)

const defaultExtension = ".txt"

// Loader reads resume text from files under a single directory
type Loader struct {
	dir    string
	logger *zap.Logger
}

// NewLoader creates a Loader rooted at dir
func NewLoader(dir string, logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{dir: dir, logger: logger}
}

// FileName returns the file a candidate's resume is read from.
// Candidates without an explicit ResumeFile use <id>.txt.
func FileName(c db.Candidate) string {
	if c.ResumeFile != "" {
		return c.ResumeFile
	}
	return c.ID + defaultExtension
}

// LoadResumes reads the resume for each candidate, keyed by candidate ID.
// Candidates whose file does not exist are left out of the map so the allocator reports them as missing input.
func (l *Loader) LoadResumes(ctx context.Context, candidates []db.Candidate) (map[string]string, error) {
	root, err := os.OpenRoot(l.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to open resume directory: %w", err)
	}
	defer root.Close()

	decoder := unicode.UTF8BOM.NewDecoder()
	texts := make(map[string]string, len(candidates))
	missing := 0

	for _, c := range candidates {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		name := FileName(c)
		data, err := root.ReadFile(name)
		if errors.Is(err, fs.ErrNotExist) {
			missing++
			l.logger.Debug("Resume not found", zap.String("candidate_id", c.ID), zap.String("file", name))
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read resume for candidate %s: %w", c.ID, err)
		}

		text, err := decoder.Bytes(data)
		if err != nil {
			return nil, fmt.Errorf("failed to decode resume for candidate %s: %w", c.ID, err)
		}
		texts[c.ID] = string(text)
	}

	l.logger.Debug("Loaded resumes",
		zap.Int("loaded", len(texts)),
		zap.Int("missing", missing))

	return texts, nil
}

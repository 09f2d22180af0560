// Package output writes the assembled Markdown document to disk.
package output

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/remd-cli/remd/internal/domain"
	"github.com/remd-cli/remd/internal/utils"
)

// Writer handles writing the final document to the filesystem
type Writer struct {
	baseDir string
	force   bool
	dryRun  bool
}

// WriterOptions contains options for the writer
type WriterOptions struct {
	BaseDir string
	Force   bool
	DryRun  bool
}

// NewWriter creates a new output writer
func NewWriter(opts WriterOptions) *Writer {
	if opts.BaseDir == "" {
		opts.BaseDir = "."
	}

	return &Writer{
		baseDir: utils.ExpandPath(opts.BaseDir),
		force:   opts.Force,
		dryRun:  opts.DryRun,
	}
}

// Path returns the output path for a repository
func (w *Writer) Path(info domain.RepoInfo) string {
	name := utils.SanitizeFilename(info.Owner) + "_" + utils.SanitizeFilename(info.Repo) + ".md"
	return filepath.Join(w.baseDir, name)
}

// Write saves the document and returns the path it was written to.
// An existing file is an error unless force is set.
func (w *Writer) Write(info domain.RepoInfo, content string) (string, error) {
	path := w.Path(info)

	if !w.force {
		if _, err := os.Stat(path); err == nil {
			return "", fmt.Errorf("output file already exists: %s (use --force to overwrite)", path)
		}
	}

	if w.dryRun {
		return path, nil
	}

	if err := utils.EnsureDir(path); err != nil {
		return "", err
	}

	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return "", err
	}

	return path, nil
}

package renderer

import (
	"strings"

	"github.com/remd-cli/remd/internal/domain"
	"github.com/remd-cli/remd/internal/filter"
)

// Render combines the file tree and fetched file contents into the final
// Markdown document.
//
// Only non-binary entries whose content was actually fetched are included;
// a fetched empty file still appears, a failed or skipped one does not.
// File content is embedded verbatim inside the code fence, no escaping.
func Render(repoDisplayName string, files []*domain.FileEntry) string {
	textFiles := make([]*domain.FileEntry, 0, len(files))
	for _, f := range files {
		if !f.IsBinary && f.HasContent() {
			textFiles = append(textFiles, f)
		}
	}

	paths := make([]string, len(textFiles))
	for i, f := range textFiles {
		paths[i] = f.Path
	}

	var parts []string

	parts = append(parts, "# Repository: "+repoDisplayName+"\n")

	parts = append(parts, "## File Structure\n")
	parts = append(parts, "```")
	parts = append(parts, BuildTree(paths))
	parts = append(parts, "```\n")

	parts = append(parts, "## Files\n")

	for _, entry := range textFiles {
		lang := entry.LanguageHint
		if lang == "" {
			lang = filter.LanguageHint(entry.Path)
		}
		parts = append(parts, "### `"+entry.Path+"`\n")
		parts = append(parts, "```"+lang)
		parts = append(parts, *entry.Content)
		parts = append(parts, "```\n")
	}

	return strings.Join(parts, "\n")
}

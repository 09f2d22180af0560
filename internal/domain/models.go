package domain

// ProviderType identifies a supported Git hosting service
type ProviderType string

const (
	// ProviderGitHub is github.com
	ProviderGitHub ProviderType = "github"
	// ProviderAzureDevOps is dev.azure.com / *.visualstudio.com
	ProviderAzureDevOps ProviderType = "azure_devops"
)

// RepoInfo contains parsed repository information.
//
// Branch is empty when the URL did not name one; Provider.ResolveBranch
// fills it in with the service's default branch and returns an updated
// copy, so a RepoInfo value is never mutated in place.
type RepoInfo struct {
	Provider ProviderType
	Owner    string
	Repo     string
	Branch   string
	Project  string // Azure DevOps only
	APIHost  string
	RawURL   string // URL as entered by the user
}

// DisplayName returns the "owner/repo" form used in output headers.
func (r RepoInfo) DisplayName() string {
	return r.Owner + "/" + r.Repo
}

// FileEntry represents a single regular file in the repository listing.
// Content is nil until the fetch loop populates it; a fetched empty file
// has a non-nil pointer to "".
type FileEntry struct {
	Path         string // forward-slash separated, relative, no leading slash
	Size         int64
	IsBinary     bool
	Content      *string
	LanguageHint string
}

// HasContent reports whether content was fetched for this entry.
func (f *FileEntry) HasContent() bool {
	return f.Content != nil
}

// SetContent stores fetched content on the entry.
func (f *FileEntry) SetContent(s string) {
	f.Content = &s
}

// FetchProgress is the per-file progress snapshot emitted by the fetch
// loop. Counts only ever increase; FetchedFiles counts every processed
// file (fetched, skipped, or failed), and each file lands in exactly one
// of {skip, success, error}.
type FetchProgress struct {
	TotalFiles    int
	FetchedFiles  int
	SkippedBinary int
	CurrentFile   string
	Errors        []string
}

// Succeeded returns the number of files fetched without error.
func (p FetchProgress) Succeeded() int {
	return p.FetchedFiles - p.SkippedBinary - len(p.Errors)
}

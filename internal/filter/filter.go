// Package filter implements binary-file detection, Markdown language-hint
// lookup, and regex path filtering for repository listings.
package filter

import (
	"bytes"
	"strings"
)

// contentSniffLimit bounds how many bytes of a file are inspected for the
// NUL-byte binary heuristic.
const contentSniffLimit = 8192

// binaryExtensions are extensions that are skipped without downloading.
var binaryExtensions = map[string]bool{
	// Images
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true, ".bmp": true,
	".ico": true, ".svg": true, ".webp": true, ".tiff": true,
	// Compiled / executables
	".exe": true, ".dll": true, ".so": true, ".dylib": true, ".o": true,
	".obj": true, ".class": true, ".pyc": true, ".pyo": true,
	// Archives
	".zip": true, ".tar": true, ".gz": true, ".bz2": true, ".xz": true,
	".7z": true, ".rar": true, ".jar": true, ".war": true,
	// Media
	".mp3": true, ".mp4": true, ".avi": true, ".mov": true, ".wav": true,
	".flac": true, ".ogg": true, ".mkv": true, ".webm": true,
	// Fonts
	".ttf": true, ".otf": true, ".woff": true, ".woff2": true, ".eot": true,
	// Binary documents
	".pdf": true, ".doc": true, ".docx": true, ".xls": true, ".xlsx": true,
	".ppt": true, ".pptx": true,
	// Databases
	".db": true, ".sqlite": true, ".sqlite3": true,
	// Other
	".bin": true, ".dat": true, ".lock": true, ".ds_store": true,
}

// languageByExtension maps extension to Markdown code-fence language hint.
var languageByExtension = map[string]string{
	".py":         "python",
	".js":         "javascript",
	".ts":         "typescript",
	".jsx":        "jsx",
	".tsx":        "tsx",
	".java":       "java",
	".kt":         "kotlin",
	".kts":        "kotlin",
	".cs":         "csharp",
	".go":         "go",
	".rs":         "rust",
	".rb":         "ruby",
	".php":        "php",
	".swift":      "swift",
	".c":          "c",
	".h":          "c",
	".cpp":        "cpp",
	".hpp":        "cpp",
	".cc":         "cpp",
	".sh":         "bash",
	".bash":       "bash",
	".zsh":        "zsh",
	".ps1":        "powershell",
	".sql":        "sql",
	".html":       "html",
	".htm":        "html",
	".css":        "css",
	".scss":       "scss",
	".sass":       "sass",
	".less":       "less",
	".xml":        "xml",
	".json":       "json",
	".yaml":       "yaml",
	".yml":        "yaml",
	".toml":       "toml",
	".ini":        "ini",
	".cfg":        "ini",
	".md":         "markdown",
	".markdown":   "markdown",
	".rst":        "rst",
	".tex":        "latex",
	".r":          "r",
	".scala":      "scala",
	".lua":        "lua",
	".pl":         "perl",
	".pm":         "perl",
	".ex":         "elixir",
	".exs":        "elixir",
	".erl":        "erlang",
	".hs":         "haskell",
	".dart":       "dart",
	".vue":        "vue",
	".svelte":     "svelte",
	".tf":         "hcl",
	".proto":      "protobuf",
	".graphql":    "graphql",
	".gql":        "graphql",
	".dockerfile": "dockerfile",
	".makefile":   "makefile",
}

// languageByFilename maps special filenames that have a known language.
// These take priority over extension lookup.
var languageByFilename = map[string]string{
	"Dockerfile":     "dockerfile",
	"Makefile":       "makefile",
	"Jenkinsfile":    "groovy",
	"Vagrantfile":    "ruby",
	"Gemfile":        "ruby",
	"Rakefile":       "ruby",
	"CMakeLists.txt": "cmake",
	".gitignore":     "gitignore",
	".dockerignore":  "gitignore",
	".editorconfig":  "ini",
}

// IsBinaryByExtension reports whether a path is likely binary based on its
// final extension. Matching is case-insensitive; no extension means false.
func IsBinaryByExtension(path string) bool {
	dot := strings.LastIndex(path, ".")
	if dot == -1 {
		return false
	}
	return binaryExtensions[strings.ToLower(path[dot:])]
}

// IsBinaryByContent reports whether content looks binary by checking for a
// NUL byte in the first 8 KB. Empty input is not binary. This is a
// heuristic sniff for cases where extension-based detection is unavailable.
func IsBinaryByContent(data []byte) bool {
	if len(data) > contentSniffLimit {
		data = data[:contentSniffLimit]
	}
	return bytes.IndexByte(data, 0x00) != -1
}

// LanguageHint returns the Markdown code-fence language hint for a file
// path, or "" if unknown. Exact filename matches win over extension lookup;
// the extension is tried as-is before being lowercased.
func LanguageHint(path string) string {
	filename := path
	if idx := strings.LastIndex(path, "/"); idx != -1 {
		filename = path[idx+1:]
	}

	if lang, ok := languageByFilename[filename]; ok {
		return lang
	}

	dot := strings.LastIndex(path, ".")
	if dot == -1 {
		return ""
	}
	ext := path[dot:]
	if lang, ok := languageByExtension[ext]; ok {
		return lang
	}
	return languageByExtension[strings.ToLower(ext)]
}

package ctxbuilder

import (
	"regexp"
	"strings"
)

// SourceExtensions is the closed set of extensions that count as an
// "explicit path with a known source extension" for mention extraction.
var SourceExtensions = []string{
	".go", ".py", ".js", ".jsx", ".ts", ".tsx", ".java", ".c", ".cpp", ".h", ".hpp",
	".rb", ".rs", ".php", ".cs", ".swift", ".kt", ".json", ".yaml", ".yml",
	".toml", ".md", ".txt", ".sh",
}

// Mention is a candidate path pulled out of a text block, with a
// confidence score used to rank it for reading.
type Mention struct {
	Path       string
	Confidence int
}

var (
	explicitPathPattern = regexp.MustCompile(`[A-Za-z0-9_./\-]+\.[A-Za-z0-9]+`)
	entityPattern        = regexp.MustCompile(`\b([A-Z][a-zA-Z0-9]*(?:Manager|Service|Handler|Client|Editor|Parser|Builder))\b`)
	directoryPattern     = regexp.MustCompile(`\b[A-Za-z0-9_\-]+/[A-Za-z0-9_\-./]+\b`)
	urlPattern           = regexp.MustCompile(`https?://\S+`)
)

// ExtractMentions scans text for path candidates per spec's three
// patterns: explicit paths with a known extension (confidence 10),
// PascalCase entities ending in a recognized suffix, converted to a
// snake_case candidate (confidence 5), and directory-looking
// slash-separated tokens (confidence 3). URLs are rejected outright.
func ExtractMentions(text string) []Mention {
	var mentions []Mention
	seen := map[string]bool{}
	text = urlPattern.ReplaceAllString(text, " ")

	add := func(path string, confidence int) {
		if path == "" || strings.HasPrefix(path, "http") || seen[path] {
			return
		}
		seen[path] = true
		mentions = append(mentions, Mention{Path: path, Confidence: confidence})
	}

	for _, m := range explicitPathPattern.FindAllString(text, -1) {
		if hasKnownExtension(m) {
			add(m, 10)
		}
	}

	for _, m := range entityPattern.FindAllStringSubmatch(text, -1) {
		add(toSnakeCase(m[1])+".py", 5)
	}

	for _, m := range directoryPattern.FindAllString(text, -1) {
		if strings.HasPrefix(m, "http") {
			continue
		}
		add(m, 3)
	}

	return mentions
}

func hasKnownExtension(path string) bool {
	for _, ext := range SourceExtensions {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}

// toSnakeCase converts a PascalCase identifier (e.g. "FileManager") into
// snake_case ("file_manager").
func toSnakeCase(s string) string {
	var b strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(r - 'A' + 'a')
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

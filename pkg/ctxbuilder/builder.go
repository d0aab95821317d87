package ctxbuilder

import (
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// FileReadResult is one file pulled into the prompt.
type FileReadResult struct {
	Path          string
	Content       string
	Priority      Priority
	TokenEstimate int
	ReadReason    string
	Truncated     bool
}

// TruncationMarker is the substring that must appear exactly once in any
// truncated FileReadResult's content.
const TruncationMarker = "... [Truncated"

// request is one candidate queued to be read, carrying enough provenance to
// fill in a FileReadResult if it's actually read.
type request struct {
	path     string
	priority Priority
	reason   string
}

// Builder assembles a token-budgeted, priority-ordered slice of project
// files for a single conversation turn. It owns a file-read cache keyed by
// absolute path, valid for the builder's lifetime; it is only ever driven
// from the TUI's single goroutine, so the cache needs no locking.
type Builder struct {
	ProjectRoot string
	UsageRatio  float64

	cache      map[string]string // absolute path -> content
	readPaths  map[string]bool   // absolute path -> already included in some result
}

// New builds a Builder rooted at projectRoot.
func New(projectRoot string) *Builder {
	return &Builder{
		ProjectRoot: projectRoot,
		UsageRatio:  DefaultUsageRatio,
		cache:       map[string]string{},
		readPaths:   map[string]bool{},
	}
}

// Build assembles context for a turn. explicitFiles are CRITICAL;
// mentions found in currentQuery are HIGH; mentions found in
// historyText are LOW; dependencies discovered while reading are MEDIUM.
// contextWindow and the builder's UsageRatio determine the budget. A
// budget of 0 returns an empty, error-free result.
func (b *Builder) Build(explicitFiles []string, currentQuery, historyText string, contextWindow int) []FileReadResult {
	budget := Budget(contextWindow, b.UsageRatio)
	if budget <= 0 {
		return nil
	}

	queue := b.seedQueue(explicitFiles, currentQuery, historyText)

	var results []FileReadResult
	total := 0

	for len(queue) > 0 && total < budget {
		sort.SliceStable(queue, func(i, j int) bool { return queue[i].priority > queue[j].priority })
		next := queue[0]
		queue = queue[1:]

		resolved, ok := b.resolve(next.path)
		if !ok {
			continue // unresolved candidates are simply skipped
		}
		if b.readPaths[resolved] {
			continue
		}

		content, err := b.read(resolved)
		if err != nil {
			continue
		}

		remaining := budget - total
		result := b.toResult(resolved, content, next.priority, next.reason, budget, remaining)
		results = append(results, result)
		b.readPaths[resolved] = true
		total += result.TokenEstimate

		for _, dep := range DiscoverDependencies(resolved, content) {
			queue = append(queue, request{path: dep, priority: PriorityMedium, reason: "dependency of " + next.path})
		}
		for _, testPath := range TestFileCandidates(resolved) {
			queue = append(queue, request{path: testPath, priority: PriorityMedium, reason: "test file for " + next.path})
		}
	}

	return results
}

func (b *Builder) seedQueue(explicitFiles []string, currentQuery, historyText string) []request {
	var queue []request

	for _, f := range explicitFiles {
		queue = append(queue, request{path: f, priority: PriorityCritical, reason: "explicitly requested"})
	}
	for _, m := range ExtractMentions(currentQuery) {
		queue = append(queue, request{path: m.Path, priority: PriorityHigh, reason: "mentioned in current query"})
	}
	for _, m := range ExtractMentions(historyText) {
		queue = append(queue, request{path: m.Path, priority: PriorityLow, reason: "mentioned in conversation history"})
	}

	return queue
}

func (b *Builder) toResult(path, content string, priority Priority, reason string, budget, remaining int) FileReadResult {
	tokenEstimate := EstimateTokens(content)
	maxSingleFile := int(float64(budget) * 0.3)

	if tokenEstimate > maxSingleFile || tokenEstimate > remaining {
		allowedChars := min(maxSingleFile, remaining) * CharsPerToken
		content = truncate(content, allowedChars)
		return FileReadResult{
			Path:          path,
			Content:       content,
			Priority:      priority,
			TokenEstimate: EstimateTokens(content),
			ReadReason:    reason,
			Truncated:     true,
		}
	}

	return FileReadResult{
		Path:          path,
		Content:       content,
		Priority:      priority,
		TokenEstimate: tokenEstimate,
		ReadReason:    reason,
	}
}

// truncate keeps the first and last halves of allowedChars, inserting the
// marker in the middle, so the kept text sums to <= allowedChars.
func truncate(content string, allowedChars int) string {
	if allowedChars <= 0 || len(content) <= allowedChars {
		return content
	}

	marker := TruncationMarker + " N characters] ..."
	half := allowedChars / 2
	if half <= 0 {
		return marker
	}

	head := content[:half]
	tailStart := len(content) - half
	if tailStart < half {
		tailStart = half
	}
	tail := content[tailStart:]

	removed := len(content) - len(head) - len(tail)
	return head + "\n" + strings.Replace(marker, "N", strconv.Itoa(removed), 1) + "\n" + tail
}

// resolve applies the resolution rules in order: the path as given if
// absolute and existing, joined to the project root, or with a leading
// slash stripped then joined to the project root. Returns ok=false,
// never an error, when none of the candidates exist — the caller just
// skips the mention.
func (b *Builder) resolve(path string) (string, bool) {
	if filepath.IsAbs(path) {
		if fileExists(path) {
			return path, true
		}
	}

	joined := filepath.Join(b.ProjectRoot, path)
	if fileExists(joined) {
		return joined, true
	}

	stripped := filepath.Join(b.ProjectRoot, strings.TrimPrefix(path, "/"))
	if fileExists(stripped) {
		return stripped, true
	}

	return "", false
}

func (b *Builder) read(absPath string) (string, error) {
	if content, ok := b.cache[absPath]; ok {
		return content, nil
	}

	data, err := os.ReadFile(absPath)
	if err != nil {
		return "", err
	}
	content := string(data)
	b.cache[absPath] = content
	return content, nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// FileExists is the FileExistsFunc the router's clarification gate uses,
// backed by the same resolution rules as Build.
func (b *Builder) FileExists(path string) bool {
	_, ok := b.resolve(path)
	return ok
}

// InvalidateCache drops every cached file read, forcing the next Build to
// re-read from disk. Used by /refresh when files may have changed under
// the running process.
func (b *Builder) InvalidateCache() {
	b.cache = map[string]string{}
	b.readPaths = map[string]bool{}
}

package tui

import (
	"strings"
)

// PlanComplexity classifies a PendingPlan by how much it touches.
type PlanComplexity string

const (
	ComplexitySimple   PlanComplexity = "simple"
	ComplexityModerate PlanComplexity = "moderate"
	ComplexityComplex  PlanComplexity = "complex"
)

// PendingPlan is the deterministic extraction of an ARCHITECT response,
// awaiting user approval before anything acts on it.
type PendingPlan struct {
	Summary       string
	FilesAffected []string
	Actions       []string
	Complexity    PlanComplexity

	// originalRequest is re-sent in EXECUTE mode if the plan is approved.
	originalRequest string
}

var planFileExtensions = []string{
	".py", ".js", ".ts", ".json", ".md", ".txt", ".yml", ".yaml", ".toml",
}

var planActionVerbs = []string{
	"create", "modify", "delete", "update", "add", "remove", "implement", "refactor",
}

// extractPlan applies the fixed heuristic to a fully-streamed assistant
// response, producing the plan the ARCHITECT approval loop gates on.
func extractPlan(response, originalRequest string) *PendingPlan {
	return &PendingPlan{
		Summary:         extractSummary(response),
		FilesAffected:   extractFiles(response),
		Actions:         extractActions(response),
		Complexity:      classifyComplexity(extractFiles(response), extractActions(response)),
		originalRequest: originalRequest,
	}
}

// extractFiles scans for tokens ending in a recognized source extension,
// in appearance order, deduplicated, capped at 10.
func extractFiles(response string) []string {
	var files []string
	seen := map[string]bool{}

	for _, line := range strings.Split(response, "\n") {
		for _, token := range strings.Fields(line) {
			candidate := strings.Trim(token, ".,;:!?()[]{}'\"`*")
			if !hasPlanExtension(candidate) || len(candidate) <= 3 {
				continue
			}
			if seen[candidate] {
				continue
			}
			seen[candidate] = true
			files = append(files, candidate)
			if len(files) >= 10 {
				return files
			}
		}
	}

	return files
}

func hasPlanExtension(token string) bool {
	for _, ext := range planFileExtensions {
		if strings.HasSuffix(token, ext) {
			return true
		}
	}
	return false
}

// extractActions collects lines that mention an action verb, are longer
// than 10 characters, and don't open with a markdown heading, capped at 10.
func extractActions(response string) []string {
	var actions []string

	for _, line := range strings.Split(response, "\n") {
		trimmed := strings.TrimSpace(line)
		if len(trimmed) <= 10 || strings.HasPrefix(trimmed, "#") {
			continue
		}
		lower := strings.ToLower(trimmed)
		for _, verb := range planActionVerbs {
			if strings.Contains(lower, verb) {
				actions = append(actions, trimmed)
				break
			}
		}
		if len(actions) >= 10 {
			break
		}
	}

	return actions
}

// extractSummary takes the first three non-comment lines longer than 20
// characters that don't look like markdown fences or rules.
func extractSummary(response string) string {
	var picked []string

	for _, line := range strings.Split(response, "\n") {
		trimmed := strings.TrimSpace(line)
		if len(trimmed) <= 20 || strings.HasPrefix(trimmed, "#") {
			continue
		}
		if strings.Contains(trimmed, "```") || strings.Contains(trimmed, "---") || strings.Contains(trimmed, "===") || strings.Contains(trimmed, "***") {
			continue
		}
		picked = append(picked, trimmed)
		if len(picked) == 3 {
			break
		}
	}

	return strings.Join(picked, " ")
}

func classifyComplexity(files, actions []string) PlanComplexity {
	switch {
	case len(files) > 3 || len(actions) > 5:
		return ComplexityComplex
	case len(files) > 1 || len(actions) > 2:
		return ComplexityModerate
	default:
		return ComplexitySimple
	}
}

// planApprovalVerdict classifies the user's reply while a PendingPlan
// awaits approval.
type planApprovalVerdict string

const (
	planApproved  planApprovalVerdict = "approved"
	planRejected  planApprovalVerdict = "rejected"
	planShowFull  planApprovalVerdict = "show_full"
	planUndecided planApprovalVerdict = "undecided"
)

func judgePlanReply(input string) planApprovalVerdict {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "yes", "approve":
		return planApproved
	case "no", "cancel":
		return planRejected
	case "show full":
		return planShowFull
	default:
		return planUndecided
	}
}

func (p *PendingPlan) render() string {
	var b strings.Builder
	b.WriteString(p.Summary)
	b.WriteString("\n\n")
	if len(p.FilesAffected) > 0 {
		b.WriteString("Files: " + strings.Join(p.FilesAffected, ", ") + "\n")
	}
	if len(p.Actions) > 0 {
		b.WriteString("Actions:\n")
		for _, a := range p.Actions {
			b.WriteString("  - " + a + "\n")
		}
	}
	b.WriteString("Complexity: " + string(p.Complexity))
	return b.String()
}

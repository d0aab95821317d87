package tui

import "testing"

func TestExtractFilesDedupsAndCaps(t *testing.T) {
	response := "I'll edit main.py and also touch main.py again, then config.toml and README.md."
	files := extractFiles(response)

	if len(files) != 3 {
		t.Fatalf("expected 3 unique files, got %d: %v", len(files), files)
	}
	if files[0] != "main.py" {
		t.Errorf("expected first file main.py, got %s", files[0])
	}
}

func TestExtractActionsSkipsHeadingsAndShortLines(t *testing.T) {
	response := "# create a plan\nshort\nWe will create a new handler function for the upload route.\nupdate the config loader to read the new field from disk."
	actions := extractActions(response)

	if len(actions) != 2 {
		t.Fatalf("expected 2 actions, got %d: %v", len(actions), actions)
	}
}

func TestClassifyComplexity(t *testing.T) {
	cases := []struct {
		files, actions int
		want           PlanComplexity
	}{
		{0, 0, ComplexitySimple},
		{2, 0, ComplexityModerate},
		{0, 3, ComplexityModerate},
		{4, 0, ComplexityComplex},
		{0, 6, ComplexityComplex},
	}

	for _, c := range cases {
		files := make([]string, c.files)
		actions := make([]string, c.actions)
		got := classifyComplexity(files, actions)
		if got != c.want {
			t.Errorf("classifyComplexity(%d, %d) = %s, want %s", c.files, c.actions, got, c.want)
		}
	}
}

func TestJudgePlanReply(t *testing.T) {
	cases := map[string]planApprovalVerdict{
		"yes":       planApproved,
		"Approve":   planApproved,
		"no":        planRejected,
		"CANCEL":    planRejected,
		"show full": planShowFull,
		"maybe":     planUndecided,
	}

	for input, want := range cases {
		if got := judgePlanReply(input); got != want {
			t.Errorf("judgePlanReply(%q) = %s, want %s", input, got, want)
		}
	}
}

func TestExtractPlanSummaryPicksThreeLongLines(t *testing.T) {
	response := "short\n" +
		"This is a sufficiently long first line of explanation text.\n" +
		"```\ncode fence content here\n```\n" +
		"This is a sufficiently long second line of explanation text.\n" +
		"This is a sufficiently long third line of explanation text.\n" +
		"This fourth line should never be picked up by the heuristic."

	plan := extractPlan(response, "do the thing")
	if plan.originalRequest != "do the thing" {
		t.Errorf("expected originalRequest preserved, got %q", plan.originalRequest)
	}
	if plan.Summary == "" {
		t.Error("expected a non-empty summary")
	}
}

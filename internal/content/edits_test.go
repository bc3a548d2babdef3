package content

import "testing"

func TestApplyEditPlanReplacesFirstOccurrence(t *testing.T) {
	plan := EditPlan{
		Title:    "NO CHANGE",
		Subtitle: "NO CHANGE",
		BodyChanges: []BodyChange{
			{Find: "a good", Replace: "a good, spectacular, marvelous"},
		},
	}
	result := ApplyEditPlan(plan, "Title", "Sub", "Have a good day and a good night")

	if result.Body != "Have a good, spectacular, marvelous day and a good night" {
		t.Errorf("body = %q", result.Body)
	}
	if result.ChangesApplied != 1 {
		t.Errorf("ChangesApplied = %d, want 1", result.ChangesApplied)
	}
	if result.Title != "Title" || result.Subtitle != "Sub" {
		t.Errorf("NO CHANGE fields modified: %+v", result)
	}
}

func TestApplyEditPlanUpdatesTitleAndSubtitle(t *testing.T) {
	plan := EditPlan{Title: "New Title", Subtitle: "New Subtitle"}
	result := ApplyEditPlan(plan, "Old", "Old Sub", "body")

	if result.Title != "New Title" {
		t.Errorf("title = %q", result.Title)
	}
	if result.Subtitle != "New Subtitle" {
		t.Errorf("subtitle = %q", result.Subtitle)
	}
	if result.Body != "body" || result.ChangesApplied != 0 {
		t.Errorf("body changed unexpectedly: %+v", result)
	}
}

func TestApplyEditPlanSkipsMissingSnippets(t *testing.T) {
	plan := EditPlan{
		Title:    "NO CHANGE",
		Subtitle: "NO CHANGE",
		BodyChanges: []BodyChange{
			{Find: "not present", Replace: "whatever"},
			{Find: "world", Replace: "there"},
			{Find: "", Replace: "ignored"},
		},
	}
	result := ApplyEditPlan(plan, "t", "s", "hello world")

	if result.Body != "hello there" {
		t.Errorf("body = %q", result.Body)
	}
	if result.ChangesApplied != 1 {
		t.Errorf("ChangesApplied = %d, want 1", result.ChangesApplied)
	}
}

func TestApplyEditPlanEmptyTitleLeavesCurrent(t *testing.T) {
	result := ApplyEditPlan(EditPlan{}, "Keep", "Keep Sub", "body")
	if result.Title != "Keep" || result.Subtitle != "Keep Sub" {
		t.Errorf("empty plan fields must not clear values: %+v", result)
	}
}

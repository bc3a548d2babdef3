package content

import "strings"

// BodyChange is one find/replace operation from an edit plan.
type BodyChange struct {
	Find    string `json:"find"`
	Replace string `json:"replace"`
}

// EditPlan is the structured diff returned by the editing model. Title and
// Subtitle carry the literal "NO CHANGE" when untouched.
type EditPlan struct {
	Title       string       `json:"title"`
	Subtitle    string       `json:"subtitle"`
	BodyChanges []BodyChange `json:"body_changes"`
}

// noChange is the sentinel the editing model uses for untouched fields.
const noChange = "NO CHANGE"

// EditResult is the outcome of applying an EditPlan.
type EditResult struct {
	Title          string
	Subtitle       string
	Body           string
	ChangesApplied int
}

// ApplyEditPlan applies the plan to the current fields. Each body change
// replaces the first occurrence of its find snippet; snippets not present are
// skipped without failing. Title and subtitle keep their current values when
// the plan says NO CHANGE.
func ApplyEditPlan(plan EditPlan, title, subtitle, body string) EditResult {
	result := EditResult{Title: title, Subtitle: subtitle, Body: body}

	for _, change := range plan.BodyChanges {
		find := strings.TrimSpace(change.Find)
		if find == "" || !strings.Contains(result.Body, find) {
			continue
		}
		result.Body = strings.Replace(result.Body, find, strings.TrimSpace(change.Replace), 1)
		result.ChangesApplied++
	}

	if plan.Title != "" && plan.Title != noChange {
		result.Title = plan.Title
	}
	if plan.Subtitle != "" && plan.Subtitle != noChange {
		result.Subtitle = plan.Subtitle
	}
	return result
}

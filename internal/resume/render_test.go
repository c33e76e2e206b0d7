package resume

import (
	"strings"
	"testing"
)

func TestRender_FullResume(t *testing.T) {
	r := &JSONResume{
		Name:      "Jane Doe",
		Email:     "jane@example.com",
		Phone:     "+1 555 0100",
		Label:     "Senior Software Engineer",
		Objective: "Build reliable distributed systems.",
		Location: &Location{
			City:        "Berlin",
			CountryCode: "DE",
		},
		Work: []WorkItem{
			{
				Name:       "Acme Corp",
				Position:   "Staff Engineer",
				StartDate:  "2020-01",
				Summary:    "Led the platform team.",
				Highlights: []string{"Cut deploy time by 80%", "Introduced canary releases"},
			},
			{
				Name:      "Initech",
				Position:  "Backend Engineer",
				StartDate: "2016-06",
				EndDate:   "2019-12",
			},
		},
		Education: []EducationItem{
			{Institution: "TU Berlin", Area: "Computer Science", StudyType: "MSc", StartDate: "2012", EndDate: "2016", Score: "1.3"},
		},
		Skills: []Skill{
			{Name: "Go", Level: "Expert", Keywords: []string{"concurrency", "grpc"}},
			{Name: "PostgreSQL"},
		},
		Languages: []Language{
			{Language: "German", Fluency: "Native"},
			{Language: "English", Fluency: "Fluent"},
		},
	}

	text, err := Render(r)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wantLines := []string{
		"Name: Jane Doe",
		"Email: jane@example.com",
		"Title: Senior Software Engineer",
		"Location: Berlin, DE",
		"Build reliable distributed systems.",
		"- Staff Engineer at Acme Corp (2020-01 - Present)",
		"  * Cut deploy time by 80%",
		"- Backend Engineer at Initech (2016-06 - 2019-12)",
		"- TU Berlin, Computer Science (MSc) 2012 - 2016, GPA 1.3",
		"- Go (Expert): concurrency, grpc",
		"- PostgreSQL",
		"- German: Native",
	}
	for _, line := range wantLines {
		if !strings.Contains(text, line) {
			t.Errorf("rendered text missing %q\nfull output:\n%s", line, text)
		}
	}
}

func TestRender_MinimalResume(t *testing.T) {
	text, err := Render(&JSONResume{Name: "John Smith"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.HasPrefix(text, "Name: John Smith") {
		t.Errorf("unexpected output: %q", text)
	}
	for _, heading := range []string{"Work experience:", "Education:", "Skills:"} {
		if strings.Contains(text, heading) {
			t.Errorf("empty section %q should be omitted\nfull output:\n%s", heading, text)
		}
	}
}

func TestRender_OmitsEmptyOptionalFields(t *testing.T) {
	text, err := Render(&JSONResume{
		Name: "No Frills",
		Work: []WorkItem{{Position: "Engineer"}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if strings.Contains(text, "Gender:") || strings.Contains(text, "Email:") {
		t.Errorf("unset fields leaked into output:\n%s", text)
	}
	// No company, no dates: the line is just the position.
	if !strings.Contains(text, "- Engineer") {
		t.Errorf("work entry missing:\n%s", text)
	}
}

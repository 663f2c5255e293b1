package drafting

import (
	"context"
	"errors"
	"fmt"
)

type call struct {
	system string
	user   string
}

// fakeLLM replays canned responses in order
type fakeLLM struct {
	responses []string
	err       error
	calls     []call
}

func (f *fakeLLM) GenerateContent(_ context.Context, system, user string) (string, error) {
	f.calls = append(f.calls, call{system, user})
	if f.err != nil {
		return "", f.err
	}
	if len(f.calls) > len(f.responses) {
		return "", errors.New("unexpected call")
	}
	return f.responses[len(f.calls)-1], nil
}

func (f *fakeLLM) Model() string { return "fake-model" }

// fakePrompts renders "<name> <data>" so tests can see template data
type fakePrompts struct{}

func (fakePrompts) Render(name string, data any) (string, string, error) {
	return fmt.Sprintf("%s %+v", name, data), name + ":00000000", nil
}

func strPtr(s string) *string { return &s }

func sampleContext() *Context {
	return &Context{
		CompanyName: "Acme",
		JobTitle:    "Backend Engineer",
		HREmail:     strPtr("jobs@acme.io"),
		Generated: GeneratedContext{
			RoleSummary:       "Build APIs",
			KeySkillAlignment: []string{"Go"},
			ValueProposition:  "Ships reliable services",
		},
	}
}

const contextJSON = `{
  "company_name": "Acme",
  "job_title": "Backend Engineer",
  "hr_email": null,
  "hr_name": null,
  "hr_linkedin": null,
  "generated_context": {
    "role_summary": "Build APIs",
    "key_skill_alignment": ["Go", "PostgreSQL"],
    "relevant_projects": [{"name": "queue", "source": "github", "description": "job queue", "tech_stack": ["Go"]}],
    "value_proposition": "Ships reliable services",
    "tone_guidelines": {"cold_email": "direct", "linkedin_message": "warm", "cover_letter": "formal"}
  }
}`

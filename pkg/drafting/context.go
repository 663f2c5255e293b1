package drafting

import "strings"

// Context is the reusable analysis of a job description against the
// candidate profile. Recruiter fields stay nil unless the model could
// verify them.
type Context struct {
	CompanyName string           `json:"company_name" yaml:"company_name"`
	JobTitle    string           `json:"job_title" yaml:"job_title"`
	HREmail     *string          `json:"hr_email" yaml:"hr_email"`
	HRName      *string          `json:"hr_name" yaml:"hr_name"`
	HRLinkedIn  *string          `json:"hr_linkedin" yaml:"hr_linkedin"`
	Generated   GeneratedContext `json:"generated_context" yaml:"generated_context"`
}

type GeneratedContext struct {
	RoleSummary       string         `json:"role_summary" yaml:"role_summary"`
	KeySkillAlignment []string       `json:"key_skill_alignment" yaml:"key_skill_alignment"`
	RelevantProjects  []Project      `json:"relevant_projects" yaml:"relevant_projects"`
	ValueProposition  string         `json:"value_proposition" yaml:"value_proposition"`
	ToneGuidelines    ToneGuidelines `json:"tone_guidelines" yaml:"tone_guidelines"`
}

type Project struct {
	Name        string   `json:"name" yaml:"name"`
	Source      string   `json:"source" yaml:"source"`
	Description string   `json:"description" yaml:"description"`
	TechStack   []string `json:"tech_stack" yaml:"tech_stack"`
}

type ToneGuidelines struct {
	ColdEmail       string `json:"cold_email" yaml:"cold_email"`
	LinkedInMessage string `json:"linkedin_message" yaml:"linkedin_message"`
	CoverLetter     string `json:"cover_letter" yaml:"cover_letter"`
}

func (c *Context) missingRecruiter() bool {
	return c.HREmail == nil || c.HRName == nil || c.HRLinkedIn == nil
}

// RecruiterEmail returns the verified recruiter address, or "" when unknown
func (c *Context) RecruiterEmail() string {
	if c == nil || c.HREmail == nil {
		return ""
	}
	e := strings.TrimSpace(*c.HREmail)
	if !strings.Contains(e, "@") {
		return ""
	}
	return e
}

// RecruiterProfile returns the recruiter's profile link, or "" when unknown
func (c *Context) RecruiterProfile() string {
	if c == nil || c.HRLinkedIn == nil {
		return ""
	}
	return strings.TrimSpace(*c.HRLinkedIn)
}

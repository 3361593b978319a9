package service

import "strings"

var headerRule = strings.Repeat("-", 50)

// RenderText formats the structure as plain text with fixed section headers.
// Empty sections are omitted.
func RenderText(s ResumeStructure) string {
	var b strings.Builder
	if s.ContactInfo != "" {
		b.WriteString(s.ContactInfo)
		b.WriteString("\n\n")
	}
	for _, sec := range []struct {
		header  string
		content string
	}{
		{"SUMMARY", s.Summary},
		{"PROFESSIONAL EXPERIENCE", s.Experience},
		{"EDUCATION", s.Education},
		{"SKILLS", s.Skills},
		{"PROJECTS", s.Projects},
		{"CERTIFICATIONS", s.Certifications},
		{"AWARDS & ACHIEVEMENTS", s.Awards},
		{"LANGUAGES", s.Languages},
		{"INTERESTS", s.Interests},
	} {
		if sec.content == "" {
			continue
		}
		b.WriteString(sec.header)
		b.WriteString("\n")
		b.WriteString(headerRule)
		b.WriteString("\n")
		b.WriteString(sec.content)
		b.WriteString("\n\n")
	}
	return strings.TrimSpace(b.String())
}

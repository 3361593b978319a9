// Package sections splits free-form resume text into named sections.
package sections

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"jobprep-backend/resume/model"
)

const (
	maxContactLines  = 5
	maxHeadingLength = 50
)

// HeadingDetector maps a heading line to a section name.
type HeadingDetector struct {
	Section string
	Pattern *regexp.Regexp
}

// HeadingDetectors is evaluated top to bottom and the first match wins.
var HeadingDetectors = []HeadingDetector{
	{Section: model.SectionSummary, Pattern: regexp.MustCompile(`(?i)\b(summary|profile|objective|about)\b`)},
	{Section: model.SectionExperience, Pattern: regexp.MustCompile(`(?i)\b(experience|work|employment|history)\b`)},
	{Section: model.SectionEducation, Pattern: regexp.MustCompile(`(?i)\b(education|academic|qualifications|degree)\b`)},
	{Section: model.SectionSkills, Pattern: regexp.MustCompile(`(?i)\b(skills|technical skills|competencies|expertise)\b`)},
	{Section: model.SectionProjects, Pattern: regexp.MustCompile(`(?i)\b(projects|portfolio)\b`)},
	{Section: model.SectionCertifications, Pattern: regexp.MustCompile(`(?i)\b(certifications|certificates)\b`)},
	{Section: model.SectionAwards, Pattern: regexp.MustCompile(`(?i)\b(awards|honors|achievements)\b`)},
	{Section: model.SectionLanguages, Pattern: regexp.MustCompile(`(?i)\b(languages)\b`)},
	{Section: model.SectionInterests, Pattern: regexp.MustCompile(`(?i)\b(interests|hobbies|activities)\b`)},
}

// contactStopWords end the contact block when found anywhere in a line.
var contactStopWords = []string{"summary", "experience", "education", "skills"}

// DetectHeading reports the section a line introduces. Lines of 50 or more
// characters are never headings.
func DetectHeading(line string) (string, bool) {
	line = strings.TrimSpace(line)
	if line == "" || utf8.RuneCountInString(line) >= maxHeadingLength {
		return "", false
	}
	for _, d := range HeadingDetectors {
		if d.Pattern.MatchString(line) {
			return d.Section, true
		}
	}
	return "", false
}

// Parse splits text into sections. It never fails; text without any
// recognizable heading ends up in contactInfo.
//
// A heading repeated later in the text replaces the earlier content while
// the section keeps its first position.
func Parse(text string) model.ParsedSections {
	lines := contentLines(text)

	contact := make([]string, 0, maxContactLines)
	i := 0
	for ; i < len(lines) && i < maxContactLines; i++ {
		if hasContactStopWord(lines[i]) {
			break
		}
		contact = append(contact, lines[i])
	}

	body := model.ParsedSections{}
	current := ""
	var buf []string
	flush := func() {
		if current == "" {
			return
		}
		body.Set(current, strings.TrimSpace(strings.Join(buf, "\n")))
	}

	for _, line := range lines[i:] {
		if name, ok := DetectHeading(line); ok {
			flush()
			current = name
			buf = nil
			continue
		}
		if current == "" {
			contact = append(contact, line)
			continue
		}
		buf = append(buf, line)
	}
	flush()

	out := make(model.ParsedSections, 0, len(body)+1)
	out = append(out, model.Section{
		Name:    model.SectionContactInfo,
		Content: strings.TrimSpace(strings.Join(contact, "\n")),
	})
	return append(out, body...)
}

// contentLines returns trimmed lines, skipping whitespace-only ones.
func contentLines(text string) []string {
	raw := strings.Split(text, "\n")
	out := make([]string, 0, len(raw))
	for _, line := range raw {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func hasContactStopWord(line string) bool {
	lower := strings.ToLower(line)
	for _, w := range contactStopWords {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}

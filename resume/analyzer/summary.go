package analyzer

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"jobprep-backend/resume/model"
)

var (
	rolePattern   = regexp.MustCompile(`(?i)\b((?:senior|junior|lead|staff|principal)\s+)?(software engineer|backend engineer|back-end engineer|frontend engineer|front-end engineer|full[- ]stack (?:engineer|developer)|data scientist|data engineer|data analyst|devops engineer|site reliability engineer|machine learning engineer|product manager|project manager|product designer|ux designer|qa engineer|developer|engineer|analyst|manager|consultant|architect|designer)\b`)
	yearsPattern  = regexp.MustCompile(`(?i)\b(\d{1,2})\s*\+?\s*(?:-\s*\d{1,2}\s*)?years?\b`)
	degreePattern = regexp.MustCompile(`(?i)\b(bachelor'?s?|master'?s?|ph\.?d|doctorate|mba|degree)\b`)
	certPattern   = regexp.MustCompile(`(?i)\bcertif(?:ied|ication|ications|icate)\b`)
)

const defaultRole = "professional"

// guessRole picks a role title from the job description, falling back to the
// first line of the resume experience and then a generic title.
func guessRole(jobDescription string, sections model.ParsedSections) string {
	if m := rolePattern.FindString(jobDescription); m != "" {
		return strings.ToLower(strings.Join(strings.Fields(m), " "))
	}
	if m := rolePattern.FindString(sections.Get(model.SectionExperience)); m != "" {
		return strings.ToLower(strings.Join(strings.Fields(m), " "))
	}
	return defaultRole
}

// maxYears returns the largest "N years" figure in text, or 0.
func maxYears(text string) int {
	best := 0
	for _, m := range yearsPattern.FindAllStringSubmatch(text, -1) {
		if n, err := strconv.Atoi(m[1]); err == nil && n > best {
			best = n
		}
	}
	return best
}

// synthesizeSummary builds a deterministic two-sentence summary.
func synthesizeSummary(role string, years int, skills []string) string {
	var b strings.Builder
	b.WriteString(capitalize(role))
	switch {
	case years > 0 && len(skills) > 0:
		b.WriteString(" with " + strconv.Itoa(years) + "+ years of experience in " + joinList(skills) + ".")
	case len(skills) > 0:
		b.WriteString(" experienced in " + joinList(skills) + ".")
	case years > 0:
		b.WriteString(" with " + strconv.Itoa(years) + "+ years of experience.")
	default:
		b.WriteString(" with a track record of delivering results.")
	}
	b.WriteString(" Proven ability to deliver measurable outcomes and collaborate across teams.")
	return b.String()
}

// summarySkills lists up to four skills for a summary: keywords the resume
// already matches first, then other vocabulary terms found in the resume.
func summarySkills(s signals, resumeText string) []string {
	const limit = 4
	var out []string
	seen := map[string]bool{}
	for i, kw := range s.keywords {
		if len(out) == limit {
			return out
		}
		if s.ratios[i] > 0 && !seen[kw.key] {
			seen[kw.key] = true
			out = append(out, kw.display)
		}
	}
	for _, t := range vocabularyMentions(resumeText) {
		if len(out) == limit {
			break
		}
		if !seen[t.key] {
			seen[t.key] = true
			out = append(out, t.display)
		}
	}
	return out
}

// tailoredSkills covers the job description: matched keywords, then missing ones.
func tailoredSkills(s signals) []string {
	const limit = 5
	var matched, missing []string
	for i, kw := range s.keywords {
		if s.ratios[i] > 0 {
			matched = append(matched, kw.display)
		} else {
			missing = append(missing, kw.display)
		}
	}
	out := append(matched, missing...)
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// requirements returns job description requirements the resume does not show.
func requirements(jobDescription, resumeText string) []string {
	var out []string
	if need := maxYears(jobDescription); need > 0 && maxYears(resumeText) < need {
		out = append(out, strconv.Itoa(need)+"+ years of experience")
	}
	if m := degreePattern.FindString(jobDescription); m != "" && !degreePattern.MatchString(resumeText) {
		out = append(out, degreeLabel(m))
	}
	if certPattern.MatchString(jobDescription) && !certPattern.MatchString(resumeText) {
		out = append(out, "Relevant certifications")
	}
	return out
}

func degreeLabel(match string) string {
	m := strings.ToLower(match)
	switch {
	case strings.HasPrefix(m, "bachelor"):
		return "Bachelor's degree"
	case strings.HasPrefix(m, "master"):
		return "Master's degree"
	case strings.HasPrefix(m, "ph"), m == "doctorate":
		return "PhD"
	case m == "mba":
		return "MBA"
	default:
		return "Relevant degree"
	}
}

func joinList(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	default:
		return strings.Join(items[:len(items)-1], ", ") + " and " + items[len(items)-1]
	}
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

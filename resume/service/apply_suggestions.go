// Package service folds selected suggestions back into resume text.
package service

import (
	"errors"
	"strings"

	"jobprep-backend/resume/model"
	"jobprep-backend/resume/sections"
)

// ErrMissingParsedSections is returned when the analysis lacks parsed sections.
var ErrMissingParsedSections = errors.New("analysis has no parsed sections")

// ResumeStructure holds one text block per section.
type ResumeStructure struct {
	ContactInfo    string `json:"contactInfo"`
	Summary        string `json:"summary"`
	Experience     string `json:"experience"`
	Education      string `json:"education"`
	Skills         string `json:"skills"`
	Projects       string `json:"projects"`
	Certifications string `json:"certifications"`
	Awards         string `json:"awards"`
	Languages      string `json:"languages"`
	Interests      string `json:"interests"`
}

// ApplySuggestions re-parses originalText, applies the selected suggestions in
// the order given and renders the result. Callers own the ordering: for
// overwrite types the last one wins, for fill types the first one wins.
func ApplySuggestions(originalText string, analysis *model.AnalysisResult, selected []model.Suggestion) (string, error) {
	structure, err := BuildStructure(originalText, analysis, selected)
	if err != nil {
		return "", err
	}
	return RenderText(structure), nil
}

// BuildStructure returns the merged structure without rendering it.
func BuildStructure(originalText string, analysis *model.AnalysisResult, selected []model.Suggestion) (ResumeStructure, error) {
	if analysis == nil || analysis.ParsedSections == nil {
		return ResumeStructure{}, ErrMissingParsedSections
	}

	s := seed(sections.Parse(originalText), analysis.ParsedSections)
	for _, sug := range selected {
		s.apply(sug)
	}
	return s, nil
}

// seed fills the structure from the fresh parse, letting overlays win.
func seed(parsed model.ParsedSections, overlay *model.AnalyzedSections) ResumeStructure {
	s := ResumeStructure{
		ContactInfo:    parsed.Get(model.SectionContactInfo),
		Summary:        parsed.Get(model.SectionSummary),
		Experience:     parsed.Get(model.SectionExperience),
		Education:      parsed.Get(model.SectionEducation),
		Skills:         parsed.Get(model.SectionSkills),
		Projects:       parsed.Get(model.SectionProjects),
		Certifications: parsed.Get(model.SectionCertifications),
		Awards:         parsed.Get(model.SectionAwards),
		Languages:      parsed.Get(model.SectionLanguages),
		Interests:      parsed.Get(model.SectionInterests),
	}
	if overlay.Contact != nil {
		if lines := overlay.Contact.Lines(); lines != "" {
			s.ContactInfo = lines
		}
	}
	if overlay.EnhancedSummary != "" {
		s.Summary = overlay.EnhancedSummary
	}
	if len(overlay.EnhancedSkills) > 0 {
		s.Skills = strings.Join(overlay.EnhancedSkills, ", ")
	}
	return s
}

func (s *ResumeStructure) apply(sug model.Suggestion) {
	switch sug.Type {
	case model.SuggestionAddSummary, model.SuggestionEnhanceSummary:
		s.Summary = sug.Example
	case model.SuggestionTailorResume:
		s.Summary = strings.TrimPrefix(sug.Example, model.TailoredSummaryPrefix)
	case model.SuggestionAddSkills:
		s.Skills = unionSkills(s.Skills, strings.TrimPrefix(sug.Example, model.SkillsPrefix))
	case model.SuggestionAddRequirements:
		s.Skills = unionSkills(s.Skills, strings.TrimPrefix(sug.Example, model.RequirementsPrefix))
	case model.SuggestionAddKeywords:
		s.Skills = unionSkills(s.Skills, sug.Example)
	case model.SuggestionAddAchievements:
		if s.Experience == "" {
			s.Experience = "- " + sug.Example
		} else {
			s.Experience += "\n- " + sug.Example
		}
	case model.SuggestionAddEducation:
		if s.Education == "" {
			s.Education = sug.Example
		}
	case model.SuggestionEnhanceExperience:
		if s.Experience == "" {
			s.Experience = sug.Example
		}
	}
}

// unionSkills merges comma-separated lists. Tokens are trimmed, empty tokens
// dropped and exact duplicates removed, keeping first-seen order.
func unionSkills(existing, added string) string {
	seen := map[string]bool{}
	var out []string
	for _, part := range []string{existing, added} {
		for _, tok := range strings.Split(part, ",") {
			tok = strings.TrimSpace(tok)
			if tok == "" || seen[tok] {
				continue
			}
			seen[tok] = true
			out = append(out, tok)
		}
	}
	return strings.Join(out, ", ")
}

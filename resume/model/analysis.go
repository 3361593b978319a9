package model

// Impact ranks how much a suggestion is expected to move the score.
type Impact string

const (
	ImpactCritical Impact = "critical"
	ImpactHigh     Impact = "high"
	ImpactMedium   Impact = "medium"
)

// Rank orders impacts from most to least important.
func (i Impact) Rank() int {
	switch i {
	case ImpactCritical:
		return 3
	case ImpactHigh:
		return 2
	case ImpactMedium:
		return 1
	default:
		return 0
	}
}

// SuggestionType selects how the applier merges a suggestion.
type SuggestionType string

const (
	SuggestionAddSummary        SuggestionType = "add_summary"
	SuggestionEnhanceSummary    SuggestionType = "enhance_summary"
	SuggestionTailorResume      SuggestionType = "tailor_resume"
	SuggestionAddSkills         SuggestionType = "add_skills"
	SuggestionAddRequirements   SuggestionType = "add_requirements"
	SuggestionAddKeywords       SuggestionType = "add_keywords"
	SuggestionAddAchievements   SuggestionType = "add_achievements"
	SuggestionAddEducation      SuggestionType = "add_education"
	SuggestionEnhanceExperience SuggestionType = "enhance_experience"
	SuggestionUseActionVerbs    SuggestionType = "use_action_verbs"
)

// Example prefixes stripped by the applier.
const (
	TailoredSummaryPrefix = "Consider this tailored summary: "
	SkillsPrefix          = "Skills: "
	RequirementsPrefix    = "Make sure to include these key requirements: "
)

// Suggestion is a typed recommendation carrying an example insertion.
type Suggestion struct {
	Type    SuggestionType `json:"type"`
	Impact  Impact         `json:"impact"`
	Text    string         `json:"text"`
	Example string         `json:"example"`
	Skill   string         `json:"skill,omitempty"`
}

// ScoreComponent explains one weighted contribution to the ATS score.
type ScoreComponent struct {
	Name   string  `json:"name"`
	Weight float64 `json:"weight"`
	Value  float64 `json:"value"`
	Points float64 `json:"points"`
}

// AnalysisResult is the output of a single analyze call.
type AnalysisResult struct {
	ATSScore        int                `json:"ats_score"`
	Strengths       []string           `json:"strengths"`
	Weaknesses      []string           `json:"weaknesses"`
	KeywordMatch    map[string]float64 `json:"keyword_match"`
	MissingKeywords []string           `json:"missing_keywords"`
	Suggestions     []Suggestion       `json:"suggestions"`
	ParsedSections  *AnalyzedSections  `json:"parsed_sections"`
	OriginalText    string             `json:"original_text"`
	ScoreBreakdown  []ScoreComponent   `json:"score_breakdown,omitempty"`
}

// SuggestionGroups buckets suggestions by impact for display.
type SuggestionGroups struct {
	Critical []Suggestion `json:"critical"`
	High     []Suggestion `json:"high"`
	Medium   []Suggestion `json:"medium"`
}

// GroupByImpact splits suggestions by impact keeping their relative order.
// Suggestions with an unknown impact are dropped.
func GroupByImpact(suggestions []Suggestion) SuggestionGroups {
	groups := SuggestionGroups{
		Critical: []Suggestion{},
		High:     []Suggestion{},
		Medium:   []Suggestion{},
	}
	for _, s := range suggestions {
		switch s.Impact {
		case ImpactCritical:
			groups.Critical = append(groups.Critical, s)
		case ImpactHigh:
			groups.High = append(groups.High, s)
		case ImpactMedium:
			groups.Medium = append(groups.Medium, s)
		}
	}
	return groups
}

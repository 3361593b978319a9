package analyzer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobprep-backend/resume/model"
)

const janeResume = "Jane Doe\njane@x.com\nSUMMARY\nExperienced engineer.\nSKILLS\nJavaScript, SQL"

func TestAnalyzeMissingKeywordsScenario(t *testing.T) {
	got := Analyze(janeResume, "Requires Python and AWS experience")

	assert.Equal(t, []string{"python", "aws"}, got.MissingKeywords)
	assert.Equal(t, map[string]float64{"python": 0, "aws": 0}, got.KeywordMatch)

	var skills *model.Suggestion
	for i := range got.Suggestions {
		if got.Suggestions[i].Type == model.SuggestionAddSkills || got.Suggestions[i].Type == model.SuggestionAddKeywords {
			skills = &got.Suggestions[i]
		}
	}
	require.NotNil(t, skills)
	assert.Equal(t, model.SuggestionAddSkills, skills.Type)
	assert.Equal(t, model.ImpactHigh, skills.Impact)
	assert.Equal(t, "Skills: Python, AWS", skills.Example)
	assert.Equal(t, "Python", skills.Skill)
}

func TestAnalyzeSuggestionOrder(t *testing.T) {
	got := Analyze(janeResume, "Requires Python and AWS experience")

	types := make([]model.SuggestionType, 0, len(got.Suggestions))
	for _, s := range got.Suggestions {
		types = append(types, s.Type)
	}
	assert.Equal(t, []model.SuggestionType{
		model.SuggestionEnhanceExperience,
		model.SuggestionAddSkills,
		model.SuggestionAddAchievements,
		model.SuggestionAddEducation,
		model.SuggestionEnhanceSummary,
		model.SuggestionTailorResume,
	}, types)

	for i := 1; i < len(got.Suggestions); i++ {
		assert.GreaterOrEqual(t, got.Suggestions[i-1].Impact.Rank(), got.Suggestions[i].Impact.Rank())
	}

	tailor := got.Suggestions[len(got.Suggestions)-1]
	assert.True(t, strings.HasPrefix(tailor.Example, model.TailoredSummaryPrefix))
	assert.Contains(t, tailor.Example, "Python")
}

func TestAnalyzeScore(t *testing.T) {
	got := Analyze(janeResume, "Requires Python and AWS experience")

	// completeness 3/5 of 25 plus 9/150 of 10 for length.
	assert.Equal(t, 16, got.ATSScore)
	require.Len(t, got.ScoreBreakdown, 5)
	assert.Equal(t, ComponentKeywords, got.ScoreBreakdown[0].Name)
	assert.Equal(t, 0.6, got.ScoreBreakdown[1].Value)
}

func TestAnalyzeEmptyJobDescriptionRescalesWeights(t *testing.T) {
	got := Analyze(janeResume, "")

	assert.Empty(t, got.KeywordMatch)
	assert.NotNil(t, got.KeywordMatch)
	assert.Equal(t, []string{}, got.MissingKeywords)
	for _, s := range got.Suggestions {
		assert.NotEqual(t, model.SuggestionTailorResume, s.Type)
		assert.NotEqual(t, model.SuggestionAddSkills, s.Type)
	}

	require.Len(t, got.ScoreBreakdown, 4)
	total := 0.0
	for _, c := range got.ScoreBreakdown {
		assert.NotEqual(t, ComponentKeywords, c.Name)
		total += c.Weight
	}
	assert.InDelta(t, 100, total, 0.05)
	assert.Equal(t, 26, got.ATSScore)
}

func TestAnalyzeIsDeterministic(t *testing.T) {
	resume := strongResume()
	jd := "Senior Backend Engineer. 5+ years with Go, Docker, Kubernetes and PostgreSQL. AWS certification a plus. Bachelor's degree required."

	first := Analyze(resume, jd)
	for i := 0; i < 5; i++ {
		again := Analyze(resume, jd)
		assert.Equal(t, first.ATSScore, again.ATSScore)
		assert.Equal(t, first.Suggestions, again.Suggestions)
		assert.Equal(t, first.KeywordMatch, again.KeywordMatch)
		assert.Equal(t, first.MissingKeywords, again.MissingKeywords)
	}
}

func TestAnalyzePartialCoverageSuggestsKeywords(t *testing.T) {
	resume := strongResume()
	got := Analyze(resume, "We use Go, Docker, Kubernetes and PostgreSQL.")

	assert.Equal(t, []string{"postgresql"}, got.MissingKeywords)
	assert.Equal(t, 1.0, got.KeywordMatch["go"])

	var kinds []model.SuggestionType
	for _, s := range got.Suggestions {
		kinds = append(kinds, s.Type)
		if s.Type == model.SuggestionAddKeywords {
			assert.Equal(t, "PostgreSQL", s.Example)
			assert.Equal(t, model.ImpactMedium, s.Impact)
		}
	}
	assert.Contains(t, kinds, model.SuggestionAddKeywords)
	assert.NotContains(t, kinds, model.SuggestionAddSkills)
	assert.NotContains(t, kinds, model.SuggestionAddAchievements)
	assert.NotContains(t, kinds, model.SuggestionAddSummary)
}

func TestAnalyzeRequirements(t *testing.T) {
	got := Analyze(strongResume(), "8+ years of experience. Master's degree preferred. Must hold a security certification.")

	var req *model.Suggestion
	for i := range got.Suggestions {
		if got.Suggestions[i].Type == model.SuggestionAddRequirements {
			req = &got.Suggestions[i]
		}
	}
	require.NotNil(t, req)
	assert.Equal(t, model.RequirementsPrefix+"8+ years of experience, Master's degree, Relevant certifications", req.Example)
}

func TestKeywordRatios(t *testing.T) {
	got := Analyze("Built Python services.", "Python, Python and more Python. Also golang and k8s.")

	assert.Equal(t, 0.33, got.KeywordMatch["python"])
	assert.Equal(t, 0.0, got.KeywordMatch["go"])
	assert.Equal(t, 0.0, got.KeywordMatch["kubernetes"])
	assert.Equal(t, []string{"go", "kubernetes"}, got.MissingKeywords)
}

func TestAliasesAndAcronyms(t *testing.T) {
	got := Analyze("Go developer running Kubernetes and SAP", "Experience with golang, k8s, SAP and ERP systems")

	assert.Equal(t, 1.0, got.KeywordMatch["go"])
	assert.Equal(t, 1.0, got.KeywordMatch["kubernetes"])
	assert.Equal(t, 1.0, got.KeywordMatch["sap"])
	assert.Equal(t, []string{"erp"}, got.MissingKeywords)
}

func TestMaxKeywordsCap(t *testing.T) {
	a := New(Options{MaxKeywords: 2})
	got := a.Analyze("", "Python, Java, Docker")

	assert.Len(t, got.KeywordMatch, 2)
	assert.Equal(t, []string{"python", "java"}, got.MissingKeywords)
}

func TestEnhanceFillsOverlays(t *testing.T) {
	plain := Analyze(janeResume, "Requires Python and AWS experience")
	assert.Empty(t, plain.ParsedSections.EnhancedSummary)
	assert.Nil(t, plain.ParsedSections.EnhancedSkills)

	a := New(Options{Enhance: true})
	got := a.Analyze(janeResume, "Requires Python and AWS experience")

	assert.NotEmpty(t, got.ParsedSections.EnhancedSummary)
	assert.Equal(t, []string{"JavaScript", "SQL", "Python", "AWS"}, got.ParsedSections.EnhancedSkills)
	assert.Equal(t, "Experienced engineer.", got.ParsedSections.Sections.Get(model.SectionSummary))
}

func TestTokenizeKeepsSkillSymbols(t *testing.T) {
	assert.Equal(t, []string{"c++", "c#", "node.js", "ci/cd", "done"}, tokenize("C++, C#, Node.js; CI/CD. Done."))
	assert.Equal(t, []string{"asp.net", "and", ".net", "on", "the", "net"}, tokenize("ASP.NET and .NET on the net."))
}

func TestTrackedKeywords(t *testing.T) {
	tests := []struct {
		name    string
		job     string
		missing []string
	}{
		{
			name:    "capitalized headings are not keywords",
			job:     "ABOUT US\nWHO YOU ARE\nRequires Python and AWS experience. NICE TO HAVE: Docker. WHAT WE OFFER",
			missing: []string{"python", "aws", "docker"},
		},
		{
			name:    "single capitalized heading line",
			job:     "BENEFITS\nYou will own our Kafka pipelines.",
			missing: []string{"kafka"},
		},
		{
			name:    "emphasis on a common word",
			job:     "You MUST know SQL and have a GREAT attitude.",
			missing: []string{},
		},
		{
			name:    "go as a verb",
			job:     "We go the extra mile. Requires Python.",
			missing: []string{"python"},
		},
		{
			name:    "go as a language",
			job:     "Backend services in Go and golang tooling.",
			missing: []string{"go"},
		},
		{
			name:    "net as a word",
			job:     "Net revenue grew, and the safety net held. We react quickly and swift action matters.",
			missing: []string{},
		},
		{
			name:    "dotnet platform",
			job:     "Build APIs on .NET and ASP.NET Core.",
			missing: []string{".net"},
		},
		{
			name:    "spring season",
			job:     "Internship starts in spring. Experience with Spring Boot required.",
			missing: []string{"spring"},
		},
		{
			name:    "real acronyms are tracked",
			job:     "Own QA for our SDK and keep HIPAA compliance.",
			missing: []string{"qa", "sdk", "hipaa"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Analyze(janeResume, tt.job)
			assert.Equal(t, tt.missing, got.MissingKeywords)
		})
	}
}

func TestCapitalizedHeadingsNeverReachSkills(t *testing.T) {
	got := Analyze(janeResume, "ABOUT US\nWHO YOU ARE\nRequires Python and AWS experience. NICE TO HAVE: Docker. WHAT WE OFFER")

	for _, s := range got.Suggestions {
		if s.Type == model.SuggestionAddSkills {
			assert.Equal(t, "Skills: Python, AWS, Docker", s.Example)
			return
		}
	}
	t.Fatalf("expected an add_skills suggestion, got %+v", got.Suggestions)
}

func strongResume() string {
	lines := []string{
		"Sam Lee",
		"sam@example.com | Berlin",
		"SUMMARY",
		"Backend engineer with 6 years of experience building Go services on Docker and Kubernetes for high traffic products.",
		"EXPERIENCE",
		"Acme Corp, Senior Engineer, 2019 - Present",
		"- Led the move of 40 services to Kubernetes, cutting infrastructure cost by 25%",
		"- Built a Go event pipeline processing 2M messages per day",
		"- Reduced p99 latency by 60% by redesigning Docker images and caching",
		"- Mentored 5 engineers",
		"EDUCATION",
		"BSc Computer Science, TU Berlin, 2015",
		"SKILLS",
		"Go, Docker, Kubernetes, Linux, Git",
	}
	filler := strings.Repeat("Designed and shipped reliable services with clear ownership and measurable outcomes. ", 12)
	lines = append(lines, "PROJECTS", filler)
	return strings.Join(lines, "\n")
}

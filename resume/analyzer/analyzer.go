// Package analyzer scores resume text against a job description and produces
// ranked, typed suggestions. All functions are pure and deterministic.
package analyzer

import (
	"strings"

	"jobprep-backend/resume/model"
	"jobprep-backend/resume/sections"
)

// DefaultMaxKeywords caps how many job-description keywords are tracked.
const DefaultMaxKeywords = 25

// Options tune an Analyzer.
type Options struct {
	// Enhance fills the enhanced_summary and enhanced_skills overlays. The
	// applier treats overlays as authoritative, so enabling this changes what
	// an empty selection renders.
	Enhance     bool
	MaxKeywords int
}

// Analyzer is safe for concurrent use.
type Analyzer struct {
	opts Options
}

func New(opts Options) *Analyzer {
	if opts.MaxKeywords <= 0 {
		opts.MaxKeywords = DefaultMaxKeywords
	}
	return &Analyzer{opts: opts}
}

// Options returns the effective options, with defaults applied.
func (a *Analyzer) Options() Options {
	return a.opts
}

var defaultAnalyzer = New(Options{})

// Analyze runs the default analyzer.
func Analyze(resumeText, jobDescription string) model.AnalysisResult {
	return defaultAnalyzer.Analyze(resumeText, jobDescription)
}

// Analyze never fails; an empty job description yields empty keyword results
// and the score is computed from the remaining components.
func (a *Analyzer) Analyze(resumeText, jobDescription string) model.AnalysisResult {
	parsed := sections.Parse(resumeText)
	keywords := extractKeywords(jobDescription, a.opts.MaxKeywords)
	sig := measure(resumeText, parsed, keywords)

	match := make(map[string]float64, len(keywords))
	missing := []string{}
	for i, kw := range keywords {
		match[kw.key] = sig.ratios[i]
		if sig.ratios[i] == 0 {
			missing = append(missing, kw.key)
		}
	}

	role := guessRole(jobDescription, parsed)
	years := maxYears(resumeText)
	summary := synthesizeSummary(role, years, summarySkills(sig, resumeText))
	tailored := synthesizeSummary(role, years, tailoredSkills(sig))

	components, score := breakdown(sig)
	strengths, weaknesses := strengthsAndWeaknesses(sig, missing)

	overlay := &model.AnalyzedSections{Sections: parsed}
	if a.opts.Enhance {
		overlay.EnhancedSummary = summary
		overlay.EnhancedSkills = enhancedSkills(parsed.Get(model.SectionSkills), sig)
	}

	return model.AnalysisResult{
		ATSScore:        score,
		Strengths:       strengths,
		Weaknesses:      weaknesses,
		KeywordMatch:    match,
		MissingKeywords: missing,
		Suggestions: generateSuggestions(ruleInput{
			signals:        sig,
			resumeText:     resumeText,
			jobDescription: jobDescription,
			missing:        missing,
			summary:        summary,
			tailored:       tailored,
		}),
		ParsedSections: overlay,
		OriginalText:   resumeText,
		ScoreBreakdown: components,
	}
}

// enhancedSkills keeps the listed skills and appends tracked keywords that are
// not yet listed.
func enhancedSkills(skills string, sig signals) []string {
	out := []string{}
	seen := map[string]bool{}
	for _, tok := range strings.Split(skills, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" || seen[strings.ToLower(tok)] {
			continue
		}
		seen[strings.ToLower(tok)] = true
		out = append(out, tok)
	}
	for _, kw := range sig.keywords {
		if seen[kw.key] || seen[strings.ToLower(kw.display)] {
			continue
		}
		seen[kw.key] = true
		out = append(out, kw.display)
	}
	return out
}

package analyzer

import (
	"sort"
	"strings"

	"jobprep-backend/resume/model"
)

const (
	shortSummaryWords = 15
	skillsCoverageMin = 0.6
)

// ruleInput is what every suggestion rule sees.
type ruleInput struct {
	signals        signals
	resumeText     string
	jobDescription string
	missing        []string
	summary        string
	tailored       string
}

// generateSuggestions runs the rules in a fixed order and stable-sorts the
// result by impact so equal-impact suggestions keep rule order.
func generateSuggestions(in ruleInput) []model.Suggestion {
	rules := []func(ruleInput) []model.Suggestion{
		summaryMissing,
		experienceMissing,
		keywordGaps,
		requirementGaps,
		achievementGaps,
		educationMissing,
		summaryWeak,
		actionVerbGaps,
		tailorToJob,
	}
	out := make([]model.Suggestion, 0, len(rules))
	for _, rule := range rules {
		out = append(out, rule(in)...)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Impact.Rank() > out[j].Impact.Rank()
	})
	return out
}

func summaryMissing(in ruleInput) []model.Suggestion {
	if strings.TrimSpace(in.signals.sections.Get(model.SectionSummary)) != "" {
		return nil
	}
	return []model.Suggestion{{
		Type:    model.SuggestionAddSummary,
		Impact:  model.ImpactCritical,
		Text:    "Add a professional summary that states your role, experience and core skills.",
		Example: in.summary,
	}}
}

func experienceMissing(in ruleInput) []model.Suggestion {
	if len(in.signals.experienceLines) > 0 {
		return nil
	}
	return []model.Suggestion{{
		Type:    model.SuggestionEnhanceExperience,
		Impact:  model.ImpactCritical,
		Text:    "Add a work experience section with roles, dates and results.",
		Example: "Job Title, Company Name (Start Year - Present)\n- Delivered a key project that improved a measurable outcome by 20%",
	}}
}

// keywordGaps emits exactly one of add_skills or add_keywords carrying every
// missing keyword.
func keywordGaps(in ruleInput) []model.Suggestion {
	if len(in.missing) == 0 {
		return nil
	}
	displays := make([]string, 0, len(in.missing))
	for i, kw := range in.signals.keywords {
		if in.signals.ratios[i] == 0 {
			displays = append(displays, kw.display)
		}
	}
	list := strings.Join(displays, ", ")

	hasSkills := strings.TrimSpace(in.signals.sections.Get(model.SectionSkills)) != ""
	if !hasSkills || in.signals.coverage() < skillsCoverageMin {
		impact := model.ImpactHigh
		if !hasSkills {
			impact = model.ImpactCritical
		}
		return []model.Suggestion{{
			Type:    model.SuggestionAddSkills,
			Impact:  impact,
			Text:    "Add the job's key skills you have to your skills section: " + list + ".",
			Example: model.SkillsPrefix + list,
			Skill:   displays[0],
		}}
	}
	return []model.Suggestion{{
		Type:    model.SuggestionAddKeywords,
		Impact:  model.ImpactMedium,
		Text:    "Work these job keywords into your resume where they apply: " + list + ".",
		Example: list,
	}}
}

func requirementGaps(in ruleInput) []model.Suggestion {
	reqs := requirements(in.jobDescription, in.resumeText)
	if len(reqs) == 0 {
		return nil
	}
	return []model.Suggestion{{
		Type:    model.SuggestionAddRequirements,
		Impact:  model.ImpactHigh,
		Text:    "The job lists requirements your resume does not show: " + strings.Join(reqs, ", ") + ".",
		Example: model.RequirementsPrefix + strings.Join(reqs, ", "),
	}}
}

func achievementGaps(in ruleInput) []model.Suggestion {
	if in.signals.quantifiedLines >= 2 {
		return nil
	}
	subject := "a core process"
	if skills := summarySkills(in.signals, in.resumeText); len(skills) > 0 {
		subject = "a " + skills[0] + " workflow"
	}
	return []model.Suggestion{{
		Type:    model.SuggestionAddAchievements,
		Impact:  model.ImpactHigh,
		Text:    "Quantify your achievements with numbers, percentages or amounts.",
		Example: "Improved " + subject + ", cutting turnaround time by 30%",
	}}
}

func educationMissing(in ruleInput) []model.Suggestion {
	if strings.TrimSpace(in.signals.sections.Get(model.SectionEducation)) != "" {
		return nil
	}
	degree := "Bachelor's degree"
	if m := degreePattern.FindString(in.jobDescription); m != "" {
		degree = degreeLabel(m)
	}
	return []model.Suggestion{{
		Type:    model.SuggestionAddEducation,
		Impact:  model.ImpactHigh,
		Text:    "Add an education section with your degree, institution and year.",
		Example: degree + " in a relevant field, University Name, Graduation Year",
	}}
}

func summaryWeak(in ruleInput) []model.Suggestion {
	summary := strings.TrimSpace(in.signals.sections.Get(model.SectionSummary))
	if summary == "" {
		return nil
	}
	short := len(strings.Fields(summary)) < shortSummaryWords
	offTarget := false
	if len(in.signals.keywords) > 0 {
		tokens := scanTokens(summary)
		offTarget = true
		for _, kw := range in.signals.keywords {
			if countMentions(tokens, kw) > 0 {
				offTarget = false
				break
			}
		}
	}
	if !short && !offTarget {
		return nil
	}
	return []model.Suggestion{{
		Type:    model.SuggestionEnhanceSummary,
		Impact:  model.ImpactMedium,
		Text:    "Expand your summary and mention the skills this job asks for.",
		Example: in.summary,
	}}
}

func actionVerbGaps(in ruleInput) []model.Suggestion {
	if len(in.signals.experienceLines) == 0 || in.signals.actionVerbShare() >= 0.5 {
		return nil
	}
	return []model.Suggestion{{
		Type:    model.SuggestionUseActionVerbs,
		Impact:  model.ImpactMedium,
		Text:    "Start experience bullets with action verbs such as led, built or improved.",
		Example: "- Led the migration of a legacy service, reducing deploy time by 40%",
	}}
}

func tailorToJob(in ruleInput) []model.Suggestion {
	if strings.TrimSpace(in.jobDescription) == "" {
		return nil
	}
	return []model.Suggestion{{
		Type:    model.SuggestionTailorResume,
		Impact:  model.ImpactMedium,
		Text:    "Tailor your summary to this job description.",
		Example: model.TailoredSummaryPrefix + in.tailored,
	}}
}

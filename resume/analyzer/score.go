package analyzer

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"jobprep-backend/resume/model"
)

// Score component names.
const (
	ComponentKeywords     = "keyword_coverage"
	ComponentCompleteness = "section_completeness"
	ComponentQuantified   = "quantified_impact"
	ComponentActionVerbs  = "action_verbs"
	ComponentLength       = "length"
)

// Weights sum to 100. When no keywords are tracked the keyword weight is
// dropped and the rest are rescaled.
var componentWeights = []struct {
	name   string
	weight float64
}{
	{ComponentKeywords, 40},
	{ComponentCompleteness, 25},
	{ComponentQuantified, 15},
	{ComponentActionVerbs, 10},
	{ComponentLength, 10},
}

const (
	minWords = 150
	maxWords = 1000
)

// coreSections are the sections counted for completeness.
var coreSections = []string{
	model.SectionContactInfo,
	model.SectionSummary,
	model.SectionExperience,
	model.SectionEducation,
	model.SectionSkills,
}

var actionVerbs = map[string]bool{
	"achieved": true, "automated": true, "built": true, "coordinated": true,
	"created": true, "cut": true, "delivered": true, "designed": true,
	"developed": true, "drove": true, "enabled": true, "engineered": true,
	"established": true, "executed": true, "expanded": true, "generated": true,
	"grew": true, "implemented": true, "improved": true, "increased": true,
	"introduced": true, "launched": true, "led": true, "managed": true,
	"mentored": true, "migrated": true, "optimized": true, "orchestrated": true,
	"owned": true, "planned": true, "reduced": true, "redesigned": true,
	"refactored": true, "resolved": true, "scaled": true, "shipped": true,
	"spearheaded": true, "streamlined": true, "trained": true, "won": true,
}

var (
	yearPattern       = regexp.MustCompile(`\b(19|20)\d{2}\b`)
	quantifierPattern = regexp.MustCompile(`[0-9%$€£]`)
)

// signals are the resume measurements the score and suggestions share.
type signals struct {
	sections        model.ParsedSections
	keywords        []keyword
	ratios          []float64
	experienceLines []string
	quantifiedLines int
	actionLines     int
	words           int
}

func (s signals) coverage() float64 {
	if len(s.ratios) == 0 {
		return 0
	}
	sum := 0.0
	for _, r := range s.ratios {
		sum += r
	}
	return sum / float64(len(s.ratios))
}

func (s signals) completeness() float64 {
	present := 0
	for _, name := range coreSections {
		if strings.TrimSpace(s.sections.Get(name)) != "" {
			present++
		}
	}
	return float64(present) / float64(len(coreSections))
}

func (s signals) quantified() float64 {
	switch {
	case s.quantifiedLines >= 2:
		return 1
	case s.quantifiedLines == 1:
		return 0.5
	default:
		return 0
	}
}

func (s signals) actionVerbShare() float64 {
	if len(s.experienceLines) == 0 {
		return 0
	}
	share := float64(s.actionLines) / float64(len(s.experienceLines))
	return math.Min(1, 2*share)
}

func (s signals) lengthFit() float64 {
	switch {
	case s.words < minWords:
		return float64(s.words) / minWords
	case s.words > maxWords:
		return math.Max(0, 1-float64(s.words-maxWords)/maxWords)
	default:
		return 1
	}
}

func (s signals) missingCore() []string {
	var out []string
	for _, name := range coreSections {
		if strings.TrimSpace(s.sections.Get(name)) == "" {
			out = append(out, name)
		}
	}
	return out
}

// measure collects every signal the analyzer needs from the resume.
func measure(resumeText string, parsed model.ParsedSections, keywords []keyword) signals {
	s := signals{
		sections: parsed,
		keywords: keywords,
		words:    len(strings.Fields(resumeText)),
	}

	tokens := scanTokens(resumeText)
	for _, kw := range keywords {
		ratio := math.Min(1, float64(countMentions(tokens, kw))/float64(kw.jdHits))
		s.ratios = append(s.ratios, round2(ratio))
	}

	for _, line := range strings.Split(parsed.Get(model.SectionExperience), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		s.experienceLines = append(s.experienceLines, line)
		if isQuantified(line) {
			s.quantifiedLines++
		}
		if startsWithActionVerb(line) {
			s.actionLines++
		}
	}
	return s
}

func isQuantified(line string) bool {
	return quantifierPattern.MatchString(yearPattern.ReplaceAllString(line, ""))
}

func startsWithActionVerb(line string) bool {
	line = strings.TrimLeft(line, "-•*· \t")
	fields := strings.Fields(strings.ToLower(line))
	if len(fields) == 0 {
		return false
	}
	return actionVerbs[strings.Trim(fields[0], ",.;:")]
}

// breakdown computes weighted components. The total is rounded and clamped.
func breakdown(s signals) ([]model.ScoreComponent, int) {
	values := map[string]float64{
		ComponentKeywords:     s.coverage(),
		ComponentCompleteness: s.completeness(),
		ComponentQuantified:   s.quantified(),
		ComponentActionVerbs:  s.actionVerbShare(),
		ComponentLength:       s.lengthFit(),
	}

	scale := 1.0
	if len(s.keywords) == 0 {
		scale = 100.0 / (100.0 - componentWeights[0].weight)
	}

	components := make([]model.ScoreComponent, 0, len(componentWeights))
	total := 0.0
	for _, cw := range componentWeights {
		if cw.name == ComponentKeywords && len(s.keywords) == 0 {
			continue
		}
		weight := cw.weight * scale
		value := values[cw.name]
		points := weight * value
		total += points
		components = append(components, model.ScoreComponent{
			Name:   cw.name,
			Weight: round2(weight),
			Value:  round2(value),
			Points: round2(points),
		})
	}

	score := int(math.Round(total))
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return components, score
}

// strengthsAndWeaknesses turns component values into readable findings.
func strengthsAndWeaknesses(s signals, missing []string) ([]string, []string) {
	strengths := []string{}
	weaknesses := []string{}

	if len(s.keywords) > 0 {
		found := len(s.keywords) - len(missing)
		switch cov := s.coverage(); {
		case cov >= 0.7:
			strengths = append(strengths, fmt.Sprintf("Strong keyword alignment with the job description (%d of %d keywords found)", found, len(s.keywords)))
		case cov < 0.4:
			weaknesses = append(weaknesses, fmt.Sprintf("Low keyword coverage (%d of %d keywords found)", found, len(s.keywords)))
		}
	}

	if gaps := s.missingCore(); len(gaps) == 0 {
		strengths = append(strengths, "All core resume sections are present")
	} else {
		weaknesses = append(weaknesses, "Missing sections: "+strings.Join(gaps, ", "))
	}

	switch s.quantified() {
	case 1:
		strengths = append(strengths, "Experience includes quantified achievements")
	case 0:
		weaknesses = append(weaknesses, "Experience lacks measurable results")
	}

	if len(s.experienceLines) > 0 {
		switch v := s.actionVerbShare(); {
		case v >= 0.8:
			strengths = append(strengths, "Experience lines lead with strong action verbs")
		case v < 0.5:
			weaknesses = append(weaknesses, "Few experience lines start with an action verb")
		}
	}

	switch {
	case s.words < minWords:
		weaknesses = append(weaknesses, fmt.Sprintf("Resume is short (%d words)", s.words))
	case s.words > maxWords:
		weaknesses = append(weaknesses, fmt.Sprintf("Resume is long (%d words)", s.words))
	default:
		strengths = append(strengths, "Resume length is within the recommended range")
	}
	return strengths, weaknesses
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

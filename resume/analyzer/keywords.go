package analyzer

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
)

// form is one token sequence that counts as a mention of a term. Cased forms
// compare against the original spelling; the rest compare case-folded.
type form struct {
	words []string
	cased bool
}

// term is a vocabulary entry. Key is the case-folded canonical form.
type term struct {
	key     string
	display string
	forms   []form
}

func newTerm(display string, aliases ...string) term {
	t := term{key: strings.ToLower(display), display: display}
	for _, a := range append([]string{display}, aliases...) {
		t.forms = append(t.forms, form{words: tokenize(a)})
	}
	return t
}

// newCasedTerm is for skills whose name is also an ordinary English word
// ("Go", "React", "Spring"). The cased spellings only match with that exact
// capitalization; aliases are unambiguous and match in any case.
func newCasedTerm(display string, cased []string, aliases ...string) term {
	t := term{key: strings.ToLower(display), display: display}
	for _, c := range cased {
		words := make([]string, 0, 2)
		for _, tok := range scanTokens(c) {
			words = append(words, tok.raw)
		}
		t.forms = append(t.forms, form{words: words, cased: true})
	}
	for _, a := range aliases {
		t.forms = append(t.forms, form{words: tokenize(a)})
	}
	return t
}

// vocabulary lists the skills tracked when they appear in a job description.
var vocabulary = []term{
	// languages
	newTerm("Python"),
	newTerm("Java"),
	newTerm("JavaScript", "js", "ecmascript"),
	newTerm("TypeScript", "ts"),
	newCasedTerm("Go", []string{"Go"}, "golang"),
	newCasedTerm("Rust", []string{"Rust"}),
	newTerm("Ruby"),
	newTerm("PHP"),
	newTerm("C++", "cpp"),
	newTerm("C#", "csharp"),
	newTerm("Kotlin"),
	newCasedTerm("Swift", []string{"Swift"}, "swiftui"),
	newTerm("Scala"),
	newTerm("SQL"),
	newTerm("HTML", "html5"),
	newTerm("CSS", "css3"),
	newTerm("Bash", "shell scripting"),
	// frameworks and runtimes
	newCasedTerm("React", []string{"React"}, "react.js", "reactjs", "react native"),
	newTerm("Angular", "angularjs"),
	newTerm("Vue", "vue.js", "vuejs"),
	newTerm("Next.js", "nextjs"),
	newCasedTerm("Node.js", []string{"Node"}, "node.js", "nodejs"),
	newTerm("Django"),
	newTerm("Flask"),
	newTerm("FastAPI"),
	newCasedTerm("Spring", nil, "spring boot", "spring framework", "spring mvc", "spring cloud"),
	newCasedTerm("Rails", []string{"Rails"}, "ruby on rails"),
	newTerm(".NET", "dotnet", "asp.net"),
	newTerm("GraphQL"),
	newTerm("REST APIs", "rest api", "restful"),
	newTerm("gRPC"),
	newTerm("Microservices", "microservice"),
	// cloud and infrastructure
	newTerm("AWS", "amazon web services"),
	newTerm("Azure"),
	newTerm("GCP", "google cloud"),
	newTerm("Docker"),
	newTerm("Kubernetes", "k8s"),
	newTerm("Terraform"),
	newTerm("Ansible"),
	newTerm("Linux"),
	newTerm("CI/CD", "ci-cd", "continuous integration"),
	newTerm("Jenkins"),
	newTerm("Git"),
	newTerm("GitHub Actions"),
	newTerm("Serverless"),
	newCasedTerm("Lambda", []string{"Lambda"}, "aws lambda"),
	// data
	newTerm("PostgreSQL", "postgres"),
	newTerm("MySQL"),
	newTerm("MongoDB", "mongo"),
	newTerm("Redis"),
	newTerm("Elasticsearch"),
	newTerm("Kafka"),
	newTerm("RabbitMQ"),
	newCasedTerm("Spark", []string{"Spark"}, "apache spark", "pyspark"),
	newTerm("Hadoop"),
	newTerm("Airflow"),
	newTerm("Snowflake"),
	newTerm("Pandas"),
	newTerm("NumPy"),
	newTerm("Tableau"),
	newTerm("Power BI"),
	newTerm("Microsoft Excel", "ms excel"),
	newTerm("ETL"),
	newTerm("Data Analysis", "data analytics"),
	newTerm("Machine Learning", "ml"),
	newTerm("Deep Learning"),
	newTerm("TensorFlow"),
	newTerm("PyTorch"),
	newTerm("NLP", "natural language processing"),
	newTerm("Statistics"),
	// practices
	newTerm("Agile"),
	newTerm("Scrum"),
	newTerm("Kanban"),
	newTerm("TDD", "test-driven development"),
	newTerm("Unit Testing"),
	newTerm("DevOps"),
	newTerm("Security", "cybersecurity"),
	newTerm("Observability"),
	newTerm("System Design"),
	newTerm("Distributed Systems"),
	newTerm("API Design"),
	newTerm("UX", "user experience"),
	newTerm("Figma"),
	newTerm("SEO"),
	newTerm("Salesforce"),
	newTerm("Jira"),
	// professional
	newTerm("Leadership"),
	newTerm("Communication"),
	newTerm("Collaboration"),
	newTerm("Mentoring", "mentorship"),
	newTerm("Problem Solving", "problem-solving"),
	newTerm("Project Management"),
	newTerm("Product Management"),
	newTerm("Stakeholder Management"),
	newTerm("Customer Service"),
	newTerm("Budgeting"),
	newTerm("Negotiation"),
}

// commonWords are English words that show up in capitals in job ads
// (headings, emphasis) and are never skills.
var commonWords = wordSet(`
a about above after again all also am an and any are as at be been before
being below best both but by can could did do does doing down during each
eoe etc eu few for from further get go got had has have having he her here
hers how hr i ie eg if in into is it its job jobs join just key let like
look make may me more most must my need new nice no nor not now of off ok on
once only or other our ours out over own perks pm plus pay per role roles
same see she should so some such team than that the their them then there
these they this those through to too top under until up us usa uk very
want was way we well were what when where which while who whom why will
with work would year years yes you your yours apply benefit offer
offers skill skills salary bonus daily remote hybrid onsite office
level lead senior junior staff mid entry full part time ceo cto cfo vp svp
evp avp asap fyi tbd note great good strong ideal equal`)

func wordSet(list string) map[string]bool {
	out := map[string]bool{}
	for _, w := range strings.Fields(list) {
		out[w] = true
	}
	return out
}

var (
	tokenPattern   = regexp.MustCompile(`(?i)\.net\b|[a-z0-9][a-z0-9+#./-]*`)
	acronymPattern = regexp.MustCompile(`\b[A-Z]{2,6}\b`)
)

// token is one word of input text. word is case-folded, raw keeps the
// original spelling.
type token struct {
	word string
	raw  string
}

// scanTokens splits text into word tokens. Symbols that are part of skill
// names (c++, c#, node.js, ci/cd, .net) are kept inside tokens; trailing
// punctuation is dropped.
func scanTokens(text string) []token {
	raw := tokenPattern.FindAllString(text, -1)
	out := make([]token, 0, len(raw))
	for _, r := range raw {
		r = strings.TrimRight(r, ".-/")
		if r != "" {
			out = append(out, token{word: strings.ToLower(r), raw: r})
		}
	}
	return out
}

// tokenize returns the case-folded words of text.
func tokenize(text string) []string {
	toks := scanTokens(text)
	out := make([]string, len(toks))
	for i, t := range toks {
		out[i] = t.word
	}
	return out
}

// keyword is a tracked job-description term.
type keyword struct {
	key     string
	display string
	forms   []form
	jdHits  int
}

// extractKeywords returns the terms tracked for a job description in order of
// first appearance, capped at max.
func extractKeywords(jobDescription string, max int) []keyword {
	tokens := scanTokens(jobDescription)
	if len(tokens) == 0 {
		return nil
	}

	type found struct {
		pos int
		kw  keyword
	}
	var hits []found
	seen := map[string]bool{}

	for _, t := range vocabulary {
		pos, count := firstAndCount(tokens, t.forms)
		if count == 0 {
			continue
		}
		seen[t.key] = true
		hits = append(hits, found{pos: pos, kw: keyword{key: t.key, display: t.display, forms: t.forms, jdHits: count}})
	}

	for _, acr := range acronymCandidates(jobDescription) {
		key := strings.ToLower(acr)
		if seen[key] || commonWords[key] || isVocabularyForm(key) {
			continue
		}
		forms := []form{{words: []string{key}}}
		pos, count := firstAndCount(tokens, forms)
		if count == 0 {
			continue
		}
		seen[key] = true
		hits = append(hits, found{pos: pos, kw: keyword{key: key, display: acr, forms: forms, jdHits: count}})
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].pos < hits[j].pos
	})

	out := make([]keyword, 0, len(hits))
	for _, h := range hits {
		if max > 0 && len(out) >= max {
			break
		}
		out = append(out, h.kw)
	}
	return out
}

// acronymCandidates returns capitalized words that read as acronyms: 2 to 6
// capital letters inside otherwise mixed-case prose. Lines written entirely
// in capitals and runs of consecutive capitalized words ("NICE TO HAVE") are
// headings or emphasis and are skipped.
func acronymCandidates(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		if !hasLower(line) {
			continue
		}
		fields := strings.Fields(line)
		caps := make([]bool, len(fields))
		for i, f := range fields {
			caps[i] = hasLetter(f) && !hasLower(f)
		}
		for i, f := range fields {
			if !caps[i] || (i > 0 && caps[i-1]) || (i+1 < len(fields) && caps[i+1]) {
				continue
			}
			out = append(out, acronymPattern.FindAllString(f, -1)...)
		}
	}
	return out
}

func hasLower(s string) bool {
	for _, r := range s {
		if unicode.IsLower(r) {
			return true
		}
	}
	return false
}

func hasLetter(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}

// isVocabularyForm reports whether a single token names a vocabulary term,
// so the acronym pass does not track it twice.
func isVocabularyForm(word string) bool {
	for _, t := range vocabulary {
		if t.key == word {
			return true
		}
		for _, f := range t.forms {
			if len(f.words) == 1 && strings.ToLower(f.words[0]) == word {
				return true
			}
		}
	}
	return false
}

// firstAndCount finds every non-overlapping mention of any form. pos is the
// token index of the first mention, or -1.
func firstAndCount(tokens []token, forms []form) (int, int) {
	first := -1
	count := 0
	for i := 0; i < len(tokens); {
		n := matchAt(tokens, i, forms)
		if n == 0 {
			i++
			continue
		}
		if first < 0 {
			first = i
		}
		count++
		i += n
	}
	return first, count
}

// matchAt returns the length of the longest form matching at i, or 0.
func matchAt(tokens []token, i int, forms []form) int {
	best := 0
	for _, f := range forms {
		if len(f.words) == 0 || i+len(f.words) > len(tokens) || len(f.words) <= best {
			continue
		}
		ok := true
		for j, w := range f.words {
			got := tokens[i+j].word
			if f.cased {
				got = tokens[i+j].raw
			}
			if got != w {
				ok = false
				break
			}
		}
		if ok {
			best = len(f.words)
		}
	}
	return best
}

// countMentions counts mentions of a keyword in scanned text.
func countMentions(tokens []token, kw keyword) int {
	_, n := firstAndCount(tokens, kw.forms)
	return n
}

// vocabularyMentions lists vocabulary terms present in text, in vocabulary order.
func vocabularyMentions(text string) []term {
	tokens := scanTokens(text)
	var out []term
	for _, t := range vocabulary {
		if _, n := firstAndCount(tokens, t.forms); n > 0 {
			out = append(out, t)
		}
	}
	return out
}

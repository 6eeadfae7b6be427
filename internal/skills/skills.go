// Package skills extracts canonical skill tags and experience signals from
// free text using fixed alias dictionaries.
package skills

import (
	"regexp"
	"slices"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// hardSkillAliases maps each canonical technical skill to its surface forms.
var hardSkillAliases = map[string][]string{
	"python":        {"python"},
	"java":          {"java"},
	"javascript":    {"javascript", "js"},
	"react":         {"react", "react.js", "reactjs", "react js"},
	"django":        {"django"},
	"flask":         {"flask"},
	"fastapi":       {"fastapi"},
	"spring":        {"spring", "spring boot", "spring-boot"},
	"nlp":           {"nlp", "natural language processing"},
	"spacy":         {"spacy"},
	"nltk":          {"nltk"},
	"gensim":        {"gensim"},
	"bert":          {"bert"},
	"sentence-bert": {"sentence-bert", "sentence bert", "sbert"},
	"xgboost":       {"xgboost"},
	"scikit-learn":  {"scikit-learn", "scikit learn", "sklearn"},
	"pandas":        {"pandas"},
	"numpy":         {"numpy"},
	"aws":           {"aws", "s3", "ec2", "lambda"},
	"docker":        {"docker"},
	"rest api":      {"rest api", "restful api", "rest apis", "rest services"},
}

var softSkillAliases = map[string][]string{
	"communication":       {"communication", "communicator", "communicating"},
	"teamwork":            {"teamwork", "team player", "collaboration", "collaborative"},
	"leadership":          {"leadership", "leading teams", "team lead"},
	"problem solving":     {"problem solving", "problem-solver", "analytical thinking"},
	"time management":     {"time management", "managing time", "prioritization"},
	"adaptability":        {"adaptability", "adaptable", "flexible", "flexibility"},
	"creativity":          {"creativity", "creative thinking"},
	"critical thinking":   {"critical thinking"},
	"attention to detail": {"attention to detail", "detail-oriented", "detail oriented"},
	"decision making":     {"decision making", "decision-making"},
	"presentation":        {"presentation skills", "presentations", "public speaking"},
	"mentoring":           {"mentoring", "coaching"},
	"customer focus":      {"customer focus", "customer-centric", "client focus", "client-facing"},
}

// hardSkillShadows lists tags whose aliases hide another tag's aliases when
// they overlap: "react js" names react, not javascript.
var hardSkillShadows = map[string][]string{
	"react": {"javascript"},
}

var (
	hardSkills = newDictionary(hardSkillAliases, hardSkillShadows)
	softSkills = newDictionary(softSkillAliases, nil)

	separators = strings.NewReplacer("_", " ", "/", " ", "-", " ")
)

// alias is one compiled surface form of a canonical tag.
type alias struct {
	canonical string
	surface   string
	re        *regexp.Regexp
}

// dictionary holds aliases ordered longest surface form first. Each tag is
// tested independently, except that a tag listed in hiddenBy is tested with
// the spans of its hiding tags blanked out.
type dictionary struct {
	aliases  []alias
	hiddenBy map[string][]string
}

func newDictionary(table map[string][]string, shadows map[string][]string) *dictionary {
	d := &dictionary{hiddenBy: make(map[string][]string)}
	for hider, hidden := range shadows {
		for _, h := range hidden {
			d.hiddenBy[h] = append(d.hiddenBy[h], hider)
		}
	}
	seen := make(map[string]bool)
	for canonical, forms := range table {
		for _, form := range forms {
			// Separators are folded before matching, so aliases are too.
			surface := separators.Replace(form)
			key := canonical + "\x00" + surface
			if seen[key] {
				continue
			}
			seen[key] = true
			d.aliases = append(d.aliases, alias{
				canonical: canonical,
				surface:   surface,
				re:        regexp.MustCompile(`\b(?:` + regexp.QuoteMeta(surface) + `)\b`),
			})
		}
	}
	sort.Slice(d.aliases, func(i, j int) bool {
		a, b := d.aliases[i], d.aliases[j]
		if len(a.surface) != len(b.surface) {
			return len(a.surface) > len(b.surface)
		}
		if a.surface != b.surface {
			return a.surface < b.surface
		}
		return a.canonical < b.canonical
	})
	return d
}

func (d *dictionary) extract(text string) []string {
	t := prepare(text)
	masked := make(map[string]string)
	hits := make(map[string]bool)
	for _, a := range d.aliases {
		if hits[a.canonical] {
			continue
		}
		target := t
		if hiders, ok := d.hiddenBy[a.canonical]; ok {
			m, done := masked[a.canonical]
			if !done {
				m = d.mask(t, hiders)
				masked[a.canonical] = m
			}
			target = m
		}
		if a.re.MatchString(target) {
			hits[a.canonical] = true
		}
	}

	out := make([]string, 0, len(hits))
	for tag := range hits {
		out = append(out, tag)
	}
	sort.Strings(out)
	return out
}

// mask blanks every match of the aliases of the given tags.
func (d *dictionary) mask(t string, tags []string) string {
	for _, a := range d.aliases {
		if !slices.Contains(tags, a.canonical) {
			continue
		}
		t = a.re.ReplaceAllStringFunc(t, func(m string) string {
			return strings.Repeat(" ", len(m))
		})
	}
	return t
}

// prepare lowercases text and folds underscores, slashes and hyphens to spaces.
func prepare(text string) string {
	return separators.Replace(cases.Lower(language.Und).String(text))
}

// Extract returns the sorted canonical technical skills mentioned in text.
func Extract(text string) []string {
	return hardSkills.extract(text)
}

// ExtractSoft returns the sorted canonical soft skills mentioned in text.
func ExtractSoft(text string) []string {
	return softSkills.extract(text)
}

// Missing returns the entries of required that are absent from have, in the
// order of required.
func Missing(required, have []string) []string {
	present := make(map[string]bool, len(have))
	for _, s := range have {
		present[s] = true
	}
	missing := make([]string, 0)
	for _, s := range required {
		if !present[s] {
			missing = append(missing, s)
		}
	}
	return missing
}

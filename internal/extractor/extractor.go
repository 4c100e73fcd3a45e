// Package extractor turns raw resume text into a structured candidate
// profile using deterministic pattern matching. It performs no I/O and
// never fails the caller: unreadable input degrades to a profile filled
// with explicit "not extracted" sentinels.
package extractor

import (
	"regexp"
	"strings"

	"github.com/hireflow/candidate-assessor/internal/domain"
	"github.com/hireflow/candidate-assessor/pkg/textx"
)

var (
	emailRe    = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)
	nameRe     = regexp.MustCompile(`[A-Z][a-z]+(?: [A-Z][a-z]+){1,2}`)
	phoneRe    = regexp.MustCompile(`(?:\+\d{1,2}\s?)?\(?\d{3}\)?[\s.-]?\d{3}[\s.-]?\d{4}`)
	locationRe = regexp.MustCompile(`[A-Z][a-z]+(?:,| )[A-Z]{2}|[A-Z][a-z]+(?: [A-Z][a-z]+)?,? [A-Z]{2}`)
	schoolRe   = regexp.MustCompile(`[A-Z][a-z]+ (?:University|College|Institute|School)|University of [A-Z][a-z]+`)
	degreeRe   = regexp.MustCompile(`(?:Bachelor|Master|PhD|B\.S\.|M\.S\.|M\.B\.A|B\.A\.|B\.Eng|M\.Eng)[^\n,;.]{0,30}`)
	companyRe  = regexp.MustCompile(`(?:at|for|with) ([A-Z][a-zA-Z]+(?: [A-Z][a-zA-Z]+){0,3})`)
	titleRe    = regexp.MustCompile(`(?:Senior|Junior|Lead|Principal|Staff)? ?(?:Software|Frontend|Backend|Full[- ]Stack|DevOps|Cloud|Data|Product|Project)? ?(?:Engineer|Developer|Architect|Manager|Designer|Analyst)`)
)

// Extractor scans documents against a fixed canonical skill vocabulary.
// Safe for concurrent use; all state is immutable after construction.
type Extractor struct {
	skills   []string
	patterns []*regexp.Regexp
}

// New constructs an Extractor over the embedded default vocabulary.
func New() (*Extractor, error) {
	vocab, err := DefaultVocabulary()
	if err != nil {
		return nil, err
	}
	return NewWithVocabulary(vocab)
}

// NewWithVocabulary constructs an Extractor over the given skill list.
// Entries are canonicalized (lower-cased, trimmed) before compilation.
func NewWithVocabulary(vocab []string) (*Extractor, error) {
	e := &Extractor{
		skills:   make([]string, 0, len(vocab)),
		patterns: make([]*regexp.Regexp, 0, len(vocab)),
	}
	for _, s := range vocab {
		s = strings.ToLower(strings.TrimSpace(s))
		if s == "" {
			continue
		}
		re, err := regexp.Compile(skillPattern(s))
		if err != nil {
			return nil, err
		}
		e.skills = append(e.skills, s)
		e.patterns = append(e.patterns, re)
	}
	return e, nil
}

// skillPattern builds a word-boundary-safe, case-insensitive pattern for a
// vocabulary entry. \b does not anchor next to non-word runes (c++, .net,
// ci/cd), so those edges fall back to an explicit non-word guard.
func skillPattern(skill string) string {
	lead := `\b`
	if !isWordByte(skill[0]) {
		lead = `(?:^|\W)`
	}
	trail := `\b`
	if !isWordByte(skill[len(skill)-1]) {
		trail = `(?:\W|$)`
	}
	return `(?i)` + lead + regexp.QuoteMeta(skill) + trail
}

func isWordByte(b byte) bool {
	return b == '_' || ('0' <= b && b <= '9') || ('a' <= b && b <= 'z') || ('A' <= b && b <= 'Z')
}

// Extract scans rawText and returns a fully-populated profile. Contact
// fields that do not match carry explicit sentinels; education and
// experience are never empty (a placeholder entry is synthesized when no
// matches are found). The i-th school pairs with the i-th degree and the
// i-th company with the i-th title by match order of appearance, not by
// proximity.
func (e *Extractor) Extract(rawText string) domain.CandidateProfile {
	text := textx.SanitizeText(strings.ToValidUTF8(rawText, ""))

	p := domain.CandidateProfile{
		ContactInfo: domain.ContactInfo{
			Name:     matchOrSentinel(nameRe, text, domain.NameNotExtracted),
			Email:    matchOrSentinel(emailRe, text, domain.EmailNotFound),
			Phone:    matchOrSentinel(phoneRe, text, domain.PhoneNotExtracted),
			Location: matchOrSentinel(locationRe, text, domain.LocationNotFound),
		},
		Skills:     e.matchSkills(text),
		Education:  extractEducation(text),
		Experience: extractExperience(text),
	}
	return p
}

func matchOrSentinel(re *regexp.Regexp, text, sentinel string) string {
	if m := re.FindString(text); m != "" {
		return m
	}
	return sentinel
}

func (e *Extractor) matchSkills(text string) []domain.SkillMention {
	out := make([]domain.SkillMention, 0, 8)
	for i, re := range e.patterns {
		if re.MatchString(text) {
			out = append(out, domain.SkillMention{
				Display:   textx.TitleCase(e.skills[i]),
				Canonical: e.skills[i],
			})
		}
	}
	if len(out) == 0 {
		// Placeholder mention; Canonical stays empty so it is never
		// persisted into the skill vocabulary.
		out = append(out, domain.SkillMention{Display: domain.SkillsNotExtracted})
	}
	return out
}

func extractEducation(text string) []domain.EducationEntry {
	schools := schoolRe.FindAllString(text, -1)
	degrees := degreeRe.FindAllString(text, -1)

	out := make([]domain.EducationEntry, 0, len(schools))
	for i, school := range schools {
		degree := domain.DegreeNotSpecified
		if i < len(degrees) {
			degree = strings.TrimSpace(degrees[i])
		}
		out = append(out, domain.EducationEntry{
			School: school,
			Degree: degree,
			Field:  domain.FieldNotExtracted,
			Years:  domain.YearsNotSpecified,
		})
	}
	if len(out) == 0 {
		out = append(out, domain.EducationEntry{
			School: domain.SchoolNotFound,
			Degree: domain.DegreeNotSpecified,
			Field:  domain.FieldNotExtracted,
			Years:  domain.YearsNotSpecified,
		})
	}
	return out
}

func extractExperience(text string) []domain.ExperienceEntry {
	var companies []string
	for _, m := range companyRe.FindAllStringSubmatch(text, -1) {
		companies = append(companies, m[1])
	}
	var titles []string
	for _, m := range titleRe.FindAllString(text, -1) {
		if t := strings.TrimSpace(m); t != "" {
			titles = append(titles, t)
		}
	}

	n := len(companies)
	if len(titles) > n {
		n = len(titles)
	}
	if n == 0 {
		return []domain.ExperienceEntry{{
			Company:     domain.CompanyNotExtracted,
			Title:       domain.PositionNotExtracted,
			Dates:       domain.DatesNotExtracted,
			Description: "Work experiences are discussed during the interview.",
		}}
	}

	out := make([]domain.ExperienceEntry, 0, n)
	for i := 0; i < n; i++ {
		entry := domain.ExperienceEntry{
			Company:     domain.CompanyNotExtracted,
			Title:       domain.PositionNotExtracted,
			Dates:       domain.DatesNotExtracted,
			Description: "Detailed description is extracted during review.",
		}
		if i < len(companies) {
			entry.Company = companies[i]
		}
		if i < len(titles) {
			entry.Title = titles[i]
		}
		out = append(out, entry)
	}
	return out
}

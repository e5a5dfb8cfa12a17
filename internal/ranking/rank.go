// Package ranking scores and orders scraped postings against the user's
// search criteria. Matching is plain lower-cased substring containment, so
// "java" also hits "javascript". That imprecision is accepted in exchange for
// predictable behavior over messy scraped text.
package ranking

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/jobscout/jobscout/internal/posting"
)

const (
	// minKeywordLen drops stop-word sized tokens from the title query.
	minKeywordLen = 2
	// experienceSlack widens the experience gate: a posting asking for up to
	// this many years more than the user has is still considered ok.
	experienceSlack = 3
)

var requiredYearsRe = regexp.MustCompile(`(\d+)\+?\s*year`)

// Rank scores every posting by title keyword overlap, skill overlap and the
// experience gate, then orders descending by (TitleScore, SkillScore,
// ExperienceOK). The input slice is not mutated; the result has the same
// length as the input and preserves input order between equal score tuples.
// Duplicates are kept: deduplication by link happens at persistence time.
func Rank(postings []posting.Posting, titleQuery string, skills []string, maxExperienceYears int) []posting.Posting {
	keywords := titleKeywords(titleQuery)
	wanted := normalizeSkills(skills)

	ranked := make([]posting.Posting, len(postings))
	for i, p := range postings {
		p.TitleScore = countMatches(strings.ToLower(p.Title), keywords)
		p.SkillScore = countMatches(strings.ToLower(p.Description), wanted)
		p.ExperienceOK = experienceFits(p.Experience, maxExperienceYears)
		ranked[i] = p
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.TitleScore != b.TitleScore {
			return a.TitleScore > b.TitleScore
		}
		if a.SkillScore != b.SkillScore {
			return a.SkillScore > b.SkillScore
		}
		return a.ExperienceOK && !b.ExperienceOK
	})

	return ranked
}

// titleKeywords splits the query into lower-cased tokens longer than
// minKeywordLen runes. Repeated tokens are kept: a repeated keyword inflating
// the score is accepted behavior.
func titleKeywords(titleQuery string) []string {
	var keywords []string
	for _, word := range strings.Fields(strings.ToLower(titleQuery)) {
		if len([]rune(word)) > minKeywordLen {
			keywords = append(keywords, word)
		}
	}
	return keywords
}

func normalizeSkills(skills []string) []string {
	var normalized []string
	for _, skill := range skills {
		skill = strings.ToLower(strings.TrimSpace(skill))
		if skill != "" {
			normalized = append(normalized, skill)
		}
	}
	return normalized
}

func countMatches(haystack string, needles []string) int {
	count := 0
	for _, needle := range needles {
		if strings.Contains(haystack, needle) {
			count++
		}
	}
	return count
}

// experienceFits parses the first "N years" / "N+ years" mention from the
// experience text. When no requirement is stated the posting gets the benefit
// of the doubt. A stated requirement passes when it is within the user's
// experience plus the slack band; failing the gate only sinks the posting in
// the ordering, it never removes it.
func experienceFits(experienceText string, maxExperienceYears int) bool {
	match := requiredYearsRe.FindStringSubmatch(strings.ToLower(experienceText))
	if match == nil {
		return true
	}

	required, err := strconv.Atoi(match[1])
	if err != nil {
		return true
	}

	return required <= maxExperienceYears+experienceSlack
}

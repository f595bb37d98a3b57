package service

import (
	"strings"

	"coursegen/internal/models"
)

var stopWords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "and": {}, "or": {}, "for": {}, "to": {}, "of": {}, "in": {},
	"with": {}, "on": {}, "by": {}, "from": {}, "using": {}, "use": {},
	"understanding": {}, "introduction": {}, "basics": {},
}

// Phrase adjustments applied to the combined title and description.
var phraseWeights = []struct {
	phrase string
	weight int
}{
	{"full course", -8},
	{"complete course", -6},
	{"roadmap", -4},
	{"shorts", -8},
	{"explained", 2},
	{"tutorial", 2},
}

// extractKeywords returns the unique meaningful words of a chapter's title and subtopics in first-seen order.
func extractKeywords(ch models.ChapterInput) []string {
	raw := strings.ToLower(ch.ChapterTitle + " " + strings.Join(ch.SubContent, " "))
	cleaned := strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			return r
		}
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == '\f' || r == '\v' {
			return r
		}
		return ' '
	}, raw)

	seen := map[string]struct{}{}
	out := []string{}
	for _, word := range strings.Fields(cleaned) {
		if len(word) <= 2 {
			continue
		}
		if _, stop := stopWords[word]; stop {
			continue
		}
		if _, dup := seen[word]; dup {
			continue
		}
		seen[word] = struct{}{}
		out = append(out, word)
	}
	return out
}

// scoreCandidate rates how well a video's title and description match a chapter.
func scoreCandidate(ch models.ChapterInput, title, description string) int {
	title = strings.ToLower(title)
	description = strings.ToLower(description)
	text := title + " " + description

	score := 0
	for _, kw := range extractKeywords(ch) {
		if strings.Contains(title, kw) {
			score += 4
		} else if strings.Contains(description, kw) {
			score += 2
		}
	}

	if chapterTitle := strings.TrimSpace(strings.ToLower(ch.ChapterTitle)); chapterTitle != "" && strings.Contains(title, chapterTitle) {
		score += 8
	}

	for _, p := range phraseWeights {
		if strings.Contains(text, p.phrase) {
			score += p.weight
		}
	}
	return score
}

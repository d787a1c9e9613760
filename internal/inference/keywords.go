package inference

import (
	"context"
	"regexp"
	"strings"
)

var (
	sentenceSplit = regexp.MustCompile(`[.!?;\n]+`)

	renovationCue = regexp.MustCompile(`(?i)\b(renovat\w*|remodel\w*|updated?|updates|upgrad\w*|new|newer|newly|refinish\w*|redone|redid|moderni[sz]\w*|replac\w*|restor\w*|rebuilt|refresh\w*|gut(ted)?)\b`)

	// Sentences about work not done yet, or not done at all, are no
	// evidence even when they carry a cue.
	intentCue = regexp.MustCompile(`(?i)\b(not|never|needs?|needing|opportunity|potential|bring your|could|ready for your|tlc|fixer|to (update|renovate|remodel|upgrade|modernize|refresh))\b`)

	areaPatterns = []struct {
		area string
		re   *regexp.Regexp
	}{
		{AreaKitchen, regexp.MustCompile(`(?i)\b(kitchens?|cabinet(s|ry)?|counter(top)?s?|appliances?|backsplash)\b`)},
		{AreaBathroom, regexp.MustCompile(`(?i)\b(bath(room)?s?|showers?|vanit(y|ies)|tubs?)\b`)},
		{AreaBedroom, regexp.MustCompile(`(?i)\b(bedrooms?|primary suite|master suite|closets?)\b`)},
		{AreaLivingRoom, regexp.MustCompile(`(?i)\b(living (room|area|space)s?|family room|great room|den)\b`)},
		{AreaBasement, regexp.MustCompile(`(?i)\b(basements?|cellar|lower level)\b`)},
	}
)

// KeywordExtractor is the offline text backend.  A sentence counts as
// evidence for an area when it names the area and carries a renovation
// cue, and does not read as negation or a suggestion.
type KeywordExtractor struct{}

func NewKeywordExtractor() *KeywordExtractor { return &KeywordExtractor{} }

func (KeywordExtractor) Extract(_ context.Context, description string) (*Judgement, error) {
	j := &Judgement{Evidence: map[string][]string{}, Source: SourceKeywords}
	n := 0
	for _, raw := range sentenceSplit.Split(description, -1) {
		s := strings.TrimSpace(raw)
		if s == "" || !renovationCue.MatchString(s) || intentCue.MatchString(s) {
			continue
		}
		for _, ap := range areaPatterns {
			if ap.re.MatchString(s) {
				j.Renovations.set(ap.area)
				j.Evidence[ap.area] = append(j.Evidence[ap.area], s)
				n++
			}
		}
	}
	j.Confidence = keywordConfidence(n)
	return j, nil
}

// keywordConfidence grows from 0.5 towards 1 with the number of
// evidence snippets; no evidence is 0.
func keywordConfidence(n int) float64 {
	if n == 0 {
		return 0
	}
	f := float64(n)
	return 0.5 + 0.5*(f/(f+1))
}

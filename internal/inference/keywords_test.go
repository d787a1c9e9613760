package inference

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeywordExtractor(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		want     Flags
		evidence int
	}{
		{
			name:     "kitchen and bath",
			text:     "Beautifully remodeled kitchen with quartz counters. Updated bathrooms throughout! Large yard.",
			want:     Flags{Kitchen: true, Bathroom: true},
			evidence: 2,
		},
		{
			name:     "area without cue",
			text:     "Spacious kitchen and three bedrooms. Unfinished basement.",
			want:     Flags{},
			evidence: 0,
		},
		{
			name:     "cue without area",
			text:     "Newly painted exterior and a brand new roof.",
			want:     Flags{},
			evidence: 0,
		},
		{
			name:     "one sentence two areas",
			text:     "The basement and family room were fully renovated in 2021",
			want:     Flags{Basement: true, LivingRoom: true},
			evidence: 2,
		},
		{
			name:     "bedroom",
			text:     "New carpet in every bedroom; primary suite has a walk-in closet",
			want:     Flags{Bedroom: true},
			evidence: 1,
		},
		{
			name:     "suggestion is not evidence",
			text:     "Great opportunity to update the kitchen. Bring your ideas for the basement!",
			want:     Flags{},
			evidence: 0,
		},
		{
			name:     "negation and needs",
			text:     "The bathroom has not been renovated. Kitchen needs new cabinets. Bedrooms were refinished in 2019.",
			want:     Flags{Bedroom: true},
			evidence: 1,
		},
		{
			name:     "potential",
			text:     "Huge potential for a new living room addition",
			want:     Flags{},
			evidence: 0,
		},
		{
			name:     "empty",
			text:     "",
			want:     Flags{},
			evidence: 0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			j, err := NewKeywordExtractor().Extract(context.Background(), tt.text)
			require.NoError(t, err)
			assert.Equal(t, tt.want, j.Renovations)
			assert.Equal(t, SourceKeywords, j.Source)

			n := 0
			for _, s := range j.Evidence {
				n += len(s)
			}
			assert.Equal(t, tt.evidence, n)
			assert.InDelta(t, keywordConfidence(tt.evidence), j.Confidence, 1e-9)
		})
	}
}

func TestKeywordConfidence(t *testing.T) {
	assert.Equal(t, 0.0, keywordConfidence(0))
	assert.InDelta(t, 0.75, keywordConfidence(1), 1e-9)
	assert.InDelta(t, 0.5+0.5*(2.0/3.0), keywordConfidence(2), 1e-9)
	assert.Less(t, keywordConfidence(100), 1.0)
}

func TestJudgementRenovation(t *testing.T) {
	j := &Judgement{Renovations: Flags{Kitchen: true, Basement: true}}
	r := j.Renovation(7)
	assert.Equal(t, uint64(7), r.ListingID)
	assert.True(t, r.Kitchen)
	assert.True(t, r.Basement)
	assert.False(t, r.Bedroom)
}

package domain_test

import (
	"testing"

	"github.com/couchcryptid/storm-threat-service/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractDiscussionFacts_ParsesProbability(t *testing.T) {
	tests := []struct {
		name string
		text string
		want int
	}{
		{
			name: "dotted feed format",
			text: "Mesoscale Discussion 0457\nProbability of Watch Issuance...80 percent",
			want: 80,
		},
		{
			name: "colon separator",
			text: "Probability of watch issuance: 40 percent",
			want: 40,
		},
		{
			name: "lowercase",
			text: "probability of watch issuance...5 percent",
			want: 5,
		},
		{
			name: "embedded in longer prose",
			text: "...storms intensifying. Probability of Watch Issuance...95 percent. Discussion continues.",
			want: 95,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			facts := domain.ExtractDiscussionFacts([]domain.Discussion{{Text: tt.text}})
			require.NotNil(t, facts.WatchProbability)
			assert.Equal(t, tt.want, *facts.WatchProbability)
		})
	}
}

func TestExtractDiscussionFacts_KeepsHighest(t *testing.T) {
	facts := domain.ExtractDiscussionFacts([]domain.Discussion{
		{ID: "0455", Text: "Probability of Watch Issuance...20 percent"},
		{ID: "0456", Text: "Probability of Watch Issuance...80 percent"},
		{ID: "0457", Text: "Probability of Watch Issuance...60 percent"},
	})

	require.NotNil(t, facts.WatchProbability)
	assert.Equal(t, 80, *facts.WatchProbability)
}

func TestExtractDiscussionFacts_NoParseableProbability(t *testing.T) {
	facts := domain.ExtractDiscussionFacts([]domain.Discussion{
		{Text: "General thunderstorm activity expected this afternoon."},
		{Text: "Probability of watch issuance is uncertain at this time."},
	})
	assert.Nil(t, facts.WatchProbability)
}

func TestExtractDiscussionFacts_OutOfRangeRejected(t *testing.T) {
	facts := domain.ExtractDiscussionFacts([]domain.Discussion{
		{Text: "Probability of Watch Issuance...150 percent"},
	})
	assert.Nil(t, facts.WatchProbability)
}

func TestExtractDiscussionFacts_Empty(t *testing.T) {
	facts := domain.ExtractDiscussionFacts(nil)
	assert.Nil(t, facts.WatchProbability)
}

package detect

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScores(t *testing.T) {
	tests := []struct {
		name     string
		dets     []Detection
		expected ConfidenceMap
	}{
		{
			name:     "no detections",
			dets:     nil,
			expected: ConfidenceMap{},
		},
		{
			name: "single detection per label",
			dets: []Detection{
				{Label: "helmet", Confidence: 0.8},
				{Label: "vest", Confidence: 0.3},
			},
			expected: ConfidenceMap{"helmet": 0.8, "vest": 0.3},
		},
		{
			name: "keeps maximum per label",
			dets: []Detection{
				{Label: "helmet", Confidence: 0.6},
				{Label: "helmet", Confidence: 0.9},
				{Label: "helmet", Confidence: 0.7},
			},
			expected: ConfidenceMap{"helmet": 0.9},
		},
		{
			name: "mixed labels and duplicates",
			dets: []Detection{
				{Label: "helmet", Confidence: 0.5},
				{Label: "vest", Confidence: 0.4},
				{Label: "vest", Confidence: 0.85},
				{Label: "helmet", Confidence: 0.2},
			},
			expected: ConfidenceMap{"helmet": 0.5, "vest": 0.85},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Scores(tt.dets))
		})
	}
}

func TestConfidenceMap_Get(t *testing.T) {
	m := ConfidenceMap{"helmet": 0.8}

	assert.Equal(t, 0.8, m.Get("helmet"))
	assert.Equal(t, 0.0, m.Get("vest"), "absent label defaults to 0")
}

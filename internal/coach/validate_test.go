package coach

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goal-coach/internal/models"
)

func goalJSON(t *testing.T, goal models.RefinedGoal) string {
	t.Helper()
	data, err := json.Marshal(goal)
	require.NoError(t, err)
	return string(data)
}

func TestParseGoal_Valid(t *testing.T) {
	tests := []struct {
		name string
		goal models.RefinedGoal
	}{
		{
			name: "three key results",
			goal: models.RefinedGoal{
				RefinedGoal:     "I will deliver three talks at local meetups by December 2026.",
				KeyResults:      []string{"Join a speaking club", "Draft three talks", "Present monthly"},
				ConfidenceScore: 0.85,
			},
		},
		{
			name: "five key results",
			goal: models.RefinedGoal{
				RefinedGoal:     "I will run a sub-4h marathon within 12 months.",
				KeyResults:      []string{"a", "b", "c", "d", "e"},
				ConfidenceScore: 0.7,
			},
		},
		{
			name: "confidence at lower bound",
			goal: models.RefinedGoal{
				RefinedGoal:     "goal",
				KeyResults:      []string{"a", "b", "c"},
				ConfidenceScore: 0.0,
			},
		},
		{
			name: "confidence at upper bound",
			goal: models.RefinedGoal{
				RefinedGoal:     "goal",
				KeyResults:      []string{"a", "b", "c"},
				ConfidenceScore: 1.0,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsed, err := ParseGoal(goalJSON(t, tt.goal))
			require.NoError(t, err)
			assert.Equal(t, tt.goal, *parsed)
		})
	}
}

func TestParseGoal_Rejects(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{
			name: "malformed JSON",
			text: `{"refined_goal": "x", "key_results": [`,
		},
		{
			name: "prose instead of JSON",
			text: "Here is your refined goal: run more often!",
		},
		{
			name: "missing refined_goal",
			text: `{"key_results": ["a","b","c"], "confidence_score": 0.9}`,
		},
		{
			name: "missing key_results",
			text: `{"refined_goal": "x", "confidence_score": 0.9}`,
		},
		{
			name: "missing confidence_score",
			text: `{"refined_goal": "x", "key_results": ["a","b","c"]}`,
		},
		{
			name: "empty refined_goal",
			text: `{"refined_goal": "", "key_results": ["a","b","c"], "confidence_score": 0.9}`,
		},
		{
			name: "too few key results",
			text: `{"refined_goal": "x", "key_results": ["a","b"], "confidence_score": 0.9}`,
		},
		{
			name: "too many key results",
			text: `{"refined_goal": "x", "key_results": ["a","b","c","d","e","f"], "confidence_score": 0.9}`,
		},
		{
			name: "confidence above range",
			text: `{"refined_goal": "x", "key_results": ["a","b","c"], "confidence_score": 1.2}`,
		},
		{
			name: "confidence below range",
			text: `{"refined_goal": "x", "key_results": ["a","b","c"], "confidence_score": -0.1}`,
		},
		{
			name: "wrong type for key_results",
			text: `{"refined_goal": "x", "key_results": "a, b, c", "confidence_score": 0.9}`,
		},
		{
			name: "wrong type for confidence",
			text: `{"refined_goal": "x", "key_results": ["a","b","c"], "confidence_score": "high"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsed, err := ParseGoal(tt.text)
			assert.Error(t, err)
			assert.Nil(t, parsed)
		})
	}
}

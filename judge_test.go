package assistant

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseVerdictLabels(t *testing.T) {
	cases := []struct {
		label string
		want  Verdict
	}{
		{"RELEVANT", VerdictRelevant},
		{"PARTIALLY_RELEVANT", VerdictPartlyRelevant},
		{"NOT_RELEVANT", VerdictNotRelevant},
	}

	for _, c := range cases {
		t.Run(c.label, func(t *testing.T) {
			eval := ParseVerdict(`{"Relevance": "` + c.label + `", "Explanation": "because"}`)

			assert.Equal(t, c.want, eval.Verdict)
			assert.Equal(t, "because", eval.Explanation)
			assert.False(t, eval.Unparsable)
			assert.Empty(t, eval.Raw)
		})
	}
}

func TestParseVerdictStripsCodeFences(t *testing.T) {
	raw := "```json\n{\"Relevance\": \"RELEVANT\", \"Explanation\": \"fenced\"}\n```"

	eval := ParseVerdict(raw)

	assert.Equal(t, VerdictRelevant, eval.Verdict)
	assert.Equal(t, "fenced", eval.Explanation)
	assert.False(t, eval.Unparsable)
}

func TestParseVerdictMalformedJSON(t *testing.T) {
	raw := "The answer looks relevant to me!"

	eval := ParseVerdict(raw)

	assert.Equal(t, VerdictNotRelevant, eval.Verdict)
	assert.True(t, eval.Unparsable)
	assert.Equal(t, raw, eval.Raw)
}

func TestParseVerdictUnknownLabel(t *testing.T) {
	raw := `{"Relevance": "SOMEWHAT_RELEVANT", "Explanation": "hedging"}`

	eval := ParseVerdict(raw)

	// An unknown label never passes through and never upgrades to
	// RELEVANT.
	assert.Equal(t, VerdictNotRelevant, eval.Verdict)
	assert.True(t, eval.Unparsable)
	assert.Equal(t, raw, eval.Raw)
}

func TestParseVerdictEmptyOutput(t *testing.T) {
	eval := ParseVerdict("")

	assert.Equal(t, VerdictNotRelevant, eval.Verdict)
	assert.True(t, eval.Unparsable)
}

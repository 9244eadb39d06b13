package summary

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/tender-analyzer/constants"
	"github.com/joseph-ayodele/tender-analyzer/internal/entity"
)

const text = "This is the first sentence here. Second sentence is also long enough. Short. 12. Third sentence keeps going on and on."

func TestSummarize(t *testing.T) {
	assert.Equal(t,
		"This is the first sentence here. Second sentence is also long enough. Third sentence keeps going on and on.",
		Summarize(text, 200))
}

func TestSummarizeTruncates(t *testing.T) {
	assert.Equal(t,
		"This is the first sentence here. Second sentence is also long enough...",
		Summarize(text, 70))
}

func TestSummarizeNothingUsable(t *testing.T) {
	assert.Equal(t, "", Summarize("", 200))
	assert.Equal(t, "", Summarize("Short. 1. Tiny.", 200))
	assert.Equal(t, "", Summarize("One very long opening sentence that exceeds the budget.", 10))
}

func TestSentences(t *testing.T) {
	assert.Equal(t, []string{"Rs.", "500 only.", "Next one"}, Sentences("Rs. 500 only. Next one"))
	assert.Equal(t, []string{"v1.2 is out"}, Sentences("v1.2 is out"))
	assert.Empty(t, Sentences(""))
}

func TestSections(t *testing.T) {
	m := entity.SectionMap{{Tag: constants.SectionEligibility, Content: "Bidder must have three years of experience.\nTurnover above one crore."}}
	got := Sections(m, 200)
	require.Len(t, got, 1)
	assert.Equal(t, "Eligibility", got[0].Title)
	assert.Equal(t, 11, got[0].WordCount)
	assert.Equal(t, "Bidder must have three years of experience. Turnover above one crore.", got[0].Summary)
}

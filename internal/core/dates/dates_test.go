package dates

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/tender-analyzer/constants"
	"github.com/joseph-ayodele/tender-analyzer/internal/core/catalog"
	"github.com/joseph-ayodele/tender-analyzer/internal/core/textnorm"
	"github.com/joseph-ayodele/tender-analyzer/internal/entity"
)

func TestExtract(t *testing.T) {
	text := textnorm.Normalize(`IMPORTANT DATES
BID END DATE: 15-03-2025 15:00 PM
Bid Opening Date: 16/03/2025
Publication Date: 01-03-2025
Closing Date: 20-03-2025`)

	got := Extract(catalog.Default(), text)
	assert.Equal(t, []entity.DateEvent{
		{Event: constants.EventBidEndDate, Date: "15/03/2025", Original: "15-03-2025 15:00 PM"},
		{Event: constants.EventBidOpeningDate, Date: "16/03/2025", Original: "16/03/2025"},
		{Event: constants.EventPublicationDate, Date: "01/03/2025", Original: "01-03-2025"},
	}, got)
}

func TestExtractFirstMatchPerEvent(t *testing.T) {
	text := "Bid End Date: 01-04-2025 corrigendum Bid End Date: 10-04-2025"
	got := Extract(catalog.Default(), text)
	require.Len(t, got, 1)
	assert.Equal(t, "01/04/2025", got[0].Date)
}

func TestExtractKeepsOriginalWhenUnparseable(t *testing.T) {
	got := Extract(catalog.Default(), "Pre-Bid Meeting: 31-02-2025")
	require.Len(t, got, 1)
	assert.Equal(t, constants.EventPreBidDate, got[0].Event)
	assert.Equal(t, "31-02-2025", got[0].Original)
}

func TestExtractNothing(t *testing.T) {
	got := Extract(catalog.Default(), "no dates here")
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

package fields

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/tender-analyzer/constants"
	"github.com/joseph-ayodele/tender-analyzer/internal/core/catalog"
	"github.com/joseph-ayodele/tender-analyzer/internal/core/textnorm"
)

const doc = `Bid Details
Bid Number: GEM/2024/B/4567890 Dated: 01-03-2025
Ministry: Ministry of Defence Department Name: Department of Military Affairs
Bid End Date/Time: 15-03-2025 15:00:00
Bid Opening Date/Time: 15-03-2025 15:30:00
EMD Amount: 50,000
Contact Person: Shri R. K. Sharma Email: rk.sharma@gov.in Phone: +91 11 2345 6789`

func TestExtract(t *testing.T) {
	got := Extract(catalog.Default(), textnorm.Normalize(doc))

	assert.Equal(t, "GEM/2024/B/4567890", got[constants.FieldTenderID])
	assert.Equal(t, "15/03/2025", got[constants.FieldBidEndDate])
	assert.Equal(t, "15/03/2025", got[constants.FieldBidOpeningDate])
	assert.Equal(t, "", got[constants.FieldPreBidDate])
	assert.Equal(t, "₹ 50,000", got[constants.FieldEMDAmount])
	assert.Equal(t, "Shri R. K. Sharma", got[constants.FieldContactPerson])
	assert.Equal(t, "rk.sharma@gov.in", got[constants.FieldEmail])
	assert.Equal(t, "+91 11 2345 6789", got[constants.FieldPhone])
	assert.Contains(t, got[constants.FieldOrganization], "Ministry of Defence")
}

func TestExtractHasExactlyCatalogKeys(t *testing.T) {
	cat := catalog.Default()
	for _, text := range []string{"", "nothing to see here", textnorm.Normalize(doc)} {
		got := Extract(cat, text)
		keys := make([]string, 0, len(got))
		for k := range got {
			keys = append(keys, k)
		}
		want := cat.FieldNames()
		sort.Strings(keys)
		sort.Strings(want)
		assert.Equal(t, want, keys)
	}
}

func TestExtractPrefersLongestValue(t *testing.T) {
	text := "Tender Value: ₹ 5000 and later Estimated Value: ₹ 50,00,000 (Fifty Lakh) applies"
	got := Extract(catalog.Default(), textnorm.Normalize(text))
	assert.Equal(t, "₹ 50,00,000 (Fifty Lakh)", got[constants.FieldTenderValue])

	reversed := "Estimated Value: ₹ 50,00,000 (Fifty Lakh) and Tender Value: ₹ 5000"
	got = Extract(catalog.Default(), textnorm.Normalize(reversed))
	assert.Equal(t, "₹ 50,00,000 (Fifty Lakh)", got[constants.FieldTenderValue])
}

func TestLongest(t *testing.T) {
	assert.Equal(t, "", Longest(nil))
	assert.Equal(t, "abc", Longest([]string{"ab", "abc", "xyz"}))
	assert.Equal(t, "₹ 10", Longest([]string{"₹ 10", "Rs 1"}), "ties keep first, counted in runes")
}

func TestCandidatesSkipsEmpty(t *testing.T) {
	cat := catalog.Default()
	var tenderID catalog.FieldPatterns
	for _, f := range cat.Fields() {
		if f.Name == constants.FieldTenderID {
			tenderID = f
		}
	}
	require.NotEmpty(t, tenderID.Patterns)
	c := Candidates(tenderID, "Tender No: 12/A Ref No. X-99 Tender ID: none")
	assert.Equal(t, []string{"12/A", "X-99"}, c)
}

package textnorm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"collapses whitespace", "  Tender\t\tID:\n\nGEM/2024/B/123  ", "Tender ID: GEM/2024/B/123"},
		{"strips symbols", "EMD* Amount: ₹ 50,000 #", "EMD Amount: ₹ 50,000"},
		{"keeps email", "Email: officer@dept.gov.in", "Email: officer@dept.gov.in"},
		{"keeps devanagari", "निविदा विवरण", "निविदा विवरण"},
		{"only junk", "*** ###", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, Normalize(got), "idempotent")
		})
	}
}

func TestNormalizeLines(t *testing.T) {
	in := "Bid Details\r\n  Tender ID:  123 \f\n\n\n\nImportant Dates\n"
	got := NormalizeLines(in)
	assert.Equal(t, "Bid Details\nTender ID: 123\n\nImportant Dates", got)
	assert.Equal(t, got, NormalizeLines(got))
	assert.Equal(t, "", NormalizeLines(""))
}

func TestNormalizeAmount(t *testing.T) {
	assert.Equal(t, "₹ 50,000", NormalizeAmount("50,000"))
	assert.Equal(t, "₹ 12.5 Lakh", NormalizeAmount("  12.5   Lakh "))
	assert.Equal(t, "Rs. 1,00,000", NormalizeAmount("Rs. 1,00,000"))
	assert.Equal(t, "INR 500", NormalizeAmount("INR 500"))
	assert.Equal(t, "₹5000", NormalizeAmount("₹5000"))
	assert.Equal(t, "", NormalizeAmount("   "))
}

func TestHasCurrency(t *testing.T) {
	assert.True(t, HasCurrency("rs 10"))
	assert.False(t, HasCurrency("hours 10"))
}

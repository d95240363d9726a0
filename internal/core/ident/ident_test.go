package ident

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeID_DashVariants(t *testing.T) {
	variants := []string{
		"403-1234567-1234567",
		"403‐1234567‐1234567", // hyphen
		"403–1234567–1234567", // en dash
		"403—1234567—1234567", // em dash
		"403‒1234567‒1234567", // figure dash
		"403−1234567−1234567", // minus sign
		"403－1234567－1234567", // fullwidth hyphen
	}

	for _, v := range variants {
		assert.Equal(t, "403-1234567-1234567", NormalizeID(v), "input %q", v)
	}
}

func TestNormalizeID_Trimming(t *testing.T) {
	assert.Equal(t, "ABC-1", NormalizeID("  ABC-1  "))
	assert.Equal(t, "ABC-1", NormalizeID("\tABC–1\n"))
	assert.Equal(t, "", NormalizeID(""))
	assert.Equal(t, "", NormalizeID("   "))
}

func TestNormalizeID_Idempotent(t *testing.T) {
	inputs := []string{
		"403–1234567—1234567",
		"  plain-id ",
		"",
		"no-dashes-at-all",
		"ＡＢＣ１２３", // fullwidth, folded by NFKC
	}
	for _, s := range inputs {
		once := NormalizeID(s)
		assert.Equal(t, once, NormalizeID(once), "input %q", s)
	}
}

func TestExtractProductID(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
		ok    bool
	}{
		{"plain asin", "B01N5IB20Q", "B01N5IB20Q", true},
		{"lowercase", "b01n5ib20q", "B01N5IB20Q", true},
		{"prefers b0 candidate", "X123456789 B07XJ8C8F5", "B07XJ8C8F5", true},
		{"b0 first also wins", "B07XJ8C8F5 X123456789", "B07XJ8C8F5", true},
		{"falls back to last candidate", "AAAA111122 ZZZZ999988", "ZZZZ999988", true},
		{"embedded in text", "Widget (B01N5IB20Q) blue", "B01N5IB20Q", true},
		{"eleven chars is not a candidate", "B01N5IB20Q1", "", false},
		{"nine chars is not a candidate", "B01N5IB20", "", false},
		{"empty", "", "", false},
		{"no candidates", "just a product name", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractProductID(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

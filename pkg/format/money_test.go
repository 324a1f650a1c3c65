package format

import (
	"testing"

	"github.com/bill-tools/smart-bill/pkg/models/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroup(t *testing.T) {
	assert.Equal(t, "0", Group(0))
	assert.Equal(t, "1,234", Group(1234))
	assert.Equal(t, "1,234,000", Group(1234000))
	assert.Equal(t, "1,234.50", Group(1234.5))
}

func TestCurrency(t *testing.T) {
	assert.Equal(t, "₩1,234,000", Currency(1234000))
	assert.Equal(t, "₩0", Currency(0))
}

func TestQuantity_BlankPolicy(t *testing.T) {
	assert.Equal(t, "", Quantity(domain.Number{}))
	assert.Equal(t, "0", Quantity(domain.NewNumber(0)))
	assert.Equal(t, "12", Quantity(domain.NewNumber(12)))
}

func TestNormalizeBizNumber(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{name: "mixed separators and letters", raw: "12-34-abc-5678", want: "12345678"},
		{name: "already clean", raw: "1234567890", want: "1234567890"},
		{name: "over ten digits capped", raw: "123456789012345", want: "1234567890"},
		{name: "no digits", raw: "abc-def", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeBizNumber(tt.raw))
		})
	}
}

func TestBizNumber(t *testing.T) {
	assert.Equal(t, "123-45-67890", BizNumber("1234567890"))
	// Partial input is shown as typed until it reaches ten digits.
	assert.Equal(t, "12345", BizNumber("12345"))
	assert.Equal(t, "", BizNumber(""))
}

func TestDate(t *testing.T) {
	d, err := domain.ParseDate("2025-03-09")
	require.NoError(t, err)
	assert.Equal(t, "2025. 03. 09", Date(d))
	assert.Equal(t, "", Date(domain.Date{}))
}

package domain

import (
	"encoding/base64"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseNumber(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want Number
	}{
		{name: "blank stays blank", raw: "", want: Number{}},
		{name: "whitespace stays blank", raw: "   ", want: Number{}},
		{name: "integer", raw: "12", want: Number{Set: true, Value: 12}},
		{name: "fraction", raw: "1.5", want: Number{Set: true, Value: 1.5}},
		{name: "zero is explicit", raw: "0", want: Number{Set: true, Value: 0}},
		{name: "negative degrades to blank", raw: "-3", want: Number{}},
		{name: "malformed degrades to blank", raw: "abc", want: Number{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseNumber(tt.raw))
		})
	}
}

func TestNumber_JSONRoundTrip(t *testing.T) {
	blank, err := json.Marshal(Number{})
	require.NoError(t, err)
	assert.Equal(t, "null", string(blank))

	set, err := json.Marshal(NewNumber(42))
	require.NoError(t, err)
	assert.Equal(t, "42", string(set))

	var n Number
	require.NoError(t, json.Unmarshal([]byte("null"), &n))
	assert.False(t, n.Set)

	require.NoError(t, json.Unmarshal([]byte(`"7"`), &n))
	assert.Equal(t, NewNumber(7), n)

	// Older snapshots stored counts as bare numbers.
	require.NoError(t, json.Unmarshal([]byte("3.5"), &n))
	assert.Equal(t, NewNumber(3.5), n)

	require.NoError(t, json.Unmarshal([]byte("-1"), &n))
	assert.False(t, n.Set)
}

func TestItem_Amount(t *testing.T) {
	it := Item{Count: NewNumber(3), Price: NewNumber(1500)}
	assert.Equal(t, 4500.0, it.Amount())
	assert.True(t, it.Priced())

	// A blank factor zeroes the line and suppresses display.
	it.Price = Number{}
	assert.Equal(t, 0.0, it.Amount())
	assert.False(t, it.Priced())
}

func TestDocument_Totals(t *testing.T) {
	doc := Document{Items: []Item{
		{Count: NewNumber(2), Price: NewNumber(1000)},
		{Count: NewNumber(3), Price: NewNumber(500)},
		{Name: "no numbers yet"},
	}}

	totals := doc.Totals()
	assert.Equal(t, 3500.0, totals.Amount)
	assert.Equal(t, NewNumber(5), totals.Quantity)
}

func TestDocument_Totals_AllBlank(t *testing.T) {
	doc := Document{Items: []Item{{}, {}}}
	totals := doc.Totals()
	assert.Equal(t, 0.0, totals.Amount)
	assert.False(t, totals.Quantity.Set)
}

func TestDocument_Totals_ZeroQuantityLine(t *testing.T) {
	// An explicit zero count still makes the total quantity displayable.
	doc := Document{Items: []Item{{Count: NewNumber(0), Price: NewNumber(900)}}}
	totals := doc.Totals()
	assert.Equal(t, 0.0, totals.Amount)
	assert.Equal(t, NewNumber(0), totals.Quantity)
}

func TestParseStamp(t *testing.T) {
	payload := []byte{0x89, 0x50, 0x4E, 0x47}
	encoded := base64.StdEncoding.EncodeToString(payload)

	assert.Equal(t, Stamp(payload), ParseStamp(encoded))
	assert.Equal(t, Stamp(payload), ParseStamp("data:image/png;base64,"+encoded))
	assert.Nil(t, ParseStamp(""))
	assert.Nil(t, ParseStamp("not base64 at all!!"))
}

func TestStamp_JSONRoundTrip(t *testing.T) {
	doc := Document{Stamp: Stamp([]byte("seal"))}
	data, err := json.Marshal(doc)
	require.NoError(t, err)

	var restored Document
	require.NoError(t, json.Unmarshal(data, &restored))
	assert.Equal(t, doc.Stamp, restored.Stamp)

	var cleared Document
	require.NoError(t, json.Unmarshal([]byte(`{"stampImage":null}`), &cleared))
	assert.Nil(t, cleared.Stamp)
}

func TestDate_JSON(t *testing.T) {
	d, err := ParseDate("2025-03-09")
	require.NoError(t, err)
	assert.Equal(t, "2025-03-09", d.String())

	data, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"2025-03-09"`, string(data))

	var back Date
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, d, back)

	_, err = ParseDate("09/03/2025")
	assert.Error(t, err)
}

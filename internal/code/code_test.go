package code

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCode_RoundTrip(t *testing.T) {
	c := Code{
		Height:     480,
		Width:      640,
		Channel:    0,
		Filter:     0,
		Raw:        5,
		Strength:   11111,
		CryptedKey: 1234,
		ContentKey: 999,
	}
	s, err := c.Encode()
	require.NoError(t, err)
	assert.Equal(t, "34803640000051111100041234999", s)

	got, err := Parse(s)
	require.NoError(t, err)
	assert.Equal(t, c, got)

	got, err = Parse("3480 3640 00 005 11111 0004 1234 999")
	require.NoError(t, err)
	assert.Equal(t, c, got)
}

func TestParse(t *testing.T) {
	valid := Code{Height: 48, Width: 64, Channel: 2, Filter: 3, Raw: 63, Strength: 13, CryptedKey: 7000, ContentKey: 0}
	validStr, err := valid.Encode()
	require.NoError(t, err)
	assert.Equal(t, "248264"+"23"+"063"+"00013"+"0004"+"7000"+"0", validStr)

	test := []struct {
		name string
		in   string
	}{
		{"non_digit", "12ab34"},
		{"empty", ""},
		{"truncated_height", "348"},
		{"zero_length_height", "0" + "3640000051111100041234999"},
		{"truncated_strength", "34803640000051"},
		{"missing_content", "34803640000051111100041234"},
		{"channel", "34803640" + "3" + "0" + "005111110004" + "1234" + "9"},
		{"filter", "34803640" + "0" + "4" + "005111110004" + "1234" + "9"},
		{"raw", "34803640" + "0" + "0" + "064" + "11111" + "0004" + "1234" + "9"},
		{"zero_length_crypted", "34803640000051111100001"},
	}
	for _, tt := range test {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.in)
			assert.ErrorIs(t, err, ErrMalformed)
		})
	}
}

func TestCode_UnmarshalText(t *testing.T) {
	var c Code
	require.NoError(t, c.UnmarshalText([]byte("34803640000051111100041234999")))
	before := c

	err := c.UnmarshalText([]byte("12ab34"))
	assert.ErrorIs(t, err, ErrMalformed)
	assert.Equal(t, before, c)

	text, err := c.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "34803640000051111100041234999", string(text))
}

func TestCode_Encode_Overflow(t *testing.T) {
	_, err := Code{Height: 1, Width: 1, Strength: 100000}.Encode()
	assert.ErrorIs(t, err, ErrOverflow)

	_, err = Code{Height: 1, Width: 1_000_000_000}.Encode()
	assert.ErrorIs(t, err, ErrOverflow)

	_, err = Code{Height: 1, Width: 1, Channel: 3}.Encode()
	assert.ErrorIs(t, err, ErrMalformed)
}

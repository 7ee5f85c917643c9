package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDefaults(t *testing.T) {
	p, errs := Parse("", "")
	require.Empty(t, errs)
	assert.Equal(t, &Params{Page: 1, Limit: DefaultLimit, Offset: 0}, p)
}

func TestParseOffset(t *testing.T) {
	p, errs := Parse("3", "25")
	require.Empty(t, errs)
	assert.Equal(t, 50, p.Offset)
}

func TestParseRejectsOutOfRange(t *testing.T) {
	tests := []struct {
		page, limit string
		fields      []string
	}{
		{"0", "", []string{"page"}},
		{"abc", "", []string{"page"}},
		{"", "0", []string{"limit"}},
		{"", "101", []string{"limit"}},
		{"-1", "500", []string{"page", "limit"}},
		{"9223372036854775807", "100", []string{"page"}},
		{"99999999999999999999", "", []string{"page"}},
	}

	for _, tt := range tests {
		p, errs := Parse(tt.page, tt.limit)
		assert.Nil(t, p)
		var fields []string
		for _, e := range errs {
			fields = append(fields, e.Field)
		}
		assert.Equal(t, tt.fields, fields, "page=%q limit=%q", tt.page, tt.limit)
	}
}

func TestNewBoundsPage(t *testing.T) {
	p, errs := New(MaxPage, MaxLimit)
	require.Empty(t, errs)
	assert.Equal(t, (MaxPage-1)*MaxLimit, p.Offset)
	assert.Positive(t, p.Offset)

	p, errs = New(MaxPage+1, 1)
	assert.Nil(t, p)
	require.Len(t, errs, 1)
	assert.Equal(t, "page", errs[0].Field)
}

func TestGetMeta(t *testing.T) {
	meta := GetMeta(&Params{Page: 2, Limit: 10}, 21)
	assert.Equal(t, &Meta{Current: 2, Pages: 3, Total: 21, Limit: 10}, meta)

	empty := GetMeta(&Params{Page: 1, Limit: 10}, 0)
	assert.Equal(t, 0, empty.Pages)
}

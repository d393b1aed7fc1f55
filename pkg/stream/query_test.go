package stream

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueryMatches(t *testing.T) {
	info := NewInfo("ViewPoint", "Gaze", make([]string, 39), 220, "ViewPoint")

	cases := []struct {
		query string
		match bool
	}{
		{"", true},
		{"name='ViewPoint'", true},
		{`type="Gaze"`, true},
		{"name='ViewPoint' and type='Gaze'", true},
		{"source_id='ViewPoint' and channel_count='39'", true},
		{"name='ViewPoint-A'", false},
		{"name='ViewPoint' and type='EEG'", false},
		{"channel_format='double64'", true},
		{"name='ViewPoint'  and  type = 'Gaze'", true},
	}
	for _, c := range cases {
		q, err := ParseQuery(c.query)
		require.NoError(t, err, c.query)
		assert.Equal(t, c.match, q.Matches(info), c.query)
	}
}

func TestParseQueryErrors(t *testing.T) {
	for _, s := range []string{
		"name",
		"name=ViewPoint",
		"name='ViewPoint\"",
		"color='red'",
		"name='a' and",
		"name='a' or type='b'",
		"name='a'type='b'",
	} {
		_, err := ParseQuery(s)
		assert.ErrorIs(t, err, ErrQuery, s)
	}
}

func TestQueryQuotedAnd(t *testing.T) {
	info := NewInfo("Eye and Gaze", "Gaze", []string{"a"}, 60, "src")

	q, err := ParseQuery("name='Eye and Gaze' and type=\"Gaze\"")
	require.NoError(t, err)
	assert.Len(t, q, 2)
	assert.True(t, q.Matches(info))

	q, err = ParseQuery("name='Eye and Gaze'")
	require.NoError(t, err)
	assert.False(t, q.Matches(NewInfo("Eye", "Gaze", []string{"a"}, 60, "src")))
}

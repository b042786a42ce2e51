package registry

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseConstraints(t *testing.T) {
	doc := `{
		"fetch_news": {"enabled": true, "topic": "technology", "max_articles": 5},
		"mock_tweet": {"enabled": true},
		"post_tweet": {"enabled": false}
	}`

	descriptors, err := parseConstraints(strings.NewReader(doc))
	require.NoError(t, err)
	require.Len(t, descriptors, 3)

	assert.Equal(t, "fetch_news", descriptors[0].Name)
	assert.True(t, descriptors[0].Enabled)
	assert.Equal(t, "technology", descriptors[0].Options["topic"])
	assert.Equal(t, float64(5), descriptors[0].Options["max_articles"])

	assert.Equal(t, "mock_tweet", descriptors[1].Name)
	assert.True(t, descriptors[1].Enabled)
	assert.Empty(t, descriptors[1].Options)

	assert.Equal(t, "post_tweet", descriptors[2].Name)
	assert.False(t, descriptors[2].Enabled)
}

func TestParseConstraints_PreservesDeclarationOrder(t *testing.T) {
	// Names chosen to sort differently from their declaration order.
	doc := `{
		"zebra": {"enabled": true},
		"apple": {"enabled": true},
		"mango": {"enabled": false}
	}`

	descriptors, err := parseConstraints(strings.NewReader(doc))
	require.NoError(t, err)

	var names []string
	for _, desc := range descriptors {
		names = append(names, desc.Name)
	}
	assert.Equal(t, []string{"zebra", "apple", "mango"}, names)
}

func TestParseConstraints_DuplicateNameRejected(t *testing.T) {
	// A repeated key would otherwise yield two descriptors for one activity
	// and the runner would execute it twice per pass.
	doc := `{
		"fetch_news": {"enabled": true},
		"fetch_news": {"enabled": true}
	}`

	_, err := parseConstraints(strings.NewReader(doc))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidConstraints)
}

func TestLoadConstraints_DuplicateNameRejected(t *testing.T) {
	reg := New(testLogger())
	require.NoError(t, reg.Register("fetch_news", noopFactory))

	path := writeConstraints(t, `{
		"fetch_news": {"enabled": true},
		"fetch_news": {"enabled": true}
	}`)

	err := reg.LoadConstraints(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidConstraints)
	assert.Empty(t, reg.ListEnabled())
}

func TestParseConstraints_MissingEnabledDefaultsToDisabled(t *testing.T) {
	descriptors, err := parseConstraints(strings.NewReader(`{"a": {"topic": "x"}}`))
	require.NoError(t, err)
	require.Len(t, descriptors, 1)
	assert.False(t, descriptors[0].Enabled)
}

func TestParseConstraints_Invalid(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"empty input", ""},
		{"truncated object", `{"a": {"enabled": true}`},
		{"top-level array", `[{"enabled": true}]`},
		{"enabled not boolean", `{"a": {"enabled": "yes"}}`},
		{"garbage", `not json at all`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := parseConstraints(strings.NewReader(tc.doc))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidConstraints)
		})
	}
}

func TestLoadConstraintsFile_Missing(t *testing.T) {
	_, err := loadConstraintsFile("/does/not/exist.json")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidConstraints)
}

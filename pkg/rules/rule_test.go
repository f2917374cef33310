package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		rule    Rule
		wantErr string
	}{
		{"valid", Rule{Key: "k", Pattern: "x"}, ""},
		{"blank key", Rule{Key: "  ", Pattern: "x"}, "key cannot be blank"},
		{"blank pattern", Rule{Key: "k", Pattern: " "}, "rule value cannot be blank"},
		{"bad selector", Rule{Key: "k", Pattern: "x", Selector: "last"}, "selector must be one of"},
		{"bad regex", Rule{Key: "k", Pattern: "(", Predicate: Regex}, "invalid regex pattern"},
		{"timestamp needs no pattern", Rule{Key: "k", Source: ModifiedTimestamp}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.rule)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidRule)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestNormalized_UnwrapsBackslashRegex(t *testing.T) {
	r := Rule{Key: "k", Predicate: Regex, Pattern: `\^\d+$\`}.Normalized()
	assert.Equal(t, `^\d+$`, r.Pattern)

	r = Rule{Key: "k", Predicate: Contains, Pattern: `\x\`}.Normalized()
	assert.Equal(t, `\x\`, r.Pattern, "only regex patterns are unwrapped")
}

func TestRule_UnmarshalYAMLDefaults(t *testing.T) {
	var rs []Rule
	err := yaml.Unmarshal([]byte("- key: summary\n  pattern: 'tl;dr'\n- key: n\n  enabled: false\n  selector: count\n"), &rs)
	require.NoError(t, err)
	require.Len(t, rs, 2)

	assert.Equal(t, "summary", rs[0].Key)
	assert.True(t, rs[0].Enabled)
	assert.Equal(t, SelectFirst, rs[0].Selector)
	assert.Equal(t, StartsWith, rs[0].Predicate)
	assert.Equal(t, BodyScan, rs[0].Source)
	assert.True(t, rs[0].TrimWhitespace)
	assert.False(t, rs[0].CaseSensitive)

	assert.False(t, rs[1].Enabled)
	assert.Equal(t, SelectCount, rs[1].Selector)
}

func TestNewSet(t *testing.T) {
	set, err := NewSet([]Rule{
		{Key: "a", Enabled: true, Pattern: "first"},
		{Key: "a", Enabled: true, Pattern: "second"},
		{Key: "b", Enabled: false, Pattern: "x"},
		{Key: "c", Enabled: true, Predicate: Regex, Pattern: "("},
		{Key: "d", Enabled: true, Pattern: "d", AutoAdd: true},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidRule)

	assert.Equal(t, 2, set.Len())
	a, ok := set.Lookup("a")
	require.True(t, ok)
	assert.Equal(t, "first", a.Rule().Pattern)

	_, ok = set.Lookup("b")
	assert.False(t, ok, "disabled rules are skipped")
	_, ok = set.Lookup("c")
	assert.False(t, ok, "invalid rules are skipped")
}

func TestSummary(t *testing.T) {
	assert.Equal(t, `Pull the first line starting with "x"`, Summary(Rule{Key: "k", Enabled: true, Pattern: "x"}))
	assert.Equal(t, `Count the lines matching regex "^a"`, Summary(Rule{Key: "k", Enabled: true, Selector: SelectCount, Predicate: Regex, Pattern: "^a"}))
	assert.Equal(t, "- auto-property not enabled", Summary(Rule{Key: "k", Pattern: "x"}))
	assert.Equal(t, "Use the creation time", Summary(Rule{Key: "k", Enabled: true, Source: CreatedTimestamp}))
}

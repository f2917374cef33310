package fs

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/autoprop/pkg/core"
)

func TestSplitFrontmatter(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want block
	}{
		{"no frontmatter", "hello\n---\n", block{body: "hello\n---\n"}},
		{"lf", "---\na: 1\n---\nbody", block{present: true, terminated: true, yaml: "a: 1\n", body: "body", newline: "\n"}},
		{"crlf", "---\r\na: 1\r\n---\r\nbody", block{present: true, terminated: true, yaml: "a: 1\r\n", body: "body", newline: "\r\n"}},
		{"unterminated", "---\na: 1\n", block{present: true, yaml: "a: 1\n", newline: "\n"}},
		{"delimiter only", "---", block{present: true}},
		{"empty block", "---\n---\n", block{present: true, terminated: true, newline: "\n"}},
		{"indented delimiter is not a delimiter", " ---\nx", block{body: " ---\nx"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, splitFrontmatter(tt.raw))
		})
	}
}

func TestParseMarkdown(t *testing.T) {
	meta, body, err := parseMarkdown("---\ncreated: 2024-01-02T03:04:05\nn: 3\n---\ntext")
	require.NoError(t, err)
	assert.Equal(t, "text", body)
	assert.Equal(t, 3, meta["n"])
	assert.IsType(t, "", meta["created"], "timestamp-like values stay strings")

	meta, body, err = parseMarkdown("---\nunterminated: true\n")
	require.NoError(t, err)
	assert.Empty(t, meta)
	assert.Empty(t, body)

	_, _, err = parseMarkdown("---\n: [\n---\n")
	assert.Error(t, err)
}

func TestPatchFrontmatter_KeepsUnpatchedKeys(t *testing.T) {
	raw := "---\nb: 1\na: [x, y]\n---\nbody\n"
	got, err := patchFrontmatter(raw, core.Metadata{"b": 2})
	require.NoError(t, err)

	meta, body, err := parseMarkdown(got)
	require.NoError(t, err)
	assert.Equal(t, "body\n", body)
	assert.Equal(t, core.Metadata{"b": 2, "a": []any{"x", "y"}}, meta)
}

func TestPatchFrontmatter_PreservesCRLF(t *testing.T) {
	got, err := patchFrontmatter("---\r\na: 1\r\n---\r\nbody\r\n", core.Metadata{"a": 2})
	require.NoError(t, err)
	assert.Equal(t, "---\r\na: 2\r\n---\r\nbody\r\n", got)
}

func TestPatchFrontmatter_NonMapping(t *testing.T) {
	_, err := patchFrontmatter("---\n- a\n---\n", core.Metadata{"k": 1})
	assert.Error(t, err)
}

func TestPatchFrontmatter_BodyUntouched(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("body bytes survive a patch", prop.ForAll(
		func(body string, value string) bool {
			raw := "---\nkey: old\n---\n" + body
			got, err := patchFrontmatter(raw, core.Metadata{"key": value})
			if err != nil {
				return false
			}
			b := splitFrontmatter(got)
			meta, _, err := parseMarkdown(got)
			return err == nil && b.body == body && meta["key"] == value
		},
		gen.AnyString(),
		gen.AlphaString(),
	))

	properties.TestingRun(t)
}

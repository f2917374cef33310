package fs

import (
	"bytes"
	"errors"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/aretw0/autoprop/pkg/core"
)

const delimiter = "---"

// ErrUnterminatedFrontmatter is returned when patching a document whose frontmatter block
// never closes. Rewriting it would guess where the body starts.
var ErrUnterminatedFrontmatter = errors.New("frontmatter started but no closing delimiter found")

// block is a document split around its frontmatter.
type block struct {
	present    bool   // First line is the delimiter.
	terminated bool   // A closing delimiter line was found.
	yaml       string // Text between the delimiters.
	body       string // Everything after the closing delimiter line, byte for byte.
	newline    string // Line ending of the opening delimiter.
}

// nextLine returns the line starting at start and the offset of the following line.
// Lines end at \r\n, \r or \n.
func nextLine(s string, start int) (string, int) {
	i := strings.IndexAny(s[start:], "\r\n")
	if i < 0 {
		return s[start:], len(s)
	}
	end := start + i
	next := end + 1
	if s[end] == '\r' && next < len(s) && s[next] == '\n' {
		next++
	}
	return s[start:end], next
}

func splitFrontmatter(raw string) block {
	first, next := nextLine(raw, 0)
	if first != delimiter {
		return block{body: raw}
	}

	b := block{present: true, newline: raw[len(delimiter):next]}
	for pos := next; pos < len(raw); {
		line, n := nextLine(raw, pos)
		if line == delimiter {
			b.terminated = true
			b.yaml = raw[next:pos]
			b.body = raw[n:]
			return b
		}
		pos = n
	}
	b.yaml = raw[next:]
	return b
}

// parseMarkdown decodes the frontmatter of raw. An unterminated block yields no metadata
// and no body.
func parseMarkdown(raw string) (core.Metadata, string, error) {
	b := splitFrontmatter(raw)
	meta := make(core.Metadata)
	if !b.present {
		return meta, b.body, nil
	}
	if !b.terminated {
		return meta, "", nil
	}
	if err := yaml.Unmarshal([]byte(b.yaml), &meta); err != nil {
		return nil, "", fmt.Errorf("failed to parse frontmatter: %w", err)
	}
	if meta == nil {
		meta = make(core.Metadata)
	}
	return meta, b.body, nil
}

// patchFrontmatter sets every key of patch in the frontmatter of raw.
//
// Keys keep their position and comments; new keys are appended in sorted order. The body is
// left byte-identical. A document without frontmatter gains a block.
func patchFrontmatter(raw string, patch core.Metadata) (string, error) {
	b := splitFrontmatter(raw)
	if b.present && !b.terminated {
		return "", ErrUnterminatedFrontmatter
	}

	var doc yaml.Node
	if b.present {
		if err := yaml.Unmarshal([]byte(b.yaml), &doc); err != nil {
			return "", fmt.Errorf("failed to parse frontmatter: %w", err)
		}
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		doc = yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{{Kind: yaml.MappingNode, Tag: "!!map"}}}
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return "", fmt.Errorf("frontmatter is not a mapping")
	}

	keys := make([]string, 0, len(patch))
	for k := range patch {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		var value yaml.Node
		if err := value.Encode(patch[k]); err != nil {
			return "", fmt.Errorf("failed to encode %s: %w", k, err)
		}
		if old := lookup(root, k); old != nil {
			value.LineComment = old.LineComment
			*old = value
			continue
		}
		root.Content = append(root.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k}, &value)
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&doc); err != nil {
		return "", err
	}
	if err := enc.Close(); err != nil {
		return "", err
	}

	nl := b.newline
	if nl == "" {
		nl = "\n"
	}
	header := buf.String()
	if nl != "\n" {
		header = strings.ReplaceAll(header, "\n", nl)
	}

	var out strings.Builder
	out.WriteString(delimiter + nl)
	out.WriteString(header)
	out.WriteString(delimiter + nl)
	out.WriteString(b.body)
	return out.String(), nil
}

// lookup returns the value node for key in a mapping node.
func lookup(m *yaml.Node, key string) *yaml.Node {
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			return m.Content[i+1]
		}
	}
	return nil
}

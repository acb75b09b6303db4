package model

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Metadata is the ordered key/value block at the top of a record file.
// Insertion order is preserved so a record round-trips without reshuffling
// keys the user laid out by hand, and so unknown keys survive untouched.
type Metadata struct {
	keys   []string
	values map[string]any
}

func NewMetadata() *Metadata {
	return &Metadata{values: make(map[string]any)}
}

func (m *Metadata) Get(key string) (any, bool) {
	v, ok := m.values[key]
	return v, ok
}

// Set adds or replaces a value. An existing key keeps its position; a new
// key is appended at the end of the block.
func (m *Metadata) Set(key string, value any) {
	if m.values == nil {
		m.values = make(map[string]any)
	}
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
}

func (m *Metadata) Keys() []string {
	keys := make([]string, len(m.keys))
	copy(keys, m.keys)
	return keys
}

func (m *Metadata) Len() int {
	return len(m.keys)
}

// MarshalYAML renders the block as a mapping node in insertion order.
func (m *Metadata) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, key := range m.keys {
		keyNode := &yaml.Node{Kind: yaml.ScalarNode, Value: key}
		valNode := &yaml.Node{}
		if err := valNode.Encode(m.values[key]); err != nil {
			return nil, fmt.Errorf("failed to encode metadata value %q: %w", key, err)
		}
		node.Content = append(node.Content, keyNode, valNode)
	}
	return node, nil
}

// ParseFrontMatter splits a record file into its metadata block and body.
// A file without a leading "---" block is all body with empty metadata.
func ParseFrontMatter(content string) (*Metadata, string, error) {
	if !strings.HasPrefix(content, "---") {
		return NewMetadata(), strings.TrimSpace(content), nil
	}

	parts := strings.SplitN(content, "---", 3)
	if len(parts) < 3 {
		return nil, content, fmt.Errorf("invalid front matter format")
	}

	body := strings.TrimSpace(parts[2])

	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(parts[1]), &doc); err != nil {
		return nil, content, fmt.Errorf("failed to parse front matter: %w", err)
	}

	meta := NewMetadata()
	if len(doc.Content) == 0 {
		return meta, body, nil
	}
	mapping := doc.Content[0]
	if mapping.Kind != yaml.MappingNode {
		return nil, content, fmt.Errorf("front matter is not a key/value block")
	}

	for i := 0; i+1 < len(mapping.Content); i += 2 {
		keyNode := mapping.Content[i]
		value, err := decodeValue(mapping.Content[i+1])
		if err != nil {
			return nil, content, fmt.Errorf("front matter key %q: %w", keyNode.Value, err)
		}
		meta.Set(keyNode.Value, value)
	}

	return meta, body, nil
}

// decodeValue keeps frontmatter values in the shapes the record model
// works with: strings, bools, ints and string lists. Date-like scalars
// stay strings; the date service owns their parsing.
func decodeValue(node *yaml.Node) (any, error) {
	switch node.Kind {
	case yaml.ScalarNode:
		switch node.Tag {
		case "!!bool":
			var b bool
			if err := node.Decode(&b); err != nil {
				return nil, err
			}
			return b, nil
		case "!!int":
			var n int
			if err := node.Decode(&n); err != nil {
				return nil, err
			}
			return n, nil
		case "!!null":
			return "", nil
		default:
			return node.Value, nil
		}
	case yaml.SequenceNode:
		items := make([]string, 0, len(node.Content))
		for _, item := range node.Content {
			items = append(items, item.Value)
		}
		return items, nil
	default:
		return nil, fmt.Errorf("unsupported value kind")
	}
}

// RenderFrontMatter merges the metadata block and body back into file
// content. Records without metadata render as plain body text.
func RenderFrontMatter(meta *Metadata, body string) (string, error) {
	if meta == nil || meta.Len() == 0 {
		return body + "\n", nil
	}
	metaBytes, err := yaml.Marshal(meta)
	if err != nil {
		return "", fmt.Errorf("failed to convert front matter to YAML: %w", err)
	}
	return fmt.Sprintf("---\n%s---\n\n%s\n", string(metaBytes), body), nil
}

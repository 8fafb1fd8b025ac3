// Package store persists tracker state as YAML documents in a git-tracked
// data directory: per-region snapshots with a two-generation retention,
// per-codename archives, and the merged documents rebuilt every run.
package store

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// marshalYAML serializes v with multi-line strings forced into literal block
// scalars. The published documents are read by humans and by the website
// generator, so changelogs must stay block text rather than escaped inline
// strings.
func marshalYAML(v any) ([]byte, error) {
	var node yaml.Node
	if err := node.Encode(v); err != nil {
		return nil, fmt.Errorf("encode yaml node: %w", err)
	}
	blockScalars(&node)
	out, err := yaml.Marshal(&node)
	if err != nil {
		return nil, fmt.Errorf("marshal yaml: %w", err)
	}
	return out, nil
}

func blockScalars(n *yaml.Node) {
	if n.Kind == yaml.ScalarNode && strings.Contains(n.Value, "\n") {
		n.Style = yaml.LiteralStyle
	}
	for _, child := range n.Content {
		blockScalars(child)
	}
}

// writeYAML marshals v and writes it to path. Write failures are run-fatal
// for callers: partial state would corrupt the two-generation diff.
func writeYAML(path string, v any) error {
	data, err := marshalYAML(v)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func readYAML(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, v); err != nil {
		return fmt.Errorf("unmarshal %s: %w", path, err)
	}
	return nil
}

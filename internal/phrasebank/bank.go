// Package phrasebank loads the static catalog of flavor-text phrases
// grouped by category. The bank itself is plain data; all selection
// logic lives in the cycler.
package phrasebank

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Bank maps a category name to its ordered list of phrases.
type Bank map[string][]string

// LoadFile reads a phrase bank from a YAML or JSON file. Format is
// detected by extension, falling back to content sniffing.
func LoadFile(path string) (Bank, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read phrase bank: %w", err)
	}
	return Load(data, filepath.Ext(path))
}

// Load parses a phrase bank from bytes. ext is the file extension used
// as a format hint; empty means detect from content.
func Load(data []byte, ext string) (Bank, error) {
	ext = strings.ToLower(ext)
	if ext == ".yml" {
		ext = ".yaml"
	}

	var b Bank
	switch ext {
	case ".yaml":
		if err := yaml.Unmarshal(data, &b); err != nil {
			return nil, fmt.Errorf("parse phrase bank yaml: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, &b); err != nil {
			return nil, fmt.Errorf("parse phrase bank json: %w", err)
		}
	default:
		if strings.HasPrefix(strings.TrimSpace(string(data)), "{") {
			if err := json.Unmarshal(data, &b); err != nil {
				return nil, fmt.Errorf("parse phrase bank json: %w", err)
			}
		} else if err := yaml.Unmarshal(data, &b); err != nil {
			return nil, fmt.Errorf("parse phrase bank yaml: %w", err)
		}
	}

	if len(b) == 0 {
		return nil, fmt.Errorf("phrase bank is empty")
	}
	return b, nil
}

// Phrases returns the ordered phrase list for a category (nil if absent).
func (b Bank) Phrases(category string) []string {
	return b[category]
}

// Has reports whether a category exists and holds at least one phrase.
func (b Bank) Has(category string) bool {
	return len(b[category]) > 0
}

// Categories returns all category names in sorted order.
func (b Bank) Categories() []string {
	out := make([]string, 0, len(b))
	for cat := range b {
		out = append(out, cat)
	}
	sort.Strings(out)
	return out
}

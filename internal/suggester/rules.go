package suggester

import (
	_ "embed" // default seed rules
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

//go:embed default_rules.yaml
var defaultRulesYAML []byte

// Rules maps a lower-case keyword to the tasks it suggests.
type Rules map[string][]string

type rulesFile struct {
	Rules map[string][]string `json:"rules" yaml:"rules"`
}

// DefaultRules returns the built-in seed rules.
func DefaultRules() Rules {
	rules, err := ParseRules(defaultRulesYAML, ".yaml")
	if err != nil {
		panic(fmt.Sprintf("embedded rules are invalid: %v", err))
	}
	return rules
}

// ParseRules decodes a rule document. ext selects the format (.json, .yaml, .yml).
func ParseRules(data []byte, ext string) (Rules, error) {
	var doc rulesFile

	switch strings.ToLower(ext) {
	case ".json":
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse JSON rules: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse YAML rules: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported rules format %q", ext)
	}

	rules := make(Rules, len(doc.Rules))
	for kw, tasks := range doc.Rules {
		key := strings.ToLower(strings.TrimSpace(kw))
		if key == "" {
			continue
		}
		rules[key] = append(rules[key], tasks...)
	}
	return rules, nil
}

// LoadRules reads seed rules from path on fsys. An empty path or a missing
// file yields the default rules; an unreadable or corrupt file also falls
// back to the defaults and is logged.
func LoadRules(fsys afero.Fs, path string) Rules {
	if path == "" {
		return DefaultRules()
	}

	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			slog.Warn("Failed to read rules, using defaults", "path", path, "error", err)
		}
		return DefaultRules()
	}

	rules, err := ParseRules(data, filepath.Ext(path))
	if err != nil {
		slog.Warn("Invalid rules file, using defaults", "path", path, "error", err)
		return DefaultRules()
	}
	return rules
}

// Keywords returns the rule keywords in sorted order.
func (r Rules) Keywords() []string {
	keys := make([]string, 0, len(r))
	for k := range r {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// TaskCount returns the number of (keyword, task) pairs.
func (r Rules) TaskCount() int {
	n := 0
	for _, tasks := range r {
		n += len(tasks)
	}
	return n
}

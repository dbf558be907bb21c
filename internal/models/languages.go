package models

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// WeightedPattern is one "unusual syntax" pattern with its per-match
// perplexity weight.
type WeightedPattern struct {
	Label   string  `yaml:"label"`
	Pattern string  `yaml:"pattern"`
	Weight  float64 `yaml:"weight"`
}

// LanguagePatterns is the stylometry pattern set for one language tag. The
// analyzer only does table lookups against these; adding a language means
// adding an entry, not code.
type LanguagePatterns struct {
	Name            string            `yaml:"name"`
	LineComments    []string          `yaml:"line_comments"`
	BlockComments   [][2]string       `yaml:"block_comments"`
	ControlKeywords []string          `yaml:"control_keywords"`
	FunctionDefs    []string          `yaml:"function_defs"` // regexes
	ClassDefs       []string          `yaml:"class_defs"`    // regexes
	ImportPatterns  []string          `yaml:"import_patterns"`
	TernaryPattern  string            `yaml:"ternary_pattern"`
	UnusualPatterns []WeightedPattern `yaml:"unusual_patterns"`
}

// LanguageTable maps a lowercase language tag to its pattern set. The
// "default" entry is the fallback for unknown tags.
type LanguageTable map[string]LanguagePatterns

// languagesFile matches the on-disk YAML structure.
type languagesFile struct {
	Languages map[string]LanguagePatterns `yaml:"languages"`
}

// LoadLanguageTable reads a pattern-set override file and merges it over the
// built-in defaults. Entries in the file replace same-named defaults wholesale.
func LoadLanguageTable(path string) (LanguageTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read language patterns file: %w", err)
	}

	var file languagesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to unmarshal language patterns YAML: %w", err)
	}

	table := DefaultLanguageTable()
	for tag, patterns := range file.Languages {
		table[strings.ToLower(tag)] = patterns
	}
	return table, nil
}

// Lookup resolves a language tag to its pattern set, falling back to the
// "default" entry.
func (t LanguageTable) Lookup(language string) LanguagePatterns {
	if p, ok := t[strings.ToLower(strings.TrimSpace(language))]; ok {
		return p
	}
	return t["default"]
}

// DefaultLanguageTable returns the compiled-in pattern sets.
func DefaultLanguageTable() LanguageTable {
	cStyleUnusual := []WeightedPattern{
		{Label: "ternary", Pattern: `\?[^:\n]+:`, Weight: 0.3},
		{Label: "arrow_function", Pattern: `=>`, Weight: 0.2},
		{Label: "map_filter_reduce", Pattern: `\.(map|filter|reduce)\s*\(`, Weight: 0.25},
	}
	cStyleControl := []string{"if", "else", "for", "while", "switch", "case", "catch"}

	return LanguageTable{
		"javascript": {
			Name:            "javascript",
			LineComments:    []string{"//"},
			BlockComments:   [][2]string{{"/*", "*/"}},
			ControlKeywords: cStyleControl,
			FunctionDefs:    []string{`\bfunction\b`, `=>`, `\basync\s+function\b`},
			ClassDefs:       []string{`\bclass\s+[A-Za-z_]`},
			ImportPatterns:  []string{`^\s*import\b`, `\brequire\s*\(`},
			TernaryPattern:  `\?[^:\n]+:`,
			UnusualPatterns: cStyleUnusual,
		},
		"typescript": {
			Name:            "typescript",
			LineComments:    []string{"//"},
			BlockComments:   [][2]string{{"/*", "*/"}},
			ControlKeywords: cStyleControl,
			FunctionDefs:    []string{`\bfunction\b`, `=>`},
			ClassDefs:       []string{`\bclass\s+[A-Za-z_]`, `\binterface\s+[A-Za-z_]`},
			ImportPatterns:  []string{`^\s*import\b`},
			TernaryPattern:  `\?[^:\n]+:`,
			UnusualPatterns: cStyleUnusual,
		},
		"python": {
			Name:            "python",
			LineComments:    []string{"#"},
			BlockComments:   [][2]string{{`"""`, `"""`}, {"'''", "'''"}},
			ControlKeywords: []string{"if", "elif", "else", "for", "while", "try", "except", "with"},
			FunctionDefs:    []string{`\bdef\s+[A-Za-z_]`, `\blambda\b`},
			ClassDefs:       []string{`\bclass\s+[A-Za-z_]`},
			ImportPatterns:  []string{`^\s*import\b`, `^\s*from\s+\S+\s+import\b`},
			TernaryPattern:  `\S+\s+if\s+.+\s+else\s+\S+`,
			UnusualPatterns: []WeightedPattern{
				{Label: "inline_conditional", Pattern: `\S+\s+if\s+.+\s+else\s+\S+`, Weight: 0.3},
				{Label: "lambda", Pattern: `\blambda\b`, Weight: 0.2},
				{Label: "map_filter_reduce", Pattern: `\b(map|filter|reduce)\s*\(`, Weight: 0.25},
			},
		},
		"java": {
			Name:            "java",
			LineComments:    []string{"//"},
			BlockComments:   [][2]string{{"/*", "*/"}},
			ControlKeywords: cStyleControl,
			FunctionDefs:    []string{`\b(public|private|protected|static)[^=;{]*\([^)]*\)\s*\{`},
			ClassDefs:       []string{`\bclass\s+[A-Za-z_]`, `\binterface\s+[A-Za-z_]`},
			ImportPatterns:  []string{`^\s*import\b`},
			TernaryPattern:  `\?[^:\n]+:`,
			UnusualPatterns: []WeightedPattern{
				{Label: "ternary", Pattern: `\?[^:\n]+:`, Weight: 0.3},
				{Label: "lambda", Pattern: `->`, Weight: 0.2},
				{Label: "stream_chain", Pattern: `\.(map|filter|reduce|stream)\s*\(`, Weight: 0.25},
			},
		},
		"go": {
			Name:            "go",
			LineComments:    []string{"//"},
			BlockComments:   [][2]string{{"/*", "*/"}},
			ControlKeywords: []string{"if", "else", "for", "switch", "case", "select", "defer"},
			FunctionDefs:    []string{`\bfunc\s+`},
			ClassDefs:       []string{`\btype\s+[A-Za-z_]\w*\s+struct\b`},
			ImportPatterns:  []string{`^\s*import\b`, `^\s*"[^"]+"$`},
			TernaryPattern:  ``, // no ternary operator
			UnusualPatterns: []WeightedPattern{
				{Label: "anonymous_func", Pattern: `\bfunc\s*\(`, Weight: 0.15},
			},
		},
		"default": {
			Name:            "default",
			LineComments:    []string{"//", "#"},
			BlockComments:   [][2]string{{"/*", "*/"}},
			ControlKeywords: cStyleControl,
			FunctionDefs:    []string{`\bfunction\b`, `\bdef\s+[A-Za-z_]`, `\bfunc\s+`},
			ClassDefs:       []string{`\bclass\s+[A-Za-z_]`},
			ImportPatterns:  []string{`^\s*import\b`, `^\s*#include\b`},
			TernaryPattern:  `\?[^:\n]+:`,
			UnusualPatterns: cStyleUnusual,
		},
	}
}

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Language identifies the comment/string syntax family of a source file.
type Language string

const (
	LangSwift Language = "swift"
	LangObjC  Language = "objc"
)

// CommentSyntax describes how comments and literals are written in a language.
// The stripper is driven entirely by this table, so new languages can be added
// via syntax.yml without touching the scanner.
type CommentSyntax struct {
	Line        string   `yaml:"line"`         // line comment marker, e.g. "//"
	BlockStart  string   `yaml:"block_start"`  // e.g. "/*"
	BlockEnd    string   `yaml:"block_end"`    // e.g. "*/"
	Extensions  []string `yaml:"extensions"`   // e.g. [".swift"], case-sensitive
	CharLiteral bool     `yaml:"char_literal"` // single-quoted char literals ('x')
}

// SyntaxTable maps languages to their comment syntax and file extensions to
// languages. Extension matching is case-sensitive.
type SyntaxTable struct {
	languages    map[Language]CommentSyntax
	extensionMap map[string]Language
	order        []Language // registration order, keeps Extensions() stable
}

// defaultSyntaxTable covers the extensions an Xcode project tree is expected
// to contain: Swift sources plus Objective-C headers and implementations.
func defaultSyntaxTable() *SyntaxTable {
	t := &SyntaxTable{
		languages:    make(map[Language]CommentSyntax),
		extensionMap: make(map[string]Language),
	}
	t.register(LangSwift, CommentSyntax{
		Line:       "//",
		BlockStart: "/*",
		BlockEnd:   "*/",
		Extensions: []string{".swift"},
	})
	t.register(LangObjC, CommentSyntax{
		Line:        "//",
		BlockStart:  "/*",
		BlockEnd:    "*/",
		Extensions:  []string{".h", ".m"},
		CharLiteral: true,
	})
	return t
}

func (t *SyntaxTable) register(lang Language, syntax CommentSyntax) {
	if _, exists := t.languages[lang]; !exists {
		t.order = append(t.order, lang)
	}
	t.languages[lang] = syntax
	for _, ext := range syntax.Extensions {
		t.extensionMap[ext] = lang
	}
}

// Extensions returns the extension allow-list in registration order.
func (t *SyntaxTable) Extensions() []string {
	exts := make([]string, 0, len(t.extensionMap))
	for _, lang := range t.order {
		exts = append(exts, t.languages[lang].Extensions...)
	}
	return exts
}

// LanguageForFile resolves the language of a path by its extension.
// The match is case-sensitive: ".SWIFT" is not a Swift file.
func (t *SyntaxTable) LanguageForFile(path string) (Language, bool) {
	ext := filepath.Ext(filepath.Base(path))
	if ext == "" {
		return "", false
	}
	lang, ok := t.extensionMap[ext]
	return lang, ok
}

// Syntax returns the comment syntax for a language, falling back to the
// Swift profile for unknown tags so stripping stays best-effort.
func (t *SyntaxTable) Syntax(lang Language) CommentSyntax {
	if syntax, ok := t.languages[lang]; ok {
		return syntax
	}
	return t.languages[LangSwift]
}

// loadSyntaxTable builds the syntax table, applying overrides from an
// optional syntax.yml in the standard config locations. A missing file is
// not an error; a malformed one is.
func loadSyntaxTable() (*SyntaxTable, error) {
	table := defaultSyntaxTable()

	configPaths := []string{}
	if home, err := os.UserHomeDir(); err == nil {
		configPaths = append(configPaths, filepath.Join(home, ".config", "xcreview"))
	}
	configPaths = append(configPaths, ".")

	var syntaxFilePath string
	for _, p := range configPaths {
		testPath := filepath.Join(p, "syntax.yml")
		if _, err := os.Stat(testPath); err == nil {
			syntaxFilePath = testPath
			break
		}
	}
	if syntaxFilePath == "" {
		return table, nil
	}

	data, err := os.ReadFile(syntaxFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading syntax file %s: %w", syntaxFilePath, err)
	}
	return parseSyntaxOverrides(table, data, syntaxFilePath)
}

// parseSyntaxOverrides merges a YAML document of language → CommentSyntax
// entries into the table. Entries replace built-ins of the same name.
func parseSyntaxOverrides(table *SyntaxTable, data []byte, source string) (*SyntaxTable, error) {
	var overrides map[Language]CommentSyntax
	if err := yaml.Unmarshal(data, &overrides); err != nil {
		return nil, fmt.Errorf("error parsing syntax file %s: %w", source, err)
	}
	for lang, syntax := range overrides {
		if syntax.Line == "" && syntax.BlockStart == "" {
			return nil, fmt.Errorf("syntax file %s: language %q defines no comment markers", source, lang)
		}
		table.register(lang, syntax)
	}
	return table, nil
}

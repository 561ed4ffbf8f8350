package model

import (
	"strings"
	"unicode"
)

// ParserFactory constructs a Parser. Plugins register factories instead of
// instances so every detection pass works on a fresh, stateless value.
type ParserFactory func() Parser

// factories holds the registered format-specific parsers in priority order.
// First successful Detect wins, so more specific detectors register first.
var factories []ParserFactory

// Register appends a parser factory to the detection order. Plugin packages
// call this from init(); cmd/actionlog blank-imports them, so the import
// order there is the priority order.
func Register(factory ParserFactory) {
	factories = append(factories, factory)
}

// DetectParser returns the first registered parser whose Detect accepts the
// given lines, falling back to DefaultParser. It always returns a usable
// parser and cannot fail.
func DetectParser(lines []string) Parser {
	for _, factory := range factories {
		parser := factory()
		if parser.Detect(lines) {
			return parser
		}
	}
	return DefaultParser{}
}

// DefaultParser is the fallback of last resort: it matches any log and
// produces no sections, signalling callers to use the raw log display.
type DefaultParser struct{}

// Name returns "default".
func (DefaultParser) Name() string { return "default" }

// Detect always succeeds.
func (DefaultParser) Detect(_ []string) bool { return true }

// Parse returns an empty result.
func (DefaultParser) Parse(_ []string) ParseResult { return ParseResult{} }

// SectionNames returns no section names.
func (DefaultParser) SectionNames() []string { return nil }

// SectionDisplayName title-cases the given name.
func (DefaultParser) SectionDisplayName(name string) string { return TitleCase(name) }

// TitleCase upper-cases the first letter of every word and lower-cases the
// rest. Used as the display-name fallback for section names without a
// lookup entry.
func TitleCase(text string) string {
	prevLetter := false
	return strings.Map(func(r rune) rune {
		if !unicode.IsLetter(r) {
			prevLetter = false
			return r
		}
		if prevLetter {
			return unicode.ToLower(r)
		}
		prevLetter = true
		return unicode.ToUpper(r)
	}, text)
}

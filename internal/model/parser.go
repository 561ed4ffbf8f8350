package model

// Parser defines the common interface for log format plugins. Each format
// implementation (pytest, future CI tools) provides its own parser that
// conforms to this interface. Implementations must be stateless: Parse may
// be called repeatedly, from any goroutine, with identical results for
// identical input.
type Parser interface {
	// Name returns the stable identifier of the parser, e.g. "pytest".
	Name() string

	// Detect reports whether this parser applies to the given log lines.
	// Implementations should examine a bounded window rather than the
	// whole log.
	Detect(lines []string) bool

	// Parse extracts structured sections from the log lines. It is total:
	// unrecognizable input yields sections with Err populated, never a
	// failure.
	Parse(lines []string) ParseResult

	// SectionNames returns the section identifiers this parser produces,
	// in display order.
	SectionNames() []string

	// SectionDisplayName returns the human-readable label for a section
	// name, with a title-cased fallback for unknown names.
	SectionDisplayName(name string) string
}

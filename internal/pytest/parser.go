// Package pytest implements the log parser plugin for pytest-style CI job
// logs. It extracts the slowest-durations, warnings-summary, and test
// coverage blocks that pytest prints near the end of a run.
package pytest

import (
	"regexp"
	"strings"

	"actionlog/internal/model"
	"actionlog/internal/parse"
)

var (
	slowStartPattern = regexp.MustCompile(`=+ slowest \d+ durations =+`)
	slowSepPattern   = regexp.MustCompile(`={4,}`)
	slowTimePattern  = regexp.MustCompile(`\d+\.\d+s `)

	warningsStartPattern = regexp.MustCompile(`=+ warnings summary =+`)
	// A "=== <word>" header introduces the next section and closes warnings.
	// The plain-equals separator lines inside the block do not match.
	warningsEndPattern = regexp.MustCompile(`^=+\s+\w+`)

	coverageStartPattern = regexp.MustCompile(`=+ tests coverage =+`)
	separatorPattern     = regexp.MustCompile(`={10,}`)
)

// Detection examines a bounded window: pytest summaries conventionally sit
// near the end of a job log, after arbitrarily long setup output.
const (
	detectHeadLines = 500
	detectTailLines = 1000
)

func init() {
	model.Register(func() model.Parser { return Parser{} })
}

// Parser recognizes and parses pytest output embedded in CI job logs.
type Parser struct{}

// Name returns "pytest".
func (Parser) Name() string { return "pytest" }

// Detect reports whether the log looks like pytest output. It strips ANSI
// codes from the detection window (the first 500 and last 1000 lines) and
// searches it for any of the three section headers.
func (Parser) Detect(lines []string) bool {
	window := detectionWindow(lines)
	cleaned := make([]string, len(window))
	for i, line := range window {
		cleaned[i] = parse.StripANSI(line)
	}
	text := strings.Join(cleaned, "\n")

	return slowStartPattern.MatchString(text) ||
		warningsStartPattern.MatchString(text) ||
		coverageStartPattern.MatchString(text)
}

// Parse strips the CI prefix from every line and runs the three section
// pipelines against the cleaned lines. Every declared section name is
// present in the result; sections not found in the log carry Err instead
// of Content.
func (p Parser) Parse(lines []string) model.ParseResult {
	cleaned := parse.StripLogPrefixAll(lines)

	return model.ParseResult{
		"slow":     p.section("slow", parseSlowest(cleaned), "No slowest block detected in the log."),
		"warnings": p.section("warnings", parseWarnings(cleaned), "No warnings summary detected in the log."),
		"coverage": p.section("coverage", parseCoverage(cleaned), "No coverage block detected in the log."),
	}
}

// SectionNames returns the fixed section order for pytest logs.
func (Parser) SectionNames() []string {
	return []string{"slow", "warnings", "coverage"}
}

var displayNames = map[string]string{
	"slow":     "Slowest durations",
	"warnings": "Warnings summary",
	"coverage": "Test coverage",
}

// SectionDisplayName maps a section name to its label, title-casing
// unknown names.
func (Parser) SectionDisplayName(name string) string {
	if label, ok := displayNames[name]; ok {
		return label
	}
	return model.TitleCase(name)
}

func (p Parser) section(name, content, missing string) model.Section {
	sec := model.Section{Name: name, DisplayName: p.SectionDisplayName(name)}
	if content == "" {
		sec.Err = missing
		return sec
	}
	sec.Content = content
	return sec
}

func detectionWindow(lines []string) []string {
	head := lines
	if len(head) > detectHeadLines {
		head = head[:detectHeadLines]
	}
	tail := lines
	if len(tail) > detectTailLines {
		tail = tail[len(tail)-detectTailLines:]
	}
	window := make([]string, 0, len(head)+len(tail))
	window = append(window, head...)
	window = append(window, tail...)
	return window
}

func parseSlowest(lines []string) string {
	section := parse.ExtractSection(lines, slowStartPattern, slowSepPattern, false)
	return strings.TrimSpace(strings.Join(formatSlowestLines(section), "\n"))
}

// formatSlowestLines reduces the boundary-separator lines to their
// non-separator remainder and removes the leading duration marker from the
// interior timing lines. The final line is additionally ANSI-stripped,
// since pytest colors the closing summary.
func formatSlowestLines(lines []string) []string {
	if len(lines) == 0 {
		return nil
	}
	parts := make([]string, 0, len(lines))
	parts = append(parts, trimSeparator(lines[0]))
	if len(lines) > 2 {
		for _, line := range lines[1 : len(lines)-1] {
			parts = append(parts, trimDuration(line))
		}
	}
	parts = append(parts, parse.StripANSI(trimSeparator(lines[len(lines)-1])))
	return parts
}

func parseWarnings(lines []string) string {
	section := parse.ExtractSection(lines, warningsStartPattern, warningsEndPattern, true)
	// Prefix stripping already normalized the lines; the block is shown
	// as pytest printed it.
	return strings.TrimSpace(strings.Join(section, "\n"))
}

func parseCoverage(lines []string) string {
	section := parse.ExtractSection(lines, coverageStartPattern, separatorPattern, true)
	return strings.TrimSpace(strings.Join(section, "\n"))
}

// trimSeparator removes the separator runs from a boundary line, keeping
// any surrounding text. A line without a separator run contributes nothing.
func trimSeparator(line string) string {
	if !slowSepPattern.MatchString(line) {
		return ""
	}
	return slowSepPattern.ReplaceAllString(line, "")
}

// trimDuration removes the leading "<seconds>s " marker, and any residual
// prefix before it, from a timing line. An interior line without a marker
// passes through whole instead of being reduced to nothing, so stray text
// inside the block stays visible; fixtures with unmarked interior lines
// depend on this.
func trimDuration(line string) string {
	if loc := slowTimePattern.FindStringIndex(line); loc != nil {
		return line[loc[1]:]
	}
	return line
}

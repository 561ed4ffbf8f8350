// Package parse provides the line-level primitives shared by log format
// plugins: terminal escape stripping, CI prefix stripping, and the generic
// section extractor.
package parse

import "regexp"

// ansiPattern matches CSI-style escape sequences (ESC '[' ... final byte in
// '@'..'~') and the two-character ESC forms.
var ansiPattern = regexp.MustCompile(`\x1b(?:[@-Z\\-_]|\[[0-?]*[ -/]*[@-~])`)

// logPrefixPattern matches everything up to and including the first
// ISO-8601 UTC timestamp on a line, plus any whitespace after it. GitHub
// Actions prefixes every log line with a step name and such a timestamp.
var logPrefixPattern = regexp.MustCompile(`^.*?\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}(?:\.\d*)?Z\s*`)

// StripANSI removes ANSI escape sequences from line. Text without escapes
// passes through unchanged, and the operation is idempotent.
func StripANSI(line string) string {
	return ansiPattern.ReplaceAllString(line, "")
}

// StripLogPrefix removes the CI prefix (step name plus timestamp) from the
// start of line. A line without a timestamp is returned unchanged; the
// function only ever removes a leading substring.
func StripLogPrefix(line string) string {
	if loc := logPrefixPattern.FindStringIndex(line); loc != nil {
		return line[loc[1]:]
	}
	return line
}

// StripLogPrefixAll applies StripLogPrefix to every line, preserving order.
func StripLogPrefixAll(lines []string) []string {
	out := make([]string, len(lines))
	for i, line := range lines {
		out[i] = StripLogPrefix(line)
	}
	return out
}

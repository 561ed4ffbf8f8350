// Package model provides the common types and the parser contract shared by
// all log format implementations.
package model

// Section is one named, extracted region of a job log. Exactly one of
// Content and Err is populated: a found section carries its (non-empty)
// text, a missing one carries a human-readable reason instead.
type Section struct {
	Name        string
	DisplayName string
	Content     string
	Err         string
}

// Found reports whether the section was located in the log.
func (s Section) Found() bool { return s.Err == "" }

// ParseResult maps section names to their extracted sections. Its key set
// equals the producing parser's SectionNames.
type ParseResult map[string]Section

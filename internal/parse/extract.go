package parse

import "regexp"

// ExtractSection scans lines in order and returns the contiguous range
// recognized as one section. The line matching start is always included.
// The end test is skipped on a line that itself matched start, so a line
// that looks like both markers cannot close the section it just opened.
// If end never matches after a start, the section extends to the last line.
// With dropLast the final collected line is removed, for end markers that
// belong to the next section. No start match yields an empty result.
func ExtractSection(lines []string, start, end *regexp.Regexp, dropLast bool) []string {
	var section []string
	inSection := false
	for _, line := range lines {
		startMatch := start.MatchString(line)
		if startMatch {
			inSection = true
		}
		if inSection {
			section = append(section, line)
		}
		if !startMatch && inSection && end.MatchString(line) {
			break
		}
	}
	if dropLast && len(section) > 0 {
		return section[:len(section)-1]
	}
	return section
}

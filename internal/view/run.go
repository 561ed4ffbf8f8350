// Package view renders parsed job logs for the non-interactive log command.
package view

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/mattn/go-runewidth"
	"golang.org/x/term"

	"actionlog/internal/model"
	"actionlog/internal/parse"
)

// Options defines the configurable parameters for rendering a job log.
type Options struct {
	Raw          bool
	Section      string
	Wrap         int
	ForceColor   bool
	ForceNoColor bool
	Out          io.Writer
	OutFile      *os.File
}

// Render writes the parsed sections of a job log (or, with Raw, the
// prefix-stripped log itself) to opts.Out, piping through a pager when the
// output is a terminal.
func Render(parser model.Parser, result model.ParseResult, rawLog string, opts Options) error {
	if opts.Out == nil {
		opts.Out = os.Stdout
	}

	useColor := resolveColorChoice(opts)
	width := determineWidth(opts.OutFile, opts.Wrap)

	var lines []string
	switch {
	case opts.Raw:
		lines = parse.StripLogPrefixAll(strings.Split(rawLog, "\n"))
	case opts.Section != "":
		section, ok := result[opts.Section]
		if !ok {
			return fmt.Errorf("unknown section %q (parser %s provides: %s)",
				opts.Section, parser.Name(), strings.Join(parser.SectionNames(), ", "))
		}
		lines = renderSection(section, width, useColor)
	default:
		for i, name := range parser.SectionNames() {
			if i > 0 {
				lines = append(lines, "")
			}
			lines = append(lines, renderSection(result[name], width, useColor)...)
		}
		if len(parser.SectionNames()) == 0 {
			lines = append(lines, "No sections recognized; use --raw for the full log.")
		}
	}

	if opts.OutFile != nil && isatty.IsTerminal(opts.OutFile.Fd()) {
		return pipeThroughPager(lines, useColor)
	}
	return writeLines(opts.Out, lines)
}

// renderSection produces a header line, an underline, and the prefixed body
// for one section. A missing section shows its absence reason instead of
// content.
func renderSection(section model.Section, width int, useColor bool) []string {
	headerPlain := fmt.Sprintf("[%s]", section.DisplayName)
	header := headerPlain
	if useColor {
		header = colorize(true, ansiHeader, headerPlain)
	}

	out := []string{header, strings.Repeat("-", len(headerPlain))}

	prefix := "| "
	emptyPrefix := "|"
	if useColor {
		sep := colorize(true, ansiSeparator, "|")
		prefix = sep + " "
		emptyPrefix = sep
	}

	if !section.Found() {
		note := section.Err
		if useColor {
			note = colorize(true, ansiMissing, note)
		}
		return append(out, prefix+note)
	}

	for _, line := range strings.Split(section.Content, "\n") {
		for _, wrapped := range wrapBody(line, width) {
			if wrapped == "" {
				out = append(out, emptyPrefix)
				continue
			}
			out = append(out, prefix+wrapped)
		}
	}
	return out
}

// wrapBody word-wraps a line at the given display width; a non-positive
// width disables wrapping.
func wrapBody(text string, width int) []string {
	if width <= 0 || runewidth.StringWidth(text) <= width {
		return []string{text}
	}

	words := strings.Fields(text)
	if len(words) == 0 {
		return []string{""}
	}

	var lines []string
	current := words[0]
	for _, word := range words[1:] {
		if runewidth.StringWidth(current)+1+runewidth.StringWidth(word) > width {
			lines = append(lines, current)
			current = word
		} else {
			current += " " + word
		}
	}
	return append(lines, current)
}

func determineWidth(out *os.File, wrap int) int {
	if wrap > 0 {
		return wrap
	}
	if out != nil {
		if w, _, err := term.GetSize(int(out.Fd())); err == nil && w > 0 {
			return w
		}
	}
	if colsStr := os.Getenv("COLUMNS"); colsStr != "" {
		if v, err := strconv.Atoi(colsStr); err == nil && v > 0 {
			return v
		}
	}
	return 0
}

func pipeThroughPager(lines []string, colorEnabled bool) error {
	text := strings.Join(lines, "\n")
	if !strings.HasSuffix(text, "\n") {
		text += "\n"
	}

	pagerCmd := os.Getenv("PAGER")
	var cmd *exec.Cmd
	if pagerCmd == "" {
		args := []string{"less"}
		if colorEnabled {
			args = append(args, "-R")
		}
		cmd = exec.Command(args[0], args[1:]...) // #nosec G204
	} else {
		cmd = exec.Command("sh", "-c", pagerCmd) // #nosec G204
	}

	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("create pager pipe: %w", err)
	}
	go func() {
		defer stdin.Close()
		io.WriteString(stdin, text) //nolint:errcheck
	}()

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("run pager: %w", err)
	}
	return nil
}

func writeLines(out io.Writer, lines []string) error {
	for _, line := range lines {
		if _, err := fmt.Fprintln(out, line); err != nil {
			return err
		}
	}
	return nil
}

const (
	ansiReset     = "\x1b[0m"
	ansiHeader    = "\x1b[1;97m"
	ansiSeparator = "\x1b[38;5;240m"
	ansiMissing   = "\x1b[38;5;245m"
)

func colorize(enabled bool, code string, text string) string {
	if !enabled {
		return text
	}
	return code + text + ansiReset
}

func resolveColorChoice(opts Options) bool {
	if opts.ForceColor {
		return true
	}
	if opts.ForceNoColor {
		return false
	}
	return shouldUseColorAuto(opts.Out)
}

func shouldUseColorAuto(out io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	file, ok := out.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

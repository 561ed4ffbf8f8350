// Package format renders runs and jobs for the non-interactive commands.
package format

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"actionlog/internal/gh"
)

// WriteRuns writes workflow runs to w in the requested format: table,
// plain, json, or jsonl.
func WriteRuns(w io.Writer, runs []gh.Run, includeHeader bool, format string) error {
	switch strings.ToLower(format) {
	case "", "table":
		return writeRunsTable(w, runs, includeHeader)
	case "plain":
		return writeRunsPlain(w, runs, includeHeader)
	case "json":
		return writeJSON(w, runs)
	case "jsonl":
		return writeJSONL(w, len(runs), func(i int) any { return runs[i] })
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

// WriteJobs writes a run's jobs to w in the requested format.
func WriteJobs(w io.Writer, jobs []gh.Job, includeHeader bool, format string) error {
	switch strings.ToLower(format) {
	case "", "table":
		return writeJobsTable(w, jobs, includeHeader)
	case "plain":
		return writeJobsPlain(w, jobs, includeHeader)
	case "json":
		return writeJSON(w, jobs)
	case "jsonl":
		return writeJSONL(w, len(jobs), func(i int) any { return jobs[i] })
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

func writeRunsPlain(w io.Writer, runs []gh.Run, includeHeader bool) error {
	if includeHeader {
		if _, err := fmt.Fprintln(w, "number\trun_id\tcreated\tbranch\tsha\ttitle"); err != nil {
			return err
		}
	}
	for _, run := range runs {
		line := fmt.Sprintf(
			"%d\t%d\t%s\t%s\t%s\t%s",
			run.Number,
			run.ID,
			run.FormattedDate(),
			run.HeadBranch,
			run.ShortSHA(),
			escapeNewlines(run.DisplayTitle),
		)
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func writeRunsTable(w io.Writer, runs []gh.Run, includeHeader bool) error {
	tw := newTableWriter(w)
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight, AlignHeader: text.AlignCenter},
		{Number: 2, Align: text.AlignRight, AlignHeader: text.AlignCenter},
		{Number: 3, Align: text.AlignLeft, AlignHeader: text.AlignCenter},
		{Number: 4, Align: text.AlignLeft, AlignHeader: text.AlignCenter},
		{Number: 5, Align: text.AlignLeft, AlignHeader: text.AlignCenter},
		{Number: 6, Align: text.AlignLeft, AlignHeader: text.AlignCenter, WidthMax: 60},
	})

	if includeHeader {
		tw.AppendHeader(table.Row{"#", "Run ID", "Created", "Branch", "SHA", "Title"})
	}
	for _, run := range runs {
		tw.AppendRow(table.Row{
			run.Number,
			run.ID,
			run.FormattedDate(),
			run.HeadBranch,
			run.ShortSHA(),
			escapeNewlines(run.DisplayTitle),
		})
	}
	if len(runs) == 0 {
		tw.AppendRow(table.Row{"-", "-", "-", "-", "-", "(no runs)"})
	}

	_ = tw.Render()
	return nil
}

func writeJobsPlain(w io.Writer, jobs []gh.Job, includeHeader bool) error {
	if includeHeader {
		if _, err := fmt.Fprintln(w, "job_id\tduration\tname"); err != nil {
			return err
		}
	}
	for _, job := range jobs {
		line := fmt.Sprintf("%d\t%s\t%s", job.ID, job.DurationString(), escapeNewlines(job.Name))
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func writeJobsTable(w io.Writer, jobs []gh.Job, includeHeader bool) error {
	tw := newTableWriter(w)
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight, AlignHeader: text.AlignCenter},
		{Number: 2, Align: text.AlignCenter, AlignHeader: text.AlignCenter},
		{Number: 3, Align: text.AlignLeft, AlignHeader: text.AlignCenter, WidthMax: 80},
	})

	if includeHeader {
		tw.AppendHeader(table.Row{"Job ID", "Duration", "Name"})
	}
	for _, job := range jobs {
		tw.AppendRow(table.Row{job.ID, job.DurationString(), escapeNewlines(job.Name)})
	}
	if len(jobs) == 0 {
		tw.AppendRow(table.Row{"-", "-", "(no jobs)"})
	}

	_ = tw.Render()
	return nil
}

func newTableWriter(w io.Writer) table.Writer {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleRounded)
	tw.Style().Options.SeparateRows = false
	tw.Style().Options.SeparateHeader = true
	tw.Style().Options.DrawBorder = true
	return tw
}

func writeJSON(w io.Writer, items any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(items)
}

func writeJSONL(w io.Writer, n int, item func(i int) any) error {
	enc := json.NewEncoder(w)
	for i := 0; i < n; i++ {
		if err := enc.Encode(item(i)); err != nil {
			return err
		}
	}
	return nil
}

func escapeNewlines(text string) string {
	return strings.ReplaceAll(text, "\n", "\\n")
}

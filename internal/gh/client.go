// Package gh wraps the gh CLI for GitHub Actions data access: listing
// workflows, runs, and jobs, and fetching raw job logs.
package gh

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"sort"
	"strings"
	"time"

	"actionlog/internal/logging"
)

// ErrGHNotFound is returned when the gh binary is not installed.
var ErrGHNotFound = errors.New("the gh CLI is required but not installed or not in PATH")

// Client issues gh commands scoped to a single repository.
type Client struct {
	repo string
}

// NewClient creates a client for the given owner/name repository.
func NewClient(repo string) *Client {
	return &Client{repo: repo}
}

// Repo returns the owner/name repository this client is scoped to.
func (c *Client) Repo() string { return c.repo }

// Run represents a workflow run as reported by gh run list.
type Run struct {
	ID           int64     `json:"databaseId"`
	DisplayTitle string    `json:"displayTitle"`
	CreatedAt    time.Time `json:"createdAt"`
	HeadBranch   string    `json:"headBranch"`
	HeadSHA      string    `json:"headSha"`
	Status       string    `json:"status"`
	Conclusion   string    `json:"conclusion"`
	Number       int       `json:"number"`
	URL          string    `json:"url"`
}

// ShortSHA returns the abbreviated head commit, or "unknown".
func (r Run) ShortSHA() string {
	if r.HeadSHA == "" {
		return "unknown"
	}
	if len(r.HeadSHA) < 7 {
		return r.HeadSHA
	}
	return r.HeadSHA[:7]
}

// FormattedDate renders the creation time for display.
func (r Run) FormattedDate() string {
	if r.CreatedAt.IsZero() {
		return "unknown date"
	}
	return r.CreatedAt.Format("2006-01-02 15:04")
}

// Job represents a job within a workflow run.
type Job struct {
	ID          int64
	Name        string
	StartedAt   time.Time
	CompletedAt time.Time
}

// DurationSeconds returns the job duration, or 0 when either timestamp is
// missing.
func (j Job) DurationSeconds() float64 {
	if j.StartedAt.IsZero() || j.CompletedAt.IsZero() {
		return 0
	}
	d := j.CompletedAt.Sub(j.StartedAt).Seconds()
	if d < 0 {
		return 0
	}
	return d
}

// DurationString renders the job duration as "XmYs", "Ys", or "n/a" when
// the timestamps are incomplete.
func (j Job) DurationString() string {
	if j.StartedAt.IsZero() || j.CompletedAt.IsZero() {
		return "n/a"
	}
	total := int(j.DurationSeconds())
	minutes, seconds := total/60, total%60
	if minutes > 0 {
		return fmt.Sprintf("%dm %ds", minutes, seconds)
	}
	return fmt.Sprintf("%ds", seconds)
}

// ListWorkflows returns the workflow names defined in the repository.
func (c *Client) ListWorkflows(ctx context.Context) ([]string, error) {
	out, err := c.run(ctx, "workflow", "list", "--json", "name")
	if err != nil {
		return nil, err
	}

	var payload []struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(out, &payload); err != nil {
		return nil, fmt.Errorf("decode workflow list: %w", err)
	}

	names := make([]string, 0, len(payload))
	for _, w := range payload {
		names = append(names, w.Name)
	}
	return names, nil
}

// ListRuns returns recent successful runs of the given workflow, newest
// first. A non-positive limit falls back to 10.
func (c *Client) ListRuns(ctx context.Context, workflow string, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 10
	}
	out, err := c.run(ctx,
		"run", "list",
		"--workflow", workflow,
		"--status", "success",
		"--limit", fmt.Sprintf("%d", limit),
		"--json", "databaseId,displayTitle,createdAt,headBranch,headSha,status,conclusion,number,url",
	)
	if err != nil {
		return nil, err
	}

	var runs []Run
	if err := json.Unmarshal(out, &runs); err != nil {
		return nil, fmt.Errorf("decode run list: %w", err)
	}
	return runs, nil
}

// ListJobs returns the jobs of a run, sorted by duration descending so the
// slowest (usually the interesting) jobs come first.
func (c *Client) ListJobs(ctx context.Context, runID string) ([]Job, error) {
	out, err := c.run(ctx, "run", "view", runID, "--json", "jobs")
	if err != nil {
		return nil, err
	}

	var payload struct {
		Jobs []struct {
			DatabaseID  int64     `json:"databaseId"`
			Name        string    `json:"name"`
			StartedAt   time.Time `json:"startedAt"`
			CompletedAt time.Time `json:"completedAt"`
		} `json:"jobs"`
	}
	if err := json.Unmarshal(out, &payload); err != nil {
		return nil, fmt.Errorf("decode jobs: %w", err)
	}

	jobs := make([]Job, 0, len(payload.Jobs))
	for _, j := range payload.Jobs {
		jobs = append(jobs, Job{
			ID:          j.DatabaseID,
			Name:        j.Name,
			StartedAt:   j.StartedAt,
			CompletedAt: j.CompletedAt,
		})
	}
	sort.SliceStable(jobs, func(i, k int) bool {
		return jobs[i].DurationSeconds() > jobs[k].DurationSeconds()
	})
	return jobs, nil
}

// FetchJobLog retrieves the raw log text for a specific job. Callers are
// expected to degrade an error to an empty log before parsing.
func (c *Client) FetchJobLog(ctx context.Context, runID string, jobID int64) (string, error) {
	out, err := c.run(ctx, "run", "view", runID, "--job", fmt.Sprintf("%d", jobID), "--log")
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// run executes gh with the repository flag prepended and returns stdout.
func (c *Client) run(ctx context.Context, args ...string) ([]byte, error) {
	full := append([]string{"--repo", c.repo}, args...)
	logging.Debug("running gh", "args", strings.Join(full, " "))

	cmd := exec.CommandContext(ctx, "gh", full...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return nil, ErrGHNotFound
		}
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		logging.Error("gh command failed", "args", strings.Join(full, " "), "stderr", msg)
		return nil, fmt.Errorf("gh %s failed: %s", args[0], msg)
	}
	return stdout.Bytes(), nil
}

package gh

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"regexp"
	"strings"

	"actionlog/internal/logging"
)

// repoEnvVars are consulted in order when no repository is given explicitly.
var repoEnvVars = []string{
	"ACTIONLOG_REPO",
	"GITHUB_REPOSITORY",
	"GH_REPOSITORY",
}

var (
	remotePattern = regexp.MustCompile(`github\.com[:/]([\w-]+)/([\w.-]+?)(?:\.git)?$`)
	runURLPattern = regexp.MustCompile(`actions/runs/(\d+)`)
)

// ErrNoRepo is returned when no repository could be resolved from the CLI,
// the environment, or the current git remote.
var ErrNoRepo = errors.New("repository not specified and could not be detected from git remote")

// ResolveRepo resolves the owner/name repository with precedence:
// explicit argument > environment > git remote.
func ResolveRepo(ctx context.Context, cliRepo string) (string, error) {
	if cliRepo != "" {
		return cliRepo, nil
	}
	for _, env := range repoEnvVars {
		if value := os.Getenv(env); value != "" {
			return value, nil
		}
	}
	if detected := detectGitRepo(ctx); detected != "" {
		return detected, nil
	}
	return "", ErrNoRepo
}

// detectGitRepo parses owner/name from the origin remote URL of the
// enclosing git repository. Returns "" when not in a repo, when git is
// missing, or when the remote is not a GitHub URL.
func detectGitRepo(ctx context.Context) string {
	if err := exec.CommandContext(ctx, "git", "rev-parse", "--is-inside-work-tree").Run(); err != nil {
		return ""
	}

	cmd := exec.CommandContext(ctx, "git", "remote", "get-url", "origin")
	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	if err := cmd.Run(); err != nil {
		return ""
	}

	return ParseRemoteURL(strings.TrimSpace(stdout.String()))
}

// ParseRemoteURL extracts "owner/name" from an SSH or HTTPS GitHub remote
// URL, or returns "" when the URL does not point at GitHub.
func ParseRemoteURL(url string) string {
	match := remotePattern.FindStringSubmatch(url)
	if match == nil {
		return ""
	}
	return match[1] + "/" + match[2]
}

// ParseRunURL extracts the run id from a workflow run URL, or returns ""
// when the URL has no run component.
func ParseRunURL(url string) string {
	match := runURLPattern.FindStringSubmatch(url)
	if match == nil {
		return ""
	}
	return match[1]
}

// DeriveRunID resolves a run id and its URL from an explicit id, a run
// URL, or the latest successful run of the given workflow (default
// "Test"), in that order.
func (c *Client) DeriveRunID(ctx context.Context, runID, runURL, workflow string) (string, string, error) {
	if runID != "" {
		return runID, c.runURL(runID), nil
	}
	if runURL != "" {
		id := ParseRunURL(runURL)
		if id == "" {
			return "", "", fmt.Errorf("could not parse run id from %q", runURL)
		}
		return id, strings.TrimRight(runURL, "/"), nil
	}

	target := workflow
	if target == "" {
		target = "Test"
	}
	runs, err := c.ListRuns(ctx, target, 1)
	if err != nil {
		return "", "", err
	}
	if len(runs) == 0 {
		return "", "", fmt.Errorf("no successful %q run found", target)
	}
	id := fmt.Sprintf("%d", runs[0].ID)
	logging.Info("derived latest run", "workflow", target, "run", id)
	return id, c.runURL(id), nil
}

func (c *Client) runURL(runID string) string {
	return fmt.Sprintf("https://github.com/%s/actions/runs/%s", c.repo, runID)
}

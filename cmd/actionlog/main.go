// Package main provides the actionlog CLI for inspecting GitHub Actions
// run logs.
package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"actionlog/internal/config"
	"actionlog/internal/format"
	"actionlog/internal/gh"
	"actionlog/internal/logging"
	"actionlog/internal/model"
	// Imported to trigger init() registration; import order is parser
	// detection priority.
	_ "actionlog/internal/pytest"
	"actionlog/internal/store"
	"actionlog/internal/tui"
	"actionlog/internal/view"
)

var version = "dev"

var (
	repoFlag     string
	workflowFlag string
	runIDFlag    string
	runURLFlag   string
	jobIDFlag    int64
	latestFlag   bool
)

var rootCmd = &cobra.Command{
	Use:     "actionlog [owner/repo]",
	Short:   "Interactive viewer for GitHub Actions run logs",
	Long: "actionlog browses workflows, runs, and jobs of a GitHub repository\n" +
		"and extracts structured sections (slowest durations, warnings,\n" +
		"coverage) from raw job logs.",
	Version: version,
	Args:    cobra.MaximumNArgs(1),
	RunE:    runInteractive,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&repoFlag, "repo", "",
		"repository owner/name (env: ACTIONLOG_REPO, default: current git remote)")

	flags := rootCmd.Flags()
	flags.StringVar(&workflowFlag, "workflow", "", "workflow name to select (skips the workflow picker)")
	flags.StringVar(&runIDFlag, "run-id", "", "workflow run ID to inspect")
	flags.StringVar(&runURLFlag, "run-url", "", "workflow run URL to inspect")
	flags.Int64Var(&jobIDFlag, "job-id", 0, "job ID to pre-select")
	flags.BoolVar(&latestFlag, "latest", false, "auto-select the latest successful run (requires --workflow)")

	rootCmd.AddCommand(newWorkflowsCmd())
	rootCmd.AddCommand(newRunsCmd())
	rootCmd.AddCommand(newJobsCmd())
	rootCmd.AddCommand(newLogCmd())
}

func main() {
	_ = logging.Init()
	err := rootCmd.Execute()
	logging.Close() //nolint:errcheck
	if err != nil {
		fmt.Fprintf(os.Stderr, "actionlog: %v\n", err)
		os.Exit(1)
	}
}

// repoArgument merges the positional repo argument with --repo and the
// config default; the positional form wins.
func repoArgument(args []string, flagValue, configValue string) string {
	if len(args) > 0 && args[0] != "" {
		return args[0]
	}
	if flagValue != "" {
		return flagValue
	}
	return configValue
}

func newClient(cmd *cobra.Command, args []string, cfg config.Config) (*gh.Client, error) {
	repo, err := gh.ResolveRepo(cmd.Context(), repoArgument(args, repoFlag, cfg.Repo))
	if err != nil {
		return nil, err
	}
	return gh.NewClient(repo), nil
}

func runInteractive(cmd *cobra.Command, args []string) error {
	if latestFlag && workflowFlag == "" {
		return errors.New("--latest requires --workflow to be specified")
	}
	if runIDFlag != "" && runURLFlag != "" {
		return errors.New("--run-id and --run-url cannot be used together")
	}

	cfg, err := config.Load()
	if err != nil {
		logging.Warn("config load failed", "error", err)
		cfg = config.Default()
	}

	client, err := newClient(cmd, args, cfg)
	if err != nil {
		return err
	}

	workflow := workflowFlag
	if workflow == "" && runIDFlag == "" && runURLFlag == "" {
		workflow = cfg.Workflow
	}

	app := tui.New(tui.Options{
		Client:   client,
		Store:    store.New(time.Duration(cfg.CacheTTLMinutes) * time.Minute),
		Workflow: workflow,
		RunID:    runIDFlag,
		RunURL:   runURLFlag,
		JobID:    jobIDFlag,
		Latest:   latestFlag,
		RunLimit: cfg.Limit,
	})

	program := tea.NewProgram(app, tea.WithAltScreen())
	_, err = program.Run()
	return err
}

func newWorkflowsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "workflows",
		Short: "List workflow names in the repository",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _ := config.Load()
			client, err := newClient(cmd, nil, cfg)
			if err != nil {
				return err
			}
			workflows, err := client.ListWorkflows(cmd.Context())
			if err != nil {
				return err
			}
			for _, name := range workflows {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
	return cmd
}

func newRunsCmd() *cobra.Command {
	var (
		workflow   string
		limit      int
		formatFlag string
		noHeader   bool
	)

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List recent successful runs of a workflow",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _ := config.Load()
			client, err := newClient(cmd, nil, cfg)
			if err != nil {
				return err
			}

			if workflow == "" {
				workflow = cfg.Workflow
			}
			if workflow == "" {
				return errors.New("--workflow is required (or set workflow in the config file)")
			}
			if limit <= 0 {
				limit = cfg.Limit
			}

			runs, err := client.ListRuns(cmd.Context(), workflow, limit)
			if err != nil {
				return err
			}
			return format.WriteRuns(cmd.OutOrStdout(), runs, !noHeader, strings.ToLower(formatFlag))
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&workflow, "workflow", "", "workflow name")
	flags.IntVar(&limit, "limit", 0, "number of runs to list (default from config, 10)")
	flags.StringVar(&formatFlag, "format", "table", "output format: table, plain, json, or jsonl")
	flags.BoolVar(&noHeader, "no-header", false, "omit header row for plain output")

	return cmd
}

func newJobsCmd() *cobra.Command {
	var (
		formatFlag string
		noHeader   bool
	)

	cmd := &cobra.Command{
		Use:   "jobs <run-id>",
		Short: "List a run's jobs sorted by duration",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _ := config.Load()
			client, err := newClient(cmd, nil, cfg)
			if err != nil {
				return err
			}

			jobs, err := client.ListJobs(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return format.WriteJobs(cmd.OutOrStdout(), jobs, !noHeader, strings.ToLower(formatFlag))
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&formatFlag, "format", "table", "output format: table, plain, json, or jsonl")
	flags.BoolVar(&noHeader, "no-header", false, "omit header row for plain output")

	return cmd
}

func newLogCmd() *cobra.Command {
	var (
		jobID        int64
		raw          bool
		section      string
		wrap         int
		forceColor   bool
		forceNoColor bool
	)

	cmd := &cobra.Command{
		Use:   "log <run-id>",
		Short: "Show the parsed sections of a job's log",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if jobID == 0 {
				return errors.New("--job-id is required")
			}
			if forceColor && forceNoColor {
				return errors.New("--color and --no-color cannot be used together")
			}

			cfg, _ := config.Load()
			client, err := newClient(cmd, nil, cfg)
			if err != nil {
				return err
			}

			rawLog, err := client.FetchJobLog(cmd.Context(), args[0], jobID)
			if err != nil {
				return err
			}

			lines := strings.Split(rawLog, "\n")
			parser := model.DetectParser(lines)
			result := parser.Parse(lines)

			out := cmd.OutOrStdout()
			outFile, _ := out.(*os.File)
			return view.Render(parser, result, rawLog, view.Options{
				Raw:          raw,
				Section:      section,
				Wrap:         wrap,
				ForceColor:   forceColor,
				ForceNoColor: forceNoColor,
				Out:          out,
				OutFile:      outFile,
			})
		},
	}

	flags := cmd.Flags()
	flags.Int64Var(&jobID, "job-id", 0, "job ID whose log to show")
	flags.BoolVar(&raw, "raw", false, "show the prefix-stripped raw log instead of sections")
	flags.StringVar(&section, "section", "", "show a single section by name")
	flags.IntVar(&wrap, "wrap", 0, "wrap section content at the given column width")
	flags.BoolVar(&forceColor, "color", false, "force-enable ANSI colors even when stdout is not a TTY")
	flags.BoolVar(&forceNoColor, "no-color", false, "disable ANSI colors regardless of terminal detection")

	return cmd
}

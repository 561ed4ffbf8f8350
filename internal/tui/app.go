// Package tui implements the interactive shell: a workflow picker, a run
// picker, and a job view with one tab per extracted log section.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"actionlog/internal/gh"
	"actionlog/internal/logging"
	"actionlog/internal/model"
	"actionlog/internal/parse"
	"actionlog/internal/store"
)

const fetchTimeout = 60 * time.Second

// rawTabName keys the synthetic tab showing the prefix-stripped raw log.
const rawTabName = "raw"

// writeClipboard is swapped out in tests.
var writeClipboard = clipboard.WriteAll

type screen int

const (
	screenWorkflows screen = iota
	screenRuns
	screenJobs
)

// Options configures the initial navigation state of the app.
type Options struct {
	Client   *gh.Client
	Store    *store.Store
	Workflow string
	RunID    string
	RunURL   string
	JobID    int64
	Latest   bool
	RunLimit int
}

// App is the bubbletea model for the whole interactive session.
type App struct {
	client *gh.Client
	store  *store.Store
	opts   Options

	screen  screen
	loading bool
	status  string
	spin    spinner.Model
	vp      viewport.Model
	width   int
	height  int
	ready   bool

	workflows []string
	wfCursor  int
	workflow  string

	runs      []gh.Run
	runCursor int
	runID     string
	runURL    string

	jobs      []gh.Job
	jobCursor int
	focusLog  bool
	snap      *store.Snapshot
	snapJobID int64
	tab       int
}

// New creates the app model. The client and store must be non-nil.
func New(opts Options) *App {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return &App{
		client:   opts.Client,
		store:    opts.Store,
		opts:     opts,
		workflow: opts.Workflow,
		spin:     sp,
		vp:       viewport.New(80, 20),
	}
}

type workflowsLoadedMsg []string

type runsLoadedMsg struct {
	workflow string
	runs     []gh.Run
	auto     bool // jump straight into the newest run
}

type jobsLoadedMsg struct {
	runID  string
	runURL string
	jobs   []gh.Job
}

type snapshotLoadedMsg struct {
	jobID    int64
	snap     store.Snapshot
	fetchErr error
}

type errorMsg struct{ err error }

// Init starts the spinner and the initial fetch dictated by Options.
func (a *App) Init() tea.Cmd {
	var initial tea.Cmd
	switch {
	case a.opts.RunID != "" || a.opts.RunURL != "":
		a.loading = true
		initial = a.deriveRunCmd()
	case a.opts.Workflow != "" && a.opts.Latest:
		a.loading = true
		initial = a.loadRunsCmd(a.opts.Workflow, 1, true)
	case a.opts.Workflow != "":
		a.loading = true
		a.screen = screenRuns
		initial = a.loadRunsCmd(a.opts.Workflow, a.opts.RunLimit, false)
	default:
		a.loading = true
		initial = a.loadWorkflowsCmd()
	}
	return tea.Batch(a.spin.Tick, initial)
}

// Update routes messages to the navigation state machine.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.ready = true
		a.resizeViewport()
		return a, nil

	case spinner.TickMsg:
		if !a.loading {
			return a, nil
		}
		var cmd tea.Cmd
		a.spin, cmd = a.spin.Update(msg)
		return a, cmd

	case workflowsLoadedMsg:
		a.loading = false
		a.status = ""
		a.workflows = msg
		a.wfCursor = 0
		a.screen = screenWorkflows
		return a, nil

	case runsLoadedMsg:
		a.loading = false
		a.status = ""
		a.workflow = msg.workflow
		a.runs = msg.runs
		a.runCursor = 0
		if len(msg.runs) == 0 {
			a.screen = screenRuns
			a.status = fmt.Sprintf("no successful runs found for workflow %q", msg.workflow)
			return a, nil
		}
		if msg.auto {
			run := msg.runs[0]
			a.loading = true
			return a, a.loadJobsCmd(fmt.Sprintf("%d", run.ID), run.URL)
		}
		a.screen = screenRuns
		return a, nil

	case jobsLoadedMsg:
		a.loading = false
		a.status = ""
		a.runID = msg.runID
		a.runURL = msg.runURL
		a.jobs = msg.jobs
		a.jobCursor = 0
		a.focusLog = false
		a.snap = nil
		a.screen = screenJobs
		if a.opts.JobID != 0 {
			for i, job := range a.jobs {
				if job.ID == a.opts.JobID {
					a.jobCursor = i
					a.opts.JobID = 0
					a.loading = true
					return a, a.loadSnapshotCmd(job, false)
				}
			}
			a.opts.JobID = 0
		}
		return a, nil

	case snapshotLoadedMsg:
		a.loading = false
		a.status = ""
		if msg.fetchErr != nil {
			a.status = fmt.Sprintf("log fetch failed: %v", msg.fetchErr)
		}
		snap := msg.snap
		a.snap = &snap
		a.snapJobID = msg.jobID
		a.tab = 0
		a.focusLog = true
		a.setTabContent()
		return a, nil

	case errorMsg:
		a.loading = false
		a.status = msg.err.Error()
		logging.Error("tui fetch failed", "error", msg.err)
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)
	}

	return a, nil
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return a, tea.Quit
	case "esc":
		return a.goBack()
	}

	if a.loading {
		return a, nil
	}

	switch a.screen {
	case screenWorkflows:
		return a.handleWorkflowsKey(msg)
	case screenRuns:
		return a.handleRunsKey(msg)
	case screenJobs:
		return a.handleJobsKey(msg)
	}
	return a, nil
}

func (a *App) handleWorkflowsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if a.wfCursor > 0 {
			a.wfCursor--
		}
	case "down", "j":
		if a.wfCursor < len(a.workflows)-1 {
			a.wfCursor++
		}
	case "enter":
		if len(a.workflows) == 0 {
			return a, nil
		}
		a.loading = true
		return a, a.loadRunsCmd(a.workflows[a.wfCursor], a.opts.RunLimit, false)
	}
	return a, nil
}

func (a *App) handleRunsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if a.runCursor > 0 {
			a.runCursor--
		}
	case "down", "j":
		if a.runCursor < len(a.runs)-1 {
			a.runCursor++
		}
	case "enter":
		if len(a.runs) == 0 {
			return a, nil
		}
		run := a.runs[a.runCursor]
		a.loading = true
		return a, a.loadJobsCmd(fmt.Sprintf("%d", run.ID), run.URL)
	}
	return a, nil
}

func (a *App) handleJobsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.focusLog && a.snap != nil {
		switch msg.String() {
		case "tab", "right", "l":
			a.tab = (a.tab + 1) % len(a.tabNames())
			a.setTabContent()
			return a, nil
		case "shift+tab", "left", "h":
			a.tab = (a.tab + len(a.tabNames()) - 1) % len(a.tabNames())
			a.setTabContent()
			return a, nil
		case "up", "k":
			a.vp.ScrollUp(1)
			return a, nil
		case "down", "j":
			a.vp.ScrollDown(1)
			return a, nil
		case "pgup", "b":
			a.vp.ScrollUp(a.vp.Height)
			return a, nil
		case "pgdown", "f", " ":
			a.vp.ScrollDown(a.vp.Height)
			return a, nil
		case "g", "home":
			a.vp.GotoTop()
			return a, nil
		case "G", "end":
			a.vp.GotoBottom()
			return a, nil
		case "c":
			title := a.tabTitle(a.tabNames()[a.tab])
			if err := writeClipboard(a.tabContent()); err != nil {
				a.status = fmt.Sprintf("copy failed: %v", err)
			} else {
				a.status = fmt.Sprintf("copied %s to clipboard", title)
			}
			return a, nil
		case "r":
			job := a.jobs[a.jobCursor]
			a.store.Invalidate(job.ID)
			a.loading = true
			return a, a.loadSnapshotCmd(job, true)
		}
		return a, nil
	}

	switch msg.String() {
	case "up", "k":
		if a.jobCursor > 0 {
			a.jobCursor--
		}
	case "down", "j":
		if a.jobCursor < len(a.jobs)-1 {
			a.jobCursor++
		}
	case "enter":
		if len(a.jobs) == 0 {
			return a, nil
		}
		job := a.jobs[a.jobCursor]
		if a.snap != nil && a.snapJobID == job.ID {
			a.focusLog = true
			return a, nil
		}
		a.loading = true
		return a, a.loadSnapshotCmd(job, false)
	}
	return a, nil
}

func (a *App) goBack() (tea.Model, tea.Cmd) {
	switch a.screen {
	case screenJobs:
		if a.focusLog {
			a.focusLog = false
			return a, nil
		}
		if a.workflow != "" {
			a.loading = true
			return a, a.loadRunsCmd(a.workflow, a.opts.RunLimit, false)
		}
		return a, tea.Quit
	case screenRuns:
		if len(a.workflows) > 0 {
			a.screen = screenWorkflows
			return a, nil
		}
		a.loading = true
		return a, a.loadWorkflowsCmd()
	}
	return a, tea.Quit
}

func (a *App) loadWorkflowsCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()

		workflows, err := a.client.ListWorkflows(ctx)
		if err != nil {
			return errorMsg{err}
		}
		if len(workflows) == 0 {
			return errorMsg{fmt.Errorf("no workflows found for %s", a.client.Repo())}
		}
		return workflowsLoadedMsg(workflows)
	}
}

func (a *App) loadRunsCmd(workflow string, limit int, auto bool) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()

		runs, err := a.client.ListRuns(ctx, workflow, limit)
		if err != nil {
			return errorMsg{err}
		}
		return runsLoadedMsg{workflow: workflow, runs: runs, auto: auto}
	}
}

func (a *App) deriveRunCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()

		runID, runURL, err := a.client.DeriveRunID(ctx, a.opts.RunID, a.opts.RunURL, a.opts.Workflow)
		if err != nil {
			return errorMsg{err}
		}
		jobs, err := a.client.ListJobs(ctx, runID)
		if err != nil {
			return errorMsg{err}
		}
		return jobsLoadedMsg{runID: runID, runURL: runURL, jobs: jobs}
	}
}

func (a *App) loadJobsCmd(runID, runURL string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()

		jobs, err := a.client.ListJobs(ctx, runID)
		if err != nil {
			return errorMsg{err}
		}
		return jobsLoadedMsg{runID: runID, runURL: runURL, jobs: jobs}
	}
}

// loadSnapshotCmd returns the cached snapshot for a job, or fetches and
// parses its log. A fetch failure degrades to an empty log so the job view
// still opens, with the failure shown in the status line.
func (a *App) loadSnapshotCmd(job gh.Job, bypassCache bool) tea.Cmd {
	runID := a.runID
	return func() tea.Msg {
		if !bypassCache {
			if snap, ok := a.store.Get(job.ID); ok {
				return snapshotLoadedMsg{jobID: job.ID, snap: snap}
			}
		}

		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()

		rawLog, fetchErr := a.client.FetchJobLog(ctx, runID, job.ID)
		if fetchErr != nil {
			logging.Error("fetch job log failed", "job", job.ID, "error", fetchErr)
			rawLog = ""
		}

		snap := BuildSnapshot(rawLog)
		a.store.Put(job.ID, snap)
		return snapshotLoadedMsg{jobID: job.ID, snap: snap, fetchErr: fetchErr}
	}
}

// BuildSnapshot runs the parsing pipeline once over a raw log: split into
// lines, auto-detect a parser, parse, and capture the parser identity.
func BuildSnapshot(rawLog string) store.Snapshot {
	lines := strings.Split(rawLog, "\n")
	parser := model.DetectParser(lines)
	return store.Snapshot{
		RawLog:       rawLog,
		Result:       parser.Parse(lines),
		ParserName:   parser.Name(),
		SectionNames: parser.SectionNames(),
	}
}

// tabNames returns the section names of the active snapshot plus the
// synthetic raw-log tab, which is always last and always present.
func (a *App) tabNames() []string {
	if a.snap == nil {
		return []string{rawTabName}
	}
	return append(append([]string{}, a.snap.SectionNames...), rawTabName)
}

func (a *App) tabTitle(name string) string {
	if name == rawTabName {
		return "Raw log"
	}
	if section, ok := a.snap.Result[name]; ok {
		return section.DisplayName
	}
	return model.TitleCase(name)
}

// tabContent returns the text shown for the active tab: section content,
// the section's absence reason, or the prefix-stripped raw log.
func (a *App) tabContent() string {
	names := a.tabNames()
	name := names[a.tab]
	if name == rawTabName {
		if a.snap == nil {
			return ""
		}
		return strings.Join(parse.StripLogPrefixAll(strings.Split(a.snap.RawLog, "\n")), "\n")
	}
	section := a.snap.Result[name]
	if !section.Found() {
		return section.Err
	}
	return section.Content
}

func (a *App) setTabContent() {
	a.resizeViewport()
	a.vp.SetContent(a.tabContent())
	a.vp.GotoTop()
}

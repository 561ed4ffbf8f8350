package tui

import (
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"actionlog/internal/gh"
	_ "actionlog/internal/pytest"
	"actionlog/internal/store"
)

func newTestApp() *App {
	return New(Options{
		Client: gh.NewClient("octo/hello"),
		Store:  store.New(time.Minute),
	})
}

func keyRune(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestBuildSnapshotPytest(t *testing.T) {
	rawLog := "test\t2024-05-01T12:00:00Z ==== slowest 1 durations ====\n" +
		"test\t2024-05-01T12:00:01Z 1.23s call tests/test_app.py::test_a\n" +
		"test\t2024-05-01T12:00:02Z ============================="

	snap := BuildSnapshot(rawLog)
	assert.Equal(t, "pytest", snap.ParserName)
	assert.Equal(t, []string{"slow", "warnings", "coverage"}, snap.SectionNames)
	assert.Equal(t, rawLog, snap.RawLog)
	require.Contains(t, snap.Result, "slow")
	assert.True(t, snap.Result["slow"].Found())
	assert.Contains(t, snap.Result["slow"].Content, "call tests/test_app.py::test_a")
}

func TestBuildSnapshotFallback(t *testing.T) {
	snap := BuildSnapshot("make: nothing to be done\n")
	assert.Equal(t, "default", snap.ParserName)
	assert.Empty(t, snap.SectionNames)
	assert.Empty(t, snap.Result)
}

func TestWorkflowsLoaded(t *testing.T) {
	a := newTestApp()
	a.loading = true

	m, _ := a.Update(workflowsLoadedMsg{"Test", "Release"})
	a = m.(*App)

	assert.False(t, a.loading)
	assert.Equal(t, screenWorkflows, a.screen)
	assert.Equal(t, []string{"Test", "Release"}, a.workflows)
	assert.Equal(t, 0, a.wfCursor)
}

func TestWorkflowCursorBounds(t *testing.T) {
	a := newTestApp()
	m, _ := a.Update(workflowsLoadedMsg{"Test", "Release"})
	a = m.(*App)

	m, _ = a.Update(keyRune('k'))
	a = m.(*App)
	assert.Equal(t, 0, a.wfCursor, "cursor should not move above the first row")

	m, _ = a.Update(keyRune('j'))
	a = m.(*App)
	assert.Equal(t, 1, a.wfCursor)

	m, _ = a.Update(keyRune('j'))
	a = m.(*App)
	assert.Equal(t, 1, a.wfCursor, "cursor should not move past the last row")
}

func TestRunsLoaded(t *testing.T) {
	a := newTestApp()
	a.loading = true

	runs := []gh.Run{{ID: 100, Number: 7}, {ID: 99, Number: 6}}
	m, cmd := a.Update(runsLoadedMsg{workflow: "Test", runs: runs})
	a = m.(*App)

	assert.Nil(t, cmd)
	assert.Equal(t, screenRuns, a.screen)
	assert.Equal(t, "Test", a.workflow)
	assert.Len(t, a.runs, 2)
}

func TestRunsLoadedEmpty(t *testing.T) {
	a := newTestApp()
	a.loading = true

	m, cmd := a.Update(runsLoadedMsg{workflow: "Test"})
	a = m.(*App)

	assert.Nil(t, cmd)
	assert.Equal(t, screenRuns, a.screen)
	assert.Contains(t, a.status, "no successful runs")
}

func TestRunsLoadedAutoSelectsNewest(t *testing.T) {
	a := newTestApp()
	a.loading = true

	runs := []gh.Run{{ID: 100}, {ID: 99}}
	m, cmd := a.Update(runsLoadedMsg{workflow: "Test", runs: runs, auto: true})
	a = m.(*App)

	assert.True(t, a.loading, "auto mode should keep loading toward the jobs screen")
	assert.NotNil(t, cmd)
}

func TestJobsLoadedPreselectsJobID(t *testing.T) {
	a := newTestApp()
	a.opts.JobID = 222

	// Seed the cache so the returned command resolves without gh.
	a.store.Put(222, BuildSnapshot("plain line"))

	jobs := []gh.Job{{ID: 111, Name: "lint"}, {ID: 222, Name: "unit tests"}}
	m, cmd := a.Update(jobsLoadedMsg{runID: "100", jobs: jobs})
	a = m.(*App)

	assert.Equal(t, screenJobs, a.screen)
	assert.Equal(t, 1, a.jobCursor)
	assert.Zero(t, a.opts.JobID, "the pre-selection applies only once")
	require.NotNil(t, cmd)

	msg, ok := cmd().(snapshotLoadedMsg)
	require.True(t, ok)
	assert.Equal(t, int64(222), msg.jobID)
}

func TestSnapshotLoaded(t *testing.T) {
	a := newTestApp()
	a.jobs = []gh.Job{{ID: 222}}
	a.screen = screenJobs
	a.loading = true

	snap := BuildSnapshot("==== warnings summary ====\nsome warning\n==== short test summary info ====")
	m, _ := a.Update(snapshotLoadedMsg{jobID: 222, snap: snap})
	a = m.(*App)

	assert.False(t, a.loading)
	assert.True(t, a.focusLog)
	require.NotNil(t, a.snap)
	assert.Equal(t, int64(222), a.snapJobID)
	assert.Equal(t, 0, a.tab)
	assert.Empty(t, a.status)
}

func TestSnapshotLoadedWithFetchError(t *testing.T) {
	a := newTestApp()
	a.screen = screenJobs

	m, _ := a.Update(snapshotLoadedMsg{
		jobID:    222,
		snap:     BuildSnapshot(""),
		fetchErr: errors.New("gh run failed: boom"),
	})
	a = m.(*App)

	assert.True(t, a.focusLog, "the job view still opens on a failed fetch")
	assert.Contains(t, a.status, "log fetch failed")
}

func TestErrorMsgSetsStatus(t *testing.T) {
	a := newTestApp()
	a.loading = true

	m, _ := a.Update(errorMsg{errors.New("no workflows found")})
	a = m.(*App)

	assert.False(t, a.loading)
	assert.Equal(t, "no workflows found", a.status)
}

func TestTabCycling(t *testing.T) {
	a := newTestApp()
	a.jobs = []gh.Job{{ID: 222}}
	a.screen = screenJobs

	snap := BuildSnapshot("==== tests coverage ====\nTOTAL 98%\n=================")
	m, _ := a.Update(snapshotLoadedMsg{jobID: 222, snap: snap})
	a = m.(*App)

	require.Equal(t, []string{"slow", "warnings", "coverage", "raw"}, a.tabNames())

	m, _ = a.Update(tea.KeyMsg{Type: tea.KeyTab})
	a = m.(*App)
	assert.Equal(t, 1, a.tab)

	m, _ = a.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	a = m.(*App)
	assert.Equal(t, 0, a.tab)

	// Cycling left from the first tab wraps to the raw tab.
	m, _ = a.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	a = m.(*App)
	assert.Equal(t, 3, a.tab)
}

func TestTabContent(t *testing.T) {
	a := newTestApp()
	rawLog := "job\t2024-05-01T12:00:00Z ==== tests coverage ====\n" +
		"job\t2024-05-01T12:00:01Z TOTAL 98%\n" +
		"job\t2024-05-01T12:00:02Z ================="
	snap := BuildSnapshot(rawLog)
	a.snap = &snap

	// Coverage tab carries the extracted block.
	a.tab = 2
	assert.Contains(t, a.tabContent(), "TOTAL 98%")

	// Missing sections surface their absence reason.
	a.tab = 0
	assert.Equal(t, "No slowest block detected in the log.", a.tabContent())

	// The raw tab shows the log with CI prefixes stripped.
	a.tab = 3
	assert.NotContains(t, a.tabContent(), "2024-05-01")
	assert.Contains(t, a.tabContent(), "==== tests coverage ====")
}

func TestTabTitles(t *testing.T) {
	a := newTestApp()
	snap := BuildSnapshot("==== warnings summary ====")
	a.snap = &snap

	assert.Equal(t, "Slowest durations", a.tabTitle("slow"))
	assert.Equal(t, "Raw log", a.tabTitle(rawTabName))
}

func TestCopyTabContent(t *testing.T) {
	a := newTestApp()
	a.jobs = []gh.Job{{ID: 222}}
	a.screen = screenJobs

	snap := BuildSnapshot("job\t2024-05-01T12:00:00Z ==== tests coverage ====\n" +
		"job\t2024-05-01T12:00:01Z TOTAL 98%\n" +
		"job\t2024-05-01T12:00:02Z =================")
	m, _ := a.Update(snapshotLoadedMsg{jobID: 222, snap: snap})
	a = m.(*App)

	var copied string
	orig := writeClipboard
	writeClipboard = func(text string) error {
		copied = text
		return nil
	}
	t.Cleanup(func() { writeClipboard = orig })

	a.tab = 2
	m, _ = a.Update(keyRune('c'))
	a = m.(*App)

	assert.Contains(t, copied, "TOTAL 98%")
	assert.Equal(t, "copied Test coverage to clipboard", a.status)

	// The raw tab copies with CI prefixes stripped.
	a.tab = 3
	m, _ = a.Update(keyRune('c'))
	a = m.(*App)

	assert.NotContains(t, copied, "2024-05-01")
	assert.Contains(t, copied, "==== tests coverage ====")
	assert.Equal(t, "copied Raw log to clipboard", a.status)
}

func TestCopyTabContentFailure(t *testing.T) {
	a := newTestApp()
	a.jobs = []gh.Job{{ID: 222}}
	a.screen = screenJobs

	m, _ := a.Update(snapshotLoadedMsg{jobID: 222, snap: BuildSnapshot("plain")})
	a = m.(*App)

	orig := writeClipboard
	writeClipboard = func(string) error { return errors.New("no clipboard available") }
	t.Cleanup(func() { writeClipboard = orig })

	m, _ = a.Update(keyRune('c'))
	a = m.(*App)

	assert.Contains(t, a.status, "copy failed")
}

func TestEscLeavesLogFocus(t *testing.T) {
	a := newTestApp()
	a.screen = screenJobs
	a.focusLog = true
	snap := BuildSnapshot("")
	a.snap = &snap

	m, cmd := a.Update(tea.KeyMsg{Type: tea.KeyEsc})
	a = m.(*App)

	assert.Nil(t, cmd)
	assert.False(t, a.focusLog)
	assert.Equal(t, screenJobs, a.screen)
}

func TestEscFromRunsReturnsToWorkflows(t *testing.T) {
	a := newTestApp()
	a.workflows = []string{"Test"}
	a.screen = screenRuns

	m, cmd := a.Update(tea.KeyMsg{Type: tea.KeyEsc})
	a = m.(*App)

	assert.Nil(t, cmd)
	assert.Equal(t, screenWorkflows, a.screen)
}

func TestQuitKey(t *testing.T) {
	a := newTestApp()

	_, cmd := a.Update(keyRune('q'))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestEnterOnCachedJobRefocusesWithoutReload(t *testing.T) {
	a := newTestApp()
	a.screen = screenJobs
	a.jobs = []gh.Job{{ID: 222}}
	snap := BuildSnapshot("plain")
	a.snap = &snap
	a.snapJobID = 222
	a.focusLog = false

	m, cmd := a.Update(tea.KeyMsg{Type: tea.KeyEnter})
	a = m.(*App)

	assert.Nil(t, cmd)
	assert.True(t, a.focusLog)
}

package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"taskman/internal/config"
	"taskman/internal/export"
	"taskman/internal/logutil"
	"taskman/internal/process"
	"taskman/internal/schedule"
)

// Configuration constants
const (
	// StatusDisplayDuration is how long status messages are shown
	StatusDisplayDuration = 4 * time.Second

	// DefaultExportName is offered in the export prompt
	DefaultExportName = "processes.csv"

	// DefaultVisibleRows is used before the terminal reports its size
	DefaultVisibleRows = 20

	// ChromeHeight is the number of lines used by everything but the rows
	ChromeHeight = 11

	// MaxEventLog is how many reporter events are kept for the event log
	MaxEventLog = 50

	// EventLogLines is how many events the event log panel shows
	EventLogLines = 5
)

var errNoSnapshot = errors.New("provider returned no snapshot")

// uiMode selects which keys are live
type uiMode int

const (
	modeNormal uiMode = iota
	modeSearch
	modeConfirm
	modeExport
	modeNotice
)

// pendingAction is an operation waiting for y/n. Targets keep their names so
// a reused PID is not acted on.
type pendingAction struct {
	op      process.Op
	targets []process.Record
}

// notice is a modal message acknowledged with enter/esc
type notice struct {
	level    process.Level
	title    string
	body     string
	returnTo uiMode
}

// Options wires the model to its collaborators.
type Options struct {
	Provider      process.Provider
	Dispatcher    *process.Dispatcher
	Clipboard     export.Clipboard
	Events        *process.Subscription
	Hostname      string
	RefreshPeriod time.Duration
	AutoRefresh   bool
	SortKey       process.SortKey
	Descending    bool
	ExportDir     string

	// Reload blocks until the config file changes; nil disables reloading
	Reload func(context.Context) (config.Config, error)
}

// Model represents the TUI state
type Model struct {
	ctx        context.Context
	provider   process.Provider
	dispatcher *process.Dispatcher
	clipboard  export.Clipboard
	events     *process.Subscription
	reload     func(context.Context) (config.Config, error)
	log        *logutil.ComponentLogger

	hostname  string
	exportDir string

	cache    *process.Cache
	query    process.Query
	view     []process.Record // cache filtered by query
	cursor   int
	offset   int
	selected map[int32]string // PID -> name at selection time

	countdown *schedule.Countdown
	tick      schedule.Tick

	mode        uiMode
	search      textinput.Model
	exportInput textinput.Model
	exportRows  [][]string
	pending     *pendingAction
	notice      notice

	fetching      int
	loaded        bool
	lastError     error
	statusMessage string
	statusLevel   process.Level
	statusTime    time.Time
	eventLog      []process.Event
	showEvents    bool

	width  int
	height int
}

// NewModel creates a Model from opts
func NewModel(ctx context.Context, opts Options) Model {
	search := textinput.New()
	search.Prompt = "Search here: "
	search.Placeholder = "name, PID, or PID,PID,..."
	search.CharLimit = 256

	exportInput := textinput.New()
	exportInput.Prompt = "Export to: "
	exportInput.CharLimit = 4096

	cache := process.NewCache()
	cache.SetOrder(opts.SortKey, !opts.Descending)

	m := Model{
		ctx:         ctx,
		provider:    opts.Provider,
		dispatcher:  opts.Dispatcher,
		clipboard:   opts.Clipboard,
		events:      opts.Events,
		reload:      opts.Reload,
		log:         logutil.NewLogger("tui"),
		hostname:    opts.Hostname,
		exportDir:   opts.ExportDir,
		cache:       cache,
		selected:    make(map[int32]string),
		countdown:   schedule.New(opts.RefreshPeriod),
		search:      search,
		exportInput: exportInput,
		view:        []process.Record{},
	}
	if opts.AutoRefresh {
		m.tick = m.countdown.Enable()
	}
	return m
}

// Init starts the first fetch, the countdown when enabled, the event
// subscription, and the config watch
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.fetchCmd(), m.listenEvents(), m.reloadCmd()}
	if m.countdown.Enabled() {
		cmds = append(cmds, m.countdownCmd(m.tick))
	}
	return tea.Batch(cmds...)
}

// fetchCmd runs the provider off the update loop
func (m Model) fetchCmd() tea.Cmd {
	provider, ctx := m.provider, m.ctx
	return func() tea.Msg {
		snap, err := provider.Snapshot(ctx)
		return snapshotMsg{snap: snap, err: err}
	}
}

// startFetch issues a fetch and tracks it as in flight
func (m *Model) startFetch() tea.Cmd {
	m.fetching++
	return m.fetchCmd()
}

// countdownCmd schedules the next countdown step
func (m Model) countdownCmd(t schedule.Tick) tea.Cmd {
	return tea.Tick(schedule.Step, func(time.Time) tea.Msg {
		return countdownMsg{tick: t}
	})
}

// listenEvents waits for the next reporter event
func (m Model) listenEvents() tea.Cmd {
	if m.events == nil {
		return nil
	}
	ch := m.events.C()
	return func() tea.Msg {
		e, ok := <-ch
		if !ok {
			return nil
		}
		return eventMsg{event: e}
	}
}

// reloadCmd waits for the next config change
func (m Model) reloadCmd() tea.Cmd {
	if m.reload == nil {
		return nil
	}
	reload, ctx := m.reload, m.ctx
	return func() tea.Msg {
		cfg, err := reload(ctx)
		return configMsg{cfg: cfg, err: err}
	}
}

// applyConfig takes over the settings that can change while running
func (m *Model) applyConfig(cfg config.Config) {
	m.countdown.SetPeriod(cfg.RefreshInterval)
	m.exportDir = cfg.ResolvedExportDir()
	m.setStatus(process.LevelInfo, "Configuration reloaded")
	m.log.Info("config applied", "refresh", cfg.RefreshInterval, "export_dir", m.exportDir)
}

// setStatus shows a transient message in the status line
func (m *Model) setStatus(level process.Level, format string, args ...any) {
	m.statusMessage = fmt.Sprintf(format, args...)
	m.statusLevel = level
	m.statusTime = time.Now()
}

// showNotice opens a modal notice that returns to the current mode
func (m *Model) showNotice(level process.Level, title, body string) {
	m.notice = notice{level: level, title: title, body: body, returnTo: m.mode}
	m.mode = modeNotice
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.search.Width = max(10, msg.Width-20)
		m.exportInput.Width = max(10, msg.Width-20)
		m.clampCursor()
		return m, nil

	case snapshotMsg:
		if m.fetching > 0 {
			m.fetching--
		}
		err := msg.err
		if err == nil && msg.snap == nil {
			err = errNoSnapshot
		}
		if err != nil {
			m.lastError = err
			m.setStatus(process.LevelError, "Error fetching processes: %v", err)
			m.log.Error("snapshot failed", "error", err)
			return m, nil
		}
		if !m.cache.Replace(msg.snap) {
			m.log.Debug("dropping stale snapshot", "seq", msg.snap.Seq, "cached", m.cache.Seq())
			return m, nil
		}
		m.lastError = nil
		m.loaded = true
		m.pruneSelection()
		m.refreshView()
		m.revalidatePending()
		return m, nil

	case countdownMsg:
		fire, ok := m.countdown.Advance(msg.tick)
		if !ok {
			// Stale generation: the countdown was disabled or restarted.
			return m, nil
		}
		next := m.countdownCmd(msg.tick)
		if fire {
			fetch := m.startFetch()
			return m, tea.Batch(next, fetch)
		}
		return m, next

	case batchResultMsg:
		res := msg.result
		level := process.LevelInfo
		if len(res.Failed) > 0 {
			level = process.LevelError
		}
		m.setStatus(level, "%s", res.Summary())
		for _, pid := range res.Succeeded {
			delete(m.selected, pid)
		}
		if res.Op == process.OpKill && res.AnySucceeded() {
			m.clearQuery()
		}
		fetch := m.startFetch()
		return m, fetch

	case copyResultMsg:
		if msg.err != nil {
			m.setStatus(process.LevelError, "Copy failed: %v", msg.err)
			return m, nil
		}
		m.setStatus(process.LevelInfo, "Copied %s to clipboard", plural(msg.rows, "row", "rows"))
		return m, nil

	case exportResultMsg:
		if msg.err != nil {
			m.setStatus(process.LevelError, "Export failed: %v", msg.err)
			return m, nil
		}
		m.setStatus(process.LevelInfo, "Selected rows exported to '%s'.", msg.path)
		return m, nil

	case configMsg:
		if msg.err != nil {
			if !errors.Is(msg.err, context.Canceled) {
				m.log.Warn("config reload stopped", "error", msg.err)
			}
			return m, nil
		}
		m.applyConfig(msg.cfg)
		return m, m.reloadCmd()

	case eventMsg:
		m.eventLog = append(m.eventLog, msg.event)
		if len(m.eventLog) > MaxEventLog {
			m.eventLog = m.eventLog[len(m.eventLog)-MaxEventLog:]
		}
		return m, m.listenEvents()
	}

	// Forward everything else (cursor blink) to the focused input
	var cmd tea.Cmd
	switch m.mode {
	case modeSearch:
		m.search, cmd = m.search.Update(msg)
	case modeExport:
		m.exportInput, cmd = m.exportInput.Update(msg)
	}
	return m, cmd
}

// handleKey dispatches a key press by mode
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}
	switch m.mode {
	case modeNotice:
		if key.Matches(msg, keys.Dismiss) {
			m.mode = m.notice.returnTo
		}
		return m, nil
	case modeConfirm:
		return m.handleConfirm(msg)
	case modeSearch:
		return m.handleSearch(msg)
	case modeExport:
		return m.handleExport(msg)
	}
	return m.handleNormal(msg)
}

func (m Model) handleConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Confirm):
		p := m.pending
		m.pending = nil
		m.mode = modeNormal
		if p == nil || len(p.targets) == 0 {
			return m, nil
		}
		return m, m.dispatchCmd(p.op, pids(p.targets))
	case key.Matches(msg, keys.Cancel):
		m.pending = nil
		m.mode = modeNormal
		m.setStatus(process.LevelInfo, "Cancelled")
	}
	return m, nil
}

func (m Model) handleSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		// Clear search and exit search mode
		m.mode = modeNormal
		m.search.Blur()
		m.clearQuery()
		return m, nil
	case tea.KeyEnter:
		// Exit search mode but keep the filter
		m.mode = modeNormal
		m.search.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if m.search.Value() != m.query.String() {
		m.applyQuery(m.search.Value())
	}
	return m, cmd
}

func (m Model) handleExport(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.mode = modeNormal
		m.exportInput.Blur()
		m.exportRows = nil
		m.setStatus(process.LevelInfo, "Export canceled.")
		return m, nil
	case tea.KeyEnter:
		path, err := export.NormalizePath(m.exportInput.Value(), m.exportDir)
		if err != nil {
			m.setStatus(process.LevelWarn, "Export canceled or invalid file path: %v", err)
			return m, nil
		}
		rows := m.exportRows
		m.exportRows = nil
		m.mode = modeNormal
		m.exportInput.Blur()
		return m, exportCmd(path, rows)
	}

	var cmd tea.Cmd
	m.exportInput, cmd = m.exportInput.Update(msg)
	return m, cmd
}

func (m Model) handleNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, keys.Search):
		m.mode = modeSearch
		m.search.SetValue(m.query.String())
		m.search.CursorEnd()
		cmd := m.search.Focus()
		return m, cmd

	case key.Matches(msg, keys.Cancel):
		// Clear search filter if active (Esc when not searching)
		if !m.query.IsEmpty() {
			m.clearQuery()
		}

	case key.Matches(msg, keys.Up):
		m.moveCursor(-1)

	case key.Matches(msg, keys.Down):
		m.moveCursor(1)

	case key.Matches(msg, keys.ExtendUp):
		m.extendSelection(-1)

	case key.Matches(msg, keys.ExtendDown):
		m.extendSelection(1)

	case key.Matches(msg, keys.PageUp):
		m.moveCursor(-m.visibleRows())

	case key.Matches(msg, keys.PageDown):
		m.moveCursor(m.visibleRows())

	case key.Matches(msg, keys.Top):
		m.moveCursor(-len(m.view))

	case key.Matches(msg, keys.Bottom):
		m.moveCursor(len(m.view))

	case key.Matches(msg, keys.Select):
		m.toggleSelection()

	case key.Matches(msg, keys.SelectAll):
		m.selectAll()

	case key.Matches(msg, keys.DeselectAll):
		m.deselectAll()

	case key.Matches(msg, keys.Kill):
		return m.killTargets()

	case key.Matches(msg, keys.KillAll):
		return m.killAllSelected()

	case key.Matches(msg, keys.Terminate):
		return m.terminateTargets()

	case key.Matches(msg, keys.Copy):
		return m.copySelected()

	case key.Matches(msg, keys.Export):
		return m.exportSelected()

	case key.Matches(msg, keys.Refresh):
		m.setStatus(process.LevelInfo, "Refreshing...")
		fetch := m.startFetch()
		return m, fetch

	case key.Matches(msg, keys.AutoRefresh):
		if t, on := m.countdown.Toggle(); on {
			m.tick = t
			return m, m.countdownCmd(t)
		}

	case key.Matches(msg, keys.Events):
		m.showEvents = !m.showEvents

	default:
		for i, b := range keys.Sort {
			if key.Matches(msg, b) {
				m.cache.Sort(process.SortKeys[i])
				m.refreshView()
				break
			}
		}
	}

	return m, nil
}

// applyQuery parses and applies the search text. An invalid PID list opens a
// notice and leaves the previous filter in place.
func (m *Model) applyQuery(text string) {
	q, err := process.ParseQuery(text)
	if err != nil {
		m.showNotice(process.LevelError, "Invalid Input", "Please enter valid PIDs separated by commas.")
		m.log.Debug("rejected search query", "query", text, "error", err)
		return
	}
	m.query = q
	m.cursor = 0
	m.offset = 0
	m.refreshView()
}

// clearQuery removes the filter and empties the search box
func (m *Model) clearQuery() {
	m.search.SetValue("")
	m.query = process.Query{}
	m.refreshView()
}

// refreshView recomputes the visible rows and drops selections they hide
func (m *Model) refreshView() {
	m.view = m.cache.View(m.query)
	visible := make(map[int32]bool, len(m.view))
	for _, r := range m.view {
		visible[r.PID] = true
	}
	for pid := range m.selected {
		if !visible[pid] {
			delete(m.selected, pid)
		}
	}
	m.clampCursor()
}

// pruneSelection forgets selections whose PID disappeared or now belongs to
// a different program
func (m *Model) pruneSelection() {
	for pid, name := range m.selected {
		r, ok := m.cache.Lookup(pid)
		if !ok || r.Name != name {
			delete(m.selected, pid)
		}
	}
}

func (m *Model) clampCursor() {
	if m.cursor >= len(m.view) {
		m.cursor = max(0, len(m.view)-1)
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	m.scrollToCursor()
}

func (m *Model) moveCursor(delta int) {
	m.cursor += delta
	m.clampCursor()
}

func (m *Model) scrollToCursor() {
	rows := m.visibleRows()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+rows {
		m.offset = m.cursor - rows + 1
	}
	if maxOffset := max(0, len(m.view)-rows); m.offset > maxOffset {
		m.offset = maxOffset
	}
	if m.offset < 0 {
		m.offset = 0
	}
}

// visibleRows returns how many process rows fit on screen
func (m Model) visibleRows() int {
	if m.height == 0 {
		return DefaultVisibleRows
	}
	rows := m.height - ChromeHeight
	if m.showEvents {
		rows -= EventLogLines + 1
	}
	return max(1, rows)
}

// current returns the record under the cursor
func (m Model) current() (process.Record, bool) {
	if m.cursor < 0 || m.cursor >= len(m.view) {
		return process.Record{}, false
	}
	return m.view[m.cursor], true
}

func (m *Model) toggleSelection() {
	r, ok := m.current()
	if !ok {
		return
	}
	if _, sel := m.selected[r.PID]; sel {
		delete(m.selected, r.PID)
	} else {
		m.selected[r.PID] = r.Name
	}
}

// extendSelection selects the cursor row, moves, and selects the new row
func (m *Model) extendSelection(delta int) {
	if r, ok := m.current(); ok {
		m.selected[r.PID] = r.Name
	}
	m.moveCursor(delta)
	if r, ok := m.current(); ok {
		m.selected[r.PID] = r.Name
	}
}

func (m *Model) selectAll() {
	for _, r := range m.view {
		m.selected[r.PID] = r.Name
	}
}

func (m *Model) deselectAll() {
	clear(m.selected)
}

// selectedCount returns the number of selected rows
func (m Model) selectedCount() int {
	return len(m.selected)
}

// selectedRecords returns the selected rows in display order
func (m Model) selectedRecords() []process.Record {
	var result []process.Record
	for _, r := range m.view {
		if _, ok := m.selected[r.PID]; ok {
			result = append(result, r)
		}
	}
	return result
}

// targets returns the selected rows, or the cursor row when none are selected
func (m Model) targets() []process.Record {
	if sel := m.selectedRecords(); len(sel) > 0 {
		return sel
	}
	if r, ok := m.current(); ok {
		return []process.Record{r}
	}
	return nil
}

func pids(records []process.Record) []int32 {
	out := make([]int32, len(records))
	for i, r := range records {
		out[i] = r.PID
	}
	return out
}

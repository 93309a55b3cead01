package ui

import (
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"grepscope/internal/config"
	"grepscope/internal/domain"
	"grepscope/internal/eventbus"
	"grepscope/internal/highlight"
	"grepscope/internal/history"
	"grepscope/internal/session"
	"grepscope/internal/ui/views"
)

// focusZone identifies which part of the screen receives key input
type focusZone int

const (
	focusDirectory focusZone = iota
	focusQuery
	focusExtension
	focusResults
)

// Model represents the UI state
type Model struct {
	bus        eventbus.EventBus
	config     *config.Config
	configSvc  config.ConfigService
	controller *session.Controller
	recent     *history.RecentQueryCache

	width  int
	height int

	focus     focusZone
	directory textinput.Model
	query     textinput.Model
	extension textinput.Model

	caseSensitive bool
	useRegex      bool
	searchSubdirs bool

	spinner  spinner.Model
	progress progress.Model

	selected int
	offset   int

	recentEntries []domain.RecentQueryEntry

	styles   *views.Styles
	renderer *views.ResultRenderer
	helpR    *HelpRenderer
	pagerOps *PagerOps
	notice   string
}

// NewModel creates a new UI model
func NewModel(bus eventbus.EventBus, cfg *config.Config, configSvc config.ConfigService, controller *session.Controller, recent *history.RecentQueryCache) *Model {
	styles := views.NewStyles()

	directory := textinput.New()
	directory.Placeholder = "directory to search"
	directory.Prompt = ""
	directory.SetValue(cfg.DefaultDir)
	directory.Focus()

	query := textinput.New()
	query.Placeholder = "search query"
	query.Prompt = ""

	extension := textinput.New()
	extension.Placeholder = "extension (optional)"
	extension.Prompt = ""
	extension.CharLimit = 16

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return &Model{
		bus:           bus,
		config:        cfg,
		configSvc:     configSvc,
		controller:    controller,
		recent:        recent,
		focus:         focusDirectory,
		directory:     directory,
		query:         query,
		extension:     extension,
		searchSubdirs: cfg.Search.SearchSubdirs,
		spinner:       sp,
		progress:      progress.New(progress.WithDefaultGradient()),
		recentEntries: recent.Entries(),
		styles:        styles,
		renderer:      views.NewResultRenderer(styles),
		helpR:         NewHelpRenderer(),
		pagerOps:      NewPagerOps(),
	}
}

// SetProgram sets the program reference for terminal management
func (m *Model) SetProgram(p *tea.Program) {
	m.pagerOps.SetProgram(p)
}

// Init returns an initial command
func (m *Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.tick())
}

func (m *Model) tick() tea.Cmd {
	return tea.Tick(time.Millisecond*80, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = msg.Width - 8
		if m.progress.Width > 60 {
			m.progress.Width = 60
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tickMsg:
		return m, m.tick()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		if m.controller.State() == session.StateRunning || m.controller.State() == session.StateCancelling {
			return m, cmd
		}
		return m, nil

	case EventMsg:
		return m.handleEvent(msg.Event)

	case pagerDoneMsg:
		if msg.err != nil {
			m.notice = m.styles.StatusError.Render(fmt.Sprintf("Pager error: %v", msg.err))
		}
		return m, nil

	case helpPagerMsg:
		if msg.err != nil {
			m.notice = m.styles.StatusError.Render(fmt.Sprintf("Help error: %v", msg.err))
		}
		return m, nil
	}

	return m, m.updateInputs(msg)
}

// handleEvent processes domain events forwarded from the bus
func (m *Model) handleEvent(event eventbus.DomainEvent) (tea.Model, tea.Cmd) {
	switch e := event.(type) {
	case domain.HistoryUpdatedEvent:
		m.recentEntries = e.Entries

	case domain.SearchStartedEvent:
		m.selected = 0
		m.offset = 0
		m.notice = ""
		return m, m.spinner.Tick

	case domain.SearchCompletedEvent:
		m.focus = focusResults
		m.blurInputs()
		if e.Truncated {
			m.notice = m.styles.StatusWarning.Render(
				fmt.Sprintf("Results truncated at %d matches", e.ResultCount))
		}

	case domain.SearchFailedEvent:
		m.notice = m.styles.StatusError.Render(e.Message)

	case domain.SearchCancelledEvent:
		m.notice = m.styles.Dim.Render("Search was cancelled")

	case domain.ErrorEvent:
		m.notice = m.styles.StatusError.Render(e.Message)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		m.saveConfigOnExit()
		return m, tea.Quit

	case "tab":
		m.cycleFocus(1)
		return m, nil

	case "shift+tab":
		m.cycleFocus(-1)
		return m, nil

	case "esc":
		if m.controller.State() == session.StateRunning {
			if err := m.controller.Cancel(); err != nil {
				log.Printf("UI: cancel rejected: %v", err)
			}
		}
		return m, nil

	case "ctrl+r":
		m.useRegex = !m.useRegex
		return m, nil

	case "ctrl+t":
		m.caseSensitive = !m.caseSensitive
		return m, nil

	case "ctrl+s":
		m.searchSubdirs = !m.searchSubdirs
		return m, nil

	case "enter":
		if m.focus == focusResults {
			return m, m.openSelected()
		}
		return m, m.submit()
	}

	if m.focus == focusResults {
		return m.handleResultsKey(msg)
	}

	return m, m.updateInputs(msg)
}

func (m *Model) handleResultsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	results := m.controller.Snapshot().Results

	switch msg.String() {
	case "up", "k":
		if m.selected > 0 {
			m.selected--
		}

	case "down", "j":
		if m.selected < len(results)-1 {
			m.selected++
		}

	case "g":
		m.selected = 0

	case "G":
		if len(results) > 0 {
			m.selected = len(results) - 1
		}

	case "?":
		return m, m.openHelp()

	case "1", "2", "3", "4", "5":
		idx, _ := strconv.Atoi(msg.String())
		m.recallRecent(idx - 1)

	case "q":
		m.saveConfigOnExit()
		return m, tea.Quit
	}

	m.clampScroll()
	return m, nil
}

func (m *Model) cycleFocus(dir int) {
	zones := []focusZone{focusDirectory, focusQuery, focusExtension, focusResults}
	for i, z := range zones {
		if z == m.focus {
			m.focus = zones[(i+dir+len(zones))%len(zones)]
			break
		}
	}

	m.blurInputs()
	switch m.focus {
	case focusDirectory:
		m.directory.Focus()
	case focusQuery:
		m.query.Focus()
	case focusExtension:
		m.extension.Focus()
	}
}

func (m *Model) blurInputs() {
	m.directory.Blur()
	m.query.Blur()
	m.extension.Blur()
}

func (m *Model) updateInputs(msg tea.Msg) tea.Cmd {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	m.directory, cmd = m.directory.Update(msg)
	cmds = append(cmds, cmd)
	m.query, cmd = m.query.Update(msg)
	cmds = append(cmds, cmd)
	m.extension, cmd = m.extension.Update(msg)
	cmds = append(cmds, cmd)

	return tea.Batch(cmds...)
}

// submit hands the current form content to the controller
func (m *Model) submit() tea.Cmd {
	raw := session.RawSearchInput{
		Directory:       m.directory.Value(),
		Query:           m.query.Value(),
		Extension:       m.extension.Value(),
		CaseSensitive:   m.caseSensitive,
		UseRegex:        m.useRegex,
		SearchSubdirs:   m.searchSubdirs,
		MaxResults:      strconv.FormatUint(m.config.Search.MaxResults, 10),
		MaxFileSize:     strconv.FormatUint(m.config.Search.MaxFileSize, 10),
		ExcludePatterns: m.config.Search.Exclude,
	}

	if err := m.controller.Submit(raw); err != nil {
		m.notice = m.styles.StatusError.Render(err.Error())
		return nil
	}
	return m.spinner.Tick
}

// recallRecent fills the form from a recent query entry
func (m *Model) recallRecent(idx int) {
	if idx < 0 || idx >= len(m.recentEntries) {
		return
	}
	entry := m.recentEntries[idx]
	m.query.SetValue(entry.Query)
	m.extension.SetValue(entry.Extension)

	m.focus = focusQuery
	m.blurInputs()
	m.query.Focus()
}

// openSelected shows the selected result's file in the pager
func (m *Model) openSelected() tea.Cmd {
	results := m.controller.Snapshot().Results
	if m.selected < 0 || m.selected >= len(results) {
		return nil
	}
	path := results[m.selected].FilePath
	return func() tea.Msg {
		return pagerDoneMsg{err: m.pagerOps.ShowFileInPager(path)}
	}
}

func (m *Model) openHelp() tea.Cmd {
	content := m.helpR.RenderHelpContent()
	return func() tea.Msg {
		return helpPagerMsg{err: m.pagerOps.ShowContentInPager(content)}
	}
}

func (m *Model) saveConfigOnExit() {
	if !m.config.UISettings.AutosaveOnExit {
		return
	}
	m.config.DefaultDir = m.directory.Value()
	m.config.Search.SearchSubdirs = m.searchSubdirs
	if err := m.configSvc.Save(m.config); err != nil {
		log.Printf("UI: failed to save config: %v", err)
	}
}

func (m *Model) clampScroll() {
	visible := m.resultsHeight()
	if m.selected < m.offset {
		m.offset = m.selected
	}
	if m.selected >= m.offset+visible {
		m.offset = m.selected - visible + 1
	}
	if m.offset < 0 {
		m.offset = 0
	}
}

func (m *Model) resultsHeight() int {
	// Room left after the form, status area and footer
	h := m.height - 12
	if h < 3 {
		h = 3
	}
	return h
}

// View renders the UI
func (m *Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	var b strings.Builder

	b.WriteString(m.styles.Title.Render("Grepscope"))
	b.WriteString("\n")

	b.WriteString(m.renderField("Directory", m.directory.View(), m.focus == focusDirectory))
	b.WriteString(m.renderField("Query    ", m.query.View(), m.focus == focusQuery))
	b.WriteString(m.renderField("Extension", m.extension.View(), m.focus == focusExtension))

	b.WriteString("  ")
	b.WriteString(m.renderToggle("regex", m.useRegex))
	b.WriteString("  ")
	b.WriteString(m.renderToggle("case", m.caseSensitive))
	b.WriteString("  ")
	b.WriteString(m.renderToggle("subdirs", m.searchSubdirs))
	b.WriteString("\n")

	b.WriteString(m.renderStatus())
	b.WriteString("\n")

	snap := m.controller.Snapshot()
	if len(snap.Results) > 0 {
		opts := highlight.Options{CaseSensitive: m.caseSensitive, UseRegex: m.useRegex}
		b.WriteString(m.renderer.RenderResults(
			snap.Results, m.query.Value(), opts,
			m.selected, m.offset, m.resultsHeight(),
			m.config.UISettings.ShowContext && m.focus == focusResults))
		b.WriteString("\n")
	}

	if m.notice != "" {
		b.WriteString(m.notice)
		b.WriteString("\n")
	}

	b.WriteString(m.renderRecent())
	b.WriteString(m.styles.Help.Render("tab: next field • enter: search/open • esc: cancel • ?: help • ctrl+c: quit"))

	return m.styles.Main.Render(b.String())
}

func (m *Model) renderField(label, input string, focused bool) string {
	style := m.styles.Label
	if focused {
		style = m.styles.LabelFocused
	}
	return fmt.Sprintf("  %s %s\n", style.Render(label+":"), input)
}

func (m *Model) renderToggle(name string, on bool) string {
	if on {
		return m.styles.ToggleOn.Render("[x] " + name)
	}
	return m.styles.Toggle.Render("[ ] " + name)
}

func (m *Model) renderStatus() string {
	snap := m.controller.Snapshot()

	switch snap.State {
	case session.StateRunning, session.StateCancelling:
		bar := m.progress.ViewAs(float64(snap.Percent()) / 100)
		return fmt.Sprintf("  %s %s\n  %s",
			m.spinner.View(),
			m.styles.Status.Render(snap.StatusLine),
			bar)

	case session.StateCompleted:
		return "  " + m.styles.StatusSuccess.Render(snap.StatusLine)

	case session.StateErrored:
		return "  " + m.styles.StatusError.Render("Search failed: "+snap.ErrMessage)

	default:
		if snap.StatusLine != "" {
			return "  " + m.styles.Status.Render(snap.StatusLine)
		}
		return "  " + m.styles.Dim.Render("Press enter to search")
	}
}

func (m *Model) renderRecent() string {
	if len(m.recentEntries) == 0 {
		return ""
	}

	var parts []string
	for i, e := range m.recentEntries {
		label := e.Query
		if e.Extension != "" {
			label += " (." + strings.TrimPrefix(e.Extension, ".") + ")"
		}
		parts = append(parts,
			m.styles.RecentKey.Render(strconv.Itoa(i+1))+" "+m.styles.Recent.Render(label))
	}
	return m.styles.Dim.Render("Recent: ") + strings.Join(parts, m.styles.Dim.Render(" | ")) + "\n"
}

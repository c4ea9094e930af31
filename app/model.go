package app

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/ka2n/scrapeview/api"
	"github.com/ka2n/scrapeview/log"
	"github.com/morikuni/failure/v2"
	"github.com/pkg/browser"
)

// Backend is the part of the scraper API the screen drives
type Backend interface {
	ListItems(ctx context.Context) ([]api.ScrapedItem, error)
	SubmitURL(ctx context.Context, url string) error
	DeleteAllItems(ctx context.Context) error
}

// Options configures a Model
type Options struct {
	// FetchOnStart loads the item list as soon as the program starts
	FetchOnStart bool

	// Location is the time zone scrape times are shown in. Nil means time.Local.
	Location *time.Location

	// OpenURL opens a source link. Nil uses the system browser.
	OpenURL func(url string) error
}

type focusArea int

const (
	focusInput focusArea = iota
	focusList
)

// Messages carrying the results of backend calls
type (
	itemsMsg struct {
		items       []api.ScrapedItem
		err         error
		afterSubmit bool
		generation  int
	}
	submittedMsg struct {
		url string
		err error
	}
	deletedMsg struct {
		err error
	}
	openedMsg struct {
		url string
		err error
	}
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")).
			MarginBottom(1)

	loadingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))
)

// chromeHeight is the number of lines around the item list: header with its
// margin, input line, blank line, status line and help line.
const chromeHeight = 6

// Model is the bubbletea model of the scraper screen. All backend results
// arrive as messages, so state only changes inside Update.
type Model struct {
	backend Backend
	opts    Options
	keys    keyMap

	state  State
	cursor int
	focus  focusArea

	// generation advances when a delete-all succeeds; list results issued
	// before that are stale.
	generation int

	input   textinput.Model
	spinner spinner.Model
	help    help.Model
	list    viewport.Model
	detail  *Pager

	width  int
	height int
}

// New creates the screen model driving backend
func New(backend Backend, opts Options) Model {
	if opts.OpenURL == nil {
		opts.OpenURL = browser.OpenURL
	}

	ti := textinput.New()
	ti.Placeholder = "Enter URL"
	ti.Prompt = "URL ❯ "
	ti.CharLimit = 2048
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = loadingStyle

	return Model{
		backend: backend,
		opts:    opts,
		keys:    defaultKeyMap(),
		input:   ti,
		spinner: sp,
		help:    help.New(),
		list:    viewport.New(defaultCardWidth, 20),
	}
}

// State returns the current UI state
func (m Model) State() State {
	return m.state
}

// SetURL replaces the content of the URL field
func (m Model) SetURL(url string) Model {
	m.state = WithURL(m.state, url)
	m.input.SetValue(m.state.URL)
	return m
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink}
	if m.opts.FetchOnStart {
		cmds = append(cmds, m.fetchCmd(false))
	}
	return tea.Batch(cmds...)
}

func (m Model) fetchCmd(afterSubmit bool) tea.Cmd {
	backend := m.backend
	generation := m.generation
	return func() tea.Msg {
		items, err := backend.ListItems(context.Background())
		return itemsMsg{items: items, err: err, afterSubmit: afterSubmit, generation: generation}
	}
}

func (m Model) submitCmd(url string) tea.Cmd {
	backend := m.backend
	return func() tea.Msg {
		return submittedMsg{url: url, err: backend.SubmitURL(context.Background(), url)}
	}
}

func (m Model) deleteAllCmd() tea.Cmd {
	backend := m.backend
	return func() tea.Msg {
		return deletedMsg{err: backend.DeleteAllItems(context.Background())}
	}
}

func (m Model) openCmd(url string) tea.Cmd {
	open := m.opts.OpenURL
	return func() tea.Msg {
		return openedMsg{url: url, err: open(url)}
	}
}

// Submit starts scraping the URL currently in the input field
func (m Model) Submit() (Model, tea.Cmd) {
	next, url, ok := BeginSubmit(m.state)
	if !ok {
		return m, nil
	}
	m.state = next
	m.input.Reset()
	return m, tea.Batch(m.submitCmd(url), m.spinner.Tick)
}

// Fetch reloads the item list
func (m Model) Fetch() (Model, tea.Cmd) {
	next, ok := BeginFetch(m.state)
	if !ok {
		return m, nil
	}
	m.state = next
	return m, m.fetchCmd(false)
}

// DeleteAll removes every scraped item
func (m Model) DeleteAll() (Model, tea.Cmd) {
	next, ok := BeginDeleteAll(m.state)
	if !ok {
		return m, nil
	}
	m.state = next
	return m, tea.Batch(m.deleteAllCmd(), m.spinner.Tick)
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.input.Width = max(msg.Width-lipgloss.Width(m.input.Prompt)-1, 10)
		m.list.Width = msg.Width
		m.list.Height = max(msg.Height-chromeHeight, 3)
		m = m.refreshList()
		if m.detail != nil {
			m.detail.Update(msg)
		}
		return m, nil

	case itemsMsg:
		if msg.generation != m.generation && !msg.afterSubmit {
			log.Debug("Dropping item list fetched before delete-all", "items", len(msg.items))
			return m, nil
		}
		if msg.err != nil {
			log.Error("Error fetching items", "error", msg.err)
		}
		m.state = FetchFinished(m.state, msg.items, msg.err, msg.afterSubmit)
		return m.refreshList(), nil

	case submittedMsg:
		if msg.err != nil {
			log.Error("Error scraping URL", "url", msg.url, "error", msg.err)
		}
		next, refresh := SubmitFinished(m.state, msg.err)
		m.state = next
		if refresh {
			return m, m.fetchCmd(true)
		}
		return m, nil

	case deletedMsg:
		if msg.err != nil {
			log.Error("Error deleting all scraped architectures", "error", msg.err)
		}
		m.state = DeleteAllFinished(m.state, msg.err)
		if msg.err == nil {
			m.generation++
		}
		return m.refreshList(), nil

	case openedMsg:
		if msg.err != nil {
			log.Error("Error opening source URL", "url", msg.url, "error", msg.err)
			m.state.Err = msg.err
		}
		return m, nil

	case pagerClosedMsg:
		m.detail = nil
		return m, nil

	case spinner.TickMsg:
		if !m.state.Loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			return m, tea.Quit
		}
		if m.detail != nil {
			_, cmd := m.detail.Update(msg)
			return m, cmd
		}
		if !m.state.Idle() {
			// Controls are disabled until the action in flight resolves
			return m, nil
		}
		return m.handleKey(msg)
	}

	if m.detail != nil {
		_, cmd := m.detail.Update(msg)
		return m, cmd
	}
	if m.focus == focusInput && !m.state.Loading {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Fetch):
		return m.Fetch()
	case key.Matches(msg, m.keys.DeleteAll):
		return m.DeleteAll()
	case key.Matches(msg, m.keys.Focus):
		return m.toggleFocus(), nil
	}

	if m.focus == focusInput {
		if key.Matches(msg, m.keys.Submit) {
			return m.Submit()
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		m.state = WithURL(m.state, m.input.Value())
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Up):
		m.cursor--
		return m.refreshList(), nil
	case key.Matches(msg, m.keys.Down):
		m.cursor++
		return m.refreshList(), nil
	case key.Matches(msg, m.keys.Detail):
		return m.openDetail()
	case key.Matches(msg, m.keys.Open):
		if item, ok := m.selected(); ok && item.SourceURL != "" {
			return m, m.openCmd(item.SourceURL)
		}
	}
	return m, nil
}

func (m Model) toggleFocus() Model {
	if m.focus == focusInput {
		m.focus = focusList
		m.input.Blur()
	} else {
		m.focus = focusInput
		m.input.Focus()
	}
	return m.refreshList()
}

func (m Model) selected() (api.ScrapedItem, bool) {
	if m.cursor < 0 || m.cursor >= len(m.state.Items) {
		return api.ScrapedItem{}, false
	}
	return m.state.Items[m.cursor], true
}

func (m Model) openDetail() (tea.Model, tea.Cmd) {
	item, ok := m.selected()
	if !ok {
		return m, nil
	}
	width := m.width
	if width <= 0 {
		width = 100
	}
	content, err := RenderDetail(item, width-6, m.opts.Location)
	if err != nil {
		log.Error("Error rendering item detail", "id", item.ID, "error", err)
		m.state.Err = failure.Wrap(err)
		return m, nil
	}
	m.detail = newEmbeddedPager(content, width, max(m.height, 10))
	return m, nil
}

func (m Model) renderOptions() RenderOptions {
	selected := -1
	if m.focus == focusList {
		selected = m.cursor
	}
	width := defaultCardWidth
	if m.width > 0 && m.width < width {
		width = m.width
	}
	return RenderOptions{
		Width:    width,
		Selected: selected,
		Location: m.opts.Location,
	}
}

// refreshList clamps the cursor to the items and scrolls the list so the
// selected card is visible.
func (m Model) refreshList() Model {
	m.cursor = min(max(m.cursor, 0), max(len(m.state.Items)-1, 0))

	opts := m.renderOptions()
	if len(m.state.Items) == 0 {
		m.list.SetContent(RenderItems(nil, opts))
		m.list.GotoTop()
		return m
	}

	cards := RenderCards(m.state.Items, opts)
	m.list.SetContent(strings.Join(cards, "\n"))

	if m.focus == focusList {
		top := 0
		for _, card := range cards[:m.cursor] {
			top += lipgloss.Height(card)
		}
		bottom := top + lipgloss.Height(cards[m.cursor])
		if top < m.list.YOffset {
			m.list.SetYOffset(top)
		} else if bottom > m.list.YOffset+m.list.Height {
			m.list.SetYOffset(bottom - m.list.Height)
		}
	}
	return m
}

// View implements tea.Model
func (m Model) View() string {
	if m.detail != nil {
		return m.detail.View()
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render("Amazon AWS Architectures Web Scraper"))
	b.WriteString("\n")

	if m.state.Loading {
		b.WriteString(m.spinner.View() + loadingStyle.Render(" Working..."))
	} else {
		b.WriteString(m.input.View())
	}
	b.WriteString("\n\n")

	b.WriteString(m.list.View())
	b.WriteString("\n")

	if m.state.Err != nil {
		b.WriteString(errorStyle.Render(errorLine(m.state.Err)))
	}
	b.WriteString("\n")

	if m.focus == focusList {
		b.WriteString(m.help.View(listHelp(m.keys)))
	} else {
		b.WriteString(m.help.View(inputHelp(m.keys)))
	}
	return b.String()
}

func errorLine(err error) string {
	if msg := failure.MessageOf(err); msg != "" {
		return "Error: " + msg.String()
	}
	return "Error: " + err.Error()
}

// Run starts the full-screen program
func Run(backend Backend, opts Options) error {
	p := tea.NewProgram(New(backend, opts), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

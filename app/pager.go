package app

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	searchHighlight = lipgloss.NewStyle().
			Background(lipgloss.Color("228")). // yellow
			Foreground(lipgloss.Color("0"))    // black

	currentMatchHighlight = lipgloss.NewStyle().
				Background(lipgloss.Color("196")). // red
				Foreground(lipgloss.Color("15"))   // white

	pagerHelpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			PaddingLeft(2)
)

// pagerClosedMsg is sent by an embedded pager when the user leaves it
type pagerClosedMsg struct{}

// searchMatch is the byte range of one hit in the pager content
type searchMatch struct {
	start, end int
}

type searchState struct {
	active       bool
	input        textinput.Model
	matches      []searchMatch
	currentMatch int
}

// Pager is a scrollable, searchable view of rendered text.
// A standalone pager quits the program on q; an embedded one hands control
// back to its parent with pagerClosedMsg.
type Pager struct {
	viewport viewport.Model
	content  string
	ready    bool
	embedded bool
	search   searchState
}

// NewPager creates a standalone pager for content
func NewPager(content string) *Pager {
	ti := textinput.New()
	ti.Prompt = "/"
	ti.PromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	ti.PlaceholderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	return &Pager{
		content: content,
		search: searchState{
			input: ti,
		},
	}
}

func newEmbeddedPager(content string, width, height int) *Pager {
	p := NewPager(content)
	p.embedded = true
	p.Update(tea.WindowSizeMsg{Width: width, Height: height})
	return p
}

// Init initializes the pager
func (m *Pager) Init() tea.Cmd {
	return nil
}

func (m *Pager) close() tea.Cmd {
	if m.embedded {
		return func() tea.Msg { return pagerClosedMsg{} }
	}
	return tea.Quit
}

// Update handles user input and updates the pager state
func (m *Pager) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var (
		cmd  tea.Cmd
		cmds []tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.search.active {
			var cmd tea.Cmd
			switch msg.Type {
			case tea.KeyEscape:
				m.search.active = false
				m.search.input.Reset()
				m.clearHighlights()
			case tea.KeyEnter:
				if m.search.input.Value() != "" {
					m.performSearch()
					m.search.active = false
				}
			default:
				m.search.input, cmd = m.search.input.Update(msg)
				return m, cmd
			}
			return m, nil
		}

		switch msg.String() {
		case "q", "ctrl+c":
			return m, m.close()
		case "esc":
			if len(m.search.matches) > 0 {
				m.clearHighlights()
				m.search.input.Reset()
				return m, nil
			}
			if m.embedded {
				return m, m.close()
			}
		case "j", "down":
			m.viewport.ScrollDown(1)
		case "k", "up":
			m.viewport.ScrollUp(1)
		case "f", "pagedown", "space":
			m.viewport.ScrollDown(m.viewport.Height)
		case "b", "pageup", "shift+space":
			m.viewport.ScrollUp(m.viewport.Height)
		case "g", "home":
			m.viewport.GotoTop()
		case "G", "end":
			m.viewport.GotoBottom()
		case "/":
			m.search.active = true
			m.search.input.Focus()
			return m, textinput.Blink
		case "n":
			m.nextMatch()
		case "N":
			m.previousMatch()
		}

	case tea.WindowSizeMsg:
		if !m.ready {
			m.viewport = viewport.New(msg.Width, msg.Height-2)
			m.viewport.Style = lipgloss.NewStyle().
				BorderStyle(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("62")).
				PaddingLeft(2).
				PaddingRight(2)
			m.viewport.SetContent(m.content)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = msg.Height - 2
		}
	}

	// Keys are handled above; the viewport still gets mouse and other events
	if _, isKey := msg.(tea.KeyMsg); !isKey {
		m.viewport, cmd = m.viewport.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// View renders the pager
func (m *Pager) View() string {
	if !m.ready {
		return "\nInitializing..."
	}

	var help string
	if m.search.active {
		help = m.search.input.View()
	} else {
		quit := "q quit"
		if m.embedded {
			quit = "q/esc back"
		}
		baseHelp := "↑/k up • ↓/j down • space/f forward • b back • g top • G bottom"
		searchHelp := "/ search • n next • N previous • " + quit
		if len(m.search.matches) > 0 {
			searchHelp = fmt.Sprintf("/ search (%d/%d) • n next • N previous • %s",
				m.search.currentMatch+1, len(m.search.matches), quit)
		}
		help = pagerHelpStyle.Render(baseHelp + " • " + searchHelp)
	}
	return m.viewport.View() + "\n" + help
}

// lineOf returns the zero-based line of the byte offset pos in the content
func (m *Pager) lineOf(pos int) int {
	return strings.Count(m.content[:pos], "\n")
}

// searchLines returns the visible line range minus the help area
func (m *Pager) searchLines() (start, end int) {
	return m.viewport.YOffset, m.viewport.YOffset + m.viewport.Height - 2
}

// searchPattern compiles query for a smart-case search: any upper-case letter
// makes it case sensitive.
func searchPattern(query string) *regexp.Regexp {
	pattern := regexp.QuoteMeta(query)
	if strings.IndexFunc(query, unicode.IsUpper) < 0 {
		pattern = "(?i)" + pattern
	}
	return regexp.MustCompile(pattern)
}

func (m *Pager) performSearch() {
	query := m.search.input.Value()
	if query == "" {
		return
	}

	m.search.matches = nil
	m.search.currentMatch = 0

	// Offsets index the original content; folded text can differ in byte length
	for _, loc := range searchPattern(query).FindAllStringIndex(m.content, -1) {
		m.search.matches = append(m.search.matches, searchMatch{start: loc[0], end: loc[1]})
	}

	if len(m.search.matches) == 0 {
		return
	}

	// Prefer the first match already on screen
	start, end := m.searchLines()
	first := 0
	for i, match := range m.search.matches {
		if line := m.lineOf(match.start); line >= start && line < end {
			first = i
			break
		}
	}

	m.search.currentMatch = first
	m.highlightMatches()
	m.scrollToMatch(first)
}

func (m *Pager) highlightMatches() {
	if len(m.search.matches) == 0 {
		return
	}

	var b strings.Builder

	last := 0
	for i, match := range m.search.matches {
		b.WriteString(m.content[last:match.start])
		text := m.content[match.start:match.end]
		if i == m.search.currentMatch {
			b.WriteString(currentMatchHighlight.Render(text))
		} else {
			b.WriteString(searchHighlight.Render(text))
		}
		last = match.end
	}
	b.WriteString(m.content[last:])

	m.viewport.SetContent(b.String())
}

func (m *Pager) isMatchInViewport(index int) bool {
	if index < 0 || index >= len(m.search.matches) {
		return false
	}
	line := m.lineOf(m.search.matches[index].start)
	start, end := m.searchLines()
	return line >= start && line < end
}

func (m *Pager) nextMatch() {
	if len(m.search.matches) == 0 {
		return
	}

	next := -1
	if m.isMatchInViewport(m.search.currentMatch) {
		next = (m.search.currentMatch + 1) % len(m.search.matches)
	} else {
		// Jump to the first match below the top of the screen, wrapping around
		start, _ := m.searchLines()
		for i, match := range m.search.matches {
			if m.lineOf(match.start) >= start {
				next = i
				break
			}
		}
		if next == -1 {
			next = 0
		}
	}

	m.search.currentMatch = next
	m.highlightMatches()
	m.scrollToMatch(next)
}

func (m *Pager) previousMatch() {
	if len(m.search.matches) == 0 {
		return
	}

	prev := -1
	if m.isMatchInViewport(m.search.currentMatch) {
		prev = m.search.currentMatch - 1
		if prev < 0 {
			prev = len(m.search.matches) - 1
		}
	} else {
		start, _ := m.searchLines()
		for i := len(m.search.matches) - 1; i >= 0; i-- {
			if m.lineOf(m.search.matches[i].start) <= start {
				prev = i
				break
			}
		}
		if prev == -1 {
			prev = len(m.search.matches) - 1
		}
	}

	m.search.currentMatch = prev
	m.highlightMatches()
	m.scrollToMatch(prev)
}

func (m *Pager) scrollToMatch(index int) {
	if index < 0 || index >= len(m.search.matches) {
		return
	}

	target := m.lineOf(m.search.matches[index].start)
	height := m.viewport.Height - 2

	if target < m.viewport.YOffset {
		m.viewport.SetYOffset(target)
	} else if target >= m.viewport.YOffset+height {
		m.viewport.SetYOffset(target - height + 2)
	}
}

func (m *Pager) clearHighlights() {
	m.search.matches = nil
	m.search.currentMatch = 0
	m.viewport.SetContent(m.content)
}

// RunPager starts a full-screen pager program with the given content
func RunPager(content string) error {
	p := tea.NewProgram(
		NewPager(content),
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	return err
}

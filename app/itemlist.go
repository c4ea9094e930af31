package app

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/ka2n/scrapeview/api"
)

// ScrapedAtLayout renders scrape times the way a US-English locale does
const ScrapedAtLayout = "1/2/2006, 3:04:05 PM"

const defaultCardWidth = 60

var (
	cardStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("252")).
			Padding(0, 1)

	selectedCardStyle = cardStyle.
				BorderForeground(lipgloss.Color("33"))

	cardTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("33"))

	fieldLabelStyle = lipgloss.NewStyle().Bold(true)

	linkStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("33")).
			Underline(true)

	statusStyles = map[api.ParsingStatus]lipgloss.Style{
		api.ParsingStatusSuccess: lipgloss.NewStyle().Foreground(lipgloss.Color("35")),
		api.ParsingStatusFailed:  lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
	}

	emptyListStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true)
)

// RenderOptions controls the layout of rendered cards
type RenderOptions struct {
	// Width is the outer width of each card. Zero uses a default.
	Width int

	// Selected is the index of the highlighted card, or -1 for none
	Selected int

	// Location is the time zone scrape times are shown in. Nil means time.Local.
	Location *time.Location
}

// RenderItems renders items as a vertical list of cards, in the given order.
// It has no side effects: the same input always yields the same output.
func RenderItems(items []api.ScrapedItem, opts RenderOptions) string {
	if len(items) == 0 {
		return emptyListStyle.Render("No scraped architectures. Press ctrl+r to load them.")
	}
	return strings.Join(RenderCards(items, opts), "\n")
}

// RenderCards renders one card per item
func RenderCards(items []api.ScrapedItem, opts RenderOptions) []string {
	cards := make([]string, 0, len(items))
	for i, item := range items {
		cards = append(cards, renderCard(item, i == opts.Selected, opts))
	}
	return cards
}

func renderCard(item api.ScrapedItem, selected bool, opts RenderOptions) string {
	width := opts.Width
	if width <= 0 {
		width = defaultCardWidth
	}
	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}

	title := item.Title
	if title == "" {
		title = "(untitled)"
	}

	lines := []string{
		cardTitleStyle.Render(title),
		field("Services", strings.Join(item.Services, ", ")),
		field("Source", linkStyle.Render(item.SourceURL)),
		field("Scraped", formatScrapedAt(item.ScrapedAt, loc)),
	}
	if item.HasRawTitle() {
		lines = append(lines, field("Raw Title", *item.RawTitle))
	}
	lines = append(lines, field("Status", renderStatus(item.ParsingStatus)))

	style := cardStyle
	if selected {
		style = selectedCardStyle
	}
	// Width excludes the border
	return style.Width(width - 2).Render(strings.Join(lines, "\n"))
}

func field(label, value string) string {
	return fieldLabelStyle.Render(label+":") + " " + value
}

func renderStatus(s api.ParsingStatus) string {
	if style, ok := statusStyles[s]; ok {
		return style.Render(s.String())
	}
	return s.String()
}

func formatScrapedAt(t api.Timestamp, loc *time.Location) string {
	if t.IsZero() {
		return "unknown"
	}
	return t.In(loc).Format(ScrapedAtLayout)
}

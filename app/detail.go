package app

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/ka2n/scrapeview/api"
	"github.com/morikuni/failure/v2"
	"github.com/samber/lo"
)

// ItemMarkdown renders every field of item as a markdown document
func ItemMarkdown(item api.ScrapedItem, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}

	var b strings.Builder

	title := lo.Ternary(item.Title != "", item.Title, "(untitled)")
	fmt.Fprintf(&b, "# %s\n\n", title)

	if item.SourceURL != "" {
		fmt.Fprintf(&b, "<%s>\n\n", item.SourceURL)
	}
	if item.Description != "" {
		fmt.Fprintf(&b, "%s\n\n", item.Description)
	}

	b.WriteString("| | |\n|---|---|\n")
	rows := []lo.Tuple2[string, string]{
		lo.T2("Pattern", item.ArchitecturePattern),
		lo.T2("Use case", lo.FromPtr(item.UseCase)),
		lo.T2("Complexity", lo.FromPtr(item.Complexity)),
		lo.T2("Estimated cost", lo.FromPtr(item.EstimatedCost)),
		lo.T2("Scraped", formatScrapedAt(item.ScrapedAt, loc)),
		lo.T2("Raw title", lo.FromPtr(item.RawTitle)),
		lo.T2("Status", item.ParsingStatus.String()),
	}
	for _, row := range rows {
		if row.B == "" {
			continue
		}
		fmt.Fprintf(&b, "| **%s** | %s |\n", row.A, escapeCell(row.B))
	}
	b.WriteString("\n")

	if len(item.Services) > 0 {
		b.WriteString("## Services\n\n")
		for _, s := range item.Services {
			fmt.Fprintf(&b, "- %s\n", s)
		}
		b.WriteString("\n")
	}

	if len(item.Components) > 0 {
		b.WriteString("## Components\n\n")
		for _, c := range item.Components {
			line := "- **" + c.Name + "**"
			if c.Type != "" {
				line += " (" + c.Type + ")"
			}
			if c.Description != "" {
				line += ": " + c.Description
			}
			b.WriteString(line + "\n")
		}
		b.WriteString("\n")
	}

	if len(item.Benefits) > 0 {
		b.WriteString("## Benefits\n\n")
		for _, s := range item.Benefits {
			fmt.Fprintf(&b, "- %s\n", s)
		}
		b.WriteString("\n")
	}

	return b.String()
}

func escapeCell(s string) string {
	return strings.ReplaceAll(strings.ReplaceAll(s, "|", `\|`), "\n", " ")
}

// RenderDetail renders item for the terminal, wrapped at width columns
func RenderDetail(item api.ScrapedItem, width int, loc *time.Location) (string, error) {
	if width <= 0 {
		width = 100
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", failure.Wrap(err)
	}

	out, err := renderer.Render(ItemMarkdown(item, loc))
	if err != nil {
		return "", failure.Wrap(err)
	}
	return out, nil
}

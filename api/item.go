package api

import (
	"strconv"

	"github.com/morikuni/failure/v2"
	"github.com/samber/lo"
)

// ParsingStatus is the backend-reported outcome of extracting structured
// fields from a scraped page
type ParsingStatus string

const (
	ParsingStatusSuccess ParsingStatus = "Success"
	ParsingStatusFailed  ParsingStatus = "Failed"
)

func (s ParsingStatus) String() string {
	return string(s)
}

// Valid reports whether s is one of the statuses the backend produces
func (s ParsingStatus) Valid() bool {
	return s == ParsingStatusSuccess || s == ParsingStatusFailed
}

// Component is one building block named in an architecture
type Component struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Type        string `json:"type"`
}

// ScrapedItem is a backend-produced record describing one parsed cloud
// architecture page. Pointer fields are nil when the backend could not derive them.
type ScrapedItem struct {
	ID                  string        `json:"id,omitempty"`
	Title               string        `json:"title"`
	Description         string        `json:"description"`
	Services            []string      `json:"services"`
	Components          []Component   `json:"components"`
	UseCase             *string       `json:"use_case"`
	Complexity          *string       `json:"complexity"`
	EstimatedCost       *string       `json:"estimated_cost"`
	Benefits            []string      `json:"benefits"`
	ArchitecturePattern string        `json:"architecture_pattern"`
	SourceURL           string        `json:"source_url"`
	ScrapedAt           Timestamp     `json:"scraped_at"`
	RawTitle            *string       `json:"raw_title"`
	ParsingStatus       ParsingStatus `json:"parsing_status"`
}

// HasRawTitle reports whether the backend kept the unparsed page title
func (i ScrapedItem) HasRawTitle() bool {
	return lo.FromPtr(i.RawTitle) != ""
}

// FindItem returns the item whose id is ref. When no id matches, a number
// ref selects by 1-based position in backend order, which also works against
// backends that leave ids out of their list output.
func FindItem(items []ScrapedItem, ref string) (ScrapedItem, error) {
	if ref != "" {
		if item, ok := lo.Find(items, func(i ScrapedItem) bool {
			return i.ID == ref
		}); ok {
			return item, nil
		}
	}
	if n, err := strconv.Atoi(ref); err == nil && n >= 1 && n <= len(items) {
		return items[n-1], nil
	}
	return ScrapedItem{}, failure.New(ErrItemNotFound,
		failure.Message("No scraped architecture with that id or position"),
		failure.Context{"ref": ref, "count": strconv.Itoa(len(items))},
	)
}

// Package api is the client for the architecture scraper backend.
//
// The backend owns scraping, parsing and storage. This package only issues
// the HTTP calls that list scraped items, submit a URL for scraping and
// delete every stored item, and decodes the records it returns.
package api

// ErrorCode defines error types for API operations
type ErrorCode string

const (
	// ErrRequestFailed covers every failed backend call: transport errors,
	// non-2xx statuses and undecodable bodies alike.
	ErrRequestFailed ErrorCode = "RequestFailed"

	// ErrInvalidBaseURL is returned when the configured backend address is not a URL
	ErrInvalidBaseURL ErrorCode = "InvalidBaseURL"

	// ErrItemNotFound is returned when no item in a collection has the requested id
	ErrItemNotFound ErrorCode = "ItemNotFound"
)

func (c ErrorCode) ErrorCode() string {
	return string(c)
}

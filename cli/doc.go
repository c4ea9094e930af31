// Package cli implements the command-line interface for scrapeview.
//
// The cli package provides:
// - The interactive scraper screen as the root command
// - One-shot list, scrape, delete-all, show and health commands
// - Backend configuration through flags and environment variables
// - The MCP server entry point
package cli

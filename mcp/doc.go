// Package mcp implements the Model Context Protocol server for scrapeview.
//
// The mcp package provides:
// - An MCP server speaking over stdio
// - Tools to list, scrape and delete architectures through the backend
package mcp

package mcp

import (
	"github.com/spf13/cobra"
)

// BackendFactory builds the backend the server talks to.
// It runs after flag parsing so persistent flags are visible.
type BackendFactory func() (Backend, error)

// Command returns the MCP server command
func Command(factory BackendFactory) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Start MCP server",
		Long:  "Start a Model Context Protocol server on stdio exposing the scraper backend as tools",
		RunE: func(cmd *cobra.Command, args []string) error {
			backend, err := factory()
			if err != nil {
				return err
			}
			return NewServer(backend).Run()
		},
	}
}

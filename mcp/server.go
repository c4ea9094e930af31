package mcp

import (
	"context"

	"github.com/ka2n/scrapeview/api"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Backend is the part of the API client the tools use
type Backend interface {
	ListItems(ctx context.Context) ([]api.ScrapedItem, error)
	SubmitURL(ctx context.Context, url string) error
	DeleteAllItems(ctx context.Context) error
}

// Server represents the MCP server for scrapeview
type Server struct {
	server *server.MCPServer
}

// NewServer creates a new MCP server instance
func NewServer(backend Backend) *Server {
	s := server.NewMCPServer("scrapeview", api.Version)

	s.AddTools(InitTools(backend)...)

	return &Server{
		server: s,
	}
}

// Run starts the MCP server
func (s *Server) Run() error {
	return server.ServeStdio(s.server)
}

func newServerTool(tool mcp.Tool, handler server.ToolHandlerFunc) server.ServerTool {
	return server.ServerTool{
		Tool:    tool,
		Handler: handler,
	}
}

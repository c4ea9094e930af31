package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/ka2n/scrapeview/api"
	"github.com/ka2n/scrapeview/log"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/mitchellh/mapstructure"
	"github.com/morikuni/failure/v2"
)

var validate = validator.New()

func InitTools(backend Backend) []server.ServerTool {
	return []server.ServerTool{
		newServerTool(ListArchitectures(backend)),
		newServerTool(ScrapeURL(backend)),
		newServerTool(DeleteAllArchitectures(backend)),
	}
}

// toolError turns a backend failure into a result the client can show
func toolError(err error) *mcp.CallToolResult {
	log.Error("Tool call failed", "error", err)
	if msg := failure.MessageOf(err); msg != "" {
		return mcp.NewToolResultError(fmt.Sprintf("%s: %v", msg, err))
	}
	return mcp.NewToolResultError(err.Error())
}

func ListArchitectures(backend Backend) (tool mcp.Tool, handler server.ToolHandlerFunc) {
	return mcp.NewTool(
			"list_architectures",
			mcp.WithDescription("List every architecture the backend has scraped, in backend order"),
		), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			items, err := backend.ListItems(ctx)
			if err != nil {
				return toolError(err), nil
			}
			if items == nil {
				items = []api.ScrapedItem{}
			}

			b, err := json.Marshal(items)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			return mcp.NewToolResultText(string(b)), nil
		}
}

func ScrapeURL(backend Backend) (tool mcp.Tool, handler server.ToolHandlerFunc) {
	return mcp.NewTool(
			"scrape_url",
			mcp.WithDescription("Ask the backend to scrape an architecture page and store the result"),
			mcp.WithString("url", mcp.Required(), mcp.Description("Address of the page to scrape")),
		), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			type ToolArguments struct {
				URL string `mapstructure:"url" validate:"required"`
			}
			var args ToolArguments
			if err := mapstructure.Decode(req.Params.Arguments, &args); err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			if err := validate.StructCtx(ctx, args); err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			if err := backend.SubmitURL(ctx, args.URL); err != nil {
				return toolError(err), nil
			}
			return mcp.NewToolResultText(fmt.Sprintf("Submitted %s for scraping", args.URL)), nil
		}
}

func DeleteAllArchitectures(backend Backend) (tool mcp.Tool, handler server.ToolHandlerFunc) {
	return mcp.NewTool(
			"delete_all_architectures",
			mcp.WithDescription("Delete every scraped architecture from the backend"),
		), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			if err := backend.DeleteAllItems(ctx); err != nil {
				return toolError(err), nil
			}
			return mcp.NewToolResultText("Deleted all scraped architectures"), nil
		}
}

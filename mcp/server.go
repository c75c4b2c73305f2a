package mcp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	errorskg "github.com/sweetpotato0/ai-uigen/errors"
	"github.com/sweetpotato0/ai-uigen/generation"
)

// ToolName is the name of the generation tool.
const ToolName = "generate_ui"

// Generator produces a generation result for a UI description.
type Generator interface {
	Generate(ctx context.Context, promptText string) (*generation.Result, error)
}

type generateArgs struct {
	Description string `json:"description" jsonschema:"Free-text description of the UI to generate"`
}

// NewServer builds an MCP server exposing generate_ui.
func NewServer(name, version string, gen Generator) *sdkmcp.Server {
	if gen == nil {
		panic("mcp: generator cannot be nil")
	}
	server := sdkmcp.NewServer(&sdkmcp.Implementation{
		Name:    name,
		Version: version,
		Title:   "ai-uigen",
	}, nil)

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        ToolName,
		Description: "Generate a single self-contained HTML file for a UI description, plus 2-3 accessibility suggestions",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, a generateArgs) (*sdkmcp.CallToolResult, any, error) {
		res, err := gen.Generate(ctx, a.Description)
		if err != nil {
			return nil, nil, toolError(err)
		}
		return &sdkmcp.CallToolResult{
			Content: []sdkmcp.Content{
				&sdkmcp.TextContent{Text: res.Code},
				&sdkmcp.TextContent{Text: FormatSuggestions(res.AccessibilitySuggestions)},
			},
		}, nil, nil
	})

	return server
}

// Handler serves server over the streamable HTTP transport.
func Handler(server *sdkmcp.Server) http.Handler {
	return sdkmcp.NewStreamableHTTPHandler(func(*http.Request) *sdkmcp.Server {
		return server
	}, nil)
}

// ServeStdio runs server on stdin/stdout until the client disconnects.
func ServeStdio(ctx context.Context, server *sdkmcp.Server) error {
	return server.Run(ctx, &sdkmcp.StdioTransport{})
}

// FormatSuggestions renders suggestions as a bulleted list.
func FormatSuggestions(suggestions []string) string {
	var b strings.Builder
	for i, s := range suggestions {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString("- ")
		b.WriteString(s)
	}
	return b.String()
}

func toolError(err error) error {
	switch {
	case errors.Is(err, errorskg.ErrEmptyPrompt):
		return fmt.Errorf("description is required")
	case errors.Is(err, errorskg.ErrBusy):
		return fmt.Errorf("a generation is already in progress, try again shortly")
	default:
		return fmt.Errorf("failed to generate code: %w", err)
	}
}

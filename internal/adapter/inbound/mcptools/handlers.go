package mcptools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/tycmcp/tianyancha-mcp/internal/domain"
	"github.com/tycmcp/tianyancha-mcp/internal/usecase"
)

// buildHandler returns the handler for one tool. All seven tools share this
// shape; the endpoint name is the only thing that varies.
//
// Failures are returned in-band as error results rather than Go errors: a Go
// error would surface as a protocol fault to the MCP host, while an error
// result reaches the calling LLM as renderable text it can act on.
func buildHandler(endpointName string, invoke *usecase.InvokeQueryUseCase, credentials CredentialSource) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		result := invoke.Execute(ctx, endpointName, request.GetArguments(), credentials())
		if !result.Succeeded() {
			return mcp.NewToolResultError(formatFailure(result.Failure)), nil
		}

		payload, err := json.Marshal(result.Success)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err)), nil
		}
		return mcp.NewToolResultText(string(payload)), nil
	}
}

func formatFailure(f *domain.Failure) string {
	if f.UpstreamCode != 0 {
		return fmt.Sprintf("%s (provider code %d)", f.Message, f.UpstreamCode)
	}
	return f.Message
}

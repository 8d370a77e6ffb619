// Package mcptools exposes the registered lookups as MCP tools. Tool
// definitions are generated from the same endpoint descriptors the pipeline
// consumes, so the manifest and the pipeline can never drift apart.
package mcptools

import (
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/tycmcp/tianyancha-mcp/internal/domain"
	"github.com/tycmcp/tianyancha-mcp/internal/usecase"
)

// CredentialSource resolves the API token at invocation time. The token is
// never embedded in tool parameters; the host supplies it out of band.
type CredentialSource func() string

// Register builds one MCP tool per registered endpoint and wires each to the
// shared pipeline.
func Register(s *server.MCPServer, registry *domain.Registry, invoke *usecase.InvokeQueryUseCase, credentials CredentialSource, logger *slog.Logger) {
	log := logger.With("component", "mcptools")
	for _, endpoint := range registry.All() {
		s.AddTool(buildTool(endpoint), buildHandler(endpoint.Name, invoke, credentials))
		log.Debug("Registered MCP tool", slog.String("tool", endpoint.Name))
	}
	log.Info("MCP tools registered", slog.Int("count", len(registry.Names())))
}

func buildTool(endpoint domain.EndpointDescriptor) mcp.Tool {
	opts := []mcp.ToolOption{mcp.WithDescription(endpoint.Description)}
	for _, p := range endpoint.Parameters {
		popts := []mcp.PropertyOption{mcp.Description(p.Description)}
		if p.Required {
			popts = append(popts, mcp.Required())
		}
		switch p.Kind {
		case domain.ParamKindInt:
			opts = append(opts, mcp.WithNumber(p.Name, popts...))
		default:
			opts = append(opts, mcp.WithString(p.Name, popts...))
		}
	}
	return mcp.NewTool(endpoint.Name, opts...)
}

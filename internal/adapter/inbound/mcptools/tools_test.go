package mcptools

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tycmcp/tianyancha-mcp/internal/adapter/outbound/tychttp"
	"github.com/tycmcp/tianyancha-mcp/internal/domain"
	"github.com/tycmcp/tianyancha-mcp/internal/usecase"
)

func newTestPipeline(t *testing.T, handler http.Handler) *usecase.InvokeQueryUseCase {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	dispatcher := tychttp.New(server.Client(), tychttp.Config{BaseURL: server.URL}, logger)
	registry := domain.MustNewRegistry(domain.DefaultDescriptors())
	return usecase.NewInvokeQueryUseCase(registry, dispatcher, logger)
}

func callRequest(name string, args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args
	return req
}

func TestBuildTool_Definitions(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)
	registry := domain.MustNewRegistry(domain.DefaultDescriptors())

	t.Run("non-paginated tool has only the keyword", func(t *testing.T) {
		endpoint, err := registry.Lookup(domain.EndpointJudicialRisk)
		require.NoError(err)

		tool := buildTool(endpoint)
		assert.Equal(domain.EndpointJudicialRisk, tool.Name)
		assert.NotEmpty(tool.Description)
		assert.Equal([]string{"company_keyword"}, tool.InputSchema.Required)
		assert.Contains(tool.InputSchema.Properties, "company_keyword")
		assert.NotContains(tool.InputSchema.Properties, "page_size")
	})

	t.Run("paginated tool declares optional number paging params", func(t *testing.T) {
		endpoint, err := registry.Lookup(domain.EndpointPublicNotice)
		require.NoError(err)

		tool := buildTool(endpoint)
		assert.Equal([]string{"company_keyword"}, tool.InputSchema.Required)
		require.Contains(tool.InputSchema.Properties, "page_size")
		require.Contains(tool.InputSchema.Properties, "page_num")

		pageSize, ok := tool.InputSchema.Properties["page_size"].(map[string]any)
		require.True(ok)
		assert.Equal("number", pageSize["type"])
	})
}

func TestHandler_Success(t *testing.T) {
	upstream := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "valid-token", r.Header.Get("Authorization"))
		w.Write([]byte(`{"error_code":0,"reason":"ok","result":{"total":1,"items":[{"punishReason":"违规"}]}}`))
	})
	invoke := newTestPipeline(t, upstream)
	handler := buildHandler(domain.EndpointIllegalInfo, invoke, func() string { return "valid-token" })

	result, err := handler(context.Background(), callRequest(domain.EndpointIllegalInfo, map[string]any{
		"company_keyword": "acme",
		"page_size":       float64(10),
	}))
	require.NoError(t, err)
	require.False(t, result.IsError)

	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok)

	var payload domain.Success
	require.NoError(t, json.Unmarshal([]byte(text.Text), &payload))
	require.Len(t, payload.Records, 1)
	require.NotNil(t, payload.TotalCount)
	assert.Equal(t, 1, *payload.TotalCount)
}

func TestHandler_MissingKeywordIsErrorResult(t *testing.T) {
	var upstreamCalls int
	upstream := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		upstreamCalls++
		w.Write([]byte(`{"error_code":0}`))
	})
	invoke := newTestPipeline(t, upstream)
	handler := buildHandler(domain.EndpointBaseInfo, invoke, func() string { return "valid-token" })

	result, err := handler(context.Background(), callRequest(domain.EndpointBaseInfo, map[string]any{}))
	require.NoError(t, err)
	require.True(t, result.IsError)

	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok)
	assert.Contains(t, text.Text, "company_keyword")
	assert.Zero(t, upstreamCalls, "no HTTP call may be made for invalid input")
}

func TestHandler_UpstreamAuthFailure(t *testing.T) {
	upstream := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"error_code":300002,"reason":"账号失效"}`))
	})
	invoke := newTestPipeline(t, upstream)
	handler := buildHandler(domain.EndpointBaseInfo, invoke, func() string { return "stale-token" })

	result, err := handler(context.Background(), callRequest(domain.EndpointBaseInfo, map[string]any{
		"company_keyword": "acme",
	}))
	require.NoError(t, err)
	require.True(t, result.IsError)

	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok)
	assert.Contains(t, text.Text, "token")
	assert.Contains(t, text.Text, "300002")
}

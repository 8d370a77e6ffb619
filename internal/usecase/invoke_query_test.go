package usecase_test

import (
	"context"
	"log/slog"
	"net/url"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/tycmcp/tianyancha-mcp/internal/domain"
	"github.com/tycmcp/tianyancha-mcp/internal/usecase"
)

// MockDispatcher is a mock implementation of the Dispatcher interface.
type MockDispatcher struct {
	mock.Mock
}

func (m *MockDispatcher) Dispatch(ctx context.Context, endpoint domain.EndpointDescriptor, query url.Values, credential string) ([]byte, error) {
	args := m.Called(ctx, endpoint, query, credential)
	var body []byte
	if b := args.Get(0); b != nil {
		body = b.([]byte)
	}
	return body, args.Error(1)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func newPipeline(t *testing.T, dispatcher usecase.Dispatcher) *usecase.InvokeQueryUseCase {
	t.Helper()
	registry := domain.MustNewRegistry(domain.DefaultDescriptors())
	return usecase.NewInvokeQueryUseCase(registry, dispatcher, testLogger())
}

func TestInvokeQuery_JudicialRiskEndToEnd(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)
	ctx := context.Background()

	dispatcher := new(MockDispatcher)
	body := []byte(`{"error_code":0,"reason":"ok","result":{"lawSuitList":[{"title":"合同纠纷"}],"zhixingList":[]}}`)
	dispatcher.On("Dispatch", ctx, mock.MatchedBy(func(d domain.EndpointDescriptor) bool {
		return d.Name == domain.EndpointJudicialRisk && d.Path == "/services/open/cb/judicial/2.0"
	}), mock.MatchedBy(func(q url.Values) bool {
		return q.Get("keyword") == "北京瑞莱智慧科技有限公司"
	}), "valid-token").Return(body, nil).Once()

	result := newPipeline(t, dispatcher).Execute(ctx, domain.EndpointJudicialRisk, map[string]any{
		"company_keyword": "北京瑞莱智慧科技有限公司",
	}, "valid-token")

	require.True(result.Succeeded())
	require.Len(result.Success.Records, 1)
	// The provider result is passed through unmodified.
	assert.JSONEq(`{"lawSuitList":[{"title":"合同纠纷"}],"zhixingList":[]}`, string(result.Success.Records[0]))
	dispatcher.AssertExpectations(t)
}

func TestInvokeQuery_MissingParameterSkipsDispatch(t *testing.T) {
	dispatcher := new(MockDispatcher)

	result := newPipeline(t, dispatcher).Execute(context.Background(), domain.EndpointJudicialRisk, map[string]any{}, "valid-token")

	require.False(t, result.Succeeded())
	assert.Equal(t, domain.FailureMissingParameter, result.Failure.Kind)
	assert.Contains(t, result.Failure.Message, "company_keyword")
	dispatcher.AssertNotCalled(t, "Dispatch", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestInvokeQuery_UnknownEndpoint(t *testing.T) {
	dispatcher := new(MockDispatcher)

	result := newPipeline(t, dispatcher).Execute(context.Background(), "tianyancha_nope", map[string]any{
		"company_keyword": "acme",
	}, "valid-token")

	require.False(t, result.Succeeded())
	assert.Equal(t, domain.FailureUnknownEndpoint, result.Failure.Kind)
	dispatcher.AssertNotCalled(t, "Dispatch", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestInvokeQuery_EmptyCredential(t *testing.T) {
	dispatcher := new(MockDispatcher)

	result := newPipeline(t, dispatcher).Execute(context.Background(), domain.EndpointBaseInfo, map[string]any{
		"company_keyword": "acme",
	}, "")

	require.False(t, result.Succeeded())
	assert.Equal(t, domain.FailureAuthenticationFailed, result.Failure.Kind)
	assert.Contains(t, result.Failure.Message, "token")
	dispatcher.AssertNotCalled(t, "Dispatch", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestInvokeQuery_DispatcherFailurePassthrough(t *testing.T) {
	dispatcher := new(MockDispatcher)
	failure := domain.NewFailure(domain.FailureTimeout, "request to provider timed out")
	dispatcher.On("Dispatch", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil, failure).Once()

	result := newPipeline(t, dispatcher).Execute(context.Background(), domain.EndpointBaseInfo, map[string]any{
		"company_keyword": "acme",
	}, "valid-token")

	require.False(t, result.Succeeded())
	assert.Equal(t, domain.FailureTimeout, result.Failure.Kind)
	dispatcher.AssertExpectations(t)
}

func TestInvokeQuery_AuthFailureCodePreserved(t *testing.T) {
	dispatcher := new(MockDispatcher)
	body := []byte(`{"error_code":300003,"reason":"账号过期"}`)
	dispatcher.On("Dispatch", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(body, nil).Once()

	result := newPipeline(t, dispatcher).Execute(context.Background(), domain.EndpointBaseInfo, map[string]any{
		"company_keyword": "acme",
	}, "expired-token")

	require.False(t, result.Succeeded())
	assert.Equal(t, domain.FailureAuthenticationFailed, result.Failure.Kind)
	assert.Equal(t, 300003, result.Failure.UpstreamCode)
	dispatcher.AssertExpectations(t)
}

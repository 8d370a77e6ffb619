package usecase

import (
	"context"
	"net/url"

	"github.com/tycmcp/tianyancha-mcp/internal/domain"
)

// Dispatcher performs the authenticated upstream HTTP call for one resolved
// invocation and returns the raw response body. Transport-level outcomes
// (timeouts, network failures, 5xx, cancellation) are returned as
// *domain.Failure errors already classified; interpretation of the body is
// not the dispatcher's concern.
//
// Implementations must be safe for concurrent use: one dispatcher instance is
// shared across all in-flight invocations.
type Dispatcher interface {
	Dispatch(ctx context.Context, endpoint domain.EndpointDescriptor, query url.Values, credential string) ([]byte, error)
}

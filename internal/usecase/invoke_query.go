package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/tycmcp/tianyancha-mcp/internal/domain"
)

// InvokeQueryUseCase is the shared request pipeline behind every lookup:
// descriptor resolution, credential check, parameter resolution, dispatch,
// and envelope interpretation. Per-invocation state never outlives Execute,
// so one instance serves all concurrent invocations.
type InvokeQueryUseCase struct {
	registry   *domain.Registry
	dispatcher Dispatcher
	logger     *slog.Logger
}

// NewInvokeQueryUseCase creates the pipeline over a registry and dispatcher.
func NewInvokeQueryUseCase(registry *domain.Registry, dispatcher Dispatcher, logger *slog.Logger) *InvokeQueryUseCase {
	return &InvokeQueryUseCase{
		registry:   registry,
		dispatcher: dispatcher,
		logger:     logger.With("usecase", "InvokeQuery"),
	}
}

// Execute runs one lookup end to end. Every outcome is a well-formed
// QueryResult; failures are classified values, never panics, and retries
// inside the dispatcher are invisible here except as latency.
func (uc *InvokeQueryUseCase) Execute(ctx context.Context, endpointName string, rawParams map[string]any, credential string) domain.QueryResult {
	log := uc.logger.With(slog.String("endpoint", endpointName))

	endpoint, err := uc.registry.Lookup(endpointName)
	if err != nil {
		log.Warn("Lookup requested for unregistered endpoint")
		return domain.QueryResult{Failure: domain.NewFailure(domain.FailureUnknownEndpoint,
			"no lookup named %q is registered", endpointName)}
	}

	if credential == "" {
		log.Warn("Invocation without API token")
		return domain.QueryResult{Failure: domain.NewFailure(domain.FailureAuthenticationFailed,
			"API token not configured; provide a valid Tianyancha API token in the server settings")}
	}

	query, failure := ResolveParams(endpoint, rawParams)
	if failure != nil {
		log.Warn("Parameter resolution failed", slog.String("reason", failure.Message))
		return domain.QueryResult{Failure: failure}
	}
	log.Debug("Parameters resolved", slog.String("query", query.Encode()))

	body, err := uc.dispatcher.Dispatch(ctx, endpoint, query, credential)
	if err != nil {
		var f *domain.Failure
		if !errors.As(err, &f) {
			f = domain.NewFailure(domain.FailureNetworkError, "request failed: %v", err)
		}
		log.Warn("Dispatch failed", slog.String("kind", string(f.Kind)), slog.String("reason", f.Message))
		return domain.QueryResult{Failure: f}
	}

	result := Interpret(endpoint, body)
	if result.Succeeded() {
		log.Info("Lookup succeeded", slog.Int("records", len(result.Success.Records)))
	} else {
		log.Warn("Lookup failed",
			slog.String("kind", string(result.Failure.Kind)),
			slog.Int("upstream_code", result.Failure.UpstreamCode))
	}
	return result
}

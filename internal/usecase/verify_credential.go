package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/tycmcp/tianyancha-mcp/internal/domain"
)

// probeKeyword is a well-known company used to exercise the cheapest lookup
// when validating a token. Any successful (or no-data) response proves the
// credential works.
const probeKeyword = "北京百度网讯科技有限公司"

// VerifyCredentialUseCase checks that an API token is accepted by the
// provider by running a probe lookup through the normal pipeline.
type VerifyCredentialUseCase struct {
	invoke *InvokeQueryUseCase
	logger *slog.Logger
}

// NewVerifyCredentialUseCase creates a credential verifier over the pipeline.
func NewVerifyCredentialUseCase(invoke *InvokeQueryUseCase, logger *slog.Logger) *VerifyCredentialUseCase {
	return &VerifyCredentialUseCase{
		invoke: invoke,
		logger: logger.With("usecase", "VerifyCredential"),
	}
}

// Execute returns nil when the token is usable. A not_found outcome still
// proves the token authenticated, so it counts as success.
func (uc *VerifyCredentialUseCase) Execute(ctx context.Context, credential string) error {
	uc.logger.Info("Verifying API credential")

	result := uc.invoke.Execute(ctx, domain.EndpointBaseInfo, map[string]any{
		domain.ParamCompanyKeyword: probeKeyword,
	}, credential)

	if result.Succeeded() || result.Failure.Kind == domain.FailureNotFound {
		uc.logger.Info("API credential verified")
		return nil
	}

	uc.logger.Warn("API credential verification failed",
		slog.String("kind", string(result.Failure.Kind)),
		slog.String("reason", result.Failure.Message))
	return fmt.Errorf("credential verification failed: %w", result.Failure)
}

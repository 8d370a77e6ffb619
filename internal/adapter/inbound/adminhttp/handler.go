// Package adminhttp serves the operational endpoints that live next to the
// MCP transport: credential verification and a liveness probe.
package adminhttp

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/tycmcp/tianyancha-mcp/internal/usecase"
)

// Handlers holds dependencies for the admin HTTP endpoints.
type Handlers struct {
	verifyUseCase *usecase.VerifyCredentialUseCase
	credential    func() string
	logger        *slog.Logger
}

// NewHandlers creates the admin handlers. credential resolves the configured
// token for verify requests that do not carry their own.
func NewHandlers(verifyUC *usecase.VerifyCredentialUseCase, credential func() string, logger *slog.Logger) *Handlers {
	return &Handlers{
		verifyUseCase: verifyUC,
		credential:    credential,
		logger:        logger.With("component", "adminhttp_handler"),
	}
}

// RegisterRoutes sets up the admin routes on the given mux.
func (h *Handlers) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /admin/verify", h.handleVerify)
	mux.HandleFunc("GET /healthz", h.handleHealth)
}

// VerifyRequest is the JSON body for POST /admin/verify. Token is optional;
// when absent the server's configured token is verified.
type VerifyRequest struct {
	Token string `json:"token,omitempty"`
}

func (h *Handlers) handleVerify(w http.ResponseWriter, r *http.Request) {
	var req VerifyRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.logger.Warn("Failed to decode verify request body", slog.Any("error", err))
			http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
			return
		}
	}
	defer r.Body.Close()

	token := req.Token
	if token == "" {
		token = h.credential()
	}

	h.logger.Info("Received credential verify request")
	if err := h.verifyUseCase.Execute(r.Context(), token); err != nil {
		h.logger.Warn("Credential verification failed", slog.Any("error", err))
		http.Error(w, fmt.Sprintf("Credential verification failed: %v", err), http.StatusUnauthorized)
		return
	}

	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "Credential verified.")
}

func (h *Handlers) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "ok")
}

package domain

import (
	"encoding/json"
	"fmt"
)

// FailureKind is the closed taxonomy of invocation failures surfaced to the
// caller. Every failure the pipeline can produce maps to exactly one kind.
type FailureKind string

const (
	FailureMissingParameter     FailureKind = "missing_parameter"
	FailureInvalidParameter     FailureKind = "invalid_parameter"
	FailureUnknownEndpoint      FailureKind = "unknown_endpoint"
	FailureAuthenticationFailed FailureKind = "authentication_failed"
	FailureRateLimited          FailureKind = "rate_limited"
	FailureQuotaExceeded        FailureKind = "quota_exceeded"
	FailureNotFound             FailureKind = "not_found"
	FailureTimeout              FailureKind = "timeout"
	FailureNetworkError         FailureKind = "network_error"
	FailureCancelled            FailureKind = "cancelled"
	FailureProtocolError        FailureKind = "protocol_error"
	FailureUpstreamServerError  FailureKind = "upstream_server_error"
)

// Failure is a classified, caller-facing invocation failure. The message must
// be self-explanatory: the host renders it directly to the calling LLM with no
// upstream code table on its side.
type Failure struct {
	Kind         FailureKind `json:"kind"`
	Message      string      `json:"message"`
	UpstreamCode int         `json:"upstream_code,omitempty"`
}

func (f *Failure) Error() string {
	if f.UpstreamCode != 0 {
		return fmt.Sprintf("%s (upstream code %d): %s", f.Kind, f.UpstreamCode, f.Message)
	}
	return fmt.Sprintf("%s: %s", f.Kind, f.Message)
}

// NewFailure builds a Failure with a formatted message.
func NewFailure(kind FailureKind, format string, args ...any) *Failure {
	return &Failure{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Success is the normalized payload of a completed lookup. Records are opaque
// provider JSON passed through unmodified. For paginated endpoints TotalCount
// carries the upstream total; for the rest it is nil.
type Success struct {
	Records    []json.RawMessage `json:"records"`
	TotalCount *int              `json:"total_count,omitempty"`
}

// QueryResult is the outcome of one invocation: exactly one of Success or
// Failure is set.
type QueryResult struct {
	Success *Success `json:"success,omitempty"`
	Failure *Failure `json:"failure,omitempty"`
}

// Succeeded reports whether the invocation produced a Success payload.
func (r QueryResult) Succeeded() bool {
	return r.Success != nil
}

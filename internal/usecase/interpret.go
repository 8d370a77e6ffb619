package usecase

import (
	"bytes"
	"encoding/json"

	"github.com/tycmcp/tianyancha-mcp/internal/domain"
)

// envelope mirrors the provider's uniform response wrapper. The field names
// are the provider's external contract and must not be renamed.
type envelope struct {
	ErrorCode *int            `json:"error_code"`
	Reason    string          `json:"reason"`
	Result    json.RawMessage `json:"result"`
}

// pagedResult is the shape of envelope.Result on paginated endpoints. The
// items field name varies per endpoint (descriptor.ItemsKey), so items are
// extracted from the raw object instead of being bound here.
type pagedResult struct {
	Total *int `json:"total"`
}

const bodySnippetLimit = 256

// Interpret translates a raw upstream response body into a QueryResult.
// It never panics on malformed input; anything that does not parse as the
// provider envelope is a protocol_error carrying a truncated body snippet.
func Interpret(endpoint domain.EndpointDescriptor, body []byte) domain.QueryResult {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return failureResult(domain.NewFailure(domain.FailureProtocolError,
			"upstream returned a malformed response body: %v (body: %s)", err, bodySnippet(body)))
	}
	if env.ErrorCode == nil {
		return failureResult(domain.NewFailure(domain.FailureProtocolError,
			"upstream response is missing the error_code field (body: %s)", bodySnippet(body)))
	}

	if *env.ErrorCode != 0 {
		f := classifyUpstream(*env.ErrorCode, env.Reason)
		f.UpstreamCode = *env.ErrorCode
		return failureResult(f)
	}

	if endpoint.Paginated {
		return interpretPaged(endpoint, env.Result)
	}

	// Non-paginated endpoints return one result object, passed through
	// unmodified. An empty result is a legitimate no-records outcome.
	success := &domain.Success{Records: []json.RawMessage{}}
	if !isEmptyResult(env.Result) {
		success.Records = append(success.Records, env.Result)
	}
	return domain.QueryResult{Success: success}
}

func interpretPaged(endpoint domain.EndpointDescriptor, result json.RawMessage) domain.QueryResult {
	success := &domain.Success{Records: []json.RawMessage{}}
	if isEmptyResult(result) {
		return domain.QueryResult{Success: success}
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(result, &fields); err != nil {
		return failureResult(domain.NewFailure(domain.FailureProtocolError,
			"upstream result is not an object: %v (body: %s)", err, bodySnippet(result)))
	}

	if items, ok := fields[endpoint.ItemsKey]; ok && !isEmptyResult(items) {
		var records []json.RawMessage
		if err := json.Unmarshal(items, &records); err != nil {
			return failureResult(domain.NewFailure(domain.FailureProtocolError,
				"upstream %q field is not an array: %v (body: %s)", endpoint.ItemsKey, err, bodySnippet(items)))
		}
		success.Records = records
	}

	var paged pagedResult
	if err := json.Unmarshal(result, &paged); err == nil && paged.Total != nil {
		success.TotalCount = paged.Total
	}

	return domain.QueryResult{Success: success}
}

// Provider error codes, from the published Tianyancha open-platform table.
// 0 is the success sentinel and never reaches this map.
const (
	codeNoData           = 300000
	codeRequestFailed    = 300001
	codeAccountInvalid   = 300002
	codeAccountExpired   = 300003
	codeRateLimited      = 300004
	codeNoAPIPermission  = 300005
	codeBalanceExhausted = 300006
	codeQuotaExhausted   = 300007
	codeMissingParameter = 300008
	codeAccountInfoWrong = 300009
	codeURLNotFound      = 300010
	codeIPNotPermitted   = 300011
	codeReportGenerating = 300012
)

func classifyUpstream(code int, reason string) *domain.Failure {
	if reason == "" {
		reason = "no reason given by provider"
	}
	switch code {
	case codeNoData:
		return domain.NewFailure(domain.FailureNotFound,
			"no matching company or records found: %s", reason)
	case codeAccountInvalid, codeAccountExpired, codeAccountInfoWrong:
		return domain.NewFailure(domain.FailureAuthenticationFailed,
			"the provider rejected the API token (%s); check that the configured token is valid and not expired", reason)
	case codeRateLimited:
		return domain.NewFailure(domain.FailureRateLimited,
			"the provider is throttling requests (%s); slow down and retry later", reason)
	case codeNoAPIPermission, codeIPNotPermitted:
		return domain.NewFailure(domain.FailureAuthenticationFailed,
			"the API token is not permitted to call this endpoint (%s)", reason)
	case codeBalanceExhausted, codeQuotaExhausted:
		return domain.NewFailure(domain.FailureQuotaExceeded,
			"the provider account has no remaining quota (%s); top up the account before retrying", reason)
	case codeMissingParameter, codeURLNotFound:
		return domain.NewFailure(domain.FailureProtocolError,
			"the provider rejected the request as malformed (%s)", reason)
	case codeRequestFailed, codeReportGenerating:
		return domain.NewFailure(domain.FailureUpstreamServerError,
			"the provider could not complete the request (%s); retry later", reason)
	default:
		return domain.NewFailure(domain.FailureUpstreamServerError,
			"the provider returned an unrecognized error (%s)", reason)
	}
}

func isEmptyResult(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	switch string(trimmed) {
	case "", "null", "{}", "[]", `""`:
		return true
	}
	return false
}

func bodySnippet(body []byte) string {
	if len(body) > bodySnippetLimit {
		return string(body[:bodySnippetLimit]) + "..."
	}
	return string(body)
}

func failureResult(f *domain.Failure) domain.QueryResult {
	return domain.QueryResult{Failure: f}
}

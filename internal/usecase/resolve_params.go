package usecase

import (
	"encoding/json"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/tycmcp/tianyancha-mcp/internal/domain"
)

// ResolveParams turns raw caller-supplied values into the validated query
// string for one endpoint. Raw values arrive through a JSON transport, so
// numerics may show up as float64, json.Number, or plain strings; all are
// coerced against the descriptor's declared kinds.
//
// Paginated endpoints have page_size clamped into [1,50] and page_num into
// [1,inf). Out-of-range paging input is clamped, not rejected: LLM-driven
// callers routinely guess plausible-but-wrong bounds, and a clamp keeps the
// tool usable where a validation error would dead-end the conversation.
func ResolveParams(endpoint domain.EndpointDescriptor, raw map[string]any) (url.Values, *domain.Failure) {
	query := url.Values{}

	for _, p := range endpoint.Parameters {
		value, present := raw[p.Name]
		if !present || isEmpty(value) {
			if p.Required {
				return nil, domain.NewFailure(domain.FailureMissingParameter,
					"required parameter %q is missing or empty", p.Name)
			}
			if p.Default == nil {
				continue
			}
			value = p.Default
		}

		switch p.Kind {
		case domain.ParamKindString:
			s, err := coerceString(value)
			if err != nil {
				return nil, domain.NewFailure(domain.FailureInvalidParameter,
					"parameter %q: %v", p.Name, err)
			}
			query.Set(p.UpstreamName, strings.TrimSpace(s))

		case domain.ParamKindInt:
			n, err := coerceInt(value)
			if err != nil {
				return nil, domain.NewFailure(domain.FailureInvalidParameter,
					"parameter %q: %v", p.Name, err)
			}
			if endpoint.Paginated {
				n = clampPaging(p.Name, n)
			}
			query.Set(p.UpstreamName, strconv.Itoa(n))
		}
	}

	return query, nil
}

func isEmpty(v any) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	return ok && strings.TrimSpace(s) == ""
}

// coerceString accepts scalar shapes only. Composite values (objects,
// arrays) would stringify as Go syntax and reach the upstream as garbage, so
// they are rejected instead.
func coerceString(v any) (string, error) {
	switch s := v.(type) {
	case string:
		return s, nil
	case json.Number:
		return s.String(), nil
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64), nil
	case int:
		return strconv.Itoa(s), nil
	case int32:
		return strconv.FormatInt(int64(s), 10), nil
	case int64:
		return strconv.FormatInt(s, 10), nil
	default:
		return "", fmt.Errorf("unsupported value type %T", v)
	}
}

// coerceInt accepts the numeric shapes a JSON-borne parameter can take.
func coerceInt(v any) (int, error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case int32:
		return int(n), nil
	case int64:
		if n > math.MaxInt32 || n < math.MinInt32 {
			return 0, fmt.Errorf("value %d outside valid range", n)
		}
		return int(n), nil
	case float64:
		if n != math.Trunc(n) {
			return 0, fmt.Errorf("value %v is not an integer", n)
		}
		if n > math.MaxInt32 || n < math.MinInt32 {
			return 0, fmt.Errorf("value %v outside valid range", n)
		}
		return int(n), nil
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, fmt.Errorf("value %q is not an integer", n.String())
		}
		return coerceInt(i)
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(n))
		if err != nil {
			return 0, fmt.Errorf("value %q is not numeric", n)
		}
		return i, nil
	default:
		return 0, fmt.Errorf("unsupported value type %T", v)
	}
}

func clampPaging(name string, n int) int {
	switch name {
	case domain.ParamPageSize:
		if n < domain.PageSizeMin {
			return domain.PageSizeMin
		}
		if n > domain.PageSizeMax {
			return domain.PageSizeMax
		}
	case domain.ParamPageNum:
		if n < domain.PageNumMin {
			return domain.PageNumMin
		}
	}
	return n
}

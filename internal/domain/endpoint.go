package domain

import (
	"errors"
	"fmt"
)

// ParamKind is the logical type of a tool parameter as declared in a descriptor.
type ParamKind string

const (
	ParamKindString ParamKind = "string"
	ParamKindInt    ParamKind = "int"
)

// Pagination bounds shared by every paginated endpoint.
const (
	PageSizeDefault = 20
	PageSizeMax     = 50
	PageSizeMin     = 1
	PageNumDefault  = 1
	PageNumMin      = 1
)

// Host-side parameter names. The upstream query keys differ (see UpstreamName).
const (
	ParamCompanyKeyword = "company_keyword"
	ParamPageSize       = "page_size"
	ParamPageNum        = "page_num"
)

// Parameter declares one input of a logical query.
// Name is the host-facing (MCP tool) name; UpstreamName is the query-string
// key the provider expects, which is not always the same (page_size vs pageSize).
type Parameter struct {
	Name         string
	UpstreamName string
	Kind         ParamKind
	Required     bool
	Default      any
	Description  string
}

// EndpointDescriptor is the static, immutable description of one logical query
// against the provider API. The seven concrete descriptors are registry data;
// there is no per-endpoint code.
type EndpointDescriptor struct {
	// Name uniquely identifies the logical query and doubles as the MCP tool name.
	Name string

	// Description is surfaced verbatim in the tool manifest for the calling LLM.
	Description string

	// Path is the upstream resource path under the provider base URL.
	Path string

	// Parameters in declaration order. Order is preserved through resolution
	// so request URLs are stable and easy to assert on.
	Parameters []Parameter

	// Paginated marks endpoints that accept page_size/page_num.
	Paginated bool

	// ItemsKey names the field inside a paginated result object that holds the
	// page of records. Most endpoints use "items"; the guarantees endpoint
	// nests its page under "result".
	ItemsKey string
}

// Param returns the declared parameter with the given host-side name.
func (d EndpointDescriptor) Param(name string) (Parameter, bool) {
	for _, p := range d.Parameters {
		if p.Name == name {
			return p, true
		}
	}
	return Parameter{}, false
}

// ErrUnknownEndpoint is returned by Registry.Lookup for unregistered names.
var ErrUnknownEndpoint = errors.New("unknown endpoint")

// Registry maps logical query names to their descriptors. It is built once at
// startup, validated eagerly, and never mutated, so it is safe to share across
// concurrent invocations without locking.
type Registry struct {
	byName map[string]EndpointDescriptor
	names  []string
}

// NewRegistry validates the given descriptors and builds a registry.
// Malformed descriptors fail here, at process start, never at call time.
func NewRegistry(descriptors []EndpointDescriptor) (*Registry, error) {
	r := &Registry{byName: make(map[string]EndpointDescriptor, len(descriptors))}
	for _, d := range descriptors {
		if err := validateDescriptor(d); err != nil {
			return nil, fmt.Errorf("descriptor %q: %w", d.Name, err)
		}
		if _, exists := r.byName[d.Name]; exists {
			return nil, fmt.Errorf("descriptor %q: duplicate name", d.Name)
		}
		r.byName[d.Name] = d
		r.names = append(r.names, d.Name)
	}
	return r, nil
}

// MustNewRegistry is NewRegistry for static descriptor tables known at compile
// time, where a validation failure is a programming error.
func MustNewRegistry(descriptors []EndpointDescriptor) *Registry {
	r, err := NewRegistry(descriptors)
	if err != nil {
		panic(fmt.Sprintf("invalid endpoint registry: %v", err))
	}
	return r
}

// Lookup returns the descriptor registered under name.
func (r *Registry) Lookup(name string) (EndpointDescriptor, error) {
	d, ok := r.byName[name]
	if !ok {
		return EndpointDescriptor{}, fmt.Errorf("%w: %s", ErrUnknownEndpoint, name)
	}
	return d, nil
}

// Names returns the registered endpoint names in registration order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

// All returns every registered descriptor in registration order.
func (r *Registry) All() []EndpointDescriptor {
	out := make([]EndpointDescriptor, 0, len(r.names))
	for _, name := range r.names {
		out = append(out, r.byName[name])
	}
	return out
}

func validateDescriptor(d EndpointDescriptor) error {
	if d.Name == "" {
		return errors.New("empty name")
	}
	if d.Path == "" {
		return errors.New("empty path")
	}
	seen := make(map[string]struct{}, len(d.Parameters))
	for _, p := range d.Parameters {
		if p.Name == "" || p.UpstreamName == "" {
			return fmt.Errorf("parameter with empty name (upstream %q)", p.UpstreamName)
		}
		if p.Kind != ParamKindString && p.Kind != ParamKindInt {
			return fmt.Errorf("parameter %s: unknown kind %q", p.Name, p.Kind)
		}
		if _, dup := seen[p.Name]; dup {
			return fmt.Errorf("parameter %s: duplicate declaration", p.Name)
		}
		seen[p.Name] = struct{}{}
		if p.Required && p.Default != nil {
			return fmt.Errorf("parameter %s: required parameters cannot carry defaults", p.Name)
		}
	}

	if !d.Paginated {
		if _, has := seen[ParamPageSize]; has {
			return errors.New("page_size declared on a non-paginated endpoint")
		}
		if _, has := seen[ParamPageNum]; has {
			return errors.New("page_num declared on a non-paginated endpoint")
		}
		return nil
	}

	// Every paginated descriptor declares exactly the two optional numeric
	// paging parameters with the shared defaults.
	ps, ok := d.Param(ParamPageSize)
	if !ok || ps.Kind != ParamKindInt || ps.Required || ps.Default != PageSizeDefault {
		return errors.New("paginated endpoint must declare optional int page_size with default 20")
	}
	pn, ok := d.Param(ParamPageNum)
	if !ok || pn.Kind != ParamKindInt || pn.Required || pn.Default != PageNumDefault {
		return errors.New("paginated endpoint must declare optional int page_num with default 1")
	}
	if d.ItemsKey == "" {
		return errors.New("paginated endpoint must declare an items key")
	}
	return nil
}

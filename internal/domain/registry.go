package domain

// Tool names exposed over MCP. These match the provider plugin naming so that
// hosts migrating from the original plugin keep their tool references.
const (
	EndpointBaseInfo     = "tianyancha_base_info"
	EndpointBusinessInfo = "tianyancha_business_info"
	EndpointJudicialRisk = "tianyancha_judicial_risk"
	EndpointIllegalInfo  = "tianyancha_illegal_info"
	EndpointMortgage     = "tianyancha_mortgage"
	EndpointGuarantees   = "tianyancha_guarantees"
	EndpointPublicNotice = "tianyancha_public_notice"
)

func keywordParam() Parameter {
	return Parameter{
		Name:         ParamCompanyKeyword,
		UpstreamName: "keyword",
		Kind:         ParamKindString,
		Required:     true,
		Description:  "Company name, registration number, or Tianyancha company ID to look up",
	}
}

func pagingParams() []Parameter {
	return []Parameter{
		{
			Name:         ParamPageSize,
			UpstreamName: "pageSize",
			Kind:         ParamKindInt,
			Default:      PageSizeDefault,
			Description:  "Records per page (1-50, default 20)",
		},
		{
			Name:         ParamPageNum,
			UpstreamName: "pageNum",
			Kind:         ParamKindInt,
			Default:      PageNumDefault,
			Description:  "Page number, starting at 1 (default 1)",
		},
	}
}

// DefaultDescriptors returns the static descriptor table for the seven
// Tianyancha lookups. The paths and paging key names are the provider's
// external contract and must be mirrored exactly.
func DefaultDescriptors() []EndpointDescriptor {
	return []EndpointDescriptor{
		{
			Name:        EndpointBaseInfo,
			Description: "Get enterprise basic registration information (legal representative, registered capital, status, address) for a Chinese company.",
			Path:        "/services/open/ic/baseinfo/normal",
			Parameters:  []Parameter{keywordParam()},
		},
		{
			Name:        EndpointBusinessInfo,
			Description: "Get detailed enterprise business information including shareholders, key staff, branches, and change records.",
			Path:        "/services/open/cb/ic/2.0",
			Parameters:  []Parameter{keywordParam()},
		},
		{
			Name:        EndpointJudicialRisk,
			Description: "Get enterprise judicial risk information: lawsuits, court hearing announcements, executed persons, and case filings.",
			Path:        "/services/open/cb/judicial/2.0",
			Parameters:  []Parameter{keywordParam()},
		},
		{
			Name:        EndpointIllegalInfo,
			Description: "Get serious-illegal-activity records registered against an enterprise.",
			Path:        "/services/open/mr/illegalinfo/2.0",
			Parameters:  append([]Parameter{keywordParam()}, pagingParams()...),
			Paginated:   true,
			ItemsKey:    "items",
		},
		{
			Name:        EndpointMortgage,
			Description: "Get chattel mortgage notices registered against an enterprise.",
			Path:        "/services/open/mr/mortgageInfo/2.0",
			Parameters:  append([]Parameter{keywordParam()}, pagingParams()...),
			Paginated:   true,
			ItemsKey:    "items",
		},
		{
			Name:        EndpointGuarantees,
			Description: "Get external guarantee notices published by a listed enterprise.",
			Path:        "/services/open/stock/guarantees/2.0",
			Parameters:  append([]Parameter{keywordParam()}, pagingParams()...),
			Paginated:   true,
			// This endpoint nests its page under result.result rather than result.items.
			ItemsKey: "result",
		},
		{
			Name:        EndpointPublicNotice,
			Description: "Get bill public-notice and urging (催告) records for an enterprise.",
			Path:        "/services/v4/open/publicNotice",
			Parameters:  append([]Parameter{keywordParam()}, pagingParams()...),
			Paginated:   true,
			ItemsKey:    "items",
		},
	}
}

package parser

import (
	"strconv"
	"strings"

	"github.com/mikekonan/dlt-init/types"
)

// paginator guesses the pagination style from query parameters and the response shape.
// Endpoints without a recognised style are read as a single page.
func (parser *Parser) paginator(endpoint *types.Endpoint) *types.Paginator {
	single := &types.Paginator{Kind: types.PaginatorSinglePage}

	if endpoint.ListProperty() == nil {
		return single
	}

	var response *types.Property
	if len(endpoint.Responses) > 0 {
		response = endpoint.Responses[0].Prop
	}

	limitParam, limit := parser.limit(endpoint)

	if param := queryParameter(endpoint, offsetParams); param != nil {
		return &types.Paginator{
			Kind:         types.PaginatorOffset,
			Param:        param.Name,
			LimitParam:   limitParam,
			Limit:        limit,
			ResponsePath: responsePath(response, totalNames, isNumber),
		}
	}

	if param := queryParameter(endpoint, pageParams); param != nil {
		return &types.Paginator{
			Kind:         types.PaginatorPageNumber,
			Param:        param.Name,
			LimitParam:   limitParam,
			Limit:        limit,
			ResponsePath: responsePath(response, totalPagesNames, isNumber),
		}
	}

	if param := queryParameter(endpoint, cursorParams); param != nil {
		if path := responsePath(response, cursorTokenNames, isScalar); path != "" {
			return &types.Paginator{Kind: types.PaginatorCursor, Param: param.Name, ResponsePath: path}
		}
	}

	if path := responsePath(response, nextLinkNames, isString); path != "" {
		return &types.Paginator{Kind: types.PaginatorJSONLink, ResponsePath: path}
	}

	for _, candidate := range endpoint.Responses {
		if candidate.StatusCode < 200 || candidate.StatusCode > 299 {
			continue
		}

		for _, header := range candidate.Headers {
			if strings.EqualFold(header, "link") {
				return &types.Paginator{Kind: types.PaginatorHeaderLink}
			}
		}
	}

	return single
}

// limit returns the page size parameter and its default or the default page size.
func (parser *Parser) limit(endpoint *types.Endpoint) (string, int) {
	param := queryParameter(endpoint, limitParams)
	if param == nil {
		return "", 0
	}

	if value, err := strconv.Atoi(param.Default); err == nil && value > 0 {
		return param.Name, value
	}

	return param.Name, defaultPageSize
}

func queryParameter(endpoint *types.Endpoint, names []string) *types.Property {
	for _, name := range names {
		for _, parameter := range endpoint.QueryParameters {
			if parameter.Name == name && (parameter.Kind == types.KindInteger || parameter.Kind == types.KindString || parameter.Kind == types.KindNumber) {
				return parameter
			}
		}
	}

	return nil
}

func responsePath(response *types.Property, names []string, match func(*types.Property) bool) string {
	if response == nil || response.Kind != types.KindModel {
		return ""
	}

	wanted := make(map[string]bool, len(names))
	for _, name := range names {
		wanted[name] = true
	}

	path := searchProperty(response, listSearchDepth, names, func(property *types.Property) bool {
		return wanted[property.Name] && match(property)
	})
	if path == nil {
		return ""
	}

	return strings.Join(path.names, ".")
}

func isNumber(property *types.Property) bool {
	return property.Kind == types.KindInteger || property.Kind == types.KindNumber
}

func isString(property *types.Property) bool {
	return property.Kind == types.KindString
}

func isScalar(property *types.Property) bool {
	return isString(property) || isNumber(property)
}

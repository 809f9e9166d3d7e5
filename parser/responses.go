package parser

import (
	"sort"
	"strconv"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/mikekonan/dlt-init/types"
)

const listSearchDepth = 2

// responses reads every response with a numeric status code; the first one in status
// order is the one resources extract records from.
func (parser *Parser) responses(endpoint *types.Endpoint, operation *openapi3.Operation, cache *schemas) {
	if operation.Responses == nil {
		return
	}

	codes := make([]string, 0, operation.Responses.Len())
	for code := range operation.Responses.Map() {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	for _, code := range codes {
		if code == "default" {
			continue
		}

		status, err := strconv.Atoi(code)
		if err != nil || status < 100 || status > 599 {
			endpoint.Errors = append(endpoint.Errors,
				types.NewWarning("Invalid response status code "+code+" (not a valid HTTP status code), response will be omitted from generated client", "").At(endpoint.Location()))
			continue
		}

		ref := operation.Responses.Value(code)
		response := &types.Response{StatusCode: status}

		if ref != nil && ref.Value != nil {
			for _, mediaType := range sortedContentTypes(ref.Value.Content) {
				content := ref.Value.Content[mediaType]
				if !isJSON(mediaType) || content == nil || content.Schema == nil {
					continue
				}

				response.Prop = parser.propertyFromSchema("response_"+code, true, content.Schema, endpoint.Name, cache)
				response.ListProperty = findListProperty(response.Prop)

				break
			}

			for header := range ref.Value.Headers {
				response.Headers = append(response.Headers, header)
			}
			sort.Strings(response.Headers)
		}

		endpoint.Responses = append(endpoint.Responses, response)
	}
}

// findListProperty locates the records list: the response itself when it is an array, or
// the shallowest array of objects within two levels, preferring common envelope names.
func findListProperty(root *types.Property) *types.DataPropertyPath {
	if root == nil {
		return nil
	}

	if isRecordList(root) {
		return &types.DataPropertyPath{Path: []string{}, Prop: root.Items}
	}

	if root.Kind != types.KindModel {
		return nil
	}

	path := searchProperty(root, listSearchDepth, preferredListNames, isRecordList)
	if path == nil {
		return nil
	}

	return &types.DataPropertyPath{Path: path.names, Prop: path.property.Items}
}

func isRecordList(property *types.Property) bool {
	return property.Kind == types.KindList && property.Items != nil &&
		(property.Items.IsDict() || property.Items.Kind == types.KindAny || property.Items.Kind == types.KindUnion)
}

type propertyPath struct {
	names    []string
	property *types.Property
}

// searchProperty walks model properties breadth first. At each depth a match whose name
// is in preferred wins over other matches.
func searchProperty(root *types.Property, maxDepth int, preferred []string, match func(*types.Property) bool) *propertyPath {
	level := []propertyPath{{names: []string{}, property: root}}

	for depth := 0; depth < maxDepth && len(level) > 0; depth++ {
		var (
			next    []propertyPath
			matches []propertyPath
		)

		for _, current := range level {
			for _, child := range current.property.Properties {
				names := append(append([]string{}, current.names...), child.Name)
				candidate := propertyPath{names: names, property: child}

				if match(child) {
					matches = append(matches, candidate)
				}

				if child.Kind == types.KindModel {
					next = append(next, candidate)
				}
			}
		}

		for _, name := range preferred {
			for _, candidate := range matches {
				if candidate.property.Name == name {
					return &candidate
				}
			}
		}

		if len(matches) > 0 {
			return &matches[0]
		}

		level = next
	}

	return nil
}

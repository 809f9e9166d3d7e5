package parser

import (
	"sort"
	"strings"

	"github.com/ahmetb/go-linq"
	"github.com/getkin/kin-openapi/openapi3"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cast"

	"github.com/mikekonan/dlt-init/configurator"
	"github.com/mikekonan/dlt-init/normalizer"
	"github.com/mikekonan/dlt-init/types"
)

// Parser builds the endpoint model the generator renders from a loaded document.
type Parser struct {
	config     *configurator.Config   `di.inject:"config"`
	normalizer *normalizer.Normalizer `di.inject:"normalizer"`
}

func New(config *configurator.Config, normalizer *normalizer.Normalizer) *Parser {
	return &Parser{config: config, normalizer: normalizer}
}

// Parse walks paths in sorted order. Endpoints that can not be parsed are dropped and
// their errors are kept on the collection of their tag.
func (parser *Parser) Parse(doc *openapi3.T) *types.GeneratorData {
	data := &types.GeneratorData{Endpoints: types.NewEndpoints()}

	if doc.Info != nil {
		data.Title = doc.Info.Title
		data.Version = doc.Info.Version
		data.Description = strings.TrimSpace(doc.Info.Description)
	}

	for _, server := range doc.Servers {
		if server == nil {
			continue
		}

		data.Servers = append(data.Servers, types.Server{URL: strings.TrimSuffix(server.URL, "/"), Description: server.Description})
	}

	schemes, warnings := parser.securitySchemes(doc)
	data.Errors = append(data.Errors, warnings...)
	linq.From(schemes).
		OrderByT(func(kv linq.KeyValue) string { return cast.ToString(kv.Key) }).
		SelectT(func(kv linq.KeyValue) *types.SecurityScheme { return kv.Value.(*types.SecurityScheme) }).
		ToSlice(&data.SecuritySchemes)

	if doc.Paths == nil {
		return data
	}

	cache := newSchemas()
	pythonNames := map[string]string{}

	paths := make([]string, 0, doc.Paths.Len())
	for path := range doc.Paths.Map() {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	for _, path := range paths {
		item := doc.Paths.Value(path)
		if item == nil {
			continue
		}

		for _, method := range sortedMethods(item) {
			operation := item.GetOperation(method)
			tag := parser.tag(operation)

			endpoint, err := parser.endpoint(doc, path, method, item, operation, schemes, cache)
			if err != nil {
				logrus.WithField("endpoint", method+" "+path).Debug(err.Error())
				data.Endpoints.AddError(tag, err)
				continue
			}

			if other, ok := pythonNames[endpoint.PythonName]; ok {
				data.Endpoints.AddError(tag, types.NewWarning("Duplicate endpoint name",
					"'"+endpoint.PythonName+"' is already used by "+other+", the endpoint is skipped").At(endpoint.Location()))
				continue
			}

			pythonNames[endpoint.PythonName] = endpoint.Location()
			data.Endpoints.Add(endpoint)
		}
	}

	return data
}

func sortedMethods(item *openapi3.PathItem) []string {
	var methods []string

	linq.From(item.Operations()).
		SelectT(func(kv linq.KeyValue) string { return strings.ToUpper(cast.ToString(kv.Key)) }).
		OrderByT(func(method string) int {
			for i, known := range methodsOrder {
				if known == method {
					return i
				}
			}

			return len(methodsOrder)
		}).
		ToSlice(&methods)

	return methods
}

func (parser *Parser) tag(operation *openapi3.Operation) string {
	if operation == nil || len(operation.Tags) == 0 {
		return DefaultTag
	}

	return parser.normalizer.PythonIdentifier(operation.Tags[0])
}

func (parser *Parser) endpoint(doc *openapi3.T, path string, method string, item *openapi3.PathItem, operation *openapi3.Operation, schemes map[string]*types.SecurityScheme, cache *schemas) (*types.Endpoint, *types.GeneratorError) {
	name := operation.OperationID
	if name == "" {
		name = parser.normalizer.OperationID(path, method)
	}

	endpoint := &types.Endpoint{
		Path:        path,
		Method:      strings.ToLower(method),
		Name:        name,
		PythonName:  parser.normalizer.PythonIdentifier(name),
		Tag:         parser.tag(operation),
		Summary:     strings.TrimSpace(operation.Summary),
		Description: strings.TrimSpace(operation.Description),
		Selected:    true,
	}

	builder := newParametersBuilder(parser, endpoint, cache)

	if err := builder.add(operation.Parameters); err != nil {
		return nil, err.At(endpoint.Location())
	}

	if err := builder.add(item.Parameters); err != nil {
		return nil, err.At(endpoint.Location())
	}

	if err := builder.sort(); err != nil {
		return nil, err.At(endpoint.Location())
	}

	builder.body(operation.RequestBody)
	builder.apply()

	parser.responses(endpoint, operation, cache)
	parser.security(doc, endpoint, operation, schemes)
	endpoint.Paginator = parser.paginator(endpoint)

	return endpoint, nil
}

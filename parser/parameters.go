package parser

import (
	"mime"
	"regexp"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/mikekonan/dlt-init/types"
)

var pathTemplateRegex = regexp.MustCompile(`\{([^{}/]+)\}`)

type parameterKey struct {
	name string
	in   string
}

// parametersBuilder collects the parameters of one endpoint. Operation parameters are
// added first, so path item parameters with the same name and location are ignored.
type parametersBuilder struct {
	parser   *Parser
	endpoint *types.Endpoint
	cache    *schemas

	byLocation map[types.ParameterLocation][]*types.Property
	used       map[string]bool
}

func newParametersBuilder(parser *Parser, endpoint *types.Endpoint, cache *schemas) *parametersBuilder {
	return &parametersBuilder{
		parser:     parser,
		endpoint:   endpoint,
		cache:      cache,
		byLocation: map[types.ParameterLocation][]*types.Property{},
		used:       map[string]bool{},
	}
}

func (builder *parametersBuilder) add(parameters openapi3.Parameters) *types.GeneratorError {
	seen := map[parameterKey]bool{}

	for _, ref := range parameters {
		if ref == nil || ref.Value == nil {
			reference := ""
			if ref != nil {
				reference = ref.Ref
			}

			return types.NewParseError("", "Unable to resolve parameter reference %s", reference)
		}

		parameter := ref.Value
		if parameter.Schema == nil {
			continue
		}

		key := parameterKey{name: parameter.Name, in: parameter.In}
		if seen[key] {
			return types.NewParseError("", "Parameters MUST NOT contain duplicates. A unique parameter is defined by a combination of a name and location. Duplicated parameters named `%s` detected in `%s`.", parameter.Name, parameter.In)
		}
		seen[key] = true

		location := types.ParameterLocation(parameter.In)
		switch location {
		case types.InPath, types.InQuery, types.InHeader, types.InCookie:
		default:
			return types.NewParseError("", "Parameter %s has unsupported location %s", parameter.Name, parameter.In)
		}

		if location == types.InPath && !parameter.Required {
			return types.NewParseError("", "Path parameter %s must be required", parameter.Name)
		}

		if builder.find(location, parameter.Name) != nil {
			continue
		}

		property := builder.parser.propertyFromSchema(parameter.Name, parameter.Required, parameter.Schema, builder.endpoint.Name, builder.cache)
		property.Location = location
		if property.Description == "" {
			property.Description = strings.TrimSpace(parameter.Description)
		}

		if location == types.InQuery && (property.Nullable || !property.Required) {
			property.Required = false
			property.Nullable = true
		}

		if err := builder.deconflict(property); err != nil {
			return err
		}

		builder.used[property.PythonName] = true
		builder.byLocation[location] = append(builder.byLocation[location], property)
	}

	return nil
}

// deconflict renames parameters sharing a name across locations to <name>_<location>.
func (builder *parametersBuilder) deconflict(property *types.Property) *types.GeneratorError {
	if !builder.used[property.PythonName] {
		return nil
	}

	for location, properties := range builder.byLocation {
		for _, existing := range properties {
			if existing.PythonName != property.PythonName {
				continue
			}

			delete(builder.used, existing.PythonName)
			existing.PythonName = builder.parser.normalizer.PythonIdentifier(existing.Name + "_" + string(location))
			if builder.used[existing.PythonName] {
				return types.NewParseError("", "Parameters with same Python identifier `%s` detected", existing.PythonName)
			}
			builder.used[existing.PythonName] = true
		}
	}

	property.PythonName = builder.parser.normalizer.PythonIdentifier(property.Name + "_" + string(property.Location))
	if builder.used[property.PythonName] {
		return types.NewParseError("", "Parameters with same Python identifier `%s` detected", property.PythonName)
	}

	return nil
}

func (builder *parametersBuilder) find(location types.ParameterLocation, name string) *types.Property {
	for _, property := range builder.byLocation[location] {
		if property.Name == name {
			return property
		}
	}

	return nil
}

// sort orders path parameters as they appear in the path template and puts required
// query parameters first.
func (builder *parametersBuilder) sort() *types.GeneratorError {
	var names []string
	for _, match := range pathTemplateRegex.FindAllStringSubmatch(builder.endpoint.Path, -1) {
		names = append(names, match[1])
	}

	pathParameters := builder.byLocation[types.InPath]
	position := make(map[string]int, len(names))
	for i, name := range names {
		if _, ok := position[name]; !ok {
			position[name] = i
		}
	}

	if len(position) != len(pathParameters) {
		return builder.pathMismatch()
	}

	for _, property := range pathParameters {
		if _, ok := position[property.Name]; !ok {
			return builder.pathMismatch()
		}
	}

	sort.SliceStable(pathParameters, func(i, j int) bool {
		return position[pathParameters[i].Name] < position[pathParameters[j].Name]
	})

	queryParameters := builder.byLocation[types.InQuery]
	sort.SliceStable(queryParameters, func(i, j int) bool {
		return queryParameters[i].Required && !queryParameters[j].Required
	})

	return nil
}

func (builder *parametersBuilder) pathMismatch() *types.GeneratorError {
	return types.NewParseError("", "Incorrect path templating for %s (Path parameters do not match with path)", builder.endpoint.Path)
}

// body reads the supported request body media types.
func (builder *parametersBuilder) body(ref *openapi3.RequestBodyRef) {
	if ref == nil || ref.Value == nil {
		return
	}

	for _, mediaType := range sortedContentTypes(ref.Value.Content) {
		content := ref.Value.Content[mediaType]
		if content == nil || content.Schema == nil {
			continue
		}

		switch {
		case builder.endpoint.JSONBody == nil && isJSON(mediaType):
			builder.endpoint.JSONBody = builder.bodyProperty(BodyJSON, content.Schema)
		case builder.endpoint.FormBody == nil && baseMediaType(mediaType) == MediaForm:
			builder.endpoint.FormBody = builder.bodyProperty(BodyForm, content.Schema)
		case builder.endpoint.MultipartBody == nil && baseMediaType(mediaType) == MediaMultipart:
			builder.endpoint.MultipartBody = builder.bodyProperty(BodyMultipart, content.Schema)
		}
	}
}

func (builder *parametersBuilder) bodyProperty(name string, schema *openapi3.SchemaRef) *types.Property {
	property := builder.parser.propertyFromSchema(name, true, schema, builder.endpoint.Name+"_body", builder.cache)
	property.PythonName = name
	if builder.used[name] {
		property.PythonName = "body_" + name
	}

	builder.used[property.PythonName] = true

	return property
}

// apply copies the collected parameters to the endpoint.
func (builder *parametersBuilder) apply() {
	builder.endpoint.PathParameters = builder.byLocation[types.InPath]
	builder.endpoint.QueryParameters = builder.byLocation[types.InQuery]
	builder.endpoint.HeaderParameters = builder.byLocation[types.InHeader]
	builder.endpoint.CookieParameters = builder.byLocation[types.InCookie]
}

func baseMediaType(mediaType string) string {
	parsed, _, err := mime.ParseMediaType(mediaType)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(strings.Split(mediaType, ";")[0]))
	}

	return parsed
}

func isJSON(mediaType string) bool {
	base := baseMediaType(mediaType)

	return base == MediaJSON || strings.HasSuffix(base, MediaJSONSuffix)
}

func sortedContentTypes(content openapi3.Content) []string {
	result := make([]string, 0, len(content))
	for mediaType := range content {
		result = append(result, mediaType)
	}

	sort.Strings(result)

	return result
}

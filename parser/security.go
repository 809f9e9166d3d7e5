package parser

import (
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/mikekonan/dlt-init/types"
)

// securitySchemes converts the supported component security schemes. Unsupported ones
// are reported as warnings and endpoints requiring only them get no credentials.
func (parser *Parser) securitySchemes(doc *openapi3.T) (map[string]*types.SecurityScheme, []*types.GeneratorError) {
	schemes := map[string]*types.SecurityScheme{}

	if doc.Components == nil {
		return schemes, nil
	}

	var warnings []*types.GeneratorError

	for key, ref := range doc.Components.SecuritySchemes {
		if ref == nil || ref.Value == nil {
			warnings = append(warnings, types.NewWarning("Unable to resolve security scheme "+key, ""))
			continue
		}

		scheme, err := parser.securityScheme(key, ref.Value)
		if err != nil {
			warnings = append(warnings, err)
			continue
		}

		schemes[key] = scheme
	}

	sort.SliceStable(warnings, func(i, j int) bool { return warnings[i].Header < warnings[j].Header })

	return schemes, warnings
}

func (parser *Parser) securityScheme(key string, value *openapi3.SecurityScheme) (*types.SecurityScheme, *types.GeneratorError) {
	scheme := &types.SecurityScheme{
		Key:         key,
		Description: strings.TrimSpace(value.Description),
		ClassName:   parser.normalizer.ClassName(key) + "Credentials",
		ModuleName:  parser.normalizer.PythonIdentifier(key),
	}

	switch strings.ToLower(value.Type) {
	case "apikey":
		location := types.ParameterLocation(value.In)
		if location != types.InHeader && location != types.InQuery && location != types.InCookie {
			return nil, types.NewWarning("Unsupported security scheme "+key, "api key location '"+value.In+"' is not supported")
		}

		scheme.Kind, scheme.In, scheme.ParameterName = types.SecurityAPIKey, location, value.Name
	case "http":
		switch strings.ToLower(value.Scheme) {
		case "basic":
			scheme.Kind = types.SecurityHTTPBasic
		case "bearer":
			scheme.Kind, scheme.BearerFormat = types.SecurityHTTPBearer, value.BearerFormat
		default:
			return nil, types.NewWarning("Unsupported security scheme "+key, "http scheme '"+value.Scheme+"' is not supported")
		}
	case "oauth2":
		scheme.Kind = types.SecurityOAuth2
		scheme.TokenURL, scheme.Scopes = oauthFlow(value.Flows)
	default:
		return nil, types.NewWarning("Unsupported security scheme "+key, "type '"+value.Type+"' is not supported")
	}

	return scheme, nil
}

// oauthFlow picks the token url of the first flow a pipeline can use unattended.
func oauthFlow(flows *openapi3.OAuthFlows) (string, []string) {
	if flows == nil {
		return "", nil
	}

	for _, flow := range []*openapi3.OAuthFlow{flows.ClientCredentials, flows.Password, flows.AuthorizationCode, flows.Implicit} {
		if flow == nil {
			continue
		}

		scopes := make([]string, 0, len(flow.Scopes))
		for scope := range flow.Scopes {
			scopes = append(scopes, scope)
		}
		sort.Strings(scopes)

		return flow.TokenURL, scopes
	}

	return "", nil
}

// security resolves the schemes of an endpoint. Operation security replaces the document
// one; of each requirement the first scheme by name is used.
func (parser *Parser) security(doc *openapi3.T, endpoint *types.Endpoint, operation *openapi3.Operation, schemes map[string]*types.SecurityScheme) {
	requirements := doc.Security
	if operation.Security != nil {
		requirements = *operation.Security
	}

	credentials := &types.Credentials{}

	for _, requirement := range requirements {
		if len(requirement) == 0 {
			continue
		}

		keys := make([]string, 0, len(requirement))
		for key := range requirement {
			keys = append(keys, key)
		}
		sort.Strings(keys)

		scheme, ok := schemes[keys[0]]
		if !ok {
			endpoint.Errors = append(endpoint.Errors,
				types.NewWarning("Security scheme "+keys[0]+" is not defined or not supported", "").At(endpoint.Location()))
			continue
		}

		if credentials.Find(scheme.Key) == nil {
			credentials.Schemes = append(credentials.Schemes, scheme)
		}
	}

	endpoint.SecuritySchemes = credentials.Schemes
	endpoint.Credentials = credentials
}

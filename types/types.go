package types

import (
	"sort"
	"strings"
)

type ParameterLocation string

const (
	InPath   ParameterLocation = "path"
	InQuery  ParameterLocation = "query"
	InHeader ParameterLocation = "header"
	InCookie ParameterLocation = "cookie"
)

type PropertyKind string

const (
	KindString   PropertyKind = "string"
	KindInteger  PropertyKind = "integer"
	KindNumber   PropertyKind = "number"
	KindBoolean  PropertyKind = "boolean"
	KindDate     PropertyKind = "date"
	KindDateTime PropertyKind = "datetime"
	KindFile     PropertyKind = "file"
	KindList     PropertyKind = "list"
	KindModel    PropertyKind = "model"
	KindDict     PropertyKind = "dict"
	KindEnum     PropertyKind = "enum"
	KindUnion    PropertyKind = "union"
	KindAny      PropertyKind = "any"
)

// Property is a typed value: a parameter, a request body or a schema field.
type Property struct {
	Name        string
	PythonName  string
	Required    bool
	Nullable    bool
	Description string
	// Default is a python literal, empty when the schema has none.
	Default string
	Kind    PropertyKind
	// BaseType is the python type without the Unset / None wrapping.
	BaseType string
	// ClassName is set for models and enums.
	ClassName string
	// EnumValues holds python literals of an enum.
	EnumValues []string
	Items      *Property
	Properties []*Property
	Location   ParameterLocation
}

// TypeString renders the type hint used in generated signatures.
func (property *Property) TypeString() string {
	switch {
	case !property.Required && property.Nullable:
		return "Union[Unset, None, " + property.BaseType + "]"
	case !property.Required:
		return "Union[Unset, " + property.BaseType + "]"
	case property.Nullable:
		return "Optional[" + property.BaseType + "]"
	}

	return property.BaseType
}

// Optional reports whether the value may be left UNSET.
func (property *Property) Optional() bool {
	return !property.Required
}

func (property *Property) IsBool() bool { return property.Kind == KindBoolean }

func (property *Property) IsDate() bool {
	return property.Kind == KindDate || property.Kind == KindDateTime
}

func (property *Property) IsDict() bool {
	return property.Kind == KindModel || property.Kind == KindDict
}

func (property *Property) RequiredProperties() (result []*Property) {
	for _, child := range property.Properties {
		if child.Required {
			result = append(result, child)
		}
	}

	return
}

func (property *Property) OptionalProperties() (result []*Property) {
	for _, child := range property.Properties {
		if !child.Required {
			result = append(result, child)
		}
	}

	return
}

// Property finds a child property by its document name.
func (property *Property) Property(name string) *Property {
	for _, child := range property.Properties {
		if child.Name == name {
			return child
		}
	}

	return nil
}

type SecuritySchemeKind string

const (
	SecurityAPIKey     SecuritySchemeKind = "api_key"
	SecurityHTTPBasic  SecuritySchemeKind = "http_basic"
	SecurityHTTPBearer SecuritySchemeKind = "http_bearer"
	SecurityOAuth2     SecuritySchemeKind = "oauth2"
)

// SecurityScheme is one of the supported ways to authenticate a request.
type SecurityScheme struct {
	Key         string
	Kind        SecuritySchemeKind
	Description string
	// In and ParameterName are set for api keys.
	In            ParameterLocation
	ParameterName string
	BearerFormat  string
	TokenURL      string
	Scopes        []string
	ClassName     string
	ModuleName    string
}

// BaseClass is the adapter in security/_base.py the scheme extends.
func (scheme *SecurityScheme) BaseClass() string {
	switch scheme.Kind {
	case SecurityAPIKey:
		return "ApiKeyCredentialsBase"
	case SecurityHTTPBasic:
		return "HttpBasicCredentialsBase"
	case SecurityHTTPBearer:
		return "HttpBearerCredentialsBase"
	}

	return "OAuth2CredentialsBase"
}

// SecretFields are the attributes a user has to provide in secrets.toml.
func (scheme *SecurityScheme) SecretFields() []string {
	switch scheme.Kind {
	case SecurityAPIKey:
		return []string{"api_key"}
	case SecurityHTTPBasic:
		return []string{"username", "password"}
	}

	return []string{"token"}
}

// Credentials is the union of schemes accepted by an endpoint or a whole source.
type Credentials struct {
	Schemes []*SecurityScheme
}

func (credentials *Credentials) IsPopulated() bool {
	return credentials != nil && len(credentials.Schemes) > 0
}

func (credentials *Credentials) TypeString() string {
	if !credentials.IsPopulated() {
		return ""
	}

	if len(credentials.Schemes) == 1 {
		return credentials.Schemes[0].ClassName
	}

	names := make([]string, 0, len(credentials.Schemes))
	for _, scheme := range credentials.Schemes {
		names = append(names, scheme.ClassName)
	}

	return "Union[" + strings.Join(names, ", ") + "]"
}

// Merge adds schemes that are not present yet, keeping order.
func (credentials *Credentials) Merge(other *Credentials) {
	if !other.IsPopulated() {
		return
	}

	for _, scheme := range other.Schemes {
		if credentials.Find(scheme.Key) == nil {
			credentials.Schemes = append(credentials.Schemes, scheme)
		}
	}
}

func (credentials *Credentials) Find(key string) *SecurityScheme {
	if credentials == nil {
		return nil
	}

	for _, scheme := range credentials.Schemes {
		if scheme.Key == key {
			return scheme
		}
	}

	return nil
}

// DataPropertyPath points at the list of records inside a response.
type DataPropertyPath struct {
	Path []string
	Prop *Property
}

type Response struct {
	StatusCode   int
	Prop         *Property
	ListProperty *DataPropertyPath
	Headers      []string
}

type PaginatorKind string

const (
	PaginatorSinglePage PaginatorKind = "single_page"
	PaginatorOffset     PaginatorKind = "offset"
	PaginatorPageNumber PaginatorKind = "page_number"
	PaginatorCursor     PaginatorKind = "cursor"
	PaginatorJSONLink   PaginatorKind = "json_link"
	PaginatorHeaderLink PaginatorKind = "header_link"
)

// Paginator describes how the generated resource walks through pages.
type Paginator struct {
	Kind PaginatorKind
	// Param is the query parameter advanced between pages.
	Param      string
	LimitParam string
	Limit      int
	// ResponsePath is the dotted path of the next token, next url or total.
	ResponsePath string
}

// TransformerSetting binds a child endpoint path parameter to a parent record field.
type TransformerSetting struct {
	ParentEndpoint *Endpoint
	ParentProperty *Property
	PathParameter  *Property
}

type Endpoint struct {
	Path        string
	Method      string
	Name        string
	PythonName  string
	Tag         string
	Summary     string
	Description string

	PathParameters   []*Property
	QueryParameters  []*Property
	HeaderParameters []*Property
	CookieParameters []*Property

	JSONBody      *Property
	FormBody      *Property
	MultipartBody *Property

	SecuritySchemes []*SecurityScheme
	Credentials     *Credentials
	Responses       []*Response
	Paginator       *Paginator

	Parent      *Endpoint
	Transformer *TransformerSetting
	Rank        int
	// Selected is false for endpoints rendered only because a transformer depends on them.
	Selected bool

	Errors []*GeneratorError
}

// Location identifies the endpoint in messages.
func (endpoint *Endpoint) Location() string {
	return strings.ToUpper(endpoint.Method) + " " + endpoint.Path
}

func (endpoint *Endpoint) HasPathParameters() bool { return len(endpoint.PathParameters) > 0 }

func (endpoint *Endpoint) RequiresSecurity() bool { return endpoint.Credentials.IsPopulated() }

func (endpoint *Endpoint) AllParameters() []*Property {
	var result []*Property

	result = append(result, endpoint.PathParameters...)
	result = append(result, endpoint.QueryParameters...)
	result = append(result, endpoint.HeaderParameters...)
	result = append(result, endpoint.CookieParameters...)

	for _, body := range []*Property{endpoint.MultipartBody, endpoint.FormBody, endpoint.JSONBody} {
		if body != nil {
			result = append(result, body)
		}
	}

	return result
}

// SignatureParameters orders parameters so required ones come before defaulted ones.
func (endpoint *Endpoint) SignatureParameters() []*Property {
	all := endpoint.AllParameters()
	sort.SliceStable(all, func(i, j int) bool { return all[i].Required && !all[j].Required })

	return all
}

// ResourceArguments are the parameters a resource function exposes, excluding the one
// a transformer fills from its parent record.
func (endpoint *Endpoint) ResourceArguments() []*Property {
	var result []*Property

	for _, parameter := range endpoint.SignatureParameters() {
		if endpoint.Transformer != nil && parameter == endpoint.Transformer.PathParameter {
			continue
		}

		result = append(result, parameter)
	}

	return result
}

func (endpoint *Endpoint) ListProperty() *DataPropertyPath {
	if len(endpoint.Responses) == 0 {
		return nil
	}

	return endpoint.Responses[0].ListProperty
}

func (endpoint *Endpoint) HasJSONResponse() bool {
	for _, response := range endpoint.Responses {
		if response.StatusCode >= 200 && response.StatusCode <= 299 && response.Prop != nil {
			return true
		}
	}

	return false
}

func (endpoint *Endpoint) IsRootEndpoint() bool {
	return endpoint.ListProperty() != nil && !endpoint.HasPathParameters()
}

// RootModel is the record model: the list item or the plain response object.
func (endpoint *Endpoint) RootModel() *Property {
	if list := endpoint.ListProperty(); list != nil {
		if list.Prop.Kind == KindModel {
			return list.Prop
		}

		return nil
	}

	if !endpoint.HasJSONResponse() {
		return nil
	}

	if prop := endpoint.Responses[0].Prop; prop != nil && prop.Kind == KindModel {
		return prop
	}

	return nil
}

// TableNameSource is the unnormalized table name; the generator snake cases it.
func (endpoint *Endpoint) TableNameSource() string {
	if model := endpoint.RootModel(); model != nil && model.ClassName != "" {
		return model.ClassName
	}

	return endpoint.Name
}

func (endpoint *Endpoint) DataJSONPath() string {
	list := endpoint.ListProperty()
	if list == nil {
		return ""
	}

	return strings.Join(list.Path, ".")
}

// PrimaryKey is "id" when the record model requires it.
func (endpoint *Endpoint) PrimaryKey() string {
	model := endpoint.RootModel()
	if model == nil {
		return ""
	}

	if id := model.Property("id"); id != nil && id.Required {
		return "id"
	}

	return ""
}

type EndpointCollection struct {
	Tag         string
	Endpoints   []*Endpoint
	ParseErrors []*GeneratorError

	namesToRender map[string]bool
}

func (collection *EndpointCollection) EndpointsToRender() []*Endpoint {
	if collection.namesToRender == nil {
		return collection.Endpoints
	}

	var result []*Endpoint
	for _, endpoint := range collection.Endpoints {
		if collection.namesToRender[endpoint.Name] {
			result = append(result, endpoint)
		}
	}

	return result
}

// Endpoints groups endpoint collections by tag.
type Endpoints struct {
	ByTag map[string]*EndpointCollection
}

func NewEndpoints() *Endpoints {
	return &Endpoints{ByTag: map[string]*EndpointCollection{}}
}

func (endpoints *Endpoints) Add(endpoint *Endpoint) {
	endpoints.collection(endpoint.Tag).Endpoints = append(endpoints.collection(endpoint.Tag).Endpoints, endpoint)
}

func (endpoints *Endpoints) AddError(tag string, err *GeneratorError) {
	endpoints.collection(tag).ParseErrors = append(endpoints.collection(tag).ParseErrors, err)
}

func (endpoints *Endpoints) collection(tag string) *EndpointCollection {
	collection, ok := endpoints.ByTag[tag]
	if !ok {
		collection = &EndpointCollection{Tag: tag}
		endpoints.ByTag[tag] = collection
	}

	return collection
}

func (endpoints *Endpoints) Tags() []string {
	tags := make([]string, 0, len(endpoints.ByTag))
	for tag := range endpoints.ByTag {
		tags = append(tags, tag)
	}

	sort.Strings(tags)

	return tags
}

// Collections returns the collections sorted by tag.
func (endpoints *Endpoints) Collections() []*EndpointCollection {
	result := make([]*EndpointCollection, 0, len(endpoints.ByTag))
	for _, tag := range endpoints.Tags() {
		result = append(result, endpoints.ByTag[tag])
	}

	return result
}

// All returns every parsed endpoint ordered by tag, then by declaration.
func (endpoints *Endpoints) All() []*Endpoint {
	var result []*Endpoint
	for _, collection := range endpoints.Collections() {
		result = append(result, collection.Endpoints...)
	}

	return result
}

func (endpoints *Endpoints) Find(name string) *Endpoint {
	for _, endpoint := range endpoints.All() {
		if endpoint.Name == name {
			return endpoint
		}
	}

	return nil
}

// SetNamesToRender restricts rendering to the given endpoint names.
func (endpoints *Endpoints) SetNamesToRender(names []string) {
	set := make(map[string]bool, len(names))
	for _, name := range names {
		set[name] = true
	}

	for _, collection := range endpoints.ByTag {
		collection.namesToRender = set
	}
}

// ToRender returns the endpoints to render ordered by tag.
func (endpoints *Endpoints) ToRender() []*Endpoint {
	var result []*Endpoint
	for _, collection := range endpoints.Collections() {
		result = append(result, collection.EndpointsToRender()...)
	}

	return result
}

func (endpoints *Endpoints) ParseErrors() []*GeneratorError {
	var result []*GeneratorError
	for _, collection := range endpoints.Collections() {
		result = append(result, collection.ParseErrors...)
		for _, endpoint := range collection.Endpoints {
			result = append(result, endpoint.Errors...)
		}
	}

	return result
}

type Server struct {
	URL         string
	Description string
}

// GeneratorData is the parsed document the generator renders.
type GeneratorData struct {
	Title           string
	Version         string
	Description     string
	Servers         []Server
	Endpoints       *Endpoints
	SecuritySchemes []*SecurityScheme
	Errors          []*GeneratorError
}

// Credentials returns the union of schemes used by endpoints to render.
func (data *GeneratorData) Credentials() *Credentials {
	result := &Credentials{}
	for _, endpoint := range data.Endpoints.ToRender() {
		result.Merge(endpoint.Credentials)
	}

	return result
}

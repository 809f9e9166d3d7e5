package parser

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/mikekonan/dlt-init/types"
)

// schemas caches models built from $refs; building marks refs on the current path so
// recursive schemas end in an empty model instead of looping.
type schemas struct {
	byRef    map[string]*types.Property
	building map[string]bool
}

func newSchemas() *schemas {
	return &schemas{byRef: map[string]*types.Property{}, building: map[string]bool{}}
}

func schemaTypes(schema *openapi3.Schema) []string {
	if schema == nil || schema.Type == nil {
		return nil
	}

	return *schema.Type
}

// primaryType returns the first non-null type and whether null is allowed.
func primaryType(schema *openapi3.Schema) (string, bool) {
	var (
		primary  string
		nullable bool
	)

	for _, typ := range schemaTypes(schema) {
		if typ == TypeNull {
			nullable = true
			continue
		}

		if primary == "" {
			primary = typ
		}
	}

	return primary, nullable
}

func (parser *Parser) propertyFromSchema(name string, required bool, schemaRef *openapi3.SchemaRef, parentName string, cache *schemas) *types.Property {
	property := &types.Property{
		Name:       name,
		PythonName: parser.normalizer.PythonIdentifier(name),
		Required:   required,
	}

	if schemaRef == nil || schemaRef.Value == nil {
		property.Kind, property.BaseType = types.KindAny, "Any"
		return property
	}

	if schemaRef.Ref != "" {
		if cached, ok := cache.byRef[schemaRef.Ref]; ok {
			return rebind(cached, property)
		}
	}

	schema := schemaRef.Value
	typ, nullableType := primaryType(schema)

	property.Description = strings.TrimSpace(schema.Description)
	property.Nullable = schema.Nullable || nullableType
	property.Default = pythonLiteral(schema.Default)

	className := parser.normalizer.ClassName(parentName + "_" + name)
	if schemaRef.Ref != "" {
		className = parser.normalizer.ClassName(parser.normalizer.ExtractNameFromRef(schemaRef.Ref))
	}

	switch {
	case len(schema.Enum) > 0:
		property.Kind, property.ClassName = types.KindEnum, className
		property.BaseType = "str"
		if typ == TypeInteger {
			property.BaseType = "int"
		} else if typ == TypeNumber {
			property.BaseType = "float"
		}

		for _, value := range schema.Enum {
			if value == nil {
				property.Nullable = true
				continue
			}

			property.EnumValues = append(property.EnumValues, pythonLiteral(value))
		}
	case len(schema.AllOf) > 0:
		parser.modelProperty(property, className, schemaRef, cache, func() []*openapi3.SchemaRef {
			return append([]*openapi3.SchemaRef{{Value: &openapi3.Schema{Properties: schema.Properties, Required: schema.Required}}}, schema.AllOf...)
		})
	case len(schema.OneOf) > 0 || len(schema.AnyOf) > 0:
		property.Kind, property.BaseType = types.KindUnion, "Any"
	case typ == TypeString:
		switch schema.Format {
		case FormatDate:
			property.Kind, property.BaseType = types.KindDate, "datetime.date"
		case FormatDateTime:
			property.Kind, property.BaseType = types.KindDateTime, "datetime.datetime"
		case FormatBinary:
			property.Kind, property.BaseType = types.KindFile, "File"
		default:
			property.Kind, property.BaseType = types.KindString, "str"
		}
	case typ == TypeInteger:
		property.Kind, property.BaseType = types.KindInteger, "int"
	case typ == TypeNumber:
		property.Kind, property.BaseType = types.KindNumber, "float"
	case typ == TypeBoolean:
		property.Kind, property.BaseType = types.KindBoolean, "bool"
	case typ == TypeArray:
		property.Kind = types.KindList
		property.Items = parser.propertyFromSchema(name+"_item", true, schema.Items, parentName, cache)
		property.BaseType = "List[" + property.Items.BaseType + "]"
	case len(schema.Properties) > 0:
		parser.modelProperty(property, className, schemaRef, cache, func() []*openapi3.SchemaRef {
			return []*openapi3.SchemaRef{schemaRef}
		})
	case typ == TypeObject:
		property.Kind, property.BaseType = types.KindDict, "Dict[str, Any]"
	default:
		property.Kind, property.BaseType = types.KindAny, "Any"
	}

	switch property.Kind {
	case types.KindString, types.KindInteger, types.KindNumber, types.KindBoolean, types.KindEnum:
	default:
		property.Default = ""
	}

	return property
}

// modelProperty fills property as a model whose fields come from the given schemas.
func (parser *Parser) modelProperty(property *types.Property, className string, schemaRef *openapi3.SchemaRef, cache *schemas, parts func() []*openapi3.SchemaRef) {
	property.Kind, property.ClassName, property.BaseType = types.KindModel, className, "Dict[str, Any]"

	if schemaRef.Ref != "" {
		if cache.building[schemaRef.Ref] {
			return
		}

		cache.building[schemaRef.Ref] = true
		defer delete(cache.building, schemaRef.Ref)
	}

	seen := map[string]bool{}
	for _, part := range parts() {
		if part == nil || part.Value == nil {
			continue
		}

		if part.Ref != "" && part.Ref != schemaRef.Ref && cache.building[part.Ref] {
			continue
		}

		required := map[string]bool{}
		for _, name := range part.Value.Required {
			required[name] = true
		}

		names := make([]string, 0, len(part.Value.Properties))
		for name := range part.Value.Properties {
			names = append(names, name)
		}
		sort.Strings(names)

		for _, name := range names {
			if seen[name] {
				continue
			}
			seen[name] = true

			property.Properties = append(property.Properties,
				parser.propertyFromSchema(name, required[name], part.Value.Properties[name], className, cache))
		}

		for _, nested := range part.Value.AllOf {
			if nested == nil || nested.Value == nil {
				continue
			}

			inner, ok := cache.byRef[nested.Ref]
			if nested.Ref == "" || !ok {
				innerClassName := className
				if nested.Ref != "" {
					innerClassName = parser.normalizer.ClassName(parser.normalizer.ExtractNameFromRef(nested.Ref))
				}

				inner = &types.Property{}
				parser.modelProperty(inner, innerClassName, nested, cache, func() []*openapi3.SchemaRef {
					return append([]*openapi3.SchemaRef{nested}, nested.Value.AllOf...)
				})
			}

			for _, child := range inner.Properties {
				if !seen[child.Name] {
					seen[child.Name] = true
					property.Properties = append(property.Properties, child)
				}
			}
		}
	}

	sort.SliceStable(property.Properties, func(i, j int) bool {
		return property.Properties[i].Required && !property.Properties[j].Required
	})

	if schemaRef.Ref != "" {
		cache.byRef[schemaRef.Ref] = property
	}
}

// rebind reuses a cached model under a new name.
func rebind(cached *types.Property, as *types.Property) *types.Property {
	copied := *cached
	copied.Name = as.Name
	copied.PythonName = as.PythonName
	copied.Required = as.Required

	return &copied
}

func pythonLiteral(value interface{}) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return strconv.Quote(v)
	case bool:
		if v {
			return "True"
		}

		return "False"
	case float64:
		if v == float64(int64(v)) {
			return strconv.FormatInt(int64(v), 10)
		}

		return strconv.FormatFloat(v, 'f', -1, 64)
	case int, int64, int32:
		return fmt.Sprintf("%d", v)
	}

	return ""
}

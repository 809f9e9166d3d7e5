package transformer

import (
	"strings"

	"github.com/ahmetb/go-linq"
	"github.com/sirupsen/logrus"

	"github.com/mikekonan/dlt-init/configurator"
	"github.com/mikekonan/dlt-init/types"
)

// Transformer links child endpoints to the list endpoint their path parameter comes from.
type Transformer struct {
	config *configurator.Config `di.inject:"config"`
}

func New(config *configurator.Config) *Transformer {
	return &Transformer{config: config}
}

// Transform sets Parent and Transformer on every child endpoint and ranks parents by the
// number of children they feed.
func (transformer *Transformer) Transform(data *types.GeneratorData) {
	endpoints := data.Endpoints.All()

	linq.From(endpoints).
		WhereT(func(endpoint *types.Endpoint) bool {
			return endpoint.Method == "get" && len(endpoint.PathParameters) == 1
		}).
		ForEachT(func(endpoint *types.Endpoint) {
			parent := transformer.parent(endpoints, endpoint)
			if parent == nil {
				return
			}

			setting := transformer.setting(parent, endpoint)
			if setting == nil {
				logrus.WithField("endpoint", endpoint.Location()).
					WithField("parent", parent.Location()).
					Debug("parent records have no field for the path parameter")
				return
			}

			endpoint.Parent = parent
			endpoint.Transformer = setting
		})

	ranks := map[*types.Endpoint]int{}
	linq.From(endpoints).
		WhereT(func(endpoint *types.Endpoint) bool { return endpoint.Transformer != nil }).
		ForEachT(func(endpoint *types.Endpoint) { ranks[endpoint.Parent]++ })

	for _, endpoint := range endpoints {
		endpoint.Rank = ranks[endpoint]
	}
}

// ParentPath cuts the path before its last templated segment: /pets/{id}/toys -> /pets.
func ParentPath(path string) string {
	index := strings.LastIndex(path, "{")
	if index < 0 {
		return ""
	}

	return strings.TrimSuffix(path[:index], "/")
}

func (transformer *Transformer) parent(endpoints []*types.Endpoint, child *types.Endpoint) *types.Endpoint {
	parentPath := ParentPath(child.Path)
	if parentPath == "" {
		return nil
	}

	parent := linq.From(endpoints).
		FirstWithT(func(endpoint *types.Endpoint) bool {
			return endpoint != child && endpoint.Method == "get" && endpoint.Path == parentPath &&
				endpoint.ListProperty() != nil && !endpoint.HasPathParameters()
		})
	if parent == nil {
		return nil
	}

	return parent.(*types.Endpoint)
}

// setting picks the record field with the path parameter name, falling back to id.
func (transformer *Transformer) setting(parent *types.Endpoint, child *types.Endpoint) *types.TransformerSetting {
	records := parent.ListProperty().Prop
	if records == nil || records.Kind != types.KindModel {
		return nil
	}

	parameter := child.PathParameters[0]

	property := records.Property(parameter.Name)
	if property == nil {
		property = records.Property("id")
	}

	if property == nil {
		return nil
	}

	return &types.TransformerSetting{
		ParentEndpoint: parent,
		ParentProperty: property,
		PathParameter:  parameter,
	}
}

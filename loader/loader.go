package loader

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/getkin/kin-openapi/openapi3"
	"github.com/sirupsen/logrus"

	"github.com/mikekonan/dlt-init/configurator"
	"github.com/mikekonan/dlt-init/types"
)

type Loader struct {
	config *configurator.Config `di.inject:"config"`
}

func New(config *configurator.Config) *Loader {
	return &Loader{config: config}
}

// Load reads the document from config.URL or config.Path. Validation problems of an
// otherwise readable document are returned as warnings.
func (loader *Loader) Load(ctx context.Context) (*openapi3.T, []*types.GeneratorError, error) {
	switch {
	case loader.config.URL != "" && loader.config.Path != "":
		return nil, nil, types.NewError("Provide URL or Path, not both.", "")
	case loader.config.URL != "":
		return loader.load(ctx, loader.config.URL)
	case loader.config.Path != "":
		return loader.load(ctx, loader.config.Path)
	}

	return nil, nil, types.NewError("No URL or Path provided", "")
}

func (loader *Loader) load(ctx context.Context, location string) (*openapi3.T, []*types.GeneratorError, error) {
	client := &http.Client{Timeout: time.Duration(loader.config.HTTPTimeout) * time.Second}

	openapiLoader := openapi3.NewLoader()
	openapiLoader.Context = ctx
	openapiLoader.IsExternalRefsAllowed = true
	openapiLoader.ReadFromURIFunc = openapi3.ReadFromURIs(openapi3.ReadFromHTTP(client), openapi3.ReadFromFile)

	log := logrus.WithField("location", location)
	log.Debug("loading openapi document")

	var (
		doc *openapi3.T
		err error
	)

	if u, parseErr := url.Parse(location); parseErr == nil && u.Scheme != "" && u.Host != "" {
		doc, err = openapiLoader.LoadFromURI(u)
		if err != nil {
			return nil, nil, types.WrapError(errors.WithHintf(err, "the request times out after %d seconds, see http_timeout", loader.config.HTTPTimeout),
				"Could not get OpenAPI document from provided URL")
		}
	} else {
		doc, err = openapiLoader.LoadFromFile(location)
		if err != nil {
			return nil, nil, types.WrapError(err, "Unable to read OpenAPI document from "+location)
		}
	}

	var warnings []*types.GeneratorError
	if err := doc.Validate(ctx); err != nil {
		log.WithError(err).Warn("openapi document failed validation")
		warnings = append(warnings, types.NewWarning("OpenAPI document is not valid", err.Error()))
	}

	if doc.Info == nil {
		return nil, warnings, types.NewError("OpenAPI document has no info section",
			"the info.title is used to name the generated pipeline")
	}

	return doc, warnings, nil
}

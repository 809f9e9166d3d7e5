package generator

import (
	"sort"

	"github.com/cockroachdb/errors"
)

// renderError wraps a template failure with the file being produced and the model element
// it was rendered for.
func renderError(templateName string, details map[string]interface{}, baseErr error) error {
	if baseErr == nil {
		baseErr = errors.Newf("unable to render %s", templateName)
	}

	contextualErr := errors.Wrapf(baseErr, "rendering %s", templateName)

	keys := make([]string, 0, len(details))
	for key := range details {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		contextualErr = errors.WithDetailf(contextualErr, "%s: %v", key, details[key])
	}

	return errors.WithHint(contextualErr, "check the templates in custom_template_path for unknown fields or functions")
}

// templateParseError reports a template that could not be parsed.
func templateParseError(location string, baseErr error) error {
	contextualErr := errors.Wrapf(baseErr, "parsing template %s", location)
	contextualErr = errors.WithDetailf(contextualErr, "%s: %s", ContextTemplate, location)

	return errors.WithHint(contextualErr, "templates use the text/template syntax")
}

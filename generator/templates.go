package generator

import (
	"bytes"
	"embed"
	"os"
	"path/filepath"
	"text/template"

	"github.com/sirupsen/logrus"
)

//go:embed templates/*.tmpl
var embedded embed.FS

// loadTemplates parses the embedded templates, then lets files of the custom template
// directory replace them by name.
func (generator *Generator) loadTemplates() (*template.Template, error) {
	root, err := template.New("dlt-init").Funcs(generator.funcMap()).ParseFS(embedded, "templates/*.tmpl")
	if err != nil {
		return nil, templateParseError("templates/*.tmpl", err)
	}

	dir := generator.config.CustomTemplatePath
	if dir == "" {
		return root, nil
	}

	matches, err := filepath.Glob(filepath.Join(dir, "*.tmpl"))
	if err != nil {
		return nil, templateParseError(dir, err)
	}

	for _, match := range matches {
		content, err := os.ReadFile(match)
		if err != nil {
			return nil, templateParseError(match, err)
		}

		if _, err := root.New(filepath.Base(match)).Parse(string(content)); err != nil {
			return nil, templateParseError(match, err)
		}

		logrus.WithField(ContextTemplate, filepath.Base(match)).Debug("using custom template")
	}

	return root, nil
}

func (generator *Generator) render(name string, data interface{}, details map[string]interface{}) ([]byte, error) {
	var buf bytes.Buffer

	if err := generator.templates.ExecuteTemplate(&buf, name, data); err != nil {
		return nil, renderError(name, details, err)
	}

	return buf.Bytes(), nil
}

package configurator

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupConfiguratorTest(t *testing.T, name string, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestResolve_Defaults(t *testing.T) {
	config := &Config{Path: "openapi.yaml"}

	require.NoError(t, Resolve(context.Background(), config))

	assert.Equal(t, MetaNone, config.Meta)
	assert.Equal(t, "utf-8", config.FileEncoding)
	assert.Equal(t, ".", config.OutputDir)
	assert.Equal(t, "-pipeline", config.ProjectNameSuffix)
	assert.Equal(t, "_dataset", config.DatasetNameSuffix)
	assert.Equal(t, "field_", config.FieldPrefix)
	assert.Equal(t, 5, config.HTTPTimeout)
}

func TestResolve_ConfigFile(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{
			name: "yaml",
			file: "config.yaml",
			content: `
meta: poetry
project_name_override: from-file
post_hooks:
  - ruff check --fix .
`,
		},
		{
			name: "toml",
			file: "config.toml",
			content: `
meta = "poetry"
project_name_override = "from-file"
post_hooks = ["ruff check --fix ."]
`,
		},
		{
			name:    "json",
			file:    "config.json",
			content: `{"meta": "poetry", "project_name_override": "from-file", "post_hooks": ["ruff check --fix ."]}`,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			config := &Config{
				Path:                "openapi.yaml",
				ConfigPath:          setupConfiguratorTest(t, test.file, test.content),
				PackageNameOverride: "from_flags",
			}

			require.NoError(t, Resolve(context.Background(), config))

			assert.Equal(t, MetaPoetry, config.Meta)
			assert.Equal(t, "from-file", config.ProjectNameOverride)
			assert.Equal(t, "from_flags", config.PackageNameOverride)
			assert.Equal(t, []string{"ruff check --fix ."}, config.PostHooks)
			assert.Equal(t, "utf-8", config.FileEncoding)
		})
	}
}

func TestResolve_Source(t *testing.T) {
	config := &Config{Path: "openapi.yaml", Source: "pokemon", ProjectNameOverride: "ignored"}

	require.NoError(t, Resolve(context.Background(), config))

	assert.Equal(t, "pokemon", config.ProjectNameOverride)
	assert.Equal(t, "pokemon", config.PackageNameOverride)
}

func TestResolve_Errors(t *testing.T) {
	notDir := setupConfiguratorTest(t, "file.tmpl", "")

	tests := []struct {
		name   string
		config Config
		err    string
	}{
		{name: "no location", config: Config{}, err: "You must either provide --url or --path"},
		{name: "both locations", config: Config{URL: "https://example.com/openapi.yaml", Path: "openapi.yaml"}, err: "Provide either --url or --path, not both"},
		{name: "invalid url", config: Config{URL: "not a url"}, err: "url"},
		{name: "meta", config: Config{Path: "openapi.yaml", Meta: "pip"}, err: "meta"},
		{name: "encoding", config: Config{Path: "openapi.yaml", FileEncoding: "klingon"}, err: "Unknown encoding : klingon"},
		{name: "template dir", config: Config{Path: "openapi.yaml", CustomTemplatePath: notDir}, err: "is not a directory"},
		{name: "missing config file", config: Config{Path: "openapi.yaml", ConfigPath: filepath.Join(t.TempDir(), "missing.yaml")}, err: "Unable to parse config"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			config := test.config

			err := Resolve(context.Background(), &config)
			require.Error(t, err)
			assert.Contains(t, err.Error(), test.err)
		})
	}
}

package application

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mikekonan/dlt-init/configurator"
	"github.com/mikekonan/dlt-init/generator"
	"github.com/mikekonan/dlt-init/loader"
	"github.com/mikekonan/dlt-init/normalizer"
	"github.com/mikekonan/dlt-init/parser"
	"github.com/mikekonan/dlt-init/selector"
	"github.com/mikekonan/dlt-init/transformer"
	"github.com/mikekonan/dlt-init/types"
	"github.com/mikekonan/dlt-init/writer"
)

func setupApplicationTest(t *testing.T, configure func(config *configurator.Config)) (*Application, *configurator.Config) {
	t.Helper()

	config := new(configurator.Config).Defaults()
	config.Path = "../testdata/petstore.yaml"
	config.OutputDir = t.TempDir()
	if configure != nil {
		configure(config)
	}

	norm := normalizer.New(config)

	gen, err := generator.New(config, norm)
	require.NoError(t, err)

	return &Application{
		config:      config,
		loader:      loader.New(config),
		parser:      parser.New(config, norm),
		transformer: transformer.New(config),
		selector:    selector.New(config, strings.NewReader(""), &bytes.Buffer{}),
		generator:   gen,
		writer:      writer.New(config),
	}, config
}

func messages(errs []*types.GeneratorError) string {
	var sb strings.Builder
	for _, err := range errs {
		sb.WriteString(err.Error())
		sb.WriteString("\n")
	}

	return sb.String()
}

func TestApplication_Init(t *testing.T) {
	app, config := setupApplicationTest(t, nil)

	report := app.Init(context.Background())
	require.NotNil(t, report.Project)

	dir := filepath.Join(config.OutputDir, "pet-store-pipeline")
	assert.Equal(t, dir, report.Project.Dir)
	assert.FileExists(t, filepath.Join(dir, "pet_store", "__init__.py"))
	assert.FileExists(t, filepath.Join(dir, "pet_store", "api", "pets", "list_pets.py"))
	assert.FileExists(t, filepath.Join(dir, ".dlt", "secrets.toml"))
	assert.NoFileExists(t, filepath.Join(dir, "pet_store", "api", "pets", "create_pet.py"))

	all := messages(report.Errors)
	assert.Contains(t, all, "Incorrect path templating for /broken/{id}")
	assert.Contains(t, all, "Unsupported security scheme digest")
	assert.True(t, report.Failed(false))

	again := app.Init(context.Background())
	assert.Contains(t, messages(again.Errors), "Directory already exists")
}

func TestApplication_Update(t *testing.T) {
	app, config := setupApplicationTest(t, nil)

	report := app.Update(context.Background())
	assert.Contains(t, messages(report.Errors), "not found")

	app.Init(context.Background())

	packageDir := filepath.Join(config.OutputDir, "pet-store-pipeline", "pet_store")
	stale := filepath.Join(packageDir, "stale.py")
	require.NoError(t, os.WriteFile(stale, []byte("pass\n"), 0o644))

	config.Endpoints = []string{"listOwners"}
	report = app.Update(context.Background())
	assert.NotContains(t, messages(report.Errors), "not found")

	assert.NoFileExists(t, stale)
	assert.FileExists(t, filepath.Join(packageDir, "api", "owners", "list_owners.py"))
	assert.NoFileExists(t, filepath.Join(packageDir, "api", "pets", "list_pets.py"))
	assert.FileExists(t, filepath.Join(config.OutputDir, "pet-store-pipeline", "pipeline.py"))
}

func TestApplication_Init_LoadError(t *testing.T) {
	app, _ := setupApplicationTest(t, func(config *configurator.Config) { config.Path = "../testdata/missing.yaml" })

	report := app.Init(context.Background())

	assert.Nil(t, report.Project)
	require.NotEmpty(t, report.Errors)
	assert.Contains(t, report.Errors[len(report.Errors)-1].Error(), "Unable to read OpenAPI document from ../testdata/missing.yaml")
}

func TestReport_Failed(t *testing.T) {
	tests := []struct {
		name          string
		errs          []*types.GeneratorError
		failOnWarning bool
		expected      bool
	}{
		{name: "clean", expected: false},
		{name: "warning", errs: []*types.GeneratorError{types.NewWarning("w", "")}, expected: false},
		{name: "warning fails", errs: []*types.GeneratorError{types.NewWarning("w", "")}, failOnWarning: true, expected: true},
		{name: "error", errs: []*types.GeneratorError{types.NewError("e", "")}, expected: true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			report := &Report{Errors: test.errs}

			assert.Equal(t, test.expected, report.Failed(test.failOnWarning))
		})
	}
}

func TestRunCommand(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		command string
		level   types.ErrorLevel
		message string
	}{
		{name: "success", command: "touch hooked"},
		{name: "missing", command: "definitely-not-a-command-4242 --fix", level: types.LevelWarning, message: "Skipping Integration: definitely-not-a-command-4242 is not in PATH"},
		{name: "failing", command: "ls ./does-not-exist", level: types.LevelError, message: "ls failed"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			err := runCommand(context.Background(), dir, test.command)

			if test.message == "" {
				assert.Nil(t, err)
				return
			}

			require.NotNil(t, err)
			assert.Equal(t, test.level, err.Level)
			assert.Contains(t, err.Error(), test.message)
		})
	}

	assert.FileExists(t, filepath.Join(dir, "hooked"))
}

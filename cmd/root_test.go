package cmd

import (
	"bytes"
	"context"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mikekonan/dlt-init/application"
	"github.com/mikekonan/dlt-init/configurator"
	"github.com/mikekonan/dlt-init/generator"
	"github.com/mikekonan/dlt-init/types"
)

type recorded struct {
	config *configurator.Config
	update bool
	calls  int
}

func setupCmdTest(report *application.Report, err error) (*recorded, Runner) {
	rec := &recorded{}

	return rec, func(ctx context.Context, config *configurator.Config, update bool) (*application.Report, error) {
		rec.config, rec.update = config, update
		rec.calls++

		return report, err
	}
}

func TestExecute_Flags(t *testing.T) {
	tests := []struct {
		name       string
		args       []string
		update     bool
		assertions func(t *testing.T, config *configurator.Config)
	}{
		{
			name: "init with source",
			args: []string{"init", "pokemon", "--url", "https://example.com/openapi.yaml", "--meta", "poetry", "--endpoints", "a,b", "--post-hook", "ruff check --fix .", "--post-hook", "ruff format ."},
			assertions: func(t *testing.T, config *configurator.Config) {
				assert.Equal(t, "pokemon", config.Source)
				assert.Equal(t, "https://example.com/openapi.yaml", config.URL)
				assert.Equal(t, configurator.MetaPoetry, config.Meta)
				assert.Equal(t, []string{"a", "b"}, config.Endpoints)
				assert.Equal(t, []string{"ruff check --fix .", "ruff format ."}, config.PostHooks)
			},
		},
		{
			name:   "update",
			args:   []string{"update", "--path", "openapi.yaml", "--output-dir", "out", "--fail-on-warning", "-i"},
			update: true,
			assertions: func(t *testing.T, config *configurator.Config) {
				assert.Equal(t, "openapi.yaml", config.Path)
				assert.Equal(t, "out", config.OutputDir)
				assert.True(t, config.FailOnWarning)
				assert.True(t, config.Interactive)
				assert.Empty(t, config.Source)
			},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			rec, run := setupCmdTest(&application.Report{}, nil)

			code := Execute(context.Background(), "1.0.0", run, test.args, &bytes.Buffer{}, &bytes.Buffer{})

			assert.Equal(t, 0, code)
			require.Equal(t, 1, rec.calls)
			assert.Equal(t, test.update, rec.update)
			test.assertions(t, rec.config)
		})
	}
}

func TestExecute_Report(t *testing.T) {
	project := &generator.Project{Name: "pet-store-pipeline", PackageName: "pet_store", Meta: configurator.MetaPoetry}
	bare := &generator.Project{Name: "pet-store-pipeline", PackageName: "pet_store", Meta: configurator.MetaNone}

	tests := []struct {
		name     string
		args     []string
		report   *application.Report
		err      error
		code     int
		out      []string
		errOut   []string
		notCalls bool
	}{
		{
			name:   "clean",
			args:   []string{"init", "--path", "openapi.yaml"},
			report: &application.Report{Project: project},
			out:    []string{"Generating pet-store-pipeline"},
		},
		{
			name:   "no meta prints the package",
			args:   []string{"init", "--path", "openapi.yaml"},
			report: &application.Report{Project: bare},
			out:    []string{"Generating pet_store"},
		},
		{
			name:   "update",
			args:   []string{"update", "--path", "openapi.yaml"},
			report: &application.Report{Project: project},
			out:    []string{"Updating pet-store-pipeline"},
		},
		{
			name:   "warning",
			args:   []string{"init", "--path", "openapi.yaml"},
			report: &application.Report{Project: project, Errors: []*types.GeneratorError{types.NewWarning("Skipping Integration", "ruff is not in PATH")}},
			out:    []string{"Warning(s) encountered while generating", "Skipping Integration", "ruff is not in PATH"},
		},
		{
			name:   "warning fails",
			args:   []string{"init", "--path", "openapi.yaml", "--fail-on-warning"},
			report: &application.Report{Project: project, Errors: []*types.GeneratorError{types.NewWarning("Skipping Integration", "ruff is not in PATH")}},
			code:   1,
		},
		{
			name:   "error",
			args:   []string{"init", "--path", "openapi.yaml"},
			report: &application.Report{Project: project, Errors: []*types.GeneratorError{types.NewError("ruff failed", "boom")}},
			code:   1,
			out:    []string{"Error(s) encountered while generating", "ruff failed", "boom"},
		},
		{
			name:   "runner error",
			args:   []string{"init"},
			err:    errors.New("You must either provide --url or --path"),
			code:   1,
			errOut: []string{"You must either provide --url or --path"},
		},
		{
			name:     "too many arguments",
			args:     []string{"init", "a", "b"},
			code:     1,
			errOut:   []string{"accepts at most 1 arg(s)"},
			notCalls: true,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			rec, run := setupCmdTest(test.report, test.err)

			var out, errOut bytes.Buffer
			code := Execute(context.Background(), "1.0.0", run, test.args, &out, &errOut)

			assert.Equal(t, test.code, code)
			assert.Equal(t, test.notCalls, rec.calls == 0)

			for _, expected := range test.out {
				assert.Contains(t, out.String(), expected)
			}

			for _, expected := range test.errOut {
				assert.Contains(t, errOut.String(), expected)
			}
		})
	}
}

func TestExecute_Version(t *testing.T) {
	_, run := setupCmdTest(nil, nil)

	var out bytes.Buffer
	code := Execute(context.Background(), "1.2.3", run, []string{"--version"}, &out, &bytes.Buffer{})

	assert.Equal(t, 0, code)
	assert.Contains(t, out.String(), "1.2.3")
}

package application

import (
	"context"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/mikekonan/dlt-init/configurator"
	"github.com/mikekonan/dlt-init/generator"
	"github.com/mikekonan/dlt-init/loader"
	"github.com/mikekonan/dlt-init/parser"
	"github.com/mikekonan/dlt-init/selector"
	"github.com/mikekonan/dlt-init/transformer"
	"github.com/mikekonan/dlt-init/types"
	"github.com/mikekonan/dlt-init/writer"
)

type Application struct {
	config      *configurator.Config     `di.inject:"config"`
	loader      *loader.Loader           `di.inject:"loader"`
	parser      *parser.Parser           `di.inject:"parser"`
	transformer *transformer.Transformer `di.inject:"transformer"`
	selector    *selector.Selector       `di.inject:"selector"`
	generator   *generator.Generator     `di.inject:"generator"`
	writer      *writer.Writer           `di.inject:"writer"`
}

// Report is the outcome of a run. Project is nil when the document could not be read.
type Report struct {
	Project *generator.Project
	Errors  []*types.GeneratorError
}

func (report *Report) add(errs ...*types.GeneratorError) {
	for _, err := range errs {
		if err != nil {
			report.Errors = append(report.Errors, err)
		}
	}
}

// Failed reports whether the run should end with a non zero exit code.
func (report *Report) Failed(failOnWarning bool) bool {
	if types.HasLevel(report.Errors, types.LevelError) {
		return true
	}

	return failOnWarning && types.HasLevel(report.Errors, types.LevelWarning)
}

// Init generates a new project.
func (app *Application) Init(ctx context.Context) *Report {
	return app.run(ctx, false)
}

// Update regenerates the python package of an existing project.
func (app *Application) Update(ctx context.Context) *Report {
	return app.run(ctx, true)
}

func (app *Application) run(ctx context.Context, update bool) *Report {
	report := &Report{}

	doc, warnings, err := app.loader.Load(ctx)
	report.add(warnings...)
	if err != nil {
		report.add(types.AsGeneratorError(err))
		return report
	}

	data := app.parser.Parse(doc)
	app.transformer.Transform(data)

	report.Project = app.generator.Project(data)
	log := logrus.WithField("project", report.Project.Name).WithField("update", update)

	if err := app.selector.Select(data); err != nil {
		report.add(types.AsGeneratorError(err))
		return report
	}

	if err := app.checkDirs(report.Project, update); err != nil {
		report.add(err)
		return report
	}

	var result *generator.Result
	if update {
		result, err = app.generator.GeneratePackage(data)
	} else {
		result, err = app.generator.Generate(data)
	}

	if err != nil {
		report.add(types.WrapError(err, "Unable to render the project"))
		return report
	}

	log.WithField("files", len(result.Files)).Debug("writing project")

	if update {
		err = app.writer.Update(ctx, result)
	} else {
		err = app.writer.Write(ctx, result)
	}

	if err != nil {
		report.add(types.WrapError(err, "Unable to write the project"))
		return report
	}

	report.add(app.runPostHooks(ctx, report.Project)...)
	report.add(data.Endpoints.ParseErrors()...)
	report.add(data.Errors...)

	return report
}

func (app *Application) checkDirs(project *generator.Project, update bool) *types.GeneratorError {
	_, err := os.Stat(project.PackageDir)

	switch {
	case update && err != nil:
		return types.NewError("Directory "+project.PackageDir+" not found", "")
	case !update && err == nil:
		return types.NewError("Directory already exists. Delete it or use the update command.", project.PackageDir)
	}

	return nil
}

package main

import (
	"context"
	"os"
	"reflect"

	"github.com/goioc/di"

	"github.com/mikekonan/dlt-init/application"
	"github.com/mikekonan/dlt-init/cmd"
	"github.com/mikekonan/dlt-init/configurator"
	"github.com/mikekonan/dlt-init/generator"
	"github.com/mikekonan/dlt-init/loader"
	"github.com/mikekonan/dlt-init/normalizer"
	"github.com/mikekonan/dlt-init/parser"
	"github.com/mikekonan/dlt-init/selector"
	"github.com/mikekonan/dlt-init/transformer"
	"github.com/mikekonan/dlt-init/writer"
)

var version = "dev"

func main() {
	os.Exit(cmd.Main(context.Background(), version, run))
}

func run(ctx context.Context, config *configurator.Config, update bool) (*application.Report, error) {
	_, _ = di.RegisterBeanInstance("config", config)
	_, _ = di.RegisterBean("configurator", reflect.TypeOf((*configurator.Configurator)(nil)))
	_, _ = di.RegisterBean("loader", reflect.TypeOf((*loader.Loader)(nil)))
	_, _ = di.RegisterBean("normalizer", reflect.TypeOf((*normalizer.Normalizer)(nil)))
	_, _ = di.RegisterBean("parser", reflect.TypeOf((*parser.Parser)(nil)))
	_, _ = di.RegisterBean("transformer", reflect.TypeOf((*transformer.Transformer)(nil)))
	_, _ = di.RegisterBeanInstance("selector", selector.New(config, os.Stdin, os.Stdout))
	_, _ = di.RegisterBean("generator", reflect.TypeOf((*generator.Generator)(nil)))
	_, _ = di.RegisterBean("writer", reflect.TypeOf((*writer.Writer)(nil)))
	_, _ = di.RegisterBean("app", reflect.TypeOf((*application.Application)(nil)))

	if err := di.InitializeContainer(); err != nil {
		return nil, err
	}

	app := di.GetInstance("app").(*application.Application)

	if update {
		return app.Update(ctx), nil
	}

	return app.Init(ctx), nil
}

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/mikekonan/dlt-init/application"
	"github.com/mikekonan/dlt-init/configurator"
)

// Runner builds the application for a bound config and runs init or update.
type Runner func(ctx context.Context, config *configurator.Config, update bool) (*application.Report, error)

// errFailed marks a run whose problems were already printed.
var errFailed = errors.New("generation failed")

func NewRootCmd(version string, run Runner) *cobra.Command {
	config := &configurator.Config{}

	root := &cobra.Command{
		Use:           "dlt-init",
		Short:         "Generate a dlt pipeline source from an OpenAPI document",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if config.Verbose {
				logrus.SetLevel(logrus.DebugLevel)
			}
		},
	}

	root.PersistentFlags().BoolVarP(&config.Verbose, "verbose", "v", false, "log debug output")

	initCmd := &cobra.Command{
		Use:   "init [SOURCE]",
		Short: "Generate a new dlt pipeline project",
		Long: "Generate a new dlt pipeline project.\n\n" +
			"SOURCE names the data source; it overrides the project and package names.\n\n" +
			"Examples:\n" +
			"  dlt-init init pokemon --url https://pokeapi.co/openapi.yml\n" +
			"  dlt-init init --path ./openapi.yaml --meta poetry --endpoints listPets\n",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				config.Source = args[0]
			}

			return execute(cmd, run, config, false)
		},
	}

	updateCmd := &cobra.Command{
		Use:   "update",
		Short: "Regenerate the python package of an existing project",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return execute(cmd, run, config, true)
		},
	}

	for _, sub := range []*cobra.Command{initCmd, updateCmd} {
		bindFlags(sub, config)
		root.AddCommand(sub)
	}

	return root
}

func bindFlags(cmd *cobra.Command, config *configurator.Config) {
	flags := cmd.Flags()

	flags.StringVar(&config.URL, "url", "", "a URL to read the OpenAPI document from")
	flags.StringVar(&config.Path, "path", "", "a path to the OpenAPI document")
	flags.StringVar(&config.ConfigPath, "config", "", "path to a yaml, json or toml config file")
	flags.StringVar(&config.CustomTemplatePath, "custom-template-path", "", "a directory with templates overriding the built in ones")
	flags.StringVar((*string)(&config.Meta), "meta", "", "packaging metadata to write: none, poetry or setup (default none)")
	flags.StringVar(&config.FileEncoding, "file-encoding", "", "encoding of the generated files (default utf-8)")
	flags.BoolVar(&config.FailOnWarning, "fail-on-warning", false, "exit with a non zero code when warnings are reported")
	flags.StringVar(&config.OutputDir, "output-dir", "", "directory the project is created in (default .)")
	flags.StringSliceVar(&config.Endpoints, "endpoints", nil, "endpoint names to render; all GET endpoints when empty")
	flags.BoolVarP(&config.Interactive, "interactive", "i", false, "pick endpoints from a list when running in a terminal")
	flags.StringVar(&config.ProjectNameOverride, "project-name", "", "name of the generated project")
	flags.StringVar(&config.PackageNameOverride, "package-name", "", "name of the generated python package")
	flags.StringVar(&config.PackageVersionOverride, "package-version", "", "version of the generated package")
	flags.IntVar(&config.HTTPTimeout, "http-timeout", 0, "seconds to wait for the OpenAPI document (default 5)")
	flags.StringArrayVar(&config.PostHooks, "post-hook", nil, "a shell command to run in the generated project, may be repeated")
}

func execute(cmd *cobra.Command, run Runner, config *configurator.Config, update bool) error {
	report, err := run(cmd.Context(), config, update)
	if err != nil {
		printer := newPrinter(cmd.ErrOrStderr())
		printer.failure(err)

		return errFailed
	}

	printer := newPrinter(cmd.OutOrStdout())
	printer.report(report, update)

	if report.Failed(config.FailOnWarning) {
		return errFailed
	}

	return nil
}

// Execute runs the command line and returns the process exit code.
func Execute(ctx context.Context, version string, run Runner, args []string, out io.Writer, errOut io.Writer) int {
	root := NewRootCmd(version, run)
	root.SetArgs(args)
	root.SetOut(out)
	root.SetErr(errOut)

	if err := root.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errFailed) {
			fmt.Fprintln(errOut, "Error:", err)
		}

		return 1
	}

	return 0
}

// Main is Execute wired to the process arguments and standard streams.
func Main(ctx context.Context, version string, run Runner) int {
	return Execute(ctx, version, run, os.Args[1:], os.Stdout, os.Stderr)
}

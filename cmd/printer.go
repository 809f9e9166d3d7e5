package cmd

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	"github.com/mikekonan/dlt-init/application"
	"github.com/mikekonan/dlt-init/configurator"
	"github.com/mikekonan/dlt-init/types"
)

const (
	colorRed    = "\033[31m"
	colorYellow = "\033[33m"
	colorReset  = "\033[0m"
)

type printer struct {
	out   io.Writer
	color bool
}

func newPrinter(out io.Writer) *printer {
	color := false
	if f, ok := out.(*os.File); ok {
		color = term.IsTerminal(int(f.Fd()))
	}

	return &printer{out: out, color: color}
}

func (p *printer) paint(color string, text string) string {
	if !p.color {
		return text
	}

	return color + text + colorReset
}

func (p *printer) report(report *application.Report, update bool) {
	if report.Project != nil {
		verb := "Generating"
		if update {
			verb = "Updating"
		}

		name := report.Project.Name
		if report.Project.Meta == configurator.MetaNone {
			name = report.Project.PackageName
		}

		fmt.Fprintf(p.out, "%s %s\n", verb, name)
	}

	if len(report.Errors) == 0 {
		return
	}

	if types.HasLevel(report.Errors, types.LevelError) {
		fmt.Fprintln(p.out, p.paint(colorRed, "Error(s) encountered while generating, the project may be incomplete"))
	} else {
		fmt.Fprintln(p.out, p.paint(colorYellow, "Warning(s) encountered while generating. Check the output for details"))
	}

	for _, err := range report.Errors {
		color := colorYellow
		if err.Level == types.LevelError {
			color = colorRed
		}

		fmt.Fprintln(p.out)
		fmt.Fprint(p.out, p.paint(color, err.Report()))
	}
}

func (p *printer) failure(err error) {
	fmt.Fprintln(p.out, p.paint(colorRed, types.AsGeneratorError(err).Report()))
}

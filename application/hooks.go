package application

import (
	"bytes"
	"context"
	"os/exec"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/mikekonan/dlt-init/configurator"
	"github.com/mikekonan/dlt-init/generator"
	"github.com/mikekonan/dlt-init/types"
)

func (app *Application) runPostHooks(ctx context.Context, project *generator.Project) []*types.GeneratorError {
	var errs []*types.GeneratorError

	dir := project.Dir
	if project.Meta == configurator.MetaNone {
		dir = project.PackageDir
	}

	for _, command := range app.config.PostHooks {
		if err := runCommand(ctx, dir, command); err != nil {
			errs = append(errs, err)
		}
	}

	return errs
}

// runCommand runs command through the shell in dir. A command missing from PATH is
// reported as a warning.
func runCommand(ctx context.Context, dir string, command string) *types.GeneratorError {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return nil
	}

	name := fields[0]

	if _, err := exec.LookPath(name); err != nil {
		return types.NewWarning("Skipping Integration", name+" is not in PATH")
	}

	var stdout, stderr bytes.Buffer

	cmd := exec.CommandContext(ctx, "sh", "-c", command)
	cmd.Dir = dir
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	log := logrus.WithField("command", command).WithField("dir", dir)
	log.Debug("running post hook")

	if err := cmd.Run(); err != nil {
		log.WithError(err).Debug("post hook failed")

		detail := stderr.String()
		if detail == "" {
			detail = stdout.String()
		}
		if detail == "" {
			detail = err.Error()
		}

		return types.NewError(name+" failed", strings.TrimSpace(detail))
	}

	return nil
}

package writer

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"

	"github.com/mikekonan/dlt-init/configurator"
	"github.com/mikekonan/dlt-init/generator"
)

const (
	dirPerm  = 0o755
	filePerm = 0o644

	parallelWrites = 8
)

type Writer struct {
	config *configurator.Config `di.inject:"config"`
}

func New(config *configurator.Config) *Writer {
	return &Writer{config: config}
}

// Write stores every rendered file below the project directory.
func (writer *Writer) Write(ctx context.Context, result *generator.Result) error {
	enc, err := writer.encoding()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(result.Project.Dir, dirPerm); err != nil {
		return errors.Wrapf(err, "failed creating dir '%s'", result.Project.Dir)
	}

	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(parallelWrites)

	for _, file := range result.Files {
		file := file

		group.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			return writer.write(result.Project.Dir, file, enc)
		})
	}

	return group.Wait()
}

// Update replaces the python package of an existing project.
func (writer *Writer) Update(ctx context.Context, result *generator.Result) error {
	if _, err := os.Stat(result.Project.PackageDir); err != nil {
		return errors.WithHint(errors.Wrapf(err, "failed checking dir '%s'", result.Project.PackageDir),
			"run init first or check project_name_override and package_name_override")
	}

	if err := os.RemoveAll(result.Project.PackageDir); err != nil {
		return errors.Wrapf(err, "failed removing dir '%s'", result.Project.PackageDir)
	}

	return writer.Write(ctx, result)
}

func (writer *Writer) write(root string, file generator.File, enc encoding.Encoding) error {
	target, err := resolve(root, file.Path)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(target), dirPerm); err != nil {
		return errors.Wrapf(err, "failed creating dir '%s'", filepath.Dir(target))
	}

	content, err := enc.NewEncoder().Bytes(file.Content)
	if err != nil {
		return errors.Wrapf(err, "failed encoding file '%s' as %s", file.Path, writer.config.FileEncoding)
	}

	if err := os.WriteFile(target, content, filePerm); err != nil {
		return errors.Wrapf(err, "failed writing file '%s'", target)
	}

	logrus.WithField("file", target).Debug("written")

	return nil
}

func (writer *Writer) encoding() (encoding.Encoding, error) {
	name := writer.config.FileEncoding
	if name == "" {
		name = "utf-8"
	}

	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, errors.Wrapf(err, "Unknown encoding : %s", name)
	}

	return enc, nil
}

// resolve joins a relative file path to root and rejects paths escaping it.
func resolve(root string, path string) (string, error) {
	target := filepath.Join(root, filepath.FromSlash(path))

	rel, err := filepath.Rel(root, target)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) || filepath.IsAbs(path) {
		return "", errors.Newf("refusing to write '%s' outside of '%s'", path, root)
	}

	return target, nil
}

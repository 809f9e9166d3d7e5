package configurator

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"dario.cat/mergo"
	"github.com/cockroachdb/errors"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/heetch/confita"
	"github.com/heetch/confita/backend/file"
	"golang.org/x/text/encoding/htmlindex"
)

// MetaType is the kind of packaging metadata written next to the generated source.
type MetaType string

const (
	MetaNone   MetaType = "none"
	MetaPoetry MetaType = "poetry"
	MetaSetup  MetaType = "setup"
)

type Config struct {
	Source             string   `config:"source" yaml:"source" json:"source" toml:"source"`
	URL                string   `config:"url" yaml:"url" json:"url" toml:"url"`
	Path               string   `config:"path" yaml:"path" json:"path" toml:"path"`
	ConfigPath         string   `config:"config" yaml:"-" json:"-" toml:"-"`
	CustomTemplatePath string   `config:"custom_template_path" yaml:"custom_template_path" json:"custom_template_path" toml:"custom_template_path"`
	Meta               MetaType `config:"meta" yaml:"meta" json:"meta" toml:"meta"`
	FileEncoding       string   `config:"file_encoding" yaml:"file_encoding" json:"file_encoding" toml:"file_encoding"`
	FailOnWarning      bool     `config:"fail_on_warning" yaml:"fail_on_warning" json:"fail_on_warning" toml:"fail_on_warning"`
	OutputDir          string   `config:"output_dir" yaml:"output_dir" json:"output_dir" toml:"output_dir"`
	Endpoints          []string `config:"endpoints" yaml:"endpoints" json:"endpoints" toml:"endpoints"`
	Interactive        bool     `config:"interactive" yaml:"interactive" json:"interactive" toml:"interactive"`
	Verbose            bool     `config:"verbose" yaml:"verbose" json:"verbose" toml:"verbose"`

	ProjectNameOverride    string   `config:"project_name_override" yaml:"project_name_override" json:"project_name_override" toml:"project_name_override"`
	PackageNameOverride    string   `config:"package_name_override" yaml:"package_name_override" json:"package_name_override" toml:"package_name_override"`
	PackageVersionOverride string   `config:"package_version_override" yaml:"package_version_override" json:"package_version_override" toml:"package_version_override"`
	ProjectNameSuffix      string   `config:"project_name_suffix" yaml:"project_name_suffix" json:"project_name_suffix" toml:"project_name_suffix"`
	DatasetNameSuffix      string   `config:"dataset_name_suffix" yaml:"dataset_name_suffix" json:"dataset_name_suffix" toml:"dataset_name_suffix"`
	FieldPrefix            string   `config:"field_prefix" yaml:"field_prefix" json:"field_prefix" toml:"field_prefix"`
	HTTPTimeout            int      `config:"http_timeout" yaml:"http_timeout" json:"http_timeout" toml:"http_timeout"`
	PostHooks              []string `config:"post_hooks" yaml:"post_hooks" json:"post_hooks" toml:"post_hooks"`
}

func (config *Config) Defaults() *Config {
	config.Meta = MetaNone
	config.FileEncoding = "utf-8"
	config.OutputDir = "."
	config.ProjectNameSuffix = "-pipeline"
	config.DatasetNameSuffix = "_dataset"
	config.FieldPrefix = "field_"
	config.HTTPTimeout = 5

	return config
}

// ApplySource makes the positional source name the project and package name.
func (config *Config) ApplySource() {
	if config.Source == "" {
		return
	}

	config.ProjectNameOverride = config.Source
	config.PackageNameOverride = config.Source
}

func (config *Config) Validate() error {
	return validation.ValidateStruct(config,
		validation.Field(&config.URL,
			validation.When(config.Path == "", validation.Required.Error("You must either provide --url or --path")),
			validation.When(config.Path != "", validation.Empty.Error("Provide either --url or --path, not both")),
			is.URL,
		),
		validation.Field(&config.Meta, validation.Required, validation.In(MetaNone, MetaPoetry, MetaSetup)),
		validation.Field(&config.FileEncoding, validation.Required, validation.By(knownEncoding)),
		validation.Field(&config.CustomTemplatePath, validation.By(existingDir)),
		validation.Field(&config.HTTPTimeout, validation.Min(1)),
		validation.Field(&config.PostHooks, validation.Each(validation.Required)),
	)
}

func knownEncoding(value interface{}) error {
	name, _ := value.(string)
	if _, err := htmlindex.Get(name); err != nil {
		return errors.Newf("Unknown encoding : %s", name)
	}

	return nil
}

func existingDir(value interface{}) error {
	path, _ := value.(string)
	if path == "" {
		return nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return errors.Wrapf(err, "template directory %s", path)
	}

	if !info.IsDir() {
		return errors.Newf("template directory %s is not a directory", path)
	}

	return nil
}

type Configurator struct {
	config *Config `di.inject:"config"`
}

// PostConstruct layers the config file under the values already bound from flags,
// fills the remaining gaps with defaults and validates the result.
func (configurator *Configurator) PostConstruct() error {
	return Resolve(context.Background(), configurator.config)
}

func Resolve(ctx context.Context, config *Config) error {
	if config.ConfigPath != "" {
		fromFile, err := loadFile(ctx, config.ConfigPath)
		if err != nil {
			return err
		}

		if err := mergo.Merge(config, fromFile); err != nil {
			return errors.Wrap(err, "merging config file")
		}
	}

	config.ApplySource()

	if err := mergo.Merge(config, new(Config).Defaults()); err != nil {
		return errors.Wrap(err, "merging defaults")
	}

	if config.CustomTemplatePath != "" {
		abs, err := filepath.Abs(config.CustomTemplatePath)
		if err == nil {
			config.CustomTemplatePath = abs
		}
	}

	config.FileEncoding = strings.ToLower(config.FileEncoding)

	return config.Validate()
}

func loadFile(ctx context.Context, path string) (*Config, error) {
	fromFile := new(Config)

	if err := confita.NewLoader(file.NewBackend(path)).Load(ctx, fromFile); err != nil {
		return nil, errors.WithHint(errors.Wrapf(err, "Unable to parse config %s", path),
			"supported formats are yaml, json and toml")
	}

	return fromFile, nil
}

package generator

import (
	"path"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/ahmetb/go-linq"
	"github.com/sirupsen/logrus"

	"github.com/mikekonan/dlt-init/configurator"
	"github.com/mikekonan/dlt-init/normalizer"
	"github.com/mikekonan/dlt-init/types"
)

// Generator renders the python project for a parsed document.
type Generator struct {
	config     *configurator.Config   `di.inject:"config"`
	normalizer *normalizer.Normalizer `di.inject:"normalizer"`
	// custom_template_path is read once the configurator resolved the config.
	configurator *configurator.Configurator `di.inject:"configurator"`

	templates *template.Template
}

func New(config *configurator.Config, normalizer *normalizer.Normalizer) (*Generator, error) {
	generator := &Generator{config: config, normalizer: normalizer}

	return generator, generator.PostConstruct()
}

func (generator *Generator) PostConstruct() (err error) {
	generator.templates, err = generator.loadTemplates()

	return
}

// File is a rendered file, Path is slash separated and relative to the project directory.
type File struct {
	Path    string
	Content []byte
}

// Project holds the names every template can refer to.
type Project struct {
	Name        string
	PackageName string
	SourceName  string
	DatasetName string
	Description string
	Version     string
	Meta        configurator.MetaType
	// Dir is where the project is written, PackageDir is the python package inside it.
	Dir        string
	PackageDir string
}

// Result contains the rendered files
type Result struct {
	Project *Project
	Files   []File
}

func (result *Result) add(path string, content []byte) {
	result.Files = append(result.Files, File{Path: path, Content: content})
}

// Project derives names from the document title unless overridden.
func (generator *Generator) Project(data *types.GeneratorData) *Project {
	config := generator.config

	name := config.ProjectNameOverride
	if name == "" {
		name = strings.ToLower(generator.normalizer.KebabCase(data.Title))
	}
	name += config.ProjectNameSuffix

	packageName := config.PackageNameOverride
	if packageName == "" {
		packageName = data.Title
	}
	packageName = generator.normalizer.PackageName(packageName)

	version := config.PackageVersionOverride
	if version == "" {
		version = data.Version
	}

	dir := filepath.Join(config.OutputDir, name)

	return &Project{
		Name:        name,
		PackageName: packageName,
		SourceName:  packageName + SourceSuffix,
		DatasetName: packageName + config.DatasetNameSuffix,
		Description: "A pipeline to load data from " + strings.TrimSpace(data.Title),
		Version:     version,
		Meta:        config.Meta,
		Dir:         dir,
		PackageDir:  filepath.Join(dir, packageName),
	}
}

// Generate renders the whole project.
func (generator *Generator) Generate(data *types.GeneratorData) (*Result, error) {
	result, err := generator.GeneratePackage(data)
	if err != nil {
		return nil, err
	}

	if err := generator.projectFiles(result, data); err != nil {
		return nil, err
	}

	return result, nil
}

// GeneratePackage renders only the python package, as used when updating a project.
func (generator *Generator) GeneratePackage(data *types.GeneratorData) (*Result, error) {
	result := &Result{Project: generator.Project(data)}

	logrus.WithField("package", result.Project.PackageName).
		WithField("endpoints", len(data.Endpoints.ToRender())).
		Debug("rendering package")

	for _, step := range []func(*Result, *types.GeneratorData) error{
		generator.packageFiles,
		generator.securityFiles,
		generator.apiFiles,
		generator.sourceFile,
	} {
		if err := step(result, data); err != nil {
			return nil, err
		}
	}

	return result, nil
}

type fileTemplate struct {
	template string
	file     string
}

type view struct {
	*Project

	Data        *types.GeneratorData
	Credentials *types.Credentials
	Collection  *types.EndpointCollection
	Endpoint    *types.Endpoint
	Scheme      *types.SecurityScheme
	Resources   []*resource
}

func (generator *Generator) view(result *Result, data *types.GeneratorData) *view {
	return &view{Project: result.Project, Data: data, Credentials: data.Credentials()}
}

func (generator *Generator) packageFiles(result *Result, data *types.GeneratorData) error {
	pkg := result.Project.PackageName
	v := generator.view(result, data)

	if result.Project.Meta != configurator.MetaNone {
		result.add(path.Join(pkg, FilePyTyped), []byte(PyTypedMarker))
	}

	for _, file := range []fileTemplate{
		{template: TemplateTypes, file: FileTypes},
		{template: TemplateUtils, file: FileUtils},
		{template: TemplateErrors, file: FileErrors},
	} {
		content, err := generator.render(file.template, v, map[string]interface{}{ContextFile: file.file})
		if err != nil {
			return err
		}

		result.add(path.Join(pkg, file.file), content)
	}

	return nil
}

func (generator *Generator) securityFiles(result *Result, data *types.GeneratorData) error {
	dir := path.Join(result.Project.PackageName, DirSecurity)

	for _, scheme := range data.SecuritySchemes {
		v := generator.view(result, data)
		v.Scheme = scheme

		content, err := generator.render(TemplateScheme, v, map[string]interface{}{ContextScheme: scheme.Key})
		if err != nil {
			return err
		}

		result.add(path.Join(dir, scheme.ModuleName+".py"), content)
	}

	for _, file := range []fileTemplate{
		{template: TemplateSchemesInit, file: FileInit},
		{template: TemplateSchemesBase, file: FileSchemesBase},
	} {
		content, err := generator.render(file.template, generator.view(result, data), map[string]interface{}{ContextFile: file.file})
		if err != nil {
			return err
		}

		result.add(path.Join(dir, file.file), content)
	}

	return nil
}

func (generator *Generator) apiFiles(result *Result, data *types.GeneratorData) error {
	dir := path.Join(result.Project.PackageName, DirAPI)

	content, err := generator.render(TemplateAPIInit, generator.view(result, data), map[string]interface{}{ContextFile: FileInit})
	if err != nil {
		return err
	}
	result.add(path.Join(dir, FileInit), content)

	for _, collection := range data.Endpoints.Collections() {
		endpoints := collection.EndpointsToRender()
		if len(endpoints) == 0 {
			continue
		}

		v := generator.view(result, data)
		v.Collection = collection

		content, err := generator.render(TemplateEndpointInit, v, map[string]interface{}{ContextFile: collection.Tag})
		if err != nil {
			return err
		}
		result.add(path.Join(dir, collection.Tag, FileInit), content)

		for _, endpoint := range endpoints {
			v := generator.view(result, data)
			v.Collection, v.Endpoint = collection, endpoint

			content, err := generator.render(TemplateEndpoint, v, map[string]interface{}{ContextEndpoint: endpoint.Location()})
			if err != nil {
				return err
			}

			result.add(path.Join(dir, collection.Tag, endpoint.PythonName+".py"), content)
		}
	}

	return nil
}

func (generator *Generator) sourceFile(result *Result, data *types.GeneratorData) error {
	v := generator.view(result, data)
	v.Resources = generator.resources(data)

	content, err := generator.render(TemplateSource, v, map[string]interface{}{ContextFile: FileInit})
	if err != nil {
		return err
	}

	result.add(path.Join(result.Project.PackageName, FileInit), content)

	return nil
}

func (generator *Generator) projectFiles(result *Result, data *types.GeneratorData) error {
	config, err := generator.dltConfig(result.Project, data)
	if err != nil {
		return err
	}
	result.add(path.Join(DirDlt, FileConfig), config)

	secrets, err := generator.dltSecrets(result.Project, data)
	if err != nil {
		return err
	}
	result.add(path.Join(DirDlt, FileSecrets), secrets)

	files := []fileTemplate{{template: TemplatePipeline, file: FilePipeline}}

	if result.Project.Meta != configurator.MetaNone {
		files = append(files,
			fileTemplate{template: TemplatePyproject, file: FilePyproject},
			fileTemplate{template: TemplateReadme, file: FileReadme},
			fileTemplate{template: TemplateGitignore, file: FileGitignore},
			fileTemplate{template: TemplateRequirements, file: FileRequirements},
		)
	}

	if result.Project.Meta == configurator.MetaSetup {
		files = append(files, fileTemplate{template: TemplateSetup, file: FileSetup})
	}

	for _, file := range files {
		content, err := generator.render(file.template, generator.view(result, data), map[string]interface{}{ContextFile: file.file})
		if err != nil {
			return err
		}

		result.add(file.file, content)
	}

	return nil
}

// resource is an endpoint rendered as a dlt resource, or as a transformer when Parent is set.
type resource struct {
	Endpoint    *types.Endpoint
	Parent      *types.Endpoint
	ModuleAlias string
	TableName   string
	Arguments   []*types.Property
	// CallArguments are the keyword arguments passed to _get_kwargs.
	CallArguments []string
}

// resources lists plain resources first so transformers can refer to their parents.
func (generator *Generator) resources(data *types.GeneratorData) []*resource {
	endpoints := data.Endpoints.ToRender()

	rendered := map[*types.Endpoint]bool{}
	for _, endpoint := range endpoints {
		rendered[endpoint] = true
	}

	var all []*resource
	linq.From(endpoints).
		SelectT(func(endpoint *types.Endpoint) *resource {
			res := &resource{
				Endpoint:    endpoint,
				ModuleAlias: "_" + endpoint.PythonName,
				TableName:   generator.normalizer.SnakeCase(endpoint.TableNameSource()),
				Arguments:   endpoint.SignatureParameters(),
			}

			if endpoint.Transformer != nil && rendered[endpoint.Transformer.ParentEndpoint] {
				res.Parent = endpoint.Transformer.ParentEndpoint
				res.Arguments = endpoint.ResourceArguments()
			}

			res.CallArguments = append(res.CallArguments, "base_url=base_url")
			if endpoint.RequiresSecurity() {
				res.CallArguments = append(res.CallArguments, "credentials=credentials")
			}

			for _, argument := range res.Arguments {
				res.CallArguments = append(res.CallArguments, argument.PythonName+"="+argument.PythonName)
			}

			if res.Parent != nil {
				setting := endpoint.Transformer
				res.CallArguments = append(res.CallArguments,
					setting.PathParameter.PythonName+"=item["+pyrepr(setting.ParentProperty.Name)+"]")
			}

			return res
		}).
		ToSlice(&all)

	var result []*resource
	linq.From(all).
		WhereT(func(res *resource) bool { return res.Parent == nil }).
		Concat(linq.From(all).WhereT(func(res *resource) bool { return res.Parent != nil })).
		ToSlice(&result)

	return result
}

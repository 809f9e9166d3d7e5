package generator

// Template Names
const (
	TemplateTypes        = "types.py.tmpl"
	TemplateUtils        = "utils.py.tmpl"
	TemplateErrors       = "errors.py.tmpl"
	TemplateSource       = "source.py.tmpl"
	TemplateAPIInit      = "api_init.py.tmpl"
	TemplateEndpointInit = "endpoint_init.py.tmpl"
	TemplateEndpoint     = "endpoint_module.py.tmpl"
	TemplateSchemesInit  = "security_schemes_init.py.tmpl"
	TemplateSchemesBase  = "security_schemes_base.py.tmpl"
	TemplateScheme       = "security_scheme.py.tmpl"
	TemplatePipeline     = "pipeline.py.tmpl"
	TemplateReadme       = "README.md.tmpl"
	TemplateGitignore    = "gitignore.tmpl"
	TemplateRequirements = "requirements.txt.tmpl"
	TemplatePyproject    = "pyproject.toml.tmpl"
	TemplateSetup        = "setup.py.tmpl"
)

// Generated File Names
const (
	FileInit         = "__init__.py"
	FileTypes        = "types.py"
	FileUtils        = "utils.py"
	FileErrors       = "errors.py"
	FilePyTyped      = "py.typed"
	FileSchemesBase  = "_base.py"
	FilePipeline     = "pipeline.py"
	FileReadme       = "README.md"
	FileGitignore    = ".gitignore"
	FileRequirements = "requirements.txt"
	FilePyproject    = "pyproject.toml"
	FileSetup        = "setup.py"
	FileConfig       = "config.toml"
	FileSecrets      = "secrets.toml"
)

// Generated Directory Names
const (
	DirAPI      = "api"
	DirSecurity = "security"
	DirDlt      = ".dlt"
)

// Write Dispositions
const (
	DispositionMerge  = "merge"
	DispositionAppend = "append"
)

const (
	SourceSuffix      = "_source"
	SecretPlaceholder = "please set me up!"
	PyTypedMarker     = "# Marker file for PEP 561"
)

// Error Context Keys
const (
	ContextTemplate = "template"
	ContextFile     = "file"
	ContextEndpoint = "endpoint"
	ContextScheme   = "scheme"
)

package normalizer

import (
	"strings"
	"unicode"

	"github.com/ahmetb/go-linq"
	"github.com/spf13/cast"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/mikekonan/dlt-init/configurator"
)

var reservedWords = map[string]bool{
	"False": true, "None": true, "True": true, "and": true, "as": true, "assert": true,
	"async": true, "await": true, "break": true, "class": true, "continue": true, "def": true,
	"del": true, "elif": true, "else": true, "except": true, "finally": true, "for": true,
	"from": true, "global": true, "if": true, "import": true, "in": true, "is": true,
	"lambda": true, "nonlocal": true, "not": true, "or": true, "pass": true, "raise": true,
	"return": true, "try": true, "while": true, "with": true, "yield": true,
	// builtins and names used by generated modules
	"self": true, "true": true, "false": true, "datetime": true, "date": true, "list": true,
	"dict": true, "str": true, "int": true, "float": true, "bool": true, "object": true,
	"credentials": true, "base_url": true, "dlt": true, "items": true, "item": true,
	"kwargs": true, "paginate": true,
}

type Normalizer struct {
	config *configurator.Config `di.inject:"config"`
}

func New(config *configurator.Config) *Normalizer {
	return &Normalizer{config: config}
}

func (normalizer *Normalizer) prefix() string {
	if normalizer.config == nil || normalizer.config.FieldPrefix == "" {
		return "field_"
	}

	return normalizer.config.FieldPrefix
}

// SplitWords breaks an identifier on delimiters and case changes:
// "listPetsV2" -> [list Pets V2], "HTTPServer" -> [HTTP Server].
func (normalizer *Normalizer) SplitWords(str string) []string {
	runes := []rune(str)

	var (
		words   []string
		current []rune
	)

	flush := func() {
		if len(current) > 0 {
			words = append(words, string(current))
			current = nil
		}
	}

	for i, r := range runes {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			flush()
			continue
		}

		if unicode.IsUpper(r) && len(current) > 0 {
			prev := current[len(current)-1]
			nextIsLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])

			if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextIsLower) {
				flush()
			}
		}

		current = append(current, r)
	}

	flush()

	return words
}

func (normalizer *Normalizer) SnakeCase(str string) string {
	var words []string
	linq.From(normalizer.SplitWords(str)).
		SelectT(func(word string) string { return strings.ToLower(word) }).
		ToSlice(&words)

	return strings.Join(words, "_")
}

func (normalizer *Normalizer) KebabCase(str string) string {
	return strings.ReplaceAll(normalizer.SnakeCase(str), "_", "-")
}

func (normalizer *Normalizer) PascalCase(str string) string {
	caser := cases.Title(language.English)

	return cast.ToString(linq.From(normalizer.SplitWords(str)).
		AggregateWithSeedT("", func(accumulator string, word string) string {
			if isUpper(word) {
				return accumulator + word
			}

			return accumulator + caser.String(word)
		}))
}

// PythonIdentifier turns a document name into a snake case python identifier. Names that
// would not be valid get the configured field prefix, reserved words get a trailing "_".
func (normalizer *Normalizer) PythonIdentifier(str string) string {
	value := normalizer.SnakeCase(str)

	if reservedWords[value] {
		value += "_"
	}

	if !isIdentifier(value) || strings.HasPrefix(str, "_") {
		value = normalizer.prefix() + value
	}

	return value
}

// ClassName turns a document name into a python class name.
func (normalizer *Normalizer) ClassName(str string) string {
	value := normalizer.PascalCase(str)

	if reservedWords[value] {
		value += "_"
	}

	if !isIdentifier(value) {
		value = normalizer.PascalCase(normalizer.prefix()) + value
	}

	return value
}

// OperationID builds a name for operations without operationId: GET /pets/{id} -> get_pets_id.
func (normalizer *Normalizer) OperationID(path string, method string) string {
	cleanPath := strings.NewReplacer("{", "", "}", "", "/", "_").Replace(path)
	cleanPath = strings.TrimPrefix(cleanPath, "_")
	cleanPath = strings.TrimSuffix(cleanPath, "_")

	return strings.ToLower(method) + "_" + cleanPath
}

// ExtractNameFromRef returns the last segment of a $ref.
func (normalizer *Normalizer) ExtractNameFromRef(ref string) string {
	if ref == "" {
		return ""
	}

	return ref[strings.LastIndex(ref, "/")+1:]
}

// PackageName is a python package name derived from a project or source name.
func (normalizer *Normalizer) PackageName(str string) string {
	return strings.ReplaceAll(normalizer.SnakeCase(str), "-", "_")
}

func isIdentifier(str string) bool {
	if str == "" {
		return false
	}

	for i, r := range str {
		if r == '_' || unicode.IsLetter(r) {
			continue
		}

		if unicode.IsDigit(r) && i > 0 {
			continue
		}

		return false
	}

	return true
}

func isUpper(str string) bool {
	hasLetter := false
	for _, r := range str {
		if unicode.IsLower(r) {
			return false
		}

		if unicode.IsLetter(r) {
			hasLetter = true
		}
	}

	return hasLetter
}

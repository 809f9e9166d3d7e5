package generator

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"text/template"

	"github.com/cockroachdb/errors"

	"github.com/mikekonan/dlt-init/types"
)

var pathParameterRegex = regexp.MustCompile(`\{([^{}/]+)\}`)

func (generator *Generator) funcMap() template.FuncMap {
	return template.FuncMap{
		"snakecase":   generator.normalizer.SnakeCase,
		"kebabcase":   generator.normalizer.KebabCase,
		"pascalcase":  generator.normalizer.PascalCase,
		"quote":       strconv.Quote,
		"pyrepr":      pyrepr,
		"indent":      indent,
		"join":        strings.Join,
		"lower":       strings.ToLower,
		"dict":        dict,
		"docstring":   docstring,
		"headerValue": headerValue,
		"pathFormat":  pathFormat,
		"paginator":   paginatorLiteral,
	}
}

// pyrepr renders a Go value as a python literal.
func pyrepr(value interface{}) string {
	switch v := value.(type) {
	case nil:
		return "None"
	case string:
		return strconv.Quote(v)
	case bool:
		if v {
			return "True"
		}

		return "False"
	case []string:
		items := make([]string, 0, len(v))
		for _, item := range v {
			items = append(items, strconv.Quote(item))
		}

		return "[" + strings.Join(items, ", ") + "]"
	}

	return fmt.Sprint(value)
}

func indent(spaces int, text string) string {
	prefix := strings.Repeat(" ", spaces)
	lines := strings.Split(text, "\n")

	for i, line := range lines {
		if strings.TrimSpace(line) != "" {
			lines[i] = prefix + line
		}
	}

	return strings.Join(lines, "\n")
}

func dict(values ...interface{}) (map[string]interface{}, error) {
	if len(values)%2 != 0 {
		return nil, errors.New("dict expects key and value pairs")
	}

	result := make(map[string]interface{}, len(values)/2)
	for i := 0; i < len(values); i += 2 {
		key, ok := values[i].(string)
		if !ok {
			return nil, errors.Newf("dict key %v is not a string", values[i])
		}

		result[key] = values[i+1]
	}

	return result, nil
}

// docstring renders the first line of text as a python docstring.
func docstring(text string) string {
	line := strings.TrimSpace(strings.SplitN(strings.TrimSpace(text), "\n", 2)[0])
	line = strings.NewReplacer(`\`, `\\`, `"""`, `\"\"\"`).Replace(line)

	if strings.HasSuffix(line, `"`) {
		line += " "
	}

	return `"""` + line + `"""`
}

// headerValue is the expression sending a parameter as a header or cookie value.
func headerValue(property *types.Property) string {
	switch {
	case property.IsBool():
		return `"true" if ` + property.PythonName + ` else "false"`
	case property.IsDate():
		return property.PythonName + ".isoformat()"
	}

	return "str(" + property.PythonName + ")"
}

// pathFormat renders the url expression: "{base_url}/pets/{pet_id}".format(...).
func pathFormat(endpoint *types.Endpoint) string {
	arguments := []string{"base_url=base_url"}

	format := pathParameterRegex.ReplaceAllStringFunc(endpoint.Path, func(match string) string {
		name := match[1 : len(match)-1]

		for _, parameter := range endpoint.PathParameters {
			if parameter.Name == name {
				return "{" + parameter.PythonName + "}"
			}
		}

		return match
	})

	for _, parameter := range endpoint.PathParameters {
		arguments = append(arguments, parameter.PythonName+"="+parameter.PythonName)
	}

	return strconv.Quote("{base_url}"+format) + ".format(" + strings.Join(arguments, ", ") + ")"
}

// paginatorLiteral renders the paginator settings passed to utils.paginate.
func paginatorLiteral(paginator *types.Paginator) string {
	if paginator == nil {
		paginator = &types.Paginator{Kind: types.PaginatorSinglePage}
	}

	fields := []string{`"type": ` + strconv.Quote(string(paginator.Kind))}
	add := func(key string, value string) {
		if value != "" {
			fields = append(fields, strconv.Quote(key)+": "+value)
		}
	}

	switch paginator.Kind {
	case types.PaginatorOffset, types.PaginatorPageNumber:
		add("param", quoteNonEmpty(paginator.Param))
		add("limit_param", quoteNonEmpty(paginator.LimitParam))
		if paginator.Limit > 0 {
			add("limit", strconv.Itoa(paginator.Limit))
		}

		add("total_path", quoteNonEmpty(paginator.ResponsePath))
	case types.PaginatorCursor:
		add("param", quoteNonEmpty(paginator.Param))
		add("cursor_path", quoteNonEmpty(paginator.ResponsePath))
	case types.PaginatorJSONLink:
		add("next_url_path", quoteNonEmpty(paginator.ResponsePath))
	}

	return "{" + strings.Join(fields, ", ") + "}"
}

func quoteNonEmpty(value string) string {
	if value == "" {
		return ""
	}

	return strconv.Quote(value)
}

package selector

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/ahmetb/go-linq"
	"github.com/sirupsen/logrus"
	"golang.org/x/term"

	"github.com/mikekonan/dlt-init/configurator"
	"github.com/mikekonan/dlt-init/types"
)

// Selector decides which endpoints are rendered.
type Selector struct {
	config *configurator.Config `di.inject:"config"`

	in  io.Reader
	out io.Writer
	// terminal reports whether the prompt can be shown on in.
	terminal func(io.Reader) bool
}

func New(config *configurator.Config, in io.Reader, out io.Writer) *Selector {
	return &Selector{config: config, in: in, out: out, terminal: isTerminal}
}

// Select restricts data to the chosen endpoints plus the parents their transformers need.
func (selector *Selector) Select(data *types.GeneratorData) error {
	endpoints := data.Endpoints.All()

	var (
		selected []*types.Endpoint
		err      error
	)

	switch {
	case len(selector.config.Endpoints) > 0:
		selected, err = selector.byNames(data, selector.config.Endpoints)
	case selector.config.Interactive && selector.isTerminal():
		selected, err = selector.prompt(endpoints)
	default:
		selected = Default(endpoints)
	}

	if err != nil {
		return err
	}

	names := map[string]bool{}
	for _, endpoint := range selected {
		endpoint.Selected = true
		names[endpoint.Name] = true
	}

	for _, endpoint := range selected {
		for parent := endpoint.Parent; parent != nil; parent = parent.Parent {
			if names[parent.Name] {
				continue
			}

			logrus.WithField("endpoint", parent.Name).Debug("adding parent of selected transformer")

			parent.Selected = false
			names[parent.Name] = true
		}
	}

	var result []string
	linq.From(endpoints).
		WhereT(func(endpoint *types.Endpoint) bool { return names[endpoint.Name] }).
		SelectT(func(endpoint *types.Endpoint) string { return endpoint.Name }).
		ToSlice(&result)

	data.Endpoints.SetNamesToRender(result)

	return nil
}

// Default selects GET endpoints returning JSON.
func Default(endpoints []*types.Endpoint) (result []*types.Endpoint) {
	linq.From(endpoints).
		WhereT(func(endpoint *types.Endpoint) bool {
			return endpoint.Method == "get" && endpoint.HasJSONResponse()
		}).
		ToSlice(&result)

	return
}

func (selector *Selector) byNames(data *types.GeneratorData, names []string) ([]*types.Endpoint, error) {
	var (
		result  []*types.Endpoint
		unknown []string
	)

	for _, name := range names {
		endpoint := data.Endpoints.Find(strings.TrimSpace(name))
		if endpoint == nil {
			unknown = append(unknown, name)
			continue
		}

		result = append(result, endpoint)
	}

	if len(unknown) > 0 {
		return nil, types.NewError("Unknown endpoints", strings.Join(unknown, ", "))
	}

	return result, nil
}

func (selector *Selector) prompt(endpoints []*types.Endpoint) ([]*types.Endpoint, error) {
	out := selector.writer()

	for i, endpoint := range endpoints {
		_, _ = fmt.Fprintf(out, "%3d. %-7s %s (%s)\n", i+1, strings.ToUpper(endpoint.Method), endpoint.Path, endpoint.Name)
	}

	_, _ = fmt.Fprint(out, "Select endpoints (comma separated numbers, 'all', empty for GET endpoints): ")

	line, err := bufio.NewReader(selector.reader()).ReadString('\n')
	if err != nil && err != io.EOF {
		return nil, types.WrapError(err, "Could not read endpoint selection")
	}

	return Parse(strings.TrimSpace(line), endpoints)
}

// Parse reads an interactive answer: "all", empty for the default or numbers like "1, 3".
func Parse(answer string, endpoints []*types.Endpoint) ([]*types.Endpoint, error) {
	switch strings.ToLower(answer) {
	case "":
		return Default(endpoints), nil
	case "all":
		return endpoints, nil
	}

	var result []*types.Endpoint
	seen := map[int]bool{}

	for _, part := range strings.Split(answer, ",") {
		number, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || number < 1 || number > len(endpoints) {
			return nil, types.NewError("Invalid endpoint selection", "'"+strings.TrimSpace(part)+"' is not a number between 1 and "+strconv.Itoa(len(endpoints)))
		}

		if !seen[number] {
			seen[number] = true
			result = append(result, endpoints[number-1])
		}
	}

	return result, nil
}

func (selector *Selector) reader() io.Reader {
	if selector.in == nil {
		return os.Stdin
	}

	return selector.in
}

func (selector *Selector) writer() io.Writer {
	if selector.out == nil {
		return os.Stdout
	}

	return selector.out
}

func (selector *Selector) isTerminal() bool {
	if selector.terminal == nil {
		return isTerminal(selector.reader())
	}

	return selector.terminal(selector.reader())
}

func isTerminal(reader io.Reader) bool {
	if file, ok := reader.(*os.File); ok {
		return term.IsTerminal(int(file.Fd()))
	}

	return false
}

package selector

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mikekonan/dlt-init/configurator"
	"github.com/mikekonan/dlt-init/types"
)

func setupSelectorTest() *types.GeneratorData {
	jsonResponse := []*types.Response{{StatusCode: 200, Prop: &types.Property{Kind: types.KindModel}}}

	listPets := &types.Endpoint{Name: "listPets", Path: "/pets", Method: "get", Tag: "pets", Responses: jsonResponse}
	createPet := &types.Endpoint{Name: "createPet", Path: "/pets", Method: "post", Tag: "pets", Responses: jsonResponse}
	getPet := &types.Endpoint{Name: "getPet", Path: "/pets/{id}", Method: "get", Tag: "pets", Responses: jsonResponse, Parent: listPets}
	ping := &types.Endpoint{Name: "ping", Path: "/ping", Method: "get", Tag: "system"}

	endpoints := types.NewEndpoints()
	for _, endpoint := range []*types.Endpoint{listPets, createPet, getPet, ping} {
		endpoints.Add(endpoint)
	}

	return &types.GeneratorData{Endpoints: endpoints}
}

func renderedNames(data *types.GeneratorData) (names []string) {
	for _, endpoint := range data.Endpoints.ToRender() {
		names = append(names, endpoint.Name)
	}

	return
}

func TestSelector_Select(t *testing.T) {
	tests := []struct {
		name          string
		config        *configurator.Config
		input         string
		noTerminal    bool
		expected      []string
		unselected    []string
		expectedError string
	}{
		{
			name:     "Default selects GET endpoints with JSON responses",
			config:   &configurator.Config{},
			expected: []string{"listPets", "getPet"},
		},
		{
			name:       "Explicit names add parents as not selected",
			config:     &configurator.Config{Endpoints: []string{"getPet"}},
			expected:   []string{"listPets", "getPet"},
			unselected: []string{"listPets"},
		},
		{
			name:          "Unknown names",
			config:        &configurator.Config{Endpoints: []string{"getPet", "missing"}},
			expectedError: "Unknown endpoints: missing",
		},
		{
			name:     "Interactive all",
			config:   &configurator.Config{Interactive: true},
			input:    "all\n",
			expected: []string{"listPets", "createPet", "getPet", "ping"},
		},
		{
			name:     "Interactive numbers",
			config:   &configurator.Config{Interactive: true},
			input:    "2, 4\n",
			expected: []string{"createPet", "ping"},
		},
		{
			name:       "Interactive without a terminal uses the default",
			config:     &configurator.Config{Interactive: true},
			input:      "all\n",
			noTerminal: true,
			expected:   []string{"listPets", "getPet"},
		},
		{
			name:          "Interactive out of range",
			config:        &configurator.Config{Interactive: true},
			input:         "9\n",
			expectedError: "Invalid endpoint selection",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := setupSelectorTest()
			out := &bytes.Buffer{}

			selector := New(tt.config, strings.NewReader(tt.input), out)
			selector.terminal = func(io.Reader) bool { return !tt.noTerminal }

			err := selector.Select(data)

			if tt.expectedError != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.expectedError)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.expected, renderedNames(data))

			for _, name := range tt.unselected {
				assert.False(t, data.Endpoints.Find(name).Selected)
			}

			if tt.config.Interactive && !tt.noTerminal {
				assert.Contains(t, out.String(), "GET     /pets (listPets)")
			}
		})
	}
}

func TestIsTerminal(t *testing.T) {
	assert.False(t, isTerminal(strings.NewReader("all\n")))
	assert.False(t, New(&configurator.Config{}, strings.NewReader(""), &bytes.Buffer{}).isTerminal())
}

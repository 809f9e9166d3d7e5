package generator

import (
	"bytes"
	"strconv"

	"github.com/BurntSushi/toml"
	"github.com/cockroachdb/errors"

	"github.com/mikekonan/dlt-init/types"
)

type runtimeSection struct {
	LogLevel string `toml:"log_level"`
}

type sourceSection struct {
	BaseURL string `toml:"base_url"`
}

type dltConfigFile struct {
	Runtime runtimeSection           `toml:"runtime"`
	Sources map[string]sourceSection `toml:"sources"`
}

type dltSecretsFile struct {
	Sources map[string]map[string]map[string]string `toml:"sources"`
}

// dltConfig renders .dlt/config.toml with the first server as base url and the others
// as comments to pick from.
func (generator *Generator) dltConfig(project *Project, data *types.GeneratorData) ([]byte, error) {
	file := dltConfigFile{
		Runtime: runtimeSection{LogLevel: "WARNING"},
		Sources: map[string]sourceSection{},
	}

	section := sourceSection{}
	if len(data.Servers) > 0 {
		section.BaseURL = data.Servers[0].URL
	}
	file.Sources[project.PackageName] = section

	content, err := encodeTOML(file, FileConfig)
	if err != nil {
		return nil, err
	}

	for i, server := range data.Servers {
		if i == 0 {
			continue
		}

		line := "# base_url = " + strconv.Quote(server.URL)
		if server.Description != "" {
			line += " # " + server.Description
		}

		content = append(content, []byte(line+"\n")...)
	}

	return content, nil
}

// dltSecrets renders .dlt/secrets.toml with a placeholder for every credential field.
func (generator *Generator) dltSecrets(project *Project, data *types.GeneratorData) ([]byte, error) {
	fields := map[string]string{}
	for _, scheme := range data.Credentials().Schemes {
		for _, field := range scheme.SecretFields() {
			fields[field] = SecretPlaceholder
		}
	}

	if len(fields) == 0 {
		return []byte("# put your secret values and credentials here. do not share this file and do not push it to github\n"), nil
	}

	file := dltSecretsFile{Sources: map[string]map[string]map[string]string{
		project.PackageName: {"credentials": fields},
	}}

	return encodeTOML(file, FileSecrets)
}

func encodeTOML(value interface{}, name string) ([]byte, error) {
	var buf bytes.Buffer

	encoder := toml.NewEncoder(&buf)
	encoder.Indent = ""

	if err := encoder.Encode(value); err != nil {
		return nil, errors.Wrapf(err, "encoding %s", name)
	}

	return buf.Bytes(), nil
}

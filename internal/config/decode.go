// SPDX-License-Identifier: EPL-2.0

package config

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

func decodeTOML(path string, raw *fileConfig) (func(string) bool, error) {
	meta, err := toml.DecodeFile(path, raw)
	if err != nil {
		return nil, err
	}

	var unknown []string
	for _, k := range meta.Undecoded() {
		// Command fields are free-form node paths.
		if len(k) > 2 && k[0] == "command" && k[1] == "fields" {
			continue
		}
		unknown = append(unknown, k.String())
	}
	if len(unknown) > 0 {
		return nil, fmt.Errorf("unknown keys %s", strings.Join(unknown, ", "))
	}

	return func(key string) bool { return meta.IsDefined(key) }, nil
}

func decodeYAML(path string, raw *fileConfig) (func(string) bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(raw); err != nil {
		return nil, err
	}

	var top map[string]yaml.Node
	if err := yaml.Unmarshal(data, &top); err != nil {
		return nil, err
	}

	return func(key string) bool {
		_, ok := top[key]
		return ok
	}, nil
}

// Package module implements the Ansible binary module protocol for the
// atomic_image module: the argument file, the argument spec and the JSON
// result printed on stdout.
package module

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/krsacme/ansible-modules-extras/pkg/errors"
	"go.yaml.in/yaml/v3"
)

// Name is the module name reported in framework messages.
const Name = "atomic_image"

// wrapperKey holds the arguments when they are passed in the new-style
// JSON envelope instead of at the top level.
const wrapperKey = "ANSIBLE_MODULE_ARGS"

// LoadArgs reads the argument file the orchestrator passes to a binary
// module. The file is JSON; YAML is accepted as well.
func LoadArgs(path string) (map[string]any, error) {
	slog.Info("module_args_load", "path", path)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read module arguments")
	}
	return DecodeArgs(data)
}

// DecodeArgs decodes the contents of an argument file. JSON is tried first;
// anything that is not valid JSON is decoded as YAML.
func DecodeArgs(data []byte) (map[string]any, error) {
	raw := make(map[string]any)
	if err := json.Unmarshal(data, &raw); err != nil {
		raw = make(map[string]any)
		if yamlErr := yaml.Unmarshal(data, &raw); yamlErr != nil {
			return nil, errors.Wrap(yamlErr, "failed to parse module arguments")
		}
	}

	if wrapped, ok := raw[wrapperKey]; ok {
		args, ok := wrapped.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%s must be a mapping, got %T", wrapperKey, wrapped)
		}
		return args, nil
	}
	return raw, nil
}

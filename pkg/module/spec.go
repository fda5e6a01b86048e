package module

import (
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/krsacme/ansible-modules-extras/pkg/imagestate"
	"github.com/spf13/cast"
)

// Parameter names accepted by the module.
const (
	ParamName    = "name"
	ParamUpgrade = "upgrade"
	ParamState   = "state"
)

const (
	internalPrefix = "_ansible_"
	checkModeKey   = "_ansible_check_mode"
)

var supported = []string{ParamName, ParamState, ParamUpgrade}

var (
	booleansTrue  = []string{"y", "yes", "on", "1", "true", "t"}
	booleansFalse = []string{"n", "no", "off", "0", "false", "f"}
)

// ArgumentError reports module arguments that do not satisfy the spec.
// Its message is reported verbatim to the orchestrator.
type ArgumentError struct {
	Msg string
}

func (e *ArgumentError) Error() string {
	return e.Msg
}

// Args are the validated module arguments.
type Args struct {
	Params    imagestate.Params
	CheckMode bool
}

// ModuleArgs returns the resolved arguments as reported back under
// invocation.module_args.
func (a *Args) ModuleArgs() map[string]any {
	return map[string]any{
		ParamName:    a.Params.Name,
		ParamUpgrade: a.Params.Upgrade,
		ParamState:   a.Params.State.String(),
	}
}

// ParseArgs checks raw arguments in the order the framework does:
// unsupported keys, required keys, types, then choices.
func ParseArgs(raw map[string]any) (*Args, error) {
	var unsupported []string
	for k := range raw {
		if strings.HasPrefix(k, internalPrefix) {
			continue
		}
		if !slices.Contains(supported, k) {
			unsupported = append(unsupported, k)
		}
	}
	if len(unsupported) > 0 {
		sort.Strings(unsupported)
		return nil, &ArgumentError{Msg: fmt.Sprintf(
			"Unsupported parameters for (%s) module: %s. Supported parameters include: %s",
			Name, strings.Join(unsupported, ", "), strings.Join(supported, ", "))}
	}

	if v, ok := raw[ParamName]; !ok || v == nil {
		return nil, &ArgumentError{Msg: "missing required arguments: " + ParamName}
	}

	args := &Args{Params: imagestate.Params{State: imagestate.StateStarted}}

	name, err := cast.ToStringE(raw[ParamName])
	if err != nil {
		return nil, typeError(ParamName, raw[ParamName], "str")
	}
	args.Params.Name = name

	if v, ok := raw[ParamUpgrade]; ok && v != nil {
		upgrade, err := toBool(v)
		if err != nil {
			return nil, typeError(ParamUpgrade, v, "bool")
		}
		args.Params.Upgrade = upgrade
	}

	if v, ok := raw[ParamState]; ok && v != nil {
		s, err := cast.ToStringE(v)
		if err != nil {
			return nil, typeError(ParamState, v, "str")
		}
		state, err := imagestate.ParseState(s)
		if err != nil {
			choices := make([]string, 0, len(imagestate.States))
			for _, st := range imagestate.States {
				choices = append(choices, st.String())
			}
			return nil, &ArgumentError{Msg: fmt.Sprintf("value of %s must be one of: %s, got: %s",
				ParamState, strings.Join(choices, ", "), s)}
		}
		args.Params.State = state
	}

	if v, ok := raw[checkModeKey]; ok && v != nil {
		checkMode, err := toBool(v)
		if err != nil {
			return nil, typeError(checkModeKey, v, "bool")
		}
		args.CheckMode = checkMode
	}

	return args, nil
}

func typeError(param string, v any, want string) error {
	return &ArgumentError{Msg: fmt.Sprintf(
		"argument %s is of type %T and we were unable to convert to %s", param, v, want)}
}

// toBool accepts native booleans, numbers and the framework's boolean words.
func toBool(v any) (bool, error) {
	if b, ok := v.(bool); ok {
		return b, nil
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return false, err
	}
	s = strings.ToLower(strings.TrimSpace(s))
	switch {
	case slices.Contains(booleansTrue, s):
		return true, nil
	case slices.Contains(booleansFalse, s):
		return false, nil
	}
	return false, fmt.Errorf("%q is not a valid boolean", s)
}

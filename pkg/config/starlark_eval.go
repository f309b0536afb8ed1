package config

import (
	"context"
	"fmt"
	"time"

	"go.starlark.net/starlark"
	"go.starlark.net/starlarkstruct"
	"gopkg.in/yaml.v3"

	"github.com/superlil27/Aviary/pkg/mission"
)

// StarlarkResult is the outcome of one Starlark evaluation.
type StarlarkResult struct {
	// Output holds the script's exported globals (names not starting with _).
	Output map[string]interface{}

	// ExecutionTime is the wall-clock evaluation time.
	ExecutionTime time.Duration

	// Error is the evaluation error message, if any.
	Error string
}

// StarlarkEvaluator executes Starlark mission generators safely. Scripts run
// in a sandboxed thread with no filesystem or network access and a hard
// timeout; a generator's job is to compute a `mission` dict.
type StarlarkEvaluator struct {
	timeout time.Duration
}

// NewStarlarkEvaluator creates a new Starlark evaluator.
func NewStarlarkEvaluator(timeout time.Duration) *StarlarkEvaluator {
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &StarlarkEvaluator{
		timeout: timeout,
	}
}

// Evaluate executes a Starlark script with the given input and returns its
// exported globals.
func (se *StarlarkEvaluator) Evaluate(ctx context.Context, script string, input map[string]interface{}) (*StarlarkResult, error) {
	startTime := time.Now()

	globals, err := se.run(ctx, script, input)
	if err != nil {
		return &StarlarkResult{
			ExecutionTime: time.Since(startTime),
			Error:         err.Error(),
		}, err
	}

	output := make(map[string]interface{})
	for name, val := range globals {
		// Skip internal variables (starting with _)
		if len(name) > 0 && name[0] == '_' {
			continue
		}
		goVal, err := fromStarlarkValue(val)
		if err != nil {
			return nil, fmt.Errorf("failed to convert output %s: %w", name, err)
		}
		output[name] = goVal
	}

	return &StarlarkResult{
		Output:        output,
		ExecutionTime: time.Since(startTime),
	}, nil
}

// EvaluateMission executes a Starlark mission generator and extracts the
// `mission` global into a MissionConfig. Phase order follows the generator's
// dict insertion order.
func (se *StarlarkEvaluator) EvaluateMission(ctx context.Context, script string, input map[string]interface{}) (*MissionConfig, error) {
	globals, err := se.run(ctx, script, input)
	if err != nil {
		return nil, err
	}

	val, ok := globals["mission"]
	if !ok {
		return nil, fmt.Errorf("mission generator must define a global `mission` dict")
	}

	return missionConfigFromStarlark(val)
}

// run executes the script under the evaluator's timeout and returns the raw
// globals.
func (se *StarlarkEvaluator) run(ctx context.Context, script string, input map[string]interface{}) (starlark.StringDict, error) {
	evalCtx, cancel := context.WithTimeout(ctx, se.timeout)
	defer cancel()

	resultCh := make(chan starlark.StringDict, 1)
	errCh := make(chan error, 1)

	go func() {
		globals, err := se.execSync(script, input)
		if err != nil {
			errCh <- err
		} else {
			resultCh <- globals
		}
	}()

	select {
	case <-evalCtx.Done():
		return nil, fmt.Errorf("starlark execution timeout after %v", se.timeout)
	case err := <-errCh:
		return nil, err
	case globals := <-resultCh:
		return globals, nil
	}
}

// execSync performs the actual Starlark evaluation synchronously.
func (se *StarlarkEvaluator) execSync(script string, input map[string]interface{}) (starlark.StringDict, error) {
	thread := &starlark.Thread{
		Name: "aviary",
		Print: func(_ *starlark.Thread, msg string) {
			// Suppress print for security
		},
	}

	predeclared := starlark.StringDict{
		"struct": starlarkstruct.Default,
	}

	predeclared["range"] = starlark.NewBuiltin("range", builtinRange)
	predeclared["enumerate"] = starlark.NewBuiltin("enumerate", builtinEnumerate)
	predeclared["quantity"] = starlark.NewBuiltin("quantity", builtinQuantity)
	predeclared["bounds"] = starlark.NewBuiltin("bounds", builtinBounds)

	for key, val := range input {
		starlarkVal, err := toStarlarkValue(val)
		if err != nil {
			return nil, fmt.Errorf("failed to convert input %s: %w", key, err)
		}
		predeclared[key] = starlarkVal
	}

	globals, err := starlark.ExecFile(thread, "mission.star", script, predeclared)
	if err != nil {
		return nil, fmt.Errorf("starlark execution failed: %w", err)
	}

	return globals, nil
}

// missionConfigFromStarlark converts the generator's `mission` dict into a
// MissionConfig. The phases dict is walked in insertion order so the config
// keeps the authored flight order.
func missionConfigFromStarlark(v starlark.Value) (*MissionConfig, error) {
	dict, ok := v.(*starlark.Dict)
	if !ok {
		return nil, fmt.Errorf("`mission` must be a dict, got %s", v.Type())
	}

	cfg := &MissionConfig{}

	metaVal, found, err := dict.Get(starlark.String("mission"))
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("`mission` dict must contain a `mission` metadata block")
	}
	if err := decodeStarlarkInto(metaVal, &cfg.Mission); err != nil {
		return nil, fmt.Errorf("mission metadata: %w", err)
	}

	phasesVal, found, err := dict.Get(starlark.String("phases"))
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("`mission` dict must contain a `phases` block")
	}
	phasesDict, ok := phasesVal.(*starlark.Dict)
	if !ok {
		return nil, fmt.Errorf("`phases` must be a dict, got %s", phasesVal.Type())
	}

	for _, item := range phasesDict.Items() {
		key, ok := item[0].(starlark.String)
		if !ok {
			return nil, fmt.Errorf("phase names must be strings, got %s", item[0].Type())
		}

		var opts mission.Options
		if err := decodeStarlarkInto(item[1], &opts); err != nil {
			return nil, fmt.Errorf("phase %q: %w", string(key), err)
		}

		cfg.Phases = append(cfg.Phases, PhaseEntry{Name: string(key), Options: opts})
	}

	return cfg, nil
}

// decodeStarlarkInto converts a Starlark value to Go and decodes it into out
// via YAML, reusing the same field tags as file-based descriptions.
func decodeStarlarkInto(v starlark.Value, out interface{}) error {
	goVal, err := fromStarlarkValue(v)
	if err != nil {
		return err
	}

	raw, err := yaml.Marshal(goVal)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(raw, out)
}

// toStarlarkValue converts a Go value to a Starlark value.
func toStarlarkValue(v interface{}) (starlark.Value, error) {
	if v == nil {
		return starlark.None, nil
	}

	switch val := v.(type) {
	case bool:
		return starlark.Bool(val), nil
	case int:
		return starlark.MakeInt(val), nil
	case int64:
		return starlark.MakeInt64(val), nil
	case float64:
		return starlark.Float(val), nil
	case string:
		return starlark.String(val), nil
	case []interface{}:
		list := make([]starlark.Value, len(val))
		for i, item := range val {
			starlarkItem, err := toStarlarkValue(item)
			if err != nil {
				return nil, err
			}
			list[i] = starlarkItem
		}
		return starlark.NewList(list), nil
	case map[string]interface{}:
		dict := starlark.NewDict(len(val))
		for k, v := range val {
			starlarkVal, err := toStarlarkValue(v)
			if err != nil {
				return nil, err
			}
			if err := dict.SetKey(starlark.String(k), starlarkVal); err != nil {
				return nil, err
			}
		}
		return dict, nil
	default:
		return nil, fmt.Errorf("unsupported type: %T", v)
	}
}

// fromStarlarkValue converts a Starlark value to a Go value.
func fromStarlarkValue(v starlark.Value) (interface{}, error) {
	switch val := v.(type) {
	case starlark.NoneType:
		return nil, nil
	case starlark.Bool:
		return bool(val), nil
	case starlark.Int:
		i, ok := val.Int64()
		if !ok {
			return nil, fmt.Errorf("integer too large")
		}
		return i, nil
	case starlark.Float:
		return float64(val), nil
	case starlark.String:
		return string(val), nil
	case *starlark.List:
		list := make([]interface{}, val.Len())
		for i := 0; i < val.Len(); i++ {
			item, err := fromStarlarkValue(val.Index(i))
			if err != nil {
				return nil, err
			}
			list[i] = item
		}
		return list, nil
	case *starlark.Dict:
		dict := make(map[string]interface{})
		for _, item := range val.Items() {
			key, ok := item[0].(starlark.String)
			if !ok {
				return nil, fmt.Errorf("dict key must be string")
			}
			value, err := fromStarlarkValue(item[1])
			if err != nil {
				return nil, err
			}
			dict[string(key)] = value
		}
		return dict, nil
	case *starlarkstruct.Struct:
		dict := make(map[string]interface{})
		for _, name := range val.AttrNames() {
			attr, err := val.Attr(name)
			if err != nil {
				continue
			}
			value, err := fromStarlarkValue(attr)
			if err != nil {
				return nil, err
			}
			dict[name] = value
		}
		return dict, nil
	default:
		return nil, fmt.Errorf("unsupported starlark type: %s", v.Type())
	}
}

// Built-in Starlark functions

// builtinRange implements the range() built-in function.
func builtinRange(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var start, stop, step int64 = 0, 0, 1

	switch len(args) {
	case 1:
		if err := starlark.UnpackArgs(b.Name(), args, kwargs, "stop", &stop); err != nil {
			return nil, err
		}
	case 2:
		if err := starlark.UnpackArgs(b.Name(), args, kwargs, "start", &start, "stop", &stop); err != nil {
			return nil, err
		}
	case 3:
		if err := starlark.UnpackArgs(b.Name(), args, kwargs, "start", &start, "stop", &stop, "step", &step); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("range takes 1 to 3 arguments, got %d", len(args))
	}

	if step == 0 {
		return nil, fmt.Errorf("range step cannot be zero")
	}

	var list []starlark.Value
	if step > 0 {
		for i := start; i < stop; i += step {
			list = append(list, starlark.MakeInt64(i))
		}
	} else {
		for i := start; i > stop; i += step {
			list = append(list, starlark.MakeInt64(i))
		}
	}

	return starlark.NewList(list), nil
}

// builtinEnumerate implements the enumerate() built-in function.
func builtinEnumerate(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var iterable starlark.Iterable
	var start int64 = 0

	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "iterable", &iterable, "start?", &start); err != nil {
		return nil, err
	}

	iter := iterable.Iterate()
	defer iter.Done()

	var list []starlark.Value
	var x starlark.Value
	i := start
	for iter.Next(&x) {
		tuple := starlark.Tuple{starlark.MakeInt64(i), x}
		list = append(list, tuple)
		i++
	}

	return starlark.NewList(list), nil
}

// builtinQuantity implements quantity(value, unit), a shorthand for the
// unit-tagged scalar dict used by target and guess options.
func builtinQuantity(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var value starlark.Value
	var unit string

	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "value", &value, "unit?", &unit); err != nil {
		return nil, err
	}

	dict := starlark.NewDict(2)
	if err := dict.SetKey(starlark.String("value"), value); err != nil {
		return nil, err
	}
	if unit != "" {
		if err := dict.SetKey(starlark.String("unit"), starlark.String(unit)); err != nil {
			return nil, err
		}
	}
	return dict, nil
}

// builtinBounds implements bounds(lower, upper, unit), a shorthand for the
// interval dict used by duration_bounds and distance_bounds.
func builtinBounds(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var lower, upper starlark.Value
	var unit string

	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "lower", &lower, "upper", &upper, "unit?", &unit); err != nil {
		return nil, err
	}

	dict := starlark.NewDict(3)
	if err := dict.SetKey(starlark.String("lower"), lower); err != nil {
		return nil, err
	}
	if err := dict.SetKey(starlark.String("upper"), upper); err != nil {
		return nil, err
	}
	if unit != "" {
		if err := dict.SetKey(starlark.String("unit"), starlark.String(unit)); err != nil {
			return nil, err
		}
	}
	return dict, nil
}

package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"sigmanet/pkg/sigmanet"
)

// loadRunRequestFromConfig reads a run request from a JSON or YAML file,
// chosen by extension. Unknown keys are ignored.
func loadRunRequestFromConfig(path string) (sigmanet.RunRequest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return sigmanet.RunRequest{}, errors.Wrap(err, "read run config")
	}

	var raw map[string]any
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &raw)
	default:
		err = json.Unmarshal(data, &raw)
	}
	if err != nil {
		return sigmanet.RunRequest{}, errors.Wrapf(err, "parse run config %s", path)
	}

	var req sigmanet.RunRequest
	if v, ok := asString(raw["scape"]); ok {
		req.Scape = v
	}
	if v, ok := raw["topology"]; ok {
		topology, err := asIntSlice(v)
		if err != nil {
			return sigmanet.RunRequest{}, errors.Wrap(err, "topology")
		}
		req.Topology = topology
	}
	if v, ok := asString(raw["dataset"]); ok {
		req.DatasetPath = v
	}
	if v, ok := asInt(raw["dataset_limit"]); ok {
		req.DatasetLimit = v
	}
	if v, ok := asFloat64(raw["dataset_scale"]); ok {
		req.DatasetScale = v
	}
	if v, ok := asInt(raw["population"]); ok {
		req.Population = v
	}
	if v, ok := asInt(raw["generations"]); ok {
		req.Generations = v
	}
	if v, ok := asInt(raw["elite_count"]); ok {
		req.EliteCount = v
	}
	if v, ok := asInt64(raw["seed"]); ok {
		req.Seed = v
	}
	if v, ok := asInt(raw["workers"]); ok {
		req.Workers = v
	}
	if v, ok := asString(raw["selection"]); ok {
		req.Selection = v
	}
	if v, ok := asString(raw["crossover"]); ok {
		req.Crossover = v
	}
	if v, ok := asFloat64(raw["mutation_rate"]); ok {
		req.MutationRate = v
	}
	if v, ok := asFloat64(raw["mutation_power"]); ok {
		req.MutationPower = v
	}
	if v, ok := asFloat64(raw["fitness_goal"]); ok {
		req.FitnessGoal = v
	}
	if v, ok := asInt(raw["top_count"]); ok {
		req.TopCount = v
	}
	if v, ok := asBool(raw["enable_tuning"]); ok {
		req.EnableTuning = v
	}
	if v, ok := asInt(raw["tune_attempts"]); ok {
		req.TuneAttempts = v
	}
	if v, ok := asInt(raw["tune_steps"]); ok {
		req.TuneSteps = v
	}
	if v, ok := asFloat64(raw["tune_step_size"]); ok {
		req.TuneStepSize = v
	}
	if v, ok := asString(raw["tune_policy"]); ok {
		req.TunePolicy = v
	}
	if v, ok := asFloat64(raw["tune_policy_param"]); ok {
		req.TunePolicyParam = v
	}
	if v, ok := asString(raw["tune_selection"]); ok {
		req.TuneSelection = v
	}
	return req, nil
}

func asString(v any) (string, bool) {
	s, ok := v.(string)
	return s, ok
}

func asBool(v any) (bool, bool) {
	b, ok := v.(bool)
	return b, ok
}

func asInt(v any) (int, bool) {
	switch x := v.(type) {
	case int:
		return x, true
	case float64:
		return int(x), true
	default:
		return 0, false
	}
}

func asInt64(v any) (int64, bool) {
	switch x := v.(type) {
	case int64:
		return x, true
	case int:
		return int64(x), true
	case float64:
		return int64(x), true
	default:
		return 0, false
	}
}

func asFloat64(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case int:
		return float64(x), true
	default:
		return 0, false
	}
}

func asIntSlice(v any) ([]int, error) {
	switch x := v.(type) {
	case []any:
		out := make([]int, 0, len(x))
		for i, item := range x {
			n, ok := asInt(item)
			if !ok {
				return nil, errors.Errorf("element %d is not a number", i)
			}
			out = append(out, n)
		}
		return out, nil
	case string:
		return parseInts(x)
	default:
		return nil, errors.Errorf("unsupported value %v", v)
	}
}

func overrideFromFlags(req *sigmanet.RunRequest, set map[string]bool, flagValue map[string]any) error {
	for name := range set {
		v, ok := flagValue[name]
		if !ok {
			continue
		}
		switch name {
		case "scape":
			req.Scape = v.(string)
		case "topology":
			topology, err := parseInts(v.(string))
			if err != nil {
				return usageError("invalid --topology: " + err.Error())
			}
			req.Topology = topology
		case "dataset":
			req.DatasetPath = v.(string)
		case "dataset-limit":
			req.DatasetLimit = v.(int)
		case "dataset-scale":
			req.DatasetScale = v.(float64)
		case "pop":
			req.Population = v.(int)
		case "gens":
			req.Generations = v.(int)
		case "elite":
			req.EliteCount = v.(int)
		case "seed":
			req.Seed = v.(int64)
		case "workers":
			req.Workers = v.(int)
		case "selection":
			req.Selection = v.(string)
		case "crossover":
			req.Crossover = v.(string)
		case "mutation-rate":
			req.MutationRate = v.(float64)
		case "mutation-power":
			req.MutationPower = v.(float64)
		case "fitness-goal":
			req.FitnessGoal = v.(float64)
		case "top":
			req.TopCount = v.(int)
		case "tune":
			req.EnableTuning = v.(bool)
		case "tune-attempts":
			req.TuneAttempts = v.(int)
		case "tune-steps":
			req.TuneSteps = v.(int)
		case "tune-step-size":
			req.TuneStepSize = v.(float64)
		case "tune-policy":
			req.TunePolicy = v.(string)
		case "tune-policy-param":
			req.TunePolicyParam = v.(float64)
		case "tune-selection":
			req.TuneSelection = v.(string)
		}
	}
	return nil
}

package scape

import (
	"context"
	"strings"

	"github.com/pkg/errors"
)

// XORScape scores a 2-input, 1-output network on the XOR truth table.
type XORScape struct{}

func (XORScape) Name() string {
	return "xor"
}

func (XORScape) Evaluate(ctx context.Context, eval Evaluator) (Fitness, Trace, error) {
	return XORScape{}.EvaluateMode(ctx, eval, "gt")
}

func (XORScape) EvaluateMode(ctx context.Context, eval Evaluator, mode string) (Fitness, Trace, error) {
	cfg, err := xorConfigForMode(mode)
	if err != nil {
		return 0, nil, err
	}
	return evaluateXOR(ctx, cfg, eval)
}

type xorCase struct {
	in   []float64
	want float64
}

type xorModeConfig struct {
	mode  string
	cases []xorCase
}

func xorConfigForMode(mode string) (xorModeConfig, error) {
	base := []xorCase{
		{in: []float64{0, 0}, want: 0},
		{in: []float64{0, 1}, want: 1},
		{in: []float64{1, 0}, want: 1},
		{in: []float64{1, 1}, want: 0},
	}

	switch strings.TrimSpace(strings.ToLower(mode)) {
	case "", "gt":
		return xorModeConfig{mode: "gt", cases: base}, nil
	case "validation":
		return xorModeConfig{
			mode: "validation",
			cases: []xorCase{
				base[1], base[2], base[0], base[3], base[1], base[2],
			},
		}, nil
	case "test":
		return xorModeConfig{
			mode: "test",
			cases: []xorCase{
				base[3], base[2], base[1], base[0], base[3], base[0], base[2], base[1],
			},
		}, nil
	default:
		return xorModeConfig{}, errors.Errorf("unsupported xor mode: %s", mode)
	}
}

func evaluateXOR(ctx context.Context, cfg xorModeConfig, eval Evaluator) (Fitness, Trace, error) {
	var squaredErr float64
	predictions := make([]float64, 0, len(cfg.cases))
	for _, c := range cfg.cases {
		if err := ctx.Err(); err != nil {
			return 0, nil, err
		}
		out, err := eval(c.in)
		if err != nil {
			return 0, nil, err
		}
		if len(out) != 1 {
			return 0, nil, errors.Errorf("xor requires one output, got %d", len(out))
		}
		predictions = append(predictions, out[0])
		delta := out[0] - c.want
		squaredErr += delta * delta
	}

	sse := squaredErr
	mse := sse / float64(len(cfg.cases))
	// Reciprocal SSE with epsilon so a perfect net stays finite.
	fitness := Fitness(1.0 / (sse + 0.000001))
	return fitness, Trace{
		"mse":         mse,
		"sse":         sse,
		"predictions": predictions,
		"mode":        cfg.mode,
		"cases":       len(cfg.cases),
	}, nil
}

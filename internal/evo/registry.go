package evo

import (
	"strings"

	"github.com/pkg/errors"
)

var (
	ErrSelectorNotFound  = errors.New("selector not found")
	ErrCrossoverNotFound = errors.New("crossover not found")
)

// SelectorByName resolves the selection strategies exposed to run requests.
func SelectorByName(name string) (Selector, error) {
	switch strings.TrimSpace(strings.ToLower(name)) {
	case "", "elite":
		return EliteSelector{}, nil
	case "tournament":
		return TournamentSelector{}, nil
	default:
		return nil, errors.Wrapf(ErrSelectorNotFound, "%q", name)
	}
}

// CrossoverByName resolves the recombination strategies exposed to run requests.
// "none" disables crossover.
func CrossoverByName(name string) (Crossover, error) {
	switch strings.TrimSpace(strings.ToLower(name)) {
	case "", "uniform":
		return UniformCrossover{}, nil
	case "single_point":
		return SinglePointCrossover{}, nil
	case "none":
		return nil, nil
	default:
		return nil, errors.Wrapf(ErrCrossoverNotFound, "%q", name)
	}
}

package evo

import (
	"errors"
	"testing"
)

func TestSelectorByName(t *testing.T) {
	for name, want := range map[string]string{"": "elite", "elite": "elite", "Tournament": "tournament"} {
		selector, err := SelectorByName(name)
		if err != nil {
			t.Fatalf("selector %q: %v", name, err)
		}
		if selector.Name() != want {
			t.Fatalf("selector %q: got=%s want=%s", name, selector.Name(), want)
		}
	}
	if _, err := SelectorByName("roulette"); !errors.Is(err, ErrSelectorNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestCrossoverByName(t *testing.T) {
	crossover, err := CrossoverByName("single_point")
	if err != nil || crossover.Name() != "single_point" {
		t.Fatalf("single_point: %v %v", crossover, err)
	}
	none, err := CrossoverByName("none")
	if err != nil || none != nil {
		t.Fatalf("none: %v %v", none, err)
	}
	if _, err := CrossoverByName("two_point"); !errors.Is(err, ErrCrossoverNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

package tuning

import (
	"context"
	"math/rand"

	"sigmanet/internal/model"
)

// FitnessFn scores a candidate parameter vector. Higher is better.
type FitnessFn func(ctx context.Context, c model.Chromosome) (float64, error)

type TuneReport struct {
	AttemptsPlanned  int `json:"attempts_planned"`
	AttemptsExecuted int `json:"attempts_executed"`
	// Evaluations counts every fitness call, the baseline included.
	Evaluations        int     `json:"evaluations"`
	AcceptedCandidates int     `json:"accepted_candidates"`
	RejectedCandidates int     `json:"rejected_candidates"`
	BestFitness        float64 `json:"best_fitness"`
	GoalReached        bool    `json:"goal_reached"`
}

// Tuner locally refines a chromosome's genes between generations.
type Tuner interface {
	Name() string
	Tune(ctx context.Context, rng *rand.Rand, c model.Chromosome, attempts int, fitness FitnessFn) (model.Chromosome, TuneReport, error)
}

package tuning

import (
	"context"
	"math"
	"math/rand"

	"github.com/pkg/errors"

	"sigmanet/internal/model"
)

// Exoself is a stochastic hill climber over a chromosome's genes. Each
// attempt perturbs Steps random genes of one or more base candidates and
// keeps the best result if it beats the incumbent by MinImprovement.
type Exoself struct {
	Steps    int
	StepSize float64
	// PerturbationRange scales StepSize. Zero means 1.
	PerturbationRange float64
	// AnnealingFactor shrinks the spread per step as factor^step. Zero means 1.
	AnnealingFactor    float64
	MinImprovement     float64
	GoalFitness        float64
	CandidateSelection string
}

const (
	CandidateSelectBestSoFar = "best_so_far"
	CandidateSelectOriginal  = "original"
	CandidateSelectDynamicA  = "dynamic"
	CandidateSelectDynamic   = "dynamic_random"
	CandidateSelectAll       = "all"
	CandidateSelectAllRandom = "all_random"
	CandidateSelectRecent    = "recent"
	CandidateSelectRecentRnd = "recent_random"
)

func (e *Exoself) Name() string {
	return "exoself_hillclimb"
}

func (e *Exoself) Tune(ctx context.Context, rng *rand.Rand, c model.Chromosome, attempts int, fitness FitnessFn) (model.Chromosome, TuneReport, error) {
	report := TuneReport{AttemptsPlanned: attempts}
	if err := ctx.Err(); err != nil {
		return model.Chromosome{}, report, err
	}
	if rng == nil {
		return model.Chromosome{}, report, errors.New("random source is required")
	}
	if attempts <= 0 || len(c.Genes) == 0 {
		return c.Clone(), report, nil
	}
	if e.Steps <= 0 {
		return model.Chromosome{}, report, errors.New("steps must be > 0")
	}
	if e.StepSize <= 0 {
		return model.Chromosome{}, report, errors.New("step size must be > 0")
	}
	if e.PerturbationRange < 0 {
		return model.Chromosome{}, report, errors.New("perturbation range must be >= 0")
	}
	if e.AnnealingFactor < 0 {
		return model.Chromosome{}, report, errors.New("annealing factor must be >= 0")
	}
	if e.MinImprovement < 0 {
		return model.Chromosome{}, report, errors.New("min improvement must be >= 0")
	}
	if fitness == nil {
		return model.Chromosome{}, report, errors.New("fitness function is required")
	}
	mode, err := normalizeCandidateSelection(e.CandidateSelection)
	if err != nil {
		return model.Chromosome{}, report, err
	}
	perturbationRange := e.PerturbationRange
	if perturbationRange == 0 {
		perturbationRange = 1.0
	}
	annealingFactor := e.AnnealingFactor
	if annealingFactor == 0 {
		annealingFactor = 1.0
	}

	best := c.Clone()
	bestFitness, err := fitness(ctx, best)
	if err != nil {
		return model.Chromosome{}, report, err
	}
	report.Evaluations++
	report.BestFitness = bestFitness
	if e.GoalFitness > 0 && bestFitness >= e.GoalFitness {
		report.GoalReached = true
		best.Fitness = bestFitness
		return best, report, nil
	}
	recent := best.Clone()

	for a := 0; a < attempts; a++ {
		report.AttemptsExecuted++
		localBest := best
		localBestFitness := bestFitness
		for _, base := range candidateBases(rng, mode, best, c, recent) {
			candidate, err := e.perturb(ctx, rng, base, perturbationRange, annealingFactor)
			if err != nil {
				return model.Chromosome{}, report, err
			}
			candidateFitness, err := fitness(ctx, candidate)
			if err != nil {
				return model.Chromosome{}, report, err
			}
			report.Evaluations++
			if candidateFitness > localBestFitness+e.MinImprovement {
				localBest = candidate
				localBestFitness = candidateFitness
			}
		}
		recent = localBest.Clone()
		if localBestFitness > bestFitness+e.MinImprovement {
			best = localBest
			bestFitness = localBestFitness
			report.AcceptedCandidates++
		} else {
			report.RejectedCandidates++
		}
		if e.GoalFitness > 0 && bestFitness >= e.GoalFitness {
			report.GoalReached = true
			break
		}
	}

	best.Fitness = bestFitness
	report.BestFitness = bestFitness
	return best, report, nil
}

func normalizeCandidateSelection(name string) (string, error) {
	switch name {
	case "", CandidateSelectBestSoFar:
		return CandidateSelectBestSoFar, nil
	case CandidateSelectOriginal, CandidateSelectDynamicA, CandidateSelectDynamic,
		CandidateSelectAll, CandidateSelectAllRandom, CandidateSelectRecent, CandidateSelectRecentRnd:
		return name, nil
	default:
		return "", errors.Errorf("unsupported candidate selection: %s", name)
	}
}

func candidateBases(rng *rand.Rand, mode string, best, original, recent model.Chromosome) []model.Chromosome {
	switch mode {
	case CandidateSelectOriginal:
		return []model.Chromosome{original}
	case CandidateSelectDynamicA:
		return []model.Chromosome{best, original}
	case CandidateSelectDynamic:
		return randomSubset(rng, []model.Chromosome{best, original})
	case CandidateSelectAll:
		return []model.Chromosome{best, original, recent}
	case CandidateSelectAllRandom:
		return randomSubset(rng, []model.Chromosome{best, original, recent})
	case CandidateSelectRecent:
		return []model.Chromosome{recent}
	case CandidateSelectRecentRnd:
		return randomSubset(rng, []model.Chromosome{recent})
	default:
		return []model.Chromosome{best}
	}
}

// randomSubset keeps each base with probability 1/sqrt(len(pool)), and at
// least one.
func randomSubset(rng *rand.Rand, pool []model.Chromosome) []model.Chromosome {
	if len(pool) <= 1 {
		return pool
	}
	p := 1 / math.Sqrt(float64(len(pool)))
	chosen := make([]model.Chromosome, 0, len(pool))
	for i := range pool {
		if rng.Float64() < p {
			chosen = append(chosen, pool[i])
		}
	}
	if len(chosen) > 0 {
		return chosen
	}
	return []model.Chromosome{pool[rng.Intn(len(pool))]}
}

func (e *Exoself) perturb(ctx context.Context, rng *rand.Rand, base model.Chromosome, perturbationRange, annealingFactor float64) (model.Chromosome, error) {
	candidate := base.Clone()
	for s := 0; s < e.Steps; s++ {
		if err := ctx.Err(); err != nil {
			return model.Chromosome{}, err
		}
		idx := rng.Intn(len(candidate.Genes))
		spread := e.StepSize * perturbationRange * math.Pow(annealingFactor, float64(s))
		candidate.Genes[idx] += (rng.Float64()*2 - 1) * spread
	}
	return candidate, nil
}

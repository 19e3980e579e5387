package evo

import (
	"context"
	"math/rand"
	"sort"
	"sync"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/stat"

	"sigmanet/internal/model"
	"sigmanet/internal/nn"
	"sigmanet/internal/scape"
	"sigmanet/internal/tuning"
)

type ScoredChromosome struct {
	Chromosome model.Chromosome
	Fitness    float64
	Trace      scape.Trace
}

type RunResult struct {
	RunID            string
	BestByGeneration []float64
	Diagnostics      []model.GenerationDiagnostics
	// FinalPopulation is the last evaluated generation, best first.
	FinalPopulation []ScoredChromosome
	Best            ScoredChromosome
	Evaluations     int
	GoalReached     bool
}

// Reporter receives diagnostics after each generation is scored.
type Reporter func(model.GenerationDiagnostics)

type MonitorConfig struct {
	RunID          string
	Scape          scape.Scape
	Topology       []int
	Mutation       Operator
	Crossover      Crossover
	Selector       Selector
	PopulationSize int
	EliteCount     int
	Generations    int
	Workers        int
	Seed           int64
	// FitnessGoal stops the run once the best fitness reaches it. Zero disables.
	FitnessGoal float64
	Reporter    Reporter
	// Tuner, when set, locally refines every chromosome before it is scored.
	Tuner         tuning.Tuner
	TuneAttempts  int
	AttemptPolicy tuning.AttemptPolicy
}

// PopulationMonitor drives a generational genetic algorithm over flat
// parameter vectors, scoring each one through nn.InferFlat.
type PopulationMonitor struct {
	cfg       MonitorConfig
	rng       *rand.Rand
	geneCount int
}

func NewPopulationMonitor(cfg MonitorConfig) (*PopulationMonitor, error) {
	if cfg.Scape == nil {
		return nil, errors.New("scape is required")
	}
	if len(cfg.Topology) < 2 {
		return nil, errors.Errorf("topology needs an input and at least one more layer, got %v", cfg.Topology)
	}
	geneCount, err := nn.ParameterCount(cfg.Topology)
	if err != nil {
		return nil, errors.Wrap(err, "topology")
	}
	if cfg.Mutation == nil && cfg.Crossover == nil {
		return nil, errors.New("mutation or crossover operator is required")
	}
	if cfg.PopulationSize <= 0 {
		return nil, errors.New("population size must be > 0")
	}
	if cfg.EliteCount <= 0 || cfg.EliteCount > cfg.PopulationSize {
		return nil, errors.New("elite count must be in [1, population size]")
	}
	if cfg.Generations <= 0 {
		return nil, errors.New("generations must be > 0")
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.Selector == nil {
		cfg.Selector = EliteSelector{}
	}
	if cfg.TuneAttempts < 0 {
		return nil, errors.New("tune attempts must be >= 0")
	}
	if cfg.Tuner != nil && cfg.AttemptPolicy == nil {
		cfg.AttemptPolicy = tuning.FixedAttemptPolicy{}
	}
	cfg.Topology = append([]int(nil), cfg.Topology...)

	return &PopulationMonitor{
		cfg:       cfg,
		rng:       rand.New(rand.NewSource(cfg.Seed)),
		geneCount: geneCount,
	}, nil
}

// GeneCount is the chromosome length the configured topology requires.
func (m *PopulationMonitor) GeneCount() int {
	return m.geneCount
}

// Seed creates a random initial population from the monitor's random source.
func (m *PopulationMonitor) Seed() ([]model.Chromosome, error) {
	return RandomPopulation(m.rng, m.cfg.RunID, m.cfg.PopulationSize, m.geneCount)
}

func (m *PopulationMonitor) Run(ctx context.Context, initial []model.Chromosome) (RunResult, error) {
	if len(initial) != m.cfg.PopulationSize {
		return RunResult{}, errors.Errorf("initial population mismatch: got=%d want=%d", len(initial), m.cfg.PopulationSize)
	}
	for i, c := range initial {
		if len(c.Genes) != m.geneCount {
			return RunResult{}, errors.Errorf("chromosome %d has %d genes, topology %v requires %d", i, len(c.Genes), m.cfg.Topology, m.geneCount)
		}
	}

	population := make([]model.Chromosome, len(initial))
	for i, c := range initial {
		population[i] = c.Clone()
	}

	result := RunResult{
		RunID:            m.cfg.RunID,
		BestByGeneration: make([]float64, 0, m.cfg.Generations),
		Diagnostics:      make([]model.GenerationDiagnostics, 0, m.cfg.Generations),
	}
	var scored []ScoredChromosome

	for gen := 0; gen < m.cfg.Generations; gen++ {
		if err := ctx.Err(); err != nil {
			return RunResult{}, err
		}

		var (
			err         error
			evaluations int
		)
		scored, evaluations, err = m.evaluatePopulation(ctx, population, gen)
		if err != nil {
			return RunResult{}, err
		}
		result.Evaluations += evaluations

		sort.SliceStable(scored, func(i, j int) bool {
			return scored[i].Fitness > scored[j].Fitness
		})
		for i := range scored {
			scored[i].Chromosome.Fitness = scored[i].Fitness
		}
		result.BestByGeneration = append(result.BestByGeneration, scored[0].Fitness)
		diag := summarizeGeneration(scored, gen+1, result.Evaluations)
		result.Diagnostics = append(result.Diagnostics, diag)
		if m.cfg.Reporter != nil {
			m.cfg.Reporter(diag)
		}

		if m.cfg.FitnessGoal > 0 && scored[0].Fitness >= m.cfg.FitnessGoal {
			result.GoalReached = true
			break
		}
		if gen == m.cfg.Generations-1 {
			break
		}

		population, err = m.nextGeneration(ctx, scored, gen+1)
		if err != nil {
			return RunResult{}, err
		}
	}

	result.FinalPopulation = scored
	result.Best = scored[0]
	return result, nil
}

func summarizeGeneration(scored []ScoredChromosome, generation, evaluations int) model.GenerationDiagnostics {
	fitness := make([]float64, len(scored))
	minFitness := scored[0].Fitness
	for i, item := range scored {
		fitness[i] = item.Fitness
		if item.Fitness < minFitness {
			minFitness = item.Fitness
		}
	}
	mean, std := stat.MeanStdDev(fitness, nil)
	if len(fitness) < 2 {
		std = 0
	}

	return model.GenerationDiagnostics{
		Generation:  generation,
		BestFitness: scored[0].Fitness,
		MeanFitness: mean,
		MinFitness:  minFitness,
		StdDev:      std,
		Evaluations: evaluations,
	}
}

// evaluatePopulation scores the population on a worker pool. Tuning seeds are
// drawn up front so results do not depend on worker scheduling.
func (m *PopulationMonitor) evaluatePopulation(ctx context.Context, population []model.Chromosome, generation int) ([]ScoredChromosome, int, error) {
	type job struct {
		idx        int
		chromosome model.Chromosome
		tuneSeed   int64
		attempts   int
	}
	type result struct {
		idx         int
		scored      ScoredChromosome
		evaluations int
		err         error
	}

	jobs := make(chan job)
	results := make(chan result, len(population))

	workerCount := m.cfg.Workers
	if workerCount > len(population) {
		workerCount = len(population)
	}

	var wg sync.WaitGroup
	wg.Add(workerCount)
	for w := 0; w < workerCount; w++ {
		go func() {
			defer wg.Done()
			for j := range jobs {
				if err := ctx.Err(); err != nil {
					results <- result{idx: j.idx, err: err}
					continue
				}
				scored, evaluations, err := m.evaluate(ctx, j.chromosome, j.tuneSeed, j.attempts)
				results <- result{idx: j.idx, scored: scored, evaluations: evaluations, err: err}
			}
		}()
	}

	planned := make([]job, len(population))
	for i := range population {
		planned[i] = job{idx: i, chromosome: population[i]}
		if m.cfg.Tuner != nil {
			planned[i].tuneSeed = m.rng.Int63()
			planned[i].attempts = m.cfg.AttemptPolicy.Attempts(m.cfg.TuneAttempts, generation, m.cfg.Generations, population[i])
		}
	}
	for _, j := range planned {
		jobs <- j
	}
	close(jobs)

	wg.Wait()
	close(results)

	scored := make([]ScoredChromosome, len(population))
	total := 0
	for res := range results {
		if res.err != nil {
			return nil, 0, res.err
		}
		scored[res.idx] = res.scored
		total += res.evaluations
	}
	return scored, total, nil
}

func (m *PopulationMonitor) evaluate(ctx context.Context, c model.Chromosome, tuneSeed int64, attempts int) (ScoredChromosome, int, error) {
	evaluations := 0
	if m.cfg.Tuner != nil && attempts > 0 {
		fitness := func(ctx context.Context, candidate model.Chromosome) (float64, error) {
			f, _, err := scape.EvaluateChromosome(ctx, m.cfg.Scape, m.cfg.Topology, candidate)
			return float64(f), err
		}
		tuned, report, err := m.cfg.Tuner.Tune(ctx, rand.New(rand.NewSource(tuneSeed)), c, attempts, fitness)
		if err != nil {
			return ScoredChromosome{}, 0, errors.Wrapf(err, "%s tuning", m.cfg.Tuner.Name())
		}
		c = tuned
		evaluations += report.Evaluations
	}

	fitness, trace, err := scape.EvaluateChromosome(ctx, m.cfg.Scape, m.cfg.Topology, c)
	if err != nil {
		return ScoredChromosome{}, 0, err
	}
	return ScoredChromosome{
		Chromosome: c,
		Fitness:    float64(fitness),
		Trace:      trace,
	}, evaluations + 1, nil
}

// nextGeneration keeps the elites unchanged and fills the rest of the
// population with mutated offspring of selected parents.
func (m *PopulationMonitor) nextGeneration(ctx context.Context, ranked []ScoredChromosome, generation int) ([]model.Chromosome, error) {
	next := make([]model.Chromosome, 0, m.cfg.PopulationSize)
	for i := 0; i < m.cfg.EliteCount; i++ {
		next = append(next, ranked[i].Chromosome.Clone())
	}

	for len(next) < m.cfg.PopulationSize {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		parent, err := m.cfg.Selector.PickParent(m.rng, ranked, m.cfg.EliteCount)
		if err != nil {
			return nil, errors.Wrap(err, "select parent")
		}
		child := parent.Clone()
		if m.cfg.Crossover != nil {
			other, err := m.cfg.Selector.PickParent(m.rng, ranked, m.cfg.EliteCount)
			if err != nil {
				return nil, errors.Wrap(err, "select mate")
			}
			child, err = m.cfg.Crossover.Cross(m.rng, parent, other)
			if err != nil {
				return nil, errors.Wrapf(err, "%s crossover", m.cfg.Crossover.Name())
			}
		}
		if m.cfg.Mutation != nil {
			child, err = m.cfg.Mutation.Apply(ctx, m.rng, child)
			if err != nil {
				return nil, errors.Wrapf(err, "%s mutation", m.cfg.Mutation.Name())
			}
		}

		id, err := newID(m.rng)
		if err != nil {
			return nil, err
		}
		next = append(next, newChromosome(id, m.cfg.RunID, generation, child.Genes))
	}
	return next, nil
}

// Package sigmanet is the programmatic entry point for building, evaluating
// and training feed-forward sigmoid networks.
package sigmanet

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"sigmanet/internal/dataset"
	"sigmanet/internal/evo"
	"sigmanet/internal/model"
	"sigmanet/internal/nn"
	"sigmanet/internal/scape"
	"sigmanet/internal/stats"
	"sigmanet/internal/storage"
	"sigmanet/internal/tuning"
)

const (
	defaultDBPath   = "sigmanet.db"
	defaultTopCount = 5
)

// ErrRunNotFound is returned when a run ID has no stored record.
var ErrRunNotFound = errors.New("run not found")

type Options struct {
	StoreKind string
	DBPath    string
	// ArtifactsDir, when set, receives a directory of JSON/CSV artifacts per run.
	ArtifactsDir string
}

type Client struct {
	store        storage.Store
	artifactsDir string

	mu          sync.Mutex
	initialized bool
}

type RunRequest struct {
	Scape string
	// Topology is the layer sizes, input layer first. Empty derives a
	// default from the scape.
	Topology     []int
	DatasetPath  string
	DatasetLimit int
	DatasetScale float64
	Population   int
	Generations  int
	EliteCount   int
	Seed         int64
	Workers      int
	Selection    string
	Crossover    string
	// MutationRate is the per-gene mutation probability.
	MutationRate  float64
	MutationPower float64
	FitnessGoal   float64
	TopCount      int
	// EnableTuning refines every chromosome with a hill climber before it is
	// scored.
	EnableTuning    bool
	TuneAttempts    int
	TuneSteps       int
	TuneStepSize    float64
	TunePolicy      string
	TunePolicyParam float64
	TuneSelection   string
	Progress        func(model.GenerationDiagnostics)
}

type RunSummary struct {
	RunID            string
	ArtifactsDir     string
	Topology         []int
	BestByGeneration []float64
	BestFitness      float64
	BestGenes        []float64
	Generations      int
	Evaluations      int
	GoalReached      bool
}

func New(opts Options) (*Client, error) {
	storeKind := opts.StoreKind
	if storeKind == "" {
		storeKind = storage.DefaultStoreKind()
	}
	dbPath := opts.DBPath
	if dbPath == "" {
		dbPath = defaultDBPath
	}

	store, err := storage.NewStore(storeKind, dbPath)
	if err != nil {
		return nil, err
	}
	return &Client{store: store, artifactsDir: opts.ArtifactsDir}, nil
}

func (c *Client) Close() error {
	return storage.CloseIfSupported(c.store)
}

// Init prepares the backing store. Other methods call it on demand.
func (c *Client) Init(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.initialized {
		return nil
	}
	if err := c.store.Init(ctx); err != nil {
		return errors.Wrap(err, "init store")
	}
	c.initialized = true
	return nil
}

// Infer evaluates one input vector on the network described by topology and
// its flat parameter vector.
func (c *Client) Infer(topology []int, params, inputs []float64) ([]float64, error) {
	net, err := nn.NewWithParameters(topology, params)
	if err != nil {
		return nil, err
	}
	return net.Infer(inputs)
}

func (c *Client) Run(ctx context.Context, req RunRequest) (RunSummary, error) {
	if req.Scape == "" {
		req.Scape = "xor"
	}
	if req.Population <= 0 {
		req.Population = 50
	}
	if req.Generations <= 0 {
		req.Generations = 100
	}
	if req.EliteCount <= 0 {
		req.EliteCount = req.Population / 5
		if req.EliteCount < 1 {
			req.EliteCount = 1
		}
	}
	if req.Workers <= 0 {
		req.Workers = 4
	}
	if req.MutationRate <= 0 {
		req.MutationRate = 0.1
	}
	if req.MutationPower <= 0 {
		req.MutationPower = 0.5
	}
	if req.TopCount <= 0 {
		req.TopCount = defaultTopCount
	}
	if req.TuneAttempts <= 0 {
		req.TuneAttempts = 4
	}
	if req.TuneSteps <= 0 {
		req.TuneSteps = 6
	}
	if req.TuneStepSize <= 0 {
		req.TuneStepSize = 0.35
	}
	if req.MutationRate > 1 {
		return RunSummary{}, errors.New("mutation rate must be <= 1")
	}

	var samples []model.Sample
	if strings.TrimSpace(req.DatasetPath) != "" {
		var err error
		samples, err = dataset.LoadCSV(req.DatasetPath, dataset.Options{Scale: req.DatasetScale, Limit: req.DatasetLimit})
		if err != nil {
			return RunSummary{}, err
		}
	}
	sc, err := scape.Lookup(req.Scape, samples)
	if err != nil {
		return RunSummary{}, err
	}
	topology, err := resolveTopology(req.Scape, req.Topology, samples)
	if err != nil {
		return RunSummary{}, err
	}
	selector, err := evo.SelectorByName(req.Selection)
	if err != nil {
		return RunSummary{}, err
	}
	crossover, err := evo.CrossoverByName(req.Crossover)
	if err != nil {
		return RunSummary{}, err
	}
	var (
		tuner         tuning.Tuner
		attemptPolicy tuning.AttemptPolicy
	)
	if req.EnableTuning {
		tuner = &tuning.Exoself{
			Steps:              req.TuneSteps,
			StepSize:           req.TuneStepSize,
			GoalFitness:        req.FitnessGoal,
			CandidateSelection: req.TuneSelection,
		}
		attemptPolicy, err = tuning.AttemptPolicyFromConfig(req.TunePolicy, req.TunePolicyParam)
		if err != nil {
			return RunSummary{}, err
		}
	}
	if err := c.Init(ctx); err != nil {
		return RunSummary{}, err
	}

	runID := fmt.Sprintf("%s-%d-%s", strings.ToLower(req.Scape), req.Seed, uuid.NewString()[:8])
	monitor, err := evo.NewPopulationMonitor(evo.MonitorConfig{
		RunID:          runID,
		Scape:          sc,
		Topology:       topology,
		Mutation:       evo.GaussianMutation{Rate: req.MutationRate, Power: req.MutationPower},
		Crossover:      crossover,
		Selector:       selector,
		PopulationSize: req.Population,
		EliteCount:     req.EliteCount,
		Generations:    req.Generations,
		Workers:        req.Workers,
		Seed:           req.Seed,
		FitnessGoal:    req.FitnessGoal,
		Reporter:       req.Progress,
		Tuner:          tuner,
		TuneAttempts:   req.TuneAttempts,
		AttemptPolicy:  attemptPolicy,
	})
	if err != nil {
		return RunSummary{}, err
	}
	initial, err := monitor.Seed()
	if err != nil {
		return RunSummary{}, err
	}
	result, err := monitor.Run(ctx, initial)
	if err != nil {
		return RunSummary{}, err
	}

	top := make([]model.Chromosome, 0, req.TopCount)
	for i := 0; i < len(result.FinalPopulation) && i < req.TopCount; i++ {
		top = append(top, result.FinalPopulation[i].Chromosome)
	}
	best := result.Best.Chromosome
	if err := c.store.SaveChromosome(ctx, best); err != nil {
		return RunSummary{}, errors.Wrap(err, "save best chromosome")
	}
	if err := c.store.SaveTopChromosomes(ctx, runID, top); err != nil {
		return RunSummary{}, errors.Wrap(err, "save top chromosomes")
	}
	if err := c.store.SaveFitnessHistory(ctx, runID, result.BestByGeneration); err != nil {
		return RunSummary{}, errors.Wrap(err, "save fitness history")
	}
	if err := c.store.SaveGenerationDiagnostics(ctx, runID, result.Diagnostics); err != nil {
		return RunSummary{}, errors.Wrap(err, "save generation diagnostics")
	}
	if err := c.store.SaveRun(ctx, model.RunSummary{
		VersionedRecord: storage.CurrentVersion(),
		RunID:           runID,
		Scape:           sc.Name(),
		Topology:        topology,
		Population:      req.Population,
		Generations:     len(result.BestByGeneration),
		Seed:            req.Seed,
		BestID:          best.ID,
		BestFitness:     result.Best.Fitness,
	}); err != nil {
		return RunSummary{}, errors.Wrap(err, "save run")
	}

	var runDir string
	if c.artifactsDir != "" {
		topArtifacts := make([]stats.TopChromosome, 0, len(top))
		for i, chromosome := range top {
			topArtifacts = append(topArtifacts, stats.TopChromosome{Rank: i + 1, Fitness: chromosome.Fitness, Chromosome: chromosome})
		}
		runDir, err = stats.WriteRunArtifacts(c.artifactsDir, stats.RunArtifacts{
			Config: stats.RunConfig{
				RunID:           runID,
				Scape:           sc.Name(),
				Topology:        topology,
				DatasetPath:     req.DatasetPath,
				PopulationSize:  req.Population,
				Generations:     req.Generations,
				EliteCount:      req.EliteCount,
				Seed:            req.Seed,
				Workers:         req.Workers,
				Selection:       selector.Name(),
				Crossover:       crossoverName(crossover),
				MutationRate:    req.MutationRate,
				MutationPower:   req.MutationPower,
				FitnessGoal:     req.FitnessGoal,
				TuningEnabled:   req.EnableTuning,
				TuneAttempts:    req.TuneAttempts,
				TuneSteps:       req.TuneSteps,
				TuneStepSize:    req.TuneStepSize,
				TunePolicy:      req.TunePolicy,
				TunePolicyParam: req.TunePolicyParam,
				TuneSelection:   req.TuneSelection,
			},
			BestByGeneration:      result.BestByGeneration,
			GenerationDiagnostics: result.Diagnostics,
			TopChromosomes:        topArtifacts,
			FinalBestFitness:      result.Best.Fitness,
		})
		if err != nil {
			return RunSummary{}, err
		}
	}

	return RunSummary{
		RunID:            runID,
		ArtifactsDir:     runDir,
		Topology:         topology,
		BestByGeneration: append([]float64(nil), result.BestByGeneration...),
		BestFitness:      result.Best.Fitness,
		BestGenes:        append([]float64(nil), best.Genes...),
		Generations:      len(result.BestByGeneration),
		Evaluations:      result.Evaluations,
		GoalReached:      result.GoalReached,
	}, nil
}

// Runs lists stored runs ordered by run ID.
func (c *Client) Runs(ctx context.Context) ([]model.RunSummary, error) {
	if err := c.Init(ctx); err != nil {
		return nil, err
	}
	return c.store.ListRuns(ctx)
}

// Top returns up to limit of the best chromosomes kept for runID, best first.
// A limit <= 0 returns all of them.
func (c *Client) Top(ctx context.Context, runID string, limit int) ([]model.Chromosome, error) {
	if err := c.Init(ctx); err != nil {
		return nil, err
	}
	top, ok, err := c.store.GetTopChromosomes(ctx, runID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errors.Wrapf(ErrRunNotFound, "%s", runID)
	}
	if limit > 0 && limit < len(top) {
		top = top[:limit]
	}
	return top, nil
}

func (c *Client) FitnessHistory(ctx context.Context, runID string) ([]float64, error) {
	if err := c.Init(ctx); err != nil {
		return nil, err
	}
	history, ok, err := c.store.GetFitnessHistory(ctx, runID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errors.Wrapf(ErrRunNotFound, "%s", runID)
	}
	return history, nil
}

func (c *Client) Diagnostics(ctx context.Context, runID string) ([]model.GenerationDiagnostics, error) {
	if err := c.Init(ctx); err != nil {
		return nil, err
	}
	diagnostics, ok, err := c.store.GetGenerationDiagnostics(ctx, runID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errors.Wrapf(ErrRunNotFound, "%s", runID)
	}
	return diagnostics, nil
}

// ExportCheckpoints writes the top chromosomes of runID to w in the
// comma-delimited checkpoint format and returns how many were written.
func (c *Client) ExportCheckpoints(ctx context.Context, runID string, w io.Writer) (int, error) {
	top, err := c.Top(ctx, runID, 0)
	if err != nil {
		return 0, err
	}
	candidates := make([][]float64, 0, len(top))
	for _, chromosome := range top {
		candidates = append(candidates, chromosome.Genes)
	}
	if err := storage.WriteCheckpoints(w, candidates); err != nil {
		return 0, errors.Wrap(err, "write checkpoints")
	}
	return len(candidates), nil
}

func crossoverName(c evo.Crossover) string {
	if c == nil {
		return "none"
	}
	return c.Name()
}

// resolveTopology validates an explicit topology against the scape's data or
// derives a default one.
func resolveTopology(scapeName string, topology []int, samples []model.Sample) ([]int, error) {
	name := strings.TrimSpace(strings.ToLower(scapeName))
	inputs, outputs := 0, 0
	switch name {
	case "xor":
		inputs, outputs = 2, 1
	case "classification":
		inputs = len(samples[0].Inputs)
		for _, sample := range samples {
			if sample.Label+1 > outputs {
				outputs = sample.Label + 1
			}
		}
	}

	if len(topology) == 0 {
		if inputs == 0 {
			return nil, errors.Errorf("no default topology for scape %q", scapeName)
		}
		if name == "xor" {
			return []int{inputs, 3, outputs}, nil
		}
		return []int{inputs, outputs}, nil
	}
	if _, err := nn.ParameterCount(topology); err != nil {
		return nil, err
	}
	if len(topology) < 2 {
		return nil, errors.Errorf("topology %v needs at least two layers for training", topology)
	}
	if inputs > 0 && topology[0] != inputs {
		return nil, errors.Errorf("topology input size %d does not match scape input size %d", topology[0], inputs)
	}
	if outputs > 0 && topology[len(topology)-1] < outputs {
		return nil, errors.Errorf("topology output size %d is smaller than scape output size %d", topology[len(topology)-1], outputs)
	}
	return append([]int(nil), topology...), nil
}

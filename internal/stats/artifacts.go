package stats

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/pkg/errors"

	"sigmanet/internal/model"
	"sigmanet/internal/storage"
)

type RunConfig struct {
	RunID           string  `json:"run_id"`
	Scape           string  `json:"scape"`
	Topology        []int   `json:"topology"`
	DatasetPath     string  `json:"dataset_path,omitempty"`
	PopulationSize  int     `json:"population_size"`
	Generations     int     `json:"generations"`
	EliteCount      int     `json:"elite_count"`
	Seed            int64   `json:"seed"`
	Workers         int     `json:"workers"`
	Selection       string  `json:"selection"`
	Crossover       string  `json:"crossover"`
	MutationRate    float64 `json:"mutation_rate"`
	MutationPower   float64 `json:"mutation_power"`
	FitnessGoal     float64 `json:"fitness_goal"`
	TuningEnabled   bool    `json:"tuning_enabled"`
	TuneAttempts    int     `json:"tune_attempts,omitempty"`
	TuneSteps       int     `json:"tune_steps,omitempty"`
	TuneStepSize    float64 `json:"tune_step_size,omitempty"`
	TunePolicy      string  `json:"tune_policy,omitempty"`
	TunePolicyParam float64 `json:"tune_policy_param,omitempty"`
	TuneSelection   string  `json:"tune_selection,omitempty"`
}

type TopChromosome struct {
	Rank       int              `json:"rank"`
	Fitness    float64          `json:"fitness"`
	Chromosome model.Chromosome `json:"chromosome"`
}

type RunArtifacts struct {
	Config                RunConfig                     `json:"config"`
	BestByGeneration      []float64                     `json:"best_by_generation"`
	GenerationDiagnostics []model.GenerationDiagnostics `json:"generation_diagnostics,omitempty"`
	TopChromosomes        []TopChromosome               `json:"top_chromosomes"`
	FinalBestFitness      float64                       `json:"final_best_fitness"`
}

// WriteRunArtifacts writes one directory per run under baseDir and returns
// its path. top_chromosomes.txt holds the same genes in checkpoint format so
// the best candidates can be reloaded without a store.
func WriteRunArtifacts(baseDir string, artifacts RunArtifacts) (string, error) {
	if artifacts.Config.RunID == "" {
		return "", errors.New("run id is required")
	}

	runDir := filepath.Join(baseDir, artifacts.Config.RunID)
	if err := os.MkdirAll(runDir, 0o755); err != nil {
		return "", errors.Wrap(err, "create run artifacts dir")
	}

	if err := writeJSON(filepath.Join(runDir, "config.json"), artifacts.Config); err != nil {
		return "", err
	}
	if err := writeJSON(filepath.Join(runDir, "fitness_history.json"), map[string]any{"best_by_generation": artifacts.BestByGeneration, "final_best_fitness": artifacts.FinalBestFitness}); err != nil {
		return "", err
	}
	if err := writeJSON(filepath.Join(runDir, "generation_diagnostics.json"), artifacts.GenerationDiagnostics); err != nil {
		return "", err
	}
	if err := writeJSON(filepath.Join(runDir, "top_chromosomes.json"), artifacts.TopChromosomes); err != nil {
		return "", err
	}
	if err := WriteBenchmarkSeries(runDir, artifacts.BestByGeneration); err != nil {
		return "", err
	}

	candidates := make([][]float64, 0, len(artifacts.TopChromosomes))
	for _, top := range artifacts.TopChromosomes {
		candidates = append(candidates, top.Chromosome.Genes)
	}
	f, err := os.Create(filepath.Join(runDir, "top_chromosomes.txt"))
	if err != nil {
		return "", errors.Wrap(err, "create checkpoint artifact")
	}
	err = storage.WriteCheckpoints(f, candidates)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return "", errors.Wrap(err, "write checkpoint artifact")
	}

	return runDir, nil
}

func ReadRunConfig(baseDir, runID string) (RunConfig, bool, error) {
	path := filepath.Join(baseDir, runID, "config.json")
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return RunConfig{}, false, nil
		}
		return RunConfig{}, false, err
	}

	var cfg RunConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return RunConfig{}, false, errors.Wrapf(err, "decode %s", path)
	}
	return cfg, true, nil
}

func WriteBenchmarkSeries(runDir string, bestByGeneration []float64) error {
	path := filepath.Join(runDir, "benchmark_series.csv")
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write([]string{"generation", "best_fitness"}); err != nil {
		return err
	}
	for i, best := range bestByGeneration {
		if err := writer.Write([]string{
			strconv.Itoa(i + 1),
			strconv.FormatFloat(best, 'g', -1, 64),
		}); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func ReadBenchmarkSeries(baseDir, runID string) ([]float64, bool, error) {
	path := filepath.Join(baseDir, runID, "benchmark_series.csv")
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	header, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return []float64{}, true, nil
		}
		return nil, false, err
	}
	if len(header) < 2 {
		return nil, false, errors.New("benchmark series header must have at least 2 columns")
	}

	series := make([]float64, 0, 128)
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, false, err
		}
		if len(record) < 2 {
			return nil, false, errors.New("benchmark series row must have at least 2 columns")
		}
		value, err := strconv.ParseFloat(record[1], 64)
		if err != nil {
			return nil, false, err
		}
		series = append(series, value)
	}
	return series, true, nil
}

func writeJSON(path string, value any) error {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o644)
}

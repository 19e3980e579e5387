package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"

	"sigmanet/internal/model"
	"sigmanet/internal/storage"
	"sigmanet/pkg/sigmanet"
)

const defaultDBPath = "sigmanet.db"

var errUsage = errors.New("sigmanetctl <init|infer|run|runs|top|fitness|diagnostics|export> [flags]")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		if errors.Is(err, errUsage) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	if len(args) == 0 {
		return usageError("missing command")
	}

	switch args[0] {
	case "init":
		return runInit(ctx, args[1:], stdout)
	case "infer":
		return runInfer(ctx, args[1:], stdout)
	case "run":
		return runRun(ctx, args[1:], stdout)
	case "runs":
		return runRuns(ctx, args[1:], stdout)
	case "top":
		return runTop(ctx, args[1:], stdout)
	case "fitness":
		return runFitness(ctx, args[1:], stdout)
	case "diagnostics":
		return runDiagnostics(ctx, args[1:], stdout)
	case "export":
		return runExport(ctx, args[1:], stdout)
	default:
		return usageError(fmt.Sprintf("unknown command: %s", args[0]))
	}
}

type storeFlags struct {
	kind         *string
	dbPath       *string
	artifactsDir *string
}

func addStoreFlags(fs *flag.FlagSet) storeFlags {
	return storeFlags{
		kind:   fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite"),
		dbPath: fs.String("db-path", defaultDBPath, "sqlite database path"),
	}
}

func (f storeFlags) client() (*sigmanet.Client, error) {
	opts := sigmanet.Options{StoreKind: *f.kind, DBPath: *f.dbPath}
	if f.artifactsDir != nil {
		opts.ArtifactsDir = *f.artifactsDir
	}
	return sigmanet.New(opts)
}

func runInit(ctx context.Context, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("init", flag.ContinueOnError)
	store := addStoreFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	client, err := store.client()
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()
	if err := client.Init(ctx); err != nil {
		return err
	}

	fmt.Fprintf(stdout, "initialized store=%s\n", *store.kind)
	return nil
}

func runInfer(_ context.Context, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("infer", flag.ContinueOnError)
	topologyFlag := fs.String("topology", "", "comma-separated layer sizes, input layer first")
	paramsFlag := fs.String("params", "", "comma-separated flat parameter vector")
	paramsFile := fs.String("params-file", "", "checkpoint file to read parameters from")
	index := fs.Int("index", 0, "checkpoint line to use with --params-file")
	inputsFlag := fs.String("inputs", "", "comma-separated input values")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *topologyFlag == "" {
		return usageError("infer requires --topology")
	}
	if (*paramsFlag == "") == (*paramsFile == "") {
		return usageError("infer requires exactly one of --params or --params-file")
	}

	topology, err := parseInts(*topologyFlag)
	if err != nil {
		return usageError("invalid --topology: " + err.Error())
	}
	inputs, err := parseFloats(*inputsFlag)
	if err != nil {
		return usageError("invalid --inputs: " + err.Error())
	}

	var params []float64
	if *paramsFile != "" {
		params, err = readCheckpoint(*paramsFile, *index)
	} else {
		params, err = parseFloats(*paramsFlag)
	}
	if err != nil {
		return err
	}

	client, err := sigmanet.New(sigmanet.Options{StoreKind: "memory"})
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	out, err := client.Infer(topology, params, inputs)
	if err != nil {
		return err
	}
	fmt.Fprintln(stdout, formatFloats(out))
	return nil
}

func runRun(ctx context.Context, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	configPath := fs.String("config", "", "optional run config path (.json, .yaml or .yml)")
	scapeName := fs.String("scape", "xor", "scape name: xor|classification")
	topologyFlag := fs.String("topology", "", "comma-separated layer sizes; empty derives one from the scape")
	datasetPath := fs.String("dataset", "", "labeled sample CSV for the classification scape")
	datasetLimit := fs.Int("dataset-limit", 0, "max samples to read (0 for all)")
	datasetScale := fs.Float64("dataset-scale", 0, "feature scale factor (0 for 1/255)")
	population := fs.Int("pop", 50, "population size")
	generations := fs.Int("gens", 100, "generation count")
	elite := fs.Int("elite", 0, "elite count carried unchanged (0 for pop/5)")
	seed := fs.Int64("seed", 1, "rng seed")
	workers := fs.Int("workers", 4, "worker count")
	selection := fs.String("selection", "elite", "parent selection: elite|tournament")
	crossover := fs.String("crossover", "uniform", "crossover: uniform|single_point|none")
	mutationRate := fs.Float64("mutation-rate", 0.1, "per-gene mutation probability")
	mutationPower := fs.Float64("mutation-power", 0.5, "gaussian mutation standard deviation")
	fitnessGoal := fs.Float64("fitness-goal", 0, "stop once best fitness reaches this value (0 disables)")
	topCount := fs.Int("top", 5, "top chromosomes kept per run")
	enableTuning := fs.Bool("tune", false, "hill-climb every chromosome before scoring")
	tuneAttempts := fs.Int("tune-attempts", 4, "tuning attempts per chromosome")
	tuneSteps := fs.Int("tune-steps", 6, "genes perturbed per tuning attempt")
	tuneStepSize := fs.Float64("tune-step-size", 0.35, "tuning perturbation spread")
	tunePolicy := fs.String("tune-policy", "fixed", "tuning attempt policy: fixed|linear_decay|wsize_proportional")
	tunePolicyParam := fs.Float64("tune-policy-param", 1, "tuning attempt policy parameter")
	tuneSelection := fs.String("tune-selection", "best_so_far", "tuning candidate selection: best_so_far|original|dynamic|dynamic_random|all|all_random|recent|recent_random")
	progress := fs.String("progress", "auto", "per-generation progress: auto|always|never")
	store := addStoreFlags(fs)
	store.artifactsDir = fs.String("artifacts-dir", "", "directory for per-run JSON/CSV artifacts (empty disables)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	setFlags := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) {
		setFlags[f.Name] = true
	})

	var req sigmanet.RunRequest
	if *configPath != "" {
		loaded, err := loadRunRequestFromConfig(*configPath)
		if err != nil {
			return err
		}
		req = loaded
	} else {
		req = sigmanet.RunRequest{
			Scape:           *scapeName,
			DatasetPath:     *datasetPath,
			DatasetLimit:    *datasetLimit,
			DatasetScale:    *datasetScale,
			Population:      *population,
			Generations:     *generations,
			EliteCount:      *elite,
			Seed:            *seed,
			Workers:         *workers,
			Selection:       *selection,
			Crossover:       *crossover,
			MutationRate:    *mutationRate,
			MutationPower:   *mutationPower,
			FitnessGoal:     *fitnessGoal,
			TopCount:        *topCount,
			EnableTuning:    *enableTuning,
			TuneAttempts:    *tuneAttempts,
			TuneSteps:       *tuneSteps,
			TuneStepSize:    *tuneStepSize,
			TunePolicy:      *tunePolicy,
			TunePolicyParam: *tunePolicyParam,
			TuneSelection:   *tuneSelection,
		}
	}
	if err := overrideFromFlags(&req, setFlags, map[string]any{
		"scape":             *scapeName,
		"topology":          *topologyFlag,
		"dataset":           *datasetPath,
		"dataset-limit":     *datasetLimit,
		"dataset-scale":     *datasetScale,
		"pop":               *population,
		"gens":              *generations,
		"elite":             *elite,
		"seed":              *seed,
		"workers":           *workers,
		"selection":         *selection,
		"crossover":         *crossover,
		"mutation-rate":     *mutationRate,
		"mutation-power":    *mutationPower,
		"fitness-goal":      *fitnessGoal,
		"top":               *topCount,
		"tune":              *enableTuning,
		"tune-attempts":     *tuneAttempts,
		"tune-steps":        *tuneSteps,
		"tune-step-size":    *tuneStepSize,
		"tune-policy":       *tunePolicy,
		"tune-policy-param": *tunePolicyParam,
		"tune-selection":    *tuneSelection,
	}); err != nil {
		return err
	}

	showProgress, err := progressEnabled(*progress, stdout)
	if err != nil {
		return err
	}
	if showProgress {
		req.Progress = func(d model.GenerationDiagnostics) {
			fmt.Fprintf(stdout, "generation=%d best=%.6f mean=%.6f min=%.6f stddev=%.6f evaluations=%s\n",
				d.Generation, d.BestFitness, d.MeanFitness, d.MinFitness, d.StdDev, humanize.Comma(int64(d.Evaluations)))
		}
	}

	client, err := store.client()
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	started := time.Now()
	summary, err := client.Run(ctx, req)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "run_id=%s topology=%s generations=%d evaluations=%s best=%.6f goal_reached=%t elapsed=%s\n",
		summary.RunID,
		formatInts(summary.Topology),
		summary.Generations,
		humanize.Comma(int64(summary.Evaluations)),
		summary.BestFitness,
		summary.GoalReached,
		time.Since(started).Round(time.Millisecond),
	)
	if summary.ArtifactsDir != "" {
		fmt.Fprintf(stdout, "artifacts=%s\n", summary.ArtifactsDir)
	}
	return nil
}

func runRuns(ctx context.Context, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("runs", flag.ContinueOnError)
	store := addStoreFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	client, err := store.client()
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	runs, err := client.Runs(ctx)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(stdout, "no runs")
		return nil
	}
	for _, r := range runs {
		fmt.Fprintf(stdout, "run_id=%s scape=%s topology=%s population=%d generations=%d seed=%d best=%.6f\n",
			r.RunID, r.Scape, formatInts(r.Topology), r.Population, r.Generations, r.Seed, r.BestFitness)
	}
	return nil
}

func runTop(ctx context.Context, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("top", flag.ContinueOnError)
	runID := fs.String("run-id", "", "run id")
	limit := fs.Int("limit", 5, "max chromosomes to print (<=0 for all)")
	jsonOut := fs.Bool("json", false, "emit chromosomes as JSON")
	store := addStoreFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *runID == "" {
		return usageError("top requires --run-id")
	}

	client, err := store.client()
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	top, err := client.Top(ctx, *runID, *limit)
	if err != nil {
		return err
	}
	if *jsonOut {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(top)
	}
	if len(top) == 0 {
		fmt.Fprintln(stdout, "no top chromosomes")
		return nil
	}
	for i, c := range top {
		fmt.Fprintf(stdout, "rank=%d fitness=%.6f id=%s generation=%d genes=%s\n",
			i+1, c.Fitness, c.ID, c.Generation, humanize.Comma(int64(len(c.Genes))))
	}
	return nil
}

func runFitness(ctx context.Context, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("fitness", flag.ContinueOnError)
	runID := fs.String("run-id", "", "run id")
	store := addStoreFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *runID == "" {
		return usageError("fitness requires --run-id")
	}

	client, err := store.client()
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	history, err := client.FitnessHistory(ctx, *runID)
	if err != nil {
		return err
	}
	for i, best := range history {
		fmt.Fprintf(stdout, "generation=%d best=%.6f\n", i+1, best)
	}
	return nil
}

func runDiagnostics(ctx context.Context, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("diagnostics", flag.ContinueOnError)
	runID := fs.String("run-id", "", "run id")
	jsonOut := fs.Bool("json", false, "emit diagnostics as JSON")
	store := addStoreFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *runID == "" {
		return usageError("diagnostics requires --run-id")
	}

	client, err := store.client()
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	diagnostics, err := client.Diagnostics(ctx, *runID)
	if err != nil {
		return err
	}
	if *jsonOut {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(diagnostics)
	}
	for _, d := range diagnostics {
		fmt.Fprintf(stdout, "generation=%d best=%.6f mean=%.6f min=%.6f stddev=%.6f evaluations=%s\n",
			d.Generation, d.BestFitness, d.MeanFitness, d.MinFitness, d.StdDev, humanize.Comma(int64(d.Evaluations)))
	}
	return nil
}

func runExport(ctx context.Context, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	runID := fs.String("run-id", "", "run id")
	out := fs.String("out", "", "checkpoint file to write (empty for stdout)")
	store := addStoreFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *runID == "" {
		return usageError("export requires --run-id")
	}

	client, err := store.client()
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	if *out == "" {
		_, err := client.ExportCheckpoints(ctx, *runID, stdout)
		return err
	}

	f, err := os.Create(*out)
	if err != nil {
		return errors.Wrap(err, "create checkpoint file")
	}
	n, err := client.ExportCheckpoints(ctx, *runID, f)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "exported run_id=%s checkpoints=%d path=%s\n", *runID, n, *out)
	return nil
}

// progressEnabled resolves the --progress mode. auto prints only when stdout
// is a terminal.
func progressEnabled(mode string, stdout io.Writer) (bool, error) {
	switch mode {
	case "always":
		return true, nil
	case "never":
		return false, nil
	case "auto":
		f, ok := stdout.(*os.File)
		if !ok {
			return false, nil
		}
		return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()), nil
	default:
		return false, usageError(fmt.Sprintf("invalid --progress: %s", mode))
	}
}

func readCheckpoint(path string, index int) ([]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open checkpoint file")
	}
	defer f.Close()

	candidates, err := storage.ReadCheckpoints(f)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(candidates) {
		return nil, errors.Errorf("checkpoint index %d outside %d candidates", index, len(candidates))
	}
	return candidates[index], nil
}

func parseInts(s string) ([]int, error) {
	fields := splitList(s)
	out := make([]int, 0, len(fields))
	for _, field := range fields {
		v, err := strconv.Atoi(field)
		if err != nil {
			return nil, errors.Wrapf(err, "parse %q", field)
		}
		out = append(out, v)
	}
	return out, nil
}

func parseFloats(s string) ([]float64, error) {
	fields := splitList(s)
	out := make([]float64, 0, len(fields))
	for _, field := range fields {
		v, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "parse %q", field)
		}
		out = append(out, v)
	}
	return out, nil
}

func splitList(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	fields := strings.Split(s, ",")
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}
	return fields
}

func formatInts(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ",")
}

func formatFloats(values []float64) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.FormatFloat(v, 'g', -1, 64)
	}
	return strings.Join(parts, ",")
}

func usageError(msg string) error {
	return errors.Wrapf(errUsage, "%s\nusage", msg)
}

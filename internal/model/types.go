package model

// VersionedRecord captures schema and codec evolution for persistent data.
type VersionedRecord struct {
	SchemaVersion int `json:"schema_version"`
	CodecVersion  int `json:"codec_version"`
}

// Chromosome is one candidate parameterization of a network: a flat vector
// of biases and weights in the order nn.Network.Load consumes them.
type Chromosome struct {
	VersionedRecord
	ID         string    `json:"id"`
	RunID      string    `json:"run_id"`
	Generation int       `json:"generation"`
	Genes      []float64 `json:"genes"`
	Fitness    float64   `json:"fitness"`
}

// Clone returns a copy whose genes do not alias c's.
func (c Chromosome) Clone() Chromosome {
	c.Genes = append([]float64(nil), c.Genes...)
	return c
}

// Sample is one labeled input vector.
type Sample struct {
	Label  int       `json:"label"`
	Inputs []float64 `json:"inputs"`
}

type RunSummary struct {
	VersionedRecord
	RunID       string  `json:"run_id"`
	Scape       string  `json:"scape"`
	Topology    []int   `json:"topology"`
	Population  int     `json:"population"`
	Generations int     `json:"generations"`
	Seed        int64   `json:"seed"`
	BestID      string  `json:"best_id"`
	BestFitness float64 `json:"best_fitness"`
}

type GenerationDiagnostics struct {
	Generation  int     `json:"generation"`
	BestFitness float64 `json:"best_fitness"`
	MeanFitness float64 `json:"mean_fitness"`
	MinFitness  float64 `json:"min_fitness"`
	StdDev      float64 `json:"std_dev"`
	Evaluations int     `json:"evaluations"`
}

package storage

import (
	"encoding/json"

	"github.com/pkg/errors"

	"sigmanet/internal/model"
)

const (
	CurrentSchemaVersion = 1
	CurrentCodecVersion  = 1
)

var ErrVersionMismatch = errors.New("record version mismatch")

// CurrentVersion is the version stamp for records written by this build.
func CurrentVersion() model.VersionedRecord {
	return model.VersionedRecord{SchemaVersion: CurrentSchemaVersion, CodecVersion: CurrentCodecVersion}
}

func EncodeChromosome(c model.Chromosome) ([]byte, error) {
	return json.Marshal(c)
}

func DecodeChromosome(data []byte) (model.Chromosome, error) {
	var chromosome model.Chromosome
	if err := json.Unmarshal(data, &chromosome); err != nil {
		return model.Chromosome{}, err
	}
	if err := checkVersion(chromosome.VersionedRecord); err != nil {
		return model.Chromosome{}, err
	}
	return chromosome, nil
}

func EncodeChromosomes(chromosomes []model.Chromosome) ([]byte, error) {
	return json.Marshal(chromosomes)
}

func DecodeChromosomes(data []byte) ([]model.Chromosome, error) {
	var chromosomes []model.Chromosome
	if err := json.Unmarshal(data, &chromosomes); err != nil {
		return nil, err
	}
	for _, c := range chromosomes {
		if err := checkVersion(c.VersionedRecord); err != nil {
			return nil, errors.Wrapf(err, "chromosome %s", c.ID)
		}
	}
	return chromosomes, nil
}

func EncodeRunSummary(run model.RunSummary) ([]byte, error) {
	return json.Marshal(run)
}

func DecodeRunSummary(data []byte) (model.RunSummary, error) {
	var run model.RunSummary
	if err := json.Unmarshal(data, &run); err != nil {
		return model.RunSummary{}, err
	}
	if err := checkVersion(run.VersionedRecord); err != nil {
		return model.RunSummary{}, err
	}
	return run, nil
}

func EncodeFitnessHistory(history []float64) ([]byte, error) {
	return json.Marshal(history)
}

func DecodeFitnessHistory(data []byte) ([]float64, error) {
	var history []float64
	if err := json.Unmarshal(data, &history); err != nil {
		return nil, err
	}
	return history, nil
}

func EncodeGenerationDiagnostics(diagnostics []model.GenerationDiagnostics) ([]byte, error) {
	return json.Marshal(diagnostics)
}

func DecodeGenerationDiagnostics(data []byte) ([]model.GenerationDiagnostics, error) {
	var diagnostics []model.GenerationDiagnostics
	if err := json.Unmarshal(data, &diagnostics); err != nil {
		return nil, err
	}
	return diagnostics, nil
}

func checkVersion(v model.VersionedRecord) error {
	if v.SchemaVersion != CurrentSchemaVersion || v.CodecVersion != CurrentCodecVersion {
		return errors.WithStack(ErrVersionMismatch)
	}
	return nil
}

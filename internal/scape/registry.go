package scape

import (
	"sort"
	"strings"

	"github.com/pkg/errors"

	"sigmanet/internal/model"
)

var ErrScapeNotFound = errors.New("scape not found")

// Lookup returns the named scape. Sample-driven scapes use samples.
func Lookup(name string, samples []model.Sample) (Scape, error) {
	switch strings.TrimSpace(strings.ToLower(name)) {
	case "xor":
		return XORScape{}, nil
	case "classification":
		if len(samples) == 0 {
			return nil, errors.New("classification scape requires samples")
		}
		return ClassificationScape{Samples: samples}, nil
	default:
		return nil, errors.Wrapf(ErrScapeNotFound, "%q", name)
	}
}

// Names lists the scapes Lookup knows.
func Names() []string {
	names := []string{"xor", "classification"}
	sort.Strings(names)
	return names
}

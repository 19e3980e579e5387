package storage

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// WriteCheckpoints writes one comma-delimited line of genes per candidate.
// Values use the shortest representation that parses back exactly.
func WriteCheckpoints(w io.Writer, candidates [][]float64) error {
	bw := bufio.NewWriter(w)
	for _, genes := range candidates {
		for i, gene := range genes {
			if i > 0 {
				if err := bw.WriteByte(','); err != nil {
					return err
				}
			}
			if _, err := bw.WriteString(strconv.FormatFloat(gene, 'g', -1, 64)); err != nil {
				return err
			}
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// ReadCheckpoints parses the format written by WriteCheckpoints. Blank lines
// are skipped.
func ReadCheckpoints(r io.Reader) ([][]float64, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 64*1024*1024)

	var candidates [][]float64
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		fields := strings.Split(text, ",")
		genes := make([]float64, len(fields))
		for i, field := range fields {
			value, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
			if err != nil {
				return nil, errors.Wrapf(err, "checkpoint line %d value %d", line, i+1)
			}
			genes[i] = value
		}
		candidates = append(candidates, genes)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "read checkpoints")
	}
	return candidates, nil
}

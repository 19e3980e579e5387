package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadRunRequestFromConfig(t *testing.T) {
	dir := t.TempDir()
	cases := []struct {
		name string
		file string
		body string
	}{
		{
			name: "json",
			file: "run.json",
			body: `{"scape":"xor","topology":[2,4,1],"population":12,"generations":3,"seed":7,"mutation_rate":0.2,"crossover":"none"}`,
		},
		{
			name: "yaml",
			file: "run.yaml",
			body: "scape: xor\ntopology: [2, 4, 1]\npopulation: 12\ngenerations: 3\nseed: 7\nmutation_rate: 0.2\ncrossover: none\n",
		},
		{
			name: "yaml string topology",
			file: "run.yml",
			body: "scape: xor\ntopology: \"2,4,1\"\npopulation: 12\ngenerations: 3\nseed: 7\nmutation_rate: 0.2\ncrossover: none\n",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(dir, tc.file)
			if err := os.WriteFile(path, []byte(tc.body), 0o644); err != nil {
				t.Fatalf("write config: %v", err)
			}
			req, err := loadRunRequestFromConfig(path)
			if err != nil {
				t.Fatalf("load config: %v", err)
			}
			if req.Scape != "xor" || req.Population != 12 || req.Generations != 3 || req.Seed != 7 {
				t.Fatalf("unexpected request: %+v", req)
			}
			if len(req.Topology) != 3 || req.Topology[1] != 4 {
				t.Fatalf("unexpected topology: %v", req.Topology)
			}
			if req.MutationRate != 0.2 || req.Crossover != "none" {
				t.Fatalf("unexpected operators: rate=%f crossover=%s", req.MutationRate, req.Crossover)
			}
		})
	}
}

func TestLoadRunRequestFromConfigErrors(t *testing.T) {
	dir := t.TempDir()
	if _, err := loadRunRequestFromConfig(filepath.Join(dir, "missing.json")); err == nil {
		t.Fatal("expected missing file error")
	}

	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(bad, []byte("{"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := loadRunRequestFromConfig(bad); err == nil {
		t.Fatal("expected parse error")
	}

	badTopology := filepath.Join(dir, "topology.yaml")
	if err := os.WriteFile(badTopology, []byte("topology: [2, x]\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := loadRunRequestFromConfig(badTopology); err == nil {
		t.Fatal("expected topology error")
	}
}

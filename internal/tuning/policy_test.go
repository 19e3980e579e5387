package tuning

import (
	"testing"

	"sigmanet/internal/model"
)

func TestAttemptPolicies(t *testing.T) {
	c := model.Chromosome{Genes: make([]float64, 9)}
	cases := []struct {
		name   string
		policy AttemptPolicy
		gen    int
		want   int
	}{
		{name: "fixed", policy: FixedAttemptPolicy{}, gen: 3, want: 8},
		{name: "linear decay start", policy: LinearDecayAttemptPolicy{MinAttempts: 1}, gen: 0, want: 8},
		{name: "linear decay end", policy: LinearDecayAttemptPolicy{MinAttempts: 1}, gen: 10, want: 1},
		{name: "wsize", policy: WSizeProportionalAttemptPolicy{Power: 1}, gen: 0, want: 19},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.policy.Attempts(8, tc.gen, 10, c); got != tc.want {
				t.Fatalf("attempts=%d want=%d", got, tc.want)
			}
		})
	}
}

func TestAttemptPolicyFromConfig(t *testing.T) {
	for _, name := range []string{"", "fixed", "const", "linear_decay", "wsize_proportional"} {
		if _, err := AttemptPolicyFromConfig(name, 1); err != nil {
			t.Fatalf("policy %q: %v", name, err)
		}
	}
	if _, err := AttemptPolicyFromConfig("nsize_proportional", 1); err == nil {
		t.Fatal("expected unsupported policy error")
	}
}

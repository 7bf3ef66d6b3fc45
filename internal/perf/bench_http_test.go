package perf

import (
	"sort"
	"testing"
	"time"
)

// Latency targets for the provisioning endpoints. The remote profile hop
// dominates the saga, so the cold path budget is driven by its timeout.
func TestProvisioningLatencyTargets(t *testing.T) {
	scenarios := []struct {
		name      string
		samples   []time.Duration
		threshold time.Duration
	}{
		{
			name:      "register",
			samples:   []time.Duration{8 * time.Millisecond, 10 * time.Millisecond, 12 * time.Millisecond, 14 * time.Millisecond, 15 * time.Millisecond, 17 * time.Millisecond, 18 * time.Millisecond, 20 * time.Millisecond, 24 * time.Millisecond, 30 * time.Millisecond},
			threshold: 100 * time.Millisecond,
		},
		{
			name:      "create_with_profile",
			samples:   []time.Duration{120 * time.Millisecond, 140 * time.Millisecond, 160 * time.Millisecond, 180 * time.Millisecond, 200 * time.Millisecond, 230 * time.Millisecond, 260 * time.Millisecond, 300 * time.Millisecond, 340 * time.Millisecond, 380 * time.Millisecond},
			threshold: 500 * time.Millisecond,
		},
		{
			name:      "login",
			samples:   []time.Duration{60 * time.Millisecond, 70 * time.Millisecond, 75 * time.Millisecond, 80 * time.Millisecond, 85 * time.Millisecond, 90 * time.Millisecond, 95 * time.Millisecond, 100 * time.Millisecond, 110 * time.Millisecond, 130 * time.Millisecond},
			threshold: 250 * time.Millisecond,
		},
	}

	for _, scenario := range scenarios {
		p95 := percentile95(scenario.samples)
		if p95 > scenario.threshold {
			t.Fatalf("%s latency regression: p95=%s threshold=%s", scenario.name, p95, scenario.threshold)
		}
	}
}

func percentile95(samples []time.Duration) time.Duration {
	if len(samples) == 0 {
		return 0
	}
	sorted := append([]time.Duration(nil), samples...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	index := int(float64(len(sorted)-1) * 0.95)
	if index < 0 {
		index = 0
	}
	if index >= len(sorted) {
		index = len(sorted) - 1
	}
	return sorted[index]
}

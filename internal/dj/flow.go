package dj

import (
	"math/rand"
	"strings"
)

// Energy flow patterns drive a sequence of selections so an hour of
// programming has a deliberate shape instead of a flat shuffle.
const (
	PatternWave       = "wave"       // medium, high, medium, low, ...
	PatternAscending  = "ascending"  // low, medium, high, ...
	PatternDescending = "descending" // high, medium, low, ...
	PatternMixed      = "mixed"      // uniform random per position
)

var flowCycles = map[string][]EnergyPreference{
	PatternWave:       {EnergyMedium, EnergyHigh, EnergyMedium, EnergyLow},
	PatternAscending:  {EnergyLow, EnergyMedium, EnergyHigh},
	PatternDescending: {EnergyHigh, EnergyMedium, EnergyLow},
}

// BuildEnergyFlow produces one energy preference per track slot. All
// patterns except "mixed" are deterministic cycles; "mixed" draws
// uniformly at random per position.
func BuildEnergyFlow(trackCount int, pattern string) []EnergyPreference {
	if trackCount <= 0 {
		return nil
	}

	flow := make([]EnergyPreference, trackCount)

	cycle, ok := flowCycles[strings.ToLower(pattern)]
	if !ok {
		// mixed, or anything unrecognized
		bands := []EnergyPreference{EnergyLow, EnergyMedium, EnergyHigh}
		for i := range flow {
			flow[i] = bands[rand.Intn(len(bands))]
		}
		return flow
	}

	for i := range flow {
		flow[i] = cycle[i%len(cycle)]
	}
	return flow
}

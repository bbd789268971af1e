// Package rating computes Elo updates from match outcomes.
package rating

import (
	"fmt"
	"math"
)

// DefaultK is the sensitivity constant applied when no K-factor is
// configured.
const DefaultK = 32

// Outcome values accepted by Update.
const (
	Win  = 1.0
	Draw = 0.5
	Loss = 0.0
)

// Update returns the player's new rating after a match against the
// given opponent, using the logistic expected-score formula. outcome
// must be exactly 0, 0.5 or 1.
func Update(player, opponent int, outcome float64, k int) (int, error) {
	if outcome != Win && outcome != Draw && outcome != Loss {
		return 0, fmt.Errorf("invalid outcome %v: must be 0, 0.5 or 1", outcome)
	}
	if k <= 0 {
		k = DefaultK
	}

	expected := 1 / (1 + math.Pow(10, float64(opponent-player)/400))
	return int(math.Round(float64(player) + float64(k)*(outcome-expected))), nil
}

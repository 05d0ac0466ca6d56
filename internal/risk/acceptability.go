package risk

import "github.com/PactoSigna/qms-actions/pkg/interfaces"

// acceptabilityGrid is the fixed ISO-14971-style tier lookup, indexed
// [probability-1][severity-1]. Probability rows run remote → frequent,
// severity columns negligible → catastrophic.
var acceptabilityGrid = [5][5]interfaces.AcceptabilityTier{
	{tierA, tierA, tierA, tierA, tierR},
	{tierA, tierA, tierR, tierR, tierU},
	{tierA, tierR, tierR, tierU, tierU},
	{tierA, tierR, tierU, tierU, tierU},
	{tierR, tierU, tierU, tierU, tierU},
}

const (
	tierA = interfaces.TierAcceptable
	tierR = interfaces.TierReviewRequired
	tierU = interfaces.TierUnacceptable
)

// Classify maps a residual (probability, severity) pair onto its
// acceptability tier. Coordinates outside the 1..5 grid always classify as
// review-required: an unreadable risk is never silently acceptable, and
// never condemned either.
func Classify(probability, severity int) interfaces.AcceptabilityTier {
	if probability < 1 || probability > 5 || severity < 1 || severity > 5 {
		return interfaces.TierReviewRequired
	}
	return acceptabilityGrid[probability-1][severity-1]
}

// AcceptabilityGrid returns the fixed tier table as the slice-of-slices
// shape shared reports expect.
func AcceptabilityGrid() [][]interfaces.AcceptabilityTier {
	grid := make([][]interfaces.AcceptabilityTier, len(acceptabilityGrid))
	for i := range acceptabilityGrid {
		row := make([]interfaces.AcceptabilityTier, len(acceptabilityGrid[i]))
		copy(row, acceptabilityGrid[i][:])
		grid[i] = row
	}
	return grid
}

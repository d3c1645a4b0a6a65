package distance

import (
	"sort"

	"distance-shipping/internal/models"
)

// SelectRoute picks exactly one candidate according to the preferred route
// comparator. The sort is stable, so ties keep the provider's order.
func SelectRoute(candidates []models.RouteCandidate, preferred models.PreferredRoute) (models.RouteCandidate, error) {
	if len(candidates) == 0 {
		return models.RouteCandidate{}, models.ErrNoCandidates
	}

	picked := make([]models.RouteCandidate, len(candidates))
	copy(picked, candidates)

	switch preferred {
	case models.LongestDuration:
		sort.SliceStable(picked, func(i, j int) bool { return picked[i].Duration > picked[j].Duration })
	case models.LongestDistance:
		sort.SliceStable(picked, func(i, j int) bool { return picked[i].Distance > picked[j].Distance })
	case models.ShortestDuration:
		sort.SliceStable(picked, func(i, j int) bool { return picked[i].Duration < picked[j].Duration })
	default:
		sort.SliceStable(picked, func(i, j int) bool { return picked[i].Distance < picked[j].Distance })
	}

	return picked[0], nil
}

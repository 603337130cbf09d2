package schema

// EnrichedPREstimate adds presentation data to a PREstimate.
type EnrichedPREstimate struct {
	Rank  int    `json:"rank"`
	Label string `json:"label"`
	PREstimate
}

// EnrichedContributorEstimate adds presentation data to a ContributorEstimate.
type EnrichedContributorEstimate struct {
	Rank  int    `json:"rank"`
	Label string `json:"label"`
	ContributorEstimate
}

// Effort label constants.
const (
	EffortHeavy  = "Heavy"  // Beyond a week of effort
	EffortLarge  = "Large"  // Multiple days
	EffortMedium = "Medium" // One to two days
	EffortLight  = "Light"  // Under a day
)

// GetEffortLabel returns a plain text label bucketing the estimated effort.
// The thresholds roughly follow working-day multiples: under a day is Light,
// up to two days is Medium, up to a week is Large, beyond that Heavy.
func GetEffortLabel(hours float64) string {
	switch {
	case hours >= 40:
		return EffortHeavy
	case hours >= 16:
		return EffortLarge
	case hours >= 8:
		return EffortMedium
	default:
		return EffortLight
	}
}

// EnrichPRs adds rank and label to a list of PR estimates.
func EnrichPRs(estimates []PREstimate) []EnrichedPREstimate {
	output := make([]EnrichedPREstimate, len(estimates))
	for i, e := range estimates {
		output[i] = EnrichedPREstimate{
			Rank:       i + 1,
			Label:      GetEffortLabel(e.Hours),
			PREstimate: e,
		}
	}
	return output
}

// EnrichContributors adds rank and label to a list of contributor estimates.
func EnrichContributors(estimates []ContributorEstimate) []EnrichedContributorEstimate {
	output := make([]EnrichedContributorEstimate, len(estimates))
	for i, e := range estimates {
		output[i] = EnrichedContributorEstimate{
			Rank:                i + 1,
			Label:               GetEffortLabel(e.Hours),
			ContributorEstimate: e,
		}
	}
	return output
}

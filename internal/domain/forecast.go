package domain

import "fmt"

// ForwardScore is the additive forward-looking score over the 16-day
// instability window, independent of the immediate threat level.
type ForwardScore struct {
	Score   int          `json:"score"`
	Level   ForwardLevel `json:"level"`
	Reasons []string     `json:"reasons"`
}

// ScoreForward computes the forward score from the instability facts.
// Each term uses mutually exclusive bands (the highest matching
// threshold wins, bands never stack) and every band that fires appends
// a reason in evaluation order: CAPE, lifted index, moisture, wind
// gusts, CIN, high-risk-day bonus.
func ScoreForward(facts InstabilityFacts) ForwardScore {
	score := 0
	reasons := []string{}

	add := func(points int, reason string) {
		score += points
		reasons = append(reasons, reason)
	}

	switch cape := facts.CapeMax7Day; {
	case cape >= 4000:
		add(40, fmt.Sprintf("Extreme instability: 7-day max CAPE %.0f J/kg", cape))
	case cape >= 2500:
		add(30, fmt.Sprintf("Strong instability: 7-day max CAPE %.0f J/kg", cape))
	case cape >= 1000:
		add(20, fmt.Sprintf("Moderate instability: 7-day max CAPE %.0f J/kg", cape))
	case cape >= 300:
		add(10, fmt.Sprintf("Marginal instability: 7-day max CAPE %.0f J/kg", cape))
	}

	if facts.LiftedIndexMin != nil {
		switch li := *facts.LiftedIndexMin; {
		case li <= -6:
			add(25, fmt.Sprintf("Very unstable airmass: lifted index %.1f", li))
		case li <= -3:
			add(15, fmt.Sprintf("Unstable airmass: lifted index %.1f", li))
		case li < 0:
			add(5, fmt.Sprintf("Slightly unstable airmass: lifted index %.1f", li))
		}
	}

	switch dp := facts.DewpointMaxC; {
	case dp >= 20:
		add(15, fmt.Sprintf("Rich low-level moisture: dewpoint %.0f°C", dp))
	case dp >= 15:
		add(10, fmt.Sprintf("Adequate low-level moisture: dewpoint %.0f°C", dp))
	}

	switch gust := facts.MaxWindGustMph; {
	case gust >= 50:
		add(15, fmt.Sprintf("Damaging wind gust potential: %.0f mph", gust))
	case gust >= 30:
		add(10, fmt.Sprintf("Strong wind gust potential: %.0f mph", gust))
	}

	if facts.CINCurrent != nil {
		switch cin := *facts.CINCurrent; {
		case cin < 25:
			add(10, "Little convective inhibition: storms can initiate freely")
		case cin < 100:
			add(5, "Weak convective inhibition")
		}
	}

	if facts.HighRiskDayCount >= 3 {
		add(10, fmt.Sprintf("%d high-instability days in the 16-day window", facts.HighRiskDayCount))
	}

	return ForwardScore{
		Score:   score,
		Level:   forwardLevel(score),
		Reasons: reasons,
	}
}

func forwardLevel(score int) ForwardLevel {
	switch {
	case score >= 70:
		return ForwardExtreme
	case score >= 50:
		return ForwardHigh
	case score >= 30:
		return ForwardModerate
	case score >= 15:
		return ForwardLow
	default:
		return ForwardMinimal
	}
}

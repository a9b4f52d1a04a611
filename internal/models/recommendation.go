package models

import "strings"

// Strategy selects how candidate outcome numbers are ranked.
type Strategy string

const (
	StrategyZeroExposure Strategy = "ZERO_EXPOSURE"
	StrategyMinPayout    Strategy = "MIN_PAYOUT"
	StrategyMaxPayout    Strategy = "MAX_PAYOUT"
)

// ParseStrategy parses a strategy name case-insensitively.
func ParseStrategy(s string) (Strategy, bool) {
	switch Strategy(strings.ToUpper(s)) {
	case StrategyZeroExposure:
		return StrategyZeroExposure, true
	case StrategyMinPayout:
		return StrategyMinPayout, true
	case StrategyMaxPayout:
		return StrategyMaxPayout, true
	}
	return "", false
}

// Recommendation is one ranked candidate outcome. It is advisory only; an
// operator action must explicitly apply a recommended number.
type Recommendation struct {
	Number int      `json:"number"`
	Color  string   `json:"color"`
	Stats  BetStats `json:"stats"`
	Reason string   `json:"reason"`
}

package domain

// PrizeLevel is one rung of the money ladder.
type PrizeLevel struct {
	Amount     string `json:"amount"`
	Safe       bool   `json:"safe"`
	Difficulty int    `json:"difficulty"`
}

// PrizeLadder is the fixed 15-rung ladder. Indexes 4 and 9 are safe havens:
// on a loss the player keeps the highest safe amount already passed.
var PrizeLadder = []PrizeLevel{
	{Amount: "$100", Safe: false, Difficulty: 1},
	{Amount: "$200", Safe: false, Difficulty: 1},
	{Amount: "$300", Safe: false, Difficulty: 1},
	{Amount: "$500", Safe: false, Difficulty: 1},
	{Amount: "$1,000", Safe: true, Difficulty: 1},
	{Amount: "$2,000", Safe: false, Difficulty: 2},
	{Amount: "$4,000", Safe: false, Difficulty: 2},
	{Amount: "$8,000", Safe: false, Difficulty: 2},
	{Amount: "$16,000", Safe: false, Difficulty: 2},
	{Amount: "$32,000", Safe: true, Difficulty: 2},
	{Amount: "$64,000", Safe: false, Difficulty: 3},
	{Amount: "$125,000", Safe: false, Difficulty: 3},
	{Amount: "$250,000", Safe: false, Difficulty: 3},
	{Amount: "$500,000", Safe: false, Difficulty: 4},
	{Amount: "$1,000,000", Safe: false, Difficulty: 4},
}

// RosterSize is the number of questions in a full game.
const RosterSize = 15

// TierQuota is how many questions each difficulty tier contributes, in tier
// order 1..4.
var TierQuota = [TierCount + 1]int{0, 5, 5, 3, 2}

// TierForIndex maps a 0-based question index to its difficulty tier.
func TierForIndex(index int) int {
	switch {
	case index < 5:
		return 1
	case index < 10:
		return 2
	case index < 13:
		return 3
	default:
		return 4
	}
}

// TimerDuration returns the countdown length in seconds for a tier.
func TimerDuration(tier int) int {
	switch tier {
	case 2:
		return 45
	case 3:
		return 60
	case 4:
		return 90
	default:
		return 30
	}
}

// TierName is display copy for a difficulty tier.
func TierName(tier int) string {
	switch tier {
	case 1:
		return "Easy"
	case 2:
		return "Medium"
	case 3:
		return "Hard"
	case 4:
		return "Very Hard"
	}
	return "Unknown"
}

// ResolvePrize computes the awarded amount for a finished session. A win with
// a full score takes the top rung; otherwise the highest safe haven at or
// below score-1 applies, falling back to "$0".
func ResolvePrize(score int, won bool) string {
	if won && score == len(PrizeLadder) {
		return PrizeLadder[len(PrizeLadder)-1].Amount
	}
	for i := score - 1; i >= 0; i-- {
		if PrizeLadder[i].Safe {
			return PrizeLadder[i].Amount
		}
	}
	return "$0"
}

package game

import (
	"math/rand"

	"dev-millionaire-service/internal/domain"
)

// confidenceRanges bounds the audience's vote for the correct option per
// difficulty tier; the crowd gets shakier as the money goes up.
var confidenceRanges = map[int][2]int{
	1: {60, 80},
	2: {50, 65},
	3: {35, 55},
	4: {25, 45},
}

// accuracyRates is the chance the phoned friend names the correct option.
var accuracyRates = map[int]float64{
	1: 0.90,
	2: 0.70,
	3: 0.50,
	4: 0.30,
}

// fiftyFifty picks two of the three incorrect options, uniformly, to
// eliminate. The correct option and one incorrect option remain selectable.
func fiftyFifty(q domain.RosterQuestion, eliminated [domain.OptionCount]bool, rnd *rand.Rand) []int {
	incorrect := make([]int, 0, domain.OptionCount-1)
	for display := 0; display < domain.OptionCount; display++ {
		if eliminated[display] || q.OptionOrder[display] == q.Answer {
			continue
		}
		incorrect = append(incorrect, display)
	}
	rnd.Shuffle(len(incorrect), func(i, j int) {
		incorrect[i], incorrect[j] = incorrect[j], incorrect[i]
	})
	if len(incorrect) > 2 {
		incorrect = incorrect[:2]
	}
	return incorrect
}

// askAudience simulates an audience poll over the non-eliminated options,
// returning percentages by display index summing to exactly 100. The correct
// option draws from the tier's confidence range; the rest of the vote is
// split sequentially in random order, each option taking a random share of
// what remains, with the last option absorbing the leftover. The sequential
// split can occasionally hand a non-final option an outsized share; that
// behavior is intentional and kept as-is.
func askAudience(q domain.RosterQuestion, eliminated [domain.OptionCount]bool, tier int, rnd *rand.Rand) map[int]int {
	percentages := make(map[int]int)
	remaining := 100

	correctDisplay := q.DisplayIndexOf(q.Answer)
	others := make([]int, 0, domain.OptionCount-1)
	for display := 0; display < domain.OptionCount; display++ {
		if eliminated[display] {
			continue
		}
		if display == correctDisplay {
			bounds := confidenceRanges[tier]
			percent := bounds[0] + rnd.Intn(bounds[1]-bounds[0]+1)
			percentages[display] = percent
			remaining -= percent
			continue
		}
		others = append(others, display)
	}

	rnd.Shuffle(len(others), func(i, j int) {
		others[i], others[j] = others[j], others[i]
	})
	for i, display := range others {
		if i == len(others)-1 {
			if remaining < 0 {
				remaining = 0
			}
			percentages[display] = remaining
			break
		}
		percent := int(rnd.Float64() * (float64(remaining) / float64(len(others)-i) * 1.5))
		if percent < 0 {
			percent = 0
		}
		if percent > remaining {
			percent = remaining
		}
		percentages[display] = percent
		remaining -= percent
	}
	return percentages
}

// phoneFriend simulates the call: with the tier's accuracy the friend names
// the correct option, otherwise a random non-eliminated incorrect one.
// Returns the friend's name, the phrasing line and the named display index.
func phoneFriend(q domain.RosterQuestion, eliminated [domain.OptionCount]bool, tier int, rnd *rand.Rand) (name, line string, display int) {
	correctDisplay := q.DisplayIndexOf(q.Answer)

	display = correctDisplay
	if rnd.Float64() >= accuracyRates[tier] {
		candidates := make([]int, 0, domain.OptionCount-1)
		for d := 0; d < domain.OptionCount; d++ {
			if !eliminated[d] && d != correctDisplay {
				candidates = append(candidates, d)
			}
		}
		if len(candidates) > 0 {
			display = candidates[rnd.Intn(len(candidates))]
		}
	}

	name = friendNames[rnd.Intn(len(friendNames))]
	lines := phoneLines[tier]
	line = lines[rnd.Intn(len(lines))]
	return name, line, display
}

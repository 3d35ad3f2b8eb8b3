package game

import (
	"fmt"
	"math/rand"
	"sort"

	"dev-millionaire-service/internal/domain"
)

// BuildRoster draws the fixed 15-question game roster from the merged
// category pools: 5 easy, 5 medium, 3 hard, 2 very hard, ordered easy to
// hard. Which questions appear within a tier is random; each selected
// question also gets a one-time random option permutation that stays fixed
// for the whole session. A tier shortfall fails the whole setup; there is no
// partial game.
func BuildRoster(pool map[string][]domain.Question, rnd *rand.Rand) ([]domain.RosterQuestion, error) {
	buckets := make(map[int][]domain.Question, domain.TierCount)

	// Walk categories in a stable order so a seeded rand draws the same
	// roster every time.
	categories := make([]string, 0, len(pool))
	for category := range pool {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	for _, category := range categories {
		for _, q := range pool[category] {
			if q.Valid() {
				buckets[q.Difficulty] = append(buckets[q.Difficulty], q)
			}
		}
	}

	roster := make([]domain.RosterQuestion, 0, domain.RosterSize)
	for tier := 1; tier <= domain.TierCount; tier++ {
		bucket := buckets[tier]
		quota := domain.TierQuota[tier]
		if len(bucket) < quota {
			return nil, fmt.Errorf("%w: need %d %s questions, have %d",
				domain.ErrInsufficientQuestions, quota, domain.TierName(tier), len(bucket))
		}
		rnd.Shuffle(len(bucket), func(i, j int) {
			bucket[i], bucket[j] = bucket[j], bucket[i]
		})
		for _, q := range bucket[:quota] {
			roster = append(roster, domain.RosterQuestion{
				Question:    q,
				OptionOrder: shuffledOrder(rnd),
			})
		}
	}

	if len(roster) != domain.RosterSize {
		return nil, fmt.Errorf("%w: assembled %d of %d",
			domain.ErrInsufficientQuestions, len(roster), domain.RosterSize)
	}
	return roster, nil
}

// shuffledOrder produces a uniform permutation of the option positions.
func shuffledOrder(rnd *rand.Rand) [domain.OptionCount]int {
	order := [domain.OptionCount]int{0, 1, 2, 3}
	rnd.Shuffle(len(order), func(i, j int) {
		order[i], order[j] = order[j], order[i]
	})
	return order
}

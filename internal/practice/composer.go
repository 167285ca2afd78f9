// Package practice composes mixed review sessions from a learner's card
// pool.
package practice

import (
	"sort"
	"time"

	"github.com/abhisek/examprep/internal/mastery"
)

// Session is an ordered card selection with its summary. Sessions are
// ephemeral.
type Session struct {
	Cards []AnnotatedCard `json:"cards"`
	Stats Stats           `json:"stats"`
}

// GenerateMixedPractice selects up to cfg.CardCount cards from the pool
// owned by userID.
//
// Ranked cards are taken greedily while honoring the topic run limit and
// the new-card cap. If that falls short, the remaining pool is drawn in due
// order with neutral mastery and zero priority, still under the new-card
// cap. A final SpacedInterleave pass orders the selection, so the run limit
// holds whenever the selected topics allow it. The result never exceeds the
// pool.
//
// est supplies lesson mastery; lessons it has no signal for count as 0.
func GenerateMixedPractice(userID string, cards []Card, est mastery.LessonEstimator, cfg Config, now time.Time) Session {
	pool := ownedByDue(userID, cards)
	if cfg.CardCount <= 0 || len(pool) == 0 {
		return Session{Cards: []AnnotatedCard{}, Stats: computeStats(nil, max(cfg.CardCount, 0), len(pool))}
	}

	score := cfg.priority()
	ranked := make([]AnnotatedCard, len(pool))
	for i, c := range pool {
		m := 0.0
		if est != nil {
			if v, ok := est.LessonScore(c.LessonKey()); ok {
				m = mastery.Clamp(v)
			}
		}
		ranked[i] = AnnotatedCard{
			Card:          c,
			TopicKey:      c.TopicKey(),
			LessonMastery: m,
			PriorityScore: score(c, m, now),
		}
	}
	if cfg.PrioritizeLowMastery {
		sort.SliceStable(ranked, func(i, j int) bool {
			return ranked[i].PriorityScore > ranked[j].PriorityScore
		})
	}

	used := make(map[string]bool, len(pool))
	newCount := 0
	selected := make([]AnnotatedCard, 0, min(cfg.CardCount, len(pool)))

	for len(selected) < cfg.CardCount {
		pick := -1
		for i, c := range ranked {
			if used[c.ID] || (c.IsNew() && !cfg.newCardsAllowed(newCount)) {
				continue
			}
			if extendsRun(selected, c.TopicKey, cfg.MaxConsecutiveSameTopic) {
				continue
			}
			pick = i
			break
		}
		if pick < 0 {
			break
		}
		c := ranked[pick]
		used[c.ID] = true
		if c.IsNew() {
			newCount++
		}
		selected = append(selected, c)
	}

	for _, c := range pool {
		if len(selected) >= cfg.CardCount {
			break
		}
		if used[c.ID] || (c.IsNew() && !cfg.newCardsAllowed(newCount)) {
			continue
		}
		used[c.ID] = true
		if c.IsNew() {
			newCount++
		}
		selected = append(selected, AnnotatedCard{
			Card:          c,
			TopicKey:      c.TopicKey(),
			LessonMastery: mastery.NeutralScore,
			PriorityScore: 0,
			Backfilled:    true,
		})
	}

	selected = SpacedInterleave(selected, cfg.MaxConsecutiveSameTopic)
	return Session{Cards: selected, Stats: computeStats(selected, cfg.CardCount, len(pool))}
}

// ownedByDue keeps the cards that belong to userID, or that carry no
// owner, ordered by due date. Cards sharing an ID are kept once.
func ownedByDue(userID string, cards []Card) []Card {
	seen := make(map[string]bool, len(cards))
	pool := make([]Card, 0, len(cards))
	for _, c := range cards {
		if c.UserID != "" && c.UserID != userID {
			continue
		}
		if seen[c.ID] {
			continue
		}
		seen[c.ID] = true
		pool = append(pool, c)
	}
	sort.SliceStable(pool, func(i, j int) bool {
		return pool[i].Due.Before(pool[j].Due)
	})
	return pool
}

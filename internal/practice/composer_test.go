package practice

import (
	"fmt"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/examprep/internal/mastery"
)

var now = time.Date(2025, 5, 10, 12, 0, 0, 0, time.UTC)

func card(id, course string, lesson int, state CardState, dueDaysAgo int) Card {
	return Card{
		ID:          id,
		UserID:      "u1",
		CourseID:    course,
		LessonIndex: lesson,
		State:       state,
		Due:         now.AddDate(0, 0, -dueDaysAgo),
	}
}

func courses(scores map[string]float64) mastery.LessonEstimator {
	var cs []mastery.CourseScore
	for id, s := range scores {
		cs = append(cs, mastery.CourseScore{CourseID: id, Score: s})
	}
	return mastery.NewCourseMasteryFallback(cs)
}

func TestGenerateMixedPractice_SmallPool(t *testing.T) {
	pool := []Card{
		card("c1", "bio", 0, CardReview, 5),
		card("c2", "bio", 0, CardReview, 4),
		card("c3", "bio", 0, CardReview, 3),
		card("c4", "bio", 0, CardReview, 2),
		card("c5", "bio", 0, CardReview, 1),
	}

	s := GenerateMixedPractice("u1", pool, courses(map[string]float64{"bio": 0.5}), DefaultConfig(), now)

	require.Len(t, s.Cards, 5)
	assert.Equal(t, 20, s.Stats.Requested)
	assert.Equal(t, 5, s.Stats.Delivered)
	assert.Equal(t, 5, s.Stats.Available)
	// One topic only: two ranked picks, the rest backfilled.
	assert.Equal(t, 3, s.Stats.Backfilled)
	assert.Equal(t, 1, s.Stats.UniqueTopics)
}

func TestGenerateMixedPractice_RunLimit(t *testing.T) {
	var pool []Card
	for i := range 6 {
		pool = append(pool, card(fmt.Sprintf("a%d", i), "bio", 0, CardReview, 10))
	}
	for i := range 3 {
		pool = append(pool, card(fmt.Sprintf("b%d", i), "chem", 1, CardReview, 1))
	}
	cfg := DefaultConfig()
	cfg.CardCount = 9

	s := GenerateMixedPractice("u1", pool, courses(map[string]float64{"bio": 0.2, "chem": 0.9}), cfg, now)

	require.Len(t, s.Cards, 9)
	assert.LessOrEqual(t, LongestRun(s.Cards), 2)
	assert.Equal(t, "bio:0", s.Cards[0].TopicKey, "lowest mastery topic should lead")
}

func TestGenerateMixedPractice_NewCardCap(t *testing.T) {
	var pool []Card
	for i := range 10 {
		pool = append(pool, card(fmt.Sprintf("n%d", i), "bio", i, CardNew, 0))
	}
	pool = append(pool, card("r1", "chem", 0, CardReview, 3))
	cfg := DefaultConfig()
	cfg.MaxNewCards = 3

	s := GenerateMixedPractice("u1", pool, nil, cfg, now)

	assert.Equal(t, 3, s.Stats.NewCards)
	assert.Equal(t, 4, s.Stats.Delivered)
	assert.Equal(t, 11, s.Stats.Available)
}

func TestGenerateMixedPractice_SkipsOtherUsers(t *testing.T) {
	mine := card("a", "bio", 0, CardReview, 1)
	theirs := card("b", "bio", 1, CardReview, 1)
	theirs.UserID = "u2"

	s := GenerateMixedPractice("u1", []Card{mine, theirs}, nil, DefaultConfig(), now)

	require.Len(t, s.Cards, 1)
	assert.Equal(t, "a", s.Cards[0].ID)
	assert.Equal(t, 1, s.Stats.Available)
}

func TestGenerateMixedPractice_EmptyPool(t *testing.T) {
	s := GenerateMixedPractice("u1", nil, nil, DefaultConfig(), now)
	assert.Empty(t, s.Cards)
	assert.Equal(t, 0, s.Stats.Delivered)
	assert.Equal(t, 20, s.Stats.Requested)
}

func TestGenerateMixedPractice_Annotations(t *testing.T) {
	pool := []Card{card("a", "bio", 2, CardReview, 14)}
	s := GenerateMixedPractice("u1", pool, courses(map[string]float64{"bio": 0.25}), DefaultConfig(), now)

	require.Len(t, s.Cards, 1)
	c := s.Cards[0]
	assert.Equal(t, "bio:2", c.TopicKey)
	assert.InDelta(t, 0.25, c.LessonMastery, 1e-9)
	// (1-0.25)*0.6 + 1*0.4
	assert.InDelta(t, 0.85, c.PriorityScore, 1e-9)
	assert.False(t, c.Backfilled)
	assert.Equal(t, 1, s.Stats.ByBucket[mastery.BucketLow])
}

func TestGenerateMixedPractice_KeepsDueOrderWithoutPrioritizing(t *testing.T) {
	pool := []Card{
		card("late", "a", 0, CardReview, 1),
		card("early", "b", 0, CardReview, 9),
	}
	cfg := DefaultConfig()
	cfg.PrioritizeLowMastery = false

	s := GenerateMixedPractice("u1", pool, courses(map[string]float64{"a": 0, "b": 1}), cfg, now)

	require.Len(t, s.Cards, 2)
	assert.Equal(t, "early", s.Cards[0].ID)
}

func TestGenerateMixedPractice_DoesNotMutatePool(t *testing.T) {
	pool := []Card{
		card("b", "bio", 0, CardReview, 1),
		card("a", "bio", 1, CardReview, 5),
	}
	GenerateMixedPractice("u1", pool, nil, DefaultConfig(), now)
	assert.Equal(t, "b", pool[0].ID)
}

// interleavable reports whether cards admit an order with no run longer
// than maxRun.
func interleavable(cards []AnnotatedCard, maxRun int) bool {
	count := make(map[string]int)
	largest := 0
	for _, c := range cards {
		count[c.TopicKey]++
		largest = max(largest, count[c.TopicKey])
	}
	return largest <= maxRun*(len(cards)-largest)+maxRun
}

func TestGenerateMixedPractice_StrandedTopicIsInterleaved(t *testing.T) {
	pool := []Card{
		card("a1", "a", 0, CardReview, 9),
		card("b1", "b", 0, CardReview, 8),
		card("c1", "c", 0, CardReview, 7),
		card("a2", "a", 0, CardReview, 6),
		card("a3", "a", 0, CardReview, 5),
	}
	cfg := Config{CardCount: 5, MaxConsecutiveSameTopic: 1, MaxNewCards: 5}

	s := GenerateMixedPractice("u1", pool, nil, cfg, now)

	require.Len(t, s.Cards, 5)
	assert.Equal(t, []string{"a:0", "b:0", "a:0", "c:0", "a:0"}, keysOf(s.Cards))
	assert.Equal(t, []string{"a1", "b1", "a2", "c1", "a3"}, idsOf(s.Cards))
}

func idsOf(cards []AnnotatedCard) []string {
	out := make([]string, len(cards))
	for i, c := range cards {
		out[i] = c.ID
	}
	return out
}

func TestGenerateMixedPractice_Invariants(t *testing.T) {
	r := rand.New(rand.NewPCG(3, 4))
	states := []CardState{CardNew, CardLearning, CardReview, CardRelearning}

	for iter := 0; iter < 300; iter++ {
		var pool []Card
		for i := range r.IntN(40) {
			pool = append(pool, card(
				fmt.Sprintf("c%d", i),
				fmt.Sprintf("course%d", r.IntN(3)),
				r.IntN(3),
				states[r.IntN(len(states))],
				r.IntN(20)-5,
			))
		}
		cfg := Config{
			CardCount:               1 + r.IntN(30),
			MaxConsecutiveSameTopic: 1 + r.IntN(3),
			PrioritizeLowMastery:    r.IntN(2) == 0,
			MaxNewCards:             r.IntN(6),
		}
		est := courses(map[string]float64{"course0": r.Float64(), "course1": r.Float64()})

		s := GenerateMixedPractice("u1", pool, est, cfg, now)

		require.LessOrEqual(t, len(s.Cards), cfg.CardCount, "iter %d", iter)
		require.LessOrEqual(t, len(s.Cards), len(pool), "iter %d", iter)
		require.LessOrEqual(t, s.Stats.NewCards, cfg.MaxNewCards, "iter %d", iter)

		seen := map[string]bool{}
		for _, c := range s.Cards {
			require.False(t, seen[c.ID], "iter %d: duplicate card %s", iter, c.ID)
			seen[c.ID] = true
		}
		if interleavable(s.Cards, cfg.MaxConsecutiveSameTopic) {
			assert.LessOrEqual(t, LongestRun(s.Cards), cfg.MaxConsecutiveSameTopic, "iter %d", iter)
		}
	}
}

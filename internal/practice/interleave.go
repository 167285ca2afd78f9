package practice

// SpacedInterleave reorders cards so that no more than maxRun consecutive
// cards share a topic. Each step takes, among the topics that would not
// overrun, the one with the most cards left and emits its earliest card, so
// the existing order survives within a topic. When every remaining topic
// would overrun, the earliest card is taken. A maxRun below 1 returns the
// cards unchanged.
func SpacedInterleave(cards []AnnotatedCard, maxRun int) []AnnotatedCard {
	if maxRun < 1 || len(cards) <= maxRun {
		return cards
	}

	left := make(map[string]int)
	for _, c := range cards {
		left[c.TopicKey]++
	}

	rest := append([]AnnotatedCard(nil), cards...)
	out := make([]AnnotatedCard, 0, len(cards))
	for len(rest) > 0 {
		pick := -1
		for i, c := range rest {
			if extendsRun(out, c.TopicKey, maxRun) {
				continue
			}
			if pick < 0 || left[c.TopicKey] > left[rest[pick].TopicKey] {
				pick = i
			}
		}
		if pick < 0 {
			pick = 0
		}
		left[rest[pick].TopicKey]--
		out = append(out, rest[pick])
		rest = append(rest[:pick], rest[pick+1:]...)
	}
	return out
}

// GenerateSpacedInterleaving re-applies the topic run limit of cfg to an
// already selected session.
func GenerateSpacedInterleaving(cards []AnnotatedCard, cfg Config) []AnnotatedCard {
	return SpacedInterleave(cards, cfg.MaxConsecutiveSameTopic)
}

// extendsRun reports whether appending topic to seq would make a run of
// more than maxRun cards.
func extendsRun(seq []AnnotatedCard, topic string, maxRun int) bool {
	if maxRun < 1 || len(seq) < maxRun {
		return false
	}
	for _, c := range seq[len(seq)-maxRun:] {
		if c.TopicKey != topic {
			return false
		}
	}
	return true
}

// LongestRun returns the length of the longest same-topic run in cards.
func LongestRun(cards []AnnotatedCard) int {
	longest, run := 0, 0
	for i, c := range cards {
		if i > 0 && c.TopicKey == cards[i-1].TopicKey {
			run++
		} else {
			run = 1
		}
		longest = max(longest, run)
	}
	return longest
}

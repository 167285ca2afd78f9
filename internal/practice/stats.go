package practice

import "github.com/abhisek/examprep/internal/mastery"

// Stats summarizes a composed session. Delivered below Requested is
// expected when the pool is small.
type Stats struct {
	Requested      int                    `json:"requested"`
	Delivered      int                    `json:"delivered"`
	Available      int                    `json:"available"`
	NewCards       int                    `json:"new_cards"`
	Backfilled     int                    `json:"backfilled"`
	UniqueTopics   int                    `json:"unique_topics"`
	AverageMastery float64                `json:"average_mastery"`
	ByTopic        map[string]int         `json:"by_topic"`
	ByCourse       map[string]int         `json:"by_course"`
	ByBucket       map[mastery.Bucket]int `json:"by_bucket"`
}

func computeStats(cards []AnnotatedCard, requested, available int) Stats {
	s := Stats{
		Requested: requested,
		Delivered: len(cards),
		Available: available,
		ByTopic:   make(map[string]int),
		ByCourse:  make(map[string]int),
		ByBucket:  make(map[mastery.Bucket]int),
	}
	var total float64
	for _, c := range cards {
		if c.IsNew() {
			s.NewCards++
		}
		if c.Backfilled {
			s.Backfilled++
		}
		s.ByTopic[c.TopicKey]++
		s.ByCourse[c.CourseID]++
		s.ByBucket[mastery.BucketFor(c.LessonMastery)]++
		total += c.LessonMastery
	}
	s.UniqueTopics = len(s.ByTopic)
	if len(cards) > 0 {
		s.AverageMastery = total / float64(len(cards))
	}
	return s
}

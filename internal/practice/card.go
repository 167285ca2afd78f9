package practice

import (
	"fmt"
	"time"

	"github.com/abhisek/examprep/internal/plan"
)

// CardState is the spaced-repetition state of a review card.
type CardState string

const (
	CardNew        CardState = "new"
	CardLearning   CardState = "learning"
	CardReview     CardState = "review"
	CardRelearning CardState = "relearning"
)

// ParseCardState validates a state name.
func ParseCardState(s string) (CardState, error) {
	switch st := CardState(s); st {
	case CardNew, CardLearning, CardReview, CardRelearning:
		return st, nil
	}
	return "", fmt.Errorf("unknown card state %q", s)
}

// Card is a spaced-repetition unit owned by a single learner. The composer
// only reads cards; scheduling state is never modified here.
type Card struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	CourseID    string    `json:"course_id"`
	LessonIndex int       `json:"lesson_index"`
	State       CardState `json:"state"`
	Due         time.Time `json:"due"`
	Reps        int       `json:"reps"`
	Lapses      int       `json:"lapses"`
	Front       string    `json:"front"`
	Back        string    `json:"back"`
}

// LessonKey returns the lesson the card drills.
func (c Card) LessonKey() plan.LessonKey {
	return plan.LessonKey{CourseID: c.CourseID, LessonIndex: c.LessonIndex}
}

// TopicKey is the "courseId:lessonIndex" identity used for interleaving.
func (c Card) TopicKey() string {
	return c.LessonKey().String()
}

// IsNew reports whether the card has never been studied.
func (c Card) IsNew() bool {
	return c.State == CardNew
}

// OverdueDays is how many days past due the card is at now. Cards not yet
// due return 0.
func (c Card) OverdueDays(now time.Time) float64 {
	if c.Due.IsZero() || !now.After(c.Due) {
		return 0
	}
	return now.Sub(c.Due).Hours() / 24
}

// AnnotatedCard is a card selected into a session.
type AnnotatedCard struct {
	Card
	TopicKey      string  `json:"topic_key"`
	LessonMastery float64 `json:"lesson_mastery"`
	PriorityScore float64 `json:"priority_score"`
	Backfilled    bool    `json:"backfilled"`
}

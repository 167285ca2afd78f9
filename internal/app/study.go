package app

import (
	"context"
	"fmt"
	"time"

	"github.com/abhisek/examprep/internal/briefing"
	"github.com/abhisek/examprep/internal/calendar"
	"github.com/abhisek/examprep/internal/mastery"
	"github.com/abhisek/examprep/internal/plan"
	"github.com/abhisek/examprep/internal/practice"
	"github.com/abhisek/examprep/internal/store"
)

// SetMastery records lesson scores for a user.
func (s *Service) SetMastery(ctx context.Context, userID string, records []mastery.Record) error {
	for i, r := range records {
		if r.CourseID == "" {
			return fmt.Errorf("record %d: course id is required", i)
		}
		if r.Score < 0 || r.Score > 1 {
			return fmt.Errorf("record %d: score %v out of range [0,1]", i, r.Score)
		}
	}
	if err := s.mastery.Upsert(ctx, userID, records); err != nil {
		return fmt.Errorf("save mastery: %w", err)
	}
	s.log.Debug("mastery updated", "user", userID, "lessons", len(records))
	return nil
}

// Mastery returns a user's lesson scores.
func (s *Service) Mastery(ctx context.Context, userID string) (mastery.Scores, error) {
	return s.mastery.Scores(ctx, userID)
}

// ImportCards stores review cards. Cards without an owner are assigned to
// userID. Returns the user's card count afterwards.
func (s *Service) ImportCards(ctx context.Context, userID string, cards []practice.Card) (int, error) {
	for i := range cards {
		if cards[i].UserID == "" {
			cards[i].UserID = userID
		}
	}
	if err := s.cards.Upsert(ctx, cards); err != nil {
		return 0, fmt.Errorf("save cards: %w", err)
	}
	n, err := s.cards.Count(ctx, userID)
	if err != nil {
		return 0, err
	}
	s.log.Info("cards imported", "user", userID, "imported", len(cards), "total", n)
	return n, nil
}

// PracticeConfig is the service's default session configuration.
func (s *Service) PracticeConfig() practice.Config {
	return s.practice
}

// Practice composes a mixed review session from the user's due and new
// cards. Lesson mastery falls back to the course average when a lesson has
// no score of its own.
func (s *Service) Practice(ctx context.Context, userID string, cfg practice.Config) (practice.Session, error) {
	if err := cfg.Validate(); err != nil {
		return practice.Session{}, fmt.Errorf("practice config: %w", err)
	}
	now := s.now()
	cards, err := s.cards.Due(ctx, userID, now)
	if err != nil {
		return practice.Session{}, fmt.Errorf("load due cards: %w", err)
	}
	scores, err := s.mastery.Scores(ctx, userID)
	if err != nil {
		return practice.Session{}, fmt.Errorf("load mastery: %w", err)
	}
	est := mastery.Chain{
		mastery.LessonScores(scores),
		mastery.NewCourseMasteryFallback(mastery.CourseAverages(scores)),
	}

	session := practice.GenerateMixedPractice(userID, cards, est, cfg, now)
	s.appendEvent(ctx, store.PlanEvent{
		UserID: userID,
		Kind:   store.EventPracticeComposed,
		Detail: map[string]any{
			"requested":  session.Stats.Requested,
			"delivered":  session.Stats.Delivered,
			"available":  session.Stats.Available,
			"backfilled": session.Stats.Backfilled,
		},
		CreatedAt: now,
	})
	s.log.Info("practice composed",
		"user", userID,
		"delivered", session.Stats.Delivered,
		"available", session.Stats.Available,
	)
	return session, nil
}

// Brief describes the given day of the user's active plan. A zero date
// means today.
func (s *Service) Brief(ctx context.Context, userID string, date time.Time) (briefing.Brief, briefing.Day, error) {
	p, err := s.Plan(ctx, userID, "")
	if err != nil {
		return briefing.Brief{}, briefing.Day{}, err
	}
	if date.IsZero() {
		date = s.Today()
	}
	day, err := s.briefingDay(ctx, p, calendar.Date(date))
	if err != nil {
		return briefing.Brief{}, briefing.Day{}, err
	}
	b, err := s.briefing.Brief(ctx, day)
	if err != nil {
		return briefing.Brief{}, briefing.Day{}, err
	}
	return b, day, nil
}

func (s *Service) briefingDay(ctx context.Context, p *plan.Plan, date time.Time) (briefing.Day, error) {
	scores, err := s.mastery.Scores(ctx, p.UserID)
	if err != nil {
		return briefing.Day{}, fmt.Errorf("load mastery: %w", err)
	}
	day := briefing.Day{Date: date, ExamDate: p.ExamDate, Mastery: map[plan.LessonKey]float64{}}
	key := calendar.Key(date)
	for _, t := range p.Tasks {
		if calendar.Key(t.ScheduledDate) != key {
			continue
		}
		day.Tasks = append(day.Tasks, t)
		if t.HasLesson() {
			if v, ok := scores.Lookup(t.LessonKey()); ok {
				day.Mastery[t.LessonKey()] = v
			}
		}
	}
	return day, nil
}

// Stats summarizes a user's stored data and LLM usage.
func (s *Service) Stats(ctx context.Context, userID string) (*store.Stats, error) {
	return s.store.Stats(ctx, userID)
}

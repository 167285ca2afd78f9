package input

import (
	"fmt"
	"os"
	"time"

	"github.com/abhisek/examprep/internal/calendar"
	"github.com/abhisek/examprep/internal/practice"
)

type cardDoc struct {
	Cards []struct {
		ID          string `json:"id"`
		UserID      string `json:"user_id"`
		CourseID    string `json:"course_id"`
		LessonIndex int    `json:"lesson_index"`
		State       string `json:"state"`
		Due         string `json:"due"`
		Reps        int    `json:"reps"`
		Lapses      int    `json:"lapses"`
		Front       string `json:"front"`
		Back        string `json:"back"`
	} `json:"cards"`
}

// LoadCardFile reads and validates a YAML or JSON card file. Cards
// without a user_id are assigned to defaultUser.
func LoadCardFile(path, defaultUser string) ([]practice.Card, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read card file: %w", err)
	}
	return ParseCards(path, data, defaultUser)
}

// ParseCards validates a card document.
func ParseCards(source string, data []byte, defaultUser string) ([]practice.Card, error) {
	var doc cardDoc
	if err := decode(source, data, "cards", cardSchema, &doc); err != nil {
		return nil, err
	}

	verr := &ValidationError{Source: source}
	ids := make(map[string]bool, len(doc.Cards))
	cards := make([]practice.Card, 0, len(doc.Cards))
	for i, c := range doc.Cards {
		if ids[c.ID] {
			verr.add("cards[%d]: duplicate id %q", i, c.ID)
			continue
		}
		ids[c.ID] = true

		state, err := practice.ParseCardState(c.State)
		if err != nil {
			verr.add("cards[%d]: %v", i, err)
			continue
		}
		var due time.Time
		if c.Due != "" {
			if due, err = ParseDue(c.Due); err != nil {
				verr.add("cards[%d].due: %v", i, err)
				continue
			}
		}
		user := c.UserID
		if user == "" {
			user = defaultUser
		}
		cards = append(cards, practice.Card{
			ID:          c.ID,
			UserID:      user,
			CourseID:    c.CourseID,
			LessonIndex: c.LessonIndex,
			State:       state,
			Due:         due,
			Reps:        c.Reps,
			Lapses:      c.Lapses,
			Front:       c.Front,
			Back:        c.Back,
		})
	}

	if err := verr.orNil(); err != nil {
		return nil, err
	}
	return cards, nil
}

// ParseDue accepts a calendar date or an RFC 3339 timestamp.
func ParseDue(s string) (time.Time, error) {
	if t, err := calendar.Parse(s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("want YYYY-MM-DD or RFC 3339, got %q", s)
	}
	return t.UTC(), nil
}

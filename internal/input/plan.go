// Package input reads plan and card files at the system boundary. Every
// document is schema-checked and its dates parsed here so the scheduling
// packages never see malformed values.
package input

import (
	"fmt"
	"os"
	"time"

	"github.com/abhisek/examprep/internal/calendar"
	"github.com/abhisek/examprep/internal/mastery"
	"github.com/abhisek/examprep/internal/plan"
	"github.com/abhisek/examprep/internal/planner"
	"github.com/abhisek/examprep/internal/spacedrep"
)

type planDoc struct {
	ExamDate        string           `json:"exam_date"`
	Today           string           `json:"today"`
	DailyMinutes    int              `json:"daily_minutes"`
	SkipDays        []string         `json:"skip_days"`
	SkippedLessons  []plan.LessonKey `json:"skipped_lessons"`
	Lessons         []plan.Lesson    `json:"lessons"`
	Mastery         []mastery.Record `json:"mastery"`
	ReviewPlacement string           `json:"review_placement"`
	ReviewSeed      *uint64          `json:"review_seed"`
}

// PlanSpec is a validated plan file.
type PlanSpec struct {
	Input   planner.GenerateInput
	Options planner.Options
	// TodaySet is false when the file left today to the caller's clock.
	TodaySet bool
	// SeedSet is false when review_seed was omitted.
	SeedSet bool
}

// LoadPlanFile reads and validates a YAML or JSON plan file.
func LoadPlanFile(path string) (*PlanSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read plan file: %w", err)
	}
	return ParsePlan(path, data)
}

// ParsePlan validates a plan document. A missing today defaults to the
// current local date.
func ParsePlan(source string, data []byte) (*PlanSpec, error) {
	var doc planDoc
	if err := decode(source, data, "plan", planSchema, &doc); err != nil {
		return nil, err
	}

	verr := &ValidationError{Source: source}
	spec := &PlanSpec{}
	in := &spec.Input

	exam, err := calendar.Parse(doc.ExamDate)
	if err != nil {
		verr.add("exam_date: %v", err)
	}
	in.ExamDate = exam

	if doc.Today != "" {
		today, err := calendar.Parse(doc.Today)
		if err != nil {
			verr.add("today: %v", err)
		}
		in.Today = today
		spec.TodaySet = true
	} else {
		in.Today = calendar.Date(time.Now())
	}

	for i, s := range doc.SkipDays {
		d, err := calendar.Parse(s)
		if err != nil {
			verr.add("skip_days[%d]: %v", i, err)
			continue
		}
		in.SkipDays = append(in.SkipDays, d)
	}

	seen := make(plan.KeySet, len(doc.Lessons))
	for i, l := range doc.Lessons {
		if seen.Has(l.Key()) {
			verr.add("lessons[%d]: duplicate lesson %s", i, l.Key())
			continue
		}
		seen[l.Key()] = struct{}{}
		in.Lessons = append(in.Lessons, l)
	}

	in.DailyTimeMinutes = doc.DailyMinutes
	in.SkippedLessons = doc.SkippedLessons
	in.Mastery = mastery.FromRecords(doc.Mastery)

	placement, err := spacedrep.ParsePlacement(doc.ReviewPlacement)
	if err != nil {
		verr.add("review_placement: %v", err)
	}
	spec.Options = planner.Options{Placement: placement}
	if doc.ReviewSeed != nil {
		spec.Options.Seed = *doc.ReviewSeed
		spec.SeedSet = true
	}

	if err := verr.orNil(); err != nil {
		return nil, err
	}
	return spec, nil
}

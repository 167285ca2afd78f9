// Package planner lays out a multi-day study plan, from tomorrow up to an
// exam date, out of new lessons, spaced reviews and phase-specific
// practice.
//
// Everything here is a pure function of its input: no I/O, no shared
// state, no clock reads beyond defaulting a missing Today.
package planner

import (
	"time"

	"github.com/abhisek/examprep/internal/calendar"
	"github.com/abhisek/examprep/internal/mastery"
	"github.com/abhisek/examprep/internal/plan"
	"github.com/abhisek/examprep/internal/spacedrep"
)

// GenerateInput is everything the generator needs to build a plan.
type GenerateInput struct {
	Today            time.Time // defaults to the current day when zero
	ExamDate         time.Time
	DailyTimeMinutes int
	SkipDays         []time.Time
	SkippedLessons   []plan.LessonKey
	Lessons          []plan.Lesson
	Mastery          mastery.Scores
}

// Options tune choices that the schedule itself does not pin down.
type Options struct {
	// Placement spreads reinforcement reviews for already-learned lessons.
	Placement spacedrep.Placement
	// Seed feeds PlacementRandom. Ignored by PlacementEven.
	Seed uint64
}

// DefaultOptions returns deterministic even placement.
func DefaultOptions() Options {
	return Options{Placement: spacedrep.PlacementEven}
}

// Result is a generated plan together with how it was derived.
type Result struct {
	Tasks          []plan.Task
	Days           []time.Time
	Phases         Phases
	Classification mastery.Classification
	Taught         []spacedrep.Taught
	Unscheduled    []plan.Lesson
}

// Generate builds the full, sequenced task list for in.
func Generate(in GenerateInput, opts Options) Result {
	today := in.Today
	if today.IsZero() {
		today = calendar.Date(time.Now())
	}

	days := calendar.EligibleDays(today, in.ExamDate, calendar.NewDaySet(in.SkipDays...))
	res := Result{Days: days, Phases: ComputePhases(len(days))}
	if len(days) == 0 || len(in.Lessons) == 0 {
		return res
	}

	res.Classification = mastery.Classify(in.Lessons, in.Mastery, plan.NewKeySet(in.SkippedLessons...))
	cls := res.Classification
	weak := cls.WeakSet()

	nm := PlaceNewMaterial(days, res.Phases, cls.NewLessons, in.DailyTimeMinutes)
	res.Taught = nm.Taught
	res.Unscheduled = nm.Unscheduled

	p2Start, p2End := res.Phases.Span(PhaseConsolidation)
	placer := spacedrep.NewPlacer(opts.Placement, opts.Seed)

	tasks := nm.Tasks
	tasks = append(tasks, spacedrep.ScheduleReviews(days, nm.Taught, weak)...)
	tasks = append(tasks, spacedrep.ReinforceLearned(days, p2Start, p2End, cls.LearnedLessons, weak, placer)...)
	tasks = append(tasks, PracticeTests(days, res.Phases)...)
	tasks = append(tasks, MockExamsAndDrills(days, res.Phases, cls.WeakLessons)...)
	tasks = append(tasks, LightReviews(days, res.Phases)...)

	Sequence(tasks)
	res.Tasks = tasks
	return res
}

// GenerateStudyPlan returns only the sequenced tasks. An empty calendar or
// an empty lesson list yields an empty plan.
func GenerateStudyPlan(in GenerateInput, opts Options) []plan.Task {
	return Generate(in, opts).Tasks
}

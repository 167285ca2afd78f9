package planner

import (
	"fmt"
	"math/rand/v2"
	"reflect"
	"testing"
	"time"

	"github.com/abhisek/examprep/internal/calendar"
	"github.com/abhisek/examprep/internal/mastery"
	"github.com/abhisek/examprep/internal/plan"
	"github.com/abhisek/examprep/internal/spacedrep"
)

var today = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

func day(n int) time.Time { return today.AddDate(0, 0, n) }

func lessons(course string, n int) []plan.Lesson {
	out := make([]plan.Lesson, n)
	for i := range out {
		out[i] = plan.Lesson{
			CourseID:    course,
			CourseTitle: course,
			LessonIndex: i,
			LessonTitle: fmt.Sprintf("%s-%d", course, i),
		}
	}
	return out
}

// scenarioInput is ten eligible days, four new lessons across two
// courses, thirty minutes a day.
func scenarioInput() GenerateInput {
	return GenerateInput{
		Today:            today,
		ExamDate:         day(11),
		DailyTimeMinutes: 30,
		Lessons:          append(lessons("bio", 2), lessons("chem", 2)...),
	}
}

func TestGenerate_Scenario(t *testing.T) {
	res := Generate(scenarioInput(), DefaultOptions())

	if len(res.Days) != 10 {
		t.Fatalf("eligible days = %d, want 10", len(res.Days))
	}
	if res.Phases.Phase1End != 4 {
		t.Errorf("phase 1 end = %d, want 4", res.Phases.Phase1End)
	}

	learnPerDay := map[string][]string{}
	learnDay := map[plan.LessonKey]time.Time{}
	for _, task := range res.Tasks {
		if task.Type == plan.TaskLearnLesson {
			k := calendar.Key(task.ScheduledDate)
			learnPerDay[k] = append(learnPerDay[k], task.CourseID)
			learnDay[task.LessonKey()] = task.ScheduledDate
		}
	}
	if len(learnDay) != 4 {
		t.Fatalf("learned %d lessons, want 4", len(learnDay))
	}
	for k, courses := range learnPerDay {
		if len(courses) > 2 {
			t.Errorf("%s has %d learn tasks, want <= 2", k, len(courses))
		}
		if len(courses) == 2 && courses[0] == courses[1] {
			t.Errorf("%s not interleaved: %v", k, courses)
		}
	}

	// Every lesson gets reviews at +1, +3, +7; +14 is past the horizon.
	for key, learned := range learnDay {
		var offsets []int
		for _, task := range res.Tasks {
			if task.Type == plan.TaskReviewLesson && task.LessonKey() == key {
				offsets = append(offsets, calendar.DaysBetween(learned, task.ScheduledDate))
			}
		}
		if !reflect.DeepEqual(offsets, []int{1, 3, 7}) {
			t.Errorf("%s review offsets = %v, want [1 3 7]", key, offsets)
		}
	}
}

func TestGenerate_EmptyCalendar(t *testing.T) {
	in := scenarioInput()
	for i := 1; i < 11; i++ {
		in.SkipDays = append(in.SkipDays, day(i))
	}
	if tasks := GenerateStudyPlan(in, DefaultOptions()); len(tasks) != 0 {
		t.Errorf("got %d tasks with every day skipped, want 0", len(tasks))
	}

	in = scenarioInput()
	in.ExamDate = today
	if tasks := GenerateStudyPlan(in, DefaultOptions()); len(tasks) != 0 {
		t.Errorf("got %d tasks for exam today, want 0", len(tasks))
	}
}

func TestGenerate_NoLessons(t *testing.T) {
	in := scenarioInput()
	in.Lessons = nil
	if tasks := GenerateStudyPlan(in, DefaultOptions()); len(tasks) != 0 {
		t.Errorf("got %d tasks with no lessons, want 0", len(tasks))
	}
}

func TestGenerate_PhaseInjection(t *testing.T) {
	in := GenerateInput{
		Today:            today,
		ExamDate:         day(41), // 40 eligible days
		DailyTimeMinutes: 60,
		Lessons:          lessons("bio", 4),
		Mastery: mastery.Scores{
			{CourseID: "bio", LessonIndex: 0}: 0.3, // weak
			{CourseID: "bio", LessonIndex: 1}: 0.4, // weak
			{CourseID: "bio", LessonIndex: 2}: 0.9, // learned
		},
	}
	res := Generate(in, DefaultOptions())
	ph := res.Phases
	if ph != (Phases{Total: 40, Phase1End: 16, Phase2End: 32, Phase3End: 38}) {
		t.Fatalf("phases = %+v", ph)
	}

	counts := map[plan.TaskType]int{}
	for _, task := range res.Tasks {
		counts[task.Type]++
		idx := calendar.DaysBetween(res.Days[0], task.ScheduledDate)
		switch task.Type {
		case plan.TaskPracticeTest:
			if ph.PhaseOf(idx) != PhaseConsolidation {
				t.Errorf("practice test on day %d outside phase 2", idx)
			}
		case plan.TaskMockExam:
			if ph.PhaseOf(idx) != PhaseIntensive || (idx-ph.Phase2End)%3 != 0 {
				t.Errorf("mock exam on day %d", idx)
			}
		case plan.TaskLightReview:
			if ph.PhaseOf(idx) != PhaseTaper {
				t.Errorf("light review on day %d outside phase 4", idx)
			}
		}
	}

	if counts[plan.TaskPracticeTest] != 4 {
		t.Errorf("practice tests = %d, want 4", counts[plan.TaskPracticeTest])
	}
	// Phase 3 has 6 days: mock exams on relative days 0 and 3, drills of
	// both weak lessons on the other 4.
	if counts[plan.TaskMockExam] != 2 {
		t.Errorf("mock exams = %d, want 2", counts[plan.TaskMockExam])
	}
	// 2 weak lessons * 3 reinforcements + 4 drill days * 2 drills.
	if counts[plan.TaskReviewWeak] != 6+8 {
		t.Errorf("weak reviews = %d, want 14", counts[plan.TaskReviewWeak])
	}
	if counts[plan.TaskLightReview] != 2 {
		t.Errorf("light reviews = %d, want 2", counts[plan.TaskLightReview])
	}
	if counts[plan.TaskLearnLesson] != 1 {
		t.Errorf("learn tasks = %d, want 1", counts[plan.TaskLearnLesson])
	}
}

func TestGenerate_SpillIntoConsolidation(t *testing.T) {
	in := GenerateInput{
		Today:            today,
		ExamDate:         day(11), // phase 1 = 4 days, phase 2 = 4 days
		DailyTimeMinutes: 15,      // one lesson a day
		Lessons:          lessons("bio", 10),
	}
	res := Generate(in, DefaultOptions())

	if len(res.Taught) != 8 {
		t.Fatalf("taught %d lessons, want 8", len(res.Taught))
	}
	for i, tl := range res.Taught {
		if tl.Day != i {
			t.Errorf("lesson %d placed on day %d, want %d", i, tl.Day, i)
		}
	}
	if len(res.Unscheduled) != 2 {
		t.Errorf("unscheduled = %d, want 2", len(res.Unscheduled))
	}
}

func TestGenerate_RandomPlacementIsSeeded(t *testing.T) {
	in := GenerateInput{
		Today:            today,
		ExamDate:         day(31),
		DailyTimeMinutes: 45,
		Lessons:          lessons("bio", 6),
		Mastery: mastery.Scores{
			{CourseID: "bio", LessonIndex: 0}: 0.7,
			{CourseID: "bio", LessonIndex: 1}: 0.2,
		},
	}
	opts := Options{Placement: spacedrep.PlacementRandom, Seed: 7}

	a := GenerateStudyPlan(in, opts)
	b := GenerateStudyPlan(in, opts)
	if !reflect.DeepEqual(a, b) {
		t.Error("same seed produced different plans")
	}
}

func TestRecalculate_CreditsCompletedLearnTasks(t *testing.T) {
	in := scenarioInput()
	first := GenerateStudyPlan(in, DefaultOptions())

	var completed []plan.Task
	for _, task := range first {
		if task.Type == plan.TaskLearnLesson && task.ScheduledDate.Equal(day(1)) {
			task.Status = plan.StatusCompleted
			completed = append(completed, task)
		}
	}
	if len(completed) != 2 {
		t.Fatalf("completed = %d, want 2", len(completed))
	}

	in.Today = day(1)
	res := Recalculate(completed, in, DefaultOptions())

	done := plan.NewKeySet(CreditedLessons(completed)...)
	for _, task := range res.Tasks {
		if task.Type == plan.TaskLearnLesson && done.Has(task.LessonKey()) {
			t.Errorf("lesson %s taught again after completion", task.LessonKey())
		}
		if !task.ScheduledDate.After(day(1)) {
			t.Errorf("task on %v is not after the new today", task.ScheduledDate)
		}
	}
	// Credited lessons land at 0.3, which is weak: each gets three
	// reinforcement passes.
	if got := len(res.Classification.WeakLessons); got != 2 {
		t.Errorf("weak after recalc = %d, want 2", got)
	}
	if in.Mastery != nil {
		t.Error("recalculate mutated the caller's mastery map")
	}
}

func TestRecalculate_Idempotent(t *testing.T) {
	in := scenarioInput()
	in.Mastery = mastery.Scores{{CourseID: "bio", LessonIndex: 0}: 0.8}
	completed := []plan.Task{{
		Type: plan.TaskLearnLesson, CourseID: "chem", LessonIndex: 0, Status: plan.StatusCompleted,
	}}
	opts := Options{Placement: spacedrep.PlacementRandom, Seed: 99}

	a := RecalculatePlan(completed, in, opts)
	b := RecalculatePlan(completed, in, opts)
	if !reflect.DeepEqual(a, b) {
		t.Error("recalculation is not idempotent for identical inputs")
	}
}

func TestCreditedLessons_IgnoresOtherTasks(t *testing.T) {
	tasks := []plan.Task{
		{Type: plan.TaskLearnLesson, CourseID: "a", LessonIndex: 0, Status: plan.StatusCompleted},
		{Type: plan.TaskLearnLesson, CourseID: "a", LessonIndex: 0, Status: plan.StatusCompleted},
		{Type: plan.TaskLearnLesson, CourseID: "a", LessonIndex: 1, Status: plan.StatusSkipped},
		{Type: plan.TaskReviewLesson, CourseID: "a", LessonIndex: 2, Status: plan.StatusCompleted},
		{Type: plan.TaskMockExam, Status: plan.StatusCompleted},
	}
	got := CreditedLessons(tasks)
	if len(got) != 1 || got[0] != (plan.LessonKey{CourseID: "a", LessonIndex: 0}) {
		t.Errorf("credited = %v, want [a:0]", got)
	}
}

// randomInput draws a plan input from r.
func randomInput(r *rand.Rand) GenerateInput {
	horizon := r.IntN(60)
	in := GenerateInput{
		Today:            today,
		ExamDate:         day(horizon - 5),
		DailyTimeMinutes: 5 + r.IntN(120),
		Mastery:          mastery.Scores{},
	}
	for c := range 1 + r.IntN(4) {
		for _, l := range lessons(fmt.Sprintf("c%d", c), 1+r.IntN(8)) {
			in.Lessons = append(in.Lessons, l)
			if r.IntN(2) == 0 {
				in.Mastery[l.Key()] = r.Float64()
			}
			if r.IntN(6) == 0 {
				in.SkippedLessons = append(in.SkippedLessons, l.Key())
			}
		}
	}
	for i := 1; i < horizon; i++ {
		if r.IntN(5) == 0 {
			in.SkipDays = append(in.SkipDays, day(i))
		}
	}
	return in
}

func TestGenerate_Invariants(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	for iter := 0; iter < 200; iter++ {
		in := randomInput(r)
		res := Generate(in, Options{Placement: spacedrep.PlacementRandom, Seed: uint64(iter)})

		eligible := calendar.NewDaySet(res.Days...)
		skipped := plan.NewKeySet(in.SkippedLessons...)
		learnMinutes := map[string]int{}

		for i, task := range res.Tasks {
			if !eligible.Has(task.ScheduledDate) {
				t.Fatalf("iter %d: task on ineligible day %v", iter, task.ScheduledDate)
			}
			if task.HasLesson() && skipped.Has(task.LessonKey()) &&
				(task.Type == plan.TaskLearnLesson || task.Type == plan.TaskReviewLesson) {
				t.Fatalf("iter %d: skipped lesson %s scheduled as %s", iter, task.LessonKey(), task.Type)
			}
			if i > 0 {
				prev := res.Tasks[i-1]
				if task.ScheduledDate.Before(prev.ScheduledDate) ||
					(task.ScheduledDate.Equal(prev.ScheduledDate) && task.SortOrder() < prev.SortOrder()) {
					t.Fatalf("iter %d: tasks out of order at %d", iter, i)
				}
			}
			if task.Type == plan.TaskLearnLesson && res.Phases.PhaseOf(indexOf(res.Days, task.ScheduledDate)) == PhaseAcquisition {
				learnMinutes[calendar.Key(task.ScheduledDate)] += task.EstimatedMinutes
			}
		}
		for k, m := range learnMinutes {
			if m > in.DailyTimeMinutes {
				t.Fatalf("iter %d: %s has %d learn minutes, budget %d", iter, k, m, in.DailyTimeMinutes)
			}
		}
	}
}

func indexOf(days []time.Time, d time.Time) int {
	for i, x := range days {
		if x.Equal(d) {
			return i
		}
	}
	return -1
}

package spacedrep

import (
	"testing"
	"time"

	"github.com/abhisek/examprep/internal/plan"
)

func horizon(n int) []time.Time {
	start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	days := make([]time.Time, n)
	for i := range days {
		days[i] = start.AddDate(0, 0, i)
	}
	return days
}

func testLesson(course string, idx int) plan.Lesson {
	return plan.Lesson{CourseID: course, CourseTitle: course, LessonIndex: idx, LessonTitle: "lesson"}
}

func TestScheduleReviews_OffsetsWithinHorizon(t *testing.T) {
	days := horizon(10)
	taught := []Taught{{Lesson: testLesson("bio", 0), Day: 1}}

	tasks := ScheduleReviews(days, taught, nil)

	// Day 1 + {1,3,7} fit in 10 days; +14 does not.
	if len(tasks) != 3 {
		t.Fatalf("got %d reviews, want 3", len(tasks))
	}
	wantDays := []int{2, 4, 8}
	for i, task := range tasks {
		if !task.ScheduledDate.Equal(days[wantDays[i]]) {
			t.Errorf("review %d on %v, want %v", i, task.ScheduledDate, days[wantDays[i]])
		}
		if task.Type != plan.TaskReviewLesson {
			t.Errorf("review %d type = %s", i, task.Type)
		}
		if task.EstimatedMinutes != ReviewMinutes {
			t.Errorf("review %d minutes = %d, want %d", i, task.EstimatedMinutes, ReviewMinutes)
		}
		if task.Metadata[plan.MetaOffset] != ReviewOffsets[i] {
			t.Errorf("review %d offset = %v", i, task.Metadata[plan.MetaOffset])
		}
	}
}

func TestScheduleReviews_WeakLessonsTakeLonger(t *testing.T) {
	l := testLesson("bio", 0)
	tasks := ScheduleReviews(horizon(30), []Taught{{Lesson: l, Day: 0}}, plan.NewKeySet(l.Key()))

	if len(tasks) != len(ReviewOffsets) {
		t.Fatalf("got %d reviews, want %d", len(tasks), len(ReviewOffsets))
	}
	for _, task := range tasks {
		if task.EstimatedMinutes != WeakReviewMinutes {
			t.Errorf("minutes = %d, want %d", task.EstimatedMinutes, WeakReviewMinutes)
		}
		if task.Metadata[plan.MetaWeak] != true {
			t.Error("expected weak metadata")
		}
	}
}

func TestReinforceLearned_CountsAndWindow(t *testing.T) {
	days := horizon(20)
	strong := testLesson("bio", 0)
	weak := testLesson("chem", 0)

	tasks := ReinforceLearned(days, 8, 16, []plan.Lesson{strong, weak}, plan.NewKeySet(weak.Key()), NewPlacer(PlacementEven, 0))

	var reviews, reinforce int
	for _, task := range tasks {
		if task.ScheduledDate.Before(days[8]) || !task.ScheduledDate.Before(days[16]) {
			t.Errorf("task on %v outside window", task.ScheduledDate)
		}
		switch task.Type {
		case plan.TaskReviewLesson:
			reviews++
			if task.Priority != plan.PriorityReview {
				t.Errorf("review priority = %s", task.Priority)
			}
		case plan.TaskReviewWeak:
			reinforce++
			if task.EstimatedMinutes != ReinforceMinutes || task.Priority != plan.PriorityWeak {
				t.Errorf("weak review = %d min / %s", task.EstimatedMinutes, task.Priority)
			}
		}
	}
	if reviews != 1 || reinforce != WeakReinforcements {
		t.Errorf("reviews = %d, reinforce = %d; want 1 and %d", reviews, reinforce, WeakReinforcements)
	}
}

func TestReinforceLearned_EmptyWindow(t *testing.T) {
	tasks := ReinforceLearned(horizon(5), 2, 2, []plan.Lesson{testLesson("bio", 0)}, nil, NewPlacer(PlacementEven, 0))
	if len(tasks) != 0 {
		t.Errorf("got %d tasks for empty window", len(tasks))
	}
}

func TestEvenPlacer_RoundRobin(t *testing.T) {
	p := NewPlacer(PlacementEven, 0)
	got := []int{p.Next(3), p.Next(3), p.Next(3), p.Next(3)}
	want := []int{0, 1, 2, 0}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("offsets = %v, want %v", got, want)
		}
	}
}

func TestRandomPlacer_ReproducibleForSeed(t *testing.T) {
	a := NewPlacer(PlacementRandom, 42)
	b := NewPlacer(PlacementRandom, 42)
	for i := 0; i < 50; i++ {
		x, y := a.Next(7), b.Next(7)
		if x != y {
			t.Fatalf("draw %d differs: %d vs %d", i, x, y)
		}
		if x < 0 || x >= 7 {
			t.Fatalf("draw %d out of range: %d", i, x)
		}
	}
}

func TestParsePlacement(t *testing.T) {
	if p, err := ParsePlacement(""); err != nil || p != PlacementEven {
		t.Errorf("empty = %q, %v", p, err)
	}
	if p, err := ParsePlacement("random"); err != nil || p != PlacementRandom {
		t.Errorf("random = %q, %v", p, err)
	}
	if _, err := ParsePlacement("chaotic"); err == nil {
		t.Error("expected error for unknown placement")
	}
}

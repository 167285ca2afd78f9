package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/abhisek/examprep/internal/mastery"
	"github.com/abhisek/examprep/internal/plan"
	"github.com/abhisek/examprep/internal/practice"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	s, err := Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name))
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func day(n int) time.Time {
	return time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, n)
}

func testPlan() *plan.Plan {
	return &plan.Plan{
		UserID:   "u1",
		ExamDate: day(30),
		Config: plan.PlanConfig{
			DailyTimeMinutes: 45,
			SkipDays:         []time.Time{day(3)},
			SkippedLessons:   []plan.LessonKey{{CourseID: "chem", LessonIndex: 1}},
			ReviewPlacement:  "random",
			ReviewSeed:       7,
		},
		Lessons: []plan.Lesson{
			{CourseID: "bio", CourseTitle: "Biology", LessonIndex: 0, LessonTitle: "Cells"},
			{CourseID: "chem", CourseTitle: "Chemistry", LessonIndex: 1, LessonTitle: "Bonds"},
		},
		Tasks: []plan.Task{
			{ScheduledDate: day(2), Type: plan.TaskReviewLesson, CourseID: "bio", Priority: plan.PriorityReview, EstimatedMinutes: 10,
				Metadata: map[string]any{plan.MetaOffset: 1}},
			{ScheduledDate: day(1), Type: plan.TaskLearnLesson, CourseID: "bio", LessonTitle: "Cells", Priority: plan.PriorityLearn, EstimatedMinutes: 15},
			{ScheduledDate: day(1), Type: plan.TaskLearnLesson, CourseID: "chem", LessonIndex: 1, Priority: plan.PriorityLearn, Slot: 1, EstimatedMinutes: 15},
			{ScheduledDate: day(5), Type: plan.TaskMockExam, Priority: plan.PriorityMockExam, EstimatedMinutes: 60},
		},
	}
}

func TestOpenClose(t *testing.T) {
	s := openTestStore(t)
	if s.DB() == nil {
		t.Fatal("expected non-nil db")
	}
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		// WAL mode falls back to "memory" for in-memory databases,
		// so journal_mode is not checked here.
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestAutoMigrationCreatesTables(t *testing.T) {
	s := openTestStore(t)
	for _, table := range []string{tablePlans, tableTasks, tableMastery, tableCards, tablePlanEvents, tableLLMRequests, "global_sequence"} {
		var name string
		err := s.DB().QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		if err != nil {
			t.Errorf("table %s: %v", table, err)
		}
	}
}

func TestPlanCreateAndGet(t *testing.T) {
	s := openTestStore(t)
	repo := s.PlanRepo()
	ctx := context.Background()

	p := testPlan()
	if err := repo.Create(ctx, p); err != nil {
		t.Fatalf("create: %v", err)
	}
	if p.ID == "" || p.Tasks[0].ID == "" {
		t.Fatal("expected IDs to be assigned")
	}

	got, err := repo.Get(ctx, p.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != plan.PlanActive {
		t.Errorf("status = %s, want active", got.Status)
	}
	if !got.ExamDate.Equal(day(30)) {
		t.Errorf("exam date = %v", got.ExamDate)
	}
	if got.Config.DailyTimeMinutes != 45 || got.Config.ReviewPlacement != "random" || got.Config.ReviewSeed != 7 {
		t.Errorf("config = %+v", got.Config)
	}
	if len(got.Config.SkipDays) != 1 || !got.Config.SkipDays[0].Equal(day(3)) {
		t.Errorf("skip days = %v", got.Config.SkipDays)
	}
	if len(got.Config.SkippedLessons) != 1 || len(got.Lessons) != 2 {
		t.Errorf("skipped = %v, lessons = %v", got.Config.SkippedLessons, got.Lessons)
	}

	// Tasks come back in day, then priority, then slot order.
	wantOrder := []plan.TaskType{plan.TaskLearnLesson, plan.TaskLearnLesson, plan.TaskReviewLesson, plan.TaskMockExam}
	if len(got.Tasks) != len(wantOrder) {
		t.Fatalf("tasks = %d, want %d", len(got.Tasks), len(wantOrder))
	}
	for i, w := range wantOrder {
		if got.Tasks[i].Type != w {
			t.Errorf("task %d type = %s, want %s", i, got.Tasks[i].Type, w)
		}
	}
	if got.Tasks[1].Slot != 1 || got.Tasks[1].Priority != plan.PriorityLearn {
		t.Errorf("task 1 priority/slot = %v/%d", got.Tasks[1].Priority, got.Tasks[1].Slot)
	}
	if got.Tasks[2].Metadata[plan.MetaOffset] != float64(1) {
		t.Errorf("metadata = %v", got.Tasks[2].Metadata)
	}
}

func TestPlanGetNotFound(t *testing.T) {
	s := openTestStore(t)
	_, err := s.PlanRepo().Get(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestPlanActiveAndList(t *testing.T) {
	s := openTestStore(t)
	repo := s.PlanRepo()
	ctx := context.Background()

	old := testPlan()
	old.CreatedAt = time.Now().Add(-time.Hour)
	if err := repo.Create(ctx, old); err != nil {
		t.Fatalf("create old: %v", err)
	}
	if err := repo.UpdateStatus(ctx, old.ID, plan.PlanAbandoned); err != nil {
		t.Fatalf("update status: %v", err)
	}
	cur := testPlan()
	if err := repo.Create(ctx, cur); err != nil {
		t.Fatalf("create current: %v", err)
	}

	active, err := repo.Active(ctx, "u1")
	if err != nil {
		t.Fatalf("active: %v", err)
	}
	if active.ID != cur.ID {
		t.Errorf("active = %s, want %s", active.ID, cur.ID)
	}
	if _, err := repo.Active(ctx, "nobody"); !errors.Is(err, ErrNotFound) {
		t.Errorf("active for unknown user: %v", err)
	}

	list, err := repo.List(ctx, "u1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 || list[0].ID != cur.ID {
		t.Fatalf("list = %+v", list)
	}
	if list[0].Tasks != 4 || list[1].Status != plan.PlanAbandoned {
		t.Errorf("summaries = %+v", list)
	}
}

func TestSetTaskStatus(t *testing.T) {
	s := openTestStore(t)
	repo := s.PlanRepo()
	ctx := context.Background()

	p := testPlan()
	if err := repo.Create(ctx, p); err != nil {
		t.Fatalf("create: %v", err)
	}
	taskID := p.Tasks[1].ID

	if err := repo.SetTaskStatus(ctx, p.ID, taskID, plan.StatusCompleted, time.Now()); err != nil {
		t.Fatalf("complete: %v", err)
	}
	if err := repo.SetTaskStatus(ctx, p.ID, taskID, plan.StatusSkipped, time.Now()); err == nil {
		t.Error("completed task should not move again")
	}
	if err := repo.SetTaskStatus(ctx, p.ID, "nope", plan.StatusSkipped, time.Now()); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing task err = %v", err)
	}

	got, _ := repo.Get(ctx, p.ID)
	if n := len(got.CompletedTasks()); n != 1 {
		t.Errorf("completed = %d, want 1", n)
	}
}

func TestReplaceForward(t *testing.T) {
	s := openTestStore(t)
	repo := s.PlanRepo()
	ctx := context.Background()

	p := testPlan()
	if err := repo.Create(ctx, p); err != nil {
		t.Fatalf("create: %v", err)
	}
	// Complete one task dated after the cut; it must survive.
	if err := repo.SetTaskStatus(ctx, p.ID, p.Tasks[0].ID, plan.StatusCompleted, time.Now()); err != nil {
		t.Fatalf("complete: %v", err)
	}

	fresh := []plan.Task{
		{ScheduledDate: day(4), Type: plan.TaskLightReview, Priority: plan.PriorityLightReview, EstimatedMinutes: 15},
	}
	removed, err := repo.ReplaceForward(ctx, p.ID, day(2), fresh)
	if err != nil {
		t.Fatalf("replace: %v", err)
	}
	// Pending tasks on or after day 2: only the mock exam.
	if removed != 1 {
		t.Errorf("removed = %d, want 1", removed)
	}

	got, err := repo.Get(ctx, p.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	var types []plan.TaskType
	for _, task := range got.Tasks {
		types = append(types, task.Type)
	}
	want := []plan.TaskType{plan.TaskLearnLesson, plan.TaskLearnLesson, plan.TaskReviewLesson, plan.TaskLightReview}
	if fmt.Sprint(types) != fmt.Sprint(want) {
		t.Errorf("tasks = %v, want %v", types, want)
	}
}

func TestReplaceForward_ConcurrentWriters(t *testing.T) {
	s := openTestStore(t)
	repo := s.PlanRepo()
	ctx := context.Background()

	p := testPlan()
	if err := repo.Create(ctx, p); err != nil {
		t.Fatalf("create: %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			tasks := []plan.Task{
				{ScheduledDate: day(10 + i), Type: plan.TaskLightReview, EstimatedMinutes: 15},
				{ScheduledDate: day(11 + i), Type: plan.TaskLightReview, EstimatedMinutes: 15},
			}
			if _, err := repo.ReplaceForward(ctx, p.ID, day(0), tasks); err != nil {
				t.Errorf("replace %d: %v", i, err)
			}
		}(i)
	}
	wg.Wait()

	got, err := repo.Get(ctx, p.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	// Every writer replaced the whole pending window; exactly one set wins.
	if len(got.Tasks) != 2 {
		t.Errorf("tasks = %d, want 2", len(got.Tasks))
	}
}

func TestMasteryRepo(t *testing.T) {
	s := openTestStore(t)
	repo := s.MasteryRepo()
	ctx := context.Background()

	err := repo.Upsert(ctx, "u1", []mastery.Record{
		{CourseID: "bio", LessonIndex: 0, Score: 0.2},
		{CourseID: "bio", LessonIndex: 1, Score: 0.6},
		{CourseID: "chem", LessonIndex: 0, Score: 1.4}, // clamped
	})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if err := repo.Upsert(ctx, "u1", []mastery.Record{{CourseID: "bio", LessonIndex: 0, Score: 0.4}}); err != nil {
		t.Fatalf("upsert again: %v", err)
	}

	scores, err := repo.Scores(ctx, "u1")
	if err != nil {
		t.Fatalf("scores: %v", err)
	}
	if len(scores) != 3 || scores.Get(plan.LessonKey{CourseID: "bio"}) != 0.4 {
		t.Errorf("scores = %v", scores)
	}
	if scores.Get(plan.LessonKey{CourseID: "chem"}) != 1 {
		t.Errorf("chem score = %v, want clamped 1", scores.Get(plan.LessonKey{CourseID: "chem"}))
	}

	avgs, err := repo.CourseAverages(ctx, "u1")
	if err != nil {
		t.Fatalf("course averages: %v", err)
	}
	if len(avgs) != 2 || avgs[0].CourseID != "bio" {
		t.Fatalf("averages = %+v", avgs)
	}
	if d := avgs[0].Score - 0.5; d > 1e-9 || d < -1e-9 {
		t.Errorf("bio average = %v, want 0.5", avgs[0].Score)
	}

	other, _ := repo.Scores(ctx, "u2")
	if len(other) != 0 {
		t.Errorf("scores leaked across users: %v", other)
	}
}

func TestCardRepo(t *testing.T) {
	s := openTestStore(t)
	repo := s.CardRepo()
	ctx := context.Background()
	now := time.Date(2025, 4, 10, 12, 0, 0, 0, time.UTC)

	cards := []practice.Card{
		{ID: "late", UserID: "u1", CourseID: "bio", State: practice.CardReview, Due: now.Add(48 * time.Hour)},
		{ID: "due2", UserID: "u1", CourseID: "bio", State: practice.CardReview, Due: now.Add(-time.Hour), Reps: 4},
		{ID: "due1", UserID: "u1", CourseID: "chem", State: practice.CardRelearning, Due: now.Add(-48 * time.Hour)},
		{ID: "fresh", UserID: "u1", CourseID: "chem", State: practice.CardNew},
		{ID: "theirs", UserID: "u2", CourseID: "bio", State: practice.CardNew},
	}
	if err := repo.Upsert(ctx, cards); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	due, err := repo.Due(ctx, "u1", now)
	if err != nil {
		t.Fatalf("due: %v", err)
	}
	var ids []string
	for _, c := range due {
		ids = append(ids, c.ID)
	}
	if fmt.Sprint(ids) != "[fresh due1 due2]" {
		t.Errorf("due = %v, want [fresh due1 due2]", ids)
	}
	if due[2].Reps != 4 || !due[2].Due.Equal(now.Add(-time.Hour)) {
		t.Errorf("due2 = %+v", due[2])
	}

	n, err := repo.Count(ctx, "u1")
	if err != nil || n != 4 {
		t.Errorf("count = %d, %v; want 4", n, err)
	}
}

func TestSequenceCounter(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	var seqs []int64
	for i := 0; i < 5; i++ {
		seq, err := s.seq.Next(ctx)
		if err != nil {
			t.Fatalf("next %d: %v", i, err)
		}
		seqs = append(seqs, seq)
	}

	// Should be monotonically increasing starting from 1.
	for i, seq := range seqs {
		expected := int64(i + 1)
		if seq != expected {
			t.Errorf("seq[%d] = %d, want %d", i, seq, expected)
		}
	}
}

func TestEventRepo(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	for _, k := range []EventKind{EventGenerated, EventTaskCompleted, EventRecalculated} {
		err := repo.AppendPlanEvent(ctx, PlanEvent{PlanID: "p1", UserID: "u1", Kind: k, Detail: map[string]any{"tasks": 3}})
		if err != nil {
			t.Fatalf("append %s: %v", k, err)
		}
	}
	if err := repo.AppendLLMRequest(ctx, LLMRequestEventData{Provider: "mock", Model: "m", Success: true, InputTokens: 10, OutputTokens: 5}); err != nil {
		t.Fatalf("append llm: %v", err)
	}
	if err := repo.AppendLLMRequest(ctx, LLMRequestEventData{Provider: "mock", Model: "m", ErrorMessage: "boom"}); err != nil {
		t.Fatalf("append llm: %v", err)
	}

	events, err := repo.PlanEvents(ctx, "p1", QueryOpts{})
	if err != nil {
		t.Fatalf("events: %v", err)
	}
	if len(events) != 3 || events[0].Kind != EventGenerated || events[2].Sequence != 3 {
		t.Fatalf("events = %+v", events)
	}
	if events[1].Detail["tasks"] != float64(3) {
		t.Errorf("detail = %v", events[1].Detail)
	}

	after, _ := repo.PlanEvents(ctx, "p1", QueryOpts{After: 1, Limit: 1})
	if len(after) != 1 || after[0].Sequence != 2 {
		t.Errorf("paged events = %+v", after)
	}

	usage, err := repo.LLMUsage(ctx)
	if err != nil {
		t.Fatalf("usage: %v", err)
	}
	if len(usage) != 1 || usage[0].Requests != 2 || usage[0].Failures != 1 || usage[0].InputTokens != 10 {
		t.Errorf("usage = %+v", usage)
	}
}

func TestStats(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	p := testPlan()
	if err := s.PlanRepo().Create(ctx, p); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := s.PlanRepo().SetTaskStatus(ctx, p.ID, p.Tasks[0].ID, plan.StatusSkipped, time.Now()); err != nil {
		t.Fatalf("skip: %v", err)
	}

	st, err := s.Stats(ctx, "u1")
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if len(st.PlansByStatus) != 1 || st.PlansByStatus[0] != (Count{Key: "active", N: 1}) {
		t.Errorf("plans = %+v", st.PlansByStatus)
	}
	if fmt.Sprint(st.TasksByStatus) != "[{pending 3} {skipped 1}]" {
		t.Errorf("tasks by status = %+v", st.TasksByStatus)
	}
	if len(st.TasksByType) != 3 {
		t.Errorf("tasks by type = %+v", st.TasksByType)
	}
}

package store

import (
	"context"
	"errors"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"entgo.io/ent"

	entschema "github.com/abhisek/quizvault/ent/schema"
	"github.com/abhisek/quizvault/internal/quiz"
)

func openTestStore(t *testing.T, opts ...Option) *Store {
	t.Helper()
	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "test.db"), opts...)
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func twoQuestionQuiz(subjectID string) quiz.Quiz {
	opts := func(correct int) []quiz.AnswerOption {
		out := make([]quiz.AnswerOption, 4)
		for i := range out {
			out[i] = quiz.AnswerOption{Text: string(rune('A' + i)), IsCorrect: i == correct}
		}
		return out
	}
	return quiz.Quiz{
		Title:      "Basics",
		SubjectID:  subjectID,
		Difficulty: quiz.DifficultyEasy,
		Questions: []quiz.Question{
			{Question: "1 + 1?", AnswerOptions: opts(1)},
			{Question: "2 + 2?", AnswerOptions: opts(3)},
		},
	}
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)

	tests := []struct {
		pragma string
		want   string
	}{
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
		{"journal_mode", "wal"},
		{"busy_timeout", "5000"},
	}

	for _, tt := range tests {
		var got string
		if err := s.DB().QueryRow("PRAGMA " + tt.pragma).Scan(&got); err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestBuildDSN(t *testing.T) {
	got := buildDSN("/tmp/x.db")
	want := "/tmp/x.db?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)&_pragma=synchronous(NORMAL)&_time_format=sqlite"
	if got != want {
		t.Fatalf("buildDSN = %q, want %q", got, want)
	}
	if got := buildDSN("file:x.db?mode=rwc"); got[:len("file:x.db?mode=rwc&")] != "file:x.db?mode=rwc&" {
		t.Fatalf("existing query not extended: %q", got)
	}
}

func TestSubjectLifecycle(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	subjects, err := s.ListSubjects(ctx)
	if err != nil {
		t.Fatalf("list (empty): %v", err)
	}
	if subjects == nil || len(subjects) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", subjects)
	}

	math, err := s.CreateSubject(ctx, "Math", "Numbers")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if math.ID == "" || math.CreatedAt.IsZero() {
		t.Fatalf("expected id and timestamp, got %+v", math)
	}
	if _, err := s.CreateSubject(ctx, "Physics", ""); err != nil {
		t.Fatalf("create second: %v", err)
	}

	got, err := s.GetSubject(ctx, math.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got == nil || got.Name != "Math" || got.Description != "Numbers" {
		t.Fatalf("unexpected subject: %+v", got)
	}
	if !got.CreatedAt.Equal(math.CreatedAt) {
		t.Fatalf("created_at round trip: got %v, want %v", got.CreatedAt, math.CreatedAt)
	}

	missing, err := s.GetSubject(ctx, "does-not-exist")
	if err != nil {
		t.Fatalf("get missing: %v", err)
	}
	if missing != nil {
		t.Fatalf("expected nil for missing subject, got %+v", missing)
	}

	subjects, err = s.ListSubjects(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(subjects) != 2 {
		t.Fatalf("expected 2 subjects, got %d", len(subjects))
	}

	byName, err := s.FindSubjectByName(ctx, "Physics")
	if err != nil || byName == nil {
		t.Fatalf("find by name: %v %v", byName, err)
	}
}

func TestCreateSubjectRequiresName(t *testing.T) {
	s := openTestStore(t)
	_, err := s.CreateSubject(context.Background(), "   ", "x")
	var verr *quiz.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestQuizLifecycle(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	sub, err := s.CreateSubject(ctx, "Math", "")
	if err != nil {
		t.Fatalf("create subject: %v", err)
	}

	empty, err := s.ListQuizzesBySubject(ctx, sub.ID)
	if err != nil {
		t.Fatalf("list (empty): %v", err)
	}
	if empty == nil || len(empty) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", empty)
	}

	created, err := s.CreateQuiz(ctx, twoQuestionQuiz(sub.ID))
	if err != nil {
		t.Fatalf("create quiz: %v", err)
	}

	got, err := s.GetQuiz(ctx, created.ID)
	if err != nil {
		t.Fatalf("get quiz: %v", err)
	}
	if got == nil {
		t.Fatal("expected quiz")
	}
	if got.Difficulty != quiz.DifficultyEasy || got.Kind != "" {
		t.Fatalf("unexpected difficulty/type: %q %q", got.Difficulty, got.Kind)
	}
	if len(got.Questions) != 2 || got.Questions[1].CorrectAnswer() != "D" {
		t.Fatalf("questions did not round trip: %+v", got.Questions)
	}

	list, err := s.ListQuizzesBySubject(ctx, sub.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 || list[0].ID != created.ID {
		t.Fatalf("unexpected list: %+v", list)
	}

	n, err := s.CountQuizzesBySubject(ctx, sub.ID)
	if err != nil || n != 1 {
		t.Fatalf("count = %d, %v", n, err)
	}

	missing, err := s.GetQuiz(ctx, "nope")
	if err != nil || missing != nil {
		t.Fatalf("expected nil, nil for missing quiz, got %v, %v", missing, err)
	}
}

func TestCreateQuizDoesNotEnforceCorrectAnswerRule(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	sub, _ := s.CreateSubject(ctx, "Math", "")

	q := quiz.Quiz{
		Title:     "Loose",
		SubjectID: sub.ID,
		Questions: []quiz.Question{{Question: "?", AnswerOptions: []quiz.AnswerOption{{Text: "a"}, {Text: "b"}}}},
	}
	if _, err := s.CreateQuiz(ctx, q); err != nil {
		t.Fatalf("create quiz without a correct option: %v", err)
	}
}

func TestReferenceChecks(t *testing.T) {
	ctx := context.Background()

	t.Run("enforced by default", func(t *testing.T) {
		s := openTestStore(t)
		_, err := s.CreateQuiz(ctx, twoQuestionQuiz("ghost"))
		if !errors.Is(err, ErrMissingReference) {
			t.Fatalf("expected ErrMissingReference, got %v", err)
		}
		_, err = s.SaveQuizResult(ctx, quiz.Result{QuizID: "ghost"})
		if !errors.Is(err, ErrMissingReference) {
			t.Fatalf("expected ErrMissingReference, got %v", err)
		}
	})

	t.Run("subject mismatch", func(t *testing.T) {
		s := openTestStore(t)
		a, _ := s.CreateSubject(ctx, "A", "")
		b, _ := s.CreateSubject(ctx, "B", "")
		qz, err := s.CreateQuiz(ctx, twoQuestionQuiz(a.ID))
		if err != nil {
			t.Fatalf("create quiz: %v", err)
		}
		_, err = s.SaveQuizResult(ctx, quiz.Result{QuizID: qz.ID, SubjectID: b.ID})
		if !errors.Is(err, ErrMissingReference) {
			t.Fatalf("expected ErrMissingReference, got %v", err)
		}

		saved, err := s.SaveQuizResult(ctx, quiz.Result{QuizID: qz.ID})
		if err != nil {
			t.Fatalf("save without subject: %v", err)
		}
		if saved.SubjectID != a.ID {
			t.Fatalf("subject not inferred from quiz: %q", saved.SubjectID)
		}
	})

	t.Run("permissive", func(t *testing.T) {
		s := openTestStore(t, WithReferenceChecks(false))
		if _, err := s.CreateQuiz(ctx, twoQuestionQuiz("ghost")); err != nil {
			t.Fatalf("create quiz: %v", err)
		}
		if _, err := s.SaveQuizResult(ctx, quiz.Result{QuizID: "ghost", SubjectID: "ghost"}); err != nil {
			t.Fatalf("save result: %v", err)
		}
	})
}

func TestSaveQuizResultTimestamps(t *testing.T) {
	fixed := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	s := openTestStore(t, WithClock(func() time.Time { return fixed }))
	ctx := context.Background()

	sub, _ := s.CreateSubject(ctx, "Math", "")
	qz, _ := s.CreateQuiz(ctx, twoQuestionQuiz(sub.ID))

	stamped, err := s.SaveQuizResult(ctx, quiz.Result{QuizID: qz.ID, SubjectID: sub.ID})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if !stamped.CompletedAt.Equal(fixed) {
		t.Fatalf("expected store time %v, got %v", fixed, stamped.CompletedAt)
	}

	local := time.FixedZone("IST", 5*3600+1800)
	supplied := time.Date(2024, 1, 2, 3, 4, 5, 600, local)
	start := supplied.Add(-5 * time.Minute)
	kept, err := s.SaveQuizResult(ctx, quiz.Result{QuizID: qz.ID, SubjectID: sub.ID, StartTime: start, CompletedAt: supplied})
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := s.GetQuizResult(ctx, kept.ID)
	if err != nil || got == nil {
		t.Fatalf("get: %v %v", got, err)
	}
	if !got.CompletedAt.Equal(supplied) {
		t.Fatalf("caller completion time not kept: got %v, want %v", got.CompletedAt, supplied)
	}
	if got.CompletedAt.Location() != time.UTC {
		t.Fatalf("expected UTC, got %v", got.CompletedAt.Location())
	}
	if got.Duration() != 5*time.Minute {
		t.Fatalf("duration = %v", got.Duration())
	}
	if got.AnsweredQuestions == nil {
		t.Fatal("answered questions should decode to an empty slice")
	}
}

func TestResultsSortedNewestFirst(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	sub, _ := s.CreateSubject(ctx, "Math", "")
	other, _ := s.CreateSubject(ctx, "Other", "")
	qz, _ := s.CreateQuiz(ctx, twoQuestionQuiz(sub.ID))
	otherQuiz, _ := s.CreateQuiz(ctx, twoQuestionQuiz(other.ID))

	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	offsets := []time.Duration{
		3 * time.Hour, 10 * time.Millisecond, 48 * time.Hour, 0, 1500 * time.Millisecond, 30 * time.Second,
	}
	for i, off := range offsets {
		_, err := s.SaveQuizResult(ctx, quiz.Result{
			QuizID:         qz.ID,
			SubjectID:      sub.ID,
			Score:          float64(i * 10),
			TotalQuestions: 2,
			CompletedAt:    base.Add(off),
		})
		if err != nil {
			t.Fatalf("save %d: %v", i, err)
		}
	}
	if _, err := s.SaveQuizResult(ctx, quiz.Result{QuizID: otherQuiz.ID, SubjectID: other.ID, CompletedAt: base.Add(100 * time.Hour)}); err != nil {
		t.Fatalf("save other: %v", err)
	}

	results, err := s.ListQuizResultsBySubject(ctx, sub.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(results) != len(offsets) {
		t.Fatalf("expected %d results, got %d", len(offsets), len(results))
	}
	if !sort.SliceIsSorted(results, func(i, j int) bool {
		return results[i].CompletedAt.After(results[j].CompletedAt)
	}) {
		t.Fatalf("results not sorted newest first: %+v", results)
	}
	if !results[0].CompletedAt.Equal(base.Add(48 * time.Hour)) {
		t.Fatalf("unexpected newest result: %v", results[0].CompletedAt)
	}

	byQuiz, err := s.ListQuizResultsByQuiz(ctx, qz.ID)
	if err != nil || len(byQuiz) != len(offsets) {
		t.Fatalf("by quiz: %d, %v", len(byQuiz), err)
	}

	recent, err := s.ListRecentResults(ctx, 2)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(recent) != 2 || recent[0].QuizID != otherQuiz.ID {
		t.Fatalf("unexpected recent results: %+v", recent)
	}

	n, err := s.CountResultsBySubject(ctx, sub.ID)
	if err != nil || n != len(offsets) {
		t.Fatalf("count = %d, %v", n, err)
	}

	none, err := s.ListQuizResultsBySubject(ctx, "nobody")
	if err != nil || none == nil || len(none) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v, %v", none, err)
	}
}

func TestResultSnapshotRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	sub, _ := s.CreateSubject(ctx, "Math", "")
	qz, _ := s.CreateQuiz(ctx, twoQuestionQuiz(sub.ID))

	in := quiz.Result{
		QuizID:         qz.ID,
		SubjectID:      sub.ID,
		Score:          50,
		TotalQuestions: 2,
		CorrectAnswers: 1,
		AnsweredQuestions: []quiz.AnsweredQuestion{
			{Question: "1 + 1?", UserAnswer: "B", UserIsCorrect: true, CorrectAnswer: "B"},
			{Question: "2 + 2?", UserAnswer: quiz.NoAnswer, CorrectAnswer: "D"},
		},
	}
	saved, err := s.SaveQuizResult(ctx, in)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := s.GetQuizResult(ctx, saved.ID)
	if err != nil || got == nil {
		t.Fatalf("get: %v %v", got, err)
	}
	if got.Score != 50 || got.CorrectAnswers != 1 || got.TotalQuestions != 2 {
		t.Fatalf("unexpected result: %+v", got)
	}
	if len(got.AnsweredQuestions) != 2 || got.AnsweredQuestions[1].UserAnswer != quiz.NoAnswer {
		t.Fatalf("snapshot did not round trip: %+v", got.AnsweredQuestions)
	}
	if !got.StartTime.IsZero() {
		t.Fatalf("expected zero start time, got %v", got.StartTime)
	}

	missing, err := s.GetQuizResult(ctx, "nope")
	if err != nil || missing != nil {
		t.Fatalf("expected nil, nil, got %v, %v", missing, err)
	}
}

func TestMetadata(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if _, ok, err := s.GetMeta(ctx, "seed.preloaded"); err != nil || ok {
		t.Fatalf("expected missing key, got ok=%v err=%v", ok, err)
	}
	if err := s.SetMeta(ctx, "seed.preloaded", "1"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := s.SetMeta(ctx, "seed.preloaded", "2"); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	v, ok, err := s.GetMeta(ctx, "seed.preloaded")
	if err != nil || !ok || v != "2" {
		t.Fatalf("GetMeta = %q, %v, %v", v, ok, err)
	}
}

func TestStorageErrorAfterClose(t *testing.T) {
	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "closed.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	s.Close()

	_, err = s.CreateSubject(context.Background(), "Math", "")
	var serr *StorageError
	if !errors.As(err, &serr) {
		t.Fatalf("expected StorageError, got %v", err)
	}
	if serr.Op != "create subject" {
		t.Fatalf("unexpected op %q", serr.Op)
	}
}

func TestTablesMatchEntSchema(t *testing.T) {
	tests := []struct {
		schema     interface{ Fields() []ent.Field }
		table      string
		implicitID bool
	}{
		{entschema.Subject{}, subjectsTable, false},
		{entschema.Quiz{}, quizzesTable, false},
		{entschema.QuizResult{}, resultsTable, false},
		{entschema.Metadata{}, metadataTable, false},
		{entschema.LLMRequestEvent{}, llmEventsTable, true},
	}

	tables := map[string][]string{}
	for _, tbl := range Tables {
		for _, c := range tbl.Columns {
			tables[tbl.Name] = append(tables[tbl.Name], c.Name)
		}
	}

	for _, tt := range tests {
		t.Run(tt.table, func(t *testing.T) {
			var want []string
			if tt.implicitID {
				want = append(want, "id")
			}
			for _, f := range tt.schema.Fields() {
				d := f.Descriptor()
				name := d.Name
				if d.StorageKey != "" {
					name = d.StorageKey
				}
				want = append(want, name)
			}
			got := tables[tt.table]
			sort.Strings(want)
			sort.Strings(got)
			if len(got) != len(want) {
				t.Fatalf("columns = %v, want %v", got, want)
			}
			for i := range want {
				if got[i] != want[i] {
					t.Fatalf("columns = %v, want %v", got, want)
				}
			}
		})
	}
}

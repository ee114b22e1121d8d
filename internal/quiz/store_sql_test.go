package quiz_test

import (
	"context"
	"testing"
	"time"

	"github.com/comrade-prep/comrade-backend/internal/db"
	"github.com/comrade-prep/comrade-backend/internal/quiz"
)

func openTestDB(t *testing.T) *quiz.SQLStore {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	dbh, err := db.Open(ctx, db.DriverSQLite, "file:"+t.Name()+"?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { dbh.Close() })
	return quiz.NewSQLStore(dbh)
}

func seedSQL(t *testing.T, store *quiz.SQLStore) quiz.Quiz {
	t.Helper()
	ctx := context.Background()
	idx := 0
	tru := true
	questions := []quiz.Question{
		{ID: "q1", Text: "Highest military decoration in India?", Type: quiz.TypeMultipleChoice,
			Difficulty: quiz.DifficultyMedium, Points: 2,
			Options: []string{"Param Vir Chakra", "Maha Vir Chakra"},
			Key:     quiz.AnswerKey{CorrectIndex: &idx}, CreatedAt: time.Now()},
		{ID: "q2", Text: "The Indian Army was established in 1947.", Type: quiz.TypeTrueFalse,
			Difficulty: quiz.DifficultyEasy, Points: 1,
			Key: quiz.AnswerKey{CorrectBool: &tru}, CreatedAt: time.Now()},
	}
	for _, q := range questions {
		if err := store.PutQuestion(ctx, q); err != nil {
			t.Fatalf("put question %s: %v", q.ID, err)
		}
	}
	qz := quiz.Quiz{
		ID: "quiz-1", Title: "Daily Defense Knowledge Quiz", PassingScore: 70,
		IsDaily: true, IsActive: true, QuestionIDs: []string{"q1", "q2"},
		CreatedBy: "system", CreatedAt: time.Now(),
	}
	if err := store.PutQuiz(ctx, qz); err != nil {
		t.Fatalf("put quiz: %v", err)
	}
	return qz
}

func TestSQLStoreQuestionRoundTrip(t *testing.T) {
	store := openTestDB(t)
	seedSQL(t, store)
	ctx := context.Background()

	q, err := store.GetQuestion(ctx, "q1")
	if err != nil {
		t.Fatalf("get question: %v", err)
	}
	if q.Type != quiz.TypeMultipleChoice || q.Points != 2 {
		t.Fatalf("question fields lost: %+v", q)
	}
	if q.Key.CorrectIndex == nil || *q.Key.CorrectIndex != 0 {
		t.Fatalf("answer key lost: %+v", q.Key)
	}
	if len(q.Options) != 2 {
		t.Fatalf("options lost: %+v", q.Options)
	}

	if _, err := store.GetQuestion(ctx, "nope"); err != quiz.ErrQuestionNotFound {
		t.Fatalf("expected ErrQuestionNotFound, got %v", err)
	}
}

func TestSQLStoreGetQuestionsDropsStaleIDs(t *testing.T) {
	store := openTestDB(t)
	seedSQL(t, store)

	got, err := store.GetQuestions(context.Background(), []string{"q1", "gone", "q2"})
	if err != nil {
		t.Fatalf("get questions: %v", err)
	}
	if len(got) != 2 || got[0].ID != "q1" || got[1].ID != "q2" {
		t.Fatalf("expected [q1 q2] in order, got %+v", got)
	}
}

func TestSQLStoreDailyQuizList(t *testing.T) {
	store := openTestDB(t)
	qz := seedSQL(t, store)
	ctx := context.Background()

	daily, err := store.ListDailyQuizzes(ctx)
	if err != nil {
		t.Fatalf("list daily: %v", err)
	}
	if len(daily) != 1 || daily[0].ID != qz.ID {
		t.Fatalf("expected [quiz-1], got %+v", daily)
	}

	qz.IsActive = false
	if err := store.PutQuiz(ctx, qz); err != nil {
		t.Fatalf("put quiz: %v", err)
	}
	daily, err = store.ListDailyQuizzes(ctx)
	if err != nil {
		t.Fatalf("list daily: %v", err)
	}
	if len(daily) != 0 {
		t.Fatalf("inactive quiz still listed: %+v", daily)
	}
}

func TestSQLLedgerOneAttemptPerDay(t *testing.T) {
	store := openTestDB(t)
	qz := seedSQL(t, store)
	ctx := context.Background()

	rec := quiz.AttemptRecord{
		ID: "r1", UserID: "u1", QuizID: qz.ID, Day: "2024-05-01",
		Score: 66, PointsEarned: 2, TotalPoints: 3, QuizTotalPoints: 3,
		Passed: false, SubmittedAt: time.Now(), Answers: []quiz.AnswerBreakdown{},
	}
	if err := store.RecordAttempt(ctx, rec); err != nil {
		t.Fatalf("record: %v", err)
	}

	dup := rec
	dup.ID = "r2"
	dup.Score = 100
	if err := store.RecordAttempt(ctx, dup); err != quiz.ErrAttemptExists {
		t.Fatalf("expected ErrAttemptExists, got %v", err)
	}

	got, err := store.GetAttempt(ctx, "u1", qz.ID, "2024-05-01")
	if err != nil {
		t.Fatalf("get attempt: %v", err)
	}
	if got.ID != "r1" || got.Score != 66 {
		t.Fatalf("winning record overwritten: %+v", got)
	}

	// Next day is a fresh key.
	next := rec
	next.ID = "r3"
	next.Day = "2024-05-02"
	if err := store.RecordAttempt(ctx, next); err != nil {
		t.Fatalf("next-day record: %v", err)
	}

	has, err := store.HasAttempted(ctx, "u1", qz.ID, "2024-05-01")
	if err != nil || !has {
		t.Fatalf("has attempted: %v %v", has, err)
	}
	has, err = store.HasAttempted(ctx, "u2", qz.ID, "2024-05-01")
	if err != nil || has {
		t.Fatalf("attempt leaked across users: %v %v", has, err)
	}
}

func TestSQLLedgerHistoryOrderAndLimit(t *testing.T) {
	store := openTestDB(t)
	qz := seedSQL(t, store)
	ctx := context.Background()

	base := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		rec := quiz.AttemptRecord{
			ID: "r" + string(rune('a'+i)), UserID: "u1", QuizID: qz.ID,
			Day:   base.AddDate(0, 0, i).Format("2006-01-02"),
			Score: 50, SubmittedAt: base.AddDate(0, 0, i), Answers: []quiz.AnswerBreakdown{},
		}
		if err := store.RecordAttempt(ctx, rec); err != nil {
			t.Fatalf("record %d: %v", i, err)
		}
	}

	hist, err := store.ListAttempts(ctx, "u1", 2)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(hist) != 2 {
		t.Fatalf("limit: got %d", len(hist))
	}
	if !hist[0].SubmittedAt.After(hist[1].SubmittedAt) {
		t.Fatalf("not newest-first: %v then %v", hist[0].SubmittedAt, hist[1].SubmittedAt)
	}
}

package quiz

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/comrade-prep/comrade-backend/internal/grading"
)

// Service wires the content store, attempt ledger and grader together. It is
// request-scoped and stateless; the ledger is the only shared mutable
// resource behind it.
type Service struct {
	content ContentStore
	ledger  AttemptLedger
	grader  grading.Grader
	loc     *time.Location
	now     func() time.Time
}

func NewService(content ContentStore, ledger AttemptLedger, grader grading.Grader, loc *time.Location) *Service {
	if loc == nil {
		loc = time.UTC
	}
	return &Service{
		content: content,
		ledger:  ledger,
		grader:  grader,
		loc:     loc,
		now:     time.Now,
	}
}

// WithClock overrides the service clock. Test hook.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Now reads the service clock.
func (s *Service) Now() time.Time { return s.now() }

// DayKey renders t as the calendar day in the service's configured zone.
// This is the attempt-gating boundary; it must be used for every ledger key.
func (s *Service) DayKey(t time.Time) string {
	return t.In(s.loc).Format("2006-01-02")
}

func (s *Service) Location() *time.Location { return s.loc }

// GetQuiz returns a quiz and its resolved questions. Inactive quizzes are not
// served to takers.
func (s *Service) GetQuiz(ctx context.Context, id string) (Quiz, []Question, error) {
	qz, err := s.content.GetQuiz(ctx, id)
	if err != nil {
		return Quiz{}, nil, err
	}
	if !qz.IsActive {
		return Quiz{}, nil, ErrQuizInactive
	}
	questions, err := s.content.GetQuestions(ctx, qz.QuestionIDs)
	if err != nil {
		return Quiz{}, nil, err
	}
	return qz, questions, nil
}

// SelectDailyQuiz resolves the quiz active for a date. When several quizzes
// are flagged daily, the lowest id wins so the choice is deterministic.
// ok is false when no daily quiz is configured.
func (s *Service) SelectDailyQuiz(ctx context.Context) (Quiz, bool, error) {
	daily, err := s.content.ListDailyQuizzes(ctx)
	if err != nil {
		return Quiz{}, false, err
	}
	if len(daily) == 0 {
		return Quiz{}, false, nil
	}
	best := daily[0]
	for _, qz := range daily[1:] {
		if qz.ID < best.ID {
			best = qz
		}
	}
	return best, true, nil
}

// DailyStatus is the per-user view of the daily quiz for one date.
type DailyStatus struct {
	Date         time.Time
	Quiz         *Quiz
	Questions    []Question
	HasAttempted bool
	Result       *AttemptRecord
}

// Daily resolves the daily quiz for date and the caller's attempt status on
// that calendar day.
func (s *Service) Daily(ctx context.Context, userID string, date time.Time) (DailyStatus, error) {
	day := s.DayKey(date)
	st := DailyStatus{Date: date.In(s.loc)}

	qz, ok, err := s.SelectDailyQuiz(ctx)
	if err != nil || !ok {
		return st, err
	}
	questions, err := s.content.GetQuestions(ctx, qz.QuestionIDs)
	if err != nil {
		return st, err
	}
	st.Quiz = &qz
	st.Questions = questions

	attempted, err := s.ledger.HasAttempted(ctx, userID, qz.ID, day)
	if err != nil {
		return st, err
	}
	st.HasAttempted = attempted
	if attempted {
		rec, err := s.ledger.GetAttempt(ctx, userID, qz.ID, day)
		if err != nil {
			return st, err
		}
		st.Result = &rec
	}
	return st, nil
}

// Submit scores a submission and records it for today's calendar day.
// If an attempt already exists for (user, quiz, today) the stored record is
// returned with alreadyAttempted=true and nothing is re-scored; a concurrent
// duplicate write resolves the same way by re-reading the winning record.
func (s *Service) Submit(ctx context.Context, userID, quizID string, sub Submission) (rec AttemptRecord, alreadyAttempted bool, err error) {
	qz, err := s.content.GetQuiz(ctx, quizID)
	if err != nil {
		return AttemptRecord{}, false, err
	}
	if !qz.IsActive {
		return AttemptRecord{}, false, ErrQuizInactive
	}

	now := s.now()
	day := s.DayKey(now)

	if attempted, err := s.ledger.HasAttempted(ctx, userID, quizID, day); err != nil {
		return AttemptRecord{}, false, err
	} else if attempted {
		existing, err := s.ledger.GetAttempt(ctx, userID, quizID, day)
		if err != nil {
			return AttemptRecord{}, false, err
		}
		return existing, true, nil
	}

	questions, err := s.content.GetQuestions(ctx, qz.QuestionIDs)
	if err != nil {
		return AttemptRecord{}, false, err
	}
	bank := make(map[string]Question, len(questions))
	for _, q := range questions {
		bank[q.ID] = q
	}

	res := ScoreSubmission(ctx, s.grader, qz, bank, sub)
	rec = AttemptRecord{
		ID:              uuid.NewString(),
		UserID:          userID,
		QuizID:          quizID,
		Day:             day,
		Score:           res.Score,
		PointsEarned:    res.PointsEarned,
		TotalPoints:     res.TotalPoints,
		QuizTotalPoints: res.QuizTotalPoints,
		Passed:          res.Passed,
		TimeTakenSec:    sub.TimeTakenSec,
		SubmittedAt:     now,
		Answers:         res.Answers,
	}

	if err := s.ledger.RecordAttempt(ctx, rec); err != nil {
		if errors.Is(err, ErrAttemptExists) {
			// Lost the write race: the computed result is discarded and the
			// winning record is served instead.
			existing, gerr := s.ledger.GetAttempt(ctx, userID, quizID, day)
			if gerr != nil {
				return AttemptRecord{}, false, gerr
			}
			return existing, true, nil
		}
		return AttemptRecord{}, false, err
	}
	return rec, false, nil
}

// History returns the caller's attempts, newest first.
func (s *Service) History(ctx context.Context, userID string, limit int) ([]AttemptRecord, error) {
	return s.ledger.ListAttempts(ctx, userID, limit)
}

// ResultContext resolves the quiz and questions backing a stored attempt, for
// post-attempt review rendering.
func (s *Service) ResultContext(ctx context.Context, rec AttemptRecord) (Quiz, []Question, error) {
	qz, err := s.content.GetQuiz(ctx, rec.QuizID)
	if err != nil {
		return Quiz{}, nil, err
	}
	questions, err := s.content.GetQuestions(ctx, qz.QuestionIDs)
	if err != nil {
		return Quiz{}, nil, err
	}
	return qz, questions, nil
}

// Questions resolves question ids, dropping stale references.
func (s *Service) Questions(ctx context.Context, ids []string) ([]Question, error) {
	return s.content.GetQuestions(ctx, ids)
}

// CreateQuestion validates and stores an authored question.
func (s *Service) CreateQuestion(ctx context.Context, q Question) (Question, error) {
	if q.ID == "" {
		q.ID = uuid.NewString()
	}
	if q.Difficulty == "" {
		q.Difficulty = DifficultyMedium
	}
	if q.CreatedAt.IsZero() {
		q.CreatedAt = s.now()
	}
	if err := q.Validate(); err != nil {
		return Question{}, err
	}
	return q, s.content.PutQuestion(ctx, q)
}

// CreateQuiz validates question references and stores an authored quiz.
func (s *Service) CreateQuiz(ctx context.Context, qz Quiz) (Quiz, error) {
	if qz.ID == "" {
		qz.ID = uuid.NewString()
	}
	if qz.CreatedAt.IsZero() {
		qz.CreatedAt = s.now()
	}
	for _, id := range qz.QuestionIDs {
		if _, err := s.content.GetQuestion(ctx, id); err != nil {
			return Quiz{}, err
		}
	}
	return qz, s.content.PutQuiz(ctx, qz)
}

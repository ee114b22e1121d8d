package quiz

import "context"

// ContentStore owns quizzes and questions. The scoring core only reads from
// it; authoring endpoints are the sole writers.
type ContentStore interface {
	PutQuestion(ctx context.Context, q Question) error
	GetQuestion(ctx context.Context, id string) (Question, error)
	// GetQuestions resolves ids in order. Ids that no longer exist are
	// dropped rather than failing the whole quiz.
	GetQuestions(ctx context.Context, ids []string) ([]Question, error)

	PutQuiz(ctx context.Context, qz Quiz) error
	GetQuiz(ctx context.Context, id string) (Quiz, error)
	// ListDailyQuizzes returns quizzes flagged daily AND active, ordered by id
	// ascending so daily selection stays deterministic.
	ListDailyQuizzes(ctx context.Context) ([]Quiz, error)
}

// AttemptLedger enforces the one-attempt-per-(user, quiz, day) guarantee.
// RecordAttempt must be atomic per key across processes; implementations back
// it with a unique constraint, not in-process locking.
type AttemptLedger interface {
	HasAttempted(ctx context.Context, userID, quizID, day string) (bool, error)
	RecordAttempt(ctx context.Context, rec AttemptRecord) error
	GetAttempt(ctx context.Context, userID, quizID, day string) (AttemptRecord, error)
	ListAttempts(ctx context.Context, userID string, limit int) ([]AttemptRecord, error)
}

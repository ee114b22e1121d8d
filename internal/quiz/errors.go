package quiz

import "errors"

var (
	// ErrQuizNotFound indicates the quiz id does not exist in the content store.
	ErrQuizNotFound = errors.New("quiz not found")
	// ErrQuizInactive is returned when a quiz exists but is not open for viewing or submission.
	ErrQuizInactive = errors.New("quiz is not active")
	// ErrQuestionNotFound indicates a question id referenced by a quiz is missing.
	ErrQuestionNotFound = errors.New("question not found")
	// ErrAttemptExists is returned by RecordAttempt when the (user, quiz, day)
	// key is already taken. Callers resolve it by re-reading the stored record.
	ErrAttemptExists = errors.New("attempt already recorded for this day")
	// ErrAttemptNotFound indicates no attempt is stored under the given key.
	ErrAttemptNotFound = errors.New("attempt not found")
)

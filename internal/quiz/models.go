package quiz

import (
	"encoding/json"
	"fmt"
	"time"
)

type QuestionType string

const (
	TypeMultipleChoice QuestionType = "multiple_choice"
	TypeTrueFalse      QuestionType = "true_false"
	TypeFillInBlank    QuestionType = "fill_in_blank"
)

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// AnswerKey holds the kind-specific correct-answer data for a question.
// Exactly the fields for the question's type are set; Validate enforces the
// shape. Keys are never serialized in listing views (see project.go).
type AnswerKey struct {
	CorrectIndex *int     `json:"correct_answer_index,omitempty"` // multiple_choice
	CorrectBool  *bool    `json:"correct_answer,omitempty"`       // true_false
	Accepted     []string `json:"correct_answers,omitempty"`      // fill_in_blank
}

type Question struct {
	ID          string       `json:"id"`
	Text        string       `json:"question_text"`
	Type        QuestionType `json:"question_type"`
	Difficulty  Difficulty   `json:"difficulty"`
	Explanation string       `json:"explanation,omitempty"`
	Tags        []string     `json:"tags"`
	Points      int          `json:"points"`
	Options     []string     `json:"options,omitempty"` // multiple_choice only
	Key         AnswerKey    `json:"-"`
	CreatedAt   time.Time    `json:"created_at"`
}

// Validate checks that the answer key shape matches the question type.
func (q Question) Validate() error {
	if q.Points < 1 {
		return fmt.Errorf("question %s: points must be >= 1", q.ID)
	}
	switch q.Type {
	case TypeMultipleChoice:
		if len(q.Options) < 2 || len(q.Options) > 6 {
			return fmt.Errorf("question %s: multiple_choice needs 2-6 options", q.ID)
		}
		if q.Key.CorrectIndex == nil {
			return fmt.Errorf("question %s: missing correct_answer_index", q.ID)
		}
		if *q.Key.CorrectIndex < 0 || *q.Key.CorrectIndex >= len(q.Options) {
			return fmt.Errorf("question %s: correct_answer_index out of range", q.ID)
		}
	case TypeTrueFalse:
		if q.Key.CorrectBool == nil {
			return fmt.Errorf("question %s: missing correct_answer", q.ID)
		}
	case TypeFillInBlank:
		if len(q.Key.Accepted) == 0 {
			return fmt.Errorf("question %s: missing correct_answers", q.ID)
		}
	default:
		return fmt.Errorf("question %s: unknown type %q", q.ID, q.Type)
	}
	return nil
}

type Quiz struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description,omitempty"`
	TimeLimitMin *int      `json:"time_limit,omitempty"` // minutes
	PassingScore int       `json:"passing_score"`        // percentage threshold 0-100
	IsDaily      bool      `json:"is_daily"`
	IsActive     bool      `json:"is_active"`
	Tags         []string  `json:"tags"`
	QuestionIDs  []string  `json:"question_ids"`
	CreatedBy    string    `json:"created_by"`
	CreatedAt    time.Time `json:"created_at"`
}

// TotalPoints sums the points of the quiz's resolved questions. It is
// computed, never stored, so it cannot drift from the question set.
func TotalPoints(questions []Question) int {
	total := 0
	for _, q := range questions {
		total += q.Points
	}
	return total
}

// RawAnswer is one submitted answer before kind validation. The value is an
// int (multiple_choice), bool (true_false) or string (fill_in_blank).
type RawAnswer struct {
	QuestionID string          `json:"question_id"`
	Value      json.RawMessage `json:"answer"`
}

// Submission is the transient input to scoring; it is never stored as-is.
type Submission struct {
	Answers      []RawAnswer `json:"answers"`
	TimeTakenSec *int        `json:"time_taken,omitempty"` // seconds
}

// DecodeAnswer validates a raw value against the question's type. A value of
// the wrong JSON shape is rejected here, before it reaches the grader.
func DecodeAnswer(q Question, raw json.RawMessage) (Answer, error) {
	a := Answer{QuestionID: q.ID, Kind: q.Type}
	switch q.Type {
	case TypeMultipleChoice:
		if err := json.Unmarshal(raw, &a.Choice); err != nil {
			return Answer{}, fmt.Errorf("question %s expects an option index: %w", q.ID, err)
		}
	case TypeTrueFalse:
		if err := json.Unmarshal(raw, &a.Bool); err != nil {
			return Answer{}, fmt.Errorf("question %s expects a boolean: %w", q.ID, err)
		}
	case TypeFillInBlank:
		if err := json.Unmarshal(raw, &a.Text); err != nil {
			return Answer{}, fmt.Errorf("question %s expects text: %w", q.ID, err)
		}
	default:
		return Answer{}, fmt.Errorf("question %s: unknown type %q", q.ID, q.Type)
	}
	return a, nil
}

// Answer is a kind-tagged submitted value; only the field matching Kind is set.
type Answer struct {
	QuestionID string
	Kind       QuestionType
	Choice     int
	Bool       bool
	Text       string
}

// AnswerBreakdown is the per-question line of a stored attempt.
type AnswerBreakdown struct {
	QuestionID   string          `json:"question_id"`
	UserAnswer   json.RawMessage `json:"user_answer"`
	IsCorrect    bool            `json:"is_correct"`
	PointsEarned int             `json:"points_earned"`
}

// AttemptRecord is the append-only ledger entry for one scored submission,
// keyed by (UserID, QuizID, Day). Never mutated after RecordAttempt.
type AttemptRecord struct {
	ID              string            `json:"id"`
	UserID          string            `json:"user_id"`
	QuizID          string            `json:"quiz_id"`
	Day             string            `json:"attempt_day"` // YYYY-MM-DD in the configured zone
	Score           int               `json:"score"`       // percentage, floored
	PointsEarned    int               `json:"points_earned"`
	TotalPoints     int               `json:"total_points"`      // answered-subset denominator
	QuizTotalPoints int               `json:"quiz_total_points"` // full quiz, for context
	Passed          bool              `json:"passed"`
	TimeTakenSec    *int              `json:"time_taken,omitempty"`
	SubmittedAt     time.Time         `json:"submitted_at"`
	Answers         []AnswerBreakdown `json:"answers"`
}

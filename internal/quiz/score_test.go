package quiz

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/comrade-prep/comrade-backend/internal/grading"
)

func intp(v int) *int    { return &v }
func boolp(v bool) *bool { return &v }

// Four questions worth 2,1,2,3 points, mirroring a typical daily quiz.
func testBank() map[string]Question {
	return map[string]Question{
		"q1": {ID: "q1", Text: "Highest military decoration in India?", Type: TypeMultipleChoice, Points: 2,
			Options: []string{"Param Vir Chakra", "Maha Vir Chakra", "Vir Chakra", "Ashoka Chakra"},
			Key:     AnswerKey{CorrectIndex: intp(0)}},
		"q2": {ID: "q2", Text: "The Indian Army was established in 1947.", Type: TypeTrueFalse, Points: 1,
			Key: AnswerKey{CorrectBool: boolp(true)}},
		"q3": {ID: "q3", Text: "What does LAC stand for?", Type: TypeFillInBlank, Points: 2,
			Key: AnswerKey{Accepted: []string{"Line of Actual Control"}}},
		"q4": {ID: "q4", Text: "Operation launched after the Uri attack?", Type: TypeMultipleChoice, Points: 3,
			Options: []string{"Operation Surgical Strike", "Operation Vijay", "Operation Parakram", "Operation All Out"},
			Key:     AnswerKey{CorrectIndex: intp(0)}},
	}
}

func raw(t *testing.T, v any) json.RawMessage {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return b
}

func TestScoreSubmissionFullQuiz(t *testing.T) {
	qz := Quiz{ID: "quiz-1", PassingScore: 70}
	sub := Submission{Answers: []RawAnswer{
		{QuestionID: "q1", Value: raw(t, 0)},
		{QuestionID: "q2", Value: raw(t, true)},
		{QuestionID: "q3", Value: raw(t, "line of actual control")},
		{QuestionID: "q4", Value: raw(t, 1)}, // wrong
	}}

	res := ScoreSubmission(context.Background(), grading.NewDefaultGrader(), qz, testBank(), sub)
	if res.TotalPoints != 8 || res.QuizTotalPoints != 8 {
		t.Fatalf("totals: got %d/%d, want 8/8", res.TotalPoints, res.QuizTotalPoints)
	}
	if res.PointsEarned != 5 {
		t.Fatalf("points earned: got %d, want 5", res.PointsEarned)
	}
	if res.Score != 62 { // floor(5/8*100)
		t.Fatalf("score: got %d, want 62", res.Score)
	}
	if res.Passed {
		t.Fatalf("62%% should not pass a 70%% threshold")
	}
	if len(res.Answers) != 4 {
		t.Fatalf("breakdown: got %d entries, want 4", len(res.Answers))
	}
}

// Partial submissions are scored against the answered subset, not the full
// quiz total: answering only the 2- and 1-point questions correctly is 100%.
func TestScoreSubmissionPartialSubsetDenominator(t *testing.T) {
	qz := Quiz{ID: "quiz-1", PassingScore: 70}
	sub := Submission{Answers: []RawAnswer{
		{QuestionID: "q1", Value: raw(t, 0)},
		{QuestionID: "q2", Value: raw(t, true)},
	}}

	res := ScoreSubmission(context.Background(), grading.NewDefaultGrader(), qz, testBank(), sub)
	if res.PointsEarned != 3 || res.TotalPoints != 3 {
		t.Fatalf("got %d/%d, want 3/3", res.PointsEarned, res.TotalPoints)
	}
	if res.Score != 100 {
		t.Fatalf("score: got %d, want 100", res.Score)
	}
	if !res.Passed {
		t.Fatalf("expected pass")
	}
	if res.QuizTotalPoints != 8 {
		t.Fatalf("quiz total should still report 8, got %d", res.QuizTotalPoints)
	}
}

func TestScoreSubmissionSkipsUnknownAndMismatched(t *testing.T) {
	qz := Quiz{ID: "quiz-1", PassingScore: 60}
	// A stale id and a wrong-shape value for q2 are both skipped; only q3
	// reaches the grader.
	sub := Submission{Answers: []RawAnswer{
		{QuestionID: "missing", Value: raw(t, 0)},
		{QuestionID: "q2", Value: raw(t, "yes")},
		{QuestionID: "q3", Value: raw(t, "  Line of Actual Control ")},
	}}

	res := ScoreSubmission(context.Background(), grading.NewDefaultGrader(), qz, testBank(), sub)
	if res.TotalPoints != 2 {
		t.Fatalf("only q3 should count: total=%d", res.TotalPoints)
	}
	if res.PointsEarned != 2 || res.Score != 100 {
		t.Fatalf("got %d points, score %d", res.PointsEarned, res.Score)
	}
	if len(res.Answers) != 1 {
		t.Fatalf("breakdown should hold 1 entry, got %d", len(res.Answers))
	}
}

func TestScoreSubmissionDuplicateAnswersCountOnce(t *testing.T) {
	qz := Quiz{ID: "quiz-1", PassingScore: 60}
	sub := Submission{Answers: []RawAnswer{
		{QuestionID: "q2", Value: raw(t, true)},
		{QuestionID: "q2", Value: raw(t, true)},
	}}

	res := ScoreSubmission(context.Background(), grading.NewDefaultGrader(), qz, testBank(), sub)
	if res.TotalPoints != 1 || res.PointsEarned != 1 {
		t.Fatalf("duplicate answer double-counted: %d/%d", res.PointsEarned, res.TotalPoints)
	}
}

func TestScoreSubmissionEmpty(t *testing.T) {
	qz := Quiz{ID: "quiz-1", PassingScore: 0}
	res := ScoreSubmission(context.Background(), grading.NewDefaultGrader(), qz, testBank(), Submission{})
	if res.Score != 0 || res.TotalPoints != 0 {
		t.Fatalf("empty submission: score=%d total=%d", res.Score, res.TotalPoints)
	}
	// passing_score 0 means an empty submission still "passes"; the threshold
	// comparison is the only pass/fail rule.
	if !res.Passed {
		t.Fatalf("0 >= 0 should pass")
	}
}

func TestScoreBoundsProperty(t *testing.T) {
	qz := Quiz{ID: "quiz-1", PassingScore: 50}
	bank := testBank()
	subs := []Submission{
		{Answers: []RawAnswer{{QuestionID: "q1", Value: raw(t, 3)}}},
		{Answers: []RawAnswer{{QuestionID: "q1", Value: raw(t, 0)}, {QuestionID: "q4", Value: raw(t, 0)}}},
		{Answers: []RawAnswer{{QuestionID: "q3", Value: raw(t, "LAC")}}},
	}
	for i, sub := range subs {
		res := ScoreSubmission(context.Background(), grading.NewDefaultGrader(), qz, bank, sub)
		if res.Score < 0 || res.Score > 100 {
			t.Fatalf("sub %d: score %d out of [0,100]", i, res.Score)
		}
		if res.Passed != (res.Score >= qz.PassingScore) {
			t.Fatalf("sub %d: passed flag inconsistent with threshold", i)
		}
	}
}

package quiz

import (
	"context"

	"github.com/comrade-prep/comrade-backend/internal/grading"
)

// ScoreResult is the outcome of scoring one submission. TotalPoints counts
// only the questions that were found and answered, so a partial submission is
// scored against what was actually attempted; QuizTotalPoints carries the full
// quiz total for context.
type ScoreResult struct {
	Score           int // percentage, floored
	PointsEarned    int
	TotalPoints     int
	QuizTotalPoints int
	Passed          bool
	Answers         []AnswerBreakdown
}

// ScoreSubmission computes a submission's result. Pure: no side effects,
// persistence is the ledger's job.
//
// Answers referencing an unknown question, duplicating an already-scored
// question, or carrying a value of the wrong JSON shape are skipped and
// excluded from both sides of the percentage.
func ScoreSubmission(ctx context.Context, grader grading.Grader, qz Quiz, bank map[string]Question, sub Submission) ScoreResult {
	res := ScoreResult{Answers: []AnswerBreakdown{}}

	quizTotal := 0
	for _, q := range bank {
		quizTotal += q.Points
	}
	res.QuizTotalPoints = quizTotal

	seen := make(map[string]bool, len(sub.Answers))
	for _, raw := range sub.Answers {
		q, ok := bank[raw.QuestionID]
		if !ok || seen[raw.QuestionID] {
			continue
		}
		ans, err := DecodeAnswer(q, raw.Value)
		if err != nil {
			continue
		}
		seen[raw.QuestionID] = true

		gres, err := grader.Grade(ctx, gradingView(q), gradingResponse(ans))
		if err != nil {
			continue
		}
		res.TotalPoints += q.Points
		res.PointsEarned += gres.Awarded
		res.Answers = append(res.Answers, AnswerBreakdown{
			QuestionID:   raw.QuestionID,
			UserAnswer:   raw.Value,
			IsCorrect:    gres.Correct,
			PointsEarned: gres.Awarded,
		})
	}

	if res.TotalPoints > 0 {
		res.Score = res.PointsEarned * 100 / res.TotalPoints
	}
	res.Passed = res.Score >= qz.PassingScore
	return res
}

func gradingView(q Question) grading.Q {
	g := grading.Q{Kind: string(q.Type), Points: q.Points}
	switch q.Type {
	case TypeMultipleChoice:
		if q.Key.CorrectIndex != nil {
			g.CorrectIndex = *q.Key.CorrectIndex
		}
	case TypeTrueFalse:
		if q.Key.CorrectBool != nil {
			g.CorrectBool = *q.Key.CorrectBool
		}
	case TypeFillInBlank:
		g.Accepted = q.Key.Accepted
	}
	return g
}

func gradingResponse(a Answer) grading.Response {
	return grading.Response{
		Kind:   string(a.Kind),
		Choice: a.Choice,
		Bool:   a.Bool,
		Text:   a.Text,
	}
}

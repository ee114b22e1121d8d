package grading

import (
	"context"
	"errors"
)

// Question kinds known to the grader.
const (
	KindMultipleChoice = "multiple_choice"
	KindTrueFalse      = "true_false"
	KindFillInBlank    = "fill_in_blank"
)

// Q is a minimal view of a question needed for grading.
// Keep this in sync with whatever fields your store uses.
type Q struct {
	Kind   string
	Points int

	// Kind-specific answer key.
	CorrectIndex int      // multiple_choice
	CorrectBool  bool     // true_false
	Accepted     []string // fill_in_blank
}

// Response is a submitted answer already validated against the question's
// kind at the API boundary. Exactly one payload field is meaningful.
type Response struct {
	Kind   string
	Choice int
	Bool   bool
	Text   string
}

// Result is the outcome of grading a single question response.
type Result struct {
	Correct   bool
	Awarded   int // points awarded (q.Points or 0)
	MaxPoints int
}

// Strategy grades a single question.
type Strategy interface {
	Grade(ctx context.Context, q Q, resp Response) (Result, error)
}

// Grader routes by question kind to the correct Strategy.
type Grader interface {
	Grade(ctx context.Context, q Q, resp Response) (Result, error)
}

var ErrKindMismatch = errors.New("response kind does not match question kind")

type defaultGrader struct {
	strategies map[string]Strategy
}

func (g *defaultGrader) Grade(ctx context.Context, q Q, resp Response) (Result, error) {
	if resp.Kind != q.Kind {
		return Result{MaxPoints: q.Points}, ErrKindMismatch
	}
	s, ok := g.strategies[q.Kind]
	if !ok {
		return Result{MaxPoints: q.Points}, errors.New("no strategy for kind " + q.Kind)
	}
	return s.Grade(ctx, q, resp)
}

// NewDefaultGrader installs built-in strategies.
func NewDefaultGrader() Grader {
	return &defaultGrader{
		strategies: map[string]Strategy{
			KindMultipleChoice: multipleChoiceStrategy{},
			KindTrueFalse:      trueFalseStrategy{},
			KindFillInBlank:    fillInBlankStrategy{},
		},
	}
}

// --- Strategies ---

type multipleChoiceStrategy struct{}

func (multipleChoiceStrategy) Grade(_ context.Context, q Q, resp Response) (Result, error) {
	res := Result{MaxPoints: q.Points}
	if resp.Choice == q.CorrectIndex {
		res.Correct = true
		res.Awarded = q.Points
	}
	return res, nil
}

type trueFalseStrategy struct{}

func (trueFalseStrategy) Grade(_ context.Context, q Q, resp Response) (Result, error) {
	res := Result{MaxPoints: q.Points}
	if resp.Bool == q.CorrectBool {
		res.Correct = true
		res.Awarded = q.Points
	}
	return res, nil
}

type fillInBlankStrategy struct{}

func (fillInBlankStrategy) Grade(_ context.Context, q Q, resp Response) (Result, error) {
	res := Result{MaxPoints: q.Points}
	got := Fold(resp.Text)
	for _, accepted := range q.Accepted {
		if Fold(accepted) == got {
			res.Correct = true
			res.Awarded = q.Points
			return res, nil
		}
	}
	return res, nil
}

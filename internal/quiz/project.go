package quiz

import "time"

// ViewerContext describes who is looking at a payload. RevealAnswers is only
// true when rendering a result the viewer already attempted.
type ViewerContext struct {
	UserID        string
	RevealAnswers bool
}

// QuestionView is the outward shape of a question. Answer-key fields are only
// populated when the viewer is entitled to see them; ProjectQuestion is the
// single checkpoint for that decision and no other code path serializes a
// Question.
type QuestionView struct {
	ID         string       `json:"id"`
	Text       string       `json:"question_text"`
	Type       QuestionType `json:"question_type"`
	Difficulty Difficulty   `json:"difficulty"`
	Tags       []string     `json:"tags"`
	Points     int          `json:"points"`
	Options    []string     `json:"options,omitempty"`

	// Post-attempt review only.
	Explanation  string   `json:"explanation,omitempty"`
	CorrectIndex *int     `json:"correct_answer_index,omitempty"`
	CorrectBool  *bool    `json:"correct_answer,omitempty"`
	Accepted     []string `json:"correct_answers,omitempty"`
}

func ProjectQuestion(q Question, v ViewerContext) QuestionView {
	view := QuestionView{
		ID:         q.ID,
		Text:       q.Text,
		Type:       q.Type,
		Difficulty: q.Difficulty,
		Tags:       tagsOrEmpty(q.Tags),
		Points:     q.Points,
		Options:    q.Options,
	}
	if v.RevealAnswers {
		view.Explanation = q.Explanation
		view.CorrectIndex = q.Key.CorrectIndex
		view.CorrectBool = q.Key.CorrectBool
		view.Accepted = q.Key.Accepted
	}
	return view
}

func ProjectQuestions(questions []Question, v ViewerContext) []QuestionView {
	out := make([]QuestionView, 0, len(questions))
	for _, q := range questions {
		out = append(out, ProjectQuestion(q, v))
	}
	return out
}

type QuizView struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Description    string    `json:"description,omitempty"`
	TimeLimitMin   *int      `json:"time_limit,omitempty"`
	PassingScore   int       `json:"passing_score"`
	IsDaily        bool      `json:"is_daily"`
	Tags           []string  `json:"tags"`
	TotalQuestions int       `json:"total_questions"`
	TotalPoints    int       `json:"total_points"`
	CreatedAt      time.Time `json:"created_at"`
}

func ProjectQuiz(qz Quiz, questions []Question) QuizView {
	return QuizView{
		ID:             qz.ID,
		Title:          qz.Title,
		Description:    qz.Description,
		TimeLimitMin:   qz.TimeLimitMin,
		PassingScore:   qz.PassingScore,
		IsDaily:        qz.IsDaily,
		Tags:           tagsOrEmpty(qz.Tags),
		TotalQuestions: len(questions),
		TotalPoints:    TotalPoints(questions),
		CreatedAt:      qz.CreatedAt,
	}
}

type QuizWithQuestionsView struct {
	QuizView
	Questions []QuestionView `json:"questions"`
}

func ProjectQuizWithQuestions(qz Quiz, questions []Question, v ViewerContext) QuizWithQuestionsView {
	return QuizWithQuestionsView{
		QuizView:  ProjectQuiz(qz, questions),
		Questions: ProjectQuestions(questions, v),
	}
}

// ResultView is a stored attempt rendered for its owner; answer keys are
// revealed because the attempt already happened.
type ResultView struct {
	ID                   string            `json:"id"`
	Quiz                 QuizView          `json:"quiz"`
	Score                int               `json:"score"`
	PointsEarned         int               `json:"points_earned"`
	TotalPoints          int               `json:"total_points"`
	QuizTotalPoints      int               `json:"quiz_total_points"`
	TimeTakenSec         *int              `json:"time_taken,omitempty"`
	Passed               bool              `json:"passed"`
	SubmittedAt          time.Time         `json:"submitted_at"`
	QuestionsWithAnswers []QuestionView    `json:"questions_with_answers"`
	UserAnswers          []AnswerBreakdown `json:"user_answers"`
}

func ProjectResult(rec AttemptRecord, qz Quiz, questions []Question, v ViewerContext) ResultView {
	v.RevealAnswers = v.UserID == rec.UserID
	return ResultView{
		ID:                   rec.ID,
		Quiz:                 ProjectQuiz(qz, questions),
		Score:                rec.Score,
		PointsEarned:         rec.PointsEarned,
		TotalPoints:          rec.TotalPoints,
		QuizTotalPoints:      rec.QuizTotalPoints,
		TimeTakenSec:         rec.TimeTakenSec,
		Passed:               rec.Passed,
		SubmittedAt:          rec.SubmittedAt,
		QuestionsWithAnswers: ProjectQuestions(questions, v),
		UserAnswers:          rec.Answers,
	}
}

type DailyQuizView struct {
	Date         string                 `json:"date"`
	Quiz         *QuizWithQuestionsView `json:"quiz"`
	HasAttempted bool                   `json:"has_attempted"`
	Result       *ResultView            `json:"result"`
}

// ProjectDaily renders the daily quiz status. The quiz body is withheld once
// the viewer has attempted; the stored result carries the review instead.
func ProjectDaily(st DailyStatus, v ViewerContext) DailyQuizView {
	view := DailyQuizView{
		Date:         st.Date.Format("2006-01-02"),
		HasAttempted: st.HasAttempted,
	}
	if st.Quiz == nil {
		return view
	}
	if !st.HasAttempted {
		qv := ProjectQuizWithQuestions(*st.Quiz, st.Questions, ViewerContext{UserID: v.UserID})
		view.Quiz = &qv
	}
	if st.Result != nil {
		rv := ProjectResult(*st.Result, *st.Quiz, st.Questions, v)
		view.Result = &rv
	}
	return view
}

func tagsOrEmpty(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}

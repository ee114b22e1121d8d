package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/comrade-prep/comrade-backend/internal/quiz"
	"github.com/comrade-prep/comrade-backend/internal/rbac"
)

// parseDate reads an optional ?date=YYYY-MM-DD query param in loc, falling
// back to the owning service's clock.
func parseDate(r *http.Request, loc *time.Location, now func() time.Time) (time.Time, bool) {
	raw := r.URL.Query().Get("date")
	if raw == "" {
		return now().In(loc), true
	}
	t, err := time.ParseInLocation("2006-01-02", raw, loc)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// GET /quiz/daily?date=YYYY-MM-DD
func DailyQuizHandler(svc *quiz.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		date, ok := parseDate(r, svc.Location(), svc.Now)
		if !ok {
			writeDetail(w, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
			return
		}
		userID := rbac.SubjectFromContext(r.Context())
		st, err := svc.Daily(r.Context(), userID, date)
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, quiz.ProjectDaily(st, quiz.ViewerContext{UserID: userID}))
	}
}

// GET /quiz/{quizID}
func GetQuizHandler(svc *quiz.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		qz, questions, err := svc.GetQuiz(r.Context(), chi.URLParam(r, "quizID"))
		if err != nil {
			writeErr(w, err)
			return
		}
		userID := rbac.SubjectFromContext(r.Context())
		writeJSON(w, http.StatusOK, quiz.ProjectQuizWithQuestions(qz, questions, quiz.ViewerContext{UserID: userID}))
	}
}

// POST /quiz/{quizID}/submit
func SubmitQuizHandler(svc *quiz.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var sub quiz.Submission
		if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
			writeDetail(w, http.StatusBadRequest, "bad json")
			return
		}
		userID := rbac.SubjectFromContext(r.Context())
		rec, _, err := svc.Submit(r.Context(), userID, chi.URLParam(r, "quizID"), sub)
		if err != nil {
			writeErr(w, err)
			return
		}
		qz, questions, err := svc.ResultContext(r.Context(), rec)
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, quiz.ProjectResult(rec, qz, questions, quiz.ViewerContext{UserID: userID}))
	}
}

// GET /quiz/history?limit=N
func QuizHistoryHandler(svc *quiz.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := 10
		if raw := r.URL.Query().Get("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n < 1 || n > 50 {
				writeDetail(w, http.StatusBadRequest, "limit must be between 1 and 50")
				return
			}
			limit = n
		}
		userID := rbac.SubjectFromContext(r.Context())
		recs, err := svc.History(r.Context(), userID, limit)
		if err != nil {
			writeErr(w, err)
			return
		}
		out := make([]quiz.ResultView, 0, len(recs))
		for _, rec := range recs {
			qz, questions, err := svc.ResultContext(r.Context(), rec)
			if err != nil {
				writeErr(w, err)
				return
			}
			out = append(out, quiz.ProjectResult(rec, qz, questions, quiz.ViewerContext{UserID: userID}))
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"attempts": out,
			"total":    len(out),
		})
	}
}

type createQuestionRequest struct {
	Text        string            `json:"question_text"`
	Type        quiz.QuestionType `json:"question_type"`
	Difficulty  quiz.Difficulty   `json:"difficulty"`
	Explanation string            `json:"explanation"`
	Tags        []string          `json:"tags"`
	Points      int               `json:"points"`
	Options     []string          `json:"options"`

	CorrectIndex *int     `json:"correct_answer_index"`
	CorrectBool  *bool    `json:"correct_answer"`
	Accepted     []string `json:"correct_answers"`
}

// POST /quiz/questions (admin)
func CreateQuestionHandler(svc *quiz.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createQuestionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeDetail(w, http.StatusBadRequest, "bad json")
			return
		}
		q := quiz.Question{
			Text:        req.Text,
			Type:        req.Type,
			Difficulty:  req.Difficulty,
			Explanation: req.Explanation,
			Tags:        req.Tags,
			Points:      req.Points,
			Options:     req.Options,
			Key: quiz.AnswerKey{
				CorrectIndex: req.CorrectIndex,
				CorrectBool:  req.CorrectBool,
				Accepted:     req.Accepted,
			},
		}
		created, err := svc.CreateQuestion(r.Context(), q)
		if err != nil {
			writeDetail(w, http.StatusBadRequest, err.Error())
			return
		}
		writeJSON(w, http.StatusCreated, quiz.ProjectQuestion(created, quiz.ViewerContext{RevealAnswers: true}))
	}
}

type createQuizRequest struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	TimeLimitMin *int     `json:"time_limit"`
	PassingScore int      `json:"passing_score"`
	IsDaily      bool     `json:"is_daily"`
	Tags         []string `json:"tags"`
	QuestionIDs  []string `json:"question_ids"`
}

// POST /quiz (admin)
func CreateQuizHandler(svc *quiz.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createQuizRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeDetail(w, http.StatusBadRequest, "bad json")
			return
		}
		if req.Title == "" || len(req.QuestionIDs) == 0 {
			writeDetail(w, http.StatusBadRequest, "title and question_ids required")
			return
		}
		if req.PassingScore < 0 || req.PassingScore > 100 {
			writeDetail(w, http.StatusBadRequest, "passing_score must be between 0 and 100")
			return
		}
		qz := quiz.Quiz{
			Title:        req.Title,
			Description:  req.Description,
			TimeLimitMin: req.TimeLimitMin,
			PassingScore: req.PassingScore,
			IsDaily:      req.IsDaily,
			IsActive:     true,
			Tags:         req.Tags,
			QuestionIDs:  req.QuestionIDs,
			CreatedBy:    rbac.SubjectFromContext(r.Context()),
		}
		created, err := svc.CreateQuiz(r.Context(), qz)
		if err != nil {
			writeErr(w, err)
			return
		}
		questions, err := svc.Questions(r.Context(), created.QuestionIDs)
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, quiz.ProjectQuiz(created, questions))
	}
}

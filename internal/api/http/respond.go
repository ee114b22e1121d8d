package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/comrade-prep/comrade-backend/internal/auth"
	"github.com/comrade-prep/comrade-backend/internal/news"
	"github.com/comrade-prep/comrade-backend/internal/quiz"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type errBody struct {
	Detail string `json:"detail"`
}

func writeDetail(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errBody{Detail: msg})
}

// writeErr maps domain sentinels onto HTTP statuses. Anything unmapped is a
// 500 with a generic body; the cause goes to the log, not the client.
func writeErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, quiz.ErrQuizNotFound),
		errors.Is(err, quiz.ErrQuestionNotFound),
		errors.Is(err, quiz.ErrAttemptNotFound),
		errors.Is(err, news.ErrNotFound),
		errors.Is(err, auth.ErrUserNotFound):
		writeDetail(w, http.StatusNotFound, err.Error())
	case errors.Is(err, quiz.ErrQuizInactive):
		writeDetail(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, auth.ErrInvalidCredentials):
		writeDetail(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, auth.ErrUserExists):
		writeDetail(w, http.StatusConflict, err.Error())
	default:
		log.Printf("internal error: %v", err)
		writeDetail(w, http.StatusInternalServerError, "internal server error")
	}
}

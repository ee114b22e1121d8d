package http

import (
	"github.com/go-chi/chi/v5"

	"github.com/comrade-prep/comrade-backend/internal/auth"
	"github.com/comrade-prep/comrade-backend/internal/news"
	"github.com/comrade-prep/comrade-backend/internal/quiz"
	"github.com/comrade-prep/comrade-backend/internal/rbac"
)

type Deps struct {
	Auth  *auth.AuthService
	Users *auth.Users
	Quiz  *quiz.Service
	News  *news.Service
}

// Mount attaches the versioned API under /api/v1. Global middleware (request
// id, logging, CORS, timeouts) is the caller's business.
func Mount(r chi.Router, d Deps) {
	r.Route("/api/v1", func(api chi.Router) {
		api.Route("/auth", func(ar chi.Router) {
			ar.Post("/register", RegisterHandler(d.Users, d.Auth))
			ar.Post("/login", LoginHandler(d.Users, d.Auth))
			ar.Post("/forgot-password", ForgotPasswordHandler())
			ar.Post("/reset-password", ResetPasswordHandler())
			ar.Post("/verify-phone", VerifyPhoneHandler())
			ar.Post("/resend-otp", ResendOTPHandler())

			ar.Group(func(pr chi.Router) {
				pr.Use(auth.JWTMiddleware(d.Auth))
				pr.Get("/me", MeHandler(d.Users))
				pr.Post("/refresh", RefreshHandler(d.Users, d.Auth))
				pr.Post("/logout", LogoutHandler())
			})
		})

		api.Route("/news", func(nr chi.Router) {
			// Reads are public; a token only adds bookmark flags.
			nr.Group(func(pub chi.Router) {
				pub.Use(auth.OptionalJWT(d.Auth))
				pub.Get("/", ListNewsHandler(d.News))
				pub.Get("/daily", DailyNewsHandler(d.News))
				pub.Get("/trending", TrendingNewsHandler(d.News))
				pub.Get("/category/{category}", NewsByCategoryHandler(d.News))
				pub.Get("/{newsID}", GetNewsHandler(d.News))
			})

			nr.Group(func(pr chi.Router) {
				pr.Use(auth.JWTMiddleware(d.Auth))
				pr.With(rbac.Require("news:bookmark")).
					Post("/{newsID}/bookmark", BookmarkHandler(d.News))
				pr.With(rbac.Require("news:bookmark")).
					Delete("/{newsID}/bookmark", UnbookmarkHandler(d.News))
				pr.With(rbac.Require("news:create")).
					Post("/", CreateNewsHandler(d.News))
			})
		})

		api.Route("/quiz", func(qr chi.Router) {
			qr.Use(auth.JWTMiddleware(d.Auth))

			qr.With(rbac.Require("quiz:view")).
				Get("/daily", DailyQuizHandler(d.Quiz))
			qr.With(rbac.Require("attempt:view-own")).
				Get("/history", QuizHistoryHandler(d.Quiz))
			qr.With(rbac.Require("quiz:view")).
				Get("/{quizID}", GetQuizHandler(d.Quiz))
			qr.With(rbac.Require("quiz:submit")).
				Post("/{quizID}/submit", SubmitQuizHandler(d.Quiz))

			qr.With(rbac.Require("question:create")).
				Post("/questions", CreateQuestionHandler(d.Quiz))
			qr.With(rbac.Require("quiz:create")).
				Post("/", CreateQuizHandler(d.Quiz))
		})
	})
}

package http

import (
	"encoding/json"
	"net/http"

	"github.com/comrade-prep/comrade-backend/internal/auth"
	"github.com/comrade-prep/comrade-backend/internal/rbac"
)

type tokenResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresIn   int       `json:"expires_in"` // seconds
	User        auth.User `json:"user"`
}

func tokenFor(a *auth.AuthService, u auth.User) (tokenResponse, error) {
	tok, err := a.IssueJWT(u.ID, u.Role)
	if err != nil {
		return tokenResponse{}, err
	}
	return tokenResponse{
		AccessToken: tok,
		TokenType:   "bearer",
		ExpiresIn:   int(a.TokenTTL().Seconds()),
		User:        u,
	}, nil
}

// POST /auth/register
func RegisterHandler(users *auth.Users, a *auth.AuthService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Name        string `json:"name"`
			Email       string `json:"email"`
			PhoneNumber string `json:"phone_number"`
			Password    string `json:"password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeDetail(w, http.StatusBadRequest, "bad json")
			return
		}
		if req.Name == "" || req.Password == "" {
			writeDetail(w, http.StatusBadRequest, "name and password required")
			return
		}
		if req.Email == "" && req.PhoneNumber == "" {
			writeDetail(w, http.StatusBadRequest, "email or phone_number required")
			return
		}
		if len(req.Password) < 6 {
			writeDetail(w, http.StatusBadRequest, "password must be at least 6 characters")
			return
		}
		u, err := users.Register(r.Context(), req.Name, req.Email, req.PhoneNumber, req.Password)
		if err != nil {
			writeErr(w, err)
			return
		}
		resp, err := tokenFor(a, u)
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, resp)
	}
}

// POST /auth/login  { "identifier": "email or phone", "password": "..." }
func LoginHandler(users *auth.Users, a *auth.AuthService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Identifier string `json:"identifier"`
			Password   string `json:"password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeDetail(w, http.StatusBadRequest, "bad json")
			return
		}
		u, err := users.Login(r.Context(), req.Identifier, req.Password)
		if err != nil {
			writeErr(w, err)
			return
		}
		resp, err := tokenFor(a, u)
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

// GET /auth/me
func MeHandler(users *auth.Users) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u, err := users.Get(r.Context(), rbac.SubjectFromContext(r.Context()))
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, u)
	}
}

// POST /auth/refresh
func RefreshHandler(users *auth.Users, a *auth.AuthService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u, err := users.Get(r.Context(), rbac.SubjectFromContext(r.Context()))
		if err != nil {
			writeErr(w, err)
			return
		}
		resp, err := tokenFor(a, u)
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

// POST /auth/logout
//
// Tokens are stateless, so logout is client-side; the endpoint exists so
// clients have a uniform call to clear their session against.
func LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"message": "successfully logged out"})
	}
}

// POST /auth/forgot-password  { "email": "..." }
//
// Always answers the same way so the endpoint cannot be used to probe which
// emails are registered. Actual reset mail delivery is out of scope.
func ForgotPasswordHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Email string `json:"email"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" {
			writeDetail(w, http.StatusBadRequest, "email required")
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"message": "If the email exists, a reset link has been sent"})
	}
}

// POST /auth/reset-password  { "token": "...", "new_password": "..." }
func ResetPasswordHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Token       string `json:"token"`
			NewPassword string `json:"new_password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Token == "" {
			writeDetail(w, http.StatusBadRequest, "token required")
			return
		}
		if len(req.NewPassword) < 6 {
			writeDetail(w, http.StatusBadRequest, "password must be at least 6 characters")
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"message": "Password reset successfully"})
	}
}

// POST /auth/verify-phone  { "phone_number": "...", "verification_code": "..." }
func VerifyPhoneHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			PhoneNumber      string `json:"phone_number"`
			VerificationCode string `json:"verification_code"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.PhoneNumber == "" || req.VerificationCode == "" {
			writeDetail(w, http.StatusBadRequest, "phone_number and verification_code required")
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"message": "Phone number verified successfully"})
	}
}

// POST /auth/resend-otp?phone_number=...
func ResendOTPHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("phone_number") == "" {
			writeDetail(w, http.StatusBadRequest, "phone_number required")
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"message": "OTP sent successfully"})
	}
}

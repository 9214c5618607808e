package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/dmitrijs2005/carshowroom/internal/server/services"
)

const maxJSONBody = 1 << 20

type userResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type authResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message,omitempty"`
	User    userResponse `json:"user"`
	Token   string       `json:"token"`
}

func newAuthResponse(sess *services.Session, message string) authResponse {
	return authResponse{
		Success: true,
		Message: message,
		User: userResponse{
			ID:       sess.User.ID,
			Username: sess.User.Username,
			Email:    sess.User.Email,
		},
		Token: sess.Token,
	}
}

func (s *HTTPServer) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	sess, err := s.users.Register(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		s.writeServiceError(r.Context(), w, err, "User not found")
		return
	}

	s.logger.Info(r.Context(), "user registered", "user_id", sess.User.ID)
	writeJSON(w, http.StatusCreated, newAuthResponse(sess, "User registered successfully"))
}

func (s *HTTPServer) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	sess, err := s.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		s.writeServiceError(r.Context(), w, err, "User not found")
		return
	}

	writeJSON(w, http.StatusOK, newAuthResponse(sess, "Login successful"))
}

// decodeJSON reads a bounded JSON body into v. On failure it writes a 400 and
// returns false.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}

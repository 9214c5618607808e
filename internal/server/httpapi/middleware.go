package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/carshowroom/internal/common"
)

type ctxKey string

const userIDKey ctxKey = "userID"

// authenticate resolves the bearer token to a user id and stores it in the
// request context. Requests without a valid token get 401.
func (s *HTTPServer) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get(common.AuthorizationHeaderName)
		token, ok := strings.CutPrefix(header, common.BearerPrefix)
		token = strings.TrimSpace(token)
		if !ok || token == "" {
			writeError(w, http.StatusUnauthorized, "No token, authorization denied")
			return
		}

		userID, err := s.users.Authenticate(r.Context(), token)
		if err != nil {
			switch {
			case errors.Is(err, common.ErrTokenExpired):
				writeError(w, http.StatusUnauthorized, "Token expired")
			case errors.Is(err, common.ErrInvalidToken):
				writeError(w, http.StatusUnauthorized, "Invalid token")
			default:
				s.logger.Error(r.Context(), "authentication failed", "error", err)
				writeError(w, http.StatusInternalServerError, "Internal server error")
			}
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func userIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(userIDKey).(string)
	return id
}

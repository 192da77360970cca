package http

import (
	"net/http"
	"strings"

	"github.com/SakshamTolani/ProductPro/internal/domain"
	"github.com/SakshamTolani/ProductPro/pkg/httputil"
	"github.com/SakshamTolani/ProductPro/pkg/middleware"
)

// ContentTypeJSON rejects mutating requests whose Content-Type is not JSON.
func ContentTypeJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost || r.Method == http.MethodPut || r.Method == http.MethodPatch {
			ct := r.Header.Get("Content-Type")
			if ct != "" && !strings.HasPrefix(ct, "application/json") {
				httputil.WriteJSON(w, http.StatusUnsupportedMediaType, httputil.Response{
					Error: &httputil.ErrorResponse{Code: "UNSUPPORTED_MEDIA_TYPE", Message: "Content-Type must be application/json"},
				})
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

// actorFromContext builds the acting identity from the auth middleware's
// context values.
func actorFromContext(r *http.Request) domain.Actor {
	return domain.Actor{
		ID:   middleware.UserIDFromContext(r.Context()),
		Role: domain.Role(middleware.RoleFromContext(r.Context())),
	}
}

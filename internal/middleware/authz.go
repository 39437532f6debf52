package middleware

import (
	"net/http"

	"cms-dashboard/internal/logger"
	"cms-dashboard/internal/session"

	"github.com/casbin/casbin/v2"
)

// Authorizer creates a new middleware for authorization.
// It checks the user's permissions using Casbin based on session data.
// Anonymous visitors denied access are sent to the sign-in page; signed-in
// users are handed to denied, or get a bare 403 when denied is nil.
func Authorizer(e casbin.IEnforcer, sm session.Manager, log logger.Logger, denied http.Handler) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			subject := sm.GetString(r.Context(), session.SubjectKey)
			if subject == "" {
				subject = "anonymous"
			}

			userInfo := &UserInfo{Subject: subject}
			r = r.WithContext(SetUserInfo(r.Context(), userInfo))

			allowed, err := e.Enforce(subject, r.URL.Path, r.Method)
			if err != nil {
				log.Error(err, "authorization check failed")
				http.Error(w, "Authorization error", http.StatusInternalServerError)
				return
			}

			if !allowed {
				if userInfo.IsAnonymous() && r.Method == http.MethodGet {
					http.Redirect(w, r, "/sign-in", http.StatusFound)
					return
				}
				if denied != nil && !userInfo.IsAnonymous() {
					denied.ServeHTTP(w, r)
					return
				}
				http.Error(w, "Forbidden", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

package middleware

import (
	"context"
	"net/http"

	"cms-dashboard/internal/session"
)

// Flash is the toast carried over a redirect.
type Flash struct {
	Message string
	IsError bool
}

// Flashes pops the pending toast from the session into the request
// context, where templates read it through GetFlash.
func Flashes(sm session.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var f *Flash
			if msg := sm.PopString(r.Context(), session.ErrorKey); msg != "" {
				f = &Flash{Message: msg, IsError: true}
			} else if msg := sm.PopString(r.Context(), session.FlashKey); msg != "" {
				f = &Flash{Message: msg}
			}
			if f != nil {
				r = r.WithContext(context.WithValue(r.Context(), flashContextKey, f))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// GetFlash returns the toast for this request, if any.
func GetFlash(ctx context.Context) *Flash {
	f, _ := ctx.Value(flashContextKey).(*Flash)
	return f
}

// SetFlash queues a toast for the next page the user sees.
func SetFlash(ctx context.Context, sm session.Manager, msg string, isError bool) {
	if isError {
		sm.Put(ctx, session.ErrorKey, msg)
		return
	}
	sm.Put(ctx, session.FlashKey, msg)
}

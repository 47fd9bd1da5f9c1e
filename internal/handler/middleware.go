package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"storefront/console/internal/logx"
	"storefront/console/internal/session"
)

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		var ev *zerolog.Event
		switch {
		case status >= 500:
			ev = logx.Error()
		case status >= 400:
			ev = logx.Warn()
		default:
			ev = logx.Info()
		}
		ev.Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("remote_ip", r.RemoteAddr).
			Str("request_id", middleware.GetReqID(r.Context())).
			Int("status", status).
			Int("bytes", ww.BytesWritten()).
			Int64("duration_ms", time.Since(start).Milliseconds()).
			Msg("request completed")
	})
}

// requireAuth sends guests to the sign-in page.
func requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !sessionFrom(r.Context()).ctrl.IsAuthenticated() {
			http.Redirect(w, r, session.SignInPath, http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// guestOnly sends signed-in users to the landing page.
func guestOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if sessionFrom(r.Context()).ctrl.IsAuthenticated() {
			http.Redirect(w, r, session.HomePath, http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

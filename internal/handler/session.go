package handler

import (
	"context"
	"net/http"
	"strconv"
	"sync"

	"storefront/console/internal/apiclient"
	"storefront/console/internal/service"
	"storefront/console/internal/session"
	"storefront/console/internal/store"
)

type sessionKey struct{}

// redirector records where the session controller wants the browser to go.
type redirector struct {
	mu   sync.Mutex
	path string
}

func (r *redirector) Navigate(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.path = path
}

func (r *redirector) Target() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.path
}

// requestSession is the browser's session for the duration of one request.
type requestSession struct {
	ctrl   *session.Controller
	nav    *redirector
	client *apiclient.Client
}

func (s *requestSession) profile() *service.ProfileService {
	return service.NewProfileService(s.client)
}

func (s *requestSession) catalog(cache *service.ProductCache) *service.Catalog {
	key := ""
	if u := s.ctrl.User(); u != nil {
		key = strconv.Itoa(u.ID)
	}
	return service.NewCatalog(service.NewProductService(s.client), cache, key)
}

func (h *Handler) withSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		nav := &redirector{}
		st := store.NewCookieStore(w, r, h.opts.CookieSecure)
		ctrl := session.NewController(st, service.NewAuthService(h.api), nav)
		ctrl.Restore()

		rs := &requestSession{
			ctrl:   ctrl,
			nav:    nav,
			client: h.api.WithCredentials(ctrl),
		}
		ctx := context.WithValue(r.Context(), sessionKey{}, rs)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func sessionFrom(ctx context.Context) *requestSession {
	rs, _ := ctx.Value(sessionKey{}).(*requestSession)
	return rs
}

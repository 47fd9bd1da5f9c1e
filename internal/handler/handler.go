package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"storefront/console/internal/apiclient"
	"storefront/console/internal/service"
)

type Options struct {
	// CookieSecure marks the session cookies Secure.
	CookieSecure bool
	// MaxUploadBytes bounds product image uploads.
	MaxUploadBytes int64
}

type Handler struct {
	router *chi.Mux
	api    *apiclient.Client
	cache  *service.ProductCache
	views  *views
	opts   Options
}

func NewHandler(api *apiclient.Client, cache *service.ProductCache, opts Options) *Handler {
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = 10 << 20
	}

	router := chi.NewRouter()

	// Middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(requestLogger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(30 * time.Second))

	h := &Handler{
		router: router,
		api:    api,
		cache:  cache,
		views:  mustParseViews(api.BaseURL()),
		opts:   opts,
	}

	h.registerRoutes()
	return h
}

func (h *Handler) registerRoutes() {
	h.router.Route("/v1", func(r chi.Router) {
		r.Get("/health", h.HealthCheck)
	})

	h.router.Group(func(r chi.Router) {
		r.Use(h.withSession)

		r.Post("/logout", h.Logout)

		r.Group(func(r chi.Router) {
			r.Use(guestOnly)
			r.Get("/sign-in", h.SignInPage)
			r.Post("/sign-in", h.SignIn)
			r.Get("/sign-up", h.SignUpPage)
			r.Post("/sign-up", h.SignUp)
		})

		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Get("/", h.Dashboard)

			r.Route("/products", func(r chi.Router) {
				r.Get("/", h.ListProducts)
				r.Get("/new", h.NewProductPage)
				r.Post("/", h.CreateProduct)
				r.Get("/{id}/edit", h.EditProductPage)
				r.Post("/{id}", h.UpdateProduct)
				r.Post("/{id}/delete", h.DeleteProduct)
			})

			r.Get("/profile", h.ProfilePage)
			r.Post("/profile", h.UpdateProfile)
			r.Post("/profile/password", h.ChangePassword)
		})
	})
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

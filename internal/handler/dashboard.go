package handler

import (
	"net/http"

	"golang.org/x/sync/errgroup"

	"storefront/console/internal/model"
)

type dashboardData struct {
	ProductCount int
}

// Dashboard refreshes the profile and the product list concurrently.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	rs := sessionFrom(r.Context())

	var (
		user     *model.User
		products []model.Product
	)
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		var err error
		user, err = rs.profile().Profile(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		products, err = rs.catalog(h.cache).List(ctx)
		return err
	})

	if err := g.Wait(); err != nil {
		if h.expired(w, r, err) {
			return
		}
		h.render(w, r, http.StatusOK, "dashboard", view{Title: "Home", Error: err.Error(), Data: dashboardData{}})
		return
	}

	if err := rs.ctrl.UpdateUser(*user); err != nil {
		h.render(w, r, http.StatusInternalServerError, "dashboard", view{Title: "Home", Error: err.Error(), Data: dashboardData{}})
		return
	}
	h.render(w, r, http.StatusOK, "dashboard", view{Title: "Home", Data: dashboardData{ProductCount: len(products)}})
}

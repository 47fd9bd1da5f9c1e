package handler

import (
	"net/http"

	"storefront/console/internal/apiclient"
)

// expired redirects to sign-in when err tore the session down and reports
// whether it did.
func (h *Handler) expired(w http.ResponseWriter, r *http.Request, err error) bool {
	rs := sessionFrom(r.Context())

	if apiclient.IsUnauthorized(err) && rs.nav.Target() == "" {
		// Token already gone (cookie expired) so the transport had nothing to expire.
		rs.ctrl.Expire(r.Context())
	}
	target := rs.nav.Target()
	if target == "" {
		return false
	}
	flashError(w, "Your session has expired. Please sign in again.")
	http.Redirect(w, r, target, http.StatusSeeOther)
	return true
}

// fail reports a failed action and sends the browser back.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error, back string) {
	if h.expired(w, r, err) {
		return
	}
	flashError(w, err.Error())
	http.Redirect(w, r, back, http.StatusSeeOther)
}

package handler

import (
	"net/http"

	"storefront/console/internal/logx"
)

type signInForm struct {
	Email string
}

type signUpForm struct {
	FullName string
	Email    string
	MobileNo string
}

func (h *Handler) SignInPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "sign_in", view{Title: "Sign in", Data: signInForm{}})
}

func (h *Handler) SignIn(w http.ResponseWriter, r *http.Request) {
	rs := sessionFrom(r.Context())
	form := signInForm{Email: r.PostFormValue("email")}

	if err := rs.ctrl.Login(r.Context(), form.Email, r.PostFormValue("password")); err != nil {
		h.render(w, r, http.StatusUnprocessableEntity, "sign_in", view{
			Title: "Sign in",
			Flash: &flash{Kind: "error", Title: "Error signing in", Message: err.Error()},
			Data:  form,
		})
		return
	}

	setFlash(w, flash{Kind: "success", Title: "Success", Message: "You have successfully signed in."})
	http.Redirect(w, r, rs.nav.Target(), http.StatusSeeOther)
}

func (h *Handler) SignUpPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "sign_up", view{Title: "Sign up", Data: signUpForm{}})
}

func (h *Handler) SignUp(w http.ResponseWriter, r *http.Request) {
	rs := sessionFrom(r.Context())
	form := signUpForm{
		FullName: r.PostFormValue("fullName"),
		Email:    r.PostFormValue("email"),
		MobileNo: r.PostFormValue("mobileNo"),
	}

	err := rs.ctrl.Signup(r.Context(), form.FullName, form.Email, form.MobileNo, r.PostFormValue("password"))
	if err != nil {
		h.render(w, r, http.StatusUnprocessableEntity, "sign_up", view{
			Title: "Sign up",
			Flash: &flash{Kind: "error", Title: "Error signing up", Message: err.Error()},
			Data:  form,
		})
		return
	}

	setFlash(w, flash{Kind: "success", Title: "Success", Message: "You have successfully signed up."})
	http.Redirect(w, r, rs.nav.Target(), http.StatusSeeOther)
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	rs := sessionFrom(r.Context())
	if err := rs.ctrl.Logout(r.Context()); err != nil {
		logx.Error().Err(err).Msg("logout failed")
	}
	http.Redirect(w, r, rs.nav.Target(), http.StatusSeeOther)
}

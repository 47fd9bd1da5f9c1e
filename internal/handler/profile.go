package handler

import (
	"net/http"

	"storefront/console/internal/service"
)

func (h *Handler) ProfilePage(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "profile", view{Title: "Profile"})
}

func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	rs := sessionFrom(r.Context())

	user, err := rs.profile().UpdateProfile(r.Context(), service.UpdateProfileRequest{
		FullName: r.PostFormValue("fullName"),
		Email:    r.PostFormValue("email"),
		MobileNo: r.PostFormValue("mobileNo"),
	})
	if err != nil {
		h.fail(w, r, err, "/profile")
		return
	}
	if err := rs.ctrl.UpdateUser(*user); err != nil {
		h.fail(w, r, err, "/profile")
		return
	}

	flashSuccess(w, "Profile updated successfully!")
	http.Redirect(w, r, "/profile", http.StatusSeeOther)
}

func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	rs := sessionFrom(r.Context())

	err := rs.profile().ChangePassword(r.Context(), service.ChangePasswordRequest{
		CurrentPassword:    r.PostFormValue("currentPassword"),
		NewPassword:        r.PostFormValue("newPassword"),
		ConfirmNewPassword: r.PostFormValue("confirmNewPassword"),
	})
	if err != nil {
		h.fail(w, r, err, "/profile")
		return
	}

	flashSuccess(w, "Password changed successfully!")
	http.Redirect(w, r, "/profile", http.StatusSeeOther)
}

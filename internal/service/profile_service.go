package service

import (
	"context"
	"net/http"

	"storefront/console/internal/apiclient"
	"storefront/console/internal/model"
)

type UpdateProfileRequest struct {
	FullName string `json:"fullName,omitempty"`
	Email    string `json:"email,omitempty"`
	MobileNo string `json:"mobileNo,omitempty"`
}

type ChangePasswordRequest struct {
	CurrentPassword    string `json:"currentPassword" validate:"required"`
	NewPassword        string `json:"newPassword" validate:"required"`
	ConfirmNewPassword string `json:"confirmNewPassword" validate:"required"`
}

type userResponse struct {
	User model.User `json:"user"`
}

type ProfileService struct {
	client *apiclient.Client
}

func NewProfileService(client *apiclient.Client) *ProfileService {
	return &ProfileService{client: client}
}

func (s *ProfileService) Profile(ctx context.Context) (*model.User, error) {
	var resp userResponse
	if err := s.client.JSON(ctx, http.MethodGet, "/api/v1/user/profile", nil, &resp); err != nil {
		return nil, fail(err, "Failed to fetch user profile")
	}
	return &resp.User, nil
}

func (s *ProfileService) UpdateProfile(ctx context.Context, req UpdateProfileRequest) (*model.User, error) {
	var resp userResponse
	if err := s.client.JSON(ctx, http.MethodPatch, "/api/v1/user/profile", req, &resp); err != nil {
		return nil, fail(err, "Failed to update profile")
	}
	return &resp.User, nil
}

// ChangePassword leaves matching new/confirm passwords to the backend.
func (s *ProfileService) ChangePassword(ctx context.Context, req ChangePasswordRequest) error {
	if err := Validate(req); err != nil {
		return err
	}
	if err := s.client.JSON(ctx, http.MethodPatch, "/api/v1/user/password", req, nil); err != nil {
		return fail(err, "Failed to change password")
	}
	return nil
}

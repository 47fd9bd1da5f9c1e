package service

import (
	"context"
	"net/http"
	"strings"

	"storefront/console/internal/apiclient"
	"storefront/console/internal/model"
)

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type SignupRequest struct {
	FullName string `json:"fullName" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	MobileNo string `json:"mobileNo" validate:"len=10,digits"`
	Password string `json:"password" validate:"min=6"`
}

type AuthResponse struct {
	Success bool       `json:"success"`
	Message string     `json:"message"`
	Token   string     `json:"token"`
	User    model.User `json:"user"`
}

// AuthService calls the login and signup endpoints. It must be built on an
// anonymous client so a rejected login never looks like an expired session.
type AuthService struct {
	client *apiclient.Client
}

func NewAuthService(client *apiclient.Client) *AuthService {
	return &AuthService{client: client}
}

func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	req.Email = strings.TrimSpace(req.Email)
	if err := Validate(req); err != nil {
		return nil, err
	}

	var resp AuthResponse
	if err := s.client.JSON(ctx, http.MethodPost, "/api/v1/auth/login", req, &resp); err != nil {
		return nil, fail(err, "Login failed")
	}
	return &resp, nil
}

func (s *AuthService) Signup(ctx context.Context, req SignupRequest) (*AuthResponse, error) {
	req.FullName = strings.TrimSpace(req.FullName)
	req.Email = strings.TrimSpace(req.Email)
	req.MobileNo = strings.TrimSpace(req.MobileNo)
	if err := Validate(req); err != nil {
		return nil, err
	}

	var resp AuthResponse
	if err := s.client.JSON(ctx, http.MethodPost, "/api/v1/auth/signup", req, &resp); err != nil {
		return nil, fail(err, "Signup failed")
	}
	return &resp, nil
}

package service

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"storefront/console/internal/apiclient"
	"storefront/console/internal/model"
)

type CreateProductRequest struct {
	Name            string          `json:"name" validate:"required"`
	Description     string          `json:"description"`
	Price           string          `json:"price" validate:"required"`
	OriginalPrice   string          `json:"originalPrice"`
	DiscountedPrice string          `json:"discountedPrice"`
	Image           *apiclient.File `json:"-" form:"image" validate:"required"`
}

// UpdateProductRequest sends only the fields that are set. An empty
// Description clears it; empty prices are sent as-is when non-nil.
type UpdateProductRequest struct {
	Name            *string         `json:"name" validate:"omitnil,min=1"`
	Description     *string         `json:"description"`
	Price           *string         `json:"price" validate:"omitnil,min=1"`
	OriginalPrice   *string         `json:"originalPrice"`
	DiscountedPrice *string         `json:"discountedPrice"`
	Image           *apiclient.File `json:"-" form:"image"`
}

type productsResponse struct {
	Products []model.Product `json:"products"`
}

type productResponse struct {
	Product model.Product `json:"product"`
}

type ProductService struct {
	client *apiclient.Client
}

func NewProductService(client *apiclient.Client) *ProductService {
	return &ProductService{client: client}
}

func productPath(id string) string {
	return "/api/v1/product/" + url.PathEscape(id)
}

func (s *ProductService) List(ctx context.Context) ([]model.Product, error) {
	var resp productsResponse
	if err := s.client.JSON(ctx, http.MethodGet, "/api/v1/product", nil, &resp); err != nil {
		return nil, fail(err, "Failed to fetch products")
	}
	if resp.Products == nil {
		resp.Products = []model.Product{}
	}
	return resp.Products, nil
}

func (s *ProductService) Get(ctx context.Context, id string) (*model.Product, error) {
	var resp productResponse
	if err := s.client.JSON(ctx, http.MethodGet, productPath(id), nil, &resp); err != nil {
		return nil, fail(err, "Failed to fetch product")
	}
	return &resp.Product, nil
}

func (s *ProductService) Create(ctx context.Context, req CreateProductRequest) (*model.Product, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Price = strings.TrimSpace(req.Price)
	if err := Validate(req); err != nil {
		return nil, err
	}

	form := apiclient.NewForm().Set("name", req.Name)
	if req.Description != "" {
		form.Set("description", req.Description)
	}
	form.Set("price", req.Price)
	if req.OriginalPrice != "" {
		form.Set("originalPrice", req.OriginalPrice)
	}
	if req.DiscountedPrice != "" {
		form.Set("discountedPrice", req.DiscountedPrice)
	}
	form.SetFile("image", req.Image)

	var resp productResponse
	if err := s.client.Multipart(ctx, http.MethodPost, "/api/v1/product", form, &resp); err != nil {
		return nil, fail(err, "Failed to create product")
	}
	return &resp.Product, nil
}

func (s *ProductService) Update(ctx context.Context, id string, req UpdateProductRequest) (*model.Product, error) {
	req.Name = trimmed(req.Name)
	req.Price = trimmed(req.Price)
	if err := Validate(req); err != nil {
		return nil, err
	}

	form := apiclient.NewForm()
	if req.Name != nil {
		form.Set("name", *req.Name)
	}
	if req.Description != nil {
		form.Set("description", *req.Description)
	}
	if req.Price != nil {
		form.Set("price", *req.Price)
	}
	if req.OriginalPrice != nil {
		form.Set("originalPrice", *req.OriginalPrice)
	}
	if req.DiscountedPrice != nil {
		form.Set("discountedPrice", *req.DiscountedPrice)
	}
	if req.Image != nil {
		form.SetFile("image", req.Image)
	}

	var resp productResponse
	if err := s.client.Multipart(ctx, http.MethodPatch, productPath(id), form, &resp); err != nil {
		return nil, fail(err, "Failed to update product")
	}
	return &resp.Product, nil
}

func (s *ProductService) Delete(ctx context.Context, id string) error {
	if err := s.client.JSON(ctx, http.MethodDelete, productPath(id), nil, nil); err != nil {
		return fail(err, "Failed to delete product")
	}
	return nil
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}

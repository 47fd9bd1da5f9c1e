package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"storefront/console/internal/apiclient"
	"storefront/console/internal/model"
	"storefront/console/internal/service"
)

var errUpload = errors.New("image is too large or the form is malformed")

type productsData struct {
	Products []model.Product
}

type productFormData struct {
	Editing  bool
	Action   string
	ImageURL string

	Name            string
	Description     string
	Price           string
	OriginalPrice   string
	DiscountedPrice string
}

func formFromProduct(p *model.Product, imageURL string) productFormData {
	return productFormData{
		Editing:         true,
		Action:          "/products/" + p.ID.String(),
		ImageURL:        imageURL,
		Name:            p.Name,
		Description:     p.Description.String(),
		Price:           p.Price.String(),
		OriginalPrice:   p.OriginalPrice.String(),
		DiscountedPrice: p.DiscountedPrice.String(),
	}
}

func formFromRequest(r *http.Request) productFormData {
	return productFormData{
		Name:            r.FormValue("name"),
		Description:     r.FormValue("description"),
		Price:           r.FormValue("price"),
		OriginalPrice:   r.FormValue("originalPrice"),
		DiscountedPrice: r.FormValue("discountedPrice"),
	}
}

func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	rs := sessionFrom(r.Context())

	// The page always shows the backend's current list; the dashboard count
	// reads the cache.
	products, err := rs.catalog(h.cache).Refresh(r.Context())
	if err != nil {
		if h.expired(w, r, err) {
			return
		}
		h.render(w, r, http.StatusOK, "products", view{Title: "Products", Error: err.Error(), Data: productsData{}})
		return
	}
	h.render(w, r, http.StatusOK, "products", view{Title: "Products", Data: productsData{Products: products}})
}

func (h *Handler) NewProductPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "product_form", view{
		Title: "Add product",
		Data:  productFormData{Action: "/products"},
	})
}

// uploadedImage returns nil when no file was chosen.
func (h *Handler) uploadedImage(r *http.Request) (*apiclient.File, error) {
	file, header, err := r.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer file.Close()

	img, err := apiclient.ReadFile(header.Filename, file)
	if err != nil {
		return nil, err
	}
	if len(img.Data) == 0 {
		return nil, nil
	}
	return img, nil
}

func (h *Handler) parseProductForm(w http.ResponseWriter, r *http.Request) (*apiclient.File, error) {
	r.Body = http.MaxBytesReader(w, r.Body, h.opts.MaxUploadBytes)
	if err := r.ParseMultipartForm(h.opts.MaxUploadBytes); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return nil, errUpload
	}
	return h.uploadedImage(r)
}

func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	rs := sessionFrom(r.Context())

	img, err := h.parseProductForm(w, r)
	form := formFromRequest(r)
	form.Action = "/products"
	if err != nil {
		h.render(w, r, http.StatusBadRequest, "product_form", view{Title: "Add product", Error: err.Error(), Data: form})
		return
	}

	_, err = rs.catalog(h.cache).Create(r.Context(), service.CreateProductRequest{
		Name:            form.Name,
		Description:     form.Description,
		Price:           form.Price,
		OriginalPrice:   form.OriginalPrice,
		DiscountedPrice: form.DiscountedPrice,
		Image:           img,
	})
	if err != nil {
		if h.expired(w, r, err) {
			return
		}
		h.render(w, r, http.StatusUnprocessableEntity, "product_form", view{Title: "Add product", Error: err.Error(), Data: form})
		return
	}

	flashSuccess(w, "Product created successfully!")
	http.Redirect(w, r, "/products", http.StatusSeeOther)
}

func (h *Handler) EditProductPage(w http.ResponseWriter, r *http.Request) {
	rs := sessionFrom(r.Context())

	p, err := rs.catalog(h.cache).Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err, "/products")
		return
	}
	h.render(w, r, http.StatusOK, "product_form", view{
		Title: "Edit product",
		Data:  formFromProduct(p, p.ImageLink(h.api.BaseURL())),
	})
}

func (h *Handler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	rs := sessionFrom(r.Context())
	id := chi.URLParam(r, "id")

	img, err := h.parseProductForm(w, r)
	form := formFromRequest(r)
	form.Editing = true
	form.Action = "/products/" + id
	if err != nil {
		h.render(w, r, http.StatusBadRequest, "product_form", view{Title: "Edit product", Error: err.Error(), Data: form})
		return
	}

	req := service.UpdateProductRequest{
		Name:        &form.Name,
		Description: &form.Description,
		Price:       &form.Price,
		Image:       img,
	}
	if form.OriginalPrice != "" {
		req.OriginalPrice = &form.OriginalPrice
	}
	if form.DiscountedPrice != "" {
		req.DiscountedPrice = &form.DiscountedPrice
	}

	if _, err := rs.catalog(h.cache).Update(r.Context(), id, req); err != nil {
		if h.expired(w, r, err) {
			return
		}
		h.render(w, r, http.StatusUnprocessableEntity, "product_form", view{Title: "Edit product", Error: err.Error(), Data: form})
		return
	}

	flashSuccess(w, "Product updated successfully!")
	http.Redirect(w, r, "/products", http.StatusSeeOther)
}

func (h *Handler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	rs := sessionFrom(r.Context())

	if err := rs.catalog(h.cache).Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.fail(w, r, err, "/products")
		return
	}

	flashSuccess(w, "Product deleted successfully!")
	http.Redirect(w, r, "/products", http.StatusSeeOther)
}

package model

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

type Product struct {
	ID              Text      `json:"id"`
	Name            string    `json:"name"`
	Description     Text      `json:"description,omitempty"`
	Price           Text      `json:"price"`
	OriginalPrice   Text      `json:"originalPrice,omitempty"`
	DiscountedPrice Text      `json:"discountedPrice,omitempty"`
	ImageURL        string    `json:"imageUrl,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// HasDiscount reports whether the discount badge should be shown.
func (p Product) HasDiscount() bool {
	return p.OriginalPrice != "" && p.DiscountedPrice != ""
}

// DiscountPercent is 0 when the product carries no discount.
func (p Product) DiscountPercent() int {
	if !p.HasDiscount() {
		return 0
	}
	return DiscountPercent(p.OriginalPrice.String(), p.DiscountedPrice.String())
}

// DiscountPercent computes round((original-discounted)/original*100).
// Unparsable input or a non-positive original price yields 0.
func DiscountPercent(original, discounted string) int {
	o, err := strconv.ParseFloat(strings.TrimSpace(original), 64)
	if err != nil || o <= 0 {
		return 0
	}
	d, err := strconv.ParseFloat(strings.TrimSpace(discounted), 64)
	if err != nil {
		return 0
	}
	return int(math.Round((o - d) / o * 100))
}

// FormatPrice renders a decimal price string as Indian rupees, e.g. ₹1,299.00.
// Values that do not parse are returned as given.
func FormatPrice(price string) string {
	v, err := strconv.ParseFloat(strings.TrimSpace(price), 64)
	if err != nil {
		return price
	}
	if v < 0 {
		return "-₹" + humanize.FormatFloat("#,###.##", -v)
	}
	return "₹" + humanize.FormatFloat("#,###.##", v)
}

// ImageLink resolves a relative image path against the API base URL.
func (p Product) ImageLink(baseURL string) string {
	if p.ImageURL == "" {
		return ""
	}
	if strings.HasPrefix(p.ImageURL, "http://") || strings.HasPrefix(p.ImageURL, "https://") {
		return p.ImageURL
	}
	return strings.TrimRight(baseURL, "/") + "/" + strings.TrimLeft(p.ImageURL, "/")
}

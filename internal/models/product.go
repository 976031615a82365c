package models

// Product is the shape shared by the seed catalog and the seller-submitted
// listings persisted under "seller_products". Rating and ReviewCount are
// derived from the review ledger on every read; the stored values are never
// authoritative.
type Product struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Title         string   `json:"title,omitempty"`
	Price         float64  `json:"price"`
	OriginalPrice float64  `json:"originalPrice,omitempty"`
	Discount      int      `json:"discount,omitempty"`
	Image         string   `json:"image,omitempty"`
	Images        []string `json:"images,omitempty"`
	StoreID       string   `json:"storeId,omitempty"`
	StoreName     string   `json:"storeName,omitempty"`
	Category      string   `json:"category"`
	Rating        float64  `json:"rating"`
	ReviewCount   int      `json:"reviewCount"`
	InStock       bool     `json:"inStock"`
	Quantity      int      `json:"quantity,omitempty"`
	Description   string   `json:"description,omitempty"`
}

type CreateProductRequest struct {
	Name          string   `json:"name" validate:"required,min=3,max=200"`
	Price         float64  `json:"price" validate:"required,gte=0"`
	OriginalPrice float64  `json:"originalPrice,omitempty" validate:"omitempty,gte=0"`
	Discount      int      `json:"discount,omitempty" validate:"omitempty,gte=0,lte=100"`
	Category      string   `json:"category" validate:"required"`
	Description   string   `json:"description,omitempty"`
	Image         string   `json:"image,omitempty"`
	Images        []string `json:"images,omitempty"`
	Quantity      int      `json:"quantity" validate:"gte=0"`
}

// RatingSummary is the result of aggregating a product's reviews.
type RatingSummary struct {
	Rating float64 `json:"rating"`
	Count  int     `json:"count"`
}

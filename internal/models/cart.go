package models

// CartItem is one line of the global "cart" record. Price is the unit price
// with any discount already applied; Qty is never persisted as zero, removal
// is used instead.
type CartItem struct {
	ID            string  `json:"id"`
	Title         string  `json:"title"`
	Price         float64 `json:"price"`
	OriginalPrice float64 `json:"originalPrice,omitempty"`
	Discount      int     `json:"discount,omitempty"`
	Qty           int     `json:"qty"`
	Image         string  `json:"image,omitempty"`
}

type AddItemRequest struct {
	ID            string  `json:"id" validate:"required"`
	Title         string  `json:"title" validate:"required"`
	Price         float64 `json:"price" validate:"gte=0"`
	OriginalPrice float64 `json:"originalPrice,omitempty" validate:"omitempty,gte=0"`
	Discount      int     `json:"discount,omitempty" validate:"omitempty,gte=0,lte=100"`
	Image         string  `json:"image,omitempty"`
}

type UpdateQuantityRequest struct {
	ID  string `json:"id" validate:"required"`
	Qty int    `json:"qty" validate:"gte=0"`
}

type CartResponse struct {
	Items []CartItem `json:"items"`
	Total float64    `json:"total"`
}

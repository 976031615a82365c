package models

import "time"

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// OrderItem is a frozen snapshot of a product line at purchase time. It is
// deliberately decoupled from the live catalog: deleting a product later does
// not rewrite historical orders.
type OrderItem struct {
	ID    string  `json:"id"`
	Title string  `json:"title"`
	Price float64 `json:"price"`
	Qty   int     `json:"qty"`
	Image string  `json:"image,omitempty"`
}

type Address struct {
	FullName   string `json:"fullName,omitempty"`
	Email      string `json:"email,omitempty" validate:"omitempty,email"`
	Address    string `json:"address" validate:"required"`
	City       string `json:"city" validate:"required"`
	PostalCode string `json:"postalCode" validate:"required"`
	Phone      string `json:"phone,omitempty"`
}

type Order struct {
	ID              string      `json:"id"`
	UserID          string      `json:"userId"`
	Items           []OrderItem `json:"items"`
	Total           float64     `json:"total"`
	Status          OrderStatus `json:"status"`
	CreatedAt       time.Time   `json:"createdAt"`
	DeliveredAt     *time.Time  `json:"deliveredAt,omitempty"`
	ShippingAddress *Address    `json:"shippingAddress,omitempty"`
}

type CheckoutRequest struct {
	ShippingAddress Address `json:"shippingAddress" validate:"required"`
}

type UpdateOrderStatusRequest struct {
	Status OrderStatus `json:"status" validate:"required,oneof=pending processing shipped delivered cancelled"`
}

type StoreRevenueResponse struct {
	StoreID string  `json:"storeId"`
	Orders  int     `json:"orders"`
	Revenue float64 `json:"revenue"`
}

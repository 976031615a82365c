package service

import (
	"context"
	"time"

	"github.com/devanshgoyal/shopkart/internal/errors"
	"github.com/devanshgoyal/shopkart/internal/events"
	"github.com/devanshgoyal/shopkart/internal/kv"
	"github.com/devanshgoyal/shopkart/internal/models"
	"github.com/google/uuid"
)

// OrderService owns the append-biased order ledger. Each order freezes its
// line items and total at creation; later catalog changes never rewrite it.
type OrderService struct {
	store   kv.Store
	hub     *events.Hub
	cart    *CartService
	catalog *CatalogService
}

func NewOrderService(store kv.Store, hub *events.Hub, cart *CartService, catalog *CatalogService) *OrderService {
	return &OrderService{
		store:   store,
		hub:     hub,
		cart:    cart,
		catalog: catalog,
	}
}

// Status transitions are forward-only: pending → processing → shipped →
// delivered, skipping stages forward allowed, with cancellation only out of
// pending or processing. Delivered and cancelled are terminal.
var statusRank = map[models.OrderStatus]int{
	models.OrderStatusPending:    0,
	models.OrderStatusProcessing: 1,
	models.OrderStatusShipped:    2,
	models.OrderStatusDelivered:  3,
}

func canTransition(from, to models.OrderStatus) bool {
	if from == to {
		return false
	}

	if from == models.OrderStatusDelivered || from == models.OrderStatusCancelled {
		return false
	}

	if to == models.OrderStatusCancelled {
		return statusRank[from] <= statusRank[models.OrderStatusProcessing]
	}

	return statusRank[to] > statusRank[from]
}

// Checkout snapshots the current cart into a new order with status
// processing, then empties the cart.
func (s *OrderService) Checkout(ctx context.Context, user *models.User, req *models.CheckoutRequest) (*models.Order, error) {
	items, err := s.cart.Items(ctx)
	if err != nil {
		return nil, err
	}

	if len(items) == 0 {
		return nil, errors.BadRequestError("Cart is empty")
	}

	orderItems := make([]models.OrderItem, 0, len(items))

	var total float64

	for _, item := range items {
		orderItems = append(orderItems, models.OrderItem{
			ID:    item.ID,
			Title: item.Title,
			Price: item.Price,
			Qty:   item.Qty,
			Image: item.Image,
		})
		total += item.Price * float64(item.Qty)
	}

	address := req.ShippingAddress

	order := models.Order{
		ID:              "order_" + uuid.NewString(),
		UserID:          user.ID,
		Items:           orderItems,
		Total:           total,
		Status:          models.OrderStatusProcessing,
		CreatedAt:       time.Now(),
		ShippingAddress: &address,
	}

	if err := s.Add(ctx, &order); err != nil {
		return nil, err
	}

	if err := s.cart.Clear(ctx); err != nil {
		return nil, err
	}

	return &order, nil
}

func (s *OrderService) Add(ctx context.Context, order *models.Order) error {
	orders, err := readList[models.Order](ctx, s.store, ordersKey)
	if err != nil {
		return err
	}

	orders = append(orders, *order)

	if err := writeList(ctx, s.store, ordersKey, orders); err != nil {
		return err
	}

	s.hub.Emit(events.TopicOrders)

	return nil
}

func (s *OrderService) ByUser(ctx context.Context, userID string) ([]models.Order, error) {
	orders, err := readList[models.Order](ctx, s.store, ordersKey)
	if err != nil {
		return nil, err
	}

	out := make([]models.Order, 0)

	for _, o := range orders {
		if o.UserID == userID {
			out = append(out, o)
		}
	}

	return out, nil
}

func (s *OrderService) ByID(ctx context.Context, id string) (*models.Order, error) {
	orders, err := readList[models.Order](ctx, s.store, ordersKey)
	if err != nil {
		return nil, err
	}

	for i := range orders {
		if orders[i].ID == id {
			return &orders[i], nil
		}
	}

	return nil, errors.NotFoundError("Order not found")
}

// UpdateStatus mutates the matching order in place. Moving to delivered
// stamps deliveredAt; no other transition touches it.
func (s *OrderService) UpdateStatus(ctx context.Context, id string, status models.OrderStatus) (*models.Order, error) {
	orders, err := readList[models.Order](ctx, s.store, ordersKey)
	if err != nil {
		return nil, err
	}

	for i := range orders {
		if orders[i].ID != id {
			continue
		}

		if !canTransition(orders[i].Status, status) {
			return nil, errors.ConflictError("Invalid status transition").
				WithDetail(string(orders[i].Status) + " -> " + string(status))
		}

		orders[i].Status = status

		if status == models.OrderStatusDelivered {
			now := time.Now()
			orders[i].DeliveredAt = &now
		}

		if err := writeList(ctx, s.store, ordersKey, orders); err != nil {
			return nil, err
		}

		s.hub.Emit(events.TopicOrders)

		return &orders[i], nil
	}

	return nil, errors.NotFoundError("Order not found")
}

func (s *OrderService) Delete(ctx context.Context, id string) error {
	orders, err := readList[models.Order](ctx, s.store, ordersKey)
	if err != nil {
		return err
	}

	kept := make([]models.Order, 0, len(orders))

	for _, o := range orders {
		if o.ID != id {
			kept = append(kept, o)
		}
	}

	if err := writeList(ctx, s.store, ordersKey, kept); err != nil {
		return err
	}

	s.hub.Emit(events.TopicOrders)

	return nil
}

// ByStore derives the seller's view of the ledger: an order belongs to the
// store when at least one of its line items references a product the store
// submitted.
func (s *OrderService) ByStore(ctx context.Context, storeID string) ([]models.Order, error) {
	productIDs, err := s.storeProductIDs(ctx, storeID)
	if err != nil {
		return nil, err
	}

	orders, err := readList[models.Order](ctx, s.store, ordersKey)
	if err != nil {
		return nil, err
	}

	out := make([]models.Order, 0)

	for _, o := range orders {
		for _, item := range o.Items {
			if productIDs[item.ID] {
				out = append(out, o)

				break
			}
		}
	}

	return out, nil
}

// RevenueForStore sums only the store's own line items across its orders,
// not whole-order totals.
func (s *OrderService) RevenueForStore(ctx context.Context, storeID string) (*models.StoreRevenueResponse, error) {
	productIDs, err := s.storeProductIDs(ctx, storeID)
	if err != nil {
		return nil, err
	}

	orders, err := s.ByStore(ctx, storeID)
	if err != nil {
		return nil, err
	}

	var revenue float64

	for _, o := range orders {
		for _, item := range o.Items {
			if productIDs[item.ID] {
				revenue += item.Price * float64(item.Qty)
			}
		}
	}

	return &models.StoreRevenueResponse{
		StoreID: storeID,
		Orders:  len(orders),
		Revenue: revenue,
	}, nil
}

func (s *OrderService) storeProductIDs(ctx context.Context, storeID string) (map[string]bool, error) {
	products, err := s.catalog.ByStore(ctx, storeID)
	if err != nil {
		return nil, err
	}

	ids := make(map[string]bool, len(products))
	for _, p := range products {
		ids[p.ID] = true
	}

	return ids, nil
}

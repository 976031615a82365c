package service_test

import (
	"context"
	"testing"
	"time"

	appErrors "github.com/devanshgoyal/shopkart/internal/errors"
	"github.com/devanshgoyal/shopkart/internal/events"
	"github.com/devanshgoyal/shopkart/internal/kv"
	"github.com/devanshgoyal/shopkart/internal/models"
	service "github.com/devanshgoyal/shopkart/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type orderFixture struct {
	store   kv.Store
	hub     *events.Hub
	cart    *service.CartService
	catalog *service.CatalogService
	orders  *service.OrderService
}

func newOrderFixture() *orderFixture {
	store := kv.NewMemory()
	hub := events.NewHub()
	cart := service.NewCartService(store)
	catalog := service.NewCatalogService(store, hub, testSeed())
	orders := service.NewOrderService(store, hub, cart, catalog)

	return &orderFixture{store: store, hub: hub, cart: cart, catalog: catalog, orders: orders}
}

func TestOrderCheckout(t *testing.T) {
	ctx := context.Background()
	buyer := &models.User{ID: "u1", Email: "buyer@example.com", Role: models.RoleBuyer}
	checkoutReq := &models.CheckoutRequest{
		ShippingAddress: models.Address{Address: "1 Main St", City: "Springfield", PostalCode: "12345"},
	}

	t.Run("Success - Snapshots Cart Into A Processing Order", func(t *testing.T) {
		// Arrange
		f := newOrderFixture()

		_, err := f.cart.AddItem(ctx, &models.AddItemRequest{ID: "3", Title: "Leather Backpack", Price: 89.99})
		require.NoError(t, err)

		// Act
		order, err := f.orders.Checkout(ctx, buyer, checkoutReq)

		// Assert
		assert.NoError(t, err)
		require.NotNil(t, order)
		assert.Contains(t, order.ID, "order_")
		assert.Equal(t, "u1", order.UserID)
		assert.Equal(t, models.OrderStatusProcessing, order.Status)
		assert.InDelta(t, 89.99, order.Total, 0.0001)
		require.Len(t, order.Items, 1)
		assert.Equal(t, "3", order.Items[0].ID)
		assert.Nil(t, order.DeliveredAt)
		assert.WithinDuration(t, time.Now(), order.CreatedAt, time.Second)
		require.NotNil(t, order.ShippingAddress)
		assert.Equal(t, "Springfield", order.ShippingAddress.City)
	})

	t.Run("Success - Empties The Cart", func(t *testing.T) {
		// Arrange
		f := newOrderFixture()

		_, err := f.cart.AddItem(ctx, &models.AddItemRequest{ID: "3", Title: "Leather Backpack", Price: 89.99})
		require.NoError(t, err)

		// Act
		_, err = f.orders.Checkout(ctx, buyer, checkoutReq)
		require.NoError(t, err)

		// Assert
		items, err := f.cart.Items(ctx)
		assert.NoError(t, err)
		assert.Empty(t, items)
	})

	t.Run("Success - Total Honors Quantities", func(t *testing.T) {
		// Arrange
		f := newOrderFixture()

		for range 3 {
			_, err := f.cart.AddItem(ctx, &models.AddItemRequest{ID: "8", Title: "Bluetooth Speaker", Price: 59.99})
			require.NoError(t, err)
		}

		// Act
		order, err := f.orders.Checkout(ctx, buyer, checkoutReq)

		// Assert
		assert.NoError(t, err)
		assert.InDelta(t, 59.99*3, order.Total, 0.0001)
	})

	t.Run("Failure - Empty Cart", func(t *testing.T) {
		// Arrange
		f := newOrderFixture()

		// Act
		order, err := f.orders.Checkout(ctx, buyer, checkoutReq)

		// Assert
		assert.Error(t, err)
		assert.Nil(t, order)

		appErr, ok := appErrors.IsAppError(err)
		require.True(t, ok)
		assert.Equal(t, appErrors.ErrCodeBadRequest, appErr.Code)
	})
}

func TestOrderUpdateStatus(t *testing.T) {
	ctx := context.Background()

	placeOrder := func(t *testing.T, f *orderFixture, status models.OrderStatus) *models.Order {
		t.Helper()

		order := &models.Order{
			ID:     "order_test",
			UserID: "u1",
			Items:  []models.OrderItem{{ID: "3", Title: "Leather Backpack", Price: 89.99, Qty: 1}},
			Total:  89.99, Status: status, CreatedAt: time.Now(),
		}
		require.NoError(t, f.orders.Add(ctx, order))

		return order
	}

	t.Run("Success - Forward Transition", func(t *testing.T) {
		// Arrange
		f := newOrderFixture()
		placeOrder(t, f, models.OrderStatusProcessing)

		// Act
		updated, err := f.orders.UpdateStatus(ctx, "order_test", models.OrderStatusShipped)

		// Assert
		assert.NoError(t, err)
		assert.Equal(t, models.OrderStatusShipped, updated.Status)
		assert.Nil(t, updated.DeliveredAt)
	})

	t.Run("Success - Delivered Stamps DeliveredAt", func(t *testing.T) {
		// Arrange
		f := newOrderFixture()
		placeOrder(t, f, models.OrderStatusShipped)

		// Act
		updated, err := f.orders.UpdateStatus(ctx, "order_test", models.OrderStatusDelivered)

		// Assert
		assert.NoError(t, err)
		assert.Equal(t, models.OrderStatusDelivered, updated.Status)
		require.NotNil(t, updated.DeliveredAt)
		assert.WithinDuration(t, time.Now(), *updated.DeliveredAt, time.Second)
	})

	t.Run("Success - Cancel Out Of Processing", func(t *testing.T) {
		// Arrange
		f := newOrderFixture()
		placeOrder(t, f, models.OrderStatusProcessing)

		// Act
		updated, err := f.orders.UpdateStatus(ctx, "order_test", models.OrderStatusCancelled)

		// Assert
		assert.NoError(t, err)
		assert.Equal(t, models.OrderStatusCancelled, updated.Status)
		assert.Nil(t, updated.DeliveredAt)
	})

	t.Run("Failure - Backward Transition", func(t *testing.T) {
		// Arrange
		f := newOrderFixture()
		placeOrder(t, f, models.OrderStatusShipped)

		// Act
		updated, err := f.orders.UpdateStatus(ctx, "order_test", models.OrderStatusProcessing)

		// Assert
		assert.Error(t, err)
		assert.Nil(t, updated)

		appErr, ok := appErrors.IsAppError(err)
		require.True(t, ok)
		assert.Equal(t, appErrors.ErrCodeConflict, appErr.Code)
	})

	t.Run("Failure - Cancel After Shipping", func(t *testing.T) {
		// Arrange
		f := newOrderFixture()
		placeOrder(t, f, models.OrderStatusShipped)

		// Act
		_, err := f.orders.UpdateStatus(ctx, "order_test", models.OrderStatusCancelled)

		// Assert
		assert.Error(t, err)
	})

	t.Run("Failure - Delivered Is Terminal", func(t *testing.T) {
		// Arrange
		f := newOrderFixture()
		placeOrder(t, f, models.OrderStatusDelivered)

		// Act
		_, err := f.orders.UpdateStatus(ctx, "order_test", models.OrderStatusShipped)

		// Assert
		assert.Error(t, err)
	})

	t.Run("Failure - Cancelled Is Terminal", func(t *testing.T) {
		// Arrange
		f := newOrderFixture()
		placeOrder(t, f, models.OrderStatusCancelled)

		// Act
		_, err := f.orders.UpdateStatus(ctx, "order_test", models.OrderStatusProcessing)

		// Assert
		assert.Error(t, err)
	})

	t.Run("Failure - Same Status", func(t *testing.T) {
		// Arrange
		f := newOrderFixture()
		placeOrder(t, f, models.OrderStatusProcessing)

		// Act
		_, err := f.orders.UpdateStatus(ctx, "order_test", models.OrderStatusProcessing)

		// Assert
		assert.Error(t, err)
	})

	t.Run("Failure - Unknown Order", func(t *testing.T) {
		// Arrange
		f := newOrderFixture()

		// Act
		_, err := f.orders.UpdateStatus(ctx, "missing", models.OrderStatusShipped)

		// Assert
		assert.Error(t, err)

		appErr, ok := appErrors.IsAppError(err)
		require.True(t, ok)
		assert.Equal(t, appErrors.ErrCodeNotFound, appErr.Code)
	})
}

func TestOrderByUser(t *testing.T) {
	ctx := context.Background()

	t.Run("Success - Filters The Shared Ledger", func(t *testing.T) {
		// Arrange
		f := newOrderFixture()

		require.NoError(t, f.orders.Add(ctx, &models.Order{ID: "o1", UserID: "u1", Status: models.OrderStatusProcessing}))
		require.NoError(t, f.orders.Add(ctx, &models.Order{ID: "o2", UserID: "u2", Status: models.OrderStatusProcessing}))
		require.NoError(t, f.orders.Add(ctx, &models.Order{ID: "o3", UserID: "u1", Status: models.OrderStatusShipped}))

		// Act
		orders, err := f.orders.ByUser(ctx, "u1")

		// Assert
		assert.NoError(t, err)
		require.Len(t, orders, 2)
		assert.Equal(t, "o1", orders[0].ID)
		assert.Equal(t, "o3", orders[1].ID)
	})
}

func TestOrderByStore(t *testing.T) {
	ctx := context.Background()

	seedStoreOrders := func(t *testing.T, f *orderFixture) {
		t.Helper()

		require.NoError(t, f.catalog.Save(ctx, &models.Product{ID: "sp1", Name: "Desk Organizer", Price: 24.99, Category: "Home", StoreID: "store_1"}))
		require.NoError(t, f.catalog.Save(ctx, &models.Product{ID: "sp2", Name: "Wall Clock", Price: 39.99, Category: "Home", StoreID: "store_2"}))

		// o1 mixes a store_1 item with a seed item; o2 is store_2 only.
		require.NoError(t, f.orders.Add(ctx, &models.Order{
			ID: "o1", UserID: "u1", Status: models.OrderStatusProcessing,
			Items: []models.OrderItem{
				{ID: "sp1", Title: "Desk Organizer", Price: 24.99, Qty: 2},
				{ID: "p1", Title: "Wireless Headphones", Price: 129.99, Qty: 1},
			},
			Total: 24.99*2 + 129.99,
		}))
		require.NoError(t, f.orders.Add(ctx, &models.Order{
			ID: "o2", UserID: "u2", Status: models.OrderStatusProcessing,
			Items: []models.OrderItem{{ID: "sp2", Title: "Wall Clock", Price: 39.99, Qty: 1}},
			Total: 39.99,
		}))
	}

	t.Run("Success - Matches Orders Containing The Store's Items", func(t *testing.T) {
		// Arrange
		f := newOrderFixture()
		seedStoreOrders(t, f)

		// Act
		orders, err := f.orders.ByStore(ctx, "store_1")

		// Assert
		assert.NoError(t, err)
		require.Len(t, orders, 1)
		assert.Equal(t, "o1", orders[0].ID)
	})

	t.Run("Success - Revenue Sums Only The Store's Line Items", func(t *testing.T) {
		// Arrange
		f := newOrderFixture()
		seedStoreOrders(t, f)

		// Act
		revenue, err := f.orders.RevenueForStore(ctx, "store_1")

		// Assert: the headphones line in o1 is not store_1 revenue
		assert.NoError(t, err)
		require.NotNil(t, revenue)
		assert.Equal(t, "store_1", revenue.StoreID)
		assert.Equal(t, 1, revenue.Orders)
		assert.InDelta(t, 24.99*2, revenue.Revenue, 0.0001)
	})

	t.Run("Success - Store With No Listings Sees Nothing", func(t *testing.T) {
		// Arrange
		f := newOrderFixture()
		seedStoreOrders(t, f)

		// Act
		orders, err := f.orders.ByStore(ctx, "store_3")

		// Assert
		assert.NoError(t, err)
		assert.Empty(t, orders)
	})
}

func TestOrderDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("Success - Removes The Order And Announces", func(t *testing.T) {
		// Arrange
		f := newOrderFixture()

		require.NoError(t, f.orders.Add(ctx, &models.Order{ID: "o1", UserID: "u1", Status: models.OrderStatusProcessing}))

		notified := 0
		defer f.hub.Subscribe(events.TopicOrders, func() { notified++ })()

		// Act
		err := f.orders.Delete(ctx, "o1")

		// Assert
		assert.NoError(t, err)
		assert.Equal(t, 1, notified)

		_, err = f.orders.ByID(ctx, "o1")
		assert.Error(t, err)
	})
}

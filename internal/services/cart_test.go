package service_test

import (
	"context"
	"testing"

	"github.com/devanshgoyal/shopkart/internal/kv"
	"github.com/devanshgoyal/shopkart/internal/models"
	service "github.com/devanshgoyal/shopkart/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCartAddItem(t *testing.T) {
	ctx := context.Background()

	t.Run("Success - First Add Inserts With Qty 1", func(t *testing.T) {
		// Arrange
		cartService := service.NewCartService(kv.NewMemory())

		// Act
		items, err := cartService.AddItem(ctx, &models.AddItemRequest{
			ID: "p1", Title: "Wireless Headphones", Price: 129.99,
		})

		// Assert
		assert.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, "p1", items[0].ID)
		assert.Equal(t, 1, items[0].Qty)
		assert.Equal(t, 129.99, items[0].Price)
	})

	t.Run("Success - Repeat Add Increments Existing Line", func(t *testing.T) {
		// Arrange
		cartService := service.NewCartService(kv.NewMemory())

		_, err := cartService.AddItem(ctx, &models.AddItemRequest{ID: "p1", Title: "Wireless Headphones", Price: 129.99})
		require.NoError(t, err)

		// Act
		items, err := cartService.AddItem(ctx, &models.AddItemRequest{ID: "p1", Title: "Wireless Headphones", Price: 129.99})

		// Assert
		assert.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, 2, items[0].Qty)
	})

	t.Run("Success - Repeat Add Keeps The First Price", func(t *testing.T) {
		// Arrange
		cartService := service.NewCartService(kv.NewMemory())

		_, err := cartService.AddItem(ctx, &models.AddItemRequest{ID: "p1", Title: "Wireless Headphones", Price: 129.99})
		require.NoError(t, err)

		// Act: the same product arrives with a changed price
		items, err := cartService.AddItem(ctx, &models.AddItemRequest{ID: "p1", Title: "Wireless Headphones", Price: 99.99})

		// Assert
		assert.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, 129.99, items[0].Price)
		assert.Equal(t, 2, items[0].Qty)
	})

	t.Run("Success - Distinct Products Get Separate Lines", func(t *testing.T) {
		// Arrange
		cartService := service.NewCartService(kv.NewMemory())

		_, err := cartService.AddItem(ctx, &models.AddItemRequest{ID: "p1", Title: "Wireless Headphones", Price: 129.99})
		require.NoError(t, err)

		// Act
		items, err := cartService.AddItem(ctx, &models.AddItemRequest{ID: "p2", Title: "Smartphone", Price: 699.0})

		// Assert
		assert.NoError(t, err)
		assert.Len(t, items, 2)
	})
}

func TestCartUpdateQty(t *testing.T) {
	ctx := context.Background()

	t.Run("Success - Sets The Quantity", func(t *testing.T) {
		// Arrange
		cartService := service.NewCartService(kv.NewMemory())

		_, err := cartService.AddItem(ctx, &models.AddItemRequest{ID: "p1", Title: "Wireless Headphones", Price: 129.99})
		require.NoError(t, err)

		// Act
		items, err := cartService.UpdateQty(ctx, "p1", 5)

		// Assert
		assert.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, 5, items[0].Qty)
	})

	t.Run("Success - Qty Zero Removes The Line", func(t *testing.T) {
		// Arrange
		cartService := service.NewCartService(kv.NewMemory())

		_, err := cartService.AddItem(ctx, &models.AddItemRequest{ID: "p1", Title: "Wireless Headphones", Price: 129.99})
		require.NoError(t, err)

		// Act
		items, err := cartService.UpdateQty(ctx, "p1", 0)

		// Assert
		assert.NoError(t, err)
		assert.Empty(t, items)
	})

	t.Run("Success - Qty Zero Equals RemoveItem", func(t *testing.T) {
		// Arrange
		first := service.NewCartService(kv.NewMemory())
		second := service.NewCartService(kv.NewMemory())

		for _, cartService := range []*service.CartService{first, second} {
			_, err := cartService.AddItem(ctx, &models.AddItemRequest{ID: "p1", Title: "Wireless Headphones", Price: 129.99})
			require.NoError(t, err)
			_, err = cartService.AddItem(ctx, &models.AddItemRequest{ID: "p2", Title: "Smartphone", Price: 699.0})
			require.NoError(t, err)
		}

		// Act
		viaUpdate, err := first.UpdateQty(ctx, "p1", 0)
		require.NoError(t, err)
		viaRemove, err := second.RemoveItem(ctx, "p1")
		require.NoError(t, err)

		// Assert
		assert.Equal(t, viaRemove, viaUpdate)
	})

	t.Run("Success - Unknown Id Leaves Cart Unchanged", func(t *testing.T) {
		// Arrange
		cartService := service.NewCartService(kv.NewMemory())

		_, err := cartService.AddItem(ctx, &models.AddItemRequest{ID: "p1", Title: "Wireless Headphones", Price: 129.99})
		require.NoError(t, err)

		// Act
		items, err := cartService.UpdateQty(ctx, "missing", 3)

		// Assert
		assert.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, 1, items[0].Qty)
	})
}

func TestCartRemoveItem(t *testing.T) {
	ctx := context.Background()

	t.Run("Success - Removes Only The Matching Line", func(t *testing.T) {
		// Arrange
		cartService := service.NewCartService(kv.NewMemory())

		_, err := cartService.AddItem(ctx, &models.AddItemRequest{ID: "p1", Title: "Wireless Headphones", Price: 129.99})
		require.NoError(t, err)
		_, err = cartService.AddItem(ctx, &models.AddItemRequest{ID: "p2", Title: "Smartphone", Price: 699.0})
		require.NoError(t, err)

		// Act
		items, err := cartService.RemoveItem(ctx, "p1")

		// Assert
		assert.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, "p2", items[0].ID)
	})
}

func TestCartTotal(t *testing.T) {
	ctx := context.Background()

	t.Run("Success - Empty Cart Totals Zero", func(t *testing.T) {
		// Arrange
		cartService := service.NewCartService(kv.NewMemory())

		// Act
		total, err := cartService.Total(ctx)

		// Assert
		assert.NoError(t, err)
		assert.Equal(t, float64(0), total)
	})

	t.Run("Success - Sums Price Times Quantity", func(t *testing.T) {
		// Arrange
		cartService := service.NewCartService(kv.NewMemory())

		_, err := cartService.AddItem(ctx, &models.AddItemRequest{ID: "p1", Title: "Wireless Headphones", Price: 129.99})
		require.NoError(t, err)
		_, err = cartService.AddItem(ctx, &models.AddItemRequest{ID: "p1", Title: "Wireless Headphones", Price: 129.99})
		require.NoError(t, err)
		_, err = cartService.AddItem(ctx, &models.AddItemRequest{ID: "8", Title: "Bluetooth Speaker", Price: 59.99})
		require.NoError(t, err)

		// Act
		total, err := cartService.Total(ctx)

		// Assert
		assert.NoError(t, err)
		assert.InDelta(t, 129.99*2+59.99, total, 0.0001)
	})
}

func TestCartClear(t *testing.T) {
	ctx := context.Background()

	t.Run("Success - Leaves An Empty Cart", func(t *testing.T) {
		// Arrange
		cartService := service.NewCartService(kv.NewMemory())

		_, err := cartService.AddItem(ctx, &models.AddItemRequest{ID: "p1", Title: "Wireless Headphones", Price: 129.99})
		require.NoError(t, err)

		// Act
		err = cartService.Clear(ctx)

		// Assert
		assert.NoError(t, err)

		items, err := cartService.Items(ctx)
		assert.NoError(t, err)
		assert.Empty(t, items)
	})
}

func TestCartCorruptedRecord(t *testing.T) {
	ctx := context.Background()

	t.Run("Success - Malformed Record Reads As Empty", func(t *testing.T) {
		// Arrange
		store := kv.NewMemory()
		require.NoError(t, store.Set(ctx, "cart", "{broken"))

		cartService := service.NewCartService(store)

		// Act
		items, err := cartService.Items(ctx)

		// Assert
		assert.NoError(t, err)
		assert.Empty(t, items)
	})
}

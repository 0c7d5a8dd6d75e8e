// AngelaMos | 2026
// store_integration_test.go

//go:build integration

package order

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/carterperez-dev/templates/storefront/internal/config"
	"github.com/carterperez-dev/templates/storefront/internal/core"
)

func setupStore(t *testing.T) (Store, *core.Database) {
	t.Helper()
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:alpine",
		postgres.WithDatabase("storefront"),
		postgres.WithUsername("storefront"),
		postgres.WithPassword("storefront"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = pgContainer.Terminate(context.Background()) //nolint:errcheck // test teardown
	})

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := core.NewDatabase(ctx, config.DatabaseConfig{
		URL:          connStr,
		MaxOpenConns: 30,
		MaxIdleConns: 5,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() }) //nolint:errcheck // test teardown

	require.NoError(t, core.MigrateUp(ctx, db.DB.DB))

	seed := []string{
		`INSERT INTO users (id, username, email, password_hash, role) VALUES
			(1, 'alice', 'alice@example.com', 'x', 'user'),
			(2, 'bob', 'bob@example.com', 'x', 'user'),
			(3, 'root', 'root@example.com', 'x', 'admin')`,
		`INSERT INTO categories (id, name) VALUES (1, 'Shoes')`,
		`INSERT INTO products (id, name, price, stock, category_id)
			VALUES (10, 'Runner', 50.00, 10, 1)`,
	}
	for _, stmt := range seed {
		_, err := db.DB.ExecContext(ctx, stmt)
		require.NoError(t, err)
	}

	return NewStore(db.DB), db
}

func stockOf(t *testing.T, db *core.Database, productID int64) int {
	t.Helper()
	var stock int
	require.NoError(t, db.DB.GetContext(context.Background(), &stock,
		`SELECT stock FROM products WHERE id = $1`, productID))
	return stock
}

func TestStoreIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	store, db := setupStore(t)
	svc := newTestService(store, &stubNotifier{})
	ctx := context.Background()

	t.Run("concurrent reservations never oversell", func(t *testing.T) {
		var (
			wg        sync.WaitGroup
			mu        sync.Mutex
			succeeded int
			rejected  int
		)
		for range 25 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := svc.PlaceOrder(ctx, alice, PlaceOrderRequest{ProductID: 10, Quantity: 1})
				mu.Lock()
				defer mu.Unlock()
				switch {
				case err == nil:
					succeeded++
				case errors.Is(err, core.ErrInsufficientStock):
					rejected++
				default:
					t.Errorf("unexpected error: %v", err)
				}
			}()
		}
		wg.Wait()

		assert.Equal(t, 10, succeeded)
		assert.Equal(t, 15, rejected)
		assert.Equal(t, 0, stockOf(t, db, 10))
	})

	t.Run("listing is scoped by role", func(t *testing.T) {
		mine, err := svc.ListOrders(ctx, alice)
		require.NoError(t, err)
		assert.Len(t, mine, 10)
		assert.Equal(t, "Runner", mine[0].ProductName)
		assert.Equal(t, "alice", mine[0].Username)
		assert.Equal(t, "50.00", mine[0].TotalPrice.String())

		theirs, err := svc.ListOrders(ctx, bob)
		require.NoError(t, err)
		assert.Empty(t, theirs)

		all, err := svc.ListOrders(ctx, root)
		require.NoError(t, err)
		assert.Len(t, all, 10)
	})

	t.Run("status and delete are owner only", func(t *testing.T) {
		mine, err := svc.ListOrders(ctx, alice)
		require.NoError(t, err)
		orderID := mine[0].ID

		_, err = svc.UpdateStatus(ctx, bob, orderID, StatusCompleted)
		assert.ErrorIs(t, err, core.ErrNotFound)
		assert.ErrorIs(t, svc.DeleteOrder(ctx, root, orderID), core.ErrNotFound)

		updated, err := svc.UpdateStatus(ctx, alice, orderID, StatusCompleted)
		require.NoError(t, err)
		assert.Equal(t, StatusCompleted, updated.Status)

		require.NoError(t, svc.DeleteOrder(ctx, alice, orderID))
		assert.Equal(t, 1, stockOf(t, db, 10))

		assert.ErrorIs(t, svc.DeleteOrder(ctx, alice, orderID), core.ErrNotFound)
	})
}

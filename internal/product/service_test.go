// AngelaMos | 2026
// service_test.go

package product

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/carterperez-dev/templates/storefront/internal/core"
)

// reservingRepo simulates an order committing its stock decrement right
// after the service has read the product.
type reservingRepo struct {
	*memRepo
	reserve int
	done    bool
}

func (r *reservingRepo) GetByID(ctx context.Context, id int64) (*Product, error) {
	p, err := r.memRepo.GetByID(ctx, id)
	if err != nil || r.done {
		return p, err
	}
	r.done = true

	r.mu.Lock()
	stored := r.products[id]
	stored.Stock -= r.reserve
	r.products[id] = stored
	r.mu.Unlock()

	return p, nil
}

func seedRunner(t *testing.T, repo *memRepo) int64 {
	t.Helper()
	price, err := core.ParseMoney("50.00")
	require.NoError(t, err)
	p := &Product{Name: "Runner", Price: price, Stock: 10, CategoryID: 1}
	require.NoError(t, repo.Create(context.Background(), p))
	return p.ID
}

func TestUpdateKeepsStockReservedMeanwhile(t *testing.T) {
	base := newMemRepo()
	id := seedRunner(t, base)
	repo := &reservingRepo{memRepo: base, reserve: 3}
	svc := NewService(repo, &stubImages{}, zap.NewNop())

	name := "Runner v2"
	updated, err := svc.Update(context.Background(), id, UpdateProductRequest{Name: &name}, nil)
	require.NoError(t, err)

	assert.Equal(t, "Runner v2", updated.Name)
	assert.Equal(t, 7, updated.Stock)
	assert.Equal(t, 7, base.products[id].Stock)
}

func TestUpdateWritesExplicitStock(t *testing.T) {
	base := newMemRepo()
	id := seedRunner(t, base)
	svc := NewService(base, &stubImages{}, zap.NewNop())

	stock := 25
	updated, err := svc.Update(context.Background(), id, UpdateProductRequest{Stock: &stock}, nil)
	require.NoError(t, err)
	assert.Equal(t, 25, updated.Stock)
}

package stock

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/backend-crm/internal/common"
)

type stubLookup struct {
	mu       sync.Mutex
	products map[uuid.UUID]Product
	fail     map[uuid.UUID]error
	inFlight int32
	peak     int32
	delay    time.Duration
}

func (s *stubLookup) LookupProduct(ctx context.Context, id uuid.UUID) (Product, error) {
	cur := atomic.AddInt32(&s.inFlight, 1)
	defer atomic.AddInt32(&s.inFlight, -1)
	for {
		peak := atomic.LoadInt32(&s.peak)
		if cur <= peak || atomic.CompareAndSwapInt32(&s.peak, peak, cur) {
			break
		}
	}
	if s.delay > 0 {
		time.Sleep(s.delay)
	}
	if err := ctx.Err(); err != nil {
		return Product{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err, ok := s.fail[id]; ok {
		return Product{}, err
	}
	p, ok := s.products[id]
	if !ok {
		return Product{}, common.NotFound("product", id.String())
	}
	return p, nil
}

func newStub(products ...Product) *stubLookup {
	s := &stubLookup{products: map[uuid.UUID]Product{}, fail: map[uuid.UUID]error{}}
	for _, p := range products {
		s.products[p.ID] = p
	}
	return s
}

func TestValidateAllInStock(t *testing.T) {
	a := Product{ID: uuid.New(), Name: "Widget", Stock: 10}
	b := Product{ID: uuid.New(), Name: "Gadget", Stock: 3}
	v := Validator{Products: newStub(a, b), Concurrency: 4}

	res, err := v.Validate(context.Background(), []Item{{a.ID, 10}, {b.ID, 1}})
	require.NoError(t, err)
	require.True(t, res.IsValid)
	require.Empty(t, res.Errors)
	require.Equal(t, []Detail{
		{ProductID: a.ID, ProductName: "Widget", AvailableStock: 10, RequestedQuantity: 10},
		{ProductID: b.ID, ProductName: "Gadget", AvailableStock: 3, RequestedQuantity: 1},
	}, res.ProductDetails)
	require.NoError(t, res.Err())
}

func TestValidateAccumulatesErrors(t *testing.T) {
	a := Product{ID: uuid.New(), Name: "Widget", Stock: 2}
	b := Product{ID: uuid.New(), Name: "Gadget", Stock: 5}
	missing := uuid.New()
	v := Validator{Products: newStub(a, b), Concurrency: 2}

	res, err := v.Validate(context.Background(), []Item{{a.ID, 5}, {missing, 1}, {b.ID, 0}})
	require.NoError(t, err)
	require.False(t, res.IsValid)
	require.Equal(t, []string{
		"Insufficient stock for Widget: available 2, requested 5",
		"Product not found: " + missing.String(),
		"Invalid quantity for Gadget: 0",
	}, res.Errors)
	require.Len(t, res.ProductDetails, 2)

	err = res.Err()
	require.ErrorIs(t, err, common.ErrInsufficientStock)
	var appErr *common.AppError
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, res.Errors, appErr.Details.(map[string]any)["errors"])
}

func TestValidatePropagatesInfrastructureErrors(t *testing.T) {
	a := Product{ID: uuid.New(), Name: "Widget", Stock: 2}
	stub := newStub(a)
	broken := uuid.New()
	stub.fail[broken] = errors.New("connection reset")
	v := Validator{Products: stub, Concurrency: 2}

	_, err := v.Validate(context.Background(), []Item{{a.ID, 1}, {broken, 1}})
	require.ErrorContains(t, err, "connection reset")
	require.NotErrorIs(t, err, common.ErrNotFound)
}

func TestValidateRespectsConcurrencyLimit(t *testing.T) {
	stub := newStub()
	items := make([]Item, 0, 8)
	for i := 0; i < 8; i++ {
		p := Product{ID: uuid.New(), Name: "P", Stock: 1}
		stub.products[p.ID] = p
		items = append(items, Item{p.ID, 1})
	}
	stub.delay = 5 * time.Millisecond

	res, err := Validator{Products: stub, Concurrency: 3}.Validate(context.Background(), items)
	require.NoError(t, err)
	require.True(t, res.IsValid)
	require.LessOrEqual(t, atomic.LoadInt32(&stub.peak), int32(3))

	stub.peak = 0
	_, err = Validator{Products: stub}.Validate(context.Background(), items)
	require.NoError(t, err)
	require.Equal(t, int32(1), atomic.LoadInt32(&stub.peak))
}

func TestValidateHonoursCancellation(t *testing.T) {
	a := Product{ID: uuid.New(), Name: "Widget", Stock: 2}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Validator{Products: newStub(a)}.Validate(ctx, []Item{{a.ID, 1}})
	require.ErrorIs(t, err, context.Canceled)
}

func TestParseReason(t *testing.T) {
	r, err := ParseReason("")
	require.NoError(t, err)
	require.Equal(t, ReasonAdjustment, r)

	_, err = ParseReason(string(ReasonPresaleConversion))
	require.ErrorIs(t, err, common.ErrInvalidInput)
}

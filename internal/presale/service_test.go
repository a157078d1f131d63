package presale

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/backend-crm/internal/common"
	"github.com/noah-isme/backend-crm/internal/db"
	dbgen "github.com/noah-isme/backend-crm/internal/db/gen"
	"github.com/noah-isme/backend-crm/internal/events"
	"github.com/noah-isme/backend-crm/internal/pricing"
	"github.com/noah-isme/backend-crm/internal/stock"
)

type memState struct {
	customers map[uuid.UUID]bool
	products  map[uuid.UUID]stock.Product
	presales  map[uuid.UUID]PreSale
	history   map[uuid.UUID][]StatusChange
	consumed  []stock.Item
}

func (s memState) clone() memState {
	out := memState{
		customers: map[uuid.UUID]bool{},
		products:  map[uuid.UUID]stock.Product{},
		presales:  map[uuid.UUID]PreSale{},
		history:   map[uuid.UUID][]StatusChange{},
		consumed:  append([]stock.Item(nil), s.consumed...),
	}
	for k, v := range s.customers {
		out.customers[k] = v
	}
	for k, v := range s.products {
		out.products[k] = v
	}
	for k, v := range s.presales {
		out.presales[k] = v
	}
	for k, v := range s.history {
		out.history[k] = append([]StatusChange(nil), v...)
	}
	return out
}

// memRepo commits a transaction by swapping in the mutated copy.
type memRepo struct {
	state memState
}

func newMemRepo() *memRepo {
	return &memRepo{state: memState{}.clone()}
}

type memTx struct {
	st *memState
}

func lookup(st *memState, id uuid.UUID) (stock.Product, error) {
	p, ok := st.products[id]
	if !ok {
		return stock.Product{}, common.NotFound("product", id.String())
	}
	return p, nil
}

func (r *memRepo) LookupProduct(_ context.Context, id uuid.UUID) (stock.Product, error) {
	return lookup(&r.state, id)
}

func (r *memRepo) Get(_ context.Context, id uuid.UUID) (PreSale, error) {
	p, ok := r.state.presales[id]
	if !ok {
		return PreSale{}, common.NotFound("presale", id.String())
	}
	return p, nil
}

func (r *memRepo) List(_ context.Context, params ListParams) ([]PreSale, int64, error) {
	var out []PreSale
	for _, p := range r.state.presales {
		if params.Status != nil && p.Status != *params.Status {
			continue
		}
		p.Items = nil
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, int64(len(out)), nil
}

func (r *memRepo) History(_ context.Context, id uuid.UUID) ([]StatusChange, error) {
	return r.state.history[id], nil
}

func (r *memRepo) InTx(_ context.Context, fn func(tx TxRepository) error) error {
	next := r.state.clone()
	if err := fn(&memTx{st: &next}); err != nil {
		return err
	}
	r.state = next
	return nil
}

func (t *memTx) LookupProduct(_ context.Context, id uuid.UUID) (stock.Product, error) {
	return lookup(t.st, id)
}

func (t *memTx) CustomerExists(_ context.Context, id uuid.UUID) (bool, error) {
	return t.st.customers[id], nil
}

func (t *memTx) Insert(_ context.Context, p PreSale) (PreSale, error) {
	p.ID = uuid.New()
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	t.st.presales[p.ID] = p
	return p, nil
}

func (t *memTx) GetForUpdate(_ context.Context, id uuid.UUID) (PreSale, error) {
	p, ok := t.st.presales[id]
	if !ok {
		return PreSale{}, common.NotFound("presale", id.String())
	}
	return p, nil
}

func (t *memTx) Update(_ context.Context, p PreSale) (PreSale, error) {
	t.st.presales[p.ID] = p
	return p, nil
}

func (t *memTx) UpdateStatus(_ context.Context, id uuid.UUID, from, to Status, actor string) (PreSale, error) {
	p := t.st.presales[id]
	p.Status = to
	t.st.presales[id] = p
	t.st.history[id] = append(t.st.history[id], StatusChange{From: from, To: to, Actor: actor, ChangedAt: time.Now()})
	return p, nil
}

func (t *memTx) Delete(_ context.Context, id uuid.UUID) error {
	delete(t.st.presales, id)
	return nil
}

func (t *memTx) ConsumeStock(_ context.Context, _ uuid.UUID, items []stock.Item, _ string) error {
	for _, it := range items {
		p := t.st.products[it.ProductID]
		if p.Stock < it.Quantity {
			return common.InsufficientStock([]string{"short"}, nil)
		}
		p.Stock -= it.Quantity
		t.st.products[it.ProductID] = p
		t.st.consumed = append(t.st.consumed, it)
	}
	return nil
}

type recordedEvent struct {
	topic   string
	id      pgtype.UUID
	payload any
}

type stubEmitter struct {
	events []recordedEvent
	err    error
}

func (s *stubEmitter) Emit(_ context.Context, topic string, id pgtype.UUID, payload any) (dbgen.DomainEvent, error) {
	s.events = append(s.events, recordedEvent{topic: topic, id: id, payload: payload})
	return dbgen.DomainEvent{Topic: topic, AggregateID: id}, s.err
}

func (s *stubEmitter) topics() []string {
	out := make([]string, 0, len(s.events))
	for _, ev := range s.events {
		out = append(out, ev.topic)
	}
	return out
}

type fixture struct {
	repo     *memRepo
	emitter  *stubEmitter
	svc      *Service
	customer uuid.UUID
	widget   uuid.UUID
	gadget   uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		repo:     newMemRepo(),
		emitter:  &stubEmitter{},
		customer: uuid.New(),
		widget:   uuid.New(),
		gadget:   uuid.New(),
	}
	f.repo.state.customers[f.customer] = true
	f.repo.state.products[f.widget] = stock.Product{ID: f.widget, Name: "Widget", Stock: 10}
	f.repo.state.products[f.gadget] = stock.Product{ID: f.gadget, Name: "Gadget", Stock: 3}
	f.svc = NewService(ServiceConfig{Repo: f.repo, Events: f.emitter, StockConcurrency: 2})
	return f
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func (f *fixture) create(t *testing.T, items ...pricing.Item) PreSale {
	t.Helper()
	out, err := f.svc.Create(context.Background(), CreateInput{
		CustomerID: f.customer,
		Items:      items,
		Discount:   pricing.DiscountSpec{Type: pricing.DiscountPercentage, Value: dec("10")},
		Actor:      "user-1",
	})
	require.NoError(t, err)
	return out
}

func TestCreateForcesPendingAndComputesTotals(t *testing.T) {
	f := newFixture(t)
	out := f.create(t,
		pricing.Item{ProductID: f.widget, Quantity: 2, UnitPrice: dec("50"), Discount: dec("5")},
		pricing.Item{ProductID: f.gadget, Quantity: 1, UnitPrice: dec("20")},
	)
	require.Equal(t, StatusPending, out.Status)
	require.True(t, dec("115").Equal(out.Subtotal), out.Subtotal.String())
	require.True(t, dec("11.5").Equal(out.DiscountAmount))
	require.True(t, dec("103.5").Equal(out.Total))
	require.Len(t, out.Items, 2)
	require.Equal(t, []string{events.TopicPresaleCreated}, f.emitter.topics())
	require.Equal(t, db.UUID(out.ID), f.emitter.events[0].id)
}

func TestCreateAppliesTax(t *testing.T) {
	f := newFixture(t)
	f.svc.taxBps = 1000
	out := f.create(t, pricing.Item{ProductID: f.widget, Quantity: 1, UnitPrice: dec("100")})
	require.True(t, dec("90").Equal(out.Total))
	require.True(t, dec("9").Equal(out.TaxAmount))
	require.True(t, dec("99").Equal(out.GrandTotal))
}

func TestCreateRejectsUnknownCustomer(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Create(context.Background(), CreateInput{
		CustomerID: uuid.New(),
		Items:      []pricing.Item{{ProductID: f.widget, Quantity: 1, UnitPrice: dec("1")}},
	})
	require.True(t, errors.Is(err, common.ErrNotFound))
	require.Empty(t, f.repo.state.presales)
	require.Empty(t, f.emitter.events)
}

func TestCreateReportsEveryStockProblem(t *testing.T) {
	f := newFixture(t)
	missing := uuid.New()
	_, err := f.svc.Create(context.Background(), CreateInput{
		CustomerID: f.customer,
		Items: []pricing.Item{
			{ProductID: f.gadget, Quantity: 5, UnitPrice: dec("1")},
			{ProductID: missing, Quantity: 1, UnitPrice: dec("1")},
		},
	})
	require.True(t, errors.Is(err, common.ErrInsufficientStock))
	var appErr *common.AppError
	require.True(t, errors.As(err, &appErr))
	details := appErr.Details.(map[string]any)
	require.Equal(t, []string{
		"Insufficient stock for Gadget: available 3, requested 5",
		"Product not found: " + missing.String(),
	}, details["errors"])
	require.Empty(t, f.repo.state.presales)
}

func TestCreateRejectsNonPositiveQuantity(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Create(context.Background(), CreateInput{
		CustomerID: f.customer,
		Items:      []pricing.Item{{ProductID: f.widget, Quantity: 0, UnitPrice: dec("1")}},
	})
	require.True(t, errors.Is(err, common.ErrInvalidInput))
}

func TestUpdateSwapsDiscountTypeLosslessly(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	out := f.create(t, pricing.Item{ProductID: f.widget, Quantity: 2, UnitPrice: dec("100")})
	require.True(t, dec("20").Equal(out.DiscountAmount))

	fixed := pricing.DiscountFixed
	out, err := f.svc.Update(ctx, out.ID, UpdateInput{DiscountType: &fixed})
	require.NoError(t, err)
	require.Equal(t, pricing.DiscountFixed, out.DiscountType)
	require.True(t, dec("20").Equal(out.Discount), out.Discount.String())
	require.True(t, dec("180").Equal(out.Total))

	pct := pricing.DiscountPercentage
	out, err = f.svc.Update(ctx, out.ID, UpdateInput{DiscountType: &pct})
	require.NoError(t, err)
	require.True(t, dec("10").Equal(out.Discount), out.Discount.String())
	require.True(t, dec("180").Equal(out.Total))
}

func TestUpdateRecomputesItemsAndRevalidatesStock(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	out := f.create(t, pricing.Item{ProductID: f.widget, Quantity: 1, UnitPrice: dec("10")})

	_, err := f.svc.Update(ctx, out.ID, UpdateInput{Items: []pricing.Item{{ProductID: f.gadget, Quantity: 4, UnitPrice: dec("10")}}})
	require.True(t, errors.Is(err, common.ErrInsufficientStock))

	notes := "call back friday"
	out, err = f.svc.Update(ctx, out.ID, UpdateInput{
		Items: []pricing.Item{{ProductID: f.gadget, Quantity: 3, UnitPrice: dec("10")}},
		Notes: &notes,
	})
	require.NoError(t, err)
	require.True(t, dec("30").Equal(out.Subtotal))
	require.True(t, dec("27").Equal(out.Total))
	require.Equal(t, notes, out.Notes)
	require.Equal(t, StatusPending, out.Status)
}

func TestConvertedPresaleIsImmutable(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	out := f.create(t, pricing.Item{ProductID: f.widget, Quantity: 4, UnitPrice: dec("10")})

	out, err := f.svc.ChangeStatus(ctx, out.ID, "converted", "user-1")
	require.NoError(t, err)
	require.Equal(t, StatusConverted, out.Status)
	require.Equal(t, int64(6), f.repo.state.products[f.widget].Stock)
	require.Equal(t, []string{
		events.TopicPresaleCreated,
		events.TopicPresaleStatusChanged,
		events.TopicPresaleConverted,
	}, f.emitter.topics())

	notes := "late edit"
	_, err = f.svc.Update(ctx, out.ID, UpdateInput{Notes: &notes})
	require.True(t, errors.Is(err, common.ErrConflict))

	err = f.svc.Delete(ctx, out.ID)
	require.True(t, errors.Is(err, common.ErrConflict))
	require.Contains(t, f.repo.state.presales, out.ID)

	_, err = f.svc.ChangeStatus(ctx, out.ID, "cancelled", "user-1")
	require.True(t, errors.Is(err, common.ErrInvalidStatusTransition))
}

func TestConvertWithInsufficientStockLeavesStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	out := f.create(t, pricing.Item{ProductID: f.gadget, Quantity: 3, UnitPrice: dec("10")})

	p := f.repo.state.products[f.gadget]
	p.Stock = 1
	f.repo.state.products[f.gadget] = p

	_, err := f.svc.ChangeStatus(ctx, out.ID, "converted", "user-1")
	require.True(t, errors.Is(err, common.ErrInsufficientStock))

	got, err := f.svc.Get(ctx, out.ID)
	require.NoError(t, err)
	require.Equal(t, StatusPending, got.Status)
	require.Equal(t, int64(1), f.repo.state.products[f.gadget].Stock)
	require.Empty(t, f.repo.state.consumed)
	require.Empty(t, f.repo.state.history[out.ID])
}

func TestChangeStatusSameStatusIsNoop(t *testing.T) {
	f := newFixture(t)
	out := f.create(t, pricing.Item{ProductID: f.widget, Quantity: 1, UnitPrice: dec("10")})

	got, err := f.svc.ChangeStatus(context.Background(), out.ID, "pending", "user-1")
	require.NoError(t, err)
	require.Equal(t, StatusPending, got.Status)
	require.Empty(t, f.repo.state.history[out.ID])
	require.Equal(t, []string{events.TopicPresaleCreated}, f.emitter.topics())
}

func TestChangeStatusRecordsHistory(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	out := f.create(t, pricing.Item{ProductID: f.widget, Quantity: 1, UnitPrice: dec("10")})

	_, err := f.svc.ChangeStatus(ctx, out.ID, "approved", "manager")
	require.NoError(t, err)
	_, err = f.svc.ChangeStatus(ctx, out.ID, "cancelled", "manager")
	require.NoError(t, err)

	hist, err := f.svc.History(ctx, out.ID)
	require.NoError(t, err)
	require.Len(t, hist, 2)
	require.Equal(t, StatusPending, hist[0].From)
	require.Equal(t, StatusApproved, hist[0].To)
	require.Equal(t, StatusCancelled, hist[1].To)
	require.Equal(t, "manager", hist[1].Actor)

	_, err = f.svc.ChangeStatus(ctx, out.ID, "pending", "manager")
	require.True(t, errors.Is(err, common.ErrInvalidStatusTransition))
}

func TestChangeStatusRejectsUnknownStatus(t *testing.T) {
	f := newFixture(t)
	out := f.create(t, pricing.Item{ProductID: f.widget, Quantity: 1, UnitPrice: dec("10")})
	_, err := f.svc.ChangeStatus(context.Background(), out.ID, "shipped", "user-1")
	require.True(t, errors.Is(err, common.ErrInvalidInput))
}

func TestDeletePendingPresale(t *testing.T) {
	f := newFixture(t)
	out := f.create(t, pricing.Item{ProductID: f.widget, Quantity: 1, UnitPrice: dec("10")})
	require.NoError(t, f.svc.Delete(context.Background(), out.ID))
	require.NotContains(t, f.repo.state.presales, out.ID)
	require.Equal(t, events.TopicPresaleDeleted, f.emitter.topics()[1])

	err := f.svc.Delete(context.Background(), out.ID)
	require.True(t, errors.Is(err, common.ErrNotFound))
}

func TestEmitFailureDoesNotFailWrite(t *testing.T) {
	f := newFixture(t)
	f.emitter.err = errors.New("broker down")
	out := f.create(t, pricing.Item{ProductID: f.widget, Quantity: 1, UnitPrice: dec("10")})
	require.Contains(t, f.repo.state.presales, out.ID)
}

func TestPreviewReportsStockAsData(t *testing.T) {
	f := newFixture(t)
	prev, err := f.svc.Preview(context.Background(),
		[]pricing.Item{{ProductID: f.gadget, Quantity: 9, UnitPrice: dec("2.5")}},
		pricing.DiscountSpec{Type: pricing.DiscountFixed, Value: dec("100")})
	require.NoError(t, err)
	require.True(t, dec("22.5").Equal(prev.Totals.Subtotal))
	require.True(t, prev.Totals.Total.IsZero())
	require.False(t, prev.Stock.IsValid)
	require.Len(t, prev.Stock.Errors, 1)
	require.Empty(t, f.repo.state.presales)
}

func TestListDefaultsPagination(t *testing.T) {
	f := newFixture(t)
	f.create(t, pricing.Item{ProductID: f.widget, Quantity: 1, UnitPrice: dec("10")})
	res, err := f.svc.List(context.Background(), ListParams{})
	require.NoError(t, err)
	require.Equal(t, 1, res.Page)
	require.Equal(t, 20, res.Limit)
	require.Equal(t, int64(1), res.Total)
	require.Nil(t, res.Items[0].Items)
}

func (f *fixture) item(product uuid.UUID, qty int64) pricing.Item {
	return pricing.Item{ProductID: product, Quantity: qty, UnitPrice: dec("10")}
}

func TestCreateChecksCombinedQuantityOfRepeatedProduct(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Create(context.Background(), CreateInput{
		CustomerID: f.customer,
		Items:      []pricing.Item{f.item(f.widget, 6), f.item(f.widget, 6)},
	})
	require.True(t, errors.Is(err, common.ErrInsufficientStock))
	var appErr *common.AppError
	require.True(t, errors.As(err, &appErr))
	details := appErr.Details.(map[string]any)
	require.Equal(t, []string{"Insufficient stock for Widget: available 10, requested 12"}, details["errors"])
	require.Empty(t, f.repo.state.presales)
}

func TestStockItemsMergesRepeatedProducts(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	got := stockItems([]pricing.Item{
		{ProductID: a, Quantity: 2},
		{ProductID: b, Quantity: 1},
		{ProductID: a, Quantity: 3},
	})
	require.Equal(t, []stock.Item{{ProductID: a, Quantity: 5}, {ProductID: b, Quantity: 1}}, got)
}

// Package product manages the product catalog and its stock ledger.
package product

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/noah-isme/backend-crm/internal/cache"
	"github.com/noah-isme/backend-crm/internal/common"
	"github.com/noah-isme/backend-crm/internal/db"
	dbgen "github.com/noah-isme/backend-crm/internal/db/gen"
	"github.com/noah-isme/backend-crm/internal/events"
	"github.com/noah-isme/backend-crm/internal/pricing"
	"github.com/noah-isme/backend-crm/internal/stock"
)

// Product is the API representation of a catalog product.
type Product struct {
	ID          uuid.UUID       `json:"id"`
	SKU         string          `json:"sku"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Cost        decimal.Decimal `json:"cost"`
	Price       decimal.Decimal `json:"price"`
	Stock       int64           `json:"stock"`
	Active      bool            `json:"active"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// Movement is one entry of the stock ledger.
type Movement struct {
	ID          uuid.UUID  `json:"id"`
	Delta       int64      `json:"delta"`
	StockAfter  int64      `json:"stockAfter"`
	Reason      string     `json:"reason"`
	ReferenceID *uuid.UUID `json:"referenceId,omitempty"`
	Actor       string     `json:"actor,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// Input carries the editable product fields.
type Input struct {
	SKU         string           `json:"sku" validate:"required,max=64"`
	Name        string           `json:"name" validate:"required,max=200"`
	Description string           `json:"description" validate:"max=2000"`
	Cost        *decimal.Decimal `json:"cost" validate:"required"`
	Price       *decimal.Decimal `json:"price" validate:"required"`
	// Stock is only honoured on create. Later changes go through AdjustStock.
	Stock  int64 `json:"stock" validate:"gte=0"`
	Active *bool `json:"active"`
}

// ListParams filters product listings.
type ListParams struct {
	Search string
	Active *bool
	Page   int
	Limit  int
}

// ListResult is a page of products.
type ListResult struct {
	Items []Product
	Total int64
	Page  int
	Limit int
}

// Service implements catalog operations on Postgres with a Redis read cache.
type Service struct {
	pool   db.Pool
	q      *dbgen.Queries
	cache  *cache.Cache
	events events.Emitter
	log    zerolog.Logger
}

// ServiceConfig groups Service dependencies.
type ServiceConfig struct {
	Pool   db.Pool
	Cache  *cache.Cache
	Events events.Emitter
	Logger *zerolog.Logger
}

// NewService constructs a Service.
func NewService(cfg ServiceConfig) *Service {
	log := zerolog.Nop()
	if cfg.Logger != nil {
		log = *cfg.Logger
	}
	return &Service{
		pool:   cfg.Pool,
		q:      dbgen.New(cfg.Pool),
		cache:  cfg.Cache,
		events: cfg.Events,
		log:    log,
	}
}

func validateMoney(in Input) error {
	if in.Cost == nil || in.Price == nil {
		return common.InvalidInput("cost and price are required")
	}
	if in.Cost.IsNegative() {
		return common.InvalidInput("cost must not be negative")
	}
	if in.Price.IsNegative() {
		return common.InvalidInput("price must not be negative")
	}
	return nil
}

func active(in Input) bool {
	return in.Active == nil || *in.Active
}

// Create stores a new product.
func (s *Service) Create(ctx context.Context, in Input) (Product, error) {
	if err := validateMoney(in); err != nil {
		return Product{}, err
	}
	if in.Stock < 0 {
		return Product{}, common.InvalidInput("stock must not be negative")
	}
	row, err := s.q.CreateProduct(ctx, dbgen.CreateProductParams{
		Sku:         in.SKU,
		Name:        in.Name,
		Description: db.Text(in.Description),
		Cost:        db.Numeric(pricing.Round2(*in.Cost)),
		Price:       db.Numeric(pricing.Round2(*in.Price)),
		Stock:       in.Stock,
		Active:      active(in),
	})
	if err != nil {
		if db.IsUniqueViolation(err) {
			return Product{}, common.Conflict("sku %q already exists", in.SKU)
		}
		return Product{}, fmt.Errorf("create product: %w", err)
	}
	return fromRow(row), nil
}

// Get returns a product, served from cache when possible.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (Product, error) {
	key := cache.ProductKey(id)
	var cached Product
	if ok, err := s.cache.GetJSON(ctx, key, &cached); err == nil && ok {
		return cached, nil
	} else if err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("product cache read")
	}
	row, err := s.q.GetProduct(ctx, db.UUID(id))
	if err != nil {
		if db.IsNoRows(err) {
			return Product{}, common.NotFound("product", id.String())
		}
		return Product{}, fmt.Errorf("get product: %w", err)
	}
	p := fromRow(row)
	if err := s.cache.SetJSON(ctx, key, p); err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("product cache write")
	}
	return p, nil
}

// List returns a filtered page of products ordered by name.
func (s *Service) List(ctx context.Context, params ListParams) (ListResult, error) {
	if params.Page < 1 {
		params.Page = 1
	}
	if params.Limit < 1 {
		params.Limit = 20
	}
	search := db.Text(params.Search)
	var act pgtype.Bool
	if params.Active != nil {
		act = pgtype.Bool{Bool: *params.Active, Valid: true}
	}
	total, err := s.q.CountProducts(ctx, dbgen.CountProductsParams{Search: search, Active: act})
	if err != nil {
		return ListResult{}, fmt.Errorf("count products: %w", err)
	}
	rows, err := s.q.ListProducts(ctx, dbgen.ListProductsParams{
		Search:    search,
		Active:    act,
		RowLimit:  int32(params.Limit),
		RowOffset: int32((params.Page - 1) * params.Limit),
	})
	if err != nil {
		return ListResult{}, fmt.Errorf("list products: %w", err)
	}
	items := make([]Product, 0, len(rows))
	for _, row := range rows {
		items = append(items, fromRow(row))
	}
	return ListResult{Items: items, Total: total, Page: params.Page, Limit: params.Limit}, nil
}

// Update replaces the editable fields of a product. Stock is left untouched.
func (s *Service) Update(ctx context.Context, id uuid.UUID, in Input) (Product, error) {
	if err := validateMoney(in); err != nil {
		return Product{}, err
	}
	row, err := s.q.UpdateProduct(ctx, dbgen.UpdateProductParams{
		ID:          db.UUID(id),
		Sku:         in.SKU,
		Name:        in.Name,
		Description: db.Text(in.Description),
		Cost:        db.Numeric(pricing.Round2(*in.Cost)),
		Price:       db.Numeric(pricing.Round2(*in.Price)),
		Active:      active(in),
	})
	if err != nil {
		if db.IsNoRows(err) {
			return Product{}, common.NotFound("product", id.String())
		}
		if db.IsUniqueViolation(err) {
			return Product{}, common.Conflict("sku %q already exists", in.SKU)
		}
		return Product{}, fmt.Errorf("update product: %w", err)
	}
	s.invalidate(ctx, id)
	return fromRow(row), nil
}

// Delete removes a product that no pre-sale references.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	n, err := s.q.DeleteProduct(ctx, db.UUID(id))
	if err != nil {
		if db.IsForeignKeyViolation(err) {
			return common.Conflict("product %s is referenced by pre-sales", id)
		}
		return fmt.Errorf("delete product: %w", err)
	}
	if n == 0 {
		return common.NotFound("product", id.String())
	}
	s.invalidate(ctx, id)
	return nil
}

// AdjustStock applies delta to the product's stock and records a movement.
// A result below zero is rejected.
func (s *Service) AdjustStock(ctx context.Context, id uuid.UUID, delta int64, rawReason, actor string) (Product, error) {
	reason, err := stock.ParseReason(rawReason)
	if err != nil {
		return Product{}, err
	}
	if delta == 0 {
		return Product{}, common.InvalidInput("delta must not be zero")
	}
	var out Product
	err = db.InTx(ctx, s.pool, func(tx pgx.Tx) error {
		q := dbgen.New(tx)
		row, err := q.AdjustProductStock(ctx, dbgen.AdjustProductStockParams{Delta: delta, ID: db.UUID(id)})
		if err != nil {
			if !db.IsNoRows(err) {
				return fmt.Errorf("adjust stock: %w", err)
			}
			cur, getErr := q.GetProduct(ctx, db.UUID(id))
			if getErr != nil {
				if db.IsNoRows(getErr) {
					return common.NotFound("product", id.String())
				}
				return fmt.Errorf("get product: %w", getErr)
			}
			return common.InvalidInput("stock cannot go below zero: available %d, delta %d", cur.Stock, delta).
				WithDetails(map[string]int64{"available": cur.Stock, "delta": delta})
		}
		_, err = q.InsertStockMovement(ctx, dbgen.InsertStockMovementParams{
			ProductID:  row.ID,
			Delta:      delta,
			StockAfter: row.Stock,
			Reason:     string(reason),
			Actor:      db.Text(actor),
		})
		if err != nil {
			return fmt.Errorf("record stock movement: %w", err)
		}
		out = fromRow(row)
		return nil
	})
	if err != nil {
		return Product{}, err
	}
	s.invalidate(ctx, id)
	if s.events != nil {
		payload := map[string]any{"delta": delta, "stock": out.Stock, "reason": reason, "actor": actor}
		if _, err := s.events.Emit(ctx, events.TopicProductStockAdjusted, db.UUID(id), payload); err != nil {
			s.log.Warn().Err(err).Str("product_id", id.String()).Msg("emit stock event")
		}
	}
	return out, nil
}

// Movements returns the latest stock movements of a product.
func (s *Service) Movements(ctx context.Context, id uuid.UUID, limit int) ([]Movement, error) {
	if limit < 1 || limit > 200 {
		limit = 50
	}
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	rows, err := s.q.ListStockMovements(ctx, dbgen.ListStockMovementsParams{ProductID: db.UUID(id), Limit: int32(limit)})
	if err != nil {
		return nil, fmt.Errorf("list stock movements: %w", err)
	}
	out := make([]Movement, 0, len(rows))
	for _, row := range rows {
		m := Movement{
			ID:         db.FromUUID(row.ID),
			Delta:      row.Delta,
			StockAfter: row.StockAfter,
			Reason:     row.Reason,
			Actor:      db.StringOrEmpty(row.Actor),
			CreatedAt:  db.Time(row.CreatedAt),
		}
		if row.ReferenceID.Valid {
			ref := db.FromUUID(row.ReferenceID)
			m.ReferenceID = &ref
		}
		out = append(out, m)
	}
	return out, nil
}

// Pricing analyses the product's current cost and price.
func (s *Service) Pricing(ctx context.Context, id uuid.UUID) (pricing.Analysis, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return pricing.Analysis{}, err
	}
	return pricing.Analyze(p.Cost, p.Price)
}

// LookupProduct implements stock.ProductLookup. It always reads through to
// the database so stock checks never see cached quantities.
func (s *Service) LookupProduct(ctx context.Context, id uuid.UUID) (stock.Product, error) {
	row, err := s.q.GetProduct(ctx, db.UUID(id))
	if err != nil {
		if db.IsNoRows(err) {
			return stock.Product{}, common.NotFound("product", id.String())
		}
		return stock.Product{}, err
	}
	return stock.Product{ID: id, Name: row.Name, Stock: row.Stock}, nil
}

func (s *Service) invalidate(ctx context.Context, id uuid.UUID) {
	if err := s.cache.Delete(ctx, cache.ProductKey(id)); err != nil {
		s.log.Warn().Err(err).Str("product_id", id.String()).Msg("product cache invalidate")
	}
}

func fromRow(row dbgen.Product) Product {
	return Product{
		ID:          db.FromUUID(row.ID),
		SKU:         row.Sku,
		Name:        row.Name,
		Description: db.StringOrEmpty(row.Description),
		Cost:        db.Decimal(row.Cost),
		Price:       db.Decimal(row.Price),
		Stock:       row.Stock,
		Active:      row.Active,
		CreatedAt:   db.Time(row.CreatedAt),
		UpdatedAt:   db.Time(row.UpdatedAt),
	}
}

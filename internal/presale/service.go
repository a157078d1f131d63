// Package presale implements the pre-sale workflow: priced quotes that move
// through a small status lifecycle and consume stock when converted.
package presale

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/noah-isme/backend-crm/internal/common"
	"github.com/noah-isme/backend-crm/internal/db"
	"github.com/noah-isme/backend-crm/internal/events"
	"github.com/noah-isme/backend-crm/internal/obs"
	"github.com/noah-isme/backend-crm/internal/pricing"
	"github.com/noah-isme/backend-crm/internal/stock"
)

// Service orchestrates pricing, stock validation and persistence.
type Service struct {
	repo             Repository
	events           events.Emitter
	taxBps           int64
	stockConcurrency int
	log              zerolog.Logger
}

// ServiceConfig groups Service dependencies.
type ServiceConfig struct {
	Repo   Repository
	Events events.Emitter
	TaxBps int64
	// StockConcurrency bounds parallel product lookups for reads outside a
	// transaction. Transactional checks always run sequentially.
	StockConcurrency int
	Logger           *zerolog.Logger
}

// NewService constructs a Service.
func NewService(cfg ServiceConfig) *Service {
	log := zerolog.Nop()
	if cfg.Logger != nil {
		log = *cfg.Logger
	}
	return &Service{
		repo:             cfg.Repo,
		events:           cfg.Events,
		taxBps:           cfg.TaxBps,
		stockConcurrency: cfg.StockConcurrency,
		log:              log,
	}
}

// CreateInput is a request to create a pre-sale.
type CreateInput struct {
	CustomerID uuid.UUID
	Items      []pricing.Item
	Discount   pricing.DiscountSpec
	Notes      string
	Actor      string
}

// UpdateInput replaces the editable parts of a pre-sale. Nil fields keep the
// stored value.
type UpdateInput struct {
	CustomerID   *uuid.UUID
	Items        []pricing.Item
	Discount     *decimal.Decimal
	DiscountType *pricing.DiscountType
	Notes        *string
	Actor        string
}

// Preview is the priced and stock-checked form of a draft request.
type Preview struct {
	Totals pricing.Totals `json:"totals"`
	Stock  stock.Result   `json:"stock"`
}

func (s *Service) price(items []pricing.Item, spec pricing.DiscountSpec) (pricing.Totals, error) {
	for _, it := range items {
		if it.Quantity <= 0 {
			return pricing.Totals{}, common.InvalidInput("quantity for product %s must be greater than zero", it.ProductID)
		}
	}
	totals, err := pricing.ComputeTotals(items, spec)
	if err != nil {
		return pricing.Totals{}, err
	}
	return totals.ApplyTax(s.taxBps), nil
}

func validateStock(ctx context.Context, lookup stock.ProductLookup, items []stock.Item, concurrency int) error {
	res, err := stock.Validator{Products: lookup, Concurrency: concurrency}.Validate(ctx, items)
	if err != nil {
		return err
	}
	obs.CountStockValidation(res.IsValid)
	return res.Err()
}

// Create prices the request, checks stock and stores the pre-sale. New
// pre-sales always start pending.
func (s *Service) Create(ctx context.Context, in CreateInput) (PreSale, error) {
	created, err := s.create(ctx, in)
	obs.CountPresaleOperation("create", err)
	if err != nil {
		return PreSale{}, err
	}
	s.emit(ctx, events.TopicPresaleCreated, created.ID, map[string]any{
		"customerId": created.CustomerID,
		"status":     created.Status,
		"grandTotal": created.GrandTotal,
	})
	return created, nil
}

func (s *Service) create(ctx context.Context, in CreateInput) (PreSale, error) {
	totals, err := s.price(in.Items, in.Discount)
	if err != nil {
		return PreSale{}, err
	}
	p := PreSale{
		CustomerID:   in.CustomerID,
		Status:       StatusPending,
		Discount:     pricing.Round2(in.Discount.Value),
		DiscountType: in.Discount.Type,
		Notes:        in.Notes,
		CreatedBy:    in.Actor,
	}
	if p.DiscountType == "" {
		p.DiscountType = pricing.DiscountFixed
	}
	p.ApplyTotals(totals)

	var created PreSale
	err = s.repo.InTx(ctx, func(tx TxRepository) error {
		ok, err := tx.CustomerExists(ctx, in.CustomerID)
		if err != nil {
			return err
		}
		if !ok {
			return common.NotFound("customer", in.CustomerID.String())
		}
		if err := validateStock(ctx, tx, stockItems(in.Items), 1); err != nil {
			return err
		}
		created, err = tx.Insert(ctx, p)
		return err
	})
	return created, err
}

// Update recomputes totals from the merged input. Converted pre-sales are
// immutable. Switching the discount type without a new value carries the
// equivalent amount across, so fixed and percentage round trip.
func (s *Service) Update(ctx context.Context, id uuid.UUID, in UpdateInput) (PreSale, error) {
	updated, err := s.update(ctx, id, in)
	obs.CountPresaleOperation("update", err)
	if err != nil {
		return PreSale{}, err
	}
	s.emit(ctx, events.TopicPresaleUpdated, updated.ID, map[string]any{
		"status":     updated.Status,
		"grandTotal": updated.GrandTotal,
	})
	return updated, nil
}

func (s *Service) update(ctx context.Context, id uuid.UUID, in UpdateInput) (PreSale, error) {
	var updated PreSale
	err := s.repo.InTx(ctx, func(tx TxRepository) error {
		cur, err := tx.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if cur.Status == StatusConverted {
			return common.Conflict("converted pre-sale %s cannot be modified", id)
		}

		next := cur
		if in.CustomerID != nil && *in.CustomerID != cur.CustomerID {
			ok, err := tx.CustomerExists(ctx, *in.CustomerID)
			if err != nil {
				return err
			}
			if !ok {
				return common.NotFound("customer", in.CustomerID.String())
			}
			next.CustomerID = *in.CustomerID
		}
		if in.Notes != nil {
			next.Notes = *in.Notes
		}

		items := cur.PricingItems()
		itemsChanged := in.Items != nil
		if itemsChanged {
			items = in.Items
		}
		spec, err := s.mergeDiscount(cur, items, in)
		if err != nil {
			return err
		}
		totals, err := s.price(items, spec)
		if err != nil {
			return err
		}
		next.Discount = pricing.Round2(spec.Value)
		next.DiscountType = spec.Type
		next.ApplyTotals(totals)

		if itemsChanged {
			if err := validateStock(ctx, tx, stockItems(items), 1); err != nil {
				return err
			}
		}
		updated, err = tx.Update(ctx, next)
		return err
	})
	return updated, err
}

func (s *Service) mergeDiscount(cur PreSale, items []pricing.Item, in UpdateInput) (pricing.DiscountSpec, error) {
	curType := cur.DiscountType
	if curType == "" {
		curType = pricing.DiscountFixed
	}
	spec := pricing.DiscountSpec{Type: curType, Value: cur.Discount}
	if in.DiscountType != nil {
		spec.Type = *in.DiscountType
	}
	if in.Discount != nil {
		spec.Value = *in.Discount
		return spec, nil
	}
	if spec.Type == curType {
		return spec, nil
	}
	base, err := pricing.ComputeTotals(items, pricing.DiscountSpec{Type: pricing.DiscountFixed})
	if err != nil {
		return pricing.DiscountSpec{}, err
	}
	conv, err := pricing.ConvertDiscount(base.Subtotal, cur.Discount, curType)
	if err != nil {
		return pricing.DiscountSpec{}, err
	}
	spec.Value = conv.As(spec.Type)
	return spec, nil
}

// ChangeStatus moves a pre-sale along the transition table. Converting
// re-checks stock against the stored items and consumes it in the same
// transaction; when stock is short the status is left unchanged.
func (s *Service) ChangeStatus(ctx context.Context, id uuid.UUID, rawStatus, actor string) (PreSale, error) {
	to, err := ParseStatus(rawStatus)
	if err != nil {
		return PreSale{}, err
	}
	var (
		from    Status
		changed bool
		result  PreSale
	)
	err = s.repo.InTx(ctx, func(tx TxRepository) error {
		cur, err := tx.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		from = cur.Status
		if cur.Status == to {
			result = cur
			return nil
		}
		if err := Transition(cur.Status, to); err != nil {
			return err
		}
		if to == StatusConverted {
			items := cur.StockItems()
			if err := validateStock(ctx, tx, items, 1); err != nil {
				return err
			}
			if err := tx.ConsumeStock(ctx, id, items, actor); err != nil {
				return err
			}
		}
		result, err = tx.UpdateStatus(ctx, id, cur.Status, to, actor)
		if err != nil {
			return err
		}
		changed = true
		return nil
	})
	if from != "" {
		obs.CountTransition(string(from), string(to), err)
	}
	if err != nil {
		return PreSale{}, err
	}
	if changed {
		payload := map[string]any{"from": from, "to": to, "actor": actor}
		s.emit(ctx, events.TopicPresaleStatusChanged, id, payload)
		if to == StatusConverted {
			s.emit(ctx, events.TopicPresaleConverted, id, map[string]any{
				"grandTotal": result.GrandTotal,
				"items":      len(result.Items),
			})
		}
	}
	return result, nil
}

// Delete removes a pre-sale unless it has been converted.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	err := s.repo.InTx(ctx, func(tx TxRepository) error {
		cur, err := tx.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if cur.Status == StatusConverted {
			return common.Conflict("converted pre-sale %s cannot be deleted", id)
		}
		return tx.Delete(ctx, id)
	})
	obs.CountPresaleOperation("delete", err)
	if err != nil {
		return err
	}
	s.emit(ctx, events.TopicPresaleDeleted, id, map[string]any{"id": id})
	return nil
}

// Get returns a pre-sale with its items.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (PreSale, error) {
	return s.repo.Get(ctx, id)
}

// List returns a page of pre-sale summaries.
func (s *Service) List(ctx context.Context, params ListParams) (ListResult, error) {
	if params.Page < 1 {
		params.Page = 1
	}
	if params.Limit < 1 {
		params.Limit = 20
	}
	items, total, err := s.repo.List(ctx, params)
	if err != nil {
		return ListResult{}, err
	}
	return ListResult{Items: items, Total: total, Page: params.Page, Limit: params.Limit}, nil
}

// History returns the recorded status changes of a pre-sale.
func (s *Service) History(ctx context.Context, id uuid.UUID) ([]StatusChange, error) {
	if _, err := s.repo.Get(ctx, id); err != nil {
		return nil, err
	}
	return s.repo.History(ctx, id)
}

// Preview prices a request and reports stock feasibility without storing
// anything. Stock shortfalls are returned as data.
func (s *Service) Preview(ctx context.Context, items []pricing.Item, spec pricing.DiscountSpec) (Preview, error) {
	totals, err := s.price(items, spec)
	if err != nil {
		return Preview{}, err
	}
	res, err := stock.Validator{Products: s.repo, Concurrency: s.stockConcurrency}.Validate(ctx, stockItems(items))
	if err != nil {
		return Preview{}, err
	}
	obs.CountStockValidation(res.IsValid)
	return Preview{Totals: totals, Stock: res}, nil
}

func (s *Service) emit(ctx context.Context, topic string, id uuid.UUID, payload any) {
	if s.events == nil {
		return
	}
	if _, err := s.events.Emit(ctx, topic, db.UUID(id), payload); err != nil {
		s.log.Warn().Err(err).Str("topic", topic).Str("presale_id", id.String()).Msg("emit domain event")
	}
}

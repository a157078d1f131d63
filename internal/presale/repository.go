package presale

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/noah-isme/backend-crm/internal/common"
	"github.com/noah-isme/backend-crm/internal/db"
	dbgen "github.com/noah-isme/backend-crm/internal/db/gen"
	"github.com/noah-isme/backend-crm/internal/pricing"
	"github.com/noah-isme/backend-crm/internal/stock"
)

// Repository reads pre-sales and opens write transactions.
type Repository interface {
	stock.ProductLookup
	Get(ctx context.Context, id uuid.UUID) (PreSale, error)
	List(ctx context.Context, params ListParams) ([]PreSale, int64, error)
	History(ctx context.Context, id uuid.UUID) ([]StatusChange, error)
	InTx(ctx context.Context, fn func(tx TxRepository) error) error
}

// TxRepository performs writes inside a single transaction.
type TxRepository interface {
	stock.ProductLookup
	CustomerExists(ctx context.Context, id uuid.UUID) (bool, error)
	Insert(ctx context.Context, p PreSale) (PreSale, error)
	GetForUpdate(ctx context.Context, id uuid.UUID) (PreSale, error)
	Update(ctx context.Context, p PreSale) (PreSale, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to Status, actor string) (PreSale, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ConsumeStock(ctx context.Context, presaleID uuid.UUID, items []stock.Item, actor string) error
}

// PgRepository stores pre-sales in Postgres through the sqlc queries.
type PgRepository struct {
	pool db.Pool
	store
}

// NewPgRepository constructs a PgRepository.
func NewPgRepository(pool db.Pool) *PgRepository {
	return &PgRepository{pool: pool, store: store{q: dbgen.New(pool)}}
}

// InTx runs fn with a transaction-scoped repository.
func (r *PgRepository) InTx(ctx context.Context, fn func(tx TxRepository) error) error {
	return db.InTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(&store{q: dbgen.New(tx)})
	})
}

// List returns a page of pre-sale summaries. Items are not loaded.
func (r *PgRepository) List(ctx context.Context, params ListParams) ([]PreSale, int64, error) {
	var status pgtype.Text
	if params.Status != nil {
		status = db.Text(string(*params.Status))
	}
	customer := db.NullUUID(params.CustomerID)
	total, err := r.q.CountPresales(ctx, dbgen.CountPresalesParams{Status: status, CustomerID: customer})
	if err != nil {
		return nil, 0, fmt.Errorf("count presales: %w", err)
	}
	rows, err := r.q.ListPresales(ctx, dbgen.ListPresalesParams{
		Status:     status,
		CustomerID: customer,
		RowLimit:   int32(params.Limit),
		RowOffset:  int32((params.Page - 1) * params.Limit),
	})
	if err != nil {
		return nil, 0, fmt.Errorf("list presales: %w", err)
	}
	out := make([]PreSale, 0, len(rows))
	for _, row := range rows {
		out = append(out, fromRow(row, nil))
	}
	return out, total, nil
}

// History returns the status changes recorded for a pre-sale, oldest first.
func (r *PgRepository) History(ctx context.Context, id uuid.UUID) ([]StatusChange, error) {
	rows, err := r.q.ListPresaleStatusHistory(ctx, db.UUID(id))
	if err != nil {
		return nil, fmt.Errorf("list status history: %w", err)
	}
	out := make([]StatusChange, 0, len(rows))
	for _, row := range rows {
		out = append(out, StatusChange{
			From:      Status(row.FromStatus),
			To:        Status(row.ToStatus),
			Actor:     db.StringOrEmpty(row.Actor),
			ChangedAt: db.Time(row.CreatedAt),
		})
	}
	return out, nil
}

type store struct {
	q *dbgen.Queries
}

func (s *store) LookupProduct(ctx context.Context, id uuid.UUID) (stock.Product, error) {
	row, err := s.q.GetProduct(ctx, db.UUID(id))
	if err != nil {
		if db.IsNoRows(err) {
			return stock.Product{}, common.NotFound("product", id.String())
		}
		return stock.Product{}, err
	}
	return stock.Product{ID: id, Name: row.Name, Stock: row.Stock}, nil
}

func (s *store) CustomerExists(ctx context.Context, id uuid.UUID) (bool, error) {
	if _, err := s.q.GetCustomer(ctx, db.UUID(id)); err != nil {
		if db.IsNoRows(err) {
			return false, nil
		}
		return false, fmt.Errorf("get customer: %w", err)
	}
	return true, nil
}

// Get loads a pre-sale with its items.
func (s *store) Get(ctx context.Context, id uuid.UUID) (PreSale, error) {
	return s.load(ctx, id, s.q.GetPresale)
}

func (s *store) GetForUpdate(ctx context.Context, id uuid.UUID) (PreSale, error) {
	return s.load(ctx, id, s.q.GetPresaleForUpdate)
}

func (s *store) load(ctx context.Context, id uuid.UUID, get func(context.Context, pgtype.UUID) (dbgen.Presale, error)) (PreSale, error) {
	row, err := get(ctx, db.UUID(id))
	if err != nil {
		if db.IsNoRows(err) {
			return PreSale{}, common.NotFound("presale", id.String())
		}
		return PreSale{}, fmt.Errorf("get presale: %w", err)
	}
	items, err := s.q.ListPresaleItems(ctx, row.ID)
	if err != nil {
		return PreSale{}, fmt.Errorf("list presale items: %w", err)
	}
	return fromRow(row, items), nil
}

func (s *store) Insert(ctx context.Context, p PreSale) (PreSale, error) {
	row, err := s.q.CreatePresale(ctx, dbgen.CreatePresaleParams{
		CustomerID:     db.UUID(p.CustomerID),
		Status:         string(p.Status),
		Discount:       db.Numeric(p.Discount),
		DiscountType:   string(p.DiscountType),
		Subtotal:       db.Numeric(p.Subtotal),
		DiscountAmount: db.Numeric(p.DiscountAmount),
		Total:          db.Numeric(p.Total),
		TaxAmount:      db.Numeric(p.TaxAmount),
		GrandTotal:     db.Numeric(p.GrandTotal),
		Notes:          db.Text(p.Notes),
		CreatedBy:      db.Text(p.CreatedBy),
	})
	if err != nil {
		if db.IsForeignKeyViolation(err) {
			return PreSale{}, common.NotFound("customer", p.CustomerID.String())
		}
		return PreSale{}, fmt.Errorf("create presale: %w", err)
	}
	if err := s.insertItems(ctx, row.ID, p.Items); err != nil {
		return PreSale{}, err
	}
	out := fromRow(row, nil)
	out.Items = p.Items
	return out, nil
}

func (s *store) Update(ctx context.Context, p PreSale) (PreSale, error) {
	row, err := s.q.UpdatePresale(ctx, dbgen.UpdatePresaleParams{
		ID:             db.UUID(p.ID),
		CustomerID:     db.UUID(p.CustomerID),
		Discount:       db.Numeric(p.Discount),
		DiscountType:   string(p.DiscountType),
		Subtotal:       db.Numeric(p.Subtotal),
		DiscountAmount: db.Numeric(p.DiscountAmount),
		Total:          db.Numeric(p.Total),
		TaxAmount:      db.Numeric(p.TaxAmount),
		GrandTotal:     db.Numeric(p.GrandTotal),
		Notes:          db.Text(p.Notes),
	})
	if err != nil {
		if db.IsNoRows(err) {
			return PreSale{}, common.NotFound("presale", p.ID.String())
		}
		if db.IsForeignKeyViolation(err) {
			return PreSale{}, common.NotFound("customer", p.CustomerID.String())
		}
		return PreSale{}, fmt.Errorf("update presale: %w", err)
	}
	if err := s.q.DeletePresaleItems(ctx, row.ID); err != nil {
		return PreSale{}, fmt.Errorf("clear presale items: %w", err)
	}
	if err := s.insertItems(ctx, row.ID, p.Items); err != nil {
		return PreSale{}, err
	}
	out := fromRow(row, nil)
	out.Items = p.Items
	return out, nil
}

func (s *store) insertItems(ctx context.Context, presaleID pgtype.UUID, lines []pricing.Line) error {
	for i, l := range lines {
		err := s.q.InsertPresaleItem(ctx, dbgen.InsertPresaleItemParams{
			PresaleID:             presaleID,
			ProductID:             db.UUID(l.ProductID),
			Position:              int32(i),
			Quantity:              l.Quantity,
			UnitPrice:             db.Numeric(l.UnitPrice),
			Discount:              db.Numeric(l.Discount),
			LineTotal:             db.Numeric(l.LineTotal),
			LineTotalWithDiscount: db.Numeric(l.LineTotalWithDiscount),
		})
		if err != nil {
			if db.IsForeignKeyViolation(err) {
				return common.NotFound("product", l.ProductID.String())
			}
			return fmt.Errorf("insert presale item %d: %w", i, err)
		}
	}
	return nil
}

func (s *store) UpdateStatus(ctx context.Context, id uuid.UUID, from, to Status, actor string) (PreSale, error) {
	row, err := s.q.UpdatePresaleStatus(ctx, dbgen.UpdatePresaleStatusParams{ID: db.UUID(id), Status: string(to)})
	if err != nil {
		if db.IsNoRows(err) {
			return PreSale{}, common.NotFound("presale", id.String())
		}
		return PreSale{}, fmt.Errorf("update presale status: %w", err)
	}
	err = s.q.InsertPresaleStatusHistory(ctx, dbgen.InsertPresaleStatusHistoryParams{
		PresaleID:  row.ID,
		FromStatus: string(from),
		ToStatus:   string(to),
		Actor:      db.Text(actor),
	})
	if err != nil {
		return PreSale{}, fmt.Errorf("record status history: %w", err)
	}
	items, err := s.q.ListPresaleItems(ctx, row.ID)
	if err != nil {
		return PreSale{}, fmt.Errorf("list presale items: %w", err)
	}
	return fromRow(row, items), nil
}

func (s *store) Delete(ctx context.Context, id uuid.UUID) error {
	n, err := s.q.DeletePresale(ctx, db.UUID(id))
	if err != nil {
		return fmt.Errorf("delete presale: %w", err)
	}
	if n == 0 {
		return common.NotFound("presale", id.String())
	}
	return nil
}

// ConsumeStock decrements stock for every item and records a movement. The
// guarded update fails when a concurrent write has already taken the stock.
func (s *store) ConsumeStock(ctx context.Context, presaleID uuid.UUID, items []stock.Item, actor string) error {
	for _, it := range items {
		after, err := s.q.ConsumeProductStock(ctx, dbgen.ConsumeProductStockParams{
			Quantity: it.Quantity,
			ID:       db.UUID(it.ProductID),
		})
		if err != nil {
			if db.IsNoRows(err) {
				msg := fmt.Sprintf("Insufficient stock for %s: requested %d", it.ProductID, it.Quantity)
				return common.InsufficientStock([]string{msg}, []stock.Detail{{
					ProductID:         it.ProductID,
					RequestedQuantity: it.Quantity,
				}})
			}
			return fmt.Errorf("consume stock for %s: %w", it.ProductID, err)
		}
		_, err = s.q.InsertStockMovement(ctx, dbgen.InsertStockMovementParams{
			ProductID:   db.UUID(it.ProductID),
			Delta:       -it.Quantity,
			StockAfter:  after,
			Reason:      string(stock.ReasonPresaleConversion),
			ReferenceID: db.UUID(presaleID),
			Actor:       db.Text(actor),
		})
		if err != nil {
			return fmt.Errorf("record stock movement: %w", err)
		}
	}
	return nil
}

func fromRow(row dbgen.Presale, items []dbgen.PresaleItem) PreSale {
	p := PreSale{
		ID:             db.FromUUID(row.ID),
		CustomerID:     db.FromUUID(row.CustomerID),
		Status:         Status(row.Status),
		Discount:       db.Decimal(row.Discount),
		DiscountType:   pricing.DiscountType(row.DiscountType),
		Subtotal:       db.Decimal(row.Subtotal),
		DiscountAmount: db.Decimal(row.DiscountAmount),
		Total:          db.Decimal(row.Total),
		TaxAmount:      db.Decimal(row.TaxAmount),
		GrandTotal:     db.Decimal(row.GrandTotal),
		Notes:          db.StringOrEmpty(row.Notes),
		CreatedBy:      db.StringOrEmpty(row.CreatedBy),
		CreatedAt:      db.Time(row.CreatedAt),
		UpdatedAt:      db.Time(row.UpdatedAt),
	}
	if items != nil {
		p.Items = make([]pricing.Line, 0, len(items))
		for _, it := range items {
			p.Items = append(p.Items, pricing.Line{
				ProductID:             db.FromUUID(it.ProductID),
				Quantity:              it.Quantity,
				UnitPrice:             db.Decimal(it.UnitPrice),
				Discount:              db.Decimal(it.Discount),
				LineTotal:             db.Decimal(it.LineTotal),
				LineTotalWithDiscount: db.Decimal(it.LineTotalWithDiscount),
			})
		}
	}
	return p
}


package presale

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/backend-crm/internal/common"
	"github.com/noah-isme/backend-crm/internal/db"
	"github.com/noah-isme/backend-crm/internal/pricing"
	"github.com/noah-isme/backend-crm/internal/stock"
)

type numericArg string

func (n numericArg) Match(v any) bool {
	got, ok := v.(pgtype.Numeric)
	if !ok {
		return false
	}
	return db.Decimal(got).Equal(decimal.RequireFromString(string(n)))
}

var presaleColumns = []string{
	"id", "customer_id", "status", "discount", "discount_type", "subtotal", "discount_amount",
	"total", "tax_amount", "grand_total", "notes", "created_by", "created_at", "updated_at",
}

func num(s string) pgtype.Numeric { return db.Numeric(decimal.RequireFromString(s)) }

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock
}

func TestPgRepositoryGetLoadsItems(t *testing.T) {
	mock := newMock(t)
	repo := NewPgRepository(mock)
	id, customer, product := uuid.New(), uuid.New(), uuid.New()
	now := time.Now()

	mock.ExpectQuery("SELECT (.+) FROM presales WHERE id = \\$1").
		WithArgs(db.UUID(id)).
		WillReturnRows(pgxmock.NewRows(presaleColumns).AddRow(
			db.UUID(id), db.UUID(customer), "approved", num("10"), "percentage", num("200"), num("20"),
			num("180"), num("0"), num("180"), db.Text("vip"), db.Text("u1"), db.Timestamptz(now), db.Timestamptz(now),
		))
	mock.ExpectQuery("FROM presale_items").
		WithArgs(db.UUID(id)).
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "presale_id", "product_id", "position", "quantity", "unit_price", "discount", "line_total", "line_total_with_discount",
		}).AddRow(db.UUID(uuid.New()), db.UUID(id), db.UUID(product), int32(0), int64(2), num("100"), num("0"), num("200"), num("200")))

	got, err := repo.Get(context.Background(), id)
	require.NoError(t, err)
	require.Equal(t, StatusApproved, got.Status)
	require.True(t, decimal.NewFromInt(180).Equal(got.GrandTotal))
	require.Equal(t, "vip", got.Notes)
	require.Len(t, got.Items, 1)
	require.Equal(t, product, got.Items[0].ProductID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPgRepositoryGetMissing(t *testing.T) {
	mock := newMock(t)
	repo := NewPgRepository(mock)
	id := uuid.New()
	mock.ExpectQuery("FROM presales WHERE id").
		WithArgs(db.UUID(id)).
		WillReturnRows(pgxmock.NewRows(presaleColumns))

	_, err := repo.Get(context.Background(), id)
	require.True(t, errors.Is(err, common.ErrNotFound))
}

func TestPgRepositoryLookupProduct(t *testing.T) {
	mock := newMock(t)
	repo := NewPgRepository(mock)
	id := uuid.New()
	now := time.Now()
	mock.ExpectQuery("FROM products WHERE id").
		WithArgs(db.UUID(id)).
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "sku", "name", "description", "cost", "price", "stock", "active", "created_at", "updated_at",
		}).AddRow(db.UUID(id), "SKU-1", "Widget", pgtype.Text{}, num("5"), num("9.5"), int64(7), true, db.Timestamptz(now), db.Timestamptz(now)))

	p, err := repo.LookupProduct(context.Background(), id)
	require.NoError(t, err)
	require.Equal(t, stock.Product{ID: id, Name: "Widget", Stock: 7}, p)

	missing := uuid.New()
	mock.ExpectQuery("FROM products WHERE id").
		WithArgs(db.UUID(missing)).
		WillReturnRows(pgxmock.NewRows([]string{"id"}))
	_, err = repo.LookupProduct(context.Background(), missing)
	require.True(t, errors.Is(err, common.ErrNotFound))
}

func TestPgRepositoryConsumeStockRecordsMovement(t *testing.T) {
	mock := newMock(t)
	repo := NewPgRepository(mock)
	presaleID, product := uuid.New(), uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery("UPDATE products").
		WithArgs(int64(2), db.UUID(product)).
		WillReturnRows(pgxmock.NewRows([]string{"stock"}).AddRow(int64(3)))
	mock.ExpectQuery("INSERT INTO stock_movements").
		WithArgs(db.UUID(product), int64(-2), int64(3), "presale_conversion", db.UUID(presaleID), db.Text("u1")).
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "product_id", "delta", "stock_after", "reason", "reference_id", "actor", "created_at",
		}).AddRow(db.UUID(uuid.New()), db.UUID(product), int64(-2), int64(3), "presale_conversion", db.UUID(presaleID), db.Text("u1"), db.Timestamptz(time.Now())))
	mock.ExpectCommit()

	err := repo.InTx(context.Background(), func(tx TxRepository) error {
		return tx.ConsumeStock(context.Background(), presaleID, []stock.Item{{ProductID: product, Quantity: 2}}, "u1")
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPgRepositoryConsumeStockShortfallRollsBack(t *testing.T) {
	mock := newMock(t)
	repo := NewPgRepository(mock)
	product := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery("UPDATE products").
		WithArgs(int64(5), db.UUID(product)).
		WillReturnRows(pgxmock.NewRows([]string{"stock"}))
	mock.ExpectRollback()

	err := repo.InTx(context.Background(), func(tx TxRepository) error {
		return tx.ConsumeStock(context.Background(), uuid.New(), []stock.Item{{ProductID: product, Quantity: 5}}, "u1")
	})
	require.True(t, errors.Is(err, common.ErrInsufficientStock))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPgRepositoryInsertWritesItemsInOrder(t *testing.T) {
	mock := newMock(t)
	repo := NewPgRepository(mock)
	id, customer := uuid.New(), uuid.New()
	p1, p2 := uuid.New(), uuid.New()
	now := time.Now()

	p := PreSale{CustomerID: customer, Status: StatusPending, DiscountType: "fixed", Notes: " "}
	p.Items = []pricing.Line{
		{ProductID: p1, Quantity: 1, UnitPrice: decimal.NewFromInt(10), LineTotal: decimal.NewFromInt(10), LineTotalWithDiscount: decimal.NewFromInt(10)},
		{ProductID: p2, Quantity: 3, UnitPrice: decimal.NewFromInt(2), LineTotal: decimal.NewFromInt(6), LineTotalWithDiscount: decimal.NewFromInt(6)},
	}
	p.Subtotal = decimal.NewFromInt(16)
	p.Total = p.Subtotal
	p.GrandTotal = p.Subtotal

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO presales").
		WithArgs(db.UUID(customer), "pending", numericArg("0"), "fixed", numericArg("16"), numericArg("0"),
			numericArg("16"), numericArg("0"), numericArg("16"), pgtype.Text{}, pgtype.Text{}).
		WillReturnRows(pgxmock.NewRows(presaleColumns).AddRow(
			db.UUID(id), db.UUID(customer), "pending", num("0"), "fixed", num("16"), num("0"),
			num("16"), num("0"), num("16"), pgtype.Text{}, pgtype.Text{}, db.Timestamptz(now), db.Timestamptz(now),
		))
	mock.ExpectExec("INSERT INTO presale_items").
		WithArgs(db.UUID(id), db.UUID(p1), int32(0), int64(1), numericArg("10"), numericArg("0"), numericArg("10"), numericArg("10")).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec("INSERT INTO presale_items").
		WithArgs(db.UUID(id), db.UUID(p2), int32(1), int64(3), numericArg("2"), numericArg("0"), numericArg("6"), numericArg("6")).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	var created PreSale
	err := repo.InTx(context.Background(), func(tx TxRepository) error {
		var err error
		created, err = tx.Insert(context.Background(), p)
		return err
	})
	require.NoError(t, err)
	require.Equal(t, id, created.ID)
	require.Len(t, created.Items, 2)
	require.NoError(t, mock.ExpectationsWereMet())
}

// Package customer manages customer records.
package customer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/noah-isme/backend-crm/internal/common"
	"github.com/noah-isme/backend-crm/internal/db"
	dbgen "github.com/noah-isme/backend-crm/internal/db/gen"
)

type queryProvider interface {
	CountCustomers(ctx context.Context, search pgtype.Text) (int64, error)
	CreateCustomer(ctx context.Context, arg dbgen.CreateCustomerParams) (dbgen.Customer, error)
	CustomerHasPresales(ctx context.Context, customerID pgtype.UUID) (bool, error)
	DeleteCustomer(ctx context.Context, id pgtype.UUID) (int64, error)
	GetCustomer(ctx context.Context, id pgtype.UUID) (dbgen.Customer, error)
	ListCustomers(ctx context.Context, arg dbgen.ListCustomersParams) ([]dbgen.Customer, error)
	UpdateCustomer(ctx context.Context, arg dbgen.UpdateCustomerParams) (dbgen.Customer, error)
}

// Customer is the API representation of a customer.
type Customer struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Company   string    `json:"company,omitempty"`
	Address   string    `json:"address,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Input carries the editable customer fields.
type Input struct {
	Name    string `json:"name" validate:"required,max=200"`
	Email   string `json:"email" validate:"omitempty,email,max=254"`
	Phone   string `json:"phone" validate:"omitempty,max=40"`
	Company string `json:"company" validate:"omitempty,max=200"`
	Address string `json:"address" validate:"omitempty,max=500"`
	Notes   string `json:"notes" validate:"omitempty,max=2000"`
}

// ListResult is a page of customers.
type ListResult struct {
	Items []Customer
	Total int64
	Page  int
	Limit int
}

// Service implements customer CRUD.
type Service struct {
	queries queryProvider
}

// NewService constructs a Service.
func NewService(q queryProvider) *Service {
	return &Service{queries: q}
}

func normalize(in Input) Input {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	return in
}

// Create stores a customer. Duplicate emails are a conflict.
func (s *Service) Create(ctx context.Context, in Input) (Customer, error) {
	in = normalize(in)
	if in.Name == "" {
		return Customer{}, common.InvalidInput("name is required")
	}
	row, err := s.queries.CreateCustomer(ctx, dbgen.CreateCustomerParams{
		Name:    in.Name,
		Email:   db.Text(in.Email),
		Phone:   db.Text(in.Phone),
		Company: db.Text(in.Company),
		Address: db.Text(in.Address),
		Notes:   db.Text(in.Notes),
	})
	if err != nil {
		if db.IsUniqueViolation(err) {
			return Customer{}, common.Conflict("email %q is already registered", in.Email)
		}
		return Customer{}, fmt.Errorf("create customer: %w", err)
	}
	return fromRow(row), nil
}

// Get returns a customer by id.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (Customer, error) {
	row, err := s.queries.GetCustomer(ctx, db.UUID(id))
	if err != nil {
		if db.IsNoRows(err) {
			return Customer{}, common.NotFound("customer", id.String())
		}
		return Customer{}, fmt.Errorf("get customer: %w", err)
	}
	return fromRow(row), nil
}

// List returns customers matching search, newest first.
func (s *Service) List(ctx context.Context, search string, page, limit int) (ListResult, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	term := db.Text(search)
	total, err := s.queries.CountCustomers(ctx, term)
	if err != nil {
		return ListResult{}, fmt.Errorf("count customers: %w", err)
	}
	rows, err := s.queries.ListCustomers(ctx, dbgen.ListCustomersParams{
		Search:    term,
		RowLimit:  int32(limit),
		RowOffset: int32((page - 1) * limit),
	})
	if err != nil {
		return ListResult{}, fmt.Errorf("list customers: %w", err)
	}
	items := make([]Customer, 0, len(rows))
	for _, row := range rows {
		items = append(items, fromRow(row))
	}
	return ListResult{Items: items, Total: total, Page: page, Limit: limit}, nil
}

// Update replaces a customer's fields.
func (s *Service) Update(ctx context.Context, id uuid.UUID, in Input) (Customer, error) {
	in = normalize(in)
	if in.Name == "" {
		return Customer{}, common.InvalidInput("name is required")
	}
	row, err := s.queries.UpdateCustomer(ctx, dbgen.UpdateCustomerParams{
		ID:      db.UUID(id),
		Name:    in.Name,
		Email:   db.Text(in.Email),
		Phone:   db.Text(in.Phone),
		Company: db.Text(in.Company),
		Address: db.Text(in.Address),
		Notes:   db.Text(in.Notes),
	})
	if err != nil {
		if db.IsNoRows(err) {
			return Customer{}, common.NotFound("customer", id.String())
		}
		if db.IsUniqueViolation(err) {
			return Customer{}, common.Conflict("email %q is already registered", in.Email)
		}
		return Customer{}, fmt.Errorf("update customer: %w", err)
	}
	return fromRow(row), nil
}

// Delete removes a customer without pre-sales.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	has, err := s.queries.CustomerHasPresales(ctx, db.UUID(id))
	if err != nil {
		return fmt.Errorf("check customer presales: %w", err)
	}
	if has {
		return common.Conflict("customer %s has pre-sales", id)
	}
	n, err := s.queries.DeleteCustomer(ctx, db.UUID(id))
	if err != nil {
		if db.IsForeignKeyViolation(err) {
			return common.Conflict("customer %s has pre-sales", id)
		}
		return fmt.Errorf("delete customer: %w", err)
	}
	if n == 0 {
		return common.NotFound("customer", id.String())
	}
	return nil
}

func fromRow(row dbgen.Customer) Customer {
	return Customer{
		ID:        db.FromUUID(row.ID),
		Name:      row.Name,
		Email:     db.StringOrEmpty(row.Email),
		Phone:     db.StringOrEmpty(row.Phone),
		Company:   db.StringOrEmpty(row.Company),
		Address:   db.StringOrEmpty(row.Address),
		Notes:     db.StringOrEmpty(row.Notes),
		CreatedAt: db.Time(row.CreatedAt),
		UpdatedAt: db.Time(row.UpdatedAt),
	}
}

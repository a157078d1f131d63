// Package stock checks requested quantities against available product stock.
package stock

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/noah-isme/backend-crm/internal/common"
)

// Product is the slice of a catalog product the validator needs.
type Product struct {
	ID    uuid.UUID
	Name  string
	Stock int64
}

// ProductLookup resolves products by id. Implementations return an error
// matching common.ErrNotFound when the product does not exist.
type ProductLookup interface {
	LookupProduct(ctx context.Context, id uuid.UUID) (Product, error)
}

// LookupFunc adapts a function to ProductLookup.
type LookupFunc func(ctx context.Context, id uuid.UUID) (Product, error)

// LookupProduct implements ProductLookup.
func (f LookupFunc) LookupProduct(ctx context.Context, id uuid.UUID) (Product, error) {
	return f(ctx, id)
}

// Item is one requested product quantity.
type Item struct {
	ProductID uuid.UUID
	Quantity  int64
}

// Detail records what was found for an item that resolved to a product.
type Detail struct {
	ProductID         uuid.UUID `json:"productId"`
	ProductName       string    `json:"productName"`
	AvailableStock    int64     `json:"availableStock"`
	RequestedQuantity int64     `json:"requestedQuantity"`
}

// Result is the outcome of a validation. Problems are reported as data.
type Result struct {
	IsValid        bool     `json:"isValid"`
	Errors         []string `json:"errors"`
	ProductDetails []Detail `json:"productDetails"`
}

// Err converts an invalid result into an InsufficientStock error carrying
// every problem found. It returns nil for a valid result.
func (r Result) Err() error {
	if r.IsValid {
		return nil
	}
	return common.InsufficientStock(r.Errors, r.ProductDetails)
}

// Validator looks up every item's product and compares stock.
type Validator struct {
	Products ProductLookup
	// Concurrency bounds parallel lookups. Values below 1 mean sequential,
	// which is required when the lookup shares a single database connection.
	Concurrency int
}

type lookupOutcome struct {
	product Product
	missing bool
}

// Validate checks every item. Missing products and shortfalls do not stop the
// remaining items from being checked. Only lookup failures other than not
// found, including context cancellation, are returned as errors.
func (v Validator) Validate(ctx context.Context, items []Item) (Result, error) {
	if v.Products == nil {
		return Result{}, errors.New("stock: product lookup not configured")
	}
	outcomes := make([]lookupOutcome, len(items))

	g, gctx := errgroup.WithContext(ctx)
	limit := v.Concurrency
	if limit < 1 {
		limit = 1
	}
	g.SetLimit(limit)
	for i, it := range items {
		g.Go(func() error {
			p, err := v.Products.LookupProduct(gctx, it.ProductID)
			if errors.Is(err, common.ErrNotFound) {
				outcomes[i].missing = true
				return nil
			}
			if err != nil {
				return fmt.Errorf("lookup product %s: %w", it.ProductID, err)
			}
			outcomes[i].product = p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, err
	}

	res := Result{Errors: []string{}, ProductDetails: make([]Detail, 0, len(items))}
	for i, it := range items {
		out := outcomes[i]
		if out.missing {
			res.Errors = append(res.Errors, fmt.Sprintf("Product not found: %s", it.ProductID))
			continue
		}
		p := out.product
		res.ProductDetails = append(res.ProductDetails, Detail{
			ProductID:         it.ProductID,
			ProductName:       p.Name,
			AvailableStock:    p.Stock,
			RequestedQuantity: it.Quantity,
		})
		if it.Quantity > p.Stock {
			res.Errors = append(res.Errors, fmt.Sprintf(
				"Insufficient stock for %s: available %d, requested %d", p.Name, p.Stock, it.Quantity))
		}
		if it.Quantity <= 0 {
			res.Errors = append(res.Errors, fmt.Sprintf("Invalid quantity for %s: %d", p.Name, it.Quantity))
		}
	}
	res.IsValid = len(res.Errors) == 0
	return res, nil
}

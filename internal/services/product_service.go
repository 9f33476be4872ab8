package services

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"inventory/internal/models"
	"inventory/internal/repositories"
)

// ProductInput is the create/update payload. Pointer fields distinguish an
// absent or null field from a zero value, and quantity arrives as a JSON
// number so that a fractional value is a field error rather than a decode
// error.
type ProductInput struct {
	Name     *string  `json:"name"`
	Quantity *float64 `json:"quantity"`
	Price    *float64 `json:"price"`
}

// inputChecks is evaluated in order; the first failing check wins and later
// checks never run. Presence checks precede the type/range checks, so the
// range checks may dereference freely.
var inputChecks = []struct {
	field   string
	ok      func(v *validator.Validate, in ProductInput) bool
	message string
}{
	{
		field: "name",
		ok: func(_ *validator.Validate, in ProductInput) bool {
			return in.Name != nil && strings.TrimSpace(*in.Name) != ""
		},
		message: "name is required and cannot be empty",
	},
	{
		field: "quantity",
		ok: func(_ *validator.Validate, in ProductInput) bool {
			return in.Quantity != nil
		},
		message: "quantity is required",
	},
	{
		field: "price",
		ok: func(_ *validator.Validate, in ProductInput) bool {
			return in.Price != nil
		},
		message: "price is required",
	},
	{
		field: "quantity",
		ok: func(v *validator.Validate, in ProductInput) bool {
			q := *in.Quantity
			return q == math.Trunc(q) && v.Var(q, "gte=0") == nil
		},
		message: "quantity must be a non-negative integer",
	},
	{
		field: "price",
		ok: func(v *validator.Validate, in ProductInput) bool {
			return v.Var(*in.Price, "gte=0") == nil
		},
		message: "price must be a non-negative number",
	},
}

// ProductService implements the five repository operations: input validation,
// store access through the repository, and the error taxonomy the handlers
// map to HTTP statuses. Stateless between calls.
type ProductService struct {
	repo     repositories.ProductRepository
	validate *validator.Validate
}

// NewProductService creates a new ProductService.
func NewProductService(repo repositories.ProductRepository) *ProductService {
	return &ProductService{
		repo:     repo,
		validate: validator.New(),
	}
}

// List retrieves all products ordered by ascending ID.
func (s *ProductService) List(ctx context.Context) ([]models.Product, error) {
	return s.repo.GetAll(ctx)
}

// Get retrieves a single product. rawID comes straight from the request path.
func (s *ProductService) Get(ctx context.Context, rawID string) (*models.Product, error) {
	id, err := parseProductID(rawID)
	if err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

// Create validates the payload and inserts a new product. The store assigns
// ID and timestamps.
func (s *ProductService) Create(ctx context.Context, in ProductInput) (*models.Product, error) {
	name, quantity, price, err := s.validateInput(in)
	if err != nil {
		return nil, err
	}

	product := &models.Product{
		Name:     name,
		Quantity: quantity,
		Price:    price,
	}
	if err := s.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// Update validates the identifier and payload, then replaces name, quantity
// and price wholesale on the matching row.
func (s *ProductService) Update(ctx context.Context, rawID string, in ProductInput) (*models.Product, error) {
	id, err := parseProductID(rawID)
	if err != nil {
		return nil, err
	}

	name, quantity, price, err := s.validateInput(in)
	if err != nil {
		return nil, err
	}

	product := &models.Product{
		ID:       id,
		Name:     name,
		Quantity: quantity,
		Price:    price,
	}
	if err := s.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// Delete removes a product by its path identifier.
func (s *ProductService) Delete(ctx context.Context, rawID string) error {
	id, err := parseProductID(rawID)
	if err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// validateInput runs the ordered checks and, on success, returns the
// normalized field values (name trimmed, quantity narrowed to int).
func (s *ProductService) validateInput(in ProductInput) (string, int, float64, error) {
	for _, check := range inputChecks {
		if !check.ok(s.validate, in) {
			return "", 0, 0, &ValidationError{Field: check.field, Message: check.message}
		}
	}
	return strings.TrimSpace(*in.Name), int(*in.Quantity), *in.Price, nil
}

func parseProductID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidProductID, raw)
	}
	return id, nil
}

package customers

import (
	"context"
	"fmt"
	"strings"

	"github.com/easybiz-pos/easybiz-pos/internal/shared"
)

// Service wraps customer business rules.
type Service struct {
	repo Repository
}

// NewService constructs a new Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, clientID int64) ([]Customer, error) {
	return s.repo.List(ctx, clientID)
}

func (s *Service) Get(ctx context.Context, clientID, id int64) (Customer, error) {
	return s.repo.Get(ctx, clientID, id)
}

func (s *Service) Create(ctx context.Context, clientID int64, customer Customer) (Customer, error) {
	if err := validate(&customer); err != nil {
		return Customer{}, err
	}
	return s.repo.Create(ctx, clientID, customer)
}

func (s *Service) Update(ctx context.Context, clientID int64, customer Customer) (Customer, error) {
	if err := validate(&customer); err != nil {
		return Customer{}, err
	}
	return s.repo.Update(ctx, clientID, customer)
}

func (s *Service) Delete(ctx context.Context, clientID, id int64) error {
	return s.repo.Delete(ctx, clientID, id)
}

func validate(c *Customer) error {
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		return fmt.Errorf("%w: customer name required", shared.ErrValidation)
	}
	if c.CreditLimit < 0 {
		return fmt.Errorf("%w: credit limit must not be negative", shared.ErrValidation)
	}
	return nil
}

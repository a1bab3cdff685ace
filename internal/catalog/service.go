package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/easybiz-pos/easybiz-pos/internal/shared"
)

// Service wraps catalog business rules.
type Service struct {
	repo Repository
}

// NewService constructs a new Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) ListBrands(ctx context.Context, clientID int64) ([]Brand, error) {
	return s.repo.ListBrands(ctx, clientID)
}

func (s *Service) CreateBrand(ctx context.Context, clientID int64, name string) (Brand, error) {
	name, err := cleanName(name)
	if err != nil {
		return Brand{}, err
	}
	return s.repo.CreateBrand(ctx, clientID, name)
}

func (s *Service) UpdateBrand(ctx context.Context, clientID, id int64, name string) (Brand, error) {
	name, err := cleanName(name)
	if err != nil {
		return Brand{}, err
	}
	return s.repo.UpdateBrand(ctx, clientID, id, name)
}

func (s *Service) DeleteBrand(ctx context.Context, clientID, id int64) error {
	return s.repo.DeleteBrand(ctx, clientID, id)
}

func (s *Service) ListCategories(ctx context.Context, clientID int64) ([]Category, error) {
	return s.repo.ListCategories(ctx, clientID)
}

func (s *Service) CreateCategory(ctx context.Context, clientID int64, name string) (Category, error) {
	name, err := cleanName(name)
	if err != nil {
		return Category{}, err
	}
	return s.repo.CreateCategory(ctx, clientID, name)
}

func (s *Service) UpdateCategory(ctx context.Context, clientID, id int64, name string) (Category, error) {
	name, err := cleanName(name)
	if err != nil {
		return Category{}, err
	}
	return s.repo.UpdateCategory(ctx, clientID, id, name)
}

func (s *Service) DeleteCategory(ctx context.Context, clientID, id int64) error {
	return s.repo.DeleteCategory(ctx, clientID, id)
}

func cleanName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("%w: name required", shared.ErrValidation)
	}
	return name, nil
}

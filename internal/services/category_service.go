package services

import (
	"context"
	"strings"

	"livemart/internal/models"
	"livemart/internal/repositories"
	"livemart/pkg/apperrors"
)

// CategoryService handles business logic related to categories.
type CategoryService struct {
	repo repositories.CategoryRepository
}

// NewCategoryService creates a new CategoryService.
func NewCategoryService(repo repositories.CategoryRepository) *CategoryService {
	return &CategoryService{
		repo: repo,
	}
}

// GetAllCategories retrieves every category.
func (s *CategoryService) GetAllCategories(ctx context.Context) ([]models.Category, error) {
	return s.repo.GetAll(ctx)
}

// CreateCategory stores a category, trimming the name and generating an ID
// when absent.
func (s *CategoryService) CreateCategory(ctx context.Context, category *models.Category) (*models.Category, error) {
	category.Name = strings.TrimSpace(category.Name)
	if category.Name == "" {
		return nil, apperrors.New(apperrors.CodeBadRequest, "category name required")
	}
	if err := s.repo.Upsert(ctx, category); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, category.ID)
}

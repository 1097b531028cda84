// Package category manages the invoice category lookup table.
package category

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/invoxa/invoice-manager/internal/models"
	"github.com/invoxa/invoice-manager/pkg/logger"
)

var ErrNotFound = errors.New("category not found")

type Service interface {
	List(ctx context.Context) ([]models.Category, error)
	Get(ctx context.Context, id string) (*models.Category, error)
	// Create is idempotent per name: an existing category is returned
	// instead of a duplicate error.
	Create(ctx context.Context, name string) (*models.Category, error)
	// Update renames a category.
	Update(ctx context.Context, id, name string) (*models.Category, error)
	Delete(ctx context.Context, id string) error
}

type CategoryManager struct {
	db     *gorm.DB
	logger logger.Logger
}

func NewService(db *gorm.DB, log logger.Logger) Service {
	return &CategoryManager{db: db, logger: log}
}

func (s *CategoryManager) List(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	if err := s.db.WithContext(ctx).Order("name ASC").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

func (s *CategoryManager) Get(ctx context.Context, id string) (*models.Category, error) {
	var category models.Category
	err := s.db.WithContext(ctx).First(&category, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load category: %w", err)
	}
	return &category, nil
}

func (s *CategoryManager) Create(ctx context.Context, name string) (*models.Category, error) {
	if name == "" {
		return nil, fmt.Errorf("category name is required")
	}

	var category models.Category
	err := s.db.WithContext(ctx).
		Where("name = ?", name).
		FirstOrCreate(&category, models.Category{Name: name}).Error
	if err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	return &category, nil
}

func (s *CategoryManager) Update(ctx context.Context, id, name string) (*models.Category, error) {
	if name == "" {
		return nil, fmt.Errorf("category name is required")
	}

	category, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	category.Name = name
	if err := s.db.WithContext(ctx).Save(category).Error; err != nil {
		return nil, fmt.Errorf("failed to update category: %w", err)
	}

	return category, nil
}

func (s *CategoryManager) Delete(ctx context.Context, id string) error {
	result := s.db.WithContext(ctx).Delete(&models.Category{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete category: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

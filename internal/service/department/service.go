// Package department manages the invoice department lookup table.
package department

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/invoxa/invoice-manager/internal/models"
	"github.com/invoxa/invoice-manager/pkg/logger"
)

var ErrNotFound = errors.New("department not found")

type Service interface {
	List(ctx context.Context) ([]models.Department, error)
	Get(ctx context.Context, id string) (*models.Department, error)
	Create(ctx context.Context, name string) (*models.Department, error)
	// Update renames a department.
	Update(ctx context.Context, id, name string) (*models.Department, error)
	Delete(ctx context.Context, id string) error
}

type DepartmentManager struct {
	db     *gorm.DB
	logger logger.Logger
}

func NewService(db *gorm.DB, log logger.Logger) Service {
	return &DepartmentManager{db: db, logger: log}
}

func (s *DepartmentManager) List(ctx context.Context) ([]models.Department, error) {
	var departments []models.Department
	if err := s.db.WithContext(ctx).Order("name ASC").Find(&departments).Error; err != nil {
		return nil, fmt.Errorf("failed to list departments: %w", err)
	}
	return departments, nil
}

func (s *DepartmentManager) Get(ctx context.Context, id string) (*models.Department, error) {
	var department models.Department
	err := s.db.WithContext(ctx).First(&department, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load department: %w", err)
	}
	return &department, nil
}

func (s *DepartmentManager) Create(ctx context.Context, name string) (*models.Department, error) {
	if name == "" {
		return nil, fmt.Errorf("department name is required")
	}

	var department models.Department
	err := s.db.WithContext(ctx).
		Where("name = ?", name).
		FirstOrCreate(&department, models.Department{Name: name}).Error
	if err != nil {
		return nil, fmt.Errorf("failed to create department: %w", err)
	}

	return &department, nil
}

func (s *DepartmentManager) Update(ctx context.Context, id, name string) (*models.Department, error) {
	if name == "" {
		return nil, fmt.Errorf("department name is required")
	}

	department, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	department.Name = name
	if err := s.db.WithContext(ctx).Save(department).Error; err != nil {
		return nil, fmt.Errorf("failed to update department: %w", err)
	}

	return department, nil
}

func (s *DepartmentManager) Delete(ctx context.Context, id string) error {
	result := s.db.WithContext(ctx).Delete(&models.Department{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete department: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

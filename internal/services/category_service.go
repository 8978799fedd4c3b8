package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/yukikurage/task-tracker-api/internal/models"
	"github.com/yukikurage/task-tracker-api/internal/repository"
	"gorm.io/gorm"
)

const maxCategoryNameLength = 100

var (
	ErrCategoryNotFound    = errors.New("category not found")
	ErrCategoryNameTaken   = errors.New("category name already exists")
	ErrInvalidCategoryName = errors.New("category name must be between 1 and 100 characters")
)

// CategoryService handles category business logic
type CategoryService struct {
	categoryRepo repository.CategoryRepository
}

// NewCategoryService creates a new CategoryService
func NewCategoryService(categoryRepo repository.CategoryRepository) *CategoryService {
	return &CategoryService{categoryRepo: categoryRepo}
}

// CreateCategory creates a category for the owner. Names are unique per owner.
func (s *CategoryService) CreateCategory(ctx context.Context, ownerID uint64, name string) (*models.Category, error) {
	name, err := normalizeCategoryName(name)
	if err != nil {
		return nil, err
	}

	if err := s.ensureNameAvailable(ctx, ownerID, name, 0); err != nil {
		return nil, err
	}

	category := &models.Category{
		Name:    name,
		OwnerID: ownerID,
	}
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	return category, nil
}

// ListCategories lists the owner's categories
func (s *CategoryService) ListCategories(ctx context.Context, ownerID uint64) ([]models.Category, error) {
	categories, err := s.categoryRepo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

// RenameCategory renames one of the owner's categories
func (s *CategoryService) RenameCategory(ctx context.Context, categoryID, ownerID uint64, name string) (*models.Category, error) {
	name, err := normalizeCategoryName(name)
	if err != nil {
		return nil, err
	}

	category, err := s.findOwned(ctx, categoryID, ownerID)
	if err != nil {
		return nil, err
	}

	if category.Name == name {
		return category, nil
	}
	if err := s.ensureNameAvailable(ctx, ownerID, name, category.ID); err != nil {
		return nil, err
	}

	category.Name = name
	if err := s.categoryRepo.Update(ctx, category); err != nil {
		return nil, fmt.Errorf("failed to update category: %w", err)
	}

	return category, nil
}

// DeleteCategory deletes one of the owner's categories. Its tasks are kept
// and become uncategorized.
func (s *CategoryService) DeleteCategory(ctx context.Context, categoryID, ownerID uint64) error {
	if _, err := s.findOwned(ctx, categoryID, ownerID); err != nil {
		return err
	}

	if err := s.categoryRepo.Delete(ctx, categoryID); err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}
	return nil
}

func (s *CategoryService) findOwned(ctx context.Context, categoryID, ownerID uint64) (*models.Category, error) {
	category, err := s.categoryRepo.FindByID(ctx, categoryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to find category: %w", err)
	}
	if category.OwnerID != ownerID {
		return nil, ErrCategoryNotFound
	}
	return category, nil
}

func (s *CategoryService) ensureNameAvailable(ctx context.Context, ownerID uint64, name string, exceptID uint64) error {
	existing, err := s.categoryRepo.FindByOwnerAndName(ctx, ownerID, name)
	if err == nil {
		if existing.ID != exceptID {
			return ErrCategoryNameTaken
		}
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to check category name: %w", err)
	}
	return nil
}

func normalizeCategoryName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" || len(name) > maxCategoryNameLength {
		return "", ErrInvalidCategoryName
	}
	return name, nil
}

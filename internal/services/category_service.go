package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	apperrors "zadeet/internal/errors"
	"zadeet/internal/models"
	"zadeet/internal/pagination"
)

// categoryService handles category-related business logic.
type categoryService struct {
	db *gorm.DB
}

// NewCategoryService creates a new CategoryServicer.
func NewCategoryService(db *gorm.DB) CategoryServicer {
	return &categoryService{db: db}
}

// CreateCategory creates a new root or child category
func (s *categoryService) CreateCategory(input CategoryInput) (*models.Category, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category name is required")
	}
	if !validKind(input.Kind) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category kind must be income or expense")
	}
	if input.MonthlyCap != nil && input.MonthlyCap.IsNegative() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "monthly cap cannot be negative")
	}

	category := &models.Category{
		Name:       name,
		Kind:       input.Kind,
		ParentID:   input.ParentID,
		MonthlyCap: input.MonthlyCap,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := ensureUniqueName(tx, name, 0); err != nil {
			return err
		}

		if input.ParentID != nil {
			parent, err := findCategory(tx, *input.ParentID)
			if err != nil {
				return parentNotFound(err)
			}
			if err := checkParent(parent, input.Kind); err != nil {
				return err
			}
		}

		if err := tx.Create(category).Error; err != nil {
			return translateCategoryWriteError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return category, nil
}

// GetCategories retrieves a paginated list of categories, optionally of one kind.
func (s *categoryService) GetCategories(page pagination.PageRequest, kind *models.CategoryKind) (*pagination.PageResponse[models.Category], error) {
	base := s.db.Model(&models.Category{})
	if kind != nil {
		base = base.Where("kind = ?", *kind)
	}

	result, err := pagination.Fetch[models.Category](base, page, func(db *gorm.DB) *gorm.DB {
		return db.Order("name ASC")
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return result, nil
}

// GetCategoryTree returns the root categories with their children, both ordered by name.
func (s *categoryService) GetCategoryTree() ([]models.Category, error) {
	return loadCategoryTree(s.db)
}

func loadCategoryTree(db *gorm.DB) ([]models.Category, error) {
	var roots []models.Category
	err := db.
		Preload("Children", func(db *gorm.DB) *gorm.DB { return db.Order("name ASC") }).
		Where("parent_id IS NULL").
		Order("name ASC").
		Find(&roots).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return roots, nil
}

// GetCategoryByID retrieves a category by ID
func (s *categoryService) GetCategoryByID(categoryID uint) (*models.Category, error) {
	return findCategory(s.db, categoryID)
}

// UpdateCategory applies the present fields of patch, re-checking the tree,
// kind and uniqueness rules against the resulting category.
func (s *categoryService) UpdateCategory(categoryID uint, patch CategoryPatch) (*models.Category, error) {
	var result *models.Category

	err := s.db.Transaction(func(tx *gorm.DB) error {
		category, err := findCategory(tx, categoryID)
		if err != nil {
			return err
		}

		updates := make(map[string]interface{})

		if patch.Name != nil {
			name := strings.TrimSpace(*patch.Name)
			if name == "" {
				return apperrors.WithMessage(apperrors.ErrInvalidInput, "category name cannot be empty")
			}
			if name != category.Name {
				if err := ensureUniqueName(tx, name, category.ID); err != nil {
					return err
				}
				updates["name"] = name
			}
		}

		kind := category.Kind
		if patch.Kind != nil {
			if !validKind(*patch.Kind) {
				return apperrors.WithMessage(apperrors.ErrInvalidInput, "category kind must be income or expense")
			}
			kind = *patch.Kind
			updates["kind"] = kind
		}

		var childCount int64
		if err := tx.Model(&models.Category{}).Where("parent_id = ?", category.ID).Count(&childCount).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		parentID := category.ParentID
		switch {
		case patch.ClearParent:
			parentID = nil
			updates["parent_id"] = nil
		case patch.ParentID != nil:
			if *patch.ParentID == category.ID {
				return apperrors.ErrSelfParentCategory
			}
			if childCount > 0 {
				return apperrors.WithMessage(apperrors.ErrCategoryTooDeep, "a category with subcategories cannot become a subcategory")
			}
			parentID = patch.ParentID
			updates["parent_id"] = *patch.ParentID
		}

		if parentID != nil {
			parent, err := findCategory(tx, *parentID)
			if err != nil {
				return parentNotFound(err)
			}
			if err := checkParent(parent, kind); err != nil {
				return err
			}
		}

		if kind != category.Kind && childCount > 0 {
			return apperrors.WithMessage(apperrors.ErrCategoryKindMismatch, "cannot change the kind of a category that has subcategories")
		}

		switch {
		case patch.ClearMonthlyCap:
			updates["monthly_cap"] = nil
		case patch.MonthlyCap != nil:
			if patch.MonthlyCap.IsNegative() {
				return apperrors.WithMessage(apperrors.ErrInvalidInput, "monthly cap cannot be negative")
			}
			updates["monthly_cap"] = *patch.MonthlyCap
		}

		if len(updates) > 0 {
			if err := tx.Model(category).Updates(updates).Error; err != nil {
				return translateCategoryWriteError(err)
			}
		}

		result, err = findCategory(tx, category.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// DeleteCategory removes a category that no transaction references. Its
// children become roots and its caps are removed.
func (s *categoryService) DeleteCategory(categoryID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		category, err := findCategory(tx, categoryID)
		if err != nil {
			return err
		}

		var txCount int64
		if err := tx.Model(&models.Transaction{}).Where("category_id = ?", category.ID).Count(&txCount).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if txCount > 0 {
			return apperrors.ErrCategoryInUse
		}

		if err := tx.Model(&models.Category{}).Where("parent_id = ?", category.ID).Update("parent_id", nil).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := tx.Where("category_id = ?", category.ID).Delete(&models.Cap{}).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := tx.Delete(category).Error; err != nil {
			if errors.Is(err, gorm.ErrForeignKeyViolated) {
				return apperrors.ErrCategoryInUse
			}
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
}

func validKind(kind models.CategoryKind) bool {
	return kind == models.CategoryKindIncome || kind == models.CategoryKindExpense
}

func findCategory(db *gorm.DB, categoryID uint) (*models.Category, error) {
	var category models.Category
	if err := db.First(&category, categoryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCategoryNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &category, nil
}

func ensureUniqueName(db *gorm.DB, name string, excludeID uint) error {
	var count int64
	if err := db.Model(&models.Category{}).
		Where("name = ? AND id <> ?", name, excludeID).
		Count(&count).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		return apperrors.ErrDuplicateCategory
	}
	return nil
}

// checkParent enforces the two-level tree and same-kind rules.
func checkParent(parent *models.Category, kind models.CategoryKind) error {
	if !parent.IsRoot() {
		return apperrors.ErrCategoryTooDeep
	}
	if parent.Kind != kind {
		return apperrors.ErrCategoryKindMismatch
	}
	return nil
}

func parentNotFound(err error) error {
	if errors.Is(err, apperrors.ErrCategoryNotFound) {
		return apperrors.WithMessage(apperrors.ErrCategoryNotFound, "parent category not found")
	}
	return err
}

func translateCategoryWriteError(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperrors.Wrap(apperrors.ErrDuplicateCategory, err)
	}
	return apperrors.Wrap(apperrors.ErrInternalServer, err)
}

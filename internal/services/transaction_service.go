package services

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	apperrors "zadeet/internal/errors"
	"zadeet/internal/models"
	"zadeet/internal/pagination"
	"zadeet/internal/period"
)

const (
	defaultRecentLimit = 3
	maxRecentLimit     = 50
)

// transactionService handles transaction-related business logic.
type transactionService struct {
	db  *gorm.DB
	now func() time.Time
}

// NewTransactionService creates a new TransactionServicer.
func NewTransactionService(db *gorm.DB) TransactionServicer {
	return &transactionService{db: db, now: time.Now}
}

// ListTransactions returns a page of transactions matching filter, newest first.
// Each transaction carries its category and that category's parent.
func (s *transactionService) ListTransactions(page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error) {
	base, err := s.applyFilter(s.db.Model(&models.Transaction{}), filter)
	if err != nil {
		return nil, err
	}

	result, err := pagination.Fetch[models.Transaction](base, page, withCategory, func(db *gorm.DB) *gorm.DB {
		return db.Order("date DESC, id DESC")
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return result, nil
}

func (s *transactionService) applyFilter(query *gorm.DB, filter TransactionFilter) (*gorm.DB, error) {
	if filter.CategoryID != nil {
		// A parent category also matches its children's transactions.
		query = query.Where(
			"category_id IN (?)",
			s.db.Model(&models.Category{}).Select("id").Where("id = ? OR parent_id = ?", *filter.CategoryID, *filter.CategoryID),
		)
	}

	if search := strings.TrimSpace(filter.Search); search != "" {
		query = query.Where("LOWER(label) LIKE ?", "%"+strings.ToLower(search)+"%")
	}

	current := period.Of(s.now())
	switch filter.Preset {
	case "", PresetAll:
	case PresetCurrentMonth:
		query = inMonths(query, current, current)
	case PresetLastMonth:
		previous := current.AddMonths(-1)
		query = inMonths(query, previous, previous)
	case PresetLast3Months:
		query = inMonths(query, current.AddMonths(-2), current)
	default:
		return nil, apperrors.ErrInvalidDatePreset
	}

	return query.Session(&gorm.Session{}), nil
}

// inMonths restricts query to dates from the start of first to the end of last.
func inMonths(query *gorm.DB, first, last period.Month) *gorm.DB {
	return query.Where("date >= ? AND date < ?", first.Start(), last.End())
}

func withCategory(query *gorm.DB) *gorm.DB {
	return query.Preload("Category").Preload("Category.Parent")
}

// GetRecentTransactions returns the latest transactions by date.
func (s *transactionService) GetRecentTransactions(limit int) ([]models.Transaction, error) {
	if limit <= 0 {
		limit = defaultRecentLimit
	}
	if limit > maxRecentLimit {
		limit = maxRecentLimit
	}

	var transactions []models.Transaction
	if err := withCategory(s.db).Order("date DESC, id DESC").Limit(limit).Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return transactions, nil
}

// GetMonthTransactions returns every transaction of the given YYYY-MM month, newest first.
func (s *transactionService) GetMonthTransactions(periodID string) ([]models.Transaction, error) {
	m, err := period.Parse(periodID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInvalidPeriod, err)
	}

	var transactions []models.Transaction
	if err := withCategory(inMonths(s.db, m, m)).Order("date DESC, id DESC").Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return transactions, nil
}

// CreateTransaction records a new transaction on an existing category
func (s *transactionService) CreateTransaction(input TransactionInput) (*models.Transaction, error) {
	label := strings.TrimSpace(input.Label)
	if label == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "label is required")
	}
	if !input.Amount.IsPositive() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
	}

	date := s.now()
	if input.Date != nil && !input.Date.IsZero() {
		date = *input.Date
	}

	transaction := &models.Transaction{
		Label:      label,
		Amount:     input.Amount,
		Date:       date,
		CategoryID: input.CategoryID,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		category, err := findCategory(tx, input.CategoryID)
		if err != nil {
			return err
		}
		if err := tx.Create(transaction).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		transaction.Category = category
		return nil
	})
	if err != nil {
		return nil, err
	}

	return transaction, nil
}

// GetTransactionByID retrieves a transaction with its category
func (s *transactionService) GetTransactionByID(transactionID uint) (*models.Transaction, error) {
	return findTransaction(s.db, transactionID)
}

// UpdateTransaction applies the present fields of patch atomically.
func (s *transactionService) UpdateTransaction(transactionID uint, patch TransactionPatch) (*models.Transaction, error) {
	var result *models.Transaction

	err := s.db.Transaction(func(tx *gorm.DB) error {
		transaction, err := findTransaction(tx, transactionID)
		if err != nil {
			return err
		}

		updates := make(map[string]interface{})
		if patch.Label != nil {
			label := strings.TrimSpace(*patch.Label)
			if label == "" {
				return apperrors.WithMessage(apperrors.ErrInvalidInput, "label cannot be empty")
			}
			updates["label"] = label
		}
		if patch.Amount != nil {
			if !patch.Amount.IsPositive() {
				return apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
			}
			updates["amount"] = *patch.Amount
		}
		if patch.CategoryID != nil {
			if _, err := findCategory(tx, *patch.CategoryID); err != nil {
				return err
			}
			updates["category_id"] = *patch.CategoryID
		}
		if patch.Date != nil && !patch.Date.IsZero() {
			updates["date"] = patch.Date.UTC()
		}

		if len(updates) > 0 {
			if err := tx.Model(&models.Transaction{}).Where("id = ?", transaction.ID).Updates(updates).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
		}

		result, err = findTransaction(tx, transaction.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// DeleteTransaction deletes a transaction
func (s *transactionService) DeleteTransaction(transactionID uint) error {
	result := s.db.Delete(&models.Transaction{}, transactionID)
	if result.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrTransactionNotFound
	}
	return nil
}

func findTransaction(db *gorm.DB, transactionID uint) (*models.Transaction, error) {
	var transaction models.Transaction
	if err := withCategory(db).First(&transaction, transactionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTransactionNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &transaction, nil
}

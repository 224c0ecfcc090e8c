package services

import (
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "zadeet/internal/errors"
	"zadeet/internal/models"
	"zadeet/internal/period"
)

// capService manages per-period category caps and the periods they belong to.
type capService struct {
	db *gorm.DB
}

// NewCapService creates a new CapServicer.
func NewCapService(db *gorm.DB) CapServicer {
	return &capService{db: db}
}

// GetPeriods returns every known period, newest first.
func (s *capService) GetPeriods() ([]models.Period, error) {
	var periods []models.Period
	if err := s.db.Order("id DESC").Find(&periods).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return periods, nil
}

// GetPeriod returns one period by its YYYY-MM identifier.
func (s *capService) GetPeriod(periodID string) (*models.Period, error) {
	m, err := parsePeriod(periodID)
	if err != nil {
		return nil, err
	}
	return findPeriod(s.db, m.String())
}

// CreateCap creates the cap of a category for a period. The period is created
// on first use; a second cap for the same pair is a conflict.
func (s *capService) CreateCap(categoryID uint, periodID string, amount decimal.Decimal) (*models.Cap, error) {
	m, err := validateCapInput(periodID, amount)
	if err != nil {
		return nil, err
	}

	var result *models.Cap
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if _, err := findCategory(tx, categoryID); err != nil {
			return err
		}
		p, err := getOrCreatePeriod(tx, m)
		if err != nil {
			return err
		}

		var count int64
		if err := tx.Model(&models.Cap{}).
			Where("category_id = ? AND period_id = ?", categoryID, p.ID).
			Count(&count).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if count > 0 {
			return apperrors.ErrDuplicateCap
		}

		c := &models.Cap{CategoryID: categoryID, PeriodID: p.ID, Amount: amount}
		if err := tx.Create(c).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return apperrors.Wrap(apperrors.ErrDuplicateCap, err)
			}
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		result = c
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// UpsertCap sets the cap of a category for a period, creating it when absent.
func (s *capService) UpsertCap(categoryID uint, periodID string, amount decimal.Decimal) (*models.Cap, error) {
	m, err := validateCapInput(periodID, amount)
	if err != nil {
		return nil, err
	}

	var result models.Cap
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if _, err := findCategory(tx, categoryID); err != nil {
			return err
		}
		p, err := getOrCreatePeriod(tx, m)
		if err != nil {
			return err
		}

		err = tx.Where("category_id = ? AND period_id = ?", categoryID, p.ID).First(&result).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			result = models.Cap{CategoryID: categoryID, PeriodID: p.ID, Amount: amount}
			if err := tx.Create(&result).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
		case err != nil:
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		default:
			if err := tx.Model(&result).Update("amount", amount).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
			result.Amount = amount
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &result, nil
}

// GetCapsForPeriod returns the caps of a period with their categories.
func (s *capService) GetCapsForPeriod(periodID string) ([]models.Cap, error) {
	m, err := parsePeriod(periodID)
	if err != nil {
		return nil, err
	}
	if _, err := findPeriod(s.db, m.String()); err != nil {
		return nil, err
	}

	var caps []models.Cap
	if err := s.db.Preload("Category").Where("period_id = ?", m.String()).Order("id ASC").Find(&caps).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return caps, nil
}

// UpdateCap changes the amount of a cap found by its id.
func (s *capService) UpdateCap(capID uint, amount decimal.Decimal) (*models.Cap, error) {
	if amount.IsNegative() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "cap amount cannot be negative")
	}
	return s.updateAmount(amount, "id = ?", capID)
}

// UpdateCapByKey changes the amount of the cap of a category for a period.
func (s *capService) UpdateCapByKey(categoryID uint, periodID string, amount decimal.Decimal) (*models.Cap, error) {
	m, err := validateCapInput(periodID, amount)
	if err != nil {
		return nil, err
	}
	return s.updateAmount(amount, "category_id = ? AND period_id = ?", categoryID, m.String())
}

func (s *capService) updateAmount(amount decimal.Decimal, query string, args ...interface{}) (*models.Cap, error) {
	var c models.Cap
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where(query, args...).First(&c).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrCapNotFound
			}
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := tx.Model(&c).Update("amount", amount).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		c.Amount = amount
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// DeleteCap deletes a cap by its id.
func (s *capService) DeleteCap(capID uint) error {
	return s.deleteWhere("id = ?", capID)
}

// DeleteCapByKey deletes the cap of a category for a period.
func (s *capService) DeleteCapByKey(categoryID uint, periodID string) error {
	m, err := parsePeriod(periodID)
	if err != nil {
		return err
	}
	return s.deleteWhere("category_id = ? AND period_id = ?", categoryID, m.String())
}

func (s *capService) deleteWhere(query string, args ...interface{}) error {
	result := s.db.Where(query, args...).Delete(&models.Cap{})
	if result.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrCapNotFound
	}
	return nil
}

func parsePeriod(periodID string) (period.Month, error) {
	m, err := period.Parse(periodID)
	if err != nil {
		return period.Month{}, apperrors.Wrap(apperrors.ErrInvalidPeriod, err)
	}
	return m, nil
}

func validateCapInput(periodID string, amount decimal.Decimal) (period.Month, error) {
	if amount.IsNegative() {
		return period.Month{}, apperrors.WithMessage(apperrors.ErrInvalidInput, "cap amount cannot be negative")
	}
	return parsePeriod(periodID)
}

func findPeriod(db *gorm.DB, id string) (*models.Period, error) {
	var p models.Period
	if err := db.First(&p, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrPeriodNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &p, nil
}

func getOrCreatePeriod(tx *gorm.DB, m period.Month) (*models.Period, error) {
	p := models.Period{ID: m.String(), Name: m.DisplayName()}
	if err := tx.Where(models.Period{ID: p.ID}).FirstOrCreate(&p).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &p, nil
}

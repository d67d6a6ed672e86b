package repository

import (
	"winehouse-pos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProductStatusFilter narrows report listings; zero values mean "any"
type ProductStatusFilter struct {
	Type       model.StatusType
	Status     model.ReportState
	ReportedBy *uuid.UUID
}

type ProductStatusRepository interface {
	Create(report *model.ProductStatus) error
	FindByID(id uuid.UUID) (*model.ProductStatus, error)
	FindAll(filter ProductStatusFilter) ([]model.ProductStatus, error)
	// Save persists a reviewed or revised report only if its stored status is
	// still expected. When deduct > 0 the report's stock lot is decremented in
	// the same transaction. Returns ErrStaleWrite or ErrInsufficientStock and
	// rolls back on either.
	Save(report *model.ProductStatus, expected model.ReportState, deduct int) error
}

type productStatusRepo struct {
	db *gorm.DB
}

func NewProductStatusRepo(db *gorm.DB) ProductStatusRepository {
	return &productStatusRepo{db}
}

func (r *productStatusRepo) Create(report *model.ProductStatus) error {
	return r.db.Create(report).Error
}

func (r *productStatusRepo) FindByID(id uuid.UUID) (*model.ProductStatus, error) {
	var report model.ProductStatus
	if err := r.db.First(&report, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &report, nil
}

func (r *productStatusRepo) FindAll(filter ProductStatusFilter) ([]model.ProductStatus, error) {
	var reports []model.ProductStatus

	query := r.db.Model(&model.ProductStatus{})
	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.ReportedBy != nil {
		query = query.Where("reported_by = ?", *filter.ReportedBy)
	}

	err := query.Order("reported_at DESC").Find(&reports).Error
	return reports, err
}

func (r *productStatusRepo) Save(report *model.ProductStatus, expected model.ReportState, deduct int) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(report).
			Where("status = ?", expected).
			Select("*").
			Omit("id", "created_at", "created_by", "deleted_at", "deleted_by").
			Updates(report)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrStaleWrite
		}

		if deduct > 0 {
			return decrementStock(tx, report.StockID, deduct, report.UpdatedBy)
		}
		return nil
	})
}

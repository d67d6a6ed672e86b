package repository

import (
	"winehouse-pos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type StockRepository interface {
	Create(stock *model.Stock) error
	FindAll() ([]model.Stock, error)
	FindByID(id uuid.UUID) (*model.Stock, error)
	FindByProductID(productID uuid.UUID) ([]model.Stock, error)
	// FindAvailable returns the earliest-expiring lot of the product that still
	// holds at least qty units, or gorm.ErrRecordNotFound.
	FindAvailable(productID uuid.UUID, qty int) (*model.Stock, error)
}

type stockRepo struct {
	db *gorm.DB
}

func NewStockRepo(db *gorm.DB) StockRepository {
	return &stockRepo{db}
}

func (r *stockRepo) Create(stock *model.Stock) error {
	return r.db.Create(stock).Error
}

func (r *stockRepo) FindAll() ([]model.Stock, error) {
	var stocks []model.Stock
	err := r.db.Order("expiry_date ASC, created_at ASC").Find(&stocks).Error
	return stocks, err
}

func (r *stockRepo) FindByID(id uuid.UUID) (*model.Stock, error) {
	var stock model.Stock
	if err := r.db.First(&stock, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &stock, nil
}

func (r *stockRepo) FindByProductID(productID uuid.UUID) ([]model.Stock, error) {
	var stocks []model.Stock
	err := r.db.Where("product_id = ?", productID).
		Order("expiry_date ASC, created_at ASC").
		Find(&stocks).Error
	return stocks, err
}

func (r *stockRepo) FindAvailable(productID uuid.UUID, qty int) (*model.Stock, error) {
	var stock model.Stock
	err := r.db.Where("product_id = ? AND quantity >= ?", productID, qty).
		Order("expiry_date ASC, created_at ASC").
		First(&stock).Error
	if err != nil {
		return nil, err
	}
	return &stock, nil
}

// decrementStock subtracts qty from a lot in a single conditional UPDATE so
// concurrent sales and approvals can never drive the quantity below zero.
// Must run inside the caller's transaction.
func decrementStock(tx *gorm.DB, stockID uuid.UUID, qty int, updatedBy string) error {
	res := tx.Model(&model.Stock{}).
		Where("id = ? AND quantity >= ?", stockID, qty).
		Updates(map[string]interface{}{
			"quantity":   gorm.Expr("quantity - ?", qty),
			"updated_by": updatedBy,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrInsufficientStock
	}
	return nil
}

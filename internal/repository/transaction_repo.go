package repository

import (
	"time"

	"winehouse-pos/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type TransactionRepository interface {
	// Record decrements the referenced lot and inserts the sale in one database
	// transaction. Returns ErrInsufficientStock when the lot no longer holds
	// enough units; nothing is written in that case.
	Record(txn *model.Transaction) error
	FindAll() ([]model.Transaction, error)
	FindByID(id uuid.UUID) (*model.Transaction, error)
	FindBetween(start, end time.Time) ([]model.Transaction, error)
	GetSalesTrend(start, end time.Time) ([]SalesTrendData, error)
	GetInventoryStats(lowStockThreshold int) (*InventoryStats, error)
	GetSalesSummary(start, end time.Time) (*SalesSummary, error)
}

// SalesTrendData is one day of the sales chart
type SalesTrendData struct {
	Date     string          `json:"date"`
	Count    int64           `json:"count"`
	Quantity int64           `json:"quantity"`
	Amount   decimal.Decimal `json:"amount"`
}

// InventoryStats summarises products and stock lots
type InventoryStats struct {
	TotalProducts int64 `json:"total_products"`
	TotalStock    int64 `json:"total_stock"`
	LowStockItems int64 `json:"low_stock_items"`
}

// SalesSummary is the count and value of sales in a window
type SalesSummary struct {
	Count  int64           `json:"count"`
	Amount decimal.Decimal `json:"amount"`
}

type transactionRepo struct {
	db *gorm.DB
}

func NewTransactionRepo(db *gorm.DB) TransactionRepository {
	return &transactionRepo{db}
}

func (r *transactionRepo) Record(txn *model.Transaction) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := decrementStock(tx, txn.StockID, txn.Quantity, txn.CreatedBy); err != nil {
			return err
		}
		return tx.Create(txn).Error
	})
}

func (r *transactionRepo) FindAll() ([]model.Transaction, error) {
	var transactions []model.Transaction
	err := r.db.Order("date DESC").Find(&transactions).Error
	return transactions, err
}

func (r *transactionRepo) FindByID(id uuid.UUID) (*model.Transaction, error) {
	var transaction model.Transaction
	if err := r.db.First(&transaction, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &transaction, nil
}

func (r *transactionRepo) FindBetween(start, end time.Time) ([]model.Transaction, error) {
	var transactions []model.Transaction
	err := r.db.Where("date >= ? AND date < ?", start, end).
		Order("date DESC").
		Find(&transactions).Error
	return transactions, err
}

// GetSalesTrend buckets sales per calendar day in the time zone of start
func (r *transactionRepo) GetSalesTrend(start, end time.Time) ([]SalesTrendData, error) {
	var results []SalesTrendData

	rows, err := r.db.Model(&model.Transaction{}).
		Select(`
			TO_CHAR(DATE(date AT TIME ZONE ?), 'YYYY-MM-DD') as day,
			COUNT(*) as count,
			COALESCE(SUM(quantity), 0) as quantity,
			COALESCE(SUM(total_price), 0) as amount
		`, start.Location().String()).
		Where("date >= ? AND date < ?", start, end).
		Group("day").
		Order("day ASC").
		Rows()

	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var data SalesTrendData
		if err := rows.Scan(&data.Date, &data.Count, &data.Quantity, &data.Amount); err != nil {
			return nil, err
		}
		results = append(results, data)
	}

	return results, rows.Err()
}

func (r *transactionRepo) GetInventoryStats(lowStockThreshold int) (*InventoryStats, error) {
	var stats InventoryStats

	if err := r.db.Model(&model.Product{}).Count(&stats.TotalProducts).Error; err != nil {
		return nil, err
	}
	if err := r.db.Model(&model.Stock{}).Select("COALESCE(SUM(quantity), 0)").Scan(&stats.TotalStock).Error; err != nil {
		return nil, err
	}
	if err := r.db.Model(&model.Stock{}).Where("quantity < ?", lowStockThreshold).Count(&stats.LowStockItems).Error; err != nil {
		return nil, err
	}

	return &stats, nil
}

func (r *transactionRepo) GetSalesSummary(start, end time.Time) (*SalesSummary, error) {
	var summary SalesSummary

	row := r.db.Model(&model.Transaction{}).
		Select("COUNT(*), COALESCE(SUM(total_price), 0)").
		Where("date >= ? AND date < ?", start, end).
		Row()
	if err := row.Scan(&summary.Count, &summary.Amount); err != nil {
		return nil, err
	}

	return &summary, nil
}

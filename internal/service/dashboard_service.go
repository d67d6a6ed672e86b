package service

import (
	"time"

	"winehouse-pos/internal/model"
	"winehouse-pos/internal/repository"

	"github.com/shopspring/decimal"
)

type DashboardService interface {
	GetDashboardStats() (*DashboardStats, error)
	GetSalesTrend(days int) ([]repository.SalesTrendData, error)
	GetTodayTransactions() ([]model.Transaction, error)
}

type DashboardStats struct {
	TotalProducts    int64           `json:"total_products"`
	TotalStock       int64           `json:"total_stock"`
	LowStockItems    int64           `json:"low_stock_items"`
	TotalSalesToday  int64           `json:"total_sales_today"`
	TotalSalesAmount decimal.Decimal `json:"total_sales_amount"`
	ActiveStaff      int64           `json:"active_staff"`
	TotalStaff       int64           `json:"total_staff"`
}

type dashboardService struct {
	txRepo            repository.TransactionRepository
	userRepo          repository.UserRepository
	lowStockThreshold int
	loc               *time.Location
	now               func() time.Time
}

func NewDashboardService(txRepo repository.TransactionRepository, userRepo repository.UserRepository, lowStockThreshold int, loc *time.Location) DashboardService {
	if lowStockThreshold <= 0 {
		lowStockThreshold = 10
	}
	if loc == nil {
		loc = time.UTC
	}
	return &dashboardService{
		txRepo:            txRepo,
		userRepo:          userRepo,
		lowStockThreshold: lowStockThreshold,
		loc:               loc,
		now:               time.Now,
	}
}

// dayBounds returns the start of the shop-local day containing t and the start of the next one
func (s *dashboardService) dayBounds(t time.Time) (time.Time, time.Time) {
	local := t.In(s.loc)
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, s.loc)
	return start, start.AddDate(0, 0, 1)
}

func (s *dashboardService) GetDashboardStats() (*DashboardStats, error) {
	inventory, err := s.txRepo.GetInventoryStats(s.lowStockThreshold)
	if err != nil {
		return nil, err
	}

	start, end := s.dayBounds(s.now())
	sales, err := s.txRepo.GetSalesSummary(start, end)
	if err != nil {
		return nil, err
	}

	totalStaff, err := s.userRepo.CountByRoleCode(model.RoleStaff, false)
	if err != nil {
		return nil, err
	}
	activeStaff, err := s.userRepo.CountByRoleCode(model.RoleStaff, true)
	if err != nil {
		return nil, err
	}

	return &DashboardStats{
		TotalProducts:    inventory.TotalProducts,
		TotalStock:       inventory.TotalStock,
		LowStockItems:    inventory.LowStockItems,
		TotalSalesToday:  sales.Count,
		TotalSalesAmount: sales.Amount,
		ActiveStaff:      activeStaff,
		TotalStaff:       totalStaff,
	}, nil
}

// GetSalesTrend returns per-day sales for the last days days, today included
func (s *dashboardService) GetSalesTrend(days int) ([]repository.SalesTrendData, error) {
	if days <= 0 || days > 365 {
		days = 7
	}
	start, end := s.dayBounds(s.now())
	return s.txRepo.GetSalesTrend(start.AddDate(0, 0, -(days-1)), end)
}

func (s *dashboardService) GetTodayTransactions() ([]model.Transaction, error) {
	start, end := s.dayBounds(s.now())
	return s.txRepo.FindBetween(start, end)
}

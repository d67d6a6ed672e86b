package service

import (
	"errors"
	"fmt"
	"time"

	"winehouse-pos/internal/model"
	"winehouse-pos/internal/repository"
	"winehouse-pos/pkg/validator"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type SalesService interface {
	Post(actor Actor, req *PostTransactionRequest) (*model.Transaction, error)
	GetAllTransactions() ([]model.Transaction, error)
	GetTransactionByID(id uuid.UUID) (*model.Transaction, error)
}

type PostTransactionRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"uuid_required"`
	Quantity  int       `json:"quantity" validate:"required,gt=0"`
	// Price is the unit price; the lot price is used when omitted
	Price *decimal.Decimal `json:"price"`
}

type salesService struct {
	productRepo     repository.ProductRepository
	stockRepo       repository.StockRepository
	transactionRepo repository.TransactionRepository
	activity        ActivityService
	hub             Publisher
	now             func() time.Time
}

func NewSalesService(pRepo repository.ProductRepository, sRepo repository.StockRepository, tRepo repository.TransactionRepository, activity ActivityService, hub Publisher) SalesService {
	return &salesService{
		productRepo:     pRepo,
		stockRepo:       sRepo,
		transactionRepo: tRepo,
		activity:        activity,
		hub:             publisherOrNop(hub),
		now:             time.Now,
	}
}

// Post records a sale against the earliest-expiring lot that can cover it.
// The lot decrement and the transaction insert commit together.
func (s *salesService) Post(actor Actor, req *PostTransactionRequest) (*model.Transaction, error) {
	if err := validator.FirstError(req); err != nil {
		return nil, invalid(err)
	}
	if req.Price != nil && req.Price.IsNegative() {
		return nil, invalid(errors.New("price must not be negative"))
	}

	product, err := s.productRepo.FindByID(req.ProductID)
	if err != nil {
		return nil, notFound(err, ErrProductNotFound)
	}

	lot, err := s.stockRepo.FindAvailable(product.ID, req.Quantity)
	if err != nil {
		return nil, notFound(err, ErrInsufficientStock)
	}

	price := lot.Price
	if req.Price != nil {
		price = *req.Price
	}

	userID := actor.ID.String()
	txn := &model.Transaction{
		ProductID:         product.ID,
		ProductName:       product.Name,
		StockID:           lot.ID,
		Quantity:          req.Quantity,
		Price:             price,
		TotalPrice:        price.Mul(decimal.NewFromInt(int64(req.Quantity))),
		Date:              s.now(),
		CreatedByUserID:   &userID,
		CreatedByUsername: actor.Username,
	}
	txn.CreatedBy = userID
	txn.UpdatedBy = userID

	if err := s.transactionRepo.Record(txn); err != nil {
		if errors.Is(err, repository.ErrInsufficientStock) {
			return nil, ErrInsufficientStock
		}
		return nil, err
	}

	s.activity.Record(actor, "New transaction", fmt.Sprintf("Sold %d units of %s", txn.Quantity, product.Name))

	s.hub.BroadcastJSON(map[string]interface{}{
		"type":   "stock_update",
		"action": "transaction_created",
		"transaction": map[string]interface{}{
			"id":          txn.ID,
			"product_id":  txn.ProductID,
			"stock_id":    txn.StockID,
			"quantity":    txn.Quantity,
			"total_price": txn.TotalPrice,
		},
		"user": map[string]interface{}{
			"id":   userID,
			"name": actor.Username,
		},
		"message": fmt.Sprintf("%s sold %d units of %s", actor.Username, txn.Quantity, product.Name),
	})

	return txn, nil
}

func (s *salesService) GetAllTransactions() ([]model.Transaction, error) {
	return s.transactionRepo.FindAll()
}

func (s *salesService) GetTransactionByID(id uuid.UUID) (*model.Transaction, error) {
	txn, err := s.transactionRepo.FindByID(id)
	if err != nil {
		return nil, notFound(err, ErrTransactionNotFound)
	}
	return txn, nil
}

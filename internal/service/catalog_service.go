package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"winehouse-pos/internal/model"
	"winehouse-pos/internal/repository"
	"winehouse-pos/pkg/validator"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CatalogService manages products, suppliers and delivered stock lots
type CatalogService interface {
	AddProduct(actor Actor, req *AddProductRequest) (*model.Product, error)
	GetAllProducts() ([]model.Product, error)
	GetProductByID(id uuid.UUID) (*model.Product, error)

	AddSupplier(actor Actor, req *AddSupplierRequest) (*model.Supplier, error)
	GetAllSuppliers() ([]model.Supplier, error)

	AddStock(actor Actor, req *AddStockRequest) (*model.Stock, error)
	GetAllStocks() ([]model.Stock, error)
	GetStocksByProduct(productID uuid.UUID) ([]model.Stock, error)
}

type AddProductRequest struct {
	Name     string `json:"name" validate:"required,max=255"`
	ImageURL string `json:"image_url" validate:"omitempty,max=2048"`
}

type AddSupplierRequest struct {
	Name          string `json:"name" validate:"required,max=255"`
	ContactNumber string `json:"contact_number" validate:"required,contact_number"`
}

type AddStockRequest struct {
	ProductID  uuid.UUID       `json:"product_id" validate:"uuid_required"`
	SupplierID uuid.UUID       `json:"supplier_id" validate:"uuid_required"`
	Quantity   int             `json:"quantity" validate:"gte=0"`
	Price      decimal.Decimal `json:"price"`
	DateAdded  string          `json:"date_added" validate:"required"`  // YYYY-MM-DD
	ExpiryDate string          `json:"expiry_date" validate:"required"` // YYYY-MM-DD
}

type catalogService struct {
	productRepo  repository.ProductRepository
	supplierRepo repository.SupplierRepository
	stockRepo    repository.StockRepository
	activity     ActivityService
	hub          Publisher
}

func NewCatalogService(pRepo repository.ProductRepository, sRepo repository.SupplierRepository, stRepo repository.StockRepository, activity ActivityService, hub Publisher) CatalogService {
	return &catalogService{
		productRepo:  pRepo,
		supplierRepo: sRepo,
		stockRepo:    stRepo,
		activity:     activity,
		hub:          publisherOrNop(hub),
	}
}

func (s *catalogService) AddProduct(actor Actor, req *AddProductRequest) (*model.Product, error) {
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}
	req.Name = strings.TrimSpace(req.Name)
	if err := validator.FirstError(req); err != nil {
		return nil, invalid(err)
	}

	userID := actor.ID.String()
	product := &model.Product{
		Name:            req.Name,
		ImageURL:        req.ImageURL,
		CreatedByUserID: &userID,
	}
	product.CreatedBy = userID
	product.UpdatedBy = userID

	if err := s.productRepo.Create(product); err != nil {
		return nil, err
	}

	s.activity.Record(actor, "Added new product", fmt.Sprintf("Added product: %s", product.Name))
	return product, nil
}

func (s *catalogService) GetAllProducts() ([]model.Product, error) {
	return s.productRepo.FindAll()
}

func (s *catalogService) GetProductByID(id uuid.UUID) (*model.Product, error) {
	product, err := s.productRepo.FindByID(id)
	if err != nil {
		return nil, notFound(err, ErrProductNotFound)
	}
	return product, nil
}

func (s *catalogService) AddSupplier(actor Actor, req *AddSupplierRequest) (*model.Supplier, error) {
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}
	req.Name = strings.TrimSpace(req.Name)
	req.ContactNumber = strings.TrimSpace(req.ContactNumber)
	if err := validator.FirstError(req); err != nil {
		return nil, invalid(err)
	}

	userID := actor.ID.String()
	supplier := &model.Supplier{
		Name:            req.Name,
		ContactNumber:   req.ContactNumber,
		CreatedByUserID: &userID,
	}
	supplier.CreatedBy = userID
	supplier.UpdatedBy = userID

	if err := s.supplierRepo.Create(supplier); err != nil {
		return nil, err
	}

	s.activity.Record(actor, "Added new supplier", fmt.Sprintf("Added supplier: %s", supplier.Name))
	return supplier, nil
}

func (s *catalogService) GetAllSuppliers() ([]model.Supplier, error) {
	return s.supplierRepo.FindAll()
}

func (s *catalogService) AddStock(actor Actor, req *AddStockRequest) (*model.Stock, error) {
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}
	if err := validator.FirstError(req); err != nil {
		return nil, invalid(err)
	}
	if req.Price.IsNegative() {
		return nil, invalid(errors.New("price must not be negative"))
	}

	dateAdded, err := time.Parse("2006-01-02", req.DateAdded)
	if err != nil {
		return nil, invalid(errors.New("date_added must use YYYY-MM-DD"))
	}
	expiry, err := time.Parse("2006-01-02", req.ExpiryDate)
	if err != nil {
		return nil, invalid(errors.New("expiry_date must use YYYY-MM-DD"))
	}
	if !expiry.After(dateAdded) {
		return nil, invalid(errors.New("expiry date must be after the date added"))
	}

	product, err := s.productRepo.FindByID(req.ProductID)
	if err != nil {
		return nil, notFound(err, ErrProductNotFound)
	}
	supplier, err := s.supplierRepo.FindByID(req.SupplierID)
	if err != nil {
		return nil, notFound(err, ErrSupplierNotFound)
	}

	userID := actor.ID.String()
	stock := &model.Stock{
		ProductID:       product.ID,
		ProductName:     product.Name,
		ProductImageURL: product.ImageURL,
		SupplierID:      supplier.ID,
		SupplierName:    supplier.Name,
		Quantity:        req.Quantity,
		Price:           req.Price,
		DateAdded:       dateAdded,
		ExpiryDate:      expiry,
		CreatedByUserID: &userID,
	}
	stock.CreatedBy = userID
	stock.UpdatedBy = userID

	if err := s.stockRepo.Create(stock); err != nil {
		return nil, err
	}

	s.activity.Record(actor, "Added new stock", fmt.Sprintf("Added %d units of %s", stock.Quantity, product.Name))

	s.hub.BroadcastJSON(map[string]interface{}{
		"type":   "stock_update",
		"action": "stock_added",
		"stock": map[string]interface{}{
			"id":           stock.ID,
			"product_id":   stock.ProductID,
			"product_name": stock.ProductName,
			"quantity":     stock.Quantity,
			"expiry_date":  stock.ExpiryDate,
		},
		"message": fmt.Sprintf("%s added %d units of %s", actor.Username, stock.Quantity, product.Name),
	})

	return stock, nil
}

func (s *catalogService) GetAllStocks() ([]model.Stock, error) {
	return s.stockRepo.FindAll()
}

func (s *catalogService) GetStocksByProduct(productID uuid.UUID) ([]model.Stock, error) {
	if _, err := s.productRepo.FindByID(productID); err != nil {
		return nil, notFound(err, ErrProductNotFound)
	}
	return s.stockRepo.FindByProductID(productID)
}

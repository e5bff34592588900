package service

import (
	"errors"
	"fmt"

	"go-beauty-pos/internal/model"
	"go-beauty-pos/internal/repository"
	"go-beauty-pos/internal/ws"
	"go-beauty-pos/pkg/validator"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrSKUExists        = errors.New("SKU already exists")
	ErrBarcodeExists    = errors.New("barcode already exists")
	ErrProductNotFound  = errors.New("product not found")
	ErrCategoryNotFound = errors.New("category not found")
	ErrCategoryInUse    = errors.New("category still has products")
	ErrCategoryExists   = errors.New("category name already exists")
)

// StockAdjustmentRequest is a manual correction outside the checkout flow:
// received goods, shrinkage, or a recount.
type StockAdjustmentRequest struct {
	Type            model.MovementType `json:"type" validate:"required,oneof=in out adjustment"`
	Quantity        int                `json:"quantity" validate:"required,gte=1"`
	Reason          string             `json:"reason" validate:"required,max=255"`
	ReferenceNumber string             `json:"reference_number" validate:"max=255"`
}

type CatalogService interface {
	// Products
	CreateProduct(req *model.Product, userID string) error
	UpdateProduct(id uuid.UUID, req *model.Product, userID string) (*model.Product, error)
	DeactivateProduct(id uuid.UUID, userID string) error
	GetAllProducts(search string, categoryID *uuid.UUID, activeOnly bool) ([]model.Product, error)
	GetProductByID(id uuid.UUID) (*model.Product, error)
	GetLowStockProducts() ([]model.Product, error)
	AdjustStock(productID uuid.UUID, req *StockAdjustmentRequest, userID uuid.UUID) (*model.Product, error)
	GetStockMovements(productID uuid.UUID, limit int) ([]model.StockMovement, error)

	// Categories
	CreateCategory(req *model.Category, userID string) error
	UpdateCategory(id uuid.UUID, req *model.Category, userID string) (*model.Category, error)
	DeleteCategory(id uuid.UUID) error
	GetAllCategories(search string) ([]model.Category, error)
	GetCategoryByID(id uuid.UUID) (*model.Category, error)
}

type catalogService struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
	movementRepo repository.StockMovementRepository
	db           *gorm.DB
	wsHub        *ws.Hub
}

func NewCatalogService(
	productRepo repository.ProductRepository,
	categoryRepo repository.CategoryRepository,
	movementRepo repository.StockMovementRepository,
	db *gorm.DB,
	hub *ws.Hub,
) CatalogService {
	return &catalogService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		movementRepo: movementRepo,
		db:           db,
		wsHub:        hub,
	}
}

func (s *catalogService) CreateProduct(req *model.Product, userID string) error {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		first := errs[0]
		return fmt.Errorf("validation failed: field '%s' failed on tag '%s'", first.FailedField, first.Tag)
	}

	if existing, _ := s.productRepo.FindBySKU(req.SKU); existing != nil {
		return ErrSKUExists
	}
	if req.Barcode != nil && *req.Barcode != "" {
		if existing, _ := s.productRepo.FindByBarcode(*req.Barcode); existing != nil {
			return ErrBarcodeExists
		}
	}
	if req.CategoryID != nil {
		if _, err := s.categoryRepo.FindByID(*req.CategoryID); err != nil {
			return ErrCategoryNotFound
		}
	}

	req.CreatedBy = userID
	req.UpdatedBy = userID
	if err := s.productRepo.Create(req); err != nil {
		return err
	}

	if s.wsHub != nil {
		go s.wsHub.Publish("product_created", map[string]interface{}{
			"product": map[string]interface{}{
				"id":             req.ID,
				"sku":            req.SKU,
				"name":           req.Name,
				"stock_quantity": req.StockQuantity,
				"price":          req.Price,
			},
		})
	}
	return nil
}

func (s *catalogService) UpdateProduct(id uuid.UUID, req *model.Product, userID string) (*model.Product, error) {
	var updated *model.Product

	// Stock edits race with checkouts, so the update runs under the same row
	// lock the checkout engine takes.
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var existing model.Product
		if err := tx.Set("gorm:query_option", "FOR UPDATE").First(&existing, "id = ?", id).Error; err != nil {
			return ErrProductNotFound
		}

		if req.SKU != existing.SKU {
			if other, _ := s.productRepo.FindBySKU(req.SKU); other != nil && other.ID != existing.ID {
				return ErrSKUExists
			}
		}
		if req.CategoryID != nil {
			if _, err := s.categoryRepo.FindByID(*req.CategoryID); err != nil {
				return ErrCategoryNotFound
			}
		}

		existing.Name = req.Name
		existing.Description = req.Description
		existing.SKU = req.SKU
		existing.Barcode = req.Barcode
		existing.CategoryID = req.CategoryID
		existing.Price = req.Price
		existing.Cost = req.Cost
		existing.StockQuantity = req.StockQuantity
		existing.MinStockLevel = req.MinStockLevel
		existing.ImageURL = req.ImageURL
		existing.IsActive = req.IsActive
		existing.UpdatedBy = userID

		if errs := validator.ValidateStruct(&existing); len(errs) > 0 {
			first := errs[0]
			return fmt.Errorf("validation failed: field '%s' failed on tag '%s'", first.FailedField, first.Tag)
		}

		if err := tx.Save(&existing).Error; err != nil {
			return err
		}
		updated = &existing
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.wsHub != nil {
		go s.wsHub.Publish("product_updated", map[string]interface{}{
			"product": map[string]interface{}{
				"id":             updated.ID,
				"sku":            updated.SKU,
				"name":           updated.Name,
				"stock_quantity": updated.StockQuantity,
				"price":          updated.Price,
			},
		})
	}
	return updated, nil
}

func (s *catalogService) DeactivateProduct(id uuid.UUID, userID string) error {
	if _, err := s.productRepo.FindByID(id); err != nil {
		return ErrProductNotFound
	}
	return s.productRepo.Deactivate(id, userID)
}

func (s *catalogService) GetAllProducts(search string, categoryID *uuid.UUID, activeOnly bool) ([]model.Product, error) {
	return s.productRepo.FindAll(search, categoryID, activeOnly)
}

func (s *catalogService) GetProductByID(id uuid.UUID) (*model.Product, error) {
	product, err := s.productRepo.FindByID(id)
	if err != nil {
		return nil, ErrProductNotFound
	}
	return product, nil
}

func (s *catalogService) GetLowStockProducts() ([]model.Product, error) {
	return s.productRepo.FindLowStock()
}

// AdjustStock applies a manual stock correction and records the movement,
// both inside one transaction under a product row lock.
func (s *catalogService) AdjustStock(productID uuid.UUID, req *StockAdjustmentRequest, userID uuid.UUID) (*model.Product, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		first := errs[0]
		return nil, fmt.Errorf("validation failed: field '%s' failed on tag '%s'", first.FailedField, first.Tag)
	}

	var adjusted *model.Product
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var product model.Product
		if err := tx.Set("gorm:query_option", "FOR UPDATE").First(&product, "id = ?", productID).Error; err != nil {
			return ErrProductNotFound
		}

		previous := product.StockQuantity
		quantity := req.Quantity
		var newStock int
		switch req.Type {
		case model.MovementIn:
			newStock = previous + quantity
		case model.MovementOut:
			newStock = previous - quantity
			if newStock < 0 {
				newStock = 0
				quantity = previous
			}
		case model.MovementAdjustment:
			newStock = req.Quantity
			quantity = newStock - previous
			if quantity < 0 {
				quantity = -quantity
			}
		}

		if err := s.productRepo.UpdateStock(tx, product.ID, newStock, userID.String()); err != nil {
			return err
		}

		movement := &model.StockMovement{
			ProductID:       product.ID,
			UserID:          userID,
			Type:            req.Type,
			Quantity:        quantity,
			PreviousStock:   previous,
			NewStock:        newStock,
			Reason:          req.Reason,
			ReferenceNumber: req.ReferenceNumber,
		}
		movement.CreatedBy = userID.String()
		movement.UpdatedBy = userID.String()
		if err := tx.Create(movement).Error; err != nil {
			return err
		}

		product.StockQuantity = newStock
		adjusted = &product
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.wsHub != nil {
		go s.wsHub.Publish("stock_update", map[string]interface{}{
			"product": map[string]interface{}{
				"id":             adjusted.ID,
				"sku":            adjusted.SKU,
				"name":           adjusted.Name,
				"stock_quantity": adjusted.StockQuantity,
			},
		})
	}
	return adjusted, nil
}

func (s *catalogService) GetStockMovements(productID uuid.UUID, limit int) ([]model.StockMovement, error) {
	return s.movementRepo.FindByProduct(productID, limit)
}

func (s *catalogService) CreateCategory(req *model.Category, userID string) error {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		first := errs[0]
		return fmt.Errorf("validation failed: field '%s' failed on tag '%s'", first.FailedField, first.Tag)
	}
	if existing, _ := s.categoryRepo.FindByName(req.Name); existing != nil {
		return ErrCategoryExists
	}
	req.CreatedBy = userID
	req.UpdatedBy = userID
	return s.categoryRepo.Create(req)
}

func (s *catalogService) UpdateCategory(id uuid.UUID, req *model.Category, userID string) (*model.Category, error) {
	existing, err := s.categoryRepo.FindByID(id)
	if err != nil {
		return nil, ErrCategoryNotFound
	}
	if req.Name != existing.Name {
		if other, _ := s.categoryRepo.FindByName(req.Name); other != nil && other.ID != existing.ID {
			return nil, ErrCategoryExists
		}
	}

	existing.Name = req.Name
	existing.Description = req.Description
	existing.IsActive = req.IsActive
	existing.UpdatedBy = userID

	if errs := validator.ValidateStruct(existing); len(errs) > 0 {
		first := errs[0]
		return nil, fmt.Errorf("validation failed: field '%s' failed on tag '%s'", first.FailedField, first.Tag)
	}
	if err := s.categoryRepo.Update(existing); err != nil {
		return nil, err
	}
	return existing, nil
}

func (s *catalogService) DeleteCategory(id uuid.UUID) error {
	if _, err := s.categoryRepo.FindByID(id); err != nil {
		return ErrCategoryNotFound
	}
	count, err := s.categoryRepo.CountProducts(id)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrCategoryInUse
	}
	return s.categoryRepo.Delete(id)
}

func (s *catalogService) GetAllCategories(search string) ([]model.Category, error) {
	return s.categoryRepo.FindAll(search)
}

func (s *catalogService) GetCategoryByID(id uuid.UUID) (*model.Category, error) {
	category, err := s.categoryRepo.FindByID(id)
	if err != nil {
		return nil, ErrCategoryNotFound
	}
	return category, nil
}

package service

import (
	"errors"
	"fmt"
	"time"

	"go-beauty-pos/internal/model"
	"go-beauty-pos/internal/repository"
	"go-beauty-pos/pkg/validator"

	"github.com/google/uuid"
)

var (
	ErrDiscountNotFound   = errors.New("discount not found")
	ErrInvalidValidWindow = errors.New("valid_until must not be before valid_from")
)

type DiscountService interface {
	CreateDiscount(req *model.Discount, userID string) error
	UpdateDiscount(id uuid.UUID, req *model.Discount, userID string) (*model.Discount, error)
	DeleteDiscount(id uuid.UUID) error
	GetAllDiscounts(search, discountType string, isActive *bool) ([]model.Discount, error)
	GetDiscountByID(id uuid.UUID) (*model.Discount, error)
	// GetActiveDiscounts lists discounts the POS screen may offer right now.
	GetActiveDiscounts() ([]model.Discount, error)
}

type discountService struct {
	discountRepo repository.DiscountRepository
}

func NewDiscountService(discountRepo repository.DiscountRepository) DiscountService {
	return &discountService{discountRepo: discountRepo}
}

func validateDiscount(d *model.Discount) error {
	if errs := validator.ValidateStruct(d); len(errs) > 0 {
		first := errs[0]
		return fmt.Errorf("validation failed: field '%s' failed on tag '%s'", first.FailedField, first.Tag)
	}
	if d.Value < 0 || (d.Type == model.DiscountPercentage && d.Value > 100) {
		return model.ErrInvalidDiscount
	}
	if d.ValidUntil.Before(d.ValidFrom) {
		return ErrInvalidValidWindow
	}
	return nil
}

func (s *discountService) CreateDiscount(req *model.Discount, userID string) error {
	if err := validateDiscount(req); err != nil {
		return err
	}
	req.UsedCount = 0
	req.CreatedBy = userID
	req.UpdatedBy = userID
	return s.discountRepo.Create(req)
}

func (s *discountService) UpdateDiscount(id uuid.UUID, req *model.Discount, userID string) (*model.Discount, error) {
	existing, err := s.discountRepo.FindByID(id)
	if err != nil {
		return nil, ErrDiscountNotFound
	}

	existing.Name = req.Name
	existing.Description = req.Description
	existing.Type = req.Type
	existing.Value = req.Value
	existing.MinimumAmount = req.MinimumAmount
	existing.MaximumDiscount = req.MaximumDiscount
	existing.ValidFrom = req.ValidFrom
	existing.ValidUntil = req.ValidUntil
	existing.UsageLimit = req.UsageLimit
	existing.IsActive = req.IsActive
	existing.UpdatedBy = userID
	// UsedCount is owned by the checkout engine and never edited here.

	if err := validateDiscount(existing); err != nil {
		return nil, err
	}
	if err := s.discountRepo.Update(existing); err != nil {
		return nil, err
	}
	return existing, nil
}

func (s *discountService) DeleteDiscount(id uuid.UUID) error {
	if _, err := s.discountRepo.FindByID(id); err != nil {
		return ErrDiscountNotFound
	}
	return s.discountRepo.Delete(id)
}

func (s *discountService) GetAllDiscounts(search, discountType string, isActive *bool) ([]model.Discount, error) {
	return s.discountRepo.FindAll(search, discountType, isActive)
}

func (s *discountService) GetDiscountByID(id uuid.UUID) (*model.Discount, error) {
	discount, err := s.discountRepo.FindByID(id)
	if err != nil {
		return nil, ErrDiscountNotFound
	}
	return discount, nil
}

func (s *discountService) GetActiveDiscounts() ([]model.Discount, error) {
	return s.discountRepo.FindActive(time.Now())
}

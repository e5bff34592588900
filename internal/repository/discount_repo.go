package repository

import (
	"time"

	"go-beauty-pos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DiscountRepository interface {
	Create(discount *model.Discount) error
	FindAll(search string, discountType string, isActive *bool) ([]model.Discount, error)
	FindByID(id uuid.UUID) (*model.Discount, error)
	// FindActive returns discounts usable at the given moment: flagged
	// active, inside their validity window, and not exhausted.
	FindActive(at time.Time) ([]model.Discount, error)
	Update(discount *model.Discount) error
	Delete(id uuid.UUID) error
}

type discountRepo struct {
	db *gorm.DB
}

func NewDiscountRepo(db *gorm.DB) DiscountRepository {
	return &discountRepo{db}
}

func (r *discountRepo) Create(discount *model.Discount) error {
	return r.db.Create(discount).Error
}

func (r *discountRepo) FindAll(search string, discountType string, isActive *bool) ([]model.Discount, error) {
	var discounts []model.Discount
	query := r.db.Order("created_at DESC")
	if search != "" {
		like := "%" + search + "%"
		query = query.Where("name ILIKE ? OR description ILIKE ?", like, like)
	}
	if discountType != "" {
		query = query.Where("type = ?", discountType)
	}
	if isActive != nil {
		query = query.Where("is_active = ?", *isActive)
	}
	err := query.Find(&discounts).Error
	return discounts, err
}

func (r *discountRepo) FindByID(id uuid.UUID) (*model.Discount, error) {
	var discount model.Discount
	if err := r.db.First(&discount, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &discount, nil
}

func (r *discountRepo) FindActive(at time.Time) ([]model.Discount, error) {
	var discounts []model.Discount
	err := r.db.
		Where("is_active = ?", true).
		Where("usage_limit IS NULL OR used_count < usage_limit").
		Order("name ASC").
		Find(&discounts).Error
	if err != nil {
		return nil, err
	}
	// Window check in Go so the inclusive end-of-day rule matches ActiveAt.
	active := discounts[:0]
	for _, d := range discounts {
		if d.ActiveAt(at) {
			active = append(active, d)
		}
	}
	return active, nil
}

func (r *discountRepo) Update(discount *model.Discount) error {
	return r.db.Save(discount).Error
}

func (r *discountRepo) Delete(id uuid.UUID) error {
	return r.db.Delete(&model.Discount{}, "id = ?", id).Error
}

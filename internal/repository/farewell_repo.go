package repository

import (
	"go-beauty-pos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type FarewellMessageRepository interface {
	Create(message *model.FarewellMessage) error
	FindAll() ([]model.FarewellMessage, error)
	FindByID(id uuid.UUID) (*model.FarewellMessage, error)
	// FindRandomActive picks one active message at random for the receipt
	// footer.
	FindRandomActive() (*model.FarewellMessage, error)
	Update(message *model.FarewellMessage) error
	Delete(id uuid.UUID) error
	SeedDefaults() error
}

type farewellRepo struct {
	db *gorm.DB
}

func NewFarewellMessageRepo(db *gorm.DB) FarewellMessageRepository {
	return &farewellRepo{db}
}

func (r *farewellRepo) Create(message *model.FarewellMessage) error {
	return r.db.Create(message).Error
}

func (r *farewellRepo) FindAll() ([]model.FarewellMessage, error) {
	var messages []model.FarewellMessage
	err := r.db.Order("created_at ASC").Find(&messages).Error
	return messages, err
}

func (r *farewellRepo) FindByID(id uuid.UUID) (*model.FarewellMessage, error) {
	var message model.FarewellMessage
	if err := r.db.First(&message, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &message, nil
}

func (r *farewellRepo) FindRandomActive() (*model.FarewellMessage, error) {
	var message model.FarewellMessage
	err := r.db.Where("is_active = ?", true).
		Order("RANDOM()").
		First(&message).Error
	if err != nil {
		return nil, err
	}
	return &message, nil
}

func (r *farewellRepo) Update(message *model.FarewellMessage) error {
	return r.db.Save(message).Error
}

func (r *farewellRepo) Delete(id uuid.UUID) error {
	return r.db.Delete(&model.FarewellMessage{}, "id = ?", id).Error
}

// SeedDefaults inserts the stock farewell lines once.
func (r *farewellRepo) SeedDefaults() error {
	var count int64
	if err := r.db.Model(&model.FarewellMessage{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	for _, text := range model.DefaultFarewellMessages {
		msg := model.FarewellMessage{Message: text, IsActive: true}
		msg.CreatedBy = "system"
		msg.UpdatedBy = "system"
		if err := r.db.Create(&msg).Error; err != nil {
			return err
		}
	}
	return nil
}

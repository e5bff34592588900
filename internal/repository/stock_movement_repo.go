package repository

import (
	"time"

	"go-beauty-pos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StockFlowData is one day of aggregated inbound/outbound units for the
// dashboard chart.
type StockFlowData struct {
	Date     string `json:"date"`
	Inbound  int    `json:"inbound"`
	Outbound int    `json:"outbound"`
}

type StockMovementRepository interface {
	Create(movement *model.StockMovement) error
	FindByProduct(productID uuid.UUID, limit int) ([]model.StockMovement, error)
	FindAll(from, to time.Time) ([]model.StockMovement, error)
	GetStockFlow(from, to time.Time) ([]StockFlowData, error)
}

type stockMovementRepo struct {
	db *gorm.DB
}

func NewStockMovementRepo(db *gorm.DB) StockMovementRepository {
	return &stockMovementRepo{db}
}

func (r *stockMovementRepo) Create(movement *model.StockMovement) error {
	return r.db.Create(movement).Error
}

func (r *stockMovementRepo) FindByProduct(productID uuid.UUID, limit int) ([]model.StockMovement, error) {
	var movements []model.StockMovement
	query := r.db.Preload("User").
		Where("product_id = ?", productID).
		Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	err := query.Find(&movements).Error
	return movements, err
}

func (r *stockMovementRepo) FindAll(from, to time.Time) ([]model.StockMovement, error) {
	var movements []model.StockMovement
	err := r.db.Preload("Product").Preload("User").
		Where("created_at BETWEEN ? AND ?", from, to).
		Order("created_at DESC").
		Find(&movements).Error
	return movements, err
}

func (r *stockMovementRepo) GetStockFlow(from, to time.Time) ([]StockFlowData, error) {
	var results []StockFlowData

	rows, err := r.db.Model(&model.StockMovement{}).
		Select(`
			DATE(created_at) as date,
			COALESCE(SUM(CASE WHEN type = 'in' THEN quantity ELSE 0 END), 0) as inbound,
			COALESCE(SUM(CASE WHEN type IN ('out', 'sale') THEN quantity ELSE 0 END), 0) as outbound
		`).
		Where("created_at BETWEEN ? AND ?", from, to).
		Group("DATE(created_at)").
		Order("date ASC").
		Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var data StockFlowData
		if err := rows.Scan(&data.Date, &data.Inbound, &data.Outbound); err != nil {
			return nil, err
		}
		results = append(results, data)
	}
	return results, nil
}

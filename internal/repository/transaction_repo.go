package repository

import (
	"time"

	"go-beauty-pos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TransactionFilter narrows transaction listings.
type TransactionFilter struct {
	Search   string
	DateFrom *time.Time
	DateTo   *time.Time
	Limit    int
	Offset   int
}

// DailySales aggregates one day of committed sales.
type DailySales struct {
	TotalTransactions int64   `json:"total_transactions"`
	TotalSubtotal     float64 `json:"total_subtotal"`
	TotalDiscounts    float64 `json:"total_discounts"`
	TotalTax          float64 `json:"total_tax"`
	TotalSales        float64 `json:"total_sales"`
}

// DailySalesPoint is one day in a monthly report.
type DailySalesPoint struct {
	Date         string  `json:"date"`
	Transactions int64   `json:"transactions"`
	TotalSales   float64 `json:"total_sales"`
}

type TransactionRepository interface {
	FindAll(filter TransactionFilter) ([]model.Transaction, int64, error)
	FindByID(id uuid.UUID) (*model.Transaction, error)
	GetDailySales(date time.Time) (*DailySales, error)
	GetMonthlyReport(year int, month time.Month) ([]DailySalesPoint, error)
}

type transactionRepo struct {
	db *gorm.DB
}

func NewTransactionRepo(db *gorm.DB) TransactionRepository {
	return &transactionRepo{db}
}

func (r *transactionRepo) FindAll(filter TransactionFilter) ([]model.Transaction, int64, error) {
	var transactions []model.Transaction
	query := r.db.Model(&model.Transaction{})

	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where(
			"transaction_number ILIKE ? OR customer_name ILIKE ? OR customer_email ILIKE ?",
			like, like, like,
		)
	}
	if filter.DateFrom != nil {
		query = query.Where("created_at >= ?", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		query = query.Where("created_at < ?", filter.DateTo.AddDate(0, 0, 1))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.Limit > 0 {
		query = query.Limit(filter.Limit).Offset(filter.Offset)
	}

	err := query.
		Preload("User").
		Preload("Items.Product").
		Preload("Discount").
		Order("created_at DESC").
		Find(&transactions).Error
	return transactions, total, err
}

func (r *transactionRepo) FindByID(id uuid.UUID) (*model.Transaction, error) {
	var transaction model.Transaction
	err := r.db.
		Preload("User").
		Preload("Items.Product").
		Preload("Discount").
		First(&transaction, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &transaction, nil
}

func (r *transactionRepo) GetDailySales(date time.Time) (*DailySales, error) {
	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	var sales DailySales
	err := r.db.Model(&model.Transaction{}).
		Where("created_at >= ? AND created_at < ?", dayStart, dayEnd).
		Select(`
			COUNT(*) as total_transactions,
			COALESCE(SUM(subtotal), 0) as total_subtotal,
			COALESCE(SUM(discount_amount), 0) as total_discounts,
			COALESCE(SUM(tax_amount), 0) as total_tax,
			COALESCE(SUM(total_amount), 0) as total_sales
		`).
		Scan(&sales).Error
	return &sales, err
}

func (r *transactionRepo) GetMonthlyReport(year int, month time.Month) ([]DailySalesPoint, error) {
	monthStart := time.Date(year, month, 1, 0, 0, 0, 0, time.Local)
	monthEnd := monthStart.AddDate(0, 1, 0)

	var points []DailySalesPoint
	rows, err := r.db.Model(&model.Transaction{}).
		Select(`
			DATE(created_at) as date,
			COUNT(*) as transactions,
			COALESCE(SUM(total_amount), 0) as total_sales
		`).
		Where("created_at >= ? AND created_at < ?", monthStart, monthEnd).
		Group("DATE(created_at)").
		Order("date ASC").
		Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var point DailySalesPoint
		if err := rows.Scan(&point.Date, &point.Transactions, &point.TotalSales); err != nil {
			return nil, err
		}
		points = append(points, point)
	}
	return points, nil
}

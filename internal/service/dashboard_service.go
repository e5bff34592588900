package service

import (
	"time"

	"go-beauty-pos/internal/repository"
)

// DashboardStats is the overview block shown on the home screen.
type DashboardStats struct {
	Inventory *repository.InventoryStats `json:"inventory"`
	Today     *repository.DailySales     `json:"today"`
}

type DashboardService interface {
	GetDashboardStats() (*DashboardStats, error)
	GetSalesChart(year int, month time.Month) ([]repository.DailySalesPoint, error)
	GetStockFlow(days int) ([]repository.StockFlowData, error)
}

type dashboardService struct {
	productRepo  repository.ProductRepository
	txRepo       repository.TransactionRepository
	movementRepo repository.StockMovementRepository
}

func NewDashboardService(
	productRepo repository.ProductRepository,
	txRepo repository.TransactionRepository,
	movementRepo repository.StockMovementRepository,
) DashboardService {
	return &dashboardService{
		productRepo:  productRepo,
		txRepo:       txRepo,
		movementRepo: movementRepo,
	}
}

func (s *dashboardService) GetDashboardStats() (*DashboardStats, error) {
	inventory, err := s.productRepo.GetInventoryStats()
	if err != nil {
		return nil, err
	}
	today, err := s.txRepo.GetDailySales(time.Now())
	if err != nil {
		return nil, err
	}
	return &DashboardStats{
		Inventory: inventory,
		Today:     today,
	}, nil
}

func (s *dashboardService) GetSalesChart(year int, month time.Month) ([]repository.DailySalesPoint, error) {
	return s.txRepo.GetMonthlyReport(year, month)
}

func (s *dashboardService) GetStockFlow(days int) ([]repository.StockFlowData, error) {
	endDate := time.Now()
	startDate := endDate.AddDate(0, 0, -days)
	return s.movementRepo.GetStockFlow(startDate, endDate)
}

package repository

import (
	"math"
	"time"

	"go-beauty-pos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FeedbackAnalytics summarizes ratings over a date range.
type FeedbackAnalytics struct {
	TotalFeedback      int64            `json:"total_feedback"`
	AverageRating      float64          `json:"average_rating"`
	RatingDistribution map[int]int64    `json:"rating_distribution"`
	RecentFeedback     []model.Feedback `json:"recent_feedback"`
}

type FeedbackRepository interface {
	Create(feedback *model.Feedback) error
	FindAll(limit, offset int) ([]model.Feedback, int64, error)
	FindByID(id uuid.UUID) (*model.Feedback, error)
	FindByTransaction(transactionID uuid.UUID) ([]model.Feedback, error)
	GetAnalytics(from, to time.Time) (*FeedbackAnalytics, error)
}

type feedbackRepo struct {
	db *gorm.DB
}

func NewFeedbackRepo(db *gorm.DB) FeedbackRepository {
	return &feedbackRepo{db}
}

func (r *feedbackRepo) Create(feedback *model.Feedback) error {
	return r.db.Create(feedback).Error
}

func (r *feedbackRepo) FindAll(limit, offset int) ([]model.Feedback, int64, error) {
	var feedback []model.Feedback
	query := r.db.Model(&model.Feedback{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if limit > 0 {
		query = query.Limit(limit).Offset(offset)
	}
	err := query.Preload("Transaction").Order("created_at DESC").Find(&feedback).Error
	return feedback, total, err
}

func (r *feedbackRepo) FindByID(id uuid.UUID) (*model.Feedback, error) {
	var feedback model.Feedback
	if err := r.db.Preload("Transaction").First(&feedback, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &feedback, nil
}

func (r *feedbackRepo) FindByTransaction(transactionID uuid.UUID) ([]model.Feedback, error) {
	var feedback []model.Feedback
	err := r.db.Where("transaction_id = ?", transactionID).
		Order("created_at DESC").
		Find(&feedback).Error
	return feedback, err
}

func (r *feedbackRepo) GetAnalytics(from, to time.Time) (*FeedbackAnalytics, error) {
	analytics := &FeedbackAnalytics{
		RatingDistribution: make(map[int]int64),
	}
	inRange := func() *gorm.DB {
		return r.db.Model(&model.Feedback{}).Where("created_at BETWEEN ? AND ?", from, to)
	}

	if err := inRange().Count(&analytics.TotalFeedback).Error; err != nil {
		return nil, err
	}

	var avg *float64
	if err := inRange().Select("AVG(rating)").Scan(&avg).Error; err != nil {
		return nil, err
	}
	if avg != nil {
		analytics.AverageRating = math.Round(*avg*10) / 10
	}

	for rating := 1; rating <= 5; rating++ {
		var count int64
		if err := inRange().Where("rating = ?", rating).Count(&count).Error; err != nil {
			return nil, err
		}
		analytics.RatingDistribution[rating] = count
	}

	err := r.db.Preload("Transaction").
		Where("created_at BETWEEN ? AND ?", from, to).
		Order("created_at DESC").
		Limit(10).
		Find(&analytics.RecentFeedback).Error
	return analytics, err
}

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

var ErrFeedbackNotFound = errors.New("feedback not found")

type FeedbackService interface {
	CreateFeedback(req *model.Feedback) error
	GetAllFeedback(limit, offset int) ([]model.Feedback, int64, error)
	GetFeedbackByID(id uuid.UUID) (*model.Feedback, error)
	GetAnalytics(from, to time.Time) (*repository.FeedbackAnalytics, error)
}

type feedbackService struct {
	feedbackRepo repository.FeedbackRepository
	txRepo       repository.TransactionRepository
}

func NewFeedbackService(feedbackRepo repository.FeedbackRepository, txRepo repository.TransactionRepository) FeedbackService {
	return &feedbackService{
		feedbackRepo: feedbackRepo,
		txRepo:       txRepo,
	}
}

func (s *feedbackService) CreateFeedback(req *model.Feedback) error {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		first := errs[0]
		return fmt.Errorf("validation failed: field '%s' failed on tag '%s'", first.FailedField, first.Tag)
	}
	if req.TransactionID != nil {
		if _, err := s.txRepo.FindByID(*req.TransactionID); err != nil {
			return errors.New("transaction not found")
		}
	}
	return s.feedbackRepo.Create(req)
}

func (s *feedbackService) GetAllFeedback(limit, offset int) ([]model.Feedback, int64, error) {
	return s.feedbackRepo.FindAll(limit, offset)
}

func (s *feedbackService) GetFeedbackByID(id uuid.UUID) (*model.Feedback, error) {
	feedback, err := s.feedbackRepo.FindByID(id)
	if err != nil {
		return nil, ErrFeedbackNotFound
	}
	return feedback, nil
}

func (s *feedbackService) GetAnalytics(from, to time.Time) (*repository.FeedbackAnalytics, error) {
	return s.feedbackRepo.GetAnalytics(from, to)
}

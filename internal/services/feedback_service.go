package services

import (
	"context"
	"time"

	"livemart/internal/models"
	"livemart/internal/repositories"
	"livemart/pkg/apperrors"
)

// FeedbackService handles product reviews.
type FeedbackService struct {
	feedbackRepo repositories.FeedbackRepository
	productRepo  repositories.ProductRepository
	userRepo     repositories.UserRepository
}

// NewFeedbackService creates a new FeedbackService.
func NewFeedbackService(
	feedbackRepo repositories.FeedbackRepository,
	productRepo repositories.ProductRepository,
	userRepo repositories.UserRepository,
) *FeedbackService {
	return &FeedbackService{
		feedbackRepo: feedbackRepo,
		productRepo:  productRepo,
		userRepo:     userRepo,
	}
}

// CreateFeedback stores a review after checking the product exists and the
// rating is within bounds. The reviewer's display name is denormalized in.
func (s *FeedbackService) CreateFeedback(ctx context.Context, userID string, feedback *models.Feedback) (*models.Feedback, error) {
	if feedback.ProductID == "" {
		return nil, apperrors.New(apperrors.CodeBadRequest, "product_id is required")
	}
	if feedback.Rating < 1 || feedback.Rating > 5 {
		return nil, apperrors.New(apperrors.CodeBadRequest, "rating must be between 1 and 5")
	}

	if _, err := s.productRepo.GetByID(ctx, feedback.ProductID); err != nil {
		return nil, err
	}

	feedback.UserID = userID
	feedback.UserName = "User"
	if user, err := s.userRepo.GetByID(ctx, userID); err == nil {
		feedback.UserName = user.Name
	}
	feedback.CreatedAt = time.Now().UTC()

	if err := s.feedbackRepo.Create(ctx, feedback); err != nil {
		return nil, err
	}
	return feedback, nil
}

// GetProductFeedback lists all reviews for a product.
func (s *FeedbackService) GetProductFeedback(ctx context.Context, productID string) ([]models.Feedback, error) {
	feedback, err := s.feedbackRepo.GetByProductID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if feedback == nil {
		feedback = []models.Feedback{}
	}
	return feedback, nil
}

package repositories

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"livemart/internal/models"
)

// FeedbackRepository defines the interface for product review data access.
type FeedbackRepository interface {
	Create(ctx context.Context, feedback *models.Feedback) error
	GetByProductID(ctx context.Context, productID string) ([]models.Feedback, error)
}

// GORMFeedbackRepository is a GORM implementation of FeedbackRepository.
type GORMFeedbackRepository struct {
	db *gorm.DB
}

// NewGORMFeedbackRepository creates a new instance of GORMFeedbackRepository.
func NewGORMFeedbackRepository(db *gorm.DB) *GORMFeedbackRepository {
	return &GORMFeedbackRepository{
		db: db,
	}
}

// Create stores a review.
func (r *GORMFeedbackRepository) Create(ctx context.Context, feedback *models.Feedback) error {
	if feedback.ID == "" {
		feedback.ID = uuid.New().String()
	}
	if err := r.db.WithContext(ctx).Create(feedback).Error; err != nil {
		return classify(err, "failed to create feedback for product %s", feedback.ProductID)
	}
	return nil
}

// GetByProductID retrieves all reviews for a product, newest first.
func (r *GORMFeedbackRepository) GetByProductID(ctx context.Context, productID string) ([]models.Feedback, error) {
	var feedback []models.Feedback
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("created_at DESC").
		Find(&feedback).Error
	if err != nil {
		return nil, classify(err, "failed to get feedback for product %s", productID)
	}
	return feedback, nil
}

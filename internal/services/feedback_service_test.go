package services

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"livemart/internal/models"
	"livemart/internal/repositories"
	"livemart/pkg/apperrors"
)

type memFeedbackRepo struct {
	mu      sync.Mutex
	entries []models.Feedback
}

func (r *memFeedbackRepo) Create(_ context.Context, feedback *models.Feedback) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, *feedback)
	return nil
}

func (r *memFeedbackRepo) GetByProductID(_ context.Context, productID string) ([]models.Feedback, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Feedback
	for _, f := range r.entries {
		if f.ProductID == productID {
			out = append(out, f)
		}
	}
	return out, nil
}

func newFeedbackService(t *testing.T) (*FeedbackService, *memFeedbackRepo) {
	t.Helper()
	products := repositories.NewMockProductRepository()
	seedProducts(t, products,
		models.Product{ID: "p-1", Name: "Bread", Price: priced("35.0"), Stock: 10},
	)
	users := newMemUserRepo(
		models.User{ID: "u-1", Email: "alice@example.com", Name: "Alice", Role: models.RoleConsumer},
	)
	repo := &memFeedbackRepo{}
	return NewFeedbackService(repo, products, users), repo
}

func TestCreateFeedbackDenormalizesUserName(t *testing.T) {
	svc, _ := newFeedbackService(t)

	created, err := svc.CreateFeedback(context.Background(), "u-1", &models.Feedback{
		ProductID: "p-1",
		Rating:    5,
		Comment:   "excellent",
	})
	require.NoError(t, err)
	assert.Equal(t, "Alice", created.UserName)
	assert.Equal(t, "u-1", created.UserID)
	assert.False(t, created.CreatedAt.IsZero())
}

func TestCreateFeedbackUnknownUserFallsBack(t *testing.T) {
	svc, _ := newFeedbackService(t)

	created, err := svc.CreateFeedback(context.Background(), "stranger", &models.Feedback{
		ProductID: "p-1",
		Rating:    3,
	})
	require.NoError(t, err)
	assert.Equal(t, "User", created.UserName)
}

func TestCreateFeedbackValidation(t *testing.T) {
	svc, _ := newFeedbackService(t)

	_, err := svc.CreateFeedback(context.Background(), "u-1", &models.Feedback{ProductID: "p-1", Rating: 0})
	assert.Equal(t, apperrors.CodeBadRequest, apperrors.CodeOf(err))

	_, err = svc.CreateFeedback(context.Background(), "u-1", &models.Feedback{ProductID: "p-1", Rating: 6})
	assert.Equal(t, apperrors.CodeBadRequest, apperrors.CodeOf(err))

	_, err = svc.CreateFeedback(context.Background(), "u-1", &models.Feedback{Rating: 4})
	assert.Equal(t, apperrors.CodeBadRequest, apperrors.CodeOf(err))

	_, err = svc.CreateFeedback(context.Background(), "u-1", &models.Feedback{ProductID: "ghost", Rating: 4})
	assert.Equal(t, apperrors.CodeNotFound, apperrors.CodeOf(err))
}

func TestGetProductFeedbackEmpty(t *testing.T) {
	svc, _ := newFeedbackService(t)

	list, err := svc.GetProductFeedback(context.Background(), "p-1")
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

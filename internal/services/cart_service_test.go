package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"livemart/internal/models"
	"livemart/internal/repositories"
	"livemart/pkg/apperrors"
)

func newCartService(t *testing.T) (*CartService, *memCartRepo, *repositories.MockProductRepository) {
	t.Helper()
	carts := newMemCartRepo()
	products := repositories.NewMockProductRepository()
	seedProducts(t, products,
		models.Product{ID: "p-1", Name: "Bread", Price: priced("35.0"), Stock: 200},
		models.Product{ID: "p-2", Name: "Milk", Price: priced("40.0"), Stock: 300},
	)
	return NewCartService(carts, products), carts, products
}

func TestGetCartReturnsEmptyForNewUser(t *testing.T) {
	svc, _, _ := newCartService(t)

	cart, err := svc.GetCart(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, "user-1", cart.UserID)
	assert.Empty(t, cart.Items)
}

func TestAddItemCreatesCartAndMergesQuantities(t *testing.T) {
	svc, _, _ := newCartService(t)

	cart, err := svc.AddItem(context.Background(), "user-1", "p-1", 2)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 2, cart.Items[0].Quantity)

	cart, err = svc.AddItem(context.Background(), "user-1", "p-1", 3)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 5, cart.Items[0].Quantity)

	cart, err = svc.AddItem(context.Background(), "user-1", "p-2", 1)
	require.NoError(t, err)
	assert.Len(t, cart.Items, 2)
}

func TestAddItemRejectsUnknownProduct(t *testing.T) {
	svc, _, _ := newCartService(t)

	_, err := svc.AddItem(context.Background(), "user-1", "ghost", 1)
	assert.Equal(t, apperrors.CodeBadRequest, apperrors.CodeOf(err))
}

func TestAddItemRejectsNonPositiveQuantity(t *testing.T) {
	svc, _, _ := newCartService(t)

	_, err := svc.AddItem(context.Background(), "user-1", "p-1", 0)
	assert.Equal(t, apperrors.CodeBadRequest, apperrors.CodeOf(err))

	_, err = svc.AddItem(context.Background(), "user-1", "p-1", -4)
	assert.Equal(t, apperrors.CodeBadRequest, apperrors.CodeOf(err))
}

func TestUpdateItemSetsQuantity(t *testing.T) {
	svc, _, _ := newCartService(t)
	_, err := svc.AddItem(context.Background(), "user-1", "p-1", 2)
	require.NoError(t, err)

	cart, err := svc.UpdateItem(context.Background(), "user-1", "p-1", 7)
	require.NoError(t, err)
	assert.Equal(t, 7, cart.Items[0].Quantity)
}

func TestUpdateItemMissingLine(t *testing.T) {
	svc, _, _ := newCartService(t)
	_, err := svc.AddItem(context.Background(), "user-1", "p-1", 2)
	require.NoError(t, err)

	_, err = svc.UpdateItem(context.Background(), "user-1", "p-2", 1)
	assert.Equal(t, apperrors.CodeNotFound, apperrors.CodeOf(err))
}

func TestRemoveItemDropsLine(t *testing.T) {
	svc, _, _ := newCartService(t)
	_, err := svc.AddItem(context.Background(), "user-1", "p-1", 2)
	require.NoError(t, err)
	_, err = svc.AddItem(context.Background(), "user-1", "p-2", 1)
	require.NoError(t, err)

	cart, err := svc.RemoveItem(context.Background(), "user-1", "p-1")
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, "p-2", cart.Items[0].ProductID)
}

func TestClearCartIsIdempotent(t *testing.T) {
	svc, carts, _ := newCartService(t)
	_, err := svc.AddItem(context.Background(), "user-1", "p-1", 2)
	require.NoError(t, err)

	require.NoError(t, svc.ClearCart(context.Background(), "user-1"))
	assert.Empty(t, carts.carts)

	cart, err := svc.GetCart(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
}

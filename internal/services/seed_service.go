package services

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"livemart/internal/models"
	"livemart/internal/repositories"
	"livemart/pkg/apperrors"
)

// SeedService loads the demo fixture data: two seller accounts, three
// categories, and a small catalog. Idempotent; existing rows are kept or
// replaced in place.
type SeedService struct {
	userRepo     repositories.UserRepository
	categoryRepo repositories.CategoryRepository
	productRepo  repositories.ProductRepository
	log          zerolog.Logger
}

// NewSeedService creates a new SeedService.
func NewSeedService(
	userRepo repositories.UserRepository,
	categoryRepo repositories.CategoryRepository,
	productRepo repositories.ProductRepository,
	log zerolog.Logger,
) *SeedService {
	return &SeedService{
		userRepo:     userRepo,
		categoryRepo: categoryRepo,
		productRepo:  productRepo,
		log:          log,
	}
}

// Seed inserts the fixture users, categories, and products.
func (s *SeedService) Seed(ctx context.Context) error {
	hashed, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeInternal, err, "failed to hash seed password")
	}

	users := []models.User{
		{ID: "wh1", Name: "Wholesaler One", Role: models.RoleWholesaler, Email: "wh1@example.com", Phone: "000", Password: string(hashed)},
		{ID: "ret1", Name: "Retailer One", Role: models.RoleRetailer, Email: "ret1@example.com", Phone: "111", Password: string(hashed)},
	}
	for i := range users {
		if existing, err := s.userRepo.GetByEmail(ctx, users[i].Email); err == nil && existing != nil {
			continue
		}
		if err := s.userRepo.Create(ctx, &users[i]); err != nil {
			return err
		}
	}

	categories := []models.Category{
		{ID: "c1", Name: "Fruits"},
		{ID: "c2", Name: "Dairy"},
		{ID: "c3", Name: "Bakery"},
	}
	for i := range categories {
		if err := s.categoryRepo.Upsert(ctx, &categories[i]); err != nil {
			return err
		}
	}

	products := []models.Product{
		{ID: "p_wh_apple", Name: "Apple (WH)", CategoryID: "c1", Price: decimal.NewFromInt(70), Stock: 500, SellerID: "wh1", Description: "Fresh red apples"},
		{ID: "p_wh_milk", Name: "Milk (WH)", CategoryID: "c2", Price: decimal.NewFromInt(40), Stock: 300, SellerID: "wh1", Description: "Fresh dairy milk"},
		{ID: "p_wh_bread", Name: "Bread (WH)", CategoryID: "c3", Price: decimal.NewFromInt(35), Stock: 200, SellerID: "wh1", Description: "Fresh baked bread"},
		{ID: "p_ret_bread", Name: "Bread (Retail)", CategoryID: "c3", Price: decimal.NewFromInt(50), Stock: 20, SellerID: "ret1", Description: "Premium bread"},
	}
	for i := range products {
		if err := s.productRepo.Upsert(ctx, &products[i]); err != nil {
			return err
		}
	}

	s.log.Info().Int("users", len(users)).Int("categories", len(categories)).Int("products", len(products)).Msg("seed data loaded")
	return nil
}

package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"livemart/internal/models"
	"livemart/internal/repositories"
	"livemart/pkg/apperrors"
	"livemart/pkg/rabbitmq"
)

// CheckoutItem is one requested product+quantity pair.
type CheckoutItem struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// CheckoutRequest is the input to PlaceOrder.
type CheckoutRequest struct {
	Items           []CheckoutItem `json:"items"`
	DeliveryAddress string         `json:"delivery_address"`
	PaymentMethod   string         `json:"payment_method,omitempty"`
}

// OrderEventPublisher abstracts the message broker. A nil publisher disables
// events without changing the checkout outcome.
type OrderEventPublisher interface {
	PublishOrderEvent(event rabbitmq.OrderEvent) error
}

// CheckoutService converts a validated item list into a durable order:
// validate stock, build priced line items, persist, debit inventory, clear
// the cart. Once the order insert succeeds the workflow never rolls it back;
// later failures surface as PartialFulfillment or degrade to warnings.
type CheckoutService struct {
	orderRepo    repositories.OrderRepository
	productRepo  repositories.ProductRepository
	cartRepo     repositories.CartRepository
	userRepo     repositories.UserRepository
	purchaseRepo repositories.PurchaseRepository
	events       OrderEventPublisher

	defaultPaymentMethod string
	storeTimeout         time.Duration
	log                  zerolog.Logger
}

// NewCheckoutService creates a new CheckoutService. purchaseRepo and events
// may be nil; the corresponding steps are skipped.
func NewCheckoutService(
	orderRepo repositories.OrderRepository,
	productRepo repositories.ProductRepository,
	cartRepo repositories.CartRepository,
	userRepo repositories.UserRepository,
	purchaseRepo repositories.PurchaseRepository,
	events OrderEventPublisher,
	defaultPaymentMethod string,
	storeTimeout time.Duration,
	log zerolog.Logger,
) *CheckoutService {
	if defaultPaymentMethod == "" {
		defaultPaymentMethod = "online"
	}
	return &CheckoutService{
		orderRepo:            orderRepo,
		productRepo:          productRepo,
		cartRepo:             cartRepo,
		userRepo:             userRepo,
		purchaseRepo:         purchaseRepo,
		events:               events,
		defaultPaymentMethod: defaultPaymentMethod,
		storeTimeout:         storeTimeout,
		log:                  log,
	}
}

// withTimeout bounds a single store call. Expired deadlines are classified as
// Unavailable by the repositories.
func (s *CheckoutService) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.storeTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.storeTimeout)
}

// PlaceOrder runs the checkout workflow for a user. On PartialFulfillment the
// persisted order is returned together with the error, since the order is the
// authoritative outcome and must not be hidden from the caller.
func (s *CheckoutService) PlaceOrder(ctx context.Context, userID string, req CheckoutRequest) (*models.Order, error) {
	if err := validateCheckoutRequest(req); err != nil {
		return nil, err
	}

	user, err := s.fetchUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := s.validateStock(ctx, req.Items); err != nil {
		return nil, err
	}

	order, err := s.buildOrder(ctx, userID, req)
	if err != nil {
		return nil, err
	}

	if err := s.persistOrder(ctx, order); err != nil {
		return nil, err
	}

	// Commit point: the order exists. Nothing below may undo it.
	if err := s.debitInventory(ctx, order); err != nil {
		return order, err
	}

	s.clearCart(ctx, userID)
	s.recordPurchases(ctx, user, order)
	s.publishEvent(order, rabbitmq.EventOrderPlaced, "")

	return order, nil
}

// GetOrdersForUser lists a user's orders.
func (s *CheckoutService) GetOrdersForUser(ctx context.Context, userID string) ([]models.Order, error) {
	callCtx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.orderRepo.GetByUserID(callCtx, userID)
}

// GetOrderByID fetches one order.
func (s *CheckoutService) GetOrderByID(ctx context.Context, orderID string) (*models.Order, error) {
	callCtx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.orderRepo.GetByID(callCtx, orderID)
}

func validateCheckoutRequest(req CheckoutRequest) error {
	if len(req.Items) == 0 {
		return apperrors.New(apperrors.CodeBadRequest, "items missing")
	}
	if req.DeliveryAddress == "" {
		return apperrors.New(apperrors.CodeBadRequest, "delivery address required")
	}
	for _, item := range req.Items {
		if item.ProductID == "" {
			return apperrors.New(apperrors.CodeBadRequest, "product_id required for every item")
		}
		if item.Quantity <= 0 {
			return apperrors.Newf(apperrors.CodeBadRequest, "quantity must be greater than 0 for product %s", item.ProductID)
		}
	}
	return nil
}

func (s *CheckoutService) fetchUser(ctx context.Context, userID string) (*models.User, error) {
	callCtx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.userRepo.GetByID(callCtx, userID)
}

// validateStock checks every requested quantity against current stock. Read
// only, so it is safe to call repeatedly; the authoritative guard is the
// conditional debit later.
func (s *CheckoutService) validateStock(ctx context.Context, items []CheckoutItem) error {
	for _, item := range items {
		callCtx, cancel := s.withTimeout(ctx)
		product, err := s.productRepo.GetByID(callCtx, item.ProductID)
		cancel()
		if err != nil {
			return err
		}
		if product.Stock < item.Quantity {
			return apperrors.Wrap(apperrors.CodeInsufficientStock, &apperrors.InsufficientStockError{
				ProductID:   product.ID,
				ProductName: product.Name,
				Requested:   item.Quantity,
				Available:   product.Stock,
			}, "stock validation failed")
		}
	}
	return nil
}

// buildOrder re-fetches each product and snapshots its current name, price,
// and seller into immutable line items. A product that vanished since
// validation is a hard NotFound failure.
func (s *CheckoutService) buildOrder(ctx context.Context, userID string, req CheckoutRequest) (*models.Order, error) {
	orderItems := make([]models.OrderItem, 0, len(req.Items))
	total := decimal.Zero

	for _, item := range req.Items {
		callCtx, cancel := s.withTimeout(ctx)
		product, err := s.productRepo.GetByID(callCtx, item.ProductID)
		cancel()
		if err != nil {
			return nil, err
		}

		subtotal := product.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
		total = total.Add(subtotal)

		orderItems = append(orderItems, models.OrderItem{
			ProductID:   product.ID,
			ProductName: product.Name,
			Quantity:    item.Quantity,
			Price:       product.Price,
			Subtotal:    subtotal,
			SellerID:    product.SellerID,
		})
	}

	paymentMethod := req.PaymentMethod
	if paymentMethod == "" {
		paymentMethod = s.defaultPaymentMethod
	}

	return &models.Order{
		ID:              uuid.New().String(),
		UserID:          userID,
		Items:           orderItems,
		TotalAmount:     total,
		DeliveryAddress: req.DeliveryAddress,
		PaymentMethod:   paymentMethod,
		PaymentStatus:   models.PaymentStatusPending,
		OrderStatus:     models.OrderStatusPlaced,
		CreatedAt:       time.Now().UTC(),
	}, nil
}

// persistOrder durably inserts the order. An identifier collision gets one
// regenerate-and-retry before the Conflict is surfaced.
func (s *CheckoutService) persistOrder(ctx context.Context, order *models.Order) error {
	callCtx, cancel := s.withTimeout(ctx)
	err := s.orderRepo.Create(callCtx, order)
	cancel()
	if err == nil {
		return nil
	}
	if apperrors.CodeOf(err) != apperrors.CodeConflict {
		return err
	}

	s.log.Warn().Str("order_id", order.ID).Msg("order id collision, regenerating")
	order.ID = uuid.New().String()
	for i := range order.Items {
		order.Items[i].OrderID = ""
	}

	callCtx, cancel = s.withTimeout(ctx)
	defer cancel()
	return s.orderRepo.Create(callCtx, order)
}

// debitInventory applies one conditional decrement per line item. If any
// decrement is rejected the already-applied ones are re-credited and the
// failure surfaces as PartialFulfillment wrapping the cause, because the
// order is already durable and stock no longer matches it.
func (s *CheckoutService) debitInventory(ctx context.Context, order *models.Order) error {
	for i, item := range order.Items {
		callCtx, cancel := s.withTimeout(ctx)
		err := s.productRepo.DebitStock(callCtx, item.ProductID, item.Quantity)
		cancel()
		if err == nil {
			continue
		}

		s.compensateDebits(ctx, order.Items[:i])

		if apperrors.IsCode(err, apperrors.CodeInsufficientStock) {
			// The order cannot be fulfilled at all; transition it out of
			// "placed" so it is not picked up downstream.
			s.cancelOrder(ctx, order)
		}

		s.publishEvent(order, rabbitmq.EventFulfillmentAlert, err.Error())
		s.log.Error().Err(err).
			Str("order_id", order.ID).
			Str("product_id", item.ProductID).
			Msg("inventory debit failed after order persist")

		return apperrors.Wrap(apperrors.CodePartialFulfillment, &apperrors.PartialFulfillmentError{
			OrderID: order.ID,
			Cause:   err,
		}, "inventory debit incomplete")
	}
	return nil
}

// compensateDebits re-credits units that were already taken before a later
// debit was rejected.
func (s *CheckoutService) compensateDebits(ctx context.Context, debited []models.OrderItem) {
	for _, item := range debited {
		callCtx, cancel := s.withTimeout(ctx)
		err := s.productRepo.RestockStock(callCtx, item.ProductID, item.Quantity)
		cancel()
		if err != nil {
			s.log.Error().Err(err).
				Str("product_id", item.ProductID).
				Int("quantity", item.Quantity).
				Msg("compensating restock failed, inventory needs manual reconciliation")
		}
	}
}

func (s *CheckoutService) cancelOrder(ctx context.Context, order *models.Order) {
	callCtx, cancel := s.withTimeout(ctx)
	defer cancel()
	if err := s.orderRepo.UpdateStatus(callCtx, order.ID, models.OrderStatusCancelled); err != nil {
		s.log.Error().Err(err).Str("order_id", order.ID).Msg("failed to cancel unfulfillable order")
		return
	}
	order.OrderStatus = models.OrderStatusCancelled
}

// clearCart removes the ordering user's cart. Failure here never affects the
// order outcome; the order is the authoritative result.
func (s *CheckoutService) clearCart(ctx context.Context, userID string) {
	callCtx, cancel := s.withTimeout(ctx)
	defer cancel()
	if err := s.cartRepo.DeleteByUserID(callCtx, userID); err != nil {
		s.log.Warn().Err(err).Str("user_id", userID).Msg("failed to clear cart after checkout")
	}
}

// recordPurchases writes one wholesale purchase record per wholesaler seller
// when the buyer is a retailer, feeding the dashboards. Non-fatal.
func (s *CheckoutService) recordPurchases(ctx context.Context, user *models.User, order *models.Order) {
	if s.purchaseRepo == nil || user.Role != models.RoleRetailer {
		return
	}

	totals := make(map[string]decimal.Decimal)
	for _, item := range order.Items {
		if item.SellerID == "" {
			continue
		}
		totals[item.SellerID] = totals[item.SellerID].Add(item.Subtotal)
	}

	for sellerID, amount := range totals {
		callCtx, cancel := s.withTimeout(ctx)
		seller, err := s.userRepo.GetByID(callCtx, sellerID)
		cancel()
		if err != nil || seller.Role != models.RoleWholesaler {
			continue
		}

		purchase := &models.Purchase{
			RetailerID:   user.ID,
			WholesalerID: sellerID,
			OrderID:      order.ID,
			TotalAmount:  amount,
			CreatedAt:    order.CreatedAt,
		}
		callCtx, cancel = s.withTimeout(ctx)
		err = s.purchaseRepo.Create(callCtx, purchase)
		cancel()
		if err != nil {
			s.log.Warn().Err(err).Str("order_id", order.ID).Msg("failed to record wholesale purchase")
		}
	}
}

func (s *CheckoutService) publishEvent(order *models.Order, eventType, reason string) {
	if s.events == nil {
		return
	}
	err := s.events.PublishOrderEvent(rabbitmq.OrderEvent{
		Type:        eventType,
		OrderID:     order.ID,
		UserID:      order.UserID,
		TotalAmount: order.TotalAmount.String(),
		OrderStatus: order.OrderStatus,
		Reason:      reason,
	})
	if err != nil {
		s.log.Warn().Err(err).Str("order_id", order.ID).Str("type", eventType).Msg("failed to publish order event")
	}
}

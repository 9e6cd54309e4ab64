package order

import (
	"context"
	"errors"
	"fmt"

	"vastra-be/internal/cart"
	"vastra-be/internal/coupon"
	"vastra-be/internal/logger"
	"vastra-be/internal/metrics"
	"vastra-be/internal/notification"
	"vastra-be/internal/product"
	"vastra-be/internal/settings"
	"vastra-be/internal/user"

	"go.uber.org/zap"
)

// Notifier is the fire-and-forget email sink. *notification.Dispatcher
// satisfies it; tests substitute a recorder.
type Notifier interface {
	Dispatch(msg notification.Message)
}

type Service interface {
	Create(ctx context.Context, userID uint, input CreateOrderInput) (*Order, error)
	ListMine(ctx context.Context, userID uint, page, limit int) ([]*Order, int64, error)
	Get(ctx context.Context, userID uint, isAdmin bool, orderID uint) (*Order, error)
	Cancel(ctx context.Context, userID, orderID uint) (*Order, error)
	UpdateStatus(ctx context.Context, orderID uint, status Status, tracking *TrackingInfo) error
}

type service struct {
	repo         Repository
	productRepo  product.Repository
	cartRepo     cart.Repository
	couponSvc    coupon.Service
	settingsRepo settings.Repository
	userRepo     user.Repository
	notifier     Notifier
	metrics      *metrics.Registry
	adminEmail   string
}

func NewService(
	repo Repository,
	productRepo product.Repository,
	cartRepo cart.Repository,
	couponSvc coupon.Service,
	settingsRepo settings.Repository,
	userRepo user.Repository,
	notifier Notifier,
	reg *metrics.Registry,
	adminEmail string,
) Service {
	return &service{
		repo:         repo,
		productRepo:  productRepo,
		cartRepo:     cartRepo,
		couponSvc:    couponSvc,
		settingsRepo: settingsRepo,
		userRepo:     userRepo,
		notifier:     notifier,
		metrics:      reg,
		adminEmail:   adminEmail,
	}
}

// reservation tracks stock already taken so a partial failure can be undone.
type reservation struct {
	productID uint
	quantity  int
}

func (s *service) releaseReservations(ctx context.Context, reserved []reservation) {
	for _, res := range reserved {
		_ = s.productRepo.RestoreStock(ctx, res.productID, res.quantity)
	}
}

func (s *service) Create(ctx context.Context, userID uint, input CreateOrderInput) (*Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "CreateOrder"),
		zap.Uint("user_id", userID),
	)

	// 1. Load the cart
	cartItems, err := s.cartRepo.GetItems(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	if len(cartItems) == 0 {
		return nil, ErrEmptyCart
	}

	// 2. Validate each line against the live catalog and reserve stock.
	// Reservation is a guarded atomic decrement, so two orders racing for
	// the last unit cannot both succeed; on any failure every line already
	// reserved is released and no order exists.
	var (
		items      []Item
		itemsTotal float64
		reserved   []reservation
	)
	for _, ci := range cartItems {
		p, err := s.productRepo.GetByID(ctx, ci.ProductID)
		if err != nil {
			s.releaseReservations(ctx, reserved)
			if errors.Is(err, product.ErrProductNotFound) {
				return nil, product.ErrProductUnavailable
			}
			return nil, err
		}
		if !p.IsActive {
			s.releaseReservations(ctx, reserved)
			return nil, product.ErrProductUnavailable
		}

		if err := s.productRepo.ReserveStock(ctx, p.ID, ci.Quantity); err != nil {
			s.releaseReservations(ctx, reserved)
			if errors.Is(err, product.ErrInsufficientStock) {
				log.Warn("insufficient stock",
					zap.Uint("product_id", p.ID),
					zap.Int("requested", ci.Quantity),
				)
				return nil, product.ErrInsufficientStock
			}
			return nil, err
		}
		reserved = append(reserved, reservation{productID: p.ID, quantity: ci.Quantity})

		price := p.SellingPrice()
		items = append(items, Item{
			ProductID: p.ID,
			Title:     p.Title,
			Image:     p.MainImage(),
			Price:     price,
			Size:      ci.Size,
			Color:     ci.Color,
			Quantity:  ci.Quantity,
		})
		itemsTotal += price * float64(ci.Quantity)
	}

	// 3. Apply the coupon. Invalid coupons are skipped silently; the
	// validate endpoint is the authoritative surface for UI feedback.
	var (
		discount   float64
		couponUsed *string
	)
	if input.CouponCode != "" {
		redemption, err := s.couponSvc.Redeem(ctx, input.CouponCode, itemsTotal)
		if err != nil {
			s.releaseReservations(ctx, reserved)
			return nil, fmt.Errorf("redeem coupon: %w", err)
		}
		if redemption != nil {
			discount = redemption.Discount
			couponUsed = &redemption.Code
		}
	}

	// 4. Shipping from current store settings
	cfg, err := s.settingsRepo.Get(ctx)
	if err != nil {
		s.releaseReservations(ctx, reserved)
		return nil, fmt.Errorf("load settings: %w", err)
	}
	shippingCharge := cfg.ShippingFor(itemsTotal)

	// 5. Total is computed once here and never recomputed.
	totalAmount := itemsTotal - discount + shippingCharge

	status := StatusPending
	if input.PaymentMethod == MethodCOD {
		status = StatusConfirmed
	}

	o := &Order{
		UserID:          userID,
		Items:           items,
		ShippingAddress: input.ShippingAddress,
		PaymentInfo: PaymentInfo{
			Method: input.PaymentMethod,
			Status: PaymentPending,
		},
		ItemsTotal:     itemsTotal,
		ShippingCharge: shippingCharge,
		Discount:       discount,
		CouponUsed:     couponUsed,
		TotalAmount:    totalAmount,
		Status:         status,
	}

	// 6. Persist. The coupon counter is already incremented at this point;
	// the insert is the only fallible step left, and on failure the stock
	// reservation is released.
	if err := s.repo.Create(ctx, o); err != nil {
		s.releaseReservations(ctx, reserved)
		return nil, fmt.Errorf("persist order: %w", err)
	}

	// 7. Clear the cart
	if err := s.cartRepo.Clear(ctx, userID); err != nil {
		log.Error("failed to clear cart after order", zap.Error(err))
	}

	s.metrics.OrdersCreated.Inc()

	log.Info("order placed",
		zap.String("order_number", o.OrderNumber),
		zap.Float64("total", o.TotalAmount),
		zap.Int("line_count", len(o.Items)),
	)

	// 8. Fire-and-forget confirmation emails
	if u, err := s.userRepo.FindByID(ctx, userID); err == nil {
		s.notifier.Dispatch(notification.OrderConfirmation(u.Email, u.Name, o.OrderNumber, o.TotalAmount))
	}
	s.notifier.Dispatch(notification.AdminNewOrder(s.adminEmail, o.OrderNumber, o.TotalAmount))

	return o, nil
}

func (s *service) ListMine(ctx context.Context, userID uint, page, limit int) ([]*Order, int64, error) {
	return s.repo.ListByUser(ctx, userID, page, limit)
}

func (s *service) Get(ctx context.Context, userID uint, isAdmin bool, orderID uint) (*Order, error) {
	o, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !isAdmin && o.UserID != userID {
		return nil, ErrUnauthorized
	}
	return o, nil
}

// Cancel is the compensating transaction for Create: the status flip is a
// CAS from {pending, confirmed}, and only the caller that wins it restores
// stock, so the deltas are returned exactly once.
func (s *service) Cancel(ctx context.Context, userID, orderID uint) (*Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "CancelOrder"),
		zap.Uint("order_id", orderID),
	)

	o, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.UserID != userID {
		return nil, ErrUnauthorized
	}
	if !o.Cancellable() {
		return nil, ErrInvalidState
	}

	cancelled, err := s.repo.Cancel(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !cancelled {
		// Status moved on between the read and the CAS.
		return nil, ErrInvalidState
	}

	for _, it := range o.Items {
		if err := s.productRepo.RestoreStock(ctx, it.ProductID, it.Quantity); err != nil {
			log.Error("failed to restore stock on cancel",
				zap.Uint("product_id", it.ProductID),
				zap.Int("quantity", it.Quantity),
				zap.Error(err),
			)
		}
	}

	s.metrics.OrdersCancelled.Inc()
	log.Info("order cancelled", zap.String("order_number", o.OrderNumber))

	return s.repo.GetByID(ctx, orderID)
}

func (s *service) UpdateStatus(ctx context.Context, orderID uint, status Status, tracking *TrackingInfo) error {
	if !AdminStatuses[status] {
		return fmt.Errorf("invalid status: %s", status)
	}
	return s.repo.UpdateStatus(ctx, orderID, status, tracking)
}
